package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"luxe/internal/core"
)

func expenseOn(id int64, day int) core.Expense {
	return core.Expense{ID: id, Amount: 10, Category: core.Food, Date: core.NewDay(2024, time.June, day)}
}

func TestNewSnapshotOrdersOldestToNewest(t *testing.T) {
	expenses := []core.Expense{expenseOn(3, 3), expenseOn(2, 2), expenseOn(1, 1)}

	snap := NewSnapshot("Ada", expenses, nil)

	if snap.ExpenseCount != 3 {
		t.Errorf("expected expense count 3, got %d", snap.ExpenseCount)
	}
	if len(snap.RecentExpense) != 3 {
		t.Fatalf("expected 3 captured expenses, got %d", len(snap.RecentExpense))
	}
	for i, want := range []int64{1, 2, 3} {
		if snap.RecentExpense[i].ID != want {
			t.Errorf("position %d: expected id %d, got %d", i, want, snap.RecentExpense[i].ID)
		}
	}
}

func TestNewSnapshotCapsRecordCount(t *testing.T) {
	expenses := make([]core.Expense, 30)
	for i := range expenses {
		expenses[i] = expenseOn(int64(30-i), 1)
	}

	snap := NewSnapshot("", expenses, nil)

	if snap.ExpenseCount != 30 {
		t.Errorf("expected full count 30, got %d", snap.ExpenseCount)
	}
	if len(snap.RecentExpense) != snapshotLimit {
		t.Fatalf("expected capture capped at %d, got %d", snapshotLimit, len(snap.RecentExpense))
	}
	if got := snap.RecentExpense[snapshotLimit-1].ID; got != 30 {
		t.Errorf("expected newest record last, got id %d", got)
	}
}

func TestSnapshotPromptIncludesQuestionAndCounts(t *testing.T) {
	snap := NewSnapshot("Ada", []core.Expense{expenseOn(1, 1)}, nil)

	prompt := snap.Prompt("where does my money go?")

	if !strings.Contains(prompt, "where does my money go?") {
		t.Error("expected prompt to carry the question")
	}
	if !strings.Contains(prompt, "Total Expenses Recorded: 1") {
		t.Error("expected prompt to carry the expense count")
	}
}

func TestGreeting(t *testing.T) {
	if got := Greeting("Ada"); !strings.Contains(got, "Hi Ada!") {
		t.Errorf("unexpected greeting: %q", got)
	}
	if got := Greeting(""); !strings.Contains(got, "Hi there!") {
		t.Errorf("unexpected anonymous greeting: %q", got)
	}
}

func TestAsk(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-goog-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if len(req.Contents) != 1 || !strings.Contains(req.Contents[0].Parts[0].Text, "question") {
			t.Errorf("unexpected request contents: %+v", req.Contents)
		}
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"spend less on snacks"}]}}]}`))
	}))
	defer server.Close()

	c := NewClient("test-key")
	c.baseURL = server.URL

	answer, err := c.Ask(context.Background(), "a question", NewSnapshot("Ada", nil, nil))
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if answer != "spend less on snacks" {
		t.Errorf("unexpected answer: %q", answer)
	}
}

func TestAskCollapsesFailuresToErrUnavailable(t *testing.T) {
	t.Run("missing api key", func(t *testing.T) {
		c := NewClient("")
		if _, err := c.Ask(context.Background(), "q", Snapshot{}); !errors.Is(err, ErrUnavailable) {
			t.Errorf("expected ErrUnavailable, got %v", err)
		}
	})

	t.Run("server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "quota exceeded", http.StatusTooManyRequests)
		}))
		defer server.Close()

		c := NewClient("test-key")
		c.baseURL = server.URL
		if _, err := c.Ask(context.Background(), "q", Snapshot{}); !errors.Is(err, ErrUnavailable) {
			t.Errorf("expected ErrUnavailable, got %v", err)
		}
	})

	t.Run("empty completion", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{"candidates":[]}`))
		}))
		defer server.Close()

		c := NewClient("test-key")
		c.baseURL = server.URL
		if _, err := c.Ask(context.Background(), "q", Snapshot{}); !errors.Is(err, ErrUnavailable) {
			t.Errorf("expected ErrUnavailable, got %v", err)
		}
	})
}
