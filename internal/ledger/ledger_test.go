package ledger

import (
	"context"
	"sync"
	"testing"
	"time"

	"luxe/internal/core"
	"luxe/internal/storage"
)

func newTestLedger() *Ledger {
	l := New(storage.NewMemoryStore())
	l.today = func() core.Day { return core.NewDay(2024, time.June, 12) }
	return l
}

func TestCreateExpensePrepends(t *testing.T) {
	l := newTestLedger()

	first := l.CreateExpense(10, core.Food, "lunch")
	second := l.CreateExpense(20, core.Travel, "bus")

	expenses := l.Expenses()
	if len(expenses) != 2 {
		t.Fatalf("expected 2 expenses, got %d", len(expenses))
	}
	if expenses[0].ID != second.ID {
		t.Errorf("expected most recent expense first, got id %d", expenses[0].ID)
	}
	if expenses[1].ID != first.ID {
		t.Errorf("expected oldest expense last, got id %d", expenses[1].ID)
	}
	if !expenses[0].Date.Equal(core.NewDay(2024, time.June, 12)) {
		t.Errorf("expected creation date from clock, got %s", expenses[0].Date)
	}
}

func TestIDsAreMonotonic(t *testing.T) {
	l := newTestLedger()

	// Identifiers are shared across kinds and encode creation order.
	var prev int64
	for i := 0; i < 6; i++ {
		var id int64
		if i%2 == 0 {
			id = l.CreateExpense(1, core.Food, "").ID
		} else {
			id = l.CreateEarning(1, core.Salary, "").ID
		}
		if id <= prev {
			t.Fatalf("expected strictly increasing ids, got %d after %d", id, prev)
		}
		prev = id
	}
}

func TestUpdateExpense(t *testing.T) {
	l := newTestLedger()
	created := l.CreateExpense(10, core.Food, "lunch")

	updated, ok := l.UpdateExpense(created.ID, 25, core.Shopping, "groceries")
	if !ok {
		t.Fatal("expected update of existing expense to succeed")
	}
	if updated.ID != created.ID {
		t.Errorf("expected id preserved, got %d", updated.ID)
	}
	if !updated.Date.Equal(created.Date) {
		t.Errorf("expected date preserved, got %s", updated.Date)
	}
	if updated.Amount != 25 || updated.Category != core.Shopping || updated.Notes != "groceries" {
		t.Errorf("unexpected updated expense: %+v", updated)
	}
}

func TestUpdateMissingExpenseIsNoOp(t *testing.T) {
	l := newTestLedger()
	l.CreateExpense(10, core.Food, "lunch")

	before := l.Expenses()
	if _, ok := l.UpdateExpense(999, 50, core.Bills, ""); ok {
		t.Fatal("expected update of missing id to report false")
	}
	after := l.Expenses()
	if len(after) != len(before) || after[0] != before[0] {
		t.Error("expected collection unchanged after missing-id update")
	}
}

func TestDeleteExpense(t *testing.T) {
	l := newTestLedger()
	keep := l.CreateExpense(10, core.Food, "")
	drop := l.CreateExpense(20, core.Travel, "")

	if !l.DeleteExpense(drop.ID) {
		t.Fatal("expected delete of existing expense to succeed")
	}
	if l.DeleteExpense(drop.ID) {
		t.Error("expected repeated delete to report false")
	}

	expenses := l.Expenses()
	if len(expenses) != 1 || expenses[0].ID != keep.ID {
		t.Errorf("expected only expense %d to remain, got %+v", keep.ID, expenses)
	}
}

func TestEarningLifecycle(t *testing.T) {
	l := newTestLedger()

	created := l.CreateEarning(500, core.Salary, "paycheck")
	updated, ok := l.UpdateEarning(created.ID, 600, core.Freelance, "invoice")
	if !ok {
		t.Fatal("expected update of existing earning to succeed")
	}
	if updated.Amount != 600 || updated.Source != core.Freelance {
		t.Errorf("unexpected updated earning: %+v", updated)
	}
	if !l.DeleteEarning(created.ID) {
		t.Fatal("expected delete of existing earning to succeed")
	}
	if len(l.Earnings()) != 0 {
		t.Error("expected no earnings after delete")
	}
}

func TestSettings(t *testing.T) {
	l := newTestLedger()

	if got := l.Goal(); got != core.DefaultGoal() {
		t.Errorf("expected default goal before configuration, got %+v", got)
	}
	if err := l.SetGoal(core.Goal{Daily: 50, Weekly: 400}); err != nil {
		t.Fatalf("SetGoal: %v", err)
	}
	if got := l.Goal(); got.Daily != 50 || got.Weekly != 400 {
		t.Errorf("unexpected goal: %+v", got)
	}
	if err := l.SetGoal(core.Goal{Daily: -1, Weekly: 400}); err == nil {
		t.Error("expected negative goal to be rejected")
	}

	if !l.SetBudget(core.Food, 300) {
		t.Fatal("expected positive budget to be accepted")
	}
	if l.SetBudget(core.Travel, 0) {
		t.Error("expected non-positive budget to be dropped")
	}
	budgets := l.Budgets()
	if len(budgets) != 1 || budgets[core.Food] != 300 {
		t.Errorf("unexpected budgets: %+v", budgets)
	}
	l.RemoveBudget(core.Food)
	if len(l.Budgets()) != 0 {
		t.Error("expected budgets empty after removal")
	}

	l.SetProfile("Ada", "avatar-3")
	name, avatar := l.Profile()
	if name != "Ada" || avatar != "avatar-3" {
		t.Errorf("unexpected profile: %q %q", name, avatar)
	}
}

func TestSaveAllLoadRoundTrip(t *testing.T) {
	store := storage.NewMemoryStore()
	l := New(store)
	l.today = func() core.Day { return core.NewDay(2024, time.June, 12) }

	expense := l.CreateExpense(12.5, core.Bills, "electricity")
	earning := l.CreateEarning(900, core.Investment, "dividends")
	l.SetGoal(core.Goal{Daily: 40, Weekly: 280})
	l.SetBudget(core.Bills, 200)
	l.SetProfile("Ada", "avatar-1")
	if err := l.SaveAll(context.Background()); err != nil {
		t.Fatalf("SaveAll: %v", err)
	}

	reloaded := New(store)
	if err := reloaded.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	expenses := reloaded.Expenses()
	if len(expenses) != 1 || expenses[0] != expense {
		t.Errorf("expected expense to survive reload, got %+v", expenses)
	}
	earnings := reloaded.Earnings()
	if len(earnings) != 1 || earnings[0] != earning {
		t.Errorf("expected earning to survive reload, got %+v", earnings)
	}
	if goal := reloaded.Goal(); goal.Daily != 40 || goal.Weekly != 280 {
		t.Errorf("unexpected reloaded goal: %+v", goal)
	}
	if budgets := reloaded.Budgets(); budgets[core.Bills] != 200 {
		t.Errorf("unexpected reloaded budgets: %+v", budgets)
	}
	name, avatar := reloaded.Profile()
	if name != "Ada" || avatar != "avatar-1" {
		t.Errorf("unexpected reloaded profile: %q %q", name, avatar)
	}
}

func TestLoadBumpsIDCountersPastStoredRecords(t *testing.T) {
	store := storage.NewMemoryStore()
	l := New(store)
	l.today = func() core.Day { return core.NewDay(2024, time.June, 12) }
	stored := l.CreateExpense(10, core.Food, "")
	if err := l.SaveAll(context.Background()); err != nil {
		t.Fatalf("SaveAll: %v", err)
	}

	reloaded := New(store)
	reloaded.nextID = 0
	if err := reloaded.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	fresh := reloaded.CreateExpense(20, core.Travel, "")
	if fresh.ID <= stored.ID {
		t.Errorf("expected fresh id above stored %d, got %d", stored.ID, fresh.ID)
	}
}

func TestLoadIsolatesCorruptKeys(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()

	seed := New(store)
	seed.today = func() core.Day { return core.NewDay(2024, time.June, 12) }
	expense := seed.CreateExpense(10, core.Food, "lunch")
	if err := seed.SaveAll(ctx); err != nil {
		t.Fatalf("SaveAll: %v", err)
	}
	if err := store.Set(ctx, storage.KeyGoal, "{not json"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := store.Set(ctx, storage.KeyBudgets, "[]"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	l := New(store)
	if err := l.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if expenses := l.Expenses(); len(expenses) != 1 || expenses[0] != expense {
		t.Errorf("expected healthy expenses key to survive, got %+v", expenses)
	}
	if goal := l.Goal(); goal != core.DefaultGoal() {
		t.Errorf("expected corrupt goal key to fall back to default, got %+v", goal)
	}
	if budgets := l.Budgets(); len(budgets) != 0 {
		t.Errorf("expected corrupt budgets key to fall back to empty, got %+v", budgets)
	}
}

// laggedStore stalls its first write so that, without per-key write
// ordering, a later snapshot would land before an earlier one.
type laggedStore struct {
	*storage.MemoryStore
	mu      sync.Mutex
	stalled bool
}

func (s *laggedStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	first := !s.stalled
	s.stalled = true
	s.mu.Unlock()
	if first {
		time.Sleep(25 * time.Millisecond)
	}
	return s.MemoryStore.Set(ctx, key, value)
}

func TestAsyncSavesPersistLatestSnapshot(t *testing.T) {
	store := &laggedStore{MemoryStore: storage.NewMemoryStore()}
	l := New(store)
	l.today = func() core.Day { return core.NewDay(2024, time.June, 12) }

	l.CreateExpense(10, core.Food, "first")
	l.CreateExpense(20, core.Travel, "second")
	l.saves.Wait()

	raw, ok, err := store.Get(context.Background(), storage.KeyExpenses)
	if err != nil || !ok {
		t.Fatalf("Get expenses: ok=%v err=%v", ok, err)
	}
	persisted, err := decodeExpenses(raw)
	if err != nil {
		t.Fatalf("decode persisted expenses: %v", err)
	}
	if len(persisted) != 2 {
		t.Fatalf("expected both expenses persisted, got %d", len(persisted))
	}
	if persisted[0].Notes != "second" {
		t.Errorf("expected newest snapshot to win, got first record %+v", persisted[0])
	}
}

func TestProfileStoredAsJSONStrings(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()

	l := New(store)
	l.SetProfile("Ada", "avatar-1")
	if err := l.SaveAll(ctx); err != nil {
		t.Fatalf("SaveAll: %v", err)
	}

	raw, ok, err := store.Get(ctx, storage.KeyUserName)
	if err != nil || !ok {
		t.Fatalf("Get userName: ok=%v err=%v", ok, err)
	}
	if raw != `"Ada"` {
		t.Errorf("expected JSON-encoded name, got %s", raw)
	}

	// A raw, unencoded value falls back like any other corrupt key.
	if err := store.Set(ctx, storage.KeyUserName, "Ada"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	reloaded := New(store)
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	name, avatar := reloaded.Profile()
	if name != "" {
		t.Errorf("expected undecodable name to fall back to empty, got %q", name)
	}
	if avatar != "avatar-1" {
		t.Errorf("expected avatar to survive reload, got %q", avatar)
	}
}

func TestSubscribeReceivesMutationEvents(t *testing.T) {
	l := newTestLedger()
	events := l.Subscribe()

	created := l.CreateExpense(10, core.Food, "")
	l.DeleteExpense(created.ID)

	got := <-events
	if got.Op != OpCreated || got.Kind != core.KindExpense || got.ID != created.ID {
		t.Errorf("unexpected first event: %+v", got)
	}
	got = <-events
	if got.Op != OpDeleted || got.ID != created.ID {
		t.Errorf("unexpected second event: %+v", got)
	}
}
