// Package assistant answers free-form questions about the user's
// finances through the Gemini generateContent API, grounding every
// question in a snapshot of the most recent records.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"luxe/internal/core"
)

// ErrUnavailable covers every way the assistant can fail to produce an
// answer: missing configuration, transport errors, non-OK statuses and
// empty completions. Callers surface one message regardless of cause.
var ErrUnavailable = errors.New("assistant unavailable")

const (
	defaultModel   = "gemini-2.5-flash"
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
)

type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

type generateRequest struct {
	SystemInstruction content   `json:"system_instruction"`
	Contents          []content `json:"contents"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		model:      defaultModel,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Ask sends one question together with a financial snapshot and returns
// the model's answer. There is no server-side conversation state; each
// call stands alone.
func (c *Client) Ask(ctx context.Context, question string, snap Snapshot) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("%w: API key not configured", ErrUnavailable)
	}

	requestBody := generateRequest{
		SystemInstruction: content{Parts: []part{{Text: snap.SystemInstruction()}}},
		Contents: []content{
			{Role: "user", Parts: []part{{Text: snap.Prompt(question)}}},
		},
	}
	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("%w: encoding request: %v", ErrUnavailable, err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("%w: creating request: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %v", ErrUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: API returned status %d", ErrUnavailable, resp.StatusCode)
	}

	var generated generateResponse
	if err := json.Unmarshal(body, &generated); err != nil {
		return "", fmt.Errorf("%w: parsing response: %v", ErrUnavailable, err)
	}
	if len(generated.Candidates) == 0 || len(generated.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty completion", ErrUnavailable)
	}
	answer := generated.Candidates[0].Content.Parts[0].Text
	if answer == "" {
		return "", fmt.Errorf("%w: empty completion", ErrUnavailable)
	}
	return answer, nil
}

// Greeting is the canned opening line shown before any model call.
func Greeting(userName string) string {
	name := userName
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf("Hi %s! I'm Luxe, your personal financial assistant. How can I help you analyze your spending today?", name)
}

// snapshotLimit caps how many records of each kind the model sees.
const snapshotLimit = 20

// Snapshot is the read-only slice of ledger state handed to the model.
type Snapshot struct {
	UserName      string
	ExpenseCount  int
	EarningCount  int
	RecentExpense []core.Expense
	RecentEarning []core.Earning
}

// NewSnapshot captures the snapshotLimit most recent records of each
// kind. Input slices are most recent first; the captured slices are
// reordered oldest to newest so the model reads them chronologically.
func NewSnapshot(userName string, expenses []core.Expense, earnings []core.Earning) Snapshot {
	return Snapshot{
		UserName:      userName,
		ExpenseCount:  len(expenses),
		EarningCount:  len(earnings),
		RecentExpense: reverseHead(expenses, snapshotLimit),
		RecentEarning: reverseHead(earnings, snapshotLimit),
	}
}

// SystemInstruction sets the assistant's persona and ground rules.
func (s Snapshot) SystemInstruction() string {
	name := s.UserName
	if name == "" {
		name = "not set"
	}
	return "You are a friendly and insightful financial assistant named 'Luxe' for the 'Luxe Expense Tracker' app. " +
		"The user's name is " + name + ". " +
		"You must analyze the user's spending and earning data provided to give personalized, helpful, and encouraging advice. " +
		"Keep your responses concise, easy to understand, and use emojis to make it engaging. " +
		"The currency is LKR (Sri Lankan Rupees). " +
		"Do not just list data, provide insights based on the data. Be proactive and suggest areas for improvement."
}

// Prompt combines the data summary with the user's question.
func (s Snapshot) Prompt(question string) string {
	expenseJSON, _ := json.Marshal(s.RecentExpense)
	earningJSON, _ := json.Marshal(s.RecentEarning)
	return fmt.Sprintf(
		"Here is a summary of the user's recent financial data (in LKR). Use this data to answer the user's question:\n"+
			"- Total Expenses Recorded: %d\n"+
			"- Total Earnings Recorded: %d\n"+
			"- Recent Expenses (oldest to newest): %s\n"+
			"- Recent Earnings (oldest to newest): %s\n\n"+
			"User's question: %s",
		s.ExpenseCount, s.EarningCount, expenseJSON, earningJSON, question,
	)
}

func reverseHead[T any](records []T, n int) []T {
	if len(records) < n {
		n = len(records)
	}
	out := make([]T, n)
	for i := 0; i < n; i++ {
		out[i] = records[n-1-i]
	}
	return out
}
