package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"luxe/internal/core"
	"luxe/internal/storage"
)

// Load reads every persisted key into memory. Each key decodes
// independently: a corrupt or missing value falls back to that key's
// default without touching the others, so one bad blob never blanks
// the whole ledger.
func (l *Ledger) Load(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	expenses, err := loadKey(ctx, l.store, storage.KeyExpenses, decodeExpenses, nil)
	if err != nil {
		return err
	}
	l.expenses = expenses

	earnings, err := loadKey(ctx, l.store, storage.KeyEarnings, decodeEarnings, nil)
	if err != nil {
		return err
	}
	l.earnings = earnings

	if max := maxStoredID(expenses, earnings); max >= l.nextID {
		l.nextID = max + 1
	}

	goal, err := loadKey(ctx, l.store, storage.KeyGoal, decodeGoal, core.DefaultGoal())
	if err != nil {
		return err
	}
	l.goal = goal

	budgets, err := loadKey(ctx, l.store, storage.KeyBudgets, decodeBudgets, core.Budgets{})
	if err != nil {
		return err
	}
	l.budgets = budgets.Sanitized()

	name, err := loadKey(ctx, l.store, storage.KeyUserName, decodeString, "")
	if err != nil {
		return err
	}
	l.userName = name

	avatar, err := loadKey(ctx, l.store, storage.KeyUserAvatar, decodeString, "")
	if err != nil {
		return err
	}
	l.avatarID = avatar

	return nil
}

// SaveAll persists every key synchronously. Used on shutdown and
// wherever a caller needs the write acknowledged.
func (l *Ledger) SaveAll(ctx context.Context) error {
	l.mu.Lock()
	encoders := []struct {
		key    string
		encode func() (string, error)
	}{
		{storage.KeyExpenses, func() (string, error) { return encodeExpenses(l.expenses) }},
		{storage.KeyEarnings, func() (string, error) { return encodeEarnings(l.earnings) }},
		{storage.KeyGoal, func() (string, error) { return encodeGoal(l.goal) }},
		{storage.KeyBudgets, func() (string, error) { return encodeBudgets(l.budgets) }},
		{storage.KeyUserName, func() (string, error) { return encodeString(l.userName) }},
		{storage.KeyUserAvatar, func() (string, error) { return encodeString(l.avatarID) }},
	}
	type pair struct{ key, value string }
	pairs := make([]pair, 0, len(encoders))
	for _, enc := range encoders {
		value, err := enc.encode()
		if err != nil {
			l.mu.Unlock()
			return fmt.Errorf("encoding %s: %w", enc.key, err)
		}
		pairs = append(pairs, pair{enc.key, value})
	}
	l.mu.Unlock()

	for _, p := range pairs {
		if err := l.writeKey(ctx, p.key, p.value); err != nil {
			return fmt.Errorf("persisting %s: %w", p.key, err)
		}
	}
	return nil
}

// loadKey fetches one key and decodes it, substituting fallback both
// when the key is absent and when its value fails to decode. Only a
// storage read failure is an error.
func loadKey[T any](ctx context.Context, store storage.Store, key string, decode func(string) (T, error), fallback T) (T, error) {
	raw, ok, err := store.Get(ctx, key)
	if err != nil {
		return fallback, fmt.Errorf("reading %s: %w", key, err)
	}
	if !ok {
		return fallback, nil
	}
	value, err := decode(raw)
	if err != nil {
		slog.Warn("Discarding undecodable stored value", "key", key, "error", err)
		return fallback, nil
	}
	return value, nil
}

func encodeExpenses(expenses []core.Expense) (string, error) {
	if expenses == nil {
		expenses = []core.Expense{}
	}
	b, err := json.Marshal(expenses)
	return string(b), err
}

func decodeExpenses(raw string) ([]core.Expense, error) {
	var expenses []core.Expense
	if err := json.Unmarshal([]byte(raw), &expenses); err != nil {
		return nil, err
	}
	return expenses, nil
}

func encodeEarnings(earnings []core.Earning) (string, error) {
	if earnings == nil {
		earnings = []core.Earning{}
	}
	b, err := json.Marshal(earnings)
	return string(b), err
}

func decodeEarnings(raw string) ([]core.Earning, error) {
	var earnings []core.Earning
	if err := json.Unmarshal([]byte(raw), &earnings); err != nil {
		return nil, err
	}
	return earnings, nil
}

func encodeGoal(goal core.Goal) (string, error) {
	b, err := json.Marshal(goal)
	return string(b), err
}

func decodeGoal(raw string) (core.Goal, error) {
	var goal core.Goal
	if err := json.Unmarshal([]byte(raw), &goal); err != nil {
		return core.Goal{}, err
	}
	if err := goal.Validate(); err != nil {
		return core.Goal{}, err
	}
	return goal, nil
}

func encodeBudgets(budgets core.Budgets) (string, error) {
	if budgets == nil {
		budgets = core.Budgets{}
	}
	b, err := json.Marshal(budgets)
	return string(b), err
}

func decodeBudgets(raw string) (core.Budgets, error) {
	var budgets core.Budgets
	if err := json.Unmarshal([]byte(raw), &budgets); err != nil {
		return nil, err
	}
	return budgets, nil
}

// Profile strings are stored as JSON strings, like every other key.
func encodeString(s string) (string, error) {
	b, err := json.Marshal(s)
	return string(b), err
}

func decodeString(raw string) (string, error) {
	var s string
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return "", err
	}
	return s, nil
}

func maxStoredID(expenses []core.Expense, earnings []core.Earning) int64 {
	var max int64
	for _, e := range expenses {
		if e.ID > max {
			max = e.ID
		}
	}
	for _, e := range earnings {
		if e.ID > max {
			max = e.ID
		}
	}
	return max
}
