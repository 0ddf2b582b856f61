// Package ledger owns the authoritative expense and earning collections
// and the user's settings, and keeps them persisted through the storage
// collaborator. Mutations commit in memory first; saving is best-effort
// and never rolls a mutation back.
package ledger

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"luxe/internal/core"
	"luxe/internal/storage"
)

const (
	OpCreated  Op = "created"
	OpUpdated  Op = "updated"
	OpDeleted  Op = "deleted"
	OpSettings Op = "settings"
)

type (
	// Op names the mutation that produced an Event.
	Op string

	// Event is published to subscribers after every committed mutation.
	Event struct {
		Op   Op
		Kind core.Kind
		ID   int64
	}
)

// Ledger is the single mutable resource of one user session. It is safe
// for use from concurrent HTTP handlers, but assumes one logical writer;
// there is no conflict resolution.
type Ledger struct {
	mu       sync.Mutex
	store    storage.Store
	expenses []core.Expense
	earnings []core.Earning
	goal     core.Goal
	budgets  core.Budgets
	userName string
	avatarID string

	// nextID is shared across both record kinds so identifiers encode
	// global creation order.
	nextID int64

	subscribers []chan Event

	// writers serialize storage writes per key so an older snapshot can
	// never land after a newer one.
	writersMu sync.Mutex
	writers   map[string]*keyWriter
	saves     sync.WaitGroup

	// today is the record-date clock, overridable in tests.
	today func() core.Day
}

// New creates an empty ledger persisting through store. Call Load to
// read previously persisted state.
func New(store storage.Store) *Ledger {
	return &Ledger{
		store:   store,
		goal:    core.DefaultGoal(),
		budgets: core.Budgets{},
		nextID:  time.Now().UnixMilli(),
		writers: make(map[string]*keyWriter),
		today:   core.Today,
	}
}

// Subscribe returns a channel that receives an Event after every
// committed mutation. Slow subscribers miss events rather than blocking
// the mutation path.
func (l *Ledger) Subscribe() <-chan Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch := make(chan Event, 16)
	l.subscribers = append(l.subscribers, ch)
	return ch
}

// CreateExpense stores a new expense dated today, most recent first.
// Amount is assumed already validated at the caller boundary.
func (l *Ledger) CreateExpense(amount float64, category core.Category, notes string) core.Expense {
	l.mu.Lock()
	e := core.Expense{
		ID:       l.allocateID(),
		Amount:   amount,
		Category: category,
		Notes:    notes,
		Date:     l.today(),
	}
	l.expenses = append([]core.Expense{e}, l.expenses...)
	value, err := encodeExpenses(l.expenses)
	l.mu.Unlock()

	l.saveAsync(storage.KeyExpenses, value, err)
	l.publish(Event{Op: OpCreated, Kind: core.KindExpense, ID: e.ID})
	return e
}

// UpdateExpense replaces the mutable fields of the matching record in
// place; id and date are preserved. A missing id is a silent no-op and
// returns false.
func (l *Ledger) UpdateExpense(id int64, amount float64, category core.Category, notes string) (core.Expense, bool) {
	l.mu.Lock()
	idx := -1
	for i := range l.expenses {
		if l.expenses[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		l.mu.Unlock()
		return core.Expense{}, false
	}
	l.expenses[idx].Amount = amount
	l.expenses[idx].Category = category
	l.expenses[idx].Notes = notes
	e := l.expenses[idx]
	value, err := encodeExpenses(l.expenses)
	l.mu.Unlock()

	l.saveAsync(storage.KeyExpenses, value, err)
	l.publish(Event{Op: OpUpdated, Kind: core.KindExpense, ID: id})
	return e, true
}

// DeleteExpense removes the matching record. A missing id is a silent
// no-op and returns false.
func (l *Ledger) DeleteExpense(id int64) bool {
	l.mu.Lock()
	idx := -1
	for i := range l.expenses {
		if l.expenses[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		l.mu.Unlock()
		return false
	}
	l.expenses = append(l.expenses[:idx], l.expenses[idx+1:]...)
	value, err := encodeExpenses(l.expenses)
	l.mu.Unlock()

	l.saveAsync(storage.KeyExpenses, value, err)
	l.publish(Event{Op: OpDeleted, Kind: core.KindExpense, ID: id})
	return true
}

// CreateEarning stores a new earning dated today, most recent first.
func (l *Ledger) CreateEarning(amount float64, source core.Source, notes string) core.Earning {
	l.mu.Lock()
	e := core.Earning{
		ID:     l.allocateID(),
		Amount: amount,
		Source: source,
		Notes:  notes,
		Date:   l.today(),
	}
	l.earnings = append([]core.Earning{e}, l.earnings...)
	value, err := encodeEarnings(l.earnings)
	l.mu.Unlock()

	l.saveAsync(storage.KeyEarnings, value, err)
	l.publish(Event{Op: OpCreated, Kind: core.KindEarning, ID: e.ID})
	return e
}

// UpdateEarning mirrors UpdateExpense. The store does not special-case
// record kind; whether the product exposes earning edits is an
// interface decision.
func (l *Ledger) UpdateEarning(id int64, amount float64, source core.Source, notes string) (core.Earning, bool) {
	l.mu.Lock()
	idx := -1
	for i := range l.earnings {
		if l.earnings[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		l.mu.Unlock()
		return core.Earning{}, false
	}
	l.earnings[idx].Amount = amount
	l.earnings[idx].Source = source
	l.earnings[idx].Notes = notes
	e := l.earnings[idx]
	value, err := encodeEarnings(l.earnings)
	l.mu.Unlock()

	l.saveAsync(storage.KeyEarnings, value, err)
	l.publish(Event{Op: OpUpdated, Kind: core.KindEarning, ID: id})
	return e, true
}

// DeleteEarning mirrors DeleteExpense.
func (l *Ledger) DeleteEarning(id int64) bool {
	l.mu.Lock()
	idx := -1
	for i := range l.earnings {
		if l.earnings[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		l.mu.Unlock()
		return false
	}
	l.earnings = append(l.earnings[:idx], l.earnings[idx+1:]...)
	value, err := encodeEarnings(l.earnings)
	l.mu.Unlock()

	l.saveAsync(storage.KeyEarnings, value, err)
	l.publish(Event{Op: OpDeleted, Kind: core.KindEarning, ID: id})
	return true
}

// SetGoal replaces the spending goal wholesale.
func (l *Ledger) SetGoal(goal core.Goal) error {
	if err := goal.Validate(); err != nil {
		return err
	}
	l.mu.Lock()
	l.goal = goal
	value, err := encodeGoal(goal)
	l.mu.Unlock()

	l.saveAsync(storage.KeyGoal, value, err)
	l.publish(Event{Op: OpSettings})
	return nil
}

// SetBudget configures a category limit. Non-positive limits are
// dropped, leaving the category unset, and report false.
func (l *Ledger) SetBudget(category core.Category, limit float64) bool {
	l.mu.Lock()
	ok := l.budgets.Set(category, limit)
	if !ok {
		l.mu.Unlock()
		return false
	}
	value, err := encodeBudgets(l.budgets)
	l.mu.Unlock()

	l.saveAsync(storage.KeyBudgets, value, err)
	l.publish(Event{Op: OpSettings})
	return true
}

// RemoveBudget unsets a category limit.
func (l *Ledger) RemoveBudget(category core.Category) {
	l.mu.Lock()
	l.budgets.Remove(category)
	value, err := encodeBudgets(l.budgets)
	l.mu.Unlock()

	l.saveAsync(storage.KeyBudgets, value, err)
	l.publish(Event{Op: OpSettings})
}

// SetProfile replaces the display name and avatar choice.
func (l *Ledger) SetProfile(name, avatarID string) {
	l.mu.Lock()
	l.userName = name
	l.avatarID = avatarID
	l.mu.Unlock()

	nameValue, nameErr := encodeString(name)
	l.saveAsync(storage.KeyUserName, nameValue, nameErr)
	avatarValue, avatarErr := encodeString(avatarID)
	l.saveAsync(storage.KeyUserAvatar, avatarValue, avatarErr)
	l.publish(Event{Op: OpSettings})
}

// Expenses returns a copy of the expense collection, most recent first.
func (l *Ledger) Expenses() []core.Expense {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]core.Expense(nil), l.expenses...)
}

// Earnings returns a copy of the earning collection, most recent first.
func (l *Ledger) Earnings() []core.Earning {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]core.Earning(nil), l.earnings...)
}

func (l *Ledger) Goal() core.Goal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.goal
}

// Budgets returns a copy of the configured budgets.
func (l *Ledger) Budgets() core.Budgets {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(core.Budgets, len(l.budgets))
	for c, v := range l.budgets {
		out[c] = v
	}
	return out
}

// Profile returns the display name and avatar id.
func (l *Ledger) Profile() (name, avatarID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.userName, l.avatarID
}

// Close waits for in-flight saves and closes the storage collaborator.
func (l *Ledger) Close() error {
	l.saves.Wait()
	return l.store.Close()
}

// allocateID hands out the next creation-ordered identifier. The
// counter is seeded from wall-clock milliseconds and only ever
// increments, so two creates in the same clock tick never collide.
// Callers must hold l.mu.
func (l *Ledger) allocateID() int64 {
	id := l.nextID
	l.nextID++
	return id
}

// keyWriter holds one key's pending snapshot and serializes its
// storage writes. pending always carries the newest encoding; a slow
// write is followed by another pass that picks it up, so the last
// write for a key is always the latest state.
type keyWriter struct {
	mu      sync.Mutex // guards pending, dirty, running
	writeMu sync.Mutex // held around storage writes for this key
	pending string
	dirty   bool
	running bool
}

func (l *Ledger) writer(key string) *keyWriter {
	l.writersMu.Lock()
	defer l.writersMu.Unlock()
	w, ok := l.writers[key]
	if !ok {
		w = &keyWriter{}
		l.writers[key] = w
	}
	return w
}

// saveAsync persists one already-encoded key without blocking the
// mutation path. An encode or write failure is logged; the in-memory
// state stands either way. Rapid saves of the same key coalesce into
// the newest snapshot.
func (l *Ledger) saveAsync(key, value string, encErr error) {
	if encErr != nil {
		slog.Error("Failed to encode ledger state", "key", key, "error", encErr)
		return
	}

	w := l.writer(key)
	w.mu.Lock()
	w.pending = value
	w.dirty = true
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	l.saves.Add(1)
	go func() {
		defer l.saves.Done()
		l.drain(key, w)
	}()
}

// drain writes the key's pending snapshot until no newer one arrives.
func (l *Ledger) drain(key string, w *keyWriter) {
	for {
		w.mu.Lock()
		if !w.dirty {
			w.running = false
			w.mu.Unlock()
			return
		}
		value := w.pending
		w.dirty = false
		w.mu.Unlock()

		w.writeMu.Lock()
		err := l.store.Set(context.Background(), key, value)
		w.writeMu.Unlock()
		if err != nil {
			slog.Error("Failed to persist ledger state", "key", key, "error", err)
		}
	}
}

// writeKey persists one key synchronously, ordered against the key's
// async writer.
func (l *Ledger) writeKey(ctx context.Context, key, value string) error {
	w := l.writer(key)
	w.mu.Lock()
	w.pending = value
	w.dirty = false
	w.mu.Unlock()

	w.writeMu.Lock()
	defer w.writeMu.Unlock()
	return l.store.Set(ctx, key, value)
}

func (l *Ledger) publish(ev Event) {
	l.mu.Lock()
	subs := l.subscribers
	l.mu.Unlock()
	for _, ch := range subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
