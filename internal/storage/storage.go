// Package storage implements the ledger's key-value persistence
// collaborator. Values are opaque strings (JSON encoded by the ledger);
// the store never interprets them.
package storage

import "context"

// Persisted keys. Each maps to the JSON encoding documented in the
// ledger package.
const (
	KeyExpenses   = "expenses"
	KeyEarnings   = "earnings"
	KeyGoal       = "goal"
	KeyBudgets    = "budgets"
	KeyUserName   = "userName"
	KeyUserAvatar = "userAvatar"
)

// Store is the synchronous get/set contract the ledger persists through.
type Store interface {
	// Get returns the value for key. The second result is false when the
	// key has never been written.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set writes the value for key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	Close() error
}

// Backend names a storage implementation selectable via configuration.
type Backend string

const (
	BackendSQLite Backend = "sqlite"
	BackendMemory Backend = "memory"
)

func (b Backend) Valid() bool {
	switch b {
	case BackendSQLite, BackendMemory:
		return true
	}
	return false
}

// Open creates the store for the chosen backend.
func Open(backend Backend, dbPath string) (Store, error) {
	switch backend {
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return NewSQLiteStore(dbPath)
	}
}
