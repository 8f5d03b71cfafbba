package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/wdh-os/internal/persistence"
	"github.com/example/wdh-os/internal/persistence/sqlite"
)

// SQLiteHarness provides repository access backed by a temporary SQLite store
// for integration-style persistence tests.
type SQLiteHarness struct {
	Users         persistence.UserRepository
	Sessions      persistence.SessionRepository
	Clients       persistence.ClientRepository
	Spaces        persistence.SpaceRepository
	Bookings      persistence.BookingRepository
	Projects      persistence.ProjectRepository
	Students      persistence.StudentRepository
	Transactions  persistence.TransactionRepository
	Employees     persistence.EmployeeRepository
	Documents     persistence.DocumentRepository
	Tasks         persistence.TaskRepository
	Notifications persistence.NotificationRepository

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness constructs a SQLiteHarness backed by a temporary database
// file. The schema is applied on open. Callers may optionally invoke Close,
// but the helper also registers a cleanup callback with the provided
// testing.TB.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "wdhos.db")
	store, err := sqlite.Open(context.Background(), path)
	if err != nil {
		tb.Fatalf("failed to open storage: %v", err)
	}

	harness := &SQLiteHarness{
		Users:         store,
		Sessions:      store,
		Clients:       store,
		Spaces:        store,
		Bookings:      store,
		Projects:      store,
		Students:      store,
		Transactions:  store,
		Employees:     store,
		Documents:     store,
		Tasks:         store,
		Notifications: store,
		cleanup: func() {
			_ = store.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}
