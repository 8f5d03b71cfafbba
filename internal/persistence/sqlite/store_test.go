package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/wdh-os/internal/domain"
	"github.com/example/wdh-os/internal/persistence"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	project := domain.MediaProject{
		ID:        "project-1",
		Title:     "Launch Video",
		Client:    "Fischer GmbH",
		Type:      domain.ProjectVideo,
		Status:    domain.ProjectBriefing,
		Progress:  10,
		CreatedAt: base,
		UpdatedAt: base,
	}
	if err := store.CreateProject(ctx, project); err != nil {
		t.Fatalf("create project: %v", err)
	}

	got, err := store.GetProject(ctx, "project-1")
	if err != nil {
		t.Fatalf("get project: %v", err)
	}
	if got.Title != "Launch Video" || got.Status != domain.ProjectBriefing || got.Progress != 10 {
		t.Fatalf("unexpected project: %+v", got)
	}

	got.Status = domain.ProjectQuote
	got.Progress = 20
	if err := store.UpdateProject(ctx, got); err != nil {
		t.Fatalf("update project: %v", err)
	}
	updated, err := store.GetProject(ctx, "project-1")
	if err != nil {
		t.Fatalf("get updated project: %v", err)
	}
	if updated.Status != domain.ProjectQuote || updated.Progress != 20 {
		t.Fatalf("update not persisted: %+v", updated)
	}

	if err := store.DeleteProject(ctx, "project-1"); err != nil {
		t.Fatalf("delete project: %v", err)
	}
	if _, err := store.GetProject(ctx, "project-1"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.DeleteProject(ctx, "project-1"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestStoreListOrdering(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	for _, task := range []domain.Task{
		{ID: "task-b", Title: "second", CreatedAt: base.Add(time.Minute)},
		{ID: "task-c", Title: "tie-late", CreatedAt: base},
		{ID: "task-a", Title: "tie-early", CreatedAt: base},
	} {
		if err := store.CreateTask(ctx, task); err != nil {
			t.Fatalf("create task %s: %v", task.ID, err)
		}
	}

	tasks, err := store.ListTasks(ctx)
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	wantOrder := []string{"task-a", "task-c", "task-b"}
	if len(tasks) != len(wantOrder) {
		t.Fatalf("task count: got %d, want %d", len(tasks), len(wantOrder))
	}
	for i, id := range wantOrder {
		if tasks[i].ID != id {
			t.Fatalf("order at %d: got %s, want %s", i, tasks[i].ID, id)
		}
	}
}

func TestStoreEmailUniqueness(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	if err := store.CreateUser(ctx, domain.User{ID: "user-1", Email: "anna@wdh.example", Role: domain.RoleCEO}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if err := store.CreateUser(ctx, domain.User{ID: "user-2", Email: "Anna@wdh.example", Role: domain.RoleCOO}); !errors.Is(err, persistence.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate for reused user email, got %v", err)
	}

	// Uniqueness is per kind: an employee may share a user's address.
	if err := store.CreateEmployee(ctx, domain.Employee{ID: "emp-1", Email: "anna@wdh.example"}); err != nil {
		t.Fatalf("create employee with same address: %v", err)
	}
	if err := store.CreateEmployee(ctx, domain.Employee{ID: "emp-2", Email: "ANNA@wdh.example"}); !errors.Is(err, persistence.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate for reused employee email, got %v", err)
	}

	got, err := store.GetUserByEmail(ctx, "ANNA@wdh.example")
	if err != nil {
		t.Fatalf("lookup by email: %v", err)
	}
	if got.ID != "user-1" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestStoreSessions(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	session := persistence.Session{
		ID:        "sess-1",
		UserID:    "user-1",
		Token:     "token-abc",
		ExpiresAt: base.Add(12 * time.Hour),
		CreatedAt: base,
		UpdatedAt: base,
	}
	if _, err := store.CreateSession(ctx, session); err != nil {
		t.Fatalf("create session: %v", err)
	}

	got, err := store.GetSession(ctx, "token-abc")
	if err != nil {
		t.Fatalf("get session by token: %v", err)
	}
	if got.ID != "sess-1" {
		t.Fatalf("unexpected session: %+v", got)
	}

	revoked, err := store.RevokeSession(ctx, "token-abc", base.Add(time.Hour))
	if err != nil {
		t.Fatalf("revoke session: %v", err)
	}
	if revoked.RevokedAt == nil {
		t.Fatal("expected revocation stamp")
	}

	expired := persistence.Session{ID: "sess-2", Token: "token-old", ExpiresAt: base.Add(time.Minute), CreatedAt: base}
	if _, err := store.CreateSession(ctx, expired); err != nil {
		t.Fatalf("create expired session: %v", err)
	}
	if err := store.DeleteExpiredSessions(ctx, base.Add(2*time.Hour)); err != nil {
		t.Fatalf("delete expired: %v", err)
	}
	if _, err := store.GetSession(ctx, "token-old"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatal("expected expired session to be gone")
	}
	if _, err := store.GetSession(ctx, "token-abc"); err != nil {
		t.Fatalf("live session must survive cleanup: %v", err)
	}
}
