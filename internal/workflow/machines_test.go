package workflow

import (
	"errors"
	"testing"

	"github.com/example/wdh-os/internal/domain"
)

func TestNextProjectStatus(t *testing.T) {
	t.Parallel()

	t.Run("walks the pipeline one step at a time", func(t *testing.T) {
		t.Parallel()

		current := domain.ProjectBriefing
		want := []domain.ProjectStatus{
			domain.ProjectQuote,
			domain.ProjectProduction,
			domain.ProjectReview,
			domain.ProjectDelivery,
			domain.ProjectCompleted,
		}
		wantProgress := []int{20, 50, 75, 90, 100}

		for i, expected := range want {
			next, err := NextProjectStatus(current)
			if err != nil {
				t.Fatalf("advance from %s: %v", current, err)
			}
			if next != expected {
				t.Fatalf("advance from %s: got %s, want %s", current, next, expected)
			}
			if got := ProjectProgress(next); got != wantProgress[i] {
				t.Fatalf("progress for %s: got %d, want %d", next, got, wantProgress[i])
			}
			current = next
		}
	})

	t.Run("completed is terminal", func(t *testing.T) {
		t.Parallel()

		_, err := NextProjectStatus(domain.ProjectCompleted)
		var tErr *InvalidTransitionError
		if !errors.As(err, &tErr) {
			t.Fatalf("expected InvalidTransitionError, got %v", err)
		}
		if tErr.Entity != "project" || tErr.From != string(domain.ProjectCompleted) {
			t.Fatalf("unexpected transition error: %+v", tErr)
		}
	})

	t.Run("unknown status cannot advance", func(t *testing.T) {
		t.Parallel()

		if _, err := NextProjectStatus("drafting"); err == nil {
			t.Fatal("expected error for unknown status")
		}
	})

	t.Run("initial progress matches the fixed map", func(t *testing.T) {
		t.Parallel()

		if got := ProjectProgress(domain.ProjectBriefing); got != 10 {
			t.Fatalf("briefing progress: got %d, want 10", got)
		}
		if got := ProjectProgress("drafting"); got != 0 {
			t.Fatalf("unknown status progress: got %d, want 0", got)
		}
	})
}

func TestNextTaskStatus(t *testing.T) {
	t.Parallel()

	t.Run("three advances return to pending", func(t *testing.T) {
		t.Parallel()

		status := domain.TaskPending
		seen := []domain.TaskStatus{}
		for i := 0; i < 3; i++ {
			status = NextTaskStatus(status)
			seen = append(seen, status)
		}

		want := []domain.TaskStatus{domain.TaskInProgress, domain.TaskCompleted, domain.TaskPending}
		for i := range want {
			if seen[i] != want[i] {
				t.Fatalf("ring step %d: got %s, want %s", i, seen[i], want[i])
			}
		}
	})

	t.Run("the ring never terminates", func(t *testing.T) {
		t.Parallel()

		status := domain.TaskCompleted
		for i := 0; i < 9; i++ {
			status = NextTaskStatus(status)
		}
		if status != domain.TaskCompleted {
			t.Fatalf("after nine advances from completed: got %s, want completed", status)
		}
	})

	t.Run("unknown status resets to pending", func(t *testing.T) {
		t.Parallel()

		if got := NextTaskStatus("blocked"); got != domain.TaskPending {
			t.Fatalf("unknown status: got %s, want pending", got)
		}
	})
}

func TestTransactionGates(t *testing.T) {
	t.Parallel()

	if InitialTransactionStatus(domain.TransactionIncome) != domain.TransactionCompleted {
		t.Fatal("income must be created completed")
	}
	if InitialTransactionStatus(domain.TransactionExpense) != domain.TransactionPending {
		t.Fatal("expenses must be created pending")
	}

	if !CanApproveTransaction(domain.TransactionPending) {
		t.Fatal("pending must be approvable")
	}
	for _, from := range []domain.TransactionStatus{domain.TransactionApproved, domain.TransactionCompleted} {
		if CanApproveTransaction(from) {
			t.Fatalf("%s must not be approvable", from)
		}
		if CanRejectTransaction(from) {
			t.Fatalf("%s must not be rejectable", from)
		}
	}
}

func TestSpaceTransition(t *testing.T) {
	t.Parallel()

	allowed := [][2]domain.SpaceStatus{
		{domain.SpaceAvailable, domain.SpaceReserved},
		{domain.SpaceAvailable, domain.SpaceOccupied},
		{domain.SpaceReserved, domain.SpaceAvailable},
		{domain.SpaceOccupied, domain.SpaceAvailable},
		{domain.SpaceReserved, domain.SpaceOccupied},
		{domain.SpaceAvailable, domain.SpaceMaintenance},
		{domain.SpaceOccupied, domain.SpaceMaintenance},
		{domain.SpaceMaintenance, domain.SpaceAvailable},
	}
	for _, pair := range allowed {
		if err := SpaceTransition(pair[0], pair[1]); err != nil {
			t.Fatalf("%s -> %s should be allowed: %v", pair[0], pair[1], err)
		}
	}

	denied := [][2]domain.SpaceStatus{
		{domain.SpaceMaintenance, domain.SpaceReserved},
		{domain.SpaceMaintenance, domain.SpaceOccupied},
		{domain.SpaceAvailable, domain.SpaceAvailable},
		{domain.SpaceReserved, domain.SpaceReserved},
	}
	for _, pair := range denied {
		err := SpaceTransition(pair[0], pair[1])
		var tErr *InvalidTransitionError
		if !errors.As(err, &tErr) {
			t.Fatalf("%s -> %s should be denied, got %v", pair[0], pair[1], err)
		}
	}
}
