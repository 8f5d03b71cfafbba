package application

import (
	"context"
	"errors"
	"testing"

	"github.com/example/wdh-os/internal/domain"
	"github.com/example/wdh-os/internal/workflow"
)

func financeFixture() (*FinanceService, *notifierStub) {
	notifier := &notifierStub{}
	return NewFinanceService(testStore(), notifier, sequenceID("tx"), fixedClock(testTime)), notifier
}

func TestFinanceService_CreateTransaction(t *testing.T) {
	t.Run("income is created completed", func(t *testing.T) {
		svc, _ := financeFixture()

		tx, err := svc.CreateTransaction(context.Background(), CreateTransactionParams{
			Principal: cooPrincipal(),
			Input:     TransactionInput{Description: "Studio rental", Type: domain.TransactionIncome, Category: "spaces", Amount: 240, Date: "2024-03-20"},
		})
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if tx.Status != domain.TransactionCompleted {
			t.Fatalf("expected completed income, got %s", tx.Status)
		}
		if tx.ApprovedBy != "" {
			t.Fatalf("income must not carry an approver, got %q", tx.ApprovedBy)
		}
	})

	t.Run("expenses start pending", func(t *testing.T) {
		svc, _ := financeFixture()

		tx, err := svc.CreateTransaction(context.Background(), CreateTransactionParams{
			Principal: cooPrincipal(),
			Input:     TransactionInput{Description: "Camera lens", Type: domain.TransactionExpense, Category: "equipment", Amount: 900, Date: "2024-03-21"},
		})
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if tx.Status != domain.TransactionPending {
			t.Fatalf("expected pending expense, got %s", tx.Status)
		}
	})

	t.Run("denies roles without manage_finance", func(t *testing.T) {
		svc, _ := financeFixture()

		_, err := svc.CreateTransaction(context.Background(), CreateTransactionParams{
			Principal: adminPrincipal(),
			Input:     TransactionInput{Description: "Misc", Type: domain.TransactionExpense, Amount: 10},
		})
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("validates amount and type", func(t *testing.T) {
		svc, _ := financeFixture()

		_, err := svc.CreateTransaction(context.Background(), CreateTransactionParams{
			Principal: ceoPrincipal(),
			Input:     TransactionInput{Description: " ", Type: "transfer", Amount: -5},
		})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		for _, field := range []string{"description", "type", "amount"} {
			if _, ok := vErr.FieldErrors[field]; !ok {
				t.Fatalf("expected %s validation error, got %v", field, vErr.FieldErrors)
			}
		}
	})

	t.Run("accepts a zero amount", func(t *testing.T) {
		svc, _ := financeFixture()

		tx, err := svc.CreateTransaction(context.Background(), CreateTransactionParams{
			Principal: ceoPrincipal(),
			Input:     TransactionInput{Description: "Waived workshop fee", Type: domain.TransactionIncome, Category: "program", Amount: 0, Date: "2024-03-21"},
		})
		if err != nil {
			t.Fatalf("expected a zero amount to pass validation, got %v", err)
		}
		if tx.Amount != 0 {
			t.Fatalf("expected amount 0, got %v", tx.Amount)
		}
	})
}

func TestFinanceService_ApprovalFlow(t *testing.T) {
	svc, notifier := financeFixture()
	ctx := context.Background()

	expense, err := svc.CreateTransaction(ctx, CreateTransactionParams{
		Principal: cooPrincipal(),
		Input:     TransactionInput{Description: "Lighting rig", Type: domain.TransactionExpense, Category: "equipment", Amount: 1200, Date: "2024-03-22"},
	})
	if err != nil {
		t.Fatalf("seed expense: %v", err)
	}

	t.Run("only approve_expenses holders may approve", func(t *testing.T) {
		for _, p := range []Principal{ctoPrincipal(), mediaPrincipal(), adminPrincipal()} {
			if _, err := svc.ApproveTransaction(ctx, p, expense.ID); !errors.Is(err, ErrUnauthorized) {
				t.Fatalf("expected %s to be denied, got %v", p.Role, err)
			}
		}
	})

	t.Run("approval records the approver and publishes success", func(t *testing.T) {
		approved, err := svc.ApproveTransaction(ctx, cooPrincipal(), expense.ID)
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if approved.Status != domain.TransactionApproved {
			t.Fatalf("expected approved, got %s", approved.Status)
		}
		if approved.ApprovedBy != "Markus Dreyer" {
			t.Fatalf("expected approver name, got %q", approved.ApprovedBy)
		}

		last := notifier.published[len(notifier.published)-1]
		if last.Type != domain.NotificationSuccess {
			t.Fatalf("expected success notification, got %+v", last)
		}
	})

	t.Run("re-approval is an invalid transition", func(t *testing.T) {
		_, err := svc.ApproveTransaction(ctx, ceoPrincipal(), expense.ID)
		var tErr *workflow.InvalidTransitionError
		if !errors.As(err, &tErr) {
			t.Fatalf("expected InvalidTransitionError, got %v", err)
		}
		if tErr.From != string(domain.TransactionApproved) {
			t.Fatalf("unexpected transition error: %+v", tErr)
		}
	})

	t.Run("approved entries cannot be rejected", func(t *testing.T) {
		err := svc.RejectTransaction(ctx, ceoPrincipal(), expense.ID)
		var tErr *workflow.InvalidTransitionError
		if !errors.As(err, &tErr) {
			t.Fatalf("expected InvalidTransitionError, got %v", err)
		}
	})
}

func TestFinanceService_RejectTransaction(t *testing.T) {
	svc, _ := financeFixture()
	ctx := context.Background()

	expense, err := svc.CreateTransaction(ctx, CreateTransactionParams{
		Principal: cooPrincipal(),
		Input:     TransactionInput{Description: "Conference trip", Type: domain.TransactionExpense, Category: "travel", Amount: 800, Date: "2024-03-23"},
	})
	if err != nil {
		t.Fatalf("seed expense: %v", err)
	}

	if err := svc.RejectTransaction(ctx, ceoPrincipal(), expense.ID); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if _, err := svc.GetTransaction(ctx, ceoPrincipal(), expense.ID); !errors.Is(err, ErrNotFound) {
		t.Fatal("expected rejected expense to be removed from the ledger")
	}
}

func TestFinanceService_ViewAccess(t *testing.T) {
	svc, _ := financeFixture()
	ctx := context.Background()

	if _, err := svc.ListTransactions(ctx, ceoPrincipal()); err != nil {
		t.Fatalf("expected ceo to view finance, got %v", err)
	}
	for _, p := range []Principal{ctoPrincipal(), mediaPrincipal(), adminPrincipal()} {
		if _, err := svc.ListTransactions(ctx, p); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected %s to be denied, got %v", p.Role, err)
		}
	}
}
