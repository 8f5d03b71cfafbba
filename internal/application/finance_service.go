package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/wdh-os/internal/authz"
	"github.com/example/wdh-os/internal/domain"
	"github.com/example/wdh-os/internal/workflow"
)

// TransactionRepository captures the persistence operations needed by the service.
type TransactionRepository interface {
	CreateTransaction(ctx context.Context, transaction domain.Transaction) error
	GetTransaction(ctx context.Context, id string) (domain.Transaction, error)
	UpdateTransaction(ctx context.Context, transaction domain.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error
	ListTransactions(ctx context.Context) ([]domain.Transaction, error)
}

// FinanceService manages the transaction ledger and the expense approval flow.
type FinanceService struct {
	transactions TransactionRepository
	notifier     Notifier
	idGenerator  func() string
	now          func() time.Time
	logger       *slog.Logger
}

// NewFinanceService constructs a finance service with the provided dependencies.
func NewFinanceService(transactions TransactionRepository, notifier Notifier, idGenerator func() string, now func() time.Time) *FinanceService {
	return NewFinanceServiceWithLogger(transactions, notifier, idGenerator, now, nil)
}

// NewFinanceServiceWithLogger constructs a finance service with a specified logger.
func NewFinanceServiceWithLogger(transactions TransactionRepository, notifier Notifier, idGenerator func() string, now func() time.Time, logger *slog.Logger) *FinanceService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &FinanceService{transactions: transactions, notifier: notifier, idGenerator: idGenerator, now: now, logger: defaultLogger(logger)}
}

func (s *FinanceService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "FinanceService", operation, attrs...)
}

// CreateTransaction records a ledger entry. Income is created completed;
// expenses start pending and wait for approval.
func (s *FinanceService) CreateTransaction(ctx context.Context, params CreateTransactionParams) (transaction domain.Transaction, err error) {
	if s == nil {
		err = fmt.Errorf("FinanceService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CreateTransaction", "principal_id", params.Principal.UserID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create transaction", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("transaction_id", transaction.ID, "status", transaction.Status).InfoContext(ctx, "transaction created")
	}()

	if err = requireCapability(params.Principal, authz.ManageFinance); err != nil {
		return
	}

	vErr := validateTransactionInput(params.Input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	now := s.now()
	transaction = domain.Transaction{
		ID:          s.idGenerator(),
		Description: strings.TrimSpace(params.Input.Description),
		Type:        params.Input.Type,
		Category:    strings.TrimSpace(params.Input.Category),
		Amount:      params.Input.Amount,
		Date:        strings.TrimSpace(params.Input.Date),
		Status:      workflow.InitialTransactionStatus(params.Input.Type),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if s.transactions == nil {
		return
	}
	if err = s.transactions.CreateTransaction(ctx, transaction); err != nil {
		err = mapRepoError(err)
		return
	}

	if transaction.Type == domain.TransactionExpense {
		publish(ctx, logger, s.notifier, "Expense Pending", fmt.Sprintf("Expense %q awaits approval", transaction.Description), domain.NotificationInfo)
	} else {
		publish(ctx, logger, s.notifier, "Income Recorded", fmt.Sprintf("Income %q was recorded", transaction.Description), domain.NotificationInfo)
	}
	return
}

// GetTransaction returns a single ledger entry.
func (s *FinanceService) GetTransaction(ctx context.Context, principal Principal, transactionID string) (transaction domain.Transaction, err error) {
	if s == nil {
		err = fmt.Errorf("FinanceService is nil")
		return
	}
	if err = requireCapability(principal, authz.ViewFinance); err != nil {
		return
	}
	if s.transactions == nil {
		err = ErrNotFound
		return
	}

	transaction, err = s.transactions.GetTransaction(ctx, transactionID)
	if err != nil {
		err = mapRepoError(err)
		s.loggerWith(ctx, "GetTransaction", "principal_id", principal.UserID, "transaction_id", transactionID).
			ErrorContext(ctx, "failed to get transaction", "error", err, "error_kind", ErrorKind(err))
	}
	return
}

// UpdateTransaction rewrites the descriptive fields of an entry. Status,
// type-derived state, and approval markers are not caller controlled.
func (s *FinanceService) UpdateTransaction(ctx context.Context, params UpdateTransactionParams) (transaction domain.Transaction, err error) {
	if s == nil {
		err = fmt.Errorf("FinanceService is nil")
		return
	}

	logger := s.loggerWith(ctx, "UpdateTransaction",
		"principal_id", params.Principal.UserID,
		"transaction_id", params.TransactionID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update transaction", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "transaction updated")
	}()

	if err = requireCapability(params.Principal, authz.ManageFinance); err != nil {
		return
	}
	if s.transactions == nil {
		err = ErrNotFound
		return
	}

	var existing domain.Transaction
	existing, err = s.transactions.GetTransaction(ctx, params.TransactionID)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	vErr := validateTransactionInput(params.Input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	updated := existing
	updated.Description = strings.TrimSpace(params.Input.Description)
	updated.Category = strings.TrimSpace(params.Input.Category)
	updated.Amount = params.Input.Amount
	updated.Date = strings.TrimSpace(params.Input.Date)
	if params.Input.Type != existing.Type {
		// Retyping re-derives the lifecycle state and clears any approval.
		updated.Type = params.Input.Type
		updated.Status = workflow.InitialTransactionStatus(params.Input.Type)
		updated.ApprovedBy = ""
	}
	updated.UpdatedAt = s.now()

	if err = s.transactions.UpdateTransaction(ctx, updated); err != nil {
		err = mapRepoError(err)
		return
	}
	transaction = updated
	return
}

// ApproveTransaction moves a pending expense to approved and records the
// approver. Only ceo and coo hold the approval capability.
func (s *FinanceService) ApproveTransaction(ctx context.Context, principal Principal, transactionID string) (transaction domain.Transaction, err error) {
	if s == nil {
		err = fmt.Errorf("FinanceService is nil")
		return
	}

	logger := s.loggerWith(ctx, "ApproveTransaction",
		"principal_id", principal.UserID,
		"transaction_id", transactionID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to approve transaction", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "transaction approved")
	}()

	if err = requireCapability(principal, authz.ApproveExpenses); err != nil {
		return
	}
	if s.transactions == nil {
		err = ErrNotFound
		return
	}

	var existing domain.Transaction
	existing, err = s.transactions.GetTransaction(ctx, transactionID)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	if !workflow.CanApproveTransaction(existing.Status) {
		err = &workflow.InvalidTransitionError{Entity: "transaction", From: string(existing.Status), To: string(domain.TransactionApproved)}
		return
	}

	existing.Status = domain.TransactionApproved
	existing.ApprovedBy = principal.Name
	existing.UpdatedAt = s.now()

	if err = s.transactions.UpdateTransaction(ctx, existing); err != nil {
		err = mapRepoError(err)
		return
	}
	transaction = existing

	publish(ctx, logger, s.notifier, "Expense Approved", fmt.Sprintf("Expense %q was approved by %s", transaction.Description, principal.Name), domain.NotificationSuccess)
	return
}

// RejectTransaction removes a pending expense from the ledger. Entries past
// the pending gate cannot be rejected.
func (s *FinanceService) RejectTransaction(ctx context.Context, principal Principal, transactionID string) error {
	if s == nil {
		return fmt.Errorf("FinanceService is nil")
	}

	logger := s.loggerWith(ctx, "RejectTransaction",
		"principal_id", principal.UserID,
		"transaction_id", transactionID,
	)

	if err := requireCapability(principal, authz.ApproveExpenses); err != nil {
		logger.ErrorContext(ctx, "failed to reject transaction", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	if s.transactions == nil {
		return ErrNotFound
	}

	existing, err := s.transactions.GetTransaction(ctx, transactionID)
	if err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to reject transaction", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	if !workflow.CanRejectTransaction(existing.Status) {
		err = &workflow.InvalidTransitionError{Entity: "transaction", From: string(existing.Status), To: "rejected"}
		logger.ErrorContext(ctx, "failed to reject transaction", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	if err := s.transactions.DeleteTransaction(ctx, transactionID); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to reject transaction", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "transaction rejected")
	publish(ctx, logger, s.notifier, "Expense Rejected", fmt.Sprintf("Expense %q was rejected", existing.Description), domain.NotificationWarning)
	return nil
}

// DeleteTransaction removes a ledger entry regardless of status.
func (s *FinanceService) DeleteTransaction(ctx context.Context, principal Principal, transactionID string) error {
	if s == nil {
		return fmt.Errorf("FinanceService is nil")
	}

	logger := s.loggerWith(ctx, "DeleteTransaction",
		"principal_id", principal.UserID,
		"transaction_id", transactionID,
	)

	if err := requireCapability(principal, authz.ManageFinance); err != nil {
		logger.ErrorContext(ctx, "failed to delete transaction", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	if s.transactions == nil {
		return ErrNotFound
	}

	existing, err := s.transactions.GetTransaction(ctx, transactionID)
	if err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to delete transaction", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	if err := s.transactions.DeleteTransaction(ctx, transactionID); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to delete transaction", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "transaction deleted")
	publish(ctx, logger, s.notifier, "Transaction Removed", fmt.Sprintf("Transaction %q was removed from the ledger", existing.Description), domain.NotificationInfo)
	return nil
}

// ListTransactions returns the ledger in creation order.
func (s *FinanceService) ListTransactions(ctx context.Context, principal Principal) (transactions []domain.Transaction, err error) {
	if s == nil {
		err = fmt.Errorf("FinanceService is nil")
		return
	}
	if err = requireCapability(principal, authz.ViewFinance); err != nil {
		return
	}
	if s.transactions == nil {
		return nil, nil
	}

	logger := s.loggerWith(ctx, "ListTransactions", "principal_id", principal.UserID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list transactions", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("result_count", len(transactions)).InfoContext(ctx, "transactions listed")
	}()

	transactions, err = s.transactions.ListTransactions(ctx)
	return
}

func validateTransactionInput(input TransactionInput) *ValidationError {
	vErr := &ValidationError{}

	if strings.TrimSpace(input.Description) == "" {
		vErr.add("description", "description is required")
	}
	switch input.Type {
	case domain.TransactionIncome, domain.TransactionExpense:
	default:
		vErr.add("type", "type must be income or expense")
	}
	if input.Amount < 0 {
		vErr.add("amount", "amount must not be negative")
	}

	return vErr
}
