package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/wdh-os/internal/application"
	"github.com/example/wdh-os/internal/domain"
)

type financeService interface {
	CreateTransaction(ctx context.Context, params application.CreateTransactionParams) (domain.Transaction, error)
	GetTransaction(ctx context.Context, principal application.Principal, transactionID string) (domain.Transaction, error)
	UpdateTransaction(ctx context.Context, params application.UpdateTransactionParams) (domain.Transaction, error)
	ApproveTransaction(ctx context.Context, principal application.Principal, transactionID string) (domain.Transaction, error)
	RejectTransaction(ctx context.Context, principal application.Principal, transactionID string) error
	DeleteTransaction(ctx context.Context, principal application.Principal, transactionID string) error
	ListTransactions(ctx context.Context, principal application.Principal) ([]domain.Transaction, error)
}

type TransactionHandler struct {
	service   financeService
	responder responder
	logger    *slog.Logger
}

func NewTransactionHandler(service financeService, logger *slog.Logger) *TransactionHandler {
	base := defaultLogger(logger)
	return &TransactionHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *TransactionHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "TransactionHandler", operation, attrs...)
}

func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "principal_id", principal.UserID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode transaction request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.UserID)

	transaction, err := h.service.CreateTransaction(r.Context(), application.CreateTransactionParams{
		Principal: principal,
		Input:     req.toInput(),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "transaction creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("transaction_id", transaction.ID).InfoContext(r.Context(), "transaction created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, dataEnvelope(toTransactionDTO(transaction)))
}

func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	transactionID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(transactionID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	transaction, err := h.service.GetTransaction(r.Context(), principal, transactionID)
	if err != nil {
		h.log(r.Context(), "Get", "principal_id", principal.UserID, "transaction_id", transactionID).
			ErrorContext(r.Context(), "transaction fetch failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, dataEnvelope(toTransactionDTO(transaction)))
}

func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	transactionID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(transactionID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "principal_id", principal.UserID, "transaction_id", transactionID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode transaction update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "principal_id", principal.UserID, "transaction_id", transactionID)

	transaction, err := h.service.UpdateTransaction(r.Context(), application.UpdateTransactionParams{
		Principal:     principal,
		TransactionID: transactionID,
		Input:         req.toInput(),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "transaction update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "transaction updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, dataEnvelope(toTransactionDTO(transaction)))
}

// Approve moves a pending expense to approved and records the approver.
func (h *TransactionHandler) Approve(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	transactionID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(transactionID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Approve", "principal_id", principal.UserID, "transaction_id", transactionID)

	transaction, err := h.service.ApproveTransaction(r.Context(), principal, transactionID)
	if err != nil {
		logger.ErrorContext(r.Context(), "transaction approval failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "transaction approved")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, dataEnvelope(toTransactionDTO(transaction)))
}

// Reject removes a pending expense from the ledger.
func (h *TransactionHandler) Reject(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	transactionID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(transactionID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Reject", "principal_id", principal.UserID, "transaction_id", transactionID)

	if err := h.service.RejectTransaction(r.Context(), principal, transactionID); err != nil {
		logger.ErrorContext(r.Context(), "transaction rejection failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "transaction rejected")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, messageEnvelope("transaction rejected"))
}

func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	transactionID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(transactionID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "principal_id", principal.UserID, "transaction_id", transactionID)

	if err := h.service.DeleteTransaction(r.Context(), principal, transactionID); err != nil {
		logger.ErrorContext(r.Context(), "transaction delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "transaction deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, messageEnvelope("transaction deleted"))
}

func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "List", "principal_id", principal.UserID)

	transactions, err := h.service.ListTransactions(r.Context(), principal)
	if err != nil {
		logger.ErrorContext(r.Context(), "transaction list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(transactions)).InfoContext(r.Context(), "transactions listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listEnvelope(toTransactionDTOs(transactions), len(transactions)))
}

type transactionRequest struct {
	Description string  `json:"description"`
	Type        string  `json:"type"`
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
}

func (r transactionRequest) toInput() application.TransactionInput {
	return application.TransactionInput{
		Description: strings.TrimSpace(r.Description),
		Type:        domain.TransactionType(r.Type),
		Category:    strings.TrimSpace(r.Category),
		Amount:      r.Amount,
		Date:        strings.TrimSpace(r.Date),
	}
}

type transactionDTO struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Type        string  `json:"type"`
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
	Status      string  `json:"status"`
	ApprovedBy  string  `json:"approved_by,omitempty"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

func toTransactionDTO(transaction domain.Transaction) transactionDTO {
	return transactionDTO{
		ID:          transaction.ID,
		Description: transaction.Description,
		Type:        string(transaction.Type),
		Category:    transaction.Category,
		Amount:      transaction.Amount,
		Date:        transaction.Date,
		Status:      string(transaction.Status),
		ApprovedBy:  transaction.ApprovedBy,
		CreatedAt:   transaction.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:   transaction.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toTransactionDTOs(transactions []domain.Transaction) []transactionDTO {
	out := make([]transactionDTO, 0, len(transactions))
	for _, transaction := range transactions {
		out = append(out, toTransactionDTO(transaction))
	}
	return out
}
