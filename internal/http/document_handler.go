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

type documentService interface {
	UploadDocument(ctx context.Context, params application.UploadDocumentParams) (domain.Document, error)
	GetDocument(ctx context.Context, principal application.Principal, documentID string) (domain.Document, error)
	DeleteDocument(ctx context.Context, principal application.Principal, documentID string) error
	ListDocuments(ctx context.Context, principal application.Principal) ([]domain.Document, error)
}

type DocumentHandler struct {
	service   documentService
	responder responder
	logger    *slog.Logger
}

func NewDocumentHandler(service documentService, logger *slog.Logger) *DocumentHandler {
	base := defaultLogger(logger)
	return &DocumentHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *DocumentHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "DocumentHandler", operation, attrs...)
}

func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req documentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Upload", "principal_id", principal.UserID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode document request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Upload", "principal_id", principal.UserID, "category", req.Category)

	document, err := h.service.UploadDocument(r.Context(), application.UploadDocumentParams{
		Principal: principal,
		Input:     req.toInput(),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "document upload failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("document_id", document.ID).InfoContext(r.Context(), "document uploaded")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, dataEnvelope(toDocumentDTO(document)))
}

func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	documentID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(documentID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	document, err := h.service.GetDocument(r.Context(), principal, documentID)
	if err != nil {
		h.log(r.Context(), "Get", "principal_id", principal.UserID, "document_id", documentID).
			ErrorContext(r.Context(), "document fetch failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, dataEnvelope(toDocumentDTO(document)))
}

func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	documentID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(documentID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "principal_id", principal.UserID, "document_id", documentID)

	if err := h.service.DeleteDocument(r.Context(), principal, documentID); err != nil {
		logger.ErrorContext(r.Context(), "document delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "document deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, messageEnvelope("document deleted"))
}

// List returns only documents in categories the principal's role may access.
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "List", "principal_id", principal.UserID)

	documents, err := h.service.ListDocuments(r.Context(), principal)
	if err != nil {
		logger.ErrorContext(r.Context(), "document list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(documents)).InfoContext(r.Context(), "documents listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listEnvelope(toDocumentDTOs(documents), len(documents)))
}

type documentRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Type     string `json:"type"`
	Size     int64  `json:"size"`
}

func (r documentRequest) toInput() application.DocumentInput {
	return application.DocumentInput{
		Name:     strings.TrimSpace(r.Name),
		Category: domain.DocumentCategory(r.Category),
		Type:     strings.TrimSpace(r.Type),
		Size:     r.Size,
	}
}

type documentDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	Type       string `json:"type"`
	Size       int64  `json:"size"`
	UploadedBy string `json:"uploaded_by"`
	UploadDate string `json:"upload_date"`
	CreatedAt  string `json:"created_at"`
}

func toDocumentDTO(document domain.Document) documentDTO {
	return documentDTO{
		ID:         document.ID,
		Name:       document.Name,
		Category:   string(document.Category),
		Type:       document.Type,
		Size:       document.Size,
		UploadedBy: document.UploadedBy,
		UploadDate: document.UploadDate,
		CreatedAt:  document.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toDocumentDTOs(documents []domain.Document) []documentDTO {
	out := make([]documentDTO, 0, len(documents))
	for _, document := range documents {
		out = append(out, toDocumentDTO(document))
	}
	return out
}
