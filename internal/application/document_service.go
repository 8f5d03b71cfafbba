package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/wdh-os/internal/authz"
	"github.com/example/wdh-os/internal/domain"
)

// DocumentRepository captures the persistence operations needed by the service.
type DocumentRepository interface {
	CreateDocument(ctx context.Context, document domain.Document) error
	GetDocument(ctx context.Context, id string) (domain.Document, error)
	DeleteDocument(ctx context.Context, id string) error
	ListDocuments(ctx context.Context) ([]domain.Document, error)
}

// DocumentService manages document metadata. Beyond the view/manage
// capabilities every operation passes the per-role category gate, and
// listings are filtered to the principal's allow-list.
type DocumentService struct {
	documents   DocumentRepository
	notifier    Notifier
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewDocumentService constructs a document service with the provided dependencies.
func NewDocumentService(documents DocumentRepository, notifier Notifier, idGenerator func() string, now func() time.Time) *DocumentService {
	return NewDocumentServiceWithLogger(documents, notifier, idGenerator, now, nil)
}

// NewDocumentServiceWithLogger constructs a document service with a specified logger.
func NewDocumentServiceWithLogger(documents DocumentRepository, notifier Notifier, idGenerator func() string, now func() time.Time, logger *slog.Logger) *DocumentService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &DocumentService{documents: documents, notifier: notifier, idGenerator: idGenerator, now: now, logger: defaultLogger(logger)}
}

func (s *DocumentService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "DocumentService", operation, attrs...)
}

func requireCategoryAccess(principal Principal, category domain.DocumentCategory) error {
	if authz.CanAccessDocumentCategory(principal.Role, category) {
		return nil
	}
	return &PermissionError{Role: principal.Role, Capability: authz.ViewDocuments}
}

// UploadDocument registers document metadata in an accessible category.
func (s *DocumentService) UploadDocument(ctx context.Context, params UploadDocumentParams) (document domain.Document, err error) {
	if s == nil {
		err = fmt.Errorf("DocumentService is nil")
		return
	}

	logger := s.loggerWith(ctx, "UploadDocument",
		"principal_id", params.Principal.UserID,
		"category", params.Input.Category,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to upload document", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("document_id", document.ID).InfoContext(ctx, "document uploaded")
	}()

	if err = requireCapability(params.Principal, authz.ManageDocuments); err != nil {
		return
	}

	vErr := validateDocumentInput(params.Input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	if err = requireCategoryAccess(params.Principal, params.Input.Category); err != nil {
		return
	}

	now := s.now()
	document = domain.Document{
		ID:         s.idGenerator(),
		Name:       strings.TrimSpace(params.Input.Name),
		Category:   params.Input.Category,
		Type:       strings.TrimSpace(params.Input.Type),
		Size:       params.Input.Size,
		UploadedBy: params.Principal.Name,
		UploadDate: now.Format("2006-01-02"),
		CreatedAt:  now,
	}

	if s.documents == nil {
		return
	}
	if err = s.documents.CreateDocument(ctx, document); err != nil {
		err = mapRepoError(err)
		return
	}

	publish(ctx, logger, s.notifier, "Document Uploaded", fmt.Sprintf("Document %q was filed under %s", document.Name, document.Category), domain.NotificationInfo)
	return
}

// GetDocument returns a single document if its category is accessible to the
// principal. Inaccessible categories read as not found rather than forbidden
// so the gate does not leak which documents exist.
func (s *DocumentService) GetDocument(ctx context.Context, principal Principal, documentID string) (document domain.Document, err error) {
	if s == nil {
		err = fmt.Errorf("DocumentService is nil")
		return
	}
	if err = requireCapability(principal, authz.ViewDocuments); err != nil {
		return
	}
	if s.documents == nil {
		err = ErrNotFound
		return
	}

	document, err = s.documents.GetDocument(ctx, documentID)
	if err != nil {
		err = mapRepoError(err)
		s.loggerWith(ctx, "GetDocument", "principal_id", principal.UserID, "document_id", documentID).
			ErrorContext(ctx, "failed to get document", "error", err, "error_kind", ErrorKind(err))
		return
	}

	if !authz.CanAccessDocumentCategory(principal.Role, document.Category) {
		document = domain.Document{}
		err = ErrNotFound
	}
	return
}

// DeleteDocument removes document metadata. The category gate applies to
// deletion as well.
func (s *DocumentService) DeleteDocument(ctx context.Context, principal Principal, documentID string) error {
	if s == nil {
		return fmt.Errorf("DocumentService is nil")
	}

	logger := s.loggerWith(ctx, "DeleteDocument",
		"principal_id", principal.UserID,
		"document_id", documentID,
	)

	if err := requireCapability(principal, authz.ManageDocuments); err != nil {
		logger.ErrorContext(ctx, "failed to delete document", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	if s.documents == nil {
		return ErrNotFound
	}

	existing, err := s.documents.GetDocument(ctx, documentID)
	if err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to delete document", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	if !authz.CanAccessDocumentCategory(principal.Role, existing.Category) {
		err = ErrNotFound
		logger.ErrorContext(ctx, "failed to delete document", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	if err := s.documents.DeleteDocument(ctx, documentID); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to delete document", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "document deleted")
	publish(ctx, logger, s.notifier, "Document Removed", fmt.Sprintf("Document %q was removed from %s", existing.Name, existing.Category), domain.NotificationInfo)
	return nil
}

// ListDocuments returns the documents whose categories are on the principal's
// allow-list, in creation order.
func (s *DocumentService) ListDocuments(ctx context.Context, principal Principal) (documents []domain.Document, err error) {
	if s == nil {
		err = fmt.Errorf("DocumentService is nil")
		return
	}
	if err = requireCapability(principal, authz.ViewDocuments); err != nil {
		return
	}
	if s.documents == nil {
		return nil, nil
	}

	logger := s.loggerWith(ctx, "ListDocuments", "principal_id", principal.UserID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list documents", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("result_count", len(documents)).InfoContext(ctx, "documents listed")
	}()

	var all []domain.Document
	all, err = s.documents.ListDocuments(ctx)
	if err != nil {
		return
	}

	documents = make([]domain.Document, 0, len(all))
	for _, document := range all {
		if authz.CanAccessDocumentCategory(principal.Role, document.Category) {
			documents = append(documents, document)
		}
	}
	return
}

// AccessibleCategories returns the category allow-list for the principal.
func (s *DocumentService) AccessibleCategories(principal Principal) []domain.DocumentCategory {
	return authz.AccessibleDocumentCategories(principal.Role)
}

func validateDocumentInput(input DocumentInput) *ValidationError {
	vErr := &ValidationError{}

	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "name is required")
	}
	valid := false
	for _, category := range domain.DocumentCategories() {
		if input.Category == category {
			valid = true
			break
		}
	}
	if !valid {
		vErr.add("category", "category is not recognized")
	}
	if input.Size < 0 {
		vErr.add("size", "size must not be negative")
	}

	return vErr
}
