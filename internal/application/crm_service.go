package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/wdh-os/internal/authz"
	"github.com/example/wdh-os/internal/domain"
	"github.com/example/wdh-os/internal/persistence"
)

// ClientRepository captures the persistence operations needed by the service.
type ClientRepository interface {
	CreateClient(ctx context.Context, client domain.Client) error
	GetClient(ctx context.Context, id string) (domain.Client, error)
	UpdateClient(ctx context.Context, client domain.Client) error
	DeleteClient(ctx context.Context, id string) error
	ListClients(ctx context.Context) ([]domain.Client, error)
}

// CRMService orchestrates validation, authorization, and persistence for clients.
type CRMService struct {
	clients     ClientRepository
	notifier    Notifier
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewCRMService constructs a CRM service with the provided dependencies.
func NewCRMService(clients ClientRepository, notifier Notifier, idGenerator func() string, now func() time.Time) *CRMService {
	return NewCRMServiceWithLogger(clients, notifier, idGenerator, now, nil)
}

// NewCRMServiceWithLogger constructs a CRM service with a specified logger.
func NewCRMServiceWithLogger(clients ClientRepository, notifier Notifier, idGenerator func() string, now func() time.Time, logger *slog.Logger) *CRMService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &CRMService{clients: clients, notifier: notifier, idGenerator: idGenerator, now: now, logger: defaultLogger(logger)}
}

func (s *CRMService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "CRMService", operation, attrs...)
}

// CreateClient validates input and persists a new client.
func (s *CRMService) CreateClient(ctx context.Context, params CreateClientParams) (client domain.Client, err error) {
	if s == nil {
		err = fmt.Errorf("CRMService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CreateClient", "principal_id", params.Principal.UserID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create client", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("client_id", client.ID).InfoContext(ctx, "client created")
	}()

	if err = requireCapability(params.Principal, authz.ManageClients); err != nil {
		return
	}

	vErr := validateClientInput(params.Input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	now := s.now()
	client = domain.Client{
		ID:          s.idGenerator(),
		Name:        strings.TrimSpace(params.Input.Name),
		Company:     strings.TrimSpace(params.Input.Company),
		Email:       strings.TrimSpace(params.Input.Email),
		Phone:       strings.TrimSpace(params.Input.Phone),
		Type:        params.Input.Type,
		Status:      params.Input.Status,
		Revenue:     params.Input.Revenue,
		LastContact: strings.TrimSpace(params.Input.LastContact),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if s.clients == nil {
		return
	}
	if err = s.clients.CreateClient(ctx, client); err != nil {
		err = mapRepoError(err)
		return
	}

	publish(ctx, logger, s.notifier, "New Client", fmt.Sprintf("Client %q was added to the CRM", client.Name), domain.NotificationInfo)
	return
}

// GetClient returns a single client.
func (s *CRMService) GetClient(ctx context.Context, principal Principal, clientID string) (client domain.Client, err error) {
	if s == nil {
		err = fmt.Errorf("CRMService is nil")
		return
	}
	if err = requireCapability(principal, authz.ViewCRM); err != nil {
		return
	}
	if s.clients == nil {
		err = ErrNotFound
		return
	}

	client, err = s.clients.GetClient(ctx, clientID)
	if err != nil {
		err = mapRepoError(err)
		s.loggerWith(ctx, "GetClient", "principal_id", principal.UserID, "client_id", clientID).
			ErrorContext(ctx, "failed to get client", "error", err, "error_kind", ErrorKind(err))
	}
	return
}

// UpdateClient validates input and updates an existing client.
func (s *CRMService) UpdateClient(ctx context.Context, params UpdateClientParams) (client domain.Client, err error) {
	if s == nil {
		err = fmt.Errorf("CRMService is nil")
		return
	}

	logger := s.loggerWith(ctx, "UpdateClient",
		"principal_id", params.Principal.UserID,
		"client_id", params.ClientID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update client", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "client updated")
	}()

	if err = requireCapability(params.Principal, authz.ManageClients); err != nil {
		return
	}
	if s.clients == nil {
		err = ErrNotFound
		return
	}

	var existing domain.Client
	existing, err = s.clients.GetClient(ctx, params.ClientID)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	vErr := validateClientInput(params.Input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	updated := existing
	updated.Name = strings.TrimSpace(params.Input.Name)
	updated.Company = strings.TrimSpace(params.Input.Company)
	updated.Email = strings.TrimSpace(params.Input.Email)
	updated.Phone = strings.TrimSpace(params.Input.Phone)
	updated.Type = params.Input.Type
	updated.Status = params.Input.Status
	updated.Revenue = params.Input.Revenue
	updated.LastContact = strings.TrimSpace(params.Input.LastContact)
	updated.UpdatedAt = s.now()

	if err = s.clients.UpdateClient(ctx, updated); err != nil {
		err = mapRepoError(err)
		return
	}
	client = updated
	return
}

// DeleteClient removes an existing client.
func (s *CRMService) DeleteClient(ctx context.Context, principal Principal, clientID string) error {
	if s == nil {
		return fmt.Errorf("CRMService is nil")
	}

	logger := s.loggerWith(ctx, "DeleteClient",
		"principal_id", principal.UserID,
		"client_id", clientID,
	)

	if err := requireCapability(principal, authz.ManageClients); err != nil {
		logger.ErrorContext(ctx, "failed to delete client", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	if s.clients == nil {
		return ErrNotFound
	}

	existing, err := s.clients.GetClient(ctx, clientID)
	if err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to delete client", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	if err := s.clients.DeleteClient(ctx, clientID); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to delete client", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "client deleted")
	publish(ctx, logger, s.notifier, "Client Removed", fmt.Sprintf("Client %q was removed from the CRM", existing.Name), domain.NotificationInfo)
	return nil
}

// ListClients returns every client in creation order.
func (s *CRMService) ListClients(ctx context.Context, principal Principal) (clients []domain.Client, err error) {
	if s == nil {
		err = fmt.Errorf("CRMService is nil")
		return
	}
	if err = requireCapability(principal, authz.ViewCRM); err != nil {
		return
	}
	if s.clients == nil {
		return nil, nil
	}

	logger := s.loggerWith(ctx, "ListClients", "principal_id", principal.UserID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list clients", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("result_count", len(clients)).InfoContext(ctx, "clients listed")
	}()

	clients, err = s.clients.ListClients(ctx)
	return
}

func validateClientInput(input ClientInput) *ValidationError {
	vErr := &ValidationError{}

	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "name is required")
	}
	switch input.Type {
	case domain.ClientEnterprise, domain.ClientStartup, domain.ClientIndividual:
	default:
		vErr.add("type", "type must be enterprise, startup, or individual")
	}
	switch input.Status {
	case domain.ClientActive, domain.ClientProspect, domain.ClientInactive:
	default:
		vErr.add("status", "status must be active, prospect, or inactive")
	}
	if input.Revenue < 0 {
		vErr.add("revenue", "revenue must not be negative")
	}

	return vErr
}

func mapRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrDuplicate) {
		return ErrAlreadyExists
	}
	return err
}
