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
	"github.com/example/wdh-os/internal/workflow"
)

// SpaceRepository captures the persistence operations needed for spaces.
type SpaceRepository interface {
	CreateSpace(ctx context.Context, space domain.Space) error
	GetSpace(ctx context.Context, id string) (domain.Space, error)
	UpdateSpace(ctx context.Context, space domain.Space) error
	DeleteSpace(ctx context.Context, id string) error
	ListSpaces(ctx context.Context) ([]domain.Space, error)
}

// BookingRepository captures the persistence operations needed for bookings.
type BookingRepository interface {
	CreateBooking(ctx context.Context, booking domain.Booking) error
	GetBooking(ctx context.Context, id string) (domain.Booking, error)
	UpdateBooking(ctx context.Context, booking domain.Booking) error
	ListBookings(ctx context.Context) ([]domain.Booking, error)
}

// BookingClientLookup resolves the client referenced by a booking.
type BookingClientLookup interface {
	GetClient(ctx context.Context, id string) (domain.Client, error)
}

// WorkspaceService manages spaces, their occupancy lifecycle, and bookings.
// A booking mutation always cascades into the referenced space.
type WorkspaceService struct {
	spaces      SpaceRepository
	bookings    BookingRepository
	clients     BookingClientLookup
	notifier    Notifier
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewWorkspaceService constructs a workspace service with the provided dependencies.
func NewWorkspaceService(spaces SpaceRepository, bookings BookingRepository, clients BookingClientLookup, notifier Notifier, idGenerator func() string, now func() time.Time) *WorkspaceService {
	return NewWorkspaceServiceWithLogger(spaces, bookings, clients, notifier, idGenerator, now, nil)
}

// NewWorkspaceServiceWithLogger constructs a workspace service with a specified logger.
func NewWorkspaceServiceWithLogger(spaces SpaceRepository, bookings BookingRepository, clients BookingClientLookup, notifier Notifier, idGenerator func() string, now func() time.Time, logger *slog.Logger) *WorkspaceService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &WorkspaceService{
		spaces:      spaces,
		bookings:    bookings,
		clients:     clients,
		notifier:    notifier,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *WorkspaceService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "WorkspaceService", operation, attrs...)
}

// CreateSpace validates input and persists a new space. New spaces start available.
func (s *WorkspaceService) CreateSpace(ctx context.Context, params CreateSpaceParams) (space domain.Space, err error) {
	if s == nil {
		err = fmt.Errorf("WorkspaceService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CreateSpace", "principal_id", params.Principal.UserID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create space", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("space_id", space.ID).InfoContext(ctx, "space created")
	}()

	if err = requireCapability(params.Principal, authz.ManageSpaces); err != nil {
		return
	}

	vErr := validateSpaceInput(params.Input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	now := s.now()
	space = domain.Space{
		ID:           s.idGenerator(),
		Name:         strings.TrimSpace(params.Input.Name),
		Type:         params.Input.Type,
		Capacity:     params.Input.Capacity,
		PricePerHour: params.Input.PricePerHour,
		Status:       domain.SpaceAvailable,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if s.spaces == nil {
		return
	}
	if err = s.spaces.CreateSpace(ctx, space); err != nil {
		err = mapRepoError(err)
		return
	}

	publish(ctx, logger, s.notifier, "New Space", fmt.Sprintf("Space %q was added to the workspace catalog", space.Name), domain.NotificationInfo)
	return
}

// GetSpace returns a single space.
func (s *WorkspaceService) GetSpace(ctx context.Context, principal Principal, spaceID string) (space domain.Space, err error) {
	if s == nil {
		err = fmt.Errorf("WorkspaceService is nil")
		return
	}
	if err = requireCapability(principal, authz.ViewSpaces); err != nil {
		return
	}
	if s.spaces == nil {
		err = ErrNotFound
		return
	}

	space, err = s.spaces.GetSpace(ctx, spaceID)
	if err != nil {
		err = mapRepoError(err)
		s.loggerWith(ctx, "GetSpace", "principal_id", principal.UserID, "space_id", spaceID).
			ErrorContext(ctx, "failed to get space", "error", err, "error_kind", ErrorKind(err))
	}
	return
}

// UpdateSpace updates catalog attributes of a space. Occupancy status is not
// touched here; it only moves through bookings and SetSpaceStatus.
func (s *WorkspaceService) UpdateSpace(ctx context.Context, params UpdateSpaceParams) (space domain.Space, err error) {
	if s == nil {
		err = fmt.Errorf("WorkspaceService is nil")
		return
	}

	logger := s.loggerWith(ctx, "UpdateSpace",
		"principal_id", params.Principal.UserID,
		"space_id", params.SpaceID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update space", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "space updated")
	}()

	if err = requireCapability(params.Principal, authz.ManageSpaces); err != nil {
		return
	}
	if s.spaces == nil {
		err = ErrNotFound
		return
	}

	var existing domain.Space
	existing, err = s.spaces.GetSpace(ctx, params.SpaceID)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	vErr := validateSpaceInput(params.Input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	updated := existing
	updated.Name = strings.TrimSpace(params.Input.Name)
	updated.Type = params.Input.Type
	updated.Capacity = params.Input.Capacity
	updated.PricePerHour = params.Input.PricePerHour
	updated.UpdatedAt = s.now()

	if err = s.spaces.UpdateSpace(ctx, updated); err != nil {
		err = mapRepoError(err)
		return
	}
	space = updated
	return
}

// DeleteSpace removes a space from the catalog.
func (s *WorkspaceService) DeleteSpace(ctx context.Context, principal Principal, spaceID string) error {
	if s == nil {
		return fmt.Errorf("WorkspaceService is nil")
	}

	logger := s.loggerWith(ctx, "DeleteSpace",
		"principal_id", principal.UserID,
		"space_id", spaceID,
	)

	if err := requireCapability(principal, authz.ManageSpaces); err != nil {
		logger.ErrorContext(ctx, "failed to delete space", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	if s.spaces == nil {
		return ErrNotFound
	}

	existing, err := s.spaces.GetSpace(ctx, spaceID)
	if err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to delete space", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	if err := s.spaces.DeleteSpace(ctx, spaceID); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to delete space", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "space deleted")
	publish(ctx, logger, s.notifier, "Space Removed", fmt.Sprintf("Space %q was removed from the workspace catalog", existing.Name), domain.NotificationInfo)
	return nil
}

// ListSpaces returns every space in creation order.
func (s *WorkspaceService) ListSpaces(ctx context.Context, principal Principal) (spaces []domain.Space, err error) {
	if s == nil {
		err = fmt.Errorf("WorkspaceService is nil")
		return
	}
	if err = requireCapability(principal, authz.ViewSpaces); err != nil {
		return
	}
	if s.spaces == nil {
		return nil, nil
	}

	logger := s.loggerWith(ctx, "ListSpaces", "principal_id", principal.UserID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list spaces", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("result_count", len(spaces)).InfoContext(ctx, "spaces listed")
	}()

	spaces, err = s.spaces.ListSpaces(ctx)
	return
}

// SetSpaceStatus moves a space along the occupancy graph directly. This is the
// path for the maintenance branch; booking flows use CreateBooking and
// CancelBooking instead.
func (s *WorkspaceService) SetSpaceStatus(ctx context.Context, params SetSpaceStatusParams) (space domain.Space, err error) {
	if s == nil {
		err = fmt.Errorf("WorkspaceService is nil")
		return
	}

	logger := s.loggerWith(ctx, "SetSpaceStatus",
		"principal_id", params.Principal.UserID,
		"space_id", params.SpaceID,
		"target_status", params.Status,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to set space status", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "space status changed")
	}()

	if err = requireCapability(params.Principal, authz.ManageSpaces); err != nil {
		return
	}
	if s.spaces == nil {
		err = ErrNotFound
		return
	}

	var existing domain.Space
	existing, err = s.spaces.GetSpace(ctx, params.SpaceID)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	if err = workflow.SpaceTransition(existing.Status, params.Status); err != nil {
		return
	}

	updated := existing
	updated.Status = params.Status
	if params.Status == domain.SpaceAvailable || params.Status == domain.SpaceMaintenance {
		updated.CurrentBooking = nil
	}
	updated.UpdatedAt = s.now()

	if err = s.spaces.UpdateSpace(ctx, updated); err != nil {
		err = mapRepoError(err)
		return
	}
	space = updated

	if params.Status == domain.SpaceMaintenance {
		publish(ctx, logger, s.notifier, "Space Under Maintenance", fmt.Sprintf("Space %q was taken out of service", updated.Name), domain.NotificationWarning)
	}
	return
}

// CreateBooking records a confirmed booking and cascades into the referenced
// space: the space moves to reserved and carries the occupancy snapshot.
func (s *WorkspaceService) CreateBooking(ctx context.Context, params CreateBookingParams) (booking domain.Booking, err error) {
	if s == nil {
		err = fmt.Errorf("WorkspaceService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CreateBooking",
		"principal_id", params.Principal.UserID,
		"space_id", params.Input.SpaceID,
		"client_id", params.Input.ClientID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create booking", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("booking_id", booking.ID).InfoContext(ctx, "booking created")
	}()

	if err = requireCapability(params.Principal, authz.ManageSpaces); err != nil {
		return
	}
	if s.spaces == nil || s.bookings == nil {
		err = fmt.Errorf("booking repositories not configured")
		return
	}

	vErr := validateBookingInput(params.Input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	var space domain.Space
	space, err = s.spaces.GetSpace(ctx, params.Input.SpaceID)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	var clientName string
	if s.clients != nil {
		var client domain.Client
		client, err = s.clients.GetClient(ctx, params.Input.ClientID)
		if err != nil {
			err = mapRepoError(err)
			return
		}
		clientName = client.Name
	}

	if err = workflow.SpaceTransition(space.Status, domain.SpaceReserved); err != nil {
		return
	}

	now := s.now()
	booking = domain.Booking{
		ID:         s.idGenerator(),
		SpaceID:    space.ID,
		SpaceName:  space.Name,
		ClientID:   params.Input.ClientID,
		ClientName: clientName,
		Date:       strings.TrimSpace(params.Input.Date),
		StartTime:  strings.TrimSpace(params.Input.StartTime),
		EndTime:    strings.TrimSpace(params.Input.EndTime),
		Status:     domain.BookingConfirmed,
		TotalPrice: params.Input.TotalPrice,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err = s.bookings.CreateBooking(ctx, booking); err != nil {
		err = mapRepoError(err)
		return
	}

	space.Status = domain.SpaceReserved
	space.CurrentBooking = &domain.SpaceBooking{
		ClientID:   booking.ClientID,
		ClientName: booking.ClientName,
		Date:       booking.Date,
		Until:      booking.EndTime,
	}
	space.UpdatedAt = now
	if err = s.spaces.UpdateSpace(ctx, space); err != nil {
		err = mapRepoError(err)
		return
	}

	publish(ctx, logger, s.notifier, "New Booking", fmt.Sprintf("Space %q was booked for %s", space.Name, booking.Date), domain.NotificationInfo)
	return
}

// GetBooking returns a single booking.
func (s *WorkspaceService) GetBooking(ctx context.Context, principal Principal, bookingID string) (booking domain.Booking, err error) {
	if s == nil {
		err = fmt.Errorf("WorkspaceService is nil")
		return
	}
	if err = requireCapability(principal, authz.ViewSpaces); err != nil {
		return
	}
	if s.bookings == nil {
		err = ErrNotFound
		return
	}

	booking, err = s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		err = mapRepoError(err)
		s.loggerWith(ctx, "GetBooking", "principal_id", principal.UserID, "booking_id", bookingID).
			ErrorContext(ctx, "failed to get booking", "error", err, "error_kind", ErrorKind(err))
	}
	return
}

// ListBookings returns every booking, cancelled ones included.
func (s *WorkspaceService) ListBookings(ctx context.Context, principal Principal) (bookings []domain.Booking, err error) {
	if s == nil {
		err = fmt.Errorf("WorkspaceService is nil")
		return
	}
	if err = requireCapability(principal, authz.ViewSpaces); err != nil {
		return
	}
	if s.bookings == nil {
		return nil, nil
	}

	logger := s.loggerWith(ctx, "ListBookings", "principal_id", principal.UserID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list bookings", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("result_count", len(bookings)).InfoContext(ctx, "bookings listed")
	}()

	bookings, err = s.bookings.ListBookings(ctx)
	return
}

// CancelBooking marks a booking cancelled and releases the referenced space
// back to available. The booking row stays on record.
func (s *WorkspaceService) CancelBooking(ctx context.Context, principal Principal, bookingID string) (booking domain.Booking, err error) {
	if s == nil {
		err = fmt.Errorf("WorkspaceService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CancelBooking",
		"principal_id", principal.UserID,
		"booking_id", bookingID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to cancel booking", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "booking cancelled")
	}()

	if err = requireCapability(principal, authz.ManageSpaces); err != nil {
		return
	}
	if s.bookings == nil {
		err = ErrNotFound
		return
	}

	var existing domain.Booking
	existing, err = s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	if existing.Status == domain.BookingCancelled {
		err = &workflow.InvalidTransitionError{Entity: "booking", From: string(existing.Status), To: string(domain.BookingCancelled)}
		return
	}

	now := s.now()
	existing.Status = domain.BookingCancelled
	existing.UpdatedAt = now
	if err = s.bookings.UpdateBooking(ctx, existing); err != nil {
		err = mapRepoError(err)
		return
	}
	booking = existing

	// Release the space. A booking referencing a deleted space still cancels.
	if s.spaces != nil {
		var space domain.Space
		space, err = s.spaces.GetSpace(ctx, existing.SpaceID)
		switch {
		case err == nil:
			if workflow.CanTransitionSpace(space.Status, domain.SpaceAvailable) {
				space.Status = domain.SpaceAvailable
				space.CurrentBooking = nil
				space.UpdatedAt = now
				if err = s.spaces.UpdateSpace(ctx, space); err != nil {
					err = mapRepoError(err)
					return
				}
			}
		case errors.Is(mapRepoError(err), ErrNotFound):
			err = nil
		default:
			err = mapRepoError(err)
			return
		}
	}

	publish(ctx, logger, s.notifier, "Booking Cancelled", fmt.Sprintf("Booking for space %q on %s was cancelled", existing.SpaceName, existing.Date), domain.NotificationWarning)
	return
}

func validateSpaceInput(input SpaceInput) *ValidationError {
	vErr := &ValidationError{}

	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "name is required")
	}
	switch input.Type {
	case domain.SpaceOffice, domain.SpaceConference, domain.SpaceCoworking, domain.SpaceStudio:
	default:
		vErr.add("type", "type must be office, conference, coworking, or studio")
	}
	if input.Capacity <= 0 {
		vErr.add("capacity", "capacity must be positive")
	}
	if input.PricePerHour < 0 {
		vErr.add("price_per_hour", "price must not be negative")
	}

	return vErr
}

func validateBookingInput(input BookingInput) *ValidationError {
	vErr := &ValidationError{}

	if strings.TrimSpace(input.SpaceID) == "" {
		vErr.add("space_id", "space_id is required")
	}
	if strings.TrimSpace(input.ClientID) == "" {
		vErr.add("client_id", "client_id is required")
	}
	if strings.TrimSpace(input.Date) == "" {
		vErr.add("date", "date is required")
	}
	if input.TotalPrice < 0 {
		vErr.add("total_price", "total price must not be negative")
	}

	return vErr
}
