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

type spaceService interface {
	CreateSpace(ctx context.Context, params application.CreateSpaceParams) (domain.Space, error)
	GetSpace(ctx context.Context, principal application.Principal, spaceID string) (domain.Space, error)
	UpdateSpace(ctx context.Context, params application.UpdateSpaceParams) (domain.Space, error)
	DeleteSpace(ctx context.Context, principal application.Principal, spaceID string) error
	ListSpaces(ctx context.Context, principal application.Principal) ([]domain.Space, error)
	SetSpaceStatus(ctx context.Context, params application.SetSpaceStatusParams) (domain.Space, error)
}

type SpaceHandler struct {
	service   spaceService
	responder responder
	logger    *slog.Logger
}

func NewSpaceHandler(service spaceService, logger *slog.Logger) *SpaceHandler {
	base := defaultLogger(logger)
	return &SpaceHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *SpaceHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "SpaceHandler", operation, attrs...)
}

func (h *SpaceHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req spaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "principal_id", principal.UserID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode space request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.UserID)

	space, err := h.service.CreateSpace(r.Context(), application.CreateSpaceParams{
		Principal: principal,
		Input:     req.toInput(),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "space creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("space_id", space.ID).InfoContext(r.Context(), "space created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, dataEnvelope(toSpaceDTO(space)))
}

func (h *SpaceHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	spaceID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(spaceID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	space, err := h.service.GetSpace(r.Context(), principal, spaceID)
	if err != nil {
		h.log(r.Context(), "Get", "principal_id", principal.UserID, "space_id", spaceID).
			ErrorContext(r.Context(), "space fetch failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, dataEnvelope(toSpaceDTO(space)))
}

func (h *SpaceHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	spaceID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(spaceID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req spaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "principal_id", principal.UserID, "space_id", spaceID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode space update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "principal_id", principal.UserID, "space_id", spaceID)

	space, err := h.service.UpdateSpace(r.Context(), application.UpdateSpaceParams{
		Principal: principal,
		SpaceID:   spaceID,
		Input:     req.toInput(),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "space update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "space updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, dataEnvelope(toSpaceDTO(space)))
}

// SetStatus serves the occupancy subresource. Reservation normally happens
// through bookings; this endpoint carries the maintenance branch and manual
// occupancy changes.
func (h *SpaceHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	spaceID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(spaceID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req spaceStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "SetStatus", "principal_id", principal.UserID, "space_id", spaceID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode status request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "SetStatus", "principal_id", principal.UserID, "space_id", spaceID, "status", req.Status)

	space, err := h.service.SetSpaceStatus(r.Context(), application.SetSpaceStatusParams{
		Principal: principal,
		SpaceID:   spaceID,
		Status:    domain.SpaceStatus(strings.TrimSpace(req.Status)),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "space status change failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "space status changed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, dataEnvelope(toSpaceDTO(space)))
}

func (h *SpaceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	spaceID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(spaceID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "principal_id", principal.UserID, "space_id", spaceID)

	if err := h.service.DeleteSpace(r.Context(), principal, spaceID); err != nil {
		logger.ErrorContext(r.Context(), "space delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "space deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, messageEnvelope("space deleted"))
}

func (h *SpaceHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "List", "principal_id", principal.UserID)

	spaces, err := h.service.ListSpaces(r.Context(), principal)
	if err != nil {
		logger.ErrorContext(r.Context(), "space list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(spaces)).InfoContext(r.Context(), "spaces listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listEnvelope(toSpaceDTOs(spaces), len(spaces)))
}

type spaceRequest struct {
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	Capacity     int     `json:"capacity"`
	PricePerHour float64 `json:"price_per_hour"`
}

func (r spaceRequest) toInput() application.SpaceInput {
	return application.SpaceInput{
		Name:         strings.TrimSpace(r.Name),
		Type:         domain.SpaceType(r.Type),
		Capacity:     r.Capacity,
		PricePerHour: r.PricePerHour,
	}
}

type spaceStatusRequest struct {
	Status string `json:"status"`
}

type spaceBookingDTO struct {
	ClientID   string `json:"client_id"`
	ClientName string `json:"client_name"`
	Date       string `json:"date"`
	Until      string `json:"until"`
}

type spaceDTO struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Type           string           `json:"type"`
	Capacity       int              `json:"capacity"`
	PricePerHour   float64          `json:"price_per_hour"`
	Status         string           `json:"status"`
	CurrentBooking *spaceBookingDTO `json:"current_booking,omitempty"`
	CreatedAt      string           `json:"created_at"`
	UpdatedAt      string           `json:"updated_at"`
}

func toSpaceDTO(space domain.Space) spaceDTO {
	dto := spaceDTO{
		ID:           space.ID,
		Name:         space.Name,
		Type:         string(space.Type),
		Capacity:     space.Capacity,
		PricePerHour: space.PricePerHour,
		Status:       string(space.Status),
		CreatedAt:    space.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:    space.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	if space.CurrentBooking != nil {
		dto.CurrentBooking = &spaceBookingDTO{
			ClientID:   space.CurrentBooking.ClientID,
			ClientName: space.CurrentBooking.ClientName,
			Date:       space.CurrentBooking.Date,
			Until:      space.CurrentBooking.Until,
		}
	}
	return dto
}

func toSpaceDTOs(spaces []domain.Space) []spaceDTO {
	out := make([]spaceDTO, 0, len(spaces))
	for _, space := range spaces {
		out = append(out, toSpaceDTO(space))
	}
	return out
}
