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

type mediaService interface {
	CreateProject(ctx context.Context, params application.CreateProjectParams) (domain.MediaProject, error)
	GetProject(ctx context.Context, principal application.Principal, projectID string) (domain.MediaProject, error)
	UpdateProject(ctx context.Context, params application.UpdateProjectParams) (domain.MediaProject, error)
	DeleteProject(ctx context.Context, principal application.Principal, projectID string) error
	ListProjects(ctx context.Context, principal application.Principal) ([]domain.MediaProject, error)
	AdvanceProject(ctx context.Context, principal application.Principal, projectID string) (domain.MediaProject, error)
}

type ProjectHandler struct {
	service   mediaService
	responder responder
	logger    *slog.Logger
}

func NewProjectHandler(service mediaService, logger *slog.Logger) *ProjectHandler {
	base := defaultLogger(logger)
	return &ProjectHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *ProjectHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "ProjectHandler", operation, attrs...)
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "principal_id", principal.UserID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode project request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.UserID)

	project, err := h.service.CreateProject(r.Context(), application.CreateProjectParams{
		Principal: principal,
		Input:     req.toInput(),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "project creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("project_id", project.ID).InfoContext(r.Context(), "project created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, dataEnvelope(toProjectDTO(project)))
}

func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	projectID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(projectID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	project, err := h.service.GetProject(r.Context(), principal, projectID)
	if err != nil {
		h.log(r.Context(), "Get", "principal_id", principal.UserID, "project_id", projectID).
			ErrorContext(r.Context(), "project fetch failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, dataEnvelope(toProjectDTO(project)))
}

func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	projectID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(projectID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "principal_id", principal.UserID, "project_id", projectID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode project update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "principal_id", principal.UserID, "project_id", projectID)

	project, err := h.service.UpdateProject(r.Context(), application.UpdateProjectParams{
		Principal: principal,
		ProjectID: projectID,
		Input:     req.toInput(),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "project update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "project updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, dataEnvelope(toProjectDTO(project)))
}

// Advance moves the project one step along the fixed pipeline and syncs its
// progress percentage.
func (h *ProjectHandler) Advance(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	projectID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(projectID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Advance", "principal_id", principal.UserID, "project_id", projectID)

	project, err := h.service.AdvanceProject(r.Context(), principal, projectID)
	if err != nil {
		logger.ErrorContext(r.Context(), "project advance failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("status", project.Status).InfoContext(r.Context(), "project advanced")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, dataEnvelope(toProjectDTO(project)))
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	projectID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(projectID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "principal_id", principal.UserID, "project_id", projectID)

	if err := h.service.DeleteProject(r.Context(), principal, projectID); err != nil {
		logger.ErrorContext(r.Context(), "project delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "project deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, messageEnvelope("project deleted"))
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "List", "principal_id", principal.UserID)

	projects, err := h.service.ListProjects(r.Context(), principal)
	if err != nil {
		logger.ErrorContext(r.Context(), "project list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(projects)).InfoContext(r.Context(), "projects listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listEnvelope(toProjectDTOs(projects), len(projects)))
}

type projectRequest struct {
	Title    string  `json:"title"`
	ClientID string  `json:"client_id"`
	Type     string  `json:"type"`
	Deadline string  `json:"deadline"`
	Budget   float64 `json:"budget"`
	Assignee string  `json:"assignee"`
}

func (r projectRequest) toInput() application.ProjectInput {
	return application.ProjectInput{
		Title:    strings.TrimSpace(r.Title),
		ClientID: strings.TrimSpace(r.ClientID),
		Type:     domain.ProjectType(r.Type),
		Deadline: strings.TrimSpace(r.Deadline),
		Budget:   r.Budget,
		Assignee: strings.TrimSpace(r.Assignee),
	}
}

type projectDTO struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Client    string  `json:"client"`
	ClientID  string  `json:"client_id"`
	Type      string  `json:"type"`
	Status    string  `json:"status"`
	Deadline  string  `json:"deadline"`
	Budget    float64 `json:"budget"`
	Progress  int     `json:"progress"`
	Assignee  string  `json:"assignee"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

func toProjectDTO(project domain.MediaProject) projectDTO {
	return projectDTO{
		ID:        project.ID,
		Title:     project.Title,
		Client:    project.Client,
		ClientID:  project.ClientID,
		Type:      string(project.Type),
		Status:    string(project.Status),
		Deadline:  project.Deadline,
		Budget:    project.Budget,
		Progress:  project.Progress,
		Assignee:  project.Assignee,
		CreatedAt: project.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt: project.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toProjectDTOs(projects []domain.MediaProject) []projectDTO {
	out := make([]projectDTO, 0, len(projects))
	for _, project := range projects {
		out = append(out, toProjectDTO(project))
	}
	return out
}
