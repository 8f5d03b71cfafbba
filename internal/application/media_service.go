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

// ProjectRepository captures the persistence operations needed by the service.
type ProjectRepository interface {
	CreateProject(ctx context.Context, project domain.MediaProject) error
	GetProject(ctx context.Context, id string) (domain.MediaProject, error)
	UpdateProject(ctx context.Context, project domain.MediaProject) error
	DeleteProject(ctx context.Context, id string) error
	ListProjects(ctx context.Context) ([]domain.MediaProject, error)
}

// ProjectClientLookup resolves the client referenced by a project.
type ProjectClientLookup interface {
	GetClient(ctx context.Context, id string) (domain.Client, error)
}

// MediaService manages media projects and their production pipeline.
type MediaService struct {
	projects    ProjectRepository
	clients     ProjectClientLookup
	notifier    Notifier
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewMediaService constructs a media service with the provided dependencies.
func NewMediaService(projects ProjectRepository, clients ProjectClientLookup, notifier Notifier, idGenerator func() string, now func() time.Time) *MediaService {
	return NewMediaServiceWithLogger(projects, clients, notifier, idGenerator, now, nil)
}

// NewMediaServiceWithLogger constructs a media service with a specified logger.
func NewMediaServiceWithLogger(projects ProjectRepository, clients ProjectClientLookup, notifier Notifier, idGenerator func() string, now func() time.Time, logger *slog.Logger) *MediaService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &MediaService{projects: projects, clients: clients, notifier: notifier, idGenerator: idGenerator, now: now, logger: defaultLogger(logger)}
}

func (s *MediaService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "MediaService", operation, attrs...)
}

// CreateProject validates input and persists a new project. New projects start
// in briefing with the matching progress value.
func (s *MediaService) CreateProject(ctx context.Context, params CreateProjectParams) (project domain.MediaProject, err error) {
	if s == nil {
		err = fmt.Errorf("MediaService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CreateProject", "principal_id", params.Principal.UserID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create project", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("project_id", project.ID).InfoContext(ctx, "project created")
	}()

	if err = requireCapability(params.Principal, authz.ManageMedia); err != nil {
		return
	}

	vErr := validateProjectInput(params.Input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	var clientName string
	if s.clients != nil && strings.TrimSpace(params.Input.ClientID) != "" {
		var client domain.Client
		client, err = s.clients.GetClient(ctx, params.Input.ClientID)
		if err != nil {
			err = mapRepoError(err)
			return
		}
		clientName = client.Name
	}

	now := s.now()
	project = domain.MediaProject{
		ID:        s.idGenerator(),
		Title:     strings.TrimSpace(params.Input.Title),
		Client:    clientName,
		ClientID:  strings.TrimSpace(params.Input.ClientID),
		Type:      params.Input.Type,
		Status:    domain.ProjectBriefing,
		Deadline:  strings.TrimSpace(params.Input.Deadline),
		Budget:    params.Input.Budget,
		Progress:  workflow.ProjectProgress(domain.ProjectBriefing),
		Assignee:  strings.TrimSpace(params.Input.Assignee),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if s.projects == nil {
		return
	}
	if err = s.projects.CreateProject(ctx, project); err != nil {
		err = mapRepoError(err)
		return
	}

	publish(ctx, logger, s.notifier, "New Media Project", fmt.Sprintf("Project %q entered briefing", project.Title), domain.NotificationInfo)
	return
}

// GetProject returns a single project.
func (s *MediaService) GetProject(ctx context.Context, principal Principal, projectID string) (project domain.MediaProject, err error) {
	if s == nil {
		err = fmt.Errorf("MediaService is nil")
		return
	}
	if err = requireCapability(principal, authz.ViewMedia); err != nil {
		return
	}
	if s.projects == nil {
		err = ErrNotFound
		return
	}

	project, err = s.projects.GetProject(ctx, projectID)
	if err != nil {
		err = mapRepoError(err)
		s.loggerWith(ctx, "GetProject", "principal_id", principal.UserID, "project_id", projectID).
			ErrorContext(ctx, "failed to get project", "error", err, "error_kind", ErrorKind(err))
	}
	return
}

// UpdateProject updates descriptive fields of a project. Status and progress
// only move through AdvanceProject.
func (s *MediaService) UpdateProject(ctx context.Context, params UpdateProjectParams) (project domain.MediaProject, err error) {
	if s == nil {
		err = fmt.Errorf("MediaService is nil")
		return
	}

	logger := s.loggerWith(ctx, "UpdateProject",
		"principal_id", params.Principal.UserID,
		"project_id", params.ProjectID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update project", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "project updated")
	}()

	if err = requireCapability(params.Principal, authz.ManageMedia); err != nil {
		return
	}
	if s.projects == nil {
		err = ErrNotFound
		return
	}

	var existing domain.MediaProject
	existing, err = s.projects.GetProject(ctx, params.ProjectID)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	vErr := validateProjectInput(params.Input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	updated := existing
	updated.Title = strings.TrimSpace(params.Input.Title)
	updated.Type = params.Input.Type
	updated.Deadline = strings.TrimSpace(params.Input.Deadline)
	updated.Budget = params.Input.Budget
	updated.Assignee = strings.TrimSpace(params.Input.Assignee)
	if clientID := strings.TrimSpace(params.Input.ClientID); clientID != existing.ClientID {
		updated.ClientID = clientID
		updated.Client = ""
		if s.clients != nil && clientID != "" {
			var client domain.Client
			client, err = s.clients.GetClient(ctx, clientID)
			if err != nil {
				err = mapRepoError(err)
				return
			}
			updated.Client = client.Name
		}
	}
	updated.UpdatedAt = s.now()

	if err = s.projects.UpdateProject(ctx, updated); err != nil {
		err = mapRepoError(err)
		return
	}
	project = updated
	return
}

// DeleteProject removes a project.
func (s *MediaService) DeleteProject(ctx context.Context, principal Principal, projectID string) error {
	if s == nil {
		return fmt.Errorf("MediaService is nil")
	}

	logger := s.loggerWith(ctx, "DeleteProject",
		"principal_id", principal.UserID,
		"project_id", projectID,
	)

	if err := requireCapability(principal, authz.ManageMedia); err != nil {
		logger.ErrorContext(ctx, "failed to delete project", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	if s.projects == nil {
		return ErrNotFound
	}

	existing, err := s.projects.GetProject(ctx, projectID)
	if err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to delete project", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	if err := s.projects.DeleteProject(ctx, projectID); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to delete project", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "project deleted")
	publish(ctx, logger, s.notifier, "Project Removed", fmt.Sprintf("Project %q was removed", existing.Title), domain.NotificationInfo)
	return nil
}

// ListProjects returns every project in creation order.
func (s *MediaService) ListProjects(ctx context.Context, principal Principal) (projects []domain.MediaProject, err error) {
	if s == nil {
		err = fmt.Errorf("MediaService is nil")
		return
	}
	if err = requireCapability(principal, authz.ViewMedia); err != nil {
		return
	}
	if s.projects == nil {
		return nil, nil
	}

	logger := s.loggerWith(ctx, "ListProjects", "principal_id", principal.UserID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list projects", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("result_count", len(projects)).InfoContext(ctx, "projects listed")
	}()

	projects, err = s.projects.ListProjects(ctx)
	return
}

// AdvanceProject moves a project one step along the production pipeline and
// synchronizes its progress percentage. Completed projects cannot advance.
func (s *MediaService) AdvanceProject(ctx context.Context, principal Principal, projectID string) (project domain.MediaProject, err error) {
	if s == nil {
		err = fmt.Errorf("MediaService is nil")
		return
	}

	logger := s.loggerWith(ctx, "AdvanceProject",
		"principal_id", principal.UserID,
		"project_id", projectID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to advance project", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("status", project.Status, "progress", project.Progress).InfoContext(ctx, "project advanced")
	}()

	if err = requireCapability(principal, authz.ManageMedia); err != nil {
		return
	}
	if s.projects == nil {
		err = ErrNotFound
		return
	}

	var existing domain.MediaProject
	existing, err = s.projects.GetProject(ctx, projectID)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	var next domain.ProjectStatus
	next, err = workflow.NextProjectStatus(existing.Status)
	if err != nil {
		return
	}

	existing.Status = next
	existing.Progress = workflow.ProjectProgress(next)
	existing.UpdatedAt = s.now()

	if err = s.projects.UpdateProject(ctx, existing); err != nil {
		err = mapRepoError(err)
		return
	}
	project = existing

	if next == domain.ProjectCompleted {
		publish(ctx, logger, s.notifier, "Project Completed", fmt.Sprintf("Project %q finished the pipeline", project.Title), domain.NotificationSuccess)
	} else {
		publish(ctx, logger, s.notifier, "Project Advanced", fmt.Sprintf("Project %q moved to %s", project.Title, next), domain.NotificationInfo)
	}
	return
}

func validateProjectInput(input ProjectInput) *ValidationError {
	vErr := &ValidationError{}

	if strings.TrimSpace(input.Title) == "" {
		vErr.add("title", "title is required")
	}
	switch input.Type {
	case domain.ProjectVideo, domain.ProjectAudio, domain.ProjectPodcast:
	default:
		vErr.add("type", "type must be video, audio, or podcast")
	}
	if input.Budget < 0 {
		vErr.add("budget", "budget must not be negative")
	}

	return vErr
}
