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

// TaskRepository captures the persistence operations needed by the service.
type TaskRepository interface {
	CreateTask(ctx context.Context, task domain.Task) error
	GetTask(ctx context.Context, id string) (domain.Task, error)
	UpdateTask(ctx context.Context, task domain.Task) error
	DeleteTask(ctx context.Context, id string) error
	ListTasks(ctx context.Context) ([]domain.Task, error)
}

// TaskAssigneeLookup resolves the employee a task is assigned to.
type TaskAssigneeLookup interface {
	GetEmployee(ctx context.Context, id string) (domain.Employee, error)
}

// TaskService manages the shared task board. Tasks are visible to every
// signed-in operator, so mutations are gated on the dashboard capability
// rather than a module-specific one.
type TaskService struct {
	tasks       TaskRepository
	employees   TaskAssigneeLookup
	notifier    Notifier
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewTaskService constructs a task service with the provided dependencies.
func NewTaskService(tasks TaskRepository, employees TaskAssigneeLookup, notifier Notifier, idGenerator func() string, now func() time.Time) *TaskService {
	return NewTaskServiceWithLogger(tasks, employees, notifier, idGenerator, now, nil)
}

// NewTaskServiceWithLogger constructs a task service with a specified logger.
func NewTaskServiceWithLogger(tasks TaskRepository, employees TaskAssigneeLookup, notifier Notifier, idGenerator func() string, now func() time.Time, logger *slog.Logger) *TaskService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &TaskService{tasks: tasks, employees: employees, notifier: notifier, idGenerator: idGenerator, now: now, logger: defaultLogger(logger)}
}

func (s *TaskService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "TaskService", operation, attrs...)
}

// CreateTask validates input and persists a new task. New tasks start pending
// and carry a snapshot of the assignee's name.
func (s *TaskService) CreateTask(ctx context.Context, params CreateTaskParams) (task domain.Task, err error) {
	if s == nil {
		err = fmt.Errorf("TaskService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CreateTask", "principal_id", params.Principal.UserID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create task", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("task_id", task.ID).InfoContext(ctx, "task created")
	}()

	if err = requireCapability(params.Principal, authz.ViewDashboard); err != nil {
		return
	}

	vErr := validateTaskInput(params.Input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	var assigneeName string
	if s.employees != nil && strings.TrimSpace(params.Input.AssigneeID) != "" {
		var assignee domain.Employee
		assignee, err = s.employees.GetEmployee(ctx, params.Input.AssigneeID)
		if err != nil {
			err = mapRepoError(err)
			return
		}
		assigneeName = assignee.Name
	}

	now := s.now()
	task = domain.Task{
		ID:           s.idGenerator(),
		Title:        strings.TrimSpace(params.Input.Title),
		Description:  strings.TrimSpace(params.Input.Description),
		AssigneeID:   strings.TrimSpace(params.Input.AssigneeID),
		AssigneeName: assigneeName,
		DueDate:      strings.TrimSpace(params.Input.DueDate),
		Priority:     params.Input.Priority,
		Status:       domain.TaskPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if s.tasks == nil {
		return
	}
	if err = s.tasks.CreateTask(ctx, task); err != nil {
		err = mapRepoError(err)
		return
	}

	publish(ctx, logger, s.notifier, "New Task", fmt.Sprintf("Task %q was added to the board", task.Title), domain.NotificationInfo)
	return
}

// GetTask returns a single task.
func (s *TaskService) GetTask(ctx context.Context, principal Principal, taskID string) (task domain.Task, err error) {
	if s == nil {
		err = fmt.Errorf("TaskService is nil")
		return
	}
	if err = requireCapability(principal, authz.ViewDashboard); err != nil {
		return
	}
	if s.tasks == nil {
		err = ErrNotFound
		return
	}

	task, err = s.tasks.GetTask(ctx, taskID)
	if err != nil {
		err = mapRepoError(err)
		s.loggerWith(ctx, "GetTask", "principal_id", principal.UserID, "task_id", taskID).
			ErrorContext(ctx, "failed to get task", "error", err, "error_kind", ErrorKind(err))
	}
	return
}

// UpdateTask rewrites the descriptive fields of a task. Status only moves
// through AdvanceTask.
func (s *TaskService) UpdateTask(ctx context.Context, params UpdateTaskParams) (task domain.Task, err error) {
	if s == nil {
		err = fmt.Errorf("TaskService is nil")
		return
	}

	logger := s.loggerWith(ctx, "UpdateTask",
		"principal_id", params.Principal.UserID,
		"task_id", params.TaskID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update task", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "task updated")
	}()

	if err = requireCapability(params.Principal, authz.ViewDashboard); err != nil {
		return
	}
	if s.tasks == nil {
		err = ErrNotFound
		return
	}

	var existing domain.Task
	existing, err = s.tasks.GetTask(ctx, params.TaskID)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	vErr := validateTaskInput(params.Input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	updated := existing
	updated.Title = strings.TrimSpace(params.Input.Title)
	updated.Description = strings.TrimSpace(params.Input.Description)
	updated.DueDate = strings.TrimSpace(params.Input.DueDate)
	updated.Priority = params.Input.Priority
	if assigneeID := strings.TrimSpace(params.Input.AssigneeID); assigneeID != existing.AssigneeID {
		updated.AssigneeID = assigneeID
		updated.AssigneeName = ""
		if s.employees != nil && assigneeID != "" {
			var assignee domain.Employee
			assignee, err = s.employees.GetEmployee(ctx, assigneeID)
			if err != nil {
				err = mapRepoError(err)
				return
			}
			updated.AssigneeName = assignee.Name
		}
	}
	updated.UpdatedAt = s.now()

	if err = s.tasks.UpdateTask(ctx, updated); err != nil {
		err = mapRepoError(err)
		return
	}
	task = updated
	return
}

// DeleteTask removes a task from the board.
func (s *TaskService) DeleteTask(ctx context.Context, principal Principal, taskID string) error {
	if s == nil {
		return fmt.Errorf("TaskService is nil")
	}

	logger := s.loggerWith(ctx, "DeleteTask",
		"principal_id", principal.UserID,
		"task_id", taskID,
	)

	if err := requireCapability(principal, authz.ViewDashboard); err != nil {
		logger.ErrorContext(ctx, "failed to delete task", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	if s.tasks == nil {
		return ErrNotFound
	}

	existing, err := s.tasks.GetTask(ctx, taskID)
	if err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to delete task", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	if err := s.tasks.DeleteTask(ctx, taskID); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to delete task", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "task deleted")
	publish(ctx, logger, s.notifier, "Task Removed", fmt.Sprintf("Task %q was removed from the board", existing.Title), domain.NotificationInfo)
	return nil
}

// ListTasks returns every task in creation order.
func (s *TaskService) ListTasks(ctx context.Context, principal Principal) (tasks []domain.Task, err error) {
	if s == nil {
		err = fmt.Errorf("TaskService is nil")
		return
	}
	if err = requireCapability(principal, authz.ViewDashboard); err != nil {
		return
	}
	if s.tasks == nil {
		return nil, nil
	}

	logger := s.loggerWith(ctx, "ListTasks", "principal_id", principal.UserID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list tasks", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("result_count", len(tasks)).InfoContext(ctx, "tasks listed")
	}()

	tasks, err = s.tasks.ListTasks(ctx)
	return
}

// AdvanceTask moves a task one step around the status ring; completed wraps
// back to pending.
func (s *TaskService) AdvanceTask(ctx context.Context, principal Principal, taskID string) (task domain.Task, err error) {
	if s == nil {
		err = fmt.Errorf("TaskService is nil")
		return
	}

	logger := s.loggerWith(ctx, "AdvanceTask",
		"principal_id", principal.UserID,
		"task_id", taskID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to advance task", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("status", task.Status).InfoContext(ctx, "task advanced")
	}()

	if err = requireCapability(principal, authz.ViewDashboard); err != nil {
		return
	}
	if s.tasks == nil {
		err = ErrNotFound
		return
	}

	var existing domain.Task
	existing, err = s.tasks.GetTask(ctx, taskID)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	next := workflow.NextTaskStatus(existing.Status)
	existing.Status = next
	existing.UpdatedAt = s.now()

	if err = s.tasks.UpdateTask(ctx, existing); err != nil {
		err = mapRepoError(err)
		return
	}
	task = existing

	if next == domain.TaskCompleted {
		publish(ctx, logger, s.notifier, "Task Completed", fmt.Sprintf("Task %q was completed", task.Title), domain.NotificationSuccess)
	}
	return
}

func validateTaskInput(input TaskInput) *ValidationError {
	vErr := &ValidationError{}

	if strings.TrimSpace(input.Title) == "" {
		vErr.add("title", "title is required")
	}
	switch input.Priority {
	case domain.PriorityHigh, domain.PriorityMedium, domain.PriorityLow:
	default:
		vErr.add("priority", "priority must be high, medium, or low")
	}

	return vErr
}
