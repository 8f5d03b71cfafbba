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

// EmployeeRepository captures the persistence operations needed by the service.
type EmployeeRepository interface {
	CreateEmployee(ctx context.Context, employee domain.Employee) error
	GetEmployee(ctx context.Context, id string) (domain.Employee, error)
	UpdateEmployee(ctx context.Context, employee domain.Employee) error
	DeleteEmployee(ctx context.Context, id string) error
	ListEmployees(ctx context.Context) ([]domain.Employee, error)
}

// HRService manages employee records. Employee emails are unique.
type HRService struct {
	employees   EmployeeRepository
	notifier    Notifier
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewHRService constructs an HR service with the provided dependencies.
func NewHRService(employees EmployeeRepository, notifier Notifier, idGenerator func() string, now func() time.Time) *HRService {
	return NewHRServiceWithLogger(employees, notifier, idGenerator, now, nil)
}

// NewHRServiceWithLogger constructs an HR service with a specified logger.
func NewHRServiceWithLogger(employees EmployeeRepository, notifier Notifier, idGenerator func() string, now func() time.Time, logger *slog.Logger) *HRService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &HRService{employees: employees, notifier: notifier, idGenerator: idGenerator, now: now, logger: defaultLogger(logger)}
}

func (s *HRService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "HRService", operation, attrs...)
}

// CreateEmployee validates input and persists a new employee. A reused email
// surfaces ErrAlreadyExists.
func (s *HRService) CreateEmployee(ctx context.Context, params CreateEmployeeParams) (employee domain.Employee, err error) {
	if s == nil {
		err = fmt.Errorf("HRService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CreateEmployee", "principal_id", params.Principal.UserID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create employee", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("employee_id", employee.ID).InfoContext(ctx, "employee created")
	}()

	if err = requireCapability(params.Principal, authz.ManageHR); err != nil {
		return
	}

	vErr := validateEmployeeInput(params.Input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	now := s.now()
	employee = domain.Employee{
		ID:          s.idGenerator(),
		Name:        strings.TrimSpace(params.Input.Name),
		Email:       strings.TrimSpace(params.Input.Email),
		Phone:       strings.TrimSpace(params.Input.Phone),
		Position:    strings.TrimSpace(params.Input.Position),
		Department:  strings.TrimSpace(params.Input.Department),
		Salary:      params.Input.Salary,
		JoinDate:    strings.TrimSpace(params.Input.JoinDate),
		Status:      params.Input.Status,
		Performance: params.Input.Performance,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if s.employees == nil {
		return
	}
	if err = s.employees.CreateEmployee(ctx, employee); err != nil {
		err = mapRepoError(err)
		return
	}

	publish(ctx, logger, s.notifier, "New Employee", fmt.Sprintf("Employee %q joined as %s", employee.Name, employee.Position), domain.NotificationInfo)
	return
}

// GetEmployee returns a single employee.
func (s *HRService) GetEmployee(ctx context.Context, principal Principal, employeeID string) (employee domain.Employee, err error) {
	if s == nil {
		err = fmt.Errorf("HRService is nil")
		return
	}
	if err = requireCapability(principal, authz.ViewHR); err != nil {
		return
	}
	if s.employees == nil {
		err = ErrNotFound
		return
	}

	employee, err = s.employees.GetEmployee(ctx, employeeID)
	if err != nil {
		err = mapRepoError(err)
		s.loggerWith(ctx, "GetEmployee", "principal_id", principal.UserID, "employee_id", employeeID).
			ErrorContext(ctx, "failed to get employee", "error", err, "error_kind", ErrorKind(err))
	}
	return
}

// UpdateEmployee validates input and updates an existing employee.
func (s *HRService) UpdateEmployee(ctx context.Context, params UpdateEmployeeParams) (employee domain.Employee, err error) {
	if s == nil {
		err = fmt.Errorf("HRService is nil")
		return
	}

	logger := s.loggerWith(ctx, "UpdateEmployee",
		"principal_id", params.Principal.UserID,
		"employee_id", params.EmployeeID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update employee", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "employee updated")
	}()

	if err = requireCapability(params.Principal, authz.ManageHR); err != nil {
		return
	}
	if s.employees == nil {
		err = ErrNotFound
		return
	}

	var existing domain.Employee
	existing, err = s.employees.GetEmployee(ctx, params.EmployeeID)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	vErr := validateEmployeeInput(params.Input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	updated := existing
	updated.Name = strings.TrimSpace(params.Input.Name)
	updated.Email = strings.TrimSpace(params.Input.Email)
	updated.Phone = strings.TrimSpace(params.Input.Phone)
	updated.Position = strings.TrimSpace(params.Input.Position)
	updated.Department = strings.TrimSpace(params.Input.Department)
	updated.Salary = params.Input.Salary
	updated.JoinDate = strings.TrimSpace(params.Input.JoinDate)
	updated.Status = params.Input.Status
	updated.Performance = params.Input.Performance
	updated.UpdatedAt = s.now()

	if err = s.employees.UpdateEmployee(ctx, updated); err != nil {
		err = mapRepoError(err)
		return
	}
	employee = updated
	return
}

// DeleteEmployee removes an employee record.
func (s *HRService) DeleteEmployee(ctx context.Context, principal Principal, employeeID string) error {
	if s == nil {
		return fmt.Errorf("HRService is nil")
	}

	logger := s.loggerWith(ctx, "DeleteEmployee",
		"principal_id", principal.UserID,
		"employee_id", employeeID,
	)

	if err := requireCapability(principal, authz.ManageHR); err != nil {
		logger.ErrorContext(ctx, "failed to delete employee", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	if s.employees == nil {
		return ErrNotFound
	}

	existing, err := s.employees.GetEmployee(ctx, employeeID)
	if err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to delete employee", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	if err := s.employees.DeleteEmployee(ctx, employeeID); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to delete employee", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "employee deleted")
	publish(ctx, logger, s.notifier, "Employee Removed", fmt.Sprintf("Employee %q left the company", existing.Name), domain.NotificationInfo)
	return nil
}

// ListEmployees returns every employee in creation order.
func (s *HRService) ListEmployees(ctx context.Context, principal Principal) (employees []domain.Employee, err error) {
	if s == nil {
		err = fmt.Errorf("HRService is nil")
		return
	}
	if err = requireCapability(principal, authz.ViewHR); err != nil {
		return
	}
	if s.employees == nil {
		return nil, nil
	}

	logger := s.loggerWith(ctx, "ListEmployees", "principal_id", principal.UserID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list employees", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("result_count", len(employees)).InfoContext(ctx, "employees listed")
	}()

	employees, err = s.employees.ListEmployees(ctx)
	return
}

func validateEmployeeInput(input EmployeeInput) *ValidationError {
	vErr := &ValidationError{}

	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "name is required")
	}
	if strings.TrimSpace(input.Email) == "" {
		vErr.add("email", "email is required")
	}
	switch input.Status {
	case domain.EmployeeActive, domain.EmployeeOnLeave, domain.EmployeeInactive:
	default:
		vErr.add("status", "status must be active, on_leave, or inactive")
	}
	switch input.Performance {
	case domain.PerformanceExcellent, domain.PerformanceGood, domain.PerformanceAverage, domain.PerformanceNeedsImprovement:
	default:
		vErr.add("performance", "performance rating is not recognized")
	}
	if input.Salary < 0 {
		vErr.add("salary", "salary must not be negative")
	}

	return vErr
}
