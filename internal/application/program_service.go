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

// StudentRepository captures the persistence operations needed by the service.
type StudentRepository interface {
	CreateStudent(ctx context.Context, student domain.Student) error
	GetStudent(ctx context.Context, id string) (domain.Student, error)
	UpdateStudent(ctx context.Context, student domain.Student) error
	DeleteStudent(ctx context.Context, id string) error
	ListStudents(ctx context.Context) ([]domain.Student, error)
}

// ProgramService manages students enrolled in the training program.
type ProgramService struct {
	students    StudentRepository
	notifier    Notifier
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewProgramService constructs a program service with the provided dependencies.
func NewProgramService(students StudentRepository, notifier Notifier, idGenerator func() string, now func() time.Time) *ProgramService {
	return NewProgramServiceWithLogger(students, notifier, idGenerator, now, nil)
}

// NewProgramServiceWithLogger constructs a program service with a specified logger.
func NewProgramServiceWithLogger(students StudentRepository, notifier Notifier, idGenerator func() string, now func() time.Time, logger *slog.Logger) *ProgramService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &ProgramService{students: students, notifier: notifier, idGenerator: idGenerator, now: now, logger: defaultLogger(logger)}
}

func (s *ProgramService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ProgramService", operation, attrs...)
}

// CreateStudent validates input and persists a new student.
func (s *ProgramService) CreateStudent(ctx context.Context, params CreateStudentParams) (student domain.Student, err error) {
	if s == nil {
		err = fmt.Errorf("ProgramService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CreateStudent", "principal_id", params.Principal.UserID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create student", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("student_id", student.ID).InfoContext(ctx, "student created")
	}()

	if err = requireCapability(params.Principal, authz.ManageStudents); err != nil {
		return
	}

	vErr := validateStudentInput(params.Input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	now := s.now()
	student = domain.Student{
		ID:         s.idGenerator(),
		Name:       strings.TrimSpace(params.Input.Name),
		Email:      strings.TrimSpace(params.Input.Email),
		Phone:      strings.TrimSpace(params.Input.Phone),
		Program:    strings.TrimSpace(params.Input.Program),
		University: strings.TrimSpace(params.Input.University),
		StartDate:  strings.TrimSpace(params.Input.StartDate),
		EndDate:    strings.TrimSpace(params.Input.EndDate),
		Status:     params.Input.Status,
		Progress:   params.Input.Progress,
		Mentor:     strings.TrimSpace(params.Input.Mentor),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if s.students == nil {
		return
	}
	if err = s.students.CreateStudent(ctx, student); err != nil {
		err = mapRepoError(err)
		return
	}

	publish(ctx, logger, s.notifier, "New Student", fmt.Sprintf("Student %q joined the program", student.Name), domain.NotificationInfo)
	return
}

// GetStudent returns a single student.
func (s *ProgramService) GetStudent(ctx context.Context, principal Principal, studentID string) (student domain.Student, err error) {
	if s == nil {
		err = fmt.Errorf("ProgramService is nil")
		return
	}
	if err = requireCapability(principal, authz.ViewStudents); err != nil {
		return
	}
	if s.students == nil {
		err = ErrNotFound
		return
	}

	student, err = s.students.GetStudent(ctx, studentID)
	if err != nil {
		err = mapRepoError(err)
		s.loggerWith(ctx, "GetStudent", "principal_id", principal.UserID, "student_id", studentID).
			ErrorContext(ctx, "failed to get student", "error", err, "error_kind", ErrorKind(err))
	}
	return
}

// UpdateStudent validates input and updates an existing student.
func (s *ProgramService) UpdateStudent(ctx context.Context, params UpdateStudentParams) (student domain.Student, err error) {
	if s == nil {
		err = fmt.Errorf("ProgramService is nil")
		return
	}

	logger := s.loggerWith(ctx, "UpdateStudent",
		"principal_id", params.Principal.UserID,
		"student_id", params.StudentID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update student", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "student updated")
	}()

	if err = requireCapability(params.Principal, authz.ManageStudents); err != nil {
		return
	}
	if s.students == nil {
		err = ErrNotFound
		return
	}

	var existing domain.Student
	existing, err = s.students.GetStudent(ctx, params.StudentID)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	vErr := validateStudentInput(params.Input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	updated := existing
	updated.Name = strings.TrimSpace(params.Input.Name)
	updated.Email = strings.TrimSpace(params.Input.Email)
	updated.Phone = strings.TrimSpace(params.Input.Phone)
	updated.Program = strings.TrimSpace(params.Input.Program)
	updated.University = strings.TrimSpace(params.Input.University)
	updated.StartDate = strings.TrimSpace(params.Input.StartDate)
	updated.EndDate = strings.TrimSpace(params.Input.EndDate)
	updated.Status = params.Input.Status
	updated.Progress = params.Input.Progress
	updated.Mentor = strings.TrimSpace(params.Input.Mentor)
	updated.UpdatedAt = s.now()

	if err = s.students.UpdateStudent(ctx, updated); err != nil {
		err = mapRepoError(err)
		return
	}
	student = updated

	if existing.Status != domain.StudentCompleted && updated.Status == domain.StudentCompleted {
		publish(ctx, logger, s.notifier, "Program Completed", fmt.Sprintf("Student %q completed the program", updated.Name), domain.NotificationSuccess)
	}
	return
}

// DeleteStudent removes a student from the program.
func (s *ProgramService) DeleteStudent(ctx context.Context, principal Principal, studentID string) error {
	if s == nil {
		return fmt.Errorf("ProgramService is nil")
	}

	logger := s.loggerWith(ctx, "DeleteStudent",
		"principal_id", principal.UserID,
		"student_id", studentID,
	)

	if err := requireCapability(principal, authz.ManageStudents); err != nil {
		logger.ErrorContext(ctx, "failed to delete student", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	if s.students == nil {
		return ErrNotFound
	}

	existing, err := s.students.GetStudent(ctx, studentID)
	if err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to delete student", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	if err := s.students.DeleteStudent(ctx, studentID); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to delete student", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "student deleted")
	publish(ctx, logger, s.notifier, "Student Removed", fmt.Sprintf("Student %q left the program", existing.Name), domain.NotificationInfo)
	return nil
}

// ListStudents returns every student in creation order.
func (s *ProgramService) ListStudents(ctx context.Context, principal Principal) (students []domain.Student, err error) {
	if s == nil {
		err = fmt.Errorf("ProgramService is nil")
		return
	}
	if err = requireCapability(principal, authz.ViewStudents); err != nil {
		return
	}
	if s.students == nil {
		return nil, nil
	}

	logger := s.loggerWith(ctx, "ListStudents", "principal_id", principal.UserID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list students", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("result_count", len(students)).InfoContext(ctx, "students listed")
	}()

	students, err = s.students.ListStudents(ctx)
	return
}

func validateStudentInput(input StudentInput) *ValidationError {
	vErr := &ValidationError{}

	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "name is required")
	}
	switch input.Status {
	case domain.StudentPending, domain.StudentActive, domain.StudentCompleted:
	default:
		vErr.add("status", "status must be pending, active, or completed")
	}
	if input.Progress < 0 || input.Progress > 100 {
		vErr.add("progress", "progress must be between 0 and 100")
	}

	return vErr
}
