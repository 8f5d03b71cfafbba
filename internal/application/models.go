package application

import (
	"context"

	"github.com/example/wdh-os/internal/domain"
	"github.com/example/wdh-os/internal/persistence"
)

// Principal represents the authenticated user invoking a service method. The
// role is fixed at session issue time.
type Principal struct {
	UserID string
	Name   string
	Role   domain.Role
}

// Notifier publishes a derived notification for a completed mutation.
// Publication is best effort; services log failures without rolling back.
type Notifier interface {
	Publish(ctx context.Context, title, message string, kind domain.NotificationType) error
}

// ClientInput captures caller provided client fields.
type ClientInput struct {
	Name        string
	Company     string
	Email       string
	Phone       string
	Type        domain.ClientType
	Status      domain.ClientStatus
	Revenue     float64
	LastContact string
}

// CreateClientParams wraps the data required to create a client.
type CreateClientParams struct {
	Principal Principal
	Input     ClientInput
}

// UpdateClientParams wraps the data required to update a client.
type UpdateClientParams struct {
	Principal Principal
	ClientID  string
	Input     ClientInput
}

// SpaceInput captures caller provided space fields.
type SpaceInput struct {
	Name         string
	Type         domain.SpaceType
	Capacity     int
	PricePerHour float64
}

// CreateSpaceParams wraps the data required to create a space.
type CreateSpaceParams struct {
	Principal Principal
	Input     SpaceInput
}

// UpdateSpaceParams wraps the data required to update a space.
type UpdateSpaceParams struct {
	Principal Principal
	SpaceID   string
	Input     SpaceInput
}

// SetSpaceStatusParams wraps the data for a direct occupancy change, used for
// the maintenance branch.
type SetSpaceStatusParams struct {
	Principal Principal
	SpaceID   string
	Status    domain.SpaceStatus
}

// BookingInput captures caller provided booking fields. Space and client
// names are resolved by the service, not supplied by the caller.
type BookingInput struct {
	SpaceID    string
	ClientID   string
	Date       string
	StartTime  string
	EndTime    string
	TotalPrice float64
}

// CreateBookingParams wraps the data required to create a booking.
type CreateBookingParams struct {
	Principal Principal
	Input     BookingInput
}

// ProjectInput captures caller provided media project fields.
type ProjectInput struct {
	Title    string
	ClientID string
	Type     domain.ProjectType
	Deadline string
	Budget   float64
	Assignee string
}

// CreateProjectParams wraps the data required to create a media project.
type CreateProjectParams struct {
	Principal Principal
	Input     ProjectInput
}

// UpdateProjectParams wraps the data required to update a media project.
type UpdateProjectParams struct {
	Principal Principal
	ProjectID string
	Input     ProjectInput
}

// StudentInput captures caller provided student fields.
type StudentInput struct {
	Name       string
	Email      string
	Phone      string
	Program    string
	University string
	StartDate  string
	EndDate    string
	Status     domain.StudentStatus
	Progress   int
	Mentor     string
}

// CreateStudentParams wraps the data required to create a student.
type CreateStudentParams struct {
	Principal Principal
	Input     StudentInput
}

// UpdateStudentParams wraps the data required to update a student.
type UpdateStudentParams struct {
	Principal Principal
	StudentID string
	Input     StudentInput
}

// TransactionInput captures caller provided transaction fields. The initial
// status is derived from the type, never supplied.
type TransactionInput struct {
	Description string
	Type        domain.TransactionType
	Category    string
	Amount      float64
	Date        string
}

// CreateTransactionParams wraps the data required to create a transaction.
type CreateTransactionParams struct {
	Principal Principal
	Input     TransactionInput
}

// UpdateTransactionParams wraps the data required to update a transaction.
type UpdateTransactionParams struct {
	Principal     Principal
	TransactionID string
	Input         TransactionInput
}

// EmployeeInput captures caller provided employee fields.
type EmployeeInput struct {
	Name        string
	Email       string
	Phone       string
	Position    string
	Department  string
	Salary      float64
	JoinDate    string
	Status      domain.EmployeeStatus
	Performance domain.PerformanceRating
}

// CreateEmployeeParams wraps the data required to create an employee.
type CreateEmployeeParams struct {
	Principal Principal
	Input     EmployeeInput
}

// UpdateEmployeeParams wraps the data required to update an employee.
type UpdateEmployeeParams struct {
	Principal  Principal
	EmployeeID string
	Input      EmployeeInput
}

// DocumentInput captures caller provided document metadata.
type DocumentInput struct {
	Name     string
	Category domain.DocumentCategory
	Type     string
	Size     int64
}

// UploadDocumentParams wraps the data required to register a document.
type UploadDocumentParams struct {
	Principal Principal
	Input     DocumentInput
}

// TaskInput captures caller provided task fields.
type TaskInput struct {
	Title       string
	Description string
	AssigneeID  string
	DueDate     string
	Priority    domain.TaskPriority
}

// CreateTaskParams wraps the data required to create a task.
type CreateTaskParams struct {
	Principal Principal
	Input     TaskInput
}

// UpdateTaskParams wraps the data required to update a task.
type UpdateTaskParams struct {
	Principal Principal
	TaskID    string
	Input     TaskInput
}

// AuthenticateParams captures the data required to authenticate a user.
type AuthenticateParams struct {
	Email    string
	Password string
}

// AuthenticateResult captures the outcome of a successful authentication.
type AuthenticateResult struct {
	User    domain.User
	Session persistence.Session
}

// RefreshSessionParams captures the data required to refresh a session.
type RefreshSessionParams struct {
	Token string
}
