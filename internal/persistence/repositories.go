package persistence

import (
	"context"
	"time"

	"github.com/example/wdh-os/internal/domain"
)

// UserRepository stores operator accounts. Emails are unique.
type UserRepository interface {
	CreateUser(ctx context.Context, user domain.User) error
	GetUser(ctx context.Context, id string) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
}

// SessionRepository stores authentication session state.
type SessionRepository interface {
	CreateSession(ctx context.Context, session Session) (Session, error)
	GetSession(ctx context.Context, token string) (Session, error)
	UpdateSession(ctx context.Context, session Session) (Session, error)
	RevokeSession(ctx context.Context, token string, revokedAt time.Time) (Session, error)
	DeleteExpiredSessions(ctx context.Context, reference time.Time) error
}

// ClientRepository exposes CRUD operations for CRM clients.
type ClientRepository interface {
	CreateClient(ctx context.Context, client domain.Client) error
	GetClient(ctx context.Context, id string) (domain.Client, error)
	UpdateClient(ctx context.Context, client domain.Client) error
	DeleteClient(ctx context.Context, id string) error
	ListClients(ctx context.Context) ([]domain.Client, error)
}

// SpaceRepository exposes CRUD operations for rentable spaces.
type SpaceRepository interface {
	CreateSpace(ctx context.Context, space domain.Space) error
	GetSpace(ctx context.Context, id string) (domain.Space, error)
	UpdateSpace(ctx context.Context, space domain.Space) error
	DeleteSpace(ctx context.Context, id string) error
	ListSpaces(ctx context.Context) ([]domain.Space, error)
}

// BookingRepository exposes CRUD operations for space bookings. Cancelled
// bookings stay on record; deletion is not part of the booking lifecycle.
type BookingRepository interface {
	CreateBooking(ctx context.Context, booking domain.Booking) error
	GetBooking(ctx context.Context, id string) (domain.Booking, error)
	UpdateBooking(ctx context.Context, booking domain.Booking) error
	ListBookings(ctx context.Context) ([]domain.Booking, error)
}

// ProjectRepository exposes CRUD operations for media projects.
type ProjectRepository interface {
	CreateProject(ctx context.Context, project domain.MediaProject) error
	GetProject(ctx context.Context, id string) (domain.MediaProject, error)
	UpdateProject(ctx context.Context, project domain.MediaProject) error
	DeleteProject(ctx context.Context, id string) error
	ListProjects(ctx context.Context) ([]domain.MediaProject, error)
}

// StudentRepository exposes CRUD operations for program students.
type StudentRepository interface {
	CreateStudent(ctx context.Context, student domain.Student) error
	GetStudent(ctx context.Context, id string) (domain.Student, error)
	UpdateStudent(ctx context.Context, student domain.Student) error
	DeleteStudent(ctx context.Context, id string) error
	ListStudents(ctx context.Context) ([]domain.Student, error)
}

// TransactionRepository exposes CRUD operations for finance transactions.
type TransactionRepository interface {
	CreateTransaction(ctx context.Context, transaction domain.Transaction) error
	GetTransaction(ctx context.Context, id string) (domain.Transaction, error)
	UpdateTransaction(ctx context.Context, transaction domain.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error
	ListTransactions(ctx context.Context) ([]domain.Transaction, error)
}

// EmployeeRepository exposes CRUD operations for employees. Emails are unique
// and duplicates surface ErrDuplicate.
type EmployeeRepository interface {
	CreateEmployee(ctx context.Context, employee domain.Employee) error
	GetEmployee(ctx context.Context, id string) (domain.Employee, error)
	UpdateEmployee(ctx context.Context, employee domain.Employee) error
	DeleteEmployee(ctx context.Context, id string) error
	ListEmployees(ctx context.Context) ([]domain.Employee, error)
}

// DocumentRepository exposes operations for stored document metadata.
type DocumentRepository interface {
	CreateDocument(ctx context.Context, document domain.Document) error
	GetDocument(ctx context.Context, id string) (domain.Document, error)
	DeleteDocument(ctx context.Context, id string) error
	ListDocuments(ctx context.Context) ([]domain.Document, error)
}

// TaskRepository exposes CRUD operations for tasks.
type TaskRepository interface {
	CreateTask(ctx context.Context, task domain.Task) error
	GetTask(ctx context.Context, id string) (domain.Task, error)
	UpdateTask(ctx context.Context, task domain.Task) error
	DeleteTask(ctx context.Context, id string) error
	ListTasks(ctx context.Context) ([]domain.Task, error)
}

// NotificationRepository stores derived notifications.
type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification domain.Notification) error
	GetNotification(ctx context.Context, id string) (domain.Notification, error)
	UpdateNotification(ctx context.Context, notification domain.Notification) error
	ListNotifications(ctx context.Context) ([]domain.Notification, error)
}
