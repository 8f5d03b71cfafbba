package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/wdh-os/internal/domain"
	"github.com/example/wdh-os/internal/persistence"
)

// Record kinds. One value per collection.
const (
	kindUser         = "user"
	kindSession      = "session"
	kindClient       = "client"
	kindSpace        = "space"
	kindBooking      = "booking"
	kindProject      = "project"
	kindStudent      = "student"
	kindTransaction  = "transaction"
	kindEmployee     = "employee"
	kindDocument     = "document"
	kindTask         = "task"
	kindNotification = "notification"
)

// createdAtLayout is fixed width so lexicographic ordering in SQL matches
// chronological ordering.
const createdAtLayout = "2006-01-02 15:04:05.000000000"

type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func insertRecord[T any](ctx context.Context, q queryer, kind, id, lookupKey string, createdAt time.Time, record T) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode %s record: %w", kind, err)
	}
	_, err = q.ExecContext(ctx,
		`INSERT INTO records (kind, id, lookup_key, created_at, data) VALUES (?, ?, ?, ?, ?)`,
		kind, id, lookupKey, createdAt.UTC().Format(createdAtLayout), string(data),
	)
	return mapError(err)
}

func getRecord[T any](ctx context.Context, q queryer, kind, id string) (T, error) {
	var zero T
	var data string
	err := q.QueryRowContext(ctx,
		`SELECT data FROM records WHERE kind = ? AND id = ?`, kind, id,
	).Scan(&data)
	if err != nil {
		return zero, mapError(err)
	}
	var record T
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		return zero, fmt.Errorf("decode %s record: %w", kind, err)
	}
	return record, nil
}

func updateRecord[T any](ctx context.Context, q queryer, kind, id, lookupKey string, record T) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode %s record: %w", kind, err)
	}
	result, err := q.ExecContext(ctx,
		`UPDATE records SET lookup_key = ?, data = ? WHERE kind = ? AND id = ?`,
		lookupKey, string(data), kind, id,
	)
	if err != nil {
		return mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

func deleteRecord(ctx context.Context, q queryer, kind, id string) error {
	result, err := q.ExecContext(ctx,
		`DELETE FROM records WHERE kind = ? AND id = ?`, kind, id,
	)
	if err != nil {
		return mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

func listRecords[T any](ctx context.Context, q queryer, kind string) ([]T, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT data FROM records WHERE kind = ? ORDER BY created_at ASC, id ASC`, kind,
	)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var records []T
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, mapError(err)
		}
		var record T
		if err := json.Unmarshal([]byte(data), &record); err != nil {
			return nil, fmt.Errorf("decode %s record: %w", kind, err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return records, nil
}

func findByLookup[T any](ctx context.Context, q queryer, kind, lookupKey string) (T, error) {
	var zero T
	if lookupKey == "" {
		return zero, persistence.ErrNotFound
	}
	var data string
	err := q.QueryRowContext(ctx,
		`SELECT data FROM records WHERE kind = ? AND lookup_key = ?`, kind, lookupKey,
	).Scan(&data)
	if err != nil {
		return zero, mapError(err)
	}
	var record T
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		return zero, fmt.Errorf("decode %s record: %w", kind, err)
	}
	return record, nil
}

// --- UserRepository ---

func (s *Store) CreateUser(ctx context.Context, user domain.User) error {
	return insertRecord(ctx, s.db, kindUser, user.ID, normalizeEmail(user.Email), user.CreatedAt, user)
}

func (s *Store) GetUser(ctx context.Context, id string) (domain.User, error) {
	return getRecord[domain.User](ctx, s.db, kindUser, id)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return findByLookup[domain.User](ctx, s.db, kindUser, normalizeEmail(email))
}

func (s *Store) ListUsers(ctx context.Context) ([]domain.User, error) {
	return listRecords[domain.User](ctx, s.db, kindUser)
}

// --- SessionRepository ---

func (s *Store) CreateSession(ctx context.Context, session persistence.Session) (persistence.Session, error) {
	if err := insertRecord(ctx, s.db, kindSession, session.ID, session.Token, session.CreatedAt, session); err != nil {
		return persistence.Session{}, err
	}
	return session, nil
}

func (s *Store) GetSession(ctx context.Context, token string) (persistence.Session, error) {
	return findByLookup[persistence.Session](ctx, s.db, kindSession, token)
}

func (s *Store) UpdateSession(ctx context.Context, session persistence.Session) (persistence.Session, error) {
	if err := updateRecord(ctx, s.db, kindSession, session.ID, session.Token, session); err != nil {
		return persistence.Session{}, err
	}
	return session, nil
}

func (s *Store) RevokeSession(ctx context.Context, token string, revokedAt time.Time) (persistence.Session, error) {
	var revoked persistence.Session
	err := s.withTransaction(ctx, func(tx *sql.Tx) error {
		session, err := findByLookup[persistence.Session](ctx, tx, kindSession, token)
		if err != nil {
			return err
		}
		stamp := revokedAt
		session.RevokedAt = &stamp
		session.UpdatedAt = revokedAt
		if err := updateRecord(ctx, tx, kindSession, session.ID, session.Token, session); err != nil {
			return err
		}
		revoked = session
		return nil
	})
	if err != nil {
		return persistence.Session{}, err
	}
	return revoked, nil
}

func (s *Store) DeleteExpiredSessions(ctx context.Context, reference time.Time) error {
	return s.withTransaction(ctx, func(tx *sql.Tx) error {
		sessions, err := listRecords[persistence.Session](ctx, tx, kindSession)
		if err != nil {
			return err
		}
		for _, session := range sessions {
			if session.ExpiresAt.IsZero() || session.ExpiresAt.After(reference) {
				continue
			}
			if err := deleteRecord(ctx, tx, kindSession, session.ID); err != nil {
				return err
			}
		}
		return nil
	})
}

// --- ClientRepository ---

func (s *Store) CreateClient(ctx context.Context, client domain.Client) error {
	return insertRecord(ctx, s.db, kindClient, client.ID, "", client.CreatedAt, client)
}

func (s *Store) GetClient(ctx context.Context, id string) (domain.Client, error) {
	return getRecord[domain.Client](ctx, s.db, kindClient, id)
}

func (s *Store) UpdateClient(ctx context.Context, client domain.Client) error {
	return updateRecord(ctx, s.db, kindClient, client.ID, "", client)
}

func (s *Store) DeleteClient(ctx context.Context, id string) error {
	return deleteRecord(ctx, s.db, kindClient, id)
}

func (s *Store) ListClients(ctx context.Context) ([]domain.Client, error) {
	return listRecords[domain.Client](ctx, s.db, kindClient)
}

// --- SpaceRepository ---

func (s *Store) CreateSpace(ctx context.Context, space domain.Space) error {
	return insertRecord(ctx, s.db, kindSpace, space.ID, "", space.CreatedAt, space)
}

func (s *Store) GetSpace(ctx context.Context, id string) (domain.Space, error) {
	return getRecord[domain.Space](ctx, s.db, kindSpace, id)
}

func (s *Store) UpdateSpace(ctx context.Context, space domain.Space) error {
	return updateRecord(ctx, s.db, kindSpace, space.ID, "", space)
}

func (s *Store) DeleteSpace(ctx context.Context, id string) error {
	return deleteRecord(ctx, s.db, kindSpace, id)
}

func (s *Store) ListSpaces(ctx context.Context) ([]domain.Space, error) {
	return listRecords[domain.Space](ctx, s.db, kindSpace)
}

// --- BookingRepository ---

func (s *Store) CreateBooking(ctx context.Context, booking domain.Booking) error {
	return insertRecord(ctx, s.db, kindBooking, booking.ID, "", booking.CreatedAt, booking)
}

func (s *Store) GetBooking(ctx context.Context, id string) (domain.Booking, error) {
	return getRecord[domain.Booking](ctx, s.db, kindBooking, id)
}

func (s *Store) UpdateBooking(ctx context.Context, booking domain.Booking) error {
	return updateRecord(ctx, s.db, kindBooking, booking.ID, "", booking)
}

func (s *Store) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	return listRecords[domain.Booking](ctx, s.db, kindBooking)
}

// --- ProjectRepository ---

func (s *Store) CreateProject(ctx context.Context, project domain.MediaProject) error {
	return insertRecord(ctx, s.db, kindProject, project.ID, "", project.CreatedAt, project)
}

func (s *Store) GetProject(ctx context.Context, id string) (domain.MediaProject, error) {
	return getRecord[domain.MediaProject](ctx, s.db, kindProject, id)
}

func (s *Store) UpdateProject(ctx context.Context, project domain.MediaProject) error {
	return updateRecord(ctx, s.db, kindProject, project.ID, "", project)
}

func (s *Store) DeleteProject(ctx context.Context, id string) error {
	return deleteRecord(ctx, s.db, kindProject, id)
}

func (s *Store) ListProjects(ctx context.Context) ([]domain.MediaProject, error) {
	return listRecords[domain.MediaProject](ctx, s.db, kindProject)
}

// --- StudentRepository ---

func (s *Store) CreateStudent(ctx context.Context, student domain.Student) error {
	return insertRecord(ctx, s.db, kindStudent, student.ID, "", student.CreatedAt, student)
}

func (s *Store) GetStudent(ctx context.Context, id string) (domain.Student, error) {
	return getRecord[domain.Student](ctx, s.db, kindStudent, id)
}

func (s *Store) UpdateStudent(ctx context.Context, student domain.Student) error {
	return updateRecord(ctx, s.db, kindStudent, student.ID, "", student)
}

func (s *Store) DeleteStudent(ctx context.Context, id string) error {
	return deleteRecord(ctx, s.db, kindStudent, id)
}

func (s *Store) ListStudents(ctx context.Context) ([]domain.Student, error) {
	return listRecords[domain.Student](ctx, s.db, kindStudent)
}

// --- TransactionRepository ---

func (s *Store) CreateTransaction(ctx context.Context, transaction domain.Transaction) error {
	return insertRecord(ctx, s.db, kindTransaction, transaction.ID, "", transaction.CreatedAt, transaction)
}

func (s *Store) GetTransaction(ctx context.Context, id string) (domain.Transaction, error) {
	return getRecord[domain.Transaction](ctx, s.db, kindTransaction, id)
}

func (s *Store) UpdateTransaction(ctx context.Context, transaction domain.Transaction) error {
	return updateRecord(ctx, s.db, kindTransaction, transaction.ID, "", transaction)
}

func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	return deleteRecord(ctx, s.db, kindTransaction, id)
}

func (s *Store) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	return listRecords[domain.Transaction](ctx, s.db, kindTransaction)
}

// --- EmployeeRepository ---

func (s *Store) CreateEmployee(ctx context.Context, employee domain.Employee) error {
	return insertRecord(ctx, s.db, kindEmployee, employee.ID, normalizeEmail(employee.Email), employee.CreatedAt, employee)
}

func (s *Store) GetEmployee(ctx context.Context, id string) (domain.Employee, error) {
	return getRecord[domain.Employee](ctx, s.db, kindEmployee, id)
}

func (s *Store) UpdateEmployee(ctx context.Context, employee domain.Employee) error {
	return updateRecord(ctx, s.db, kindEmployee, employee.ID, normalizeEmail(employee.Email), employee)
}

func (s *Store) DeleteEmployee(ctx context.Context, id string) error {
	return deleteRecord(ctx, s.db, kindEmployee, id)
}

func (s *Store) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	return listRecords[domain.Employee](ctx, s.db, kindEmployee)
}

// --- DocumentRepository ---

func (s *Store) CreateDocument(ctx context.Context, document domain.Document) error {
	return insertRecord(ctx, s.db, kindDocument, document.ID, "", document.CreatedAt, document)
}

func (s *Store) GetDocument(ctx context.Context, id string) (domain.Document, error) {
	return getRecord[domain.Document](ctx, s.db, kindDocument, id)
}

func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	return deleteRecord(ctx, s.db, kindDocument, id)
}

func (s *Store) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	return listRecords[domain.Document](ctx, s.db, kindDocument)
}

// --- TaskRepository ---

func (s *Store) CreateTask(ctx context.Context, task domain.Task) error {
	return insertRecord(ctx, s.db, kindTask, task.ID, "", task.CreatedAt, task)
}

func (s *Store) GetTask(ctx context.Context, id string) (domain.Task, error) {
	return getRecord[domain.Task](ctx, s.db, kindTask, id)
}

func (s *Store) UpdateTask(ctx context.Context, task domain.Task) error {
	return updateRecord(ctx, s.db, kindTask, task.ID, "", task)
}

func (s *Store) DeleteTask(ctx context.Context, id string) error {
	return deleteRecord(ctx, s.db, kindTask, id)
}

func (s *Store) ListTasks(ctx context.Context) ([]domain.Task, error) {
	return listRecords[domain.Task](ctx, s.db, kindTask)
}

// --- NotificationRepository ---

func (s *Store) CreateNotification(ctx context.Context, notification domain.Notification) error {
	return insertRecord(ctx, s.db, kindNotification, notification.ID, "", notification.CreatedAt, notification)
}

func (s *Store) GetNotification(ctx context.Context, id string) (domain.Notification, error) {
	return getRecord[domain.Notification](ctx, s.db, kindNotification, id)
}

func (s *Store) UpdateNotification(ctx context.Context, notification domain.Notification) error {
	return updateRecord(ctx, s.db, kindNotification, notification.ID, "", notification)
}

func (s *Store) ListNotifications(ctx context.Context) ([]domain.Notification, error) {
	return listRecords[domain.Notification](ctx, s.db, kindNotification)
}
