// Package memory provides the in-memory storage used for DSN-less runs and
// tests. All collections live behind a single RWMutex, which preserves the
// single-writer semantics the services rely on.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/example/wdh-os/internal/domain"
	"github.com/example/wdh-os/internal/persistence"
)

// Storage holds every business collection in process memory.
type Storage struct {
	mu            sync.RWMutex
	users         map[string]domain.User
	sessions      map[string]persistence.Session
	clients       map[string]domain.Client
	spaces        map[string]domain.Space
	bookings      map[string]domain.Booking
	projects      map[string]domain.MediaProject
	students      map[string]domain.Student
	transactions  map[string]domain.Transaction
	employees     map[string]domain.Employee
	documents     map[string]domain.Document
	tasks         map[string]domain.Task
	notifications map[string]domain.Notification
}

// NewStorage returns an empty storage.
func NewStorage() *Storage {
	return &Storage{
		users:         make(map[string]domain.User),
		sessions:      make(map[string]persistence.Session),
		clients:       make(map[string]domain.Client),
		spaces:        make(map[string]domain.Space),
		bookings:      make(map[string]domain.Booking),
		projects:      make(map[string]domain.MediaProject),
		students:      make(map[string]domain.Student),
		transactions:  make(map[string]domain.Transaction),
		employees:     make(map[string]domain.Employee),
		documents:     make(map[string]domain.Document),
		tasks:         make(map[string]domain.Task),
		notifications: make(map[string]domain.Notification),
	}
}

// Close releases resources held by the storage. No-op for process memory.
func (s *Storage) Close() error {
	return nil
}

// --- UserRepository ---

func (s *Storage) CreateUser(ctx context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; ok {
		return persistence.ErrDuplicate
	}
	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return persistence.ErrDuplicate
		}
	}

	s.users[user.ID] = user
	return nil
}

func (s *Storage) GetUser(ctx context.Context, id string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return domain.User{}, persistence.ErrNotFound
	}
	return user, nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return domain.User{}, persistence.ErrNotFound
}

func (s *Storage) ListUsers(ctx context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]domain.User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool {
		return createdBefore(users[i].CreatedAt, users[j].CreatedAt, users[i].ID, users[j].ID)
	})
	return users, nil
}

// --- SessionRepository ---

func (s *Storage) CreateSession(ctx context.Context, session persistence.Session) (persistence.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[session.ID]; ok {
		return persistence.Session{}, persistence.ErrDuplicate
	}
	s.sessions[session.ID] = cloneSession(session)
	return cloneSession(session), nil
}

func (s *Storage) GetSession(ctx context.Context, token string) (persistence.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, session := range s.sessions {
		if session.Token == token {
			return cloneSession(session), nil
		}
	}
	return persistence.Session{}, persistence.ErrNotFound
}

func (s *Storage) UpdateSession(ctx context.Context, session persistence.Session) (persistence.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[session.ID]; !ok {
		return persistence.Session{}, persistence.ErrNotFound
	}
	s.sessions[session.ID] = cloneSession(session)
	return cloneSession(session), nil
}

func (s *Storage) RevokeSession(ctx context.Context, token string, revokedAt time.Time) (persistence.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, session := range s.sessions {
		if session.Token != token {
			continue
		}
		stamp := revokedAt
		session.RevokedAt = &stamp
		session.UpdatedAt = revokedAt
		s.sessions[id] = session
		return cloneSession(session), nil
	}
	return persistence.Session{}, persistence.ErrNotFound
}

func (s *Storage) DeleteExpiredSessions(ctx context.Context, reference time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, session := range s.sessions {
		if !session.ExpiresAt.IsZero() && !session.ExpiresAt.After(reference) {
			delete(s.sessions, id)
		}
	}
	return nil
}

// --- ClientRepository ---

func (s *Storage) CreateClient(ctx context.Context, client domain.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clients[client.ID]; ok {
		return persistence.ErrDuplicate
	}
	s.clients[client.ID] = client
	return nil
}

func (s *Storage) GetClient(ctx context.Context, id string) (domain.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	client, ok := s.clients[id]
	if !ok {
		return domain.Client{}, persistence.ErrNotFound
	}
	return client, nil
}

func (s *Storage) UpdateClient(ctx context.Context, client domain.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clients[client.ID]; !ok {
		return persistence.ErrNotFound
	}
	s.clients[client.ID] = client
	return nil
}

func (s *Storage) DeleteClient(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clients[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.clients, id)
	return nil
}

func (s *Storage) ListClients(ctx context.Context) ([]domain.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	clients := make([]domain.Client, 0, len(s.clients))
	for _, client := range s.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return createdBefore(clients[i].CreatedAt, clients[j].CreatedAt, clients[i].ID, clients[j].ID)
	})
	return clients, nil
}

// --- SpaceRepository ---

func (s *Storage) CreateSpace(ctx context.Context, space domain.Space) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.spaces[space.ID]; ok {
		return persistence.ErrDuplicate
	}
	s.spaces[space.ID] = cloneSpace(space)
	return nil
}

func (s *Storage) GetSpace(ctx context.Context, id string) (domain.Space, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	space, ok := s.spaces[id]
	if !ok {
		return domain.Space{}, persistence.ErrNotFound
	}
	return cloneSpace(space), nil
}

func (s *Storage) UpdateSpace(ctx context.Context, space domain.Space) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.spaces[space.ID]; !ok {
		return persistence.ErrNotFound
	}
	s.spaces[space.ID] = cloneSpace(space)
	return nil
}

func (s *Storage) DeleteSpace(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.spaces[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.spaces, id)
	return nil
}

func (s *Storage) ListSpaces(ctx context.Context) ([]domain.Space, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	spaces := make([]domain.Space, 0, len(s.spaces))
	for _, space := range s.spaces {
		spaces = append(spaces, cloneSpace(space))
	}
	sort.Slice(spaces, func(i, j int) bool {
		return createdBefore(spaces[i].CreatedAt, spaces[j].CreatedAt, spaces[i].ID, spaces[j].ID)
	})
	return spaces, nil
}

// --- BookingRepository ---

func (s *Storage) CreateBooking(ctx context.Context, booking domain.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bookings[booking.ID]; ok {
		return persistence.ErrDuplicate
	}
	s.bookings[booking.ID] = booking
	return nil
}

func (s *Storage) GetBooking(ctx context.Context, id string) (domain.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	booking, ok := s.bookings[id]
	if !ok {
		return domain.Booking{}, persistence.ErrNotFound
	}
	return booking, nil
}

func (s *Storage) UpdateBooking(ctx context.Context, booking domain.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bookings[booking.ID]; !ok {
		return persistence.ErrNotFound
	}
	s.bookings[booking.ID] = booking
	return nil
}

func (s *Storage) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bookings := make([]domain.Booking, 0, len(s.bookings))
	for _, booking := range s.bookings {
		bookings = append(bookings, booking)
	}
	sort.Slice(bookings, func(i, j int) bool {
		return createdBefore(bookings[i].CreatedAt, bookings[j].CreatedAt, bookings[i].ID, bookings[j].ID)
	})
	return bookings, nil
}

// --- ProjectRepository ---

func (s *Storage) CreateProject(ctx context.Context, project domain.MediaProject) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[project.ID]; ok {
		return persistence.ErrDuplicate
	}
	s.projects[project.ID] = project
	return nil
}

func (s *Storage) GetProject(ctx context.Context, id string) (domain.MediaProject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	project, ok := s.projects[id]
	if !ok {
		return domain.MediaProject{}, persistence.ErrNotFound
	}
	return project, nil
}

func (s *Storage) UpdateProject(ctx context.Context, project domain.MediaProject) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[project.ID]; !ok {
		return persistence.ErrNotFound
	}
	s.projects[project.ID] = project
	return nil
}

func (s *Storage) DeleteProject(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.projects, id)
	return nil
}

func (s *Storage) ListProjects(ctx context.Context) ([]domain.MediaProject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	projects := make([]domain.MediaProject, 0, len(s.projects))
	for _, project := range s.projects {
		projects = append(projects, project)
	}
	sort.Slice(projects, func(i, j int) bool {
		return createdBefore(projects[i].CreatedAt, projects[j].CreatedAt, projects[i].ID, projects[j].ID)
	})
	return projects, nil
}

// --- StudentRepository ---

func (s *Storage) CreateStudent(ctx context.Context, student domain.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.students[student.ID]; ok {
		return persistence.ErrDuplicate
	}
	s.students[student.ID] = student
	return nil
}

func (s *Storage) GetStudent(ctx context.Context, id string) (domain.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	student, ok := s.students[id]
	if !ok {
		return domain.Student{}, persistence.ErrNotFound
	}
	return student, nil
}

func (s *Storage) UpdateStudent(ctx context.Context, student domain.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.students[student.ID]; !ok {
		return persistence.ErrNotFound
	}
	s.students[student.ID] = student
	return nil
}

func (s *Storage) DeleteStudent(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.students[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.students, id)
	return nil
}

func (s *Storage) ListStudents(ctx context.Context) ([]domain.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	students := make([]domain.Student, 0, len(s.students))
	for _, student := range s.students {
		students = append(students, student)
	}
	sort.Slice(students, func(i, j int) bool {
		return createdBefore(students[i].CreatedAt, students[j].CreatedAt, students[i].ID, students[j].ID)
	})
	return students, nil
}

// --- TransactionRepository ---

func (s *Storage) CreateTransaction(ctx context.Context, transaction domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.transactions[transaction.ID]; ok {
		return persistence.ErrDuplicate
	}
	s.transactions[transaction.ID] = transaction
	return nil
}

func (s *Storage) GetTransaction(ctx context.Context, id string) (domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	transaction, ok := s.transactions[id]
	if !ok {
		return domain.Transaction{}, persistence.ErrNotFound
	}
	return transaction, nil
}

func (s *Storage) UpdateTransaction(ctx context.Context, transaction domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.transactions[transaction.ID]; !ok {
		return persistence.ErrNotFound
	}
	s.transactions[transaction.ID] = transaction
	return nil
}

func (s *Storage) DeleteTransaction(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.transactions[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.transactions, id)
	return nil
}

func (s *Storage) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	transactions := make([]domain.Transaction, 0, len(s.transactions))
	for _, transaction := range s.transactions {
		transactions = append(transactions, transaction)
	}
	sort.Slice(transactions, func(i, j int) bool {
		return createdBefore(transactions[i].CreatedAt, transactions[j].CreatedAt, transactions[i].ID, transactions[j].ID)
	})
	return transactions, nil
}

// --- EmployeeRepository ---

func (s *Storage) CreateEmployee(ctx context.Context, employee domain.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.employees[employee.ID]; ok {
		return persistence.ErrDuplicate
	}
	if err := s.ensureUniqueEmployeeEmailLocked(employee.ID, employee.Email); err != nil {
		return err
	}
	s.employees[employee.ID] = employee
	return nil
}

func (s *Storage) GetEmployee(ctx context.Context, id string) (domain.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	employee, ok := s.employees[id]
	if !ok {
		return domain.Employee{}, persistence.ErrNotFound
	}
	return employee, nil
}

func (s *Storage) UpdateEmployee(ctx context.Context, employee domain.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.employees[employee.ID]; !ok {
		return persistence.ErrNotFound
	}
	if err := s.ensureUniqueEmployeeEmailLocked(employee.ID, employee.Email); err != nil {
		return err
	}
	s.employees[employee.ID] = employee
	return nil
}

func (s *Storage) DeleteEmployee(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.employees[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.employees, id)
	return nil
}

func (s *Storage) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	employees := make([]domain.Employee, 0, len(s.employees))
	for _, employee := range s.employees {
		employees = append(employees, employee)
	}
	sort.Slice(employees, func(i, j int) bool {
		return createdBefore(employees[i].CreatedAt, employees[j].CreatedAt, employees[i].ID, employees[j].ID)
	})
	return employees, nil
}

func (s *Storage) ensureUniqueEmployeeEmailLocked(id, email string) error {
	for existingID, employee := range s.employees {
		if existingID == id {
			continue
		}
		if strings.EqualFold(employee.Email, email) {
			return persistence.ErrDuplicate
		}
	}
	return nil
}

// --- DocumentRepository ---

func (s *Storage) CreateDocument(ctx context.Context, document domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.documents[document.ID]; ok {
		return persistence.ErrDuplicate
	}
	s.documents[document.ID] = document
	return nil
}

func (s *Storage) GetDocument(ctx context.Context, id string) (domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	document, ok := s.documents[id]
	if !ok {
		return domain.Document{}, persistence.ErrNotFound
	}
	return document, nil
}

func (s *Storage) DeleteDocument(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.documents[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.documents, id)
	return nil
}

func (s *Storage) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	documents := make([]domain.Document, 0, len(s.documents))
	for _, document := range s.documents {
		documents = append(documents, document)
	}
	sort.Slice(documents, func(i, j int) bool {
		return createdBefore(documents[i].CreatedAt, documents[j].CreatedAt, documents[i].ID, documents[j].ID)
	})
	return documents, nil
}

// --- TaskRepository ---

func (s *Storage) CreateTask(ctx context.Context, task domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[task.ID]; ok {
		return persistence.ErrDuplicate
	}
	s.tasks[task.ID] = task
	return nil
}

func (s *Storage) GetTask(ctx context.Context, id string) (domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[id]
	if !ok {
		return domain.Task{}, persistence.ErrNotFound
	}
	return task, nil
}

func (s *Storage) UpdateTask(ctx context.Context, task domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[task.ID]; !ok {
		return persistence.ErrNotFound
	}
	s.tasks[task.ID] = task
	return nil
}

func (s *Storage) DeleteTask(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

func (s *Storage) ListTasks(ctx context.Context) ([]domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]domain.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		tasks = append(tasks, task)
	}
	sort.Slice(tasks, func(i, j int) bool {
		return createdBefore(tasks[i].CreatedAt, tasks[j].CreatedAt, tasks[i].ID, tasks[j].ID)
	})
	return tasks, nil
}

// --- NotificationRepository ---

func (s *Storage) CreateNotification(ctx context.Context, notification domain.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.notifications[notification.ID]; ok {
		return persistence.ErrDuplicate
	}
	s.notifications[notification.ID] = notification
	return nil
}

func (s *Storage) GetNotification(ctx context.Context, id string) (domain.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	notification, ok := s.notifications[id]
	if !ok {
		return domain.Notification{}, persistence.ErrNotFound
	}
	return notification, nil
}

func (s *Storage) UpdateNotification(ctx context.Context, notification domain.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.notifications[notification.ID]; !ok {
		return persistence.ErrNotFound
	}
	s.notifications[notification.ID] = notification
	return nil
}

func (s *Storage) ListNotifications(ctx context.Context) ([]domain.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	notifications := make([]domain.Notification, 0, len(s.notifications))
	for _, notification := range s.notifications {
		notifications = append(notifications, notification)
	}
	sort.Slice(notifications, func(i, j int) bool {
		return createdBefore(notifications[i].CreatedAt, notifications[j].CreatedAt, notifications[i].ID, notifications[j].ID)
	})
	return notifications, nil
}

// --- Helpers ---

func createdBefore(a, b time.Time, aID, bID string) bool {
	if a.Equal(b) {
		return aID < bID
	}
	return a.Before(b)
}

func cloneSpace(space domain.Space) domain.Space {
	if space.CurrentBooking != nil {
		booking := *space.CurrentBooking
		space.CurrentBooking = &booking
	}
	return space
}

func cloneSession(session persistence.Session) persistence.Session {
	if session.RevokedAt != nil {
		stamp := *session.RevokedAt
		session.RevokedAt = &stamp
	}
	return session
}
