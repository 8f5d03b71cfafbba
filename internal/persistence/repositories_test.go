package persistence_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/wdh-os/internal/domain"
	"github.com/example/wdh-os/internal/persistence"
	"github.com/example/wdh-os/internal/persistence/memory"
	"github.com/example/wdh-os/internal/testfixtures"
)

// storeUnderTest groups every repository interface a backend must satisfy.
// The contract below runs against both backends, so behaviour differences
// between DSN-less runs and durable runs surface here.
type storeUnderTest struct {
	persistence.UserRepository
	persistence.SessionRepository
	persistence.ClientRepository
	persistence.SpaceRepository
	persistence.BookingRepository
	persistence.ProjectRepository
	persistence.StudentRepository
	persistence.TransactionRepository
	persistence.EmployeeRepository
	persistence.DocumentRepository
	persistence.TaskRepository
	persistence.NotificationRepository
}

func forEachStore(t *testing.T, run func(t *testing.T, store storeUnderTest)) {
	t.Helper()

	t.Run("memory", func(t *testing.T) {
		t.Parallel()
		s := memory.NewStorage()
		run(t, storeUnderTest{s, s, s, s, s, s, s, s, s, s, s, s})
	})

	t.Run("sqlite", func(t *testing.T) {
		t.Parallel()
		h := testfixtures.NewSQLiteHarness(t)
		run(t, storeUnderTest{
			h.Users, h.Sessions, h.Clients, h.Spaces, h.Bookings, h.Projects,
			h.Students, h.Transactions, h.Employees, h.Documents, h.Tasks,
			h.Notifications,
		})
	})
}

func TestUserRepository(t *testing.T) {
	t.Parallel()

	forEachStore(t, func(t *testing.T, store storeUnderTest) {
		ctx := context.Background()

		user := testfixtures.NewUserFixture(
			testfixtures.WithUserEmail("alice@wdh.example"),
			testfixtures.WithUserName("Alice"),
			testfixtures.WithUserRole(domain.RoleCTO),
		)
		if err := store.CreateUser(ctx, user); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}

		fetched, err := store.GetUser(ctx, user.ID)
		if err != nil {
			t.Fatalf("GetUser failed: %v", err)
		}
		if fetched.Email != user.Email || fetched.Role != domain.RoleCTO || fetched.PasswordHash != user.PasswordHash {
			t.Fatalf("unexpected user data: %#v", fetched)
		}

		// Email lookup is case-insensitive.
		fetched, err = store.GetUserByEmail(ctx, "ALICE@WDH.EXAMPLE")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if fetched.ID != user.ID {
			t.Fatalf("expected %s, got %s", user.ID, fetched.ID)
		}

		duplicate := testfixtures.NewUserFixture(testfixtures.WithUserEmail("Alice@WDH.example"))
		if err := store.CreateUser(ctx, duplicate); !errors.Is(err, persistence.ErrDuplicate) {
			t.Fatalf("expected ErrDuplicate for reused email, got %v", err)
		}

		if _, err := store.GetUser(ctx, "missing"); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}

		second := testfixtures.NewUserFixture(
			testfixtures.WithUserTimestamps(user.CreatedAt.Add(time.Hour), user.CreatedAt.Add(time.Hour)),
		)
		if err := store.CreateUser(ctx, second); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		users, err := store.ListUsers(ctx)
		if err != nil {
			t.Fatalf("ListUsers failed: %v", err)
		}
		if len(users) != 2 || users[0].ID != user.ID || users[1].ID != second.ID {
			t.Fatalf("expected creation order [%s %s], got %#v", user.ID, second.ID, users)
		}
	})
}

func TestSessionRepository(t *testing.T) {
	t.Parallel()

	forEachStore(t, func(t *testing.T, store storeUnderTest) {
		ctx := context.Background()
		base := testfixtures.ReferenceTime()

		session := testfixtures.NewSessionFixture(testfixtures.WithSessionToken("token-abc"))
		if _, err := store.CreateSession(ctx, session); err != nil {
			t.Fatalf("CreateSession failed: %v", err)
		}

		fetched, err := store.GetSession(ctx, "token-abc")
		if err != nil {
			t.Fatalf("GetSession failed: %v", err)
		}
		if fetched.ID != session.ID || fetched.UserID != session.UserID {
			t.Fatalf("unexpected session: %#v", fetched)
		}
		if _, err := store.GetSession(ctx, "unknown"); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}

		// Token rotation keeps the row reachable under the new token only.
		fetched.Token = "token-rotated"
		fetched.ExpiresAt = fetched.ExpiresAt.Add(time.Hour)
		if _, err := store.UpdateSession(ctx, fetched); err != nil {
			t.Fatalf("UpdateSession failed: %v", err)
		}
		if _, err := store.GetSession(ctx, "token-abc"); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected the old token to be gone, got %v", err)
		}

		revokedAt := base.Add(2 * time.Hour)
		revoked, err := store.RevokeSession(ctx, "token-rotated", revokedAt)
		if err != nil {
			t.Fatalf("RevokeSession failed: %v", err)
		}
		if revoked.RevokedAt == nil || !revoked.RevokedAt.Equal(revokedAt) {
			t.Fatalf("expected revocation stamp %v, got %#v", revokedAt, revoked.RevokedAt)
		}
		if _, err := store.RevokeSession(ctx, "unknown", revokedAt); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}

		expired := testfixtures.NewSessionFixture(
			testfixtures.WithSessionToken("token-expired"),
			testfixtures.WithSessionExpiresAt(base.Add(-time.Minute)),
		)
		if _, err := store.CreateSession(ctx, expired); err != nil {
			t.Fatalf("CreateSession failed: %v", err)
		}
		if err := store.DeleteExpiredSessions(ctx, base); err != nil {
			t.Fatalf("DeleteExpiredSessions failed: %v", err)
		}
		if _, err := store.GetSession(ctx, "token-expired"); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected the expired session to be pruned, got %v", err)
		}
		if _, err := store.GetSession(ctx, "token-rotated"); err != nil {
			t.Fatalf("expected the live session to survive pruning, got %v", err)
		}
	})
}

func TestClientRepository(t *testing.T) {
	t.Parallel()

	forEachStore(t, func(t *testing.T, store storeUnderTest) {
		ctx := context.Background()

		client := testfixtures.NewClientFixture(testfixtures.WithClientName("Acme Studios"))
		if err := store.CreateClient(ctx, client); err != nil {
			t.Fatalf("CreateClient failed: %v", err)
		}
		if err := store.CreateClient(ctx, client); !errors.Is(err, persistence.ErrDuplicate) {
			t.Fatalf("expected ErrDuplicate for reused ID, got %v", err)
		}

		client.Status = domain.ClientInactive
		client.Revenue = 25000
		if err := store.UpdateClient(ctx, client); err != nil {
			t.Fatalf("UpdateClient failed: %v", err)
		}
		fetched, err := store.GetClient(ctx, client.ID)
		if err != nil {
			t.Fatalf("GetClient failed: %v", err)
		}
		if fetched.Status != domain.ClientInactive || fetched.Revenue != 25000 {
			t.Fatalf("unexpected client after update: %#v", fetched)
		}

		if err := store.DeleteClient(ctx, client.ID); err != nil {
			t.Fatalf("DeleteClient failed: %v", err)
		}
		if err := store.DeleteClient(ctx, client.ID); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected ErrNotFound on double delete, got %v", err)
		}
		if _, err := store.GetClient(ctx, client.ID); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestSpaceRepository(t *testing.T) {
	t.Parallel()

	forEachStore(t, func(t *testing.T, store storeUnderTest) {
		ctx := context.Background()

		space := testfixtures.NewSpaceFixture()
		if err := store.CreateSpace(ctx, space); err != nil {
			t.Fatalf("CreateSpace failed: %v", err)
		}

		fetched, err := store.GetSpace(ctx, space.ID)
		if err != nil {
			t.Fatalf("GetSpace failed: %v", err)
		}
		if fetched.CurrentBooking != nil {
			t.Fatalf("expected no occupancy snapshot, got %#v", fetched.CurrentBooking)
		}

		// The occupancy snapshot survives a round trip.
		fetched.Status = domain.SpaceReserved
		fetched.CurrentBooking = &domain.SpaceBooking{
			ClientID:   "client-1",
			ClientName: "Acme Studios",
			Date:       "2024-03-15",
			Until:      "12:00",
		}
		if err := store.UpdateSpace(ctx, fetched); err != nil {
			t.Fatalf("UpdateSpace failed: %v", err)
		}
		fetched, err = store.GetSpace(ctx, space.ID)
		if err != nil {
			t.Fatalf("GetSpace failed: %v", err)
		}
		if fetched.Status != domain.SpaceReserved || fetched.CurrentBooking == nil || fetched.CurrentBooking.Until != "12:00" {
			t.Fatalf("unexpected space after update: %#v", fetched)
		}

		if err := store.DeleteSpace(ctx, space.ID); err != nil {
			t.Fatalf("DeleteSpace failed: %v", err)
		}
		if _, err := store.GetSpace(ctx, space.ID); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestBookingRepository(t *testing.T) {
	t.Parallel()

	forEachStore(t, func(t *testing.T, store storeUnderTest) {
		ctx := context.Background()

		booking := testfixtures.NewBookingFixture(
			testfixtures.WithBookingSpace("space-1", "Studio A"),
			testfixtures.WithBookingClient("client-1", "Acme Studios"),
		)
		if err := store.CreateBooking(ctx, booking); err != nil {
			t.Fatalf("CreateBooking failed: %v", err)
		}

		fetched, err := store.GetBooking(ctx, booking.ID)
		if err != nil {
			t.Fatalf("GetBooking failed: %v", err)
		}
		if fetched.SpaceName != "Studio A" || fetched.ClientName != "Acme Studios" {
			t.Fatalf("expected name snapshots to persist, got %#v", fetched)
		}

		// Cancelled bookings stay on record.
		fetched.Status = domain.BookingCancelled
		if err := store.UpdateBooking(ctx, fetched); err != nil {
			t.Fatalf("UpdateBooking failed: %v", err)
		}
		bookings, err := store.ListBookings(ctx)
		if err != nil {
			t.Fatalf("ListBookings failed: %v", err)
		}
		if len(bookings) != 1 || bookings[0].Status != domain.BookingCancelled {
			t.Fatalf("expected one cancelled booking, got %#v", bookings)
		}
	})
}

func TestProjectRepository(t *testing.T) {
	t.Parallel()

	forEachStore(t, func(t *testing.T, store storeUnderTest) {
		ctx := context.Background()

		project := testfixtures.NewProjectFixture()
		if err := store.CreateProject(ctx, project); err != nil {
			t.Fatalf("CreateProject failed: %v", err)
		}

		project.Status = domain.ProjectProduction
		project.Progress = 50
		if err := store.UpdateProject(ctx, project); err != nil {
			t.Fatalf("UpdateProject failed: %v", err)
		}
		fetched, err := store.GetProject(ctx, project.ID)
		if err != nil {
			t.Fatalf("GetProject failed: %v", err)
		}
		if fetched.Status != domain.ProjectProduction || fetched.Progress != 50 {
			t.Fatalf("unexpected project after update: %#v", fetched)
		}

		if err := store.DeleteProject(ctx, project.ID); err != nil {
			t.Fatalf("DeleteProject failed: %v", err)
		}
		if _, err := store.GetProject(ctx, project.ID); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestStudentRepository(t *testing.T) {
	t.Parallel()

	forEachStore(t, func(t *testing.T, store storeUnderTest) {
		ctx := context.Background()

		student := testfixtures.NewStudentFixture()
		if err := store.CreateStudent(ctx, student); err != nil {
			t.Fatalf("CreateStudent failed: %v", err)
		}

		student.Status = domain.StudentCompleted
		student.Progress = 100
		if err := store.UpdateStudent(ctx, student); err != nil {
			t.Fatalf("UpdateStudent failed: %v", err)
		}
		fetched, err := store.GetStudent(ctx, student.ID)
		if err != nil {
			t.Fatalf("GetStudent failed: %v", err)
		}
		if fetched.Status != domain.StudentCompleted || fetched.Progress != 100 {
			t.Fatalf("unexpected student after update: %#v", fetched)
		}

		if err := store.DeleteStudent(ctx, student.ID); err != nil {
			t.Fatalf("DeleteStudent failed: %v", err)
		}
		if err := store.DeleteStudent(ctx, student.ID); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected ErrNotFound on double delete, got %v", err)
		}
	})
}

func TestTransactionRepository(t *testing.T) {
	t.Parallel()

	forEachStore(t, func(t *testing.T, store storeUnderTest) {
		ctx := context.Background()

		transaction := testfixtures.NewTransactionFixture()
		if err := store.CreateTransaction(ctx, transaction); err != nil {
			t.Fatalf("CreateTransaction failed: %v", err)
		}

		transaction.Status = domain.TransactionApproved
		transaction.ApprovedBy = "Anna Weber"
		if err := store.UpdateTransaction(ctx, transaction); err != nil {
			t.Fatalf("UpdateTransaction failed: %v", err)
		}
		fetched, err := store.GetTransaction(ctx, transaction.ID)
		if err != nil {
			t.Fatalf("GetTransaction failed: %v", err)
		}
		if fetched.Status != domain.TransactionApproved || fetched.ApprovedBy != "Anna Weber" {
			t.Fatalf("unexpected transaction after approval: %#v", fetched)
		}

		// Rejection deletes the row outright.
		if err := store.DeleteTransaction(ctx, transaction.ID); err != nil {
			t.Fatalf("DeleteTransaction failed: %v", err)
		}
		if _, err := store.GetTransaction(ctx, transaction.ID); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestEmployeeRepository(t *testing.T) {
	t.Parallel()

	forEachStore(t, func(t *testing.T, store storeUnderTest) {
		ctx := context.Background()

		employee := testfixtures.NewEmployeeFixture(testfixtures.WithEmployeeEmail("nils@wdh.example"))
		if err := store.CreateEmployee(ctx, employee); err != nil {
			t.Fatalf("CreateEmployee failed: %v", err)
		}

		duplicate := testfixtures.NewEmployeeFixture(testfixtures.WithEmployeeEmail("NILS@wdh.example"))
		if err := store.CreateEmployee(ctx, duplicate); !errors.Is(err, persistence.ErrDuplicate) {
			t.Fatalf("expected ErrDuplicate for reused email, got %v", err)
		}

		employee.Position = "Senior Editor"
		employee.Status = domain.EmployeeOnLeave
		if err := store.UpdateEmployee(ctx, employee); err != nil {
			t.Fatalf("UpdateEmployee failed: %v", err)
		}
		fetched, err := store.GetEmployee(ctx, employee.ID)
		if err != nil {
			t.Fatalf("GetEmployee failed: %v", err)
		}
		if fetched.Position != "Senior Editor" || fetched.Status != domain.EmployeeOnLeave {
			t.Fatalf("unexpected employee after update: %#v", fetched)
		}

		if err := store.DeleteEmployee(ctx, employee.ID); err != nil {
			t.Fatalf("DeleteEmployee failed: %v", err)
		}
		if _, err := store.GetEmployee(ctx, employee.ID); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestDocumentRepository(t *testing.T) {
	t.Parallel()

	forEachStore(t, func(t *testing.T, store storeUnderTest) {
		ctx := context.Background()

		first := testfixtures.NewDocumentFixture(testfixtures.WithDocumentCategory(domain.CategoryContracts))
		second := testfixtures.NewDocumentFixture(testfixtures.WithDocumentCategory(domain.CategoryReports))
		for _, document := range []domain.Document{first, second} {
			if err := store.CreateDocument(ctx, document); err != nil {
				t.Fatalf("CreateDocument failed: %v", err)
			}
		}

		fetched, err := store.GetDocument(ctx, first.ID)
		if err != nil {
			t.Fatalf("GetDocument failed: %v", err)
		}
		if fetched.Category != domain.CategoryContracts || fetched.UploadedBy != first.UploadedBy {
			t.Fatalf("unexpected document: %#v", fetched)
		}

		documents, err := store.ListDocuments(ctx)
		if err != nil {
			t.Fatalf("ListDocuments failed: %v", err)
		}
		if len(documents) != 2 || documents[0].ID != first.ID || documents[1].ID != second.ID {
			t.Fatalf("expected creation order [%s %s], got %#v", first.ID, second.ID, documents)
		}

		if err := store.DeleteDocument(ctx, first.ID); err != nil {
			t.Fatalf("DeleteDocument failed: %v", err)
		}
		if _, err := store.GetDocument(ctx, first.ID); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestTaskRepository(t *testing.T) {
	t.Parallel()

	forEachStore(t, func(t *testing.T, store storeUnderTest) {
		ctx := context.Background()

		task := testfixtures.NewTaskFixture(testfixtures.WithTaskAssignee("employee-1", "Nils Berger"))
		if err := store.CreateTask(ctx, task); err != nil {
			t.Fatalf("CreateTask failed: %v", err)
		}

		task.Status = domain.TaskInProgress
		if err := store.UpdateTask(ctx, task); err != nil {
			t.Fatalf("UpdateTask failed: %v", err)
		}
		fetched, err := store.GetTask(ctx, task.ID)
		if err != nil {
			t.Fatalf("GetTask failed: %v", err)
		}
		if fetched.Status != domain.TaskInProgress || fetched.AssigneeName != "Nils Berger" {
			t.Fatalf("unexpected task after update: %#v", fetched)
		}

		if err := store.DeleteTask(ctx, task.ID); err != nil {
			t.Fatalf("DeleteTask failed: %v", err)
		}
		if _, err := store.GetTask(ctx, task.ID); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestNotificationRepository(t *testing.T) {
	t.Parallel()

	forEachStore(t, func(t *testing.T, store storeUnderTest) {
		ctx := context.Background()
		base := testfixtures.ReferenceTime()

		notifications := []domain.Notification{
			{ID: "ntf-1", Title: "First", Type: domain.NotificationInfo, CreatedAt: base},
			{ID: "ntf-2", Title: "Second", Type: domain.NotificationSuccess, CreatedAt: base.Add(time.Minute)},
		}
		for _, notification := range notifications {
			if err := store.CreateNotification(ctx, notification); err != nil {
				t.Fatalf("CreateNotification failed: %v", err)
			}
		}

		fetched, err := store.GetNotification(ctx, "ntf-1")
		if err != nil {
			t.Fatalf("GetNotification failed: %v", err)
		}
		if fetched.Read {
			t.Fatal("expected the notification to start unread")
		}

		fetched.Read = true
		if err := store.UpdateNotification(ctx, fetched); err != nil {
			t.Fatalf("UpdateNotification failed: %v", err)
		}

		listed, err := store.ListNotifications(ctx)
		if err != nil {
			t.Fatalf("ListNotifications failed: %v", err)
		}
		if len(listed) != 2 || listed[0].ID != "ntf-1" || listed[1].ID != "ntf-2" {
			t.Fatalf("expected creation order [ntf-1 ntf-2], got %#v", listed)
		}
		if !listed[0].Read || listed[1].Read {
			t.Fatalf("unexpected read flags: %#v", listed)
		}
	})
}
