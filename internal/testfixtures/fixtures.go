package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/wdh-os/internal/domain"
	"github.com/example/wdh-os/internal/persistence"
)

var (
	userCounter        uint64
	sessionCounter     uint64
	clientCounter      uint64
	spaceCounter       uint64
	bookingCounter     uint64
	projectCounter     uint64
	studentCounter     uint64
	transactionCounter uint64
	employeeCounter    uint64
	documentCounter    uint64
	taskCounter        uint64
)

var referenceTime = time.Date(2024, time.March, 4, 9, 30, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ----------------------------- User fixtures -----------------------------

// UserOption configures the generated user fixture.
type UserOption func(*domain.User)

// NewUserFixture returns a deterministic operator account with optional
// overrides. Successive calls yield distinct IDs and emails.
func NewUserFixture(opts ...UserOption) domain.User {
	idx := atomic.AddUint64(&userCounter, 1)
	id := fmt.Sprintf("user-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	user := domain.User{
		ID:           id,
		Name:         fmt.Sprintf("Operator %03d", idx),
		Email:        fmt.Sprintf("%s@wdh.example", id),
		Role:         domain.RoleAdmin,
		PasswordHash: fmt.Sprintf("hash-%03d", idx),
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	for _, opt := range opts {
		opt(&user)
	}
	return user
}

// WithUserID overrides the generated user ID.
func WithUserID(id string) UserOption {
	return func(u *domain.User) { u.ID = id }
}

// WithUserName overrides the generated display name.
func WithUserName(name string) UserOption {
	return func(u *domain.User) { u.Name = name }
}

// WithUserEmail overrides the generated email address.
func WithUserEmail(email string) UserOption {
	return func(u *domain.User) { u.Email = email }
}

// WithUserRole sets the role on the generated fixture.
func WithUserRole(role domain.Role) UserOption {
	return func(u *domain.User) { u.Role = role }
}

// WithUserPasswordHash overrides the generated password hash.
func WithUserPasswordHash(hash string) UserOption {
	return func(u *domain.User) { u.PasswordHash = hash }
}

// WithUserDisabled marks the account as disabled.
func WithUserDisabled() UserOption {
	return func(u *domain.User) { u.Disabled = true }
}

// WithUserTimestamps sets both created and updated timestamps.
func WithUserTimestamps(created, updated time.Time) UserOption {
	return func(u *domain.User) {
		u.CreatedAt = created
		u.UpdatedAt = updated
	}
}

// ---------------------------- Session fixtures ----------------------------

// SessionOption configures the generated session fixture.
type SessionOption func(*persistence.Session)

// NewSessionFixture returns a deterministic session that expires one day after
// the reference time.
func NewSessionFixture(opts ...SessionOption) persistence.Session {
	idx := atomic.AddUint64(&sessionCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	session := persistence.Session{
		ID:        fmt.Sprintf("session-%03d", idx),
		UserID:    fmt.Sprintf("user-%03d", idx),
		Token:     fmt.Sprintf("token-%03d", idx),
		ExpiresAt: created.Add(24 * time.Hour),
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&session)
	}
	return session
}

// WithSessionID overrides the generated session ID.
func WithSessionID(id string) SessionOption {
	return func(s *persistence.Session) { s.ID = id }
}

// WithSessionUserID overrides the owning user.
func WithSessionUserID(userID string) SessionOption {
	return func(s *persistence.Session) { s.UserID = userID }
}

// WithSessionToken overrides the generated token.
func WithSessionToken(token string) SessionOption {
	return func(s *persistence.Session) { s.Token = token }
}

// WithSessionExpiresAt sets the expiry instant.
func WithSessionExpiresAt(t time.Time) SessionOption {
	return func(s *persistence.Session) { s.ExpiresAt = t }
}

// WithSessionRevokedAt marks the session revoked at the given instant.
func WithSessionRevokedAt(t time.Time) SessionOption {
	return func(s *persistence.Session) { s.RevokedAt = &t }
}

// ---------------------------- Client fixtures ----------------------------

// ClientOption configures the generated client fixture.
type ClientOption func(*domain.Client)

// NewClientFixture returns a deterministic CRM client with optional overrides.
func NewClientFixture(opts ...ClientOption) domain.Client {
	idx := atomic.AddUint64(&clientCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	client := domain.Client{
		ID:          fmt.Sprintf("client-%03d", idx),
		Name:        fmt.Sprintf("Client %03d", idx),
		Company:     fmt.Sprintf("Company %03d GmbH", idx),
		Email:       fmt.Sprintf("client-%03d@example.com", idx),
		Type:        domain.ClientEnterprise,
		Status:      domain.ClientActive,
		Revenue:     float64(idx) * 1000,
		LastContact: "2024-02-20",
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	for _, opt := range opts {
		opt(&client)
	}
	return client
}

// WithClientID overrides the generated client ID.
func WithClientID(id string) ClientOption {
	return func(c *domain.Client) { c.ID = id }
}

// WithClientName overrides the generated name.
func WithClientName(name string) ClientOption {
	return func(c *domain.Client) { c.Name = name }
}

// WithClientType sets the client type.
func WithClientType(t domain.ClientType) ClientOption {
	return func(c *domain.Client) { c.Type = t }
}

// WithClientStatus sets the client status.
func WithClientStatus(status domain.ClientStatus) ClientOption {
	return func(c *domain.Client) { c.Status = status }
}

// WithClientRevenue sets the recorded revenue.
func WithClientRevenue(revenue float64) ClientOption {
	return func(c *domain.Client) { c.Revenue = revenue }
}

// ----------------------------- Space fixtures -----------------------------

// SpaceOption configures the generated space fixture.
type SpaceOption func(*domain.Space)

// NewSpaceFixture returns a deterministic available space.
func NewSpaceFixture(opts ...SpaceOption) domain.Space {
	idx := atomic.AddUint64(&spaceCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	space := domain.Space{
		ID:           fmt.Sprintf("space-%03d", idx),
		Name:         fmt.Sprintf("Space %03d", idx),
		Type:         domain.SpaceOffice,
		Capacity:     4 + int(idx),
		PricePerHour: 25,
		Status:       domain.SpaceAvailable,
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	for _, opt := range opts {
		opt(&space)
	}
	return space
}

// WithSpaceID overrides the generated space ID.
func WithSpaceID(id string) SpaceOption {
	return func(s *domain.Space) { s.ID = id }
}

// WithSpaceName overrides the generated name.
func WithSpaceName(name string) SpaceOption {
	return func(s *domain.Space) { s.Name = name }
}

// WithSpaceStatus sets the occupancy status.
func WithSpaceStatus(status domain.SpaceStatus) SpaceOption {
	return func(s *domain.Space) { s.Status = status }
}

// WithSpaceBooking attaches an occupancy snapshot.
func WithSpaceBooking(booking domain.SpaceBooking) SpaceOption {
	return func(s *domain.Space) { s.CurrentBooking = &booking }
}

// ---------------------------- Booking fixtures ----------------------------

// BookingOption configures the generated booking fixture.
type BookingOption func(*domain.Booking)

// NewBookingFixture returns a deterministic confirmed booking.
func NewBookingFixture(opts ...BookingOption) domain.Booking {
	idx := atomic.AddUint64(&bookingCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	booking := domain.Booking{
		ID:         fmt.Sprintf("booking-%03d", idx),
		SpaceID:    fmt.Sprintf("space-%03d", idx),
		SpaceName:  fmt.Sprintf("Space %03d", idx),
		ClientID:   fmt.Sprintf("client-%03d", idx),
		ClientName: fmt.Sprintf("Client %03d", idx),
		Date:       "2024-03-15",
		StartTime:  "09:00",
		EndTime:    "12:00",
		Status:     domain.BookingConfirmed,
		TotalPrice: 75,
		CreatedAt:  created,
		UpdatedAt:  created,
	}
	for _, opt := range opts {
		opt(&booking)
	}
	return booking
}

// WithBookingID overrides the generated booking ID.
func WithBookingID(id string) BookingOption {
	return func(b *domain.Booking) { b.ID = id }
}

// WithBookingSpace sets the referenced space and its name snapshot.
func WithBookingSpace(spaceID, spaceName string) BookingOption {
	return func(b *domain.Booking) {
		b.SpaceID = spaceID
		b.SpaceName = spaceName
	}
}

// WithBookingClient sets the referenced client and its name snapshot.
func WithBookingClient(clientID, clientName string) BookingOption {
	return func(b *domain.Booking) {
		b.ClientID = clientID
		b.ClientName = clientName
	}
}

// WithBookingStatus sets the booking status.
func WithBookingStatus(status domain.BookingStatus) BookingOption {
	return func(b *domain.Booking) { b.Status = status }
}

// ---------------------------- Project fixtures ----------------------------

// ProjectOption configures the generated media project fixture.
type ProjectOption func(*domain.MediaProject)

// NewProjectFixture returns a deterministic media project in briefing.
func NewProjectFixture(opts ...ProjectOption) domain.MediaProject {
	idx := atomic.AddUint64(&projectCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	project := domain.MediaProject{
		ID:        fmt.Sprintf("project-%03d", idx),
		Title:     fmt.Sprintf("Project %03d", idx),
		Client:    fmt.Sprintf("Client %03d", idx),
		ClientID:  fmt.Sprintf("client-%03d", idx),
		Type:      domain.ProjectVideo,
		Status:    domain.ProjectBriefing,
		Deadline:  "2024-06-30",
		Budget:    5000,
		Progress:  10,
		Assignee:  "Jonas Pohl",
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&project)
	}
	return project
}

// WithProjectID overrides the generated project ID.
func WithProjectID(id string) ProjectOption {
	return func(p *domain.MediaProject) { p.ID = id }
}

// WithProjectStatus sets the workflow status and its matching progress.
func WithProjectStatus(status domain.ProjectStatus, progress int) ProjectOption {
	return func(p *domain.MediaProject) {
		p.Status = status
		p.Progress = progress
	}
}

// WithProjectType sets the project type.
func WithProjectType(t domain.ProjectType) ProjectOption {
	return func(p *domain.MediaProject) { p.Type = t }
}

// ---------------------------- Student fixtures ----------------------------

// StudentOption configures the generated student fixture.
type StudentOption func(*domain.Student)

// NewStudentFixture returns a deterministic active student.
func NewStudentFixture(opts ...StudentOption) domain.Student {
	idx := atomic.AddUint64(&studentCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	student := domain.Student{
		ID:         fmt.Sprintf("student-%03d", idx),
		Name:       fmt.Sprintf("Student %03d", idx),
		Email:      fmt.Sprintf("student-%03d@uni.example", idx),
		Program:    "Media Production",
		University: "HS Mannheim",
		StartDate:  "2024-01-15",
		EndDate:    "2024-07-15",
		Status:     domain.StudentActive,
		Progress:   40,
		Mentor:     "Jonas Pohl",
		CreatedAt:  created,
		UpdatedAt:  created,
	}
	for _, opt := range opts {
		opt(&student)
	}
	return student
}

// WithStudentID overrides the generated student ID.
func WithStudentID(id string) StudentOption {
	return func(s *domain.Student) { s.ID = id }
}

// WithStudentStatus sets the program status and progress together.
func WithStudentStatus(status domain.StudentStatus, progress int) StudentOption {
	return func(s *domain.Student) {
		s.Status = status
		s.Progress = progress
	}
}

// -------------------------- Transaction fixtures --------------------------

// TransactionOption configures the generated transaction fixture.
type TransactionOption func(*domain.Transaction)

// NewTransactionFixture returns a deterministic pending expense.
func NewTransactionFixture(opts ...TransactionOption) domain.Transaction {
	idx := atomic.AddUint64(&transactionCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	transaction := domain.Transaction{
		ID:          fmt.Sprintf("txn-%03d", idx),
		Description: fmt.Sprintf("Transaction %03d", idx),
		Type:        domain.TransactionExpense,
		Category:    "Equipment",
		Amount:      float64(idx) * 100,
		Date:        "2024-03-01",
		Status:      domain.TransactionPending,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	for _, opt := range opts {
		opt(&transaction)
	}
	return transaction
}

// WithTransactionID overrides the generated transaction ID.
func WithTransactionID(id string) TransactionOption {
	return func(t *domain.Transaction) { t.ID = id }
}

// WithTransactionType sets the ledger direction.
func WithTransactionType(t domain.TransactionType) TransactionOption {
	return func(txn *domain.Transaction) { txn.Type = t }
}

// WithTransactionStatus sets the approval status.
func WithTransactionStatus(status domain.TransactionStatus) TransactionOption {
	return func(t *domain.Transaction) { t.Status = status }
}

// WithTransactionApprover records who approved the transaction.
func WithTransactionApprover(name string) TransactionOption {
	return func(t *domain.Transaction) { t.ApprovedBy = name }
}

// --------------------------- Employee fixtures ---------------------------

// EmployeeOption configures the generated employee fixture.
type EmployeeOption func(*domain.Employee)

// NewEmployeeFixture returns a deterministic active employee. Successive calls
// yield distinct emails, so fixtures do not collide on the uniqueness rule.
func NewEmployeeFixture(opts ...EmployeeOption) domain.Employee {
	idx := atomic.AddUint64(&employeeCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	employee := domain.Employee{
		ID:          fmt.Sprintf("employee-%03d", idx),
		Name:        fmt.Sprintf("Employee %03d", idx),
		Email:       fmt.Sprintf("employee-%03d@wdh.example", idx),
		Position:    "Editor",
		Department:  "Media",
		Salary:      48000,
		JoinDate:    "2023-05-01",
		Status:      domain.EmployeeActive,
		Performance: domain.PerformanceGood,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	for _, opt := range opts {
		opt(&employee)
	}
	return employee
}

// WithEmployeeID overrides the generated employee ID.
func WithEmployeeID(id string) EmployeeOption {
	return func(e *domain.Employee) { e.ID = id }
}

// WithEmployeeName overrides the generated name.
func WithEmployeeName(name string) EmployeeOption {
	return func(e *domain.Employee) { e.Name = name }
}

// WithEmployeeEmail overrides the generated email address.
func WithEmployeeEmail(email string) EmployeeOption {
	return func(e *domain.Employee) { e.Email = email }
}

// WithEmployeeStatus sets the employment status.
func WithEmployeeStatus(status domain.EmployeeStatus) EmployeeOption {
	return func(e *domain.Employee) { e.Status = status }
}

// --------------------------- Document fixtures ---------------------------

// DocumentOption configures the generated document fixture.
type DocumentOption func(*domain.Document)

// NewDocumentFixture returns deterministic document metadata in the reports
// category.
func NewDocumentFixture(opts ...DocumentOption) domain.Document {
	idx := atomic.AddUint64(&documentCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	document := domain.Document{
		ID:         fmt.Sprintf("document-%03d", idx),
		Name:       fmt.Sprintf("Document %03d.pdf", idx),
		Category:   domain.CategoryReports,
		Type:       "pdf",
		Size:       1024 * int64(idx),
		UploadedBy: "Anna Weber",
		UploadDate: "2024-03-04",
		CreatedAt:  created,
	}
	for _, opt := range opts {
		opt(&document)
	}
	return document
}

// WithDocumentID overrides the generated document ID.
func WithDocumentID(id string) DocumentOption {
	return func(d *domain.Document) { d.ID = id }
}

// WithDocumentCategory sets the access-gating category.
func WithDocumentCategory(category domain.DocumentCategory) DocumentOption {
	return func(d *domain.Document) { d.Category = category }
}

// WithDocumentUploader records who uploaded the document.
func WithDocumentUploader(name string) DocumentOption {
	return func(d *domain.Document) { d.UploadedBy = name }
}

// ----------------------------- Task fixtures -----------------------------

// TaskOption configures the generated task fixture.
type TaskOption func(*domain.Task)

// NewTaskFixture returns a deterministic pending task.
func NewTaskFixture(opts ...TaskOption) domain.Task {
	idx := atomic.AddUint64(&taskCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	task := domain.Task{
		ID:        fmt.Sprintf("task-%03d", idx),
		Title:     fmt.Sprintf("Task %03d", idx),
		DueDate:   "2024-03-22",
		Priority:  domain.PriorityMedium,
		Status:    domain.TaskPending,
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&task)
	}
	return task
}

// WithTaskID overrides the generated task ID.
func WithTaskID(id string) TaskOption {
	return func(t *domain.Task) { t.ID = id }
}

// WithTaskAssignee sets the assignee reference and name snapshot.
func WithTaskAssignee(employeeID, name string) TaskOption {
	return func(t *domain.Task) {
		t.AssigneeID = employeeID
		t.AssigneeName = name
	}
}

// WithTaskStatus sets the board status.
func WithTaskStatus(status domain.TaskStatus) TaskOption {
	return func(t *domain.Task) { t.Status = status }
}
