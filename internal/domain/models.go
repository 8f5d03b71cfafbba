package domain

import "time"

// Role identifies one of the five fixed user classes.
type Role string

const (
	RoleCEO          Role = "ceo"
	RoleCOO          Role = "coo"
	RoleCTO          Role = "cto"
	RoleMediaManager Role = "media_manager"
	RoleAdmin        Role = "admin"
)

// Roles lists every known role in declaration order.
func Roles() []Role {
	return []Role{RoleCEO, RoleCOO, RoleCTO, RoleMediaManager, RoleAdmin}
}

type ClientType string

const (
	ClientEnterprise ClientType = "enterprise"
	ClientStartup    ClientType = "startup"
	ClientIndividual ClientType = "individual"
)

type ClientStatus string

const (
	ClientActive   ClientStatus = "active"
	ClientProspect ClientStatus = "prospect"
	ClientInactive ClientStatus = "inactive"
)

type SpaceType string

const (
	SpaceOffice     SpaceType = "office"
	SpaceConference SpaceType = "conference"
	SpaceCoworking  SpaceType = "coworking"
	SpaceStudio     SpaceType = "studio"
)

type SpaceStatus string

const (
	SpaceAvailable   SpaceStatus = "available"
	SpaceOccupied    SpaceStatus = "occupied"
	SpaceReserved    SpaceStatus = "reserved"
	SpaceMaintenance SpaceStatus = "maintenance"
)

type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingPending   BookingStatus = "pending"
	BookingCancelled BookingStatus = "cancelled"
)

type ProjectType string

const (
	ProjectVideo   ProjectType = "video"
	ProjectAudio   ProjectType = "audio"
	ProjectPodcast ProjectType = "podcast"
)

type ProjectStatus string

const (
	ProjectBriefing   ProjectStatus = "briefing"
	ProjectQuote      ProjectStatus = "quote"
	ProjectProduction ProjectStatus = "production"
	ProjectReview     ProjectStatus = "review"
	ProjectDelivery   ProjectStatus = "delivery"
	ProjectCompleted  ProjectStatus = "completed"
)

type StudentStatus string

const (
	StudentPending   StudentStatus = "pending"
	StudentActive    StudentStatus = "active"
	StudentCompleted StudentStatus = "completed"
)

type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionApproved  TransactionStatus = "approved"
	TransactionCompleted TransactionStatus = "completed"
)

type EmployeeStatus string

const (
	EmployeeActive   EmployeeStatus = "active"
	EmployeeOnLeave  EmployeeStatus = "on_leave"
	EmployeeInactive EmployeeStatus = "inactive"
)

type PerformanceRating string

const (
	PerformanceExcellent        PerformanceRating = "excellent"
	PerformanceGood             PerformanceRating = "good"
	PerformanceAverage          PerformanceRating = "average"
	PerformanceNeedsImprovement PerformanceRating = "needs_improvement"
)

type DocumentCategory string

const (
	CategoryContracts DocumentCategory = "contracts"
	CategoryInvoices  DocumentCategory = "invoices"
	CategoryReports   DocumentCategory = "reports"
	CategoryTemplates DocumentCategory = "templates"
	CategoryPolicies  DocumentCategory = "policies"
	CategoryOther     DocumentCategory = "other"
)

// DocumentCategories lists every category in declaration order.
func DocumentCategories() []DocumentCategory {
	return []DocumentCategory{
		CategoryContracts,
		CategoryInvoices,
		CategoryReports,
		CategoryTemplates,
		CategoryPolicies,
		CategoryOther,
	}
}

type TaskPriority string

const (
	PriorityHigh   TaskPriority = "high"
	PriorityMedium TaskPriority = "medium"
	PriorityLow    TaskPriority = "low"
)

type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
)

type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationSuccess NotificationType = "success"
	NotificationWarning NotificationType = "warning"
	NotificationError   NotificationType = "error"
)

// User is an operator account. Role is immutable for the lifetime of a session.
type User struct {
	ID           string
	Name         string
	Email        string
	Role         Role
	PasswordHash string
	Disabled     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Client struct {
	ID          string
	Name        string
	Company     string
	Email       string
	Phone       string
	Type        ClientType
	Status      ClientStatus
	Revenue     float64
	LastContact string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SpaceBooking is the occupancy snapshot attached to a space while it is
// reserved or occupied.
type SpaceBooking struct {
	ClientID   string
	ClientName string
	Date       string
	Until      string
}

// Space is a rentable room or desk. CurrentBooking is non-nil exactly when
// Status is reserved or occupied.
type Space struct {
	ID             string
	Name           string
	Type           SpaceType
	Capacity       int
	PricePerHour   float64
	Status         SpaceStatus
	CurrentBooking *SpaceBooking
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Booking records a space reservation. SpaceName and ClientName are snapshots
// taken at creation time and are not refreshed when the referenced entities
// are renamed.
type Booking struct {
	ID         string
	SpaceID    string
	SpaceName  string
	ClientID   string
	ClientName string
	Date       string
	StartTime  string
	EndTime    string
	Status     BookingStatus
	TotalPrice float64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type MediaProject struct {
	ID        string
	Title     string
	Client    string
	ClientID  string
	Type      ProjectType
	Status    ProjectStatus
	Deadline  string
	Budget    float64
	Progress  int
	Assignee  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Student struct {
	ID         string
	Name       string
	Email      string
	Phone      string
	Program    string
	University string
	StartDate  string
	EndDate    string
	Status     StudentStatus
	Progress   int
	Mentor     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Transaction is a finance ledger entry. ApprovedBy is empty until an expense
// has passed the approval flow; income entries are created completed and never
// enter it.
type Transaction struct {
	ID          string
	Description string
	Type        TransactionType
	Category    string
	Amount      float64
	Date        string
	Status      TransactionStatus
	ApprovedBy  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Employee struct {
	ID          string
	Name        string
	Email       string
	Phone       string
	Position    string
	Department  string
	Salary      float64
	JoinDate    string
	Status      EmployeeStatus
	Performance PerformanceRating
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Document struct {
	ID         string
	Name       string
	Category   DocumentCategory
	Type       string
	Size       int64
	UploadedBy string
	UploadDate string
	CreatedAt  time.Time
}

// Task assignee fields are snapshots of the employee at creation time.
type Task struct {
	ID           string
	Title        string
	Description  string
	AssigneeID   string
	AssigneeName string
	DueDate      string
	Priority     TaskPriority
	Status       TaskStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Notification is derived from mutations on other entities; it is never
// created directly by a caller.
type Notification struct {
	ID        string
	Title     string
	Message   string
	Type      NotificationType
	Read      bool
	CreatedAt time.Time
}
