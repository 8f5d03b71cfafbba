package testfixtures

import (
	"log/slog"
	"time"

	"github.com/example/wdh-os/internal/application"
)

// ServiceFactory assists tests with constructing application services using
// deterministic identifiers and clocks.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock:       NewClock(time.Time{}),
		IDGenerator: NewIDGenerator("id"),
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("id")
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// WithIDGenerator overrides the identifier generator used by the factory.
func WithIDGenerator(generator *IDGenerator) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.IDGenerator = generator
	}
}

func (f *ServiceFactory) idFunc(override func() string) func() string {
	if override != nil {
		return override
	}
	return f.IDGenerator.NextFunc()
}

func (f *ServiceFactory) nowFunc(override func() time.Time) func() time.Time {
	if override != nil {
		return override
	}
	return f.Clock.NowFunc()
}

// AuthServiceDeps captures dependencies for constructing an auth service.
type AuthServiceDeps struct {
	Users          application.UserStore
	Sessions       application.SessionRepository
	PasswordVerify application.PasswordVerifier
	TokenGenerator func() string
	Now            func() time.Time
	SessionTTL     time.Duration
	Logger         *slog.Logger
}

// NewAuthService builds an auth service using the supplied dependencies
// combined with the factory defaults.
func (f *ServiceFactory) NewAuthService(deps AuthServiceDeps) *application.AuthService {
	ttl := deps.SessionTTL
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	return application.NewAuthServiceWithLogger(
		deps.Users,
		deps.Sessions,
		deps.PasswordVerify,
		f.idFunc(deps.TokenGenerator),
		f.nowFunc(deps.Now),
		ttl,
		deps.Logger,
	)
}

// CRMServiceDeps captures dependencies for constructing a CRM service.
type CRMServiceDeps struct {
	Clients     application.ClientRepository
	Notifier    application.Notifier
	IDGenerator func() string
	Now         func() time.Time
	Logger      *slog.Logger
}

// NewCRMService builds a CRM service using the supplied dependencies.
func (f *ServiceFactory) NewCRMService(deps CRMServiceDeps) *application.CRMService {
	return application.NewCRMServiceWithLogger(
		deps.Clients,
		deps.Notifier,
		f.idFunc(deps.IDGenerator),
		f.nowFunc(deps.Now),
		deps.Logger,
	)
}

// WorkspaceServiceDeps captures dependencies for constructing a workspace
// service.
type WorkspaceServiceDeps struct {
	Spaces      application.SpaceRepository
	Bookings    application.BookingRepository
	Clients     application.BookingClientLookup
	Notifier    application.Notifier
	IDGenerator func() string
	Now         func() time.Time
	Logger      *slog.Logger
}

// NewWorkspaceService builds a workspace service using the supplied
// dependencies.
func (f *ServiceFactory) NewWorkspaceService(deps WorkspaceServiceDeps) *application.WorkspaceService {
	return application.NewWorkspaceServiceWithLogger(
		deps.Spaces,
		deps.Bookings,
		deps.Clients,
		deps.Notifier,
		f.idFunc(deps.IDGenerator),
		f.nowFunc(deps.Now),
		deps.Logger,
	)
}

// MediaServiceDeps captures dependencies for constructing a media service.
type MediaServiceDeps struct {
	Projects    application.ProjectRepository
	Clients     application.ProjectClientLookup
	Notifier    application.Notifier
	IDGenerator func() string
	Now         func() time.Time
	Logger      *slog.Logger
}

// NewMediaService builds a media service using the supplied dependencies.
func (f *ServiceFactory) NewMediaService(deps MediaServiceDeps) *application.MediaService {
	return application.NewMediaServiceWithLogger(
		deps.Projects,
		deps.Clients,
		deps.Notifier,
		f.idFunc(deps.IDGenerator),
		f.nowFunc(deps.Now),
		deps.Logger,
	)
}

// TaskServiceDeps captures dependencies for constructing a task service.
type TaskServiceDeps struct {
	Tasks       application.TaskRepository
	Employees   application.TaskAssigneeLookup
	Notifier    application.Notifier
	IDGenerator func() string
	Now         func() time.Time
	Logger      *slog.Logger
}

// NewTaskService builds a task service using the supplied dependencies.
func (f *ServiceFactory) NewTaskService(deps TaskServiceDeps) *application.TaskService {
	return application.NewTaskServiceWithLogger(
		deps.Tasks,
		deps.Employees,
		deps.Notifier,
		f.idFunc(deps.IDGenerator),
		f.nowFunc(deps.Now),
		deps.Logger,
	)
}

// NotificationServiceDeps captures dependencies for constructing a
// notification service.
type NotificationServiceDeps struct {
	Notifications application.NotificationRepository
	IDGenerator   func() string
	Now           func() time.Time
	Logger        *slog.Logger
}

// NewNotificationService builds a notification service using the supplied
// dependencies.
func (f *ServiceFactory) NewNotificationService(deps NotificationServiceDeps) *application.NotificationService {
	return application.NewNotificationServiceWithLogger(
		deps.Notifications,
		f.idFunc(deps.IDGenerator),
		f.nowFunc(deps.Now),
		deps.Logger,
	)
}
