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

// NotificationRepository captures the persistence operations needed by the service.
type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification domain.Notification) error
	GetNotification(ctx context.Context, id string) (domain.Notification, error)
	UpdateNotification(ctx context.Context, notification domain.Notification) error
	ListNotifications(ctx context.Context) ([]domain.Notification, error)
}

// NotificationService stores and serves the derived notification feed. It
// implements Notifier, so the other services publish through it.
type NotificationService struct {
	notifications NotificationRepository
	idGenerator   func() string
	now           func() time.Time
	logger        *slog.Logger
}

// NewNotificationService constructs a notification service with the provided dependencies.
func NewNotificationService(notifications NotificationRepository, idGenerator func() string, now func() time.Time) *NotificationService {
	return NewNotificationServiceWithLogger(notifications, idGenerator, now, nil)
}

// NewNotificationServiceWithLogger constructs a notification service with a specified logger.
func NewNotificationServiceWithLogger(notifications NotificationRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *NotificationService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &NotificationService{notifications: notifications, idGenerator: idGenerator, now: now, logger: defaultLogger(logger)}
}

func (s *NotificationService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "NotificationService", operation, attrs...)
}

// Publish records a derived notification. New notifications are unread.
func (s *NotificationService) Publish(ctx context.Context, title, message string, kind domain.NotificationType) error {
	if s == nil {
		return fmt.Errorf("NotificationService is nil")
	}
	if s.notifications == nil {
		return nil
	}

	switch kind {
	case domain.NotificationInfo, domain.NotificationSuccess, domain.NotificationWarning, domain.NotificationError:
	default:
		kind = domain.NotificationInfo
	}

	notification := domain.Notification{
		ID:        s.idGenerator(),
		Title:     strings.TrimSpace(title),
		Message:   strings.TrimSpace(message),
		Type:      kind,
		Read:      false,
		CreatedAt: s.now(),
	}

	logger := s.loggerWith(ctx, "Publish", "notification_id", notification.ID, "type", kind)
	if err := s.notifications.CreateNotification(ctx, notification); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to store notification", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	logger.InfoContext(ctx, "notification stored")
	return nil
}

// ListNotifications returns the feed in creation order.
func (s *NotificationService) ListNotifications(ctx context.Context, principal Principal) (notifications []domain.Notification, err error) {
	if s == nil {
		err = fmt.Errorf("NotificationService is nil")
		return
	}
	if err = requireCapability(principal, authz.ViewNotifications); err != nil {
		return
	}
	if s.notifications == nil {
		return nil, nil
	}

	logger := s.loggerWith(ctx, "ListNotifications", "principal_id", principal.UserID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list notifications", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("result_count", len(notifications)).InfoContext(ctx, "notifications listed")
	}()

	notifications, err = s.notifications.ListNotifications(ctx)
	return
}

// MarkRead flags a single notification as read.
func (s *NotificationService) MarkRead(ctx context.Context, principal Principal, notificationID string) (notification domain.Notification, err error) {
	if s == nil {
		err = fmt.Errorf("NotificationService is nil")
		return
	}

	logger := s.loggerWith(ctx, "MarkRead",
		"principal_id", principal.UserID,
		"notification_id", notificationID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to mark notification read", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "notification marked read")
	}()

	if err = requireCapability(principal, authz.ViewNotifications); err != nil {
		return
	}
	if s.notifications == nil {
		err = ErrNotFound
		return
	}

	var existing domain.Notification
	existing, err = s.notifications.GetNotification(ctx, notificationID)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	if !existing.Read {
		existing.Read = true
		if err = s.notifications.UpdateNotification(ctx, existing); err != nil {
			err = mapRepoError(err)
			return
		}
	}
	notification = existing
	return
}

// MarkAllRead flags every unread notification as read and reports how many
// rows changed.
func (s *NotificationService) MarkAllRead(ctx context.Context, principal Principal) (marked int, err error) {
	if s == nil {
		err = fmt.Errorf("NotificationService is nil")
		return
	}

	logger := s.loggerWith(ctx, "MarkAllRead", "principal_id", principal.UserID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to mark notifications read", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("marked_count", marked).InfoContext(ctx, "notifications marked read")
	}()

	if err = requireCapability(principal, authz.ViewNotifications); err != nil {
		return
	}
	if s.notifications == nil {
		return 0, nil
	}

	var all []domain.Notification
	all, err = s.notifications.ListNotifications(ctx)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	for _, notification := range all {
		if notification.Read {
			continue
		}
		notification.Read = true
		if err = s.notifications.UpdateNotification(ctx, notification); err != nil {
			err = mapRepoError(err)
			return
		}
		marked++
	}
	return
}
