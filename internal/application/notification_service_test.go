package application

import (
	"context"
	"errors"
	"testing"

	"github.com/example/wdh-os/internal/domain"
)

func TestNotificationService_Publish(t *testing.T) {
	svc := NewNotificationService(testStore(), sequenceID("ntf"), fixedClock(testTime))
	ctx := context.Background()

	if err := svc.Publish(ctx, "New Client", "Client added", domain.NotificationInfo); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if err := svc.Publish(ctx, "Odd", "Unknown kind falls back to info", "critical"); err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	feed, err := svc.ListNotifications(ctx, ceoPrincipal())
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if len(feed) != 2 {
		t.Fatalf("expected two notifications, got %d", len(feed))
	}
	for _, notification := range feed {
		if notification.Read {
			t.Fatalf("expected unread notification, got %+v", notification)
		}
	}
	if feed[1].Type != domain.NotificationInfo {
		t.Fatalf("expected unknown kind to normalize to info, got %s", feed[1].Type)
	}
}

func TestNotificationService_MarkRead(t *testing.T) {
	svc := NewNotificationService(testStore(), sequenceID("ntf"), fixedClock(testTime))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := svc.Publish(ctx, "Event", "message", domain.NotificationInfo); err != nil {
			t.Fatalf("seed notification: %v", err)
		}
	}

	t.Run("marking a single notification is idempotent", func(t *testing.T) {
		notification, err := svc.MarkRead(ctx, adminPrincipal(), "ntf-1")
		if err != nil || !notification.Read {
			t.Fatalf("expected read notification, got %+v (%v)", notification, err)
		}
		if _, err := svc.MarkRead(ctx, adminPrincipal(), "ntf-1"); err != nil {
			t.Fatalf("expected idempotent mark, got %v", err)
		}
		if _, err := svc.MarkRead(ctx, adminPrincipal(), "missing"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("mark all reports how many rows changed", func(t *testing.T) {
		marked, err := svc.MarkAllRead(ctx, adminPrincipal())
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if marked != 2 {
			t.Fatalf("expected two remaining unread rows, got %d", marked)
		}

		marked, err = svc.MarkAllRead(ctx, adminPrincipal())
		if err != nil || marked != 0 {
			t.Fatalf("expected zero on second pass, got %d (%v)", marked, err)
		}
	})
}
