package application

import (
	"context"
	"fmt"
	"time"

	"github.com/example/wdh-os/internal/domain"
	"github.com/example/wdh-os/internal/persistence/memory"
)

// notifierStub records published notifications for assertions.
type notifierStub struct {
	published []domain.Notification
	err       error
}

func (n *notifierStub) Publish(ctx context.Context, title, message string, kind domain.NotificationType) error {
	if n.err != nil {
		return n.err
	}
	n.published = append(n.published, domain.Notification{Title: title, Message: message, Type: kind})
	return nil
}

func sequenceID(prefix string) func() string {
	counter := 0
	return func() string {
		counter++
		return fmt.Sprintf("%s-%d", prefix, counter)
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func testStore() *memory.Storage {
	return memory.NewStorage()
}

var testTime = time.Date(2024, time.March, 14, 9, 0, 0, 0, time.UTC)

func ceoPrincipal() Principal {
	return Principal{UserID: "user-ceo", Name: "Anna Weber", Role: domain.RoleCEO}
}

func cooPrincipal() Principal {
	return Principal{UserID: "user-coo", Name: "Markus Dreyer", Role: domain.RoleCOO}
}

func ctoPrincipal() Principal {
	return Principal{UserID: "user-cto", Name: "Lena Hoffmann", Role: domain.RoleCTO}
}

func mediaPrincipal() Principal {
	return Principal{UserID: "user-media", Name: "Jonas Pohl", Role: domain.RoleMediaManager}
}

func adminPrincipal() Principal {
	return Principal{UserID: "user-admin", Name: "Sofia Krause", Role: domain.RoleAdmin}
}
