package application

import (
	"context"
	"errors"
	"testing"

	"github.com/example/wdh-os/internal/domain"
)

func validClientInput() ClientInput {
	return ClientInput{
		Name:    "  Jana Fischer ",
		Company: "Fischer GmbH",
		Type:    domain.ClientEnterprise,
		Status:  domain.ClientActive,
		Revenue: 12000,
	}
}

func TestCRMService_CreateClient(t *testing.T) {
	t.Run("denies roles without manage_clients", func(t *testing.T) {
		svc := NewCRMService(nil, nil, nil, nil)

		_, err := svc.CreateClient(context.Background(), CreateClientParams{
			Principal: mediaPrincipal(),
			Input:     validClientInput(),
		})

		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
		var pErr *PermissionError
		if !errors.As(err, &pErr) {
			t.Fatalf("expected PermissionError, got %T", err)
		}
		if pErr.Role != domain.RoleMediaManager {
			t.Fatalf("unexpected role in permission error: %+v", pErr)
		}
	})

	t.Run("validates required attributes", func(t *testing.T) {
		svc := NewCRMService(nil, nil, nil, nil)

		_, err := svc.CreateClient(context.Background(), CreateClientParams{
			Principal: adminPrincipal(),
			Input:     ClientInput{Name: "  ", Type: "partnership", Status: "lead", Revenue: -1},
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		for _, field := range []string{"name", "type", "status", "revenue"} {
			if _, ok := vErr.FieldErrors[field]; !ok {
				t.Fatalf("expected %s validation error, got %v", field, vErr.FieldErrors)
			}
		}
	})

	t.Run("persists trimmed client and publishes one notification", func(t *testing.T) {
		store := testStore()
		notifier := &notifierStub{}
		svc := NewCRMService(store, notifier, sequenceID("client"), fixedClock(testTime))

		created, err := svc.CreateClient(context.Background(), CreateClientParams{
			Principal: adminPrincipal(),
			Input:     validClientInput(),
		})
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}

		if created.ID != "client-1" || created.Name != "Jana Fischer" {
			t.Fatalf("unexpected client: %+v", created)
		}
		if !created.CreatedAt.Equal(testTime) {
			t.Fatalf("expected injected clock, got %v", created.CreatedAt)
		}

		stored, err := store.GetClient(context.Background(), "client-1")
		if err != nil {
			t.Fatalf("stored client not found: %v", err)
		}
		if stored.Company != "Fischer GmbH" {
			t.Fatalf("unexpected stored client: %+v", stored)
		}

		if len(notifier.published) != 1 {
			t.Fatalf("expected one notification, got %d", len(notifier.published))
		}
		if notifier.published[0].Type != domain.NotificationInfo {
			t.Fatalf("unexpected notification type: %+v", notifier.published[0])
		}
	})
}

func TestCRMService_ReadAndMutate(t *testing.T) {
	store := testStore()
	notifier := &notifierStub{}
	svc := NewCRMService(store, notifier, sequenceID("client"), fixedClock(testTime))

	seed, err := svc.CreateClient(context.Background(), CreateClientParams{
		Principal: cooPrincipal(),
		Input:     validClientInput(),
	})
	if err != nil {
		t.Fatalf("seed client: %v", err)
	}

	t.Run("get requires view_crm", func(t *testing.T) {
		if _, err := svc.GetClient(context.Background(), mediaPrincipal(), seed.ID); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
		got, err := svc.GetClient(context.Background(), adminPrincipal(), seed.ID)
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if got.ID != seed.ID {
			t.Fatalf("unexpected client: %+v", got)
		}
	})

	t.Run("missing id surfaces ErrNotFound", func(t *testing.T) {
		if _, err := svc.GetClient(context.Background(), ceoPrincipal(), "client-missing"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if _, err := svc.UpdateClient(context.Background(), UpdateClientParams{
			Principal: ceoPrincipal(),
			ClientID:  "client-missing",
			Input:     validClientInput(),
		}); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound on update, got %v", err)
		}
		if err := svc.DeleteClient(context.Background(), ceoPrincipal(), "client-missing"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound on delete, got %v", err)
		}
	})

	t.Run("update rewrites fields and keeps creation time", func(t *testing.T) {
		input := validClientInput()
		input.Name = "Jana Fischer-Braun"
		input.Status = domain.ClientInactive

		updated, err := svc.UpdateClient(context.Background(), UpdateClientParams{
			Principal: cooPrincipal(),
			ClientID:  seed.ID,
			Input:     input,
		})
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if updated.Name != "Jana Fischer-Braun" || updated.Status != domain.ClientInactive {
			t.Fatalf("unexpected update result: %+v", updated)
		}
		if !updated.CreatedAt.Equal(seed.CreatedAt) {
			t.Fatal("expected creation time to be preserved")
		}
	})

	t.Run("delete removes the record and publishes", func(t *testing.T) {
		before := len(notifier.published)
		if err := svc.DeleteClient(context.Background(), ceoPrincipal(), seed.ID); err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if _, err := svc.GetClient(context.Background(), ceoPrincipal(), seed.ID); !errors.Is(err, ErrNotFound) {
			t.Fatal("expected client to be gone")
		}
		if len(notifier.published) != before+1 {
			t.Fatalf("expected one delete notification, got %d new", len(notifier.published)-before)
		}
	})
}

func TestCRMService_ListClients(t *testing.T) {
	store := testStore()
	svc := NewCRMService(store, nil, sequenceID("client"), fixedClock(testTime))

	for _, name := range []string{"Alpha", "Beta"} {
		input := validClientInput()
		input.Name = name
		if _, err := svc.CreateClient(context.Background(), CreateClientParams{Principal: adminPrincipal(), Input: input}); err != nil {
			t.Fatalf("seed %s: %v", name, err)
		}
	}

	if _, err := svc.ListClients(context.Background(), mediaPrincipal()); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for media_manager, got %v", err)
	}

	clients, err := svc.ListClients(context.Background(), adminPrincipal())
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if len(clients) != 2 || clients[0].ID != "client-1" || clients[1].ID != "client-2" {
		t.Fatalf("unexpected listing: %+v", clients)
	}
}
