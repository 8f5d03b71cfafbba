package application

import (
	"context"
	"errors"
	"testing"

	"github.com/example/wdh-os/internal/domain"
	"github.com/example/wdh-os/internal/workflow"
)

func mediaFixture(t *testing.T) (*MediaService, *notifierStub) {
	t.Helper()

	store := testStore()
	notifier := &notifierStub{}
	if err := store.CreateClient(context.Background(), domain.Client{
		ID:        "client-1",
		Name:      "Fischer GmbH",
		Type:      domain.ClientEnterprise,
		Status:    domain.ClientActive,
		CreatedAt: testTime,
	}); err != nil {
		t.Fatalf("seed client: %v", err)
	}
	return NewMediaService(store, store, notifier, sequenceID("project"), fixedClock(testTime)), notifier
}

func TestMediaService_CreateProject(t *testing.T) {
	t.Run("denies roles without manage_media", func(t *testing.T) {
		svc := NewMediaService(nil, nil, nil, nil, nil)

		_, err := svc.CreateProject(context.Background(), CreateProjectParams{
			Principal: adminPrincipal(),
			Input:     ProjectInput{Title: "Launch Video", Type: domain.ProjectVideo},
		})
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("starts in briefing with progress 10", func(t *testing.T) {
		svc, _ := mediaFixture(t)

		project, err := svc.CreateProject(context.Background(), CreateProjectParams{
			Principal: mediaPrincipal(),
			Input:     ProjectInput{Title: "Launch Video", ClientID: "client-1", Type: domain.ProjectVideo, Budget: 5000},
		})
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if project.Status != domain.ProjectBriefing || project.Progress != 10 {
			t.Fatalf("unexpected initial state: %+v", project)
		}
		if project.Client != "Fischer GmbH" {
			t.Fatalf("expected denormalized client name, got %q", project.Client)
		}
	})

	t.Run("validates title and type", func(t *testing.T) {
		svc, _ := mediaFixture(t)

		_, err := svc.CreateProject(context.Background(), CreateProjectParams{
			Principal: mediaPrincipal(),
			Input:     ProjectInput{Title: " ", Type: "film", Budget: -1},
		})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		for _, field := range []string{"title", "type", "budget"} {
			if _, ok := vErr.FieldErrors[field]; !ok {
				t.Fatalf("expected %s validation error, got %v", field, vErr.FieldErrors)
			}
		}
	})
}

func TestMediaService_AdvanceProject(t *testing.T) {
	svc, notifier := mediaFixture(t)
	ctx := context.Background()

	project, err := svc.CreateProject(ctx, CreateProjectParams{
		Principal: mediaPrincipal(),
		Input:     ProjectInput{Title: "Podcast Pilot", ClientID: "client-1", Type: domain.ProjectPodcast, Budget: 1500},
	})
	if err != nil {
		t.Fatalf("seed project: %v", err)
	}

	want := []struct {
		status   domain.ProjectStatus
		progress int
	}{
		{domain.ProjectQuote, 20},
		{domain.ProjectProduction, 50},
		{domain.ProjectReview, 75},
		{domain.ProjectDelivery, 90},
		{domain.ProjectCompleted, 100},
	}

	for _, step := range want {
		advanced, err := svc.AdvanceProject(ctx, mediaPrincipal(), project.ID)
		if err != nil {
			t.Fatalf("advance to %s: %v", step.status, err)
		}
		if advanced.Status != step.status || advanced.Progress != step.progress {
			t.Fatalf("expected %s/%d, got %s/%d", step.status, step.progress, advanced.Status, advanced.Progress)
		}
	}

	t.Run("completed is terminal", func(t *testing.T) {
		_, err := svc.AdvanceProject(ctx, mediaPrincipal(), project.ID)
		var tErr *workflow.InvalidTransitionError
		if !errors.As(err, &tErr) {
			t.Fatalf("expected InvalidTransitionError, got %v", err)
		}
	})

	t.Run("completion publishes a success notification", func(t *testing.T) {
		var success int
		for _, n := range notifier.published {
			if n.Type == domain.NotificationSuccess {
				success++
			}
		}
		if success != 1 {
			t.Fatalf("expected exactly one success notification, got %d", success)
		}
	})

	t.Run("advancement requires manage_media", func(t *testing.T) {
		if _, err := svc.AdvanceProject(ctx, adminPrincipal(), project.ID); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})
}

func TestMediaService_ViewAccess(t *testing.T) {
	svc, _ := mediaFixture(t)
	ctx := context.Background()

	project, err := svc.CreateProject(ctx, CreateProjectParams{
		Principal: ceoPrincipal(),
		Input:     ProjectInput{Title: "Reel", Type: domain.ProjectVideo},
	})
	if err != nil {
		t.Fatalf("seed project: %v", err)
	}

	// ceo, coo, and media_manager can view media; cto and admin cannot.
	for _, p := range []Principal{ceoPrincipal(), cooPrincipal(), mediaPrincipal()} {
		if _, err := svc.GetProject(ctx, p, project.ID); err != nil {
			t.Fatalf("expected %s to view media, got %v", p.Role, err)
		}
	}
	for _, p := range []Principal{ctoPrincipal(), adminPrincipal()} {
		if _, err := svc.GetProject(ctx, p, project.ID); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected %s to be denied, got %v", p.Role, err)
		}
	}
}
