package application

import (
	"context"
	"errors"
	"testing"

	"github.com/example/wdh-os/internal/domain"
)

func validStudentInput() StudentInput {
	return StudentInput{
		Name:       "Mara Vogt",
		Email:      "mara@uni.example",
		Program:    "Media Production",
		University: "HS Mannheim",
		StartDate:  "2024-01-15",
		EndDate:    "2024-07-15",
		Status:     domain.StudentActive,
		Progress:   40,
		Mentor:     "Jonas Pohl",
	}
}

func TestProgramService_CreateStudent(t *testing.T) {
	t.Run("requires manage_students", func(t *testing.T) {
		svc := NewProgramService(testStore(), nil, sequenceID("stu"), fixedClock(testTime))

		_, err := svc.CreateStudent(context.Background(), CreateStudentParams{Principal: mediaPrincipal(), Input: validStudentInput()})
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
		if _, err := svc.CreateStudent(context.Background(), CreateStudentParams{Principal: adminPrincipal(), Input: validStudentInput()}); err != nil {
			t.Fatalf("expected admin to manage students, got %v", err)
		}
	})

	t.Run("validates status and progress bounds", func(t *testing.T) {
		svc := NewProgramService(nil, nil, nil, nil)

		input := validStudentInput()
		input.Status = "expelled"
		input.Progress = 120
		_, err := svc.CreateStudent(context.Background(), CreateStudentParams{Principal: ceoPrincipal(), Input: input})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if _, ok := vErr.FieldErrors["status"]; !ok {
			t.Fatalf("expected status validation error, got %v", vErr.FieldErrors)
		}
		if _, ok := vErr.FieldErrors["progress"]; !ok {
			t.Fatalf("expected progress validation error, got %v", vErr.FieldErrors)
		}
	})
}

func TestProgramService_CompletionNotification(t *testing.T) {
	notifier := &notifierStub{}
	svc := NewProgramService(testStore(), notifier, sequenceID("stu"), fixedClock(testTime))
	ctx := context.Background()

	student, err := svc.CreateStudent(ctx, CreateStudentParams{Principal: cooPrincipal(), Input: validStudentInput()})
	if err != nil {
		t.Fatalf("seed student: %v", err)
	}
	notifier.published = nil

	input := validStudentInput()
	input.Status = domain.StudentCompleted
	input.Progress = 100
	if _, err := svc.UpdateStudent(ctx, UpdateStudentParams{Principal: cooPrincipal(), StudentID: student.ID, Input: input}); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if len(notifier.published) != 1 || notifier.published[0].Type != domain.NotificationSuccess {
		t.Fatalf("expected one success notification on completion, got %+v", notifier.published)
	}

	// Re-saving an already completed student publishes nothing.
	notifier.published = nil
	if _, err := svc.UpdateStudent(ctx, UpdateStudentParams{Principal: cooPrincipal(), StudentID: student.ID, Input: input}); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if len(notifier.published) != 0 {
		t.Fatalf("expected no notification, got %+v", notifier.published)
	}
}

func TestProgramService_ViewAccess(t *testing.T) {
	svc := NewProgramService(testStore(), nil, sequenceID("stu"), fixedClock(testTime))
	ctx := context.Background()

	if _, err := svc.CreateStudent(ctx, CreateStudentParams{Principal: ceoPrincipal(), Input: validStudentInput()}); err != nil {
		t.Fatalf("seed student: %v", err)
	}

	for _, p := range []Principal{ceoPrincipal(), cooPrincipal(), adminPrincipal()} {
		if _, err := svc.ListStudents(ctx, p); err != nil {
			t.Fatalf("expected %s to view students, got %v", p.Role, err)
		}
	}
	for _, p := range []Principal{ctoPrincipal(), mediaPrincipal()} {
		if _, err := svc.ListStudents(ctx, p); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected %s to be denied, got %v", p.Role, err)
		}
	}
}
