package application

import (
	"context"
	"errors"
	"testing"

	"github.com/example/wdh-os/internal/domain"
)

func validEmployeeInput() EmployeeInput {
	return EmployeeInput{
		Name:        "Nils Berger",
		Email:       "nils@wdh.example",
		Position:    "Editor",
		Department:  "Media",
		Salary:      48000,
		JoinDate:    "2023-06-01",
		Status:      domain.EmployeeActive,
		Performance: domain.PerformanceGood,
	}
}

func TestHRService_CreateEmployee(t *testing.T) {
	t.Run("only ceo, coo, and cto manage hr", func(t *testing.T) {
		svc := NewHRService(testStore(), nil, sequenceID("emp"), fixedClock(testTime))

		for _, p := range []Principal{mediaPrincipal(), adminPrincipal()} {
			_, err := svc.CreateEmployee(context.Background(), CreateEmployeeParams{Principal: p, Input: validEmployeeInput()})
			if !errors.Is(err, ErrUnauthorized) {
				t.Fatalf("expected %s to be denied, got %v", p.Role, err)
			}
		}

		if _, err := svc.CreateEmployee(context.Background(), CreateEmployeeParams{Principal: ctoPrincipal(), Input: validEmployeeInput()}); err != nil {
			t.Fatalf("expected cto to manage hr, got %v", err)
		}
	})

	t.Run("a reused email surfaces ErrAlreadyExists", func(t *testing.T) {
		svc := NewHRService(testStore(), nil, sequenceID("emp"), fixedClock(testTime))

		if _, err := svc.CreateEmployee(context.Background(), CreateEmployeeParams{Principal: ceoPrincipal(), Input: validEmployeeInput()}); err != nil {
			t.Fatalf("seed employee: %v", err)
		}

		duplicate := validEmployeeInput()
		duplicate.Name = "Other Person"
		_, err := svc.CreateEmployee(context.Background(), CreateEmployeeParams{Principal: ceoPrincipal(), Input: duplicate})
		if !errors.Is(err, ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})

	t.Run("validates status and performance", func(t *testing.T) {
		svc := NewHRService(nil, nil, nil, nil)

		_, err := svc.CreateEmployee(context.Background(), CreateEmployeeParams{
			Principal: ceoPrincipal(),
			Input:     EmployeeInput{Name: " ", Email: "", Status: "retired", Performance: "stellar", Salary: -1},
		})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		for _, field := range []string{"name", "email", "status", "performance", "salary"} {
			if _, ok := vErr.FieldErrors[field]; !ok {
				t.Fatalf("expected %s validation error, got %v", field, vErr.FieldErrors)
			}
		}
	})
}

func TestHRService_UpdateAndDelete(t *testing.T) {
	svc := NewHRService(testStore(), &notifierStub{}, sequenceID("emp"), fixedClock(testTime))
	ctx := context.Background()

	employee, err := svc.CreateEmployee(ctx, CreateEmployeeParams{Principal: cooPrincipal(), Input: validEmployeeInput()})
	if err != nil {
		t.Fatalf("seed employee: %v", err)
	}

	input := validEmployeeInput()
	input.Position = "Senior Editor"
	input.Performance = domain.PerformanceExcellent
	updated, err := svc.UpdateEmployee(ctx, UpdateEmployeeParams{Principal: cooPrincipal(), EmployeeID: employee.ID, Input: input})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if updated.Position != "Senior Editor" || updated.Performance != domain.PerformanceExcellent {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	if err := svc.DeleteEmployee(ctx, ceoPrincipal(), employee.ID); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if _, err := svc.GetEmployee(ctx, ceoPrincipal(), employee.ID); !errors.Is(err, ErrNotFound) {
		t.Fatal("expected employee to be gone")
	}
}
