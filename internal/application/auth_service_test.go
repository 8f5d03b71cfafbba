package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/wdh-os/internal/domain"
	"github.com/example/wdh-os/internal/persistence"
	"github.com/example/wdh-os/internal/persistence/memory"
)

// plainVerifier avoids argon2id hashing cost in session-focused tests.
func plainVerifier(hashedPassword, password string) error {
	if hashedPassword != password {
		return ErrInvalidCredentials
	}
	return nil
}

func seedUser(t *testing.T, store *memory.Storage, user domain.User) domain.User {
	t.Helper()
	user.CreatedAt = testTime
	user.UpdatedAt = testTime
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func authFixture(t *testing.T) (*AuthService, *memory.Storage) {
	t.Helper()
	store := testStore()
	seedUser(t, store, domain.User{
		ID:           "user-1",
		Name:         "Anna Weiss",
		Email:        "anna@wdh.example",
		PasswordHash: "correct horse",
		Role:         domain.RoleCOO,
	})
	svc := NewAuthService(store, store, plainVerifier, sequenceID("tok"), fixedClock(testTime), time.Hour)
	return svc, store
}

func TestAuthService_Authenticate(t *testing.T) {
	t.Run("issues a session for valid credentials", func(t *testing.T) {
		svc, _ := authFixture(t)

		result, err := svc.Authenticate(context.Background(), AuthenticateParams{Email: "  Anna@WDH.example ", Password: "correct horse"})
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if result.User.ID != "user-1" || result.User.Role != domain.RoleCOO {
			t.Fatalf("unexpected user: %+v", result.User)
		}
		if result.User.PasswordHash != "" {
			t.Fatal("password hash must not leave the service")
		}
		if result.Session.Token == "" || !result.Session.ExpiresAt.Equal(testTime.Add(time.Hour)) {
			t.Fatalf("unexpected session: %+v", result.Session)
		}
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		svc, _ := authFixture(t)

		_, err := svc.Authenticate(context.Background(), AuthenticateParams{Email: "anna@wdh.example", Password: "wrong"})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
		_, err = svc.Authenticate(context.Background(), AuthenticateParams{Email: "nobody@wdh.example", Password: "correct horse"})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("disabled accounts are rejected before password checks", func(t *testing.T) {
		svc, store := authFixture(t)
		seedUser(t, store, domain.User{
			ID:           "user-2",
			Name:         "Former Employee",
			Email:        "gone@wdh.example",
			PasswordHash: "correct horse",
			Role:         domain.RoleAdmin,
			Disabled:     true,
		})

		_, err := svc.Authenticate(context.Background(), AuthenticateParams{Email: "gone@wdh.example", Password: "correct horse"})
		if !errors.Is(err, ErrAccountDisabled) {
			t.Fatalf("expected ErrAccountDisabled, got %v", err)
		}
	})

	t.Run("round-trips an argon2id hash", func(t *testing.T) {
		store := testStore()
		hash, err := CreatePasswordHash("s3cret-pass")
		if err != nil {
			t.Fatalf("create hash: %v", err)
		}
		seedUser(t, store, domain.User{
			ID:           "user-3",
			Name:         "Hash User",
			Email:        "hash@wdh.example",
			PasswordHash: hash,
			Role:         domain.RoleCEO,
		})
		svc := NewAuthService(store, store, nil, sequenceID("tok"), fixedClock(testTime), time.Hour)

		if _, err := svc.Authenticate(context.Background(), AuthenticateParams{Email: "hash@wdh.example", Password: "s3cret-pass"}); err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if _, err := svc.Authenticate(context.Background(), AuthenticateParams{Email: "hash@wdh.example", Password: "s3cret-pa55"}); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}

func TestAuthService_ValidateSession(t *testing.T) {
	login := func(t *testing.T, svc *AuthService) persistence.Session {
		t.Helper()
		result, err := svc.Authenticate(context.Background(), AuthenticateParams{Email: "anna@wdh.example", Password: "correct horse"})
		if err != nil {
			t.Fatalf("login: %v", err)
		}
		return result.Session
	}

	t.Run("returns the role-bearing principal", func(t *testing.T) {
		svc, _ := authFixture(t)
		session := login(t, svc)

		principal, err := svc.ValidateSession(context.Background(), session.Token)
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if principal.UserID != "user-1" || principal.Name != "Anna Weiss" || principal.Role != domain.RoleCOO {
			t.Fatalf("unexpected principal: %+v", principal)
		}
	})

	t.Run("rejects unknown, expired, and revoked tokens", func(t *testing.T) {
		store := testStore()
		seedUser(t, store, domain.User{ID: "user-1", Name: "Anna Weiss", Email: "anna@wdh.example", PasswordHash: "correct horse", Role: domain.RoleCOO})

		current := testTime
		svc := NewAuthService(store, store, plainVerifier, sequenceID("tok"), func() time.Time { return current }, time.Hour)
		session := login(t, svc)

		if _, err := svc.ValidateSession(context.Background(), "bogus"); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}

		current = testTime.Add(2 * time.Hour)
		if _, err := svc.ValidateSession(context.Background(), session.Token); !errors.Is(err, ErrSessionExpired) {
			t.Fatalf("expected ErrSessionExpired, got %v", err)
		}

		current = testTime
		session = login(t, svc)
		if err := svc.RevokeSession(context.Background(), session.Token); err != nil {
			t.Fatalf("revoke: %v", err)
		}
		if _, err := svc.ValidateSession(context.Background(), session.Token); !errors.Is(err, ErrSessionRevoked) {
			t.Fatalf("expected ErrSessionRevoked, got %v", err)
		}
	})
}

func TestAuthService_RefreshSession(t *testing.T) {
	svc, _ := authFixture(t)

	result, err := svc.Authenticate(context.Background(), AuthenticateParams{Email: "anna@wdh.example", Password: "correct horse"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	oldToken := result.Session.Token

	refreshed, err := svc.RefreshSession(context.Background(), RefreshSessionParams{Token: oldToken})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if refreshed.Token == oldToken {
		t.Fatal("expected the token to rotate")
	}

	if _, err := svc.ValidateSession(context.Background(), oldToken); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected the old token to stop working, got %v", err)
	}
	if _, err := svc.ValidateSession(context.Background(), refreshed.Token); err != nil {
		t.Fatalf("expected the rotated token to work, got %v", err)
	}
}
