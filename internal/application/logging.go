package application

import (
	"context"
	"errors"
	"log/slog"

	"github.com/example/wdh-os/internal/domain"
	"github.com/example/wdh-os/internal/logging"
	"github.com/example/wdh-os/internal/workflow"
)

func defaultLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}

func serviceLogger(ctx context.Context, base *slog.Logger, serviceName, operation string, attrs ...any) *slog.Logger {
	logger := logging.FromContext(ctx)
	if logger == nil {
		logger = base
	}
	if logger == nil {
		logger = slog.Default()
	}

	pairs := []any{"service", serviceName}
	if operation != "" {
		pairs = append(pairs, "operation", operation)
	}
	if len(attrs) > 0 {
		pairs = append(pairs, attrs...)
	}
	return logger.With(pairs...)
}

// publish emits a derived notification. Delivery is best effort: a failure is
// logged and never rolls back the mutation that triggered it.
func publish(ctx context.Context, logger *slog.Logger, notifier Notifier, title, message string, kind domain.NotificationType) {
	if notifier == nil {
		return
	}
	if err := notifier.Publish(ctx, title, message, kind); err != nil {
		logger.WarnContext(ctx, "failed to publish notification", "error", err)
	}
}

// ErrorKind maps sentinel and structured errors to a stable logging label.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}

	var pErr *PermissionError
	if errors.As(err, &pErr) {
		return "permission_denied"
	}
	var tErr *workflow.InvalidTransitionError
	if errors.As(err, &tErr) {
		return "invalid_transition"
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return "validation"
	}

	switch {
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrAlreadyExists):
		return "already_exists"
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, ErrAccountDisabled):
		return "account_disabled"
	case errors.Is(err, ErrSessionExpired):
		return "session_expired"
	case errors.Is(err, ErrSessionRevoked):
		return "session_revoked"
	}

	return "unexpected"
}
