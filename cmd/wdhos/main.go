package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/example/wdh-os/internal/application"
	"github.com/example/wdh-os/internal/config"
	httptransport "github.com/example/wdh-os/internal/http"
	"github.com/example/wdh-os/internal/persistence"
	"github.com/example/wdh-os/internal/persistence/memory"
	"github.com/example/wdh-os/internal/persistence/sqlite"
)

// storage is the surface both backends provide: every repository interface
// plus Close.
type storage interface {
	persistence.UserRepository
	persistence.SessionRepository
	persistence.ClientRepository
	persistence.SpaceRepository
	persistence.BookingRepository
	persistence.ProjectRepository
	persistence.StudentRepository
	persistence.TransactionRepository
	persistence.EmployeeRepository
	persistence.DocumentRepository
	persistence.TaskRepository
	persistence.NotificationRepository
	Close() error
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	store, err := openStorage(ctx, cfg.SQLiteDSN, logger)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	idGenerator := uuid.NewString
	tokenGenerator := func() string { return randomHex(32) }
	now := time.Now

	if cfg.Seed {
		err := persistence.SeedDefaults(ctx, store, persistence.SeedConfig{
			ID:           idGenerator,
			Now:          now,
			HashPassword: application.CreatePasswordHash,
		})
		if err != nil {
			logger.Error("failed to seed storage", "error", err)
			os.Exit(1)
		}
	}

	notificationService := application.NewNotificationServiceWithLogger(store, idGenerator, now, logger)
	authService := application.NewAuthServiceWithLogger(store, store, nil, tokenGenerator, now, cfg.SessionTTL, logger)
	crmService := application.NewCRMServiceWithLogger(store, notificationService, idGenerator, now, logger)
	workspaceService := application.NewWorkspaceServiceWithLogger(store, store, store, notificationService, idGenerator, now, logger)
	mediaService := application.NewMediaServiceWithLogger(store, store, notificationService, idGenerator, now, logger)
	programService := application.NewProgramServiceWithLogger(store, notificationService, idGenerator, now, logger)
	financeService := application.NewFinanceServiceWithLogger(store, notificationService, idGenerator, now, logger)
	hrService := application.NewHRServiceWithLogger(store, notificationService, idGenerator, now, logger)
	documentService := application.NewDocumentServiceWithLogger(store, notificationService, idGenerator, now, logger)
	taskService := application.NewTaskServiceWithLogger(store, store, notificationService, idGenerator, now, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:          httptransport.NewAuthHandler(authService, logger),
		Clients:       httptransport.NewClientHandler(crmService, logger),
		Spaces:        httptransport.NewSpaceHandler(workspaceService, logger),
		Bookings:      httptransport.NewBookingHandler(workspaceService, logger),
		Projects:      httptransport.NewProjectHandler(mediaService, logger),
		Students:      httptransport.NewStudentHandler(programService, logger),
		Transactions:  httptransport.NewTransactionHandler(financeService, logger),
		Employees:     httptransport.NewEmployeeHandler(hrService, logger),
		Documents:     httptransport.NewDocumentHandler(documentService, logger),
		Tasks:         httptransport.NewTaskHandler(taskService, logger),
		Notifications: httptransport.NewNotificationHandler(notificationService, logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
			httptransport.RequireSession(authService, logger),
		},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("wdh-os API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

// openStorage selects the backend from the DSN: empty means process memory,
// anything else is handed to the SQLite driver.
func openStorage(ctx context.Context, dsn string, logger *slog.Logger) (storage, error) {
	if dsn == "" {
		logger.Info("no DSN configured, using in-memory storage")
		return memory.NewStorage(), nil
	}
	store, err := sqlite.Open(ctx, dsn)
	if err != nil {
		return nil, err
	}
	logger.Info("using sqlite storage", "dsn", dsn)
	return store, nil
}

func randomHex(bytes int) string {
	if bytes <= 0 {
		bytes = 16
	}
	buf := make([]byte, bytes)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}
