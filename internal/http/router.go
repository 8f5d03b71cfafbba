package http

import (
	"net/http"
	"strings"
)

type RouterConfig struct {
	Auth          *AuthHandler
	Clients       *ClientHandler
	Spaces        *SpaceHandler
	Bookings      *BookingHandler
	Projects      *ProjectHandler
	Students      *StudentHandler
	Transactions  *TransactionHandler
	Employees     *EmployeeHandler
	Documents     *DocumentHandler
	Tasks         *TaskHandler
	Notifications *NotificationHandler
	Middleware    []func(http.Handler) http.Handler
}

// NewRouter assembles the /api route table. Workflow transitions are modelled
// as PUT subresources ({id}/advance, {id}/approve, ...) so collection and
// item routing stay uniform across entities.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	if cfg.Auth != nil {
		mux.HandleFunc("/api/sessions", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Auth.CreateSession(w, r)
		})
		mux.HandleFunc("/api/sessions/current", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPut:
				cfg.Auth.RefreshCurrentSession(w, r)
			case http.MethodDelete:
				cfg.Auth.DeleteCurrentSession(w, r)
			default:
				methodNotAllowed(w, http.MethodPut, http.MethodDelete)
			}
		})
	}

	if cfg.Clients != nil {
		mux.HandleFunc("/api/clients", collectionRoute(cfg.Clients.List, cfg.Clients.Create))
		mux.HandleFunc("/api/clients/", itemRoute("/api/clients/", itemRoutes{
			get:    cfg.Clients.Get,
			put:    cfg.Clients.Update,
			delete: cfg.Clients.Delete,
		}))
	}

	if cfg.Spaces != nil {
		mux.HandleFunc("/api/spaces", collectionRoute(cfg.Spaces.List, cfg.Spaces.Create))
		mux.HandleFunc("/api/spaces/", itemRoute("/api/spaces/", itemRoutes{
			get:    cfg.Spaces.Get,
			put:    cfg.Spaces.Update,
			delete: cfg.Spaces.Delete,
			actions: map[string]http.HandlerFunc{
				"status": cfg.Spaces.SetStatus,
			},
		}))
	}

	if cfg.Bookings != nil {
		mux.HandleFunc("/api/bookings", collectionRoute(cfg.Bookings.List, cfg.Bookings.Create))
		mux.HandleFunc("/api/bookings/", itemRoute("/api/bookings/", itemRoutes{
			get: cfg.Bookings.Get,
			actions: map[string]http.HandlerFunc{
				"cancel": cfg.Bookings.Cancel,
			},
		}))
	}

	if cfg.Projects != nil {
		mux.HandleFunc("/api/projects", collectionRoute(cfg.Projects.List, cfg.Projects.Create))
		mux.HandleFunc("/api/projects/", itemRoute("/api/projects/", itemRoutes{
			get:    cfg.Projects.Get,
			put:    cfg.Projects.Update,
			delete: cfg.Projects.Delete,
			actions: map[string]http.HandlerFunc{
				"advance": cfg.Projects.Advance,
			},
		}))
	}

	if cfg.Students != nil {
		mux.HandleFunc("/api/students", collectionRoute(cfg.Students.List, cfg.Students.Create))
		mux.HandleFunc("/api/students/", itemRoute("/api/students/", itemRoutes{
			get:    cfg.Students.Get,
			put:    cfg.Students.Update,
			delete: cfg.Students.Delete,
		}))
	}

	if cfg.Transactions != nil {
		mux.HandleFunc("/api/transactions", collectionRoute(cfg.Transactions.List, cfg.Transactions.Create))
		mux.HandleFunc("/api/transactions/", itemRoute("/api/transactions/", itemRoutes{
			get:    cfg.Transactions.Get,
			put:    cfg.Transactions.Update,
			delete: cfg.Transactions.Delete,
			actions: map[string]http.HandlerFunc{
				"approve": cfg.Transactions.Approve,
				"reject":  cfg.Transactions.Reject,
			},
		}))
	}

	if cfg.Employees != nil {
		mux.HandleFunc("/api/employees", collectionRoute(cfg.Employees.List, cfg.Employees.Create))
		mux.HandleFunc("/api/employees/", itemRoute("/api/employees/", itemRoutes{
			get:    cfg.Employees.Get,
			put:    cfg.Employees.Update,
			delete: cfg.Employees.Delete,
		}))
	}

	if cfg.Documents != nil {
		mux.HandleFunc("/api/documents", collectionRoute(cfg.Documents.List, cfg.Documents.Upload))
		mux.HandleFunc("/api/documents/", itemRoute("/api/documents/", itemRoutes{
			get:    cfg.Documents.Get,
			delete: cfg.Documents.Delete,
		}))
	}

	if cfg.Tasks != nil {
		mux.HandleFunc("/api/tasks", collectionRoute(cfg.Tasks.List, cfg.Tasks.Create))
		mux.HandleFunc("/api/tasks/", itemRoute("/api/tasks/", itemRoutes{
			get:    cfg.Tasks.Get,
			put:    cfg.Tasks.Update,
			delete: cfg.Tasks.Delete,
			actions: map[string]http.HandlerFunc{
				"advance": cfg.Tasks.Advance,
			},
		}))
	}

	if cfg.Notifications != nil {
		mux.HandleFunc("/api/notifications", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Notifications.List(w, r)
		})
		mux.HandleFunc("/api/notifications/", func(w http.ResponseWriter, r *http.Request) {
			rest := strings.TrimPrefix(r.URL.Path, "/api/notifications/")
			if r.Method != http.MethodPut {
				methodNotAllowed(w, http.MethodPut)
				return
			}
			if rest == "read-all" {
				cfg.Notifications.MarkAllRead(w, r)
				return
			}
			id, action, _ := strings.Cut(rest, "/")
			if id == "" || action != "read" {
				http.NotFound(w, r)
				return
			}
			cfg.Notifications.MarkRead(w, r.WithContext(ContextWithResourceID(r.Context(), id)))
		})
	}

	var handler http.Handler = mux
	for i := len(cfg.Middleware) - 1; i >= 0; i-- {
		if cfg.Middleware[i] != nil {
			handler = cfg.Middleware[i](handler)
		}
	}
	return handler
}

func collectionRoute(list, create http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			list(w, r)
		case http.MethodPost:
			create(w, r)
		default:
			methodNotAllowed(w, http.MethodGet, http.MethodPost)
		}
	}
}

type itemRoutes struct {
	get     http.HandlerFunc
	put     http.HandlerFunc
	delete  http.HandlerFunc
	actions map[string]http.HandlerFunc
}

func itemRoute(prefix string, routes itemRoutes) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, action, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, prefix), "/")
		if id == "" {
			http.NotFound(w, r)
			return
		}
		r = r.WithContext(ContextWithResourceID(r.Context(), id))

		if action != "" {
			handler, ok := routes.actions[action]
			if !ok {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodPut {
				methodNotAllowed(w, http.MethodPut)
				return
			}
			handler(w, r)
			return
		}

		switch {
		case r.Method == http.MethodGet && routes.get != nil:
			routes.get(w, r)
		case r.Method == http.MethodPut && routes.put != nil:
			routes.put(w, r)
		case r.Method == http.MethodDelete && routes.delete != nil:
			routes.delete(w, r)
		default:
			methodNotAllowed(w, allowedItemMethods(routes)...)
		}
	}
}

func allowedItemMethods(routes itemRoutes) []string {
	var allowed []string
	if routes.get != nil {
		allowed = append(allowed, http.MethodGet)
	}
	if routes.put != nil {
		allowed = append(allowed, http.MethodPut)
	}
	if routes.delete != nil {
		allowed = append(allowed, http.MethodDelete)
	}
	return allowed
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
