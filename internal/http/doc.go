// Package http provides HTTP handlers and middleware for the WDH-OS API.
//
// Every response is wrapped in the shared envelope defined in responder.go:
// {"success":bool,"data":...,"message":...,"count":...}. The router exposes
// the API under /api:
//   - POST /api/sessions: issues a session token. Body: {"email","password"}.
//     The token is also surfaced via the `X-Session-Token` header and a
//     `session_token` cookie. PUT /api/sessions/current rotates the token and
//     DELETE /api/sessions/current revokes it.
//   - /api/clients, /api/spaces, /api/bookings, /api/projects, /api/students,
//     /api/transactions, /api/employees, /api/documents, /api/tasks: CRUD
//     endpoints exchanging the DTOs defined next to their handlers.
//   - Workflow transitions are PUT subresources: /api/projects/{id}/advance,
//     /api/tasks/{id}/advance, /api/transactions/{id}/approve and /reject,
//     /api/bookings/{id}/cancel, /api/spaces/{id}/status.
//   - GET /api/notifications, PUT /api/notifications/{id}/read, and
//     PUT /api/notifications/read-all serve the derived notification feed.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
