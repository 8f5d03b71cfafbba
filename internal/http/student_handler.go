package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/wdh-os/internal/application"
	"github.com/example/wdh-os/internal/domain"
)

type programService interface {
	CreateStudent(ctx context.Context, params application.CreateStudentParams) (domain.Student, error)
	GetStudent(ctx context.Context, principal application.Principal, studentID string) (domain.Student, error)
	UpdateStudent(ctx context.Context, params application.UpdateStudentParams) (domain.Student, error)
	DeleteStudent(ctx context.Context, principal application.Principal, studentID string) error
	ListStudents(ctx context.Context, principal application.Principal) ([]domain.Student, error)
}

type StudentHandler struct {
	service   programService
	responder responder
	logger    *slog.Logger
}

func NewStudentHandler(service programService, logger *slog.Logger) *StudentHandler {
	base := defaultLogger(logger)
	return &StudentHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *StudentHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "StudentHandler", operation, attrs...)
}

func (h *StudentHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req studentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "principal_id", principal.UserID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode student request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.UserID)

	student, err := h.service.CreateStudent(r.Context(), application.CreateStudentParams{
		Principal: principal,
		Input:     req.toInput(),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "student creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("student_id", student.ID).InfoContext(r.Context(), "student created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, dataEnvelope(toStudentDTO(student)))
}

func (h *StudentHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	studentID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(studentID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	student, err := h.service.GetStudent(r.Context(), principal, studentID)
	if err != nil {
		h.log(r.Context(), "Get", "principal_id", principal.UserID, "student_id", studentID).
			ErrorContext(r.Context(), "student fetch failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, dataEnvelope(toStudentDTO(student)))
}

func (h *StudentHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	studentID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(studentID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req studentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "principal_id", principal.UserID, "student_id", studentID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode student update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "principal_id", principal.UserID, "student_id", studentID)

	student, err := h.service.UpdateStudent(r.Context(), application.UpdateStudentParams{
		Principal: principal,
		StudentID: studentID,
		Input:     req.toInput(),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "student update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "student updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, dataEnvelope(toStudentDTO(student)))
}

func (h *StudentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	studentID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(studentID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "principal_id", principal.UserID, "student_id", studentID)

	if err := h.service.DeleteStudent(r.Context(), principal, studentID); err != nil {
		logger.ErrorContext(r.Context(), "student delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "student deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, messageEnvelope("student deleted"))
}

func (h *StudentHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "List", "principal_id", principal.UserID)

	students, err := h.service.ListStudents(r.Context(), principal)
	if err != nil {
		logger.ErrorContext(r.Context(), "student list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(students)).InfoContext(r.Context(), "students listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listEnvelope(toStudentDTOs(students), len(students)))
}

type studentRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Program    string `json:"program"`
	University string `json:"university"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Status     string `json:"status"`
	Progress   int    `json:"progress"`
	Mentor     string `json:"mentor"`
}

func (r studentRequest) toInput() application.StudentInput {
	return application.StudentInput{
		Name:       strings.TrimSpace(r.Name),
		Email:      strings.TrimSpace(r.Email),
		Phone:      strings.TrimSpace(r.Phone),
		Program:    strings.TrimSpace(r.Program),
		University: strings.TrimSpace(r.University),
		StartDate:  strings.TrimSpace(r.StartDate),
		EndDate:    strings.TrimSpace(r.EndDate),
		Status:     domain.StudentStatus(r.Status),
		Progress:   r.Progress,
		Mentor:     strings.TrimSpace(r.Mentor),
	}
}

type studentDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Program    string `json:"program"`
	University string `json:"university"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Status     string `json:"status"`
	Progress   int    `json:"progress"`
	Mentor     string `json:"mentor"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

func toStudentDTO(student domain.Student) studentDTO {
	return studentDTO{
		ID:         student.ID,
		Name:       student.Name,
		Email:      student.Email,
		Phone:      student.Phone,
		Program:    student.Program,
		University: student.University,
		StartDate:  student.StartDate,
		EndDate:    student.EndDate,
		Status:     string(student.Status),
		Progress:   student.Progress,
		Mentor:     student.Mentor,
		CreatedAt:  student.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:  student.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toStudentDTOs(students []domain.Student) []studentDTO {
	out := make([]studentDTO, 0, len(students))
	for _, student := range students {
		out = append(out, toStudentDTO(student))
	}
	return out
}
