package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/shamian84/college-appointment-system/internal/appointments/service"
	"github.com/shamian84/college-appointment-system/pkg/auth"
	httputil "github.com/shamian84/college-appointment-system/pkg/http"
	"github.com/shamian84/college-appointment-system/pkg/logger"
	"github.com/shamian84/college-appointment-system/pkg/model"
)

// AppointmentHandler serves booking routes. Every handler expects an
// authenticated principal on the request context.
type AppointmentHandler struct {
	service service.AppointmentService
	log     *logger.Logger
}

func NewAppointmentHandler(service service.AppointmentService, log *logger.Logger) *AppointmentHandler {
	return &AppointmentHandler{
		service: service,
		log:     log,
	}
}

func (h *AppointmentHandler) Book(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	principal, _ := auth.PrincipalFrom(r.Context())

	var req model.BookRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Book", err)
		return
	}

	view, err := h.service.BookSlot(r.Context(), principal.UserID, ps.ByName("professorId"), &req)
	if err != nil {
		h.writeError(w, "Book", err)
		return
	}

	if err := httputil.WriteCreated(w, view); err != nil {
		h.log.Error("failed to write created response", "handler", "Book", "operation", "WriteCreated", "error", err)
	}
}

func (h *AppointmentHandler) StudentBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal, _ := auth.PrincipalFrom(r.Context())

	resp, err := h.service.StudentBookings(r.Context(), principal.UserID)
	if err != nil {
		h.writeError(w, "StudentBookings", err)
		return
	}

	if err := httputil.WriteSuccess(w, resp); err != nil {
		h.log.Error("failed to write success response", "handler", "StudentBookings", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AppointmentHandler) CancelByStudent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	principal, _ := auth.PrincipalFrom(r.Context())

	view, err := h.service.CancelByStudent(r.Context(), principal.UserID, ps.ByName("id"))
	if err != nil {
		h.writeError(w, "CancelByStudent", err)
		return
	}

	if err := httputil.WriteSuccess(w, view); err != nil {
		h.log.Error("failed to write success response", "handler", "CancelByStudent", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AppointmentHandler) ProfessorAppointments(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal, _ := auth.PrincipalFrom(r.Context())

	page, limit, err := httputil.ExtractPageLimit(r)
	if err != nil {
		h.writeError(w, "ProfessorAppointments", err)
		return
	}

	query := r.URL.Query()
	filter := model.AppointmentFilter{
		Date:   query.Get("date"),
		Status: query.Get("status"),
	}

	views, total, err := h.service.ProfessorAppointments(r.Context(), principal.UserID, filter, page, limit)
	if err != nil {
		h.writeError(w, "ProfessorAppointments", err)
		return
	}

	if err := httputil.WritePaginated(w, views, total, page, limit); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ProfessorAppointments", "operation", "WritePaginated", "error", err)
	}
}

func (h *AppointmentHandler) CancelByProfessor(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	principal, _ := auth.PrincipalFrom(r.Context())

	var req model.CancelRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "CancelByProfessor", err)
		return
	}

	view, err := h.service.CancelByProfessor(r.Context(), principal.UserID, ps.ByName("id"), &req)
	if err != nil {
		h.writeError(w, "CancelByProfessor", err)
		return
	}

	if err := httputil.WriteSuccess(w, view); err != nil {
		h.log.Error("failed to write success response", "handler", "CancelByProfessor", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AppointmentHandler) Complete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	principal, _ := auth.PrincipalFrom(r.Context())

	view, err := h.service.CompleteByProfessor(r.Context(), principal.UserID, ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Complete", err)
		return
	}

	if err := httputil.WriteSuccess(w, view); err != nil {
		h.log.Error("failed to write success response", "handler", "Complete", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AppointmentHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}
