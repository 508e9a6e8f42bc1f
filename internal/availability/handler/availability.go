package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/shamian84/college-appointment-system/internal/availability/service"
	"github.com/shamian84/college-appointment-system/pkg/auth"
	httputil "github.com/shamian84/college-appointment-system/pkg/http"
	"github.com/shamian84/college-appointment-system/pkg/logger"
	"github.com/shamian84/college-appointment-system/pkg/model"
)

type AvailabilityHandler struct {
	service service.AvailabilityService
	log     *logger.Logger
}

func NewAvailabilityHandler(service service.AvailabilityService, log *logger.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		log:     log,
	}
}

// Publish expects a professor principal on the request context.
func (h *AvailabilityHandler) Publish(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal, _ := auth.PrincipalFrom(r.Context())

	var req model.PublishAvailabilityRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Publish", err)
		return
	}

	availability, err := h.service.Publish(r.Context(), principal.UserID, &req)
	if err != nil {
		h.writeError(w, "Publish", err)
		return
	}

	if err := httputil.WriteCreated(w, availability); err != nil {
		h.log.Error("failed to write created response", "handler", "Publish", "operation", "WriteCreated", "error", err)
	}
}

func (h *AvailabilityHandler) ListForProfessor(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	availabilities, err := h.service.Query(r.Context(), ps.ByName("id"), r.URL.Query().Get("date"))
	if err != nil {
		h.writeError(w, "ListForProfessor", err)
		return
	}

	if err := httputil.WriteSuccess(w, availabilities); err != nil {
		h.log.Error("failed to write success response", "handler", "ListForProfessor", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AvailabilityHandler) ListAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	page, limit, err := httputil.ExtractPageLimit(r)
	if err != nil {
		h.writeError(w, "ListAll", err)
		return
	}

	availabilities, total, err := h.service.QueryAll(r.Context(), r.URL.Query().Get("date"), page, limit)
	if err != nil {
		h.writeError(w, "ListAll", err)
		return
	}

	if err := httputil.WritePaginated(w, availabilities, total, page, limit); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *AvailabilityHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}
