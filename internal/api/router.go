package api

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	appointmentshandler "github.com/shamian84/college-appointment-system/internal/appointments/handler"
	availabilityhandler "github.com/shamian84/college-appointment-system/internal/availability/handler"
	usershandler "github.com/shamian84/college-appointment-system/internal/users/handler"
	"github.com/shamian84/college-appointment-system/pkg/config"
	apperrors "github.com/shamian84/college-appointment-system/pkg/errors"
	httputil "github.com/shamian84/college-appointment-system/pkg/http"
	"github.com/shamian84/college-appointment-system/pkg/middleware"
)

const (
	segmentAppointments = "appointments"
	segmentAvailability = "availability"
	segmentAll          = "all"
)

// Router owns the public route table.
type Router struct {
	users        *usershandler.UserHandler
	availability *availabilityhandler.AvailabilityHandler
	appointments *appointmentshandler.AppointmentHandler
	auth         *middleware.Authenticator

	professorAppointments httprouter.Handle
}

func NewRouter(
	users *usershandler.UserHandler,
	availability *availabilityhandler.AvailabilityHandler,
	appointments *appointmentshandler.AppointmentHandler,
	auth *middleware.Authenticator,
) *Router {
	return &Router{
		users:                 users,
		availability:          availability,
		appointments:          appointments,
		auth:                  auth,
		professorAppointments: auth.RequireRole(config.RoleProfessor, appointments.ProfessorAppointments),
	}
}

func (rt *Router) RegisterRoutes(router *httprouter.Router) {
	professor := func(h httprouter.Handle) httprouter.Handle { return rt.auth.RequireRole(config.RoleProfessor, h) }
	student := func(h httprouter.Handle) httprouter.Handle { return rt.auth.RequireRole(config.RoleStudent, h) }

	rt.users.RegisterRoutes(router)

	router.POST("/professor/availability", professor(rt.availability.Publish))
	router.GET("/professor/:segment", rt.professorSegment)
	router.GET("/professor/:segment/:sub", rt.professorSubresource)
	router.PATCH("/professor/appointments/:id/cancel", professor(rt.appointments.CancelByProfessor))
	router.PATCH("/professor/appointments/:id/complete", professor(rt.appointments.Complete))

	router.POST("/student/book/:professorId", student(rt.appointments.Book))
	router.GET("/student/bookings", student(rt.appointments.StudentBookings))
	router.PATCH("/student/bookings/:id/cancel", student(rt.appointments.CancelByStudent))

	router.NotFound = http.HandlerFunc(notFound)
}

// professorSegment serves GET /professor/appointments. httprouter cannot hold
// that static path next to the /professor/:id wildcard.
func (rt *Router) professorSegment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if ps.ByName("segment") == segmentAppointments {
		rt.professorAppointments(w, r, ps)
		return
	}
	notFound(w, r)
}

// professorSubresource serves GET /professor/availability/all and
// GET /professor/:id/availability.
func (rt *Router) professorSubresource(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	segment, sub := ps.ByName("segment"), ps.ByName("sub")
	switch {
	case segment == segmentAvailability && sub == segmentAll:
		rt.availability.ListAll(w, r, ps)
	case sub == segmentAvailability:
		rt.availability.ListForProfessor(w, r, httprouter.Params{{Key: "id", Value: segment}})
	default:
		notFound(w, r)
	}
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	_ = httputil.WriteError(w, apperrors.NotFound("Route"))
}
