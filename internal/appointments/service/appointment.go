package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	appointmentserrors "github.com/shamian84/college-appointment-system/internal/appointments/errors"
	"github.com/shamian84/college-appointment-system/internal/appointments/notifier"
	"github.com/shamian84/college-appointment-system/internal/appointments/repository"
	"github.com/shamian84/college-appointment-system/internal/appointments/validator"
	availabilityerrors "github.com/shamian84/college-appointment-system/internal/availability/errors"
	availabilityrepository "github.com/shamian84/college-appointment-system/internal/availability/repository"
	"github.com/shamian84/college-appointment-system/pkg/config"
	mongotx "github.com/shamian84/college-appointment-system/pkg/db/mongo"
	apperrors "github.com/shamian84/college-appointment-system/pkg/errors"
	"github.com/shamian84/college-appointment-system/pkg/model"
	"github.com/shamian84/college-appointment-system/pkg/sanitizer"
	"github.com/shamian84/college-appointment-system/pkg/validation"
)

const (
	noteCancelledByStudent   = "Cancelled by student"
	noteCancelledByProfessor = "Cancelled by professor"
)

// Directory resolves users referenced by appointments.
type Directory interface {
	GetProfessor(ctx context.Context, id string) (*model.UserSummary, error)
	Summaries(ctx context.Context, ids []string) (map[string]model.UserSummary, error)
}

// Actor is the authenticated caller driving a transition.
type Actor struct {
	Role string
	ID   string
}

type AppointmentService interface {
	BookSlot(ctx context.Context, studentID string, professorID string, req *model.BookRequest) (*model.AppointmentView, error)
	CancelByStudent(ctx context.Context, studentID string, appointmentID string) (*model.AppointmentView, error)
	CancelByProfessor(ctx context.Context, professorID string, appointmentID string, req *model.CancelRequest) (*model.AppointmentView, error)
	CompleteByProfessor(ctx context.Context, professorID string, appointmentID string) (*model.AppointmentView, error)

	StudentBookings(ctx context.Context, studentID string) (*model.StudentBookingsResponse, error)
	ProfessorAppointments(ctx context.Context, professorID string, filter model.AppointmentFilter, page int, limit int) ([]model.AppointmentView, int64, error)
}

type appointmentService struct {
	repo         repository.AppointmentRepository
	availability availabilityrepository.AvailabilityRepository
	directory    Directory
	notifier     notifier.Notifier
	tx           mongotx.TransactionManager
	validator    *validator.AppointmentValidator
	cfg          *config.Config
}

func NewAppointmentService(
	repo repository.AppointmentRepository,
	availability availabilityrepository.AvailabilityRepository,
	directory Directory,
	notifier notifier.Notifier,
	tx mongotx.TransactionManager,
	validator *validator.AppointmentValidator,
	cfg *config.Config,
) AppointmentService {
	return &appointmentService{
		repo:         repo,
		availability: availability,
		directory:    directory,
		notifier:     notifier,
		tx:           tx,
		validator:    validator,
		cfg:          cfg,
	}
}

func (s *appointmentService) BookSlot(ctx context.Context, studentID string, professorID string, req *model.BookRequest) (*model.AppointmentView, error) {
	log := s.cfg.Log.WithContext(ctx)
	req.Date = strings.TrimSpace(req.Date)

	if err := s.validator.ValidateID("professorId", professorID); err != nil {
		return nil, apperrors.InvalidInput("Invalid professor ID format")
	}
	if err := s.validator.ValidateBook(req); err != nil {
		log.Warn("Booking validation failed",
			"student_id", studentID,
			"professor_id", professorID,
			"error", err,
		)
		return nil, validation.ToAppError("Booking validation failed", err)
	}

	if _, err := s.directory.GetProfessor(ctx, professorID); err != nil {
		return nil, err
	}

	requested := sanitizer.SanitizeSlotLabel(req.Time)
	_, err := s.repo.FindBooked(ctx, studentID, professorID, req.Date, requested)
	switch {
	case err == nil:
		return nil, apperrors.DuplicateBooking("You have already booked this slot")
	case !errors.Is(err, appointmentserrors.ErrNotFound):
		log.Error("Failed to check existing booking", "student_id", studentID, "error", err)
		return nil, apperrors.FromStore("Failed to book slot", err)
	}

	availability, err := s.availability.FindByProfessorAndDate(ctx, professorID, req.Date)
	if err != nil {
		if errors.Is(err, availabilityerrors.ErrNotFound) {
			return nil, apperrors.NoAvailability("No availability for this date")
		}
		log.Error("Failed to load availability", "professor_id", professorID, "date", req.Date, "error", err)
		return nil, apperrors.FromStore("Failed to book slot", err)
	}

	idx := availability.FindSlot(func(stored string) bool {
		return sanitizer.LabelsMatch(stored, req.Time)
	})
	if idx < 0 {
		return nil, apperrors.SlotUnavailable("Slot not found for this date")
	}
	if availability.TimeSlots[idx].IsBooked {
		return nil, apperrors.SlotUnavailable("Slot is already booked")
	}
	label := availability.TimeSlots[idx].Time

	appointment := &model.Appointment{
		StudentID:   studentID,
		ProfessorID: professorID,
		Date:        availability.Date,
		Time:        label,
		Status:      config.StatusBooked,
	}

	err = s.tx.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		if err := s.availability.ClaimSlot(txCtx, availability.ID, label); err != nil {
			if errors.Is(err, availabilityerrors.ErrSlotUnavailable) {
				return apperrors.SlotUnavailable("Slot is already booked")
			}
			return fmt.Errorf("failed to claim slot: %w", err)
		}

		if err := s.repo.Create(txCtx, appointment); err != nil {
			if releaseErr := s.availability.ReleaseSlot(txCtx, availability.ID, label); releaseErr != nil {
				log.Warn("Failed to release slot after insert failure",
					"availability_id", availability.ID,
					"time", label,
					"error", releaseErr,
				)
			}
			if errors.Is(err, appointmentserrors.ErrDuplicateBooking) {
				return apperrors.DuplicateBooking("You have already booked this slot")
			}
			return fmt.Errorf("failed to create appointment: %w", err)
		}
		return nil
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			log.Warn("Booking rejected",
				"student_id", studentID,
				"professor_id", professorID,
				"date", req.Date,
				"time", label,
				"error", err,
			)
			return nil, err
		}
		log.Error("Failed to book slot",
			"student_id", studentID,
			"professor_id", professorID,
			"date", req.Date,
			"time", label,
			"error", err,
		)
		return nil, apperrors.FromStore("Failed to book slot", err)
	}

	log.Info("Appointment booked",
		"id", appointment.ID,
		"student_id", studentID,
		"professor_id", professorID,
		"date", appointment.Date,
		"time", appointment.Time,
	)

	views := s.populate(ctx, []*model.Appointment{appointment})
	return &views[0], nil
}

func (s *appointmentService) CancelByStudent(ctx context.Context, studentID string, appointmentID string) (*model.AppointmentView, error) {
	actor := Actor{Role: config.RoleStudent, ID: studentID}
	return s.transition(ctx, actor, appointmentID, config.StatusCancelled, noteCancelledByStudent)
}

func (s *appointmentService) CancelByProfessor(ctx context.Context, professorID string, appointmentID string, req *model.CancelRequest) (*model.AppointmentView, error) {
	if err := s.validator.ValidateCancel(req); err != nil {
		return nil, validation.ToAppError("Cancellation validation failed", err)
	}
	actor := Actor{Role: config.RoleProfessor, ID: professorID}
	note := sanitizer.SanitizeReason(req.Reason, noteCancelledByProfessor)
	return s.transition(ctx, actor, appointmentID, config.StatusCancelled, note)
}

func (s *appointmentService) CompleteByProfessor(ctx context.Context, professorID string, appointmentID string) (*model.AppointmentView, error) {
	actor := Actor{Role: config.RoleProfessor, ID: professorID}
	return s.transition(ctx, actor, appointmentID, config.StatusCompleted, "")
}

// transition moves a Booked appointment owned by actor to target and runs the
// side effects of that status.
func (s *appointmentService) transition(ctx context.Context, actor Actor, appointmentID string, target string, note string) (*model.AppointmentView, error) {
	log := s.cfg.Log.WithContext(ctx)

	if err := s.validator.ValidateID("id", appointmentID); err != nil {
		return nil, apperrors.InvalidInput("Invalid appointment ID format")
	}

	current, err := s.repo.FindByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, appointmentserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Appointment", appointmentID)
		}
		if errors.Is(err, appointmentserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid appointment ID format")
		}
		log.Error("Failed to load appointment", "id", appointmentID, "error", err)
		return nil, apperrors.FromStore("Failed to update appointment", err)
	}

	if !owns(actor, current) {
		return nil, apperrors.NotFoundWithID("Appointment", appointmentID)
	}

	verb := "cancel"
	if target == config.StatusCompleted {
		verb = "complete"
	}
	if current.Status != config.StatusBooked {
		return nil, apperrors.InvalidState(fmt.Sprintf("Cannot %s an appointment that is %s", verb, current.Status))
	}

	updated, err := s.repo.TransitionFromBooked(ctx, appointmentID, target, note)
	if err != nil {
		if errors.Is(err, appointmentserrors.ErrNotBooked) {
			log.Warn("Concurrent transition lost", "id", appointmentID, "target", target)
			return nil, apperrors.InvalidState(fmt.Sprintf("Cannot %s an appointment that is no longer Booked", verb))
		}
		log.Error("Failed to update appointment status", "id", appointmentID, "target", target, "error", err)
		return nil, apperrors.FromStore("Failed to update appointment", err)
	}

	log.Info("Appointment status changed",
		"id", updated.ID,
		"status", updated.Status,
		"actor_role", actor.Role,
		"actor_id", actor.ID,
	)

	if target == config.StatusCancelled {
		result := s.reopenSlot(ctx, updated.ProfessorID, updated.Date, updated.Time)
		if result == Reopened {
			log.Info("Slot reopened", "professor_id", updated.ProfessorID, "date", updated.Date, "time", updated.Time)
		} else {
			log.Warn("Slot not reopened",
				"result", result.String(),
				"professor_id", updated.ProfessorID,
				"date", updated.Date,
				"time", updated.Time,
			)
		}
	}

	views := s.populate(ctx, []*model.Appointment{updated})
	view := &views[0]

	if actor.Role == config.RoleProfessor {
		s.notify(ctx, target, view)
	}
	return view, nil
}

func (s *appointmentService) notify(ctx context.Context, target string, view *model.AppointmentView) {
	eventType := model.EventAppointmentCancelled
	if target == config.StatusCompleted {
		eventType = model.EventAppointmentCompleted
	}

	var student, professor model.UserSummary
	if view.Student != nil {
		student = *view.Student
	} else {
		student.ID = view.StudentID
	}
	if view.Professor != nil {
		professor = *view.Professor
	}

	event := notifier.NewEvent(eventType, &view.Appointment, student, professor)
	if err := s.notifier.Notify(ctx, event); err != nil {
		s.cfg.Log.WithContext(ctx).Warn("Failed to notify student",
			"appointment_id", view.ID,
			"event_type", eventType,
			"error", err,
		)
	}
}

func (s *appointmentService) StudentBookings(ctx context.Context, studentID string) (*model.StudentBookingsResponse, error) {
	appointments, err := s.repo.Find(ctx, model.AppointmentFilter{StudentID: studentID}, 0, 0)
	if err != nil {
		s.cfg.Log.WithContext(ctx).Error("Failed to list student bookings", "student_id", studentID, "error", err)
		return nil, apperrors.FromStore("Failed to retrieve bookings", err)
	}
	if len(appointments) == 0 {
		return nil, apperrors.EmptyResult("No bookings found")
	}

	views := s.populate(ctx, appointments)
	return &model.StudentBookingsResponse{Count: len(views), Bookings: views}, nil
}

func (s *appointmentService) ProfessorAppointments(ctx context.Context, professorID string, filter model.AppointmentFilter, page int, limit int) ([]model.AppointmentView, int64, error) {
	filter.Date = strings.TrimSpace(filter.Date)
	filter.Status = strings.TrimSpace(filter.Status)
	if err := s.validator.ValidateStatus(filter.Status); err != nil {
		return nil, 0, validation.ToAppError("Invalid status filter", err)
	}
	if err := s.validator.ValidateDate(filter.Date); err != nil {
		return nil, 0, validation.ToAppError("Invalid date filter", err)
	}
	filter.ProfessorID = professorID
	filter.StudentID = ""

	page = config.NormalizePage(page)
	limit = config.NormalizePaginationLimit(limit)
	offset := config.Offset(page, limit)

	var count int64
	var appointments []*model.Appointment
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.Count(ctx, filter)
		if err != nil {
			s.cfg.Log.Error("Failed to count appointments", "professor_id", professorID, "error", err)
			errCount = apperrors.FromStore("Failed to count appointments", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		appointments, err = s.repo.Find(ctx, filter, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to list appointments",
				"professor_id", professorID,
				"page", page,
				"limit", limit,
				"error", err,
			)
			errFind = apperrors.FromStore("Failed to retrieve appointments", err)
		}
	}()
	wg.Wait()

	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	if len(appointments) == 0 {
		return nil, count, apperrors.EmptyResult("No appointments found")
	}

	return s.populate(ctx, appointments), count, nil
}

// populate attaches professor and student summaries. A directory failure is
// logged and the appointments are returned unpopulated.
func (s *appointmentService) populate(ctx context.Context, appointments []*model.Appointment) []model.AppointmentView {
	ids := make([]string, 0, len(appointments)*2)
	for _, a := range appointments {
		ids = append(ids, a.ProfessorID, a.StudentID)
	}

	summaries, err := s.directory.Summaries(ctx, ids)
	if err != nil {
		s.cfg.Log.WithContext(ctx).Warn("Failed to populate appointments", "count", len(appointments), "error", err)
	}

	views := make([]model.AppointmentView, 0, len(appointments))
	for _, a := range appointments {
		view := model.AppointmentView{Appointment: *a}
		if p, ok := summaries[a.ProfessorID]; ok {
			view.Professor = &p
		}
		if st, ok := summaries[a.StudentID]; ok {
			view.Student = &st
		}
		views = append(views, view)
	}
	return views
}

func owns(actor Actor, a *model.Appointment) bool {
	switch actor.Role {
	case config.RoleStudent:
		return a.StudentID == actor.ID
	case config.RoleProfessor:
		return a.ProfessorID == actor.ID
	default:
		return false
	}
}
