package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	appointmentserrors "github.com/shamian84/college-appointment-system/internal/appointments/errors"
	"github.com/shamian84/college-appointment-system/pkg/config"
	mongotx "github.com/shamian84/college-appointment-system/pkg/db/mongo"
	"github.com/shamian84/college-appointment-system/pkg/model"
)

const (
	CollectionName = "Appointments"
)

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *model.Appointment) error
	FindByID(ctx context.Context, id string) (*model.Appointment, error)
	FindBooked(ctx context.Context, studentID, professorID, date, slot string) (*model.Appointment, error)

	// TransitionFromBooked moves a Booked appointment to status and returns the updated document.
	TransitionFromBooked(ctx context.Context, id string, status string, note string) (*model.Appointment, error)

	// Find lists matching appointments by date then time. A zero limit returns every match.
	Find(ctx context.Context, filter model.AppointmentFilter, limit int, offset int64) ([]*model.Appointment, error)
	Count(ctx context.Context, filter model.AppointmentFilter) (int64, error)
}

type mongoAppointmentRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoAppointmentRepository(cfg *config.Config) AppointmentRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAppointmentRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoAppointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	appointment.CreatedAt = now
	appointment.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, appointment)
	if err != nil {
		if mongotx.IsDuplicateKey(err) {
			return fmt.Errorf("%w: %s %s", appointmentserrors.ErrDuplicateBooking, appointment.Date, appointment.Time)
		}
		return fmt.Errorf("failed to create appointment: %w", err)
	}

	appointment.ID = mongotx.InsertedHex(result)
	return nil
}

func (r *mongoAppointmentRepository) FindByID(ctx context.Context, id string) (*model.Appointment, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := mongotx.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", appointmentserrors.ErrInvalidID, id)
	}

	var appointment model.Appointment
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&appointment); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", appointmentserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find appointment: %w", err)
	}
	return &appointment, nil
}

func (r *mongoAppointmentRepository) FindBooked(ctx context.Context, studentID, professorID, date, slot string) (*model.Appointment, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"student_id":   studentID,
		"professor_id": professorID,
		"date":         date,
		"time":         slot,
		"status":       config.StatusBooked,
	}

	var appointment model.Appointment
	if err := r.collection.FindOne(ctx, filter).Decode(&appointment); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, appointmentserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booked appointment: %w", err)
	}
	return &appointment, nil
}

func (r *mongoAppointmentRepository) TransitionFromBooked(ctx context.Context, id string, status string, note string) (*model.Appointment, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := mongotx.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", appointmentserrors.ErrInvalidID, id)
	}

	set := bson.M{
		"status":     status,
		"updated_at": time.Now().UTC(),
	}
	if note != "" {
		set["cancellation_note"] = note
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var appointment model.Appointment
	err = r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": objectID, "status": config.StatusBooked},
		bson.M{"$set": set},
		opts,
	).Decode(&appointment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", appointmentserrors.ErrNotBooked, id)
		}
		return nil, fmt.Errorf("failed to update appointment status: %w", err)
	}
	return &appointment, nil
}

func (r *mongoAppointmentRepository) Find(ctx context.Context, filter model.AppointmentFilter, limit int, offset int64) ([]*model.Appointment, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{
		{Key: "date", Value: 1},
		{Key: "time", Value: 1},
		{Key: "_id", Value: 1},
	})
	if limit > 0 {
		opts.SetLimit(int64(limit)).SetSkip(offset)
	}

	cursor, err := r.collection.Find(ctx, filterDoc(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query appointments: %w", err)
	}
	defer cursor.Close(ctx)

	var out []*model.Appointment
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode appointments: %w", err)
	}
	return out, nil
}

func (r *mongoAppointmentRepository) Count(ctx context.Context, filter model.AppointmentFilter) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, filterDoc(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count appointments: %w", err)
	}
	return count, nil
}

func filterDoc(f model.AppointmentFilter) bson.M {
	filter := bson.M{}
	if f.StudentID != "" {
		filter["student_id"] = f.StudentID
	}
	if f.ProfessorID != "" {
		filter["professor_id"] = f.ProfessorID
	}
	if f.Date != "" {
		filter["date"] = f.Date
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	return filter
}
