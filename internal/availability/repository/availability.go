package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	availabilityerrors "github.com/shamian84/college-appointment-system/internal/availability/errors"
	"github.com/shamian84/college-appointment-system/pkg/config"
	mongotx "github.com/shamian84/college-appointment-system/pkg/db/mongo"
	"github.com/shamian84/college-appointment-system/pkg/model"
)

const (
	CollectionName = "Availabilities"
)

type AvailabilityRepository interface {
	Create(ctx context.Context, availability *model.Availability) error
	Find(ctx context.Context, filter model.AvailabilityFilter) ([]*model.Availability, error)
	FindAll(ctx context.Context, date string, limit int, offset int64) ([]*model.Availability, error)
	Count(ctx context.Context, date string) (int64, error)
	FindByProfessorAndDate(ctx context.Context, professorID string, date string) (*model.Availability, error)

	// ClaimSlot flips a free slot labelled label to booked in a single conditional update.
	ClaimSlot(ctx context.Context, id string, label string) error
	// ReleaseSlot flips a booked slot labelled label back to free.
	ReleaseSlot(ctx context.Context, id string, label string) error
}

type mongoAvailabilityRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoAvailabilityRepository(cfg *config.Config) AvailabilityRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAvailabilityRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoAvailabilityRepository) Create(ctx context.Context, availability *model.Availability) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	availability.CreatedAt = now
	availability.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, availability)
	if err != nil {
		if mongotx.IsDuplicateKey(err) {
			return fmt.Errorf("%w: %s on %s", availabilityerrors.ErrDuplicate, availability.ProfessorID, availability.Date)
		}
		return fmt.Errorf("failed to create availability: %w", err)
	}

	availability.ID = mongotx.InsertedHex(result)
	return nil
}

func (r *mongoAvailabilityRepository) Find(ctx context.Context, filter model.AvailabilityFilter) ([]*model.Availability, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	return r.find(ctx, filterDoc(filter), opts)
}

func (r *mongoAvailabilityRepository) FindAll(ctx context.Context, date string, limit int, offset int64) ([]*model.Availability, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "date", Value: 1}, {Key: "professor_id", Value: 1}})

	return r.find(ctx, filterDoc(model.AvailabilityFilter{Date: date}), opts)
}

func (r *mongoAvailabilityRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*model.Availability, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query availabilities: %w", err)
	}
	defer cursor.Close(ctx)

	var out []*model.Availability
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode availabilities: %w", err)
	}
	return out, nil
}

func (r *mongoAvailabilityRepository) Count(ctx context.Context, date string) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, filterDoc(model.AvailabilityFilter{Date: date}))
	if err != nil {
		return 0, fmt.Errorf("failed to count availabilities: %w", err)
	}
	return count, nil
}

func (r *mongoAvailabilityRepository) FindByProfessorAndDate(ctx context.Context, professorID string, date string) (*model.Availability, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var availability model.Availability
	err := r.collection.FindOne(ctx, bson.M{"professor_id": professorID, "date": date}).Decode(&availability)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s on %s", availabilityerrors.ErrNotFound, professorID, date)
		}
		return nil, fmt.Errorf("failed to find availability: %w", err)
	}
	return &availability, nil
}

func (r *mongoAvailabilityRepository) ClaimSlot(ctx context.Context, id string, label string) error {
	return r.setSlot(ctx, id, label, false, true, availabilityerrors.ErrSlotUnavailable)
}

func (r *mongoAvailabilityRepository) ReleaseSlot(ctx context.Context, id string, label string) error {
	return r.setSlot(ctx, id, label, true, false, availabilityerrors.ErrSlotNotBooked)
}

// setSlot moves the slot labelled label from one booked state to the other.
// The $elemMatch filter makes the check and the write a single atomic step.
func (r *mongoAvailabilityRepository) setSlot(ctx context.Context, id string, label string, from bool, to bool, noMatch error) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := mongotx.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", availabilityerrors.ErrInvalidID, id)
	}

	filter := bson.M{
		"_id": objectID,
		"time_slots": bson.M{"$elemMatch": bson.M{
			"time":      label,
			"is_booked": from,
		}},
	}
	update := bson.M{"$set": bson.M{
		"time_slots.$.is_booked": to,
		"updated_at":             time.Now().UTC(),
	}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update slot: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %q", noMatch, label)
	}
	return nil
}

func filterDoc(f model.AvailabilityFilter) bson.M {
	filter := bson.M{}
	if f.ProfessorID != "" {
		filter["professor_id"] = f.ProfessorID
	}
	if f.Date != "" {
		filter["date"] = f.Date
	}
	return filter
}
