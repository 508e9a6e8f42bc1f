package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	appointmentsrepository "github.com/shamian84/college-appointment-system/internal/appointments/repository"
	availabilityrepository "github.com/shamian84/college-appointment-system/internal/availability/repository"
	"github.com/shamian84/college-appointment-system/internal/migrations/mongo/validators"
	usersrepository "github.com/shamian84/college-appointment-system/internal/users/repository"
	"github.com/shamian84/college-appointment-system/pkg/config"
	"github.com/shamian84/college-appointment-system/pkg/logger"
)

var (
	UsersIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_email"),
		},
		{Keys: bson.D{{Key: "role", Value: 1}, {Key: "name", Value: 1}}},
		{Keys: bson.D{{Key: "refresh_token_hash", Value: 1}}},
	}

	// One availability document per professor per date.
	AvailabilitiesIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "professor_id", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_professor_date"),
		},
		{Keys: bson.D{{Key: "date", Value: 1}}},
	}

	// The partial unique index rejects a second live booking of the same slot by the same student.
	AppointmentsIndexes = []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "student_id", Value: 1},
				{Key: "professor_id", Value: 1},
				{Key: "date", Value: 1},
				{Key: "time", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetName("uniq_booked_slot").
				SetPartialFilterExpression(bson.M{"status": config.StatusBooked}),
		},
		{Keys: bson.D{{Key: "professor_id", Value: 1}, {Key: "date", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "student_id", Value: 1}, {Key: "date", Value: 1}}},
	}
)

type CollectionDef struct {
	Name      string
	Indexes   []mongo.IndexModel
	Validator bson.M
}

func Collections() []CollectionDef {
	return []CollectionDef{
		{Name: usersrepository.CollectionName, Indexes: UsersIndexes, Validator: validators.UserValidator},
		{Name: availabilityrepository.CollectionName, Indexes: AvailabilitiesIndexes, Validator: validators.AvailabilityValidator},
		{Name: appointmentsrepository.CollectionName, Indexes: AppointmentsIndexes, Validator: validators.AppointmentValidator},
	}
}

// RunMigration creates or updates every collection's validator and ensures its indexes.
// Re-running it is safe.
func RunMigration(ctx context.Context, db *mongo.Database, log *logger.Logger) error {
	log.Info("Running Mongo migrations", "database", db.Name())

	for _, def := range Collections() {
		if err := ensureCollection(ctx, db, def.Name, def.Validator, log); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", def.Name, err)
		}
		if err := ensureIndexes(ctx, db, def.Name, def.Indexes); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", def.Name, err)
		}
		log.Info("Collection migrated", "collection", def.Name, "indexes", len(def.Indexes))
	}

	log.Info("All migrations applied successfully")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M, log *logger.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		log.Info("Creating collection", "collection", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		log.Warn("Failed updating validator", "collection", name, "error", err)
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel) error {
	_, err := db.Collection(name).Indexes().CreateMany(ctx, models)
	return err
}
