package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	userserrors "github.com/shamian84/college-appointment-system/internal/users/errors"
	"github.com/shamian84/college-appointment-system/pkg/config"
	mongotx "github.com/shamian84/college-appointment-system/pkg/db/mongo"
	"github.com/shamian84/college-appointment-system/pkg/model"
)

const (
	CollectionName = "Users"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByRefreshTokenHash(ctx context.Context, hash string) (*model.User, error)
	SetRefreshToken(ctx context.Context, id string, hash string, expiresAt time.Time) error
	FindSummaries(ctx context.Context, ids []string) (map[string]model.UserSummary, error)
	FindByRole(ctx context.Context, role string, limit int, offset int64) ([]*model.User, error)
	CountByRole(ctx context.Context, role string) (int64, error)
}

type mongoUserRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoUserRepository(cfg *config.Config) UserRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoUserRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoUserRepository) Create(ctx context.Context, user *model.User) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	user.CreatedAt = now
	user.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if mongotx.IsDuplicateKey(err) {
			return fmt.Errorf("%w: %s", userserrors.ErrDuplicateEmail, user.Email)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	user.ID = mongotx.InsertedHex(result)
	return nil
}

func (r *mongoUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	objectID, err := mongotx.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", userserrors.ErrInvalidID, id)
	}
	return r.findOne(ctx, bson.M{"_id": objectID}, id)
}

func (r *mongoUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": email}, email)
}

func (r *mongoUserRepository) FindByRefreshTokenHash(ctx context.Context, hash string) (*model.User, error) {
	if hash == "" {
		return nil, userserrors.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"refresh_token_hash": hash}, "refresh token")
}

func (r *mongoUserRepository) findOne(ctx context.Context, filter bson.M, ref string) (*model.User, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var user model.User
	if err := r.collection.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", userserrors.ErrNotFound, ref)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// SetRefreshToken replaces the stored refresh token, invalidating the previous one.
func (r *mongoUserRepository) SetRefreshToken(ctx context.Context, id string, hash string, expiresAt time.Time) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := mongotx.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", userserrors.ErrInvalidID, id)
	}

	update := bson.M{"$set": bson.M{
		"refresh_token_hash":       hash,
		"refresh_token_expires_at": expiresAt.UTC(),
		"updated_at":               time.Now().UTC(),
	}}

	result, err := r.collection.UpdateByID(ctx, objectID, update)
	if err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", userserrors.ErrNotFound, id)
	}
	return nil
}

// FindSummaries resolves ids to public summaries. Unknown or malformed ids are skipped.
func (r *mongoUserRepository) FindSummaries(ctx context.Context, ids []string) (map[string]model.UserSummary, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	out := make(map[string]model.UserSummary, len(ids))
	objectIDs := make([]primitive.ObjectID, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			objectIDs = append(objectIDs, oid)
		}
	}
	if len(objectIDs) == 0 {
		return out, nil
	}

	opts := options.Find().SetProjection(bson.M{"name": 1, "email": 1, "role": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": objectIDs}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer cursor.Close(ctx)

	var summaries []model.UserSummary
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	for _, s := range summaries {
		out[s.ID] = s
	}
	return out, nil
}

func (r *mongoUserRepository) FindByRole(ctx context.Context, role string, limit int, offset int64) ([]*model.User, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"role": role}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []*model.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

func (r *mongoUserRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"role": role})
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
