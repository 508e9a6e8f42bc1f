package mongo

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrInvalidObjectID = errors.New("invalid object id")

func ObjectIDFromHex(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %s", ErrInvalidObjectID, id)
	}
	return oid, nil
}

func IsValidObjectID(id string) bool {
	return primitive.IsValidObjectID(id)
}

// InsertedHex returns the hex form of a generated _id, or "" for non-ObjectID keys.
func InsertedHex(result *mongo.InsertOneResult) string {
	if result == nil {
		return ""
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return ""
}

func IsDuplicateKey(err error) bool {
	return err != nil && mongo.IsDuplicateKeyError(err)
}
