package validators

import "go.mongodb.org/mongo-driver/bson"

var AvailabilityValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"professor_id",
			"date",
			"time_slots",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"professor_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"date": bson.M{
				"bsonType": "string",
				"pattern":  `^\d{4}-\d{2}-\d{2}$`,
			},

			"time_slots": bson.M{
				"bsonType": "array",
				"minItems": 1,
				"maxItems": 96,
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"time", "is_booked"},
					"properties": bson.M{
						"time": bson.M{
							"bsonType":  "string",
							"minLength": 1,
							"maxLength": 50,
						},
						"is_booked": bson.M{
							"bsonType": "bool",
						},
					},
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			"updated_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
