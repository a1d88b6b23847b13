package validators

import "go.mongodb.org/mongo-driver/bson"

var LoyaltyValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"points",
			"tier",
			"updated_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"points": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
			},

			"tier": bson.M{
				"bsonType": "string",
				"enum": []string{
					"Silver",
					"Gold",
					"Platinum",
				},
			},

			"updated_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
