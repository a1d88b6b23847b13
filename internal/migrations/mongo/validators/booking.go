package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"service_ids",
			"customer_id",
			"provider_id",
			"scheduled_at",
			"subtotal",
			"platform_fee",
			"home_service_fee",
			"total_amount",
			"status",
			"people_count",
			"group_details",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType":  "string",
				"minLength": 36,
				"maxLength": 36,
			},

			"service_ids": bson.M{
				"bsonType": "array",
				"minItems": 1,
				"items": bson.M{
					"bsonType":  "string",
					"minLength": 24,
					"maxLength": 24,
				},
			},

			"customer_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"provider_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"scheduled_at": bson.M{
				"bsonType": "date",
			},

			"subtotal": bson.M{
				"bsonType": []string{"double", "int", "long", "decimal"},
				"minimum":  0,
			},

			"platform_fee": bson.M{
				"bsonType": []string{"double", "int", "long", "decimal"},
				"minimum":  0,
			},

			"home_service_fee": bson.M{
				"bsonType": []string{"double", "int", "long", "decimal"},
				"minimum":  0,
			},

			"total_amount": bson.M{
				"bsonType": []string{"double", "int", "long", "decimal"},
				"minimum":  0,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"upcoming",
					"completed",
					"cancelled",
				},
			},

			"people_count": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  20,
			},

			"rescheduled": bson.M{
				"bsonType": "bool",
			},

			"is_home_service": bson.M{
				"bsonType": "bool",
			},

			"group_details": bson.M{
				"bsonType": "array",
				"minItems": 1,
				"maxItems": 20,
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"label", "service_ids"},
					"properties": bson.M{
						"label": bson.M{
							"bsonType":  "string",
							"minLength": 1,
							"maxLength": 50,
						},
						"service_ids": bson.M{
							"bsonType": "array",
							"minItems": 1,
						},
					},
				},
			},

			"review_id": bson.M{
				"bsonType":  "string",
				"minLength": 36,
				"maxLength": 36,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
