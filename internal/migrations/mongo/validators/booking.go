package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"hotel_id",
			"user_id",
			"status",
			"price",
			"start_date",
			"end_date",
			"rooms",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"hotel_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"user_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"status": bson.M{
				"enum": []string{"reserved", "checkedIn", "completed"},
			},

			"price": bson.M{
				"bsonType": []string{"double", "int", "long"},
				"minimum":  0,
			},

			"start_date": bson.M{
				"bsonType": "date",
			},

			"end_date": bson.M{
				"bsonType": "date",
			},

			"rooms": bson.M{
				"bsonType": "array",
				"minItems": 1,
				"maxItems": 20,
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"room_type", "count"},
					"properties": bson.M{
						"room_type": bson.M{
							"bsonType":  "string",
							"minLength": 1,
							"maxLength": 100,
						},
						"count": bson.M{
							"bsonType": []string{"int", "long"},
							"minimum":  1,
						},
					},
				},
			},

			"coupon_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var BookingLockValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"_id", "owner", "expires_at"},
		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "string",
				"pattern":  "^booking_lock_",
			},
			"owner": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},
			"expires_at": bson.M{
				"bsonType": "date",
			},
			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var SettingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"name", "value"},
		"properties": bson.M{
			"name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},
			"value": bson.M{
				"bsonType": []string{"double", "int", "long"},
			},
		},
	},
}
