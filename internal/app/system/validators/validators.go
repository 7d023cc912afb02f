// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/staffhub/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates collections (if missing) and tries to attach JSON-Schema
// validators. On servers that don't support collMod/validators (e.g. some
// DocumentDB versions), we log and skip gracefully.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	// helper: ensure collection exists (with truthful logging) and then validator (if provided)
	ensure := func(coll string, schema bson.M) {
		if _, err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			// DocumentDB or other deployments may not support collMod/validators.
			if isNoSuchCommand(err) || isNotImplemented(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	// Core collections this app uses
	ensure("users", usersSchema())
	ensure("properties", propertiesSchema())
	ensure("departments", departmentsSchema())
	ensure("trainings", trainingsSchema())
	ensure("documents", documentsSchema())

	// Assignment and tracking collections
	ensure("training_assignments", trainingAssignmentsSchema())
	ensure("completions", completionsSchema())
	ensure("notification_outbox", outboxSchema())

	// These don't strictly need validators; we still ensure the collections exist.
	ensure("notifications", nil)
	ensure("audit_events", nil)

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers & logging ---------------------- */

// collectionExists returns true when <name> already exists.
// Uses ListCollectionNames to avoid "created collection" log when it didn't.
func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// ensureCollection idempotently makes sure <name> exists.
// Returns created==true only if we actually created it.
func ensureCollection(ctx context.Context, db *mongo.Database, name string) (created bool, err error) {
	exists, listErr := collectionExists(ctx, db, name)
	if listErr == nil && exists {
		zap.L().Info("collection exists", zap.String("collection", name))
		return false, nil
	}
	// If listing failed, fall back to create-and-handle-race.
	if err := db.CreateCollection(ctx, name); err != nil {
		// NamespaceExists / already exists is fine (race or prior run).
		if isNamespaceExistsErr(err) {
			zap.L().Info("collection exists", zap.String("collection", name))
			return false, nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return false, err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return true, nil
}

/* ------------------------------ validators ------------------------------- */

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	var out bson.M
	if err := db.RunCommand(ctx, cmd).Decode(&out); err != nil {
		return err
	}
	zap.L().Info("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func isNamespaceExistsErr(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 48 || strings.Contains(strings.ToLower(ce.Message), "already exists")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "already exists") || strings.Contains(s, "namespace exists")
}

func isNoSuchCommand(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 59 || strings.Contains(strings.ToLower(ce.Message), "no such command")) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no such command")
}

func isNotImplemented(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 115 ||
		strings.Contains(strings.ToLower(ce.Message), "not implemented") ||
		strings.Contains(strings.ToLower(ce.Message), "not supported")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "not implemented") || strings.Contains(s, "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

func usersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"full_name", "email", "role", "status"},
			"properties": bson.M{
				"full_name":     bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},
				"full_name_ci":  bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},
				"email":         bson.M{"bsonType": "string", "minLength": 3},
				"role":          bson.M{"enum": bson.A{"admin", "reviewer", "employee"}},
				"status":        bson.M{"enum": bson.A{"active", "disabled"}},
				"property_id":   bson.M{"bsonType": bson.A{"objectId", "null"}},
				"department_id": bson.M{"bsonType": bson.A{"objectId", "null"}},
				"password_hash": bson.M{"bsonType": "string"},
			},
		},
	}
}

func propertiesSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"name", "name_ci", "status"},
			"properties": bson.M{
				"name":      bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},
				"name_ci":   bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},
				"status":    bson.M{"enum": bson.A{"active", "disabled"}},
				"time_zone": bson.M{"bsonType": "string"},
			},
		},
	}
}

func departmentsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"name", "name_ci", "status"},
			"properties": bson.M{
				"name":        bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},
				"name_ci":     bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},
				"status":      bson.M{"enum": bson.A{"active", "disabled"}},
				"description": bson.M{"bsonType": "string"},
			},
		},
	}
}

func trainingsSchema() bson.M {
	// Build the type enum from the canonical list in the domain models.
	typeEnum := bson.A{}
	for _, t := range models.TrainingTypes {
		typeEnum = append(typeEnum, t)
	}

	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"title", "title_ci", "status", "type"},
			"properties": bson.M{
				"title":    bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},
				"title_ci": bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},

				"subject":    bson.M{"bsonType": "string"},
				"subject_ci": bson.M{"bsonType": "string"},

				"status": bson.M{"enum": bson.A{"active", "disabled"}},

				"type": bson.M{
					"bsonType": "string",
					"enum":     typeEnum,
				},

				"launch_url":           bson.M{"bsonType": "string"},
				"description":          bson.M{"bsonType": "string"},
				"default_instructions": bson.M{"bsonType": "string"},
			},
		},
	}
}

func trainingAssignmentsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"training_id", "target_type", "recurring", "created_at"},
			"properties": bson.M{
				"training_id": bson.M{"bsonType": "objectId"},
				"target_type": bson.M{"enum": bson.A{"all", "users", "departments", "properties"}},
				"target_id":   bson.M{"bsonType": bson.A{"objectId", "null"}},
				"deadline":    bson.M{"bsonType": bson.A{"date", "null"}},
				"recurring":   bson.M{"enum": bson.A{"none", "monthly", "quarterly"}},

				"auto_enroll":   bson.M{"bsonType": "bool"},
				"reminder_sent": bson.M{"bsonType": "bool"},
				"instructions":  bson.M{"bsonType": "string"},

				"created_at":      bson.M{"bsonType": "date"},
				"updated_at":      bson.M{"bsonType": "date"},
				"created_by_id":   bson.M{"bsonType": "objectId"},
				"created_by_name": bson.M{"bsonType": "string"},
				"updated_by_id":   bson.M{"bsonType": "objectId"},
				"updated_by_name": bson.M{"bsonType": "string"},
			},
		},
	}
}

func completionsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"assignment_id", "user_id", "completed_at"},
			"properties": bson.M{
				"assignment_id": bson.M{"bsonType": "objectId"},
				"user_id":       bson.M{"bsonType": "objectId"},
				"completed_at":  bson.M{"bsonType": "date"},
			},
		},
	}
}

func documentsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"title", "title_ci", "visibility", "status"},
			"properties": bson.M{
				"title":    bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},
				"title_ci": bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},

				"visibility": bson.M{"enum": bson.A{"all_properties", "property", "department", "role"}},
				// Legacy statuses remain readable; writes go through the
				// stores which normalize first.
				"status": bson.M{"enum": bson.A{
					"draft", "pending_review", "published", "rejected",
					"under_review", "approved",
				}},

				"property_id":   bson.M{"bsonType": bson.A{"objectId", "null"}},
				"department_id": bson.M{"bsonType": bson.A{"objectId", "null"}},
				"role_scope":    bson.M{"bsonType": "string"},

				"summary":     bson.M{"bsonType": "string"},
				"content":     bson.M{"bsonType": "string"},
				"category":    bson.M{"bsonType": "string"},
				"review_note": bson.M{"bsonType": "string"},
			},
		},
	}
}

func outboxSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"batch_key", "recipient_ids", "notification_type", "status", "created_at"},
			"properties": bson.M{
				"batch_key":         bson.M{"bsonType": "string", "minLength": 1},
				"recipient_ids":     bson.M{"bsonType": "array", "items": bson.M{"bsonType": "objectId"}},
				"notification_type": bson.M{"bsonType": "string", "minLength": 1},
				"status":            bson.M{"enum": bson.A{"pending", "delivered"}},
				"attempts":          bson.M{"bsonType": "int"},
				"last_error":        bson.M{"bsonType": "string"},
				"created_at":        bson.M{"bsonType": "date"},
				"delivered_at":      bson.M{"bsonType": bson.A{"date", "null"}},
			},
		},
	}
}
