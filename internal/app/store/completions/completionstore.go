// internal/app/store/completions/completionstore.go
package completionstore

import (
	"context"
	"time"

	"github.com/dalemusser/staffhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Completions are one row per (assignment, user). The unique index created by
// the schema layer makes MarkComplete idempotent.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("completions")}
}

// MarkComplete records that the user finished the assignment. Calling it
// again for the same pair is a no-op that keeps the original timestamp.
func (s *Store) MarkComplete(ctx context.Context, assignmentID, userID primitive.ObjectID) (models.Completion, error) {
	now := time.Now().UTC()
	filter := bson.M{"assignment_id": assignmentID, "user_id": userID}
	update := bson.M{
		"$setOnInsert": bson.M{
			"_id":           primitive.NewObjectID(),
			"assignment_id": assignmentID,
			"user_id":       userID,
			"completed_at":  now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var c models.Completion
	err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&c)
	if err != nil {
		return models.Completion{}, err
	}
	return c, nil
}

// IsComplete reports whether the user has completed the assignment.
func (s *Store) IsComplete(ctx context.Context, assignmentID, userID primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"assignment_id": assignmentID, "user_id": userID}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CompletedAssignmentIDs returns the set of assignment IDs the user has
// completed, for classifying their assignment list in one query.
func (s *Store) CompletedAssignmentIDs(ctx context.Context, userID primitive.ObjectID) (map[primitive.ObjectID]bool, error) {
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	done := make(map[primitive.ObjectID]bool)
	for cur.Next(ctx) {
		var c models.Completion
		if err := cur.Decode(&c); err != nil {
			return nil, err
		}
		done[c.AssignmentID] = true
	}
	return done, cur.Err()
}

// CountByAssignment returns how many users have completed the assignment.
func (s *Store) CountByAssignment(ctx context.Context, assignmentID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"assignment_id": assignmentID})
}

// DeleteByAssignment removes completion rows when an assignment is deleted.
func (s *Store) DeleteByAssignment(ctx context.Context, assignmentID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"assignment_id": assignmentID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
