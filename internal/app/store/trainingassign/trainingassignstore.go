// internal/app/store/trainingassign/trainingassignstore.go
package trainingassignstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/staffhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var (
	errBadTarget    = errors.New("assignment has an invalid target")
	errBadRecurring = errors.New(`recurring must be "none"|"monthly"|"quarterly"`)
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("training_assignments")}
}

// Create inserts a new assignment. The target must already be validated by
// the caller; this re-checks the stored-form invariant (target_id is nil
// exactly when target_type is "all").
func (s *Store) Create(ctx context.Context, a models.TrainingAssignment) (models.TrainingAssignment, error) {
	if !models.IsValidTargetType(a.TargetType) {
		return models.TrainingAssignment{}, errBadTarget
	}
	if (a.TargetType == models.TargetAll) != (a.TargetID == nil) {
		return models.TrainingAssignment{}, errBadTarget
	}
	if a.Recurring == "" {
		a.Recurring = models.RecurringNone
	}
	if !models.IsValidRecurringType(a.Recurring) {
		return models.TrainingAssignment{}, errBadRecurring
	}

	now := time.Now().UTC()
	a.ID = primitive.NewObjectID()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = &now

	if _, err := s.c.InsertOne(ctx, a); err != nil {
		return models.TrainingAssignment{}, err
	}
	return a, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.TrainingAssignment, error) {
	var a models.TrainingAssignment
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return models.TrainingAssignment{}, err
	}
	return a, nil
}

// Update replaces an assignment's mutable fields and refreshes UpdatedAt.
func (s *Store) Update(ctx context.Context, a models.TrainingAssignment) (models.TrainingAssignment, error) {
	if a.ID.IsZero() {
		return models.TrainingAssignment{}, mongo.ErrNoDocuments
	}
	if (a.TargetType == models.TargetAll) != (a.TargetID == nil) {
		return models.TrainingAssignment{}, errBadTarget
	}

	now := time.Now().UTC()
	a.UpdatedAt = &now
	set := bson.M{
		"target_type":     a.TargetType,
		"target_id":       a.TargetID,
		"deadline":        a.Deadline,
		"recurring":       a.Recurring,
		"auto_enroll":     a.AutoEnroll,
		"reminder_sent":   a.ReminderSent,
		"instructions":    a.Instructions,
		"updated_at":      now,
		"updated_by_id":   a.UpdatedByID,
		"updated_by_name": a.UpdatedByName,
	}
	if _, err := s.c.UpdateByID(ctx, a.ID, bson.M{"$set": set}); err != nil {
		return models.TrainingAssignment{}, err
	}
	return a, nil
}

// Delete removes an assignment by ID.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// ListByTraining returns all assignments for the given training, newest first.
func (s *Store) ListByTraining(ctx context.Context, trainingID primitive.ObjectID) ([]models.TrainingAssignment, error) {
	return s.list(ctx, bson.M{"training_id": trainingID})
}

// ListForTargets returns assignments whose target matches any of the given
// scopes: chain-wide, the user directly, the user's department, or the
// user's property. This is the read side of "what is assigned to me".
func (s *Store) ListForTargets(ctx context.Context, userID primitive.ObjectID, departmentID, propertyID *primitive.ObjectID) ([]models.TrainingAssignment, error) {
	or := []bson.M{
		{"target_type": models.TargetAll},
		{"target_type": models.TargetUsers, "target_id": userID},
	}
	if departmentID != nil {
		or = append(or, bson.M{"target_type": models.TargetDepartments, "target_id": departmentID})
	}
	if propertyID != nil {
		or = append(or, bson.M{"target_type": models.TargetProperties, "target_id": propertyID})
	}
	return s.list(ctx, bson.M{"$or": or})
}

// ListAutoEnrollFor returns auto-enroll assignments that cover a user in the
// given property/department: chain-wide rows plus rows targeting either
// scope. Used when a new employee joins the roster.
func (s *Store) ListAutoEnrollFor(ctx context.Context, propertyID, departmentID *primitive.ObjectID) ([]models.TrainingAssignment, error) {
	or := []bson.M{
		{"target_type": models.TargetAll},
	}
	if propertyID != nil {
		or = append(or, bson.M{"target_type": models.TargetProperties, "target_id": propertyID})
	}
	if departmentID != nil {
		or = append(or, bson.M{"target_type": models.TargetDepartments, "target_id": departmentID})
	}
	return s.list(ctx, bson.M{"auto_enroll": true, "$or": or})
}

// ListRecurring returns assignments with a recurrence other than "none".
func (s *Store) ListRecurring(ctx context.Context) ([]models.TrainingAssignment, error) {
	return s.list(ctx, bson.M{"recurring": bson.M{"$ne": models.RecurringNone}})
}

// ListOverdueUnreminded returns assignments whose deadline has passed and for
// which no reminder has been sent yet.
func (s *Store) ListOverdueUnreminded(ctx context.Context, now time.Time) ([]models.TrainingAssignment, error) {
	return s.list(ctx, bson.M{
		"deadline":      bson.M{"$ne": nil, "$lt": now},
		"reminder_sent": false,
	})
}

// MarkReminderSent flags an assignment so the reminder job does not fire twice.
func (s *Store) MarkReminderSent(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"reminder_sent": true,
		"updated_at":    time.Now().UTC(),
	}})
	return err
}

// DeleteByTraining removes all assignments for a training (used when the
// training itself is deleted). Returns the number removed.
func (s *Store) DeleteByTraining(ctx context.Context, trainingID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"training_id": trainingID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// CountByTraining returns the number of assignments for a training.
func (s *Store) CountByTraining(ctx context.Context, trainingID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"training_id": trainingID})
}

// ListAll returns every assignment, newest first.
func (s *Store) ListAll(ctx context.Context) ([]models.TrainingAssignment, error) {
	return s.list(ctx, bson.M{})
}

func (s *Store) list(ctx context.Context, filter bson.M) ([]models.TrainingAssignment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var assignments []models.TrainingAssignment
	if err := cur.All(ctx, &assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}
