// internal/app/store/trainings/trainingstore.go
package trainingstore

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/dalemusser/staffhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var (
	// ErrDuplicateTitle is returned when a training with the same folded title already exists.
	ErrDuplicateTitle = errors.New("a training with this title already exists")
	errBadType        = errors.New(`type must be "course"|"video"|"document"|"acknowledgment"`)
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("trainings")}
}

// Create inserts a new training after normalizing and validating fields.
func (s *Store) Create(ctx context.Context, t models.Training) (models.Training, error) {
	now := time.Now().UTC()
	t.ID = primitive.NewObjectID()
	t.TitleCI = text.Fold(t.Title)
	t.SubjectCI = text.Fold(t.Subject)
	if t.Type == "" {
		t.Type = models.DefaultTrainingType
	}
	if !models.IsValidTrainingType(t.Type) {
		return models.Training{}, errBadType
	}
	if t.Status == "" {
		t.Status = "active"
	}
	t.CreatedAt = now
	t.UpdatedAt = &now

	if _, err := s.c.InsertOne(ctx, t); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Training{}, ErrDuplicateTitle
		}
		return models.Training{}, err
	}
	return t, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Training, error) {
	var t models.Training
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		return models.Training{}, err
	}
	return t, nil
}

// GetByIDs loads multiple trainings by their ObjectIDs.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Training, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var trainings []models.Training
	if err := cur.All(ctx, &trainings); err != nil {
		return nil, err
	}
	return trainings, nil
}

// Update holds the editable fields of a training.
type Update struct {
	Title               string
	Subject             string
	Type                string
	Status              string
	LaunchURL           string
	Description         string
	DefaultInstructions string
	UpdatedByID         *primitive.ObjectID
	UpdatedByName       string
}

// Update modifies a training and refreshes UpdatedAt.
// Returns ErrDuplicateTitle when the new title collides with another training.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) error {
	if upd.Type != "" && !models.IsValidTrainingType(upd.Type) {
		return errBadType
	}

	set := bson.M{
		"title":                upd.Title,
		"title_ci":             text.Fold(upd.Title),
		"subject":              upd.Subject,
		"subject_ci":           text.Fold(upd.Subject),
		"launch_url":           upd.LaunchURL,
		"description":          upd.Description,
		"default_instructions": upd.DefaultInstructions,
		"updated_at":           time.Now().UTC(),
		"updated_by_id":        upd.UpdatedByID,
		"updated_by_name":      upd.UpdatedByName,
	}
	if upd.Type != "" {
		set["type"] = upd.Type
	}
	if upd.Status != "" {
		set["status"] = upd.Status
	}

	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateTitle
		}
		return err
	}
	return nil
}

// Delete removes a training by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// TitleExistsForOther checks if a training with the given folded title
// exists, excluding the specified ID.
func (s *Store) TitleExistsForOther(ctx context.Context, titleCI string, excludeID primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{
		"title_ci": titleCI,
		"_id":      bson.M{"$ne": excludeID},
	}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListFilter narrows List results.
type ListFilter struct {
	Type   string
	Status string
	Search string // folded title prefix
}

func (f ListFilter) query() bson.M {
	q := bson.M{}
	if f.Type != "" {
		q["type"] = f.Type
	}
	if f.Status != "" {
		q["status"] = f.Status
	}
	if f.Search != "" {
		q["title_ci"] = bson.M{"$regex": "^" + regexp.QuoteMeta(text.Fold(f.Search))}
	}
	return q
}

// List returns trainings matching the filter, sorted by folded title.
func (s *Store) List(ctx context.Context, filter ListFilter) ([]models.Training, error) {
	opts := options.Find().SetSort(bson.D{{Key: "title_ci", Value: 1}})
	cur, err := s.c.Find(ctx, filter.query(), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var trainings []models.Training
	if err := cur.All(ctx, &trainings); err != nil {
		return nil, err
	}
	return trainings, nil
}

// Count returns the number of trainings matching the filter.
func (s *Store) Count(ctx context.Context, filter ListFilter) (int64, error) {
	return s.c.CountDocuments(ctx, filter.query())
}

// Find returns trainings matching the given filter with optional find options.
func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Training, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var trainings []models.Training
	if err := cur.All(ctx, &trainings); err != nil {
		return nil, err
	}
	return trainings, nil
}

// CountDocs returns the number of trainings matching the given raw filter.
func (s *Store) CountDocs(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}
