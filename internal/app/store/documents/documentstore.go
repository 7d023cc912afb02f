// internal/app/store/documents/documentstore.go
package documentstore

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/dalemusser/staffhub/internal/app/system/htmlsanitize"
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
	// ErrDuplicateTitle is returned when a document with the same folded title already exists.
	ErrDuplicateTitle = errors.New("a document with this title already exists")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("documents")}
}

// Create inserts a new document. Content is sanitized before storage and the
// status defaults to draft.
func (s *Store) Create(ctx context.Context, d models.Document) (models.Document, error) {
	now := time.Now().UTC()
	d.ID = primitive.NewObjectID()
	d.TitleCI = text.Fold(d.Title)
	d.Content = htmlsanitize.Sanitize(d.Content)
	if d.Status == "" {
		d.Status = models.DocStatusDraft
	}
	d.Status = models.NormalizeDocumentStatus(d.Status)
	d.CreatedAt = now
	d.UpdatedAt = &now

	if _, err := s.c.InsertOne(ctx, d); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Document{}, ErrDuplicateTitle
		}
		return models.Document{}, err
	}
	return d, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Document, error) {
	var d models.Document
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		return models.Document{}, err
	}
	// Legacy rows may still carry pre-rename statuses.
	d.Status = models.NormalizeDocumentStatus(d.Status)
	return d, nil
}

// Update replaces a document's editable fields and refreshes UpdatedAt.
// Scope fields are written unconditionally so clearing them persists.
func (s *Store) Update(ctx context.Context, d models.Document) error {
	if d.ID.IsZero() {
		return mongo.ErrNoDocuments
	}
	set := bson.M{
		"title":           d.Title,
		"title_ci":        text.Fold(d.Title),
		"summary":         d.Summary,
		"content":         htmlsanitize.Sanitize(d.Content),
		"category":        d.Category,
		"visibility":      d.Visibility,
		"property_id":     d.PropertyID,
		"department_id":   d.DepartmentID,
		"role_scope":      d.RoleScope,
		"updated_at":      time.Now().UTC(),
		"updated_by_id":   d.UpdatedByID,
		"updated_by_name": d.UpdatedByName,
	}
	_, err := s.c.UpdateByID(ctx, d.ID, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateTitle
		}
		return err
	}
	return nil
}

// SetStatus moves a document through the review lifecycle. Callers are
// expected to gate the transition with docpolicy.CanTransition first.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status models.DocumentStatus, reviewerID *primitive.ObjectID, reviewerName, reviewNote string) error {
	now := time.Now().UTC()
	set := bson.M{
		"status":     status,
		"updated_at": now,
	}
	switch status {
	case models.DocStatusPendingReview:
		set["submitted_at"] = now
		set["review_note"] = ""
	case models.DocStatusPublished, models.DocStatusRejected:
		set["reviewed_at"] = now
		set["reviewed_by_id"] = reviewerID
		set["reviewed_by_name"] = reviewerName
		set["review_note"] = reviewNote
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}

// Delete removes a document by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// TitleExistsForOther checks if a document with the given folded title
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
	Status   models.DocumentStatus
	Category string
	Search   string // folded title prefix
}

func (f ListFilter) query() bson.M {
	q := bson.M{}
	if f.Status != "" {
		q["status"] = f.Status
	}
	if f.Category != "" {
		q["category"] = f.Category
	}
	if f.Search != "" {
		q["title_ci"] = bson.M{"$regex": "^" + regexp.QuoteMeta(text.Fold(f.Search))}
	}
	return q
}

// List returns documents matching the filter, sorted by folded title.
func (s *Store) List(ctx context.Context, filter ListFilter) ([]models.Document, error) {
	opts := options.Find().SetSort(bson.D{{Key: "title_ci", Value: 1}})
	return s.find(ctx, filter.query(), opts)
}

// ListPendingReview returns documents waiting for review, oldest submission
// first so reviewers work the queue in order.
func (s *Store) ListPendingReview(ctx context.Context) ([]models.Document, error) {
	opts := options.Find().SetSort(bson.D{{Key: "submitted_at", Value: 1}})
	return s.find(ctx, bson.M{"status": models.DocStatusPendingReview}, opts)
}

// ListPublishedVisibleTo returns published documents the given user may see,
// sorted by folded title. Visibility is evaluated in the query so employees
// never receive rows they cannot open.
func (s *Store) ListPublishedVisibleTo(ctx context.Context, u *models.User) ([]models.Document, error) {
	or := []bson.M{
		{"visibility": models.VisibilityAllProperties},
	}
	if u.PropertyID != nil {
		or = append(or, bson.M{"visibility": models.VisibilityProperty, "property_id": u.PropertyID})
	}
	if u.DepartmentID != nil {
		or = append(or, bson.M{"visibility": models.VisibilityDepartment, "department_id": u.DepartmentID})
	}
	or = append(or, bson.M{"visibility": models.VisibilityRole, "role_scope": u.Role})

	opts := options.Find().SetSort(bson.D{{Key: "title_ci", Value: 1}})
	return s.find(ctx, bson.M{"status": models.DocStatusPublished, "$or": or}, opts)
}

// Count returns the number of documents matching the filter.
func (s *Store) Count(ctx context.Context, filter ListFilter) (int64, error) {
	return s.c.CountDocuments(ctx, filter.query())
}

func (s *Store) find(ctx context.Context, q bson.M, opts *options.FindOptions) ([]models.Document, error) {
	cur, err := s.c.Find(ctx, q, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var docs []models.Document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	for i := range docs {
		docs[i].Status = models.NormalizeDocumentStatus(docs[i].Status)
	}
	return docs, nil
}
