// internal/app/store/properties/propertystore.go
package propertystore

import (
	"context"
	"errors"
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

var ErrDuplicateProperty = errors.New("a property with this name already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("properties")}
}

func (s *Store) Create(ctx context.Context, p models.Property) (models.Property, error) {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.NameCI = text.Fold(p.Name)
	p.CityCI = text.Fold(p.City)
	p.StateCI = text.Fold(p.State)
	if p.Status == "" {
		p.Status = "active"
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	_, err := s.c.InsertOne(ctx, p)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Property{}, ErrDuplicateProperty
		}
		return models.Property{}, err
	}
	return p, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Property, error) {
	var p models.Property
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return models.Property{}, err
	}
	return p, nil
}

// GetByIDs loads multiple properties by their ObjectIDs.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Property, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var props []models.Property
	if err := cur.All(ctx, &props); err != nil {
		return nil, err
	}
	return props, nil
}

// Update modifies a property's mutable fields and refreshes UpdatedAt.
// Empty fields are left unchanged.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, p models.Property) error {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}
	if p.Name != "" {
		set["name"] = p.Name
		set["name_ci"] = text.Fold(p.Name)
	}
	if p.City != "" {
		set["city"] = p.City
		set["city_ci"] = text.Fold(p.City)
	}
	if p.State != "" {
		set["state"] = p.State
		set["state_ci"] = text.Fold(p.State)
	}
	if p.TimeZone != "" {
		set["time_zone"] = p.TimeZone
	}
	if p.Status != "" {
		set["status"] = p.Status
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateProperty
		}
		return err
	}
	return nil
}

// Delete removes a property by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// NameExistsForOther checks if a property with the given folded name exists,
// excluding the specified ID. Used for update validation.
func (s *Store) NameExistsForOther(ctx context.Context, nameCI string, excludeID primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{
		"name_ci": nameCI,
		"_id":     bson.M{"$ne": excludeID},
	}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListActive returns active properties sorted by folded name.
func (s *Store) ListActive(ctx context.Context) ([]models.Property, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"status": "active"}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var props []models.Property
	if err := cur.All(ctx, &props); err != nil {
		return nil, err
	}
	return props, nil
}

// List returns all properties sorted by folded name.
func (s *Store) List(ctx context.Context) ([]models.Property, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var props []models.Property
	if err := cur.All(ctx, &props); err != nil {
		return nil, err
	}
	return props, nil
}

// Count returns the number of properties matching the filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}
