package userstore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// The directory methods back assignment target resolution: each returns the
// IDs of active employees in scope, in a stable sort order so resolution is
// deterministic.

var idOnly = options.Find().
	SetProjection(bson.M{"_id": 1}).
	SetSort(bson.D{{Key: "_id", Value: 1}})

func (s *Store) findIDs(ctx context.Context, filter bson.M) ([]primitive.ObjectID, error) {
	cur, err := s.c.Find(ctx, filter, idOnly)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []primitive.ObjectID
	for cur.Next(ctx) {
		var row struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		ids = append(ids, row.ID)
	}
	return ids, cur.Err()
}

// ActiveUserIDs returns every active employee in the chain.
func (s *Store) ActiveUserIDs(ctx context.Context) ([]primitive.ObjectID, error) {
	return s.findIDs(ctx, bson.M{"role": "employee", "status": "active"})
}

// DepartmentMemberIDs returns active employees in the given department
// across all properties.
func (s *Store) DepartmentMemberIDs(ctx context.Context, departmentID primitive.ObjectID) ([]primitive.ObjectID, error) {
	return s.findIDs(ctx, bson.M{
		"role":          "employee",
		"status":        "active",
		"department_id": departmentID,
	})
}

// PropertyMemberIDs returns active employees at the given property.
func (s *Store) PropertyMemberIDs(ctx context.Context, propertyID primitive.ObjectID) ([]primitive.ObjectID, error) {
	return s.findIDs(ctx, bson.M{
		"role":        "employee",
		"status":      "active",
		"property_id": propertyID,
	})
}
