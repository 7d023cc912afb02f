package userstore

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/dalemusser/staffhub/internal/app/system/normalize"
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

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetEmployeeByID loads a user by ObjectID, returning an error if the user
// does not exist or is not an employee.
func (s *Store) GetEmployeeByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id, "role": "employee"}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByIDs loads multiple users by their ObjectIDs. Missing IDs are
// silently skipped.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetByEmail looks up a user by case-insensitive email. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

var (
	// ErrDuplicateEmail is returned when attempting to create a user with an email that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	errBadRole        = errors.New(`role must be "admin"|"reviewer"|"employee"`)
	errBadStatus      = errors.New(`status must be "active"|"disabled"`)
	errPropertyNeeded = errors.New("employee must have property_id")
)

// Create inserts a new user after normalizing & validating fields.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.FullName = normalize.Name(u.FullName)
	u.FullNameCI = text.Fold(u.FullName)
	u.Email = normalize.Email(u.Email)
	if u.Status == "" {
		u.Status = "active"
	}

	switch u.Role {
	case "admin", "reviewer", "employee":
		// ok
	default:
		return models.User{}, errBadRole
	}

	switch u.Status {
	case "active", "disabled":
		// ok
	default:
		return models.User{}, errBadStatus
	}

	// Employees must be scoped to a property; admins and reviewers are
	// chain-wide.
	if u.Role == "employee" && u.PropertyID == nil {
		return models.User{}, errPropertyNeeded
	}

	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// EmployeeUpdate holds the fields that can be updated for an employee.
type EmployeeUpdate struct {
	FullName     string
	Email        string
	Status       string
	PropertyID   primitive.ObjectID
	DepartmentID *primitive.ObjectID
}

// UpdateEmployee updates an employee's fields. Only updates users with
// role="employee". Returns ErrDuplicateEmail if the email already exists for
// another user.
func (s *Store) UpdateEmployee(ctx context.Context, id primitive.ObjectID, upd EmployeeUpdate) error {
	set := bson.M{
		"full_name":     normalize.Name(upd.FullName),
		"full_name_ci":  text.Fold(normalize.Name(upd.FullName)),
		"email":         normalize.Email(upd.Email),
		"status":        upd.Status,
		"property_id":   upd.PropertyID,
		"department_id": upd.DepartmentID,
		"updated_at":    time.Now(),
	}

	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id, "role": "employee"}, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// SetPasswordHash stores a new bcrypt password hash for the user.
func (s *Store) SetPasswordHash(ctx context.Context, id primitive.ObjectID, hash string) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"password_hash": hash,
		"updated_at":    time.Now(),
	}})
	return err
}

// SetStatus flips a user between "active" and "disabled".
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	status = normalize.Status(status)
	if status != "active" && status != "disabled" {
		return errBadStatus
	}
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": time.Now(),
	}})
	return err
}

// DeleteEmployee deletes a user by ID, but only if they have role="employee".
// Returns the number of documents deleted (0 or 1).
func (s *Store) DeleteEmployee(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "role": "employee"})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// EmailExistsForOther checks if an email already exists for a user other than the given ID.
func (s *Store) EmailExistsForOther(ctx context.Context, email string, excludeID primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{
		"email": normalize.Email(email),
		"_id":   bson.M{"$ne": excludeID},
	}).Err()
	if err == nil {
		return true, nil
	}
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	return false, err
}

// ListFilter narrows List results.
type ListFilter struct {
	Role         string
	Status       string
	PropertyID   *primitive.ObjectID
	DepartmentID *primitive.ObjectID
	Search       string // matches folded full name prefix
	EmailSearch  string // matches lower-cased email prefix; sorts by email
}

func (f ListFilter) query() bson.M {
	q := bson.M{}
	if f.Role != "" {
		q["role"] = f.Role
	}
	if f.Status != "" {
		q["status"] = f.Status
	}
	if f.PropertyID != nil {
		q["property_id"] = f.PropertyID
	}
	if f.DepartmentID != nil {
		q["department_id"] = f.DepartmentID
	}
	if f.Search != "" {
		q["full_name_ci"] = bson.M{"$regex": "^" + regexp.QuoteMeta(text.Fold(f.Search))}
	}
	if f.EmailSearch != "" {
		q["email"] = bson.M{"$regex": "^" + regexp.QuoteMeta(strings.ToLower(strings.TrimSpace(f.EmailSearch)))}
	}
	return q
}

// List returns users matching the filter, sorted by folded name.
func (s *Store) List(ctx context.Context, filter ListFilter) ([]models.User, error) {
	sortField := "full_name_ci"
	if filter.EmailSearch != "" {
		sortField = "email"
	}
	opts := options.Find().SetSort(bson.D{{Key: sortField, Value: 1}})
	cur, err := s.c.Find(ctx, filter.query(), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Count returns the number of users matching the filter.
func (s *Store) Count(ctx context.Context, filter ListFilter) (int64, error) {
	return s.c.CountDocuments(ctx, filter.query())
}
