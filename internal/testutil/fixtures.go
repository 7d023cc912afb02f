package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/staffhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

func (f *Fixtures) insert(ctx context.Context, coll string, doc any) {
	f.t.Helper()
	if _, err := f.db.Collection(coll).InsertOne(ctx, doc); err != nil {
		f.t.Fatalf("fixture insert into %s failed: %v", coll, err)
	}
}

// CreateProperty creates a test property with the given name.
func (f *Fixtures) CreateProperty(ctx context.Context, name string) models.Property {
	f.t.Helper()

	now := time.Now().UTC()
	p := models.Property{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		City:      "Test City",
		CityCI:    text.Fold("Test City"),
		State:     "TS",
		StateCI:   text.Fold("TS"),
		TimeZone:  "America/New_York",
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.insert(ctx, "properties", p)
	return p
}

// CreateDepartment creates a test chain-wide department.
func (f *Fixtures) CreateDepartment(ctx context.Context, name string) models.Department {
	f.t.Helper()

	now := time.Now().UTC()
	d := models.Department{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.insert(ctx, "departments", d)
	return d
}

// CreateUser creates a test user with the given role and optional scoping.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email, role string, propertyID, departmentID *primitive.ObjectID) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		FullName:     fullName,
		FullNameCI:   text.Fold(fullName),
		Email:        email,
		Role:         role,
		Status:       "active",
		PropertyID:   propertyID,
		DepartmentID: departmentID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.insert(ctx, "users", u)
	return u
}

// CreateAdmin creates a chain-wide admin user.
func (f *Fixtures) CreateAdmin(ctx context.Context, fullName, email string) models.User {
	return f.CreateUser(ctx, fullName, email, "admin", nil, nil)
}

// CreateReviewer creates a chain-wide reviewer user.
func (f *Fixtures) CreateReviewer(ctx context.Context, fullName, email string) models.User {
	return f.CreateUser(ctx, fullName, email, "reviewer", nil, nil)
}

// CreateEmployee creates an employee scoped to a property and department.
func (f *Fixtures) CreateEmployee(ctx context.Context, fullName, email string, propertyID, departmentID primitive.ObjectID) models.User {
	return f.CreateUser(ctx, fullName, email, "employee", &propertyID, &departmentID)
}

// CreateDisabledUser creates a disabled employee account.
func (f *Fixtures) CreateDisabledUser(ctx context.Context, fullName, email string, propertyID primitive.ObjectID) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		Email:      email,
		Role:       "employee",
		Status:     "disabled",
		PropertyID: &propertyID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	f.insert(ctx, "users", u)
	return u
}

// CreateTraining creates a published test training.
func (f *Fixtures) CreateTraining(ctx context.Context, title string) models.Training {
	f.t.Helper()

	now := time.Now().UTC()
	tr := models.Training{
		ID:        primitive.NewObjectID(),
		Title:     title,
		TitleCI:   text.Fold(title),
		Type:      models.DefaultTrainingType,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: &now,
	}
	f.insert(ctx, "trainings", tr)
	return tr
}

// CreateAssignment creates a training assignment with the given target and
// optional deadline.
func (f *Fixtures) CreateAssignment(ctx context.Context, trainingID primitive.ObjectID, targetType models.TargetType, targetID *primitive.ObjectID, deadline *time.Time) models.TrainingAssignment {
	f.t.Helper()

	now := time.Now().UTC()
	a := models.TrainingAssignment{
		ID:         primitive.NewObjectID(),
		TrainingID: trainingID,
		TargetType: targetType,
		TargetID:   targetID,
		Deadline:   deadline,
		Recurring:  models.RecurringNone,
		CreatedAt:  now,
		UpdatedAt:  &now,
	}
	f.insert(ctx, "training_assignments", a)
	return a
}

// CreateDocument creates a document with the given visibility and status.
func (f *Fixtures) CreateDocument(ctx context.Context, title string, vis models.Visibility, status models.DocumentStatus) models.Document {
	f.t.Helper()

	now := time.Now().UTC()
	d := models.Document{
		ID:         primitive.NewObjectID(),
		Title:      title,
		TitleCI:    text.Fold(title),
		Visibility: vis,
		Status:     status,
		CreatedAt:  now,
		UpdatedAt:  &now,
	}
	f.insert(ctx, "documents", d)
	return d
}
