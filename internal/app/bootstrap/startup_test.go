package bootstrap

import (
	"testing"
	"time"

	"github.com/dalemusser/staffhub/internal/domain/models"
	"github.com/dalemusser/staffhub/internal/testutil"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func TestEnsureBootstrapAdmin_CreatesNew(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{StaffHubMongoDatabase: db}

	if err := ensureBootstrapAdmin(ctx, deps, "admin@test.com", testLogger()); err != nil {
		t.Fatalf("ensureBootstrapAdmin failed: %v", err)
	}

	var user models.User
	err := db.Collection("users").FindOne(ctx, bson.M{"email": "admin@test.com"}).Decode(&user)
	if err != nil {
		t.Fatalf("failed to find created user: %v", err)
	}

	if user.Role != "admin" {
		t.Errorf("expected role 'admin', got %q", user.Role)
	}
	if user.Status != "active" {
		t.Errorf("expected status 'active', got %q", user.Status)
	}
}

func TestEnsureBootstrapAdmin_PromotesExisting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	email := "existing@test.com"
	existing := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   "Existing User",
		FullNameCI: text.Fold("Existing User"),
		Email:      email,
		Role:       "reviewer",
		Status:     "disabled",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := db.Collection("users").InsertOne(ctx, existing); err != nil {
		t.Fatalf("failed to create existing user: %v", err)
	}

	deps := DBDeps{StaffHubMongoDatabase: db}

	if err := ensureBootstrapAdmin(ctx, deps, email, testLogger()); err != nil {
		t.Fatalf("ensureBootstrapAdmin failed: %v", err)
	}

	var user models.User
	err := db.Collection("users").FindOne(ctx, bson.M{"_id": existing.ID}).Decode(&user)
	if err != nil {
		t.Fatalf("failed to find user: %v", err)
	}

	if user.Role != "admin" {
		t.Errorf("expected role 'admin', got %q", user.Role)
	}
	if user.Status != "active" {
		t.Errorf("expected promoted account to be reactivated, got status %q", user.Status)
	}
}

func TestEnsureBootstrapAdmin_AlreadyAdmin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	email := "admin@test.com"
	existing := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   "Site Admin",
		FullNameCI: text.Fold("Site Admin"),
		Email:      email,
		Role:       "admin",
		Status:     "active",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := db.Collection("users").InsertOne(ctx, existing); err != nil {
		t.Fatalf("failed to create existing user: %v", err)
	}

	deps := DBDeps{StaffHubMongoDatabase: db}

	if err := ensureBootstrapAdmin(ctx, deps, email, testLogger()); err != nil {
		t.Fatalf("ensureBootstrapAdmin failed: %v", err)
	}

	var user models.User
	err := db.Collection("users").FindOne(ctx, bson.M{"_id": existing.ID}).Decode(&user)
	if err != nil {
		t.Fatalf("failed to find user: %v", err)
	}
	if user.UpdatedAt.After(now.Add(time.Second)) {
		t.Error("expected no write for an account that is already an admin")
	}
}

func TestEnsureBootstrapAdmin_BlankEmailIsNoop(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{StaffHubMongoDatabase: db}

	if err := ensureBootstrapAdmin(ctx, deps, "", testLogger()); err != nil {
		t.Fatalf("ensureBootstrapAdmin failed: %v", err)
	}

	n, err := db.Collection("users").CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("count users: %v", err)
	}
	if n != 0 {
		t.Errorf("expected no users created, got %d", n)
	}
}
