package indexes_test

import (
	"testing"

	"github.com/dalemusser/staffhub/internal/app/system/indexes"
	"github.com/dalemusser/staffhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestEnsureAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// EnsureAll should succeed on a clean database
	err := indexes.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// First call
	err := indexes.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("First EnsureAll failed: %v", err)
	}

	// Second call should also succeed (idempotent)
	err = indexes.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

func indexNames(t *testing.T, db *mongo.Database, coll string) map[string]bool {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cur, err := db.Collection(coll).Indexes().List(ctx)
	if err != nil {
		t.Fatalf("List indexes failed: %v", err)
	}
	defer cur.Close(ctx)

	names := make(map[string]bool)
	for cur.Next(ctx) {
		var idx bson.M
		if err := cur.Decode(&idx); err != nil {
			continue
		}
		if name, ok := idx["name"].(string); ok {
			names[name] = true
		}
	}
	return names
}

func TestEnsureAll_CreatesUserIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	names := indexNames(t, db, "users")
	expected := []string{
		"uniq_users_email",
		"idx_users_role_prop_status_fullnameci_id",
		"idx_users_role_dept_status_id",
		"idx_users_role_status_fullnameci_id",
		"idx_users_prop",
	}
	for _, name := range expected {
		if !names[name] {
			t.Errorf("expected index %q to exist on users collection", name)
		}
	}
}

func TestEnsureAll_CreatesDomainIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	checks := map[string][]string{
		"properties": {
			"uniq_properties_nameci",
			"idx_properties_status_nameci_id",
		},
		"departments": {
			"uniq_departments_nameci",
		},
		"trainings": {
			"uniq_trainings_titleci",
			"idx_trainings_status_type_titleci_id",
		},
		"training_assignments": {
			"idx_assignments_training_createdat",
			"idx_assignments_targettype_targetid",
			"idx_assignments_remindersent_deadline",
		},
		"completions": {
			"uniq_completions_assignment_user",
			"idx_completions_user",
		},
		"documents": {
			"uniq_documents_titleci",
			"idx_documents_status_submittedat",
		},
		"notifications": {
			"idx_notifications_user_createdat",
			"idx_notifications_user_readat",
		},
		"notification_outbox": {
			"uniq_outbox_batchkey",
			"idx_outbox_status_createdat",
		},
		"audit_events": {
			"idx_audit_timestamp",
			"idx_audit_category_timestamp",
		},
	}

	for coll, expected := range checks {
		names := indexNames(t, db, coll)
		for _, name := range expected {
			if !names[name] {
				t.Errorf("expected index %q to exist on %s collection", name, coll)
			}
		}
	}
}

func TestEnsureAll_UniqueEmailEnforced(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	fixtures.CreateAdmin(ctx, "First", "dup@example.com")

	_, err := db.Collection("users").InsertOne(ctx, bson.M{
		"full_name": "Second",
		"email":     "dup@example.com",
		"role":      "admin",
		"status":    "active",
	})
	if err == nil {
		t.Fatal("expected duplicate key error for second user with same email")
	}
}
