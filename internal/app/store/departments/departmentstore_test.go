package departmentstore_test

import (
	"testing"

	departmentstore "github.com/dalemusser/staffhub/internal/app/store/departments"
	"github.com/dalemusser/staffhub/internal/domain/models"
	"github.com/dalemusser/staffhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := departmentstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Department{
		Name:        "Housekeeping",
		Description: "Room and common-area cleaning",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID.IsZero() {
		t.Error("expected ID to be assigned")
	}
	if created.NameCI != "housekeeping" {
		t.Errorf("NameCI = %q", created.NameCI)
	}
	if created.Status != "active" {
		t.Errorf("expected default status 'active', got %q", created.Status)
	}
}

func TestStore_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := departmentstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	d := fixtures.CreateDepartment(ctx, "Housekeeping")

	if err := store.Update(ctx, d.ID, models.Department{Name: "Guest Services"}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := store.GetByID(ctx, d.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Name != "Guest Services" || got.NameCI != "guest services" {
		t.Errorf("Name = %q, NameCI = %q", got.Name, got.NameCI)
	}
	if got.Status != "active" {
		t.Error("status must survive a partial update")
	}
}

func TestStore_ListActive_SortsByName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := departmentstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateDepartment(ctx, "Maintenance")
	fixtures.CreateDepartment(ctx, "Front Desk")
	retired := fixtures.CreateDepartment(ctx, "Telegraph Office")
	if err := store.Update(ctx, retired.ID, models.Department{Status: "disabled"}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	active, err := store.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive failed: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("ListActive: got %d, want 2", len(active))
	}
	if active[0].Name != "Front Desk" || active[1].Name != "Maintenance" {
		t.Errorf("expected name order, got %q, %q", active[0].Name, active[1].Name)
	}
}

func TestStore_GetByIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := departmentstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := fixtures.CreateDepartment(ctx, "Housekeeping")
	fixtures.CreateDepartment(ctx, "Front Desk")

	got, err := store.GetByIDs(ctx, []primitive.ObjectID{a.ID})
	if err != nil {
		t.Fatalf("GetByIDs failed: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Housekeeping" {
		t.Errorf("GetByIDs: got %d departments", len(got))
	}

	empty, err := store.GetByIDs(ctx, nil)
	if err != nil {
		t.Fatalf("GetByIDs failed: %v", err)
	}
	if empty != nil {
		t.Error("empty input should produce no query and no results")
	}
}
