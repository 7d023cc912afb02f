package trainingassignstore_test

import (
	"testing"
	"time"

	trainingassignstore "github.com/dalemusser/staffhub/internal/app/store/trainingassign"
	"github.com/dalemusser/staffhub/internal/domain/models"
	"github.com/dalemusser/staffhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create_EveryoneRow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := trainingassignstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tr := fixtures.CreateTraining(ctx, "Fire Safety")

	created, err := store.Create(ctx, models.TrainingAssignment{
		TrainingID: tr.ID,
		TargetType: models.TargetAll,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID.IsZero() {
		t.Error("expected ID to be assigned")
	}
	if created.TargetID != nil {
		t.Error("chain-wide row must carry no target ID")
	}
	if created.Recurring != models.RecurringNone {
		t.Errorf("Recurring = %q, want none", created.Recurring)
	}
}

func TestStore_Create_RejectsMismatchedTarget(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := trainingassignstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tr := fixtures.CreateTraining(ctx, "Fire Safety")
	deptID := primitive.NewObjectID()

	// "all" with a target ID.
	_, err := store.Create(ctx, models.TrainingAssignment{
		TrainingID: tr.ID,
		TargetType: models.TargetAll,
		TargetID:   &deptID,
	})
	if err == nil {
		t.Fatal("expected error: chain-wide row with a target ID")
	}

	// Scoped mode without a target ID.
	_, err = store.Create(ctx, models.TrainingAssignment{
		TrainingID: tr.ID,
		TargetType: models.TargetDepartments,
	})
	if err == nil {
		t.Fatal("expected error: department row without a target ID")
	}
}

func TestStore_ListForTargets(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := trainingassignstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tr := fixtures.CreateTraining(ctx, "Fire Safety")
	prop := fixtures.CreateProperty(ctx, "Harbor View")
	otherProp := fixtures.CreateProperty(ctx, "City Center")
	dept := fixtures.CreateDepartment(ctx, "Housekeeping")
	emp := fixtures.CreateEmployee(ctx, "Alice", "alice@example.com", prop.ID, dept.ID)

	everyone := fixtures.CreateAssignment(ctx, tr.ID, models.TargetAll, nil, nil)
	direct := fixtures.CreateAssignment(ctx, tr.ID, models.TargetUsers, &emp.ID, nil)
	byDept := fixtures.CreateAssignment(ctx, tr.ID, models.TargetDepartments, &dept.ID, nil)
	byProp := fixtures.CreateAssignment(ctx, tr.ID, models.TargetProperties, &prop.ID, nil)
	fixtures.CreateAssignment(ctx, tr.ID, models.TargetProperties, &otherProp.ID, nil)
	fixtures.CreateAssignment(ctx, tr.ID, models.TargetUsers, &prop.ID, nil) // some other user

	got, err := store.ListForTargets(ctx, emp.ID, emp.DepartmentID, emp.PropertyID)
	if err != nil {
		t.Fatalf("ListForTargets failed: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("ListForTargets: got %d, want 4", len(got))
	}
	want := map[primitive.ObjectID]bool{
		everyone.ID: true, direct.ID: true, byDept.ID: true, byProp.ID: true,
	}
	for _, a := range got {
		if !want[a.ID] {
			t.Errorf("unexpected assignment %s (target_type %s)", a.ID.Hex(), a.TargetType)
		}
	}
}

func TestStore_ListForTargets_NoScopes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := trainingassignstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tr := fixtures.CreateTraining(ctx, "Fire Safety")
	fixtures.CreateAssignment(ctx, tr.ID, models.TargetAll, nil, nil)

	// Users without property/department still see chain-wide assignments.
	got, err := store.ListForTargets(ctx, primitive.NewObjectID(), nil, nil)
	if err != nil {
		t.Fatalf("ListForTargets failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("got %d, want 1", len(got))
	}
}

func TestStore_ListOverdueUnreminded(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := trainingassignstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tr := fixtures.CreateTraining(ctx, "Fire Safety")
	now := time.Now().UTC()
	past := now.Add(-48 * time.Hour)
	future := now.Add(48 * time.Hour)

	overdue := fixtures.CreateAssignment(ctx, tr.ID, models.TargetAll, nil, &past)
	fixtures.CreateAssignment(ctx, tr.ID, models.TargetAll, nil, &future)
	fixtures.CreateAssignment(ctx, tr.ID, models.TargetAll, nil, nil)

	got, err := store.ListOverdueUnreminded(ctx, now)
	if err != nil {
		t.Fatalf("ListOverdueUnreminded failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != overdue.ID {
		t.Fatalf("ListOverdueUnreminded: got %d", len(got))
	}

	if err := store.MarkReminderSent(ctx, overdue.ID); err != nil {
		t.Fatalf("MarkReminderSent failed: %v", err)
	}
	got, err = store.ListOverdueUnreminded(ctx, now)
	if err != nil {
		t.Fatalf("ListOverdueUnreminded failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("reminded assignment must not reappear, got %d", len(got))
	}
}

func TestStore_DeleteByTraining(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := trainingassignstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	trA := fixtures.CreateTraining(ctx, "Fire Safety")
	trB := fixtures.CreateTraining(ctx, "Food Handling")
	fixtures.CreateAssignment(ctx, trA.ID, models.TargetAll, nil, nil)
	deptID := primitive.NewObjectID()
	fixtures.CreateAssignment(ctx, trA.ID, models.TargetDepartments, &deptID, nil)
	keep := fixtures.CreateAssignment(ctx, trB.ID, models.TargetAll, nil, nil)

	n, err := store.DeleteByTraining(ctx, trA.ID)
	if err != nil {
		t.Fatalf("DeleteByTraining failed: %v", err)
	}
	if n != 2 {
		t.Errorf("DeleteByTraining = %d, want 2", n)
	}

	remaining, err := store.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(remaining) != 1 || remaining[0].ID != keep.ID {
		t.Errorf("expected only the other training's assignment to remain")
	}
}

func TestStore_ListRecurring(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := trainingassignstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tr := fixtures.CreateTraining(ctx, "Fire Safety")
	fixtures.CreateAssignment(ctx, tr.ID, models.TargetAll, nil, nil)

	monthly, err := store.Create(ctx, models.TrainingAssignment{
		TrainingID: tr.ID,
		TargetType: models.TargetAll,
		Recurring:  models.RecurringMonthly,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := store.ListRecurring(ctx)
	if err != nil {
		t.Fatalf("ListRecurring failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != monthly.ID {
		t.Errorf("ListRecurring: got %d", len(got))
	}
}

func TestStore_ListAutoEnrollFor(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := trainingassignstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tr := fixtures.CreateTraining(ctx, "Fire Safety")
	prop := fixtures.CreateProperty(ctx, "Harbor View")
	otherProp := fixtures.CreateProperty(ctx, "City Center")
	dept := fixtures.CreateDepartment(ctx, "Housekeeping")

	everyone, err := store.Create(ctx, models.TrainingAssignment{
		TrainingID: tr.ID, TargetType: models.TargetAll, AutoEnroll: true,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	byProp, err := store.Create(ctx, models.TrainingAssignment{
		TrainingID: tr.ID, TargetType: models.TargetProperties, TargetID: &prop.ID, AutoEnroll: true,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	byDept, err := store.Create(ctx, models.TrainingAssignment{
		TrainingID: tr.ID, TargetType: models.TargetDepartments, TargetID: &dept.ID, AutoEnroll: true,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	// Matching scope but auto-enroll off, and auto-enroll on for another property.
	fixtures.CreateAssignment(ctx, tr.ID, models.TargetProperties, &prop.ID, nil)
	if _, err := store.Create(ctx, models.TrainingAssignment{
		TrainingID: tr.ID, TargetType: models.TargetProperties, TargetID: &otherProp.ID, AutoEnroll: true,
	}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := store.ListAutoEnrollFor(ctx, &prop.ID, &dept.ID)
	if err != nil {
		t.Fatalf("ListAutoEnrollFor failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("ListAutoEnrollFor: got %d, want 3", len(got))
	}
	want := map[primitive.ObjectID]bool{everyone.ID: true, byProp.ID: true, byDept.ID: true}
	for _, a := range got {
		if !want[a.ID] {
			t.Errorf("unexpected assignment %s (target_type %s)", a.ID.Hex(), a.TargetType)
		}
	}
}

func TestStore_ListAutoEnrollFor_NoScopes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := trainingassignstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tr := fixtures.CreateTraining(ctx, "Fire Safety")
	if _, err := store.Create(ctx, models.TrainingAssignment{
		TrainingID: tr.ID, TargetType: models.TargetAll, AutoEnroll: true,
	}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := store.ListAutoEnrollFor(ctx, nil, nil)
	if err != nil {
		t.Fatalf("ListAutoEnrollFor failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("got %d, want 1", len(got))
	}
}
