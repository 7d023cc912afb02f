package documentstore_test

import (
	"strings"
	"testing"

	documentstore "github.com/dalemusser/staffhub/internal/app/store/documents"
	"github.com/dalemusser/staffhub/internal/domain/models"
	"github.com/dalemusser/staffhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create_SanitizesAndDefaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := documentstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Document{
		Title:      "Evacuation Procedure",
		Content:    `<p>Stay calm.</p><script>alert("x")</script>`,
		Visibility: models.VisibilityAllProperties,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID.IsZero() {
		t.Error("expected ID to be assigned")
	}
	if created.TitleCI != "evacuation procedure" {
		t.Errorf("TitleCI = %q", created.TitleCI)
	}
	if created.Status != models.DocStatusDraft {
		t.Errorf("Status = %q, want draft", created.Status)
	}
	if strings.Contains(created.Content, "<script") {
		t.Errorf("content not sanitized: %q", created.Content)
	}
	if !strings.Contains(created.Content, "<p>Stay calm.</p>") {
		t.Errorf("safe markup stripped: %q", created.Content)
	}
}

func TestStore_SetStatus_ReviewStamps(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := documentstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	doc := fixtures.CreateDocument(ctx, "Evacuation Procedure", models.VisibilityAllProperties, models.DocStatusDraft)
	reviewer := fixtures.CreateReviewer(ctx, "Rita", "rita@example.com")

	if err := store.SetStatus(ctx, doc.ID, models.DocStatusPendingReview, nil, "", ""); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	got, err := store.GetByID(ctx, doc.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != models.DocStatusPendingReview {
		t.Errorf("Status = %q", got.Status)
	}
	if got.SubmittedAt == nil {
		t.Error("expected SubmittedAt to be stamped on submission")
	}

	if err := store.SetStatus(ctx, doc.ID, models.DocStatusRejected, &reviewer.ID, reviewer.FullName, "needs a floor plan"); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	got, err = store.GetByID(ctx, doc.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != models.DocStatusRejected {
		t.Errorf("Status = %q", got.Status)
	}
	if got.ReviewedAt == nil || got.ReviewedByID == nil || *got.ReviewedByID != reviewer.ID {
		t.Error("expected reviewer attribution on rejection")
	}
	if got.ReviewNote != "needs a floor plan" {
		t.Errorf("ReviewNote = %q", got.ReviewNote)
	}

	// Resubmission clears the previous review note.
	if err := store.SetStatus(ctx, doc.ID, models.DocStatusPendingReview, nil, "", ""); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	got, err = store.GetByID(ctx, doc.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.ReviewNote != "" {
		t.Errorf("ReviewNote = %q, want cleared", got.ReviewNote)
	}
}

func TestStore_GetByID_NormalizesLegacyStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := documentstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	id := primitive.NewObjectID()
	_, err := db.Collection("documents").InsertOne(ctx, bson.M{
		"_id":        id,
		"title":      "Old Handbook",
		"title_ci":   "old handbook",
		"visibility": models.VisibilityAllProperties,
		"status":     "approved",
	})
	if err != nil {
		t.Fatalf("raw insert failed: %v", err)
	}

	got, err := store.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != models.DocStatusPublished {
		t.Errorf("Status = %q, want published (mapped from approved)", got.Status)
	}
}

func TestStore_ListPendingReview(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := documentstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateDocument(ctx, "Draft Doc", models.VisibilityAllProperties, models.DocStatusDraft)
	a := fixtures.CreateDocument(ctx, "First Submitted", models.VisibilityAllProperties, models.DocStatusDraft)
	b := fixtures.CreateDocument(ctx, "Second Submitted", models.VisibilityAllProperties, models.DocStatusDraft)

	if err := store.SetStatus(ctx, a.ID, models.DocStatusPendingReview, nil, "", ""); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	if err := store.SetStatus(ctx, b.ID, models.DocStatusPendingReview, nil, "", ""); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}

	queue, err := store.ListPendingReview(ctx)
	if err != nil {
		t.Fatalf("ListPendingReview failed: %v", err)
	}
	if len(queue) != 2 {
		t.Fatalf("ListPendingReview: got %d, want 2", len(queue))
	}
	if queue[0].ID != a.ID || queue[1].ID != b.ID {
		t.Error("expected oldest submission first")
	}
}

func TestStore_ListPublishedVisibleTo(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := documentstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	prop := fixtures.CreateProperty(ctx, "Harbor View")
	otherProp := fixtures.CreateProperty(ctx, "City Center")
	dept := fixtures.CreateDepartment(ctx, "Housekeeping")
	otherDept := fixtures.CreateDepartment(ctx, "Front Desk")
	emp := fixtures.CreateEmployee(ctx, "Alice", "alice@example.com", prop.ID, dept.ID)

	mustCreate := func(title string, mutate func(*models.Document)) models.Document {
		t.Helper()
		d := models.Document{Title: title, Visibility: models.VisibilityAllProperties, Status: models.DocStatusPublished}
		mutate(&d)
		created, err := store.Create(ctx, d)
		if err != nil {
			t.Fatalf("Create %q failed: %v", title, err)
		}
		return created
	}

	chainWide := mustCreate("A Chain Handbook", func(d *models.Document) {})
	myProp := mustCreate("B Harbor Guide", func(d *models.Document) {
		d.Visibility = models.VisibilityProperty
		d.PropertyID = &prop.ID
	})
	myDept := mustCreate("C Housekeeping SOP", func(d *models.Document) {
		d.Visibility = models.VisibilityDepartment
		d.DepartmentID = &dept.ID
	})
	mustCreate("D Other Property Guide", func(d *models.Document) {
		d.Visibility = models.VisibilityProperty
		d.PropertyID = &otherProp.ID
	})
	mustCreate("E Other Dept SOP", func(d *models.Document) {
		d.Visibility = models.VisibilityDepartment
		d.DepartmentID = &otherDept.ID
	})
	mustCreate("F Admin Only", func(d *models.Document) {
		d.Visibility = models.VisibilityRole
		d.RoleScope = "admin"
	})
	mustCreate("G Unpublished Chain Doc", func(d *models.Document) {
		d.Status = models.DocStatusDraft
	})

	got, err := store.ListPublishedVisibleTo(ctx, &emp)
	if err != nil {
		t.Fatalf("ListPublishedVisibleTo failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d documents, want 3", len(got))
	}
	// Sorted by folded title.
	if got[0].ID != chainWide.ID || got[1].ID != myProp.ID || got[2].ID != myDept.ID {
		for _, d := range got {
			t.Logf("visible: %s", d.Title)
		}
		t.Error("unexpected visibility result")
	}

	// Every returned document agrees with the scope check.
	for _, d := range got {
		if !d.VisibleTo(&emp) {
			t.Errorf("query returned %q but VisibleTo rejects it", d.Title)
		}
	}
}

func TestStore_TitleExistsForOther(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := documentstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := fixtures.CreateDocument(ctx, "Evacuation Procedure", models.VisibilityAllProperties, models.DocStatusDraft)
	b := fixtures.CreateDocument(ctx, "Lost and Found", models.VisibilityAllProperties, models.DocStatusDraft)

	exists, err := store.TitleExistsForOther(ctx, "evacuation procedure", b.ID)
	if err != nil {
		t.Fatalf("TitleExistsForOther failed: %v", err)
	}
	if !exists {
		t.Error("expected collision with other document's title")
	}

	exists, err = store.TitleExistsForOther(ctx, "evacuation procedure", a.ID)
	if err != nil {
		t.Fatalf("TitleExistsForOther failed: %v", err)
	}
	if exists {
		t.Error("a document's own title is not a collision")
	}
}
