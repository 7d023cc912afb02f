package documents_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/dalemusser/staffhub/internal/app/features/documents"
	uierrors "github.com/dalemusser/staffhub/internal/app/features/errors"
	documentstore "github.com/dalemusser/staffhub/internal/app/store/documents"
	"github.com/dalemusser/staffhub/internal/app/system/auditlog"
	"github.com/dalemusser/staffhub/internal/app/system/auth"
	"github.com/dalemusser/staffhub/internal/domain/models"
	"github.com/dalemusser/staffhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*documents.Handler, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	errLog := uierrors.NewErrorLogger(logger)
	audit := auditlog.NewNopLogger()
	return documents.NewHandler(db, errLog, audit, logger), db
}

func newTestEmployeeHandler(t *testing.T) (*documents.EmployeeHandler, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	errLog := uierrors.NewErrorLogger(logger)
	return documents.NewEmployeeHandler(db, errLog, logger), db
}

// callHandler invokes an HTTP handler, swallowing template-render panics.
// Templates are not initialized in tests; the DB side effects are what we
// assert on.
func callHandler(fn http.HandlerFunc, w http.ResponseWriter, r *http.Request) {
	defer func() {
		_ = recover()
	}()
	fn(w, r)
}

func TestRoutes(t *testing.T) {
	h, _ := newTestHandler(t)
	logger := zap.NewNop()

	sessionMgr, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}

	if documents.Routes(h, sessionMgr) == nil {
		t.Fatal("Routes() returned nil")
	}
}

func TestHandleCreate_PersistsDraft(t *testing.T) {
	h, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	req := testutil.NewFormRequest("/documents", map[string]string{
		"title":      "Evacuation Procedures",
		"summary":    "What to do when the alarm sounds.",
		"category":   "Safety",
		"content":    "<p>Stay calm.</p><script>alert(1)</script>",
		"visibility": "all_properties",
	}, testutil.AdminUser())
	rec := testutil.NewRecorder()

	callHandler(h.HandleCreate, rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("HandleCreate status = %d, want %d", rec.Code, http.StatusSeeOther)
	}

	rows, err := documentstore.New(db).List(ctx, documentstore.ListFilter{Search: "Evacuation"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d documents, want 1", len(rows))
	}
	d := rows[0]
	if d.Status != models.DocStatusDraft {
		t.Errorf("status = %q, want draft", d.Status)
	}
	if strings.Contains(d.Content, "<script>") {
		t.Errorf("content not sanitized: %q", d.Content)
	}
	if d.CreatedByName != "Test Admin" {
		t.Errorf("created_by_name = %q", d.CreatedByName)
	}
}

func TestHandleCreate_DepartmentScopeRequiresDepartment(t *testing.T) {
	h, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	req := testutil.NewFormRequest("/documents", map[string]string{
		"title":      "Kitchen Closing Checklist",
		"visibility": "department",
	}, testutil.AdminUser())
	rec := testutil.NewRecorder()

	// Re-renders the form with a scope error; the render may panic without
	// initialized templates.
	callHandler(h.HandleCreate, rec, req)

	n, err := documentstore.New(db).Count(ctx, documentstore.ListFilter{})
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 0 {
		t.Errorf("got %d documents, want 0", n)
	}
}

func TestHandleEdit_UpdatesScope(t *testing.T) {
	h, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)

	prop := fx.CreateProperty(ctx, "Downtown Hotel")
	doc := fx.CreateDocument(ctx, "Pool Rules", models.VisibilityAllProperties, models.DocStatusDraft)

	req := testutil.NewFormRequest("/documents/"+doc.ID.Hex()+"/edit", map[string]string{
		"title":       "Pool Rules",
		"visibility":  "property",
		"property_id": prop.ID.Hex(),
	}, testutil.AdminUser())
	req = testutil.WithChiURLParam(req, "id", doc.ID.Hex())
	rec := testutil.NewRecorder()

	callHandler(h.HandleEdit, rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("HandleEdit status = %d, want %d", rec.Code, http.StatusSeeOther)
	}

	got, err := documentstore.New(db).GetByID(ctx, doc.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Visibility != models.VisibilityProperty {
		t.Errorf("visibility = %q, want property", got.Visibility)
	}
	if got.PropertyID == nil || *got.PropertyID != prop.ID {
		t.Errorf("property_id = %v, want %s", got.PropertyID, prop.ID.Hex())
	}
}

func TestHandleEdit_ClearingDepartmentResetsVisibility(t *testing.T) {
	h, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)

	dept := fx.CreateDepartment(ctx, "Housekeeping")
	doc := fx.CreateDocument(ctx, "Linen Handling", models.VisibilityDepartment, models.DocStatusDraft)
	if _, err := db.Collection("documents").UpdateByID(ctx, doc.ID, bson.M{"$set": bson.M{"department_id": dept.ID}}); err != nil {
		t.Fatalf("seed department scope: %v", err)
	}

	// The department select is cleared but the visibility selector is
	// left as-is.
	req := testutil.NewFormRequest("/documents/"+doc.ID.Hex()+"/edit", map[string]string{
		"title":         "Linen Handling",
		"visibility":    "department",
		"department_id": "",
	}, testutil.AdminUser())
	req = testutil.WithChiURLParam(req, "id", doc.ID.Hex())
	rec := testutil.NewRecorder()

	callHandler(h.HandleEdit, rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("HandleEdit status = %d, want %d", rec.Code, http.StatusSeeOther)
	}

	got, err := documentstore.New(db).GetByID(ctx, doc.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Visibility != models.VisibilityAllProperties {
		t.Errorf("visibility = %q, want all_properties", got.Visibility)
	}
	if got.DepartmentID != nil {
		t.Errorf("department_id = %v, want cleared", got.DepartmentID)
	}
}

func TestHandleEdit_SelectingDepartmentKeepsVisibility(t *testing.T) {
	h, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)

	dept := fx.CreateDepartment(ctx, "Front Desk")
	doc := fx.CreateDocument(ctx, "Check-In Script", models.VisibilityAllProperties, models.DocStatusDraft)

	req := testutil.NewFormRequest("/documents/"+doc.ID.Hex()+"/edit", map[string]string{
		"title":         "Check-In Script",
		"visibility":    "all_properties",
		"department_id": dept.ID.Hex(),
	}, testutil.AdminUser())
	req = testutil.WithChiURLParam(req, "id", doc.ID.Hex())
	rec := testutil.NewRecorder()

	callHandler(h.HandleEdit, rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("HandleEdit status = %d, want %d", rec.Code, http.StatusSeeOther)
	}

	got, err := documentstore.New(db).GetByID(ctx, doc.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Visibility != models.VisibilityAllProperties {
		t.Errorf("visibility = %q, want all_properties", got.Visibility)
	}
}

func TestHandleSubmit_MovesDraftToPendingReview(t *testing.T) {
	h, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)

	doc := fx.CreateDocument(ctx, "New Hire Checklist", models.VisibilityAllProperties, models.DocStatusDraft)

	req := testutil.NewFormRequest("/documents/"+doc.ID.Hex()+"/submit", nil, testutil.AdminUser())
	req = testutil.WithChiURLParam(req, "id", doc.ID.Hex())
	rec := testutil.NewRecorder()

	callHandler(h.HandleSubmit, rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("HandleSubmit status = %d, want %d", rec.Code, http.StatusSeeOther)
	}

	got, err := documentstore.New(db).GetByID(ctx, doc.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != models.DocStatusPendingReview {
		t.Errorf("status = %q, want pending_review", got.Status)
	}
	if got.SubmittedAt == nil {
		t.Error("submitted_at not set")
	}
}

func TestHandlePublish_RejectsDraft(t *testing.T) {
	h, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)

	doc := fx.CreateDocument(ctx, "Unreviewed Draft", models.VisibilityAllProperties, models.DocStatusDraft)

	req := testutil.NewFormRequest("/documents/"+doc.ID.Hex()+"/publish", nil, testutil.ReviewerUser())
	req = testutil.WithChiURLParam(req, "id", doc.ID.Hex())
	rec := testutil.NewRecorder()

	callHandler(h.HandlePublish, rec, req)

	got, err := documentstore.New(db).GetByID(ctx, doc.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != models.DocStatusDraft {
		t.Errorf("status = %q, want draft (publish must not skip review)", got.Status)
	}
}

func TestHandlePublish_RecordsReviewer(t *testing.T) {
	h, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)

	doc := fx.CreateDocument(ctx, "Lost and Found Policy", models.VisibilityAllProperties, models.DocStatusPendingReview)

	req := testutil.NewFormRequest("/documents/"+doc.ID.Hex()+"/publish", map[string]string{
		"review_note": "Looks good.",
	}, testutil.ReviewerUser())
	req = testutil.WithChiURLParam(req, "id", doc.ID.Hex())
	rec := testutil.NewRecorder()

	callHandler(h.HandlePublish, rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("HandlePublish status = %d, want %d", rec.Code, http.StatusSeeOther)
	}

	got, err := documentstore.New(db).GetByID(ctx, doc.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != models.DocStatusPublished {
		t.Errorf("status = %q, want published", got.Status)
	}
	if got.ReviewedAt == nil || got.ReviewedByName != "Test Reviewer" {
		t.Errorf("reviewer attribution missing: at=%v by=%q", got.ReviewedAt, got.ReviewedByName)
	}
	if got.ReviewNote != "Looks good." {
		t.Errorf("review_note = %q", got.ReviewNote)
	}
}

func TestHandleReject_RequiresNote(t *testing.T) {
	h, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)

	doc := fx.CreateDocument(ctx, "Incomplete Policy", models.VisibilityAllProperties, models.DocStatusPendingReview)

	req := testutil.NewFormRequest("/documents/"+doc.ID.Hex()+"/reject", nil, testutil.ReviewerUser())
	req = testutil.WithChiURLParam(req, "id", doc.ID.Hex())
	rec := testutil.NewRecorder()

	callHandler(h.HandleReject, rec, req)

	got, err := documentstore.New(db).GetByID(ctx, doc.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != models.DocStatusPendingReview {
		t.Errorf("status = %q, want pending_review (reject without note must not land)", got.Status)
	}
}

func TestHandleReject_SendsBackWithNote(t *testing.T) {
	h, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)

	doc := fx.CreateDocument(ctx, "Vague Procedures", models.VisibilityAllProperties, models.DocStatusPendingReview)

	req := testutil.NewFormRequest("/documents/"+doc.ID.Hex()+"/reject", map[string]string{
		"review_note": "Needs a step-by-step section.",
	}, testutil.ReviewerUser())
	req = testutil.WithChiURLParam(req, "id", doc.ID.Hex())
	rec := testutil.NewRecorder()

	callHandler(h.HandleReject, rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("HandleReject status = %d, want %d", rec.Code, http.StatusSeeOther)
	}

	got, err := documentstore.New(db).GetByID(ctx, doc.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != models.DocStatusRejected {
		t.Errorf("status = %q, want rejected", got.Status)
	}
	if got.ReviewNote != "Needs a step-by-step section." {
		t.Errorf("review_note = %q", got.ReviewNote)
	}
}

func TestHandleWithdraw_PullsPublishedBackToDraft(t *testing.T) {
	h, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)

	doc := fx.CreateDocument(ctx, "Outdated Menu Standards", models.VisibilityAllProperties, models.DocStatusPublished)

	req := testutil.NewFormRequest("/documents/"+doc.ID.Hex()+"/withdraw", nil, testutil.AdminUser())
	req = testutil.WithChiURLParam(req, "id", doc.ID.Hex())
	rec := testutil.NewRecorder()

	callHandler(h.HandleWithdraw, rec, req)

	got, err := documentstore.New(db).GetByID(ctx, doc.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != models.DocStatusDraft {
		t.Errorf("status = %q, want draft", got.Status)
	}
}

func TestHandleDelete_RemovesDocument(t *testing.T) {
	h, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)

	doc := fx.CreateDocument(ctx, "Obsolete Policy", models.VisibilityAllProperties, models.DocStatusDraft)

	req := testutil.NewFormRequest("/documents/"+doc.ID.Hex()+"/delete", nil, testutil.AdminUser())
	req = testutil.WithChiURLParam(req, "id", doc.ID.Hex())
	rec := testutil.NewRecorder()

	callHandler(h.HandleDelete, rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("HandleDelete status = %d, want %d", rec.Code, http.StatusSeeOther)
	}

	n, err := documentstore.New(db).Count(ctx, documentstore.ListFilter{})
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 0 {
		t.Errorf("got %d documents, want 0", n)
	}
}

func TestEmployeeServeView_HidesUnpublished(t *testing.T) {
	h, db := newTestEmployeeHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)

	prop := fx.CreateProperty(ctx, "Airport Hotel")
	doc := fx.CreateDocument(ctx, "Draft Handbook", models.VisibilityAllProperties, models.DocStatusDraft)

	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/my/documents/"+doc.ID.Hex()+"/view", testutil.EmployeeUser(prop.ID))
	req = testutil.WithChiURLParam(req, "id", doc.ID.Hex())
	rec := testutil.NewRecorder()

	callHandler(h.ServeView, rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestEmployeeServeView_ScopedToProperty(t *testing.T) {
	h, db := newTestEmployeeHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)

	propA := fx.CreateProperty(ctx, "Harbor Hotel")
	propB := fx.CreateProperty(ctx, "Summit Lodge")

	doc := fx.CreateDocument(ctx, "Harbor Parking Map", models.VisibilityProperty, models.DocStatusPublished)
	if _, err := db.Collection("documents").UpdateByID(ctx, doc.ID,
		bson.M{"$set": bson.M{"property_id": propA.ID}}); err != nil {
		t.Fatalf("scope document: %v", err)
	}

	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/my/documents/"+doc.ID.Hex()+"/view", testutil.EmployeeUser(propB.ID))
	req = testutil.WithChiURLParam(req, "id", doc.ID.Hex())
	rec := testutil.NewRecorder()

	callHandler(h.ServeView, rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d for out-of-scope viewer, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestEmployeeServeList_FiltersByScope(t *testing.T) {
	h, db := newTestEmployeeHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)

	prop := fx.CreateProperty(ctx, "Garden Inn")

	// Visible: published, open to everyone.
	fx.CreateDocument(ctx, "Guest Service Basics", models.VisibilityAllProperties, models.DocStatusPublished)
	// Hidden: still a draft.
	fx.CreateDocument(ctx, "Unfinished Guide", models.VisibilityAllProperties, models.DocStatusDraft)

	u := &models.User{Role: "employee", PropertyID: &prop.ID}
	rows, err := documentstore.New(db).ListPublishedVisibleTo(ctx, u)
	if err != nil {
		t.Fatalf("ListPublishedVisibleTo: %v", err)
	}
	if len(rows) != 1 || rows[0].Title != "Guest Service Basics" {
		t.Fatalf("visible docs = %v", titlesOf(rows))
	}

	// The handler renders the same rows; just confirm it does not error
	// before the template stage.
	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/my/documents", testutil.EmployeeUser(prop.ID))
	rec := testutil.NewRecorder()
	callHandler(h.ServeList, rec, req)
}

func titlesOf(rows []models.Document) []string {
	out := make([]string, len(rows))
	for i := range rows {
		out[i] = rows[i].Title
	}
	return out
}

func TestHandleCreate_DuplicateTitleRejected(t *testing.T) {
	h, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)

	// The unique title_ci index normally comes from startup index bootstrap.
	if _, err := db.Collection("documents").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "title_ci", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		t.Fatalf("create index: %v", err)
	}

	fx.CreateDocument(ctx, "WiFi Setup", models.VisibilityAllProperties, models.DocStatusPublished)

	req := testutil.NewFormRequest("/documents", map[string]string{
		"title":      "wifi setup",
		"visibility": "all_properties",
	}, testutil.AdminUser())
	rec := testutil.NewRecorder()

	callHandler(h.HandleCreate, rec, req)

	n, err := documentstore.New(db).Count(ctx, documentstore.ListFilter{})
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 1 {
		t.Errorf("got %d documents, want 1 (duplicate title must not insert)", n)
	}
}
