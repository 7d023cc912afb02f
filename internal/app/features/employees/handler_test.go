package employees_test

import (
	"net/http"
	"testing"

	"github.com/dalemusser/staffhub/internal/app/features/employees"
	uierrors "github.com/dalemusser/staffhub/internal/app/features/errors"
	notificationstore "github.com/dalemusser/staffhub/internal/app/store/notifications"
	outboxstore "github.com/dalemusser/staffhub/internal/app/store/outbox"
	userstore "github.com/dalemusser/staffhub/internal/app/store/users"
	"github.com/dalemusser/staffhub/internal/app/system/auditlog"
	"github.com/dalemusser/staffhub/internal/app/system/auth"
	"github.com/dalemusser/staffhub/internal/app/system/authutil"
	"github.com/dalemusser/staffhub/internal/app/system/notify"
	"github.com/dalemusser/staffhub/internal/domain/models"
	"github.com/dalemusser/staffhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*employees.Handler, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	errLog := uierrors.NewErrorLogger(logger)
	audit := auditlog.NewNopLogger()
	dispatcher := notify.NewDispatcher(notificationstore.New(db), outboxstore.New(db), logger)
	return employees.NewHandler(db, dispatcher, errLog, audit, logger), db
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

	if employees.Routes(h, sessionMgr) == nil {
		t.Fatal("Routes() returned nil")
	}
}

func TestHandleCreate_PersistsEmployee(t *testing.T) {
	h, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	prop := fx.CreateProperty(ctx, "Harbor View")
	dept := fx.CreateDepartment(ctx, "Housekeeping")

	req := testutil.NewFormRequest("/employees", map[string]string{
		"full_name":     "Rosa Vega",
		"email":         "Rosa.Vega@Example.com",
		"property_id":   prop.ID.Hex(),
		"department_id": dept.ID.Hex(),
		"status":        "active",
		"password":      "first-shift-2026",
	}, testutil.AdminUser())
	rec := testutil.NewRecorder()

	callHandler(h.HandleCreate, rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("HandleCreate status = %d, want %d", rec.Code, http.StatusSeeOther)
	}

	u, err := userstore.New(db).GetByEmail(ctx, "rosa.vega@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if u.Role != "employee" {
		t.Errorf("Role = %q, want employee", u.Role)
	}
	if u.Status != "active" {
		t.Errorf("Status = %q, want active", u.Status)
	}
	if u.PropertyID == nil || *u.PropertyID != prop.ID {
		t.Errorf("PropertyID = %v, want %s", u.PropertyID, prop.ID.Hex())
	}
	if u.DepartmentID == nil || *u.DepartmentID != dept.ID {
		t.Errorf("DepartmentID = %v, want %s", u.DepartmentID, dept.ID.Hex())
	}
	if !authutil.CheckPassword("first-shift-2026", u.PasswordHash) {
		t.Error("stored password hash does not verify")
	}
}

func TestHandleCreate_RequiresProperty(t *testing.T) {
	h, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	req := testutil.NewFormRequest("/employees", map[string]string{
		"full_name": "Jo March",
		"email":     "jo@example.com",
		"password":  "long-enough-pass",
	}, testutil.AdminUser())
	rec := testutil.NewRecorder()

	callHandler(h.HandleCreate, rec, req)

	n, err := db.Collection("users").CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("CountDocuments: %v", err)
	}
	if n != 0 {
		t.Fatalf("got %d users, want 0", n)
	}
}

func TestHandleCreate_ShortPasswordRejected(t *testing.T) {
	h, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	prop := fx.CreateProperty(ctx, "Harbor View")

	req := testutil.NewFormRequest("/employees", map[string]string{
		"full_name":   "Jo March",
		"email":       "jo@example.com",
		"property_id": prop.ID.Hex(),
		"password":    "short",
	}, testutil.AdminUser())
	rec := testutil.NewRecorder()

	callHandler(h.HandleCreate, rec, req)

	n, err := db.Collection("users").CountDocuments(ctx, bson.M{"role": "employee"})
	if err != nil {
		t.Fatalf("CountDocuments: %v", err)
	}
	if n != 0 {
		t.Fatalf("got %d employees, want 0", n)
	}
}

func TestHandleCreate_DuplicateEmailRejected(t *testing.T) {
	h, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// The unique email index normally comes from startup index bootstrap.
	if _, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		t.Fatalf("create index: %v", err)
	}

	fx := testutil.NewFixtures(t, db)
	prop := fx.CreateProperty(ctx, "Harbor View")
	dept := fx.CreateDepartment(ctx, "Housekeeping")
	fx.CreateEmployee(ctx, "Rosa Vega", "rosa@example.com", prop.ID, dept.ID)

	req := testutil.NewFormRequest("/employees", map[string]string{
		"full_name":   "Rosa V. Vega",
		"email":       "rosa@example.com",
		"property_id": prop.ID.Hex(),
		"password":    "long-enough-pass",
	}, testutil.AdminUser())
	rec := testutil.NewRecorder()

	callHandler(h.HandleCreate, rec, req)

	n, err := db.Collection("users").CountDocuments(ctx, bson.M{"role": "employee"})
	if err != nil {
		t.Fatalf("CountDocuments: %v", err)
	}
	if n != 1 {
		t.Fatalf("got %d employees, want 1", n)
	}
}

func TestHandleCreate_AutoEnrollNotifiesNewHire(t *testing.T) {
	h, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	prop := fx.CreateProperty(ctx, "Harbor View")
	tr := fx.CreateTraining(ctx, "Fire Safety Basics")
	a := fx.CreateAssignment(ctx, tr.ID, models.TargetProperties, &prop.ID, nil)
	if _, err := db.Collection("training_assignments").UpdateByID(ctx, a.ID,
		bson.M{"$set": bson.M{"auto_enroll": true}}); err != nil {
		t.Fatalf("set auto_enroll: %v", err)
	}

	// A non-auto-enroll assignment covering everyone must not notify.
	other := fx.CreateTraining(ctx, "Lobby Etiquette")
	fx.CreateAssignment(ctx, other.ID, models.TargetAll, nil, nil)

	req := testutil.NewFormRequest("/employees", map[string]string{
		"full_name":   "Rosa Vega",
		"email":       "rosa@example.com",
		"property_id": prop.ID.Hex(),
		"password":    "first-shift-2026",
	}, testutil.AdminUser())
	rec := testutil.NewRecorder()

	callHandler(h.HandleCreate, rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("HandleCreate status = %d, want %d", rec.Code, http.StatusSeeOther)
	}

	u, err := userstore.New(db).GetByEmail(ctx, "rosa@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}

	ns, err := notificationstore.New(db).ListForUser(ctx, u.ID, 10)
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if len(ns) != 1 {
		t.Fatalf("got %d notifications, want 1", len(ns))
	}
	if ns[0].Type != models.NotificationTrainingAssigned {
		t.Errorf("Type = %q, want %q", ns[0].Type, models.NotificationTrainingAssigned)
	}
	if ns[0].Data["training_id"] != tr.ID.Hex() {
		t.Errorf("Data[training_id] = %q, want %s", ns[0].Data["training_id"], tr.ID.Hex())
	}
}

func TestHandleCreate_AutoEnrollSkipsOtherProperties(t *testing.T) {
	h, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	propA := fx.CreateProperty(ctx, "Harbor View")
	propB := fx.CreateProperty(ctx, "Mountain Lodge")
	tr := fx.CreateTraining(ctx, "Fire Safety Basics")
	a := fx.CreateAssignment(ctx, tr.ID, models.TargetProperties, &propA.ID, nil)
	if _, err := db.Collection("training_assignments").UpdateByID(ctx, a.ID,
		bson.M{"$set": bson.M{"auto_enroll": true}}); err != nil {
		t.Fatalf("set auto_enroll: %v", err)
	}

	req := testutil.NewFormRequest("/employees", map[string]string{
		"full_name":   "Kim Osei",
		"email":       "kim@example.com",
		"property_id": propB.ID.Hex(),
		"password":    "first-shift-2026",
	}, testutil.AdminUser())
	rec := testutil.NewRecorder()

	callHandler(h.HandleCreate, rec, req)

	u, err := userstore.New(db).GetByEmail(ctx, "kim@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	ns, err := notificationstore.New(db).ListForUser(ctx, u.ID, 10)
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if len(ns) != 0 {
		t.Fatalf("got %d notifications, want 0", len(ns))
	}
}

func TestHandleEdit_UpdatesFields(t *testing.T) {
	h, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	propA := fx.CreateProperty(ctx, "Harbor View")
	propB := fx.CreateProperty(ctx, "Mountain Lodge")
	dept := fx.CreateDepartment(ctx, "Housekeeping")
	emp := fx.CreateEmployee(ctx, "Rosa Vega", "rosa@example.com", propA.ID, dept.ID)

	req := testutil.NewFormRequest("/employees/"+emp.ID.Hex()+"/edit", map[string]string{
		"full_name":   "Rosa V. Vega",
		"email":       "rosa.vega@example.com",
		"property_id": propB.ID.Hex(),
		"status":      "disabled",
	}, testutil.AdminUser())
	req = testutil.WithChiURLParam(req, "id", emp.ID.Hex())
	rec := testutil.NewRecorder()

	callHandler(h.HandleEdit, rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("HandleEdit status = %d, want %d", rec.Code, http.StatusSeeOther)
	}

	u, err := userstore.New(db).GetByID(ctx, emp.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if u.FullName != "Rosa V. Vega" {
		t.Errorf("FullName = %q", u.FullName)
	}
	if u.Email != "rosa.vega@example.com" {
		t.Errorf("Email = %q", u.Email)
	}
	if u.Status != "disabled" {
		t.Errorf("Status = %q, want disabled", u.Status)
	}
	if u.PropertyID == nil || *u.PropertyID != propB.ID {
		t.Errorf("PropertyID = %v, want %s", u.PropertyID, propB.ID.Hex())
	}
}

func TestHandleEdit_SetsNewPassword(t *testing.T) {
	h, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	prop := fx.CreateProperty(ctx, "Harbor View")
	dept := fx.CreateDepartment(ctx, "Housekeeping")
	emp := fx.CreateEmployee(ctx, "Rosa Vega", "rosa@example.com", prop.ID, dept.ID)

	req := testutil.NewFormRequest("/employees/"+emp.ID.Hex()+"/edit", map[string]string{
		"full_name":   "Rosa Vega",
		"email":       "rosa@example.com",
		"property_id": prop.ID.Hex(),
		"status":      "active",
		"password":    "second-season-2026",
	}, testutil.AdminUser())
	req = testutil.WithChiURLParam(req, "id", emp.ID.Hex())
	rec := testutil.NewRecorder()

	callHandler(h.HandleEdit, rec, req)

	u, err := userstore.New(db).GetByID(ctx, emp.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !authutil.CheckPassword("second-season-2026", u.PasswordHash) {
		t.Error("new password hash does not verify")
	}
}

func TestHandleDelete_RemovesEmployee(t *testing.T) {
	h, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	prop := fx.CreateProperty(ctx, "Harbor View")
	dept := fx.CreateDepartment(ctx, "Housekeeping")
	emp := fx.CreateEmployee(ctx, "Rosa Vega", "rosa@example.com", prop.ID, dept.ID)

	req := testutil.NewFormRequest("/employees/"+emp.ID.Hex()+"/delete", nil, testutil.AdminUser())
	req = testutil.WithChiURLParam(req, "id", emp.ID.Hex())
	rec := testutil.NewRecorder()

	callHandler(h.HandleDelete, rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("HandleDelete status = %d, want %d", rec.Code, http.StatusSeeOther)
	}

	n, err := db.Collection("users").CountDocuments(ctx, bson.M{"_id": emp.ID})
	if err != nil {
		t.Fatalf("CountDocuments: %v", err)
	}
	if n != 0 {
		t.Fatalf("employee still present after delete")
	}
}

func TestHandleDelete_IgnoresAdminAccounts(t *testing.T) {
	h, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	admin := fx.CreateAdmin(ctx, "Site Admin", "admin@example.com")

	req := testutil.NewFormRequest("/employees/"+admin.ID.Hex()+"/delete", nil, testutil.AdminUser())
	req = testutil.WithChiURLParam(req, "id", admin.ID.Hex())
	rec := testutil.NewRecorder()

	callHandler(h.HandleDelete, rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("HandleDelete status = %d, want %d", rec.Code, http.StatusNotFound)
	}

	n, err := db.Collection("users").CountDocuments(ctx, bson.M{"_id": admin.ID})
	if err != nil {
		t.Fatalf("CountDocuments: %v", err)
	}
	if n != 1 {
		t.Fatal("admin account was deleted")
	}
}

func TestHandleImport_CreatesRoster(t *testing.T) {
	h, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	prop := fx.CreateProperty(ctx, "Harbor View")
	dept := fx.CreateDepartment(ctx, "Housekeeping")

	csv := "Full Name,Email,Department\n" +
		"Maya Chen,maya@example.com,Housekeeping\n" +
		"Omar Haddad,omar@example.com,\n"

	req := testutil.NewMultipartRequest("/employees/import", map[string]string{
		"property_id": prop.ID.Hex(),
		"password":    "shared-start-pass",
	}, "csv", "roster.csv", csv, testutil.AdminUser())
	rec := testutil.NewRecorder()

	callHandler(h.HandleImport, rec, req)

	users := userstore.New(db)
	maya, err := users.GetByEmail(ctx, "maya@example.com")
	if err != nil {
		t.Fatalf("GetByEmail(maya): %v", err)
	}
	if maya.Role != "employee" || maya.Status != "active" {
		t.Errorf("maya role/status = %q/%q, want employee/active", maya.Role, maya.Status)
	}
	if maya.PropertyID == nil || *maya.PropertyID != prop.ID {
		t.Error("maya not placed at the selected property")
	}
	if maya.DepartmentID == nil || *maya.DepartmentID != dept.ID {
		t.Error("maya not matched to the Housekeeping department")
	}
	if !authutil.CheckPassword("shared-start-pass", maya.PasswordHash) {
		t.Error("maya's password does not match the shared initial password")
	}

	omar, err := users.GetByEmail(ctx, "omar@example.com")
	if err != nil {
		t.Fatalf("GetByEmail(omar): %v", err)
	}
	if omar.DepartmentID != nil {
		t.Error("omar should have no department")
	}
}

func TestHandleImport_SkipsExistingAccounts(t *testing.T) {
	h, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// The unique email index normally comes from startup index bootstrap.
	if _, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		t.Fatalf("create index: %v", err)
	}

	fx := testutil.NewFixtures(t, db)
	prop := fx.CreateProperty(ctx, "Harbor View")
	dept := fx.CreateDepartment(ctx, "Housekeeping")
	fx.CreateEmployee(ctx, "Maya Chen", "maya@example.com", prop.ID, dept.ID)

	csv := "Maya Chen,maya@example.com\nOmar Haddad,omar@example.com\n"

	req := testutil.NewMultipartRequest("/employees/import", map[string]string{
		"property_id": prop.ID.Hex(),
		"password":    "shared-start-pass",
	}, "csv", "roster.csv", csv, testutil.AdminUser())
	rec := testutil.NewRecorder()

	callHandler(h.HandleImport, rec, req)

	n, err := db.Collection("users").CountDocuments(ctx, bson.M{"role": "employee"})
	if err != nil {
		t.Fatalf("CountDocuments: %v", err)
	}
	if n != 2 {
		t.Fatalf("got %d employees, want 2 (one pre-existing, one imported)", n)
	}
}

func TestHandleImport_RejectsShortPassword(t *testing.T) {
	h, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	prop := fx.CreateProperty(ctx, "Harbor View")

	req := testutil.NewMultipartRequest("/employees/import", map[string]string{
		"property_id": prop.ID.Hex(),
		"password":    "short",
	}, "csv", "roster.csv", "Maya Chen,maya@example.com\n", testutil.AdminUser())
	rec := testutil.NewRecorder()

	callHandler(h.HandleImport, rec, req)

	n, err := db.Collection("users").CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("CountDocuments: %v", err)
	}
	if n != 0 {
		t.Fatalf("got %d users, want 0", n)
	}
}

func TestHandleImport_RejectsBadRows(t *testing.T) {
	h, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	prop := fx.CreateProperty(ctx, "Harbor View")

	csv := "Maya Chen,maya@example.com\nNobody,notanemail\n"

	req := testutil.NewMultipartRequest("/employees/import", map[string]string{
		"property_id": prop.ID.Hex(),
		"password":    "shared-start-pass",
	}, "csv", "roster.csv", csv, testutil.AdminUser())
	rec := testutil.NewRecorder()

	callHandler(h.HandleImport, rec, req)

	// A file with any invalid row is rejected whole; nothing is created.
	n, err := db.Collection("users").CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("CountDocuments: %v", err)
	}
	if n != 0 {
		t.Fatalf("got %d users, want 0", n)
	}
}
