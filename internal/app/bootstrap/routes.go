// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	auditlogfeature "github.com/dalemusser/staffhub/internal/app/features/auditlog"
	departmentsfeature "github.com/dalemusser/staffhub/internal/app/features/departments"
	documentsfeature "github.com/dalemusser/staffhub/internal/app/features/documents"
	employeesfeature "github.com/dalemusser/staffhub/internal/app/features/employees"
	errorsfeature "github.com/dalemusser/staffhub/internal/app/features/errors"
	healthfeature "github.com/dalemusser/staffhub/internal/app/features/health"
	homefeature "github.com/dalemusser/staffhub/internal/app/features/home"
	loginfeature "github.com/dalemusser/staffhub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/staffhub/internal/app/features/logout"
	mytrainingsfeature "github.com/dalemusser/staffhub/internal/app/features/mytrainings"
	propertiesfeature "github.com/dalemusser/staffhub/internal/app/features/properties"
	trainingsfeature "github.com/dalemusser/staffhub/internal/app/features/trainings"
	auditstore "github.com/dalemusser/staffhub/internal/app/store/audit"
	notificationstore "github.com/dalemusser/staffhub/internal/app/store/notifications"
	outboxstore "github.com/dalemusser/staffhub/internal/app/store/outbox"
	userstore "github.com/dalemusser/staffhub/internal/app/store/users"
	"github.com/dalemusser/staffhub/internal/app/system/auditlog"
	"github.com/dalemusser/staffhub/internal/app/system/auth"
	"github.com/dalemusser/staffhub/internal/app/system/notify"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// StaffHub initializes the template engine, applies session and CSRF
// middleware, and mounts the feature routers: public pages, auth, the
// admin training and document surfaces, and the employee-facing views.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.StaffHubMongoDatabase

	// Create the session manager using app config.
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Set up the UserFetcher so LoadSessionUser fetches fresh user data on
	// each request. Role changes and disabled accounts take effect
	// immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(db))

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	// Shared handler dependencies.
	errLog := errorsfeature.NewErrorLogger(logger)
	audit := auditlog.New(auditstore.New(db), logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})
	dispatcher := notify.NewDispatcher(notificationstore.New(db), outboxstore.New(db), logger)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	// All form posts carry the gorilla/csrf token via the base view model.
	r.Use(csrf.Protect([]byte(appCfg.SessionKey),
		csrf.Secure(secure),
		csrf.Path("/")))

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.StaffHubMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Landing page and role-based entry redirect
	homeHandler := homefeature.NewHandler(logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	// Authentication
	loginHandler := loginfeature.NewHandler(userstore.New(db), sessionMgr, errLog, audit, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, audit, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	// Error pages
	errorsHandler := errorsfeature.NewHandler()
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)

	// Training administration
	trainingsHandler := trainingsfeature.NewAdminHandler(db, dispatcher, errLog, audit, logger)
	r.Mount("/trainings", trainingsfeature.AdminRoutes(trainingsHandler, sessionMgr))

	// Employee training view
	myTrainingsHandler := mytrainingsfeature.NewHandler(db, errLog, audit, logger)
	r.Mount("/my/trainings", mytrainingsfeature.Routes(myTrainingsHandler, sessionMgr))

	// Knowledge documents: author/review surface and employee view
	documentsHandler := documentsfeature.NewHandler(db, errLog, audit, logger)
	r.Mount("/documents", documentsfeature.Routes(documentsHandler, sessionMgr))

	myDocumentsHandler := documentsfeature.NewEmployeeHandler(db, errLog, logger)
	r.Mount("/my/documents", documentsfeature.EmployeeRoutes(myDocumentsHandler, sessionMgr))

	// Employee directory; new hires pick up auto-enroll assignments here
	employeesHandler := employeesfeature.NewHandler(db, dispatcher, errLog, audit, logger)
	r.Mount("/employees", employeesfeature.Routes(employeesHandler, sessionMgr))

	// Chain structure administration
	propertiesHandler := propertiesfeature.NewHandler(db, errLog, audit, logger)
	r.Mount("/properties", propertiesfeature.Routes(propertiesHandler, sessionMgr))

	departmentsHandler := departmentsfeature.NewHandler(db, errLog, audit, logger)
	r.Mount("/departments", departmentsfeature.Routes(departmentsHandler, sessionMgr))

	// Admin audit trail viewer
	auditHandler := auditlogfeature.NewHandler(db, errLog, logger)
	r.Mount("/audit", auditlogfeature.Routes(auditHandler, sessionMgr))

	return r, nil
}
