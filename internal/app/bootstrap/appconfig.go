// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - CORS settings
//   - Request body size limits
//   - Database connection timeouts
//
// AppConfig is where everything specific to StaffHub lives: the MongoDB
// connection, session cookies, audit logging, and the bulk notification
// endpoint the outbox delivers to.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connections in the driver pool
	MongoMinPoolSize uint64 // Min connections kept warm in the pool

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: staffhub-session)
	SessionDomain string // Cookie domain (blank means current host)

	// Base URL for links in notifications
	BaseURL string // e.g., "https://staffhub.example.com" or "http://localhost:3000"

	// Audit logging settings: "all" (db+log), "db", "log", or "off"
	AuditLogAuth  string
	AuditLogAdmin string

	// Bulk notification delivery endpoint. Blank disables outbox delivery;
	// batches accumulate until an endpoint is configured.
	NotifyBulkURL string

	// BootstrapAdminEmail names an account promoted to (or created as)
	// admin on startup, so a fresh deployment has a way in.
	BootstrapAdminEmail string

	// SMTP settings for reminder emails. A blank host disables email and
	// reminders stay in-app only.
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
}
