// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds the app-level settings loaded in LoadConfig. Framework
// settings (ports, TLS, log level, body limits) live in WAFFLE's CoreConfig.
type AppConfig struct {
	// MongoDB
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session cookie. SessionMaxAge also bounds how long a remembered group id
	// survives between visits.
	SessionKey    string
	SessionName   string
	SessionDomain string
	SessionMaxAge time.Duration

	// CSRFKey authenticates the gorilla/csrf token cookie. 32 bytes.
	CSRFKey string

	// Google Drive document storage. Uploads are disabled unless the folder
	// and either an API key or a service-account file are set.
	DriveClientID        string
	DriveAPIKey          string
	DriveFolderID        string
	DriveCredentialsFile string

	// Sign-in throttling.
	SignInIPPerMinute  int
	SignInEmailPer5Min int

	// Deadlines for store and Drive calls. Zero keeps the built-in default.
	TimeoutPing   time.Duration
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration

	// MetricsEnabled mounts /metrics.
	MetricsEnabled bool
}
