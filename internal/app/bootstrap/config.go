// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// Placeholder keys shipped as defaults. They work in dev and are rejected in prod.
const (
	devSessionKey = "dev-only-change-me-please-0123456789ABCDEF"
	devCSRFKey    = "dev-only-csrf-key-32-bytes-long!"
)

// minSessionKeyLen is the shortest session key accepted.
const minSessionKeyLen = 32

// appConfigKeys are read from config files, CADASTRO_* environment
// variables and --flags, in that order of increasing precedence.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "cadastramento", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 50, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 5, Desc: "MongoDB min connection pool size"},

	{Name: "session_key", Default: devSessionKey, Desc: "Session signing key (at least 32 characters)"},
	{Name: "session_name", Default: "cadastro-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "720h", Desc: "Session cookie lifetime (e.g., 24h, 720h)"},

	{Name: "csrf_key", Default: devCSRFKey, Desc: "CSRF token key (exactly 32 bytes)"},

	{Name: "drive_client_id", Default: "", Desc: "Google Drive OAuth client ID"},
	{Name: "drive_api_key", Default: "", Desc: "Google Drive API key"},
	{Name: "drive_folder_id", Default: "", Desc: "Drive folder that receives group documents"},
	{Name: "drive_credentials_file", Default: "", Desc: "Path to a service-account JSON file"},

	{Name: "signin_ip_per_minute", Default: 20, Desc: "Sign-in attempts allowed per client IP per minute"},
	{Name: "signin_email_per_5min", Default: 5, Desc: "Sign-in attempts allowed per email per 5 minutes"},

	{Name: "timeout_ping", Default: "2s", Desc: "Deadline for health pings"},
	{Name: "timeout_short", Default: "5s", Desc: "Deadline for single-document reads and writes"},
	{Name: "timeout_medium", Default: "10s", Desc: "Deadline for list queries and member replacement"},
	{Name: "timeout_long", Default: "60s", Desc: "Deadline for document uploads"},

	{Name: "metrics_enabled", Default: true, Desc: "Serve Prometheus metrics at /metrics"},
}

// LoadConfig loads WAFFLE core config and the app keys above.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "CADASTRO", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 30*24*time.Hour),

		CSRFKey: appValues.String("csrf_key"),

		DriveClientID:        appValues.String("drive_client_id"),
		DriveAPIKey:          appValues.String("drive_api_key"),
		DriveFolderID:        appValues.String("drive_folder_id"),
		DriveCredentialsFile: appValues.String("drive_credentials_file"),

		SignInIPPerMinute:  appValues.Int("signin_ip_per_minute"),
		SignInEmailPer5Min: appValues.Int("signin_email_per_5min"),

		TimeoutPing:   appValues.Duration("timeout_ping", 0),
		TimeoutShort:  appValues.Duration("timeout_short", 0),
		TimeoutMedium: appValues.Duration("timeout_medium", 0),
		TimeoutLong:   appValues.Duration("timeout_long", 0),

		MetricsEnabled: appValues.Bool("metrics_enabled"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig rejects settings the app cannot run with.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if err := validateApp(appCfg, coreCfg.Env == "prod"); err != nil {
		logger.Error("invalid app config", zap.Error(err))
		return err
	}
	return nil
}

// validateApp holds the checks that do not need the framework config.
func validateApp(appCfg AppConfig, prod bool) error {
	var errs []error

	if appCfg.MongoDatabase == "" {
		errs = append(errs, errors.New("mongo_database is required"))
	}
	if appCfg.MongoMinPoolSize > appCfg.MongoMaxPoolSize {
		errs = append(errs, fmt.Errorf("mongo_min_pool_size (%d) exceeds mongo_max_pool_size (%d)",
			appCfg.MongoMinPoolSize, appCfg.MongoMaxPoolSize))
	}
	if len(appCfg.SessionKey) < minSessionKeyLen {
		errs = append(errs, fmt.Errorf("session_key must be at least %d characters", minSessionKeyLen))
	}
	if len(appCfg.CSRFKey) != 32 {
		errs = append(errs, errors.New("csrf_key must be exactly 32 bytes"))
	}
	if appCfg.SessionMaxAge <= 0 {
		errs = append(errs, errors.New("session_max_age must be positive"))
	}
	if appCfg.SignInIPPerMinute <= 0 || appCfg.SignInEmailPer5Min <= 0 {
		errs = append(errs, errors.New("sign-in limits must be positive"))
	}
	if prod {
		if appCfg.SessionKey == devSessionKey {
			errs = append(errs, errors.New("session_key must be changed in prod"))
		}
		if appCfg.CSRFKey == devCSRFKey {
			errs = append(errs, errors.New("csrf_key must be changed in prod"))
		}
	}

	return errors.Join(errs...)
}
