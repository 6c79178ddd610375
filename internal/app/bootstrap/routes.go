// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	uierrors "github.com/caiosarava/cadastramento/internal/app/features/errors"
	groupsfeature "github.com/caiosarava/cadastramento/internal/app/features/groups"
	healthfeature "github.com/caiosarava/cadastramento/internal/app/features/health"
	homefeature "github.com/caiosarava/cadastramento/internal/app/features/home"
	loginfeature "github.com/caiosarava/cadastramento/internal/app/features/login"
	logoutfeature "github.com/caiosarava/cadastramento/internal/app/features/logout"
	masksfeature "github.com/caiosarava/cadastramento/internal/app/features/masks"
	membersfeature "github.com/caiosarava/cadastramento/internal/app/features/members"
	reportsfeature "github.com/caiosarava/cadastramento/internal/app/features/reports"
	"github.com/caiosarava/cadastramento/internal/app/registration"
	accountstore "github.com/caiosarava/cadastramento/internal/app/store/accounts"
	recordstore "github.com/caiosarava/cadastramento/internal/app/store/records"
	"github.com/caiosarava/cadastramento/internal/app/system/auth"
	"github.com/caiosarava/cadastramento/internal/app/system/metrics"
	"github.com/caiosarava/cadastramento/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// BuildHandler constructs the root router.
//
// Every page except /health, /metrics and /static runs behind CSRF
// protection and the session loader. The registration pages are mounted
// per stage; each one checks that the signed-in account belongs on it.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Dev mode enables template reloading.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	errLog := uierrors.NewErrorLogger(logger)
	flow := registration.New(recordstore.New(deps.MongoDatabase, logger, m), logger, m)
	limiter := ratelimit.NewSignInLimiter(appCfg.SignInIPPerMinute, appCfg.SignInEmailPer5Min)

	r := chi.NewRouter()

	// Endpoints scraped by machines skip CSRF and sessions.
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	if appCfg.MetricsEnabled {
		r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	}
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	r.Group(func(pr chi.Router) {
		pr.Use(csrfProtect(appCfg.CSRFKey, secure))
		pr.Use(sessionMgr.LoadSessionUser)

		pr.NotFound(func(w http.ResponseWriter, r *http.Request) {
			uierrors.RenderNotFound(w, r, "Page not found.", "/")
		})

		homeHandler := homefeature.NewHandler(flow, sessionMgr, errLog, logger)
		pr.Mount("/", homefeature.Routes(homeHandler))

		loginHandler := loginfeature.NewHandler(accountstore.New(deps.MongoDatabase), flow, sessionMgr, limiter, errLog, logger)
		pr.Mount("/login", loginfeature.Routes(loginHandler))

		logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
		pr.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

		groupsHandler := groupsfeature.NewHandler(flow, sessionMgr, errLog, logger)
		pr.Mount("/group", groupsfeature.Routes(groupsHandler, sessionMgr))

		membersHandler := membersfeature.NewHandler(flow, sessionMgr, errLog, logger)
		pr.Mount("/members", membersfeature.Routes(membersHandler, sessionMgr))

		reportsHandler := reportsfeature.NewHandler(flow, sessionMgr, deps.Files, m, errLog, logger)
		pr.Mount("/view", reportsfeature.Routes(reportsHandler, sessionMgr))

		pr.Mount("/masks", masksfeature.Routes())
	})

	return r, nil
}

// csrfProtect wraps gorilla/csrf. Outside prod the site is served over plain
// HTTP, so requests are marked as such before the origin check runs.
func csrfProtect(key string, secure bool) func(http.Handler) http.Handler {
	protect := csrf.Protect([]byte(key),
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(csrfFailed)),
	)
	return func(next http.Handler) http.Handler {
		h := protect(next)
		if secure {
			return h
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}
}

func csrfFailed(w http.ResponseWriter, r *http.Request) {
	uierrors.RenderForbidden(w, r, "Your form expired. Reload the page and try again.", "/")
}
