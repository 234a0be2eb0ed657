package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/csrf"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shoecreatify/shoecreatify-api/api/app/identity"
	"github.com/shoecreatify/shoecreatify-api/api/app/meta"
	"github.com/shoecreatify/shoecreatify-api/api/auth"
	"github.com/shoecreatify/shoecreatify-api/config"
	"github.com/shoecreatify/shoecreatify-api/i18n"
	"github.com/shoecreatify/shoecreatify-api/metrics"
	"github.com/shoecreatify/shoecreatify-api/session"
	"go.uber.org/zap"
)

// request bodies only carry credentials and profile fields
const maxBodyBytes = 1 << 20

// Dependencies are the services the http layer is composed of.
// Google and Limiter are optional and must be left nil (not a typed nil) when disabled.
type Dependencies struct {
	Lifecycle identity.Lifecycle
	Sessions  *session.Manager
	Store     meta.Pinger
	Registry  *i18n.TranslationRegistry
	Google    identity.ExternalProvider
	Limiter   identity.RouteLimiter
	Metrics   *metrics.HTTPMetrics
	Gatherer  prometheus.Gatherer
}

func corsOptions(cfg *config.Configuration) cors.Options {
	opts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if cfg.CORS != nil {
		if len(cfg.CORS.AllowedOrigins) > 0 {
			opts.AllowedOrigins = cfg.CORS.AllowedOrigins
		}
		if len(cfg.CORS.AllowedMethods) > 0 {
			opts.AllowedMethods = cfg.CORS.AllowedMethods
		}
		opts.AllowCredentials = cfg.CORS.AllowCredentials
	}
	return opts
}

func compose(logger *zap.Logger, cfg *config.Configuration, deps *Dependencies) (*chi.Mux, error) {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)

	r.Use(loggerMiddleware(logger))

	r.Use(middleware.Recoverer)

	r.Use(middleware.Timeout(50 * time.Second))
	r.Use(deps.Metrics.Middleware)
	r.Use(cors.Handler(corsOptions(cfg)))
	r.Use(middleware.RequestSize(maxBodyBytes))
	if deps.Registry != nil && len(deps.Registry.Languages()) > 1 {
		r.Use(languageMiddleware(cfg.Behaviour.DefaultLocale, deps.Registry))
	}
	r.Use(auth.Sessions(deps.Sessions, logger.Named("sessions")))

	if cfg.Server.CSRFToken != "" {
		r.Use(csrf.Protect(
			[]byte(cfg.Server.CSRFToken),
			csrf.Secure(cfg.Server.Production),
			csrf.Path("/"),
			csrf.ErrorHandler(jsonProblem(logger, http.StatusForbidden, "Invalid CSRF token")),
		))
	}

	r.NotFound(jsonProblem(logger, http.StatusNotFound, "Route not found"))
	r.MethodNotAllowed(jsonProblem(logger, http.StatusMethodNotAllowed, "Method not allowed"))

	if cfg.DebugMode() {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("running in debug mode"))
		})
	} else {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("Welcome to Shoe Creatify API"))
		})
	}

	identityRessource := identity.NewIdentityRessource(
		logger.Named("identity_ressource"),
		cfg.Behaviour,
		cfg.Server,
		deps.Lifecycle,
		deps.Sessions,
		deps.Google,
		deps.Limiter,
	)
	metaRessource := meta.NewMetaRessource(logger.Named("meta_ressource"), deps.Store, cfg.Server.Production)

	r.Mount("/api/auth", identityRessource.Router())

	r.Mount("/api/health", metaRessource.Router())

	if cfg.Metrics != nil && cfg.Metrics.Enable && deps.Gatherer != nil {
		path := cfg.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		r.Handle(path, metrics.Handler(deps.Gatherer))
	}

	return r, nil
}
