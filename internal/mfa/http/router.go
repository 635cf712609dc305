package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/driftlock/mfahub/internal/mfa/service"
	"github.com/driftlock/mfahub/internal/mfa/store"
	"github.com/driftlock/mfahub/pkg/httpx"
	"github.com/driftlock/mfahub/pkg/slogx"

	_ "github.com/driftlock/mfahub/api/mfahub" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Pinger reports cache connectivity for the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	jwtSecret    []byte
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store           store.Store
	cache           Pinger
	SettingsService *service.SettingsService
	CommandService  *service.CommandService
}

func NewRouter(
	jwtSecret []byte,
	buildVersion string,
	st store.Store,
	cache Pinger,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		jwtSecret:    jwtSecret,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		cache:        cache,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerSettings()
	r.registerCommands()
	r.registerDialogs()
	r.registerJournal()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			MFA Hub API
//	@version		0.1.0
//	@description	Reconciliation service for per-user MFA configuration. Serves factor
//	@description	settings views, dispatches disable and default-method commands against
//	@description	the upstream account authority, and keeps an audit journal of outcomes.
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerSettings() {
	h := &SettingsHandler{SettingsService: r.SettingsService}

	// GET settings view - lenient rate limit (the UI polls after commands)
	secured := httpx.Chain(http.HandlerFunc(h.HandleGet),
		httpx.AuthnMiddleware(r.jwtSecret),
		httpx.RequireAnyScope("mfa:read"),
		httpx.RateLimitByUser(httpx.LenientLimit),
	)

	r.Mux.Handle("GET /v1/users/{username}/mfa", secured)
}

func (r *Router) registerCommands() {
	h := &CommandsHandler{CommandService: r.CommandService}

	// Disable commands - moderate rate limit by user
	securedDisableAll := httpx.Chain(http.HandlerFunc(h.HandleDisableAll),
		httpx.AuthnMiddleware(r.jwtSecret),
		httpx.RequireAnyScope("mfa:write"),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)
	securedDisableTOTP := httpx.Chain(http.HandlerFunc(h.HandleDisableTOTP),
		httpx.AuthnMiddleware(r.jwtSecret),
		httpx.RequireAnyScope("mfa:write"),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)

	// PUT default method - strict rate limit (writes through to the authority)
	securedDefault := httpx.Chain(http.HandlerFunc(h.HandleSetDefault),
		httpx.AuthnMiddleware(r.jwtSecret),
		httpx.RequireAnyScope("mfa:write"),
		httpx.RateLimitByUser(httpx.StrictLimit),
	)

	r.Mux.Handle("POST /v1/users/{username}/mfa/disable", securedDisableAll)
	r.Mux.Handle("POST /v1/users/{username}/mfa/totp/disable", securedDisableTOTP)
	r.Mux.Handle("PUT /v1/users/{username}/mfa/default", securedDefault)
}

func (r *Router) registerDialogs() {
	h := &DialogsHandler{SettingsService: r.SettingsService}

	securedTOTP := httpx.Chain(http.HandlerFunc(h.HandleRegisterTOTP),
		httpx.AuthnMiddleware(r.jwtSecret),
		httpx.RequireAnyScope("mfa:write"),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)
	securedKeys := httpx.Chain(http.HandlerFunc(h.HandleManageSecurityKeys),
		httpx.AuthnMiddleware(r.jwtSecret),
		httpx.RequireAnyScope("mfa:write"),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)

	r.Mux.Handle("POST /v1/users/{username}/mfa/totp/register", securedTOTP)
	r.Mux.Handle("POST /v1/users/{username}/mfa/security-keys", securedKeys)
}

func (r *Router) registerJournal() {
	h := &JournalHandler{Journal: r.store.Journal()}

	// Audit read - moderate rate limit by user
	secured := httpx.Chain(http.HandlerFunc(h.HandleRecent),
		httpx.AuthnMiddleware(r.jwtSecret),
		httpx.RequireAnyScope("mfa:audit"),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)

	r.Mux.Handle("GET /v1/mfa/journal", secured)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.cache),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
