package identity

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/gorilla/csrf"
	"github.com/shoecreatify/shoecreatify-api/api/auth"
	"github.com/shoecreatify/shoecreatify-api/config"
	"github.com/shoecreatify/shoecreatify-api/generator"
	"github.com/shoecreatify/shoecreatify-api/ratelimit"
	"github.com/shoecreatify/shoecreatify-api/session"
	"go.uber.org/zap"
)

const (
	oauthStateCookie = "shoecreatify.oauth_state"
	oauthStateTTL    = 10 * time.Minute
)

// IdentityRessource contains the /api/auth endpoints
type IdentityRessource struct {
	log       *zap.Logger
	cfg       *config.BehaviourConfiguration
	lifecycle Lifecycle
	cookies   CookieJar
	google    ExternalProvider
	limiter   RouteLimiter
	secure    bool
	csrf      bool
	state     func() string
}

func NewIdentityRessource(
	log *zap.Logger,
	cfg *config.BehaviourConfiguration,
	serverCfg *config.ServerConfiguration,
	lifecycle Lifecycle,
	cookies CookieJar,
	google ExternalProvider,
	limiter RouteLimiter,
) *IdentityRessource {
	gen := generator.New()
	return &IdentityRessource{
		log:       log,
		cfg:       cfg,
		lifecycle: lifecycle,
		cookies:   cookies,
		google:    google,
		limiter:   limiter,
		secure:    serverCfg.Production,
		csrf:      serverCfg.CSRFToken != "",
		state:     func() string { return string(gen.CreateHexToken()) },
	}
}

func (i *IdentityRessource) limit(rule ratelimit.Rule) func(http.Handler) http.Handler {
	if i.limiter == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return i.limiter.Middleware(rule)
}

func (i *IdentityRessource) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Get("/", i.endpoints)

	r.With(i.limit(ratelimit.Registration)).Post("/register", i.register)
	r.With(i.limit(ratelimit.OTPVerify)).Post("/verify-registration-otp", i.verifyRegistrationOTP)
	r.With(i.limit(ratelimit.OTPVerify)).Get("/verify-email", i.verifyEmail)
	r.With(i.limit(ratelimit.Registration)).Post("/resend-registration-otp", i.resendRegistrationOTP)

	r.With(i.limit(ratelimit.Auth)).Post("/login", i.login)
	r.Post("/logout", i.logout)

	r.With(i.limit(ratelimit.OTP)).Post("/forgot-password", i.forgotPassword)
	r.With(i.limit(ratelimit.OTPVerify)).Post("/verify-reset-otp", i.verifyResetOTP)
	r.With(i.limit(ratelimit.OTPVerify)).Post("/reset-password", i.resetPassword)

	r.Get("/user", i.user)
	r.Get("/check-account/{email}", i.checkAccount)

	r.Group(func(gr chi.Router) {
		gr.Use(auth.Required)
		gr.Get("/me", i.me)
		gr.Put("/update-profile", i.updateProfile)
	})

	r.Get("/google", i.googleSignIn)
	r.Get("/google/callback", i.googleCallback)

	if i.csrf {
		r.Get("/csrf-token", i.csrfToken)
	}
	return r
}

func (i *IdentityRessource) endpoints(w http.ResponseWriter, r *http.Request) {
	i.respond(w, r, &endpointsResponse{
		Success: true,
		Message: "Auth API is working",
		Endpoints: map[string]string{
			"register":              "POST /api/auth/register",
			"verifyRegistrationOtp": "POST /api/auth/verify-registration-otp",
			"verifyEmail":           "GET /api/auth/verify-email",
			"resendRegistrationOtp": "POST /api/auth/resend-registration-otp",
			"login":                 "POST /api/auth/login",
			"logout":                "POST /api/auth/logout",
			"user":                  "GET /api/auth/user",
			"me":                    "GET /api/auth/me",
			"updateProfile":         "PUT /api/auth/update-profile",
			"checkAccount":          "GET /api/auth/check-account/:email",
			"googleAuth":            "GET /api/auth/google",
			"forgotPassword":        "POST /api/auth/forgot-password",
			"verifyResetOtp":        "POST /api/auth/verify-reset-otp",
			"resetPassword":         "POST /api/auth/reset-password",
		},
	})
}

func (i *IdentityRessource) csrfToken(w http.ResponseWriter, r *http.Request) {
	i.respond(w, r, &csrfTokenResponse{Success: true, CSRFToken: csrf.Token(r)})
}

// clientOf expects middleware.RealIP to have run before
func clientOf(r *http.Request) session.Client {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		ip = host
	}
	return session.Client{IP: ip, UserAgent: r.UserAgent()}
}

func (i *IdentityRessource) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := render.DecodeJSON(r.Body, v); err != nil {
		i.log.Debug("invalid request payload", zap.Error(err))
		i.badRequest(w, r, "Invalid request payload")
		return false
	}
	return true
}

func (i *IdentityRessource) startSession(w http.ResponseWriter, s *session.Session) {
	if s != nil {
		http.SetCookie(w, i.cookies.Cookie(s))
	}
}

func (i *IdentityRessource) frontend(path string) string {
	base := i.cfg.FrontendURL
	if base == "" {
		base = "http://localhost:5173"
	}
	return strings.TrimRight(base, "/") + path
}

// a negative maxAge removes the cookie
func (i *IdentityRessource) stateCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     oauthStateCookie,
		Value:    value,
		Path:     "/api/auth/google",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   i.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
