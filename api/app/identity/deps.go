package identity

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/shoecreatify/shoecreatify-api/account"
	"github.com/shoecreatify/shoecreatify-api/db"
	"github.com/shoecreatify/shoecreatify-api/ratelimit"
	"github.com/shoecreatify/shoecreatify-api/session"
)

// Lifecycle is the identity lifecycle the endpoints drive
type Lifecycle interface {
	Register(ctx context.Context, req account.RegisterRequest) (uuid.UUID, error)
	VerifyRegistrationOTP(
		ctx context.Context,
		email string,
		otp string,
		client session.Client,
	) (*account.Authenticated, error)
	VerifyRegistrationLink(
		ctx context.Context,
		email string,
		token string,
		client session.Client,
	) (*account.Authenticated, error)
	ResendRegistrationOTP(ctx context.Context, email string) error
	Login(ctx context.Context, req account.LoginRequest) (*account.Authenticated, error)
	ForgotPassword(ctx context.Context, email string) error
	VerifyResetOTP(ctx context.Context, email string, otp string) (*account.ResetGrant, error)
	ResetPassword(ctx context.Context, req account.ResetPasswordRequest) error
	Logout(ctx context.Context, token string) error
	CurrentAccount(ctx context.Context, id uuid.UUID) (*db.Account, error)
	CheckAccount(ctx context.Context, email string) (*account.Status, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, update account.ProfileUpdate) (*db.Account, error)
	ExternalSignIn(ctx context.Context, p account.ExternalProfile) (*account.Authenticated, error)
}

// CookieJar creates the session cookies
type CookieJar interface {
	Cookie(s *session.Session) *http.Cookie
	ClearCookie() *http.Cookie
}

// ExternalProvider is an oauth sign in
type ExternalProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*account.ExternalProfile, error)
}

// RouteLimiter guards single routes
type RouteLimiter interface {
	Middleware(rule ratelimit.Rule) func(http.Handler) http.Handler
}
