package account

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shoecreatify/shoecreatify-api/db"
	"github.com/shoecreatify/shoecreatify-api/events"
	"github.com/shoecreatify/shoecreatify-api/generator"
	"github.com/shoecreatify/shoecreatify-api/mailing"
	"github.com/shoecreatify/shoecreatify-api/session"
)

// AccountStorer is the part of the data store the lifecycle needs
type AccountStorer interface {
	AccountByID(ctx context.Context, id uuid.UUID) (*db.Account, error)
	AccountByEmail(ctx context.Context, email string) (*db.Account, error)
	AccountByGoogleID(ctx context.Context, googleID string) (*db.Account, error)
	CredentialsByEmail(ctx context.Context, email string) (*db.AccountCredentials, error)
	CredentialsByID(ctx context.Context, id uuid.UUID) (*db.AccountCredentials, error)
	InsertAccount(ctx context.Context, acc db.NewAccount) (uuid.UUID, error)
	DeleteUnverifiedAccount(ctx context.Context, id uuid.UUID) (bool, error)
	SetVerificationChallenge(
		ctx context.Context,
		id uuid.UUID,
		otpHash string,
		otpExpires time.Time,
		tokenDigest string,
		tokenExpires time.Time,
	) (bool, error)
	ActivateAccount(ctx context.Context, id uuid.UUID) (bool, error)
	RecordFailedLogin(ctx context.Context, id uuid.UUID) (*db.LoginFailures, error)
	LockAccount(ctx context.Context, id uuid.UUID, until time.Time) error
	RecordLogin(ctx context.Context, id uuid.UUID, ip string, userAgent string) error
	UnlockAccount(ctx context.Context, id uuid.UUID) (bool, error)
	SetResetChallenge(ctx context.Context, id uuid.UUID, otpHash string, expires time.Time) error
	ResetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpdateProfile(ctx context.Context, id uuid.UUID, changes db.ProfileChanges) (bool, error)
	LinkGoogleIdentity(ctx context.Context, id uuid.UUID, googleID string, fill db.ProfileChanges) (bool, error)
}

// SessionManager establishes and destroys server side sessions
type SessionManager interface {
	Start(ctx context.Context, accountID uuid.UUID, rememberMe bool, client session.Client) (*session.Session, error)
	Revoke(ctx context.Context, token string) (uuid.UUID, error)
	RevokeAll(ctx context.Context, accountID uuid.UUID) (int64, error)
}

// Notifier hands emails off for asynchronous delivery, it never reports failures
type Notifier interface {
	VerificationOTP(to mailing.Recipient, otp string, linkToken string)
	Welcome(to mailing.Recipient)
	LoginAlert(to mailing.Recipient, ip string, userAgent string, at time.Time)
	PasswordResetOTP(to mailing.Recipient, otp string)
	PasswordChanged(to mailing.Recipient)
}

type Dispatcher interface {
	Dispatch(ctx context.Context, event events.Event)
}

// TokenGenerator creates otps and link tokens
type TokenGenerator interface {
	CreateOTP() generator.OTP
	CreateHexToken() generator.Token
	HashOTP(otp generator.OTP) string
}
