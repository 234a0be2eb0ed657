package db

import (
	"time"

	"github.com/google/uuid"
)

const (
	// AccountTypeLocal is an email and password account
	AccountTypeLocal = "local"
	// AccountTypeGoogle is an account created by google sign in
	AccountTypeGoogle = "google"
)

const (
	StatusPendingVerification = "pending_verification"
	StatusCompleted           = "completed"
	StatusActive              = "active"
)

// Account is the public projection of an account, it carries no secrets
type Account struct {
	ID                 uuid.UUID  `db:"id"                       json:"id"`
	Email              string     `db:"email"                    json:"email"`
	GoogleID           *string    `db:"google_id"                json:"-"`
	AccountType        string     `db:"account_type"             json:"accountType"`
	FirstName          string     `db:"first_name"               json:"firstName"`
	LastName           string     `db:"last_name"                json:"lastName"`
	ProfileImage       *string    `db:"profile_image"            json:"profileImage"`
	RegistrationStatus string     `db:"registration_status"      json:"registrationStatus"`
	IsEmailVerified    bool       `db:"is_email_verified"        json:"isEmailVerified"`
	EmailVerifiedAt    *time.Time `db:"email_verified_at"        json:"emailVerifiedAt,omitempty"`
	LastLogin          *time.Time `db:"last_login"               json:"lastLogin,omitempty"`
	EmailNotifications bool       `db:"pref_email_notifications" json:"-"`
	LoginAlerts        bool       `db:"pref_login_alerts"        json:"-"`
	TwoFactorEnabled   bool       `db:"pref_two_factor"          json:"-"`
	CreatedAt          time.Time  `db:"created_at"               json:"createdAt"`
}

// AccountCredentials is the projection used for credential checks only
type AccountCredentials struct {
	Account
	PasswordHash             *string    `db:"password"`
	VerificationOTP          *string    `db:"verification_otp"`
	VerificationOTPExpires   *time.Time `db:"verification_otp_expires"`
	EmailVerificationToken   *string    `db:"email_verification_token"`
	EmailVerificationExpires *time.Time `db:"email_verification_expires"`
	ResetPasswordOTP         *string    `db:"reset_password_otp"`
	ResetPasswordOTPExpires  *time.Time `db:"reset_password_otp_expires"`
	FailedLoginAttempts      int        `db:"failed_login_attempts"`
	AccountLockedUntil       *time.Time `db:"account_locked_until"`
}

var accountColumns = []string{
	"id",
	"email",
	"google_id",
	"account_type",
	"first_name",
	"last_name",
	"profile_image",
	"registration_status",
	"is_email_verified",
	"email_verified_at",
	"last_login",
	"pref_email_notifications",
	"pref_login_alerts",
	"pref_two_factor",
	"created_at",
}

var credentialColumns = append(append([]string{}, accountColumns...),
	"password",
	"verification_otp",
	"verification_otp_expires",
	"email_verification_token",
	"email_verification_expires",
	"reset_password_otp",
	"reset_password_otp_expires",
	"failed_login_attempts",
	"account_locked_until",
)

// NewAccount contains everything required to insert an account
type NewAccount struct {
	Email                    string
	PasswordHash             *string
	GoogleID                 *string
	AccountType              string
	FirstName                string
	LastName                 string
	ProfileImage             *string
	RegistrationStatus       string
	IsEmailVerified          bool
	VerificationOTP          *string
	VerificationOTPExpires   *time.Time
	EmailVerificationToken   *string
	EmailVerificationExpires *time.Time
	RegistrationIP           string
	UserAgent                string
}

// ProfileChanges holds optional profile fields, nil means unchanged
type ProfileChanges struct {
	FirstName    *string
	LastName     *string
	ProfileImage *string
}

// Empty reports whether no field would be changed
func (p ProfileChanges) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.ProfileImage == nil
}

type ListOptions struct {
	PageSize int
	Page     int
	Sort     string
	Query    string
}
