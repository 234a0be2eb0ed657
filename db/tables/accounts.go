package tables

import (
	"time"

	"github.com/google/uuid"
)

// AccountTable represents the accounts table
type AccountTable struct {
	ID                       uuid.UUID  `db:"id"                         fiql:"id,db:id"`
	Email                    string     `db:"email"                      fiql:"email,db:email"`
	GoogleID                 *string    `db:"google_id"                  fiql:"google_id,db:google_id"`
	AccountType              string     `db:"account_type"               fiql:"account_type,db:account_type"`
	Password                 *string    `db:"password"                                                                   json:"-"`
	FirstName                string     `db:"first_name"                 fiql:"first_name,db:first_name"`
	LastName                 string     `db:"last_name"                  fiql:"last_name,db:last_name"`
	ProfileImage             *string    `db:"profile_image"`
	ProfileImagePublicID     *string    `db:"profile_image_public_id"`
	RegistrationStatus       string     `db:"registration_status"        fiql:"registration_status,db:registration_status"`
	IsEmailVerified          bool       `db:"is_email_verified"          fiql:"is_email_verified,db:is_email_verified"`
	EmailVerifiedAt          *time.Time `db:"email_verified_at"`
	VerificationOTP          *string    `db:"verification_otp"                                                           json:"-"`
	VerificationOTPExpires   *time.Time `db:"verification_otp_expires"`
	EmailVerificationToken   *string    `db:"email_verification_token"                                                   json:"-"`
	EmailVerificationExpires *time.Time `db:"email_verification_expires"`
	ResetPasswordOTP         *string    `db:"reset_password_otp"                                                         json:"-"`
	ResetPasswordOTPExpires  *time.Time `db:"reset_password_otp_expires"`
	FailedLoginAttempts      int        `db:"failed_login_attempts"      fiql:"failed_login_attempts,db:failed_login_attempts"`
	AccountLockedUntil       *time.Time `db:"account_locked_until"       fiql:"account_locked_until,db:account_locked_until"`
	LastPasswordChange       *time.Time `db:"last_password_change"`
	RegistrationIP           *string    `db:"registration_ip"`
	UserAgent                *string    `db:"user_agent"`
	LastLogin                *time.Time `db:"last_login"                 fiql:"last_login,db:last_login"`
	LastLoginIP              *string    `db:"last_login_ip"`
	EmailNotifications       bool       `db:"pref_email_notifications"`
	LoginAlerts              bool       `db:"pref_login_alerts"`
	TwoFactorEnabled         bool       `db:"pref_two_factor"`
	CreatedAt                time.Time  `db:"created_at"                 fiql:"created_at,db:created_at"`
	UpdatedAt                *time.Time `db:"updated_at"                 fiql:"updated_at,db:updated_at"`
}
