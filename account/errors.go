package account

import (
	"errors"
	"strings"
)

var (
	ErrAccountExists         = errors.New("account already exists")
	ErrExternalAccount       = errors.New("account is bound to an external identity provider")
	ErrNoPendingRegistration = errors.New("no pending registration")
	ErrAccountNotFound       = errors.New("account not found")
	ErrInvalidOTP            = errors.New("invalid or expired otp")
	ErrInvalidLink           = errors.New("invalid or expired verification link")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrAccountLocked         = errors.New("account is temporarily locked")
	ErrEmailNotVerified      = errors.New("email address not verified")
	ErrNoActiveReset         = errors.New("no active password reset")
	ErrResetExpired          = errors.New("password reset otp expired")
	ErrSamePassword          = errors.New("new password equals the current password")
	ErrNoChanges             = errors.New("no profile changes supplied")
	// ErrSessionNotStarted is returned after a successful activation when no session could be created
	ErrSessionNotStarted = errors.New("account verified but session could not be started")
)

// ValidationError carries every problem found with the supplied input
type ValidationError struct {
	// Message is the summary shown to the client
	Message  string
	Problems []string
}

func (v *ValidationError) Error() string {
	if len(v.Problems) == 0 {
		return v.Message
	}
	return v.Message + ": " + strings.Join(v.Problems, ", ")
}

// ExternalAccountError is returned when a local operation hits an account of another provider
type ExternalAccountError struct {
	AccountType string
}

func (e *ExternalAccountError) Error() string {
	return ErrExternalAccount.Error() + " (" + e.AccountType + ")"
}

func (e *ExternalAccountError) Unwrap() error {
	return ErrExternalAccount
}
