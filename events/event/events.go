package event

import (
	"time"

	"github.com/google/uuid"
	"github.com/shoecreatify/shoecreatify-api/events"
)

const (
	AccountRegisteredEvent       events.EventName = "account_registered"
	AccountVerifiedEvent         events.EventName = "account_verified"
	AccountVerificationSentEvent events.EventName = "account_verification_sent"
	AccountLoginEvent            events.EventName = "account_login"
	AccountLoginFailedEvent      events.EventName = "account_login_failed"
	AccountLockedEvent           events.EventName = "account_locked"
	AccountUnlockedEvent         events.EventName = "account_unlocked"
	AccountLogoutEvent           events.EventName = "account_logout"

	PasswordResetRequestedEvent events.EventName = "password_reset_requested"
	PasswordResetVerifiedEvent  events.EventName = "password_reset_verified"
	PasswordChangedEvent        events.EventName = "password_changed"

	ProfileUpdatedEvent   events.EventName = "profile_updated"
	ExternalLinkedEvent   events.EventName = "external_identity_linked"
	ExternalSignupEvent   events.EventName = "external_signup"
	UnverifiedPurgedEvent events.EventName = "unverified_account_purged"
)

type AccountRegistered struct {
	AccountID uuid.UUID
	Email     string
	IP        string
}

func (*AccountRegistered) Name() events.EventName {
	return AccountRegisteredEvent
}

type AccountVerified struct {
	AccountID uuid.UUID
	// Method is either otp or link
	Method string
}

func (*AccountVerified) Name() events.EventName {
	return AccountVerifiedEvent
}

type AccountVerificationSent struct {
	AccountID uuid.UUID
	Resend    bool
}

func (*AccountVerificationSent) Name() events.EventName {
	return AccountVerificationSentEvent
}

type AccountLogin struct {
	AccountID  uuid.UUID
	IP         string
	RememberMe bool
	Method     string
}

func (*AccountLogin) Name() events.EventName {
	return AccountLoginEvent
}

type AccountLoginFailed struct {
	AccountID uuid.UUID
	Failures  int
}

func (*AccountLoginFailed) Name() events.EventName {
	return AccountLoginFailedEvent
}

type AccountLocked struct {
	AccountID   uuid.UUID
	LockedUntil time.Time
}

func (*AccountLocked) Name() events.EventName {
	return AccountLockedEvent
}

type AccountUnlocked struct {
	AccountID uuid.UUID
}

func (*AccountUnlocked) Name() events.EventName {
	return AccountUnlockedEvent
}

type AccountLogout struct {
	AccountID uuid.UUID
}

func (*AccountLogout) Name() events.EventName {
	return AccountLogoutEvent
}

type PasswordResetRequested struct {
	AccountID uuid.UUID
}

func (*PasswordResetRequested) Name() events.EventName {
	return PasswordResetRequestedEvent
}

type PasswordResetVerified struct {
	AccountID uuid.UUID
}

func (*PasswordResetVerified) Name() events.EventName {
	return PasswordResetVerifiedEvent
}

type PasswordChanged struct {
	AccountID       uuid.UUID
	SessionsRevoked int64
}

func (*PasswordChanged) Name() events.EventName {
	return PasswordChangedEvent
}

type ProfileUpdated struct {
	AccountID uuid.UUID
	Fields    []string
}

func (*ProfileUpdated) Name() events.EventName {
	return ProfileUpdatedEvent
}

type ExternalLinked struct {
	AccountID uuid.UUID
	Provider  string
}

func (*ExternalLinked) Name() events.EventName {
	return ExternalLinkedEvent
}

type ExternalSignup struct {
	AccountID uuid.UUID
	Provider  string
}

func (*ExternalSignup) Name() events.EventName {
	return ExternalSignupEvent
}

type UnverifiedPurged struct {
	AccountID uuid.UUID
}

func (*UnverifiedPurged) Name() events.EventName {
	return UnverifiedPurgedEvent
}
