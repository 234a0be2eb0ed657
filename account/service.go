package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shoecreatify/shoecreatify-api/config"
	"github.com/shoecreatify/shoecreatify-api/db"
	"github.com/shoecreatify/shoecreatify-api/events/event"
	"github.com/shoecreatify/shoecreatify-api/generator"
	"github.com/shoecreatify/shoecreatify-api/mailing"
	"github.com/shoecreatify/shoecreatify-api/sanitize"
	"github.com/shoecreatify/shoecreatify-api/session"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const passwordHashCost = 12

// RegisterRequest is a local sign up
type RegisterRequest struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	IP        string
	UserAgent string
}

// LoginRequest is a local sign in
type LoginRequest struct {
	Email      string
	Password   string
	RememberMe bool
	IP         string
	UserAgent  string
}

// ResetPasswordRequest completes a password reset, OTP is optional unless configured otherwise
type ResetPasswordRequest struct {
	Email    string
	OTP      string
	Password string
}

// ProfileUpdate contains the profile fields to change, empty fields are left untouched
type ProfileUpdate struct {
	FirstName    string
	LastName     string
	ProfileImage string
}

// ExternalProfile is what an external identity provider tells us about the account
type ExternalProfile struct {
	Provider      string
	Subject       string
	Email         string
	EmailVerified bool
	FirstName     string
	LastName      string
	Picture       string
	IP            string
	UserAgent     string
}

// Authenticated is an account with a freshly started session
type Authenticated struct {
	Account *db.Account
	Session *session.Session
}

// ResetGrant acknowledges a verified reset otp, the token is advisory only and never stored
type ResetGrant struct {
	Token     string
	ExpiresIn time.Duration
}

// Status is the publicly visible state of an account
type Status struct {
	Exists             bool
	AccountType        string
	IsEmailVerified    bool
	IsLocked           bool
	RegistrationStatus string
}

// Service drives the identity lifecycle:
// registration, verification, login, password reset and profile changes
type Service struct {
	store      AccountStorer
	log        *zap.Logger
	cfg        *config.BehaviourConfiguration
	sessions   SessionManager
	notifier   Notifier
	dispatcher Dispatcher
	tokens     TokenGenerator
	validator  *inputValidator
	clock      func() time.Time
	bcryptCost int
}

// New returns a new lifecycle service
func New(
	store AccountStorer,
	log *zap.Logger,
	cfg *config.BehaviourConfiguration,
	sessions SessionManager,
	notifier Notifier,
	dispatcher Dispatcher,
	tokens TokenGenerator,
) *Service {
	return &Service{
		store:      store,
		log:        log,
		cfg:        cfg,
		sessions:   sessions,
		notifier:   notifier,
		dispatcher: dispatcher,
		tokens:     tokens,
		validator:  newInputValidator(cfg.NameMinLength, cfg.PasswordMinLength),
		clock:      time.Now,
		bcryptCost: passwordHashCost,
	}
}

// ValidEmail reports whether the address would be accepted by the lifecycle operations
func (s *Service) ValidEmail(email string) bool {
	return s.validator.ValidEmail(email)
}

func (s *Service) now() time.Time {
	return s.clock().UTC()
}

func (s *Service) otpTTL() time.Duration {
	if s.cfg.OTPExpiry > 0 {
		return s.cfg.OTPExpiry
	}
	return generator.VerificationOTPTTL
}

func (s *Service) resetTTL() time.Duration {
	if s.cfg.OTPExpiry > 0 {
		return s.cfg.OTPExpiry
	}
	return generator.ResetOTPTTL
}

func (s *Service) linkTTL() time.Duration {
	if s.cfg.EmailLinkExpiry > 0 {
		return s.cfg.EmailLinkExpiry
	}
	return generator.EmailLinkTTL
}

func (s *Service) grantTTL() time.Duration {
	if s.cfg.ResetGrantExpiry > 0 && s.cfg.ResetGrantExpiry < generator.ResetLinkTTL {
		return s.cfg.ResetGrantExpiry
	}
	return generator.ResetLinkTTL
}

func (s *Service) guardFor(cred *db.AccountCredentials) *LoginGuard {
	return NewLoginGuard(
		s.cfg.AutoLockoutCount,
		s.cfg.AutoLockoutDuration,
		cred.FailedLoginAttempts,
		cred.AccountLockedUntil,
	)
}

func (s *Service) storeErr(op string, err error) error {
	s.log.Error("unexpected data store error", zap.String("operation", op), zap.Error(err))
	return fmt.Errorf("%s: %w", op, err)
}

func (s *Service) recipient(ctx context.Context, acc *db.Account) mailing.Recipient {
	return mailing.Recipient{
		Email:  acc.Email,
		Name:   acc.FirstName,
		Locale: LocaleFrom(ctx, s.cfg.DefaultLocale),
	}
}

func otpMatches(stored *string, expires *time.Time, candidate string, now time.Time) bool {
	if stored == nil || expires == nil {
		return false
	}
	if !now.Before(*expires) {
		return false
	}
	return generator.VerifyOTP(*stored, candidate)
}

func passwordMatches(hash *string, password string) bool {
	if hash == nil {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(*hash), []byte(password)) == nil
}

// Register creates a pending local account and sends the verification otp.
// A stale unverified registration for the same email is discarded first.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (uuid.UUID, error) {
	if err := s.validator.register(&req); err != nil {
		return uuid.UUID{}, err
	}
	email := NormalizeEmail(req.Email)
	existing, err := s.store.AccountByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.AccountType != db.AccountTypeLocal {
			return uuid.UUID{}, &ExternalAccountError{AccountType: existing.AccountType}
		}
		if existing.IsEmailVerified || existing.RegistrationStatus != db.StatusPendingVerification {
			return uuid.UUID{}, ErrAccountExists
		}
		deleted, err := s.store.DeleteUnverifiedAccount(ctx, existing.ID)
		if err != nil {
			return uuid.UUID{}, s.storeErr("delete unverified account", err)
		}
		if deleted {
			s.dispatcher.Dispatch(ctx, &event.UnverifiedPurged{AccountID: existing.ID})
		}
	case errors.Is(err, db.ErrNotFound):
	default:
		return uuid.UUID{}, s.storeErr("lookup account", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return uuid.UUID{}, err
	}
	passwordHash := string(hash)
	otp := s.tokens.CreateOTP()
	otpHash := s.tokens.HashOTP(otp)
	link := s.tokens.CreateHexToken()
	linkDigest := generator.DigestToken(string(link))
	now := s.now()
	otpExpires := now.Add(s.otpTTL())
	linkExpires := now.Add(s.linkTTL())

	acc := db.NewAccount{
		Email:                    email,
		PasswordHash:             &passwordHash,
		AccountType:              db.AccountTypeLocal,
		FirstName:                strings.TrimSpace(sanitize.NoLineBreaks(req.FirstName)),
		LastName:                 strings.TrimSpace(sanitize.NoLineBreaks(req.LastName)),
		RegistrationStatus:       db.StatusPendingVerification,
		VerificationOTP:          &otpHash,
		VerificationOTPExpires:   &otpExpires,
		EmailVerificationToken:   &linkDigest,
		EmailVerificationExpires: &linkExpires,
		RegistrationIP:           req.IP,
		UserAgent:                req.UserAgent,
	}
	id, err := s.store.InsertAccount(ctx, acc)
	if err != nil {
		if errors.Is(err, db.ErrAlreadyExists) {
			return uuid.UUID{}, ErrAccountExists
		}
		return uuid.UUID{}, s.storeErr("insert account", err)
	}
	s.dispatcher.Dispatch(ctx, &event.AccountRegistered{AccountID: id, Email: email, IP: req.IP})
	s.notifier.VerificationOTP(mailing.Recipient{
		Email:  email,
		Name:   acc.FirstName,
		Locale: LocaleFrom(ctx, s.cfg.DefaultLocale),
	}, string(otp), string(link))
	return id, nil
}

func (s *Service) pendingCredentials(ctx context.Context, email string) (*db.AccountCredentials, error) {
	cred, err := s.store.CredentialsByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNoPendingRegistration
		}
		return nil, s.storeErr("lookup pending account", err)
	}
	if cred.RegistrationStatus != db.StatusPendingVerification || cred.IsEmailVerified {
		return nil, ErrNoPendingRegistration
	}
	return cred, nil
}

// VerifyRegistrationOTP activates a pending account with the mailed otp and signs it in
func (s *Service) VerifyRegistrationOTP(
	ctx context.Context,
	email string,
	otp string,
	client session.Client,
) (*Authenticated, error) {
	if err := s.validator.emailAndOTP(email, otp, "Valid email and 6-digit OTP are required"); err != nil {
		return nil, err
	}
	cred, err := s.pendingCredentials(ctx, email)
	if err != nil {
		return nil, err
	}
	if !otpMatches(cred.VerificationOTP, cred.VerificationOTPExpires, otp, s.now()) {
		return nil, ErrInvalidOTP
	}
	return s.activate(ctx, cred, "otp", client)
}

// VerifyRegistrationLink activates a pending account with the token from the verification link
func (s *Service) VerifyRegistrationLink(
	ctx context.Context,
	email string,
	token string,
	client session.Client,
) (*Authenticated, error) {
	if !s.validator.ValidEmail(email) || token == "" {
		return nil, &ValidationError{Message: "Valid email and token are required"}
	}
	cred, err := s.pendingCredentials(ctx, email)
	if err != nil {
		return nil, err
	}
	if cred.EmailVerificationToken == nil || cred.EmailVerificationExpires == nil ||
		!s.now().Before(*cred.EmailVerificationExpires) ||
		!generator.VerifyTokenDigest(*cred.EmailVerificationToken, token) {
		return nil, ErrInvalidLink
	}
	return s.activate(ctx, cred, "link", client)
}

func (s *Service) activate(
	ctx context.Context,
	cred *db.AccountCredentials,
	method string,
	client session.Client,
) (*Authenticated, error) {
	ok, err := s.store.ActivateAccount(ctx, cred.ID)
	if err != nil {
		return nil, s.storeErr("activate account", err)
	}
	if !ok {
		// verified concurrently
		return nil, ErrNoPendingRegistration
	}
	s.dispatcher.Dispatch(ctx, &event.AccountVerified{AccountID: cred.ID, Method: method})
	acc, err := s.store.AccountByID(ctx, cred.ID)
	if err != nil {
		return nil, s.storeErr("reload account", err)
	}
	s.notifier.Welcome(s.recipient(ctx, acc))

	sess, err := s.sessions.Start(ctx, acc.ID, false, client)
	if err != nil {
		s.log.Error("account verified but session could not be started", zap.Error(err))
		return &Authenticated{Account: acc}, ErrSessionNotStarted
	}
	return &Authenticated{Account: acc, Session: sess}, nil
}

// ResendRegistrationOTP replaces the pending otp and link token and mails them again
func (s *Service) ResendRegistrationOTP(ctx context.Context, email string) error {
	if err := s.validator.email(email); err != nil {
		return err
	}
	cred, err := s.pendingCredentials(ctx, email)
	if err != nil {
		return err
	}
	otp := s.tokens.CreateOTP()
	link := s.tokens.CreateHexToken()
	now := s.now()
	ok, err := s.store.SetVerificationChallenge(
		ctx,
		cred.ID,
		s.tokens.HashOTP(otp),
		now.Add(s.otpTTL()),
		generator.DigestToken(string(link)),
		now.Add(s.linkTTL()),
	)
	if err != nil {
		return s.storeErr("store verification challenge", err)
	}
	if !ok {
		return ErrNoPendingRegistration
	}
	s.dispatcher.Dispatch(ctx, &event.AccountVerificationSent{AccountID: cred.ID, Resend: true})
	s.notifier.VerificationOTP(s.recipient(ctx, &cred.Account), string(otp), string(link))
	return nil
}

// Login checks the password of a verified local account and starts a session.
// A locked account is rejected before the password is looked at and no attempt is consumed.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*Authenticated, error) {
	if err := s.validator.login(&req); err != nil {
		return nil, err
	}
	cred, err := s.store.CredentialsByEmail(ctx, NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, s.storeErr("lookup credentials", err)
	}
	now := s.now()
	guard := s.guardFor(cred)
	if guard.Locked(now) {
		return nil, ErrAccountLocked
	}
	if cred.AccountType != db.AccountTypeLocal || cred.PasswordHash == nil {
		return nil, &ExternalAccountError{AccountType: cred.AccountType}
	}
	if !cred.IsEmailVerified {
		return nil, ErrEmailNotVerified
	}
	if !passwordMatches(cred.PasswordHash, req.Password) {
		state, err := s.store.RecordFailedLogin(ctx, cred.ID)
		if err != nil {
			return nil, s.storeErr("record failed login", err)
		}
		guard = NewLoginGuard(s.cfg.AutoLockoutCount, s.cfg.AutoLockoutDuration, state.Failures, state.LockedUntil)
		s.dispatcher.Dispatch(ctx, &event.AccountLoginFailed{AccountID: cred.ID, Failures: state.Failures})
		if guard.Counted(state.Failures, now) {
			until := *guard.LockedUntil()
			if err := s.store.LockAccount(ctx, cred.ID, until); err != nil {
				return nil, s.storeErr("lock account", err)
			}
			s.log.Info("account locked after repeated failures",
				zap.String("account", cred.ID.String()),
				zap.Int("failures", state.Failures))
			s.dispatcher.Dispatch(ctx, &event.AccountLocked{
				AccountID:   cred.ID,
				LockedUntil: until,
			})
		}
		return nil, ErrInvalidCredentials
	}

	if err := s.store.RecordLogin(ctx, cred.ID, req.IP, req.UserAgent); err != nil {
		return nil, s.storeErr("record login", err)
	}
	sess, err := s.sessions.Start(ctx, cred.ID, req.RememberMe, session.Client{IP: req.IP, UserAgent: req.UserAgent})
	if err != nil {
		return nil, s.storeErr("start session", err)
	}
	s.dispatcher.Dispatch(ctx, &event.AccountLogin{
		AccountID:  cred.ID,
		IP:         req.IP,
		RememberMe: req.RememberMe,
		Method:     "password",
	})
	acc := cred.Account
	acc.LastLogin = &now
	if acc.LoginAlerts {
		s.notifier.LoginAlert(s.recipient(ctx, &acc), req.IP, req.UserAgent, now)
	}
	return &Authenticated{Account: &acc, Session: sess}, nil
}

// ForgotPassword mails a reset otp to verified local accounts.
// The outcome is the same whether or not the account exists.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	if err := s.validator.email(email); err != nil {
		return err
	}
	cred, err := s.store.CredentialsByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil
		}
		return s.storeErr("lookup credentials", err)
	}
	if cred.AccountType != db.AccountTypeLocal || !cred.IsEmailVerified || cred.PasswordHash == nil {
		s.log.Debug("password reset not applicable",
			zap.String("account_type", cred.AccountType),
			zap.Bool("verified", cred.IsEmailVerified))
		return nil
	}
	otp := s.tokens.CreateOTP()
	if err := s.store.SetResetChallenge(ctx, cred.ID, s.tokens.HashOTP(otp), s.now().Add(s.resetTTL())); err != nil {
		return s.storeErr("store reset challenge", err)
	}
	s.dispatcher.Dispatch(ctx, &event.PasswordResetRequested{AccountID: cred.ID})
	s.notifier.PasswordResetOTP(s.recipient(ctx, &cred.Account), string(otp))
	return nil
}

// VerifyResetOTP checks a reset otp without consuming it
func (s *Service) VerifyResetOTP(ctx context.Context, email string, otp string) (*ResetGrant, error) {
	if err := s.validator.emailAndOTP(email, otp, "Valid email and OTP are required"); err != nil {
		return nil, err
	}
	cred, err := s.store.CredentialsByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrInvalidOTP
		}
		return nil, s.storeErr("lookup credentials", err)
	}
	if !otpMatches(cred.ResetPasswordOTP, cred.ResetPasswordOTPExpires, otp, s.now()) {
		return nil, ErrInvalidOTP
	}
	s.dispatcher.Dispatch(ctx, &event.PasswordResetVerified{AccountID: cred.ID})
	return &ResetGrant{
		Token:     string(s.tokens.CreateHexToken()),
		ExpiresIn: s.grantTTL(),
	}, nil
}

// ResetPassword replaces the password while a reset otp is outstanding.
// Every session of the account is destroyed afterwards.
func (s *Service) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	if err := s.validator.resetPassword(&req); err != nil {
		return err
	}
	cred, err := s.store.CredentialsByEmail(ctx, NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrNoActiveReset
		}
		return s.storeErr("lookup credentials", err)
	}
	if cred.ResetPasswordOTP == nil || cred.ResetPasswordOTPExpires == nil {
		return ErrNoActiveReset
	}
	now := s.now()
	if !now.Before(*cred.ResetPasswordOTPExpires) {
		return ErrResetExpired
	}
	if (s.cfg.ResetRequiresOTP || req.OTP != "") && !generator.VerifyOTP(*cred.ResetPasswordOTP, req.OTP) {
		return ErrInvalidOTP
	}
	if passwordMatches(cred.PasswordHash, req.Password) {
		return ErrSamePassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return err
	}
	if err := s.store.ResetPassword(ctx, cred.ID, string(hash)); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrNoActiveReset
		}
		return s.storeErr("reset password", err)
	}
	revoked, err := s.sessions.RevokeAll(ctx, cred.ID)
	if err != nil {
		s.log.Warn("could not revoke sessions after password reset", zap.Error(err))
	}
	s.dispatcher.Dispatch(ctx, &event.PasswordChanged{AccountID: cred.ID, SessionsRevoked: revoked})
	s.notifier.PasswordChanged(s.recipient(ctx, &cred.Account))
	return nil
}

// SetPassword replaces the password of a local account without any challenge, used by the cli
func (s *Service) SetPassword(ctx context.Context, id uuid.UUID, password string) error {
	if !s.validator.validPassword(password) {
		return &ValidationError{Message: s.validator.passwordProblem()}
	}
	cred, err := s.store.CredentialsByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrAccountNotFound
		}
		return s.storeErr("lookup credentials", err)
	}
	if cred.AccountType != db.AccountTypeLocal {
		return &ExternalAccountError{AccountType: cred.AccountType}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return err
	}
	if err := s.store.ResetPassword(ctx, id, string(hash)); err != nil {
		return s.storeErr("set password", err)
	}
	revoked, err := s.sessions.RevokeAll(ctx, id)
	if err != nil {
		s.log.Warn("could not revoke sessions after password change", zap.Error(err))
	}
	s.dispatcher.Dispatch(ctx, &event.PasswordChanged{AccountID: id, SessionsRevoked: revoked})
	return nil
}

// Logout destroys the session behind the token, an unknown token is not an error
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	id, err := s.sessions.Revoke(ctx, token)
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return nil
		}
		return err
	}
	s.dispatcher.Dispatch(ctx, &event.AccountLogout{AccountID: id})
	return nil
}

// CurrentAccount returns the public view of the signed in account
func (s *Service) CurrentAccount(ctx context.Context, id uuid.UUID) (*db.Account, error) {
	acc, err := s.store.AccountByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, s.storeErr("lookup account", err)
	}
	return acc, nil
}

// CheckAccount reports whether an account exists and in which state it is
func (s *Service) CheckAccount(ctx context.Context, email string) (*Status, error) {
	if err := s.validator.email(email); err != nil {
		return nil, err
	}
	cred, err := s.store.CredentialsByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return &Status{Exists: false}, nil
		}
		return nil, s.storeErr("lookup credentials", err)
	}
	return &Status{
		Exists:             true,
		AccountType:        cred.AccountType,
		IsEmailVerified:    cred.IsEmailVerified,
		IsLocked:           s.guardFor(cred).Locked(s.now()),
		RegistrationStatus: cred.RegistrationStatus,
	}, nil
}

// Unlock clears a lockout, returns false if the account was not locked
func (s *Service) Unlock(ctx context.Context, id uuid.UUID) (bool, error) {
	ok, err := s.store.UnlockAccount(ctx, id)
	if err != nil {
		return false, s.storeErr("unlock account", err)
	}
	if ok {
		s.dispatcher.Dispatch(ctx, &event.AccountUnlocked{AccountID: id})
	}
	return ok, nil
}

// Confirm activates a pending account without an otp, used by the cli
func (s *Service) Confirm(ctx context.Context, id uuid.UUID) (bool, error) {
	ok, err := s.store.ActivateAccount(ctx, id)
	if err != nil {
		return false, s.storeErr("activate account", err)
	}
	if ok {
		s.dispatcher.Dispatch(ctx, &event.AccountVerified{AccountID: id, Method: "manual"})
	}
	return ok, nil
}

// UpdateProfile changes names and the profile image of an account
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, update ProfileUpdate) (*db.Account, error) {
	changes, err := s.validator.profile(&update)
	if err != nil {
		return nil, err
	}
	if changes.Empty() {
		return nil, ErrNoChanges
	}
	ok, err := s.store.UpdateProfile(ctx, id, changes)
	if err != nil {
		return nil, s.storeErr("update profile", err)
	}
	if !ok {
		return nil, ErrAccountNotFound
	}
	fields := make([]string, 0, 3)
	if changes.FirstName != nil {
		fields = append(fields, "firstName")
	}
	if changes.LastName != nil {
		fields = append(fields, "lastName")
	}
	if changes.ProfileImage != nil {
		fields = append(fields, "profileImage")
	}
	s.dispatcher.Dispatch(ctx, &event.ProfileUpdated{AccountID: id, Fields: fields})
	return s.CurrentAccount(ctx, id)
}
