package account

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shoecreatify/shoecreatify-api/db"
	"github.com/shoecreatify/shoecreatify-api/events/event"
	"github.com/shoecreatify/shoecreatify-api/session"
	"go.uber.org/zap"
)

func nonEmpty(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// missingProfile returns the fields the provider can fill in without overwriting anything
func missingProfile(acc *db.Account, p *ExternalProfile) db.ProfileChanges {
	var fill db.ProfileChanges
	if acc.FirstName == "" {
		fill.FirstName = nonEmpty(p.FirstName)
	}
	if acc.LastName == "" {
		fill.LastName = nonEmpty(p.LastName)
	}
	if acc.ProfileImage == nil || *acc.ProfileImage == "" {
		if validImageURL(p.Picture) {
			fill.ProfileImage = &p.Picture
		}
	}
	return fill
}

// ExternalSignIn finds or creates the account behind an external identity and starts a session.
// Lookup order is the provider subject, then the email address which gets linked to the subject.
func (s *Service) ExternalSignIn(ctx context.Context, p ExternalProfile) (*Authenticated, error) {
	email := NormalizeEmail(p.Email)
	if p.Subject == "" || !s.validator.ValidEmail(email) {
		return nil, &ValidationError{Message: "External profile is missing an id or a valid email"}
	}
	if p.Provider == "" {
		p.Provider = db.AccountTypeGoogle
	}

	acc, err := s.store.AccountByGoogleID(ctx, p.Subject)
	switch {
	case err == nil:
	case errors.Is(err, db.ErrNotFound):
		acc, err = s.linkOrCreate(ctx, email, &p)
		if err != nil {
			return nil, err
		}
	default:
		return nil, s.storeErr("lookup external account", err)
	}

	if err := s.store.RecordLogin(ctx, acc.ID, p.IP, p.UserAgent); err != nil {
		return nil, s.storeErr("record login", err)
	}
	sess, err := s.sessions.Start(ctx, acc.ID, false, session.Client{IP: p.IP, UserAgent: p.UserAgent})
	if err != nil {
		return nil, s.storeErr("start session", err)
	}
	s.dispatcher.Dispatch(ctx, &event.AccountLogin{AccountID: acc.ID, IP: p.IP, Method: p.Provider})
	now := s.now()
	acc.LastLogin = &now
	return &Authenticated{Account: acc, Session: sess}, nil
}

func (s *Service) linkOrCreate(ctx context.Context, email string, p *ExternalProfile) (*db.Account, error) {
	existing, err := s.store.AccountByEmail(ctx, email)
	if err == nil {
		return s.link(ctx, existing, p)
	}
	if !errors.Is(err, db.ErrNotFound) {
		return nil, s.storeErr("lookup account", err)
	}

	subject := p.Subject
	id, err := s.store.InsertAccount(ctx, db.NewAccount{
		Email:              email,
		GoogleID:           &subject,
		AccountType:        db.AccountTypeGoogle,
		FirstName:          strings.TrimSpace(p.FirstName),
		LastName:           strings.TrimSpace(p.LastName),
		ProfileImage:       missingProfile(&db.Account{}, p).ProfileImage,
		RegistrationStatus: db.StatusCompleted,
		IsEmailVerified:    true,
		RegistrationIP:     p.IP,
		UserAgent:          p.UserAgent,
	})
	if err != nil {
		if errors.Is(err, db.ErrAlreadyExists) {
			// created by a concurrent callback for the same identity
			acc, lookupErr := s.store.AccountByGoogleID(ctx, p.Subject)
			if lookupErr == nil {
				return acc, nil
			}
			return nil, ErrAccountExists
		}
		return nil, s.storeErr("insert external account", err)
	}
	s.dispatcher.Dispatch(ctx, &event.ExternalSignup{AccountID: id, Provider: p.Provider})
	return s.reload(ctx, id)
}

func (s *Service) link(ctx context.Context, acc *db.Account, p *ExternalProfile) (*db.Account, error) {
	if acc.GoogleID != nil && *acc.GoogleID != p.Subject {
		return nil, &ExternalAccountError{AccountType: acc.AccountType}
	}
	// linking by email is only safe when the provider vouches for the address
	if !p.EmailVerified {
		return nil, ErrEmailNotVerified
	}
	ok, err := s.store.LinkGoogleIdentity(ctx, acc.ID, p.Subject, missingProfile(acc, p))
	if err != nil {
		if errors.Is(err, db.ErrAlreadyExists) {
			return nil, ErrAccountExists
		}
		return nil, s.storeErr("link external identity", err)
	}
	if ok {
		s.log.Info("linked external identity to existing account",
			zap.String("account", acc.ID.String()),
			zap.String("provider", p.Provider))
		s.dispatcher.Dispatch(ctx, &event.ExternalLinked{AccountID: acc.ID, Provider: p.Provider})
	}
	if acc.RegistrationStatus == db.StatusPendingVerification {
		activated, err := s.store.ActivateAccount(ctx, acc.ID)
		if err != nil {
			return nil, s.storeErr("activate account", err)
		}
		if activated {
			s.dispatcher.Dispatch(ctx, &event.AccountVerified{AccountID: acc.ID, Method: p.Provider})
		}
	}
	return s.reload(ctx, acc.ID)
}

func (s *Service) reload(ctx context.Context, id uuid.UUID) (*db.Account, error) {
	acc, err := s.store.AccountByID(ctx, id)
	if err != nil {
		return nil, s.storeErr("reload account", err)
	}
	return acc, nil
}
