package db

import (
	"context"

	"github.com/shoecreatify/shoecreatify-api/db/tables"
	"github.com/shoecreatify/shoecreatify-api/events"
	"github.com/shoecreatify/shoecreatify-api/events/event"
	"go.uber.org/zap"
)

// Auditor is a way to write audit log events into a persistent store
type Auditor interface {
	addToAuditLog(ctx context.Context, event string, payload tables.AuditPayload) error
}

type auditPayload func(ev events.Event) tables.AuditPayload

// auditListener persists a single event type into the audit log
type auditListener struct {
	store   Auditor
	log     *zap.Logger
	name    events.EventName
	payload auditPayload
}

func (l *auditListener) ForEvent() events.EventName {
	return l.name
}

func (l *auditListener) Handle(ctx context.Context, ev events.Event) error {
	err := l.store.addToAuditLog(ctx, string(l.name), l.payload(ev))
	if err != nil {
		l.log.Warn("Could not persist event to audit log", zap.Error(err), zap.String("event", string(l.name)))
	}
	return nil
}

func toString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// BootstrapListeners registers all the event listeners from this package
func BootstrapListeners(store Auditor, log *zap.Logger) []events.EventListener {
	payloads := map[events.EventName]auditPayload{
		event.AccountRegisteredEvent: func(ev events.Event) tables.AuditPayload {
			e := ev.(*event.AccountRegistered)
			return tables.AuditPayload{"account_id": e.AccountID.String(), "email": e.Email, "ip": e.IP}
		},
		event.AccountVerifiedEvent: func(ev events.Event) tables.AuditPayload {
			e := ev.(*event.AccountVerified)
			return tables.AuditPayload{"account_id": e.AccountID.String(), "method": e.Method}
		},
		event.AccountVerificationSentEvent: func(ev events.Event) tables.AuditPayload {
			e := ev.(*event.AccountVerificationSent)
			return tables.AuditPayload{"account_id": e.AccountID.String(), "resend": toString(e.Resend)}
		},
		event.AccountLoginEvent: func(ev events.Event) tables.AuditPayload {
			e := ev.(*event.AccountLogin)
			return tables.AuditPayload{
				"account_id":  e.AccountID.String(),
				"ip":          e.IP,
				"remember_me": toString(e.RememberMe),
				"method":      e.Method,
			}
		},
		event.AccountLoginFailedEvent: func(ev events.Event) tables.AuditPayload {
			e := ev.(*event.AccountLoginFailed)
			return tables.AuditPayload{"account_id": e.AccountID.String(), "failures": e.Failures}
		},
		event.AccountLockedEvent: func(ev events.Event) tables.AuditPayload {
			e := ev.(*event.AccountLocked)
			return tables.AuditPayload{
				"account_id":   e.AccountID.String(),
				"locked_until": e.LockedUntil.UTC().Format("2006-01-02 15:04:05"),
			}
		},
		event.AccountUnlockedEvent: func(ev events.Event) tables.AuditPayload {
			e := ev.(*event.AccountUnlocked)
			return tables.AuditPayload{"account_id": e.AccountID.String()}
		},
		event.AccountLogoutEvent: func(ev events.Event) tables.AuditPayload {
			e := ev.(*event.AccountLogout)
			return tables.AuditPayload{"account_id": e.AccountID.String()}
		},
		event.PasswordResetRequestedEvent: func(ev events.Event) tables.AuditPayload {
			e := ev.(*event.PasswordResetRequested)
			return tables.AuditPayload{"account_id": e.AccountID.String()}
		},
		event.PasswordResetVerifiedEvent: func(ev events.Event) tables.AuditPayload {
			e := ev.(*event.PasswordResetVerified)
			return tables.AuditPayload{"account_id": e.AccountID.String()}
		},
		event.PasswordChangedEvent: func(ev events.Event) tables.AuditPayload {
			e := ev.(*event.PasswordChanged)
			return tables.AuditPayload{
				"account_id":       e.AccountID.String(),
				"sessions_revoked": e.SessionsRevoked,
			}
		},
		event.ProfileUpdatedEvent: func(ev events.Event) tables.AuditPayload {
			e := ev.(*event.ProfileUpdated)
			return tables.AuditPayload{"account_id": e.AccountID.String(), "fields": e.Fields}
		},
		event.ExternalLinkedEvent: func(ev events.Event) tables.AuditPayload {
			e := ev.(*event.ExternalLinked)
			return tables.AuditPayload{"account_id": e.AccountID.String(), "provider": e.Provider}
		},
		event.ExternalSignupEvent: func(ev events.Event) tables.AuditPayload {
			e := ev.(*event.ExternalSignup)
			return tables.AuditPayload{"account_id": e.AccountID.String(), "provider": e.Provider}
		},
		event.UnverifiedPurgedEvent: func(ev events.Event) tables.AuditPayload {
			e := ev.(*event.UnverifiedPurged)
			return tables.AuditPayload{"account_id": e.AccountID.String()}
		},
	}
	listeners := make([]events.EventListener, 0, len(payloads))
	for name, payload := range payloads {
		listeners = append(listeners, &auditListener{
			store:   store,
			log:     log,
			name:    name,
			payload: payload,
		})
	}
	return listeners
}
