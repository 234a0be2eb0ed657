package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/shoecreatify/shoecreatify-api/session"
	"go.uber.org/zap"
)

type contextKey string

const (
	accountIDContextKey    contextKey = "account_id"
	sessionTokenContextKey contextKey = "session_token"
)

// SessionResolver maps the session cookie to an account
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (uuid.UUID, error)
	TokenFromRequest(r *http.Request) string
}

// Sessions loads the signed in account into the request context, requests without a valid session pass unchanged
func Sessions(resolver SessionResolver, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := resolver.TokenFromRequest(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), sessionTokenContextKey, token)
			id, err := resolver.Resolve(ctx, token)
			if err != nil {
				if !errors.Is(err, session.ErrNoSession) {
					log.Error("unable to resolve session", zap.Error(err))
				}
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
			ctx = context.WithValue(ctx, accountIDContextKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type unauthorized struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Required rejects requests without a signed in account
func Required(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := AccountID(r.Context()); !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, &unauthorized{Success: false, Message: "Not authenticated. Please log in."})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AccountID returns the signed in account
func AccountID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(accountIDContextKey).(uuid.UUID)
	return id, ok
}

// SessionToken returns the raw session token sent with the request, valid or not
func SessionToken(ctx context.Context) string {
	token, _ := ctx.Value(sessionTokenContextKey).(string)
	return token
}
