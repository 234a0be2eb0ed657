package identity

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"github.com/shoecreatify/shoecreatify-api/account"
	"go.uber.org/zap"
)

type failure struct {
	status  int
	message string
}

// failures maps the lifecycle errors to their client response
var failures = []struct {
	err error
	failure
}{
	{account.ErrAccountExists, failure{http.StatusConflict, "An account with this email already exists. Try logging in instead."}},
	{account.ErrNoPendingRegistration, failure{http.StatusNotFound, "No pending registration found. Please register again."}},
	{account.ErrAccountNotFound, failure{http.StatusNotFound, "User not found"}},
	{account.ErrInvalidOTP, failure{http.StatusBadRequest, "Invalid or expired OTP"}},
	{account.ErrInvalidLink, failure{http.StatusBadRequest, "Invalid or expired verification link"}},
	{account.ErrInvalidCredentials, failure{http.StatusUnauthorized, "Invalid email or password"}},
	{account.ErrAccountLocked, failure{http.StatusLocked, "Account is temporarily locked. Try again later."}},
	{account.ErrEmailNotVerified, failure{http.StatusForbidden, "Please verify your email before logging in."}},
	{account.ErrNoActiveReset, failure{http.StatusBadRequest, "No active OTP found. Please request a new one."}},
	{account.ErrResetExpired, failure{http.StatusBadRequest, "OTP has expired. Please request a new one."}},
	{account.ErrSamePassword, failure{http.StatusBadRequest, "New password cannot be the same as old password"}},
	{account.ErrNoChanges, failure{http.StatusBadRequest, "No data provided for update"}},
	{account.ErrSessionNotStarted, failure{http.StatusInternalServerError, "Verified, but failed to start session. Please log in."}},
}

// route specific parts of the error response
type routeFailures struct {
	// server is the message for unexpected errors
	server string
	// external answers an operation hitting an account of another provider
	external failure
}

func (i *IdentityRessource) fail(w http.ResponseWriter, r *http.Request, err error, rf routeFailures) {
	i.respond(w, r, i.failureFor(r, err, rf))
}

func (i *IdentityRessource) failureFor(r *http.Request, err error, rf routeFailures) *envelope {
	var verr *account.ValidationError
	if errors.As(err, &verr) {
		return &envelope{
			Message:    verr.Message,
			Errors:     verr.Problems,
			StatusCode: http.StatusBadRequest,
		}
	}
	var ext *account.ExternalAccountError
	if errors.As(err, &ext) {
		if rf.external.status == 0 {
			rf.external = failure{http.StatusConflict, "This account uses another sign in method."}
		}
		return &envelope{
			Message:     rf.external.message,
			AccountType: ext.AccountType,
			StatusCode:  rf.external.status,
		}
	}
	for _, f := range failures {
		if errors.Is(err, f.err) {
			return &envelope{Message: f.message, StatusCode: f.status}
		}
	}
	i.log.Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	return &envelope{Message: rf.server, StatusCode: http.StatusInternalServerError}
}

func (i *IdentityRessource) badRequest(w http.ResponseWriter, r *http.Request, message string) {
	i.respond(w, r, &envelope{Message: message, StatusCode: http.StatusBadRequest})
}

func (i *IdentityRessource) respond(w http.ResponseWriter, r *http.Request, resp render.Renderer) {
	if err := render.Render(w, r, resp); err != nil {
		i.log.Error("unable to render response", zap.Error(err))
	}
}
