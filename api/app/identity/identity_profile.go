package identity

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shoecreatify/shoecreatify-api/account"
	"github.com/shoecreatify/shoecreatify-api/api/auth"
	"go.uber.org/zap"
)

func (i *IdentityRessource) me(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.AccountID(r.Context())
	acc, err := i.lifecycle.CurrentAccount(r.Context(), id)
	if err != nil {
		i.fail(w, r, err, routeFailures{server: "Failed to get user"})
		return
	}
	i.respond(w, r, &userResponse{Success: true, User: viewOf(acc, false)})
}

// user is the soft variant of me, kept for older clients
func (i *IdentityRessource) user(w http.ResponseWriter, r *http.Request) {
	if id, ok := auth.AccountID(r.Context()); ok {
		acc, err := i.lifecycle.CurrentAccount(r.Context(), id)
		if err == nil {
			i.respond(w, r, &userResponse{Success: true, User: viewOf(acc, false)})
			return
		}
		if !errors.Is(err, account.ErrAccountNotFound) {
			i.log.Error("unable to load signed in account", zap.Error(err))
		}
	}
	i.respond(w, r, &userResponse{Success: false, Message: "Not authenticated"})
}

func (i *IdentityRessource) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if !i.decode(w, r, &req) {
		return
	}
	id, _ := auth.AccountID(r.Context())
	acc, err := i.lifecycle.UpdateProfile(r.Context(), id, account.ProfileUpdate{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		i.fail(w, r, err, routeFailures{server: "Failed to update profile"})
		return
	}
	i.respond(w, r, &userResponse{
		Success: true,
		Message: "Profile updated successfully",
		User:    viewOf(acc, false),
	})
}

func (i *IdentityRessource) checkAccount(w http.ResponseWriter, r *http.Request) {
	status, err := i.lifecycle.CheckAccount(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		i.fail(w, r, err, routeFailures{server: "Failed to check account status"})
		return
	}
	if !status.Exists {
		i.respond(w, r, &accountStatusResponse{Success: true, Exists: false, Message: "Account not found"})
		return
	}
	i.respond(w, r, &accountStatusResponse{
		Success:            true,
		Exists:             true,
		AccountType:        status.AccountType,
		IsEmailVerified:    &status.IsEmailVerified,
		IsLocked:           &status.IsLocked,
		RegistrationStatus: status.RegistrationStatus,
	})
}
