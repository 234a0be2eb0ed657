package identity

import (
	"errors"
	"net/http"

	"github.com/shoecreatify/shoecreatify-api/account"
	"github.com/shoecreatify/shoecreatify-api/api/auth"
	"go.uber.org/zap"
)

func (i *IdentityRessource) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !i.decode(w, r, &req) {
		return
	}
	client := clientOf(r)
	authenticated, err := i.lifecycle.Login(r.Context(), account.LoginRequest{
		Email:      req.Email,
		Password:   req.Password,
		RememberMe: req.RememberMe,
		IP:         client.IP,
		UserAgent:  client.UserAgent,
	})
	if err != nil {
		resp := i.failureFor(r, err, routeFailures{
			server: "Login failed due to server error. Please try again.",
			external: failure{
				http.StatusUnauthorized,
				"Please use Google to sign in with this account",
			},
		})
		if errors.Is(err, account.ErrEmailNotVerified) {
			verified := false
			resp.IsEmailVerified = &verified
			resp.Email = account.NormalizeEmail(req.Email)
		}
		i.respond(w, r, resp)
		return
	}
	i.startSession(w, authenticated.Session)
	i.respond(w, r, &userResponse{
		Success: true,
		Message: "Login successful",
		User:    viewOf(authenticated.Account, true),
	})
}

func (i *IdentityRessource) logout(w http.ResponseWriter, r *http.Request) {
	if err := i.lifecycle.Logout(r.Context(), auth.SessionToken(r.Context())); err != nil {
		i.log.Error("logout failed", zap.Error(err))
		i.respond(w, r, &envelope{Message: "Logout failed", StatusCode: http.StatusInternalServerError})
		return
	}
	http.SetCookie(w, i.cookies.ClearCookie())
	i.respond(w, r, &envelope{Success: true, Message: "Logged out successfully"})
}

func (i *IdentityRessource) googleSignIn(w http.ResponseWriter, r *http.Request) {
	if i.google == nil {
		i.respond(w, r, &envelope{Message: "Google sign in is not enabled", StatusCode: http.StatusNotFound})
		return
	}
	state := i.state()
	http.SetCookie(w, i.stateCookie(state, int(oauthStateTTL.Seconds())))
	http.Redirect(w, r, i.google.AuthCodeURL(state), http.StatusFound)
}

func (i *IdentityRessource) googleCallback(w http.ResponseWriter, r *http.Request) {
	if i.google == nil {
		i.respond(w, r, &envelope{Message: "Google sign in is not enabled", StatusCode: http.StatusNotFound})
		return
	}
	failed := i.frontend("/login?error=auth_failed")
	http.SetCookie(w, i.stateCookie("", -1))

	q := r.URL.Query()
	c, err := r.Cookie(oauthStateCookie)
	if err != nil || c.Value == "" || c.Value != q.Get("state") {
		i.log.Info("google callback with missing or mismatched state")
		http.Redirect(w, r, failed, http.StatusFound)
		return
	}
	if q.Get("error") != "" || q.Get("code") == "" {
		http.Redirect(w, r, failed, http.StatusFound)
		return
	}
	profile, err := i.google.Exchange(r.Context(), q.Get("code"))
	if err != nil {
		i.log.Warn("google code exchange failed", zap.Error(err))
		http.Redirect(w, r, failed, http.StatusFound)
		return
	}
	client := clientOf(r)
	profile.IP = client.IP
	profile.UserAgent = client.UserAgent
	authenticated, err := i.lifecycle.ExternalSignIn(r.Context(), *profile)
	if err != nil {
		i.log.Warn("google sign in failed", zap.Error(err))
		http.Redirect(w, r, failed, http.StatusFound)
		return
	}
	i.startSession(w, authenticated.Session)
	http.Redirect(w, r, i.frontend("/dashboard?login=success"), http.StatusFound)
}
