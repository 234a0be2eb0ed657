package identity

import (
	"net/http"

	"github.com/shoecreatify/shoecreatify-api/account"
)

func (i *IdentityRessource) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !i.decode(w, r, &req) {
		return
	}
	client := clientOf(r)
	id, err := i.lifecycle.Register(r.Context(), account.RegisterRequest{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		IP:        client.IP,
		UserAgent: client.UserAgent,
	})
	if err != nil {
		i.fail(w, r, err, routeFailures{
			server: "Registration failed due to server error. Please try again.",
			external: failure{
				http.StatusConflict,
				"Account already exists with Google. Please use Google login.",
			},
		})
		return
	}
	i.respond(w, r, &registeredResponse{
		Success: true,
		Message: "Registration initiated! Please check your email for verification OTP.",
		Email:   account.NormalizeEmail(req.Email),
		UserID:  id,
	})
}

func (i *IdentityRessource) verified(w http.ResponseWriter, r *http.Request, auth *account.Authenticated, err error) {
	if err != nil {
		i.fail(w, r, err, routeFailures{server: "Failed to verify OTP. Please try again."})
		return
	}
	i.startSession(w, auth.Session)
	i.respond(w, r, &userResponse{
		Success:    true,
		Message:    "Email verified successfully! Redirecting to profile...",
		RedirectTo: "/profile",
		User:       viewOf(auth.Account, false),
	})
}

func (i *IdentityRessource) verifyRegistrationOTP(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if !i.decode(w, r, &req) {
		return
	}
	auth, err := i.lifecycle.VerifyRegistrationOTP(r.Context(), req.Email, req.OTP, clientOf(r))
	i.verified(w, r, auth, err)
}

// verifyEmail is called by the frontend with the query of the mailed link
func (i *IdentityRessource) verifyEmail(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	auth, err := i.lifecycle.VerifyRegistrationLink(r.Context(), q.Get("email"), q.Get("token"), clientOf(r))
	i.verified(w, r, auth, err)
}

func (i *IdentityRessource) resendRegistrationOTP(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if !i.decode(w, r, &req) {
		return
	}
	if err := i.lifecycle.ResendRegistrationOTP(r.Context(), req.Email); err != nil {
		i.fail(w, r, err, routeFailures{server: "Failed to resend OTP. Please try again."})
		return
	}
	i.respond(w, r, &envelope{Success: true, Message: "New verification OTP sent to your email"})
}
