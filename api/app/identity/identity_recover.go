package identity

import (
	"net/http"

	"github.com/shoecreatify/shoecreatify-api/account"
)

func (i *IdentityRessource) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if !i.decode(w, r, &req) {
		return
	}
	if err := i.lifecycle.ForgotPassword(r.Context(), req.Email); err != nil {
		i.fail(w, r, err, routeFailures{server: "Failed to send OTP. Please try again."})
		return
	}
	// identical for unknown and known addresses
	i.respond(w, r, &envelope{
		Success: true,
		Message: "If an account exists, you will receive a password reset OTP.",
	})
}

func (i *IdentityRessource) verifyResetOTP(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if !i.decode(w, r, &req) {
		return
	}
	grant, err := i.lifecycle.VerifyResetOTP(r.Context(), req.Email, req.OTP)
	if err != nil {
		i.fail(w, r, err, routeFailures{server: "Failed to verify OTP"})
		return
	}
	i.respond(w, r, &resetGrantResponse{
		Success:    true,
		Message:    "OTP verified successfully",
		ResetToken: grant.Token,
		ExpiresIn:  grant.ExpiresIn.Milliseconds(),
	})
}

func (i *IdentityRessource) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if !i.decode(w, r, &req) {
		return
	}
	err := i.lifecycle.ResetPassword(r.Context(), account.ResetPasswordRequest{
		Email:    req.Email,
		OTP:      req.OTP,
		Password: req.Password,
	})
	if err != nil {
		i.fail(w, r, err, routeFailures{server: "Password reset failed. Please try again."})
		return
	}
	i.respond(w, r, &envelope{
		Success: true,
		Message: "Password reset successful! You can now log in with your new password.",
	})
}
