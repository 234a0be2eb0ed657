package account

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/shoecreatify/shoecreatify-api/db"
)

const (
	maxEmailLength         = 100
	defaultNameMinLength   = 3
	defaultPasswordMinimum = 6
	profileNameMinLength   = 2
)

// NormalizeEmail lower cases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type inputValidator struct {
	validate          *validator.Validate
	nameMinLength     int
	passwordMinLength int
}

func newInputValidator(nameMinLength int, passwordMinLength int) *inputValidator {
	if nameMinLength <= 0 {
		nameMinLength = defaultNameMinLength
	}
	if passwordMinLength <= 0 {
		passwordMinLength = defaultPasswordMinimum
	}
	return &inputValidator{
		validate:          validator.New(),
		nameMinLength:     nameMinLength,
		passwordMinLength: passwordMinLength,
	}
}

// ValidEmail reports whether the address is syntactically valid and not too long
func (v *inputValidator) ValidEmail(email string) bool {
	return v.validate.Var(email, fmt.Sprintf("required,email,max=%d", maxEmailLength)) == nil
}

// ValidOTP reports whether the value is exactly six digits
func (v *inputValidator) ValidOTP(otp string) bool {
	return v.validate.Var(otp, "len=6,numeric") == nil
}

func (v *inputValidator) validPassword(password string) bool {
	return utf8.RuneCountInString(password) >= v.passwordMinLength
}

func (v *inputValidator) passwordProblem() string {
	return fmt.Sprintf("Password must be at least %d characters", v.passwordMinLength)
}

func (v *inputValidator) register(req *RegisterRequest) error {
	var problems []string
	if utf8.RuneCountInString(strings.TrimSpace(req.FirstName)) < v.nameMinLength {
		problems = append(problems, fmt.Sprintf("First name must be at least %d characters", v.nameMinLength))
	}
	if utf8.RuneCountInString(strings.TrimSpace(req.LastName)) < v.nameMinLength {
		problems = append(problems, fmt.Sprintf("Last name must be at least %d characters", v.nameMinLength))
	}
	if !v.ValidEmail(req.Email) {
		problems = append(problems, "Valid email is required")
	}
	if !v.validPassword(req.Password) {
		problems = append(problems, v.passwordProblem())
	}
	if len(problems) > 0 {
		return &ValidationError{Message: "Validation failed", Problems: problems}
	}
	return nil
}

func (v *inputValidator) login(req *LoginRequest) error {
	if !v.ValidEmail(req.Email) {
		return &ValidationError{Message: "Valid email is required"}
	}
	if req.Password == "" {
		return &ValidationError{Message: "Password is required"}
	}
	return nil
}

func (v *inputValidator) email(email string) error {
	if !v.ValidEmail(email) {
		return &ValidationError{Message: "Valid email is required"}
	}
	return nil
}

func (v *inputValidator) emailAndOTP(email string, otp string, message string) error {
	if !v.ValidEmail(email) || !v.ValidOTP(otp) {
		return &ValidationError{Message: message}
	}
	return nil
}

func (v *inputValidator) resetPassword(req *ResetPasswordRequest) error {
	if !v.ValidEmail(req.Email) || req.Password == "" {
		return &ValidationError{Message: "Email and password are required"}
	}
	if req.OTP != "" && !v.ValidOTP(req.OTP) {
		return &ValidationError{Message: "Valid email and OTP are required"}
	}
	if !v.validPassword(req.Password) {
		return &ValidationError{Message: v.passwordProblem()}
	}
	return nil
}

func validImageURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// profile trims the supplied fields and returns the changes to apply
func (v *inputValidator) profile(req *ProfileUpdate) (changes db.ProfileChanges, err error) {
	if req.ProfileImage != "" {
		image := strings.TrimSpace(req.ProfileImage)
		if !validImageURL(image) {
			return changes, &ValidationError{Message: "Invalid image URL"}
		}
		changes.ProfileImage = &image
	}
	if req.FirstName != "" {
		name := strings.TrimSpace(req.FirstName)
		if utf8.RuneCountInString(name) < profileNameMinLength {
			return changes, &ValidationError{Message: "First name must be at least 2 characters"}
		}
		changes.FirstName = &name
	}
	if req.LastName != "" {
		name := strings.TrimSpace(req.LastName)
		if utf8.RuneCountInString(name) < profileNameMinLength {
			return changes, &ValidationError{Message: "Last name must be at least 2 characters"}
		}
		changes.LastName = &name
	}
	return changes, nil
}
