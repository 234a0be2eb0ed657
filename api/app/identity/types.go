package identity

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/shoecreatify/shoecreatify-api/db"
)

type registerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type otpRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type loginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

// the advisory resetToken sent along is ignored
type resetPasswordRequest struct {
	Email    string `json:"email"`
	OTP      string `json:"otp"`
	Password string `json:"password"`
}

type updateProfileRequest struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	ProfileImage string `json:"profileImage"`
}

type preferencesView struct {
	EmailNotifications bool `json:"emailNotifications"`
	LoginAlerts        bool `json:"loginAlerts"`
	TwoFactorAuth      bool `json:"twoFactorAuth"`
}

type userView struct {
	LegacyID        uuid.UUID        `json:"_id"`
	ID              uuid.UUID        `json:"id"`
	Email           string           `json:"email"`
	FirstName       string           `json:"firstName"`
	LastName        string           `json:"lastName"`
	FullName        string           `json:"fullName"`
	ProfileImage    *string          `json:"profileImage"`
	AccountType     string           `json:"accountType"`
	IsEmailVerified bool             `json:"isEmailVerified"`
	CreatedAt       time.Time        `json:"createdAt"`
	Preferences     *preferencesView `json:"preferences,omitempty"`
}

func viewOf(acc *db.Account, withPreferences bool) *userView {
	v := &userView{
		LegacyID:        acc.ID,
		ID:              acc.ID,
		Email:           acc.Email,
		FirstName:       acc.FirstName,
		LastName:        acc.LastName,
		FullName:        strings.TrimSpace(acc.FirstName + " " + acc.LastName),
		ProfileImage:    acc.ProfileImage,
		AccountType:     acc.AccountType,
		IsEmailVerified: acc.IsEmailVerified,
		CreatedAt:       acc.CreatedAt,
	}
	if withPreferences {
		v.Preferences = &preferencesView{
			EmailNotifications: acc.EmailNotifications,
			LoginAlerts:        acc.LoginAlerts,
			TwoFactorAuth:      acc.TwoFactorEnabled,
		}
	}
	return v
}

// envelope is the response shape shared by every endpoint
type envelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Errors  []string `json:"errors,omitempty"`

	AccountType     string `json:"accountType,omitempty"`
	IsEmailVerified *bool  `json:"isEmailVerified,omitempty"`
	Email           string `json:"email,omitempty"`

	StatusCode int `json:"-"`
}

func (e *envelope) Render(w http.ResponseWriter, r *http.Request) error {
	if e.StatusCode != 0 {
		render.Status(r, e.StatusCode)
	}
	return nil
}

type registeredResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	Email   string    `json:"email"`
	UserID  uuid.UUID `json:"userId"`
}

func (*registeredResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, http.StatusCreated)
	return nil
}

type userResponse struct {
	Success    bool      `json:"success"`
	Message    string    `json:"message,omitempty"`
	RedirectTo string    `json:"redirectTo,omitempty"`
	User       *userView `json:"user"`
}

func (*userResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type resetGrantResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	ResetToken string `json:"resetToken"`
	// ExpiresIn is in milliseconds
	ExpiresIn int64 `json:"expiresIn"`
}

func (*resetGrantResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type accountStatusResponse struct {
	Success            bool   `json:"success"`
	Exists             bool   `json:"exists"`
	Message            string `json:"message,omitempty"`
	AccountType        string `json:"accountType,omitempty"`
	IsEmailVerified    *bool  `json:"isEmailVerified,omitempty"`
	IsLocked           *bool  `json:"isLocked,omitempty"`
	RegistrationStatus string `json:"registrationStatus,omitempty"`
}

func (*accountStatusResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type csrfTokenResponse struct {
	Success   bool   `json:"success"`
	CSRFToken string `json:"csrfToken"`
}

func (*csrfTokenResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type endpointsResponse struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message"`
	Endpoints map[string]string `json:"endpoints"`
}

func (*endpointsResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}
