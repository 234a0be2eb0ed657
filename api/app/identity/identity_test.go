package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/shoecreatify/shoecreatify-api/account"
	"github.com/shoecreatify/shoecreatify-api/api/auth"
	"github.com/shoecreatify/shoecreatify-api/config"
	"github.com/shoecreatify/shoecreatify-api/db"
	"github.com/shoecreatify/shoecreatify-api/ratelimit"
	"github.com/shoecreatify/shoecreatify-api/session"
	"github.com/steinfletcher/apitest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

const cookieName = "shoecreatify.sid"

type fakeResolver struct {
	sessions map[string]uuid.UUID
}

func (f *fakeResolver) Resolve(_ context.Context, token string) (uuid.UUID, error) {
	id, ok := f.sessions[token]
	if !ok {
		return uuid.UUID{}, session.ErrNoSession
	}
	return id, nil
}

func (f *fakeResolver) TokenFromRequest(r *http.Request) string {
	c, err := r.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

type fakeGoogle struct {
	profile *account.ExternalProfile
	err     error
}

func (f *fakeGoogle) AuthCodeURL(state string) string {
	return "https://accounts.google.com/o/oauth2/auth?state=" + state
}

func (f *fakeGoogle) Exchange(context.Context, string) (*account.ExternalProfile, error) {
	return f.profile, f.err
}

type testRouter struct {
	handler   http.Handler
	lifecycle *lifecycleMock
	resolver  *fakeResolver
}

func newTestRouter(t *testing.T, google ExternalProvider, limiter RouteLimiter) *testRouter {
	lc := &lifecycleMock{}
	t.Cleanup(func() { lc.AssertExpectations(t) })
	resolver := &fakeResolver{sessions: map[string]uuid.UUID{}}
	cookies := session.NewManager(nil, zap.NewNop(), &config.SessionConfiguration{}, false)
	res := NewIdentityRessource(
		zaptest.NewLogger(t),
		&config.BehaviourConfiguration{FrontendURL: "https://shoe.test/"},
		&config.ServerConfiguration{},
		lc,
		cookies,
		google,
		limiter,
	)
	r := chi.NewRouter()
	r.Use(auth.Sessions(resolver, zap.NewNop()))
	r.Mount("/api/auth", res.Router())
	return &testRouter{handler: r, lifecycle: lc, resolver: resolver}
}

var created = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

func testAccount() *db.Account {
	return &db.Account{
		ID:                 uuid.MustParse("0b9f5a44-2b2e-4c5a-9d8e-1f2a3b4c5d6e"),
		Email:              "a@x.com",
		AccountType:        db.AccountTypeLocal,
		FirstName:          "Ann",
		LastName:           "Lee",
		RegistrationStatus: db.StatusCompleted,
		IsEmailVerified:    true,
		EmailNotifications: true,
		CreatedAt:          created,
	}
}

func TestLoginSuccessSetsCookie(t *testing.T) {
	tr := newTestRouter(t, nil, nil)
	acc := testAccount()
	tr.lifecycle.On("Login", mock.Anything, mock.MatchedBy(func(req account.LoginRequest) bool {
		return req.Email == "a@x.com" && req.Password == "secret1" && req.RememberMe
	})).Return(&account.Authenticated{
		Account: acc,
		Session: &session.Session{Token: "tok", AccountID: acc.ID, ExpiresAt: time.Now().Add(time.Hour), Persistent: true},
	}, nil)

	apitest.New().
		Handler(tr.handler).
		Post("/api/auth/login").
		JSON(`{"email":"a@x.com","password":"secret1","rememberMe":true}`).
		Expect(t).
		Status(http.StatusOK).
		CookiePresent(cookieName).
		Body(fmt.Sprintf(`{
			"success": true,
			"message": "Login successful",
			"user": {
				"_id": "%[1]s",
				"id": "%[1]s",
				"email": "a@x.com",
				"firstName": "Ann",
				"lastName": "Lee",
				"fullName": "Ann Lee",
				"profileImage": null,
				"accountType": "local",
				"isEmailVerified": true,
				"createdAt": "2024-01-02T03:04:05Z",
				"preferences": {"emailNotifications": true, "loginAlerts": false, "twoFactorAuth": false}
			}
		}`, acc.ID)).
		End()
}

func TestLoginFailures(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{
			"locked", account.ErrAccountLocked, http.StatusLocked,
			`{"success":false,"message":"Account is temporarily locked. Try again later."}`,
		},
		{
			"invalid credentials", account.ErrInvalidCredentials, http.StatusUnauthorized,
			`{"success":false,"message":"Invalid email or password"}`,
		},
		{
			"google account", &account.ExternalAccountError{AccountType: "google"}, http.StatusUnauthorized,
			`{"success":false,"message":"Please use Google to sign in with this account","accountType":"google"}`,
		},
		{
			"unverified", account.ErrEmailNotVerified, http.StatusForbidden,
			`{"success":false,"message":"Please verify your email before logging in.","isEmailVerified":false,"email":"a@x.com"}`,
		},
		{
			"validation", &account.ValidationError{Message: "Password is required"}, http.StatusBadRequest,
			`{"success":false,"message":"Password is required"}`,
		},
		{
			"store failure", fmt.Errorf("lookup credentials: %w", errors.New("connection refused")), http.StatusInternalServerError,
			`{"success":false,"message":"Login failed due to server error. Please try again."}`,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tr := newTestRouter(t, nil, nil)
			tr.lifecycle.On("Login", mock.Anything, mock.AnythingOfType("account.LoginRequest")).Return(nil, c.err)
			apitest.New().
				Handler(tr.handler).
				Post("/api/auth/login").
				JSON(`{"email":"A@x.com ","password":"secret1"}`).
				Expect(t).
				Status(c.status).
				CookieNotPresent(cookieName).
				Body(c.body).
				End()
		})
	}
}

func TestRegisterResponses(t *testing.T) {
	tr := newTestRouter(t, nil, nil)
	id := uuid.MustParse("5d1e8f2a-0c3b-4a6d-9e7f-8a1b2c3d4e5f")
	tr.lifecycle.On("Register", mock.Anything, mock.MatchedBy(func(req account.RegisterRequest) bool {
		return req.Email == "ann@x.com"
	})).Return(id, nil).Once()
	tr.lifecycle.On("Register", mock.Anything, mock.MatchedBy(func(req account.RegisterRequest) bool {
		return req.Email == "g@x.com"
	})).Return(uuid.UUID{}, &account.ExternalAccountError{AccountType: "google"}).Once()
	tr.lifecycle.On("Register", mock.Anything, mock.MatchedBy(func(req account.RegisterRequest) bool {
		return req.Email == "dup@x.com"
	})).Return(uuid.UUID{}, account.ErrAccountExists).Once()
	tr.lifecycle.On("Register", mock.Anything, mock.MatchedBy(func(req account.RegisterRequest) bool {
		return req.Email == "bad"
	})).Return(uuid.UUID{}, &account.ValidationError{
		Message:  "Validation failed",
		Problems: []string{"Valid email is required"},
	}).Once()

	apitest.New().
		Handler(tr.handler).
		Post("/api/auth/register").
		JSON(`{"firstName":"Ann","lastName":"Lee","email":"ann@x.com","password":"secret1"}`).
		Expect(t).
		Status(http.StatusCreated).
		Body(fmt.Sprintf(`{
			"success": true,
			"message": "Registration initiated! Please check your email for verification OTP.",
			"email": "ann@x.com",
			"userId": "%s"
		}`, id)).
		End()

	apitest.New().
		Handler(tr.handler).
		Post("/api/auth/register").
		JSON(`{"firstName":"Ann","lastName":"Lee","email":"g@x.com","password":"secret1"}`).
		Expect(t).
		Status(http.StatusConflict).
		Body(`{"success":false,"message":"Account already exists with Google. Please use Google login.","accountType":"google"}`).
		End()

	apitest.New().
		Handler(tr.handler).
		Post("/api/auth/register").
		JSON(`{"firstName":"Ann","lastName":"Lee","email":"dup@x.com","password":"secret1"}`).
		Expect(t).
		Status(http.StatusConflict).
		Body(`{"success":false,"message":"An account with this email already exists. Try logging in instead."}`).
		End()

	apitest.New().
		Handler(tr.handler).
		Post("/api/auth/register").
		JSON(`{"firstName":"Ann","lastName":"Lee","email":"bad","password":"secret1"}`).
		Expect(t).
		Status(http.StatusBadRequest).
		Body(`{"success":false,"message":"Validation failed","errors":["Valid email is required"]}`).
		End()
}

func TestMalformedPayload(t *testing.T) {
	tr := newTestRouter(t, nil, nil)
	apitest.New().
		Handler(tr.handler).
		Post("/api/auth/forgot-password").
		Body(`{"email":`).
		Header("Content-Type", "application/json").
		Expect(t).
		Status(http.StatusBadRequest).
		Body(`{"success":false,"message":"Invalid request payload"}`).
		End()
}

func TestForgotPasswordIsEnumerationSafe(t *testing.T) {
	tr := newTestRouter(t, nil, nil)
	tr.lifecycle.On("ForgotPassword", mock.Anything, mock.Anything).Return(nil)

	for _, email := range []string{"known@x.com", "unknown@x.com"} {
		apitest.New().
			Handler(tr.handler).
			Post("/api/auth/forgot-password").
			JSON(fmt.Sprintf(`{"email":%q}`, email)).
			Expect(t).
			Status(http.StatusOK).
			Body(`{"success":true,"message":"If an account exists, you will receive a password reset OTP."}`).
			End()
	}
}

func TestVerifyResetOTPAndReset(t *testing.T) {
	tr := newTestRouter(t, nil, nil)
	tr.lifecycle.On("VerifyResetOTP", mock.Anything, "a@x.com", "123456").
		Return(&account.ResetGrant{Token: "abc", ExpiresIn: 30 * time.Minute}, nil)
	tr.lifecycle.On("ResetPassword", mock.Anything, account.ResetPasswordRequest{
		Email: "a@x.com", OTP: "123456", Password: "secret1",
	}).Return(account.ErrSamePassword)

	apitest.New().
		Handler(tr.handler).
		Post("/api/auth/verify-reset-otp").
		JSON(`{"email":"a@x.com","otp":"123456"}`).
		Expect(t).
		Status(http.StatusOK).
		Body(`{"success":true,"message":"OTP verified successfully","resetToken":"abc","expiresIn":1800000}`).
		End()

	apitest.New().
		Handler(tr.handler).
		Post("/api/auth/reset-password").
		JSON(`{"email":"a@x.com","otp":"123456","password":"secret1","resetToken":"abc"}`).
		Expect(t).
		Status(http.StatusBadRequest).
		Body(`{"success":false,"message":"New password cannot be the same as old password"}`).
		End()
}

func TestVerifyRegistrationOTPResponses(t *testing.T) {
	tr := newTestRouter(t, nil, nil)
	acc := testAccount()
	tr.lifecycle.On("VerifyRegistrationOTP", mock.Anything, "a@x.com", "000001", mock.Anything).
		Return(nil, account.ErrInvalidOTP)
	tr.lifecycle.On("VerifyRegistrationOTP", mock.Anything, "gone@x.com", "123456", mock.Anything).
		Return(nil, account.ErrNoPendingRegistration)
	tr.lifecycle.On("VerifyRegistrationOTP", mock.Anything, "a@x.com", "123456", mock.Anything).
		Return(&account.Authenticated{Account: acc}, account.ErrSessionNotStarted)

	apitest.New().
		Handler(tr.handler).
		Post("/api/auth/verify-registration-otp").
		JSON(`{"email":"a@x.com","otp":"000001"}`).
		Expect(t).
		Status(http.StatusBadRequest).
		Body(`{"success":false,"message":"Invalid or expired OTP"}`).
		End()

	apitest.New().
		Handler(tr.handler).
		Post("/api/auth/verify-registration-otp").
		JSON(`{"email":"gone@x.com","otp":"123456"}`).
		Expect(t).
		Status(http.StatusNotFound).
		Body(`{"success":false,"message":"No pending registration found. Please register again."}`).
		End()

	apitest.New().
		Handler(tr.handler).
		Post("/api/auth/verify-registration-otp").
		JSON(`{"email":"a@x.com","otp":"123456"}`).
		Expect(t).
		Status(http.StatusInternalServerError).
		CookieNotPresent(cookieName).
		Body(`{"success":false,"message":"Verified, but failed to start session. Please log in."}`).
		End()
}

func TestSessionBoundEndpoints(t *testing.T) {
	tr := newTestRouter(t, nil, nil)
	acc := testAccount()
	tr.resolver.sessions["tok"] = acc.ID
	tr.lifecycle.On("CurrentAccount", mock.Anything, acc.ID).Return(acc, nil)

	apitest.New().
		Handler(tr.handler).
		Get("/api/auth/me").
		Expect(t).
		Status(http.StatusUnauthorized).
		Body(`{"success":false,"message":"Not authenticated. Please log in."}`).
		End()

	apitest.New().
		Handler(tr.handler).
		Get("/api/auth/user").
		Expect(t).
		Status(http.StatusOK).
		Body(`{"success":false,"message":"Not authenticated","user":null}`).
		End()

	apitest.New().
		Handler(tr.handler).
		Get("/api/auth/me").
		Cookie(cookieName, "tok").
		Expect(t).
		Status(http.StatusOK).
		Body(fmt.Sprintf(`{
			"success": true,
			"user": {
				"_id": "%[1]s",
				"id": "%[1]s",
				"email": "a@x.com",
				"firstName": "Ann",
				"lastName": "Lee",
				"fullName": "Ann Lee",
				"profileImage": null,
				"accountType": "local",
				"isEmailVerified": true,
				"createdAt": "2024-01-02T03:04:05Z"
			}
		}`, acc.ID)).
		End()
}

func TestUpdateProfile(t *testing.T) {
	tr := newTestRouter(t, nil, nil)
	acc := testAccount()
	tr.resolver.sessions["tok"] = acc.ID
	tr.lifecycle.On("UpdateProfile", mock.Anything, acc.ID, account.ProfileUpdate{}).Return(nil, account.ErrNoChanges)
	tr.lifecycle.On("UpdateProfile", mock.Anything, acc.ID, account.ProfileUpdate{ProfileImage: "ftp://x"}).
		Return(nil, &account.ValidationError{Message: "Invalid image URL"})

	apitest.New().
		Handler(tr.handler).
		Put("/api/auth/update-profile").
		Cookie(cookieName, "tok").
		JSON(`{}`).
		Expect(t).
		Status(http.StatusBadRequest).
		Body(`{"success":false,"message":"No data provided for update"}`).
		End()

	apitest.New().
		Handler(tr.handler).
		Put("/api/auth/update-profile").
		Cookie(cookieName, "tok").
		JSON(`{"profileImage":"ftp://x"}`).
		Expect(t).
		Status(http.StatusBadRequest).
		Body(`{"success":false,"message":"Invalid image URL"}`).
		End()
}

func TestLogoutClearsCookie(t *testing.T) {
	tr := newTestRouter(t, nil, nil)
	tr.lifecycle.On("Logout", mock.Anything, "tok").Return(nil).Once()
	tr.lifecycle.On("Logout", mock.Anything, "broken").Return(errors.New("db gone")).Once()

	apitest.New().
		Handler(tr.handler).
		Post("/api/auth/logout").
		Cookie(cookieName, "tok").
		Expect(t).
		Status(http.StatusOK).
		Cookies(apitest.NewCookie(cookieName).Value("").MaxAge(-1)).
		Body(`{"success":true,"message":"Logged out successfully"}`).
		End()

	apitest.New().
		Handler(tr.handler).
		Post("/api/auth/logout").
		Cookie(cookieName, "broken").
		Expect(t).
		Status(http.StatusInternalServerError).
		Body(`{"success":false,"message":"Logout failed"}`).
		End()
}

func TestCheckAccount(t *testing.T) {
	tr := newTestRouter(t, nil, nil)
	tr.lifecycle.On("CheckAccount", mock.Anything, "nobody@x.com").Return(&account.Status{Exists: false}, nil)
	tr.lifecycle.On("CheckAccount", mock.Anything, "a@x.com").Return(&account.Status{
		Exists:             true,
		AccountType:        "local",
		IsEmailVerified:    true,
		IsLocked:           false,
		RegistrationStatus: "completed",
	}, nil)

	apitest.New().
		Handler(tr.handler).
		Get("/api/auth/check-account/nobody@x.com").
		Expect(t).
		Status(http.StatusOK).
		Body(`{"success":true,"exists":false,"message":"Account not found"}`).
		End()

	apitest.New().
		Handler(tr.handler).
		Get("/api/auth/check-account/a@x.com").
		Expect(t).
		Status(http.StatusOK).
		Body(`{
			"success": true,
			"exists": true,
			"accountType": "local",
			"isEmailVerified": true,
			"isLocked": false,
			"registrationStatus": "completed"
		}`).
		End()
}

func TestGoogleDisabled(t *testing.T) {
	tr := newTestRouter(t, nil, nil)
	apitest.New().
		Handler(tr.handler).
		Get("/api/auth/google").
		Expect(t).
		Status(http.StatusNotFound).
		Body(`{"success":false,"message":"Google sign in is not enabled"}`).
		End()
}

func TestGoogleFlow(t *testing.T) {
	acc := testAccount()
	profile := &account.ExternalProfile{Provider: "google", Subject: "g-1", Email: "a@x.com", EmailVerified: true}
	tr := newTestRouter(t, &fakeGoogle{profile: profile}, nil)
	tr.lifecycle.On("ExternalSignIn", mock.Anything, mock.MatchedBy(func(p account.ExternalProfile) bool {
		return p.Subject == "g-1"
	})).Return(&account.Authenticated{
		Account: acc,
		Session: &session.Session{Token: "tok", AccountID: acc.ID, ExpiresAt: time.Now().Add(time.Hour)},
	}, nil)

	res := apitest.New().
		Handler(tr.handler).
		Get("/api/auth/google").
		Expect(t).
		Status(http.StatusFound).
		CookiePresent(oauthStateCookie).
		End()
	var state string
	for _, c := range res.Response.Cookies() {
		if c.Name == oauthStateCookie {
			state = c.Value
		}
	}
	require.NotEmpty(t, state)
	assert.Equal(t,
		"https://accounts.google.com/o/oauth2/auth?state="+state,
		res.Response.Header.Get("Location"))

	apitest.New().
		Handler(tr.handler).
		Get("/api/auth/google/callback").
		Query("state", "forged").
		Query("code", "c").
		Cookie(oauthStateCookie, state).
		Expect(t).
		Status(http.StatusFound).
		Header("Location", "https://shoe.test/login?error=auth_failed").
		CookieNotPresent(cookieName).
		End()

	apitest.New().
		Handler(tr.handler).
		Get("/api/auth/google/callback").
		Query("state", state).
		Query("code", "c").
		Cookie(oauthStateCookie, state).
		Expect(t).
		Status(http.StatusFound).
		Header("Location", "https://shoe.test/dashboard?login=success").
		CookiePresent(cookieName).
		End()
}

func TestRateLimitedRoute(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		server.Close()
	})
	limiter, err := ratelimit.New(client, zap.NewNop(), prometheus.NewRegistry())
	require.NoError(t, err)

	tr := newTestRouter(t, nil, limiter)
	tr.lifecycle.On("ForgotPassword", mock.Anything, "a@x.com").Return(nil).Times(3)

	for i := 0; i < 3; i++ {
		apitest.New().
			Handler(tr.handler).
			Post("/api/auth/forgot-password").
			JSON(`{"email":"a@x.com"}`).
			Expect(t).
			Status(http.StatusOK).
			End()
	}
	apitest.New().
		Handler(tr.handler).
		Post("/api/auth/forgot-password").
		JSON(`{"email":"a@x.com"}`).
		Expect(t).
		Status(http.StatusTooManyRequests).
		Body(`{"success":false,"message":"Too many OTP requests. Please try again later."}`).
		End()
}

func TestOTPGuessingLimitedWithoutRedis(t *testing.T) {
	limiter, err := ratelimit.NewInMemory(zap.NewNop(), prometheus.NewRegistry())
	require.NoError(t, err)

	tr := newTestRouter(t, nil, limiter)
	tr.lifecycle.On("VerifyRegistrationOTP", mock.Anything, "a@x.com", mock.Anything, mock.Anything).
		Return(nil, account.ErrInvalidOTP).Times(5)

	for i := 0; i < 5; i++ {
		apitest.New().
			Handler(tr.handler).
			Post("/api/auth/verify-registration-otp").
			JSON(fmt.Sprintf(`{"email":"a@x.com","otp":"10000%d"}`, i)).
			Expect(t).
			Status(http.StatusBadRequest).
			End()
	}
	apitest.New().
		Handler(tr.handler).
		Post("/api/auth/verify-registration-otp").
		JSON(`{"email":"a@x.com","otp":"100005"}`).
		Expect(t).
		Status(http.StatusTooManyRequests).
		Body(`{"success":false,"message":"Too many verification attempts. Please request a new OTP."}`).
		End()
}
