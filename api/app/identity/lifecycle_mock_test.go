package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/shoecreatify/shoecreatify-api/account"
	"github.com/shoecreatify/shoecreatify-api/db"
	"github.com/shoecreatify/shoecreatify-api/session"
	"github.com/stretchr/testify/mock"
)

type lifecycleMock struct {
	mock.Mock
}

func authenticatedOrNil(v interface{}) *account.Authenticated {
	if v == nil {
		return nil
	}
	return v.(*account.Authenticated)
}

func accountOrNil(v interface{}) *db.Account {
	if v == nil {
		return nil
	}
	return v.(*db.Account)
}

func (m *lifecycleMock) Register(ctx context.Context, req account.RegisterRequest) (uuid.UUID, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *lifecycleMock) VerifyRegistrationOTP(
	ctx context.Context,
	email string,
	otp string,
	client session.Client,
) (*account.Authenticated, error) {
	args := m.Called(ctx, email, otp, client)
	return authenticatedOrNil(args.Get(0)), args.Error(1)
}

func (m *lifecycleMock) VerifyRegistrationLink(
	ctx context.Context,
	email string,
	token string,
	client session.Client,
) (*account.Authenticated, error) {
	args := m.Called(ctx, email, token, client)
	return authenticatedOrNil(args.Get(0)), args.Error(1)
}

func (m *lifecycleMock) ResendRegistrationOTP(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *lifecycleMock) Login(ctx context.Context, req account.LoginRequest) (*account.Authenticated, error) {
	args := m.Called(ctx, req)
	return authenticatedOrNil(args.Get(0)), args.Error(1)
}

func (m *lifecycleMock) ForgotPassword(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *lifecycleMock) VerifyResetOTP(ctx context.Context, email string, otp string) (*account.ResetGrant, error) {
	args := m.Called(ctx, email, otp)
	if g := args.Get(0); g != nil {
		return g.(*account.ResetGrant), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *lifecycleMock) ResetPassword(ctx context.Context, req account.ResetPasswordRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *lifecycleMock) Logout(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *lifecycleMock) CurrentAccount(ctx context.Context, id uuid.UUID) (*db.Account, error) {
	args := m.Called(ctx, id)
	return accountOrNil(args.Get(0)), args.Error(1)
}

func (m *lifecycleMock) CheckAccount(ctx context.Context, email string) (*account.Status, error) {
	args := m.Called(ctx, email)
	if s := args.Get(0); s != nil {
		return s.(*account.Status), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *lifecycleMock) UpdateProfile(
	ctx context.Context,
	id uuid.UUID,
	update account.ProfileUpdate,
) (*db.Account, error) {
	args := m.Called(ctx, id, update)
	return accountOrNil(args.Get(0)), args.Error(1)
}

func (m *lifecycleMock) ExternalSignIn(ctx context.Context, p account.ExternalProfile) (*account.Authenticated, error) {
	args := m.Called(ctx, p)
	return authenticatedOrNil(args.Get(0)), args.Error(1)
}
