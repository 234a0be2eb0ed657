package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (d *DataStore) whereFromAdapter(
	table string,
	query string,
) (func(sq.SelectBuilder) sq.SelectBuilder, error) {
	if query != "" {
		where, err := d.adapters[table].Where(query)
		if err != nil {
			return nil, err
		}
		w, a, err := where.ToSql()
		if err != nil {
			return nil, err
		}
		return func(sb sq.SelectBuilder) sq.SelectBuilder {
			return sb.Where(w, a...)
		}, nil

	}
	return func(sb sq.SelectBuilder) sq.SelectBuilder {
		return sb
	}, nil
}

func (d *DataStore) orderByFromAdapter(
	q sq.SelectBuilder,
	table string,
	defaultOrderby string,
	opts ListOptions,
) sq.SelectBuilder {
	if opts.Sort != "" {
		order, err := d.adapters[table].OrderBy(opts.Sort)
		if err != nil {
			q = q.OrderBy(defaultOrderby)
		} else {
			or, _, _ := order.ToSql()
			q = q.OrderBy(or)
		}
	} else {
		q = q.OrderBy(defaultOrderby)
	}
	return q
}

// Accounts lists accounts filtered by a fiql query
func (d *DataStore) Accounts(ctx context.Context, opts ListOptions) ([]*Account, int, error) {
	if opts.Page <= 0 {
		opts.Page = 1
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 50
	}

	var c int
	count := d.sb.Select("COUNT(*)").From("accounts")
	applyWhere, err := d.whereFromAdapter("accounts", opts.Query)
	if err != nil {
		return nil, 0, err
	}
	count = applyWhere(count)
	err = count.RunWith(d.db).QueryRowContext(ctx).Scan(&c)
	if err != nil {
		return nil, 0, err
	}
	offset := (opts.Page - 1) * opts.PageSize
	if c < offset {
		return []*Account{}, c, nil
	}

	var entities []*Account
	q := d.sb.Select(accountColumns...).From("accounts")
	q = applyWhere(q)
	q = d.orderByFromAdapter(q, "accounts", "created_at DESC", opts)
	q = q.Offset(uint64(offset)).Limit(uint64(opts.PageSize))
	err = d.selectStatement(ctx, &entities, q)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []*Account{}, c, nil
		}
		return nil, 0, err
	}
	return entities, c, nil
}

func (d *DataStore) account(ctx context.Context, pred interface{}) (*Account, error) {
	var entity Account
	q := d.sb.Select(accountColumns...).From("accounts").Where(pred)
	err := d.getStatement(ctx, &entity, q)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entity, nil
}

func (d *DataStore) credentials(ctx context.Context, pred interface{}) (*AccountCredentials, error) {
	var entity AccountCredentials
	q := d.sb.Select(credentialColumns...).From("accounts").Where(pred)
	err := d.getStatement(ctx, &entity, q)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entity, nil
}

// AccountByID returns the public view of an account
func (d *DataStore) AccountByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	return d.account(ctx, sq.Eq{"id": id})
}

// AccountByEmail returns the public view of an account
func (d *DataStore) AccountByEmail(ctx context.Context, email string) (*Account, error) {
	return d.account(ctx, sq.Eq{"email": email})
}

// AccountByGoogleID returns the public view of an account linked to the google subject
func (d *DataStore) AccountByGoogleID(ctx context.Context, googleID string) (*Account, error) {
	return d.account(ctx, sq.Eq{"google_id": googleID})
}

// CredentialsByEmail returns the credential view including hashes and lockout state
func (d *DataStore) CredentialsByEmail(ctx context.Context, email string) (*AccountCredentials, error) {
	return d.credentials(ctx, sq.Eq{"email": email})
}

// CredentialsByID returns the credential view including hashes and lockout state
func (d *DataStore) CredentialsByID(ctx context.Context, id uuid.UUID) (*AccountCredentials, error) {
	return d.credentials(ctx, sq.Eq{"id": id})
}

// InsertAccount creates a new account, a duplicate email or google id yields ErrAlreadyExists
func (d *DataStore) InsertAccount(ctx context.Context, acc NewAccount) (uuid.UUID, error) {
	timestamp := time.Now().UTC()
	id := uuid.New()
	m := map[string]interface{}{
		"id":                         id,
		"email":                      acc.Email,
		"password":                   acc.PasswordHash,
		"google_id":                  acc.GoogleID,
		"account_type":               acc.AccountType,
		"first_name":                 acc.FirstName,
		"last_name":                  acc.LastName,
		"profile_image":              acc.ProfileImage,
		"registration_status":        acc.RegistrationStatus,
		"is_email_verified":          acc.IsEmailVerified,
		"verification_otp":           acc.VerificationOTP,
		"verification_otp_expires":   utcPtr(acc.VerificationOTPExpires),
		"email_verification_token":   acc.EmailVerificationToken,
		"email_verification_expires": utcPtr(acc.EmailVerificationExpires),
		"registration_ip":            nullable(acc.RegistrationIP),
		"user_agent":                 nullable(acc.UserAgent),
		"failed_login_attempts":      0,
		"pref_email_notifications":   true,
		"pref_login_alerts":          true,
		"pref_two_factor":            false,
		"created_at":                 timestamp,
	}
	if acc.IsEmailVerified {
		m["email_verified_at"] = timestamp
	}
	_, err := d.insertStatement(ctx, d.sb.Insert("accounts").SetMap(m))
	if err != nil {
		if !errors.Is(err, ErrAlreadyExists) {
			d.log.Error("could not insert account", zap.Error(err))
		}
		return uuid.UUID{}, err
	}
	return id, nil
}

// DeleteUnverifiedAccount removes an account only while it is still pending verification
func (d *DataStore) DeleteUnverifiedAccount(ctx context.Context, id uuid.UUID) (bool, error) {
	q := d.sb.Delete("accounts").
		Where(sq.Eq{
			"id":                  id,
			"is_email_verified":   false,
			"registration_status": StatusPendingVerification,
		})
	rs, err := d.deleteStatement(ctx, q)
	if err != nil {
		return false, err
	}
	return affected(rs)
}

// SetVerificationChallenge overwrites the registration otp and the link token digest
func (d *DataStore) SetVerificationChallenge(
	ctx context.Context,
	id uuid.UUID,
	otpHash string,
	otpExpires time.Time,
	tokenDigest string,
	tokenExpires time.Time,
) (bool, error) {
	q := d.sb.Update("accounts").
		Set("verification_otp", otpHash).
		Set("verification_otp_expires", otpExpires.UTC()).
		Set("email_verification_token", tokenDigest).
		Set("email_verification_expires", tokenExpires.UTC()).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id, "registration_status": StatusPendingVerification})
	rs, err := d.updateStatement(ctx, q)
	if err != nil {
		return false, err
	}
	return affected(rs)
}

// ActivateAccount promotes a pending account to completed, returns false if it was not pending
func (d *DataStore) ActivateAccount(ctx context.Context, id uuid.UUID) (bool, error) {
	ts := time.Now().UTC()
	q := d.sb.Update("accounts").
		Set("is_email_verified", true).
		Set("email_verified_at", ts).
		Set("registration_status", StatusCompleted).
		Set("verification_otp", nil).
		Set("verification_otp_expires", nil).
		Set("email_verification_token", nil).
		Set("email_verification_expires", nil).
		Set("failed_login_attempts", 0).
		Set("account_locked_until", nil).
		Set("updated_at", ts).
		Where(sq.Eq{"id": id, "registration_status": StatusPendingVerification})
	rs, err := d.updateStatement(ctx, q)
	if err != nil {
		return false, err
	}
	return affected(rs)
}

// LoginFailures is the guard state of an account as stored
type LoginFailures struct {
	Failures    int        `db:"failed_login_attempts"`
	LockedUntil *time.Time `db:"account_locked_until"`
}

// RecordFailedLogin counts a wrong password in place and returns the state after counting.
// Concurrent failures are all counted since the increment happens in the statement.
func (d *DataStore) RecordFailedLogin(ctx context.Context, id uuid.UUID) (*LoginFailures, error) {
	q := d.sb.Update("accounts").
		Set("failed_login_attempts", sq.Expr("failed_login_attempts + 1")).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id})
	rs, err := d.updateStatement(ctx, q)
	if err != nil {
		return nil, err
	}
	ok, err := affected(rs)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	var state LoginFailures
	err = d.getStatement(ctx, &state, d.sb.
		Select("failed_login_attempts", "account_locked_until").
		From("accounts").
		Where(sq.Eq{"id": id}))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &state, nil
}

// LockAccount sets the lockout, the failure counter stays untouched
func (d *DataStore) LockAccount(ctx context.Context, id uuid.UUID, until time.Time) error {
	q := d.sb.Update("accounts").
		Set("account_locked_until", until.UTC()).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id})
	_, err := d.updateStatement(ctx, q)
	return err
}

// RecordLogin resets the guard state and stores the login audit fields
func (d *DataStore) RecordLogin(ctx context.Context, id uuid.UUID, ip string, userAgent string) error {
	ts := time.Now().UTC()
	q := d.sb.Update("accounts").
		Set("failed_login_attempts", 0).
		Set("account_locked_until", nil).
		Set("last_login", ts).
		Set("last_login_ip", nullable(ip)).
		Set("updated_at", ts).
		Where(sq.Eq{"id": id})
	if userAgent != "" {
		q = q.Set("user_agent", userAgent)
	}
	_, err := d.updateStatement(ctx, q)
	return err
}

// UnlockAccount clears the lockout and the failure counter
func (d *DataStore) UnlockAccount(ctx context.Context, id uuid.UUID) (bool, error) {
	q := d.sb.Update("accounts").
		Set("failed_login_attempts", 0).
		Set("account_locked_until", nil).
		Set("updated_at", time.Now().UTC()).
		Where(sq.And{
			sq.Eq{"id": id},
			sq.Or{sq.NotEq{"account_locked_until": nil}, sq.Gt{"failed_login_attempts": 0}},
		})
	rs, err := d.updateStatement(ctx, q)
	if err != nil {
		return false, err
	}
	return affected(rs)
}

// SetResetChallenge stores a fresh password reset otp, overwriting any previous one
func (d *DataStore) SetResetChallenge(
	ctx context.Context,
	id uuid.UUID,
	otpHash string,
	expires time.Time,
) error {
	q := d.sb.Update("accounts").
		Set("reset_password_otp", otpHash).
		Set("reset_password_otp_expires", expires.UTC()).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id})
	_, err := d.updateStatement(ctx, q)
	return err
}

// ResetPassword stores a new password and clears every pending otp, token and lockout
func (d *DataStore) ResetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	ts := time.Now().UTC()
	q := d.sb.Update("accounts").
		Set("password", passwordHash).
		Set("last_password_change", ts).
		Set("reset_password_otp", nil).
		Set("reset_password_otp_expires", nil).
		Set("verification_otp", nil).
		Set("verification_otp_expires", nil).
		Set("email_verification_token", nil).
		Set("email_verification_expires", nil).
		Set("failed_login_attempts", 0).
		Set("account_locked_until", nil).
		Set("updated_at", ts).
		Where(sq.Eq{"id": id})
	rs, err := d.updateStatement(ctx, q)
	if err != nil {
		return err
	}
	ok, err := affected(rs)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (d *DataStore) applyProfile(q sq.UpdateBuilder, changes ProfileChanges) sq.UpdateBuilder {
	if changes.FirstName != nil {
		q = q.Set("first_name", *changes.FirstName)
	}
	if changes.LastName != nil {
		q = q.Set("last_name", *changes.LastName)
	}
	if changes.ProfileImage != nil {
		q = q.Set("profile_image", *changes.ProfileImage)
	}
	return q
}

// UpdateProfile changes the non nil profile fields
func (d *DataStore) UpdateProfile(ctx context.Context, id uuid.UUID, changes ProfileChanges) (bool, error) {
	if changes.Empty() {
		return false, nil
	}
	q := d.sb.Update("accounts").
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id})
	q = d.applyProfile(q, changes)
	rs, err := d.updateStatement(ctx, q)
	if err != nil {
		return false, err
	}
	return affected(rs)
}

// LinkGoogleIdentity attaches a google subject to an existing account and fills the given profile fields
func (d *DataStore) LinkGoogleIdentity(
	ctx context.Context,
	id uuid.UUID,
	googleID string,
	fill ProfileChanges,
) (bool, error) {
	q := d.sb.Update("accounts").
		Set("google_id", googleID).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id, "google_id": nil})
	q = d.applyProfile(q, fill)
	rs, err := d.updateStatement(ctx, q)
	if err != nil {
		return false, err
	}
	return affected(rs)
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
