package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/shoecreatify/shoecreatify-api/db/tables"
)

// InsertSession stores a new session row
func (d *DataStore) InsertSession(ctx context.Context, session *tables.SessionTable) error {
	insert := d.sb.Insert("sessions").SetMap(map[string]interface{}{
		"id":         session.ID,
		"account_id": session.AccountID,
		"ip":         session.IP,
		"user_agent": session.UserAgent,
		"created_at": session.CreatedAt.UTC(),
		"expires_at": session.ExpiresAt.UTC(),
	})
	_, err := d.insertStatement(ctx, insert)
	return err
}

// ActiveSession returns the session if it exists and has not expired
func (d *DataStore) ActiveSession(ctx context.Context, id string) (*tables.SessionTable, error) {
	var entity tables.SessionTable
	q := d.sb.Select("id", "account_id", "ip", "user_agent", "created_at", "expires_at").
		From("sessions").
		Where(sq.And{sq.Eq{"id": id}, sq.Gt{"expires_at": time.Now().UTC()}})
	err := d.getStatement(ctx, &entity, q)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entity, nil
}

// DeleteSession removes a single session
func (d *DataStore) DeleteSession(ctx context.Context, id string) (bool, error) {
	rs, err := d.deleteStatement(ctx, d.sb.Delete("sessions").Where(sq.Eq{"id": id}))
	if err != nil {
		return false, err
	}
	return affected(rs)
}

// DeleteAccountSessions removes every session of an account
func (d *DataStore) DeleteAccountSessions(ctx context.Context, accountID uuid.UUID) (int64, error) {
	rs, err := d.deleteStatement(ctx, d.sb.Delete("sessions").Where(sq.Eq{"account_id": accountID}))
	if err != nil {
		return 0, err
	}
	return rs.RowsAffected()
}

// DeleteExpiredSessions purges sessions that expired before the given time
func (d *DataStore) DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error) {
	rs, err := d.deleteStatement(ctx, d.sb.Delete("sessions").Where(sq.LtOrEq{"expires_at": before.UTC()}))
	if err != nil {
		return 0, err
	}
	return rs.RowsAffected()
}
