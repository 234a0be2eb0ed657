package db

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shoecreatify/shoecreatify-api/db/tables"

	sq "github.com/Masterminds/squirrel"
)

type auditor struct {
	db *sqlx.DB
	sb sq.StatementBuilderType
}

// addToAuditLog adds a audit log entry
func (d *auditor) addToAuditLog(ctx context.Context, event string, payload tables.AuditPayload) error {
	insert := d.sb.
		Insert("audit_logs").
		Columns("event_type", "event", "created_at").
		Values(event, payload, time.Now().UTC())
	_, err := insert.RunWith(d.db).ExecContext(ctx)
	return err
}

// AuditLog returns the latest audit entries, newest first
func (d *DataStore) AuditLog(ctx context.Context, eventType string, limit int) ([]*tables.AuditLogTable, error) {
	if limit <= 0 {
		limit = 50
	}
	q := d.sb.Select("id", "event_type", "event", "created_at").
		From("audit_logs").
		OrderBy("id DESC").
		Limit(uint64(limit))
	if eventType != "" {
		q = q.Where(sq.Eq{"event_type": eventType})
	}
	entries := make([]*tables.AuditLogTable, 0)
	if err := d.selectStatement(ctx, &entries, q); err != nil {
		return nil, err
	}
	return entries, nil
}
