package tables

import (
	"time"

	"github.com/google/uuid"
)

// SessionTable represents the sessions table, the id is the digest of the cookie value
type SessionTable struct {
	ID        string    `db:"id"`
	AccountID uuid.UUID `db:"account_id"`
	IP        *string   `db:"ip"`
	UserAgent *string   `db:"user_agent"`
	CreatedAt time.Time `db:"created_at"`
	ExpiresAt time.Time `db:"expires_at"`
}
