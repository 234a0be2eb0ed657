package tables

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// AuditPayload is the json document stored with every audit log entry
type AuditPayload map[string]interface{}

// Value encodes the payload, an empty payload is stored as {}
func (p AuditPayload) Value() (driver.Value, error) {
	if len(p) == 0 {
		return "{}", nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode audit payload: %w", err)
	}
	return string(data), nil
}

// Scan decodes a stored payload, NULL and empty columns yield an empty payload
func (p *AuditPayload) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("decode audit payload: unsupported column type %T", src)
	}
	decoded := AuditPayload{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return fmt.Errorf("decode audit payload: %w", err)
		}
	}
	*p = decoded
	return nil
}
