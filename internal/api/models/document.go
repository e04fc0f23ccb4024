package models

import (
	"database/sql/driver"
	"fmt"
)

// Document holds a raw JSON payload for jsonb columns (workflow definitions,
// property schemas, settings). It is stored and returned verbatim.
type Document []byte

// Scan implements sql.Scanner interface
func (d *Document) Scan(value interface{}) error {
	if value == nil {
		*d = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*d = v
		return nil
	case string:
		*d = []byte(v)
		return nil
	default:
		return fmt.Errorf("cannot scan type %T into Document", value)
	}
}

// Value implements driver.Valuer interface
func (d Document) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}
	return []byte(d), nil
}

// MarshalJSON implements json.Marshaler - returns raw JSON
func (d Document) MarshalJSON() ([]byte, error) {
	if d == nil {
		return []byte("null"), nil
	}
	return d, nil
}

// UnmarshalJSON implements json.Unmarshaler - stores raw JSON
func (d *Document) UnmarshalJSON(data []byte) error {
	if data == nil {
		*d = nil
		return nil
	}
	*d = data
	return nil
}
