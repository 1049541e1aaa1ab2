package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// StringList is an ordered list of strings stored as a JSON column.
type StringList []string

// Value serializes the list for the database. The value is a string so
// the column is text-matchable on every supported dialect.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan deserializes the list from the database.
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("unsupported type for StringList")
	}

	if len(data) == 0 {
		*l = nil
		return nil
	}
	return json.Unmarshal(data, l)
}
