// Package model contains the GORM persistence models mirroring the database
// schema. Mapping to and from domain entities happens in the postgres package.
package model

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/pkg/errors"
)

// scanJSONB decodes a jsonb column value into dst.
func scanJSONB(value any, dst any) error {
	if value == nil {
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.Errorf("unsupported jsonb source type %T", value)
	}
	if len(raw) == 0 {
		return nil
	}

	return errors.Wrap(json.Unmarshal(raw, dst), "failed to scan jsonb column")
}

// valueJSONB encodes src for a jsonb column.
func valueJSONB(src any) (driver.Value, error) {
	raw, err := json.Marshal(src)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal jsonb column")
	}

	return raw, nil
}
