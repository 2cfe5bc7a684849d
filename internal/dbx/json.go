package dbx

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"reflect"
)

// JSON returns a query argument that encodes v for a jsonb column.
// Nil slices are written as [] so that containment operators keep working.
func JSON(v any) driver.Valuer {
	return jsonValue{v: v}
}

type jsonValue struct{ v any }

func (j jsonValue) Value() (driver.Value, error) {
	if rv := reflect.ValueOf(j.v); rv.Kind() == reflect.Slice && rv.IsNil() {
		return "[]", nil
	}
	b, err := json.Marshal(j.v)
	if err != nil {
		return nil, fmt.Errorf("encode json column: %w", err)
	}
	return string(b), nil
}

// ScanJSON returns a scan destination that decodes a jsonb column into dst.
// SQL NULL leaves dst untouched.
func ScanJSON(dst any) sql.Scanner {
	return jsonScanner{dst: dst}
}

type jsonScanner struct{ dst any }

func (j jsonScanner) Scan(src any) error {
	var b []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("scan json column: unsupported type %T", src)
	}
	if err := json.Unmarshal(b, j.dst); err != nil {
		return fmt.Errorf("decode json column: %w", err)
	}
	return nil
}
