package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

func scanText(value interface{}, typ string) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case []byte:
		return strings.TrimSpace(string(v)), nil
	case string:
		return strings.TrimSpace(v), nil
	default:
		return "", fmt.Errorf("models.%s: unsupported Scan type %T", typ, value)
	}
}

// StringArray stores string lists as JSON text, while tolerating NULL, empty
// and legacy plain-string data.
type StringArray []string

func (StringArray) GormDataType() string { return "text" }

func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(a))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (a *StringArray) Scan(value interface{}) error {
	if a == nil {
		return fmt.Errorf("models.StringArray: Scan on nil pointer")
	}
	raw, err := scanText(value, "StringArray")
	if err != nil {
		return err
	}
	if raw == "" || raw == "null" {
		*a = StringArray{}
		return nil
	}

	var arr []string
	if err := json.Unmarshal([]byte(raw), &arr); err == nil {
		if arr == nil {
			arr = []string{}
		}
		*a = arr
		return nil
	}

	var single string
	if err := json.Unmarshal([]byte(raw), &single); err == nil {
		if single == "" {
			*a = StringArray{}
		} else {
			*a = StringArray{single}
		}
		return nil
	}

	*a = StringArray{raw}
	return nil
}

func (a StringArray) MarshalJSON() ([]byte, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(a))
}

// Contains reports whether v is an element of a.
func (a StringArray) Contains(v string) bool {
	for _, s := range a {
		if s == v {
			return true
		}
	}
	return false
}

// JSONMap is a JSON object column. The column type follows gorm's datatypes
// (JSON, or JSONB on Postgres); NULL and empty values read as an empty map.
type JSONMap map[string]interface{}

func (JSONMap) GormDataType() string { return datatypes.JSONMap{}.GormDataType() }

func (JSONMap) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	return datatypes.JSONMap{}.GormDBDataType(db, field)
}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(map[string]interface{}(m))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *JSONMap) Scan(value interface{}) error {
	if m == nil {
		return fmt.Errorf("models.JSONMap: Scan on nil pointer")
	}
	raw, err := scanText(value, "JSONMap")
	if err != nil {
		return err
	}
	if raw == "" || raw == "null" {
		*m = JSONMap{}
		return nil
	}
	var inner datatypes.JSONMap
	if err := inner.Scan([]byte(raw)); err != nil {
		return fmt.Errorf("models.JSONMap: %w", err)
	}
	if inner == nil {
		inner = datatypes.JSONMap{}
	}
	*m = JSONMap(inner)
	return nil
}

func (m JSONMap) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]interface{}(m))
}

// Conversions records which derived image variants exist, by conversion name.
type Conversions map[string]bool

func (Conversions) GormDataType() string { return "text" }

func (c Conversions) Value() (driver.Value, error) {
	if c == nil {
		return "{}", nil
	}
	b, err := json.Marshal(map[string]bool(c))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (c *Conversions) Scan(value interface{}) error {
	if c == nil {
		return fmt.Errorf("models.Conversions: Scan on nil pointer")
	}
	raw, err := scanText(value, "Conversions")
	if err != nil {
		return err
	}
	out := Conversions{}
	if raw != "" && raw != "null" {
		if err := json.Unmarshal([]byte(raw), &out); err != nil {
			return fmt.Errorf("models.Conversions: %w", err)
		}
	}
	*c = out
	return nil
}

// Has reports whether the named conversion was generated.
func (c Conversions) Has(name string) bool { return c[name] }

// Any reports whether at least one conversion was generated.
func (c Conversions) Any() bool {
	for _, ok := range c {
		if ok {
			return true
		}
	}
	return false
}
