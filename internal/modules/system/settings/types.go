package settings

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/sekolah-web/core/internal/models"
	"github.com/sekolah-web/core/internal/pkg/apperr"
)

// Value is a setting with its stored text cast by the declared type:
// string and text give string, integer gives int64, boolean gives bool and
// json gives the decoded document.
type Value struct {
	Key   string             `json:"key"`
	Type  models.SettingType `json:"type"`
	Group string             `json:"group"`
	Label string             `json:"label"`
	Data  interface{}        `json:"value"`
}

// Definition declares a setting for Upsert.
type Definition struct {
	Key         string             `json:"key"         validate:"required,max=120"`
	Value       interface{}        `json:"value"`
	Type        models.SettingType `json:"type"        validate:"required,oneof=string integer boolean text json"`
	Group       string             `json:"group"       validate:"required,max=60"`
	Label       string             `json:"label"       validate:"max=150"`
	Description string             `json:"description"`
	IsPublic    bool               `json:"is_public"`
	Order       int                `json:"order"`
}

// Cast interprets raw according to typ. Unparseable integers read as 0 and
// unparseable json as nil.
func Cast(typ models.SettingType, raw string) interface{} {
	switch typ {
	case models.SettingInteger:
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			f, ferr := strconv.ParseFloat(strings.TrimSpace(raw), 64)
			if ferr != nil {
				return int64(0)
			}
			return int64(f)
		}
		return n
	case models.SettingBoolean:
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "1", "true", "yes", "on":
			return true
		}
		return false
	case models.SettingJSON:
		if strings.TrimSpace(raw) == "" {
			return nil
		}
		var out interface{}
		if err := json.Unmarshal([]byte(raw), &out); err != nil {
			return nil
		}
		return out
	default:
		return raw
	}
}

// Encode renders v as the stored text of a setting of type typ.
func Encode(typ models.SettingType, v interface{}) (string, error) {
	switch typ {
	case models.SettingInteger:
		switch n := v.(type) {
		case int:
			return strconv.FormatInt(int64(n), 10), nil
		case int32:
			return strconv.FormatInt(int64(n), 10), nil
		case int64:
			return strconv.FormatInt(n, 10), nil
		case uint:
			return strconv.FormatUint(uint64(n), 10), nil
		case float64:
			if n != float64(int64(n)) {
				return "", apperr.Invalid("value", "must be a whole number")
			}
			return strconv.FormatInt(int64(n), 10), nil
		case string:
			if _, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64); err != nil {
				return "", apperr.Invalid("value", "must be a whole number")
			}
			return strings.TrimSpace(n), nil
		case nil:
			return "0", nil
		}
		return "", apperr.Invalid("value", "must be a whole number")
	case models.SettingBoolean:
		switch b := v.(type) {
		case bool:
			if b {
				return "1", nil
			}
			return "0", nil
		case string:
			if Cast(models.SettingBoolean, b).(bool) {
				return "1", nil
			}
			return "0", nil
		case int, int64:
			if fmt.Sprint(b) != "0" {
				return "1", nil
			}
			return "0", nil
		case nil:
			return "0", nil
		}
		return "", apperr.Invalid("value", "must be a boolean")
	case models.SettingJSON:
		if s, ok := v.(string); ok && json.Valid([]byte(s)) {
			return s, nil
		}
		b, err := json.Marshal(v)
		if err != nil {
			return "", apperr.Invalid("value", "must be encodable as json")
		}
		return string(b), nil
	default:
		if v == nil {
			return "", nil
		}
		return fmt.Sprint(v), nil
	}
}

func valueOf(m models.SettingModel) Value {
	return Value{Key: m.Key, Type: m.Type, Group: m.Group, Label: m.Label, Data: Cast(m.Type, m.Value)}
}
