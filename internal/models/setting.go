package models

import "time"

// SettingType decides how a stored setting value is interpreted on read.
type SettingType string

const (
	SettingString  SettingType = "string"
	SettingInteger SettingType = "integer"
	SettingBoolean SettingType = "boolean"
	SettingText    SettingType = "text"
	SettingJSON    SettingType = "json"
)

func (t SettingType) Valid() bool {
	switch t {
	case SettingString, SettingInteger, SettingBoolean, SettingText, SettingJSON:
		return true
	}
	return false
}

// SettingModel is one site-wide configuration value.
type SettingModel struct {
	ID          uint        `json:"id"          gorm:"primaryKey;autoIncrement"`
	Key         string      `json:"key"         gorm:"column:key;size:120;uniqueIndex;not null"`
	Value       string      `json:"value"       gorm:"type:text"`
	Type        SettingType `json:"type"        gorm:"size:16;not null"`
	Group       string      `json:"group"       gorm:"column:group;size:60;index;not null"`
	Label       string      `json:"label"       gorm:"size:150"`
	Description string      `json:"description" gorm:"type:text"`
	IsPublic    bool        `json:"is_public"   gorm:"index;not null"`
	Order       int         `json:"order"       gorm:"column:sort_order;not null;default:0"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func (SettingModel) TableName() string { return "settings" }

func (SettingModel) MorphType() MorphType { return MorphSetting }

func (s SettingModel) GetID() uint { return s.ID }
