package models

import (
	"path"
	"strings"
	"time"
)

// MediaModel is an uploaded file attached to an owner record.
// Files live on Disk under "<uuid>/"; derived variants under "<uuid>/conversions/".
type MediaModel struct {
	ID                   uint        `json:"id"              gorm:"primaryKey;autoIncrement"`
	UUID                 string      `json:"uuid"            gorm:"type:char(36);uniqueIndex;not null"`
	OwnerType            MorphType   `json:"owner_type"      gorm:"size:40;not null;index:idx_media_owner"`
	OwnerID              uint        `json:"owner_id"        gorm:"not null;index:idx_media_owner"`
	CollectionName       string      `json:"collection_name" gorm:"size:60;not null;index:idx_media_owner"`
	Name                 string      `json:"name"            gorm:"size:255"`
	FileName             string      `json:"file_name"       gorm:"size:255;not null"`
	MimeType             string      `json:"mime_type"       gorm:"size:100"`
	Disk                 string      `json:"disk"            gorm:"size:40;not null"`
	Size                 int64       `json:"size"`
	OrderColumn          int         `json:"order_column"    gorm:"not null;default:0"`
	GeneratedConversions Conversions `json:"generated_conversions"`
	CustomProperties     JSONMap     `json:"custom_properties"`
	CreatedAt            time.Time   `json:"created_at"`
	UpdatedAt            time.Time   `json:"updated_at"`
}

func (MediaModel) TableName() string { return "media" }

// IsImage reports whether conversions can be generated for the file.
func (m MediaModel) IsImage() bool {
	return strings.HasPrefix(m.MimeType, "image/") && m.MimeType != "image/svg+xml"
}

// Dir is the storage prefix holding every file of the asset.
func (m MediaModel) Dir() string { return m.UUID }

// OriginalPath is the storage path of the uploaded file.
func (m MediaModel) OriginalPath() string { return path.Join(m.UUID, m.FileName) }

// ConversionPath is the storage path of a derived variant.
func (m MediaModel) ConversionPath(conversion, ext string) string {
	stem := strings.TrimSuffix(m.FileName, path.Ext(m.FileName))
	return path.Join(m.UUID, "conversions", stem+"-"+conversion+"."+ext)
}
