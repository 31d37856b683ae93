package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base carries the identity and bookkeeping columns shared by every content table.
// ID is assigned by storage; UUID is assigned once before the first insert.
type Base struct {
	ID        uint           `json:"id"                   gorm:"primaryKey;autoIncrement"`
	UUID      string         `json:"uuid"                 gorm:"type:char(36);uniqueIndex;not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.UUID == "" {
		b.UUID = uuid.New().String()
	}
	return nil
}

func (b Base) GetID() uint { return b.ID }

// Trashed reports whether the row is soft-deleted.
func (b Base) Trashed() bool { return b.DeletedAt.Valid }

// SlugField is embedded by every kind addressed by slug.
type SlugField struct {
	Slug string `json:"slug" gorm:"size:191;uniqueIndex;not null"`
}

func (s SlugField) GetSlug() string { return s.Slug }

func (s *SlugField) SetSlug(v string) { s.Slug = v }

// Listing carries the display flags most kinds share.
type Listing struct {
	IsActive bool `json:"is_active" gorm:"index;not null"`
	Order    int  `json:"order"     gorm:"column:sort_order;index;not null;default:0"`
}
