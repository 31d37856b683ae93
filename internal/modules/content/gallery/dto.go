package gallery

import (
	"time"

	"github.com/sekolah-web/core/internal/modules/media"
)

type CreateGalleryDTO struct {
	Title       string     `json:"title"       validate:"required,max=255"`
	Slug        string     `json:"slug"        validate:"omitempty,slug,max=160"`
	Description string     `json:"description"`
	Category    string     `json:"category"    validate:"max=40"`
	EventDate   *time.Time `json:"event_date"`
	Thumbnail   string     `json:"thumbnail"   validate:"max=500"`
	IsActive    *bool      `json:"is_active"`
	IsFeatured  bool       `json:"is_featured"`
	Order       int        `json:"order"`
}

type UpdateGalleryDTO struct {
	Title       *string    `json:"title"       validate:"omitempty,min=1,max=255"`
	Description *string    `json:"description"`
	Category    *string    `json:"category"    validate:"omitempty,max=40"`
	EventDate   *time.Time `json:"event_date"`
	Thumbnail   *string    `json:"thumbnail"   validate:"omitempty,max=500"`
	IsActive    *bool      `json:"is_active"`
	IsFeatured  *bool      `json:"is_featured"`
	Order       *int       `json:"order"`
}

// ItemInput adds one picture to a gallery, either as an upload or as a path
// to an already published image.
type ItemInput struct {
	Upload  *media.Upload `json:"-"`
	Image   string        `json:"image"   validate:"max=500"`
	Caption string        `json:"caption" validate:"max=500"`
	Order   *int          `json:"order"   validate:"omitempty,min=0"`
}
