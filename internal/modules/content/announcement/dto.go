package announcement

import "time"

type CreateAnnouncementDTO struct {
	Title         string     `json:"title"          validate:"required,max=255"`
	Slug          string     `json:"slug"           validate:"omitempty,slug,max=160"`
	Content       string     `json:"content"        validate:"required"`
	ContentFormat string     `json:"content_format" validate:"omitempty,oneof=html markdown"`
	Excerpt       *string    `json:"excerpt"        validate:"omitempty,max=500"`
	Status        string     `json:"status"         validate:"omitempty,oneof=draft published archived"`
	PublishedAt   *time.Time `json:"published_at"`
	ExpiresAt     *time.Time `json:"expires_at"`
	Priority      int        `json:"priority"       validate:"min=0,max=100"`
	IsPinned      bool       `json:"is_pinned"`
	Category      string     `json:"category"       validate:"max=40"`
	Attachments   []string   `json:"attachments"    validate:"omitempty,dive,max=500"`
}

type UpdateAnnouncementDTO struct {
	Title         *string    `json:"title"          validate:"omitempty,min=1,max=255"`
	Content       *string    `json:"content"        validate:"omitempty,min=1"`
	ContentFormat *string    `json:"content_format" validate:"omitempty,oneof=html markdown"`
	Excerpt       *string    `json:"excerpt"        validate:"omitempty,max=500"`
	Status        *string    `json:"status"         validate:"omitempty,oneof=draft published archived"`
	PublishedAt   *time.Time `json:"published_at"`
	ExpiresAt     *time.Time `json:"expires_at"`
	ClearExpiry   bool       `json:"clear_expiry"`
	Priority      *int       `json:"priority"       validate:"omitempty,min=0,max=100"`
	Category      *string    `json:"category"       validate:"omitempty,max=40"`
	Attachments   []string   `json:"attachments"    validate:"omitempty,dive,max=500"`
}
