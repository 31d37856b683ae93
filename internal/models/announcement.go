package models

import (
	"time"

	"gorm.io/gorm"
)

// AnnouncementModel is a notice shown on the front page until it expires.
type AnnouncementModel struct {
	Base
	SlugField
	Publication
	Body
	Title       string      `json:"title"       gorm:"size:255;not null"`
	ExpiresAt   *time.Time  `json:"expires_at"  gorm:"index"`
	Priority    int         `json:"priority"    gorm:"not null;default:0"`
	IsPinned    bool        `json:"is_pinned"   gorm:"index;not null"`
	Category    string      `json:"category"    gorm:"size:40;index"`
	Attachments StringArray `json:"attachments"`

	Summary string `json:"excerpt" gorm:"-"`
}

func (AnnouncementModel) TableName() string { return "announcements" }

func (AnnouncementModel) MorphType() MorphType { return MorphAnnouncement }

func (a AnnouncementModel) SlugSource() string { return a.Title }

// IsVisible holds when the announcement is published and not expired.
func (a AnnouncementModel) IsVisible(now time.Time) bool {
	return a.IsPublished(now) && (a.ExpiresAt == nil || a.ExpiresAt.After(now))
}

func (a *AnnouncementModel) BeforeSave(tx *gorm.DB) error {
	a.Publication.normalize()
	a.ExpiresAt = utc(a.ExpiresAt)
	return nil
}

func (a *AnnouncementModel) AfterFind(tx *gorm.DB) error {
	a.Summary = a.Excerpt()
	return nil
}
