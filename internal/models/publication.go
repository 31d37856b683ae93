package models

import (
	"time"

	"github.com/sekolah-web/core/internal/pkg/htmltext"
)

// PublishStatus is the editorial state of posts and announcements.
type PublishStatus string

const (
	StatusDraft     PublishStatus = "draft"
	StatusPublished PublishStatus = "published"
	StatusArchived  PublishStatus = "archived"
)

// Valid reports whether s is a known status.
func (s PublishStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// Publication holds the fields that decide whether an editorial record is live.
type Publication struct {
	Status      PublishStatus `json:"status"       gorm:"size:16;index;not null"`
	PublishedAt *time.Time    `json:"published_at" gorm:"index"`
}

// IsPublished holds when the status is published and the publish time is set
// and not in the future.
func (p Publication) IsPublished(now time.Time) bool {
	return p.Status == StatusPublished && p.PublishedAt != nil && !p.PublishedAt.After(now)
}

// utc returns t in UTC. Publication times are compared as stored values by
// the listing queries, so every row must carry the same offset.
func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}

func (p *Publication) normalize() { p.PublishedAt = utc(p.PublishedAt) }

// Body is rich text with its stored format and an optional hand-written excerpt.
type Body struct {
	Content       string  `json:"content"        gorm:"type:text"`
	ContentFormat string  `json:"content_format" gorm:"size:16;not null;default:html"`
	CustomExcerpt *string `json:"custom_excerpt" gorm:"column:excerpt;type:text"`
}

// Excerpt returns the stored excerpt, or the first 200 characters of the
// content with markup removed.
func (b Body) Excerpt() string {
	if b.CustomExcerpt != nil && *b.CustomExcerpt != "" {
		return *b.CustomExcerpt
	}
	return htmltext.Excerpt(b.Content, b.ContentFormat)
}

// HTML returns the content rendered to sanitized HTML.
func (b Body) HTML() string {
	return htmltext.Sanitize(htmltext.ToHTML(b.Content, b.ContentFormat))
}
