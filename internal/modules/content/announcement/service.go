package announcement

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/sekolah-web/core/internal/models"
	"github.com/sekolah-web/core/internal/modules/content"
	"github.com/sekolah-web/core/internal/pkg/apperr"
	"github.com/sekolah-web/core/internal/pkg/htmltext"
	"github.com/sekolah-web/core/internal/pkg/pagination"
	"github.com/sekolah-web/core/internal/pkg/repo"
	"github.com/sekolah-web/core/internal/pkg/validate"
)

// FeaturedOrder puts pinned notices first, then higher priority, then newer.
const FeaturedOrder = "is_pinned DESC, priority DESC, published_at DESC, id DESC"

type Service struct {
	*content.Catalog[models.AnnouncementModel, *models.AnnouncementModel]
}

func NewService(deps content.Deps) *Service {
	return &Service{Catalog: content.NewCatalog[models.AnnouncementModel](deps, "pengumuman")}
}

func (s *Service) Create(ctx context.Context, dto *CreateAnnouncementDTO) (*models.AnnouncementModel, error) {
	if err := validate.Struct(dto); err != nil {
		return nil, err
	}
	format := normalizeFormat(dto.ContentFormat)
	a := &models.AnnouncementModel{
		SlugField: models.SlugField{Slug: dto.Slug},
		Title:     strings.TrimSpace(dto.Title),
		Body: models.Body{
			Content:       cleanContent(dto.Content, format),
			ContentFormat: format,
			CustomExcerpt: dto.Excerpt,
		},
		Publication: models.Publication{
			Status:      models.PublishStatus(dto.Status),
			PublishedAt: dto.PublishedAt,
		},
		ExpiresAt:   dto.ExpiresAt,
		Priority:    dto.Priority,
		IsPinned:    dto.IsPinned,
		Category:    dto.Category,
		Attachments: models.StringArray(dto.Attachments),
	}
	if a.Status == "" {
		a.Status = models.StatusDraft
	}
	if a.Status == models.StatusPublished && a.PublishedAt == nil {
		now := s.Now()
		a.PublishedAt = &now
	}
	if err := checkExpiry(a); err != nil {
		return nil, err
	}
	if err := s.Insert(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Update(ctx context.Context, id uint, dto *UpdateAnnouncementDTO) (*models.AnnouncementModel, error) {
	if err := validate.Struct(dto); err != nil {
		return nil, err
	}
	return s.Modify(ctx, id, func(a *models.AnnouncementModel) error {
		if dto.Title != nil {
			a.Title = strings.TrimSpace(*dto.Title)
		}
		if dto.ContentFormat != nil {
			a.ContentFormat = normalizeFormat(*dto.ContentFormat)
		}
		if dto.Content != nil {
			a.Content = cleanContent(*dto.Content, a.ContentFormat)
		}
		if dto.Excerpt != nil {
			a.CustomExcerpt = dto.Excerpt
		}
		if dto.Status != nil {
			a.Status = models.PublishStatus(*dto.Status)
			if a.Status == models.StatusPublished && a.PublishedAt == nil && dto.PublishedAt == nil {
				now := s.Now()
				a.PublishedAt = &now
			}
		}
		if dto.PublishedAt != nil {
			a.PublishedAt = dto.PublishedAt
		}
		if dto.ExpiresAt != nil {
			a.ExpiresAt = dto.ExpiresAt
		}
		if dto.ClearExpiry {
			a.ExpiresAt = nil
		}
		if dto.Priority != nil {
			a.Priority = *dto.Priority
		}
		if dto.Category != nil {
			a.Category = *dto.Category
		}
		if dto.Attachments != nil {
			a.Attachments = models.StringArray(dto.Attachments)
		}
		return checkExpiry(a)
	})
}

// Visible keeps published notices that have not expired.
func (s *Service) Visible() content.Scope {
	now := s.Now()
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Scopes(content.Published(now)).
			Where("(expires_at IS NULL OR expires_at > ?)", now)
	}
}

// ListVisible lists current notices, newest first, optionally in one category.
func (s *Service) ListVisible(ctx context.Context, category string, page pagination.Query) ([]models.AnnouncementModel, pagination.Meta, error) {
	return s.Browse(ctx, repo.ListQuery{
		Scopes: []content.Scope{s.Visible(), content.InCategory(category)},
		Order:  "published_at DESC, id DESC",
	}, page)
}

// ListFeatured returns the notices for the front page.
func (s *Service) ListFeatured(ctx context.Context, limit int) ([]models.AnnouncementModel, error) {
	return s.Top(ctx, repo.ListQuery{
		Scopes: []content.Scope{s.Visible()},
		Order:  FeaturedOrder,
	}, limit)
}

// GetVisibleBySlug returns a current notice by slug.
func (s *Service) GetVisibleBySlug(ctx context.Context, slug string) (*models.AnnouncementModel, error) {
	a, err := s.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !a.IsVisible(s.Now()) {
		return nil, apperr.NotFound("announcement", slug)
	}
	return a, nil
}

func (s *Service) Pin(ctx context.Context, id uint) (*models.AnnouncementModel, error) {
	return s.setPinned(ctx, id, true)
}

func (s *Service) Unpin(ctx context.Context, id uint) (*models.AnnouncementModel, error) {
	return s.setPinned(ctx, id, false)
}

func (s *Service) setPinned(ctx context.Context, id uint, pinned bool) (*models.AnnouncementModel, error) {
	res := s.DB(ctx).Where("id = ?", id).Update("is_pinned", pinned)
	if res.Error != nil {
		return nil, fmt.Errorf("pin announcement %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("announcement", id)
	}
	a, err := s.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	verb := "Menyematkan"
	if !pinned {
		verb = "Melepas sematan"
	}
	content.Record(ctx, s.Deps.Activity, models.ActionUpdate, a, fmt.Sprintf("%s pengumuman %q", verb, a.Title),
		"is_pinned", pinned)
	return a, nil
}

func checkExpiry(a *models.AnnouncementModel) error {
	if a.ExpiresAt != nil && a.PublishedAt != nil && !a.ExpiresAt.After(*a.PublishedAt) {
		return apperr.Invalid("expires_at", "must be after published_at")
	}
	return nil
}

func normalizeFormat(f string) string {
	if strings.EqualFold(f, htmltext.FormatMarkdown) {
		return htmltext.FormatMarkdown
	}
	return htmltext.FormatHTML
}

func cleanContent(body, f string) string {
	if f == htmltext.FormatHTML {
		return htmltext.Sanitize(body)
	}
	return body
}
