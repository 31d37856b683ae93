package post

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/sekolah-web/core/internal/models"
	"github.com/sekolah-web/core/internal/modules/content"
	"github.com/sekolah-web/core/internal/pkg/apperr"
	"github.com/sekolah-web/core/internal/pkg/htmltext"
	"github.com/sekolah-web/core/internal/pkg/pagination"
	"github.com/sekolah-web/core/internal/pkg/repo"
	"github.com/sekolah-web/core/internal/pkg/requestctx"
	"github.com/sekolah-web/core/internal/pkg/softdelete"
	"github.com/sekolah-web/core/internal/pkg/validate"
)

// Service handles post business logic.
type Service struct {
	*content.Catalog[models.PostModel, *models.PostModel]
}

func NewService(deps content.Deps) *Service {
	return &Service{Catalog: content.NewCatalog[models.PostModel](deps, "berita")}
}

// Create inserts a new post. A published post without a publication time is
// published now.
func (s *Service) Create(ctx context.Context, dto *CreatePostDTO) (*models.PostModel, error) {
	if err := validate.Struct(dto); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, dto.CategoryID); err != nil {
		return nil, err
	}

	format := normalizeFormat(dto.ContentFormat)
	post := &models.PostModel{
		SlugField:     models.SlugField{Slug: dto.Slug},
		Title:         strings.TrimSpace(dto.Title),
		CategoryID:    dto.CategoryID,
		Tags:          normalizeTags(dto.Tags),
		FeaturedImage: dto.FeaturedImage,
		IsFeatured:    dto.IsFeatured,
		Body: models.Body{
			Content:       cleanContent(dto.Content, format),
			ContentFormat: format,
			CustomExcerpt: trimmedOrNil(dto.Excerpt),
		},
		Publication: models.Publication{
			Status:      models.PublishStatus(dto.Status),
			PublishedAt: dto.PublishedAt,
		},
	}
	if post.Status == "" {
		post.Status = models.StatusDraft
	}
	if post.Status == models.StatusPublished && post.PublishedAt == nil {
		now := s.Now()
		post.PublishedAt = &now
	}

	info := requestctx.FromContext(ctx)
	post.AuthorID = info.ActorID
	post.AuthorName = dto.AuthorName
	if post.AuthorName == "" {
		post.AuthorName = info.ActorName
	}

	if err := s.Insert(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Update applies the set fields of dto.
func (s *Service) Update(ctx context.Context, id uint, dto *UpdatePostDTO) (*models.PostModel, error) {
	if err := validate.Struct(dto); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, dto.CategoryID); err != nil {
		return nil, err
	}

	return s.Modify(ctx, id, func(p *models.PostModel) error {
		if dto.Title != nil {
			p.Title = strings.TrimSpace(*dto.Title)
		}
		if dto.ContentFormat != nil {
			p.ContentFormat = normalizeFormat(*dto.ContentFormat)
		}
		if dto.Content != nil {
			p.Content = cleanContent(*dto.Content, p.ContentFormat)
		}
		if dto.Excerpt != nil {
			p.CustomExcerpt = trimmedOrNil(dto.Excerpt)
		}
		if dto.CategoryID != nil {
			p.CategoryID = dto.CategoryID
		}
		if dto.ClearCategory {
			p.CategoryID = nil
		}
		if dto.Tags != nil {
			p.Tags = normalizeTags(dto.Tags)
		}
		if dto.FeaturedImage != nil {
			p.FeaturedImage = *dto.FeaturedImage
		}
		if dto.IsFeatured != nil {
			p.IsFeatured = *dto.IsFeatured
		}
		if dto.PublishedAt != nil {
			p.PublishedAt = dto.PublishedAt
		}
		return nil
	})
}

// Publish makes a post live at at, or keeps its existing time, or now.
func (s *Service) Publish(ctx context.Context, id uint, at *time.Time) (*models.PostModel, error) {
	p, err := s.setStatus(ctx, id, models.StatusPublished, func(p *models.PostModel) {
		switch {
		case at != nil:
			t := at.UTC()
			p.PublishedAt = &t
		case p.PublishedAt == nil:
			now := s.Now()
			p.PublishedAt = &now
		}
	})
	if err != nil {
		return nil, err
	}
	content.Record(ctx, s.Deps.Activity, models.ActionPublish, p, fmt.Sprintf("Menerbitkan berita %q", p.Title))
	return p, nil
}

// Unpublish moves a post back to draft.
func (s *Service) Unpublish(ctx context.Context, id uint) (*models.PostModel, error) {
	p, err := s.setStatus(ctx, id, models.StatusDraft, nil)
	if err != nil {
		return nil, err
	}
	content.Record(ctx, s.Deps.Activity, models.ActionUnpublish, p, fmt.Sprintf("Membatalkan terbit berita %q", p.Title))
	return p, nil
}

func (s *Service) Archive(ctx context.Context, id uint) (*models.PostModel, error) {
	p, err := s.setStatus(ctx, id, models.StatusArchived, nil)
	if err != nil {
		return nil, err
	}
	content.Record(ctx, s.Deps.Activity, models.ActionArchive, p, fmt.Sprintf("Mengarsipkan berita %q", p.Title))
	return p, nil
}

func (s *Service) setStatus(ctx context.Context, id uint, status models.PublishStatus, mutate func(*models.PostModel)) (*models.PostModel, error) {
	p, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Status = status
	if mutate != nil {
		mutate(p)
	}
	if err := s.Repo.Save(ctx, p); err != nil {
		return nil, err
	}
	s.Decorate(ctx, p)
	return p, nil
}

// ListPublished lists live posts, newest first.
func (s *Service) ListPublished(ctx context.Context, lq ListQuery, page pagination.Query) ([]models.PostModel, pagination.Meta, error) {
	return s.Browse(ctx, repo.ListQuery{
		Scopes:  s.publicScopes(lq),
		Order:   "published_at DESC, id DESC",
		Preload: []string{"Category"},
	}, page)
}

// ListFeatured returns up to limit live featured posts.
func (s *Service) ListFeatured(ctx context.Context, limit int) ([]models.PostModel, error) {
	return s.Top(ctx, repo.ListQuery{
		Scopes:  []content.Scope{content.Published(s.Now()), content.Featured()},
		Order:   "published_at DESC, id DESC",
		Preload: []string{"Category"},
	}, limit)
}

// Latest returns the newest live posts.
func (s *Service) Latest(ctx context.Context, limit int) ([]models.PostModel, error) {
	return s.Top(ctx, repo.ListQuery{
		Scopes: []content.Scope{content.Published(s.Now())},
		Order:  "published_at DESC, id DESC",
	}, limit)
}

// ListAll is the editorial listing: every status, optionally trashed rows.
func (s *Service) ListAll(ctx context.Context, mode softdelete.Mode, status models.PublishStatus, search string, page pagination.Query) ([]models.PostModel, pagination.Meta, error) {
	scopes := []content.Scope{content.Search(search, "title", "content")}
	if status != "" {
		scopes = append(scopes, func(tx *gorm.DB) *gorm.DB { return tx.Where("status = ?", status) })
	}
	return s.Browse(ctx, repo.ListQuery{
		Mode:    mode,
		Scopes:  scopes,
		Order:   "created_at DESC, id DESC",
		Preload: []string{"Category"},
	}, page)
}

// GetPublishedBySlug returns a live post by slug; drafts, scheduled and
// archived posts are not found.
func (s *Service) GetPublishedBySlug(ctx context.Context, slug string) (*models.PostModel, error) {
	p, err := s.FindBySlug(ctx, slug, "Category")
	if err != nil {
		return nil, err
	}
	if !p.IsPublished(s.Now()) {
		return nil, apperr.NotFound("post", slug)
	}
	return p, nil
}

// IncrementViews bumps the view counter without touching updated_at.
func (s *Service) IncrementViews(ctx context.Context, id uint) error {
	res := s.DB(ctx).Where("id = ?", id).UpdateColumn("views", gorm.Expr("views + ?", 1))
	if res.Error != nil {
		return fmt.Errorf("increment views of post %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("post", id)
	}
	return nil
}

func (s *Service) publicScopes(lq ListQuery) []content.Scope {
	scopes := []content.Scope{content.Published(s.Now())}
	if lq.Category != "" {
		scopes = append(scopes, func(tx *gorm.DB) *gorm.DB {
			return tx.Where("category_id IN (?)",
				tx.Session(&gorm.Session{NewDB: true}).Model(&models.CategoryModel{}).
					Select("id").Where("slug = ?", lq.Category))
		})
	}
	if tag := strings.TrimSpace(lq.Tag); tag != "" {
		scopes = append(scopes, func(tx *gorm.DB) *gorm.DB {
			return tx.Where("tags LIKE ?", "%"+fmt.Sprintf("%q", tag)+"%")
		})
	}
	if lq.Search != "" {
		scopes = append(scopes, content.Search(lq.Search, "title", "content"))
	}
	return scopes
}

func (s *Service) checkCategory(ctx context.Context, id *uint) error {
	if id == nil {
		return nil
	}
	var n int64
	if err := s.Deps.DB.WithContext(ctx).Model(&models.CategoryModel{}).Where("id = ?", *id).Count(&n).Error; err != nil {
		return fmt.Errorf("check category %d: %w", *id, err)
	}
	if n == 0 {
		return apperr.Invalid("category_id", "category %d does not exist", *id)
	}
	return nil
}

func normalizeFormat(f string) string {
	if strings.EqualFold(f, htmltext.FormatMarkdown) {
		return htmltext.FormatMarkdown
	}
	return htmltext.FormatHTML
}

func cleanContent(body, format string) string {
	if format == htmltext.FormatHTML {
		return htmltext.Sanitize(body)
	}
	return body
}

func normalizeTags(tags []string) models.StringArray {
	out := models.StringArray{}
	seen := map[string]bool{}
	for _, t := range tags {
		t = strings.TrimSpace(t)
		key := strings.ToLower(t)
		if t == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
	}
	return out
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
