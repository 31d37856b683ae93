package achievement

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sekolah-web/core/internal/models"
	"github.com/sekolah-web/core/internal/modules/content"
	"github.com/sekolah-web/core/internal/pkg/pagination"
	"github.com/sekolah-web/core/internal/pkg/repo"
	"github.com/sekolah-web/core/internal/pkg/validate"
)

const levels = "school district province national international"

type CreateAchievementDTO struct {
	Title        string     `json:"title"        validate:"required,max=255"`
	Slug         string     `json:"slug"         validate:"omitempty,slug,max=160"`
	Description  string     `json:"description"`
	Category     string     `json:"category"     validate:"omitempty,oneof=academic sports arts religious school"`
	Level        string     `json:"level"        validate:"omitempty,oneof=school district province national international"`
	Rank         string     `json:"rank"         validate:"max=100"`
	AchievedAt   *time.Time `json:"achieved_at"`
	Organizer    string     `json:"organizer"    validate:"max=200"`
	Participants []string   `json:"participants" validate:"omitempty,dive,max=150"`
	Image        string     `json:"image"        validate:"max=500"`
	Images       []string   `json:"images"       validate:"omitempty,dive,max=500"`
	IsActive     *bool      `json:"is_active"`
	IsFeatured   bool       `json:"is_featured"`
	Order        int        `json:"order"`
}

type UpdateAchievementDTO struct {
	Title        *string    `json:"title"        validate:"omitempty,min=1,max=255"`
	Description  *string    `json:"description"`
	Category     *string    `json:"category"     validate:"omitempty,oneof=academic sports arts religious school"`
	Level        *string    `json:"level"        validate:"omitempty,oneof=school district province national international"`
	Rank         *string    `json:"rank"         validate:"omitempty,max=100"`
	AchievedAt   *time.Time `json:"achieved_at"`
	Organizer    *string    `json:"organizer"    validate:"omitempty,max=200"`
	Participants []string   `json:"participants" validate:"omitempty,dive,max=150"`
	Image        *string    `json:"image"        validate:"omitempty,max=500"`
	Images       []string   `json:"images"       validate:"omitempty,dive,max=500"`
	IsActive     *bool      `json:"is_active"`
	IsFeatured   *bool      `json:"is_featured"`
	Order        *int       `json:"order"`
}

// ListQuery filters the public listing. Zero values match everything.
type ListQuery struct {
	Category string
	Level    string
	Year     int
}

type Service struct {
	*content.Catalog[models.AchievementModel, *models.AchievementModel]
}

func NewService(deps content.Deps) *Service {
	return &Service{Catalog: content.NewCatalog[models.AchievementModel](deps, "prestasi")}
}

func (s *Service) Create(ctx context.Context, dto *CreateAchievementDTO) (*models.AchievementModel, error) {
	if err := validate.Struct(dto); err != nil {
		return nil, err
	}
	a := &models.AchievementModel{
		SlugField:    models.SlugField{Slug: dto.Slug},
		Listing:      models.Listing{IsActive: dto.IsActive == nil || *dto.IsActive, Order: dto.Order},
		Title:        strings.TrimSpace(dto.Title),
		Description:  dto.Description,
		Category:     dto.Category,
		Level:        dto.Level,
		Rank:         dto.Rank,
		AchievedAt:   toDate(dto.AchievedAt),
		Organizer:    dto.Organizer,
		Participants: models.StringArray(dto.Participants),
		ImagePath:    strings.TrimSpace(dto.Image),
		Images:       models.StringArray(dto.Images),
		IsFeatured:   dto.IsFeatured,
	}
	if err := s.Insert(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Update(ctx context.Context, id uint, dto *UpdateAchievementDTO) (*models.AchievementModel, error) {
	if err := validate.Struct(dto); err != nil {
		return nil, err
	}
	return s.Modify(ctx, id, func(a *models.AchievementModel) error {
		if dto.Title != nil {
			a.Title = strings.TrimSpace(*dto.Title)
		}
		if dto.Description != nil {
			a.Description = *dto.Description
		}
		if dto.Category != nil {
			a.Category = *dto.Category
		}
		if dto.Level != nil {
			a.Level = *dto.Level
		}
		if dto.Rank != nil {
			a.Rank = *dto.Rank
		}
		if dto.AchievedAt != nil {
			a.AchievedAt = toDate(dto.AchievedAt)
		}
		if dto.Organizer != nil {
			a.Organizer = *dto.Organizer
		}
		if dto.Participants != nil {
			a.Participants = models.StringArray(dto.Participants)
		}
		if dto.Image != nil {
			a.ImagePath = strings.TrimSpace(*dto.Image)
		}
		if dto.Images != nil {
			a.Images = models.StringArray(dto.Images)
		}
		if dto.IsActive != nil {
			a.IsActive = *dto.IsActive
		}
		if dto.IsFeatured != nil {
			a.IsFeatured = *dto.IsFeatured
		}
		if dto.Order != nil {
			a.Order = *dto.Order
		}
		return nil
	})
}

// ListActive lists active achievements, most recent first.
func (s *Service) ListActive(ctx context.Context, lq ListQuery, page pagination.Query) ([]models.AchievementModel, pagination.Meta, error) {
	scopes := []content.Scope{content.Active(), content.InCategory(lq.Category)}
	if lq.Level != "" {
		scopes = append(scopes, func(tx *gorm.DB) *gorm.DB { return tx.Where("level = ?", lq.Level) })
	}
	if lq.Year > 0 {
		from := time.Date(lq.Year, 1, 1, 0, 0, 0, 0, time.UTC)
		scopes = append(scopes, func(tx *gorm.DB) *gorm.DB {
			return tx.Where("achieved_at >= ? AND achieved_at < ?", from, from.AddDate(1, 0, 0))
		})
	}
	return s.Browse(ctx, repo.ListQuery{
		Scopes: scopes,
		Order:  "achieved_at DESC, id DESC",
	}, page)
}

func (s *Service) ListFeatured(ctx context.Context, limit int) ([]models.AchievementModel, error) {
	return s.Top(ctx, repo.ListQuery{
		Scopes: []content.Scope{content.Active(), content.Featured()},
		Order:  content.ByOrder("achieved_at DESC"),
	}, limit)
}

// CountByLevel returns the number of active achievements per level code.
func (s *Service) CountByLevel(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Level string
		N     int64
	}
	err := s.DB(ctx).Scopes(content.Active()).
		Select("level, COUNT(*) AS n").
		Group("level").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count achievements by level: %w", err)
	}
	out := make(map[string]int64, len(strings.Fields(levels)))
	for _, l := range strings.Fields(levels) {
		out[l] = 0
	}
	for _, r := range rows {
		out[r.Level] = r.N
	}
	return out, nil
}

func toDate(t *time.Time) *datatypes.Date {
	if t == nil {
		return nil
	}
	d := datatypes.Date(t.UTC())
	return &d
}
