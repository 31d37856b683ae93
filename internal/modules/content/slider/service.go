package slider

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/sekolah-web/core/internal/models"
	"github.com/sekolah-web/core/internal/modules/content"
	"github.com/sekolah-web/core/internal/pkg/apperr"
	"github.com/sekolah-web/core/internal/pkg/repo"
	"github.com/sekolah-web/core/internal/pkg/validate"
)

type CreateSliderDTO struct {
	Title       string `json:"title"       validate:"required,max=255"`
	Slug        string `json:"slug"        validate:"omitempty,slug,max=160"`
	Subtitle    string `json:"subtitle"    validate:"max=255"`
	Description string `json:"description"`
	Image       string `json:"image"       validate:"max=500"`
	ButtonText  string `json:"button_text" validate:"max=80"`
	ButtonURL   string `json:"button_url"  validate:"omitempty,max=500"`
	IsActive    *bool  `json:"is_active"`
	Order       int    `json:"order"`
}

type UpdateSliderDTO struct {
	Title       *string `json:"title"       validate:"omitempty,min=1,max=255"`
	Subtitle    *string `json:"subtitle"    validate:"omitempty,max=255"`
	Description *string `json:"description"`
	Image       *string `json:"image"       validate:"omitempty,max=500"`
	ButtonText  *string `json:"button_text" validate:"omitempty,max=80"`
	ButtonURL   *string `json:"button_url"  validate:"omitempty,max=500"`
	IsActive    *bool   `json:"is_active"`
	Order       *int    `json:"order"`
}

// Service manages the home page hero slides.
type Service struct {
	*content.Catalog[models.SliderModel, *models.SliderModel]
}

func NewService(deps content.Deps) *Service {
	return &Service{Catalog: content.NewCatalog[models.SliderModel](deps, "slider")}
}

func (s *Service) Create(ctx context.Context, dto *CreateSliderDTO) (*models.SliderModel, error) {
	if err := validate.Struct(dto); err != nil {
		return nil, err
	}
	if err := checkButton(dto.ButtonText, dto.ButtonURL); err != nil {
		return nil, err
	}
	sl := &models.SliderModel{
		SlugField:   models.SlugField{Slug: dto.Slug},
		Listing:     models.Listing{IsActive: dto.IsActive == nil || *dto.IsActive, Order: dto.Order},
		Title:       strings.TrimSpace(dto.Title),
		Subtitle:    dto.Subtitle,
		Description: dto.Description,
		ImagePath:   strings.TrimSpace(dto.Image),
		ButtonText:  strings.TrimSpace(dto.ButtonText),
		ButtonURL:   strings.TrimSpace(dto.ButtonURL),
	}
	if err := s.Insert(ctx, sl); err != nil {
		return nil, err
	}
	return sl, nil
}

func (s *Service) Update(ctx context.Context, id uint, dto *UpdateSliderDTO) (*models.SliderModel, error) {
	if err := validate.Struct(dto); err != nil {
		return nil, err
	}
	return s.Modify(ctx, id, func(sl *models.SliderModel) error {
		if dto.Title != nil {
			sl.Title = strings.TrimSpace(*dto.Title)
		}
		if dto.Subtitle != nil {
			sl.Subtitle = *dto.Subtitle
		}
		if dto.Description != nil {
			sl.Description = *dto.Description
		}
		if dto.Image != nil {
			sl.ImagePath = strings.TrimSpace(*dto.Image)
		}
		if dto.ButtonText != nil {
			sl.ButtonText = strings.TrimSpace(*dto.ButtonText)
		}
		if dto.ButtonURL != nil {
			sl.ButtonURL = strings.TrimSpace(*dto.ButtonURL)
		}
		if dto.IsActive != nil {
			sl.IsActive = *dto.IsActive
		}
		if dto.Order != nil {
			sl.Order = *dto.Order
		}
		return checkButton(sl.ButtonText, sl.ButtonURL)
	})
}

// ListActive returns the slides to show, in display order.
func (s *Service) ListActive(ctx context.Context) ([]models.SliderModel, error) {
	return s.Top(ctx, repo.ListQuery{
		Scopes: []content.Scope{content.Active()},
		Order:  content.ByOrder(""),
	}, 0)
}

// Reorder sets sort_order 1..n following ids.
func (s *Service) Reorder(ctx context.Context, ids []uint) error {
	err := s.Deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, id := range ids {
			res := tx.Model(&models.SliderModel{}).Where("id = ?", id).Update("sort_order", i+1)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return apperr.NotFound("slider", id)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("reorder sliders: %w", err)
	}
	return nil
}

// checkButton requires a link target when a button label is set.
func checkButton(text, url string) error {
	if strings.TrimSpace(text) != "" && strings.TrimSpace(url) == "" {
		return apperr.Invalid("button_url", "is required when button_text is set")
	}
	return nil
}
