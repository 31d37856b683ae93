package facility

import (
	"context"
	"strings"

	"github.com/sekolah-web/core/internal/models"
	"github.com/sekolah-web/core/internal/modules/content"
	"github.com/sekolah-web/core/internal/pkg/apperr"
	"github.com/sekolah-web/core/internal/pkg/pagination"
	"github.com/sekolah-web/core/internal/pkg/repo"
	"github.com/sekolah-web/core/internal/pkg/softdelete"
	"github.com/sekolah-web/core/internal/pkg/validate"
)

type CreateFacilityDTO struct {
	Name        string   `json:"name"        validate:"required,max=150"`
	Slug        string   `json:"slug"        validate:"omitempty,slug,max=160"`
	Description string   `json:"description"`
	Category    string   `json:"category"    validate:"omitempty,oneof=academic laboratory sports worship support"`
	Location    string   `json:"location"    validate:"max=200"`
	Capacity    *int     `json:"capacity"    validate:"omitempty,min=0"`
	Features    []string `json:"features"    validate:"omitempty,dive,max=200"`
	Image       string   `json:"image"       validate:"max=500"`
	IsActive    *bool    `json:"is_active"`
	IsFeatured  bool     `json:"is_featured"`
	Order       int      `json:"order"`
}

type UpdateFacilityDTO struct {
	Name          *string  `json:"name"        validate:"omitempty,min=1,max=150"`
	Description   *string  `json:"description"`
	Category      *string  `json:"category"    validate:"omitempty,oneof=academic laboratory sports worship support"`
	Location      *string  `json:"location"    validate:"omitempty,max=200"`
	Capacity      *int     `json:"capacity"    validate:"omitempty,min=0"`
	ClearCapacity bool     `json:"clear_capacity"`
	Features      []string `json:"features"    validate:"omitempty,dive,max=200"`
	Image         *string  `json:"image"       validate:"omitempty,max=500"`
	IsActive      *bool    `json:"is_active"`
	IsFeatured    *bool    `json:"is_featured"`
	Order         *int     `json:"order"`
}

type Service struct {
	*content.Catalog[models.FacilityModel, *models.FacilityModel]
}

func NewService(deps content.Deps) *Service {
	return &Service{Catalog: content.NewCatalog[models.FacilityModel](deps, "fasilitas")}
}

func (s *Service) Create(ctx context.Context, dto *CreateFacilityDTO) (*models.FacilityModel, error) {
	if err := validate.Struct(dto); err != nil {
		return nil, err
	}
	f := &models.FacilityModel{
		SlugField:   models.SlugField{Slug: dto.Slug},
		Listing:     models.Listing{IsActive: dto.IsActive == nil || *dto.IsActive, Order: dto.Order},
		Name:        strings.TrimSpace(dto.Name),
		Description: dto.Description,
		Category:    dto.Category,
		Location:    dto.Location,
		Capacity:    dto.Capacity,
		Features:    models.StringArray(dto.Features),
		ImagePath:   strings.TrimSpace(dto.Image),
		IsFeatured:  dto.IsFeatured,
	}
	if err := s.Insert(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *Service) Update(ctx context.Context, id uint, dto *UpdateFacilityDTO) (*models.FacilityModel, error) {
	if err := validate.Struct(dto); err != nil {
		return nil, err
	}
	return s.Modify(ctx, id, func(f *models.FacilityModel) error {
		if dto.Name != nil {
			f.Name = strings.TrimSpace(*dto.Name)
		}
		if dto.Description != nil {
			f.Description = *dto.Description
		}
		if dto.Category != nil {
			f.Category = *dto.Category
		}
		if dto.Location != nil {
			f.Location = *dto.Location
		}
		if dto.Capacity != nil {
			f.Capacity = dto.Capacity
		}
		if dto.ClearCapacity {
			f.Capacity = nil
		}
		if dto.Features != nil {
			f.Features = models.StringArray(dto.Features)
		}
		if dto.Image != nil {
			f.ImagePath = strings.TrimSpace(*dto.Image)
		}
		if dto.IsActive != nil {
			f.IsActive = *dto.IsActive
		}
		if dto.IsFeatured != nil {
			f.IsFeatured = *dto.IsFeatured
		}
		if dto.Order != nil {
			f.Order = *dto.Order
		}
		return nil
	})
}

// ListActive lists active facilities of a category in display order.
func (s *Service) ListActive(ctx context.Context, category string) ([]models.FacilityModel, error) {
	return s.Top(ctx, repo.ListQuery{
		Scopes: []content.Scope{content.Active(), content.InCategory(category)},
		Order:  content.ByOrder("name ASC"),
	}, 0)
}

func (s *Service) ListFeatured(ctx context.Context, limit int) ([]models.FacilityModel, error) {
	return s.Top(ctx, repo.ListQuery{
		Scopes: []content.Scope{content.Active(), content.Featured()},
		Order:  content.ByOrder("name ASC"),
	}, limit)
}

func (s *Service) ListAll(ctx context.Context, mode softdelete.Mode, search string, page pagination.Query) ([]models.FacilityModel, pagination.Meta, error) {
	return s.Browse(ctx, repo.ListQuery{
		Mode:   mode,
		Scopes: []content.Scope{content.Search(search, "name", "location", "description")},
		Order:  content.ByOrder("name ASC"),
	}, page)
}

func (s *Service) GetActiveBySlug(ctx context.Context, slug string) (*models.FacilityModel, error) {
	f, err := s.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !f.IsActive {
		return nil, apperr.NotFound("facility", slug)
	}
	return f, nil
}
