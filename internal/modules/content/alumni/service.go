package alumni

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/sekolah-web/core/internal/models"
	"github.com/sekolah-web/core/internal/modules/content"
	"github.com/sekolah-web/core/internal/modules/media"
	"github.com/sekolah-web/core/internal/pkg/pagination"
	"github.com/sekolah-web/core/internal/pkg/repo"
	"github.com/sekolah-web/core/internal/pkg/validate"
)

type CreateAlumniDTO struct {
	Name           string                 `json:"name"            validate:"required,max=150"`
	Slug           string                 `json:"slug"            validate:"omitempty,slug,max=160"`
	GraduationYear int                    `json:"graduation_year" validate:"required,min=1950,max=2100"`
	Major          string                 `json:"major"           validate:"max=150"`
	Category       string                 `json:"category"        validate:"omitempty,oneof=university professional entrepreneur public"`
	Occupation     string                 `json:"occupation"      validate:"max=150"`
	Institution    string                 `json:"institution"     validate:"max=200"`
	Testimonial    string                 `json:"testimonial"`
	Photo          string                 `json:"photo"           validate:"max=500"`
	SocialMedia    map[string]interface{} `json:"social_media"`
	IsActive       *bool                  `json:"is_active"`
	IsFeatured     bool                   `json:"is_featured"`
	Order          int                    `json:"order"`
}

type UpdateAlumniDTO struct {
	Name           *string                `json:"name"            validate:"omitempty,min=1,max=150"`
	GraduationYear *int                   `json:"graduation_year" validate:"omitempty,min=1950,max=2100"`
	Major          *string                `json:"major"           validate:"omitempty,max=150"`
	Category       *string                `json:"category"        validate:"omitempty,oneof=university professional entrepreneur public"`
	Occupation     *string                `json:"occupation"      validate:"omitempty,max=150"`
	Institution    *string                `json:"institution"     validate:"omitempty,max=200"`
	Testimonial    *string                `json:"testimonial"`
	Photo          *string                `json:"photo"           validate:"omitempty,max=500"`
	SocialMedia    map[string]interface{} `json:"social_media"`
	IsActive       *bool                  `json:"is_active"`
	IsFeatured     *bool                  `json:"is_featured"`
	Order          *int                   `json:"order"`
}

// ListQuery filters the public alumni listing. Zero values match everything.
type ListQuery struct {
	Category string
	Year     int
	Search   string
}

type Service struct {
	*content.Catalog[models.AlumniModel, *models.AlumniModel]
}

func NewService(deps content.Deps) *Service {
	return &Service{Catalog: content.NewCatalog[models.AlumniModel](deps, "alumni")}
}

func (s *Service) Create(ctx context.Context, dto *CreateAlumniDTO) (*models.AlumniModel, error) {
	if err := validate.Struct(dto); err != nil {
		return nil, err
	}
	a := &models.AlumniModel{
		SlugField:      models.SlugField{Slug: dto.Slug},
		Listing:        models.Listing{IsActive: dto.IsActive == nil || *dto.IsActive, Order: dto.Order},
		Name:           strings.TrimSpace(dto.Name),
		GraduationYear: dto.GraduationYear,
		Major:          dto.Major,
		Category:       dto.Category,
		Occupation:     dto.Occupation,
		Institution:    dto.Institution,
		Testimonial:    strings.TrimSpace(dto.Testimonial),
		Photo:          strings.TrimSpace(dto.Photo),
		SocialMedia:    models.JSONMap(dto.SocialMedia),
		IsFeatured:     dto.IsFeatured,
	}
	if err := s.Insert(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Update(ctx context.Context, id uint, dto *UpdateAlumniDTO) (*models.AlumniModel, error) {
	if err := validate.Struct(dto); err != nil {
		return nil, err
	}
	return s.Modify(ctx, id, func(a *models.AlumniModel) error {
		if dto.Name != nil {
			a.Name = strings.TrimSpace(*dto.Name)
		}
		if dto.GraduationYear != nil {
			a.GraduationYear = *dto.GraduationYear
		}
		for dst, v := range map[*string]*string{
			&a.Major: dto.Major, &a.Category: dto.Category, &a.Occupation: dto.Occupation,
			&a.Institution: dto.Institution, &a.Testimonial: dto.Testimonial, &a.Photo: dto.Photo,
		} {
			if v != nil {
				*dst = strings.TrimSpace(*v)
			}
		}
		if dto.SocialMedia != nil {
			a.SocialMedia = models.JSONMap(dto.SocialMedia)
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

// ListActive lists active alumni, most recent class first.
func (s *Service) ListActive(ctx context.Context, lq ListQuery, page pagination.Query) ([]models.AlumniModel, pagination.Meta, error) {
	scopes := []content.Scope{
		content.Active(),
		content.InCategory(lq.Category),
		content.Search(lq.Search, "name", "occupation", "institution"),
	}
	if lq.Year > 0 {
		scopes = append(scopes, func(tx *gorm.DB) *gorm.DB { return tx.Where("graduation_year = ?", lq.Year) })
	}
	return s.Browse(ctx, repo.ListQuery{
		Scopes: scopes,
		Order:  "graduation_year DESC, " + content.ByOrder("name ASC"),
	}, page)
}

// Testimonials returns featured alumni that left a testimonial.
func (s *Service) Testimonials(ctx context.Context, limit int) ([]models.AlumniModel, error) {
	return s.Top(ctx, repo.ListQuery{
		Scopes: []content.Scope{
			content.Active(),
			content.Featured(),
			func(tx *gorm.DB) *gorm.DB { return tx.Where("testimonial <> ''") },
		},
		Order: content.ByOrder("graduation_year DESC"),
	}, limit)
}

// GraduationYears lists the distinct years of active alumni, newest first.
func (s *Service) GraduationYears(ctx context.Context) ([]int, error) {
	var years []int
	err := s.DB(ctx).Scopes(content.Active()).
		Distinct("graduation_year").
		Order("graduation_year DESC").
		Pluck("graduation_year", &years).Error
	if err != nil {
		return nil, fmt.Errorf("list graduation years: %w", err)
	}
	return years, nil
}

func (s *Service) AttachPhoto(ctx context.Context, id uint, up media.Upload) (*models.AlumniModel, error) {
	a, _, err := s.AttachImage(ctx, id, up)
	return a, err
}
