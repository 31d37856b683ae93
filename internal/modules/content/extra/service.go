package extra

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

type CreateExtraDTO struct {
	Name            string   `json:"name"             validate:"required,max=150"`
	Slug            string   `json:"slug"             validate:"omitempty,slug,max=160"`
	Description     string   `json:"description"`
	Category        string   `json:"category"         validate:"omitempty,oneof=sports arts academic religious scouting technology"`
	Supervisor      string   `json:"supervisor"       validate:"max=150"`
	MeetingSchedule string   `json:"meeting_schedule" validate:"max=200"`
	Location        string   `json:"location"         validate:"max=200"`
	Capacity        *int     `json:"capacity"         validate:"omitempty,min=1"`
	Requirements    []string `json:"requirements"     validate:"omitempty,dive,max=255"`
	Achievements    []string `json:"achievements"     validate:"omitempty,dive,max=255"`
	Image           string   `json:"image"            validate:"max=500"`
	IsActive        *bool    `json:"is_active"`
	IsFeatured      bool     `json:"is_featured"`
	Order           int      `json:"order"`
}

type UpdateExtraDTO struct {
	Name            *string  `json:"name"             validate:"omitempty,min=1,max=150"`
	Description     *string  `json:"description"`
	Category        *string  `json:"category"         validate:"omitempty,oneof=sports arts academic religious scouting technology"`
	Supervisor      *string  `json:"supervisor"       validate:"omitempty,max=150"`
	MeetingSchedule *string  `json:"meeting_schedule" validate:"omitempty,max=200"`
	Location        *string  `json:"location"         validate:"omitempty,max=200"`
	Capacity        *int     `json:"capacity"         validate:"omitempty,min=1"`
	Unlimited       bool     `json:"unlimited"`
	Requirements    []string `json:"requirements"     validate:"omitempty,dive,max=255"`
	Achievements    []string `json:"achievements"     validate:"omitempty,dive,max=255"`
	Image           *string  `json:"image"            validate:"omitempty,max=500"`
	IsActive        *bool    `json:"is_active"`
	IsFeatured      *bool    `json:"is_featured"`
	Order           *int     `json:"order"`
}

// Service manages extracurricular activities and their member counts.
type Service struct {
	*content.Catalog[models.ExtraModel, *models.ExtraModel]
}

func NewService(deps content.Deps) *Service {
	return &Service{Catalog: content.NewCatalog[models.ExtraModel](deps, "ekstrakurikuler")}
}

func (s *Service) Create(ctx context.Context, dto *CreateExtraDTO) (*models.ExtraModel, error) {
	if err := validate.Struct(dto); err != nil {
		return nil, err
	}
	e := &models.ExtraModel{
		SlugField:       models.SlugField{Slug: dto.Slug},
		Listing:         models.Listing{IsActive: dto.IsActive == nil || *dto.IsActive, Order: dto.Order},
		Name:            strings.TrimSpace(dto.Name),
		Description:     dto.Description,
		Category:        dto.Category,
		Supervisor:      dto.Supervisor,
		MeetingSchedule: dto.MeetingSchedule,
		Location:        dto.Location,
		Capacity:        dto.Capacity,
		Requirements:    models.StringArray(dto.Requirements),
		Achievements:    models.StringArray(dto.Achievements),
		ImagePath:       strings.TrimSpace(dto.Image),
		IsFeatured:      dto.IsFeatured,
	}
	if err := s.Insert(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Update leaves member_count to Join and Leave. Lowering the
// capacity below the current members is allowed and leaves no free slots.
func (s *Service) Update(ctx context.Context, id uint, dto *UpdateExtraDTO) (*models.ExtraModel, error) {
	if err := validate.Struct(dto); err != nil {
		return nil, err
	}
	return s.Modify(ctx, id, func(e *models.ExtraModel) error {
		if dto.Name != nil {
			e.Name = strings.TrimSpace(*dto.Name)
		}
		if dto.Description != nil {
			e.Description = *dto.Description
		}
		if dto.Category != nil {
			e.Category = *dto.Category
		}
		if dto.Supervisor != nil {
			e.Supervisor = *dto.Supervisor
		}
		if dto.MeetingSchedule != nil {
			e.MeetingSchedule = *dto.MeetingSchedule
		}
		if dto.Location != nil {
			e.Location = *dto.Location
		}
		if dto.Capacity != nil {
			e.Capacity = dto.Capacity
		}
		if dto.Unlimited {
			e.Capacity = nil
		}
		if dto.Requirements != nil {
			e.Requirements = models.StringArray(dto.Requirements)
		}
		if dto.Achievements != nil {
			e.Achievements = models.StringArray(dto.Achievements)
		}
		if dto.Image != nil {
			e.ImagePath = strings.TrimSpace(*dto.Image)
		}
		if dto.IsActive != nil {
			e.IsActive = *dto.IsActive
		}
		if dto.IsFeatured != nil {
			e.IsFeatured = *dto.IsFeatured
		}
		if dto.Order != nil {
			e.Order = *dto.Order
		}
		return nil
	})
}

// ListActive lists active extracurriculars of a category in display order.
func (s *Service) ListActive(ctx context.Context, category string) ([]models.ExtraModel, error) {
	return s.Top(ctx, repo.ListQuery{
		Scopes: []content.Scope{content.Active(), content.InCategory(category)},
		Order:  content.ByOrder("name ASC"),
	}, 0)
}

func (s *Service) ListFeatured(ctx context.Context, limit int) ([]models.ExtraModel, error) {
	return s.Top(ctx, repo.ListQuery{
		Scopes: []content.Scope{content.Active(), content.Featured()},
		Order:  content.ByOrder("name ASC"),
	}, limit)
}

// ListOpen lists active extracurriculars that still have a free slot.
func (s *Service) ListOpen(ctx context.Context) ([]models.ExtraModel, error) {
	return s.Top(ctx, repo.ListQuery{
		Scopes: []content.Scope{content.Active(), hasSlots},
		Order:  content.ByOrder("name ASC"),
	}, 0)
}

// Join takes one slot. The capacity check and the increment are a single
// conditional UPDATE, so concurrent joins cannot overfill an activity.
func (s *Service) Join(ctx context.Context, id uint) (*models.ExtraModel, error) {
	e, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	res := s.DB(ctx).Where("id = ?", id).Scopes(hasSlots).
		UpdateColumn("member_count", gorm.Expr("member_count + ?", 1))
	if res.Error != nil {
		return nil, fmt.Errorf("join extra %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("extra %q: %w", e.Name, apperr.ErrNoCapacity)
	}
	return s.afterCount(ctx, id, "Anggota bergabung ke ekstrakurikuler %q")
}

// Leave frees one slot; the count never drops below zero.
func (s *Service) Leave(ctx context.Context, id uint) (*models.ExtraModel, error) {
	if _, err := s.Repo.Get(ctx, id); err != nil {
		return nil, err
	}
	res := s.DB(ctx).Where("id = ? AND member_count > 0", id).
		UpdateColumn("member_count", gorm.Expr("member_count - ?", 1))
	if res.Error != nil {
		return nil, fmt.Errorf("leave extra %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperr.Invalid("member_count", "extra %d has no members", id)
	}
	return s.afterCount(ctx, id, "Anggota keluar dari ekstrakurikuler %q")
}

func (s *Service) afterCount(ctx context.Context, id uint, desc string) (*models.ExtraModel, error) {
	e, err := s.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	content.Record(ctx, s.Deps.Activity, models.ActionUpdate, e, fmt.Sprintf(desc, e.Name),
		"member_count", e.MemberCount)
	return e, nil
}

func hasSlots(tx *gorm.DB) *gorm.DB {
	return tx.Where("(capacity IS NULL OR member_count < capacity)")
}
