package staff

import (
	"context"
	"fmt"
	"strings"

	"github.com/sekolah-web/core/internal/models"
	"github.com/sekolah-web/core/internal/modules/content"
	"github.com/sekolah-web/core/internal/modules/media"
	"github.com/sekolah-web/core/internal/pkg/apperr"
	"github.com/sekolah-web/core/internal/pkg/pagination"
	"github.com/sekolah-web/core/internal/pkg/repo"
	"github.com/sekolah-web/core/internal/pkg/softdelete"
	"github.com/sekolah-web/core/internal/pkg/validate"
)

// Service manages teacher and employee profiles.
type Service struct {
	*content.Catalog[models.StaffModel, *models.StaffModel]
}

func NewService(deps content.Deps) *Service {
	return &Service{Catalog: content.NewCatalog[models.StaffModel](deps, "staf")}
}

func (s *Service) Create(ctx context.Context, dto *CreateStaffDTO) (*models.StaffModel, error) {
	if err := validate.Struct(dto); err != nil {
		return nil, err
	}
	number := trimmedOrNil(dto.EmployeeNumber)
	if err := s.checkEmployeeNumber(ctx, number, 0); err != nil {
		return nil, err
	}
	st := &models.StaffModel{
		SlugField:      models.SlugField{Slug: dto.Slug},
		Listing:        models.Listing{IsActive: dto.IsActive == nil || *dto.IsActive, Order: dto.Order},
		Name:           strings.TrimSpace(dto.Name),
		EmployeeNumber: number,
		Position:       dto.Position,
		Category:       dto.Category,
		Department:     dto.Department,
		Subject:        dto.Subject,
		Education:      dto.Education,
		Email:          dto.Email,
		Phone:          dto.Phone,
		Bio:            dto.Bio,
		Photo:          strings.TrimSpace(dto.Photo),
		SocialMedia:    models.JSONMap(dto.SocialMedia),
	}
	if err := s.Insert(ctx, st); err != nil {
		return nil, s.duplicate(err, number)
	}
	return st, nil
}

func (s *Service) Update(ctx context.Context, id uint, dto *UpdateStaffDTO) (*models.StaffModel, error) {
	if err := validate.Struct(dto); err != nil {
		return nil, err
	}
	var number *string
	if dto.EmployeeNumber != nil {
		number = trimmedOrNil(dto.EmployeeNumber)
		if err := s.checkEmployeeNumber(ctx, number, id); err != nil {
			return nil, err
		}
	}
	st, err := s.Modify(ctx, id, func(st *models.StaffModel) error {
		if dto.Name != nil {
			st.Name = strings.TrimSpace(*dto.Name)
		}
		if dto.EmployeeNumber != nil {
			st.EmployeeNumber = number
		}
		setString(&st.Position, dto.Position)
		setString(&st.Category, dto.Category)
		setString(&st.Department, dto.Department)
		setString(&st.Subject, dto.Subject)
		setString(&st.Education, dto.Education)
		setString(&st.Email, dto.Email)
		setString(&st.Phone, dto.Phone)
		setString(&st.Bio, dto.Bio)
		setString(&st.Photo, dto.Photo)
		if dto.SocialMedia != nil {
			st.SocialMedia = models.JSONMap(dto.SocialMedia)
		}
		if dto.IsActive != nil {
			st.IsActive = *dto.IsActive
		}
		if dto.Order != nil {
			st.Order = *dto.Order
		}
		return nil
	})
	if err != nil {
		return nil, s.duplicate(err, number)
	}
	return st, nil
}

// ListActive lists active staff of a category, or of every category, in
// display order.
func (s *Service) ListActive(ctx context.Context, category string) ([]models.StaffModel, error) {
	return s.Top(ctx, repo.ListQuery{
		Scopes: []content.Scope{content.Active(), content.InCategory(category)},
		Order:  content.ByOrder("name ASC"),
	}, 0)
}

// ListAll is the admin listing with search over name, position and subject.
func (s *Service) ListAll(ctx context.Context, mode softdelete.Mode, search string, page pagination.Query) ([]models.StaffModel, pagination.Meta, error) {
	return s.Browse(ctx, repo.ListQuery{
		Mode:   mode,
		Scopes: []content.Scope{content.Search(search, "name", "position", "subject")},
		Order:  content.ByOrder("name ASC"),
	}, page)
}

// GetActiveBySlug returns an active profile.
func (s *Service) GetActiveBySlug(ctx context.Context, slug string) (*models.StaffModel, error) {
	st, err := s.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !st.IsActive {
		return nil, apperr.NotFound("staff", slug)
	}
	return st, nil
}

// AttachPhoto replaces the profile photo.
func (s *Service) AttachPhoto(ctx context.Context, id uint, up media.Upload) (*models.StaffModel, error) {
	st, _, err := s.AttachImage(ctx, id, up)
	return st, err
}

// checkEmployeeNumber rejects a number held by another row, trashed rows included.
func (s *Service) checkEmployeeNumber(ctx context.Context, number *string, self uint) error {
	if number == nil {
		return nil
	}
	var n int64
	err := s.Deps.DB.WithContext(ctx).Unscoped().Model(&models.StaffModel{}).
		Where("employee_number = ? AND id <> ?", *number, self).
		Count(&n).Error
	if err != nil {
		return fmt.Errorf("check employee number: %w", err)
	}
	if n > 0 {
		return apperr.Duplicate("employee_number", *number)
	}
	return nil
}

// duplicate names the employee number when a concurrent insert won the race.
func (s *Service) duplicate(err error, number *string) error {
	if number != nil && apperr.IsDuplicateKey(err) {
		return apperr.Duplicate("employee_number", *number)
	}
	return err
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
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
