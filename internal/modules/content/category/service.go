package category

import (
	"context"
	"strings"

	"github.com/sekolah-web/core/internal/models"
	"github.com/sekolah-web/core/internal/modules/content"
	"github.com/sekolah-web/core/internal/pkg/apperr"
	"github.com/sekolah-web/core/internal/pkg/repo"
	"github.com/sekolah-web/core/internal/pkg/validate"
)

type CreateCategoryDTO struct {
	Name        string `json:"name"        validate:"required,max=120"`
	Slug        string `json:"slug"        validate:"omitempty,slug,max=160"`
	Description string `json:"description"`
	Color       string `json:"color"       validate:"omitempty,hexcolor"`
}

type UpdateCategoryDTO struct {
	Name        *string `json:"name"        validate:"omitempty,min=1,max=120"`
	Description *string `json:"description"`
	Color       *string `json:"color"       validate:"omitempty,hexcolor"`
}

// PostCount is a category with the number of live posts in it.
type PostCount struct {
	models.CategoryModel
	Count int64 `json:"count"`
}

type Service struct {
	*content.Catalog[models.CategoryModel, *models.CategoryModel]
}

func NewService(deps content.Deps) *Service {
	return &Service{Catalog: content.NewCatalog[models.CategoryModel](deps, "kategori")}
}

func (s *Service) Create(ctx context.Context, dto *CreateCategoryDTO) (*models.CategoryModel, error) {
	if err := validate.Struct(dto); err != nil {
		return nil, err
	}
	cat := &models.CategoryModel{
		SlugField:   models.SlugField{Slug: dto.Slug},
		Name:        strings.TrimSpace(dto.Name),
		Description: dto.Description,
		Color:       dto.Color,
	}
	if err := s.Insert(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

func (s *Service) Update(ctx context.Context, id uint, dto *UpdateCategoryDTO) (*models.CategoryModel, error) {
	if err := validate.Struct(dto); err != nil {
		return nil, err
	}
	return s.Modify(ctx, id, func(c *models.CategoryModel) error {
		if dto.Name != nil {
			c.Name = strings.TrimSpace(*dto.Name)
		}
		if dto.Description != nil {
			c.Description = *dto.Description
		}
		if dto.Color != nil {
			c.Color = *dto.Color
		}
		return nil
	})
}

// List returns every category by name.
func (s *Service) List(ctx context.Context) ([]models.CategoryModel, error) {
	return s.Top(ctx, repo.ListQuery{Order: "name ASC, id ASC"}, 0)
}

// WithCounts lists categories with their number of posts, trashed posts excluded.
func (s *Service) WithCounts(ctx context.Context) ([]PostCount, error) {
	var out []PostCount
	err := s.DB(ctx).
		Select("categories.*, COUNT(posts.id) AS count").
		Joins("LEFT JOIN posts ON posts.category_id = categories.id AND posts.deleted_at IS NULL").
		Group("categories.id").
		Order("categories.name ASC").
		Scan(&out).Error
	return out, err
}

// Delete refuses to trash a category that still has posts.
func (s *Service) Delete(ctx context.Context, id uint) error {
	var n int64
	if err := s.Deps.DB.WithContext(ctx).Model(&models.PostModel{}).Where("category_id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return apperr.Invalid("category", "still used by %d posts", n)
	}
	return s.Catalog.Delete(ctx, id)
}
