package gallery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sekolah-web/core/internal/models"
	"github.com/sekolah-web/core/internal/modules/content"
	"github.com/sekolah-web/core/internal/modules/media"
	"github.com/sekolah-web/core/internal/pkg/apperr"
	"github.com/sekolah-web/core/internal/pkg/pagination"
	"github.com/sekolah-web/core/internal/pkg/repo"
	"github.com/sekolah-web/core/internal/pkg/validate"
)

const itemOrder = "sort_order ASC, id ASC"

// Service manages galleries and their pictures. A gallery's image comes from
// its thumbnail upload, then its legacy thumbnail path, then its first picture.
type Service struct {
	*content.Catalog[models.GalleryModel, *models.GalleryModel]
}

func NewService(deps content.Deps) *Service {
	return &Service{Catalog: content.NewCatalog[models.GalleryModel](deps, "galeri")}
}

func (s *Service) Create(ctx context.Context, dto *CreateGalleryDTO) (*models.GalleryModel, error) {
	if err := validate.Struct(dto); err != nil {
		return nil, err
	}
	g := &models.GalleryModel{
		SlugField:   models.SlugField{Slug: dto.Slug},
		Title:       strings.TrimSpace(dto.Title),
		Description: dto.Description,
		Category:    dto.Category,
		EventDate:   toDate(dto.EventDate),
		Thumbnail:   strings.TrimSpace(dto.Thumbnail),
		IsFeatured:  dto.IsFeatured,
		Listing:     models.Listing{IsActive: dto.IsActive == nil || *dto.IsActive, Order: dto.Order},
	}
	if err := s.Insert(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *Service) Update(ctx context.Context, id uint, dto *UpdateGalleryDTO) (*models.GalleryModel, error) {
	if err := validate.Struct(dto); err != nil {
		return nil, err
	}
	g, err := s.Modify(ctx, id, func(g *models.GalleryModel) error {
		if dto.Title != nil {
			g.Title = strings.TrimSpace(*dto.Title)
		}
		if dto.Description != nil {
			g.Description = *dto.Description
		}
		if dto.Category != nil {
			g.Category = *dto.Category
		}
		if dto.EventDate != nil {
			g.EventDate = toDate(dto.EventDate)
		}
		if dto.Thumbnail != nil {
			g.Thumbnail = strings.TrimSpace(*dto.Thumbnail)
		}
		if dto.IsActive != nil {
			g.IsActive = *dto.IsActive
		}
		if dto.IsFeatured != nil {
			g.IsFeatured = *dto.IsFeatured
		}
		if dto.Order != nil {
			g.Order = *dto.Order
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.resolve(ctx, false, g)
	return g, nil
}

// Find loads a live gallery with its pictures.
func (s *Service) Find(ctx context.Context, id uint) (*models.GalleryModel, error) {
	g, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.resolve(ctx, true, g)
	return g, nil
}

// FindBySlug loads an active gallery with its pictures.
func (s *Service) FindBySlug(ctx context.Context, slug string) (*models.GalleryModel, error) {
	g, err := s.Repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !g.IsActive {
		return nil, apperr.NotFound("gallery", slug)
	}
	s.resolve(ctx, true, g)
	return g, nil
}

// ListActive lists active galleries, newest event first.
func (s *Service) ListActive(ctx context.Context, category string, page pagination.Query) ([]models.GalleryModel, pagination.Meta, error) {
	rows, meta, err := s.Repo.List(ctx, repo.ListQuery{
		Scopes: []content.Scope{content.Active(), content.InCategory(category)},
		Order:  "event_date DESC, id DESC",
	}, page)
	if err != nil {
		return nil, meta, err
	}
	s.resolveAll(ctx, rows)
	return rows, meta, nil
}

// ListFeatured returns up to limit active featured galleries in display order.
func (s *Service) ListFeatured(ctx context.Context, limit int) ([]models.GalleryModel, error) {
	rows, err := s.Repo.All(ctx, repo.ListQuery{
		Scopes: []content.Scope{content.Active(), content.Featured()},
		Order:  content.ByOrder("event_date DESC"),
	}, limit)
	if err != nil {
		return nil, err
	}
	s.resolveAll(ctx, rows)
	return rows, nil
}

// AttachThumbnail uploads the cover picture of a gallery, replacing any previous one.
func (s *Service) AttachThumbnail(ctx context.Context, id uint, up media.Upload) (*models.GalleryModel, error) {
	g, _, err := s.AttachImage(ctx, id, up)
	if err != nil {
		return nil, err
	}
	s.resolve(ctx, false, g)
	return g, nil
}

// Items lists the pictures of a gallery in display order.
func (s *Service) Items(ctx context.Context, galleryID uint) ([]models.GalleryItemModel, error) {
	if _, err := s.Repo.Get(ctx, galleryID); err != nil {
		return nil, err
	}
	items, err := s.loadItems(ctx, galleryID)
	if err != nil {
		return nil, err
	}
	s.resolveItems(items)
	return items, nil
}

// AddItem appends a picture. Without an explicit order it goes after the
// current last picture.
func (s *Service) AddItem(ctx context.Context, galleryID uint, in ItemInput) (*models.GalleryItemModel, error) {
	if err := validate.Struct(&in); err != nil {
		return nil, err
	}
	if in.Upload == nil && strings.TrimSpace(in.Image) == "" {
		return nil, apperr.Invalid("image", "an upload or an image path is required")
	}
	g, err := s.Repo.Get(ctx, galleryID)
	if err != nil {
		return nil, err
	}

	item := &models.GalleryItemModel{
		GalleryID: g.ID,
		Image:     strings.TrimSpace(in.Image),
		Caption:   strings.TrimSpace(in.Caption),
	}
	if in.Upload != nil {
		if s.Deps.Media == nil {
			return nil, apperr.Invalid("image", "uploads are not configured")
		}
		asset, err := s.Deps.Media.Attach(ctx, g, models.CollectionGalleryImages, *in.Upload)
		if err != nil {
			return nil, err
		}
		item.MediaID = &asset.ID
		item.Media = asset
	}

	err = s.Deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.Order != nil {
			item.Order = *in.Order
		} else {
			var last int
			if err := tx.Model(&models.GalleryItemModel{}).
				Where("gallery_id = ?", g.ID).
				Select("COALESCE(MAX(sort_order), 0)").
				Scan(&last).Error; err != nil {
				return err
			}
			item.Order = last + 1
		}
		return tx.Omit("Media").Create(item).Error
	})
	if err != nil {
		if item.MediaID != nil {
			if derr := s.Deps.Media.Delete(ctx, *item.MediaID); derr != nil {
				s.logger().Warn("remove orphaned gallery upload failed", zap.Uint("media_id", *item.MediaID), zap.Error(derr))
			}
		}
		return nil, fmt.Errorf("add picture to gallery %d: %w", g.ID, err)
	}

	item.Resolved = s.resolver().Resolve(itemSource(*item), media.SizeMedium)
	content.Record(ctx, s.Deps.Activity, models.ActionUpload, g,
		fmt.Sprintf("Menambahkan foto ke galeri %q", g.Title), "item_id", item.ID)
	return item, nil
}

// ReorderItems renumbers the pictures of a gallery 1..n in the order of ids.
// Every id must belong to the gallery.
func (s *Service) ReorderItems(ctx context.Context, galleryID uint, ids []uint) ([]models.GalleryItemModel, error) {
	g, err := s.Repo.Get(ctx, galleryID)
	if err != nil {
		return nil, err
	}
	err = s.Deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, id := range ids {
			res := tx.Model(&models.GalleryItemModel{}).
				Where("id = ? AND gallery_id = ?", id, g.ID).
				Update("sort_order", i+1)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return apperr.Invalid("items", "picture %d is not part of gallery %d", id, g.ID)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	content.Record(ctx, s.Deps.Activity, models.ActionUpdate, g,
		fmt.Sprintf("Mengurutkan ulang foto galeri %q", g.Title), "order", ids)
	return s.Items(ctx, g.ID)
}

// RemoveItem deletes a picture and its uploaded file.
func (s *Service) RemoveItem(ctx context.Context, galleryID, itemID uint) error {
	g, err := s.Repo.Get(ctx, galleryID)
	if err != nil {
		return err
	}
	var item models.GalleryItemModel
	if err := s.Deps.DB.WithContext(ctx).
		Where("id = ? AND gallery_id = ?", itemID, g.ID).
		First(&item).Error; err != nil {
		return apperr.FromDB("gallery item", itemID, err)
	}
	if err := s.Deps.DB.WithContext(ctx).Delete(&item).Error; err != nil {
		return fmt.Errorf("remove gallery item %d: %w", itemID, err)
	}
	if item.MediaID != nil && s.Deps.Media != nil {
		if err := s.Deps.Media.Delete(ctx, *item.MediaID); err != nil {
			s.logger().Warn("remove gallery upload failed", zap.Uint("media_id", *item.MediaID), zap.Error(err))
		}
	}
	content.Record(ctx, s.Deps.Activity, models.ActionDelete, g,
		fmt.Sprintf("Menghapus foto dari galeri %q", g.Title), "item_id", itemID)
	return nil
}

// ForceDelete removes the gallery, its pictures and every uploaded file.
func (s *Service) ForceDelete(ctx context.Context, id uint) error {
	if _, err := s.Repo.GetWithTrashed(ctx, id); err != nil {
		return err
	}
	if err := s.Deps.DB.WithContext(ctx).Where("gallery_id = ?", id).
		Delete(&models.GalleryItemModel{}).Error; err != nil {
		return fmt.Errorf("remove items of gallery %d: %w", id, err)
	}
	return s.Catalog.ForceDelete(ctx, id)
}

func (s *Service) loadItems(ctx context.Context, galleryIDs ...uint) ([]models.GalleryItemModel, error) {
	var items []models.GalleryItemModel
	err := s.Deps.DB.WithContext(ctx).
		Preload("Media").
		Where("gallery_id IN ?", galleryIDs).
		Order(itemOrder).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("load gallery items: %w", err)
	}
	return items, nil
}

// ImageSource returns the image slot of a gallery with its pictures as
// fallbacks, ready to be resolved at any size.
func (s *Service) ImageSource(ctx context.Context, g *models.GalleryModel) (media.Source, error) {
	src, err := s.Deps.Media.SourceFor(ctx, g)
	if err != nil {
		return media.Source{}, err
	}
	items, err := s.loadItems(ctx, g.ID)
	if err != nil {
		return media.Source{}, err
	}
	for _, it := range items {
		src.Children = append(src.Children, itemSource(it))
	}
	return src, nil
}

func (s *Service) resolveAll(ctx context.Context, rows []models.GalleryModel) {
	gs := make([]*models.GalleryModel, len(rows))
	for i := range rows {
		gs[i] = &rows[i]
	}
	s.resolve(ctx, false, gs...)
}

// resolve sets Image on each gallery; withItems also attaches the resolved
// pictures.
func (s *Service) resolve(ctx context.Context, withItems bool, gs ...*models.GalleryModel) {
	if s.Deps.Media == nil || len(gs) == 0 {
		return
	}
	ids := make([]uint, len(gs))
	owners := make([]models.MediaOwner, len(gs))
	for i, g := range gs {
		ids[i] = g.ID
		owners[i] = g
	}
	srcs, err := s.Deps.Media.Sources(ctx, owners)
	if err != nil {
		s.logger().Warn("resolve gallery images failed", zap.Error(err))
		return
	}
	items, err := s.loadItems(ctx, ids...)
	if err != nil {
		s.logger().Warn("resolve gallery images failed", zap.Error(err))
		return
	}
	s.resolveItems(items)

	byGallery := make(map[uint][]models.GalleryItemModel, len(gs))
	for _, it := range items {
		byGallery[it.GalleryID] = append(byGallery[it.GalleryID], it)
	}
	for i, g := range gs {
		src := srcs[i]
		for _, it := range byGallery[g.ID] {
			src.Children = append(src.Children, itemSource(it))
		}
		g.Image = s.resolver().Resolve(src, media.SizeMedium)
		if withItems {
			g.Items = byGallery[g.ID]
			if g.Items == nil {
				g.Items = []models.GalleryItemModel{}
			}
		}
	}
}

func (s *Service) resolveItems(items []models.GalleryItemModel) {
	if s.Deps.Media == nil {
		return
	}
	for i := range items {
		items[i].Resolved = s.resolver().Resolve(itemSource(items[i]), media.SizeMedium)
	}
}

func (s *Service) resolver() *media.Resolver { return s.Deps.Media.Resolver() }

func (s *Service) logger() *zap.Logger {
	if s.Deps.Logger == nil {
		return zap.NewNop()
	}
	return s.Deps.Logger.Named("gallery")
}

func itemSource(it models.GalleryItemModel) media.Source {
	return media.Source{Asset: it.Media, Legacy: it.Image}
}

func toDate(t *time.Time) *datatypes.Date {
	if t == nil {
		return nil
	}
	d := datatypes.Date(*t)
	return &d
}
