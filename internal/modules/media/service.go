// Package media stores uploaded files for content records, generates their
// image conversions and resolves display URLs.
package media

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sekolah-web/core/internal/models"
	"github.com/sekolah-web/core/internal/pkg/apperr"
	"github.com/sekolah-web/core/internal/pkg/slug"
	"github.com/sekolah-web/core/internal/pkg/storage"
)

// Upload is a file handed to Attach.
type Upload struct {
	FileName   string
	Data       []byte
	MimeType   string
	Name       string
	Properties map[string]interface{}
}

type Service struct {
	db        *gorm.DB
	disks     *storage.Manager
	disk      string
	resolver  *Resolver
	converter *Converter
	logger    *zap.Logger
}

// NewService writes new uploads to the disk named disk.
func NewService(db *gorm.DB, disks *storage.Manager, disk string, resolver *Resolver, converter *Converter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		db:        db,
		disks:     disks,
		disk:      disk,
		resolver:  resolver,
		converter: converter,
		logger:    logger.Named("media"),
	}
}

func (s *Service) Resolver() *Resolver { return s.resolver }

// Attach stores up in collection of owner. In a single-file collection the
// previous asset is replaced: its row is swapped in the same transaction that
// inserts the new one, and its files are removed only after the commit.
func (s *Service) Attach(ctx context.Context, owner models.Subject, collection string, up Upload) (*models.MediaModel, error) {
	if owner == nil || owner.GetID() == 0 {
		return nil, apperr.Invalid("owner", "must be a saved record")
	}
	if strings.TrimSpace(collection) == "" {
		return nil, apperr.Invalid("collection", "is required")
	}
	if len(up.Data) == 0 {
		return nil, apperr.Invalid("file", "is empty")
	}
	disk, ok := s.disks.Disk(s.disk)
	if !ok {
		return nil, fmt.Errorf("media disk %q is not configured", s.disk)
	}

	fileName := sanitizeFileName(up.FileName)
	mimeType := strings.TrimSpace(up.MimeType)
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = storage.DetectContentType(fileName, up.Data)
	}
	name := strings.TrimSpace(up.Name)
	if name == "" {
		name = strings.TrimSuffix(fileName, path.Ext(fileName))
	}

	asset := &models.MediaModel{
		UUID:                 slug.NewUUID(),
		OwnerType:            owner.MorphType(),
		OwnerID:              owner.GetID(),
		CollectionName:       collection,
		Name:                 name,
		FileName:             fileName,
		MimeType:             mimeType,
		Disk:                 s.disk,
		Size:                 int64(len(up.Data)),
		GeneratedConversions: models.Conversions{},
		CustomProperties:     models.JSONMap(up.Properties),
	}

	// cleanup must run even when ctx is what failed the attach
	cleanup := context.WithoutCancel(ctx)
	if err := disk.Put(ctx, asset.OriginalPath(), up.Data, mimeType); err != nil {
		s.removeFiles(cleanup, asset)
		return nil, fmt.Errorf("store %s: %w", asset.OriginalPath(), err)
	}
	s.generate(ctx, disk, asset, up.Data)

	var replaced []models.MediaModel
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		scope := tx.Where("owner_type = ? AND owner_id = ? AND collection_name = ?",
			asset.OwnerType, asset.OwnerID, collection)

		if models.SingleFileCollection(collection) {
			if err := scope.Session(&gorm.Session{}).Find(&replaced).Error; err != nil {
				return err
			}
			if len(replaced) > 0 {
				ids := make([]uint, 0, len(replaced))
				for _, m := range replaced {
					ids = append(ids, m.ID)
				}
				if err := tx.Delete(&models.MediaModel{}, ids).Error; err != nil {
					return err
				}
			}
			asset.OrderColumn = 1
		} else {
			var maxOrder int
			if err := scope.Session(&gorm.Session{}).Model(&models.MediaModel{}).
				Select("COALESCE(MAX(order_column), 0)").Scan(&maxOrder).Error; err != nil {
				return err
			}
			asset.OrderColumn = maxOrder + 1
		}
		return tx.Create(asset).Error
	})
	if err != nil {
		s.removeFiles(cleanup, asset)
		return nil, fmt.Errorf("attach %s to %s %d: %w", collection, asset.OwnerType, asset.OwnerID, err)
	}

	for i := range replaced {
		s.removeFiles(ctx, &replaced[i])
	}

	s.logger.Debug("media attached",
		zap.String("owner_type", string(asset.OwnerType)),
		zap.Uint("owner_id", asset.OwnerID),
		zap.String("collection", collection),
		zap.String("uuid", asset.UUID),
		zap.Int("conversions", len(asset.GeneratedConversions)),
	)
	return asset, nil
}

// Get loads one asset.
func (s *Service) Get(ctx context.Context, id uint) (*models.MediaModel, error) {
	var m models.MediaModel
	if err := s.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, apperr.FromDB("media", id, err)
	}
	return &m, nil
}

// Delete removes an asset row and then its files.
func (s *Service) Delete(ctx context.Context, id uint) error {
	m, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(&models.MediaModel{}, id).Error; err != nil {
		return fmt.Errorf("delete media %d: %w", id, err)
	}
	s.removeFiles(ctx, m)
	return nil
}

// DeleteForOwner removes every asset of owner, used when the owner is force deleted.
func (s *Service) DeleteForOwner(ctx context.Context, owner models.Subject) error {
	assets, err := s.ForOwner(ctx, owner, "")
	if err != nil {
		return err
	}
	for i := range assets {
		if err := s.Delete(ctx, assets[i].ID); err != nil && !errors.Is(err, apperr.ErrNotFound) {
			return err
		}
	}
	return nil
}

// ForOwner lists the assets of owner in display order. An empty collection
// matches all of them.
func (s *Service) ForOwner(ctx context.Context, owner models.Subject, collection string) ([]models.MediaModel, error) {
	tx := s.db.WithContext(ctx).
		Where("owner_type = ? AND owner_id = ?", owner.MorphType(), owner.GetID())
	if collection != "" {
		tx = tx.Where("collection_name = ?", collection)
	}
	var out []models.MediaModel
	if err := tx.Order("order_column ASC, id ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list media of %s %d: %w", owner.MorphType(), owner.GetID(), err)
	}
	return out, nil
}

// SourceFor collects the asset and legacy path of owner's image slot.
func (s *Service) SourceFor(ctx context.Context, owner models.MediaOwner) (Source, error) {
	assets, err := s.ForOwner(ctx, owner, owner.MediaCollection())
	if err != nil {
		return Source{}, err
	}
	src := Source{Legacy: owner.LegacyImage()}
	if len(assets) > 0 {
		src.Asset = &assets[0]
	}
	return src, nil
}

// Sources is SourceFor for many owners with one query per (type, collection).
func (s *Service) Sources(ctx context.Context, owners []models.MediaOwner) ([]Source, error) {
	type group struct {
		typ        models.MorphType
		collection string
	}
	ids := make(map[group][]uint)
	for _, o := range owners {
		g := group{o.MorphType(), o.MediaCollection()}
		ids[g] = append(ids[g], o.GetID())
	}

	first := make(map[group]map[uint]*models.MediaModel, len(ids))
	for g, list := range ids {
		var assets []models.MediaModel
		err := s.db.WithContext(ctx).
			Where("owner_type = ? AND collection_name = ? AND owner_id IN ?", g.typ, g.collection, list).
			Order("order_column ASC, id ASC").
			Find(&assets).Error
		if err != nil {
			return nil, fmt.Errorf("load media of %s: %w", g.typ, err)
		}
		byOwner := make(map[uint]*models.MediaModel, len(assets))
		for i := range assets {
			if _, ok := byOwner[assets[i].OwnerID]; !ok {
				byOwner[assets[i].OwnerID] = &assets[i]
			}
		}
		first[g] = byOwner
	}

	out := make([]Source, len(owners))
	for i, o := range owners {
		out[i] = Source{
			Asset:  first[group{o.MorphType(), o.MediaCollection()}][o.GetID()],
			Legacy: o.LegacyImage(),
		}
	}
	return out, nil
}

// Decorate resolves the image slot of each owner at size and stores it on the owner.
func (s *Service) Decorate(ctx context.Context, size Size, owners ...models.MediaOwner) error {
	if len(owners) == 0 {
		return nil
	}
	srcs, err := s.Sources(ctx, owners)
	if err != nil {
		return err
	}
	for i, o := range owners {
		o.SetImage(s.resolver.Resolve(srcs[i], size))
	}
	return nil
}

// Regenerate rebuilds every conversion of an asset from its stored original.
func (s *Service) Regenerate(ctx context.Context, id uint) (*models.MediaModel, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	disk, ok := s.disks.Disk(m.Disk)
	if !ok {
		return nil, fmt.Errorf("media %d: disk %q is not configured", id, m.Disk)
	}
	if !m.IsImage() {
		return m, nil
	}
	data, err := disk.Get(ctx, m.OriginalPath())
	if err != nil {
		return nil, fmt.Errorf("read original of media %d: %w", id, err)
	}

	s.removeConversions(ctx, disk, m)
	m.GeneratedConversions = models.Conversions{}
	s.generate(ctx, disk, m, data)

	if err := s.saveConversions(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// ClearConversions deletes the derived files of an asset and forgets them.
func (s *Service) ClearConversions(ctx context.Context, id uint) (*models.MediaModel, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if disk, ok := s.disks.Disk(m.Disk); ok {
		s.removeConversions(ctx, disk, m)
	}
	m.GeneratedConversions = models.Conversions{}
	if err := s.saveConversions(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// MissingConversions lists image assets without any generated conversion,
// optionally limited to one collection.
func (s *Service) MissingConversions(ctx context.Context, collection string) ([]models.MediaModel, error) {
	tx := s.db.WithContext(ctx).Where("mime_type LIKE ?", "image/%")
	if collection != "" {
		tx = tx.Where("collection_name = ?", collection)
	}
	var all []models.MediaModel
	if err := tx.Order("id ASC").Find(&all).Error; err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	out := all[:0]
	for _, m := range all {
		if m.IsImage() && !m.GeneratedConversions.Any() {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *Service) saveConversions(ctx context.Context, m *models.MediaModel) error {
	err := s.db.WithContext(ctx).Model(m).
		Update("generated_conversions", m.GeneratedConversions).Error
	if err != nil {
		return fmt.Errorf("update conversions of media %d: %w", m.ID, err)
	}
	return nil
}

// generate writes the conversions of an image asset. Failures are logged and
// leave the conversion unmarked, so resolution falls back to the original.
func (s *Service) generate(ctx context.Context, disk storage.Disk, m *models.MediaModel, data []byte) {
	if !m.IsImage() || s.converter == nil {
		return
	}
	if m.GeneratedConversions == nil {
		m.GeneratedConversions = models.Conversions{}
	}
	variants, err := s.converter.Convert(data)
	if err != nil {
		s.logger.Warn("image conversion failed", zap.String("uuid", m.UUID), zap.Error(err))
		return
	}
	for _, v := range variants {
		p := m.ConversionPath(v.Name, string(v.Format))
		if err := disk.Put(ctx, p, v.Data, v.ContentType); err != nil {
			s.logger.Warn("store conversion failed", zap.String("path", p), zap.Error(err))
			continue
		}
		m.GeneratedConversions[v.Name] = true
	}
}

func (s *Service) removeFiles(ctx context.Context, m *models.MediaModel) {
	disk, ok := s.disks.Disk(m.Disk)
	if !ok {
		return
	}
	s.removeConversions(ctx, disk, m)
	if err := disk.Delete(ctx, m.OriginalPath()); err != nil {
		s.logger.Warn("delete media file failed", zap.String("path", m.OriginalPath()), zap.Error(err))
	}
}

func (s *Service) removeConversions(ctx context.Context, disk storage.Disk, m *models.MediaModel) {
	for name := range m.GeneratedConversions {
		p := m.ConversionPath(name, conversionExt(name))
		if err := disk.Delete(ctx, p); err != nil {
			s.logger.Warn("delete conversion failed", zap.String("path", p), zap.Error(err))
		}
	}
}

// sanitizeFileName keeps the extension and slugs the stem.
func sanitizeFileName(name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	ext := strings.ToLower(path.Ext(name))
	stem := slug.Make(strings.TrimSuffix(name, path.Ext(name)))
	if ext == "." {
		ext = ""
	}
	return stem + ext
}
