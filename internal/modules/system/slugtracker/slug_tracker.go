package slugtracker

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/sekolah-web/core/internal/models"
)

// Service remembers retired slugs so links to them keep resolving.
type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// WithTx returns a Service bound to tx.
func (s *Service) WithTx(tx *gorm.DB) *Service { return &Service{db: tx} }

// Track records that oldSlug of the given type now points to targetID.
func (s *Service) Track(ctx context.Context, oldSlug string, typ models.MorphType, targetID uint) error {
	tracker := models.SlugTrackerModel{
		Slug:     oldSlug,
		Type:     typ,
		TargetID: targetID,
	}

	return s.db.WithContext(ctx).
		Where(models.SlugTrackerModel{Slug: oldSlug, Type: typ}).
		Assign(models.SlugTrackerModel{TargetID: targetID}).
		FirstOrCreate(&tracker).Error
}

// Find returns the target of a retired slug, or ok=false when it was never tracked.
func (s *Service) Find(ctx context.Context, slug string, typ models.MorphType) (uint, bool, error) {
	var tracker models.SlugTrackerModel
	err := s.db.WithContext(ctx).Where("slug = ? AND type = ?", slug, typ).
		Order("id DESC").First(&tracker).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return tracker.TargetID, true, nil
}

// Forget drops a tracked slug, used when a record takes that slug again.
func (s *Service) Forget(ctx context.Context, slug string, typ models.MorphType) error {
	return s.db.WithContext(ctx).Where("slug = ? AND type = ?", slug, typ).
		Delete(&models.SlugTrackerModel{}).Error
}

// DeleteByTarget removes every tracked slug of one record.
func (s *Service) DeleteByTarget(ctx context.Context, typ models.MorphType, targetID uint) error {
	return s.db.WithContext(ctx).Where("type = ? AND target_id = ?", typ, targetID).
		Delete(&models.SlugTrackerModel{}).Error
}
