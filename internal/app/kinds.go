package app

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/sekolah-web/core/internal/models"
	"github.com/sekolah-web/core/internal/modules/media"
	"github.com/sekolah-web/core/internal/pkg/apperr"
	"github.com/sekolah-web/core/internal/pkg/repo"
)

// trash is what purging needs from a kind service.
type trash interface {
	TrashedBefore(ctx context.Context, cutoff time.Time) ([]uint, error)
	ForceDelete(ctx context.Context, id uint) error
}

type imageLookup func(ctx context.Context, slug string) (media.Source, error)

func (a *App) trashes() map[models.MorphType]trash {
	return map[models.MorphType]trash{
		models.MorphPost:         a.Posts,
		models.MorphCategory:     a.Categories,
		models.MorphAnnouncement: a.Announcements,
		models.MorphGallery:      a.Galleries,
		models.MorphStaff:        a.Staff,
		models.MorphFacility:     a.Facilities,
		models.MorphExtra:        a.Extras,
		models.MorphAlumni:       a.Alumni,
		models.MorphAchievement:  a.Achievements,
		models.MorphSlider:       a.Sliders,
		models.MorphSchedule:     a.Schedules,
	}
}

func (a *App) images() map[models.MorphType]imageLookup {
	return map[models.MorphType]imageLookup{
		models.MorphPost:        sourceBySlug(a.Posts.Repo, a.Media),
		models.MorphStaff:       sourceBySlug(a.Staff.Repo, a.Media),
		models.MorphFacility:    sourceBySlug(a.Facilities.Repo, a.Media),
		models.MorphExtra:       sourceBySlug(a.Extras.Repo, a.Media),
		models.MorphAlumni:      sourceBySlug(a.Alumni.Repo, a.Media),
		models.MorphAchievement: sourceBySlug(a.Achievements.Repo, a.Media),
		models.MorphSlider:      sourceBySlug(a.Sliders.Repo, a.Media),
		models.MorphGallery: func(ctx context.Context, slug string) (media.Source, error) {
			g, err := a.Galleries.Repo.GetBySlug(ctx, slug)
			if err != nil {
				return media.Source{}, err
			}
			return a.Galleries.ImageSource(ctx, g)
		},
	}
}

func sourceBySlug[T any, P interface {
	*T
	repo.Record
	models.MediaOwner
}](r *repo.Repo[T, P], m *media.Service) imageLookup {
	return func(ctx context.Context, slug string) (media.Source, error) {
		v, err := r.GetBySlug(ctx, slug)
		if err != nil {
			return media.Source{}, err
		}
		return m.SourceFor(ctx, v)
	}
}

// PurgeableKinds lists the kinds PurgeTrash accepts.
func (a *App) PurgeableKinds() []models.MorphType { return sortedKinds(a.trashes()) }

// ImageKinds lists the kinds ResolveImage accepts.
func (a *App) ImageKinds() []models.MorphType { return sortedKinds(a.images()) }

// PurgeTrash force-deletes every row of kind trashed more than olderThan ago
// and returns how many went. Each removal is recorded in the activity log by
// the kind service. A failing row is logged and skipped.
func (a *App) PurgeTrash(ctx context.Context, kind models.MorphType, olderThan time.Duration) (int, error) {
	t, ok := a.trashes()[kind]
	if !ok {
		return 0, apperr.Invalid("kind", "unknown kind %q", kind)
	}
	ids, err := t.TrashedBefore(ctx, time.Now().UTC().Add(-olderThan))
	if err != nil {
		return 0, err
	}
	log := a.Logger.Named("purge")
	purged := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return purged, err
		}
		if err := t.ForceDelete(ctx, id); err != nil {
			log.Warn("purge trashed row failed", zap.String("kind", string(kind)), zap.Uint("id", id), zap.Error(err))
			continue
		}
		purged++
	}
	log.Info("trash purged",
		zap.String("kind", string(kind)),
		zap.String("older_than", humanizeDuration(olderThan)),
		zap.Int("found", len(ids)),
		zap.Int("purged", purged),
	)
	return purged, nil
}

// ResolveImage resolves the display image of the live row of kind with slug.
func (a *App) ResolveImage(ctx context.Context, kind models.MorphType, slug string, size media.Size) (models.ImageSet, error) {
	lookup, ok := a.images()[kind]
	if !ok {
		return models.ImageSet{}, apperr.Invalid("kind", "%q has no image", kind)
	}
	src, err := lookup(ctx, slug)
	if err != nil {
		return models.ImageSet{}, fmt.Errorf("resolve %s %q: %w", kind, slug, err)
	}
	return a.Media.Resolver().Resolve(src, size), nil
}

// RegenerateConversions re-runs conversions for every asset of collection
// (all collections when empty) that has none recorded.
func (a *App) RegenerateConversions(ctx context.Context, collection string) (done, failed int, err error) {
	assets, err := a.Media.MissingConversions(ctx, collection)
	if err != nil {
		return 0, 0, err
	}
	log := a.Logger.Named("media")
	for _, asset := range assets {
		if err := ctx.Err(); err != nil {
			return done, failed, err
		}
		if _, err := a.Media.Regenerate(ctx, asset.ID); err != nil {
			failed++
			log.Warn("regenerate conversions failed", zap.Uint("media_id", asset.ID), zap.Error(err))
			continue
		}
		done++
	}
	return done, failed, nil
}

func sortedKinds[V any](m map[models.MorphType]V) []models.MorphType {
	out := make([]models.MorphType, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
