package content

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sekolah-web/core/internal/models"
	"github.com/sekolah-web/core/internal/modules/media"
	"github.com/sekolah-web/core/internal/pkg/apperr"
	"github.com/sekolah-web/core/internal/pkg/pagination"
	"github.com/sekolah-web/core/internal/pkg/repo"
)

// Catalog adds activity logging and image resolution to a repo.Repo.
// Kind services embed it and add their own rules.
type Catalog[T any, P interface {
	*T
	repo.Record
}] struct {
	*repo.Repo[T, P]

	Deps  Deps
	label string
	log   *zap.Logger
}

// NewCatalog builds the catalog of one kind; label names the kind in
// activity descriptions.
func NewCatalog[T any, P interface {
	*T
	repo.Record
}](deps Deps, label string) *Catalog[T, P] {
	r := repo.New[T, P](deps.DB, deps.Slugs)
	return &Catalog[T, P]{
		Repo:  r,
		Deps:  deps,
		label: label,
		log:   deps.logger().Named(string(r.Kind())),
	}
}

// Now is the catalog clock in UTC.
func (c *Catalog[T, P]) Now() time.Time { return c.Deps.now() }

// Insert creates v and records it.
func (c *Catalog[T, P]) Insert(ctx context.Context, v P) error {
	if err := c.Repo.Create(ctx, v); err != nil {
		return err
	}
	c.Deps.Activity.Created(ctx, v, fmt.Sprintf("Menambahkan %s %q", c.label, v.SlugSource()))
	c.Decorate(ctx, v)
	return nil
}

// Modify loads a live row, applies mutate and saves it. The slug is never
// rewritten here.
func (c *Catalog[T, P]) Modify(ctx context.Context, id uint, mutate func(P) error) (P, error) {
	v, err := c.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	before := *v
	if err := mutate(v); err != nil {
		return nil, err
	}
	if err := c.Repo.Save(ctx, v); err != nil {
		return nil, err
	}
	c.Deps.Activity.Updated(ctx, v, before, *v, fmt.Sprintf("Mengubah %s %q", c.label, v.SlugSource()))
	c.Decorate(ctx, v)
	return v, nil
}

// Find loads a live row by id with its image resolved.
func (c *Catalog[T, P]) Find(ctx context.Context, id uint, preload ...string) (P, error) {
	v, err := c.Repo.Get(ctx, id, preload...)
	if err != nil {
		return nil, err
	}
	c.Decorate(ctx, v)
	return v, nil
}

// FindBySlug loads a live row by current or retired slug with its image resolved.
func (c *Catalog[T, P]) FindBySlug(ctx context.Context, slug string, preload ...string) (P, error) {
	v, err := c.Repo.GetBySlug(ctx, slug, preload...)
	if err != nil {
		return nil, err
	}
	c.Decorate(ctx, v)
	return v, nil
}

// Browse lists one page with images resolved.
func (c *Catalog[T, P]) Browse(ctx context.Context, q repo.ListQuery, page pagination.Query) ([]T, pagination.Meta, error) {
	rows, meta, err := c.Repo.List(ctx, q, page)
	if err != nil {
		return nil, meta, err
	}
	c.DecorateAll(ctx, rows)
	return rows, meta, nil
}

// Top lists up to limit rows with images resolved.
func (c *Catalog[T, P]) Top(ctx context.Context, q repo.ListQuery, limit int) ([]T, error) {
	rows, err := c.Repo.All(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	c.DecorateAll(ctx, rows)
	return rows, nil
}

// Delete soft-deletes a row.
func (c *Catalog[T, P]) Delete(ctx context.Context, id uint) error {
	v, err := c.Repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := c.Repo.Delete(ctx, id); err != nil {
		return err
	}
	c.Deps.Activity.Deleted(ctx, v, fmt.Sprintf("Menghapus %s %q", c.label, v.SlugSource()))
	return nil
}

// Restore brings a soft-deleted row back.
func (c *Catalog[T, P]) Restore(ctx context.Context, id uint) error {
	if err := c.Repo.Restore(ctx, id); err != nil {
		return err
	}
	if v, err := c.Repo.Get(ctx, id); err == nil {
		c.Deps.Activity.Restored(ctx, v, fmt.Sprintf("Memulihkan %s %q", c.label, v.SlugSource()))
	}
	return nil
}

// ForceDelete removes the row for good, along with its media.
func (c *Catalog[T, P]) ForceDelete(ctx context.Context, id uint) error {
	v, err := c.Repo.GetWithTrashed(ctx, id)
	if err != nil {
		return err
	}
	if err := c.Repo.ForceDelete(ctx, id); err != nil {
		return err
	}
	if c.Deps.Media != nil {
		if err := c.Deps.Media.DeleteForOwner(ctx, v); err != nil {
			c.log.Warn("delete media of removed record failed", zap.Uint("id", id), zap.Error(err))
		}
	}
	c.Deps.Activity.Log(ctx, activityEntry(models.ActionDelete, v,
		fmt.Sprintf("Menghapus permanen %s %q", c.label, v.SlugSource())))
	return nil
}

// AttachImage stores an upload in the image collection of a row.
func (c *Catalog[T, P]) AttachImage(ctx context.Context, id uint, up media.Upload) (P, *models.MediaModel, error) {
	v, err := c.Repo.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	owner, ok := any(v).(models.MediaOwner)
	if !ok || c.Deps.Media == nil {
		return nil, nil, apperr.Invalid("image", "%s has no image slot", c.Repo.Kind())
	}
	asset, err := c.Deps.Media.Attach(ctx, owner, owner.MediaCollection(), up)
	if err != nil {
		return nil, nil, err
	}
	c.Deps.Activity.Log(ctx, activityEntry(models.ActionUpload, v,
		fmt.Sprintf("Mengunggah gambar %s %q", c.label, v.SlugSource()),
		"media_id", asset.ID, "file_name", asset.FileName))
	c.Decorate(ctx, v)
	return v, asset, nil
}

// Decorate resolves the medium image of each row that has an image slot.
func (c *Catalog[T, P]) Decorate(ctx context.Context, items ...P) {
	if c.Deps.Media == nil || len(items) == 0 {
		return
	}
	owners := make([]models.MediaOwner, 0, len(items))
	for _, v := range items {
		if o, ok := any(v).(models.MediaOwner); ok {
			owners = append(owners, o)
		}
	}
	if err := c.Deps.Media.Decorate(ctx, media.SizeMedium, owners...); err != nil {
		c.log.Warn("resolve images failed", zap.Error(err))
	}
}

func (c *Catalog[T, P]) DecorateAll(ctx context.Context, rows []T) {
	items := make([]P, len(rows))
	for i := range rows {
		items[i] = P(&rows[i])
	}
	c.Decorate(ctx, items...)
}

// Label names the kind in activity descriptions.
func (c *Catalog[T, P]) Label() string { return c.label }
