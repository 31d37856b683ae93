// Package repo implements the CRUD shared by every slug-addressed content kind.
package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sekolah-web/core/internal/models"
	"github.com/sekolah-web/core/internal/modules/system/slugtracker"
	"github.com/sekolah-web/core/internal/pkg/apperr"
	"github.com/sekolah-web/core/internal/pkg/pagination"
	"github.com/sekolah-web/core/internal/pkg/slug"
	"github.com/sekolah-web/core/internal/pkg/softdelete"
)

// MaxSlugAttempts bounds the -2, -3, ... suffix retries of a derived slug.
const MaxSlugAttempts = 50

// Record is satisfied by pointers to every slug-addressed model.
type Record interface {
	models.Subject
	GetSlug() string
	SetSlug(string)
	SlugSource() string
}

// Counter is implemented by models with columns that only dedicated
// increments change. Save never writes them back.
type Counter interface {
	CounterColumns() []string
}

// Repo is a soft-deleting store for one content kind.
type Repo[T any, P interface {
	*T
	Record
}] struct {
	softdelete.Ledger[T]

	db    *gorm.DB
	kind  models.MorphType
	slugs *slugtracker.Service
}

func New[T any, P interface {
	*T
	Record
}](db *gorm.DB, slugs *slugtracker.Service) *Repo[T, P] {
	var zero T
	kind := P(&zero).MorphType()
	return &Repo[T, P]{
		Ledger: softdelete.NewLedger[T](db, string(kind)),
		db:     db,
		kind:   kind,
		slugs:  slugs,
	}
}

// WithTx returns a Repo whose statements run inside tx.
func (r *Repo[T, P]) WithTx(tx *gorm.DB) *Repo[T, P] {
	out := &Repo[T, P]{
		Ledger: softdelete.NewLedger[T](tx, string(r.kind)),
		db:     tx,
		kind:   r.kind,
	}
	if r.slugs != nil {
		out.slugs = r.slugs.WithTx(tx)
	}
	return out
}

func (r *Repo[T, P]) Kind() models.MorphType { return r.kind }

// DB returns a session scoped to the model table for kind-specific queries.
func (r *Repo[T, P]) DB(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(new(T))
}

// Create inserts v. An empty slug is derived from SlugSource and retried with
// a numeric suffix while it collides; an explicit slug that collides fails
// with apperr.ErrDuplicate.
func (r *Repo[T, P]) Create(ctx context.Context, v P) error {
	explicit := v.GetSlug() != ""
	base := v.GetSlug()
	if !explicit {
		base = slug.Make(v.SlugSource())
	}

	for n := 1; n <= MaxSlugAttempts; n++ {
		candidate := slug.WithSuffix(base, n)
		v.SetSlug(candidate)

		err := r.db.WithContext(ctx).Omit(clause.Associations).Create(v).Error
		if err == nil {
			return nil
		}
		if !apperr.IsDuplicateKey(err) {
			return fmt.Errorf("create %s: %w", r.kind, err)
		}

		taken, terr := r.slugTaken(ctx, candidate)
		if terr != nil {
			return terr
		}
		if !taken {
			return fmt.Errorf("create %s: %w: %v", r.kind, apperr.ErrDuplicate, err)
		}
		if explicit {
			return apperr.Duplicate("slug", candidate)
		}
	}

	v.SetSlug(base)
	return apperr.Duplicate("slug", base)
}

// Get loads a live row by id.
func (r *Repo[T, P]) Get(ctx context.Context, id uint, preload ...string) (P, error) {
	return r.first(ctx, softdelete.WithoutTrashed, id, preload, "id = ?", id)
}

// GetWithTrashed loads a row by id whether or not it is soft-deleted.
func (r *Repo[T, P]) GetWithTrashed(ctx context.Context, id uint, preload ...string) (P, error) {
	return r.first(ctx, softdelete.WithTrashed, id, preload, "id = ?", id)
}

// GetByUUID loads a live row by its public identifier.
func (r *Repo[T, P]) GetByUUID(ctx context.Context, uuid string, preload ...string) (P, error) {
	return r.first(ctx, softdelete.WithoutTrashed, uuid, preload, "uuid = ?", uuid)
}

// GetBySlug loads a live row by slug, following retired slugs to their record.
func (r *Repo[T, P]) GetBySlug(ctx context.Context, s string, preload ...string) (P, error) {
	v, err := r.first(ctx, softdelete.WithoutTrashed, s, preload, "slug = ?", s)
	if err == nil || !errors.Is(err, apperr.ErrNotFound) || r.slugs == nil {
		return v, err
	}

	id, ok, terr := r.slugs.Find(ctx, s, r.kind)
	if terr != nil {
		return nil, terr
	}
	if !ok {
		return nil, err
	}
	v, gerr := r.Get(ctx, id, preload...)
	if gerr != nil {
		return nil, apperr.NotFound(string(r.kind), s)
	}
	return v, nil
}

// Save writes every column of v except identity, slug and timestamps it does
// not own, then reloads it.
func (r *Repo[T, P]) Save(ctx context.Context, v P) error {
	omit := []string{"id", "uuid", "slug", "created_at", "deleted_at", clause.Associations}
	if c, ok := any(v).(Counter); ok {
		omit = append(omit, c.CounterColumns()...)
	}
	res := r.db.WithContext(ctx).Model(v).
		Select("*").
		Omit(omit...).
		Updates(v)
	if res.Error != nil {
		if apperr.IsDuplicateKey(res.Error) {
			return fmt.Errorf("update %s %d: %w: %v", r.kind, v.GetID(), apperr.ErrDuplicate, res.Error)
		}
		return fmt.Errorf("update %s %d: %w", r.kind, v.GetID(), res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(string(r.kind), v.GetID())
	}
	return r.db.WithContext(ctx).First(v, v.GetID()).Error
}

// UpdateSlug changes the slug of a record and keeps the old one resolvable.
func (r *Repo[T, P]) UpdateSlug(ctx context.Context, id uint, newSlug string) (P, error) {
	v, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	old := v.GetSlug()
	if old == newSlug {
		return v, nil
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(new(T)).Where("id = ?", id).UpdateColumn("slug", newSlug)
		if res.Error != nil {
			if apperr.IsDuplicateKey(res.Error) {
				return apperr.Duplicate("slug", newSlug)
			}
			return fmt.Errorf("update %s %d slug: %w", r.kind, id, res.Error)
		}
		if r.slugs == nil {
			return nil
		}
		return r.slugs.WithTx(tx).Track(ctx, old, r.kind, id)
	})
	if err != nil {
		return nil, err
	}
	v.SetSlug(newSlug)
	return v, nil
}

// ListQuery narrows a listing.
type ListQuery struct {
	Mode    softdelete.Mode
	Scopes  []func(*gorm.DB) *gorm.DB
	Order   string
	Preload []string
}

func (r *Repo[T, P]) query(ctx context.Context, q ListQuery) *gorm.DB {
	tx := softdelete.Apply(r.db.WithContext(ctx).Model(new(T)), q.Mode)
	if len(q.Scopes) > 0 {
		tx = tx.Scopes(q.Scopes...)
	}
	for _, p := range q.Preload {
		tx = tx.Preload(p)
	}
	order := q.Order
	if order == "" {
		order = "id DESC"
	}
	return tx.Order(order)
}

// List returns one page of rows matching q.
func (r *Repo[T, P]) List(ctx context.Context, q ListQuery, page pagination.Query) ([]T, pagination.Meta, error) {
	var rows []T
	meta, err := pagination.Paginate(r.query(ctx, q), page, &rows)
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("list %s: %w", r.kind, err)
	}
	return rows, meta, nil
}

// All returns every row matching q, limited to limit when positive.
func (r *Repo[T, P]) All(ctx context.Context, q ListQuery, limit int) ([]T, error) {
	tx := r.query(ctx, q)
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	var rows []T
	if err := tx.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", r.kind, err)
	}
	return rows, nil
}

// Load satisfies morph.Loader.
func (r *Repo[T, P]) Load(ctx context.Context, id uint) (models.Subject, error) {
	v, err := r.GetWithTrashed(ctx, id)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// ForceDelete removes the row and forgets its retired slugs.
func (r *Repo[T, P]) ForceDelete(ctx context.Context, id uint) error {
	if err := r.Ledger.ForceDelete(ctx, id); err != nil {
		return err
	}
	if r.slugs == nil {
		return nil
	}
	return r.slugs.DeleteByTarget(ctx, r.kind, id)
}

func (r *Repo[T, P]) first(ctx context.Context, mode softdelete.Mode, key any, preload []string, cond string, args ...any) (P, error) {
	tx := softdelete.Apply(r.db.WithContext(ctx), mode)
	for _, p := range preload {
		tx = tx.Preload(p)
	}
	v := P(new(T))
	if err := tx.Where(cond, args...).First(v).Error; err != nil {
		return nil, apperr.FromDB(string(r.kind), key, err)
	}
	return v, nil
}

func (r *Repo[T, P]) slugTaken(ctx context.Context, s string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Unscoped().Model(new(T)).Where("slug = ?", s).Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("check %s slug: %w", r.kind, err)
	}
	return n > 0, nil
}
