// Package softdelete implements trash semantics for tables with a deleted_at column.
package softdelete

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sekolah-web/core/internal/pkg/apperr"
)

// Mode selects which rows a query sees.
type Mode int

const (
	WithoutTrashed Mode = iota
	WithTrashed
	OnlyTrashed
)

func (m Mode) String() string {
	switch m {
	case WithTrashed:
		return "with_trashed"
	case OnlyTrashed:
		return "only_trashed"
	default:
		return "without_trashed"
	}
}

// ParseMode maps "with", "only" and their long forms onto a Mode.
func ParseMode(s string) Mode {
	switch s {
	case "with", "with_trashed", "all":
		return WithTrashed
	case "only", "only_trashed", "trashed":
		return OnlyTrashed
	default:
		return WithoutTrashed
	}
}

// Apply restricts tx to the rows visible in mode.
func Apply(tx *gorm.DB, mode Mode) *gorm.DB {
	switch mode {
	case WithTrashed:
		return tx.Unscoped()
	case OnlyTrashed:
		return tx.Unscoped().Where(clause.Neq{
			Column: clause.Column{Table: clause.CurrentTable, Name: "deleted_at"},
			Value:  nil,
		})
	default:
		return tx
	}
}

// Ledger trashes, restores and purges rows of T by primary key.
// T must embed gorm.DeletedAt through models.Base.
type Ledger[T any] struct {
	db   *gorm.DB
	kind string
}

func NewLedger[T any](db *gorm.DB, kind string) Ledger[T] {
	return Ledger[T]{db: db, kind: kind}
}

// Delete marks the row trashed. Other columns, updated_at included, are left untouched.
func (l Ledger[T]) Delete(ctx context.Context, id uint) error {
	res := l.db.WithContext(ctx).Delete(new(T), id)
	if res.Error != nil {
		return fmt.Errorf("delete %s %d: %w", l.kind, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(l.kind, id)
	}
	return nil
}

// Restore clears the trash mark. Restoring a live row is a no-op.
func (l Ledger[T]) Restore(ctx context.Context, id uint) error {
	res := l.db.WithContext(ctx).Unscoped().Model(new(T)).
		Where("id = ?", id).
		Where("deleted_at IS NOT NULL").
		UpdateColumn("deleted_at", nil)
	if res.Error != nil {
		return fmt.Errorf("restore %s %d: %w", l.kind, id, res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}
	exists, err := l.exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound(l.kind, id)
	}
	return nil
}

// ForceDelete removes the row for good, trashed or not.
func (l Ledger[T]) ForceDelete(ctx context.Context, id uint) error {
	res := l.db.WithContext(ctx).Unscoped().Delete(new(T), id)
	if res.Error != nil {
		return fmt.Errorf("force delete %s %d: %w", l.kind, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(l.kind, id)
	}
	return nil
}

// TrashedBefore lists the ids of rows trashed before cutoff, oldest first.
func (l Ledger[T]) TrashedBefore(ctx context.Context, cutoff time.Time) ([]uint, error) {
	var ids []uint
	err := Apply(l.db.WithContext(ctx).Model(new(T)), OnlyTrashed).
		Where("deleted_at < ?", cutoff).
		Order("deleted_at ASC").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list trashed %s: %w", l.kind, err)
	}
	return ids, nil
}

// IsTrashed reports whether the row exists and is trashed.
func (l Ledger[T]) IsTrashed(ctx context.Context, id uint) (bool, error) {
	var n int64
	err := Apply(l.db.WithContext(ctx).Model(new(T)), OnlyTrashed).Where("id = ?", id).Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("check %s %d: %w", l.kind, id, err)
	}
	return n > 0, nil
}

func (l Ledger[T]) exists(ctx context.Context, id uint) (bool, error) {
	var n int64
	if err := l.db.WithContext(ctx).Unscoped().Model(new(T)).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, fmt.Errorf("check %s %d: %w", l.kind, id, err)
	}
	return n > 0, nil
}
