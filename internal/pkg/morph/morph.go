// Package morph maps polymorphic type tags to loaders of the referenced rows.
package morph

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/sekolah-web/core/internal/models"
	"github.com/sekolah-web/core/internal/pkg/apperr"
)

// Loader loads one record of a kind by id, soft-deleted rows included.
type Loader interface {
	Load(ctx context.Context, id uint) (models.Subject, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, id uint) (models.Subject, error)

func (f LoaderFunc) Load(ctx context.Context, id uint) (models.Subject, error) { return f(ctx, id) }

type Registry struct {
	mu      sync.RWMutex
	loaders map[models.MorphType]Loader
}

func NewRegistry() *Registry {
	return &Registry{loaders: make(map[models.MorphType]Loader)}
}

// Register binds a type tag to its loader, replacing any previous binding.
func (r *Registry) Register(typ models.MorphType, l Loader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaders[typ] = l
}

func (r *Registry) Has(typ models.MorphType) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.loaders[typ]
	return ok
}

// Types lists the registered tags in sorted order.
func (r *Registry) Types() []models.MorphType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.MorphType, 0, len(r.loaders))
	for t := range r.loaders {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Load resolves a (type, id) reference.
func (r *Registry) Load(ctx context.Context, typ models.MorphType, id uint) (models.Subject, error) {
	r.mu.RLock()
	l, ok := r.loaders[typ]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown subject type %q: %w", typ, apperr.ErrNotFound)
	}
	return l.Load(ctx, id)
}
