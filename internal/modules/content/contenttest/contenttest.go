// Package contenttest wires content services against a throwaway database and disk.
package contenttest

import (
	"testing"
	"time"

	"github.com/sekolah-web/core/internal/modules/content"
	"github.com/sekolah-web/core/internal/modules/media"
	"github.com/sekolah-web/core/internal/modules/system/activitylog"
	"github.com/sekolah-web/core/internal/modules/system/slugtracker"
	"github.com/sekolah-web/core/internal/pkg/morph"
	"github.com/sekolah-web/core/internal/pkg/storage"
	"github.com/sekolah-web/core/internal/testutil"
)

// Env is a fully wired set of content dependencies.
type Env struct {
	content.Deps
	Disks *storage.Manager
	Local *storage.Local
	Clock *Clock
}

// Clock is a settable time source.
type Clock struct{ T time.Time }

func (c *Clock) Now() time.Time { return c.T }

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) { c.T = c.T.Add(d) }

// New returns dependencies backed by a fresh SQLite database and local disk.
// The clock starts at 2025-01-06 08:00 UTC.
func New(tb testing.TB) *Env {
	tb.Helper()
	db := testutil.DB(tb)
	disks, local := testutil.Storage(tb)
	logger := testutil.Logger(tb)
	clock := &Clock{T: time.Date(2025, 1, 6, 8, 0, 0, 0, time.UTC)}

	resolver := media.NewResolver(disks, "public")
	return &Env{
		Deps: content.Deps{
			DB:       db,
			Slugs:    slugtracker.NewService(db),
			Media:    media.NewService(db, disks, "public", resolver, media.NewConverter(nil, 80), logger),
			Activity: activitylog.New(db, morph.NewRegistry(), logger),
			Logger:   logger,
			Now:      clock.Now,
		},
		Disks: disks,
		Local: local,
		Clock: clock,
	}
}
