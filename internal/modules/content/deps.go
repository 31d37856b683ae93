// Package content holds what every content kind service shares: its
// dependencies, the generic catalog operations and common query scopes.
package content

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sekolah-web/core/internal/modules/media"
	"github.com/sekolah-web/core/internal/modules/system/activitylog"
	"github.com/sekolah-web/core/internal/modules/system/slugtracker"
)

// Deps is handed to every kind service by the composition root.
type Deps struct {
	DB       *gorm.DB
	Slugs    *slugtracker.Service
	Media    *media.Service
	Activity *activitylog.Logger
	Logger   *zap.Logger
	// Now is the clock used for publication checks. Defaults to time.Now in UTC.
	Now func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now().UTC()
	}
	return time.Now().UTC()
}

func (d Deps) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}
