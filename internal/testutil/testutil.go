// Package testutil provides SQLite backed databases, loggers and disks for tests.
package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/sekolah-web/core/internal/config"
	"github.com/sekolah-web/core/internal/database"
	"github.com/sekolah-web/core/internal/pkg/requestctx"
	"github.com/sekolah-web/core/internal/pkg/storage"
)

// PublicBaseURL is the base URL of the "public" disk returned by Storage.
const PublicBaseURL = "http://sekolah.test/storage"

// DB returns a migrated database private to the calling test.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "test.db")
	db, err := database.Open(config.DatabaseRuntimeConfig{
		Driver: config.DriverSQLite,
		DSN:    fmt.Sprintf("file:%s?_busy_timeout=5000", path),
	}, gormLogger.Silent)
	if err != nil {
		tb.Fatalf("failed to open test db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		tb.Fatalf("failed to migrate test db: %v", err)
	}
	tb.Cleanup(func() { _ = database.Close(db) })
	return db
}

// Tx opens a transaction rolled back when the test ends.
func Tx(tb testing.TB, db *gorm.DB) *gorm.DB {
	tb.Helper()
	tx := db.Begin()
	if tx.Error != nil {
		tb.Fatalf("begin tx: %v", tx.Error)
	}
	tb.Cleanup(func() {
		_ = tx.Rollback().Error
	})
	return tx
}

func Logger(tb testing.TB) *zap.Logger {
	tb.Helper()
	return zap.NewNop()
}

// Storage returns a manager with a local "public" disk rooted in a temp dir.
func Storage(tb testing.TB) (*storage.Manager, *storage.Local) {
	tb.Helper()
	local := storage.NewLocal(tb.TempDir(), PublicBaseURL)
	m := storage.NewManager("public")
	m.Register("public", local)
	return m, local
}

// Ctx returns a context carrying a test actor.
func Ctx(tb testing.TB) context.Context {
	tb.Helper()
	id := uint(1)
	return requestctx.With(context.Background(), requestctx.Info{
		ActorID:   &id,
		ActorName: "Admin Sekolah",
		IP:        "127.0.0.1",
		UserAgent: "go-test",
	})
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }
