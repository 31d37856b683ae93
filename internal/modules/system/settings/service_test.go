package settings

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/sekolah-web/core/internal/models"
	"github.com/sekolah-web/core/internal/modules/system/activitylog"
	"github.com/sekolah-web/core/internal/pkg/apperr"
	"github.com/sekolah-web/core/internal/pkg/cache"
	"github.com/sekolah-web/core/internal/testutil"
)

func newService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := testutil.DB(t)
	testutil.SeedSetting(t, db, "site_name", models.SettingString, "SMA Negeri 1", "general", true)
	testutil.SeedSetting(t, db, "max_upload_mb", models.SettingInteger, "8", "media", false)
	testutil.SeedSetting(t, db, "ppdb_open", models.SettingBoolean, "0", "general", true)
	testutil.SeedSetting(t, db, "social_links", models.SettingJSON, `{"instagram":"@sman1"}`, "general", true)
	svc := NewService(db, cache.NewMemory(), time.Hour, activitylog.New(db, nil, testutil.Logger(t)), testutil.Logger(t))
	return svc, db
}

func TestTypedReads(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	tests := []struct {
		key  string
		want interface{}
	}{
		{"site_name", "SMA Negeri 1"},
		{"max_upload_mb", int64(8)},
		{"ppdb_open", false},
	}
	for _, tt := range tests {
		v, err := svc.Get(ctx, tt.key)
		if err != nil {
			t.Fatalf("Get(%s): %v", tt.key, err)
		}
		if v.Data != tt.want {
			t.Fatalf("Get(%s) = %#v, want %#v", tt.key, v.Data, tt.want)
		}
	}

	v, err := svc.Get(ctx, "social_links")
	if err != nil {
		t.Fatalf("Get json: %v", err)
	}
	if m, ok := v.Data.(map[string]interface{}); !ok || m["instagram"] != "@sman1" {
		t.Fatalf("json value = %#v", v.Data)
	}

	if _, err := svc.Get(ctx, "missing"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("missing key err = %v", err)
	}
	if got := svc.String(ctx, "missing", "bawaan"); got != "bawaan" {
		t.Fatalf("String default = %q", got)
	}
	if got := svc.Int(ctx, "max_upload_mb", 1); got != 8 {
		t.Fatalf("Int = %d", got)
	}
	if got := svc.Bool(ctx, "missing", true); !got {
		t.Fatalf("Bool default = %v", got)
	}

	var links struct {
		Instagram string `json:"instagram"`
	}
	ok, err := svc.JSON(ctx, "social_links", &links)
	if err != nil || !ok || links.Instagram != "@sman1" {
		t.Fatalf("JSON = %v, %v, %+v", ok, err, links)
	}
}

func TestSetIsVisibleToNextRead(t *testing.T) {
	ctx := testutil.Ctx(t)
	svc, db := newService(t)

	// warm every cache entry the key takes part in
	if svc.Bool(ctx, "ppdb_open", true) {
		t.Fatalf("initial ppdb_open should be false")
	}
	if _, err := svc.Group(ctx, "general"); err != nil {
		t.Fatalf("Group: %v", err)
	}
	if _, err := svc.Public(ctx); err != nil {
		t.Fatalf("Public: %v", err)
	}

	v, err := svc.Set(ctx, "ppdb_open", true)
	if err != nil {
		t.Fatalf("Set: %v", err)
	}
	if v.Data != true {
		t.Fatalf("Set returned %#v", v.Data)
	}

	if !svc.Bool(ctx, "ppdb_open", false) {
		t.Fatalf("Bool after Set still false")
	}
	group, err := svc.Group(ctx, "general")
	if err != nil {
		t.Fatalf("Group: %v", err)
	}
	for _, g := range group {
		if g.Key == "ppdb_open" && g.Data != true {
			t.Fatalf("group entry stale: %#v", g.Data)
		}
	}
	public, err := svc.Public(ctx)
	if err != nil {
		t.Fatalf("Public: %v", err)
	}
	if public["ppdb_open"] != true {
		t.Fatalf("public entry stale: %#v", public["ppdb_open"])
	}

	if _, err := svc.Set(ctx, "max_upload_mb", "12"); err != nil {
		t.Fatalf("Set int from string: %v", err)
	}
	if got := svc.Int(ctx, "max_upload_mb", 0); got != 12 {
		t.Fatalf("Int after Set = %d", got)
	}
	if _, err := svc.Set(ctx, "max_upload_mb", "dua belas"); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("invalid int err = %v", err)
	}
	if _, err := svc.Set(ctx, "tidak_ada", "x"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("set missing key err = %v", err)
	}

	var n int64
	db.Model(&models.ActivityLogModel{}).Where("action = ?", models.ActionUpdate).Count(&n)
	if n != 2 {
		t.Fatalf("activity entries = %d, want 2", n)
	}
}

func TestUpsertMovesGroupAndDelete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	if _, err := svc.Group(ctx, "general"); err != nil {
		t.Fatalf("Group: %v", err)
	}

	_, err := svc.Upsert(ctx, Definition{
		Key:   "site_name",
		Value: "SMA Negeri 1 Harapan",
		Type:  models.SettingString,
		Group: "identity",
		Label: "Nama Sekolah",
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	general, _ := svc.Group(ctx, "general")
	for _, g := range general {
		if g.Key == "site_name" {
			t.Fatalf("site_name still cached in old group")
		}
	}
	identity, _ := svc.Group(ctx, "identity")
	if len(identity) != 1 || identity[0].Data != "SMA Negeri 1 Harapan" {
		t.Fatalf("identity group = %+v", identity)
	}
	if public, _ := svc.Public(ctx); public["site_name"] != nil {
		t.Fatalf("site_name should no longer be public")
	}

	if _, err := svc.Upsert(ctx, Definition{Key: "x", Type: "float", Group: "g"}); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("invalid type err = %v", err)
	}

	if err := svc.Delete(ctx, "site_name"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(ctx, "site_name"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("deleted key err = %v", err)
	}
	if err := svc.ClearCache(ctx); err != nil {
		t.Fatalf("ClearCache: %v", err)
	}
}

func TestCast(t *testing.T) {
	tests := []struct {
		typ  models.SettingType
		raw  string
		want interface{}
	}{
		{models.SettingInteger, " 42 ", int64(42)},
		{models.SettingInteger, "abc", int64(0)},
		{models.SettingBoolean, "true", true},
		{models.SettingBoolean, "1", true},
		{models.SettingBoolean, "", false},
		{models.SettingText, "<p>hi</p>", "<p>hi</p>"},
		{models.SettingJSON, "", nil},
		{models.SettingJSON, "not json", nil},
		{models.SettingJSON, "3", float64(3)},
	}
	for _, tt := range tests {
		if got := Cast(tt.typ, tt.raw); got != tt.want {
			t.Errorf("Cast(%s, %q) = %#v, want %#v", tt.typ, tt.raw, got, tt.want)
		}
	}
}

// pausedCache holds the first write of entry until release is closed.
type pausedCache struct {
	cache.Cache
	entry   string
	reached chan struct{}
	release chan struct{}
	once    sync.Once
}

func (c *pausedCache) Set(ctx context.Context, key string, raw []byte, ttl time.Duration) error {
	if key == c.entry {
		first := false
		c.once.Do(func() { first = true })
		if first {
			close(c.reached)
			<-c.release
		}
	}
	return c.Cache.Set(ctx, key, raw, ttl)
}

func TestSetWinsOverLoadInFlight(t *testing.T) {
	ctx := testutil.Ctx(t)
	db := testutil.DB(t)
	testutil.SeedSetting(t, db, "max_upload_mb", models.SettingInteger, "8", "media", false)
	c := &pausedCache{
		Cache:   cache.NewMemory(),
		entry:   keyEntry("max_upload_mb"),
		reached: make(chan struct{}),
		release: make(chan struct{}),
	}
	svc := NewService(db, c, time.Hour, nil, testutil.Logger(t))

	done := make(chan error, 1)
	go func() {
		_, err := svc.Get(ctx, "max_upload_mb")
		done <- err
	}()
	select {
	case <-c.reached:
	case <-time.After(5 * time.Second):
		t.Fatalf("reader never reached the cache write")
	}

	if _, err := svc.Set(ctx, "max_upload_mb", 5); err != nil {
		close(c.release)
		t.Fatalf("Set: %v", err)
	}
	// the writer must not join the load that started before its write
	if got := svc.Int(ctx, "max_upload_mb", 0); got != 5 {
		close(c.release)
		t.Fatalf("Int while stale load pending = %d, want 5", got)
	}

	close(c.release)
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("racing Get: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("racing Get never returned")
	}

	for i := 0; i < 2; i++ {
		v, err := svc.Get(ctx, "max_upload_mb")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if v.Data != int64(5) {
			t.Fatalf("Get after racing load = %#v, want 5", v.Data)
		}
	}
}

func TestClearCacheDropsEverything(t *testing.T) {
	ctx := testutil.Ctx(t)
	svc, db := newService(t)

	if got := svc.String(ctx, "site_name", ""); got != "SMA Negeri 1" {
		t.Fatalf("site_name = %q", got)
	}
	if err := db.Model(&models.SettingModel{}).Where(models.SettingModel{Key: "site_name"}).
		UpdateColumn("value", "SMA Negeri 2").Error; err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := svc.String(ctx, "site_name", ""); got != "SMA Negeri 1" {
		t.Fatalf("cached site_name = %q", got)
	}
	if err := svc.ClearCache(ctx); err != nil {
		t.Fatalf("ClearCache: %v", err)
	}
	if got := svc.String(ctx, "site_name", ""); got != "SMA Negeri 2" {
		t.Fatalf("site_name after clear = %q", got)
	}
}
