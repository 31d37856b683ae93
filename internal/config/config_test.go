package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func noEnv(string) (string, bool) { return "", false }

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(nil, "defaults", noEnv)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Database.Driver != DriverMySQL || cfg.Database.Port != 3306 {
		t.Fatalf("unexpected database defaults %+v", cfg.Database)
	}
	if got := cfg.Database.DSNValue(); got != "root:password@tcp(127.0.0.1:3306)/sekolah?charset=utf8mb4&loc=UTC&parseTime=true" {
		t.Fatalf("DSNValue() = %q", got)
	}
	if cfg.Media.Disk != "public" || cfg.Media.Sizes["medium"] != 1024 {
		t.Fatalf("unexpected media defaults %+v", cfg.Media)
	}
	if cfg.Settings.Cache != CacheMemory {
		t.Fatalf("settings cache = %q", cfg.Settings.Cache)
	}
}

func TestParseYAML(t *testing.T) {
	content := []byte(`
env: prod
database:
  driver: postgresql
  host: db.internal
  user: sekolah
  password: rahasia
  name: web
redis:
  enable: true
  host: cache.internal
storage:
  default_disk: public
  disks:
    s3:
      driver: s3
      bucket: sekolah-media
      region: ap-southeast-1
      base_url: https://cdn.example.sch.id/
media:
  disk: s3
  quality: 75
  sizes:
    large: 1920
settings:
  cache: redis
  ttl_seconds: 60
`)
	cfg, err := Parse(content, "inline", noEnv)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Env != "production" || !cfg.IsProduction() {
		t.Fatalf("env = %q", cfg.Env)
	}
	if cfg.Database.Driver != DriverPostgres || cfg.Database.Port != 5432 {
		t.Fatalf("database = %+v", cfg.Database)
	}
	dsn := cfg.Database.DSNValue()
	for _, part := range []string{"host=db.internal", "port=5432", "user=sekolah", "dbname=web", "password=rahasia"} {
		if !strings.Contains(dsn, part) {
			t.Fatalf("postgres dsn %q missing %q", dsn, part)
		}
	}
	if cfg.Redis.URLValue() != "redis://cache.internal:6379/0" {
		t.Fatalf("redis url = %q", cfg.Redis.URLValue())
	}
	s3 := cfg.Storage.Disks["s3"]
	if s3.BaseURL != "https://cdn.example.sch.id" || cfg.Media.Disk != "s3" || cfg.Media.Quality != 75 {
		t.Fatalf("storage/media = %+v %+v", s3, cfg.Media)
	}
	if cfg.Media.Sizes["large"] != 1920 || cfg.Media.Sizes["thumb"] != 320 {
		t.Fatalf("sizes = %+v", cfg.Media.Sizes)
	}
	if cfg.Settings.TTLSeconds != 60 {
		t.Fatalf("ttl = %d", cfg.Settings.TTLSeconds)
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	if _, err := Parse([]byte("databse:\n  host: x\n"), "typo", noEnv); err == nil {
		t.Fatalf("expected unknown field error")
	}
}

func TestParseValidation(t *testing.T) {
	tests := map[string]string{
		"bad driver":      "database:\n  driver: oracle\n",
		"redis cache off": "settings:\n  cache: redis\n",
		"missing disk":    "media:\n  disk: nowhere\n",
		"s3 no bucket":    "storage:\n  disks:\n    s3:\n      driver: s3\n",
	}
	for name, content := range tests {
		if _, err := Parse([]byte(content), name, noEnv); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestEnvOverrides(t *testing.T) {
	env := map[string]string{
		EnvDSN:         "file:test.db",
		EnvRedisURL:    "redis://r:6379/2",
		EnvStorageRoot: "/srv/media",
		EnvEnv:         "test",
	}
	cfg, err := Parse([]byte("database:\n  driver: sqlite\n"), "env", func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Database.DSNValue() != "file:test.db" || !cfg.Redis.Enable || cfg.Redis.URLValue() != "redis://r:6379/2" {
		t.Fatalf("overrides not applied: %+v %+v", cfg.Database, cfg.Redis)
	}
	if cfg.Storage.Disks["public"].Root != "/srv/media" || cfg.Env != "test" {
		t.Fatalf("storage root / env not applied")
	}
}

func TestLoadFileAndEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(path, []byte("database:\n  driver: sqlite\n  name: data.db\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.DSNValue() != "data.db" && os.Getenv(EnvDSN) == "" {
		t.Fatalf("sqlite dsn = %q", cfg.Database.DSNValue())
	}
	if _, err := Load(filepath.Join(dir, "missing.yml")); err == nil {
		t.Fatalf("explicit missing config should fail")
	}
	if err := LoadEnvFile(filepath.Join(dir, "absent.env")); err != nil {
		t.Fatalf("missing env file should be ignored: %v", err)
	}
}

func TestRuntimePathsFollowHome(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name     string
		content  string
		env      map[string]string
		wantRoot string
		wantLogs string
		wantHome string
	}{
		{
			name:     "working directory by default",
			content:  "paths:\n  logs: logs\n",
			wantHome: wd,
			wantRoot: filepath.Join(wd, "storage", "app", "public"),
			wantLogs: filepath.Join(wd, "logs"),
		},
		{
			name:     "home from file",
			content:  "home: /srv/sekolah\npaths:\n  logs: var/log\n",
			wantHome: "/srv/sekolah",
			wantRoot: "/srv/sekolah/storage/app/public",
			wantLogs: "/srv/sekolah/var/log",
		},
		{
			name:     "env home wins over file",
			content:  "home: /srv/sekolah\n",
			env:      map[string]string{EnvHome: "/opt/web"},
			wantHome: "/opt/web",
			wantRoot: "/opt/web/storage/app/public",
		},
		{
			name:     "absolute roots are kept",
			content:  "storage:\n  disks:\n    public:\n      root: /data/media/../media\n",
			env:      map[string]string{EnvHome: "/opt/web"},
			wantHome: "/opt/web",
			wantRoot: "/data/media",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.content), tt.name, func(k string) (string, bool) {
				v, ok := tt.env[k]
				return v, ok
			})
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if cfg.Home != filepath.FromSlash(tt.wantHome) {
				t.Fatalf("home = %q, want %q", cfg.Home, tt.wantHome)
			}
			if got := cfg.Storage.Disks["public"].Root; got != filepath.FromSlash(tt.wantRoot) {
				t.Fatalf("public root = %q, want %q", got, tt.wantRoot)
			}
			if got := cfg.Paths.Logs; got != filepath.FromSlash(tt.wantLogs) {
				t.Fatalf("logs = %q, want %q", got, tt.wantLogs)
			}
		})
	}
}

func TestLoadResolvesAgainstConfigDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(path, []byte("paths:\n  logs: logs\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if v, ok := os.LookupEnv(EnvHome); ok && v != "" {
		t.Skipf("%s is set in the environment", EnvHome)
	}
	if v, ok := os.LookupEnv(EnvStorageRoot); ok && v != "" {
		t.Skipf("%s is set in the environment", EnvStorageRoot)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Home != dir {
		t.Fatalf("home = %q, want %q", cfg.Home, dir)
	}
	if want := filepath.Join(dir, "storage", "app", "public"); cfg.Storage.Disks["public"].Root != want {
		t.Fatalf("public root = %q, want %q", cfg.Storage.Disks["public"].Root, want)
	}
	if want := filepath.Join(dir, "logs"); cfg.Paths.Logs != want {
		t.Fatalf("logs = %q, want %q", cfg.Paths.Logs, want)
	}
}

func TestPublicDisk(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		wantErr bool
	}{
		{"defaults to public", "", "public", false},
		{
			name:    "named disk",
			content: "storage:\n  public_disk: legacy\n  disks:\n    legacy:\n      root: /srv/legacy\n",
			want:    "legacy",
		},
		{
			name:    "unknown named disk",
			content: "storage:\n  public_disk: nowhere\n",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.content), tt.name, noEnv)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse err = %v", err)
			}
			if !tt.wantErr && cfg.Storage.PublicDisk != tt.want {
				t.Fatalf("public disk = %q, want %q", cfg.Storage.PublicDisk, tt.want)
			}
		})
	}
}

func TestPublicDiskFallsBackToDefault(t *testing.T) {
	got := normalizeStorageConfig(StorageConfig{
		DefaultDisk: "cdn",
		Disks:       map[string]DiskConfig{"cdn": {Driver: DiskS3, Bucket: "media"}},
	})
	if got.PublicDisk != "cdn" {
		t.Fatalf("public disk = %q, want the default disk", got.PublicDisk)
	}
	got = normalizeStorageConfig(StorageConfig{
		DefaultDisk: "cdn",
		Disks:       map[string]DiskConfig{"cdn": {Driver: DiskS3}, "public": {Root: "/srv/public"}},
	})
	if got.PublicDisk != "public" {
		t.Fatalf("public disk = %q, want public", got.PublicDisk)
	}
}

func TestCORSConfig(t *testing.T) {
	cfg, err := Parse(nil, "defaults", noEnv)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(cfg.CORS.AllowedOrigins) != 0 || !cfg.CORS.AllowCredentials || cfg.CORS.MaxAgeSeconds != 43200 {
		t.Fatalf("cors defaults = %+v", cfg.CORS)
	}

	content := []byte("cors:\n  allowed_origins: [\" sekolah.sch.id \", \"\", \"*.sekolah.sch.id\"]\n  allow_credentials: false\n  max_age_seconds: 600\n")
	cfg, err = Parse(content, "cors", noEnv)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if strings.Join(cfg.CORS.AllowedOrigins, ",") != "sekolah.sch.id,*.sekolah.sch.id" {
		t.Fatalf("origins = %q", cfg.CORS.AllowedOrigins)
	}
	if cfg.CORS.AllowCredentials || cfg.CORS.MaxAgeSeconds != 600 {
		t.Fatalf("cors = %+v", cfg.CORS)
	}

	cfg, err = Parse(content, "cors env", func(k string) (string, bool) {
		if k == EnvCORSOrigins {
			return "admin.sekolah.sch.id, localhost:*", true
		}
		return "", false
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if strings.Join(cfg.CORS.AllowedOrigins, ",") != "admin.sekolah.sch.id,localhost:*" {
		t.Fatalf("env origins = %q", cfg.CORS.AllowedOrigins)
	}

	if _, err := Parse([]byte("cors:\n  max_age_seconds: -1\n"), "negative", noEnv); err == nil {
		t.Fatalf("negative max age accepted")
	}
}
