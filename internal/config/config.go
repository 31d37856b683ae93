package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment.
// A missing file is not an error; variables already set are kept.
func LoadEnvFile(path string) error {
	if strings.TrimSpace(path) == "" {
		path = DefaultEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %q: %w", path, err)
	}
	return nil
}

// Load reads the YAML file at configPath and applies environment overrides.
// When configPath is empty and config.yml does not exist, defaults are used.
func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath
	}

	content, err := os.ReadFile(path)
	switch {
	case err == nil:
	case !explicit && errors.Is(err, fs.ErrNotExist):
		content = nil
	default:
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	configDir := ""
	if content != nil {
		configDir = filepath.Dir(path)
	}
	return parse(content, path, configDir, os.LookupEnv)
}

// Parse decodes YAML content, then applies overrides from lookupEnv.
// source only labels errors. Relative paths resolve against the home
// directory, or the working directory when none is set.
func Parse(content []byte, source string, lookupEnv func(string) (string, bool)) (*AppConfig, error) {
	return parse(content, source, "", lookupEnv)
}

func parse(content []byte, source, configDir string, lookupEnv func(string) (string, bool)) (*AppConfig, error) {
	raw := rawAppConfig{}
	if len(bytes.TrimSpace(content)) > 0 {
		decoder := yaml.NewDecoder(bytes.NewReader(content))
		decoder.KnownFields(true)
		if err := decoder.Decode(&raw); err != nil {
			return nil, fmt.Errorf("parse config file %q: %w", source, err)
		}
	}

	cfg := defaultAppConfig()
	applyRawAppConfig(&cfg, raw)
	if lookupEnv != nil {
		applyEnv(&cfg, lookupEnv)
	}
	cfg.resolveRuntimePaths(configDir)
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", source, err)
	}
	return &cfg, nil
}

func defaultAppConfig() AppConfig {
	return AppConfig{
		Env:      defaultEnv,
		Timezone: defaultTimezone,
		LogLevel: defaultLogLevel,
		Database: DatabaseRuntimeConfig{
			Driver:    defaultDBDriver,
			Host:      defaultDBHost,
			Port:      defaultMySQLPort,
			User:      defaultDBUser,
			Password:  defaultDBPassword,
			Name:      defaultDBName,
			Charset:   defaultDBCharset,
			ParseTime: true,
			Loc:       defaultDBLoc,
		},
		Redis: RedisRuntimeConfig{
			Host: defaultRedisHost,
			Port: defaultRedisPort,
			DB:   defaultRedisDB,
		},
		Storage: StorageConfig{
			DefaultDisk: defaultDisk,
			Disks: map[string]DiskConfig{
				defaultDisk: {Driver: DiskLocal, Root: defaultStorageRoot, BaseURL: defaultStorageURL},
			},
		},
		Media: MediaConfig{
			Disk:    defaultDisk,
			Quality: defaultQuality,
			Sizes:   DefaultMediaSizes(),
		},
		Settings: SettingsConfig{
			Cache:      defaultCacheDriver,
			TTLSeconds: defaultCacheTTL,
			Prefix:     defaultCachePrefix,
		},
		CORS: CORSConfig{
			AllowCredentials: true,
			MaxAgeSeconds:    defaultCORSMaxAge,
		},
	}
}

// DefaultMediaSizes is the longest edge, in pixels, of each generated variant.
func DefaultMediaSizes() map[string]int {
	return map[string]int{"thumb": 320, "small": 640, "medium": 1024, "large": 1600}
}

func applyRawAppConfig(cfg *AppConfig, raw rawAppConfig) {
	if v := strings.TrimSpace(raw.Env); v != "" {
		cfg.Env = v
	}
	if v := strings.TrimSpace(raw.Timezone); v != "" {
		cfg.Timezone = v
	}
	if v := strings.TrimSpace(raw.TZ); v != "" {
		cfg.Timezone = v
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(raw.Home); v != "" {
		cfg.Home = v
	}
	if v := strings.TrimSpace(raw.Paths.Logs); v != "" {
		cfg.Paths.Logs = v
	}

	cfg.Database = applyRawDatabaseConfig(cfg.Database, raw.Database)
	cfg.Redis = applyRawRedisConfig(cfg.Redis, raw.Redis)

	if v := strings.TrimSpace(raw.Storage.DefaultDisk); v != "" {
		cfg.Storage.DefaultDisk = v
	}
	if v := strings.TrimSpace(raw.Storage.PublicDisk); v != "" {
		cfg.Storage.PublicDisk = v
	}
	for name, disk := range raw.Storage.Disks {
		cfg.Storage.Disks[strings.TrimSpace(name)] = disk
	}

	if v := strings.TrimSpace(raw.Media.Disk); v != "" {
		cfg.Media.Disk = v
	} else if raw.Storage.DefaultDisk != "" {
		cfg.Media.Disk = cfg.Storage.DefaultDisk
	}
	if raw.Media.Quality != 0 {
		cfg.Media.Quality = raw.Media.Quality
	}
	for size, edge := range raw.Media.Sizes {
		cfg.Media.Sizes[strings.ToLower(strings.TrimSpace(size))] = edge
	}

	if v := strings.TrimSpace(raw.Settings.Cache); v != "" {
		cfg.Settings.Cache = strings.ToLower(v)
	}
	if raw.Settings.TTLSeconds != nil {
		cfg.Settings.TTLSeconds = *raw.Settings.TTLSeconds
	}
	if v := strings.TrimSpace(raw.Settings.Prefix); v != "" {
		cfg.Settings.Prefix = v
	}

	if raw.CORS.AllowedOrigins != nil {
		cfg.CORS.AllowedOrigins = normalizeOrigins(raw.CORS.AllowedOrigins)
	}
	if raw.CORS.AllowCredentials != nil {
		cfg.CORS.AllowCredentials = *raw.CORS.AllowCredentials
	}
	if raw.CORS.MaxAgeSeconds != nil {
		cfg.CORS.MaxAgeSeconds = *raw.CORS.MaxAgeSeconds
	}

	cfg.Env = normalizeEnv(cfg.Env)
	cfg.Storage = normalizeStorageConfig(cfg.Storage)
}

func applyRawDatabaseConfig(current DatabaseRuntimeConfig, raw rawDatabaseConfig) DatabaseRuntimeConfig {
	cfg := current
	portSet := raw.Port != 0

	if v := strings.TrimSpace(raw.Driver); v != "" {
		cfg.Driver = v
	}
	if v := strings.TrimSpace(raw.DSN); v != "" {
		cfg.DSN = v
	}
	if v := strings.TrimSpace(raw.URL); v != "" {
		cfg.DSN = v
	}
	if v := strings.TrimSpace(raw.Host); v != "" {
		cfg.Host = v
	}
	if portSet {
		cfg.Port = raw.Port
	}
	if v := strings.TrimSpace(raw.User); v != "" {
		cfg.User = v
	}
	if v := strings.TrimSpace(raw.Username); v != "" {
		cfg.User = v
	}
	if v := strings.TrimSpace(raw.Password); v != "" {
		cfg.Password = v
	}
	if v := strings.TrimSpace(raw.Name); v != "" {
		cfg.Name = v
	}
	if v := strings.TrimSpace(raw.Charset); v != "" {
		cfg.Charset = v
	}
	if raw.ParseTime != nil {
		cfg.ParseTime = *raw.ParseTime
	}
	if v := strings.TrimSpace(raw.Loc); v != "" {
		cfg.Loc = v
	}
	if v := strings.TrimSpace(raw.SSLMode); v != "" {
		cfg.SSLMode = v
	}
	if raw.Params != nil {
		cfg.Params = copyStringMap(raw.Params)
	}
	if raw.Verbose != nil {
		cfg.Verbose = *raw.Verbose
	}

	cfg = normalizeDatabaseConfig(cfg)
	if !portSet && cfg.Driver == DriverPostgres {
		cfg.Port = defaultPGPort
	}
	return cfg
}

func applyRawRedisConfig(current RedisRuntimeConfig, raw rawRedisConfig) RedisRuntimeConfig {
	cfg := current

	if raw.Enable != nil {
		cfg.Enable = *raw.Enable
	}
	if v := strings.TrimSpace(raw.URL); v != "" {
		cfg.URL = v
	}
	if v := strings.TrimSpace(raw.Host); v != "" {
		cfg.Host = v
	}
	if raw.Port != 0 {
		cfg.Port = raw.Port
	}
	if v := strings.TrimSpace(raw.Username); v != "" {
		cfg.Username = v
	}
	if v := strings.TrimSpace(raw.Password); v != "" {
		cfg.Password = v
	}
	if raw.DB != nil {
		cfg.DB = *raw.DB
	}
	if raw.TLS != nil {
		cfg.TLS = *raw.TLS
	}
	if raw.Params != nil {
		cfg.Params = copyStringMap(raw.Params)
	}
	return cfg
}

// applyEnv lets deployment secrets and paths override the file.
func applyEnv(cfg *AppConfig, lookupEnv func(string) (string, bool)) {
	if v, ok := lookupEnv(EnvDSN); ok && strings.TrimSpace(v) != "" {
		cfg.Database.DSN = strings.TrimSpace(v)
	}
	if v, ok := lookupEnv(EnvRedisURL); ok && strings.TrimSpace(v) != "" {
		cfg.Redis.URL = strings.TrimSpace(v)
		cfg.Redis.Enable = true
	}
	if v, ok := lookupEnv(EnvStorageRoot); ok && strings.TrimSpace(v) != "" {
		disk := cfg.Storage.Disks[cfg.Storage.DefaultDisk]
		if disk.Driver == DiskLocal {
			disk.Root = strings.TrimSpace(v)
			cfg.Storage.Disks[cfg.Storage.DefaultDisk] = disk
		}
	}
	if v, ok := lookupEnv(EnvEnv); ok && strings.TrimSpace(v) != "" {
		cfg.Env = normalizeEnv(v)
	}
	if v, ok := lookupEnv(EnvHome); ok && strings.TrimSpace(v) != "" {
		cfg.Home = strings.TrimSpace(v)
	}
	if v, ok := lookupEnv(EnvCORSOrigins); ok && strings.TrimSpace(v) != "" {
		cfg.CORS.AllowedOrigins = normalizeOrigins(strings.Split(v, ","))
	}
}

func (c *AppConfig) validate() error {
	switch c.Database.Driver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("database.driver %q, expected mysql, postgres or sqlite", c.Database.Driver)
	}
	if c.Database.Driver != DriverSQLite && (c.Database.Port < 1 || c.Database.Port > 65535) {
		return fmt.Errorf("database.port %d, expected 1-65535", c.Database.Port)
	}
	if c.Redis.Port < 1 || c.Redis.Port > 65535 {
		return fmt.Errorf("redis.port %d, expected 1-65535", c.Redis.Port)
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("redis.db %d, expected >= 0", c.Redis.DB)
	}
	for name, disk := range c.Storage.Disks {
		switch disk.Driver {
		case DiskLocal:
			if disk.Root == "" {
				return fmt.Errorf("storage.disks.%s.root is required", name)
			}
		case DiskS3:
			if disk.Bucket == "" {
				return fmt.Errorf("storage.disks.%s.bucket is required", name)
			}
		default:
			return fmt.Errorf("storage.disks.%s.driver %q, expected local or s3", name, disk.Driver)
		}
	}
	if _, ok := c.Storage.Disks[c.Storage.DefaultDisk]; !ok {
		return fmt.Errorf("storage.default_disk %q is not configured", c.Storage.DefaultDisk)
	}
	if _, ok := c.Storage.Disks[c.Storage.PublicDisk]; !ok {
		return fmt.Errorf("storage.public_disk %q is not configured", c.Storage.PublicDisk)
	}
	if _, ok := c.Storage.Disks[c.Media.Disk]; !ok {
		return fmt.Errorf("media.disk %q is not configured", c.Media.Disk)
	}
	if c.CORS.MaxAgeSeconds < 0 {
		return fmt.Errorf("cors.max_age_seconds %d, expected >= 0", c.CORS.MaxAgeSeconds)
	}
	if c.Media.Quality < 1 || c.Media.Quality > 100 {
		return fmt.Errorf("media.quality %d, expected 1-100", c.Media.Quality)
	}
	for size, edge := range c.Media.Sizes {
		if edge < 1 {
			return fmt.Errorf("media.sizes.%s %d, expected > 0", size, edge)
		}
	}
	switch c.Settings.Cache {
	case CacheMemory, CacheNone:
	case CacheRedis:
		if !c.Redis.Enable {
			return errors.New("settings.cache is redis but redis.enable is false")
		}
	default:
		return fmt.Errorf("settings.cache %q, expected memory, redis or none", c.Settings.Cache)
	}
	return nil
}

// IsProduction reports whether the process runs with production settings.
func (c *AppConfig) IsProduction() bool { return c.Env == "production" }

// IsDev reports whether the process runs with development settings.
func (c *AppConfig) IsDev() bool { return c.Env == defaultEnv }
