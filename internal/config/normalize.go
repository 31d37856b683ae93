package config

import "strings"

func normalizeDatabaseConfig(cfg DatabaseRuntimeConfig) DatabaseRuntimeConfig {
	cfg.Driver = strings.ToLower(strings.TrimSpace(cfg.Driver))
	switch cfg.Driver {
	case "", "mariadb":
		cfg.Driver = DriverMySQL
	case "postgresql", "pg", "pgx":
		cfg.Driver = DriverPostgres
	case "sqlite3":
		cfg.Driver = DriverSQLite
	}
	cfg.DSN = strings.TrimSpace(cfg.DSN)
	cfg.Host = strings.TrimSpace(cfg.Host)
	cfg.User = strings.TrimSpace(cfg.User)
	cfg.Name = strings.TrimSpace(cfg.Name)

	if cfg.Host == "" {
		cfg.Host = defaultDBHost
	}
	if cfg.Port == 0 {
		cfg.Port = defaultMySQLPort
	}
	if cfg.User == "" {
		cfg.User = defaultDBUser
	}
	if cfg.Name == "" {
		cfg.Name = defaultDBName
	}
	if cfg.Charset == "" {
		cfg.Charset = defaultDBCharset
	}
	if cfg.Loc == "" {
		cfg.Loc = defaultDBLoc
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = "disable"
	}
	return cfg
}

func normalizeStorageConfig(cfg StorageConfig) StorageConfig {
	out := StorageConfig{
		DefaultDisk: strings.TrimSpace(cfg.DefaultDisk),
		PublicDisk:  strings.TrimSpace(cfg.PublicDisk),
		Disks:       make(map[string]DiskConfig, len(cfg.Disks)),
	}
	for name, disk := range cfg.Disks {
		disk.Driver = strings.ToLower(strings.TrimSpace(disk.Driver))
		if disk.Driver == "" {
			disk.Driver = DiskLocal
		}
		disk.Root = strings.TrimSpace(disk.Root)
		disk.BaseURL = strings.TrimRight(strings.TrimSpace(disk.BaseURL), "/")
		disk.Prefix = strings.Trim(strings.TrimSpace(disk.Prefix), "/")
		out.Disks[name] = disk
	}
	if out.DefaultDisk == "" {
		out.DefaultDisk = defaultDisk
	}
	// legacy paths live on "public" unless another disk is named; a setup
	// without that disk serves them from the default disk
	if out.PublicDisk == "" {
		out.PublicDisk = defaultDisk
		if _, ok := out.Disks[out.PublicDisk]; !ok {
			out.PublicDisk = out.DefaultDisk
		}
	}
	return out
}

func normalizeOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "prod", "production":
		return "production"
	case "test", "testing":
		return "test"
	default:
		return defaultEnv
	}
}

func copyStringMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
