package config

const (
	// DefaultConfigPath is used when -config is not provided.
	DefaultConfigPath = "config.yml"
	// DefaultEnvFile is loaded, when present, before the environment overrides are read.
	DefaultEnvFile = ".env"

	defaultEnv         = "development"
	defaultTimezone    = "Asia/Jakarta"
	defaultDBDriver    = DriverMySQL
	defaultDBHost      = "127.0.0.1"
	defaultMySQLPort   = 3306
	defaultPGPort      = 5432
	defaultDBUser      = "root"
	defaultDBPassword  = "password"
	defaultDBName      = "sekolah"
	defaultDBCharset   = "utf8mb4"
	defaultDBLoc       = "UTC"
	defaultSQLitePath  = "sekolah.db"
	defaultRedisHost   = "localhost"
	defaultRedisPort   = 6379
	defaultRedisDB     = 0
	defaultDisk        = "public"
	defaultStorageRoot = "storage/app/public"
	defaultStorageURL  = "/storage"
	defaultQuality     = 82
	defaultCacheDriver = CacheMemory
	defaultCacheTTL    = 3600
	defaultCachePrefix = "sekolah:settings:"
	defaultLogLevel    = "info"
	defaultCORSMaxAge  = 12 * 3600

	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	DiskLocal = "local"
	DiskS3    = "s3"

	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"

	EnvDSN         = "SCHOOL_DB_DSN"
	EnvRedisURL    = "SCHOOL_REDIS_URL"
	EnvStorageRoot = "SCHOOL_STORAGE_ROOT"
	EnvEnv         = "SCHOOL_ENV"
	EnvHome        = "SCHOOL_HOME"
	EnvCORSOrigins = "SCHOOL_CORS_ORIGINS"
)
