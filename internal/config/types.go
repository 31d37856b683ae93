package config

// AppConfig holds runtime configuration loaded from YAML and the environment.
type AppConfig struct {
	Env      string                `yaml:"env"` // "development" | "production" | "test"
	Timezone string                `yaml:"timezone"`
	Home     string                `yaml:"home"`
	Database DatabaseRuntimeConfig `yaml:"database"`
	Redis    RedisRuntimeConfig    `yaml:"redis"`
	Storage  StorageConfig         `yaml:"storage"`
	Media    MediaConfig           `yaml:"media"`
	Settings SettingsConfig        `yaml:"settings"`
	CORS     CORSConfig            `yaml:"cors"`
	Paths    RuntimePathsConfig    `yaml:"paths"`
	LogLevel string                `yaml:"log_level"`
}

type DatabaseRuntimeConfig struct {
	Driver    string            `yaml:"driver"` // mysql | postgres | sqlite
	DSN       string            `yaml:"dsn"`
	Host      string            `yaml:"host"`
	Port      int               `yaml:"port"`
	User      string            `yaml:"user"`
	Password  string            `yaml:"password"`
	Name      string            `yaml:"name"`
	Charset   string            `yaml:"charset"`
	ParseTime bool              `yaml:"parse_time"`
	Loc       string            `yaml:"loc"`
	SSLMode   string            `yaml:"sslmode"`
	Params    map[string]string `yaml:"params"`
	Verbose   bool              `yaml:"verbose"`
}

type RedisRuntimeConfig struct {
	Enable   bool              `yaml:"enable"`
	URL      string            `yaml:"url"`
	Host     string            `yaml:"host"`
	Port     int               `yaml:"port"`
	Username string            `yaml:"username"`
	Password string            `yaml:"password"`
	DB       int               `yaml:"db"`
	TLS      bool              `yaml:"tls"`
	Params   map[string]string `yaml:"params"`
}

// StorageConfig names the disks media files can be written to. PublicDisk
// serves legacy image paths stored on content rows.
type StorageConfig struct {
	DefaultDisk string                `yaml:"default_disk"`
	PublicDisk  string                `yaml:"public_disk"`
	Disks       map[string]DiskConfig `yaml:"disks"`
}

type DiskConfig struct {
	Driver          string `yaml:"driver"` // local | s3
	Root            string `yaml:"root"`
	BaseURL         string `yaml:"base_url"`
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	PathStyle       bool   `yaml:"path_style"`
	Prefix          string `yaml:"prefix"`
}

type MediaConfig struct {
	Disk    string         `yaml:"disk"`
	Quality int            `yaml:"quality"`
	Sizes   map[string]int `yaml:"sizes"`
}

type SettingsConfig struct {
	Cache      string `yaml:"cache"` // memory | redis | none
	TTLSeconds int    `yaml:"ttl_seconds"`
	Prefix     string `yaml:"prefix"`
}

// CORSConfig lists the browser origins allowed to call the API. Patterns
// match the origin host: "sekolah.sch.id", "*.sekolah.sch.id" or
// "localhost:*". Development, and an empty list outside production, allow
// every origin.
type CORSConfig struct {
	AllowedOrigins   []string `yaml:"allowed_origins"`
	AllowCredentials bool     `yaml:"allow_credentials"`
	MaxAgeSeconds    int      `yaml:"max_age_seconds"`
}

type RuntimePathsConfig struct {
	Logs string `yaml:"logs"`
}

type rawAppConfig struct {
	Env      string             `yaml:"env"`
	Timezone string             `yaml:"timezone"`
	TZ       string             `yaml:"tz"`
	Home     string             `yaml:"home"`
	Database rawDatabaseConfig  `yaml:"database"`
	Redis    rawRedisConfig     `yaml:"redis"`
	Storage  rawStorageConfig   `yaml:"storage"`
	Media    rawMediaConfig     `yaml:"media"`
	Settings rawSettingsConfig  `yaml:"settings"`
	CORS     rawCORSConfig      `yaml:"cors"`
	Paths    RuntimePathsConfig `yaml:"paths"`
	LogLevel string             `yaml:"log_level"`
}

type rawDatabaseConfig struct {
	Driver    string            `yaml:"driver"`
	DSN       string            `yaml:"dsn"`
	URL       string            `yaml:"url"`
	Host      string            `yaml:"host"`
	Port      int               `yaml:"port"`
	User      string            `yaml:"user"`
	Username  string            `yaml:"username"`
	Password  string            `yaml:"password"`
	Name      string            `yaml:"name"`
	Charset   string            `yaml:"charset"`
	ParseTime *bool             `yaml:"parse_time"`
	Loc       string            `yaml:"loc"`
	SSLMode   string            `yaml:"sslmode"`
	Params    map[string]string `yaml:"params"`
	Verbose   *bool             `yaml:"verbose"`
}

type rawRedisConfig struct {
	Enable   *bool             `yaml:"enable"`
	URL      string            `yaml:"url"`
	Host     string            `yaml:"host"`
	Port     int               `yaml:"port"`
	Username string            `yaml:"username"`
	Password string            `yaml:"password"`
	DB       *int              `yaml:"db"`
	TLS      *bool             `yaml:"tls"`
	Params   map[string]string `yaml:"params"`
}

type rawStorageConfig struct {
	DefaultDisk string                `yaml:"default_disk"`
	PublicDisk  string                `yaml:"public_disk"`
	Disks       map[string]DiskConfig `yaml:"disks"`
}

type rawMediaConfig struct {
	Disk    string         `yaml:"disk"`
	Quality int            `yaml:"quality"`
	Sizes   map[string]int `yaml:"sizes"`
}

type rawSettingsConfig struct {
	Cache      string `yaml:"cache"`
	TTLSeconds *int   `yaml:"ttl_seconds"`
	Prefix     string `yaml:"prefix"`
}

type rawCORSConfig struct {
	AllowedOrigins   []string `yaml:"allowed_origins"`
	AllowCredentials *bool    `yaml:"allow_credentials"`
	MaxAgeSeconds    *int     `yaml:"max_age_seconds"`
}
