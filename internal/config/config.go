package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	CORS      CORSConfig      `yaml:"cors"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Dataset   DatasetConfig   `yaml:"dataset"`
	Storage   StorageConfig   `yaml:"storage"`
	Study     StudyConfig     `yaml:"study"`
	Speech    SpeechConfig    `yaml:"speech"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Content-Type,X-Request-Id"`
	ExposedHeaders   string `yaml:"exposed_headers"   env:"CORS_EXPOSED_HEADERS"   env-default:"X-Session-Id,X-Request-Id,Content-Disposition"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// RateLimitConfig limits session writes per client IP.
type RateLimitConfig struct {
	Enabled         bool          `yaml:"enabled"          env:"RATE_LIMIT_ENABLED"          env-default:"true"`
	SessionWrites   int           `yaml:"session_writes"   env:"RATE_LIMIT_SESSION_WRITES"   env-default:"240"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" env:"RATE_LIMIT_CLEANUP_INTERVAL" env-default:"5m"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// DatasetConfig says where the vocabulary CSV comes from. Path wins over URL
// when both are set.
type DatasetConfig struct {
	URL          string        `yaml:"url"           env:"DATASET_URL"`
	Path         string        `yaml:"path"          env:"DATASET_PATH"`
	FetchTimeout time.Duration `yaml:"fetch_timeout" env:"DATASET_FETCH_TIMEOUT" env-default:"15s"`
}

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// StorageConfig selects and configures the key/value store.
type StorageConfig struct {
	Driver     string         `yaml:"driver"      env:"STORAGE_DRIVER"      env-default:"memory"`
	FilePath   string         `yaml:"file_path"   env:"STORAGE_FILE_PATH"   env-default:"./data/vlingual.json"`
	SQLitePath string         `yaml:"sqlite_path" env:"STORAGE_SQLITE_PATH" env-default:"./data/vlingual.db"`
	Database   DatabaseConfig `yaml:"database"`
	Redis      RedisConfig    `yaml:"redis"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr        string        `yaml:"addr"         env:"REDIS_ADDR"         env-default:"localhost:6379"`
	Password    string        `yaml:"password"     env:"REDIS_PASSWORD"`
	DB          int           `yaml:"db"           env:"REDIS_DB"           env-default:"0"`
	Prefix      string        `yaml:"prefix"       env:"REDIS_PREFIX"       env-default:"vlingual:"`
	DialTimeout time.Duration `yaml:"dial_timeout" env:"REDIS_DIAL_TIMEOUT" env-default:"5s"`
}

// Study policies and selection strategies.
const (
	PolicyCounter = "counter"
	PolicyMastery = "mastery"

	SelectionWeighted      = "weighted"
	SelectionDeterministic = "deterministic"

	ScopeGlobal = "global"
	ScopeVideo  = "video"
)

// StudyConfig holds scheduling and session settings.
type StudyConfig struct {
	Policy             string        `yaml:"policy"                env:"STUDY_POLICY"                env-default:"counter"`
	ScoreSelection     string        `yaml:"score_selection"       env:"STUDY_SCORE_SELECTION"       env-default:"weighted"`
	TopN               int           `yaml:"top_n"                 env:"STUDY_TOP_N"                 env-default:"10"`
	TransitionDelay    time.Duration `yaml:"transition_delay"      env:"STUDY_TRANSITION_DELAY"      env-default:"300ms"`
	ProgressScope      string        `yaml:"progress_scope"        env:"STUDY_PROGRESS_SCOPE"        env-default:"global"`
	KeepFilterOnSwitch bool          `yaml:"keep_filter_on_switch" env:"STUDY_KEEP_FILTER_ON_SWITCH" env-default:"false"`
	SessionTTL         time.Duration `yaml:"session_ttl"           env:"STUDY_SESSION_TTL"           env-default:"2h"`
	JanitorInterval    time.Duration `yaml:"janitor_interval"      env:"STUDY_JANITOR_INTERVAL"      env-default:"1m"`
}

// SpeechConfig configures pronunciation playback.
type SpeechConfig struct {
	Enabled bool   `yaml:"enabled" env:"SPEECH_ENABLED" env-default:"false"`
	Command string `yaml:"command" env:"SPEECH_COMMAND"`
	Lang    string `yaml:"lang"    env:"SPEECH_LANG"    env-default:"en-US"`
	Rate    string `yaml:"rate"    env:"SPEECH_RATE"    env-default:"0.8"`
}
