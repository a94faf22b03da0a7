package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	CloudProxy   CloudProxyConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CONTROLE_APP_ENV" default:"dev"`
	Port         string `envconfig:"CONTROLE_APP_PORT" default:"3333"`
	LogLevel     string `envconfig:"CONTROLE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CONTROLE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	Driver string `envconfig:"CONTROLE_DB_DRIVER" default:"sqlite"`

	// Path is the sqlite database file. DSN is required for postgres.
	Path string `envconfig:"CONTROLE_DB_PATH" default:"database.sqlite"`
	DSN  string `envconfig:"CONTROLE_DB_DSN"`

	MaxOpenConns    int           `envconfig:"CONTROLE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CONTROLE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CONTROLE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CONTROLE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db DBConfig) validate() error {
	switch db.Driver {
	case DriverSQLite:
		if db.Path == "" {
			return fmt.Errorf("CONTROLE_DB_PATH is required for the sqlite driver")
		}
	case DriverPostgres:
		if db.DSN == "" {
			return fmt.Errorf("CONTROLE_DB_DSN is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", db.Driver)
	}
	return nil
}

// RedisConfig backs the idempotency replay guard. An empty URL disables it.
type RedisConfig struct {
	URL          string        `envconfig:"CONTROLE_REDIS_URL"`
	PoolSize     int           `envconfig:"CONTROLE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CONTROLE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CONTROLE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CONTROLE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CONTROLE_REDIS_WRITE_TIMEOUT" default:"5s"`
	ReplayTTL    time.Duration `envconfig:"CONTROLE_REDIS_REPLAY_TTL" default:"24h"`
}

func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"CONTROLE_JWT_SECRET" default:"segredo_super_seguro"`
	Issuer            string `envconfig:"CONTROLE_JWT_ISSUER" default:"controle-doces"`
	ExpirationMinutes int    `envconfig:"CONTROLE_JWT_EXPIRATION_MINUTES" default:"1440"`
}

type PasswordConfig struct {
	BcryptCost int `envconfig:"CONTROLE_BCRYPT_COST" default:"8"`
}

// CloudProxyConfig, when URL is set, turns this instance into a passthrough
// for a cloud deployment (used by the local desktop install).
type CloudProxyConfig struct {
	URL     string        `envconfig:"CONTROLE_CLOUD_URL"`
	Timeout time.Duration `envconfig:"CONTROLE_CLOUD_TIMEOUT" default:"60s"`
}

func (c CloudProxyConfig) Enabled() bool {
	return strings.TrimSpace(c.URL) != ""
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"CONTROLE_AUTO_MIGRATE" default:"true"`
	SeedAdmin   bool `envconfig:"CONTROLE_SEED_ADMIN" default:"true"`
}
