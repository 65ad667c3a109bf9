package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"golang.org/x/text/language"
)

// Environments selecting the log format
const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// Row store backends
const (
	BackendPostgres  = "postgres"
	BackendSQLite    = "sqlite"
	BackendPostgREST = "postgrest"
)

// Config holds the application settings
type Config struct {
	Env      string         `yaml:"env" env:"APP_ENV" env-default:"prod"`
	Locale   string         `yaml:"locale" env:"APP_LOCALE" env-default:"pt-BR"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	RowStore RowStoreConfig `yaml:"row_store"`
	Auth     AuthConfig     `yaml:"auth"`
	Cache    CacheConfig    `yaml:"cache"`
	CORS     CORSConfig     `yaml:"cors"`
}

// ServerConfig is the HTTP server setup
type ServerConfig struct {
	Port            string        `yaml:"port" env:"SERVER_PORT" env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT" env-default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT" env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"SERVER_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"30s"`
}

// DatabaseConfig is the connection to PostgreSQL or SQLite
type DatabaseConfig struct {
	Host       string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port       string `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User       string `yaml:"user" env:"DB_USER" env-default:"postgres"`
	Password   string `yaml:"password" env:"DB_PASSWORD" env-default:"postgres"`
	DBName     string `yaml:"name" env:"DB_NAME" env-default:"workforce"`
	SSLMode    string `yaml:"sslmode" env:"DB_SSLMODE" env-default:"disable"`
	SQLitePath string `yaml:"sqlite_path" env:"DB_SQLITE_PATH" env-default:"workforce.db"`
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// RowStoreConfig selects where rows live
type RowStoreConfig struct {
	Backend  string `yaml:"backend" env:"ROWSTORE_BACKEND" env-default:"postgres"`
	PageSize int    `yaml:"page_size" env:"ROWSTORE_PAGE_SIZE" env-default:"1000"`

	PostgRESTURL     string        `yaml:"postgrest_url" env:"POSTGREST_URL"`
	PostgRESTKey     string        `yaml:"postgrest_key" env:"POSTGREST_KEY"`
	PostgRESTTimeout time.Duration `yaml:"postgrest_timeout" env:"POSTGREST_TIMEOUT" env-default:"10s"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" env:"AUTH_JWT_SECRET"`
}

// CacheConfig sets the read cache in front of the row store. Zero TTL keeps entries until a write.
type CacheConfig struct {
	TTL time.Duration `yaml:"ttl" env:"CACHE_TTL" env-default:"30s"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"*"`
}

// Load reads the YAML file named by CONFIG_PATH, or the environment alone when unset
func Load() (*Config, error) {
	var cfg Config

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config.Load: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config.Load: read env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MustLoad is Load that exits on error
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

// LocaleTag parses Locale, falling back to Brazilian Portuguese
func (c *Config) LocaleTag() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.BrazilianPortuguese
	}
	return tag
}

func (c *Config) validate() error {
	c.RowStore.Backend = strings.ToLower(strings.TrimSpace(c.RowStore.Backend))
	switch c.RowStore.Backend {
	case BackendPostgres, BackendSQLite:
	case BackendPostgREST:
		if c.RowStore.PostgRESTURL == "" {
			return fmt.Errorf("config: postgrest backend requires POSTGREST_URL")
		}
	default:
		return fmt.Errorf("config: unknown row store backend %q", c.RowStore.Backend)
	}

	if c.RowStore.PageSize <= 0 {
		return fmt.Errorf("config: page size must be positive, got %d", c.RowStore.PageSize)
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("config: AUTH_JWT_SECRET is required")
	}
	return nil
}
