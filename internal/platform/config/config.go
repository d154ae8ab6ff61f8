package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	strutil "campuscoffee/pkg/platform/strings"
)

// Config is the full runtime configuration for the POS service.
type Config struct {
	Server   Server   `yaml:"server"`
	Database Database `yaml:"database"`
	Log      Log      `yaml:"log"`
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr               string        `yaml:"addr"`
	AdminToken         string        `yaml:"admin_token"`
	CORSAllowedOrigins []string      `yaml:"cors_allowed_origins"`
	RequestTimeout     time.Duration `yaml:"request_timeout"`
	ShutdownTimeout    time.Duration `yaml:"shutdown_timeout"`
}

// Database captures the PostgreSQL connection and pool settings.
type Database struct {
	URL             string        `yaml:"url"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	QueryTimeout    time.Duration `yaml:"query_timeout"`
	AutoMigrate     bool          `yaml:"auto_migrate"`
}

// Log selects the slog handler.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		Server: Server{
			Addr:               ":8080",
			CORSAllowedOrigins: []string{"*"},
			RequestTimeout:     30 * time.Second,
			ShutdownTimeout:    10 * time.Second,
		},
		Database: Database{
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
			QueryTimeout:    5 * time.Second,
			AutoMigrate:     true,
		},
		Log: Log{Level: "info", Format: "json"},
	}
}

// FromEnv builds a Config from environment variables so main stays lean. A
// .env file in the working directory is loaded first when present.
func FromEnv() (Config, error) {
	_ = godotenv.Load()
	cfg := Defaults()
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads a YAML file on top of the defaults, then applies environment
// overrides. An empty path behaves like FromEnv.
func Load(path string) (Config, error) {
	if path == "" {
		return FromEnv()
	}
	_ = godotenv.Load()
	cfg := Defaults()
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.Server.CORSAllowedOrigins = strutil.DedupeAndTrim(cfg.Server.CORSAllowedOrigins)
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings required to serve traffic.
func (c Config) Validate() error {
	var errs []error
	if c.Database.URL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.Database.QueryTimeout < 0 {
		errs = append(errs, errors.New("DB_QUERY_TIMEOUT must not be negative"))
	}
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("POS_ADDR must not be empty"))
	}
	return errors.Join(errs...)
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("POS_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v, ok := os.LookupEnv("POS_ADMIN_TOKEN"); ok {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("POS_CORS_ORIGINS"); v != "" {
		cfg.Server.CORSAllowedOrigins = strutil.SplitList(v)
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}

	var errs []error
	errs = append(errs,
		envDuration("POS_REQUEST_TIMEOUT", &cfg.Server.RequestTimeout),
		envDuration("POS_SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout),
		envDuration("DB_CONN_MAX_LIFETIME", &cfg.Database.ConnMaxLifetime),
		envDuration("DB_QUERY_TIMEOUT", &cfg.Database.QueryTimeout),
		envInt("DB_MAX_OPEN_CONNS", &cfg.Database.MaxOpenConns),
		envInt("DB_MAX_IDLE_CONNS", &cfg.Database.MaxIdleConns),
		envBool("DB_AUTO_MIGRATE", &cfg.Database.AutoMigrate),
	)
	return errors.Join(errs...)
}

func envDuration(key string, dst *time.Duration) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}

func envInt(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func envBool(key string, dst *bool) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}
