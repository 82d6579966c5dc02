package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Session  SessionConfig  `mapstructure:"session"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Log      LogConfig      `mapstructure:"log"`
	Jobs     JobsConfig     `mapstructure:"jobs"`
}

type ServerConfig struct {
	Port           string `mapstructure:"port"`
	Mode           string `mapstructure:"mode"`
	AllowedOrigins string `mapstructure:"allowed_origins"`
}

// Origins splits the comma separated origin list.
func (s ServerConfig) Origins() []string {
	var origins []string
	for _, o := range strings.Split(s.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	DSN      string `mapstructure:"dsn"`
	LogLevel string `mapstructure:"log_level"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

type SessionConfig struct {
	Secret string `mapstructure:"secret"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Output string `mapstructure:"output"` // stdout, stderr, file
	File   string `mapstructure:"file"`
}

type JobsConfig struct {
	RecountSchedule string `mapstructure:"recount_schedule"`
}

const devSecret = "collabridge-dev-secret-change-me"

var ErrMissingJWTSecret = errors.New("auth.jwt_secret (JWT_SECRET) must be set in release mode")

// Load reads configuration from the environment, an optional config.yaml and defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/collabridge")

	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindLegacyEnv(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if cfg.Auth.JWTSecret == "" {
		if cfg.Server.Mode == "release" {
			return nil, ErrMissingJWTSecret
		}
		cfg.Auth.JWTSecret = devSecret
	}
	if cfg.Session.Secret == "" {
		cfg.Session.Secret = cfg.Auth.JWTSecret
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "5000")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.allowed_origins", "http://localhost:5173")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "collabridge.db")
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", 7*24*time.Hour)
	v.SetDefault("session.secret", "")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.file", "logs/collabridge.log")
	v.SetDefault("jobs.recount_schedule", "@every 1h")
}

// bindLegacyEnv keeps the short variable names used by existing deployments.
func bindLegacyEnv(v *viper.Viper) {
	_ = v.BindEnv("server.port", "SERVER_PORT", "PORT")
	_ = v.BindEnv("server.mode", "SERVER_MODE", "GIN_MODE")
	_ = v.BindEnv("server.allowed_origins", "SERVER_ALLOWED_ORIGINS", "CLIENT_ORIGIN")
	_ = v.BindEnv("database.dsn", "DATABASE_DSN", "DATABASE_URL")
	_ = v.BindEnv("auth.jwt_secret", "AUTH_JWT_SECRET", "JWT_SECRET")
	_ = v.BindEnv("session.secret", "SESSION_SECRET")
	_ = v.BindEnv("redis.addr", "REDIS_ADDR")
}
