package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Port      string
	Env       string
	LogLevel  string
	LogFormat string
	StaticDir string

	DB      DBConfig
	Redis   RedisConfig
	Session SessionConfig
	CORS    CORSConfig
}

type DBConfig struct {
	Path string // SQLite catalog file
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type SessionConfig struct {
	Secret     string
	TTL        time.Duration
	CookieName string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// IsProduction enables secure cookies.
func (c *Config) IsProduction() bool { return c.Env == "production" }

// String returns a printable form with secrets masked.
func (c *Config) String() string {
	return fmt.Sprintf("Config{port: %s, env: %s, db: %s, redis: %s, session: *** ttl=%s}",
		c.Port, c.Env, c.DB.Path, c.Redis.Addr, c.Session.TTL)
}

var errNoSecret = errors.New("session.secret (SESSION_SECRET) is required")

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "5000")
	v.SetDefault("env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("static_dir", "public")
	v.SetDefault("db.path", "catalog.db")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("session.secret", "")
	v.SetDefault("session.ttl", 7*24*time.Hour)
	v.SetDefault("session.cookie_name", "sid")
	v.SetDefault("cors.allowed_origins", []string{})
}

// Load reads configs/config.yml (optional), then .env (optional), then the
// environment. Environment keys are the config keys upper-cased with "." → "_",
// e.g. SESSION_SECRET, DB_PATH, REDIS_ADDR.
func Load(paths ...string) (*Config, error) {
	// a missing .env is the normal case outside development
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{"configs"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		Port:      v.GetString("port"),
		Env:       v.GetString("env"),
		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),
		StaticDir: v.GetString("static_dir"),
		DB: DBConfig{
			Path: v.GetString("db.path"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Session: SessionConfig{
			Secret:     v.GetString("session.secret"),
			TTL:        v.GetDuration("session.ttl"),
			CookieName: v.GetString("session.cookie_name"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetStringSlice("cors.allowed_origins")),
		},
	}

	if cfg.Session.Secret == "" {
		return nil, errNoSecret
	}
	if cfg.Session.TTL <= 0 {
		return nil, fmt.Errorf("session.ttl must be positive, got %s", cfg.Session.TTL)
	}
	return cfg, nil
}

// splitList also accepts comma-joined entries, as env values arrive as one string.
func splitList(in []string) []string {
	out := []string{}
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
