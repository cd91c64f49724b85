// Package config loads the dashboard service configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/FleetPro/service-dashboard/internal/platform/database"
)

// EnvPrefix namespaces every environment variable, e.g. FLEETPRO_SERVICE_PORT.
const EnvPrefix = "FLEETPRO"

// JWTConfig holds access token settings.
type JWTConfig struct {
	Secret    string
	AccessTTL time.Duration
}

// SessionConfig selects the session store backing the auth provider.
type SessionConfig struct {
	Store         string // memory | redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	KeyPrefix     string
}

// KafkaConfig holds broker and topic settings.
type KafkaConfig struct {
	Enabled     bool
	Brokers     []string
	GroupPrefix string
	EventsTopic string
	SOSTopic    string
}

// AssistantConfig holds the simulated latencies of the assistant pages.
type AssistantConfig struct {
	ResolveDelay time.Duration
	ChatDelay    time.Duration
}

// ServiceConfig holds all configuration for the dashboard service.
type ServiceConfig struct {
	Port           string
	AppEnv         string
	StorageDriver  string // memory | postgres
	MigrationsDir  string
	AllowedOrigins []string
	DBConfig       database.PostgresConfig
	JWTConfig      JWTConfig
	SessionConfig  SessionConfig
	KafkaConfig    KafkaConfig
	Assistant      AssistantConfig
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_env", "development")
	v.SetDefault("service_port", ":8080")
	v.SetDefault("storage.driver", "memory")
	v.SetDefault("migrations_dir", "migrations")
	v.SetDefault("allowed_origins", []string{})

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.user", "fleetpro")
	v.SetDefault("db.password", "fleetpro")
	v.SetDefault("db.name", "fleetpro_dashboard")
	v.SetDefault("db.sslmode", "disable")

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.access_ttl", "12h")

	v.SetDefault("session.store", "memory")
	v.SetDefault("session.redis_addr", "localhost:6379")
	v.SetDefault("session.redis_password", "")
	v.SetDefault("session.redis_db", 0)
	v.SetDefault("session.key_prefix", "fleetpro:session:")

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.group_prefix", "fleetpro-")
	v.SetDefault("kafka.events_topic", "fleet.events")
	v.SetDefault("kafka.sos_topic", "fleet.sos")

	v.SetDefault("assistant.resolve_delay", "1500ms")
	v.SetDefault("assistant.chat_delay", "1000ms")
}

// Load reads configuration from .env, an optional config.yaml and FLEETPRO_* variables.
func Load() (*ServiceConfig, error) {
	// A missing .env is the normal case outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/fleetpro")
	v.AddConfigPath(".")
	if path := os.Getenv(EnvPrefix + "_CONFIG_PATH"); path != "" {
		v.SetConfigFile(path)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := fromViper(v)
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func fromViper(v *viper.Viper) *ServiceConfig {
	port := v.GetString("service_port")
	if port != "" && !strings.Contains(port, ":") {
		port = ":" + port
	}

	return &ServiceConfig{
		Port:           port,
		AppEnv:         strings.ToLower(v.GetString("app_env")),
		StorageDriver:  strings.ToLower(v.GetString("storage.driver")),
		MigrationsDir:  v.GetString("migrations_dir"),
		AllowedOrigins: splitList(v.GetStringSlice("allowed_origins")),
		DBConfig: database.PostgresConfig{
			Host:     v.GetString("db.host"),
			Port:     v.GetString("db.port"),
			User:     v.GetString("db.user"),
			Password: v.GetString("db.password"),
			DBName:   v.GetString("db.name"),
			SSLMode:  v.GetString("db.sslmode"),
		},
		JWTConfig: JWTConfig{
			Secret:    v.GetString("jwt.secret"),
			AccessTTL: v.GetDuration("jwt.access_ttl"),
		},
		SessionConfig: SessionConfig{
			Store:         strings.ToLower(v.GetString("session.store")),
			RedisAddr:     v.GetString("session.redis_addr"),
			RedisPassword: v.GetString("session.redis_password"),
			RedisDB:       v.GetInt("session.redis_db"),
			KeyPrefix:     v.GetString("session.key_prefix"),
		},
		KafkaConfig: KafkaConfig{
			Enabled:     v.GetBool("kafka.enabled"),
			Brokers:     splitList(v.GetStringSlice("kafka.brokers")),
			GroupPrefix: v.GetString("kafka.group_prefix"),
			EventsTopic: v.GetString("kafka.events_topic"),
			SOSTopic:    v.GetString("kafka.sos_topic"),
		},
		Assistant: AssistantConfig{
			ResolveDelay: v.GetDuration("assistant.resolve_delay"),
			ChatDelay:    v.GetDuration("assistant.chat_delay"),
		},
	}
}

// splitList accepts both YAML lists and comma-separated env values.
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func validate(cfg *ServiceConfig) error {
	if cfg.Port == "" {
		return fmt.Errorf("service_port is required")
	}
	switch cfg.StorageDriver {
	case "memory", "postgres":
	default:
		return fmt.Errorf("invalid storage.driver: %s (must be memory or postgres)", cfg.StorageDriver)
	}
	switch cfg.SessionConfig.Store {
	case "memory":
	case "redis":
		if cfg.SessionConfig.RedisAddr == "" {
			return fmt.Errorf("session.redis_addr is required for the redis session store")
		}
	default:
		return fmt.Errorf("invalid session.store: %s (must be memory or redis)", cfg.SessionConfig.Store)
	}
	if cfg.JWTConfig.Secret == "" {
		if cfg.AppEnv != "development" {
			return fmt.Errorf("jwt.secret is required outside development")
		}
		cfg.JWTConfig.Secret = "fleetpro-dev-secret"
	}
	if cfg.JWTConfig.AccessTTL <= 0 {
		return fmt.Errorf("jwt.access_ttl must be positive")
	}
	if cfg.KafkaConfig.Enabled && len(cfg.KafkaConfig.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers is required when kafka is enabled")
	}
	if cfg.Assistant.ResolveDelay < 0 || cfg.Assistant.ChatDelay < 0 {
		return fmt.Errorf("assistant delays cannot be negative")
	}
	return nil
}
