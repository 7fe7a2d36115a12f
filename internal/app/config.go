package app

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/danfirsten/Standup/internal/data/db"
	"github.com/danfirsten/Standup/internal/observability"
	"github.com/danfirsten/Standup/internal/temporalx"
)

type Config struct {
	LogMode            string
	LogLevel           string
	LogRedaction       bool
	LogHashSalt        string
	Port               string
	ServiceName        string
	DB                 db.Config
	JWTSecret          string
	CORSAllowedOrigins []string
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	RedisChannel       string
	Temporal           temporalx.Config
	AuditInterval      time.Duration
	AuditFullEvery     int
	AuditConcurrency   int
	MetricsEnabled     bool
	Otel               observability.OtelConfig
}

// LoadConfig reads the process environment, optionally overlaid by a config
// file (yaml, json or toml). Environment variables always win.
func LoadConfig(configFile string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	if configFile = strings.TrimSpace(configFile); configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}
	return fromViper(v), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("LOG_MODE", "development")
	v.SetDefault("LOG_LEVEL", "debug")
	v.SetDefault("LOG_REDACTION_ENABLED", true)
	v.SetDefault("PORT", "8080")
	v.SetDefault("SERVICE_NAME", "standup-memory")
	v.SetDefault("DB_DRIVER", db.DriverPostgres)
	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", "5432")
	v.SetDefault("POSTGRES_USER", "postgres")
	v.SetDefault("POSTGRES_NAME", "standup")
	v.SetDefault("POSTGRES_SSLMODE", "disable")
	v.SetDefault("SQLITE_PATH", "standup.db")
	v.SetDefault("AUTH_JWT_SECRET", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_CHANNEL", "memory-events")
	v.SetDefault("TEMPORAL_NAMESPACE", "standup")
	v.SetDefault("TEMPORAL_TASK_QUEUE", "standup-memory")
	v.SetDefault("TEMPORAL_AUTO_REGISTER_NAMESPACE", false)
	v.SetDefault("TEMPORAL_NAMESPACE_RETENTION_DAYS", 7)
	v.SetDefault("TEMPORAL_WORKER_CONCURRENCY", 4)
	v.SetDefault("AUDIT_INTERVAL_SECONDS", 300)
	v.SetDefault("AUDIT_FULL_EVERY", 12)
	v.SetDefault("AUDIT_CONCURRENCY", 4)
	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTEL_SAMPLE_RATIO", 1.0)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
}

func fromViper(v *viper.Viper) Config {
	return Config{
		LogMode:      v.GetString("LOG_MODE"),
		LogLevel:     v.GetString("LOG_LEVEL"),
		LogRedaction: v.GetBool("LOG_REDACTION_ENABLED"),
		LogHashSalt:  v.GetString("LOG_HASH_SALT"),
		Port:         v.GetString("PORT"),
		ServiceName:  v.GetString("SERVICE_NAME"),
		DB: db.Config{
			Driver: v.GetString("DB_DRIVER"),
			Postgres: db.PostgresConfig{
				Host:     v.GetString("POSTGRES_HOST"),
				Port:     v.GetString("POSTGRES_PORT"),
				User:     v.GetString("POSTGRES_USER"),
				Password: v.GetString("POSTGRES_PASSWORD"),
				Name:     v.GetString("POSTGRES_NAME"),
				SSLMode:  v.GetString("POSTGRES_SSLMODE"),
			},
			SQLitePath: v.GetString("SQLITE_PATH"),
		},
		JWTSecret:          v.GetString("AUTH_JWT_SECRET"),
		CORSAllowedOrigins: splitCSV(v.GetString("CORS_ALLOWED_ORIGINS")),
		RedisAddr:          strings.TrimSpace(v.GetString("REDIS_ADDR")),
		RedisPassword:      v.GetString("REDIS_PASSWORD"),
		RedisDB:            v.GetInt("REDIS_DB"),
		RedisChannel:       v.GetString("REDIS_CHANNEL"),
		Temporal: temporalx.Config{
			Address:                strings.TrimSpace(v.GetString("TEMPORAL_ADDRESS")),
			Namespace:              v.GetString("TEMPORAL_NAMESPACE"),
			TaskQueue:              v.GetString("TEMPORAL_TASK_QUEUE"),
			ClientCertPath:         v.GetString("TEMPORAL_TLS_CERT_PATH"),
			ClientKeyPath:          v.GetString("TEMPORAL_TLS_KEY_PATH"),
			ClientCAPath:           v.GetString("TEMPORAL_TLS_CA_PATH"),
			AutoRegisterNamespace:  v.GetBool("TEMPORAL_AUTO_REGISTER_NAMESPACE"),
			NamespaceRetentionDays: v.GetInt("TEMPORAL_NAMESPACE_RETENTION_DAYS"),
			WorkerConcurrency:      v.GetInt("TEMPORAL_WORKER_CONCURRENCY"),
		},
		AuditInterval:    time.Duration(v.GetInt("AUDIT_INTERVAL_SECONDS")) * time.Second,
		AuditFullEvery:   v.GetInt("AUDIT_FULL_EVERY"),
		AuditConcurrency: v.GetInt("AUDIT_CONCURRENCY"),
		MetricsEnabled:   v.GetBool("METRICS_ENABLED"),
		Otel: observability.OtelConfig{
			Enabled:     v.GetBool("OTEL_ENABLED"),
			ServiceName: v.GetString("SERVICE_NAME"),
			Environment: v.GetString("OTEL_ENVIRONMENT"),
			Version:     v.GetString("OTEL_SERVICE_VERSION"),
			Endpoint:    v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
			Headers:     v.GetString("OTEL_EXPORTER_OTLP_HEADERS"),
			Insecure:    v.GetBool("OTEL_EXPORTER_OTLP_INSECURE"),
			SampleRatio: v.GetFloat64("OTEL_SAMPLE_RATIO"),
		},
	}
}

func splitCSV(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
