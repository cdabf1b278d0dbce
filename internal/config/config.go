package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Log     LogConfig
	CORS    CORSConfig
	Dataset DatasetConfig
	Advisor AdvisorConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatasetConfig holds settings for the hospital standard-charges disclosure
// dataset loaded once at startup. Source is "file" or "s3".
type DatasetConfig struct {
	Source    string `mapstructure:"source"`
	Path      string `mapstructure:"path"`
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Key       string `mapstructure:"key"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// AdvisorProviderConfig holds settings for a single LLM advisor provider.
type AdvisorProviderConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// AdvisorConfig holds LLM advisor settings with multi-provider fallback.
type AdvisorConfig struct {
	Primary   AdvisorProviderConfig `mapstructure:"primary"`
	Secondary AdvisorProviderConfig `mapstructure:"secondary"`
	Tertiary  AdvisorProviderConfig `mapstructure:"tertiary"`
}

// Providers returns the configured provider configs in fallback order,
// skipping unset slots.
func (a *AdvisorConfig) Providers() []*AdvisorProviderConfig {
	var out []*AdvisorProviderConfig
	for _, p := range []*AdvisorProviderConfig{&a.Primary, &a.Secondary, &a.Tertiary} {
		if p.Provider != "" {
			out = append(out, p)
		}
	}
	return out
}

// Load reads configuration from environment variables with the BILLAUDIT_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("BILLAUDIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Dataset defaults
	v.SetDefault("dataset.source", "file")
	v.SetDefault("dataset.path", "assets/standard_charges.json")
	v.SetDefault("dataset.region", "us-east-1")
	v.SetDefault("dataset.bucket", "")
	v.SetDefault("dataset.key", "")
	v.SetDefault("dataset.endpoint", "")

	// Advisor defaults
	v.SetDefault("advisor.primary.provider", "openai")
	v.SetDefault("advisor.primary.api_key", "")
	v.SetDefault("advisor.primary.default_model", "")
	v.SetDefault("advisor.primary.timeout_secs", 120)
	v.SetDefault("advisor.secondary.provider", "")
	v.SetDefault("advisor.secondary.api_key", "")
	v.SetDefault("advisor.secondary.default_model", "")
	v.SetDefault("advisor.secondary.timeout_secs", 120)
	v.SetDefault("advisor.tertiary.provider", "")
	v.SetDefault("advisor.tertiary.api_key", "")
	v.SetDefault("advisor.tertiary.default_model", "")
	v.SetDefault("advisor.tertiary.timeout_secs", 120)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                     "BILLAUDIT_SERVER_PORT",
		"server.read_timeout":             "BILLAUDIT_SERVER_READ_TIMEOUT",
		"server.write_timeout":            "BILLAUDIT_SERVER_WRITE_TIMEOUT",
		"server.environment":              "BILLAUDIT_SERVER_ENVIRONMENT",
		"log.level":                       "BILLAUDIT_LOG_LEVEL",
		"log.format":                      "BILLAUDIT_LOG_FORMAT",
		"cors.allowed_origins":            "BILLAUDIT_CORS_ALLOWED_ORIGINS",
		"dataset.source":                  "BILLAUDIT_DATASET_SOURCE",
		"dataset.path":                    "BILLAUDIT_DATASET_PATH",
		"dataset.region":                  "BILLAUDIT_DATASET_REGION",
		"dataset.bucket":                  "BILLAUDIT_DATASET_BUCKET",
		"dataset.key":                     "BILLAUDIT_DATASET_KEY",
		"dataset.endpoint":                "BILLAUDIT_DATASET_ENDPOINT",
		"dataset.access_key":              "BILLAUDIT_DATASET_ACCESS_KEY",
		"dataset.secret_key":              "BILLAUDIT_DATASET_SECRET_KEY",
		"advisor.primary.provider":        "BILLAUDIT_ADVISOR_PRIMARY_PROVIDER",
		"advisor.primary.api_key":         "BILLAUDIT_ADVISOR_PRIMARY_API_KEY",
		"advisor.primary.default_model":   "BILLAUDIT_ADVISOR_PRIMARY_DEFAULT_MODEL",
		"advisor.primary.timeout_secs":    "BILLAUDIT_ADVISOR_PRIMARY_TIMEOUT_SECS",
		"advisor.secondary.provider":      "BILLAUDIT_ADVISOR_SECONDARY_PROVIDER",
		"advisor.secondary.api_key":       "BILLAUDIT_ADVISOR_SECONDARY_API_KEY",
		"advisor.secondary.default_model": "BILLAUDIT_ADVISOR_SECONDARY_DEFAULT_MODEL",
		"advisor.secondary.timeout_secs":  "BILLAUDIT_ADVISOR_SECONDARY_TIMEOUT_SECS",
		"advisor.tertiary.provider":       "BILLAUDIT_ADVISOR_TERTIARY_PROVIDER",
		"advisor.tertiary.api_key":        "BILLAUDIT_ADVISOR_TERTIARY_API_KEY",
		"advisor.tertiary.default_model":  "BILLAUDIT_ADVISOR_TERTIARY_DEFAULT_MODEL",
		"advisor.tertiary.timeout_secs":   "BILLAUDIT_ADVISOR_TERTIARY_TIMEOUT_SECS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if BILLAUDIT_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("BILLAUDIT_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	cfg.Dataset = DatasetConfig{
		Source:    v.GetString("dataset.source"),
		Path:      v.GetString("dataset.path"),
		Region:    v.GetString("dataset.region"),
		Bucket:    v.GetString("dataset.bucket"),
		Key:       v.GetString("dataset.key"),
		Endpoint:  v.GetString("dataset.endpoint"),
		AccessKey: v.GetString("dataset.access_key"),
		SecretKey: v.GetString("dataset.secret_key"),
	}

	cfg.Advisor = AdvisorConfig{
		Primary: AdvisorProviderConfig{
			Provider:     v.GetString("advisor.primary.provider"),
			APIKey:       v.GetString("advisor.primary.api_key"),
			DefaultModel: v.GetString("advisor.primary.default_model"),
			TimeoutSecs:  v.GetInt("advisor.primary.timeout_secs"),
		},
		Secondary: AdvisorProviderConfig{
			Provider:     v.GetString("advisor.secondary.provider"),
			APIKey:       v.GetString("advisor.secondary.api_key"),
			DefaultModel: v.GetString("advisor.secondary.default_model"),
			TimeoutSecs:  v.GetInt("advisor.secondary.timeout_secs"),
		},
		Tertiary: AdvisorProviderConfig{
			Provider:     v.GetString("advisor.tertiary.provider"),
			APIKey:       v.GetString("advisor.tertiary.api_key"),
			DefaultModel: v.GetString("advisor.tertiary.default_model"),
			TimeoutSecs:  v.GetInt("advisor.tertiary.timeout_secs"),
		},
	}

	return cfg, nil
}
