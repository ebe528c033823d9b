package config

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// Mapstructure tags map environment variables and config file keys.
type Config struct {
	// Server
	ServerAddress string `mapstructure:"SERVER_ADDRESS"` // e.g., ":8080"
	AppEnv        string `mapstructure:"APP_ENV"`        // "production" switches gin to release mode

	// Generation backend
	AIProvider       string `mapstructure:"AI_PROVIDER"` // "gemini" or "openai"
	GeminiAPIKey     string `mapstructure:"GEMINI_API_KEY"`
	GeminiModel      string `mapstructure:"GEMINI_MODEL"`
	OpenAIKey        string `mapstructure:"OPENAI_API_KEY"`
	OpenAIModel      string `mapstructure:"OPENAI_MODEL"`
	OpenAIBaseURL    string `mapstructure:"OPENAI_BASE_URL"` // any OpenAI-compatible endpoint
	AITimeoutSeconds int    `mapstructure:"AI_TIMEOUT_SECONDS"`
	AIMaxAttempts    int    `mapstructure:"AI_MAX_ATTEMPTS"`

	// Sessions
	SessionCacheSize int `mapstructure:"SESSION_CACHE_SIZE"`
	ViewportWidth    int `mapstructure:"VIEWPORT_WIDTH"`
	ViewportHeight   int `mapstructure:"VIEWPORT_HEIGHT"`

	// Export. S3 is used when EXPORT_S3_ENDPOINT is set, otherwise EXPORT_DIR.
	ExportDir        string `mapstructure:"EXPORT_DIR"`
	ExportS3Endpoint string `mapstructure:"EXPORT_S3_ENDPOINT"`
	ExportS3Region   string `mapstructure:"EXPORT_S3_REGION"`
	ExportS3Access   string `mapstructure:"EXPORT_S3_ACCESS_KEY"`
	ExportS3Secret   string `mapstructure:"EXPORT_S3_SECRET_KEY"`
	ExportS3Bucket   string `mapstructure:"EXPORT_S3_BUCKET"`
	ExportS3UseSSL   bool   `mapstructure:"EXPORT_S3_USE_SSL"`
}

var defaults = map[string]any{
	"SERVER_ADDRESS":       ":8080",
	"APP_ENV":              "development",
	"AI_PROVIDER":          "gemini",
	"GEMINI_API_KEY":       "",
	"GEMINI_MODEL":         "gemini-1.5-flash",
	"OPENAI_API_KEY":       "",
	"OPENAI_MODEL":         "",
	"OPENAI_BASE_URL":      "",
	"AI_TIMEOUT_SECONDS":   60,
	"AI_MAX_ATTEMPTS":      2,
	"SESSION_CACHE_SIZE":   256,
	"VIEWPORT_WIDTH":       1024,
	"VIEWPORT_HEIGHT":      768,
	"EXPORT_DIR":           "tmp/exports",
	"EXPORT_S3_ENDPOINT":   "",
	"EXPORT_S3_REGION":     "",
	"EXPORT_S3_ACCESS_KEY": "",
	"EXPORT_S3_SECRET_KEY": "",
	"EXPORT_S3_BUCKET":     "",
	"EXPORT_S3_USE_SSL":    false,
}

// LoadConfig reads configuration from config.yaml in path (optional) and the
// environment. Environment variables win over the file.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Unmarshal only sees keys viper knows about, so every key gets a default.
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("Config file ('config.yaml') not found in specified path, relying solely on environment variables.")
		} else {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		log.Printf("Using configuration file: %s", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if cfg.GeminiAPIKey == "" && cfg.OpenAIKey == "" {
		log.Println("WARN: neither GEMINI_API_KEY nor OPENAI_API_KEY is set; AI generation is disabled.")
	}
	if cfg.AITimeoutSeconds <= 0 {
		return Config{}, fmt.Errorf("AI_TIMEOUT_SECONDS must be positive, got %d", cfg.AITimeoutSeconds)
	}
	return cfg, nil
}

func (c Config) AITimeout() time.Duration {
	return time.Duration(c.AITimeoutSeconds) * time.Second
}

func (c Config) Production() bool {
	return c.AppEnv == "production"
}
