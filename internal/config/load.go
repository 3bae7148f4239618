package config

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/joho/godotenv"
)

var (
	configOnce  sync.Once
	configValue *Config
)

// Load 載入以環境變數為基礎的設定。
func Load() *Config {
	configOnce.Do(func() {
		_ = godotenv.Load()
		configValue = buildConfig()
	})
	return configValue
}

// ProvideConfig 載入設定並檢查有效性。
func ProvideConfig() (*Config, error) {
	cfg := Load()
	if cfg == nil {
		return nil, errors.New("config not initialized")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 檢查設定有效性。
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Gemini.TimeoutSeconds <= 0 {
		return errors.New("gemini timeout must be positive")
	}
	if c.Review.ContentMaxRunes <= 0 {
		return errors.New("content max runes must be positive")
	}
	return nil
}

// LogEnvStatus 將環境設定狀態寫入日誌。
func LogEnvStatus(cfg *Config, logger *slog.Logger) {
	if logger == nil || cfg == nil {
		return
	}

	logger.Debug(
		"env_status",
		"env_file", fileExists(".env"),
		"gemini_keys", len(cfg.Gemini.APIKeys),
		"primary_key", maskSecret(cfg.Gemini.PrimaryKey()),
		"model", cfg.Gemini.Model,
		"timeout", cfg.Gemini.TimeoutSeconds,
		"content_max_runes", cfg.Review.ContentMaxRunes,
		"allowed_origins", cfg.HTTP.AllowedOrigins,
		"guard_enabled", cfg.Guard.Enabled,
		"usage_db_enabled", cfg.Database.Enabled,
	)

	if len(cfg.Gemini.APIKeys) == 0 {
		logger.Error("env_missing_google_api_key")
	}
}

func buildConfig() *Config {
	return &Config{
		Gemini: GeminiConfig{
			APIKeys:         parseAPIKeys(),
			Model:           getEnvString("GEMINI_MODEL", "gemini-2.5-flash"),
			Temperature:     getEnvFloat("GEMINI_TEMPERATURE", 0.2),
			MaxOutputTokens: getEnvInt("GEMINI_MAX_TOKENS", 2048),
			TimeoutSeconds:  getEnvInt("GEMINI_TIMEOUT", 180),
		},
		Review: ReviewConfig{
			ContentMaxRunes: getEnvInt("REVIEW_CONTENT_MAX_RUNES", 20000),
		},
		Guard: GuardConfig{
			Enabled:         getEnvBool("GUARD_ENABLED", false),
			Threshold:       getEnvFloat("GUARD_THRESHOLD", 0.85),
			RulepacksDir:    getEnvString("RULEPACKS_DIR", "rulepacks"),
			CacheMaxSize:    getEnvInt("GUARD_CACHE_SIZE", 10000),
			CacheTTLSeconds: getEnvInt("GUARD_CACHE_TTL", 3600),
		},
		Logging: LoggingConfig{
			Level:      getEnvString("LOG_LEVEL", "info"),
			LogDir:     getEnvString("LOG_DIR", ""),
			MaxSizeMB:  getEnvInt("LOG_FILE_MAX_SIZE_MB", 1),
			MaxBackups: getEnvInt("LOG_FILE_MAX_BACKUPS", 30),
			MaxAgeDays: getEnvInt("LOG_FILE_MAX_AGE_DAYS", 7),
			Compress:   getEnvBool("LOG_FILE_COMPRESS", true),
		},
		HTTP: HTTPConfig{
			Host:           getEnvString("HTTP_HOST", "0.0.0.0"),
			Port:           getEnvInt("HTTP_PORT", 3000),
			HTTP2Enabled:   getEnvBool("HTTP2_ENABLED", false),
			AllowedOrigins: splitList(getEnvString("ALLOWED_ORIGINS", "*")),
		},
		HTTPAuth: HTTPAuthConfig{
			APIKey: getEnvString("HTTP_API_KEY", ""),
		},
		Database: DatabaseConfig{
			Enabled:  getEnvBool("DB_USAGE_ENABLED", false),
			Host:     getEnvString("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			Name:     getEnvString("DB_NAME", "review_relay"),
			User:     getEnvString("DB_USER", "review_relay"),
			Password: getEnvString("DB_PASSWORD", ""),
			MinPool:  getEnvInt("DB_MIN_POOL", 1),
			MaxPool:  getEnvInt("DB_MAX_POOL", 5),
		},
	}
}
