package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultSecretKey はSECRET_KEY未設定時に使用する開発用の署名鍵。
// 本番環境では必ずSECRET_KEYを設定すること。
const DefaultSecretKey = "default_secret"

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	DatabaseURL    string
	MigrateOnStart bool

	// Token
	SecretKey string
	TokenTTL  time.Duration

	// Rate Limit（req/min）
	RateLimitGeneral int
	RateLimitAuth    int

	// Server
	ServerPort string

	// CORS
	CORSAllowedOrigin string

	// Observability
	MetricsEnabled bool
	LogLevel       string
}

// Load は環境変数からConfigを読み込む。
// すべての項目にデフォルト値があるため、未設定でもエラーにはならない。
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.DatabaseURL = getEnvString("DATABASE_URL", "postgres://localhost:5432/blogman?sslmode=disable")
	cfg.MigrateOnStart = getEnvBool("MIGRATE_ON_START", false)
	cfg.SecretKey = getEnvString("SECRET_KEY", DefaultSecretKey)
	cfg.TokenTTL = getEnvDuration("TOKEN_TTL", time.Hour)
	// 0以下のレートはすべてのリクエストを拒否してしまうため、デフォルト値を使う
	cfg.RateLimitGeneral = getEnvPositiveInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitAuth = getEnvPositiveInt("RATE_LIMIT_AUTH", 20)
	cfg.ServerPort = getEnvString("PORT", "3000")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "*")
	cfg.MetricsEnabled = getEnvBool("METRICS_ENABLED", true)
	cfg.LogLevel = strings.ToLower(getEnvString("LOG_LEVEL", "info"))

	return cfg, nil
}

// UsesDefaultSecret は開発用の署名鍵で動作しているかを返す。
func (c *Config) UsesDefaultSecret() bool {
	return c.SecretKey == DefaultSecretKey
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvPositiveInt(key string, defaultVal int) int {
	if i := getEnvInt(key, defaultVal); i > 0 {
		return i
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
