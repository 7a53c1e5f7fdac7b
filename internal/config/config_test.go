package config

import (
	"testing"
	"time"
)

func clearEnvVars(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DATABASE_URL", "MIGRATE_ON_START", "SECRET_KEY", "TOKEN_TTL",
		"RATE_LIMIT_GENERAL", "RATE_LIMIT_AUTH", "PORT",
		"CORS_ALLOWED_ORIGIN", "METRICS_ENABLED", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_NoEnvVars_ReturnsDefaults(t *testing.T) {
	clearEnvVars(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.DatabaseURL != "postgres://localhost:5432/blogman?sslmode=disable" {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
	}
	if cfg.MigrateOnStart {
		t.Error("MigrateOnStart = true, want false")
	}
	if cfg.SecretKey != DefaultSecretKey {
		t.Errorf("SecretKey = %q, want %q", cfg.SecretKey, DefaultSecretKey)
	}
	if cfg.TokenTTL != time.Hour {
		t.Errorf("TokenTTL = %v, want %v", cfg.TokenTTL, time.Hour)
	}
	if cfg.RateLimitGeneral != 120 {
		t.Errorf("RateLimitGeneral = %d, want %d", cfg.RateLimitGeneral, 120)
	}
	if cfg.RateLimitAuth != 20 {
		t.Errorf("RateLimitAuth = %d, want %d", cfg.RateLimitAuth, 20)
	}
	if cfg.ServerPort != "3000" {
		t.Errorf("ServerPort = %q, want %q", cfg.ServerPort, "3000")
	}
	if cfg.CORSAllowedOrigin != "*" {
		t.Errorf("CORSAllowedOrigin = %q, want %q", cfg.CORSAllowedOrigin, "*")
	}
	if !cfg.MetricsEnabled {
		t.Error("MetricsEnabled = false, want true")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if !cfg.UsesDefaultSecret() {
		t.Error("UsesDefaultSecret() = false, want true")
	}
}

func TestLoad_CustomValues(t *testing.T) {
	clearEnvVars(t)
	t.Setenv("DATABASE_URL", "postgres://user:pass@db:5432/blog?sslmode=disable")
	t.Setenv("MIGRATE_ON_START", "true")
	t.Setenv("SECRET_KEY", "production-secret")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("RATE_LIMIT_GENERAL", "60")
	t.Setenv("RATE_LIMIT_AUTH", "5")
	t.Setenv("PORT", "8080")
	t.Setenv("CORS_ALLOWED_ORIGIN", "https://blog.example.com")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.DatabaseURL != "postgres://user:pass@db:5432/blog?sslmode=disable" {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
	}
	if !cfg.MigrateOnStart {
		t.Error("MigrateOnStart = false, want true")
	}
	if cfg.SecretKey != "production-secret" {
		t.Errorf("SecretKey = %q, want %q", cfg.SecretKey, "production-secret")
	}
	if cfg.UsesDefaultSecret() {
		t.Error("UsesDefaultSecret() = true, want false")
	}
	if cfg.TokenTTL != 30*time.Minute {
		t.Errorf("TokenTTL = %v, want %v", cfg.TokenTTL, 30*time.Minute)
	}
	if cfg.RateLimitGeneral != 60 {
		t.Errorf("RateLimitGeneral = %d, want %d", cfg.RateLimitGeneral, 60)
	}
	if cfg.RateLimitAuth != 5 {
		t.Errorf("RateLimitAuth = %d, want %d", cfg.RateLimitAuth, 5)
	}
	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q, want %q", cfg.ServerPort, "8080")
	}
	if cfg.CORSAllowedOrigin != "https://blog.example.com" {
		t.Errorf("CORSAllowedOrigin = %q", cfg.CORSAllowedOrigin)
	}
	if cfg.MetricsEnabled {
		t.Error("MetricsEnabled = true, want false")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
}

func TestLoad_InvalidNumbers_FallBackToDefaults(t *testing.T) {
	clearEnvVars(t)
	t.Setenv("RATE_LIMIT_GENERAL", "many")
	t.Setenv("TOKEN_TTL", "an hour")
	t.Setenv("METRICS_ENABLED", "maybe")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.RateLimitGeneral != 120 {
		t.Errorf("RateLimitGeneral = %d, want %d", cfg.RateLimitGeneral, 120)
	}
	if cfg.TokenTTL != time.Hour {
		t.Errorf("TokenTTL = %v, want %v", cfg.TokenTTL, time.Hour)
	}
	if !cfg.MetricsEnabled {
		t.Error("MetricsEnabled = false, want true")
	}
}

// 0以下のレート制限値は無効な設定として扱い、デフォルト値に戻す。
// レート0・バースト0のリミッターはすべてのリクエストを429にしてしまう。
func TestLoad_NonPositiveRateLimitsFallBackToDefaults(t *testing.T) {
	tests := []struct {
		general, auth string
	}{
		{"0", "0"},
		{"-5", "-1"},
		{"abc", ""},
	}

	for _, tt := range tests {
		t.Run(tt.general+"/"+tt.auth, func(t *testing.T) {
			clearEnvVars(t)
			t.Setenv("RATE_LIMIT_GENERAL", tt.general)
			t.Setenv("RATE_LIMIT_AUTH", tt.auth)

			cfg, err := Load()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if cfg.RateLimitGeneral != 120 {
				t.Errorf("RateLimitGeneral = %d, want 120", cfg.RateLimitGeneral)
			}
			if cfg.RateLimitAuth != 20 {
				t.Errorf("RateLimitAuth = %d, want 20", cfg.RateLimitAuth)
			}
		})
	}
}
