package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()

	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_USER", "lms")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "lms")
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("REDIS_PORT", "6379")
	t.Setenv("JWT_SECRET", "signing-secret")
	t.Setenv("JWT_ISSUER", "lms-api")
	t.Setenv("JWT_AUDIENCE", "lms-clients")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg := Load()

	if cfg.JWTAccessExpiry != 15*time.Minute {
		t.Errorf("JWTAccessExpiry = %v, want 15m", cfg.JWTAccessExpiry)
	}
	if cfg.LoginMaxFailures != 10 {
		t.Errorf("LoginMaxFailures = %d, want 10", cfg.LoginMaxFailures)
	}
	if cfg.LoginWindow != 15*time.Minute {
		t.Errorf("LoginWindow = %v, want 15m", cfg.LoginWindow)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %s, want 8080", cfg.Port)
	}
	if cfg.Environment != "development" {
		t.Errorf("Environment = %s, want development", cfg.Environment)
	}
	if cfg.SwaggerHost != "" {
		t.Errorf("SwaggerHost = %s, want empty", cfg.SwaggerHost)
	}
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_ACCESS_EXPIRY_MINUTES", "5")
	t.Setenv("LOGIN_MAX_FAILURES", "3")
	t.Setenv("PORT", "9090")

	cfg := Load()

	if cfg.JWTAccessExpiry != 5*time.Minute {
		t.Errorf("JWTAccessExpiry = %v, want 5m", cfg.JWTAccessExpiry)
	}
	if cfg.LoginMaxFailures != 3 {
		t.Errorf("LoginMaxFailures = %d, want 3", cfg.LoginMaxFailures)
	}
	if cfg.Port != "9090" {
		t.Errorf("Port = %s, want 9090", cfg.Port)
	}
}

func TestLoad_MissingRequiredPanics(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_SECRET", "")

	defer func() {
		if recover() == nil {
			t.Error("Load() should panic when JWT_SECRET is missing")
		}
	}()
	Load()
}

func TestGetEnvInt_GarbageFallsBackToDefault(t *testing.T) {
	t.Setenv("SOME_INT", "not-a-number")

	if got := getEnvInt("SOME_INT", 7); got != 7 {
		t.Errorf("getEnvInt() = %d, want default 7", got)
	}
}
