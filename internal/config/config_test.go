package config

import (
	"strings"
	"testing"
	"time"
)

func TestConfig_Validate_ValidConfig(t *testing.T) {
	cfg := validBaseConfig()

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got error: %v", err)
	}
}

func TestConfig_Validate_InvalidServerEnv(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Server.Env = "invalid"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid SERVER_ENV")
	}
	if !strings.Contains(err.Error(), "SERVER_ENV") {
		t.Errorf("expected error to mention SERVER_ENV, got: %v", err)
	}
}

func TestConfig_Validate_MissingPort(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Server.Port = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing SERVER_PORT")
	}
	if !strings.Contains(err.Error(), "SERVER_PORT") {
		t.Errorf("expected error to mention SERVER_PORT, got: %v", err)
	}
}

func TestConfig_Validate_UnknownDriver(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Database.Driver = "postgres"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for unknown DB_DRIVER")
	}
	if !strings.Contains(err.Error(), "DB_DRIVER") {
		t.Errorf("expected error to mention DB_DRIVER, got: %v", err)
	}
}

func TestConfig_Validate_SurrealRequiresHost(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Database.Host = ""

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "DB_HOST") {
		t.Errorf("expected error to mention DB_HOST, got: %v", err)
	}
}

func TestConfig_Validate_SQLiteIgnoresSurrealSettings(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Database.Driver = DriverSQLite
	cfg.Database.Host = ""
	cfg.Database.SQLitePath = ":memory:"

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected sqlite config to be valid without DB_HOST, got: %v", err)
	}
}

func TestConfig_Validate_SQLiteRequiresPath(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Database.Driver = DriverSQLite
	cfg.Database.SQLitePath = ""

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "DB_SQLITE_PATH") {
		t.Errorf("expected error to mention DB_SQLITE_PATH, got: %v", err)
	}
}

func TestConfig_Validate_RecommenderTimeout(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Recommender.Timeout = 0

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "RECOMMENDER_TIMEOUT") {
		t.Errorf("expected error to mention RECOMMENDER_TIMEOUT, got: %v", err)
	}
}

func TestConfig_Validate_BreakerRatioOutOfRange(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Recommender.BreakerFailRatio = 1.5

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "RECOMMENDER_BREAKER_FAIL_RATIO") {
		t.Errorf("expected error to mention RECOMMENDER_BREAKER_FAIL_RATIO, got: %v", err)
	}
}

func TestConfig_Validate_ProductionRequiresPublicKey(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Server.Env = "production"
	cfg.JWT.PublicKeyPath = ""

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "JWT_PUBLIC_KEY_PATH") {
		t.Errorf("expected error to mention JWT_PUBLIC_KEY_PATH, got: %v", err)
	}
}

func TestConfig_Validate_MultipleErrors(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Server.Port = ""
	cfg.JWT.ExpirationMins = 0
	cfg.RateLimit.Requests = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected errors")
	}
	for _, want := range []string{"SERVER_PORT", "JWT_EXPIRATION_MINS", "RATE_LIMIT_REQUESTS"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected error to mention %s, got: %v", want, err)
		}
	}
}

func TestLoad_ReadsEnvironment(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("RECOMMENDER_TIMEOUT", "750ms")
	t.Setenv("RECOMMENDER_BREAKER_FAIL_RATIO", "0.25")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.Driver != DriverSQLite {
		t.Errorf("expected sqlite driver, got %q", cfg.Database.Driver)
	}
	if cfg.Recommender.Timeout != 750*time.Millisecond {
		t.Errorf("expected 750ms timeout, got %v", cfg.Recommender.Timeout)
	}
	if cfg.Recommender.BreakerFailRatio != 0.25 {
		t.Errorf("expected ratio 0.25, got %v", cfg.Recommender.BreakerFailRatio)
	}
	if len(cfg.Server.AllowedOrigins) != 2 || cfg.Server.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("unexpected origins: %v", cfg.Server.AllowedOrigins)
	}
}

func TestLoad_InvalidValuesFallBackToDefaults(t *testing.T) {
	t.Setenv("RECOMMENDER_TIMEOUT", "soon")
	t.Setenv("RATE_LIMIT_REQUESTS", "many")

	cfg, _ := Load()
	if cfg.Recommender.Timeout != 3*time.Second {
		t.Errorf("expected default timeout, got %v", cfg.Recommender.Timeout)
	}
	if cfg.RateLimit.Requests != 120 {
		t.Errorf("expected default rate limit, got %d", cfg.RateLimit.Requests)
	}
}

func TestConfig_IsDevelopment(t *testing.T) {
	cfg := validBaseConfig()
	if !cfg.IsDevelopment() {
		t.Error("expected development")
	}
	cfg.Server.Env = "production"
	if cfg.IsDevelopment() || !cfg.IsProduction() {
		t.Error("expected production")
	}
}

func validBaseConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8080",
			Env:            "development",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Database: DatabaseConfig{
			Driver:    DriverSurrealDB,
			Host:      "localhost",
			Port:      "8000",
			Namespace: "missions",
			Database:  "main",
		},
		JWT: JWTConfig{
			PrivateKeyPath: "./keys/private.pem",
			PublicKeyPath:  "./keys/public.pem",
			ExpirationMins: 15,
			Issuer:         "missions.forgo.software",
		},
		Recommender: RecommenderConfig{
			BaseURL:          "http://localhost:8001",
			Timeout:          3 * time.Second,
			BreakerTimeout:   30 * time.Second,
			BreakerMinCalls:  5,
			BreakerFailRatio: 0.6,
		},
		RateLimit: RateLimitConfig{
			Requests: 120,
			Window:   time.Minute,
		},
	}
}
