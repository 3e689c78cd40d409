package config

import (
	"os"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestParseDurationWithDays(t *testing.T) {
	cases := map[string]time.Duration{
		"1d":  24 * time.Hour,
		"14d": 14 * 24 * time.Hour,
		"90m": 90 * time.Minute,
		"xd":  0,
		"bad": 0,
	}
	for in, want := range cases {
		if got := parseDurationWithDays(in); got != want {
			t.Fatalf("parseDurationWithDays(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestSplitAndTrim(t *testing.T) {
	got := splitAndTrim(" a:9092, ,b:9092 ")
	if len(got) != 2 || got[0] != "a:9092" || got[1] != "b:9092" {
		t.Fatalf("unexpected brokers: %v", got)
	}
	if splitAndTrim("") != nil {
		t.Fatalf("expected nil for empty input")
	}
}

func setRequired(t *testing.T) {
	t.Setenv("APP_PORT", "8080")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("SESSION_SECRET", "session-secret")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_USER", "store")
	t.Setenv("DB_PASSWORD", "store")
	t.Setenv("DB_NAME", "store")
	t.Setenv("DB_SSLMODE", "disable")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)
	cfg := Load(zap.NewNop())
	if cfg.StockPolicy != "reject" {
		t.Fatalf("expected reject policy by default, got %q", cfg.StockPolicy)
	}
	if cfg.JWT.AccessExp != 24*time.Hour {
		t.Fatalf("unexpected access exp: %v", cfg.JWT.AccessExp)
	}
	if cfg.Redis.Enabled || cfg.Minio.Enabled || cfg.Cleanup.Enabled {
		t.Fatalf("optional integrations must be disabled by default")
	}
	if cfg.DB.DSN() == "" {
		t.Fatalf("expected dsn")
	}
}

func TestLoad_MissingRequiredPanics(t *testing.T) {
	setRequired(t)
	// t.Setenv восстановит значение после теста
	t.Setenv("APP_PORT", "")
	os.Unsetenv("APP_PORT")
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on missing APP_PORT")
		}
	}()
	Load(zap.NewNop())
}

func TestLoad_InvalidStockPolicyPanics(t *testing.T) {
	setRequired(t)
	t.Setenv("STOCK_POLICY", "oversell")
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on invalid STOCK_POLICY")
		}
	}()
	Load(zap.NewNop())
}
