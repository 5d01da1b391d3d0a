package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestIntFromEnv(t *testing.T) {
	key := "TEST_INT_ENV"

	t.Run("default", func(t *testing.T) {
		got, err := IntFromEnv(key, 42)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != 42 {
			t.Errorf("expected 42, got %d", got)
		}
	})

	t.Run("blank uses default", func(t *testing.T) {
		t.Setenv(key, "   ")
		got, err := IntFromEnv(key, 7)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != 7 {
			t.Errorf("expected 7, got %d", got)
		}
	})

	t.Run("valid", func(t *testing.T) {
		t.Setenv(key, " 100 ")
		got, err := IntFromEnv(key, 42)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != 100 {
			t.Errorf("expected 100, got %d", got)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		t.Setenv(key, "not_int")
		if _, err := IntFromEnv(key, 42); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

func TestBoolFromEnv(t *testing.T) {
	key := "TEST_BOOL_ENV"

	tests := []struct {
		val  string
		want bool
	}{
		{"true", true},
		{"1", true},
		{"YES", true},
		{"on", true},
		{"false", false},
		{"0", false},
		{"no", false},
		{"off", false},
	}

	for _, tt := range tests {
		t.Run(tt.val, func(t *testing.T) {
			t.Setenv(key, tt.val)
			got, err := BoolFromEnv(key, !tt.want)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}

	t.Run("invalid", func(t *testing.T) {
		t.Setenv(key, "maybe")
		if _, err := BoolFromEnv(key, false); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestDurationMillisFromEnv(t *testing.T) {
	key := "TEST_DURATION_MS"

	got, err := DurationMillisFromEnv(key, 1500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 1500*time.Millisecond {
		t.Errorf("expected 1.5s, got %v", got)
	}

	t.Setenv(key, "-1")
	if _, err := DurationMillisFromEnv(key, 0); err == nil {
		t.Fatal("expected error for negative duration")
	}
}

func TestStringFromEnvFirstNonEmpty(t *testing.T) {
	t.Setenv("TEST_FIRST_A", "")
	t.Setenv("TEST_FIRST_B", "second")

	got := StringFromEnvFirstNonEmpty([]string{"TEST_FIRST_MISSING", "TEST_FIRST_A", "TEST_FIRST_B"}, "fallback")
	if got != "second" {
		t.Errorf("expected second, got %q", got)
	}

	got = StringFromEnvFirstNonEmpty([]string{"TEST_FIRST_MISSING"}, "fallback")
	if got != "fallback" {
		t.Errorf("expected fallback, got %q", got)
	}
}

func TestIntFromEnvFirstNonEmpty_ReportsOffendingKey(t *testing.T) {
	t.Setenv("TEST_PORT_PRIMARY", "abc")

	_, err := IntFromEnvFirstNonEmpty([]string{"TEST_PORT_PRIMARY", "TEST_PORT_SECONDARY"}, 1)
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); !strings.Contains(got, "TEST_PORT_PRIMARY") {
		t.Errorf("error should name the key, got %q", got)
	}
}

func TestIsSet(t *testing.T) {
	if IsSet("TEST_IS_SET_NOPE") {
		t.Fatal("expected unset")
	}
	t.Setenv("TEST_IS_SET_YES", "x")
	if !IsSet("TEST_IS_SET_NOPE", "TEST_IS_SET_YES") {
		t.Fatal("expected set")
	}
}

func TestReadServerConfigFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "18080")
	t.Setenv("SERVER_HOST", "127.0.0.1")

	cfg, err := ReadServerConfigFromEnv(8080)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Addr() != "127.0.0.1:18080" {
		t.Errorf("unexpected addr: %s", cfg.Addr())
	}

	t.Setenv("SERVER_PORT", "70000")
	if _, err := ReadServerConfigFromEnv(8080); err == nil {
		t.Fatal("expected error for out-of-range port")
	}
}

func TestReadLogConfigFromEnv(t *testing.T) {
	t.Run("disabled without dir", func(t *testing.T) {
		t.Setenv("LOG_DIR", "")
		cfg, err := ReadLogConfigFromEnv()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Dir != "" {
			t.Errorf("expected empty dir, got %q", cfg.Dir)
		}
	})

	t.Run("rejects zero rotation", func(t *testing.T) {
		t.Setenv("LOG_DIR", t.TempDir())
		t.Setenv("LOG_MAX_BACKUPS", "0")
		if _, err := ReadLogConfigFromEnv(); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestReadStreamConfigFromEnv_Defaults(t *testing.T) {
	t.Setenv("MQ_BATCH_SIZE", "-3")

	cfg, err := ReadStreamConfigFromEnv(StreamConfigDefaults{
		StreamKey:     "stream",
		ConsumerGroup: "group",
		ConsumerName:  "consumer",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Enabled {
		t.Error("expected disabled by default")
	}
	if cfg.BatchSize != 10 {
		t.Errorf("expected batch size fallback 10, got %d", cfg.BatchSize)
	}
	if cfg.StreamKey != "stream" || cfg.ConsumerGroup != "group" || cfg.ConsumerName != "consumer" {
		t.Errorf("unexpected stream defaults: %+v", cfg)
	}
}

func TestLoadDotenvIfPresent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("TEST_DOTENV_VALUE=loaded\n"), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}
	t.Setenv("TEST_DOTENV_VALUE", "")
	os.Unsetenv("TEST_DOTENV_VALUE")

	if err := LoadDotenvIfPresent(filepath.Join(dir, "missing.env"), path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := os.Getenv("TEST_DOTENV_VALUE"); got != "loaded" {
		t.Errorf("expected loaded, got %q", got)
	}
}

func TestLoadDotenvIfPresent_EnvFileFirst(t *testing.T) {
	dir := t.TempDir()
	explicit := filepath.Join(dir, "kiosk.env")
	if err := os.WriteFile(explicit, []byte("TEST_DOTENV_ORDER=explicit\n"), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}
	t.Setenv("ENV_FILE", explicit)
	t.Setenv("TEST_DOTENV_ORDER", "")
	os.Unsetenv("TEST_DOTENV_ORDER")

	if err := LoadDotenvIfPresent(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := os.Getenv("TEST_DOTENV_ORDER"); got != "explicit" {
		t.Errorf("expected explicit, got %q", got)
	}
}
