// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PORT", "DATABASE_URL", "DATABASE_TYPE", "DATA_DIR", "ADMIN_KEY_SALT", "RATE_SCALE"} {
		t.Setenv(k, "")
	}
}

func TestParseFlags_EnvVars(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("DATA_DIR", "/srv/gva")
	t.Setenv("ADMIN_KEY_SALT", "test-salt")
	t.Setenv("RATE_SCALE", "1")

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseURL != "postgres://test" || cfg.DatabaseType != "postgres" {
		t.Errorf("unexpected database config: %s %s", cfg.DatabaseType, cfg.DatabaseURL)
	}
	if cfg.DataDir != "/srv/gva" {
		t.Errorf("expected data dir /srv/gva, got %s", cfg.DataDir)
	}
	if cfg.RateScale != 1 {
		t.Errorf("expected rate scale 1, got %v", cfg.RateScale)
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("ADMIN_KEY_SALT", "s")

	cfg, err := ParseFlags(nil)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != DefaultPort {
		t.Errorf("expected port %d, got %d", DefaultPort, cfg.Port)
	}
	if cfg.DatabaseURL != DefaultDatabaseURL || cfg.DatabaseType != "sqlite" {
		t.Errorf("unexpected database defaults: %s %s", cfg.DatabaseType, cfg.DatabaseURL)
	}
	if cfg.DataDir != DefaultDataDir {
		t.Errorf("expected data dir %s, got %s", DefaultDataDir, cfg.DataDir)
	}
	if cfg.RateScale != DefaultRateScale {
		t.Errorf("expected rate scale %d, got %v", DefaultRateScale, cfg.RateScale)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db", "-admin-salt", "s1", "-rate-scale", "1000", "-data", "fixtures"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.RateScale != 1000 {
		t.Errorf("expected rate scale 1000, got %v", cfg.RateScale)
	}
	if cfg.DataDir != "fixtures" {
		t.Errorf("expected data dir fixtures, got %s", cfg.DataDir)
	}
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"missing salt", nil, nil},
		{"bad port env", map[string]string{"PORT": "abc", "ADMIN_KEY_SALT": "s"}, nil},
		{"port out of range", map[string]string{"ADMIN_KEY_SALT": "s"}, []string{"-p", "70000"}},
		{"bad database type", map[string]string{"ADMIN_KEY_SALT": "s"}, []string{"-t", "mysql"}},
		{"bad rate scale env", map[string]string{"RATE_SCALE": "ten", "ADMIN_KEY_SALT": "s"}, nil},
		{"negative rate scale", map[string]string{"ADMIN_KEY_SALT": "s"}, []string{"-rate-scale", "-1"}},
		{"unknown flag", map[string]string{"ADMIN_KEY_SALT": "s"}, []string{"-bogus"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := ParseFlags(tt.args); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "7000")
	// godotenv only fills variables that are absent, not empty
	os.Unsetenv("ADMIN_KEY_SALT")

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("ADMIN_KEY_SALT=from-file\nPORT=1234\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv failed: %v", err)
	}

	cfg, err := ParseFlags(nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.AdminKeySalt != "from-file" {
		t.Errorf("expected salt from .env, got %q", cfg.AdminKeySalt)
	}
	// already-set variables are not overridden
	if cfg.Port != 7000 {
		t.Errorf("expected port 7000, got %d", cfg.Port)
	}
}
