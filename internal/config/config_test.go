package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvDataDir, EnvDBPath, EnvLogLevel, EnvLogFile, EnvReminderInterval, EnvPageSize} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
}

func TestLoadPrecedence(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
data_dir: /from/file
log_level: debug
reminder_interval: 30s
page_size: 5
`)

	t.Run("file over defaults", func(t *testing.T) {
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		want := Config{DataDir: "/from/file", LogLevel: "debug", ReminderInterval: 30 * time.Second, PageSize: 5}
		if cfg != want {
			t.Errorf("Load() = %+v, want %+v", cfg, want)
		}
	})

	t.Run("env over file", func(t *testing.T) {
		t.Setenv(EnvDataDir, "/from/env")
		t.Setenv(EnvPageSize, "20")
		t.Setenv(EnvReminderInterval, "2m")
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.DataDir != "/from/env" || cfg.PageSize != 20 || cfg.ReminderInterval != 2*time.Minute {
			t.Errorf("Load() = %+v", cfg)
		}
		if cfg.LogLevel != "debug" {
			t.Errorf("LogLevel = %q, want file value", cfg.LogLevel)
		}
	})
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("explicit missing file should fail")
	}
	if _, err := Load(writeConfig(t, "page_size: [1, 2]")); err == nil {
		t.Error("malformed file should fail")
	}

	t.Setenv(EnvPageSize, "many")
	if _, err := Load(writeConfig(t, "")); err == nil {
		t.Error("bad page size should fail")
	}
}

func TestResolve(t *testing.T) {
	cfg := Config{DataDir: "/data", PageSize: -1}
	if err := cfg.Resolve(); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	want := Config{
		DataDir:          "/data",
		DBPath:           "/data/socialdebt.db",
		LogFile:          "/data/socialdebt.log",
		ReminderInterval: time.Minute,
		PageSize:         10,
	}
	if cfg != want {
		t.Errorf("Resolve() = %+v, want %+v", cfg, want)
	}

	t.Setenv("XDG_DATA_HOME", "/xdg")
	cfg = Config{DBPath: "/custom.db"}
	cfg.Resolve()
	if cfg.DataDir != "/xdg/socialdebt" || cfg.DBPath != "/custom.db" {
		t.Errorf("Resolve() = %+v", cfg)
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("SOCIALDEBT_PAGE_SIZE=7\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvPageSize, "")
	os.Unsetenv(EnvPageSize)

	LoadDotEnv(path)
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.PageSize != 7 {
		t.Errorf("PageSize = %d, want 7 from .env", cfg.PageSize)
	}

	LoadDotEnv(filepath.Join(t.TempDir(), "absent.env"))
}
