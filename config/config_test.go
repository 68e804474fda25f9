package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"INV_APP_NAME", "INV_BACKEND", "INV_LISTEN_ADDR", "INV_SESSION_KEY",
		"INV_DATA_DIR", "INV_PRODUCTS_FILE", "INV_SQLITE_PATH",
		"SUPABASE_URL", "SUPABASE_KEY",
	} {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)

	if err := LoadConfig("", ""); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if AppConfig.Backend != "csv" {
		t.Errorf("Expected default backend 'csv', got '%s'", AppConfig.Backend)
	}
	if AppConfig.ListenAddr != ":8080" {
		t.Errorf("Expected default listen addr ':8080', got '%s'", AppConfig.ListenAddr)
	}
	if AppConfig.DataDir != "db" {
		t.Errorf("Expected default data dir 'db', got '%s'", AppConfig.DataDir)
	}
	if AppConfig.SessionKey == "" {
		t.Error("Expected a generated session key, got empty")
	}
}

func TestLoadConfigLayerOrder(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	secrets := writeFile(t, dir, "secrets.env", "INV_APP_NAME=FromSecrets\n")
	local := writeFile(t, dir, "config.env", "INV_APP_NAME=FromConfig\nINV_LISTEN_ADDR=:9999\n")
	t.Setenv("INV_APP_NAME", "FromEnv")

	// Secrets win over the config file and the environment
	if err := LoadConfig(secrets, local); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if AppConfig.AppName != "FromSecrets" {
		t.Errorf("Expected 'FromSecrets', got '%s'", AppConfig.AppName)
	}
	if AppConfig.ListenAddr != ":9999" {
		t.Errorf("Expected config file addr ':9999', got '%s'", AppConfig.ListenAddr)
	}

	// Without secrets the config file wins
	if err := LoadConfig("", local); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if AppConfig.AppName != "FromConfig" {
		t.Errorf("Expected 'FromConfig', got '%s'", AppConfig.AppName)
	}

	// Without files the environment wins
	if err := LoadConfig("", ""); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if AppConfig.AppName != "FromEnv" {
		t.Errorf("Expected 'FromEnv', got '%s'", AppConfig.AppName)
	}
}

func TestLoadConfigMissingFilesAreOptional(t *testing.T) {
	clearEnv(t)

	if err := LoadConfig("no-such-secrets.env", "no-such-config.env"); err != nil {
		t.Errorf("LoadConfig with missing optional files should not fail: %v", err)
	}
}

func TestLoadConfigSupabaseRequiresCredentials(t *testing.T) {
	clearEnv(t)
	t.Setenv("INV_BACKEND", "supabase")

	if err := LoadConfig("", ""); err == nil {
		t.Error("LoadConfig should fail when the supabase backend has no URL/key")
	}

	t.Setenv("SUPABASE_URL", "https://example.supabase.co")
	t.Setenv("SUPABASE_KEY", "service-key")
	if err := LoadConfig("", ""); err != nil {
		t.Fatalf("LoadConfig failed with credentials set: %v", err)
	}
	if AppConfig.SupabaseURL != "https://example.supabase.co" {
		t.Errorf("SupabaseURL not resolved, got '%s'", AppConfig.SupabaseURL)
	}
}

func TestLoadConfigUnknownBackend(t *testing.T) {
	clearEnv(t)
	t.Setenv("INV_BACKEND", "oracle")

	if err := LoadConfig("", ""); err == nil {
		t.Error("LoadConfig with an unknown backend should have failed")
	}
}
