package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeGlobalConfig(t *testing.T, content string) {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)
	dir := filepath.Join(tmp, GlobalConfigDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, GlobalConfigFile), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	ResetGlobalConfigCache()
	t.Cleanup(ResetGlobalConfigCache)
}

func TestLoadGlobalConfigMissingFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	ResetGlobalConfigCache()
	t.Cleanup(ResetGlobalConfigCache)

	cfg, err := LoadGlobalConfig()
	if err != nil {
		t.Fatalf("LoadGlobalConfig() error = %v", err)
	}
	if *cfg != (GlobalConfig{}) {
		t.Errorf("missing file should yield empty config, got %+v", cfg)
	}
}

func TestLoadGlobalConfig(t *testing.T) {
	writeGlobalConfig(t, `
api_key: sk-test
model: gpt-4o
separator: "--"
dedup_policy: fields
`)

	cfg, err := LoadGlobalConfig()
	if err != nil {
		t.Fatalf("LoadGlobalConfig() error = %v", err)
	}
	if cfg.APIKey != "sk-test" {
		t.Errorf("APIKey = %q, want sk-test", cfg.APIKey)
	}
	if cfg.Model != "gpt-4o" {
		t.Errorf("Model = %q, want gpt-4o", cfg.Model)
	}
	if cfg.Separator != "--" {
		t.Errorf("Separator = %q, want --", cfg.Separator)
	}
	if cfg.DedupPolicy != "fields" {
		t.Errorf("DedupPolicy = %q, want fields", cfg.DedupPolicy)
	}
}

func TestLoadGlobalConfigInvalidYAML(t *testing.T) {
	writeGlobalConfig(t, "api_key: [unclosed")

	if _, err := LoadGlobalConfig(); err == nil {
		t.Error("LoadGlobalConfig() should fail on invalid YAML")
	}
}

func TestResolveAPIKeyEnvOverridesConfig(t *testing.T) {
	writeGlobalConfig(t, "api_key: from-file")
	t.Setenv(APIKeyEnv, "from-env")
	t.Setenv("OPENAI_API_KEY", "")

	key, err := ResolveAPIKey()
	if err != nil {
		t.Fatalf("ResolveAPIKey() error = %v", err)
	}
	if key != "from-env" {
		t.Errorf("key = %q, want from-env", key)
	}
}

func TestResolveAPIKeyFromConfig(t *testing.T) {
	writeGlobalConfig(t, "api_key: from-file")
	t.Setenv(APIKeyEnv, "")
	t.Setenv("OPENAI_API_KEY", "")

	key, err := ResolveAPIKey()
	if err != nil {
		t.Fatalf("ResolveAPIKey() error = %v", err)
	}
	if key != "from-file" {
		t.Errorf("key = %q, want from-file", key)
	}
}

func TestResolveAPIKeyMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(APIKeyEnv, "")
	t.Setenv("OPENAI_API_KEY", "")
	ResetGlobalConfigCache()
	t.Cleanup(ResetGlobalConfigCache)

	_, err := ResolveAPIKey()
	if !errors.Is(err, ErrAPIKeyMissing) {
		t.Errorf("ResolveAPIKey() error = %v, want ErrAPIKeyMissing", err)
	}
}
