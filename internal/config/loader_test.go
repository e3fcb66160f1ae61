package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Server.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Auth.Token != "" {
		t.Errorf("expected empty default auth token, got %s", cfg.Auth.Token)
	}
	if cfg.Task.TTL != time.Hour {
		t.Errorf("expected task TTL 1h, got %v", cfg.Task.TTL)
	}
	if cfg.Semantic.Timeout != 15*time.Second {
		t.Errorf("expected semantic timeout 15s, got %v", cfg.Semantic.Timeout)
	}
	if cfg.Breaker.Timeout != 30*time.Second {
		t.Errorf("expected breaker timeout 30s, got %v", cfg.Breaker.Timeout)
	}
}

func TestLoadYAMLOverride(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "test.yaml")

	content := `
server:
  port: "9090"
  public_url: "https://relay.example.com"
auth:
  token: "file-token"
semantic:
  enabled: true
  responder_url: "http://responder:9000/answer"
logging:
  level: "debug"
`
	if err := os.WriteFile(yamlPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Defaults()
	if err := loadYAML(&cfg, yamlPath); err != nil {
		t.Fatal(err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Server.PublicURL != "https://relay.example.com" {
		t.Errorf("expected public URL override, got %s", cfg.Server.PublicURL)
	}
	if cfg.Auth.Token != "file-token" {
		t.Errorf("expected file-token, got %s", cfg.Auth.Token)
	}
	if !cfg.Semantic.Enabled {
		t.Error("expected semantic mode enabled")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Logging.Level)
	}
	// Unchanged fields keep defaults
	if cfg.Semantic.Timeout != 15*time.Second {
		t.Errorf("expected default semantic timeout, got %v", cfg.Semantic.Timeout)
	}
}

func TestLoadYAMLMissing(t *testing.T) {
	cfg := Defaults()
	err := loadYAML(&cfg, "/nonexistent/path.yaml")
	if err != nil {
		t.Errorf("missing YAML should not error, got %v", err)
	}
}

func TestEnvOverride(t *testing.T) {
	cfg := Defaults()

	t.Setenv("AGENTRELAY_PORT", "7070")
	t.Setenv("AGENTRELAY_AUTH_TOKEN", "env-token")
	t.Setenv("AGENTRELAY_SEMANTIC_MODE", "true")
	t.Setenv("AGENTRELAY_SEMANTIC_TIMEOUT", "3s")
	t.Setenv("AGENTRELAY_TASK_TTL", "30m")
	t.Setenv("AGENTRELAY_LOG_LEVEL", "warn")

	loadEnv(&cfg)

	if cfg.Server.Port != "7070" {
		t.Errorf("expected port 7070, got %s", cfg.Server.Port)
	}
	if cfg.Auth.Token != "env-token" {
		t.Errorf("expected env-token, got %s", cfg.Auth.Token)
	}
	if !cfg.Semantic.Enabled {
		t.Error("expected semantic mode enabled")
	}
	if cfg.Semantic.Timeout != 3*time.Second {
		t.Errorf("expected semantic timeout 3s, got %v", cfg.Semantic.Timeout)
	}
	if cfg.Task.TTL != 30*time.Minute {
		t.Errorf("expected task TTL 30m, got %v", cfg.Task.TTL)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected log level warn, got %s", cfg.Logging.Level)
	}
}

func TestValidateMissingToken(t *testing.T) {
	cfg := Defaults()
	if err := validate(&cfg); err == nil {
		t.Fatal("expected validation failure without auth token")
	}

	cfg.Auth.Token = "secret"
	if err := validate(&cfg); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestLoadFromValidates(t *testing.T) {
	if _, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error: no auth token configured anywhere")
	}

	t.Setenv("AGENTRELAY_AUTH_TOKEN", "secret")
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Auth.Token != "secret" {
		t.Errorf("expected secret, got %s", cfg.Auth.Token)
	}
}
