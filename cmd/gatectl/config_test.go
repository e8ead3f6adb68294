package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danmuck/gatectl/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gatectl.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const minimalConfig = `
[llm]
model = "gpt-4o-mini"
api_key = "sk-test"

[targets]
market-predictor = "mp-container"
`

func TestLoadSettingsDefaultsAndOverrides(t *testing.T) {
	path := writeConfig(t, `
instance_id = "gateway.prod"
listen_addr = ":9090"
log_level = "debug"
auth_token = "topsecret"

[llm]
base_url = "http://localhost:1234/v1"
model = "qwen-7b"
api_key = "sk-test"
timeout = "5s"
max_tokens = 96
temperature = 0.2

[execution]
strategy = "local"
command_timeout = "15s"
max_output_length = 2048

[targets]
market-predictor = "mp-container"
coding-ai-agent = "coder-container"
`)

	cfg, err := loadSettings(path)
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if cfg.InstanceID != "gateway.prod" {
		t.Fatalf("unexpected instance id: %q", cfg.InstanceID)
	}
	if cfg.ListenAddr != ":9090" {
		t.Fatalf("unexpected listen addr: %q", cfg.ListenAddr)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("unexpected log level: %q", cfg.LogLevel)
	}
	if cfg.AuthToken != "topsecret" {
		t.Fatalf("unexpected auth token: %q", cfg.AuthToken)
	}
	if cfg.LLM.BaseURL != "http://localhost:1234/v1" || cfg.LLM.Model != "qwen-7b" {
		t.Fatalf("unexpected llm settings: %+v", cfg.LLM)
	}
	if cfg.LLM.Timeout != 5*time.Second || cfg.LLM.MaxTokens != 96 {
		t.Fatalf("unexpected llm bounds: %+v", cfg.LLM)
	}
	if cfg.Execution.CommandTimeout != 15*time.Second || cfg.Execution.MaxOutput != 2048 {
		t.Fatalf("unexpected execution settings: %+v", cfg.Execution)
	}
	if len(cfg.Targets) != 2 || cfg.Targets["coding-ai-agent"] != "coder-container" {
		t.Fatalf("unexpected targets: %+v", cfg.Targets)
	}
}

func TestLoadSettingsKeepsDefaultsForUnsetKeys(t *testing.T) {
	cfg, err := loadSettings(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if cfg.InstanceID != "gateway.local" {
		t.Fatalf("expected default instance id, got %q", cfg.InstanceID)
	}
	if cfg.Execution.Strategy != config.StrategyLocal {
		t.Fatalf("expected default local strategy, got %q", cfg.Execution.Strategy)
	}
	if cfg.Execution.CommandTimeout != 30*time.Second {
		t.Fatalf("expected default command timeout, got %v", cfg.Execution.CommandTimeout)
	}
	if cfg.LLM.Temperature != 0.1 || cfg.LLM.MaxTokens != 150 {
		t.Fatalf("expected default llm bounds, got %+v", cfg.LLM)
	}
}

func TestLoadSettingsSSHStrategyRequiresCredentials(t *testing.T) {
	path := writeConfig(t, minimalConfig+`
[execution]
strategy = "ssh"
`)
	if _, err := loadSettings(path); err == nil {
		t.Fatalf("expected startup failure for incomplete ssh config")
	}

	path = writeConfig(t, minimalConfig+`
[execution]
strategy = "ssh"

[ssh]
host = "docker-host"
user = "ops"
key_path = "/etc/gatectl/id_ed25519"
connect_timeout = "3s"
`)
	cfg, err := loadSettings(path)
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if cfg.SSH.ConnectTimeout != 3*time.Second {
		t.Fatalf("unexpected connect timeout: %v", cfg.SSH.ConnectTimeout)
	}
}

func TestLoadSettingsEnvOverridesSecrets(t *testing.T) {
	t.Setenv(EnvLLMAPIKey, "sk-from-env")
	t.Setenv(EnvAuthToken, "token-from-env")

	cfg, err := loadSettings(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if cfg.LLM.APIKey != "sk-from-env" {
		t.Fatalf("env api key override not applied: %q", cfg.LLM.APIKey)
	}
	if cfg.AuthToken != "token-from-env" {
		t.Fatalf("env auth token override not applied: %q", cfg.AuthToken)
	}
}

func TestLoadSettingsMissingFile(t *testing.T) {
	if _, err := loadSettings(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestLoadSettingsExampleConfig(t *testing.T) {
	cfg, err := loadSettings("ex.config.toml")
	if err != nil {
		t.Fatalf("example config must load: %v", err)
	}
	if len(cfg.Targets) != 3 {
		t.Fatalf("unexpected example targets: %+v", cfg.Targets)
	}
}
