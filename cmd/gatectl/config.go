package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/gatectl/internal/config"
)

const (
	EnvLLMAPIKey = "GATECTL_LLM_API_KEY"
	EnvAuthToken = "GATECTL_AUTH_TOKEN"
)

type fileLLM struct {
	BaseURL      string  `toml:"base_url"`
	Model        string  `toml:"model"`
	APIKey       string  `toml:"api_key"`
	SystemPrompt string  `toml:"system_prompt"`
	Timeout      string  `toml:"timeout"`
	MaxTokens    int     `toml:"max_tokens"`
	Temperature  float32 `toml:"temperature"`
}

type fileExecution struct {
	Strategy        string `toml:"strategy"`
	CommandTimeout  string `toml:"command_timeout"`
	MaxOutputLength int    `toml:"max_output_length"`
}

type fileSSH struct {
	Host                        string `toml:"host"`
	Port                        string `toml:"port"`
	User                        string `toml:"user"`
	KeyPath                     string `toml:"key_path"`
	KnownHosts                  string `toml:"known_hosts"`
	InsecureSkipHostKeyChecking bool   `toml:"insecure_skip_host_key_checking"`
	ConnectTimeout              string `toml:"connect_timeout"`
}

type fileConfig struct {
	InstanceID  string            `toml:"instance_id"`
	ListenAddr  string            `toml:"listen_addr"`
	LogLevel    string            `toml:"log_level"`
	CorsOrigins []string          `toml:"cors_origins"`
	AuthToken   string            `toml:"auth_token"`
	PolicyFile  string            `toml:"policy_file"`
	LLM         fileLLM           `toml:"llm"`
	Execution   fileExecution     `toml:"execution"`
	SSH         fileSSH           `toml:"ssh"`
	Targets     map[string]string `toml:"targets"`
}

func loadSettings(path string) (config.Settings, error) {
	cfg := config.Defaults()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config.Settings{}, fmt.Errorf("load gateway config: %w", err)
	}

	if meta.IsDefined("instance_id") {
		if id := strings.TrimSpace(raw.InstanceID); id != "" {
			cfg.InstanceID = id
		}
	}
	if meta.IsDefined("listen_addr") {
		cfg.ListenAddr = strings.TrimSpace(raw.ListenAddr)
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("cors_origins") {
		cfg.CorsOrigins = raw.CorsOrigins
	}
	if meta.IsDefined("auth_token") {
		cfg.AuthToken = raw.AuthToken
	}
	if meta.IsDefined("policy_file") {
		cfg.PolicyFile = strings.TrimSpace(raw.PolicyFile)
	}

	if meta.IsDefined("llm", "base_url") {
		cfg.LLM.BaseURL = strings.TrimSpace(raw.LLM.BaseURL)
	}
	if meta.IsDefined("llm", "model") {
		cfg.LLM.Model = strings.TrimSpace(raw.LLM.Model)
	}
	if meta.IsDefined("llm", "api_key") {
		cfg.LLM.APIKey = raw.LLM.APIKey
	}
	if meta.IsDefined("llm", "system_prompt") {
		cfg.LLM.SystemPrompt = raw.LLM.SystemPrompt
	}
	if meta.IsDefined("llm", "timeout") {
		d, err := parseDuration(raw.LLM.Timeout)
		if err != nil {
			return config.Settings{}, fmt.Errorf("parse llm timeout: %w", err)
		}
		cfg.LLM.Timeout = d
	}
	if meta.IsDefined("llm", "max_tokens") {
		cfg.LLM.MaxTokens = raw.LLM.MaxTokens
	}
	if meta.IsDefined("llm", "temperature") {
		cfg.LLM.Temperature = raw.LLM.Temperature
	}

	if meta.IsDefined("execution", "strategy") {
		cfg.Execution.Strategy = strings.TrimSpace(raw.Execution.Strategy)
	}
	if meta.IsDefined("execution", "command_timeout") {
		d, err := parseDuration(raw.Execution.CommandTimeout)
		if err != nil {
			return config.Settings{}, fmt.Errorf("parse command timeout: %w", err)
		}
		cfg.Execution.CommandTimeout = d
	}
	if meta.IsDefined("execution", "max_output_length") {
		cfg.Execution.MaxOutput = raw.Execution.MaxOutputLength
	}

	if meta.IsDefined("ssh", "host") {
		cfg.SSH.Host = strings.TrimSpace(raw.SSH.Host)
	}
	if meta.IsDefined("ssh", "port") {
		cfg.SSH.Port = strings.TrimSpace(raw.SSH.Port)
	}
	if meta.IsDefined("ssh", "user") {
		cfg.SSH.User = strings.TrimSpace(raw.SSH.User)
	}
	if meta.IsDefined("ssh", "key_path") {
		cfg.SSH.KeyPath = strings.TrimSpace(raw.SSH.KeyPath)
	}
	if meta.IsDefined("ssh", "known_hosts") {
		cfg.SSH.KnownHostsPath = strings.TrimSpace(raw.SSH.KnownHosts)
	}
	if meta.IsDefined("ssh", "insecure_skip_host_key_checking") {
		cfg.SSH.InsecureSkipHostKeyChecking = raw.SSH.InsecureSkipHostKeyChecking
	}
	if meta.IsDefined("ssh", "connect_timeout") {
		d, err := parseDuration(raw.SSH.ConnectTimeout)
		if err != nil {
			return config.Settings{}, fmt.Errorf("parse ssh connect timeout: %w", err)
		}
		cfg.SSH.ConnectTimeout = d
	}

	if meta.IsDefined("targets") {
		cfg.Targets = normalizeTargets(raw.Targets)
	}

	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return config.Settings{}, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *config.Settings) {
	if key := os.Getenv(EnvLLMAPIKey); key != "" {
		cfg.LLM.APIKey = key
	}
	if token := os.Getenv(EnvAuthToken); token != "" {
		cfg.AuthToken = token
	}
}

func parseDuration(raw string) (time.Duration, error) {
	return time.ParseDuration(strings.TrimSpace(raw))
}

func normalizeTargets(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for logical, actual := range in {
		logical = strings.TrimSpace(logical)
		actual = strings.TrimSpace(actual)
		if logical == "" || actual == "" {
			continue
		}
		out[logical] = actual
	}
	return out
}
