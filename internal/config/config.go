// Package config owns the gateway settings snapshot.
//
// Ownership boundary:
// - settings shape and defaults
// - startup validation
// - logical target name resolution
//
// Settings are read once at process start and never mutated afterwards.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrUnknownStrategy = errors.New("config: unknown execution strategy")
	ErrUnknownTarget   = errors.New("config: unknown logical target name")
)

// Execution strategy selectors, fixed for the process lifetime.
const (
	StrategyLocal = "local"
	StrategySSH   = "ssh"
)

// DefaultSystemPrompt instructs the model to answer with a bare docker
// CLI command and nothing else.
const DefaultSystemPrompt = "You are an expert assistant that translates user intents for managing services " +
	"into precise Docker CLI commands. The user will provide an intent and a target " +
	"Docker container name. Respond ONLY with the Docker CLI command string. " +
	"Do not add any explanation or conversational fluff."

// LLMSettings configures the command synthesis provider.
type LLMSettings struct {
	BaseURL      string
	Model        string
	APIKey       string
	SystemPrompt string
	Timeout      time.Duration
	MaxTokens    int
	Temperature  float32
}

// ExecutionSettings configures the execution backend and its bounds.
type ExecutionSettings struct {
	Strategy       string
	CommandTimeout time.Duration
	MaxOutput      int
}

// SSHSettings configures the remote channel; required only for ssh strategy.
type SSHSettings struct {
	Host                        string
	Port                        string
	User                        string
	KeyPath                     string
	KnownHostsPath              string
	InsecureSkipHostKeyChecking bool
	ConnectTimeout              time.Duration
}

// Settings is the immutable process-wide configuration snapshot.
type Settings struct {
	InstanceID  string
	ListenAddr  string
	LogLevel    string
	CorsOrigins []string
	AuthToken   string
	PolicyFile  string
	LLM         LLMSettings
	Execution   ExecutionSettings
	SSH         SSHSettings
	Targets     map[string]string
}

// Defaults returns settings with every optional knob at its default.
func Defaults() Settings {
	return Settings{
		InstanceID: "gateway.local",
		ListenAddr: ":8080",
		LogLevel:   "info",
		LLM: LLMSettings{
			BaseURL:      "https://api.openai.com/v1",
			SystemPrompt: DefaultSystemPrompt,
			Timeout:      10 * time.Second,
			MaxTokens:    150,
			Temperature:  0.1,
		},
		Execution: ExecutionSettings{
			Strategy:       StrategyLocal,
			CommandTimeout: 30 * time.Second,
			MaxOutput:      10000,
		},
		SSH: SSHSettings{
			ConnectTimeout: 10 * time.Second,
		},
		Targets: map[string]string{},
	}
}

// Validate rejects settings the process must not start with.
func (s Settings) Validate() error {
	if strings.TrimSpace(s.InstanceID) == "" {
		return fmt.Errorf("config: instance id is required")
	}
	if strings.TrimSpace(s.ListenAddr) == "" {
		return fmt.Errorf("config: listen addr is required")
	}
	if strings.TrimSpace(s.LLM.Model) == "" {
		return fmt.Errorf("config: llm model is required")
	}
	if strings.TrimSpace(s.LLM.APIKey) == "" {
		return fmt.Errorf("config: llm api key is required")
	}
	if s.LLM.Timeout <= 0 {
		return fmt.Errorf("config: llm timeout must be positive")
	}
	if s.Execution.CommandTimeout <= 0 {
		return fmt.Errorf("config: command timeout must be positive")
	}
	if len(s.Targets) == 0 {
		return fmt.Errorf("config: at least one target mapping is required")
	}

	switch s.Execution.Strategy {
	case StrategyLocal:
	case StrategySSH:
		if strings.TrimSpace(s.SSH.Host) == "" {
			return fmt.Errorf("config: ssh host is required for ssh strategy")
		}
		if strings.TrimSpace(s.SSH.User) == "" {
			return fmt.Errorf("config: ssh user is required for ssh strategy")
		}
		if strings.TrimSpace(s.SSH.KeyPath) == "" {
			return fmt.Errorf("config: ssh key path is required for ssh strategy")
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStrategy, s.Execution.Strategy)
	}

	return nil
}

// ResolveTarget maps a logical service name to its container name.
// Unknown names fail closed; there is no default target.
func (s Settings) ResolveTarget(logicalName string) (string, error) {
	name, ok := s.Targets[logicalName]
	if !ok || strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("%w: %q", ErrUnknownTarget, logicalName)
	}
	return name, nil
}
