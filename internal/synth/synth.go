package synth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/danmuck/gatectl/internal/config"
	"github.com/rs/zerolog/log"
)

// commandExamples are the fixed few-shot pairs appended to the system
// prompt. They anchor the model to bare docker CLI responses.
const commandExamples = `
Intent: "restart the service"
Container: "my-app"
Response: docker restart my-app

Intent: "get the last 50 lines of logs"
Container: "my-app"
Response: docker logs --tail 50 my-app

Intent: "check if the container is running"
Container: "my-app"
Response: docker ps --filter name=my-app

Intent: "execute df -h command inside the container"
Container: "my-app"
Response: docker exec my-app df -h

Intent: "stop the service"
Container: "my-app"
Response: docker stop my-app

Intent: "start the service"
Container: "my-app"
Response: docker start my-app

Intent: "get real-time logs"
Container: "my-app"
Response: docker logs -f my-app

Intent: "check container resource usage"
Container: "my-app"
Response: docker stats --no-stream my-app

Intent: "inspect the container configuration"
Container: "my-app"
Response: docker inspect my-app

Intent: "get container processes"
Container: "my-app"
Response: docker exec my-app ps aux
`

// Synthesizer turns a natural-language intent into one candidate docker
// command via a single bounded provider call.
type Synthesizer struct {
	client       Client
	model        string
	systemPrompt string
	temperature  float32
	maxTokens    int
	timeout      time.Duration
}

// New builds a synthesizer backed by the HTTP chat client.
func New(cfg config.LLMSettings) *Synthesizer {
	return NewWithClient(NewHTTPClient(cfg.BaseURL, cfg.APIKey, cfg.Timeout), cfg)
}

// NewWithClient builds a synthesizer over an explicit client handle.
func NewWithClient(client Client, cfg config.LLMSettings) *Synthesizer {
	prompt := cfg.SystemPrompt
	if strings.TrimSpace(prompt) == "" {
		prompt = config.DefaultSystemPrompt
	}
	return &Synthesizer{
		client:       client,
		model:        cfg.Model,
		systemPrompt: prompt,
		temperature:  cfg.Temperature,
		maxTokens:    cfg.MaxTokens,
		timeout:      cfg.Timeout,
	}
}

// Synthesize produces a trimmed candidate command for the intent and
// resolved container name. Provider failures surface as errors and are
// never retried at this layer.
func (s *Synthesizer) Synthesize(ctx context.Context, intent, containerName, extra string) (string, error) {
	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	content, err := s.client.Chat(callCtx, ChatRequest{
		Model:       s.model,
		Messages:    s.buildMessages(intent, containerName, extra),
		Temperature: s.temperature,
		MaxTokens:   s.maxTokens,
	})
	if err != nil {
		log.Error().Str("intent", intent).Str("container", containerName).Err(err).Msg("command synthesis failed")
		return "", fmt.Errorf("synthesize command: %w", err)
	}

	command := strings.TrimSpace(content)
	if command == "" {
		return "", fmt.Errorf("synthesize command: provider returned empty completion")
	}

	log.Info().Str("intent", intent).Str("container", containerName).Str("command", command).Msg("command synthesized")
	return command, nil
}

func (s *Synthesizer) buildMessages(intent, containerName, extra string) []Message {
	var user strings.Builder
	fmt.Fprintf(&user, "Intent: %s\nContainer: %s", intent, containerName)
	if strings.TrimSpace(extra) != "" {
		fmt.Fprintf(&user, "\nContext: %s", extra)
	}

	return []Message{
		{Role: "system", Content: s.systemPrompt + "\n\nExamples:\n" + commandExamples},
		{Role: "user", Content: user.String()},
	}
}
