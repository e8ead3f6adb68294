package main

import (
	"fmt"
	"os"

	"github.com/danmuck/gatectl/internal/execution"
	"github.com/danmuck/gatectl/internal/gateway"
	"github.com/danmuck/gatectl/internal/observability"
	"github.com/danmuck/gatectl/internal/policy"
	"github.com/danmuck/gatectl/internal/synth"
)

func main() {
	path := "gatectl.toml"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	if err := run(path); err != nil {
		fmt.Fprintf(os.Stderr, "gatectl: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	settings, err := loadSettings(configPath)
	if err != nil {
		return err
	}

	logger := observability.InitLogger(settings.InstanceID, settings.LogLevel)

	pol := policy.Default()
	if settings.PolicyFile != "" {
		pol, err = policy.LoadFile(settings.PolicyFile)
		if err != nil {
			return err
		}
	}

	strategy, err := execution.NewStrategy(settings)
	if err != nil {
		return err
	}

	synthesizer := synth.New(settings.LLM)
	service := gateway.NewService(settings, pol, synthesizer, strategy)
	server := gateway.NewServer(settings, service)

	logger.Info().
		Str("strategy", strategy.Name()).
		Int("targets", len(settings.Targets)).
		Str("model", settings.LLM.Model).
		Msg("gateway configured")

	return server.Serve()
}
