package execution

import (
	"fmt"

	"github.com/danmuck/gatectl/internal/config"
)

// NewStrategy resolves the configured backend once at process start.
func NewStrategy(settings config.Settings) (Strategy, error) {
	switch settings.Execution.Strategy {
	case config.StrategyLocal:
		return Local{MaxOutput: settings.Execution.MaxOutput}, nil
	case config.StrategySSH:
		return SSH{
			Host:                        settings.SSH.Host,
			Port:                        settings.SSH.Port,
			User:                        settings.SSH.User,
			KeyPath:                     settings.SSH.KeyPath,
			KnownHostsPath:              settings.SSH.KnownHostsPath,
			InsecureSkipHostKeyChecking: settings.SSH.InsecureSkipHostKeyChecking,
			ConnectTimeout:              settings.SSH.ConnectTimeout,
			MaxOutput:                   settings.Execution.MaxOutput,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownStrategy, settings.Execution.Strategy)
	}
}
