package execution

import (
	"errors"
	"testing"

	"github.com/danmuck/gatectl/internal/config"
)

func TestNewStrategyLocal(t *testing.T) {
	t.Parallel()

	s := config.Defaults()
	s.Execution.MaxOutput = 4096
	strategy, err := NewStrategy(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	local, ok := strategy.(Local)
	if !ok {
		t.Fatalf("expected Local strategy, got %T", strategy)
	}
	if local.MaxOutput != 4096 {
		t.Fatalf("max output not propagated: %d", local.MaxOutput)
	}
	if strategy.Name() != "local" {
		t.Fatalf("unexpected name: %q", strategy.Name())
	}
}

func TestNewStrategySSH(t *testing.T) {
	t.Parallel()

	s := config.Defaults()
	s.Execution.Strategy = config.StrategySSH
	s.SSH.Host = "docker-host"
	s.SSH.User = "ops"
	s.SSH.KeyPath = "/etc/gatectl/id_ed25519"
	strategy, err := NewStrategy(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	remote, ok := strategy.(SSH)
	if !ok {
		t.Fatalf("expected SSH strategy, got %T", strategy)
	}
	if remote.Host != "docker-host" || remote.User != "ops" {
		t.Fatalf("ssh settings not propagated: %+v", remote)
	}
	if strategy.Name() != "ssh" {
		t.Fatalf("unexpected name: %q", strategy.Name())
	}
}

func TestNewStrategyUnknown(t *testing.T) {
	t.Parallel()

	s := config.Defaults()
	s.Execution.Strategy = "teleport"
	if _, err := NewStrategy(s); !errors.Is(err, config.ErrUnknownStrategy) {
		t.Fatalf("expected ErrUnknownStrategy, got %v", err)
	}
}
