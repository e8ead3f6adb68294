package execution

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"

	"github.com/rs/zerolog/log"
)

// Local runs commands through the host shell as child processes.
type Local struct {
	MaxOutput int
}

func (Local) Name() string {
	return "local"
}

func (l Local) Execute(ctx context.Context, command string, timeout time.Duration) Outcome {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, "sh", "-c", command)
	// Killing sh leaves any backgrounded child holding the output pipes;
	// WaitDelay bounds how long Wait blocks on them before abandoning.
	cmd.WaitDelay = time.Second
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if deadlineExpired(runCtx) {
		// Partial output captured before the deadline is discarded.
		log.Error().Str("command", command).Dur("timeout", timeout).Msg("local command timed out")
		return timeoutOutcome(timeout)
	}
	if err == nil {
		return outcomeForExit(0, stdout.String(), stderr.String(), l.MaxOutput)
	}
	if errors.Is(err, exec.ErrWaitDelay) {
		// The shell exited cleanly; only an orphan kept the pipes open.
		return outcomeForExit(0, stdout.String(), stderr.String(), l.MaxOutput)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return outcomeForExit(exitErr.ExitCode(), stdout.String(), stderr.String(), l.MaxOutput)
	}

	log.Error().Str("command", command).Err(err).Msg("local command spawn failed")
	return errorOutcome(StatusExecutorError, err)
}
