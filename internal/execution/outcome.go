package execution

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Status classifies one command execution.
type Status string

const (
	StatusSuccess       Status = "SUCCESS"
	StatusFailure       Status = "FAILURE"
	StatusTimeout       Status = "TIMEOUT"
	StatusChannelError  Status = "CHANNEL_ERROR"
	StatusExecutorError Status = "EXECUTOR_ERROR"
)

// Outcome is the deterministic result shape returned by every strategy.
type Outcome struct {
	Status   Status `json:"status"`
	ExitCode int    `json:"exit_code"`
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
}

// Strategy executes one validated command within a timeout.
type Strategy interface {
	Name() string
	Execute(ctx context.Context, command string, timeout time.Duration) Outcome
}

func outcomeForExit(exitCode int, stdout, stderr string, maxOutput int) Outcome {
	status := StatusSuccess
	if exitCode != 0 {
		status = StatusFailure
	}
	return Outcome{
		Status:   status,
		ExitCode: exitCode,
		Stdout:   Truncate(stdout, maxOutput),
		Stderr:   Truncate(stderr, maxOutput),
	}
}

func timeoutOutcome(timeout time.Duration) Outcome {
	return Outcome{
		Status:   StatusTimeout,
		ExitCode: -1,
		Stderr:   fmt.Sprintf("command timed out after %s", timeout),
	}
}

func errorOutcome(status Status, err error) Outcome {
	return Outcome{
		Status:   status,
		ExitCode: -1,
		Stderr:   err.Error(),
	}
}

func deadlineExpired(ctx context.Context) bool {
	return ctx.Err() == context.DeadlineExceeded
}

const truncateMarkerPrefix = "\n\n[OUTPUT TRUNCATED - "

// Truncate bounds output text at max bytes, annotating the cut with the
// original length. The cut never splits a multi-byte rune, so the bounded
// prefix stays valid UTF-8. Truncating an already-annotated string at the
// same limit is a no-op, so the operation is idempotent.
func Truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	// A prior pass leaves a prefix of at most max bytes followed by the
	// annotation; pass such strings through unchanged.
	if idx := strings.Index(s, truncateMarkerPrefix); idx >= 0 && idx <= max &&
		strings.HasSuffix(s, fmt.Sprintf("showing first %d]", idx)) {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return fmt.Sprintf("%s%s%d total characters, showing first %d]", s[:cut], truncateMarkerPrefix, len(s), cut)
}
