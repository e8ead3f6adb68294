package gateway

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/danmuck/gatectl/internal/config"
	"github.com/danmuck/gatectl/internal/execution"
	"github.com/danmuck/gatectl/internal/policy"
)

type fakeSynth struct {
	command string
	err     error
	calls   int
}

func (f *fakeSynth) Synthesize(ctx context.Context, intent, containerName, extra string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return strings.ReplaceAll(f.command, "{container}", containerName), nil
}

type fakeStrategy struct {
	outcome execution.Outcome
	calls   int
	panics  bool
}

func (f *fakeStrategy) Name() string {
	return "fake"
}

func (f *fakeStrategy) Execute(ctx context.Context, command string, timeout time.Duration) execution.Outcome {
	f.calls++
	if f.panics {
		panic("strategy exploded")
	}
	return f.outcome
}

func testSettings() config.Settings {
	s := config.Defaults()
	s.LLM.Model = "gpt-4o-mini"
	s.LLM.APIKey = "test-key"
	s.Targets = map[string]string{"market-predictor": "mp-container"}
	return s
}

func checkInvariant(t *testing.T, resp Response) {
	t.Helper()
	hasExec := resp.ExecutionDetails != nil
	hasErr := resp.ErrorDetails != nil
	if hasExec == hasErr {
		t.Fatalf("response must carry exactly one of execution/error details: exec=%v err=%v", hasExec, hasErr)
	}
	if resp.RequestID == "" {
		t.Fatalf("missing request id")
	}
	if resp.TimestampProcessedUTC.IsZero() {
		t.Fatalf("missing processing timestamp")
	}
}

func request(target, intent string) Request {
	return Request{
		SourceID:       "devops-agent",
		TargetResource: TargetResource{Name: target},
		ActionRequest:  ActionRequest{Intent: intent},
	}
}

func TestProcessCompletedSuccess(t *testing.T) {
	t.Parallel()

	synth := &fakeSynth{command: "docker restart {container}"}
	strategy := &fakeStrategy{outcome: execution.Outcome{Status: execution.StatusSuccess, ExitCode: 0, Stdout: "mp-container\n"}}
	svc := NewService(testSettings(), policy.Default(), synth, strategy)

	resp := svc.Process(context.Background(), request("market-predictor", "restart the service"))
	checkInvariant(t, resp)
	if resp.OverallStatus != StatusCompletedSuccess {
		t.Fatalf("unexpected status: %s", resp.OverallStatus)
	}
	if resp.ExecutionDetails.Command != "docker restart mp-container" {
		t.Fatalf("unexpected command: %q", resp.ExecutionDetails.Command)
	}
	if resp.ExecutionDetails.ExecutionResult.ExitCode != 0 {
		t.Fatalf("unexpected exit code: %d", resp.ExecutionDetails.ExecutionResult.ExitCode)
	}
}

func TestProcessUnknownTarget(t *testing.T) {
	t.Parallel()

	synth := &fakeSynth{command: "docker restart {container}"}
	strategy := &fakeStrategy{}
	svc := NewService(testSettings(), policy.Default(), synth, strategy)

	resp := svc.Process(context.Background(), request("mystery-service", "restart the service"))
	checkInvariant(t, resp)
	if resp.OverallStatus != StatusValidationError {
		t.Fatalf("unexpected status: %s", resp.OverallStatus)
	}
	if resp.ErrorDetails.ErrorCode != CodeUnknownService {
		t.Fatalf("unexpected error code: %s", resp.ErrorDetails.ErrorCode)
	}
	if synth.calls != 0 {
		t.Fatalf("synthesis must not run for unknown targets")
	}
	if strategy.calls != 0 {
		t.Fatalf("execution must not run for unknown targets")
	}
}

func TestProcessSynthesisFailure(t *testing.T) {
	t.Parallel()

	synth := &fakeSynth{err: errors.New("provider timeout")}
	strategy := &fakeStrategy{}
	svc := NewService(testSettings(), policy.Default(), synth, strategy)

	resp := svc.Process(context.Background(), request("market-predictor", "restart the service"))
	checkInvariant(t, resp)
	if resp.OverallStatus != StatusSynthesisFailed {
		t.Fatalf("unexpected status: %s", resp.OverallStatus)
	}
	if resp.ErrorDetails.ErrorCode != CodeLLMError {
		t.Fatalf("unexpected error code: %s", resp.ErrorDetails.ErrorCode)
	}
	if synth.calls != 1 {
		t.Fatalf("synthesis must run exactly once, ran %d times", synth.calls)
	}
	if strategy.calls != 0 {
		t.Fatalf("execution must not run after failed synthesis")
	}
}

func TestProcessRejectedCommand(t *testing.T) {
	t.Parallel()

	synth := &fakeSynth{command: "rm -rf /"}
	strategy := &fakeStrategy{}
	svc := NewService(testSettings(), policy.Default(), synth, strategy)

	resp := svc.Process(context.Background(), request("market-predictor", "clean everything up"))
	checkInvariant(t, resp)
	if resp.OverallStatus != StatusValidationError {
		t.Fatalf("unexpected status: %s", resp.OverallStatus)
	}
	if resp.ErrorDetails.ErrorCode != CodeCommandRejected {
		t.Fatalf("unexpected error code: %s", resp.ErrorDetails.ErrorCode)
	}
	// Policy internals stay internal; the outward message is generic.
	if strings.Contains(resp.ErrorDetails.ErrorMessage, "rm") {
		t.Fatalf("rejection message leaks policy detail: %q", resp.ErrorDetails.ErrorMessage)
	}
	if strategy.calls != 0 {
		t.Fatalf("execution must not run for rejected commands")
	}
}

func TestProcessExecutionFailuresCollapse(t *testing.T) {
	t.Parallel()

	for _, status := range []execution.Status{
		execution.StatusFailure,
		execution.StatusTimeout,
		execution.StatusChannelError,
		execution.StatusExecutorError,
	} {
		synth := &fakeSynth{command: "docker restart {container}"}
		strategy := &fakeStrategy{outcome: execution.Outcome{Status: status, ExitCode: -1}}
		svc := NewService(testSettings(), policy.Default(), synth, strategy)

		resp := svc.Process(context.Background(), request("market-predictor", "restart the service"))
		checkInvariant(t, resp)
		if resp.OverallStatus != StatusCompletedFailure {
			t.Fatalf("status %s: expected COMPLETED_FAILURE, got %s", status, resp.OverallStatus)
		}
		if resp.ExecutionDetails.ExecutionResult.Status != status {
			t.Fatalf("nested outcome status lost: want %s, got %s", status, resp.ExecutionDetails.ExecutionResult.Status)
		}
	}
}

func TestProcessTimeoutScenario(t *testing.T) {
	t.Parallel()

	synth := &fakeSynth{command: "docker logs -f {container}"}
	strategy := &fakeStrategy{outcome: execution.Outcome{
		Status:   execution.StatusTimeout,
		ExitCode: -1,
		Stderr:   "command timed out after 30s",
	}}
	svc := NewService(testSettings(), policy.Default(), synth, strategy)

	resp := svc.Process(context.Background(), request("market-predictor", "follow the logs"))
	checkInvariant(t, resp)
	if resp.OverallStatus != StatusCompletedFailure {
		t.Fatalf("unexpected status: %s", resp.OverallStatus)
	}
	result := resp.ExecutionDetails.ExecutionResult
	if result.Status != execution.StatusTimeout || result.ExitCode != -1 {
		t.Fatalf("unexpected nested outcome: %+v", result)
	}
}

func TestProcessRecoversFromPanic(t *testing.T) {
	t.Parallel()

	synth := &fakeSynth{command: "docker restart {container}"}
	strategy := &fakeStrategy{panics: true}
	svc := NewService(testSettings(), policy.Default(), synth, strategy)

	resp := svc.Process(context.Background(), request("market-predictor", "restart the service"))
	checkInvariant(t, resp)
	if resp.OverallStatus != StatusInternalError {
		t.Fatalf("unexpected status: %s", resp.OverallStatus)
	}
	if resp.ErrorDetails.ErrorCode != CodeGatewayError {
		t.Fatalf("unexpected error code: %s", resp.ErrorDetails.ErrorCode)
	}
}

func TestNormalizePriority(t *testing.T) {
	t.Parallel()

	if got := normalizePriority(""); got != PriorityNormal {
		t.Fatalf("expected default NORMAL, got %q", got)
	}
	if got := normalizePriority("URGENT"); got != PriorityUrgent {
		t.Fatalf("expected URGENT, got %q", got)
	}
	if got := normalizePriority("whenever"); got != PriorityNormal {
		t.Fatalf("expected NORMAL for unknown tag, got %q", got)
	}
}
