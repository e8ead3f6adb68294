package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/danmuck/gatectl/internal/config"
	"github.com/danmuck/gatectl/internal/execution"
	"github.com/danmuck/gatectl/internal/observability"
	"github.com/danmuck/gatectl/internal/policy"
	"github.com/rs/zerolog/log"
)

// Synthesizer produces one candidate command for an intent.
type Synthesizer interface {
	Synthesize(ctx context.Context, intent, containerName, extra string) (string, error)
}

// Service sequences the gateway pipeline. It holds no per-request state;
// its collaborator handles are read-only after construction.
type Service struct {
	settings config.Settings
	policy   policy.Policy
	synth    Synthesizer
	strategy execution.Strategy
}

func NewService(settings config.Settings, pol policy.Policy, synth Synthesizer, strategy execution.Strategy) *Service {
	return &Service{
		settings: settings,
		policy:   pol,
		synth:    synth,
		strategy: strategy,
	}
}

// Process runs the pipeline exactly once for one request. Any panic below
// this frame terminates the request, never the process.
func (s *Service) Process(ctx context.Context, req Request) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("source_id", req.SourceID).Any("panic", r).Msg("gateway pipeline panicked")
			resp = errorResponse(StatusInternalError, CodeGatewayError, fmt.Sprintf("internal gateway error: %v", r))
		}
	}()

	priority := normalizePriority(req.ActionRequest.Priority)
	log.Info().
		Str("source_id", req.SourceID).
		Str("target", req.TargetResource.Name).
		Str("intent", req.ActionRequest.Intent).
		Str("priority", priority).
		Msg("processing gateway request")

	containerName, err := s.settings.ResolveTarget(req.TargetResource.Name)
	if err != nil {
		log.Warn().Str("source_id", req.SourceID).Str("target", req.TargetResource.Name).Msg("target resolution failed")
		return errorResponse(StatusValidationError, CodeUnknownService, err.Error())
	}

	command, err := s.synth.Synthesize(ctx, req.ActionRequest.Intent, containerName, req.ActionRequest.Context)
	observability.RecordSynthesis(s.settings.InstanceID, err == nil)
	if err != nil {
		return errorResponse(StatusSynthesisFailed, CodeLLMError, err.Error())
	}

	verdict := s.policy.Validate(command)
	observability.RecordValidation(s.settings.InstanceID, verdict.Accepted)
	if !verdict.Accepted {
		// The specific rule is a policy detail; callers get a generic
		// rejection so the gate cannot be probed.
		log.Warn().
			Str("source_id", req.SourceID).
			Str("command", command).
			Str("reason", verdict.Reason).
			Msg("candidate command rejected by safety policy")
		return errorResponse(StatusValidationError, CodeCommandRejected, "generated command rejected by safety policy")
	}

	start := time.Now()
	outcome := s.strategy.Execute(ctx, command, s.settings.Execution.CommandTimeout)
	observability.RecordExecution(s.settings.InstanceID, s.strategy.Name(), string(outcome.Status), time.Since(start))

	log.Info().
		Str("source_id", req.SourceID).
		Str("command", command).
		Str("status", string(outcome.Status)).
		Int("exit_code", outcome.ExitCode).
		Msg("command execution completed")

	return successResponse(classify(outcome.Status), ExecutionDetails{
		Command:         command,
		ExecutionResult: outcome,
	})
}

// classify collapses execution failure kinds into one outward status; the
// distinguishing detail stays in the nested outcome.
func classify(status execution.Status) OverallStatus {
	switch status {
	case execution.StatusSuccess:
		return StatusCompletedSuccess
	case execution.StatusFailure, execution.StatusTimeout, execution.StatusChannelError, execution.StatusExecutorError:
		return StatusCompletedFailure
	default:
		return StatusExecutionError
	}
}
