package observability

import (
	"context"
	"log/slog"

	"synod/pkg/domain"
)

// LoggingHooks returns lifecycle hooks that log every kernel event
// through the given slog logger.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStageStart: func(ctx context.Context, e *domain.StageEvent) {
			logger.InfoContext(ctx, "stage_start",
				"unit", e.Unit,
				"stage", e.Stage,
				"attempt", e.Attempt,
			)
		},
		OnStageEnd: func(ctx context.Context, e *domain.StageEvent) {
			logger.InfoContext(ctx, "stage_end",
				"unit", e.Unit,
				"stage", e.Stage,
				"duration", e.Duration,
			)
		},
		OnStageFailure: func(ctx context.Context, e *domain.StageEvent) {
			logger.ErrorContext(ctx, "stage_failure",
				"unit", e.Unit,
				"stage", e.Stage,
				"error", e.Err,
			)
		},
		OnMerge: func(ctx context.Context, e *domain.MergeEvent) {
			logger.DebugContext(ctx, "context_merge",
				"keys", e.Keys,
				"version", e.Version,
			)
		},
		OnVerdict: func(ctx context.Context, e *domain.VerdictEvent) {
			logger.InfoContext(ctx, "verdict",
				"outcome", string(e.Verdict.Outcome),
				"attempt", e.Attempt,
				"reasons", e.Verdict.Reasons,
			)
		},
		OnRetry: func(ctx context.Context, e *domain.RetryEvent) {
			logger.WarnContext(ctx, "retry_scheduled",
				"next_attempt", e.NextAttempt,
				"max_attempts", e.MaxAttempts,
				"reasons", e.Reasons,
			)
		},
	}
}
