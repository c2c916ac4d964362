package dubbing

import (
	"context"

	"dubsync/internal/history"
	"dubsync/internal/logging"
	"dubsync/internal/services"
)

// finish stamps the outcome on run, records it when a store is configured and
// logs the result. Ledger failures never change the run's result.
func (e *Engine) finish(ctx context.Context, run history.Run, result services.Result) {
	finished := e.now()
	run.FinishedAt = &finished
	run.Status = result.Status
	run.ErrorKind = result.Kind
	run.Message = result.Message
	if result.Chunks > run.Chunks {
		run.Chunks = result.Chunks
	}
	if result.FailedChunks > run.FailedChunks {
		run.FailedChunks = result.FailedChunks
	}

	logger := logging.WithContext(ctx, e.logger)
	if result.Succeeded() {
		logger.Info("run complete",
			logging.String("kind", run.Kind),
			logging.String("output", result.Output),
			logging.Duration("elapsed", run.Elapsed()),
		)
	} else {
		logging.ErrorWithContext(logger, "run failed", "run_failed",
			logging.String("kind", run.Kind),
			logging.String("error_kind", result.Kind),
			logging.String("message", result.Message),
			logging.String(logging.FieldErrorHint, "see the preceding warnings for the failing step"),
		)
	}

	if e.store == nil {
		return
	}
	if err := e.store.Record(ctx, run); err != nil {
		logging.WarnWithContext(logger, "failed to record run history", "history_record_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "run missing from dubsync history"),
		)
	}
}
