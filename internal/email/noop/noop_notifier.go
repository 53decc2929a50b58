package noop

import (
	"context"

	"docvet/internal/domain"
	"docvet/internal/email"
	"docvet/internal/logger"
	"docvet/internal/port"
)

type noopNotifier struct{}

// NewNoopNotifier creates a RunNotifier that only logs the notification subject.
func NewNoopNotifier() port.RunNotifier {
	return noopNotifier{}
}

func (noopNotifier) NotifyRunFailed(_ context.Context, run *domain.RunResult) error {
	msg := email.RunFailed(run)
	logger.For(logger.ComponentNotifier).Debugw("failed run notification suppressed",
		"run_id", run.ID, "subject", msg.Subject)
	return nil
}
