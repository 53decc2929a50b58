package port

import (
	"context"

	"docvet/internal/domain"
)

// RunNotifier tells operators about validation runs that did not pass.
type RunNotifier interface {
	NotifyRunFailed(ctx context.Context, run *domain.RunResult) error
}
