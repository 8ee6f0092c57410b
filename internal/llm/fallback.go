package llm

import (
	"context"

	"github.com/sirupsen/logrus"
)

// WithLocalFallback runs remote and returns its value; on any error it logs
// at warn level and returns local() instead. The second result reports
// whether the remote value was used.
func WithLocalFallback[T any](ctx context.Context, log logrus.FieldLogger, operation string, remote func(context.Context) (T, error), local func() T) (T, bool) {
	value, err := remote(ctx)
	if err == nil {
		return value, true
	}
	if log != nil {
		log.WithFields(logrus.Fields{
			"operation": operation,
			"code":      CodeOf(err),
		}).WithError(err).Warn("remote call failed, using local heuristics")
	}
	return local(), false
}
