package sink

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rickgao/stockprice-etl/internal/metrics"
	"github.com/rickgao/stockprice-etl/internal/model"
)

// Policy names what a failed batch does to the stream.
type Policy string

const (
	// PolicyBestEffort logs the failure with the batch id and drops the
	// batch. The stream continues with the next batch; the batch is not retried.
	PolicyBestEffort Policy = "best_effort"

	// PolicyFailFast returns the failure to the caller, which stops the stream.
	PolicyFailFast Policy = "fail_fast"
)

// Policies lists the accepted policy names.
var Policies = []Policy{PolicyBestEffort, PolicyFailFast}

// ParsePolicy validates a policy name.
func ParsePolicy(s string) (Policy, error) {
	for _, p := range Policies {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("error policy must be one of %s, got %q", joinNames(Policies), s)
}

// WithPolicy wraps next with the named policy.
func WithPolicy(p Policy, next Handler, logger *slog.Logger) Handler {
	if p == PolicyFailFast {
		return FailFast(next)
	}
	return BestEffort(next, logger)
}

// BestEffort swallows errors and panics from next. They are logged with the
// batch id and counted, and the call reports zero rows written.
func BestEffort(next Handler, logger *slog.Logger) Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return HandlerFunc(func(ctx context.Context, b model.Batch) (written int, err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("error processing batch",
					"batch_id", b.ID,
					"error", fmt.Sprint(r),
				)
				countFailed(b)
				written, err = 0, nil
			}
		}()

		n, herr := next.HandleBatch(ctx, b)
		if herr != nil {
			logger.Error("error processing batch",
				"batch_id", b.ID,
				"error", herr,
			)
			countFailed(b)
			return 0, nil
		}
		return n, nil
	})
}

// FailFast passes errors through and converts panics into errors.
func FailFast(next Handler) Handler {
	return HandlerFunc(func(ctx context.Context, b model.Batch) (written int, err error) {
		defer func() {
			if r := recover(); r != nil {
				countFailed(b)
				written, err = 0, fmt.Errorf("batch %d: panic: %v", b.ID, r)
			}
		}()

		n, herr := next.HandleBatch(ctx, b)
		if herr != nil {
			countFailed(b)
			return n, herr
		}
		return n, nil
	})
}

func countFailed(b model.Batch) {
	metrics.BatchesTotal.WithLabelValues(b.Topic, metrics.ResultFailed).Inc()
	metrics.RecordsTotal.WithLabelValues(b.Topic, metrics.ResultFailed).Add(float64(b.Len()))
}
