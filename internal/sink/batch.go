package sink

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rickgao/stockprice-etl/internal/metrics"
	"github.com/rickgao/stockprice-etl/internal/model"
)

// BatchSink logs each micro-batch and appends non-empty ones through a Writer.
// It returns write errors unchanged in meaning; wrap it with a Policy to
// decide what a failure does to the stream.
type BatchSink struct {
	writer      Writer
	diagnostics Diagnostics
	logger      *slog.Logger
}

// NewBatchSink creates a BatchSink.
func NewBatchSink(writer Writer, diagnostics Diagnostics, logger *slog.Logger) *BatchSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &BatchSink{
		writer:      writer,
		diagnostics: diagnostics,
		logger:      logger,
	}
}

// HandleBatch writes one micro-batch. Empty batches are logged and skipped.
func (s *BatchSink) HandleBatch(ctx context.Context, b model.Batch) (int, error) {
	count := b.Len()
	if count == 0 {
		s.logger.Info("batch is empty, no data written",
			"batch_id", b.ID,
			"table", s.writer.Table(),
		)
		metrics.BatchesTotal.WithLabelValues(b.Topic, metrics.ResultEmpty).Inc()
		return 0, nil
	}

	s.logger.Info("batch count",
		"batch_id", b.ID,
		"count", count,
	)
	s.diagnostics.log(s.logger, b)

	start := time.Now()
	written, err := s.writer.Write(ctx, b.Records)
	metrics.WriteLatency.WithLabelValues(b.Topic).Observe(time.Since(start).Seconds())
	if err != nil {
		return written, fmt.Errorf("write batch %d to %s: %w", b.ID, s.writer.Table(), err)
	}

	metrics.BatchesTotal.WithLabelValues(b.Topic, metrics.ResultWritten).Inc()
	metrics.RecordsTotal.WithLabelValues(b.Topic, metrics.ResultWritten).Add(float64(written))

	s.logger.Info("batch written",
		"batch_id", b.ID,
		"table", s.writer.Table(),
		"rows", written,
		"duration", time.Since(start),
	)
	return written, nil
}
