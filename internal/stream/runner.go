package stream

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/stockprice-etl/internal/checkpoint"
	"github.com/rickgao/stockprice-etl/internal/decoder"
	"github.com/rickgao/stockprice-etl/internal/mapper"
	"github.com/rickgao/stockprice-etl/internal/metrics"
	"github.com/rickgao/stockprice-etl/internal/model"
	"github.com/rickgao/stockprice-etl/internal/sink"
)

// Config holds runner configuration.
type Config struct {
	Topic              string
	MaxRecordsPerBatch int           // Upper bound on messages per poll
	TriggerInterval    time.Duration // Minimum spacing between batch starts; 0 = back to back
}

// Runner drives the micro-batch loop for one topic.
type Runner struct {
	cfg     Config
	source  Source
	decoder decoder.Decoder
	mapper  *mapper.Mapper
	handler sink.Handler
	store   checkpoint.Store
	logger  *slog.Logger

	state checkpoint.State
	runID uuid.UUID
}

// New creates a Runner that continues from state.
func New(cfg Config, state checkpoint.State, source Source, dec decoder.Decoder, m *mapper.Mapper, handler sink.Handler, store checkpoint.Store, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if state.Offsets == nil {
		state.Offsets = make(map[int32]int64)
	}
	return &Runner{
		cfg:     cfg,
		source:  source,
		decoder: dec,
		mapper:  m,
		handler: handler,
		store:   store,
		logger:  logger,
		state:   state,
		runID:   uuid.New(),
	}
}

// RunID identifies this run of the query.
func (r *Runner) RunID() uuid.UUID {
	return r.runID
}

// State returns the last committed progress.
func (r *Runner) State() checkpoint.State {
	return r.state
}

// Run processes batches until ctx is cancelled or a batch fails under the
// fail_fast policy. Cancellation is not an error.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Info("stream started",
		"topic", r.cfg.Topic,
		"query_id", r.state.QueryID,
		"run_id", r.runID,
		"next_batch_id", r.state.NextBatchID,
	)

	for {
		start := time.Now()
		if _, err := r.RunOnce(ctx); err != nil {
			if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
				break
			}
			r.logger.Error("stream failed", "run_id", r.runID, "error", err)
			return err
		}

		if err := r.waitTrigger(ctx, start); err != nil {
			break
		}
	}

	r.logger.Info("stream stopped",
		"topic", r.cfg.Topic,
		"run_id", r.runID,
		"next_batch_id", r.state.NextBatchID,
	)
	return nil
}

func (r *Runner) waitTrigger(ctx context.Context, start time.Time) error {
	if r.cfg.TriggerInterval <= 0 {
		return ctx.Err()
	}
	wait := r.cfg.TriggerInterval - time.Since(start)
	if wait <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// RunOnce polls one set of messages and processes it as a batch. It reports
// false when the poll returned nothing and no batch was started.
func (r *Runner) RunOnce(ctx context.Context) (bool, error) {
	msgs, err := r.source.Poll(ctx, r.cfg.MaxRecordsPerBatch)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, ctxErr
		}
		return false, fmt.Errorf("poll %s: %w", r.cfg.Topic, err)
	}
	if len(msgs) == 0 {
		return false, nil
	}

	batch := model.Batch{
		ID:        r.state.NextBatchID,
		Topic:     r.cfg.Topic,
		StartedAt: time.Now(),
	}
	batch.Records = r.mapper.MapAll(r.decode(batch.ID, msgs))

	// The batch runs to completion once started.
	detached := context.WithoutCancel(ctx)
	if _, err := r.handler.HandleBatch(detached, batch); err != nil {
		return true, err
	}

	next := r.advance(msgs)
	if err := r.store.Commit(detached, next); err != nil {
		return true, fmt.Errorf("commit checkpoint for batch %d: %w", batch.ID, err)
	}
	r.state = next

	for p, off := range next.Offsets {
		metrics.LastOffset.WithLabelValues(r.cfg.Topic, strconv.Itoa(int(p))).Set(float64(off))
	}
	metrics.LastBatchID.WithLabelValues(r.cfg.Topic).Set(float64(batch.ID))

	r.logger.Debug("batch committed",
		"batch_id", batch.ID,
		"messages", len(msgs),
		"records", batch.Len(),
	)
	return true, nil
}

// decode flattens messages into events. Messages that fail to decode are
// dropped and counted in decode_errors_total, which counts messages rather
// than records.
func (r *Runner) decode(batchID int64, msgs []model.RawMessage) []model.PriceEvent {
	var events []model.PriceEvent
	for _, msg := range msgs {
		evs, err := r.decoder.Decode(msg.Value)
		if err != nil {
			r.logger.Debug("dropping message",
				"batch_id", batchID,
				"partition", msg.Partition,
				"offset", msg.Offset,
				"error", err,
			)
			metrics.DecodeErrorsTotal.WithLabelValues(r.cfg.Topic, decoder.Reason(err)).Inc()
			continue
		}
		events = append(events, evs...)
	}
	return events
}

// advance returns the state after msgs have been handled.
func (r *Runner) advance(msgs []model.RawMessage) checkpoint.State {
	next := r.state
	next.Offsets = make(map[int32]int64, len(r.state.Offsets))
	for p, off := range r.state.Offsets {
		next.Offsets[p] = off
	}
	for _, msg := range msgs {
		if cur, ok := next.Offsets[msg.Partition]; !ok || msg.Offset+1 > cur {
			next.Offsets[msg.Partition] = msg.Offset + 1
		}
	}
	next.Topic = r.cfg.Topic
	next.NextBatchID = r.state.NextBatchID + 1
	return next
}
