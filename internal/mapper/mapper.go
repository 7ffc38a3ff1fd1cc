// Package mapper converts decoded price events into table records.
package mapper

import (
	"time"

	"github.com/rickgao/stockprice-etl/internal/model"
	"github.com/rickgao/stockprice-etl/internal/schema"
)

// Mapper renames event fields and derives readable_timestamp and load_time.
type Mapper struct {
	now func() time.Time
}

// Option configures a Mapper.
type Option func(*Mapper)

// WithClock sets the clock used for load_time.
func WithClock(now func() time.Time) Option {
	return func(m *Mapper) {
		m.now = now
	}
}

// New creates a Mapper that stamps load_time from the wall clock.
func New(opts ...Option) *Mapper {
	m := &Mapper{now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Map converts one event. Nil fields stay nil.
func (m *Mapper) Map(e model.PriceEvent) model.EnrichedRecord {
	return model.EnrichedRecord{
		CompanyName:       e.Name,
		Symbol:            e.Symbol,
		Exchange:          e.Exchange,
		Price:             e.Price,
		ChangePercentage:  e.ChangePercentage,
		Timestamp:         e.Timestamp,
		ReadableTimestamp: readableTimestamp(e.Timestamp),
		LoadTime:          m.now(),
	}
}

// MapAll converts events in order.
func (m *Mapper) MapAll(events []model.PriceEvent) []model.EnrichedRecord {
	out := make([]model.EnrichedRecord, len(events))
	for i, e := range events {
		out[i] = m.Map(e)
	}
	return out
}

// readableTimestamp renders unix seconds as a UTC calendar time.
func readableTimestamp(ts *int64) *string {
	if ts == nil {
		return nil
	}
	s := time.Unix(*ts, 0).UTC().Format(schema.ReadableTimestampLayout)
	return &s
}
