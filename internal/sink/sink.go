package sink

import (
	"context"
	"strings"

	"github.com/rickgao/stockprice-etl/internal/model"
)

// TablePrefix is prepended to the topic name to form the output table.
const TablePrefix = "processed_"

// TableName returns the output table for a topic.
func TableName(topic string) string {
	return TablePrefix + topic
}

// Handler receives micro-batches. Calls are sequential: a call returns
// before the next batch is delivered.
type Handler interface {
	HandleBatch(ctx context.Context, batch model.Batch) (written int, err error)
}

// HandlerFunc is a function adapter for Handler.
type HandlerFunc func(context.Context, model.Batch) (int, error)

func (f HandlerFunc) HandleBatch(ctx context.Context, b model.Batch) (int, error) {
	return f(ctx, b)
}

// Writer appends records to a table.
type Writer interface {
	// Table returns the destination table name.
	Table() string

	// Write appends records and returns the number of rows written.
	Write(ctx context.Context, records []model.EnrichedRecord) (int, error)
}

func joinNames[T ~string](values []T) string {
	names := make([]string, len(values))
	for i, v := range values {
		names[i] = string(v)
	}
	return strings.Join(names, ", ")
}
