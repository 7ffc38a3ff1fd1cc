package stream

import (
	"context"

	"github.com/rickgao/stockprice-etl/internal/model"
)

// Source yields raw messages for one topic.
type Source interface {
	// Poll blocks until at least one message is available or ctx is done,
	// and returns at most max messages.
	Poll(ctx context.Context, max int) ([]model.RawMessage, error)

	// Close releases the underlying client.
	Close()
}
