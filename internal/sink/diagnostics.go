package sink

import (
	"fmt"
	"log/slog"

	"github.com/rickgao/stockprice-etl/internal/model"
	"github.com/rickgao/stockprice-etl/internal/schema"
)

// Diagnostics controls how much of a batch is logged before it is written.
type Diagnostics struct {
	Mode       DiagnosticsMode
	SampleSize int // Records logged in ModeSample
}

// DiagnosticsMode selects per-record logging.
type DiagnosticsMode string

const (
	ModeAll    DiagnosticsMode = "all"    // every record
	ModeSample DiagnosticsMode = "sample" // first SampleSize records
	ModeNone   DiagnosticsMode = "none"   // counts only
)

// DiagnosticsModes lists the accepted mode names.
var DiagnosticsModes = []DiagnosticsMode{ModeAll, ModeSample, ModeNone}

// ParseDiagnosticsMode validates a mode name.
func ParseDiagnosticsMode(s string) (DiagnosticsMode, error) {
	for _, m := range DiagnosticsModes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("diagnostics mode must be one of %s, got %q", joinNames(DiagnosticsModes), s)
}

// limit returns how many of n records to log.
func (d Diagnostics) limit(n int) int {
	switch d.Mode {
	case ModeNone:
		return 0
	case ModeSample:
		if d.SampleSize < n {
			return d.SampleSize
		}
		return n
	default:
		return n
	}
}

// log writes the batch schema and the selected records at info level.
func (d Diagnostics) log(logger *slog.Logger, b model.Batch) {
	if d.Mode == ModeNone {
		return
	}

	logger.Info("batch schema",
		"batch_id", b.ID,
		"schema", schema.Signature(),
	)

	n := d.limit(b.Len())
	for i := 0; i < n; i++ {
		logger.Info("data",
			"batch_id", b.ID,
			"index", i,
			"record", recordValue(b.Records[i]),
		)
	}
	if omitted := b.Len() - n; omitted > 0 {
		logger.Info("records omitted from log",
			"batch_id", b.ID,
			"omitted", omitted,
		)
	}
}

// recordValue renders a record as a group keyed by column name.
func recordValue(r model.EnrichedRecord) slog.Value {
	cols := schema.Columns()
	values := r.Values()
	attrs := make([]slog.Attr, len(cols))
	for i, col := range cols {
		attrs[i] = slog.Any(col, values[i])
	}
	return slog.GroupValue(attrs...)
}
