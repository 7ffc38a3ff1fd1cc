package sink

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rickgao/stockprice-etl/internal/model"
)

func TestBestEffort_SwallowsErrorAndContinues(t *testing.T) {
	logger, buf := testLogger()
	w := &fakeWriter{table: "processed_stock_prices", err: errors.New("connection refused")}
	h := BestEffort(NewBatchSink(w, Diagnostics{Mode: ModeNone}, logger), logger)

	n, err := h.HandleBatch(context.Background(), makeBatch(12, 3))
	if err != nil {
		t.Fatalf("HandleBatch() error = %v, want nil", err)
	}
	if n != 0 {
		t.Errorf("written = %d, want 0", n)
	}

	out := buf.String()
	if !strings.Contains(out, "error processing batch") || !strings.Contains(out, "batch_id=12") {
		t.Errorf("missing error line with batch id:\n%s", out)
	}
	if !strings.Contains(out, "connection refused") {
		t.Errorf("missing error message:\n%s", out)
	}

	// The next batch is still accepted once the database recovers.
	w.err = nil
	n, err = h.HandleBatch(context.Background(), makeBatch(13, 2))
	if err != nil {
		t.Fatalf("HandleBatch() next batch error = %v", err)
	}
	if n != 2 {
		t.Errorf("next batch written = %d, want 2", n)
	}
}

func TestBestEffort_RecoversPanic(t *testing.T) {
	logger, buf := testLogger()
	w := &fakeWriter{table: "processed_stock_prices", panicMsg: "driver exploded"}
	h := BestEffort(NewBatchSink(w, Diagnostics{Mode: ModeNone}, logger), logger)

	n, err := h.HandleBatch(context.Background(), makeBatch(4, 1))
	if err != nil || n != 0 {
		t.Errorf("HandleBatch() = %d, %v, want 0, nil", n, err)
	}
	if !strings.Contains(buf.String(), "driver exploded") {
		t.Errorf("panic not logged:\n%s", buf.String())
	}
}

func TestFailFast(t *testing.T) {
	logger, _ := testLogger()

	w := &fakeWriter{table: "processed_stock_prices", err: errors.New("permission denied")}
	h := FailFast(NewBatchSink(w, Diagnostics{Mode: ModeNone}, logger))
	if _, err := h.HandleBatch(context.Background(), makeBatch(2, 1)); err == nil {
		t.Error("FailFast should return the write error")
	}

	w = &fakeWriter{table: "processed_stock_prices", panicMsg: "boom"}
	h = FailFast(NewBatchSink(w, Diagnostics{Mode: ModeNone}, logger))
	_, err := h.HandleBatch(context.Background(), makeBatch(3, 1))
	if err == nil || !strings.Contains(err.Error(), "batch 3: panic: boom") {
		t.Errorf("FailFast panic error = %v", err)
	}
}

func TestWithPolicy(t *testing.T) {
	logger, _ := testLogger()
	failing := HandlerFunc(func(context.Context, model.Batch) (int, error) {
		return 0, errors.New("down")
	})

	if _, err := WithPolicy(PolicyBestEffort, failing, logger).HandleBatch(context.Background(), makeBatch(1, 1)); err != nil {
		t.Errorf("best_effort returned %v, want nil", err)
	}
	if _, err := WithPolicy(PolicyFailFast, failing, logger).HandleBatch(context.Background(), makeBatch(1, 1)); err == nil {
		t.Error("fail_fast returned nil, want error")
	}
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{"best_effort", PolicyBestEffort, false},
		{"fail_fast", PolicyFailFast, false},
		{"retry", "", true},
	}
	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		if err != nil && !strings.Contains(err.Error(), "best_effort, fail_fast") {
			t.Errorf("ParsePolicy(%q) error = %q, want accepted names listed", tt.in, err)
		}
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParsePolicy(%q) = %q, %v", tt.in, got, err)
		}
	}
}
