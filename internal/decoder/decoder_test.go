package decoder

import (
	"errors"
	"reflect"
	"testing"

	"github.com/rickgao/stockprice-etl/internal/schema"
)

func TestDecode_SingleEvent(t *testing.T) {
	payload := []byte(`[{"name":"Apple","symbol":"AAPL","exchange":"NASDAQ","price":150.0,"changesPercentage":1.5,"timestamp":1700000000}]`)

	events, err := New().Decode(payload)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}

	e := events[0]
	if e.Name == nil || *e.Name != "Apple" {
		t.Errorf("Name = %v, want Apple", e.Name)
	}
	if e.Symbol == nil || *e.Symbol != "AAPL" {
		t.Errorf("Symbol = %v, want AAPL", e.Symbol)
	}
	if e.Exchange == nil || *e.Exchange != "NASDAQ" {
		t.Errorf("Exchange = %v, want NASDAQ", e.Exchange)
	}
	if e.Price == nil || *e.Price != 150.0 {
		t.Errorf("Price = %v, want 150.0", e.Price)
	}
	if e.ChangePercentage == nil || *e.ChangePercentage != 1.5 {
		t.Errorf("ChangePercentage = %v, want 1.5", e.ChangePercentage)
	}
	if e.Timestamp == nil || *e.Timestamp != 1700000000 {
		t.Errorf("Timestamp = %v, want 1700000000", e.Timestamp)
	}
}

func TestDecode_PreservesOrder(t *testing.T) {
	payload := []byte(`[
		{"symbol":"AAPL","price":150.0},
		{"symbol":"MSFT","price":370.5},
		{"symbol":"GOOG","price":135.2}
	]`)

	events, err := New().Decode(payload)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	want := []string{"AAPL", "MSFT", "GOOG"}
	if len(events) != len(want) {
		t.Fatalf("len(events) = %d, want %d", len(events), len(want))
	}
	for i, sym := range want {
		if events[i].Symbol == nil || *events[i].Symbol != sym {
			t.Errorf("events[%d].Symbol = %v, want %s", i, events[i].Symbol, sym)
		}
	}
}

func TestDecode_MissingAndMalformedFields(t *testing.T) {
	payload := []byte(`[{"symbol":"AAPL","price":"n/a","changesPercentage":null,"timestamp":1700000000.5,"name":42}]`)

	events, err := New().Decode(payload)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}

	e := events[0]
	if e.Symbol == nil || *e.Symbol != "AAPL" {
		t.Errorf("Symbol = %v, want AAPL", e.Symbol)
	}
	if e.Name != nil {
		t.Errorf("Name = %v, want nil for numeric name", *e.Name)
	}
	if e.Exchange != nil {
		t.Errorf("Exchange = %v, want nil for missing field", *e.Exchange)
	}
	if e.Price != nil {
		t.Errorf("Price = %v, want nil for string price", *e.Price)
	}
	if e.ChangePercentage != nil {
		t.Errorf("ChangePercentage = %v, want nil for null", *e.ChangePercentage)
	}
	if e.Timestamp != nil {
		t.Errorf("Timestamp = %v, want nil for fractional value", *e.Timestamp)
	}
}

func TestDecode_EmptyArray(t *testing.T) {
	events, err := New().Decode([]byte(`[]`))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(events) != 0 {
		t.Errorf("len(events) = %d, want 0", len(events))
	}
}

func TestDecode_BadPayloads(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
		wantErr error
		reason  string
	}{
		{"not json", []byte(`not json at all`), ErrMalformedPayload, "malformed"},
		{"truncated", []byte(`[{"symbol":"AAPL"`), ErrMalformedPayload, "malformed"},
		{"empty", []byte(``), ErrMalformedPayload, "malformed"},
		{"invalid utf8", []byte{'[', '"', 0xff, '"', ']'}, ErrMalformedPayload, "malformed"},
		{"object", []byte(`{"symbol":"AAPL"}`), ErrNotArray, "not_array"},
		{"number", []byte(`42`), ErrNotArray, "not_array"},
		{"array of scalars", []byte(`[1,2,3]`), ErrNotObject, "not_object"},
		{"mixed array", []byte(`[{"symbol":"AAPL"},"x"]`), ErrNotObject, "not_object"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := New().Decode(tt.payload)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Decode() error = %v, want %v", err, tt.wantErr)
			}
			if len(events) != 0 {
				t.Errorf("len(events) = %d, want 0", len(events))
			}
			if got := Reason(err); got != tt.reason {
				t.Errorf("Reason() = %q, want %q", got, tt.reason)
			}
		})
	}
}

func TestDecodeColumns_Renamed(t *testing.T) {
	want := []string{"company_name", "symbol", "exchange", "price", "change_percentage", "timestamp"}
	if !reflect.DeepEqual(columns, want) {
		t.Errorf("columns = %v, want %v", columns, want)
	}
	if !reflect.DeepEqual(columns, schema.Columns()[:len(columns)]) {
		t.Errorf("columns = %v, not a prefix of %v", columns, schema.Columns())
	}

	// Renaming the decoder's columns again changes nothing.
	if again := schema.Rename(columns); !reflect.DeepEqual(again, columns) {
		t.Errorf("Rename(columns) = %v, want %v", again, columns)
	}
}

func TestDecode_ReadsSourceNamesOnly(t *testing.T) {
	payload := []byte(`[{"company_name":"Apple","change_percentage":1.5,"symbol":"AAPL"}]`)

	events, err := New().Decode(payload)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	e := events[0]
	if e.Name != nil {
		t.Errorf("Name = %q, want nil for a column-named key", *e.Name)
	}
	if e.ChangePercentage != nil {
		t.Errorf("ChangePercentage = %v, want nil for a column-named key", *e.ChangePercentage)
	}
	if e.Symbol == nil || *e.Symbol != "AAPL" {
		t.Errorf("Symbol = %v, want AAPL", e.Symbol)
	}
}
