package mapper

import (
	"testing"
	"time"

	"github.com/rickgao/stockprice-etl/internal/model"
)

func ptr[T any](v T) *T {
	return &v
}

func TestMap_RenamesAndDerives(t *testing.T) {
	loadTime := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	m := New(WithClock(func() time.Time { return loadTime }))

	e := model.PriceEvent{
		Name:             ptr("Apple"),
		Symbol:           ptr("AAPL"),
		Exchange:         ptr("NASDAQ"),
		Price:            ptr(150.0),
		ChangePercentage: ptr(1.5),
		Timestamp:        ptr(int64(1700000000)),
	}

	r := m.Map(e)

	if r.CompanyName == nil || *r.CompanyName != "Apple" {
		t.Errorf("CompanyName = %v, want Apple", r.CompanyName)
	}
	if r.ChangePercentage == nil || *r.ChangePercentage != 1.5 {
		t.Errorf("ChangePercentage = %v, want 1.5", r.ChangePercentage)
	}
	if r.ReadableTimestamp == nil || *r.ReadableTimestamp != "2023-11-14 22:13:20" {
		t.Errorf("ReadableTimestamp = %v, want 2023-11-14 22:13:20", r.ReadableTimestamp)
	}
	if !r.LoadTime.Equal(loadTime) {
		t.Errorf("LoadTime = %v, want %v", r.LoadTime, loadTime)
	}
}

func TestMap_NilFieldsPropagate(t *testing.T) {
	m := New()
	r := m.Map(model.PriceEvent{Symbol: ptr("AAPL")})

	if r.CompanyName != nil {
		t.Errorf("CompanyName = %v, want nil", *r.CompanyName)
	}
	if r.Price != nil {
		t.Errorf("Price = %v, want nil", *r.Price)
	}
	if r.Timestamp != nil || r.ReadableTimestamp != nil {
		t.Errorf("Timestamp/ReadableTimestamp should be nil, got %v/%v", r.Timestamp, r.ReadableTimestamp)
	}
	if r.LoadTime.IsZero() {
		t.Error("LoadTime should be set")
	}
}

func TestMap_ReadableTimestamp(t *testing.T) {
	tests := []struct {
		ts   int64
		want string
	}{
		{0, "1970-01-01 00:00:00"},
		{1700000000, "2023-11-14 22:13:20"},
		{-1, "1969-12-31 23:59:59"},
	}

	m := New()
	for _, tt := range tests {
		r := m.Map(model.PriceEvent{Timestamp: ptr(tt.ts)})
		if r.ReadableTimestamp == nil || *r.ReadableTimestamp != tt.want {
			t.Errorf("ReadableTimestamp(%d) = %v, want %s", tt.ts, r.ReadableTimestamp, tt.want)
		}
	}
}

func TestMapAll_LoadTimeAfterBatchStart(t *testing.T) {
	m := New()
	start := time.Now()

	records := m.MapAll([]model.PriceEvent{
		{Symbol: ptr("AAPL")},
		{Symbol: ptr("MSFT")},
	})

	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	for i, r := range records {
		if r.LoadTime.Before(start) {
			t.Errorf("records[%d].LoadTime = %v, before batch start %v", i, r.LoadTime, start)
		}
	}
	if *records[0].Symbol != "AAPL" || *records[1].Symbol != "MSFT" {
		t.Errorf("order not preserved: %s, %s", *records[0].Symbol, *records[1].Symbol)
	}
}
