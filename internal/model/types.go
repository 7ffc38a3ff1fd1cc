package model

import "time"

// -----------------------------------------------------------------------------
// Input Types
// -----------------------------------------------------------------------------

// RawMessage is a message as delivered by the broker. It is never modified.
type RawMessage struct {
	Topic     string
	Partition int32
	Offset    int64
	Key       []byte
	Value     []byte    // UTF-8 JSON array of price events
	Timestamp time.Time // Broker append time
}

// PriceEvent is one decoded stock price update.
type PriceEvent struct {
	Name             *string  // Company name
	Symbol           *string  // Ticker symbol (e.g., "AAPL")
	Exchange         *string  // Listing exchange (e.g., "NASDAQ")
	Price            *float64 // Last price
	ChangePercentage *float64 // Source field "changesPercentage"
	Timestamp        *int64   // Seconds since epoch
}

// -----------------------------------------------------------------------------
// Output Types
// -----------------------------------------------------------------------------

// EnrichedRecord is a PriceEvent with renamed and derived fields.
// One row in processed_<topic>.
type EnrichedRecord struct {
	CompanyName       *string
	Symbol            *string
	Exchange          *string
	Price             *float64
	ChangePercentage  *float64
	Timestamp         *int64
	ReadableTimestamp *string   // UTC "2006-01-02 15:04:05", nil when Timestamp is nil
	LoadTime          time.Time // When this processor materialized the record
}

// Values returns the record's column values in table column order.
// Nil pointers are returned as untyped nil so drivers write SQL NULL.
func (r EnrichedRecord) Values() []any {
	return []any{
		derefString(r.CompanyName),
		derefString(r.Symbol),
		derefString(r.Exchange),
		derefFloat(r.Price),
		derefFloat(r.ChangePercentage),
		derefInt(r.Timestamp),
		derefString(r.ReadableTimestamp),
		r.LoadTime,
	}
}

// Batch is one micro-batch handed to the sink.
type Batch struct {
	ID        int64     // Monotonic across restarts
	Topic     string    // Source topic
	StartedAt time.Time // Wall clock when the batch began processing
	Records   []EnrichedRecord
}

// Len returns the number of records in the batch.
func (b Batch) Len() int {
	return len(b.Records)
}

func derefString(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func derefFloat(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func derefInt(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}
