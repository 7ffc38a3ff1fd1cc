// Package sink persists micro-batches of enriched records.
//
// A BatchSink counts, logs and appends each batch to processed_<topic>.
// What happens when a batch fails is decided by an error Policy wrapped
// around it: BestEffort logs and drops the batch so the stream keeps going,
// FailFast hands the error back to the stream.
//
// Writes are append-only (never update, only insert).
package sink
