// Package metrics provides Prometheus metrics for monitoring.
//
// Key metrics:
//   - Records and batches processed, by result
//   - Messages dropped by the decoder, by reason
//   - Sink write latency
//   - Last checkpointed offset per partition and last batch id
package metrics
