// Package model defines the data types that flow through the stream processor.
//
// Conventions:
//   - Event fields are pointers; nil means the source field was absent or malformed
//   - Event timestamps: int64 seconds since Unix epoch
//   - LoadTime: wall clock at which the processor materialized the record
package model
