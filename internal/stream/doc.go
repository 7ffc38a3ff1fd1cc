// Package stream runs the micro-batch loop: poll raw messages from a Source,
// decode and map them, hand the batch to a sink handler and commit progress
// to a checkpoint store.
//
// Batches are processed strictly in order on the caller's goroutine. A batch
// that has been handed to the sink always completes, even when the run
// context is cancelled mid-batch.
package stream
