// Package database provides the PostgreSQL connection pool used by the sink.
//
// The processor appends rows to a single table per source topic
// (processed_<topic>); it never updates or deletes.
package database
