package config

import (
	"time"

	"github.com/rickgao/stockprice-etl/internal/sink"
)

// Default values for optional configuration fields.
const (
	DefaultAppName            = "FinancialDataProcessor"
	DefaultKafkaBroker        = "kafka_broker:29092"
	DefaultTopic              = "stock_prices"
	DefaultStartingOffsets    = OffsetsEarliest
	DefaultFetchMaxWait       = 500 * time.Millisecond
	DefaultDBPort             = 5432
	DefaultDBSSLMode          = "prefer"
	DefaultMaxConns           = 4
	DefaultMinConns           = 1
	DefaultConnectTimeout     = 10 * time.Second
	DefaultErrorPolicy        = string(sink.PolicyBestEffort)
	DefaultDiagnostics        = string(sink.ModeAll)
	DefaultSampleSize         = 20
	DefaultMaxRecordsPerBatch = 10000
	DefaultCheckpointDir      = "./checkpoint"
	DefaultLogLevel           = "INFO"
	DefaultLogFormat          = "text"
	DefaultMetricsPort        = 9093
	DefaultMetricsPath        = "/metrics"
)

// Accepted starting offsets. Sink policy and diagnostics names live in package sink.
const (
	OffsetsEarliest = "earliest"
	OffsetsLatest   = "latest"
)

func (c *ProcessorConfig) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = DefaultAppName
	}

	// Kafka defaults
	if len(c.Kafka.Brokers) == 0 {
		c.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if c.Kafka.Topic == "" {
		c.Kafka.Topic = DefaultTopic
	}
	if c.Kafka.StartingOffsets == "" {
		c.Kafka.StartingOffsets = DefaultStartingOffsets
	}
	if c.Kafka.FetchMaxWait == 0 {
		c.Kafka.FetchMaxWait = DefaultFetchMaxWait
	}

	// Database defaults
	if c.Database.Port == 0 {
		c.Database.Port = DefaultDBPort
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = DefaultDBSSLMode
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = DefaultMaxConns
	}
	if c.Database.MinConns == 0 {
		c.Database.MinConns = DefaultMinConns
	}
	if c.Database.ConnectTimeout == 0 {
		c.Database.ConnectTimeout = DefaultConnectTimeout
	}

	// Sink defaults
	if c.Sink.ErrorPolicy == "" {
		c.Sink.ErrorPolicy = DefaultErrorPolicy
	}
	if c.Sink.Diagnostics == "" {
		c.Sink.Diagnostics = DefaultDiagnostics
	}
	if c.Sink.SampleSize == 0 {
		c.Sink.SampleSize = DefaultSampleSize
	}

	if c.Stream.MaxRecordsPerBatch == 0 {
		c.Stream.MaxRecordsPerBatch = DefaultMaxRecordsPerBatch
	}
	if c.Checkpoint.Dir == "" {
		c.Checkpoint.Dir = DefaultCheckpointDir
	}

	// Log defaults
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}

	// Metrics defaults
	if c.Metrics.Port == 0 {
		c.Metrics.Port = DefaultMetricsPort
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
}
