package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rickgao/stockprice-etl/internal/sink"
)

// Validate checks that all required fields are set and values are valid.
func (c *ProcessorConfig) Validate() error {
	if len(c.Kafka.Brokers) == 0 {
		return errors.New("kafka.brokers is required")
	}
	if c.Kafka.Topic == "" {
		return errors.New("kafka.topic is required")
	}
	if err := oneOf("kafka.starting_offsets", c.Kafka.StartingOffsets, OffsetsEarliest, OffsetsLatest); err != nil {
		return err
	}

	if err := c.Database.validate("database"); err != nil {
		return err
	}

	if _, err := sink.ParsePolicy(c.Sink.ErrorPolicy); err != nil {
		return fmt.Errorf("sink.error_policy: %w", err)
	}
	if _, err := sink.ParseDiagnosticsMode(c.Sink.Diagnostics); err != nil {
		return fmt.Errorf("sink.diagnostics: %w", err)
	}
	if c.Sink.SampleSize < 1 {
		return errors.New("sink.sample_size must be >= 1")
	}
	if c.Sink.WriteTimeout < 0 {
		return errors.New("sink.write_timeout must be >= 0")
	}

	if c.Stream.MaxRecordsPerBatch < 1 {
		return errors.New("stream.max_records_per_batch must be >= 1")
	}
	if c.Stream.TriggerInterval < 0 {
		return errors.New("stream.trigger_interval must be >= 0")
	}

	if c.Checkpoint.Dir == "" {
		return errors.New("checkpoint.dir is required")
	}

	switch strings.ToUpper(c.Log.Level) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		return fmt.Errorf("log.level must be one of DEBUG, INFO, WARN, ERROR, got %q", c.Log.Level)
	}
	if err := oneOf("log.format", c.Log.Format, "text", "json"); err != nil {
		return err
	}

	if c.Metrics.Port < 1 || c.Metrics.Port > 65535 {
		return fmt.Errorf("metrics.port must be between 1 and 65535, got %d", c.Metrics.Port)
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Port < 1 || db.Port > 65535 {
		return fmt.Errorf("%s.port must be between 1 and 65535, got %d", prefix, db.Port)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}

func oneOf(field, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of %s, got %q", field, strings.Join(allowed, ", "), value)
}
