package config

import (
	"log/slog"
	"time"
)

// ProcessorConfig is the root configuration for a processor instance.
type ProcessorConfig struct {
	App        AppConfig        `yaml:"app"`
	Kafka      KafkaConfig      `yaml:"kafka"`
	Database   DBConfig         `yaml:"database"`
	Sink       SinkConfig       `yaml:"sink"`
	Stream     StreamConfig     `yaml:"stream"`
	Checkpoint CheckpointConfig `yaml:"checkpoint"`
	Log        LogConfig        `yaml:"log"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

// AppConfig identifies this processor to the broker and the database.
type AppConfig struct {
	Name string `yaml:"name"`
}

// KafkaConfig holds the source topic settings.
type KafkaConfig struct {
	Brokers         []string      `yaml:"brokers"`
	Topic           string        `yaml:"topic"`
	StartingOffsets string        `yaml:"starting_offsets"` // "earliest" or "latest", used when no checkpoint exists
	FetchMaxWait    time.Duration `yaml:"fetch_max_wait"`
}

// DBConfig holds the PostgreSQL connection.
type DBConfig struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	Name           string        `yaml:"name"`
	User           string        `yaml:"user"`
	Password       string        `yaml:"password"`
	SSLMode        string        `yaml:"ssl_mode"`
	MaxConns       int           `yaml:"max_conns"`
	MinConns       int           `yaml:"min_conns"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

// LogValue reports connection settings without the password.
func (db DBConfig) LogValue() slog.Value {
	password := "not set"
	if db.Password != "" {
		password = "set"
	}
	return slog.GroupValue(
		slog.String("host", db.Host),
		slog.Int("port", db.Port),
		slog.String("database", db.Name),
		slog.String("user", db.User),
		slog.String("password", password),
	)
}

// SinkConfig holds batch sink settings.
type SinkConfig struct {
	ErrorPolicy  string        `yaml:"error_policy"` // "best_effort" or "fail_fast"
	Diagnostics  string        `yaml:"diagnostics"`  // "all", "sample" or "none"
	SampleSize   int           `yaml:"sample_size"`
	CreateTable  *bool         `yaml:"create_table"`
	WriteTimeout time.Duration `yaml:"write_timeout"` // 0 = no timeout
}

// CreateTableEnabled reports whether the table should be created at startup.
func (s SinkConfig) CreateTableEnabled() bool {
	return s.CreateTable == nil || *s.CreateTable
}

// StreamConfig holds micro-batch loop settings.
type StreamConfig struct {
	MaxRecordsPerBatch int           `yaml:"max_records_per_batch"`
	TriggerInterval    time.Duration `yaml:"trigger_interval"`
}

// CheckpointConfig holds the local progress store location.
type CheckpointConfig struct {
	Dir string `yaml:"dir"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`    // "text" or "json"
	FilePath string `yaml:"file_path"` // optional rotating log file
}

// MetricsConfig holds Prometheus metrics settings.
type MetricsConfig struct {
	Port int    `yaml:"port"`
	Path string `yaml:"path"`
}
