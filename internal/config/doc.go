// Package config handles processor configuration.
//
// Configuration comes from an optional YAML file, which supports ${VAR}
// syntax for environment variable interpolation, overlaid with the
// environment variables the processor is deployed with (KAFKA_SERVER,
// KAFKA_TOPIC, POSTGRESQL_*, CUSTOM_LOG_LEVEL, CHECKPOINT_DIR, METRICS_PORT).
package config
