package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all run settings, populated from environment variables.
type Config struct {
	CenterLat float32
	CenterLon float32
	AreaKm2   float32

	// Years are processed over [YearStart, YearEnd).
	YearStart int
	YearEnd   int

	DataDir        string
	OutputDir      string
	OutputTruncate bool
	Workers        int

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Kafka summary publishing.
	KafkaBrokers      []string
	KafkaEnabled      bool
	KafkaSummaryTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	lat, err := envFloat32("CENTER_LAT", "59.9323673548189")
	if err != nil {
		return nil, err
	}
	lon, err := envFloat32("CENTER_LON", "10.984623367099006")
	if err != nil {
		return nil, err
	}
	area, err := envFloat32("AREA_KM2", "10")
	if err != nil {
		return nil, err
	}
	yearStart, err := envInt("YEAR_START", "2001")
	if err != nil {
		return nil, err
	}
	yearEnd, err := envInt("YEAR_END", "2023")
	if err != nil {
		return nil, err
	}
	workers, err := envInt("WORKERS", "1")
	if err != nil {
		return nil, err
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		brokers = sharedcfg.ParseBrokers(raw)
	}
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		CenterLat:      lat,
		CenterLon:      lon,
		AreaKm2:        area,
		YearStart:      yearStart,
		YearEnd:        yearEnd,
		DataDir:        sharedcfg.EnvOrDefault("DATA_DIR", "data"),
		OutputDir:      sharedcfg.EnvOrDefault("OUTPUT_DIR", "."),
		OutputTruncate: os.Getenv("OUTPUT_TRUNCATE") == "true",
		Workers:        workers,

		HTTPAddr:        os.Getenv("HTTP_ADDR"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "text"),
		ShutdownTimeout: shutdownTimeout,

		KafkaBrokers:      brokers,
		KafkaEnabled:      kafkaEnabled,
		KafkaSummaryTopic: sharedcfg.EnvOrDefault("KAFKA_SUMMARY_TOPIC", "lightning-year-summaries"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints. It is called by Load and again by
// the CLI after flag overrides are applied.
func (c *Config) Validate() error {
	if c.CenterLat < -90 || c.CenterLat > 90 {
		return errors.New("CENTER_LAT must be within [-90, 90]")
	}
	if c.CenterLon < -180 || c.CenterLon > 180 {
		return errors.New("CENTER_LON must be within [-180, 180]")
	}
	if !(c.AreaKm2 > 0) {
		return errors.New("AREA_KM2 must be positive")
	}
	if c.YearStart >= c.YearEnd {
		return fmt.Errorf("YEAR_START (%d) must be before YEAR_END (%d)", c.YearStart, c.YearEnd)
	}
	if c.Workers < 1 {
		return errors.New("WORKERS must be at least 1")
	}
	if c.DataDir == "" {
		return errors.New("DATA_DIR is required")
	}
	if c.KafkaEnabled && len(c.KafkaBrokers) == 0 {
		return errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if c.KafkaEnabled && c.KafkaSummaryTopic == "" {
		return errors.New("KAFKA_SUMMARY_TOPIC is required")
	}
	return nil
}

func envFloat32(key, def string) (float32, error) {
	s := sharedcfg.EnvOrDefault(key, def)
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return float32(v), nil
}

func envInt(key, def string) (int, error) {
	s := sharedcfg.EnvOrDefault(key, def)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
