package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress         string
	DatabaseURI        string
	AuthSecret         string
	AdminKeyHash       string
	AMQPURL            string
	SweepInterval      time.Duration
	RetentionWindow    time.Duration
	SweepBatchSize     int
	SweepWorkers       int
	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	ShutdownTimeout    time.Duration
}

const (
	defaultRunAddress         = ":8080"
	defaultAuthSecret         = "change-me-in-production"
	defaultSweepInterval      = 24 * time.Hour
	defaultRetentionWindow    = 30 * 24 * time.Hour
	defaultSweepBatchSize     = 64
	defaultSweepWorkers       = 2
	defaultOutboxPollInterval = 5 * time.Second
	defaultOutboxBatchSize    = 100
	defaultShutdownTimeout    = 10 * time.Second
)

// Load parses configuration from flags and environment variables.
// A .env file in the working directory is picked up when present.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:         getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:        getString(lookup, "DATABASE_URI", ""),
		AuthSecret:         getString(lookup, "AUTH_SECRET", defaultAuthSecret),
		AdminKeyHash:       getString(lookup, "ADMIN_KEY_HASH", ""),
		AMQPURL:            getString(lookup, "AMQP_URL", ""),
		SweepInterval:      getDuration(lookup, "SWEEP_INTERVAL", defaultSweepInterval),
		RetentionWindow:    getDuration(lookup, "RETENTION_WINDOW", defaultRetentionWindow),
		SweepBatchSize:     getInt(lookup, "SWEEP_BATCH_SIZE", defaultSweepBatchSize),
		SweepWorkers:       getInt(lookup, "SWEEP_WORKERS", defaultSweepWorkers),
		OutboxPollInterval: getDuration(lookup, "OUTBOX_POLL_INTERVAL", defaultOutboxPollInterval),
		OutboxBatchSize:    getInt(lookup, "OUTBOX_BATCH_SIZE", defaultOutboxBatchSize),
		ShutdownTimeout:    getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("marketplace", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		sweepIntervalStr   = cfg.SweepInterval.String()
		retentionWindowStr = cfg.RetentionWindow.String()
		outboxIntervalStr  = cfg.OutboxPollInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "Secret for signing identity tokens")
	fs.StringVar(&cfg.AdminKeyHash, "admin-key-hash", cfg.AdminKeyHash, "bcrypt hash of the admin API key")
	fs.StringVar(&cfg.AMQPURL, "amqp-url", cfg.AMQPURL, "AMQP broker URL for outbox events (optional)")
	fs.StringVar(&sweepIntervalStr, "sweep-interval", sweepIntervalStr, "Interval between archive sweeps")
	fs.StringVar(&retentionWindowStr, "retention-window", retentionWindowStr, "Age after which terminal orders are archived")
	fs.IntVar(&cfg.SweepBatchSize, "sweep-batch", cfg.SweepBatchSize, "Maximum orders per sweep batch")
	fs.IntVar(&cfg.SweepWorkers, "sweep-workers", cfg.SweepWorkers, "Number of concurrent archive workers")
	fs.StringVar(&outboxIntervalStr, "outbox-poll-interval", outboxIntervalStr, "Interval between outbox dispatch polls")
	fs.IntVar(&cfg.OutboxBatchSize, "outbox-batch", cfg.OutboxBatchSize, "Maximum events per outbox dispatch batch")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.SweepInterval, err = time.ParseDuration(sweepIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid sweep interval: %w", err)
	}

	if cfg.RetentionWindow, err = time.ParseDuration(retentionWindowStr); err != nil {
		return nil, fmt.Errorf("invalid retention window: %w", err)
	}

	if cfg.OutboxPollInterval, err = time.ParseDuration(outboxIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid outbox poll interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("AUTH_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read auth secret file: %w", err)
		}
		cfg.AuthSecret = string(content)
	}

	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = defaultSweepInterval
	}

	if cfg.RetentionWindow <= 0 {
		cfg.RetentionWindow = defaultRetentionWindow
	}

	if cfg.SweepBatchSize <= 0 {
		cfg.SweepBatchSize = defaultSweepBatchSize
	}

	if cfg.SweepWorkers <= 0 {
		cfg.SweepWorkers = defaultSweepWorkers
	}

	if cfg.OutboxPollInterval <= 0 {
		cfg.OutboxPollInterval = defaultOutboxPollInterval
	}

	if cfg.OutboxBatchSize <= 0 {
		cfg.OutboxBatchSize = defaultOutboxBatchSize
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
