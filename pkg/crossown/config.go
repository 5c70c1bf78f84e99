package crossown

import (
	"fmt"
	"log/slog"

	"github.com/hsiuhsiu/crossown-go/pkg/crossown/keepalive"
	"github.com/hsiuhsiu/crossown-go/pkg/crossown/logging"
)

// Config expresses the knobs used by Open. The zero value is usable.
type Config struct {
	// LogLevel is one of debug, info, warn or error. Empty means info. The
	// CROSSOWN_LOG_LEVEL environment variable takes precedence.
	LogLevel string

	// Logger replaces the default slog-backed logger. LogLevel is ignored
	// when it is set.
	Logger logging.Logger

	// Shards is the keep-alive registry shard count, rounded up to a power of
	// two. Zero selects keepalive.DefaultShards.
	Shards int

	// TombstoneLimit bounds how many finalized patients are remembered. Zero
	// selects keepalive.DefaultTombstoneLimit.
	TombstoneLimit int

	// HolderFile, when set, is a TOML file of per-type holder declarations
	// loaded at Open.
	HolderFile string
}

// Validate checks the configuration without touching the filesystem.
func (c Config) Validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Shards < 0 {
		return fmt.Errorf("%w: shards must not be negative (got %d)", ErrInvalidConfig, c.Shards)
	}
	if c.TombstoneLimit < 0 {
		return fmt.Errorf("%w: tombstone limit must not be negative (got %d)", ErrInvalidConfig, c.TombstoneLimit)
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.Shards == 0 {
		c.Shards = keepalive.DefaultShards
	}
	if c.TombstoneLimit == 0 {
		c.TombstoneLimit = keepalive.DefaultTombstoneLimit
	}
	return c
}

func (c Config) logger() logging.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	lvl, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		lvl = slog.LevelInfo
	}
	lvl = logging.LevelFromEnv(lvl)
	return logging.New(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: lvl})))
}
