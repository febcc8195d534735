package cleanup

import (
	"time"

	"github.com/Soochol/F2X-NeuroHub-sub006/pkg/config"
)

// Config holds cleanup worker configuration, sourced from the central config package.
type Config struct {
	CleanupInterval  time.Duration
	VerboseReporting bool
	EntryIdleTimeout time.Duration
	SnapshotMaxAge   time.Duration
}

// NewConfig creates a new cleanup configuration by reading values
// from the already-initialized variables in the centralized /pkg/config package.
func NewConfig() *Config {
	return &Config{
		CleanupInterval:  config.CleanupInterval,
		VerboseReporting: config.CleanupVerbose,
		EntryIdleTimeout: config.EntryIdleTimeout,
		SnapshotMaxAge:   config.SnapshotMaxAge,
	}
}
