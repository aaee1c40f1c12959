// Package config holds the runtime parameters that govern a hazptr
// reclamation scheme: how often a goroutine attempts a scan and what
// triggers the count towards that threshold. Parameters are evaluated
// once, at Global construction, and never change afterwards — a
// goroutine does not reconfigure mid-flight.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// ThresholdEnvVar is read once at process start to override the default
// scan threshold. Absent or unparsable, DefaultThreshold applies.
const ThresholdEnvVar = "HAZPTR_SCAN_THRESHOLD"

// DefaultThreshold is the number of counted operations that triggers a
// scan when no override is present.
const DefaultThreshold = 100

// CountMode selects what increments a State's operation counter towards
// Threshold.
type CountMode int

const (
	// ByRetire counts every retire call. This is the default: useful when
	// retirements are the dominant event and protections are comparatively
	// rare.
	ByRetire CountMode = iota
	// ByRelease counts every Guard release instead. Useful when
	// retirements are rare but protect/release cycles are frequent, so
	// scans still happen on a healthy cadence.
	ByRelease
)

func (m CountMode) String() string {
	switch m {
	case ByRetire:
		return "by-retire"
	case ByRelease:
		return "by-release"
	default:
		return "unknown"
	}
}

// GarbagePolicy selects where an exiting goroutine's undrained retired
// records go.
type GarbagePolicy int

const (
	// GlobalAbandon deposits undrained residue on a process-wide abandoned
	// list for another goroutine to finish reclaiming. The default.
	GlobalAbandon GarbagePolicy = iota
	// LocalGarbageOnly leaks undrained residue instead of depositing it;
	// only appropriate when every State is guaranteed to drain itself
	// before exit.
	LocalGarbageOnly
)

// Config is immutable once constructed.
type Config struct {
	Threshold uint32
	CountMode CountMode
	Policy    GarbagePolicy
}

// Option configures a Config during construction, mirroring the
// functional-option builders used throughout this codebase.
type Option func(*Config)

// WithThreshold overrides the scan threshold programmatically. Panics if
// threshold is zero: the threshold is a positive count of operations.
func WithThreshold(threshold uint32) Option {
	if threshold == 0 {
		panic("config: threshold must be greater than 0")
	}
	return func(c *Config) { c.Threshold = threshold }
}

// WithCountMode overrides the default by-retire counting mode.
func WithCountMode(mode CountMode) Option {
	return func(c *Config) { c.CountMode = mode }
}

// WithGarbagePolicy overrides the default global-abandon policy.
func WithGarbagePolicy(policy GarbagePolicy) Option {
	return func(c *Config) { c.Policy = policy }
}

// FromEnv builds the default Config, honoring HAZPTR_SCAN_THRESHOLD, then
// applies opts on top.
func FromEnv(opts ...Option) Config {
	cfg := Config{
		Threshold: thresholdFromEnv(),
		CountMode: ByRetire,
		Policy:    GlobalAbandon,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func thresholdFromEnv() uint32 {
	raw, ok := os.LookupEnv(ThresholdEnvVar)
	if !ok {
		return DefaultThreshold
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || v == 0 {
		return DefaultThreshold
	}
	return uint32(v)
}

func (c Config) String() string {
	return fmt.Sprintf("Config{threshold=%d, countMode=%s}", c.Threshold, c.CountMode)
}
