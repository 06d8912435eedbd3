package runner

import (
	"time"

	"github.com/kvasir-sec/reflectix/pkg/config"
)

// Options holds all configuration options for the runner
type Options struct {
	// Scanning
	Concurrency int
	Timeout     time.Duration
	Proxy       string
	Headers     []string
	RateLimit   float64

	// Attack configuration
	AttackLevel int
	DoPost      bool
	Data        string

	// Fingerprinting
	Fingerprint bool

	// Output
	OutputFormat string
	Verbose      bool
	VeryVerbose  bool
	Silent       bool
}

// DefaultOptions returns a new Options struct with default values
func DefaultOptions() *Options {
	return &Options{
		Concurrency:  config.DefaultConcurrency,
		Timeout:      config.DefaultTimeout,
		AttackLevel:  config.DefaultAttackLevel,
		OutputFormat: "human",
	}
}

// VerboseLevel collapses the two verbosity flags into the level the
// logger expects.
func (o *Options) VerboseLevel() int {
	switch {
	case o.VeryVerbose:
		return 2
	case o.Verbose:
		return 1
	default:
		return 0
	}
}
