// Package worker provides background job processing for the API.
package worker

import (
	"time"
)

// SummaryConfig holds configuration for the review summary job.
type SummaryConfig struct {
	// Concurrency is the number of objects recomputed in parallel.
	// Default: 3
	Concurrency int

	// Timeout is the timeout for recomputing a single object.
	// Default: 30 seconds
	Timeout time.Duration
}

// DefaultSummaryConfig returns the default summary job configuration.
func DefaultSummaryConfig() SummaryConfig {
	return SummaryConfig{
		Concurrency: 3,
		Timeout:     30 * time.Second,
	}
}

// withDefaults fills unset fields with defaults.
func (c SummaryConfig) withDefaults() SummaryConfig {
	def := DefaultSummaryConfig()
	if c.Concurrency <= 0 {
		c.Concurrency = def.Concurrency
	}
	if c.Timeout <= 0 {
		c.Timeout = def.Timeout
	}
	return c
}
