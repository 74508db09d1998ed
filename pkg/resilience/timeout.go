package resilience

import (
	"context"
	"time"
)

// TimeoutConfig defines the timeout hierarchy for one gateway command
//
//	Command (45s)
//	  ↓
//	External API (30s - gateway post)
//
// The command deadline must outlive the post so a slow gateway still
// produces a connection-error result instead of a cancelled command.
type TimeoutConfig struct {
	Command     time.Duration // Whole command: build, post, parse (default: 45s)
	ExternalAPI time.Duration // Single gateway post (default: 30s)
}

// DefaultTimeoutConfig returns production timeout values
func DefaultTimeoutConfig() *TimeoutConfig {
	return &TimeoutConfig{
		Command:     45 * time.Second,
		ExternalAPI: 30 * time.Second,
	}
}

// WithExternalAPI returns a copy whose post timeout is d. The command
// timeout grows to keep a margin above it.
func (tc *TimeoutConfig) WithExternalAPI(d time.Duration) *TimeoutConfig {
	out := *tc
	out.ExternalAPI = d
	if minCommand := d + d/2; out.Command < minCommand {
		out.Command = minCommand
	}
	return &out
}

// CommandContext creates a context with timeout for a whole command
func (tc *TimeoutConfig) CommandContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, tc.Command)
}
