package grow

import (
	"time"

	"github.com/moffa90/go-partgrow/ptable"
)

// RetryPolicy bounds the erase+write+verify sequence, which is retried as
// one unit.
type RetryPolicy struct {
	// MaxAttempts is the number of times the sequence is tried (at least 1)
	MaxAttempts int

	// Delay is the wait between consecutive attempts
	Delay time.Duration
}

// DefaultRetryPolicy returns ten attempts 100ms apart.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 10, Delay: 100 * time.Millisecond}
}

// Config holds the updater configuration.
type Config struct {
	// Region is where the partition table lives
	Region ptable.Region

	// Retry bounds the replace sequence
	Retry RetryPolicy

	// Required is the slot allowed to perform the replacement
	Required SlotRequirement

	// Waiter blocks between attempts
	Waiter Waiter

	// ProgressCallback is called on phase changes (optional)
	ProgressCallback ProgressCallback

	// Logger is used for diagnostics (optional)
	Logger Logger
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Region:   ptable.DefaultRegion(),
		Retry:    DefaultRetryPolicy(),
		Required: SlotAny,
		Waiter:   sleepWaiter{},
	}
}

// Option is a functional option for configuring the Updater.
type Option func(*Config)

// WithRegion overrides the flash region holding the table. The region is
// checked by Validate before any flash access.
func WithRegion(region ptable.Region) Option {
	return func(c *Config) {
		c.Region = region
	}
}

// WithRetryPolicy sets the replace retry policy. Policies with fewer than
// one attempt or a negative delay are ignored.
//
// Example:
//
//	u := grow.New(drv, slots, table, grow.WithRetryPolicy(grow.RetryPolicy{
//	    MaxAttempts: 5,
//	    Delay:       250 * time.Millisecond,
//	}))
func WithRetryPolicy(policy RetryPolicy) Option {
	return func(c *Config) {
		if policy.MaxAttempts >= 1 && policy.Delay >= 0 {
			c.Retry = policy
		}
	}
}

// WithSlotRequirement restricts which running slot may replace the table.
func WithSlotRequirement(required SlotRequirement) Option {
	return func(c *Config) {
		c.Required = required
	}
}

// WithWaiter replaces the time.Sleep based wait between attempts.
func WithWaiter(w Waiter) Option {
	return func(c *Config) {
		if w != nil {
			c.Waiter = w
		}
	}
}

// WithProgressCallback sets a callback function to track update progress.
func WithProgressCallback(callback ProgressCallback) Option {
	return func(c *Config) {
		c.ProgressCallback = callback
	}
}

// WithLogger sets a logger for the updater operations.
//
// Example:
//
//	u := grow.New(drv, slots, table, grow.WithLogger(myLogger))
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}
