package boot

import (
	"time"

	"github.com/moffa90/go-partgrow/grow"
)

// DefaultSuccessDelay is the pause after a successful update before the
// device leaves the running image.
const DefaultSuccessDelay = time.Second

// Runner performs the update and reports success.
// *grow.Updater satisfies it.
type Runner interface {
	Run() bool
}

// Controller is the bootloader surface the policy needs.
type Controller interface {
	grow.SlotQuerier

	// RollbackPossible reports whether a previous image can be booted
	RollbackPossible() bool

	// MarkInvalidAndRollback marks the running image invalid and reboots
	// into the previous one. On hardware it only returns on failure.
	MarkInvalidAndRollback() error

	// Restart reboots the device. On hardware it does not return.
	Restart()
}

// Decision is how the device left the running image.
type Decision int

const (
	// DecisionRestart means a plain restart was requested
	DecisionRestart Decision = iota

	// DecisionRollback means the image was marked invalid and rolled back
	DecisionRollback
)

func (d Decision) String() string {
	switch d {
	case DecisionRollback:
		return "rollback"
	case DecisionRestart:
		return "restart"
	default:
		return "unknown"
	}
}

// Result reports what Run did.
type Result struct {
	// Updated is the update result
	Updated bool

	// Decision is how the running image was left
	Decision Decision

	// RollbackErr is set when a possible rollback failed and a restart
	// was requested instead
	RollbackErr error
}

type config struct {
	successDelay time.Duration
	waiter       grow.Waiter
	logger       grow.Logger
}

// Option configures Run.
type Option func(*config)

// WithSuccessDelay overrides the pause after a successful update.
// Negative values are ignored.
func WithSuccessDelay(d time.Duration) Option {
	return func(c *config) {
		if d >= 0 {
			c.successDelay = d
		}
	}
}

// WithWaiter replaces time.Sleep for the success delay.
func WithWaiter(w grow.Waiter) Option {
	return func(c *config) {
		if w != nil {
			c.waiter = w
		}
	}
}

// WithLogger sets a logger for the policy decisions.
func WithLogger(logger grow.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// Run performs the update once, then leaves the running image. A failed
// rollback falls through to a restart.
func Run(updater Runner, ctrl Controller, opts ...Option) Result {
	if updater == nil {
		panic("updater cannot be nil")
	}
	if ctrl == nil {
		panic("controller cannot be nil")
	}

	cfg := config{
		successDelay: DefaultSuccessDelay,
		waiter:       grow.WaiterFunc(time.Sleep),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	res := Result{Updated: updater.Run()}
	if res.Updated {
		cfg.logInfo("partition table update succeeded")
		if cfg.successDelay > 0 {
			cfg.waiter.Wait(cfg.successDelay)
		}
	} else {
		cfg.logError("partition table update failed or was refused")
	}

	if ctrl.RollbackPossible() {
		cfg.logInfo("rollback is possible, rebooting into previous image")
		err := ctrl.MarkInvalidAndRollback()
		if err == nil {
			res.Decision = DecisionRollback
			return res
		}
		res.RollbackErr = err
		cfg.logError("rollback failed", "error", err.Error())
	} else {
		cfg.logInfo("rollback is not possible, rebooting anyway")
	}

	ctrl.Restart()
	res.Decision = DecisionRestart
	return res
}

func (c *config) logInfo(msg string, keysAndValues ...interface{}) {
	if c.logger != nil {
		c.logger.Info(msg, keysAndValues...)
	}
}

func (c *config) logError(msg string, keysAndValues ...interface{}) {
	if c.logger != nil {
		c.logger.Error(msg, keysAndValues...)
	}
}
