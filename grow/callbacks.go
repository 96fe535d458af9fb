package grow

import "time"

// Phase names the step the updater is in.
type Phase string

const (
	PhaseValidating   Phase = "validating"
	PhaseScanning     Phase = "scanning"
	PhaseCheckingSlot Phase = "checking_slot"
	PhaseErasing      Phase = "erasing"
	PhaseWriting      Phase = "writing"
	PhaseVerifying    Phase = "verifying"
	PhaseComplete     Phase = "complete"
)

// Progress contains information about the update progress.
// Passed to ProgressCallback as the updater moves between phases.
type Progress struct {
	// Phase is the step about to run
	Phase Phase

	// Attempt is the current replace attempt (1-based), zero before replacing
	Attempt int

	// MaxAttempts is the replace attempt budget
	MaxAttempts int

	// Percentage is the completion percentage (0.0 to 100.0)
	Percentage float64

	// ElapsedTime is the time elapsed since the update started
	ElapsedTime time.Duration
}

// ProgressCallback is called as the update moves between phases.
// Implementations should return quickly; the update is blocked meanwhile.
//
// Example:
//
//	u := grow.New(drv, slots, table,
//	    grow.WithProgressCallback(func(p grow.Progress) {
//	        fmt.Printf("[%s] attempt %d/%d\n", p.Phase, p.Attempt, p.MaxAttempts)
//	    }),
//	)
type ProgressCallback func(Progress)

// Logger is an optional logging interface that can be provided to the updater.
// This allows integration with any logging framework.
//
// Example with log/slog:
//
//	type slogLogger struct{ l *slog.Logger }
//	func (s slogLogger) Debug(msg string, kv ...interface{}) { s.l.Debug(msg, kv...) }
//	func (s slogLogger) Info(msg string, kv ...interface{})  { s.l.Info(msg, kv...) }
//	func (s slogLogger) Error(msg string, kv ...interface{}) { s.l.Error(msg, kv...) }
type Logger interface {
	// Debug logs a debug message with optional key-value pairs
	Debug(msg string, keysAndValues ...interface{})

	// Info logs an info message with optional key-value pairs
	Info(msg string, keysAndValues ...interface{})

	// Error logs an error message with optional key-value pairs
	Error(msg string, keysAndValues ...interface{})
}

// Waiter blocks the caller between replace attempts. A timer-based sleep and
// a cooperative scheduler's sleep both satisfy it.
type Waiter interface {
	Wait(d time.Duration)
}

// WaiterFunc adapts a function to Waiter.
type WaiterFunc func(d time.Duration)

func (f WaiterFunc) Wait(d time.Duration) { f(d) }

// sleepWaiter waits with time.Sleep.
type sleepWaiter struct{}

func (sleepWaiter) Wait(d time.Duration) { time.Sleep(d) }
