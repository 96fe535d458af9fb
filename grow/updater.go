package grow

import (
	"errors"
	"time"

	"github.com/moffa90/go-partgrow/flash"
	"github.com/moffa90/go-partgrow/ptable"
)

// Outcome is the successful result of an update.
type Outcome int

const (
	// OutcomeFailed accompanies a non-nil error from Update
	OutcomeFailed Outcome = iota

	// OutcomeReplaced means the table was erased, written and verified
	OutcomeReplaced

	// OutcomeAlreadyApplied means flash already held the candidate and was not touched
	OutcomeAlreadyApplied
)

func (o Outcome) String() string {
	switch o {
	case OutcomeReplaced:
		return "replaced"
	case OutcomeAlreadyApplied:
		return "already applied"
	default:
		return "failed"
	}
}

// Updater replaces the partition table once, at boot. It sequences
// validation, the idempotency scan, the slot guard and the replace engine.
//
// An Updater is meant for one synchronous run on one goroutine.
type Updater struct {
	driver flash.Driver
	slots  SlotQuerier
	table  ptable.Table
	config Config
	start  time.Time
}

// New creates an Updater that writes table through driver. slots reports
// the running firmware slot. The table is not copied and must not be
// modified afterwards.
//
// Example:
//
//	u := grow.New(drv, slots, table,
//	    grow.WithSlotRequirement(grow.SlotB),
//	    grow.WithLogger(myLogger),
//	)
//	if !u.Run() {
//	    // escalate: mark invalid and roll back
//	}
func New(driver flash.Driver, slots SlotQuerier, table ptable.Table, opts ...Option) *Updater {
	if driver == nil {
		panic("driver cannot be nil")
	}
	if slots == nil {
		panic("slot querier cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Updater{
		driver: driver,
		slots:  slots,
		table:  table,
		config: cfg,
	}
}

// Config returns the effective configuration.
func (u *Updater) Config() Config {
	return u.config
}

// Run performs the update and reports success. Both a fresh replacement and
// an already-applied table count as success. Failures have been logged.
func (u *Updater) Run() bool {
	_, err := u.Update()
	return err == nil
}

// Update performs the complete sequence:
//  1. Validate the candidate; an invalid candidate fails immediately
//  2. Scan flash; a matching table succeeds without touching flash
//  3. Check the running slot; a denied slot fails without touching flash
//  4. Erase, write and verify with bounded retries
//
// An unreadable scan is treated as a difference: the update proceeds to
// the slot check and the engine, whose read-back verification decides.
func (u *Updater) Update() (Outcome, error) {
	u.start = time.Now()

	u.logInfo("partition table update",
		"region", u.config.Region.String(),
		"required", u.config.Required.String(),
		"candidate_bytes", len(u.table),
		"candidate_digest", ptable.Digest(u.table),
	)

	u.reportProgress(PhaseValidating, 0, 0)
	if err := Validate(u.table, u.config.Region); err != nil {
		u.fail("validation failed", err)
		return OutcomeFailed, err
	}
	u.logLayout()

	u.reportProgress(PhaseScanning, 0, 5)
	scan := Scan(u.driver, u.config.Region, u.table)
	switch scan.Outcome {
	case ScanMatches:
		u.logInfo("partition table already applied")
		u.reportProgress(PhaseComplete, 0, 100)
		return OutcomeAlreadyApplied, nil
	case ScanUnreadable:
		u.logError("existing partition table unreadable, proceeding",
			"kind", errorKind(scan.Err),
			"error", scan.Err.Error(),
		)
	case ScanDiffers:
		if scan.BlankOrForeign {
			u.logInfo("existing partition table missing or at another offset")
		} else {
			u.logInfo("partition table differs", "offset", scan.Offset)
		}
	}

	u.reportProgress(PhaseCheckingSlot, 0, 10)
	running, err := CheckSlot(u.config.Required, u.slots)
	u.logInfo("running from slot", "slot", running.String())
	if err != nil {
		u.fail("wrong running slot", err)
		return OutcomeFailed, err
	}

	if err := u.Replace(); err != nil {
		u.fail("failed to replace partition table", err)
		return OutcomeFailed, err
	}

	u.reportProgress(PhaseComplete, 0, 100)
	u.logInfo("partition table replaced", "elapsed", time.Since(u.start).String())
	return OutcomeReplaced, nil
}

// Validate checks the configured candidate and region.
func (u *Updater) Validate() error {
	return Validate(u.table, u.config.Region)
}

// Scan compares flash with the configured candidate.
func (u *Updater) Scan() ScanResult {
	return Scan(u.driver, u.config.Region, u.table)
}

// CheckSlot applies the configured slot requirement.
func (u *Updater) CheckSlot() (Slot, error) {
	return CheckSlot(u.config.Required, u.slots)
}

// logLayout decodes the candidate for diagnostics. A table that does not
// decode is still written: the gate is Validate.
func (u *Updater) logLayout() {
	if u.config.Logger == nil {
		return
	}
	entries, err := ptable.Parse(u.table)
	if err != nil {
		u.logDebug("candidate layout not decodable", "error", err.Error())
		return
	}
	for _, e := range entries {
		u.logDebug("candidate partition",
			"label", e.Label,
			"type", e.Type,
			"subtype", e.Subtype,
			"offset", e.Offset,
			"size", e.Size,
		)
	}
}

func (u *Updater) fail(msg string, err error) {
	u.logError(msg, "kind", errorKind(err), "error", err.Error())
}

// errorKind classifies an error for the diagnostic channel.
func errorKind(err error) string {
	var (
		validation *ValidationError
		denied     *SlotDeniedError
		readErr    *flash.ReadError
		eraseErr   *flash.EraseError
		writeErr   *flash.WriteError
		verifyErr  *flash.VerifyMismatchError
	)
	switch {
	case errors.As(err, &validation):
		return "validation"
	case errors.As(err, &denied):
		return "slot_denied"
	case errors.As(err, &eraseErr):
		return "erase"
	case errors.As(err, &writeErr):
		return "write"
	case errors.As(err, &readErr):
		return "read"
	case errors.As(err, &verifyErr):
		return "verify"
	default:
		return "unknown"
	}
}

// reportProgress calls the progress callback if configured.
func (u *Updater) reportProgress(phase Phase, attempt int, percentage float64) {
	if u.config.ProgressCallback == nil {
		return
	}
	var elapsed time.Duration
	if !u.start.IsZero() {
		elapsed = time.Since(u.start)
	}
	u.config.ProgressCallback(Progress{
		Phase:       phase,
		Attempt:     attempt,
		MaxAttempts: u.config.Retry.MaxAttempts,
		Percentage:  percentage,
		ElapsedTime: elapsed,
	})
}

// logDebug logs a debug message if a logger is configured.
func (u *Updater) logDebug(msg string, keysAndValues ...interface{}) {
	if u.config.Logger != nil {
		u.config.Logger.Debug(msg, keysAndValues...)
	}
}

// logInfo logs an info message if a logger is configured.
func (u *Updater) logInfo(msg string, keysAndValues ...interface{}) {
	if u.config.Logger != nil {
		u.config.Logger.Info(msg, keysAndValues...)
	}
}

// logError logs an error message if a logger is configured.
func (u *Updater) logError(msg string, keysAndValues ...interface{}) {
	if u.config.Logger != nil {
		u.config.Logger.Error(msg, keysAndValues...)
	}
}
