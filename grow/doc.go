// Package grow replaces a device's partition table at boot so application
// partitions can be enlarged after manufacture.
//
// # Overview
//
// The replacement is destructive and runs before the application starts, so
// it is guarded in a fixed order:
//   - Validate: the candidate has the expected size and magic marker
//   - Scan: flash is compared with the candidate; a match ends the run
//     without touching flash, which makes the procedure idempotent
//   - CheckSlot: only the permitted firmware slot may proceed
//   - Replace: erase, write and read-back verify, retried as one unit
//
// # Basic Usage
//
//	table, err := ptable.Load("partitions.bin")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	u := grow.New(drv, slots, table,
//	    grow.WithSlotRequirement(grow.SlotAny),
//	    grow.WithRetryPolicy(grow.RetryPolicy{MaxAttempts: 10, Delay: 100 * time.Millisecond}),
//	)
//	if !u.Run() {
//	    // leave the decision to the boot policy
//	}
//
// Update returns the Outcome and the classified error for callers that need
// more than a boolean.
//
// # Unreadable Flash
//
// A read failure during the scan does not stop the update. The existing
// table cannot be trusted to match, so the run continues to the slot check
// and the replace engine, whose read-back verification is the final word.
//
// # Error Handling
//
// The package provides structured error types:
//   - ValidationError: bad size, magic or region; never retried
//   - SlotDeniedError: wrong running slot; never retried
//   - ReplaceError: every attempt failed; wraps the flash package error
//     (EraseError, WriteError, ReadError, VerifyMismatchError) of the last one
//
// # Concurrency
//
// The run is synchronous and cannot be cancelled: aborting between an erase
// and a write would leave the table blank. The only pause is the Waiter
// between attempts.
package grow
