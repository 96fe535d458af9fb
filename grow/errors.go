package grow

import "fmt"

// ValidationError indicates that the candidate table or region failed the
// structural checks. It is never retried.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return "invalid partition table"
	}
	return fmt.Sprintf("invalid partition table: %s", e.Reason)
}

// SlotDeniedError indicates that the running slot may not replace the table.
// It is never retried.
type SlotDeniedError struct {
	Required SlotRequirement
	Actual   Slot
}

func (e *SlotDeniedError) Error() string {
	return fmt.Sprintf("slot denied: replacement requires %s, running from %s",
		e.Required, e.Actual)
}

// ReplaceError indicates that every replace attempt failed. Last is the
// failure of the final attempt: a *flash.EraseError, *flash.WriteError,
// *flash.ReadError or *flash.VerifyMismatchError.
type ReplaceError struct {
	Attempts int
	Last     error
}

func (e *ReplaceError) Error() string {
	return fmt.Sprintf("replace failed after %d attempts: %v", e.Attempts, e.Last)
}

func (e *ReplaceError) Unwrap() error { return e.Last }
