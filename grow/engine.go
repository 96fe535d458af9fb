package grow

import (
	"sync"

	"github.com/moffa90/go-partgrow/flash"
	"github.com/moffa90/go-partgrow/ptable"
)

// stagingPool recycles region-sized buffers between runs.
var stagingPool sync.Pool

func acquireBuffer(size int) *[]byte {
	if p, ok := stagingPool.Get().(*[]byte); ok && cap(*p) >= size {
		*p = (*p)[:size]
		return p
	}
	b := make([]byte, size)
	return &b
}

func releaseBuffer(p *[]byte) {
	clear(*p)
	stagingPool.Put(p)
}

// Replace writes the candidate into the erase-aligned region. Each attempt
// erases the whole region, writes the 0xFF-padded candidate and reads it
// back; the first attempt whose read-back matches ends the loop. Failed
// attempts are separated by the retry delay. When every attempt fails the
// returned *ReplaceError carries the last failure.
//
// Replace performs no validation or slot check of its own. Callers run it
// through Update, or after Validate and CheckSlot.
func (u *Updater) Replace() error {
	region := u.config.Region
	policy := u.config.Retry
	size := int(region.EraseAlignedSize)

	staged := acquireBuffer(size)
	defer releaseBuffer(staged)
	readback := acquireBuffer(size)
	defer releaseBuffer(readback)

	buf := *staged
	for i := copy(buf, u.table); i < size; i++ {
		buf[i] = ptable.ErasedByte
	}

	var lastErr error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		if attempt > 1 {
			u.config.Waiter.Wait(policy.Delay)
		}

		u.logInfo("replace attempt", "attempt", attempt, "max_attempts", policy.MaxAttempts)

		lastErr = u.attempt(attempt, buf, *readback)
		if lastErr == nil {
			u.logInfo("wrote new partition table", "attempt", attempt)
			return nil
		}

		u.logError("replace attempt failed",
			"attempt", attempt,
			"kind", errorKind(lastErr),
			"error", lastErr.Error(),
		)
	}

	return &ReplaceError{Attempts: policy.MaxAttempts, Last: lastErr}
}

// attempt runs one erase, write, read-back and compare pass.
func (u *Updater) attempt(attempt int, staged, readback []byte) error {
	region := u.config.Region
	size := len(staged)

	u.reportProgress(PhaseErasing, attempt, 30)
	if err := u.driver.EraseRegion(region.Address, region.EraseAlignedSize); err != nil {
		return &flash.EraseError{Address: region.Address, Size: size, Err: err}
	}

	u.reportProgress(PhaseWriting, attempt, 60)
	if err := u.driver.WriteRegion(region.Address, staged); err != nil {
		return &flash.WriteError{Address: region.Address, Size: size, Err: err}
	}

	u.reportProgress(PhaseVerifying, attempt, 90)
	if err := u.driver.ReadRegion(region.Address, readback); err != nil {
		return &flash.ReadError{Address: region.Address, Size: size, Err: err}
	}
	for i := range staged {
		if readback[i] != staged[i] {
			return &flash.VerifyMismatchError{
				Address:  region.Address + uint32(i),
				Expected: staged[i],
				Actual:   readback[i],
			}
		}
	}
	return nil
}
