package grow

import (
	"fmt"
	"time"

	"github.com/moffa90/go-partgrow/flash"
	"github.com/moffa90/go-partgrow/ptable"
)

// testFlashSize covers the default region at 0x8000 with room to spare.
const testFlashSize = 0x10000

// testTable returns a 3072-byte candidate: magic followed by arbitrary
// descriptor bytes.
func testTable() ptable.Table {
	t := make(ptable.Table, ptable.DefaultLogicalSize)
	t[0], t[1] = ptable.Magic[0], ptable.Magic[1]
	for i := 2; i < len(t); i++ {
		t[i] = byte(i*31 + 7)
	}
	return t
}

// runningSlot returns a querier that always reports s.
func runningSlot(s Slot) SlotQuerier {
	return SlotQuerierFunc(func() Slot { return s })
}

// recordingWaiter records waits instead of sleeping.
type recordingWaiter struct {
	waits []time.Duration
}

func (w *recordingWaiter) Wait(d time.Duration) {
	w.waits = append(w.waits, d)
}

// MockLogger records messages by level.
type MockLogger struct {
	debugMsgs []string
	infoMsgs  []string
	errorMsgs []string
	errorKVs  [][]interface{}
}

func (l *MockLogger) Debug(msg string, kv ...interface{}) {
	l.debugMsgs = append(l.debugMsgs, msg)
}

func (l *MockLogger) Info(msg string, kv ...interface{}) {
	l.infoMsgs = append(l.infoMsgs, msg)
}

func (l *MockLogger) Error(msg string, kv ...interface{}) {
	l.errorMsgs = append(l.errorMsgs, msg)
	l.errorKVs = append(l.errorKVs, kv)
}

// kinds returns the "kind" value of every error log entry.
func (l *MockLogger) kinds() []string {
	var out []string
	for _, kv := range l.errorKVs {
		for i := 0; i+1 < len(kv); i += 2 {
			if kv[i] == "kind" {
				out = append(out, fmt.Sprint(kv[i+1]))
			}
		}
	}
	return out
}

// lyingEraser reports success for the first n erases without erasing.
type lyingEraser struct {
	*flash.Memory
	n int
}

func (d *lyingEraser) EraseRegion(addr uint32, size uint32) error {
	if d.n > 0 {
		d.n--
		return nil
	}
	return d.Memory.EraseRegion(addr, size)
}

// failOn returns a fault hook failing op on the listed call numbers.
func failOn(target flash.Op, calls ...int) flash.FaultFunc {
	return func(op flash.Op, call int, addr uint32, size int) error {
		if op != target {
			return nil
		}
		for _, c := range calls {
			if c == call {
				return fmt.Errorf("injected %s fault on call %d", op, call)
			}
		}
		return nil
	}
}

// failAlways returns a fault hook failing every call of op.
func failAlways(target flash.Op) flash.FaultFunc {
	return func(op flash.Op, call int, addr uint32, size int) error {
		if op == target {
			return fmt.Errorf("injected %s fault", op)
		}
		return nil
	}
}
