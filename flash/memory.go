package flash

import "sync"

// FaultFunc decides whether a driver call fails. call is the 1-based count
// of calls of that operation so far, including this one. A nil return lets
// the call proceed.
type FaultFunc func(op Op, call int, addr uint32, size int) error

// Memory is an in-memory NOR flash. Erase sets bytes to 0xFF and writes
// AND the new data into the existing contents, so writing without an erase
// leaves stale bits behind just like the real part.
//
// Memory is safe for concurrent use.
type Memory struct {
	mu     sync.Mutex
	data   []byte
	sector uint32
	calls  map[Op]int
	fault  FaultFunc
}

// NewMemory returns a blank (all 0xFF) flash of size bytes with the default
// sector size.
func NewMemory(size int) *Memory {
	data := make([]byte, size)
	for i := range data {
		data[i] = 0xFF
	}
	return &Memory{
		data:   data,
		sector: DefaultSectorSize,
		calls:  make(map[Op]int),
	}
}

// SetFault installs a fault hook. Pass nil to remove it.
func (m *Memory) SetFault(f FaultFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fault = f
}

// Preset overwrites flash contents directly, bypassing NOR semantics and
// call accounting. It models factory programming.
func (m *Memory) Preset(addr uint32, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := checkSpan(addr, len(data), len(m.data)); err != nil {
		return err
	}
	copy(m.data[addr:], data)
	return nil
}

// Snapshot returns a copy of n bytes at addr without counting as a read.
func (m *Memory) Snapshot(addr uint32, n int) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	if checkSpan(addr, n, len(m.data)) != nil {
		return nil
	}
	out := make([]byte, n)
	copy(out, m.data[addr:])
	return out
}

// Calls returns how many times op has been invoked.
func (m *Memory) Calls(op Op) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

// ResetCalls zeroes the call counters.
func (m *Memory) ResetCalls() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = make(map[Op]int)
}

// Size returns the flash size in bytes.
func (m *Memory) Size() int {
	return len(m.data)
}

// begin records the call and consults the fault hook. Caller holds mu.
func (m *Memory) begin(op Op, addr uint32, size int) error {
	m.calls[op]++
	if m.fault != nil {
		return m.fault(op, m.calls[op], addr, size)
	}
	return nil
}

func (m *Memory) EraseRegion(addr uint32, size uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.begin(OpErase, addr, int(size)); err != nil {
		return err
	}
	if err := checkEraseAlignment(addr, size, m.sector); err != nil {
		return err
	}
	if err := checkSpan(addr, int(size), len(m.data)); err != nil {
		return err
	}
	region := m.data[addr : addr+size]
	for i := range region {
		region[i] = 0xFF
	}
	return nil
}

func (m *Memory) WriteRegion(addr uint32, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.begin(OpWrite, addr, len(data)); err != nil {
		return err
	}
	if err := checkSpan(addr, len(data), len(m.data)); err != nil {
		return err
	}
	for i, b := range data {
		m.data[int(addr)+i] &= b
	}
	return nil
}

func (m *Memory) ReadRegion(addr uint32, buf []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.begin(OpRead, addr, len(buf)); err != nil {
		return err
	}
	if err := checkSpan(addr, len(buf), len(m.data)); err != nil {
		return err
	}
	copy(buf, m.data[addr:])
	return nil
}
