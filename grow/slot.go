package grow

import "fmt"

// Slot identifies the running firmware image. Index is the OTA slot number
// or -1 when only the partition label is known.
type Slot struct {
	Index int
	Label string
}

// SlotByIndex returns a Slot known by OTA index.
func SlotByIndex(index int) Slot {
	return Slot{Index: index, Label: fmt.Sprintf("app%d", index)}
}

// SlotByLabel returns a Slot known only by partition label.
func SlotByLabel(label string) Slot {
	return Slot{Index: -1, Label: label}
}

func (s Slot) String() string {
	if s.Index < 0 {
		return s.Label
	}
	return fmt.Sprintf("%s (ota_%d)", s.Label, s.Index)
}

// SlotRequirement is the slot permitted to perform the replacement.
type SlotRequirement int

const (
	SlotA SlotRequirement = iota
	SlotB
	SlotAny
)

func (r SlotRequirement) String() string {
	switch r {
	case SlotA:
		return "slot A"
	case SlotB:
		return "slot B"
	case SlotAny:
		return "any slot"
	default:
		return fmt.Sprintf("slot requirement %d", int(r))
	}
}

// label is the partition label of the required slot.
func (r SlotRequirement) label() string {
	return fmt.Sprintf("app%d", int(r))
}

// Allows reports whether a running slot satisfies the requirement. Slots are
// compared by index when known, otherwise by label.
func (r SlotRequirement) Allows(s Slot) bool {
	switch r {
	case SlotAny:
		return true
	case SlotA, SlotB:
		if s.Index >= 0 {
			return s.Index == int(r)
		}
		return s.Label == r.label()
	default:
		return false
	}
}

// ParseSlotRequirement accepts "a", "b", "any" and the labels "app0", "app1".
func ParseSlotRequirement(s string) (SlotRequirement, error) {
	switch s {
	case "a", "A", "app0", "ota_0":
		return SlotA, nil
	case "b", "B", "app1", "ota_1":
		return SlotB, nil
	case "any", "":
		return SlotAny, nil
	default:
		return SlotAny, fmt.Errorf("unknown slot requirement %q", s)
	}
}

// SlotQuerier reports the slot the current firmware is executing from.
type SlotQuerier interface {
	RunningSlot() Slot
}

// SlotQuerierFunc adapts a function to SlotQuerier.
type SlotQuerierFunc func() Slot

func (f SlotQuerierFunc) RunningSlot() Slot { return f() }

// CheckSlot queries the running slot and compares it to required. The
// running slot is returned in both cases so callers can log it.
func CheckSlot(required SlotRequirement, slots SlotQuerier) (Slot, error) {
	running := slots.RunningSlot()
	if !required.Allows(running) {
		return running, &SlotDeniedError{Required: required, Actual: running}
	}
	return running, nil
}
