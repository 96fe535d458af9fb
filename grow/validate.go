package grow

import (
	"fmt"

	"github.com/moffa90/go-partgrow/ptable"
)

// Validate checks a candidate table against the region it will be written
// to. It touches no flash and must pass before anything else runs.
func Validate(table ptable.Table, region ptable.Region) error {
	if err := region.Validate(); err != nil {
		return &ValidationError{Reason: fmt.Sprintf("region %s: %v", region, err)}
	}
	if len(table) != int(region.LogicalSize) {
		return &ValidationError{
			Reason: fmt.Sprintf("table is %d bytes, expected %d", len(table), region.LogicalSize),
		}
	}
	if !table.HasMagic() {
		return &ValidationError{
			Reason: fmt.Sprintf("incorrect magic number 0x%02X%02X", table[0], table[1]),
		}
	}
	return nil
}
