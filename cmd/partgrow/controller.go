package main

import (
	"strconv"
	"strings"

	"github.com/moffa90/go-partgrow/grow"
)

// simController stands in for the bootloader. It logs instead of rebooting.
type simController struct {
	running          grow.Slot
	rollbackPossible bool
	logger           grow.Logger
}

func newSimController(cfg SlotConfig, logger grow.Logger) *simController {
	return &simController{
		running:          parseSlot(cfg.Running),
		rollbackPossible: cfg.RollbackPossible,
		logger:           logger,
	}
}

func (c *simController) RunningSlot() grow.Slot { return c.running }

func (c *simController) RollbackPossible() bool { return c.rollbackPossible }

func (c *simController) MarkInvalidAndRollback() error {
	c.logger.Info("simulated: image marked invalid, rolling back", "slot", c.running.String())
	return nil
}

func (c *simController) Restart() {
	c.logger.Info("simulated: restart")
}

// parseSlot maps "app<N>" and "ota_<N>" to an indexed slot. Anything else
// is known by label only.
func parseSlot(s string) grow.Slot {
	for _, prefix := range []string{"app", "ota_"} {
		if rest, ok := strings.CutPrefix(s, prefix); ok {
			if n, err := strconv.Atoi(rest); err == nil && n >= 0 && n <= 15 {
				return grow.SlotByIndex(n)
			}
		}
	}
	return grow.SlotByLabel(s)
}
