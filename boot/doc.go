// Package boot applies the boot-time policy around a partition table update.
//
// The update is attempted once per boot. Whatever the result, the device then
// leaves the running image: it marks the image invalid and rolls back when the
// bootloader allows it, or restarts otherwise. On success a short delay lets
// logs drain first.
//
// Basic usage:
//
//	u := grow.New(drv, ctrl, table, grow.WithLogger(logger))
//	res := boot.Run(u, ctrl, boot.WithLogger(logger))
//	// not reached on hardware: the controller reboots
package boot
