package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/moffa90/go-partgrow/grow"
	"github.com/moffa90/go-partgrow/ptable"
)

// Config is the simulator configuration, loaded from the file named by
// --config. There is no discovery and no fallback location.
type Config struct {
	// Table is the path of the candidate partition table binary.
	Table string `yaml:"table"`

	// Target selects the flash the table is written to. Exactly one of
	// Image and Serial must be set.
	Target TargetConfig `yaml:"target"`

	// Region locates the table in flash.
	Region RegionConfig `yaml:"region"`

	// Retry bounds the erase, write and verify sequence.
	Retry RetryConfig `yaml:"retry"`

	// Slot configures the slot guard and the simulated bootloader.
	Slot SlotConfig `yaml:"slot"`

	// SuccessDelay is the pause after a successful update before the
	// simulated reboot.
	SuccessDelay time.Duration `yaml:"success_delay"`
}

// TargetConfig selects the flash driver.
type TargetConfig struct {
	Image  *ImageConfig  `yaml:"image,omitempty"`
	Serial *SerialConfig `yaml:"serial,omitempty"`
}

// ImageConfig is a file-backed flash image.
type ImageConfig struct {
	Path string `yaml:"path"`

	// Size is the flash size in bytes. The file is extended with 0xFF
	// to this size when shorter.
	Size int `yaml:"size"`
}

// SerialConfig is a flash stub reachable over a UART.
type SerialConfig struct {
	Port     string        `yaml:"port"`
	BaudRate int           `yaml:"baud_rate"`
	Timeout  time.Duration `yaml:"timeout"`
}

// RegionConfig mirrors ptable.Region.
type RegionConfig struct {
	Address          uint32 `yaml:"address"`
	LogicalSize      uint32 `yaml:"logical_size"`
	EraseAlignedSize uint32 `yaml:"erase_aligned_size"`
}

// RetryConfig mirrors grow.RetryPolicy.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	Delay       time.Duration `yaml:"delay"`
}

// SlotConfig configures the slot guard and the simulated bootloader.
type SlotConfig struct {
	// Required is "a", "b" or "any".
	Required string `yaml:"required"`

	// Running is the label of the slot the simulated firmware runs from.
	Running string `yaml:"running"`

	// RollbackPossible is what the simulated bootloader reports.
	RollbackPossible bool `yaml:"rollback_possible"`
}

// DefaultConfig returns the defaults that a config file overrides.
func DefaultConfig() *Config {
	region := ptable.DefaultRegion()
	retry := grow.DefaultRetryPolicy()
	return &Config{
		Region: RegionConfig{
			Address:          region.Address,
			LogicalSize:      region.LogicalSize,
			EraseAlignedSize: region.EraseAlignedSize,
		},
		Retry: RetryConfig{
			MaxAttempts: retry.MaxAttempts,
			Delay:       retry.Delay,
		},
		Slot: SlotConfig{
			Required: "any",
			Running:  "app0",
		},
		SuccessDelay: time.Second,
	}
}

// LoadConfig reads path over the defaults. The result is not validated.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("--config is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Table == "" {
		errs = append(errs, errors.New("table is required"))
	}

	switch {
	case c.Target.Image == nil && c.Target.Serial == nil:
		errs = append(errs, errors.New("target: one of image or serial is required"))
	case c.Target.Image != nil && c.Target.Serial != nil:
		errs = append(errs, errors.New("target: image and serial are mutually exclusive"))
	case c.Target.Image != nil:
		if c.Target.Image.Path == "" {
			errs = append(errs, errors.New("target.image.path is required"))
		}
		if c.Target.Image.Size <= 0 {
			errs = append(errs, errors.New("target.image.size must be positive"))
		}
	case c.Target.Serial != nil:
		if c.Target.Serial.Port == "" {
			errs = append(errs, errors.New("target.serial.port is required"))
		}
		if c.Target.Serial.BaudRate <= 0 {
			errs = append(errs, errors.New("target.serial.baud_rate must be positive"))
		}
	}

	if err := c.region().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("region: %w", err))
	}
	if c.Target.Image != nil {
		end := int64(c.Region.Address) + int64(c.Region.EraseAlignedSize)
		if end > int64(c.Target.Image.Size) {
			errs = append(errs, fmt.Errorf("region ends at 0x%X, beyond image size 0x%X", end, c.Target.Image.Size))
		}
	}

	if c.Retry.MaxAttempts < 1 {
		errs = append(errs, errors.New("retry.max_attempts must be at least 1"))
	}
	if c.Retry.Delay < 0 {
		errs = append(errs, errors.New("retry.delay must not be negative"))
	}
	if c.SuccessDelay < 0 {
		errs = append(errs, errors.New("success_delay must not be negative"))
	}

	if _, err := grow.ParseSlotRequirement(c.Slot.Required); err != nil {
		errs = append(errs, fmt.Errorf("slot.required: %w", err))
	}
	if c.Slot.Running == "" {
		errs = append(errs, errors.New("slot.running is required"))
	}

	return errors.Join(errs...)
}

func (c *Config) region() ptable.Region {
	return ptable.Region{
		Address:          c.Region.Address,
		LogicalSize:      c.Region.LogicalSize,
		EraseAlignedSize: c.Region.EraseAlignedSize,
	}
}

// options converts the configuration into updater options. Validate must
// have passed.
func (c *Config) options() []grow.Option {
	required, _ := grow.ParseSlotRequirement(c.Slot.Required)
	return []grow.Option{
		grow.WithRegion(c.region()),
		grow.WithRetryPolicy(grow.RetryPolicy{
			MaxAttempts: c.Retry.MaxAttempts,
			Delay:       c.Retry.Delay,
		}),
		grow.WithSlotRequirement(required),
	}
}
