package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moffa90/go-partgrow/grow"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, uint32(0x8000), cfg.Region.Address)
	assert.Equal(t, uint32(0xC00), cfg.Region.LogicalSize)
	assert.Equal(t, uint32(0x1000), cfg.Region.EraseAlignedSize)
	assert.Equal(t, 10, cfg.Retry.MaxAttempts)
	assert.Equal(t, 100*time.Millisecond, cfg.Retry.Delay)
	assert.Equal(t, "any", cfg.Slot.Required)
	assert.Equal(t, time.Second, cfg.SuccessDelay)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "partgrow.yaml", `
table: build/partition-table.bin
target:
  image:
    path: flash.bin
    size: 0x400000
region:
  address: 0x9000
retry:
  max_attempts: 3
  delay: 250ms
slot:
  required: b
  running: app1
  rollback_possible: true
success_delay: 0s
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "build/partition-table.bin", cfg.Table)
	require.NotNil(t, cfg.Target.Image)
	assert.Nil(t, cfg.Target.Serial)
	assert.Equal(t, "flash.bin", cfg.Target.Image.Path)
	assert.Equal(t, 0x400000, cfg.Target.Image.Size)

	// unset region fields keep their defaults
	assert.Equal(t, uint32(0x9000), cfg.Region.Address)
	assert.Equal(t, uint32(0xC00), cfg.Region.LogicalSize)
	assert.Equal(t, uint32(0x1000), cfg.Region.EraseAlignedSize)

	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.Retry.Delay)
	assert.Equal(t, "b", cfg.Slot.Required)
	assert.True(t, cfg.Slot.RollbackPossible)
	assert.Equal(t, time.Duration(0), cfg.SuccessDelay)

	require.NoError(t, cfg.Validate())

	applied := grow.New(noopDriver{}, grow.SlotQuerierFunc(func() grow.Slot { return grow.SlotByIndex(1) }), nil, cfg.options()...).Config()
	assert.Equal(t, uint32(0x9000), applied.Region.Address)
	assert.Equal(t, grow.RetryPolicy{MaxAttempts: 3, Delay: 250 * time.Millisecond}, applied.Retry)
	assert.Equal(t, grow.SlotB, applied.Required)
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfig("")
	assert.ErrorContains(t, err, "--config is required")

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "reading config")

	bad := writeFile(t, dir, "bad.yaml", "retry: [1, 2\n")
	_, err = LoadConfig(bad)
	assert.ErrorContains(t, err, "parsing config")
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.Table = "table.bin"
		cfg.Target.Image = &ImageConfig{Path: "flash.bin", Size: 0x10000}
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{
			name:    "missing table",
			mutate:  func(c *Config) { c.Table = "" },
			wantErr: "table is required",
		},
		{
			name:    "no target",
			mutate:  func(c *Config) { c.Target.Image = nil },
			wantErr: "one of image or serial is required",
		},
		{
			name: "both targets",
			mutate: func(c *Config) {
				c.Target.Serial = &SerialConfig{Port: "/dev/ttyUSB0", BaudRate: 115200}
			},
			wantErr: "mutually exclusive",
		},
		{
			name: "serial without baud rate",
			mutate: func(c *Config) {
				c.Target.Image = nil
				c.Target.Serial = &SerialConfig{Port: "/dev/ttyUSB0"}
			},
			wantErr: "baud_rate must be positive",
		},
		{
			name:    "region past end of image",
			mutate:  func(c *Config) { c.Target.Image.Size = 0x8800 },
			wantErr: "beyond image size",
		},
		{
			name:    "unaligned region",
			mutate:  func(c *Config) { c.Region.Address = 0x8100 },
			wantErr: "region:",
		},
		{
			name:    "zero attempts",
			mutate:  func(c *Config) { c.Retry.MaxAttempts = 0 },
			wantErr: "max_attempts must be at least 1",
		},
		{
			name:    "negative delay",
			mutate:  func(c *Config) { c.Retry.Delay = -time.Second },
			wantErr: "retry.delay",
		},
		{
			name:    "unknown slot requirement",
			mutate:  func(c *Config) { c.Slot.Required = "c" },
			wantErr: "slot.required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestParseSlot(t *testing.T) {
	assert.Equal(t, grow.SlotByIndex(0), parseSlot("app0"))
	assert.Equal(t, grow.SlotByIndex(1), parseSlot("ota_1"))
	assert.Equal(t, grow.SlotByLabel("factory"), parseSlot("factory"))
	assert.Equal(t, grow.SlotByLabel("app99"), parseSlot("app99"))
}

// noopDriver lets a test build an Updater only to read its Config.
type noopDriver struct{}

func (noopDriver) EraseRegion(uint32, uint32) error { return nil }
func (noopDriver) WriteRegion(uint32, []byte) error { return nil }
func (noopDriver) ReadRegion(uint32, []byte) error  { return nil }
