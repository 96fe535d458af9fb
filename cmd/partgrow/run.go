package main

import (
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/moffa90/go-partgrow/boot"
	"github.com/moffa90/go-partgrow/flash"
	"github.com/moffa90/go-partgrow/grow"
	"github.com/moffa90/go-partgrow/ptable"
)

type runFlags struct {
	config  string
	table   string
	image   string
	serial  string
	verbose bool
}

func runCommand(args []string, stdout, stderr io.Writer) error {
	var flags runFlags
	flagSet := pflag.NewFlagSet("partgrow run", pflag.ContinueOnError)
	flagSet.StringVarP(&flags.config, "config", "c", "", "path to the YAML configuration (required)")
	flagSet.StringVar(&flags.table, "table", "", "candidate partition table binary (overrides table)")
	flagSet.StringVar(&flags.image, "image", "", "flash image file (overrides target)")
	flagSet.StringVar(&flags.serial, "serial", "", "serial port of the flash stub (overrides target)")
	flagSet.BoolVarP(&flags.verbose, "verbose", "v", false, "log at debug level")

	if done, err := parseFlags(flagSet, args, stderr); done || err != nil {
		return err
	}

	cfg, err := LoadConfig(flags.config)
	if err != nil {
		return err
	}
	if err := flags.apply(cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	table, err := ptable.Load(cfg.Table)
	if err != nil {
		return err
	}

	logger := newLogger(stderr, flags.verbose)

	driver, closeDriver, err := openDriver(cfg.Target)
	if err != nil {
		return err
	}
	defer func() { _ = closeDriver() }()

	ctrl := newSimController(cfg.Slot, logger)
	opts := append(cfg.options(), grow.WithLogger(logger))
	u := grow.New(driver, ctrl, table, opts...)

	res := boot.Run(u, ctrl,
		boot.WithLogger(logger),
		boot.WithSuccessDelay(cfg.SuccessDelay),
	)

	status := "ok"
	if !res.Updated {
		status = "failed"
	}
	fmt.Fprintf(stdout, "update: %s\ndecision: %s\n", status, res.Decision)

	if !res.Updated {
		return exitError(1)
	}
	return nil
}

// apply overrides config values with the flags that were set. A target
// flag replaces the configured target entirely.
func (f runFlags) apply(cfg *Config) error {
	if f.table != "" {
		cfg.Table = f.table
	}
	if f.image != "" && f.serial != "" {
		return fmt.Errorf("--image and --serial are mutually exclusive")
	}
	if f.image != "" {
		size := flashSizeHint(cfg)
		cfg.Target = TargetConfig{Image: &ImageConfig{Path: f.image, Size: size}}
	}
	if f.serial != "" {
		serialCfg := SerialConfig{Port: f.serial, BaudRate: 115200, Timeout: flash.DefaultSerialTimeout}
		if cfg.Target.Serial != nil {
			serialCfg.BaudRate = cfg.Target.Serial.BaudRate
			serialCfg.Timeout = cfg.Target.Serial.Timeout
		}
		cfg.Target = TargetConfig{Serial: &serialCfg}
	}
	return nil
}

// flashSizeHint keeps a configured image size, or falls back to 4 MiB.
func flashSizeHint(cfg *Config) int {
	if cfg.Target.Image != nil && cfg.Target.Image.Size > 0 {
		return cfg.Target.Image.Size
	}
	return 4 << 20
}

// openDriver opens the configured flash target.
func openDriver(target TargetConfig) (flash.Driver, func() error, error) {
	if target.Image != nil {
		img, err := flash.OpenImage(target.Image.Path, target.Image.Size)
		if err != nil {
			return nil, nil, err
		}
		return img, img.Close, nil
	}

	s, err := flash.OpenSerial(target.Serial.Port, target.Serial.BaudRate, target.Serial.Timeout)
	if err != nil {
		return nil, nil, err
	}
	if err := s.Sync(); err != nil {
		_ = s.Close()
		return nil, nil, fmt.Errorf("sync with flash stub: %w", err)
	}
	return s, s.Close, nil
}
