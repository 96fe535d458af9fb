package main

import (
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/moffa90/go-partgrow/grow"
	"github.com/moffa90/go-partgrow/ptable"
)

func inspectCommand(args []string, stdout, stderr io.Writer) error {
	var tablePath, configPath string
	flagSet := pflag.NewFlagSet("partgrow inspect", pflag.ContinueOnError)
	flagSet.StringVar(&tablePath, "table", "", "partition table binary (required)")
	flagSet.StringVarP(&configPath, "config", "c", "", "take the region from this configuration")

	if done, err := parseFlags(flagSet, args, stderr); done || err != nil {
		return err
	}
	if tablePath == "" {
		return fmt.Errorf("--table is required")
	}

	region := ptable.DefaultRegion()
	if configPath != "" {
		cfg, err := LoadConfig(configPath)
		if err != nil {
			return err
		}
		region = cfg.region()
	}

	table, err := ptable.Load(tablePath)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "file:   %s\n", tablePath)
	fmt.Fprintf(stdout, "size:   %d bytes\n", len(table))
	fmt.Fprintf(stdout, "digest: %s\n", ptable.Digest(table))
	fmt.Fprintf(stdout, "region: %s\n", region)

	valid := grow.Validate(table, region)
	if valid != nil {
		fmt.Fprintf(stdout, "valid:  no (%v)\n", valid)
	} else {
		fmt.Fprintf(stdout, "valid:  yes\n")
	}

	entries, err := ptable.Parse(table)
	if err != nil {
		fmt.Fprintf(stdout, "entries: not decodable (%v)\n", err)
	} else {
		fmt.Fprintf(stdout, "entries: %d\n", len(entries))
		for _, e := range entries {
			fmt.Fprintf(stdout, "  %-16s type=0x%02X subtype=0x%02X offset=0x%06X size=0x%06X%s\n",
				e.Label, e.Type, e.Subtype, e.Offset, e.Size, otaSuffix(e))
		}
	}

	if valid != nil {
		return exitError(1)
	}
	return nil
}

func otaSuffix(e ptable.Entry) string {
	if n := e.OTASlot(); n >= 0 {
		return fmt.Sprintf(" ota_%d", n)
	}
	return ""
}
