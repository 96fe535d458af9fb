// partgrow replaces the partition table of a flash image or of a device
// running the flash stub, applying the same boot-time policy as the
// firmware: validate, skip when already applied, check the running slot,
// then erase, write and verify with bounded retries.
//
// Usage:
//
//	partgrow run --config partgrow.yaml [--table file] [--image file | --serial port] [--verbose]
//	partgrow inspect --table file [--config partgrow.yaml]
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
)

// exitError carries a process exit code without a message of its own.
type exitError int

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", int(e)) }

func (e exitError) ExitCode() int { return int(e) }

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		printUsage(stderr)
		return exitError(2)
	}

	switch args[0] {
	case "run":
		return runCommand(args[1:], stdout, stderr)
	case "inspect":
		return inspectCommand(args[1:], stdout, stderr)
	case "-h", "--help", "help":
		printUsage(stdout)
		return nil
	default:
		printUsage(stderr)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

// parseFlags parses a subcommand flag set. It returns done when help was
// printed and the command should stop.
func parseFlags(flagSet *pflag.FlagSet, args []string, stderr io.Writer) (done bool, err error) {
	flagSet.SetOutput(stderr)
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return true, nil
		}
		return false, err
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return false, fmt.Errorf("unexpected argument: %s", rest[0])
	}
	return false, nil
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `partgrow replaces a device partition table once, safely.

Usage:
  partgrow run --config FILE [--table FILE] [--image FILE | --serial PORT] [--verbose]
  partgrow inspect --table FILE [--config FILE]

Commands:
  run      validate, scan, check the running slot, then erase, write and verify
  inspect  print the size, digest, validation result and entries of a table
`)
}
