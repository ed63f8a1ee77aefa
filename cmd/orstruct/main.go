// Package main provides the orstruct command-line tool.
package main

import (
	"flag"
	"fmt"
	"os"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Global flags
	var showVersion bool
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	// Parse global flags first
	flag.Parse()

	if showVersion {
		fmt.Printf("orstruct version %s (%s) built %s\n", version, commit, date)
		return ExitSuccess
	}

	loadConfigFile()

	// Check for subcommand
	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		return ExitUsage
	}

	switch args[0] {
	case "derive":
		return runDerive(args[1:])
	case "convert":
		return runConvert(args[1:])
	case "config":
		return runConfig(args[1:])
	case "help":
		printUsage()
		return ExitSuccess
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", args[0])
		printUsage()
		return ExitUsage
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `orstruct - OR gene structure deriver

Usage:
  orstruct [options] <command> [arguments]

Commands:
  derive      Derive exon/intron structure from an OR annotation table
  convert     Load a derived table into a DuckDB database
  config      Manage orstruct configuration
  help        Show this help message

Global Options:
  --version   Show version information

Examples:
  # Derive gene structure and join classification metadata
  orstruct derive --supp or_classification.tsv -o or_structure.tsv or_annotation.tsv

  # Load the derived table into DuckDB
  orstruct convert --input or_structure.tsv --output or_structure.duckdb

  # Persist a default species filter
  orstruct config set species "Photinus pyralis"

For more information on a command, use:
  orstruct <command> --help
`)
}
