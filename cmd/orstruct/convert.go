package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lampyrid/orstruct/internal/duckdb"
	"github.com/lampyrid/orstruct/internal/output"
)

func runConvert(args []string) int {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)

	var (
		inputPath  string
		outputPath string
	)

	fs.StringVar(&inputPath, "input", "", "Derived gene-structure table (TSV)")
	fs.StringVar(&inputPath, "i", "", "Derived gene-structure table (TSV) (shorthand)")
	fs.StringVar(&outputPath, "output", "", "Output DuckDB file path")
	fs.StringVar(&outputPath, "o", "", "Output DuckDB file path (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Load a derived gene-structure table into a DuckDB database.

The database exposes the table as or_features, queryable with any DuckDB
client (e.g. grouping genes by structure label or strand).

Usage:
  orstruct convert [options]

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  orstruct convert --input or_structure.tsv --output or_structure.duckdb
  orstruct convert -i or_structure.tsv -o genes.db
`)
	}

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	if inputPath == "" {
		fmt.Fprintf(os.Stderr, "Error: --input is required\n\n")
		fs.Usage()
		return ExitUsage
	}
	if outputPath == "" {
		fmt.Fprintf(os.Stderr, "Error: --output is required\n\n")
		fs.Usage()
		return ExitUsage
	}

	// Ensure output has a DuckDB extension
	if filepath.Ext(outputPath) != ".duckdb" && filepath.Ext(outputPath) != ".db" {
		outputPath = outputPath + ".duckdb"
	}

	// Remove existing output file if it exists
	if _, err := os.Stat(outputPath); err == nil {
		if err := os.Remove(outputPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error removing existing file: %v\n", err)
			return ExitError
		}
	}

	rows, err := output.ReadTable(inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	store, err := duckdb.Open(outputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating DuckDB: %v\n", err)
		return ExitError
	}
	defer store.Close()

	if err := store.WriteRows(rows); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing rows: %v\n", err)
		return ExitError
	}

	if err := store.SetMeta("source", inputPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing metadata: %v\n", err)
		return ExitError
	}
	if err := store.SetMeta("converted_at", time.Now().UTC().Format(time.RFC3339)); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing metadata: %v\n", err)
		return ExitError
	}

	genes, err := store.GeneCount()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error verifying row count: %v\n", err)
		return ExitError
	}

	fmt.Fprintf(os.Stderr, "Conversion complete!\n")
	fmt.Fprintf(os.Stderr, "  Rows: %d\n", len(rows))
	fmt.Fprintf(os.Stderr, "  Genes: %d\n", genes)
	fmt.Fprintf(os.Stderr, "  Output file: %s\n", outputPath)

	return ExitSuccess
}
