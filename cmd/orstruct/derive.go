package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/lampyrid/orstruct/internal/derive"
	"github.com/lampyrid/orstruct/internal/gff"
	"github.com/lampyrid/orstruct/internal/output"
	"github.com/lampyrid/orstruct/internal/supp"
)

func runDerive(args []string) int {
	fs := flag.NewFlagSet("derive", flag.ExitOnError)

	var (
		outputFile   string
		suppFile     string
		species      string
		fragmentSpan int64
		workers      int
		noSynonyms   bool
		verbose      bool
	)

	fs.StringVar(&outputFile, "o", "", "Output file (default: stdout)")
	fs.StringVar(&outputFile, "output", "", "Output file (default: stdout)")
	fs.StringVar(&suppFile, "supp", viper.GetString("supp"), "Supplementary classification table (TSV)")
	fs.StringVar(&species, "species", configuredSpecies(), "Species filter for the supplementary table")
	fs.Int64Var(&fragmentSpan, "fragment-span", configuredFragmentSpan(), "Assembly fragment span used to linearize coordinates")
	fs.IntVar(&workers, "workers", 0, "Number of derivation workers (0 = all CPUs)")
	fs.BoolVar(&noSynonyms, "no-synonyms", false, "Disable gene-name synonym corrections")
	fs.BoolVar(&verbose, "v", false, "Verbose logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Derive per-gene exon/intron structure from an OR annotation table.

For every gene the output contains a total row spanning the gene, one intron
row per gap between consecutive exons in transcript order, the original
exon/CDS rows, linearized plotting coordinates, and the gene's structure
label. Genes that cannot be derived are skipped and reported on stderr.

Usage:
  orstruct derive [options] <annotation.tsv>

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  orstruct derive or_annotation.tsv
  orstruct derive --supp or_classification.tsv -o or_structure.tsv or_annotation.tsv
  orstruct derive --fragment-span 200000 --workers 4 or_annotation.tsv
`)
	}

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: annotation table argument required\n\n")
		fs.Usage()
		return ExitUsage
	}

	logger := newLogger(verbose)
	defer logger.Sync()

	reader := gff.NewReader(fs.Arg(0))
	if noSynonyms {
		reader.SetSynonyms(nil)
	}

	records, err := reader.ReadAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}
	if len(records) == 0 {
		fmt.Fprintf(os.Stderr, "Error: no exon/CDS records in %s\n", fs.Arg(0))
		return ExitError
	}

	runner := derive.NewRunner(derive.Config{FragmentSpan: fragmentSpan})
	runner.SetLogger(logger)

	result, err := runner.DeriveAll(records, workers)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	for _, s := range result.Skipped {
		fmt.Fprintf(os.Stderr, "Warning: skipped %s: %v\n", s.GeneID, s.Err)
	}

	if suppFile != "" {
		table, err := supp.Load(suppFile, species)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return ExitError
		}
		for _, miss := range table.Join(result.Rows) {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", miss)
		}
	}

	out := os.Stdout
	if outputFile != "" {
		out, err = os.Create(outputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
			return ExitError
		}
		defer out.Close()
	}

	if err := output.NewTabWriter(out).WriteAll(result.Rows); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		return ExitError
	}

	return ExitSuccess
}

// newLogger builds the run logger: console output to stderr, debug level
// when verbose.
func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
