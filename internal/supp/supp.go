// Package supp loads the supplementary OR classification table and joins
// its per-gene metadata onto derived structure rows.
package supp

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lampyrid/orstruct/internal/derive"
	"github.com/lampyrid/orstruct/internal/gff"
)

// Annotation is one gene's classification metadata.
type Annotation struct {
	Species string
	Gene    string
	Group   string
	Clade   string
}

// Table maps gene name to its classification.
type Table map[string]Annotation

// Column names of the supplementary table header.
const (
	colSpecies = "Species"
	colGene    = "Gene"
	colGroup   = "Group"
	colClade   = "Clade"
)

// Load reads the supplementary table at path, keeping only rows for the
// given species. The table is tab-separated with a header row naming at
// least the Species, Gene and Group columns; Clade is optional.
func Load(path, species string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open supplementary table: %w", err)
	}
	defer f.Close()

	return parse(f, species)
}

// parse scans the table content and returns the species-filtered rows.
func parse(reader io.Reader, species string) (Table, error) {
	scanner := bufio.NewScanner(reader)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("scan supplementary table: %w", err)
		}
		return nil, fmt.Errorf("supplementary table: missing header row")
	}

	cols := make(map[string]int)
	for i, name := range strings.Split(scanner.Text(), "\t") {
		cols[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{colSpecies, colGene, colGroup} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("supplementary table: missing %s column", required)
		}
	}

	table := make(Table)
	field := func(fields []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(fields) {
			return ""
		}
		return strings.TrimSpace(fields[i])
	}

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")

		ann := Annotation{
			Species: field(fields, colSpecies),
			Gene:    field(fields, colGene),
			Group:   field(fields, colGroup),
			Clade:   field(fields, colClade),
		}
		if ann.Gene == "" || !strings.EqualFold(ann.Species, species) {
			continue
		}
		table[ann.Gene] = ann
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan supplementary table: %w", err)
	}

	return table, nil
}

// MissingJoinKeyError reports a gene total row with no entry in the
// supplementary table. The joined fields stay empty for that gene; the
// batch is never aborted over it.
type MissingJoinKeyError struct {
	GeneID string
}

func (e *MissingJoinKeyError) Error() string {
	return fmt.Sprintf("gene %s: no supplementary table entry", e.GeneID)
}

// Join attaches Group and Clade metadata to every derived row whose gene
// has a table entry. It returns one MissingJoinKeyError per gene that has a
// total row but no table entry.
func (t Table) Join(rows []derive.Record) []*MissingJoinKeyError {
	var missing []*MissingJoinKeyError
	for i := range rows {
		ann, ok := t[rows[i].GeneID]
		if !ok {
			if rows[i].Kind == gff.KindTotal {
				missing = append(missing, &MissingJoinKeyError{GeneID: rows[i].GeneID})
			}
			continue
		}
		rows[i].Group = ann.Group
		rows[i].Clade = ann.Clade
	}
	return missing
}
