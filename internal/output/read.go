package output

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/lampyrid/orstruct/internal/derive"
	"github.com/lampyrid/orstruct/internal/gff"
)

// ReadTable reads a derived table previously written by TabWriter, for
// loading into DuckDB. Column order must match Columns.
func ReadTable(path string) ([]derive.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open derived table: %w", err)
	}
	defer f.Close()

	return parseTable(f)
}

func parseTable(reader io.Reader) ([]derive.Record, error) {
	scanner := bufio.NewScanner(reader)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("scan derived table: %w", err)
		}
		return nil, fmt.Errorf("derived table: missing header row")
	}
	header := scanner.Text()
	if header != strings.Join(Columns, "\t") {
		return nil, fmt.Errorf("derived table: unexpected header %q", header)
	}

	var rows []derive.Record
	lineNum := 1
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if line == "" {
			continue
		}

		rec, err := parseRow(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		rows = append(rows, rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan derived table: %w", err)
	}

	return rows, nil
}

func parseRow(line string) (derive.Record, error) {
	var rec derive.Record

	fields := strings.Split(line, "\t")
	if len(fields) != len(Columns) {
		return rec, fmt.Errorf("expected %d fields, got %d", len(Columns), len(fields))
	}

	fragment, err := strconv.Atoi(fields[2])
	if err != nil {
		return rec, fmt.Errorf("parse fragment: %w", err)
	}
	strand, err := gff.ParseStrand(fields[7])
	if err != nil {
		return rec, err
	}

	ints := make([]int64, 0, 7)
	for _, idx := range []int{5, 6, 8, 9, 10, 11, 12} {
		v, err := strconv.ParseInt(fields[idx], 10, 64)
		if err != nil {
			return rec, fmt.Errorf("parse %s: %w", Columns[idx], err)
		}
		ints = append(ints, v)
	}

	blank := func(s string) string {
		if s == "-" {
			return ""
		}
		return s
	}

	rec = derive.Record{
		FeatureRecord: gff.FeatureRecord{
			GeneID:   fields[0],
			LG:       fields[1],
			Fragment: fragment,
			Kind:     gff.ParseKind(fields[3]),
			Title:    blank(fields[4]),
			Start:    ints[0],
			End:      ints[1],
			Strand:   strand,
		},
		Length:         ints[2],
		ConvertedStart: ints[3],
		ConvertedEnd:   ints[4],
		RelativeStart:  ints[5],
		RelativeEnd:    ints[6],
		Structure:      fields[13],
		Group:          blank(fields[14]),
		Clade:          blank(fields[15]),
	}
	return rec, nil
}
