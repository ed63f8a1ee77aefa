package gff

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// fragSeparator splits the location column into LG accession and fragment
// index, e.g. "PGA_scaffold3_frag0" -> ("PGA_scaffold3", 0).
const fragSeparator = "_frag"

// attrSeparator splits the attributes column into gene name and feature
// title, e.g. "PpyrOr12;Exon 3" -> ("PpyrOr12", "Exon 3").
const attrSeparator = ";"

// Reader reads FeatureRecords from an OR annotation table.
//
// The table is tab-separated with columns
// {location, source, feature, start, end, score, strand, phase, attributes}.
// Rows whose feature type is not exon or CDS are skipped, as are comment
// lines starting with "#".
type Reader struct {
	path     string
	synonyms Synonyms
}

// NewReader creates a reader for the annotation table at path.
// Gzipped files (.gz suffix) are decompressed transparently.
func NewReader(path string) *Reader {
	return &Reader{path: path, synonyms: DefaultSynonyms}
}

// SetSynonyms replaces the gene-name correction table. Pass nil to disable
// corrections entirely.
func (r *Reader) SetSynonyms(s Synonyms) {
	r.synonyms = s
}

// ReadAll reads the whole table and returns its exon/CDS records in file
// order. Malformed lines are reported with their line number.
func (r *Reader) ReadAll() ([]FeatureRecord, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open annotation table: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(r.path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	return r.parse(reader)
}

// parse scans the table content and returns exon/CDS records.
func (r *Reader) parse(reader io.Reader) ([]FeatureRecord, error) {
	scanner := bufio.NewScanner(reader)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	var records []FeatureRecord
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		if strings.HasPrefix(line, "#") || line == "" {
			continue
		}

		rec, skip, err := r.parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		if skip {
			continue
		}
		records = append(records, rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan annotation table: %w", err)
	}

	return records, nil
}

// parseLine parses a single table row. skip is true for rows whose feature
// type is outside the exon/CDS set.
func (r *Reader) parseLine(line string) (rec FeatureRecord, skip bool, err error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 9 {
		return rec, false, fmt.Errorf("expected 9 fields, got %d", len(fields))
	}

	kind := ParseKind(fields[2])
	if !kind.IsExonic() {
		return rec, true, nil
	}

	lg, frag, err := splitLocation(fields[0])
	if err != nil {
		return rec, false, err
	}

	start, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil {
		return rec, false, fmt.Errorf("parse start: %w", err)
	}

	end, err := strconv.ParseInt(fields[4], 10, 64)
	if err != nil {
		return rec, false, fmt.Errorf("parse end: %w", err)
	}

	strand, err := ParseStrand(fields[6])
	if err != nil {
		return rec, false, err
	}

	gene, title := splitAttributes(fields[8])
	if gene == "" {
		return rec, false, fmt.Errorf("attributes %q: missing gene name", fields[8])
	}

	rec = FeatureRecord{
		GeneID:   r.synonyms.Apply(gene),
		LG:       lg,
		Fragment: frag,
		Kind:     kind,
		Start:    start,
		End:      end,
		Strand:   strand,
		Title:    title,
	}
	return rec, false, nil
}

// splitLocation splits a location value into LG accession and fragment index.
func splitLocation(loc string) (string, int, error) {
	idx := strings.LastIndex(loc, fragSeparator)
	if idx == -1 {
		return "", 0, fmt.Errorf("location %q: missing %q separator", loc, fragSeparator)
	}

	frag, err := strconv.Atoi(loc[idx+len(fragSeparator):])
	if err != nil {
		return "", 0, fmt.Errorf("location %q: parse fragment index: %w", loc, err)
	}

	return loc[:idx], frag, nil
}

// splitAttributes splits the attributes column into gene name and feature
// title on the first separator. A missing title is allowed (empty string).
func splitAttributes(attrs string) (gene, title string) {
	idx := strings.Index(attrs, attrSeparator)
	if idx == -1 {
		return strings.TrimSpace(attrs), ""
	}
	return strings.TrimSpace(attrs[:idx]), strings.TrimSpace(attrs[idx+1:])
}
