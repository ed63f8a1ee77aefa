package derive

import "github.com/lampyrid/orstruct/internal/gff"

// Record is a FeatureRecord extended with the derived structure fields.
// Derivation also emits synthetic records: one total row spanning the gene
// and one intron row per gap between consecutive exons in transcript order.
type Record struct {
	gff.FeatureRecord

	// Length is End - Start, signed. The sign carries no meaning on its
	// own; it only participates in the length self-check.
	Length int64

	// ConvertedStart/End are fragment-local coordinates linearized onto a
	// single axis: fragment index * FragmentSpan + local coordinate.
	ConvertedStart int64
	ConvertedEnd   int64

	// RelativeStart/End re-base the converted coordinates so the gene
	// starts at 0 in transcript orientation: offsets from the total
	// converted start on the plus strand, absolute distance from the
	// total converted end on the minus strand.
	RelativeStart int64
	RelativeEnd   int64

	// Structure is the canonical exon-layout label shared by every row of
	// the gene: the string-sorted exon title suffixes joined with commas.
	Structure string

	// Group and Clade come from the supplementary classification table.
	// Empty when the gene has no entry there.
	Group string
	Clade string
}

// Skipped identifies a gene that could not be derived and why.
type Skipped struct {
	GeneID string
	Err    error
}

// Result is the outcome of a batch derivation: all derived rows plus the
// genes that were skipped with their failure reasons.
type Result struct {
	Rows    []Record
	Skipped []Skipped
}
