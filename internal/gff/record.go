// Package gff provides parsing for OR annotation tables (GFF-like TSV).
package gff

import "fmt"

// Strand is the genomic strand of a feature.
type Strand int8

const (
	StrandPlus  Strand = 1
	StrandMinus Strand = -1
)

// ParseStrand converts a strand column value to a Strand.
func ParseStrand(s string) (Strand, error) {
	switch s {
	case "+":
		return StrandPlus, nil
	case "-":
		return StrandMinus, nil
	default:
		return 0, fmt.Errorf("unknown strand %q", s)
	}
}

// String returns the strand column representation.
func (s Strand) String() string {
	if s == StrandMinus {
		return "-"
	}
	return "+"
}

// Kind is the feature type of an annotation row.
type Kind uint8

const (
	KindOther Kind = iota
	KindExon
	KindCDS

	// Derived kinds, never present in raw input.
	KindTotal
	KindIntron
)

// ParseKind converts a feature column value to a Kind.
// Unrecognized feature types map to KindOther.
func ParseKind(s string) Kind {
	switch s {
	case "exon":
		return KindExon
	case "CDS":
		return KindCDS
	case "total":
		return KindTotal
	case "intron":
		return KindIntron
	default:
		return KindOther
	}
}

// String returns the feature column representation.
func (k Kind) String() string {
	switch k {
	case KindExon:
		return "exon"
	case KindCDS:
		return "CDS"
	case KindTotal:
		return "total"
	case KindIntron:
		return "intron"
	default:
		return "other"
	}
}

// IsExonic returns true for the feature kinds that count as exons
// when deriving gene structure.
func (k Kind) IsExonic() bool {
	return k == KindExon || k == KindCDS
}

// FeatureRecord is one row of the annotation table: a single exon or CDS
// feature of an OR gene, with coordinates local to its assembly fragment.
type FeatureRecord struct {
	GeneID   string // grouping key, after synonym correction
	LG       string // linkage-group accession
	Fragment int    // fragment index within the LG
	Kind     Kind
	Start    int64 // 1-based inclusive, fragment-local
	End      int64 // 1-based inclusive, fragment-local
	Strand   Strand
	Title    string // human-readable feature name, e.g. "Exon 3"
}

// Location returns the raw location column value for the record.
func (r *FeatureRecord) Location() string {
	return fmt.Sprintf("%s%s%d", r.LG, fragSeparator, r.Fragment)
}
