package derive

import "fmt"

// MalformedGeneError reports a gene group that cannot be derived: no
// exon/CDS rows, inconsistent strand, or exon starts that tie so transcript
// order cannot be established.
type MalformedGeneError struct {
	GeneID string
	Reason string
}

func (e *MalformedGeneError) Error() string {
	return fmt.Sprintf("gene %s: %s", e.GeneID, e.Reason)
}

// UnsupportedFragmentSpanError reports a gene whose records span three or
// more assembly fragments. The coordinate linearization only supports genes
// on one or two fragments.
type UnsupportedFragmentSpanError struct {
	GeneID    string
	Fragments []int
}

func (e *UnsupportedFragmentSpanError) Error() string {
	return fmt.Sprintf("gene %s: spans %d fragments %v, at most 2 supported",
		e.GeneID, len(e.Fragments), e.Fragments)
}
