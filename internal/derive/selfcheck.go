package derive

import "github.com/lampyrid/orstruct/internal/gff"

// LengthDiscrepancy computes the diagnostic invariant over one gene's
// derived rows: the total span length minus the summed exon and intron
// lengths, corrected by 2*(n_exons - 1) for the inclusive-boundary
// adjustment applied at each exon/intron junction. Zero means the derived
// rows tile the gene exactly.
//
// Lengths are taken as absolute values so minus-strand introns, whose rows
// carry reversed boundaries, count by magnitude. The original analysis only
// logged this value; it is exposed here for tests and reporting, not
// enforced.
func LengthDiscrepancy(rows []Record) int64 {
	var total, parts int64
	var nExons int64
	for _, r := range rows {
		switch r.Kind {
		case gff.KindTotal:
			total = abs(r.Length)
		case gff.KindIntron:
			parts += abs(r.Length)
		default:
			if r.Kind.IsExonic() {
				parts += abs(r.Length)
				nExons++
			}
		}
	}
	if nExons == 0 {
		return total
	}
	return total - (parts + 2*(nExons-1))
}
