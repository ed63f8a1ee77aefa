package derive

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lampyrid/orstruct/internal/gff"
)

// exonPrefix is stripped from exon titles when building the structure label.
const exonPrefix = "Exon "

// partMarker splits the title of an exon that is recorded as two rows
// because it crosses a fragment boundary, e.g. "Exon 2 Part 1".
const partMarker = " Part "

// Deriver computes the structure rows for one gene at a time.
type Deriver struct {
	cfg Config
}

// NewDeriver creates a deriver with the given configuration.
func NewDeriver(cfg Config) *Deriver {
	if cfg.FragmentSpan <= 0 {
		cfg.FragmentSpan = DefaultFragmentSpan
	}
	return &Deriver{cfg: cfg}
}

// Derive computes the derived rows for a single gene group.
//
// Preconditions: all records share one gene and one strand, at least one
// exon/CDS record is present, and records are sorted by ascending start
// within each fragment. Ascending-start order is assumed to be genomic
// order; transcript order is recovered from it via the strand.
//
// The returned rows are: the synthetic total row, the gene's features in
// genomic order (fragment-normalized and part-merged), then one intron row
// per gap between consecutive exons in transcript order.
func (d *Deriver) Derive(features []gff.FeatureRecord) ([]Record, error) {
	if len(features) == 0 {
		return nil, &MalformedGeneError{Reason: "no records"}
	}
	gene := features[0].GeneID
	strand := features[0].Strand

	for _, f := range features {
		if f.Strand != strand {
			return nil, &MalformedGeneError{GeneID: gene, Reason: "mixed strands"}
		}
	}

	rows, err := d.normalize(gene, features)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Start < rows[j].Start })

	exons := make([]gff.FeatureRecord, 0, len(rows))
	for _, r := range rows {
		if r.Kind.IsExonic() {
			exons = append(exons, r)
		}
	}
	if len(exons) == 0 {
		return nil, &MalformedGeneError{GeneID: gene, Reason: "no exon or CDS rows"}
	}
	for i := 1; i < len(exons); i++ {
		if exons[i].Start == exons[i-1].Start {
			return nil, &MalformedGeneError{
				GeneID: gene,
				Reason: fmt.Sprintf("tied exon starts at %d, transcript order ambiguous", exons[i].Start),
			}
		}
	}

	total := d.totalRow(rows)
	introns := d.intronRows(total, exons)
	structure := structureLabel(exons)

	out := make([]Record, 0, len(rows)+len(introns)+1)
	out = append(out, total)
	for _, r := range rows {
		out = append(out, Record{FeatureRecord: r})
	}
	out = append(out, introns...)

	for i := range out {
		d.finalize(&out[i], &total.FeatureRecord, structure)
	}
	return out, nil
}

// normalize maps a gene's records onto a single fragment coordinate space
// and merges exons split across the fragment boundary. Genes on three or
// more fragments are rejected.
func (d *Deriver) normalize(gene string, features []gff.FeatureRecord) ([]gff.FeatureRecord, error) {
	frags := distinctFragments(features)
	if len(frags) > 2 {
		return nil, &UnsupportedFragmentSpanError{GeneID: gene, Fragments: frags}
	}

	rows := make([]gff.FeatureRecord, len(features))
	copy(rows, features)
	if len(frags) == 1 {
		return rows, nil
	}

	// Two fragments: shift the higher fragment's rows into the lower
	// fragment's coordinate space.
	low, high := frags[0], frags[1]
	for i := range rows {
		if rows[i].Fragment == high {
			rows[i].Start += d.cfg.FragmentSpan
			rows[i].End += d.cfg.FragmentSpan
			rows[i].Fragment = low
		}
	}

	return mergeParts(rows), nil
}

// mergeParts collapses "<name> Part 1"/"<name> Part 2" row pairs into one
// logical exon spanning both parts. Rows without a part marker, and lone
// part rows, pass through unchanged.
func mergeParts(rows []gff.FeatureRecord) []gff.FeatureRecord {
	byBase := make(map[string][]int)
	for i, r := range rows {
		if idx := strings.LastIndex(r.Title, partMarker); idx > 0 {
			base := r.Title[:idx]
			byBase[base] = append(byBase[base], i)
		}
	}

	merged := make([]gff.FeatureRecord, 0, len(rows))
	dropped := make(map[int]bool)
	for _, r := range rows {
		idx := strings.LastIndex(r.Title, partMarker)
		if idx <= 0 {
			merged = append(merged, r)
			continue
		}
		base := r.Title[:idx]
		group := byBase[base]
		if len(group) < 2 {
			merged = append(merged, r)
			continue
		}
		if dropped[group[0]] {
			continue // group already emitted
		}
		for _, gi := range group {
			dropped[gi] = true
		}

		m := rows[group[0]]
		m.Title = base
		for _, gi := range group[1:] {
			p := rows[gi]
			m.Start = min(m.Start, min(p.Start, p.End))
			m.End = max(m.End, max(p.Start, p.End))
		}
		merged = append(merged, m)
	}
	return merged
}

// totalRow builds the synthetic row spanning the whole gene.
func (d *Deriver) totalRow(rows []gff.FeatureRecord) Record {
	lo, hi := rows[0].Start, rows[0].End
	for _, r := range rows {
		lo = min(lo, min(r.Start, r.End))
		hi = max(hi, max(r.Start, r.End))
	}
	return Record{FeatureRecord: gff.FeatureRecord{
		GeneID:   rows[0].GeneID,
		LG:       rows[0].LG,
		Fragment: rows[0].Fragment,
		Kind:     gff.KindTotal,
		Start:    lo,
		End:      hi,
		Strand:   rows[0].Strand,
		Title:    "Total",
	}}
}

// intronRows derives the gaps between consecutive exons, ordered 5'->3'
// along the transcript.
//
// On the plus strand ascending-start order is transcript order, so intron k
// runs from exon k's end + 1 to exon k+1's start - 1. On the minus strand
// the transcript's first intron is the genomically-last gap, so the walk
// goes from the last row backward and the boundary arithmetic is mirrored;
// the per-branch arithmetic is preserved exactly, so minus-strand intron
// rows carry start > end and a negative length.
func (d *Deriver) intronRows(total Record, exons []gff.FeatureRecord) []Record {
	n := len(exons)
	introns := make([]Record, 0, n-1)
	for k := 1; k < n; k++ {
		row := gff.FeatureRecord{
			GeneID:   total.GeneID,
			LG:       total.LG,
			Fragment: total.Fragment,
			Kind:     gff.KindIntron,
			Strand:   total.Strand,
			Title:    fmt.Sprintf("Intron %d", k),
		}
		switch total.Strand {
		case gff.StrandPlus:
			row.Start = exons[k-1].End + 1
			row.End = exons[k].Start - 1
		case gff.StrandMinus:
			row.Start = exons[n-k].Start - 1
			row.End = exons[n-k-1].End + 1
		}
		introns = append(introns, Record{FeatureRecord: row})
	}
	return introns
}

// structureLabel builds the canonical exon-layout string: every exon title
// suffix after "Exon ", string-sorted, comma-joined. The sort is lexical on
// purpose ("A1,A10,A2" is accepted reference behavior).
func structureLabel(exons []gff.FeatureRecord) string {
	tokens := make([]string, 0, len(exons))
	for _, e := range exons {
		tokens = append(tokens, strings.TrimPrefix(e.Title, exonPrefix))
	}
	sort.Strings(tokens)
	return strings.Join(tokens, ",")
}

// finalize fills the derived fields of one row relative to the total row.
func (d *Deriver) finalize(r *Record, total *gff.FeatureRecord, structure string) {
	r.Length = r.End - r.Start
	r.Structure = structure

	base := int64(r.Fragment) * d.cfg.FragmentSpan
	r.ConvertedStart = base + r.Start
	r.ConvertedEnd = base + r.End

	totalBase := int64(total.Fragment) * d.cfg.FragmentSpan
	switch r.Strand {
	case gff.StrandPlus:
		origin := totalBase + total.Start
		r.RelativeStart = r.ConvertedStart - origin
		r.RelativeEnd = r.ConvertedEnd - origin
	case gff.StrandMinus:
		// Flip the axis so the transcript's first exon sits at 0.
		origin := totalBase + total.End
		a := abs(r.ConvertedStart - origin)
		b := abs(r.ConvertedEnd - origin)
		r.RelativeStart = min(a, b)
		r.RelativeEnd = max(a, b)
	}
}

// distinctFragments returns the sorted distinct fragment indices of a group.
func distinctFragments(features []gff.FeatureRecord) []int {
	seen := make(map[int]bool)
	var frags []int
	for _, f := range features {
		if !seen[f.Fragment] {
			seen[f.Fragment] = true
			frags = append(frags, f.Fragment)
		}
	}
	sort.Ints(frags)
	return frags
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
