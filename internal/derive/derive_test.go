package derive

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lampyrid/orstruct/internal/gff"
)

func exon(gene string, frag int, start, end int64, strand gff.Strand, title string) gff.FeatureRecord {
	return gff.FeatureRecord{
		GeneID:   gene,
		LG:       "PGA_scaffold3",
		Fragment: frag,
		Kind:     gff.KindExon,
		Start:    start,
		End:      end,
		Strand:   strand,
		Title:    title,
	}
}

// rowsByKind indexes derived rows by feature kind for assertions.
func rowsByKind(rows []Record, kind gff.Kind) []Record {
	var out []Record
	for _, r := range rows {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}

func TestDerivePlusStrand(t *testing.T) {
	d := NewDeriver(DefaultConfig())

	rows, err := d.Derive([]gff.FeatureRecord{
		exon("PpyrOr10", 0, 100, 200, gff.StrandPlus, "Exon 1"),
		exon("PpyrOr10", 0, 400, 500, gff.StrandPlus, "Exon 2"),
	})
	require.NoError(t, err)
	require.Len(t, rows, 4)

	totals := rowsByKind(rows, gff.KindTotal)
	require.Len(t, totals, 1)
	total := totals[0]
	assert.Equal(t, int64(100), total.Start)
	assert.Equal(t, int64(500), total.End)
	assert.Equal(t, int64(400), total.Length)
	assert.Equal(t, int64(0), total.RelativeStart)
	assert.Equal(t, int64(400), total.RelativeEnd)

	introns := rowsByKind(rows, gff.KindIntron)
	require.Len(t, introns, 1)
	assert.Equal(t, int64(201), introns[0].Start)
	assert.Equal(t, int64(399), introns[0].End)
	assert.Equal(t, int64(198), introns[0].Length)
	assert.Equal(t, "Intron 1", introns[0].Title)

	exons := rowsByKind(rows, gff.KindExon)
	require.Len(t, exons, 2)
	assert.Equal(t, int64(0), exons[0].RelativeStart)
	assert.Equal(t, int64(100), exons[0].RelativeEnd)
	assert.Equal(t, int64(300), exons[1].RelativeStart)
	assert.Equal(t, int64(400), exons[1].RelativeEnd)

	for _, r := range rows {
		assert.Equal(t, "1,2", r.Structure)
	}
	assert.Equal(t, int64(0), LengthDiscrepancy(rows))
}

func TestDeriveMinusStrand(t *testing.T) {
	d := NewDeriver(DefaultConfig())

	// Genomically-first exon is biologically last on the minus strand.
	rows, err := d.Derive([]gff.FeatureRecord{
		exon("PpyrOr55", 0, 100, 200, gff.StrandMinus, "Exon 2"),
		exon("PpyrOr55", 0, 400, 500, gff.StrandMinus, "Exon 1"),
	})
	require.NoError(t, err)

	// The intron walk goes from the last row backward, so its boundaries
	// come out reversed and its raw length negative.
	introns := rowsByKind(rows, gff.KindIntron)
	require.Len(t, introns, 1)
	assert.Equal(t, int64(399), introns[0].Start)
	assert.Equal(t, int64(201), introns[0].End)
	assert.Equal(t, int64(-198), introns[0].Length)

	// The genomically-last exon is transcript-first and sits at 0.
	exons := rowsByKind(rows, gff.KindExon)
	require.Len(t, exons, 2)
	assert.Equal(t, int64(0), exons[1].RelativeStart)
	assert.Equal(t, int64(100), exons[1].RelativeEnd)
	assert.Equal(t, int64(300), exons[0].RelativeStart)
	assert.Equal(t, int64(400), exons[0].RelativeEnd)

	assert.Equal(t, "1,2", rows[0].Structure)
	assert.Equal(t, int64(0), LengthDiscrepancy(rows))
}

func TestDeriveIntronCountMatchesExonCount(t *testing.T) {
	d := NewDeriver(DefaultConfig())

	for _, n := range []int{1, 2, 5, 12} {
		var features []gff.FeatureRecord
		for i := 0; i < n; i++ {
			lo := int64(i*1000 + 100)
			features = append(features,
				exon("PpyrOr1", 0, lo, lo+200, gff.StrandPlus, fmt.Sprintf("Exon %d", i+1)))
		}

		rows, err := d.Derive(features)
		require.NoError(t, err)
		assert.Len(t, rowsByKind(rows, gff.KindIntron), n-1, "n=%d", n)
		assert.Len(t, rowsByKind(rows, gff.KindExon), n, "n=%d", n)
	}
}

func TestDeriveStructureSortIsLexical(t *testing.T) {
	d := NewDeriver(DefaultConfig())

	rows, err := d.Derive([]gff.FeatureRecord{
		exon("PpyrOr77", 0, 100, 200, gff.StrandPlus, "Exon A2"),
		exon("PpyrOr77", 0, 300, 380, gff.StrandPlus, "Exon A10"),
		exon("PpyrOr77", 0, 450, 600, gff.StrandPlus, "Exon A1"),
	})
	require.NoError(t, err)

	// String sort, not numeric: A10 sorts before A2.
	assert.Equal(t, "A1,A10,A2", rows[0].Structure)
}

func TestDeriveTwoFragmentMerge(t *testing.T) {
	d := NewDeriver(Config{FragmentSpan: 200000})

	rows, err := d.Derive([]gff.FeatureRecord{
		exon("PpyrOr31", 0, 180000, 200000, gff.StrandPlus, "Exon 1 Part 1"),
		exon("PpyrOr31", 1, 0, 500, gff.StrandPlus, "Exon 1 Part 2"),
		exon("PpyrOr31", 1, 5000, 6000, gff.StrandPlus, "Exon 2"),
	})
	require.NoError(t, err)

	exons := rowsByKind(rows, gff.KindExon)
	require.Len(t, exons, 2)
	assert.Equal(t, "Exon 1", exons[0].Title)
	assert.Equal(t, int64(180000), exons[0].Start)
	assert.Equal(t, int64(200500), exons[0].End)
	assert.Equal(t, int64(205000), exons[1].Start)
	assert.Equal(t, int64(206000), exons[1].End)

	introns := rowsByKind(rows, gff.KindIntron)
	require.Len(t, introns, 1)
	assert.Equal(t, int64(200501), introns[0].Start)
	assert.Equal(t, int64(204999), introns[0].End)

	assert.Equal(t, "1,2", rows[0].Structure)
}

func TestDeriveThreeFragmentsRejected(t *testing.T) {
	d := NewDeriver(DefaultConfig())

	_, err := d.Derive([]gff.FeatureRecord{
		exon("PpyrOr99", 0, 100, 200, gff.StrandPlus, "Exon 1"),
		exon("PpyrOr99", 1, 100, 200, gff.StrandPlus, "Exon 2"),
		exon("PpyrOr99", 2, 100, 200, gff.StrandPlus, "Exon 3"),
	})
	require.Error(t, err)

	var spanErr *UnsupportedFragmentSpanError
	require.ErrorAs(t, err, &spanErr)
	assert.Equal(t, "PpyrOr99", spanErr.GeneID)
	assert.Equal(t, []int{0, 1, 2}, spanErr.Fragments)
}

func TestDeriveMalformedGenes(t *testing.T) {
	d := NewDeriver(DefaultConfig())

	tests := []struct {
		name     string
		features []gff.FeatureRecord
	}{
		{
			name:     "no records",
			features: nil,
		},
		{
			name: "no exonic rows",
			features: []gff.FeatureRecord{{
				GeneID: "PpyrOr3", Kind: gff.KindOther,
				Start: 1, End: 10, Strand: gff.StrandPlus,
			}},
		},
		{
			name: "tied exon starts",
			features: []gff.FeatureRecord{
				exon("PpyrOr3", 0, 100, 200, gff.StrandPlus, "Exon 1"),
				exon("PpyrOr3", 0, 100, 300, gff.StrandPlus, "Exon 2"),
			},
		},
		{
			name: "mixed strands",
			features: []gff.FeatureRecord{
				exon("PpyrOr3", 0, 100, 200, gff.StrandPlus, "Exon 1"),
				exon("PpyrOr3", 0, 400, 500, gff.StrandMinus, "Exon 2"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.Derive(tt.features)
			var malformed *MalformedGeneError
			require.ErrorAs(t, err, &malformed)
		})
	}
}

func TestDeriveIdempotent(t *testing.T) {
	d := NewDeriver(DefaultConfig())

	first, err := d.Derive([]gff.FeatureRecord{
		exon("PpyrOr8", 1, 1000, 1500, gff.StrandPlus, "Exon 1"),
		exon("PpyrOr8", 1, 2000, 2400, gff.StrandPlus, "Exon 2"),
		exon("PpyrOr8", 1, 3000, 3900, gff.StrandPlus, "Exon 3"),
	})
	require.NoError(t, err)

	// Re-derive from the first pass's own exon rows.
	var again []gff.FeatureRecord
	for _, r := range rowsByKind(first, gff.KindExon) {
		again = append(again, r.FeatureRecord)
	}
	second, err := d.Derive(again)
	require.NoError(t, err)

	firstIntrons := rowsByKind(first, gff.KindIntron)
	secondIntrons := rowsByKind(second, gff.KindIntron)
	require.Equal(t, len(firstIntrons), len(secondIntrons))
	for i := range firstIntrons {
		assert.Equal(t, firstIntrons[i].Start, secondIntrons[i].Start)
		assert.Equal(t, firstIntrons[i].End, secondIntrons[i].End)
	}
}

func TestDeriveCDSRowsCountAsExons(t *testing.T) {
	d := NewDeriver(DefaultConfig())

	features := []gff.FeatureRecord{
		exon("PpyrOr2", 0, 100, 200, gff.StrandPlus, "Exon 1"),
		exon("PpyrOr2", 0, 400, 500, gff.StrandPlus, "Exon 2"),
	}
	features[1].Kind = gff.KindCDS

	rows, err := d.Derive(features)
	require.NoError(t, err)
	assert.Len(t, rowsByKind(rows, gff.KindIntron), 1)
	assert.Equal(t, "1,2", rows[0].Structure)
}

func TestDeriveSingleExon(t *testing.T) {
	d := NewDeriver(DefaultConfig())

	rows, err := d.Derive([]gff.FeatureRecord{
		exon("PpyrOr44", 0, 700, 1400, gff.StrandMinus, "Exon 1"),
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Empty(t, rowsByKind(rows, gff.KindIntron))
	assert.Equal(t, "1", rows[0].Structure)
	assert.Equal(t, int64(0), LengthDiscrepancy(rows))
}

func TestErrorsAreDistinguishable(t *testing.T) {
	spanErr := error(&UnsupportedFragmentSpanError{GeneID: "g", Fragments: []int{0, 1, 2}})
	var malformed *MalformedGeneError
	assert.False(t, errors.As(spanErr, &malformed))
}
