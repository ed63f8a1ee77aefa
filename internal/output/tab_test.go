package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lampyrid/orstruct/internal/derive"
	"github.com/lampyrid/orstruct/internal/gff"
)

func sampleRows() []derive.Record {
	return []derive.Record{
		{
			FeatureRecord: gff.FeatureRecord{
				GeneID: "PpyrOr12", LG: "PGA_scaffold3", Fragment: 0,
				Kind: gff.KindTotal, Start: 100, End: 500,
				Strand: gff.StrandPlus, Title: "Total",
			},
			Length:         400,
			ConvertedStart: 100, ConvertedEnd: 500,
			RelativeStart: 0, RelativeEnd: 400,
			Structure: "1,2",
			Group:     "Group 3",
			Clade:     "OR7",
		},
		{
			FeatureRecord: gff.FeatureRecord{
				GeneID: "PpyrOr12", LG: "PGA_scaffold3", Fragment: 0,
				Kind: gff.KindIntron, Start: 201, End: 399,
				Strand: gff.StrandPlus, Title: "Intron 1",
			},
			Length:         198,
			ConvertedStart: 201, ConvertedEnd: 399,
			RelativeStart: 101, RelativeEnd: 299,
			Structure: "1,2",
		},
	}
}

func TestWriteAll(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTabWriter(&buf).WriteAll(sampleRows()))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(Columns, "\t"), lines[0])

	fields := strings.Split(lines[1], "\t")
	require.Len(t, fields, len(Columns))
	assert.Equal(t, "PpyrOr12", fields[0])
	assert.Equal(t, "total", fields[3])
	assert.Equal(t, "Group 3", fields[14])

	// Empty joined fields render as "-".
	fields = strings.Split(lines[2], "\t")
	assert.Equal(t, "-", fields[14])
	assert.Equal(t, "-", fields[15])
}

func TestWriteReadRoundTrip(t *testing.T) {
	rows := sampleRows()

	var buf bytes.Buffer
	require.NoError(t, NewTabWriter(&buf).WriteAll(rows))

	parsed, err := parseTable(&buf)
	require.NoError(t, err)
	require.Len(t, parsed, len(rows))

	for i := range rows {
		assert.Equal(t, rows[i], parsed[i], "row %d", i)
	}
}

func TestParseTableErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"wrong header", "gene\tlg\n"},
		{
			"wrong field count",
			strings.Join(Columns, "\t") + "\nPpyrOr1\tLG1\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseTable(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}
