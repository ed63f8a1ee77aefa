// Package output reads and writes the derived gene-structure table.
package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/lampyrid/orstruct/internal/derive"
)

// Columns of the derived table, in output order.
var Columns = []string{
	"gene",
	"lg",
	"fragment",
	"feature",
	"title",
	"start",
	"end",
	"strand",
	"length",
	"converted_start",
	"converted_end",
	"relative_start",
	"relative_end",
	"structure",
	"group",
	"clade",
}

// TabWriter writes derived records in tab-delimited format.
type TabWriter struct {
	w *bufio.Writer
}

// NewTabWriter creates a new tab-delimited writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{w: bufio.NewWriter(w)}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(Columns, "\t") + "\n")
	return err
}

// Write writes a single derived record.
func (tw *TabWriter) Write(r *derive.Record) error {
	group := r.Group
	if group == "" {
		group = "-"
	}
	clade := r.Clade
	if clade == "" {
		clade = "-"
	}
	title := r.Title
	if title == "" {
		title = "-"
	}

	values := []string{
		r.GeneID,
		r.LG,
		strconv.Itoa(r.Fragment),
		r.Kind.String(),
		title,
		strconv.FormatInt(r.Start, 10),
		strconv.FormatInt(r.End, 10),
		r.Strand.String(),
		strconv.FormatInt(r.Length, 10),
		strconv.FormatInt(r.ConvertedStart, 10),
		strconv.FormatInt(r.ConvertedEnd, 10),
		strconv.FormatInt(r.RelativeStart, 10),
		strconv.FormatInt(r.RelativeEnd, 10),
		r.Structure,
		group,
		clade,
	}

	_, err := tw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// WriteAll writes the header followed by every record.
func (tw *TabWriter) WriteAll(rows []derive.Record) error {
	if err := tw.WriteHeader(); err != nil {
		return err
	}
	for i := range rows {
		if err := tw.Write(&rows[i]); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}
