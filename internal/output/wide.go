package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/vibe-qc/internal/wide"
)

// MissingValue marks a sample with no observation for a variant.
const MissingValue = "NA"

// wideKeyColumns are the leading columns of the wide table, in order.
var wideKeyColumns = []string{
	"chr", "pos", "ref", "alt", "gene", "transcript", "protein",
	"var_key", "var_hgvs", "concordance_col",
}

// WideWriter writes a wide table in tab-delimited format.
type WideWriter struct {
	w *bufio.Writer
}

// NewWideWriter creates a new tab-delimited wide-table writer.
func NewWideWriter(w io.Writer) *WideWriter {
	return &WideWriter{w: bufio.NewWriter(w)}
}

// Write writes the header followed by one line per wide row.
func (ww *WideWriter) Write(t *wide.Table) error {
	header := append(append([]string(nil), wideKeyColumns...), t.Samples...)
	if _, err := ww.w.WriteString(strings.Join(header, "\t") + "\n"); err != nil {
		return err
	}

	values := make([]string, 0, len(header))
	for _, row := range t.Rows {
		values = append(values[:0],
			row.Chrom,
			row.Pos,
			row.Ref,
			row.Alt,
			row.Gene,
			row.Transcript,
			row.Protein,
			row.VarKey,
			row.VarHGVS,
			row.ConcordanceCol,
		)
		for _, s := range t.Samples {
			if v, ok := row.Call(s); ok {
				values = append(values, strconv.Itoa(v))
			} else {
				values = append(values, MissingValue)
			}
		}
		if _, err := ww.w.WriteString(strings.Join(values, "\t") + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes any buffered data to the underlying writer.
func (ww *WideWriter) Flush() error {
	return ww.w.Flush()
}
