package output

import (
	"bufio"
	"fmt"
	"io"

	"github.com/inodb/vibe-qc/internal/duckdb"
)

// WriteSampleStats writes per-sample call statistics as a tab-delimited table.
func WriteSampleStats(w io.Writer, stats []duckdb.SampleStats) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString("sample\trows\tcalled\tmean_hq_depth\n"); err != nil {
		return err
	}
	for _, st := range stats {
		if _, err := fmt.Fprintf(bw, "%s\t%d\t%d\t%.1f\n", st.Sample, st.Rows, st.Called, st.MeanDepth); err != nil {
			return err
		}
	}
	return bw.Flush()
}
