package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/vibe-qc/internal/calls"
)

// WriteCalls writes records back out in the headerless 11-column long layout.
func WriteCalls(w io.Writer, records []*calls.Record) error {
	bw := bufio.NewWriter(w)
	fields := make([]string, calls.NumColumns)
	for _, r := range records {
		fields[calls.ColChrom] = r.Chrom
		fields[calls.ColPos] = r.PosText()
		fields[calls.ColRef] = r.Ref
		fields[calls.ColAlt] = r.Alt
		fields[calls.ColSample] = r.Sample
		fields[calls.ColGene] = r.Gene
		fields[calls.ColTranscript] = r.Transcript
		fields[calls.ColProtein] = r.Protein
		fields[calls.ColGenotype] = r.Genotype
		fields[calls.ColHQDepth] = strconv.FormatFloat(r.HQDepth, 'f', -1, 64)
		fields[calls.ColVAF] = r.VAF
		if _, err := bw.WriteString(strings.Join(fields, "\t") + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
