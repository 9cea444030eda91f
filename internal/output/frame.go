package output

import (
	"bufio"
	"io"
	"strings"

	"github.com/go-gota/gota/dataframe"
)

// WriteFrame writes a data frame as tab-delimited text with a header line.
// Missing float values are written as "NaN", matching gota's record form.
func WriteFrame(w io.Writer, df dataframe.DataFrame) error {
	if df.Err != nil {
		return df.Err
	}

	bw := bufio.NewWriter(w)
	for _, rec := range df.Records() {
		if _, err := bw.WriteString(strings.Join(rec, "\t") + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
