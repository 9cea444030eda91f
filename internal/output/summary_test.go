package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-qc/internal/duckdb"
)

func TestWriteSampleStats(t *testing.T) {
	var buf bytes.Buffer
	err := WriteSampleStats(&buf, []duckdb.SampleStats{
		{Sample: "S1", Rows: 2, Called: 2, MeanDepth: 173},
		{Sample: "S2", Rows: 1, Called: 0, MeanDepth: 180.5},
	})
	require.NoError(t, err)

	assert.Equal(t, "sample\trows\tcalled\tmean_hq_depth\n"+
		"S1\t2\t2\t173.0\n"+
		"S2\t1\t0\t180.5\n", buf.String())
}
