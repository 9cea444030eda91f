package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-qc/internal/calls"
	"github.com/inodb/vibe-qc/internal/wide"
)

func TestWideWriter_Write(t *testing.T) {
	input := "12\t25245350\tC\tA\tS1\tKRAS\tENST00000311936\tp.G12V\t0/1\t250\t12.5%\n" +
		"12\t25245350\tC\tA\tS2\tKRAS\tENST00000311936\tp.G12V\t0/0\t180\t0.4%\n" +
		"7\t140753336\tA\tT\tS2\tBRAF\tENST00000646891\tp.V600E\t1|1\t95\t98%\n"
	records, err := calls.Load(strings.NewReader(input))
	require.NoError(t, err)
	tbl, err := wide.Reshape(records)
	require.NoError(t, err)

	var buf bytes.Buffer
	w := NewWideWriter(&buf)
	require.NoError(t, w.Write(tbl))
	require.NoError(t, w.Flush())

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)

	assert.Equal(t, "chr\tpos\tref\talt\tgene\ttranscript\tprotein\tvar_key\tvar_hgvs\tconcordance_col\tS1\tS2", lines[0])
	assert.Equal(t, "12\t25245350\tC\tA\tKRAS\tENST00000311936\tp.G12V\t12_25245350_C_A\tKRAS;ENST00000311936;p.G12V\tblack\t1\t0", lines[1])
	assert.True(t, strings.HasSuffix(lines[2], "\tblack\tNA\t1"), lines[2])
}

func TestWideWriter_EmptyTable(t *testing.T) {
	var buf bytes.Buffer
	w := NewWideWriter(&buf)
	require.NoError(t, w.Write(&wide.Table{}))
	require.NoError(t, w.Flush())

	assert.Equal(t, strings.Join(wideKeyColumns, "\t")+"\n", buf.String())
}
