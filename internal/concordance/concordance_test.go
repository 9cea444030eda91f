package concordance

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-qc/internal/calls"
	"github.com/inodb/vibe-qc/internal/wide"
)

func testTable(t *testing.T) *wide.Table {
	t.Helper()
	input := "1\t100\tA\tG\tS1\tG1\tT1\tp.A1V\t0/1\t10\t5%\n" +
		"1\t100\tA\tG\tS2\tG1\tT1\tp.A1V\t0/0\t10\t0%\n" +
		"2\t200\tC\tT\tS1\tG2\tT2\tp.R2W\t1/1\t30\t99%\n"
	records, err := calls.Load(strings.NewReader(input))
	require.NoError(t, err)
	tbl, err := wide.Reshape(records)
	require.NoError(t, err)
	return tbl
}

func TestIdentity(t *testing.T) {
	tbl := testTable(t)
	out, err := Apply(Identity, tbl)
	require.NoError(t, err)
	require.Len(t, out.Rows, 2)
	for _, row := range out.Rows {
		assert.Equal(t, wide.DefaultColour, row.ConcordanceCol)
	}
}

func TestMapColourer(t *testing.T) {
	tbl := testTable(t)
	m, err := ReadMap(strings.NewReader("# var_key\tcolour\n1_100_A_G\t#d62728\n\n9_9_A_C\tblue\n"))
	require.NoError(t, err)

	out, err := Apply(m, tbl)
	require.NoError(t, err)

	assert.Equal(t, "#d62728", out.Rows[0].ConcordanceCol)
	assert.Equal(t, wide.DefaultColour, out.Rows[1].ConcordanceCol)
	// input table untouched
	assert.Equal(t, wide.DefaultColour, tbl.Rows[0].ConcordanceCol)
}

func TestReadMap_Malformed(t *testing.T) {
	_, err := ReadMap(strings.NewReader("1_100_A_G\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
}

func TestApply_ContractViolations(t *testing.T) {
	tbl := testTable(t)

	dropRow := Func(func(t *wide.Table) (*wide.Table, error) {
		out := t.Clone()
		out.Rows = out.Rows[:1]
		return out, nil
	})
	_, err := Apply(dropRow, tbl)
	assert.True(t, errors.Is(err, ErrContractViolation))

	blank := Func(func(t *wide.Table) (*wide.Table, error) {
		out := t.Clone()
		out.Rows[1].ConcordanceCol = ""
		return out, nil
	})
	_, err = Apply(blank, tbl)
	assert.True(t, errors.Is(err, ErrContractViolation))

	nilTable := Func(func(*wide.Table) (*wide.Table, error) { return nil, nil })
	_, err = Apply(nilTable, tbl)
	assert.True(t, errors.Is(err, ErrContractViolation))
}

func TestApply_PropagatesError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Apply(Func(func(*wide.Table) (*wide.Table, error) { return nil, boom }), testTable(t))
	assert.True(t, errors.Is(err, boom))
}
