package format

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gatkTable = "sample\tvariant\tformat_vals\n" +
	"S1\t1_100_A_G\t0/1:7,3:10:40\n" +
	"S2\t1_100_A_G\t0/0:0,0:0:10\n" +
	"S3\t2_200_C_T\t1/1:0,12:12:36\n"

func TestSplitFrame(t *testing.T) {
	df, err := ReadFrame(strings.NewReader(gatkTable))
	require.NoError(t, err)

	out, err := NewSplitter().SplitFrame(df)
	require.NoError(t, err)

	assert.Equal(t, 3, out.Nrow())
	assert.Equal(t, []string{
		"sample", "variant", "format_vals",
		ColGenotype, ColAlleleDepth, ColRefDepth, ColAltDepth,
		ColVAF, ColReportedDepth, ColGenotypeQuality,
	}, out.Names())

	assert.Equal(t, []string{"0/1", "0/0", "1/1"}, out.Col(ColGenotype).Records())
	assert.Equal(t, []string{"7,3", "0,0", "0,12"}, out.Col(ColAlleleDepth).Records())

	refs, err := out.Col(ColRefDepth).Int()
	require.NoError(t, err)
	assert.Equal(t, []int{7, 0, 0}, refs)

	quals, err := out.Col(ColGenotypeQuality).Int()
	require.NoError(t, err)
	assert.Equal(t, []int{40, 10, 36}, quals)

	vafs := out.Col(ColVAF).Float()
	assert.InDelta(t, 30.0, vafs[0], 1e-9)
	assert.True(t, math.IsNaN(vafs[1]))
	assert.InDelta(t, 100.0, vafs[2], 1e-9)

	// input columns are untouched
	assert.Equal(t, []string{"S1", "S2", "S3"}, out.Col("sample").Records())
}

func TestSplitFrame_StringsNotReinterpreted(t *testing.T) {
	df, err := ReadFrame(strings.NewReader("id\tformat_vals\n007\t0/1:7,3:10:40\n"))
	require.NoError(t, err)

	out, err := NewSplitter().SplitFrame(df)
	require.NoError(t, err)
	assert.Equal(t, []string{"007"}, out.Col("id").Records())
}

func TestSplitFrame_MissingColumn(t *testing.T) {
	df, err := ReadFrame(strings.NewReader("sample\tgt\nS1\t0/1\n"))
	require.NoError(t, err)

	_, err = NewSplitter().SplitFrame(df)
	assert.Error(t, err)
}

func TestSplitFrame_RowFailureAbortsTable(t *testing.T) {
	input := gatkTable + "S4\t3_300_G_A\t0/1:5,5:10\n"
	df, err := ReadFrame(strings.NewReader(input))
	require.NoError(t, err)

	_, err = NewSplitter().SplitFrame(df)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedFormatField))

	var fe *FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 3, fe.Row)
}

func TestFrameFromRecords(t *testing.T) {
	df, err := FrameFromRecords([][]string{
		{"var_key", "sample", "format_vals"},
		{"12_25245350_C_A", "TUMOR", "0/1:7,3:10:40"},
		{"12_25245350_C_A", "NORMAL", "0/0:12,0:12:99"},
	})
	require.NoError(t, err)

	out, err := NewSplitter().SplitFrame(df)
	require.NoError(t, err)
	assert.Equal(t, []string{"TUMOR", "NORMAL"}, out.Col("sample").Records())
	quals, err := out.Col(ColGenotypeQuality).Int()
	require.NoError(t, err)
	assert.Equal(t, []int{40, 99}, quals)
}

func TestReadFrame_QuotesAreLiteral(t *testing.T) {
	df, err := ReadFrame(strings.NewReader("sample\tnote\tformat_vals\nS1\tsee \"x\" here\t0/1:7,3:10:40\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{`see "x" here`}, df.Col("note").Records())

	out, err := NewSplitter().SplitFrame(df)
	require.NoError(t, err)
	assert.Equal(t, []string{"0/1"}, out.Col(ColGenotype).Records())
}
