package plot

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-qc/internal/calls"
	"github.com/inodb/vibe-qc/internal/wide"
)

const longTable = "12\t25245350\tC\tA\tS1\tKRAS\tENST00000311936\tp.G12V\t0/1\t250\t12.5%\n" +
	"12\t25245350\tC\tA\tS2\tKRAS\tENST00000311936\tp.G12V\t0/0\t180\t0.4%\n" +
	"7\t140753336\tA\tT\tS1\tBRAF\tENST00000646891\tp.V600E\t1|1\t95\t98%\n"

func fixtures(t *testing.T) (*wide.Table, []*calls.Record) {
	t.Helper()
	records, err := calls.Load(strings.NewReader(longTable))
	require.NoError(t, err)
	tbl, err := wide.Reshape(records)
	require.NoError(t, err)
	tbl.Rows[0].ConcordanceCol = "red"
	tbl.Rows[1].ConcordanceCol = "green"
	return tbl, records
}

func TestJoin(t *testing.T) {
	tbl, records := fixtures(t)

	points := Join(tbl, records)
	require.Len(t, points, 3)

	assert.Equal(t, Point{VarKey: "12_25245350_C_A", Sample: "S1", Genotype: "0/1", Depth: 250, VAF: 12.5, Colour: "red"}, points[0])
	assert.Equal(t, "red", points[1].Colour)
	assert.Equal(t, "S2", points[1].Sample)
	assert.Equal(t, "green", points[2].Colour)
}

func TestJoin_UnmatchedRowsKept(t *testing.T) {
	tbl, records := fixtures(t)
	// Only the KRAS row is in the wide projection.
	tbl.Rows = tbl.Rows[:1]

	points := Join(tbl, records)
	require.Len(t, points, 3)
	assert.Equal(t, "7_140753336_A_T", points[2].VarKey)
	assert.Empty(t, points[2].Colour)
}

func TestJoin_UnmatchedWideRowsDropped(t *testing.T) {
	tbl, records := fixtures(t)

	points := Join(tbl, records[:1])
	require.Len(t, points, 1)
	assert.Equal(t, "12_25245350_C_A", points[0].VarKey)
}

func TestJoin_NilWide(t *testing.T) {
	_, records := fixtures(t)
	points := Join(nil, records)
	require.Len(t, points, 3)
	for _, p := range points {
		assert.Empty(t, p.Colour)
	}
}

func TestCategories_FirstSeenOrder(t *testing.T) {
	points := []Point{{VarKey: "b"}, {VarKey: "a"}, {VarKey: "b"}, {VarKey: "c"}}
	keys, index := categories(points)
	assert.Equal(t, []string{"b", "a", "c"}, keys)
	assert.Equal(t, map[string]int{"b": 0, "a": 1, "c": 2}, index)
}

func TestCharts_EmptyInput(t *testing.T) {
	tbl, _ := fixtures(t)

	_, err := DepthChart(tbl, nil, "S1")
	assert.True(t, errors.Is(err, ErrNoPoints))

	_, err = VAFChart(tbl, nil, "S1")
	assert.True(t, errors.Is(err, ErrNoPoints))
}

func TestCharts_Render(t *testing.T) {
	tbl, records := fixtures(t)
	tbl.Rows = tbl.Rows[:1]

	depth, err := DepthChart(tbl, records, "PATIENT-7", WithSize("800px", "500px"))
	require.NoError(t, err)
	vaf, err := VAFChart(tbl, records, "PATIENT-7")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, depth, vaf))
	html := buf.String()

	assert.Contains(t, html, "PATIENT-7")
	assert.Contains(t, html, "read depth by variant")
	assert.Contains(t, html, "VAF by variant")
	assert.Contains(t, html, "12_25245350_C_A")
	assert.Contains(t, html, "7_140753336_A_T")
	assert.Contains(t, html, "red")
	assert.Contains(t, html, UnmatchedSeries)
	assert.Contains(t, html, "log")
}

func TestDepthChart_SeriesPerColour(t *testing.T) {
	tbl, records := fixtures(t)
	tbl.Rows = tbl.Rows[:1]

	chart, err := DepthChart(tbl, records, "S1")
	require.NoError(t, err)

	var names []string
	for _, s := range chart.MultiSeries {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"red", UnmatchedSeries}, names)
}

func TestDepthChart_Axes(t *testing.T) {
	tbl, records := fixtures(t)

	chart, err := DepthChart(tbl, records, "S1")
	require.NoError(t, err)

	require.NotEmpty(t, chart.XAxisList)
	assert.Equal(t, "log", chart.XAxisList[0].Type)
	assert.Equal(t, DepthFloor, chart.XAxisList[0].Min)

	require.NotEmpty(t, chart.YAxisList)
	assert.Equal(t, "category", chart.YAxisList[0].Type)
	assert.Equal(t, []string{"12_25245350_C_A", "7_140753336_A_T"}, chart.YAxisList[0].Data)

	// value first, category index second
	data := chart.MultiSeries[0].Data.([]opts.ScatterData)
	assert.Equal(t, []interface{}{250.0, 0}, data[0].Value)
}

func TestDepthChart_BreakLines(t *testing.T) {
	tbl, records := fixtures(t)

	chart, err := DepthChart(tbl, records, "S1")
	require.NoError(t, err)

	first := chart.MultiSeries[0]
	require.NotNil(t, first.MarkLines)
	var breaks []interface{}
	for _, item := range first.MarkLines.Data {
		breaks = append(breaks, item.(opts.MarkLineNameXAxisItem).XAxis)
	}
	assert.Equal(t, []interface{}{1.0, 2.0, 5.0, 10.0, 20.0, 50.0, 100.0, 200.0, 500.0, 1000.0, 2000.0}, breaks)

	for _, s := range chart.MultiSeries[1:] {
		assert.Nil(t, s.MarkLines, s.Name)
	}
}

func TestDepthChart_ZeroDepthClampedToFloor(t *testing.T) {
	records, err := calls.Load(strings.NewReader("1\t100\tA\tG\tS1\tG\tT\tP\t0/0\t0\t0%\n"))
	require.NoError(t, err)

	chart, err := DepthChart(nil, records, "S1")
	require.NoError(t, err)

	data := chart.MultiSeries[0].Data.([]opts.ScatterData)
	require.Len(t, data, 1)
	assert.Equal(t, []interface{}{DepthFloor, 0}, data[0].Value)
}

func TestVAFChart_LinearAxis(t *testing.T) {
	tbl, records := fixtures(t)

	chart, err := VAFChart(tbl, records, "S1")
	require.NoError(t, err)

	assert.Equal(t, "S1: VAF by variant", chart.Title.Title)
	assert.Equal(t, "value", chart.XAxisList[0].Type)
	assert.Equal(t, 0, chart.XAxisList[0].Min)
	assert.Equal(t, "category", chart.YAxisList[0].Type)
	for _, s := range chart.MultiSeries {
		assert.Nil(t, s.MarkLines, s.Name)
	}

	var values []interface{}
	for _, s := range chart.MultiSeries {
		for _, d := range s.Data.([]opts.ScatterData) {
			values = append(values, d.Value.([]interface{})[0])
		}
	}
	assert.ElementsMatch(t, []interface{}{12.5, 0.4, 98.0}, values)
}

func TestCharts_GenotypeSymbols(t *testing.T) {
	tbl, records := fixtures(t)

	chart, err := DepthChart(tbl, records, "S1")
	require.NoError(t, err)

	symbols := map[string]string{}
	for _, s := range chart.MultiSeries {
		for _, d := range s.Data.([]opts.ScatterData) {
			symbols[d.Name] = d.Symbol
		}
	}
	assert.Equal(t, map[string]string{
		"12_25245350_C_A S1 (0/1)": "circle",
		"12_25245350_C_A S2 (0/0)": "triangle",
		"7_140753336_A_T S1 (1|1)": "rect",
	}, symbols)
}
