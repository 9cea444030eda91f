package format

import (
	"fmt"
	"io"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Column names read and added by SplitFrame.
const (
	ColFormatVals      = "format_vals"
	ColGenotype        = "genotype"
	ColAlleleDepth     = "allele_depth"
	ColRefDepth        = "ref_depth"
	ColAltDepth        = "alt_depth"
	ColVAF             = "vaf"
	ColReportedDepth   = "reported_depth"
	ColGenotypeQuality = "genotype_quality"
)

// ReadFrame reads a tab-delimited table with a header line. Every column is
// kept as a string so FORMAT values are never reinterpreted, and quotes
// inside fields are literal text.
func ReadFrame(r io.Reader) (dataframe.DataFrame, error) {
	df := dataframe.ReadCSV(r,
		dataframe.WithDelimiter('\t'),
		dataframe.WithLazyQuotes(true),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nil),
	)
	if df.Err != nil {
		return df, fmt.Errorf("read table: %w", df.Err)
	}
	return df, nil
}

// FrameFromRecords builds a string-typed frame from records whose first row
// is the header, as produced by vcf.FormatRecords.
func FrameFromRecords(records [][]string) (dataframe.DataFrame, error) {
	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nil),
	)
	if df.Err != nil {
		return df, fmt.Errorf("load records: %w", df.Err)
	}
	return df, nil
}

// SplitFrame returns df with the split FORMAT columns appended (or replaced
// when a column of the same name already exists).
func (s *Splitter) SplitFrame(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	col := df.Col(ColFormatVals)
	if col.Err != nil {
		return df, fmt.Errorf("split format: %w", col.Err)
	}

	fields, err := s.SplitAll(col.Records())
	if err != nil {
		return df, err
	}

	n := len(fields)
	var (
		genotypes = make([]string, n)
		ads       = make([]string, n)
		refs      = make([]int, n)
		alts      = make([]int, n)
		vafs      = make([]float64, n)
		depths    = make([]int, n)
		quals     = make([]int, n)
	)
	for i, f := range fields {
		genotypes[i] = f.Genotype
		ads[i] = f.AlleleDepth
		refs[i] = f.RefDepth
		alts[i] = f.AltDepth
		vafs[i] = f.VAF
		depths[i] = f.ReportedDepth
		quals[i] = f.GenotypeQuality
	}

	out := df.
		Mutate(series.New(genotypes, series.String, ColGenotype)).
		Mutate(series.New(ads, series.String, ColAlleleDepth)).
		Mutate(series.New(refs, series.Int, ColRefDepth)).
		Mutate(series.New(alts, series.Int, ColAltDepth)).
		Mutate(series.New(vafs, series.Float, ColVAF)).
		Mutate(series.New(depths, series.Int, ColReportedDepth)).
		Mutate(series.New(quals, series.Int, ColGenotypeQuality))
	if out.Err != nil {
		return df, fmt.Errorf("split format: %w", out.Err)
	}
	return out, nil
}
