package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-qc/internal/format"
	"github.com/inodb/vibe-qc/internal/output"
	"github.com/inodb/vibe-qc/internal/vcf"
)

func newSplitFormatCmd(a *app) *cobra.Command {
	var (
		outputFile    string
		inputFormat   string
		skipMissingAD bool
	)

	cmd := &cobra.Command{
		Use:   "split-format <table.tsv|calls.vcf>",
		Short: "Split GATK GT:AD:DP:GQ values into columns",
		Long: `Read a tab-delimited table with a header and a format_vals column holding
GT:AD:DP:GQ values, and append genotype, allele_depth, ref_depth, alt_depth,
vaf, reported_depth and genotype_quality columns. vaf is NaN when both allele
depths are zero.

A VCF input (plain or gzipped) is first turned into a var_key, sample,
format_vals table with one row per variant per sample. GATK writes no-call
samples as ./.:.:.:. and those fail the split for lack of allele depths;
pass --skip-missing-ad to leave samples without an AD value out.`,
		Example: `  vibe-qc split-format gatk_calls.tsv > split.tsv
  vibe-qc split-format --input-format vcf --skip-missing-ad calls.vcf.gz -o split.tsv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			detected := inputFormat
			if detected == "" {
				detected = detectInputFormat(args[0])
			}

			var (
				df  dataframe.DataFrame
				err error
			)
			switch detected {
			case "vcf":
				df, err = a.readVCFFrame(args[0], skipMissingAD)
			case "tsv":
				df, err = readTableFrame(args[0])
			default:
				return fmt.Errorf("unknown input format %q (use vcf or tsv)", detected)
			}
			if err != nil {
				return err
			}

			s := format.NewSplitter()
			s.SetWorkers(viper.GetInt("workers"))
			s.SetLogger(a.logger)

			out, err := s.SplitFrame(df)
			if err != nil {
				return err
			}
			a.logger.Info("split format values",
				zap.String("input_format", detected),
				zap.Int("rows", out.Nrow()))

			return writeOutput(cmd.OutOrStdout(), outputFile, func(w io.Writer) error {
				return output.WriteFrame(w, out)
			})
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&inputFormat, "input-format", "", "input format: tsv or vcf (default: auto-detect)")
	cmd.Flags().BoolVar(&skipMissingAD, "skip-missing-ad", false, "VCF input: leave out samples with no AD value")

	return cmd
}

func readTableFrame(path string) (dataframe.DataFrame, error) {
	in := io.Reader(os.Stdin)
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("open table: %w", err)
		}
		defer f.Close()
		in = f
	}
	return format.ReadFrame(in)
}

func (a *app) readVCFFrame(path string, skipMissingAD bool) (dataframe.DataFrame, error) {
	p, err := vcf.NewParser(path)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	defer p.Close()

	a.logger.Debug("read vcf header",
		zap.Int("header_lines", len(p.Header())),
		zap.Strings("samples", p.SampleNames()))

	records, err := vcf.FormatRecords(p, skipMissingAD)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	return format.FrameFromRecords(records)
}

// detectInputFormat detects the split-format input by extension or content.
func detectInputFormat(path string) string {
	lowerPath := strings.ToLower(path)
	lowerPath = strings.TrimSuffix(lowerPath, ".gz")
	if strings.HasSuffix(lowerPath, ".vcf") {
		return "vcf"
	}
	if ext := filepath.Ext(lowerPath); ext == ".tsv" || ext == ".txt" || path == "-" {
		return "tsv"
	}

	file, err := os.Open(path)
	if err != nil {
		return "tsv"
	}
	defer file.Close()

	buf := make([]byte, 512)
	n, err := file.Read(buf)
	if err != nil || n == 0 {
		return "tsv"
	}

	content := string(buf[:n])
	if strings.HasPrefix(content, "##fileformat=VCF") || strings.HasPrefix(content, "#CHROM") {
		return "vcf"
	}
	return "tsv"
}
