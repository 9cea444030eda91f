package main

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/inodb/vibe-qc/internal/concordance"
	"github.com/inodb/vibe-qc/internal/plot"
	"github.com/inodb/vibe-qc/internal/wide"
)

func newPlotCmd(a *app) *cobra.Command {
	var (
		outputFile  string
		sampleName  string
		coloursFile string
	)

	cmd := &cobra.Command{
		Use:   "plot <calls.tsv>",
		Short: "Render depth and VAF charts per variant",
		Long: `Reshape the calls table, apply concordance colours, and write an HTML page
with two scatter charts: high-quality depth (log scale) and VAF per variant.

Colours come from a var_key<TAB>colour table produced by the concordance step;
without one every variant is drawn in the default colour.`,
		Example: `  vibe-qc plot --sample PATIENT-7 -o qc.html calls.tsv
  vibe-qc plot --sample PATIENT-7 --colours concordance.tsv -o qc.html calls.tsv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := a.loadCalls(args[0])
			if err != nil {
				return err
			}

			tbl, err := wide.Reshape(records)
			if err != nil {
				return err
			}

			colourer := concordance.Identity
			if coloursFile != "" {
				m, err := concordance.LoadMap(coloursFile)
				if err != nil {
					return err
				}
				a.logger.Info("loaded concordance colours", zap.Int("variants", len(m)))
				colourer = m
			}
			coloured, err := concordance.Apply(colourer, tbl)
			if err != nil {
				return err
			}

			options := []plot.Option{
				plot.WithSize(viper.GetString("plot.width"), viper.GetString("plot.height")),
				plot.WithTheme(viper.GetString("plot.theme")),
			}

			var depth, vaf *charts.Scatter
			var g errgroup.Group
			g.Go(func() error {
				var err error
				depth, err = plot.DepthChart(coloured, records, sampleName, options...)
				return err
			})
			g.Go(func() error {
				var err error
				vaf, err = plot.VAFChart(coloured, records, sampleName, options...)
				return err
			})
			if err := g.Wait(); err != nil {
				return err
			}

			return writeOutput(cmd.OutOrStdout(), outputFile, func(w io.Writer) error {
				return plot.Render(w, depth, vaf)
			})
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "output HTML file (default: stdout)")
	cmd.Flags().StringVarP(&sampleName, "sample", "s", "", "sample name for chart titles")
	cmd.Flags().StringVar(&coloursFile, "colours", "", "var_key<TAB>colour table from the concordance step")
	cmd.Flags().String("width", "", "chart width, e.g. 900px")
	cmd.Flags().String("height", "", "chart height (default scales with variant count)")
	viper.BindPFlag("plot.width", cmd.Flags().Lookup("width"))   //nolint:errcheck
	viper.BindPFlag("plot.height", cmd.Flags().Lookup("height")) //nolint:errcheck
	cmd.MarkFlagRequired("sample")                               //nolint:errcheck

	return cmd
}
