package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/inodb/vibe-qc/internal/duckdb"
	"github.com/inodb/vibe-qc/internal/output"
)

func newSummaryCmd(a *app) *cobra.Command {
	var variant string

	cmd := &cobra.Command{
		Use:   "summary <store.duckdb>",
		Short: "Print per-sample call statistics from a store",
		Long: `Print rows, called genotypes and mean hq_depth per sample from a store
written by reshape --store. With --variant, print the stored calls for one
var_key (chr_pos_ref_alt) in the long 11-column layout instead.`,
		Example: `  vibe-qc summary qc.duckdb
  vibe-qc summary --variant 12_25245350_C_A qc.duckdb`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(args[0]); err != nil {
				return fmt.Errorf("open store: %w", err)
			}

			s, err := duckdb.Open(args[0])
			if err != nil {
				return err
			}
			defer s.Close()

			if variant != "" {
				records, err := s.LookupVariant(variant)
				if err != nil {
					return err
				}
				if len(records) == 0 {
					return fmt.Errorf("variant %s not in store", variant)
				}
				return output.WriteCalls(cmd.OutOrStdout(), records)
			}

			stats, err := s.SampleSummary()
			if err != nil {
				return err
			}
			return output.WriteSampleStats(cmd.OutOrStdout(), stats)
		},
	}

	cmd.Flags().StringVar(&variant, "variant", "", "print the stored calls for this var_key")

	return cmd
}
