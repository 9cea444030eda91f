// Package main provides the vibe-qc command-line tool.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app carries state shared by subcommands.
type app struct {
	cfgFile string
	verbose bool
	logger  *zap.Logger
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	a := &app{logger: zap.NewNop()}
	cmd := newRootCmd(a)
	cmd.SetArgs(args)

	err := cmd.Execute()
	a.logger.Sync() //nolint:errcheck
	if err != nil {
		return ExitError
	}
	return ExitSuccess
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vibe-qc",
		Short: "Variant-calling QC reports",
		Long: `vibe-qc reshapes per-sample variant calls into a per-variant table and
renders depth and VAF diagnostics for a QC report.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(a.cfgFile); err != nil {
				return err
			}
			return a.initLogger()
		},
	}

	cmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default ~/.vibe-qc.yaml)")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose logging")
	cmd.PersistentFlags().Int("workers", 0, "worker goroutines for row-parallel steps (0 = all CPUs)")
	viper.BindPFlag("workers", cmd.PersistentFlags().Lookup("workers")) //nolint:errcheck

	cmd.AddCommand(newReshapeCmd(a))
	cmd.AddCommand(newPlotCmd(a))
	cmd.AddCommand(newSplitFormatCmd(a))
	cmd.AddCommand(newSummaryCmd(a))
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// initConfig reads ~/.vibe-qc.yaml (or cfgFile) and VIBE_QC_* environment variables.
func initConfig(cfgFile string) error {
	viper.SetDefault("plot.width", "900px")
	viper.SetDefault("plot.height", "")
	viper.SetDefault("plot.theme", "")

	viper.SetEnvPrefix("VIBE_QC")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		viper.SetConfigFile(filepath.Join(home, ".vibe-qc.yaml"))
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && (errors.Is(err, fs.ErrNotExist) || errors.As(err, &notFound)) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

func (a *app) initLogger() error {
	var (
		l   *zap.Logger
		err error
	)
	if a.verbose {
		l, err = zap.NewDevelopment()
	} else {
		cfg := zap.NewProductionConfig()
		cfg.Encoding = "console"
		cfg.DisableStacktrace = true
		l, err = cfg.Build()
	}
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	a.logger = l
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "vibe-qc version %s (%s) built %s\n", version, commit, date)
		},
	}
}
