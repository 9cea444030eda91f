package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// configKey is one setting read by vibe-qc, with the parser config set uses.
type configKey struct {
	name  string
	usage string
	parse func(string) (any, error)
}

var configKeys = []configKey{
	{"workers", "worker goroutines for row-parallel steps (0 = all CPUs)", parseWorkers},
	{"plot.width", "chart width, e.g. 900px or 100%", parseSize},
	{"plot.height", "chart height; empty scales with the number of variants", parseSize},
	{"plot.theme", "chart theme: " + strings.Join(plotThemes[1:], ", "), parseTheme},
}

var plotThemes = []string{
	"", "white",
	types.ThemeChalk, types.ThemeEssos, types.ThemeInfographic, types.ThemeMacarons,
	types.ThemePurplePassion, types.ThemeRoma, types.ThemeRomantic, types.ThemeShine,
	types.ThemeVintage, types.ThemeWalden, types.ThemeWesteros, types.ThemeWonderland,
}

var sizePattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?(px|%)$`)

func parseWorkers(s string) (any, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("workers must be a non-negative integer, got %q", s)
	}
	return n, nil
}

func parseSize(s string) (any, error) {
	if s != "" && !sizePattern.MatchString(s) {
		return nil, fmt.Errorf("size must look like 900px or 100%%, got %q", s)
	}
	return s, nil
}

func parseTheme(s string) (any, error) {
	if !slices.Contains(plotThemes, s) {
		return nil, fmt.Errorf("unknown theme %q", s)
	}
	return s, nil
}

func lookupConfigKey(name string) (configKey, error) {
	for _, k := range configKeys {
		if k.name == name {
			return k, nil
		}
	}
	names := make([]string, len(configKeys))
	for i, k := range configKeys {
		names[i] = k.name
	}
	return configKey{}, fmt.Errorf("unknown config key %q (known: %s)", name, strings.Join(names, ", "))
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage vibe-qc configuration",
		Long:  "Show, list, get, or set configuration values. Config is stored in ~/.vibe-qc.yaml.",
		Example: `  vibe-qc config                        # show all config
  vibe-qc config keys                   # list settable keys
  vibe-qc config set plot.height 1200px  # taller charts
  vibe-qc config get workers             # get a value`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := yaml.Marshal(viper.AllSettings())
			if err != nil {
				return fmt.Errorf("marshaling config: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "keys",
		Short: "List configuration keys",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, k := range configKeys {
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s\n", k.name, k.usage)
			}
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(cmd, args[0], args[1])
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := lookupConfigKey(args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), viper.GetString(args[0]))
			return nil
		},
	})

	return cmd
}

func runConfigSet(cmd *cobra.Command, key, value string) error {
	k, err := lookupConfigKey(key)
	if err != nil {
		return err
	}
	v, err := k.parse(value)
	if err != nil {
		return err
	}
	viper.Set(key, v)

	cfgFile := viper.ConfigFileUsed()
	if cfgFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("cannot determine home directory: %w", err)
		}
		cfgFile = filepath.Join(home, ".vibe-qc.yaml")
	}

	if err := viper.WriteConfigAs(cfgFile); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s in %s\n", key, value, cfgFile)
	return nil
}
