package cmd

import (
	"fmt"

	cfgpkg "github.com/KaramelBytes/csvdash-cli/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set csvdash configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(w, "No config loaded")
			return nil
		}
		fmt.Fprintf(w, "source: %s\n", cfg.Source)
		fmt.Fprintf(w, "fetch_timeout_sec: %d\n", cfg.FetchTimeoutSec)
		fmt.Fprintf(w, "sample_cap: %d\n", cfg.SampleCap)
		fmt.Fprintf(w, "numeric_threshold_pct: %d\n", cfg.NumericThresholdPct)
		fmt.Fprintf(w, "label_fallback: %s\n", cfg.LabelFallback)
		fmt.Fprintf(w, "chart_format: %s\n", cfg.ChartFormat)
		fmt.Fprintf(w, "chart_dir: %s\n", cfg.ChartDir)
		fmt.Fprintf(w, "output_dir: %s\n", cfg.OutputDir)
		fmt.Fprintf(w, "log_level: %s\n", cfg.LogLevel)
		fmt.Fprintf(w, "log_format: %s\n", cfg.LogFormat)
		fmt.Fprintf(w, "batch_concurrency: %d\n", cfg.BatchConcurrency)
		fmt.Fprintf(w, "serve_addr: %s\n", cfg.ServeAddr)
		fmt.Fprintf(w, "serve_dir: %s\n", cfg.ServeDir)
		if path, err := cfgpkg.Path(cfgFile); err == nil {
			fmt.Fprintf(w, "# file: %s\n", path)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		// re-read so --source and friends are not persisted by accident
		c, err := cfgpkg.Load(cfgFile)
		if err != nil {
			return err
		}
		if err := c.Set(key, val); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		cfg = c
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
