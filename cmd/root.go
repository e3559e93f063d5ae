package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	cfgpkg "github.com/KaramelBytes/csvdash-cli/internal/config"
	"github.com/KaramelBytes/csvdash-cli/internal/logging"
	"github.com/KaramelBytes/csvdash-cli/internal/source"
	"github.com/KaramelBytes/csvdash-cli/internal/table"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	// Source flags (override config if set)
	flagSource          string
	flagFetchTimeoutSec int

	// Loaded configuration
	cfg *cfgpkg.Global
	// Session caches fetched datasets for the current invocation.
	session *source.Session
)

var rootCmd = &cobra.Command{
	Use:   "csvdash",
	Short: "csvdash: explore a CSV dataset from the terminal",
	Long: `csvdash loads a CSV (local file or URL), infers column types, and lets you
filter, sort, summarize, correlate and chart its columns.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.csvdash/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVarP(&flagSource, "source", "s", "", "dataset path or URL (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagFetchTimeoutSec, "fetch-timeout", 0, "fetch timeout in seconds (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to defaults so read-only commands still work
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Defaults()
	}
	cfg = c

	f := rootCmd.PersistentFlags()
	if f.Changed("source") && flagSource != "" {
		cfg.Source = flagSource
	}
	if f.Changed("fetch-timeout") && flagFetchTimeoutSec > 0 {
		cfg.FetchTimeoutSec = flagFetchTimeoutSec
	}
	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	log := logging.Init(logging.Config{Level: level, Format: cfg.LogFormat, Output: rootCmd.ErrOrStderr()})

	fetcher := source.NewFetcher(time.Duration(cfg.FetchTimeoutSec) * time.Second)
	fetcher.Logger = log
	session = source.NewSession(fetcher)
	log.Debug("config loaded", "source", cfg.Source, "session", session.ID)
}

// classifier builds the column classifier from config.
func classifier() table.Classifier {
	c := table.DefaultClassifier()
	if cfg != nil {
		c.SampleCap = cfg.SampleCap
		if cfg.NumericThresholdPct > 0 {
			c.ThresholdPct = cfg.NumericThresholdPct
		}
	}
	return c
}

// resolver builds a label resolver honoring label_fallback.
func resolver(headers []string) table.Resolver {
	r := table.NewResolver(headers)
	if cfg != nil {
		r.Fallback = table.ParseFallbackPolicy(cfg.LabelFallback)
	}
	return r
}

func sourceLocation() (string, error) {
	loc := ""
	if cfg != nil {
		loc = strings.TrimSpace(cfg.Source)
	}
	if loc == "" {
		return "", fmt.Errorf("no data source: pass --source or run 'csvdash config set source <path|url>'")
	}
	return loc, nil
}

// loadDataset fetches and parses the configured source through the session.
func loadDataset(cmd *cobra.Command) (*table.Dataset, error) {
	loc, err := sourceLocation()
	if err != nil {
		return nil, err
	}
	ds, err := session.Dataset(cmd.Context(), loc)
	if err != nil {
		return nil, err
	}
	return ds, nil
}

// viewOpts are the filter/sort flags shared by table-like commands.
type viewOpts struct {
	filters []string
	sortBy  string
	desc    bool
}

func addViewFlags(c *cobra.Command, o *viewOpts) {
	c.Flags().StringArrayVarP(&o.filters, "filter", "f", nil, `keep rows where "Column=Value" (repeatable)`)
	c.Flags().StringVar(&o.sortBy, "sort", "", "column to sort by")
	c.Flags().BoolVar(&o.desc, "desc", false, "sort descending")
}

// engine applies the filter and sort flags to ds.
func (o *viewOpts) engine(ds *table.Dataset) (*table.Engine, error) {
	e := table.NewEngine(ds, classifier())
	r := resolver(ds.Headers)
	for _, f := range o.filters {
		label, value, ok := strings.Cut(f, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --filter %q (use Column=Value)", f)
		}
		col, err := r.Index(strings.TrimSpace(label))
		if err != nil {
			return nil, err
		}
		if err := e.SetFilter(col, value); err != nil {
			return nil, err
		}
	}
	if o.sortBy != "" {
		col, err := r.Index(o.sortBy)
		if err != nil {
			return nil, err
		}
		dir := table.Ascending
		if o.desc {
			dir = table.Descending
		}
		if err := e.SetSort(col, dir); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// resolveColumn maps a user label to a header index. Under the passthrough
// policy an unknown label is reported as a warning before failing, since
// there is still no column to read.
func resolveColumn(cmd *cobra.Command, headers []string, label string) (int, error) {
	r := resolver(headers)
	h, ok, err := r.Resolve(label)
	if err != nil {
		return -1, err
	}
	if !ok {
		fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: column %q not found; using label as given\n", h)
	}
	for i, cand := range headers {
		if cand == h {
			return i, nil
		}
	}
	return -1, &table.ColumnNotFoundError{Label: label}
}
