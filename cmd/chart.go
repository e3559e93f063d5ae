package cmd

import (
	"fmt"
	"math"
	"strings"

	"github.com/KaramelBytes/csvdash-cli/internal/analysis"
	"github.com/KaramelBytes/csvdash-cli/internal/chart"
	"github.com/KaramelBytes/csvdash-cli/internal/table"
	"github.com/spf13/cobra"
)

var (
	chView   viewOpts
	chKind   string
	chColumn string
	chFormat string
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Chart one column as bar, pie, line or scatter",
	Long: `Bar and pie charts count the values of any column. Line and scatter charts
plot a numeric column against its row number. Text output draws the chart in
the terminal; json writes a Chart.js config under chart_dir.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := chart.ParseKind(chKind)
		if err != nil {
			return err
		}
		if kind == chart.Correlation {
			return fmt.Errorf("use 'csvdash correlate --x X --y Y' for correlation charts")
		}
		if chColumn == "" {
			return fmt.Errorf("--column is required")
		}
		ds, err := loadDataset(cmd)
		if err != nil {
			return err
		}
		e, err := chView.engine(ds)
		if err != nil {
			return err
		}
		col, err := resolveColumn(cmd, ds.Headers, chColumn)
		if err != nil {
			return err
		}
		spec, err := chart.Build(viewDataset(ds, e.View()), ds.Headers[col], kind, chartOptions(ds.Headers))
		if err != nil {
			return err
		}
		return showChart(cmd, spec, chFormat)
	},
}

var (
	corrX      string
	corrY      string
	corrFormat string
)

var correlateCmd = &cobra.Command{
	Use:   "correlate",
	Short: "Pearson correlation between two columns, with a scatter chart",
	Long: `Correlates two columns over every row of the dataset; filters do not
apply. Rows where either value is not numeric are skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if corrX == "" || corrY == "" {
			return fmt.Errorf("both --x and --y are required")
		}
		ds, err := loadDataset(cmd)
		if err != nil {
			return err
		}
		c, err := analysis.Correlate(ds, corrX, corrY, resolver(ds.Headers))
		if err != nil {
			return err
		}
		p := "N/A"
		if !math.IsNaN(c.PValue) {
			p = fmt.Sprintf("%.4f", c.PValue)
		}
		r := "N/A"
		if c.Defined() {
			r = fmt.Sprintf("%.3f", c.R)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s vs %s: r = %s, n = %d, p = %s\n", c.XHeader, c.YHeader, r, c.N, p)
		return showChart(cmd, chart.BuildCorrelation(c), corrFormat)
	},
}

func init() {
	rootCmd.AddCommand(chartCmd)
	addViewFlags(chartCmd, &chView)
	chartCmd.Flags().StringVarP(&chKind, "kind", "k", "bar", "chart kind: bar|pie|line|scatter")
	chartCmd.Flags().StringVarP(&chColumn, "column", "c", "", "column label")
	chartCmd.Flags().StringVar(&chFormat, "format", "", "output format: text|json (default from config)")

	rootCmd.AddCommand(correlateCmd)
	correlateCmd.Flags().StringVar(&corrX, "x", "", "x column label")
	correlateCmd.Flags().StringVar(&corrY, "y", "", "y column label")
	correlateCmd.Flags().StringVar(&corrFormat, "format", "", "output format: text|json (default from config)")
}

// viewDataset exposes the rows of v as a Dataset named after ds.
func viewDataset(ds *table.Dataset, v *table.View) *table.Dataset {
	return &table.Dataset{Name: ds.Name, Headers: v.Headers, Rows: v.Rows}
}

func chartOptions(headers []string) chart.Options {
	return chart.Options{Resolver: resolver(headers), Classifier: classifier()}
}

// showChart renders spec through a Host in the requested format.
func showChart(cmd *cobra.Command, spec *chart.Spec, format string) error {
	if format == "" && cfg != nil {
		format = cfg.ChartFormat
	}
	var r chart.Renderer
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text":
		r = chart.TextRenderer{W: cmd.OutOrStdout()}
	case "json":
		dir := "charts"
		if cfg != nil && cfg.ChartDir != "" {
			dir = cfg.ChartDir
		}
		r = chart.JSONRenderer{Dir: dir}
	default:
		return fmt.Errorf("unsupported --format: %s (use text|json)", format)
	}
	host := chart.NewHost(r)
	if jr, ok := r.(chart.JSONRenderer); ok {
		// the chart left by the previous run is the live instance
		prev, err := jr.Latest()
		if err != nil {
			return err
		}
		host.Adopt(prev)
	}
	inst, err := host.Show(spec)
	if err != nil {
		return err
	}
	if path, ok := chart.PathOf(inst); ok {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote chart config to %s\n", path)
	}
	return nil
}
