package cmd

import (
	"fmt"

	"github.com/KaramelBytes/csvdash-cli/internal/analysis"
	"github.com/KaramelBytes/csvdash-cli/internal/table"
	"github.com/spf13/cobra"
)

var (
	sumView   viewOpts
	sumColumn string
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summary statistics for one column of the current view",
	Long: `Prints count, sum, mean, median, mode, min, max and range for a column.
Without --column the first numeric column is used. Statistics that need
numbers are N/A for categorical columns.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset(cmd)
		if err != nil {
			return err
		}
		e, err := sumView.engine(ds)
		if err != nil {
			return err
		}
		var col int
		if sumColumn != "" {
			col, err = resolveColumn(cmd, ds.Headers, sumColumn)
			if err != nil {
				return err
			}
		} else {
			col = table.FirstNumericColumn(ds, classifier())
			if col < 0 {
				if ds.Width() == 0 {
					return fmt.Errorf("dataset has no columns")
				}
				col = 0
			}
		}

		s := analysis.Summarize(e.View(), col, classifier())
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%s (%s)\n", s.Column, s.Kind)
		for _, f := range s.Fields() {
			fmt.Fprintf(w, "  %-7s %s\n", f.Label+":", f.Value)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	addViewFlags(summaryCmd, &sumView)
	summaryCmd.Flags().StringVarP(&sumColumn, "column", "c", "", "column label (default: first numeric column)")
}
