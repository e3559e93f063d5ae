package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/csvdash-cli/internal/analysis"
	"github.com/KaramelBytes/csvdash-cli/internal/parser"
	"github.com/KaramelBytes/csvdash-cli/internal/table"
	"github.com/KaramelBytes/csvdash-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	tblView  viewOpts
	tblLimit int
	tblOut   string
)

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Print the dataset as a table, optionally filtered and sorted",
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset(cmd)
		if err != nil {
			return err
		}
		e, err := tblView.engine(ds)
		if err != nil {
			return err
		}
		v := e.View()

		if tblOut != "" {
			out := &table.Dataset{Name: ds.Name, Headers: v.Headers, Rows: v.Rows}
			switch strings.ToLower(filepath.Ext(tblOut)) {
			case ".xlsx":
				err = parser.WriteXLSX(tblOut, out)
			case ".csv", "":
				err = utils.SafeWriteFile(tblOut, []byte(parser.FormatCSV(out)), true)
			default:
				return fmt.Errorf("unsupported --out extension: %s (use .csv or .xlsx)", filepath.Ext(tblOut))
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "✓ Wrote %d rows to %s\n", v.Len(), tblOut)
			return nil
		}

		rows := v.Rows
		if tblLimit > 0 && len(rows) > tblLimit {
			rows = rows[:tblLimit]
		}
		w := cmd.OutOrStdout()
		fmt.Fprint(w, analysis.MarkdownTable(v.Headers, rows))
		fmt.Fprintf(w, "\n%d of %d rows\n", v.Len(), ds.Len())
		return nil
	},
}

var valColumn string

var valuesCmd = &cobra.Command{
	Use:   "values",
	Short: "List the distinct values of a column (filter choices)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if valColumn == "" {
			return fmt.Errorf("--column is required")
		}
		ds, err := loadDataset(cmd)
		if err != nil {
			return err
		}
		col, err := resolveColumn(cmd, ds.Headers, valColumn)
		if err != nil {
			return err
		}
		e := table.NewEngine(ds, classifier())
		for _, v := range e.DistinctValues(col) {
			fmt.Fprintln(cmd.OutOrStdout(), v)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tableCmd)
	addViewFlags(tableCmd, &tblView)
	tableCmd.Flags().IntVar(&tblLimit, "limit", 50, "maximum rows to print (0 = all)")
	tableCmd.Flags().StringVarP(&tblOut, "out", "o", "", "write the view to a .csv or .xlsx file instead of printing")

	rootCmd.AddCommand(valuesCmd)
	valuesCmd.Flags().StringVarP(&valColumn, "column", "c", "", "column label")
}
