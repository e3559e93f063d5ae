package cmd

import (
	"fmt"

	"github.com/KaramelBytes/csvdash-cli/internal/analysis"
	"github.com/KaramelBytes/csvdash-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	anaOutputPath string
	anaSampleRows int
	anaTopValues  int
	anaCorr       bool
	anaHTML       bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Summarize every column of the dataset as a Markdown (or HTML) report",
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset(cmd)
		if err != nil {
			return err
		}
		rep := analysis.Analyze(ds, analysisOptions(anaSampleRows, anaTopValues, anaCorr))
		out := []byte(rep.Markdown())
		if anaHTML {
			out = rep.HTML()
		}

		if anaOutputPath != "" {
			if err := utils.SafeWriteFile(anaOutputPath, out, true); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote analysis to %s\n", anaOutputPath)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the report")
	analyzeCmd.Flags().IntVar(&anaSampleRows, "sample-rows", 5, "number of sample rows to include")
	analyzeCmd.Flags().IntVar(&anaTopValues, "top-values", 5, "categories listed per categorical column")
	analyzeCmd.Flags().BoolVar(&anaCorr, "correlations", false, "compute Pearson correlations among numeric columns")
	analyzeCmd.Flags().BoolVar(&anaHTML, "html", false, "render the report as a standalone HTML page")
}

func analysisOptions(sampleRows, topValues int, corr bool) analysis.Options {
	opt := analysis.DefaultOptions()
	if sampleRows > 0 {
		opt.SampleRows = sampleRows
	}
	if topValues > 0 {
		opt.TopValues = topValues
	}
	opt.Correlations = corr
	opt.Classifier = classifier()
	return opt
}
