package cmd

import (
	"fmt"

	"github.com/KaramelBytes/csvdash-cli/internal/source"
	"github.com/spf13/cobra"
)

var dlOutputDir string

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Save the source data to a local file",
	RunE: func(cmd *cobra.Command, args []string) error {
		loc, err := sourceLocation()
		if err != nil {
			return err
		}
		dir := dlOutputDir
		if dir == "" && cfg != nil {
			dir = cfg.OutputDir
		}
		if dir == "" {
			dir = "."
		}
		dest, err := source.Download(cmd.Context(), session, loc, dir)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Saved %s\n", dest)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(downloadCmd)
	downloadCmd.Flags().StringVarP(&dlOutputDir, "output", "o", "", "directory to save into (default from config)")
}
