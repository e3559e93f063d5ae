package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/KaramelBytes/csvdash-cli/internal/analysis"
	"github.com/KaramelBytes/csvdash-cli/internal/source"
	"github.com/KaramelBytes/csvdash-cli/internal/utils"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	abOutputDir   string
	abSampleRows  int
	abTopValues   int
	abCorr        bool
	abHTML        bool
	abConcurrency int
	abQuiet       bool
)

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <patterns...>",
	Short: "Analyze many CSV/TSV/XLSX files in parallel",
	Long: `Each argument is a file path or a glob pattern (** matches across
directories). Reports are printed in file order, or written to --output
as <name>.summary.md (or .html). Files that share a base name get a __2,
__3, ... suffix instead of overwriting each other.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := expandPatterns(args)
		if err != nil {
			return err
		}
		opt := analysisOptions(abSampleRows, abTopValues, abCorr)
		ext := ".summary.md"
		if abHTML {
			ext = ".summary.html"
		}
		var outs []string
		if abOutputDir != "" {
			if err := utils.EnsureDir(abOutputDir); err != nil {
				return err
			}
			outs = summaryPaths(abOutputDir, files, ext)
		}

		limit := abConcurrency
		if limit <= 0 && cfg != nil {
			limit = cfg.BatchConcurrency
		}
		if limit <= 0 {
			limit = 1
		}

		// each worker writes only its own slot
		results := make([][]byte, len(files))
		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(limit)
		total := len(files)
		for i, path := range files {
			g.Go(func() error {
				if !abQuiet {
					fmt.Fprintf(cmd.ErrOrStderr(), "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
				}
				ds, err := session.Dataset(ctx, path)
				if err != nil {
					return err
				}
				rep := analysis.Analyze(ds, opt)
				out := []byte(rep.Markdown())
				if abHTML {
					out = rep.HTML()
				}
				if outs != nil {
					if err := utils.SafeWriteFile(outs[i], out, true); err != nil {
						return fmt.Errorf("write summary for %s: %w", path, err)
					}
					return nil
				}
				results[i] = out
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		for i := range files {
			if outs != nil {
				if !abQuiet {
					fmt.Fprintf(w, "✓ Wrote %s\n", outs[i])
				}
				continue
			}
			fmt.Fprintln(w, string(results[i]))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	analyzeBatchCmd.Flags().StringVarP(&abOutputDir, "output", "o", "", "directory to write one summary per file")
	analyzeBatchCmd.Flags().IntVar(&abSampleRows, "sample-rows", 5, "number of sample rows to include")
	analyzeBatchCmd.Flags().IntVar(&abTopValues, "top-values", 5, "categories listed per categorical column")
	analyzeBatchCmd.Flags().BoolVar(&abCorr, "correlations", false, "compute Pearson correlations among numeric columns")
	analyzeBatchCmd.Flags().BoolVar(&abHTML, "html", false, "write HTML pages instead of Markdown")
	analyzeBatchCmd.Flags().IntVar(&abConcurrency, "concurrency", 0, "files analyzed at once (default from config)")
	analyzeBatchCmd.Flags().BoolVar(&abQuiet, "quiet", false, "suppress progress and non-essential output")
}

// expandPatterns resolves globs and literal paths into a sorted, de-duplicated
// file list. URLs are passed through unchanged.
func expandPatterns(args []string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		files = append(files, p)
	}
	for _, arg := range args {
		if source.IsURL(arg) {
			add(arg)
			continue
		}
		matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			add(m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files matched")
	}
	sort.Strings(files)
	return files, nil
}

// summaryPaths picks one output file per input, adding __N suffixes where
// base names collide or a file already exists.
func summaryPaths(dir string, files []string, ext string) []string {
	taken := map[string]struct{}{}
	out := make([]string, len(files))
	for i, f := range files {
		base := source.TrimCompressionExt(source.BaseName(f))
		base = strings.TrimSuffix(base, filepath.Ext(base))
		if base == "" {
			base = "data"
		}
		cand := filepath.Join(dir, base+ext)
		for n := 2; ; n++ {
			_, dup := taken[cand]
			_, statErr := os.Stat(cand)
			if !dup && os.IsNotExist(statErr) {
				break
			}
			cand = filepath.Join(dir, fmt.Sprintf("%s__%d%s", base, n, ext))
		}
		taken[cand] = struct{}{}
		out[i] = cand
	}
	return out
}
