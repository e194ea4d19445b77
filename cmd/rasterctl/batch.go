package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newBatchCmd(a *app) *cobra.Command {
	var (
		outDir  string
		ext     string
		workers int
	)

	cmd := &cobra.Command{
		Use:   "batch <op> <files>...",
		Short: "Apply one operation to many images concurrently",
		Long: `Apply one operation to many images concurrently.

Each result is written to DIR under the input's base name, with the
extension replaced when --ext is set. Inputs that would write the same
output file are rejected before any work starts. At most --workers images are
processed at once. The first failure cancels the remaining work.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			op, files := args[0], args[1:]
			if outDir == "" {
				return fmt.Errorf("--out-dir is required")
			}
			if workers <= 0 {
				return fmt.Errorf("--workers must be positive, got %d", workers)
			}
			outs, err := outputPaths(outDir, files, ext)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}

			var done atomic.Int64
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(workers)
			for i, in := range files {
				out := outs[i]
				g.Go(func() error {
					if err := ctx.Err(); err != nil {
						return err
					}
					if err := a.applyFile(ctx, op, in, out); err != nil {
						return err
					}
					done.Add(1)
					a.log.Debug().Str("in", in).Str("out", out).Msg("written")
					return nil
				})
			}
			err = g.Wait()
			a.log.Info().Str("op", op).Int64("written", done.Load()).Int("total", len(files)).Msg("batch finished")
			return err
		},
	}

	cmd.Flags().StringVar(&outDir, "out-dir", "", "directory for the results (required)")
	cmd.Flags().StringVar(&ext, "ext", "", "output extension such as .png (default: keep the input's)")
	cmd.Flags().IntVar(&workers, "workers", runtime.NumCPU(), "number of images processed at once")
	a.addParamFlags(cmd)
	return cmd
}

// outputPaths maps every input to its output and fails when two inputs
// would write the same file.
func outputPaths(dir string, files []string, ext string) ([]string, error) {
	outs := make([]string, len(files))
	seen := make(map[string]string, len(files))
	for i, in := range files {
		out := outputPath(dir, in, ext)
		if prev, ok := seen[out]; ok {
			return nil, fmt.Errorf("%s and %s both write %s", prev, in, out)
		}
		seen[out] = in
		outs[i] = out
	}
	return outs, nil
}

// outputPath places the base name of in under dir, swapping the extension
// when ext is set.
func outputPath(dir, in, ext string) string {
	base := filepath.Base(in)
	if ext != "" {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		base = strings.TrimSuffix(base, filepath.Ext(base)) + ext
	}
	return filepath.Join(dir, base)
}
