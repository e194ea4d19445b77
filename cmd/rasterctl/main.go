// Command rasterctl applies raster operations to image files from the shell.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ironsheep/image-edit-mcp/internal/config"
	"github.com/ironsheep/image-edit-mcp/internal/imaging"
	"github.com/ironsheep/image-edit-mcp/internal/logger"
	"github.com/ironsheep/image-edit-mcp/internal/ops"
	"github.com/ironsheep/image-edit-mcp/internal/raster"
	"github.com/ironsheep/image-edit-mcp/internal/storage"
)

// Version is set by ldflags during build.
var Version = "dev"

// app holds what every subcommand needs once flags are parsed.
type app struct {
	logLevel  string
	logFormat string
	mode      string
	params    ops.Params

	log   zerolog.Logger
	cache *imaging.Cache
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "rasterctl",
		Short:        "Apply raster operations to image files",
		Version:      Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.logLevel, "log-level", config.DefaultLogLevel, "log level: debug, info, warn or error")
	pf.StringVar(&a.logFormat, "log-format", config.DefaultLogFormat, "log format: console or json")
	pf.StringVar(&a.mode, "mode", "", "load images as gray or color (default: gray for gray files)")

	root.AddCommand(
		newApplyCmd(a),
		newBatchCmd(a),
		newHistogramCmd(a),
		newOpsCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	a.log = logger.Component(logger.New(cmd.ErrOrStderr(), a.logLevel, a.logFormat), "rasterctl")
	resolver := storage.NewResolver(storage.NewHTTPSource(config.DefaultFetchTimeout))
	a.cache = imaging.NewCache(resolver, config.DefaultMaxPixels)
	cmd.SetContext(a.log.WithContext(cmd.Context()))
	return nil
}

// addParamFlags registers the operation parameters on cmd.
func (a *app) addParamFlags(cmd *cobra.Command) {
	d := ops.DefaultParams()
	f := cmd.Flags()
	f.IntVar(&a.params.Threshold, "threshold", d.Threshold, "gradient magnitude threshold")
	f.IntVar(&a.params.T1, "t1", d.T1, "low hysteresis threshold")
	f.IntVar(&a.params.T2, "t2", d.T2, "high hysteresis threshold")
	f.IntVar(&a.params.Kernel, "kernel", d.Kernel, "kernel size for median and pad")
	f.IntVar(&a.params.Value, "value", d.Value, "binary threshold value")
	f.StringVar(&a.params.Rotation, "rotation", d.Rotation, "rotation: clockwise or anticlockwise")
}

func (a *app) load(ctx context.Context, path string) (*raster.Raster, error) {
	m, err := imaging.ParseMode(a.mode)
	if err != nil {
		return nil, err
	}
	return a.cache.Load(ctx, path, m)
}

// applyFile runs op on one input and saves the result to out.
func (a *app) applyFile(ctx context.Context, op, in, out string) error {
	r, err := a.load(ctx, in)
	if err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}
	res, err := ops.Run(ctx, op, r, a.params)
	if err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}
	if err := imaging.Save(res, out); err != nil {
		return fmt.Errorf("%s: %w", out, err)
	}
	// Batch runs touch each input once.
	a.cache.Evict(in)
	return nil
}

func newOpsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ops",
		Short: "List the available operations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			for _, name := range ops.Names() {
				op, _ := ops.Lookup(name)
				kinds := make([]string, 0, 2)
				if op.Gray != nil {
					kinds = append(kinds, "gray")
				}
				if op.Color != nil {
					kinds = append(kinds, "color")
				}
				fmt.Fprintf(w, "%-12s %-11s %s\n", name, strings.Join(kinds, ","), op.Description)
			}
			return nil
		},
	}
}
