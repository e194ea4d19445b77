package main

import (
	"github.com/spf13/cobra"
)

func newApplyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply <op> <in> <out>",
		Short: "Apply one operation to an image and save the result",
		Long: `Apply one operation to an image and save the result.

The input may be a file path or an http(s) URL. The output format follows
the extension of <out>. Run "rasterctl ops" for the list of operations.`,
		Example: `  rasterctl apply canny photo.png edges.png --threshold 40 --t1 20 --t2 90
  rasterctl apply median noisy.jpg clean.png --kernel 5 --mode color`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			op, in, out := args[0], args[1], args[2]
			if err := a.applyFile(cmd.Context(), op, in, out); err != nil {
				return err
			}
			a.log.Info().Str("op", op).Str("in", in).Str("out", out).Msg("written")
			return nil
		},
	}
	a.addParamFlags(cmd)
	return cmd
}
