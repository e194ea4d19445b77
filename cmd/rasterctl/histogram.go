package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ironsheep/image-edit-mcp/internal/stats"
)

func newHistogramCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "histogram <in>",
		Short: "Print the histogram, mean and variance of every channel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			s := stats.Summarize(r)
			w := cmd.OutOrStdout()

			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(s)
			}

			fmt.Fprintf(w, "%dx%d, %d channel(s)\n", s.Width, s.Height, len(s.Channels))
			for _, ch := range s.Channels {
				fmt.Fprintf(w, "channel %d: mean %.3f variance %.3f min %d max %d\n",
					ch.Channel, ch.Mean, ch.Variance, ch.Min, ch.Max)
				for level, n := range ch.Histogram {
					if n > 0 {
						fmt.Fprintf(w, "  %3d %d\n", level, n)
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	return cmd
}
