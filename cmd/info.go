package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"FITSrender/internal/grid"
	"FITSrender/internal/normalize"
	"FITSrender/internal/source"
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info [file]",
	Short: "Print header, shape and intensity statistics of an image file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := pipelineConfig()
		path := inputArg(args)
		out := cmd.OutOrStdout()

		src, err := source.New(cfg.Source, source.Options{HDU: cfg.HDU})
		if err != nil {
			return err
		}

		if src.Name() == source.NameFitsio {
			d, err := source.Describe(path, cfg.HDU)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s: HDU %d of %d, BITPIX %d, shape %s\n", path, d.HDU, d.NumHDUs, d.Bitpix, d.Shape())
			fmt.Fprintf(out, "timestamp: %s\n", d.Timestamp)
			for _, line := range d.Lines() {
				fmt.Fprintln(out, line)
			}
		}

		g, err := src.Open(path)
		if err != nil {
			return err
		}
		return printStats(out, g)
	},
}

func printStats(out io.Writer, g *grid.Grid) error {
	fmt.Fprintf(out, "grid: %s\n", g)
	if g.IsEmpty() {
		return nil
	}

	s, err := normalize.Summarize(g)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "stats: %s\n", s)

	fmt.Fprintf(out, "range (%s): %s\n", normalize.PolicyReference, normalize.ReferenceScan(g.Samples))
	if r, ok := normalize.TrueScan(g.Samples); ok {
		fmt.Fprintf(out, "range (%s): %s\n", normalize.PolicyTrue, r)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
