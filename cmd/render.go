package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"FITSrender/internal/pipeline"
)

// renderCmd represents the render command
var renderCmd = &cobra.Command{
	Use:   "render [file]",
	Short: "Render one image file",
	Long: `Render one image file. Without an argument the reference asset
assets/eagle_nebula/502nmos.fits is used. With --source none no file is read and a black
canvas is written.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := pipelineConfig()
		cfg.Input = inputArg(args)

		res, err := pipeline.Run(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Render saved as %s\n", res.Output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringP("output", "o", "", "output image (default is output/<source>.png)")
	renderCmd.Flags().String("histogram", "", "also write a histogram of gray levels to this file")
	conf.BindPFlag("output", renderCmd.Flags().Lookup("output"))
	conf.BindPFlag("histogram", renderCmd.Flags().Lookup("histogram"))
}
