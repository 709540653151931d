package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"FITSrender/internal/pipeline"
	"FITSrender/internal/source"
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <folder>",
	Short: "Render every FITS file of a folder",
	Long: `Render every .fits, .fit and .fts file directly inside a folder. Each file is rendered
independently to <out-dir>/<name>.png; the first failure stops the batch.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]
		if !source.IsDirectory(dir) {
			return fmt.Errorf("%s is not a folder", dir)
		}

		cfg := pipelineConfig()
		results, err := pipeline.RunBatch(cmd.Context(), cfg, dir,
			conf.GetString("out-dir"), conf.GetBool("batch-histograms"))
		for _, res := range results {
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%s)\n", res.Input, res.Output, res.Elapsed.Round(time.Millisecond))
		}
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "no FITS files found in %s\n", dir)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().String("out-dir", pipeline.DefaultOutputDir, "folder receiving the renders")
	batchCmd.Flags().Bool("histograms", false, "also write <name>_hist.png for every file")
	conf.BindPFlag("out-dir", batchCmd.Flags().Lookup("out-dir"))
	conf.BindPFlag("batch-histograms", batchCmd.Flags().Lookup("histograms"))
}
