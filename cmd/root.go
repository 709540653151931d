package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"FITSrender/internal/histogram"
	"FITSrender/internal/monitoring"
	"FITSrender/internal/normalize"
	"FITSrender/internal/pipeline"
	"FITSrender/internal/render"
	"FITSrender/internal/source"
)

var cfgFile string

// conf holds flags, config file values and FITSRENDER_* environment variables.
var conf = viper.New()

var rootCmd = &cobra.Command{
	Use:   "fitsrender",
	Short: "Render FITS images to grayscale bitmaps",
	Long: `fitsrender reads a two dimensional image from a FITS file, maps its intensities to
gray levels and writes the result as a PNG (or JPEG, BMP, TIFF, GIF) image.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if conf.GetBool("verbose") {
			monitoring.SetLogger(log.New(cmd.ErrOrStderr(), "", log.LstdFlags).Printf)
		} else {
			monitoring.SetLogger(nil)
		}
	},
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, "fitsrender:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file (default is $HOME/.fitsrender.yaml)")
	flags.String("source", source.NameFitsio, "data source: "+strings.Join(source.Names(), ", "))
	flags.Int("hdu", 0, "index of the FITS header/data unit to read")
	flags.Int("canvas-width", render.DefaultCanvasWidth, "output width in pixels")
	flags.Int("canvas-height", render.DefaultCanvasHeight, "output height in pixels")
	flags.Int("mark-radius", render.DefaultMarkRadius, "radius of the disc drawn for each sample")
	flags.String("range-policy", string(normalize.PolicyReference), "min/max scan: reference or true")
	flags.Int("workers", runtime.NumCPU(), "number of scan and draw workers")
	flags.Int("histogram-bins", histogram.DefaultBins, "number of histogram bins")
	flags.BoolP("verbose", "v", false, "log progress to stderr")

	for _, name := range []string{
		"source", "hdu", "canvas-width", "canvas-height", "mark-radius",
		"range-policy", "workers", "histogram-bins", "verbose",
	} {
		conf.BindPFlag(name, flags.Lookup(name))
	}
}

func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		conf.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err == nil {
			// Search config in home directory with name ".fitsrender" (without extension).
			conf.AddConfigPath(home)
			conf.SetConfigName(".fitsrender")
		}
	}

	conf.SetEnvPrefix("FITSRENDER")
	conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	conf.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := conf.ReadInConfig(); err == nil {
		monitoring.Logf("using config file: %s", conf.ConfigFileUsed())
	}
}

// pipelineConfig merges flags, config file and environment into a pipeline.Config.
func pipelineConfig() pipeline.Config {
	cfg := pipeline.DefaultConfig()
	cfg.Source = conf.GetString("source")
	cfg.HDU = conf.GetInt("hdu")
	cfg.CanvasWidth = conf.GetInt("canvas-width")
	cfg.CanvasHeight = conf.GetInt("canvas-height")
	cfg.MarkRadius = conf.GetInt("mark-radius")
	cfg.RangePolicy = conf.GetString("range-policy")
	cfg.Workers = conf.GetInt("workers")
	cfg.HistogramBins = conf.GetInt("histogram-bins")
	cfg.Output = conf.GetString("output")
	cfg.Histogram = conf.GetString("histogram")
	return cfg
}

func inputArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return pipeline.DefaultInput
}
