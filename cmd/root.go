// cmd/root.go - Root command implementation
package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mvt-reader",
	Short: "Decode and inspect Mapbox Vector Tiles",
	Long: `mvt-reader decodes Mapbox Vector Tiles from their Protocol Buffer
container and exposes per-layer features: geometry, properties and ids.
It can list a tile's layers, convert tiles to GeoJSON or structured JSON,
and batch-convert whole tile directories.

Gzipped tiles are detected and decompressed transparently.

Examples:
  # List the layers of a tile
  mvt-reader layers 14/8362/5956.mvt

  # Convert a tile to GeoJSON on stdout
  mvt-reader convert 14/8362/5956.mvt

  # Convert with Web Mercator projection (tile coordinates from the path)
  mvt-reader convert --project tiles/14/8362/5956.mvt --output tile.geojson

  # Batch convert a tile directory
  mvt-reader batch --input-dir tiles/ --output-dir geojson/ --concurrency 8`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initLogging)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.mvt-reader.yaml)")

	// Output flags
	rootCmd.PersistentFlags().StringP("format", "f", "geojson", "output format (geojson, json)")
	rootCmd.PersistentFlags().Bool("pretty", true, "pretty print JSON output")
	rootCmd.PersistentFlags().Bool("compression", false, "gzip output files")
	rootCmd.PersistentFlags().Bool("metadata", false, "include tile metadata in output")

	// Processing flags
	rootCmd.PersistentFlags().Bool("verbose", false, "verbose output")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().Int("concurrency", 10, "number of concurrent workers for batch processing")

	viper.BindPFlag("output.format", rootCmd.PersistentFlags().Lookup("format"))
	viper.BindPFlag("output.pretty", rootCmd.PersistentFlags().Lookup("pretty"))
	viper.BindPFlag("output.compression", rootCmd.PersistentFlags().Lookup("compression"))
	viper.BindPFlag("output.metadata", rootCmd.PersistentFlags().Lookup("metadata"))
	viper.BindPFlag("logging.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("batch.concurrency", rootCmd.PersistentFlags().Lookup("concurrency"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".mvt-reader")
	}

	viper.SetEnvPrefix("MVT_READER")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && viper.GetBool("logging.verbose") {
		log.Debug().Str("file", viper.ConfigFileUsed()).Msg("using config file")
	}
}

// initLogging configures the global zerolog logger from the bound
// configuration.
func initLogging() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	level, err := zerolog.ParseLevel(viper.GetString("logging.level"))
	if err != nil {
		level = zerolog.InfoLevel
	}
	if viper.GetBool("logging.verbose") && level > zerolog.DebugLevel {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
}
