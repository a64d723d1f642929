package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/lance13c/vimnav/internal/config"
	"github.com/lance13c/vimnav/internal/logging"
)

var (
	cfgFile    string
	projectDir string
	verbose    bool

	vimnavConfig *config.Config
	configLoader *config.Loader
	configErr    error
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vimnav",
	Short: "vimnav - keyboard hint labels for the web",
	Long: `vimnav drives a Chrome tab and puts a short label next to every link,
button and form field. Type a label to follow the link or focus the field,
scroll with h/j/k/l, and never reach for the mouse.

Run 'vimnav open <url>' to start a session, or 'vimnav labels <file>' to see
the labels a page would get.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and runs it with ctx
func Execute(ctx context.Context) error {
	defer logging.Shutdown()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .vimnav/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "V", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&projectDir, "project", "p", ".", "project directory")
}

// initConfig sets up logging and reads the config file and environment
func initConfig() {
	startTime := time.Now()

	if err := logging.Initialize(projectDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to initialize logging: %v\n", err)
	} else {
		logging.RedirectStandardLog()
	}

	configLoader = config.NewLoader(projectDir)
	if cfgFile != "" {
		configLoader.WithFile(cfgFile)
	}

	vimnavConfig, configErr = configLoader.Load()
	if configErr != nil {
		logging.Warn("Failed to load config: %v", configErr)
		return
	}

	logging.SetLevel(logging.ParseLevel(vimnavConfig.Log.Level))
	if verbose {
		logging.SetLevel(logging.DEBUG)
	}

	if path := configLoader.Path(); path != "" {
		logging.Info("Using config %s", path)
	} else {
		logging.Info("No config file found, using defaults")
	}
	logging.Debug("Config loaded in %v", time.Since(startTime))
}

// requireConfig returns the loaded configuration or the reason it is missing
func requireConfig() (*config.Config, error) {
	if configErr != nil {
		return nil, configErr
	}
	return vimnavConfig, nil
}
