// Package cli implements the filetagger command line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aa-dank/file-code-tagger/internal/config"
	"github.com/aa-dank/file-code-tagger/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	configPath  string
	logFilePath string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "filetagger",
	Short: "Extract, embed and tag files from a records server",
	Long: `filetagger builds a labelled training corpus from a catalogued file
server: it extracts text from files, embeds the text with a local model,
and assigns hierarchical filing tags based on where files live on the
server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		if logFilePath != "" {
			if err := logger.SetLogFile(logFilePath); err != nil {
				return fmt.Errorf("opening log file: %w", err)
			}
		}
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		logger.Close()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default ~/.filetagger/config.toml)")
	rootCmd.PersistentFlags().StringVar(&logFilePath, "log-file", "", "append logs to this file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose console output")
}

// loadConfig reads the configuration honouring the --config flag.
func loadConfig() (config.Config, error) {
	return config.Load(configPath)
}

// Execute runs the root command.
func Execute(buildVersion string) error {
	if buildVersion != "" {
		version = buildVersion
	}
	return rootCmd.Execute()
}
