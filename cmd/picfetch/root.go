package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"picfetch/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	noColor    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "picfetch",
	Short: "Batch downloader and thumbnailer for Unsplash photos",
	Long: `picfetch is a batch utility for building a local photo dataset from
the Unsplash API.

It runs in three independent stages, each reading its state fresh from
disk so a run can be interrupted and picked up at any stage:

  fetch      pull photo metadata pages into timestamped JSON batch files
  download   download the image binaries listed in the batch files
  thumbnail  create resized thumbnail derivatives of downloaded images

Credentials can come from a picfetch.yaml config file, environment
variables, or secure storage (use 'picfetch auth login').`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			ui.SetColorEnabled(false)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is picfetch.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.SetVersionTemplate(`picfetch {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
