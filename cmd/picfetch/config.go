package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"picfetch/pkg/auth"
	"picfetch/pkg/config"
	"picfetch/pkg/ui"
)

var (
	initAccessKey string
	initSecretKey string
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
	Long: `Manage the picfetch configuration file.

Configuration is loaded from (highest priority first):
  - Environment variables (PICFETCH_*)
  - .env file
  - Configuration file (picfetch.yaml)
  - Default values`,
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the configuration file if it does not exist",
	Long: `Create a configuration file with default settings and optional
API credentials.

An existing configuration file is never overwritten; its access key is
checked instead and the result reported.`,
	Example: `  # Create an empty config to fill in by hand
  picfetch config init

  # Create a config with the access key already set
  picfetch config init --access-key YOUR_ACCESS_KEY`,
	RunE: runConfigInit,
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Show the configuration after merging all sources.

Credential values are masked.`,
	RunE: runConfigShow,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)

	configInitCmd.Flags().StringVar(&initAccessKey, "access-key", "", "Unsplash access key")
	configInitCmd.Flags().StringVar(&initSecretKey, "secret-key", "", "Unsplash secret key")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	state, err := config.EnsureConfig(configFile, initAccessKey, initSecretKey)
	if err != nil {
		return err
	}

	path := configFile
	if path == "" {
		path = config.DefaultConfigFile
	}

	switch state {
	case config.BootstrapCreated:
		ui.PrintSuccess(fmt.Sprintf("A new file with name %q created.", path))
		if initAccessKey == "" {
			ui.PrintWarning("Please fill in your access_key.")
		}
	case config.BootstrapMissingKey:
		ui.PrintWarning("No key is provided. Please fill in your key.")
	case config.BootstrapReady:
		ui.PrintSuccess("Config file set up properly.")
	}

	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Mask credentials before printing
	shown := *cfg
	shown.Unsplash.AccessKey = maskValue(cfg.Unsplash.AccessKey)
	shown.Unsplash.SecretKey = maskValue(cfg.Unsplash.SecretKey)

	data, err := yaml.Marshal(&shown)
	if err != nil {
		return err
	}

	fmt.Fprint(os.Stdout, string(data))
	return nil
}

func maskValue(s string) string {
	if s == "" {
		return ""
	}
	return auth.Sanitize(&auth.Credentials{AccessKey: s}).AccessKey
}
