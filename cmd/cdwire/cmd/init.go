/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/parkerhayes/cdwire/pkg/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a fresh configuration file",
	Long: `Write a fresh cdwire configuration file with a generated API key.

If the configuration file already exists it is left untouched and its
API key is printed instead.

Examples:
  cdwire init
  cdwire init --config=./cdwire.yaml --capture-dir=./captures`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		captureDir, _ := cmd.Flags().GetString("capture-dir")

		cfg, err := config.BootstrapConfig(configPath, captureDir)
		if err != nil {
			cmd.Printf("Error initializing configuration: %v\n", err)
			os.Exit(1)
		}

		cmd.Printf("Configuration: %s\n", configPath)
		cmd.Printf("Capture directory: %s\n", cfg.CaptureDir)
		cmd.Printf("API key: %s\n", cfg.Security.APIKey)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().String("capture-dir", "", "Capture directory to record in a fresh configuration")
}
