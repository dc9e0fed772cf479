/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/parkerhayes/cdwire/pkg/api"
	"github.com/parkerhayes/cdwire/pkg/config"
	"github.com/parkerhayes/cdwire/pkg/item"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start the cdwire REST API server.

The server decodes view lookup buffers and item tables, inspects raw
composite-record streams and optionally stores submitted buffers as
captures for later analysis.

Examples:
  cdwire serve
  cdwire serve --port=9000 --api-key=mysecretkey`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		port, _ := cmd.Flags().GetInt("port")
		apiKey, _ := cmd.Flags().GetString("api-key")
		captureDir, _ := cmd.Flags().GetString("capture-dir")

		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			cfg, err = config.BootstrapConfig(configPath, captureDir)
			if err != nil {
				cmd.Printf("Error loading configuration: %v\n", err)
				os.Exit(1)
			}
			cmd.Printf("Wrote fresh configuration to %s\n", configPath)
		}

		// Flags override the file.
		if port != 0 {
			cfg.Port = port
		}
		if apiKey != "" {
			cfg.Security.APIKey = apiKey
		}
		if captureDir != "" {
			cfg.CaptureDir = captureDir
		}

		if cfg.Security.APIKey == "" || cfg.Security.APIKey == "auto" {
			cmd.Printf("Error: no API key configured (run 'cdwire init' first)\n")
			os.Exit(1)
		}

		serverConfig := api.ServerConfig{
			Bind:       cfg.Bind,
			Port:       cfg.Port,
			APIKey:     cfg.Security.APIKey,
			CaptureDir: cfg.CaptureDir,
			Zone: item.Zone{
				GMTOffset: cfg.Decode.GMTOffset,
				DST:       cfg.Decode.DST,
			},
		}
		if err := api.StartServer(serverConfig, logger); err != nil {
			logger.Error().Err(err).Msg("server stopped")
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 0, "Port to listen on (overrides the configuration)")
	serveCmd.Flags().String("api-key", "", "API key for authentication (overrides the configuration)")
	serveCmd.Flags().String("capture-dir", "", "Capture directory (overrides the configuration)")
}
