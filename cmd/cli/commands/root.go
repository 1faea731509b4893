// Package commands implements the Vocalis CLI commands
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vocalis-ai/vocalis/internal/api/v1/routes"
	"github.com/vocalis-ai/vocalis/pkg/api/v1/client"
)

// flag names
const (
	flagServerAddress = "server-address"
)

// environment variable names
const (
	envServerAddress = "VOCALIS_SERVER_ADDRESS"
)

var (
	// apiClient is the shared API client instance
	apiClient client.Client
	// serverAddress holds the target API server address. Flag parsing sets this.
	serverAddress string
)

// initClient initializes the API client
func initClient() error {
	var err error
	opts := client.DefaultOptions()
	opts.BaseURL = serverAddress

	apiClient, err = client.NewClient(opts)
	return err
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&serverAddress, flagServerAddress, "s", routes.DefaultBaseURL, "Address of the Vocalis API server (env: VOCALIS_SERVER_ADDRESS)")

	RootCmd.AddCommand(GetRunsCmd())
	RootCmd.AddCommand(GetBatchesCmd())
	RootCmd.AddCommand(GetProvidersCmd())
}

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "vocalis",
	Short: "Vocalis CLI - A command line interface for the Vocalis API",
	Long:  `Vocalis CLI is a command line tool for running TTS provider benchmarks through the Vocalis API.`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		// Flag > Env Var > Default precedence for the server address
		if !cmd.Flags().Changed(flagServerAddress) {
			if envAddr := os.Getenv(envServerAddress); envAddr != "" {
				serverAddress = envAddr
			}
		}

		if serverAddress == "" {
			return fmt.Errorf("server address cannot be empty")
		}
		return initClient()
	},
}
