package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// GetProvidersCmd returns the providers command group
func GetProvidersCmd() *cobra.Command {
	providersCmd := &cobra.Command{
		Use:   "providers",
		Short: "Inspect configured TTS providers",
	}

	providersCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the providers configured on the server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			infos, err := apiClient.ListProviders(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list providers: %w", err)
			}
			return printJSON(infos)
		},
	})

	return providersCmd
}
