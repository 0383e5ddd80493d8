// Package cli implements the formbricks command.
package cli

import (
	"github.com/spf13/cobra"
)

// Root is the base command for the server binary.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "formbricks",
		Short:        "Formbricks collects in-app survey feedback",
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	cmd.AddCommand(server())
	return cmd
}
