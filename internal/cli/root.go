// Package cli defines the cobra command tree for rentfolio.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root cobra command.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "rentfolio",
		Short:         "Rental marketplace API server",
		Long:          "The rentfolio API server: property listings, tenant and buyer accounts, favorites, and leases over a SQLite store.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCmd(),
		newVersionCmd(),
	)

	return root
}
