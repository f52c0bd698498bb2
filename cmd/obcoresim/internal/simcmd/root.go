// Package simcmd wires the obcoresim subcommands together.
package simcmd

import (
	"github.com/spf13/cobra"
)

// Root returns the obcoresim command tree.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "obcoresim",
		Short: "Demonstration driver for the obcore matching engine",
	}

	cmd.AddCommand(replayCmd(), benchCmd())
	return cmd
}
