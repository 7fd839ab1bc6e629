// Version command for the larder CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/larder/pkg/larder"
)

func newVersionCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the larder version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.flagJSON {
				return printJSON(cmd.OutOrStdout(), map[string]string{"version": larder.Version})
			}
			fmt.Fprintln(cmd.OutOrStdout(), "larder", larder.Version)
			return nil
		},
	}
}
