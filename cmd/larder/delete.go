// Delete command removes a food record by ID.
package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/larder/pkg/types"
)

func newDeleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a food by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			backend, err := c.attachBackend()
			if err != nil {
				return err
			}
			defer backend.Detach()

			table, err := foodsTable(backend)
			if err != nil {
				return err
			}

			if err := table.Delete(id); err != nil {
				if errors.Is(err, types.ErrNotFound) {
					return userError(fmt.Errorf("food %q not found", id))
				}
				return classify(fmt.Errorf("delete food: %w", err))
			}

			if c.flagJSON {
				return printJSON(cmd.OutOrStdout(), map[string]string{
					"deleted": id,
					"status":  "success",
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted food: %s\n", id)
			return nil
		},
	}
}
