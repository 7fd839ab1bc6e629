// List command prints stored foods with their energy estimate.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/larder/pkg/types"
)

func newListCmd(c *cli) *cobra.Command {
	var (
		flagName   string
		flagLimit  int
		flagOffset int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored foods",
		Long: `List fetches the stored foods in insertion order and prints them with
their energy estimate.

Example:
  larder list
  larder list --name "Overnight Oats"
  larder list --limit 10 --offset 20
  larder list --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flagLimit < 0 || flagOffset < 0 {
				return userError(fmt.Errorf("--limit and --offset must not be negative"))
			}

			backend, err := c.attachBackend()
			if err != nil {
				return err
			}
			defer backend.Detach()

			table, err := foodsTable(backend)
			if err != nil {
				return err
			}

			filter := types.Filter{}
			if flagName != "" {
				filter[types.FilterName] = flagName
			}
			if flagLimit > 0 {
				filter[types.FilterLimit] = flagLimit
			}
			if flagOffset > 0 {
				filter[types.FilterOffset] = flagOffset
			}

			foods, err := table.Fetch(filter)
			if err != nil {
				return classify(fmt.Errorf("fetch foods: %w", err))
			}

			estimated := backend.Estimator().Annotate(foods)
			if c.flagJSON {
				return printJSON(cmd.OutOrStdout(), estimated)
			}
			printFoodTable(cmd.OutOrStdout(), estimated)
			return nil
		},
	}
	cmd.Flags().StringVar(&flagName, "name", "", "filter by food name (case-insensitive)")
	cmd.Flags().IntVar(&flagLimit, "limit", 0, "maximum number of results (0 = no limit)")
	cmd.Flags().IntVar(&flagOffset, "offset", 0, "number of results to skip")
	return cmd
}
