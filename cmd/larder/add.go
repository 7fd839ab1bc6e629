// Add command stores a new food record.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/larder/pkg/types"
)

func newAddCmd(c *cli) *cobra.Command {
	var (
		food       types.Food
		flagNotice string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a food record",
		Long: `Add validates a food record and stores it with a new ID.

Names need not be unique; a record sharing a name with an existing one is
stored as another variant and reported by "larder audit".

Example:
  larder add --name "Overnight Oats" --fat 7 --carbs 74 --protein 38 --sugar 18
  larder add --name "Granola" --fat 12 --carbs 60 --protein 9 --sugar 22 --notice "homemade"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("notice") {
				food.Notice = types.StringPtr(flagNotice)
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

			id, err := table.Set("", &food)
			if err != nil {
				return classify(fmt.Errorf("add food: %w", err))
			}

			if c.flagJSON {
				return printJSON(cmd.OutOrStdout(), types.Estimated{Food: &food, Energy: backend.Estimator().Estimate(&food)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	cmd.Flags().StringVar(&food.Name, "name", "", "food name (required)")
	cmd.Flags().Float64Var(&food.Fat, "fat", 0, "fat in grams")
	cmd.Flags().Float64Var(&food.Carbohydrates, "carbs", 0, "carbohydrates in grams")
	cmd.Flags().Float64Var(&food.Protein, "protein", 0, "protein in grams")
	cmd.Flags().Float64Var(&food.Sugar, "sugar", 0, "sugar in grams")
	cmd.Flags().StringVar(&flagNotice, "notice", "", "optional annotation")
	return cmd
}
