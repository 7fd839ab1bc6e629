// Show command for the larder CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/larder/pkg/types"
)

func newShowCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Display every stored variant of a food",
		Long: `Show prints all stored records with the given name (case-insensitive)
and their energy estimate. Several records may share a name; show lists
them all and warns on stderr.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			backend, err := c.attachBackend()
			if err != nil {
				return err
			}
			defer backend.Detach()

			foods, err := fetchByName(backend, name)
			if err != nil {
				return err
			}
			if len(foods) > 1 {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %d foods are named %q; showing all variants\n", len(foods), name)
			}

			estimated := backend.Estimator().Annotate(foods)
			if c.flagJSON {
				return printJSON(cmd.OutOrStdout(), estimated)
			}

			out := cmd.OutOrStdout()
			for i, f := range estimated {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "ID:            %s\n", f.FoodID)
				fmt.Fprintf(out, "Name:          %s\n", f.Name)
				fmt.Fprintf(out, "Carbohydrates: %g g\n", f.Carbohydrates)
				fmt.Fprintf(out, "Protein:       %g g\n", f.Protein)
				fmt.Fprintf(out, "Fat:           %g g\n", f.Fat)
				fmt.Fprintf(out, "Sugar:         %g g\n", f.Sugar)
				fmt.Fprintf(out, "Energy:        %g kcal\n", f.Energy)
				if f.HasNotice() {
					fmt.Fprintf(out, "Notice:        %s\n", f.NoticeText())
				}
			}
			return nil
		},
	}
}

// fetchByName returns every stored food named name, or a user error when
// there is none.
func fetchByName(pantry types.Pantry, name string) ([]*types.Food, error) {
	table, err := pantry.GetTable(types.FoodsTable)
	if err != nil {
		return nil, sysError(fmt.Errorf("get table: %w", err))
	}
	foods, err := table.Fetch(types.Filter{types.FilterName: name})
	if err != nil {
		return nil, classify(fmt.Errorf("fetch foods: %w", err))
	}
	if len(foods) == 0 {
		return nil, userError(fmt.Errorf("food %q not found", name))
	}
	return foods, nil
}
