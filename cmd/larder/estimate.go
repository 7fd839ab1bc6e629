// Estimate command prints the energy estimate of a stored food or of raw
// macro values.
package main

import (
	"errors"
	"fmt"
	"math"

	"github.com/spf13/cobra"
)

func newEstimateCmd(c *cli) *cobra.Command {
	var carbs, protein, fat, sugar float64

	cmd := &cobra.Command{
		Use:   "estimate [name]",
		Short: "Estimate energy in kcal",
		Long: `Estimate prints the approximate energy of every stored variant of the
named food, or of the macro grams given by flags when no name is given.

The estimate is round(4*carbohydrates + 4*protein + 9*fat + 4*sugar) under
the default additive sugar policy; with sugar_policy: included, sugar is
not added again.

Example:
  larder estimate "Overnight Oats"
  larder estimate --carbs 74 --protein 38 --fat 7 --sugar 18`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			macroFlags := cmd.Flags().Changed("carbs") || cmd.Flags().Changed("protein") ||
				cmd.Flags().Changed("fat") || cmd.Flags().Changed("sugar")
			if len(args) == 1 && macroFlags {
				return userError(errors.New("give either a food name or macro flags, not both"))
			}

			backend, err := c.attachBackend()
			if err != nil {
				return err
			}
			defer backend.Detach()
			est := backend.Estimator()
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				foods, err := fetchByName(backend, args[0])
				if err != nil {
					return err
				}
				estimated := est.Annotate(foods)
				if c.flagJSON {
					return printJSON(out, estimated)
				}
				for _, f := range estimated {
					fmt.Fprintf(out, "%s [%s]: %g kcal\n", f.Name, shortID(f.FoodID), f.Energy)
				}
				return nil
			}

			for name, v := range map[string]float64{"carbs": carbs, "protein": protein, "fat": fat, "sugar": sugar} {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					return userError(fmt.Errorf("--%s must be a finite number", name))
				}
			}
			energy := est.Calories(carbs, protein, fat, sugar)
			if c.flagJSON {
				return printJSON(out, map[string]any{
					"energy":       energy,
					"sugar_policy": string(est.Policy),
				})
			}
			fmt.Fprintf(out, "%g kcal\n", energy)
			return nil
		},
	}
	cmd.Flags().Float64Var(&carbs, "carbs", 0, "carbohydrates in grams")
	cmd.Flags().Float64Var(&protein, "protein", 0, "protein in grams")
	cmd.Flags().Float64Var(&fat, "fat", 0, "fat in grams")
	cmd.Flags().Float64Var(&sugar, "sugar", 0, "sugar in grams")
	return cmd
}
