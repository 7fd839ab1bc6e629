// Import command loads a dataset file into the store.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/larder/internal/catalog"
)

func newImportCmd(c *cli) *cobra.Command {
	var flagReplace bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import foods from a dataset file",
		Long: `Import reads a yaml, json, or jsonl dataset, validates every row, and
appends the rows to the store. With --replace the stored table is swapped
for the dataset in one transaction. Nothing is written when any row is
invalid.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.Load(args[0])
			if err != nil {
				return userError(err)
			}

			backend, err := c.attachBackend()
			if err != nil {
				return err
			}
			defer backend.Detach()

			store := backend.Append
			if flagReplace {
				store = backend.Replace
			}
			n, err := store(cat.All())
			if err != nil {
				return classify(fmt.Errorf("import: %w", err))
			}

			if c.flagJSON {
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"imported": n,
					"replace":  flagReplace,
				})
			}
			verb := "Imported"
			if flagReplace {
				verb = "Replaced table with"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d food(s)\n", verb, n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&flagReplace, "replace", false, "replace the stored table instead of appending")
	return cmd
}
