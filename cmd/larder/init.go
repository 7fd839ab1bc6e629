// Init command for the larder CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/larder/internal/catalog"
	"github.com/mesh-intelligence/larder/internal/paths"
)

func newInitCmd(c *cli) *cobra.Command {
	var flagDataset string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize larder storage and seed the food table",
		Long: `Init creates the config directory with a default config.yaml, attaches the
store, and on first run seeds the food table from the dataset: the
--dataset file, the dataset key of config.yaml, or the embedded table.

Running init again leaves an existing table untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			datasetPath, err := paths.ResolveDataset(flagDataset, c.cfg.GetString(cfgKeyDataset))
			if err != nil {
				return sysError(err)
			}
			cat, err := loadDataset(datasetPath)
			if err != nil {
				return userError(err)
			}

			backend, err := c.attachBackend()
			if err != nil {
				return err
			}
			defer backend.Detach()

			seeded, err := backend.Seed(cat.All())
			if err != nil {
				return sysError(fmt.Errorf("seed: %w", err))
			}

			out := cmd.OutOrStdout()
			if c.flagJSON {
				return printJSON(out, map[string]any{
					"config_dir": c.configDir,
					"data_dir":   backend.DataDir(),
					"seeded":     seeded,
				})
			}
			fmt.Fprintln(out, "Larder initialized successfully")
			fmt.Fprintln(out, "  config:", c.configDir)
			fmt.Fprintln(out, "  data:  ", backend.DataDir())
			if seeded > 0 {
				fmt.Fprintf(out, "  seeded: %d food(s)\n", seeded)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&flagDataset, "dataset", "", "dataset file to seed from (yaml, json, or jsonl)")
	return cmd
}

// loadDataset loads the dataset at path, or the embedded table when path is
// empty.
func loadDataset(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.Load(path)
}
