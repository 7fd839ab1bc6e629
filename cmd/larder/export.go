// Export command writes the stored table as a dataset file.
package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/larder/internal/catalog"
)

func newExportCmd(c *cli) *cobra.Command {
	var (
		flagFormat string
		flagOutput string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export stored foods",
		Long: `Export writes the stored table in insertion order as jsonl (default),
json, or yaml, to stdout or to the file given by -o. The output can be
re-imported with "larder import".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := c.attachBackend()
			if err != nil {
				return err
			}
			defer backend.Detach()

			table, err := foodsTable(backend)
			if err != nil {
				return err
			}
			foods, err := table.Fetch(nil)
			if err != nil {
				return sysError(fmt.Errorf("fetch foods: %w", err))
			}

			var buf bytes.Buffer
			if err := catalog.Encode(&buf, foods, flagFormat); err != nil {
				if errors.Is(err, catalog.ErrUnknownFormat) {
					return userError(err)
				}
				return sysError(err)
			}

			if flagOutput == "" {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			if err := os.WriteFile(flagOutput, buf.Bytes(), 0o644); err != nil {
				return sysError(fmt.Errorf("write %s: %w", flagOutput, err))
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d food(s) to %s\n", len(foods), flagOutput)
			return nil
		},
	}
	cmd.Flags().StringVar(&flagFormat, "format", catalog.FormatJSONL, "output format (jsonl, json, yaml)")
	cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "output file (default: stdout)")
	return cmd
}
