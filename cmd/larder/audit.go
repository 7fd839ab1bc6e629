// Audit command reports data-quality issues.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/larder/internal/catalog"
)

func newAuditCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "audit [file]",
		Short: "Report data-quality issues in the store or a dataset file",
		Long: `Audit reports foods that share a name and foods whose sugar exceeds
their carbohydrates. Issues are informational: the exit code is non-zero
only when the dataset cannot be loaded.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var issues []catalog.Issue
			if len(args) == 1 {
				cat, err := catalog.Load(args[0])
				if err != nil {
					return userError(err)
				}
				issues = cat.Audit()
			} else {
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
				issues = catalog.AuditFoods(foods)
			}

			out := cmd.OutOrStdout()
			if c.flagJSON {
				if issues == nil {
					issues = []catalog.Issue{}
				}
				return printJSON(out, issues)
			}
			if len(issues) == 0 {
				fmt.Fprintln(out, "No issues found.")
				return nil
			}
			for _, issue := range issues {
				fmt.Fprintln(out, issue)
			}
			return nil
		},
	}
}
