// Profile command prints the effective front-end build profile.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newProfileCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Print the front-end build profile",
		Long: `Profile prints the bundler options of the front-end shell: the defaults
overlaid with the build section of config.yaml, after validation.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProfile(c.cfg)
			if err != nil {
				return userError(err)
			}
			if c.flagJSON {
				return printJSON(cmd.OutOrStdout(), p)
			}
			out, err := yaml.Marshal(p)
			if err != nil {
				return sysError(fmt.Errorf("marshal profile: %w", err))
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
