// Root command for the larder CLI.
package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/larder/internal/paths"
	"github.com/mesh-intelligence/larder/pkg/larder"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// cli holds global flag values and the configuration loaded before any
// subcommand runs.
type cli struct {
	flagConfigDir string
	flagDataDir   string
	flagJSON      bool
	flagLogLevel  string

	configDir string
	cfg       *viper.Viper
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:   "larder",
		Short: "Larder manages the nutrition table of the oats front-end",
		Long: `Larder owns the food nutrition table used by the front-end: it validates
and stores the records, estimates their energy, audits the dataset for
data-quality issues, and serves it over HTTP.`,
		Version:       larder.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			configDir, err := paths.ResolveConfigDir(c.flagConfigDir)
			if err != nil {
				return sysError(err)
			}

			cfg, err := loadConfig(configDir)
			if err != nil {
				return sysError(err)
			}
			c.configDir = configDir
			c.cfg = cfg

			level := c.flagLogLevel
			if level == "" {
				level = cfg.GetString(cfgKeyLogLevel)
			}
			if err := setupLogging(cmd.ErrOrStderr(), level, cfg.GetString(cfgKeyLogFormat)); err != nil {
				return userError(err)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&c.flagConfigDir, "config-dir", "", "configuration directory (default: $(CWD)/.larder)")
	rootCmd.PersistentFlags().StringVar(&c.flagDataDir, "data-dir", "", "data directory (default: $(CWD)/.larder-db)")
	rootCmd.PersistentFlags().BoolVar(&c.flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().StringVar(&c.flagLogLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newVersionCmd(c),
		newInitCmd(c),
		newListCmd(c),
		newShowCmd(c),
		newEstimateCmd(c),
		newAddCmd(c),
		newDeleteCmd(c),
		newImportCmd(c),
		newExportCmd(c),
		newAuditCmd(c),
		newProfileCmd(c),
		newServeCmd(c),
	)
	return rootCmd
}

// resolveDataDir applies --data-dir flag > config.yaml data_dir >
// LARDER_DATA_DIR env > default $(CWD)/.larder-db.
func (c *cli) resolveDataDir() (string, error) {
	return paths.ResolveDataDir(c.flagDataDir, c.cfg.GetString(cfgKeyDataDir))
}
