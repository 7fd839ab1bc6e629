// Serve command runs the HTTP API for the front-end.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/larder/internal/server"
)

func newServeCmd(c *cli) *cobra.Command {
	var (
		flagAddr   string
		flagWebDir string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the food table over HTTP",
		Long: `Serve exposes the stored foods, the energy estimate, and the audit as a
JSON API. With --web-dir it also serves a built front-end, falling back to
index.html for client-side routes. Stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := loadProfile(c.cfg)
			if err != nil {
				return userError(err)
			}

			opts := server.Options{
				Addr:        flagAddr,
				Dev:         c.cfg.GetBool(cfgKeyServeDev),
				Profile:     profile,
				CORSOrigins: c.cfg.GetStringSlice(cfgKeyServeCORS),
				RateLimit:   c.cfg.GetFloat64(cfgKeyServeRateLimit),
				RateBurst:   c.cfg.GetInt(cfgKeyServeRateBurst),
				TrustProxy:  c.cfg.GetBool(cfgKeyServeProxy),
			}
			if opts.Addr == "" {
				opts.Addr = c.cfg.GetString(cfgKeyServeAddr)
			}
			if flagWebDir != "" {
				info, err := os.Stat(flagWebDir)
				if err != nil {
					return userError(fmt.Errorf("web dir: %w", err))
				}
				if !info.IsDir() {
					return userError(fmt.Errorf("web dir %s is not a directory", flagWebDir))
				}
				opts.WebAssets = os.DirFS(flagWebDir)
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
			opts.Estimator = backend.Estimator()

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			srv := server.New(ctx, table, opts, log.Logger)
			if err := srv.Start(ctx); err != nil {
				return sysError(err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&flagAddr, "addr", "", "listen address (default: serve.addr from config, :8080)")
	cmd.Flags().StringVar(&flagWebDir, "web-dir", "", "directory of a built front-end to serve")
	return cmd
}
