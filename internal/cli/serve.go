package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/gridslot/pkg/observability"
	"github.com/matzehuels/gridslot/pkg/pipeline"
	"github.com/matzehuels/gridslot/pkg/server"
)

// serveCommand runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Serve exposes packing, moving, rendering and the layout store over HTTP.

Endpoints:
  GET    /healthz
  GET    /v1/kinds
  POST   /v1/pack
  POST   /v1/move
  POST   /v1/render/{format}
  GET    /v1/layouts
  GET    /v1/layouts/{name}
  PUT    /v1/layouts/{name}
  DELETE /v1/layouts/{name}
  GET    /v1/layouts/{name}/render/{format}`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			st, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			var defaults pipeline.Options
			if err := c.setCLIDefaults(&defaults); err != nil {
				return err
			}

			observability.NewLogHooks(c.Logger.WithPrefix("http")).Install()
			srv := server.New(runner,
				server.WithStore(st),
				server.WithDefaults(defaults),
				server.WithLogger(c.Logger),
			)
			printInfo("Listening on %s", StyleHighlight.Render(addr))
			printDetail("Store: %s · Cache: %s", cfg.Store.Backend, cfg.Cache.Backend)
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}
