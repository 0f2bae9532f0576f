package main

import (
	"github.com/rpgo/lifesim/internal/api"
	"github.com/rpgo/lifesim/internal/logging"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the simulation HTTP API",
		Long: `Serve /simulate, /simulate/summary, /sensitivity_analysis and /health.

The listen address comes from --addr, LIFESIM_ADDR, PORT or the config file,
in that order.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadRuntime(cmd)
			if err != nil {
				return err
			}
			if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
				env.cfg.Server.Addr = addr
			}

			engine := env.engine()
			srv := api.NewServer(engine, env.analyzer(engine), logging.NewAdapter(env.logger))
			env.logger.Info("starting lifesim API", "addr", env.cfg.Server.Addr, "workers", env.cfg.Server.Workers, "version", version)
			return srv.ListenAndServe(cmd.Context(), env.cfg.Server.Addr)
		},
	}
	cmd.Flags().String("addr", "", "Listen address (e.g. :5001)")
	return cmd
}
