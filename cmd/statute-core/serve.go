package main

import (
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/statute-core/internal/adapters/driving/http"
)

func newServeCmd(cfg *config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log.Printf("statute-core %s starting", version)
			rt, err := wire(ctx, cfg)
			if err != nil {
				return err
			}
			defer rt.Close()

			serverCfg := http.DefaultConfig()
			serverCfg.Port = cfg.Port
			serverCfg.Version = version

			server := http.NewServer(serverCfg, rt.service, rt.store, rt.cache)
			return server.Start(ctx)
		},
	}
	cmd.Flags().IntVarP(&cfg.Port, "port", "p", cfg.Port, "Port to listen on (PORT)")
	return cmd
}
