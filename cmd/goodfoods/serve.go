package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/goodfoods/concierge/src/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := buildApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		srv := web.NewServer(":"+a.cfg.Port, a.agent, a.sessions, a.logger)
		return srv.Start(ctx)
	},
}
