package main

import (
	"context"

	"github.com/spf13/cobra"

	"ai-analyst/internal/config"
	"ai-analyst/internal/web"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web UI and JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.New()
			if addr != "" {
				cfg.HTTPAddr = addr
			}
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			sched, err := a.startScheduler()
			if err != nil {
				return err
			}
			defer sched.Stop()

			srv := web.NewServer(web.Deps{
				Orchestrator:   a.orch,
				Sessions:       a.sessions,
				Recorder:       a.recorder,
				MaxUploadBytes: cfg.MaxUploadBytes,
				Profile:        string(cfg.Profile),
			}, cfg.HTTPAddr)
			return web.Run(context.Background(), srv)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides HTTP_ADDR)")
	return cmd
}
