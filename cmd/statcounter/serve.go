package main

import (
	"context"

	c "github.com/d0ngw/statcounter/common"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Starts the counter HTTP server.

Endpoints:
  GET  /{key}/likes    Increase the likes of key
  GET  /{key}          Increase the views of key, show likes and views
  POST /click/{key}    Increase the clicks of key
  GET  /click/{key}    Show the clicks of key
  GET  /metrics        Prometheus metrics
  GET  /healthz        Health check`,
		Example: `  statcounter serve
  statcounter serve --conf statcounter.yaml
  PORT=9090 statcounter serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig(confPath(cmd))
			if err != nil {
				return err
			}
			defer c.SyncLogger()

			a, err := newApp(context.Background(), conf)
			if err != nil {
				return err
			}
			if err := a.start(); err != nil {
				if stopErr := a.stop(); stopErr != nil {
					c.Errorf("stop fail,err:%s", stopErr)
				}
				return err
			}

			hook := c.NewShutdownhook()
			hook.AddHook(func() {
				if err := a.stop(); err != nil {
					c.Errorf("stop fail,err:%s", err)
				}
			})
			hook.WaitShutdown()
			return nil
		},
	}
}
