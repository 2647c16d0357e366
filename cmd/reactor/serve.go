package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/reactor/internal/statefile"
	"github.com/vango-dev/reactor/pkg/server"
)

func (c *cli) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the counter over HTTP",
		Long: `Start the live server.

The counter is mounted once on the server. Browsers and tools read the
page and state over HTTP, write state with PUT /state/{key}, and follow
every change over the /ws WebSocket stream.

Examples:
  reactor serve
  reactor serve --addr=:3000
  reactor serve --state=state.yaml --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return c.runServe(ctx)
		},
	}

	cmd.Flags().String("addr", "", "Listen address (default \":8080\")")
	cmd.Flags().String("page", "", "HTML host page (default: built-in)")
	cmd.Flags().String("selector", "", "Container selector (default \"#app\")")
	cmd.Flags().String("state", "", "YAML file with the initial state")
	cmd.Flags().BoolP("watch", "w", false, "Apply state file changes while serving")
	cmd.Flags().Bool("metrics", true, "Expose Prometheus metrics on /metrics")

	return cmd
}

func (c *cli) runServe(ctx context.Context) error {
	s, err := c.newSession(c.cfg.Metrics.Enabled)
	if err != nil {
		return err
	}

	srv, err := server.New(s.app, s.doc, s.store, server.Config{
		Addr:            c.cfg.Server.Addr,
		Selector:        c.cfg.App.Selector,
		ShutdownTimeout: c.cfg.Server.ShutdownTimeout,
		Registry:        s.reg,
		Logger:          c.logger,
	})
	if err != nil {
		return err
	}

	if c.cfg.App.Watch {
		updates, err := statefile.NewWatcher(c.cfg.App.State, c.logger).Watch(ctx)
		if err != nil {
			return err
		}
		go func() {
			for u := range updates {
				if u.Err == nil {
					srv.Apply(u.State)
				}
			}
		}()
	}

	c.printBanner()
	c.success("serving on %s", c.cfg.Server.Addr)
	if s.reg != nil {
		c.info("metrics on %s/metrics", c.cfg.Server.Addr)
	}
	return srv.Run(ctx)
}
