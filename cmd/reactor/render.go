package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/reactor/internal/errors"
	"github.com/vango-dev/reactor/internal/statefile"
	"github.com/vango-dev/reactor/pkg/dom"
)

func (c *cli) renderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the counter to HTML",
		Long: `Mount the counter into the host page and print the resulting document.

With --watch, the state file is watched and every change is applied to
the mounted app. The mutations each change causes are printed, one per
line, followed by the container's new HTML.

Examples:
  reactor render
  reactor render --state=state.yaml
  reactor render --state=state.yaml --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return c.runRender(ctx)
		},
	}

	cmd.Flags().String("page", "", "HTML host page (default: built-in)")
	cmd.Flags().String("selector", "", "Container selector (default \"#app\")")
	cmd.Flags().String("state", "", "YAML file with the initial state")
	cmd.Flags().BoolP("watch", "w", false, "Apply state file changes until interrupted")

	return cmd
}

func (c *cli) runRender(ctx context.Context) error {
	s, err := c.newSession(false)
	if err != nil {
		return err
	}
	if err := s.doc.Render(c.out); err != nil {
		return err
	}
	fmt.Fprintln(c.out)

	if !c.cfg.App.Watch {
		return nil
	}

	container, err := s.doc.QuerySelector(c.cfg.App.Selector)
	if err != nil {
		return err
	}
	rec := dom.Record(s.doc)
	defer rec.Stop()

	updates, err := statefile.NewWatcher(c.cfg.App.State, c.logger).Watch(ctx)
	if err != nil {
		return err
	}
	c.info("watching %s", c.cfg.App.State)

	for u := range updates {
		if u.Err != nil {
			c.warn("%s", errors.FromError(u.Err, "R041").FormatCompact())
			continue
		}
		var html string
		s.app.Update(func() {
			statefile.Apply(s.store, u.State)
			html = container.InnerHTML()
		})
		if err := s.app.Err(); err != nil {
			return err
		}
		muts := rec.Drain()
		c.success("applied %d keys, %d mutations", len(u.State), len(muts))
		for _, m := range muts {
			c.info("%s", m)
		}
		fmt.Fprintln(c.out, html)
	}
	return nil
}
