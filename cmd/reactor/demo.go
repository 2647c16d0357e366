package main

import (
	"github.com/spf13/cobra"

	"github.com/vango-dev/reactor/internal/demo"
	"github.com/vango-dev/reactor/pkg/reactive"
)

func (c *cli) demoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Walk through dependency tracking on the console",
		Long: `Register three effects over two reactive objects, then write one
property of each. Only the effects that read a written property run again.

Examples:
  reactor demo
  reactor demo --log-level=debug`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			demo.Console(c.out, reactive.NewScope(reactive.WithLogger(c.logger)))
			return nil
		},
	}
}
