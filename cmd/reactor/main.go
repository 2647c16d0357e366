package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vango-dev/reactor/internal/config"
	"github.com/vango-dev/reactor/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┬─┐┌─┐┌─┐┌─┐┌┬┐┌─┐┬─┐
  ├┬┘├┤ ├─┤│   │ │ │├┬┘
  ┴└─└─┘┴ ┴└─┘ ┴ └─┘┴└─
`

// cli carries the state shared by all commands.
type cli struct {
	out     io.Writer
	errOut  io.Writer
	cfgFile string
	v       *viper.Viper
	cfg     *config.Config
	logger  *slog.Logger
}

func main() {
	c := &cli{out: os.Stdout, errOut: os.Stderr}
	if err := c.rootCmd().Execute(); err != nil {
		errors.Print(os.Stderr, err)
		os.Exit(1)
	}
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "reactor",
		Short: "A minimal reactive UI runtime",
		Long: `reactor renders components whose output follows their state.

Components read state through reactive stores. Every write re-runs
the renders that read it and patches the host document in place.

  • Dependency tracking per property
  • Positional virtual tree diffing
  • Live server streaming mutations over WebSocket`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig(cmd)
		},
	}
	root.SetOut(c.out)
	root.SetErr(c.errOut)

	root.PersistentFlags().StringVarP(&c.cfgFile, "config", "c", "", "Config file (default ./reactor.yaml)")
	root.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	root.PersistentFlags().String("log-format", "", "Log format: text or json")

	root.AddCommand(
		c.demoCmd(),
		c.renderCmd(),
		c.serveCmd(),
		c.versionCmd(),
	)
	return root
}

// loadConfig resolves configuration from file, environment and flags.
func (c *cli) loadConfig(cmd *cobra.Command) error {
	c.v = config.NewViper(c.cfgFile, ".")

	bind := map[string]string{
		"log.level":       "log-level",
		"log.format":      "log-format",
		"server.addr":     "addr",
		"app.page":        "page",
		"app.selector":    "selector",
		"app.state":       "state",
		"app.watch":       "watch",
		"metrics.enabled": "metrics",
	}
	for key, flag := range bind {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := c.v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}

	cfg, err := config.Load(c.v)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.logger = cfg.Log.NewLogger(c.errOut)
	if p := cfg.Path(); p != "" {
		c.logger.Debug("using config file", "path", p)
	}
	return nil
}

func (c *cli) printBanner() {
	fmt.Fprint(c.out, banner)
}

// success prints a success message.
func (c *cli) success(format string, args ...any) {
	fmt.Fprintf(c.out, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func (c *cli) info(format string, args ...any) {
	fmt.Fprintf(c.out, "  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func (c *cli) warn(format string, args ...any) {
	fmt.Fprintf(c.out, "\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
