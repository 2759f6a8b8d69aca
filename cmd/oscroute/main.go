package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/chabad360/go-oscaddr/internal/config"
	"github.com/chabad360/go-oscaddr/oscaddr"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

// app carries what every command needs once flags and environment are read.
type app struct {
	cfg    *config.Config
	logger zerolog.Logger
	routes string
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "oscroute",
		Short: "Route OSC addresses against a declared route table",
		Long: `oscroute loads an ordered list of OSC route templates and routes
addresses against it, renders addresses from capture values, and decodes
OSC packets.

Configuration is read from OSCROUTE_* environment variables:

  OSCROUTE_ROUTES_FILE   route declaration file (default routes.yaml)
  OSCROUTE_WATCH         reload the table when the file changes
  OSCROUTE_LOG_LEVEL     debug, info, warn, error
  OSCROUTE_LOG_FORMAT    console or json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			if a.routes != "" {
				cfg.RoutesFile = a.routes
			}
			a.cfg = cfg
			a.logger = cfg.Logger(cmd.ErrOrStderr())
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.routes, "routes", "r", "", "route declaration file (overrides OSCROUTE_ROUTES_FILE)")

	rootCmd.AddCommand(
		checkCmd(a),
		routeCmd(a),
		renderCmd(a),
		decodeCmd(a),
		watchCmd(a),
		versionCmd(),
	)

	return rootCmd
}

// table loads the declaration file and builds the route table.
func (a *app) table() (*oscaddr.Table, error) {
	decls, err := oscaddr.LoadDeclarations(a.cfg.RoutesFile)
	if err != nil {
		return nil, err
	}
	t, err := oscaddr.NewTable(decls...)
	if err != nil {
		return nil, err
	}
	a.logger.Debug().Str("file", a.cfg.RoutesFile).Int("routes", t.Len()).Msg("route table loaded")
	return t, nil
}

func (a *app) dispatcher() (*oscaddr.Dispatcher, error) {
	t, err := a.table()
	if err != nil {
		return nil, err
	}
	return oscaddr.NewDispatcher(t, oscaddr.WithLogger(a.logger)), nil
}
