package main

import (
	"github.com/spf13/cobra"
)

func routeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "route ADDRESS [ARG...]",
		Short: "Route an address and print the result as JSON",
		Long: `Route an address against the table and print the selected route, the
converted captures, the arguments and the re-rendered address.

Arguments are passed as int32, float32 or boolean when they parse as one,
and as strings otherwise.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.dispatcher()
			if err != nil {
				return err
			}

			m, err := d.RouteAddress(args[0], inferArgs(args[1:]))
			if err != nil {
				return err
			}

			res, err := newRouteResult(m)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}
}
