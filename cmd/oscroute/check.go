package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func checkCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the route declaration file and list its routes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.table()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, r := range t.Routes() {
				fmt.Fprintf(out, "%3d  %-20s %s\n", r.Index(), r.Name, r.Template)
			}
			fmt.Fprintf(out, "%d routes OK\n", t.Len())
			return nil
		},
	}
}
