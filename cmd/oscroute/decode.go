package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func decodeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "decode HEX",
		Short: "Decode a hex encoded OSC packet and route every message in it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.dispatcher()
			if err != nil {
				return err
			}

			data, err := hex.DecodeString(strings.Join(strings.Fields(args[0]), ""))
			if err != nil {
				return fmt.Errorf("decode: %w", err)
			}

			msgs, err := d.RouteBytes(data)
			if err != nil {
				return err
			}

			results := make([]routeResult, 0, len(msgs))
			for _, m := range msgs {
				res, err := newRouteResult(m)
				if err != nil {
					return err
				}
				results = append(results, res)
			}
			return writeJSON(cmd.OutOrStdout(), results)
		},
	}
}
