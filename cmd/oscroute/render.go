package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chabad360/go-oscaddr/oscaddr"
)

func renderCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "render NAME [VALUE...]",
		Short: "Render the address of a route from capture values",
		Long: `Render the address of the named route. One value is needed per capture,
in template order; each is converted to the capture's declared type first.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.table()
			if err != nil {
				return err
			}

			r, ok := t.Lookup(args[0])
			if !ok {
				return fmt.Errorf("render: %w: %s", oscaddr.ErrUnknownVariant, args[0])
			}

			texts := args[1:]
			if len(texts) != r.Template.NumCaptures() {
				return fmt.Errorf("render: %s takes %d values, got %d", r, r.Template.NumCaptures(), len(texts))
			}

			values := make([]interface{}, len(texts))
			for i, text := range texts {
				seg := r.Template.CaptureAt(i)
				v, err := seg.Type.Parse(text)
				if err != nil {
					return &oscaddr.CaptureError{Field: seg.Name, Type: seg.Type, Text: text, Err: err}
				}
				values[i] = v
			}

			m, err := r.New(values)
			if err != nil {
				return err
			}
			addr, err := t.Render(m)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), addr)
			return nil
		},
	}
}
