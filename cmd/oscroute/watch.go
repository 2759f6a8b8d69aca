package main

import (
	"bufio"
	"fmt"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/chabad360/go-oscaddr/internal/config"
	"github.com/chabad360/go-oscaddr/internal/metrics"
)

func watchCmd(a *app) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Route addresses read from stdin, one per line",
		Long: `Read lines of the form "ADDRESS [ARG...]" from stdin and print one JSON
result per line. Lines that fail to route print an error object instead.
With --watch (or OSCROUTE_WATCH=true) the table is rebuilt whenever the
declaration file changes. Dispatch counters are printed at end of input.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := prometheus.NewRegistry()
			m := metrics.NewWithRegistry(reg)

			h, err := config.NewHolder(a.cfg.RoutesFile, a.logger, m)
			if err != nil {
				return err
			}
			defer h.Stop()

			if watch || a.cfg.Watch {
				if err := h.WatchFile(); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			enc := json.NewEncoder(out)
			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				fields := strings.Fields(scanner.Text())
				if len(fields) == 0 {
					continue
				}

				msg, err := h.Get().RouteAddress(fields[0], inferArgs(fields[1:]))
				if err != nil {
					if err := enc.Encode(map[string]string{"address": fields[0], "error": err.Error()}); err != nil {
						return err
					}
					continue
				}
				res, err := newRouteResult(msg)
				if err != nil {
					return err
				}
				if err := enc.Encode(res); err != nil {
					return err
				}
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}

			counts, err := counters(reg)
			if err != nil {
				return err
			}
			return writeJSON(out, counts)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload the table when the declaration file changes")

	return cmd
}

// counters flattens the counter metrics of reg into "name{label=value}" keys.
func counters(reg *prometheus.Registry) (map[string]float64, error) {
	families, err := reg.Gather()
	if err != nil {
		return nil, err
	}

	counts := make(map[string]float64)
	for _, f := range families {
		for _, metric := range f.GetMetric() {
			if metric.GetCounter() == nil {
				continue
			}
			labels := make([]string, 0, len(metric.GetLabel()))
			for _, l := range metric.GetLabel() {
				labels = append(labels, l.GetName()+"="+l.GetValue())
			}
			sort.Strings(labels)

			key := f.GetName()
			if len(labels) > 0 {
				key += "{" + strings.Join(labels, ",") + "}"
			}
			counts[key] = metric.GetCounter().GetValue()
		}
	}
	return counts, nil
}
