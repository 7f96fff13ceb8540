package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/open-dcat/open-dcat/internal/freshness"
	"github.com/open-dcat/open-dcat/internal/metrics"
)

var freshnessCmd = &cobra.Command{
	Use:   "freshness [id...]",
	Short: "Report dataset freshness against each source's SLA.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		sources, err := selectDataSources(ctx, a, args)
		if err != nil {
			return err
		}

		tracker := &freshness.Tracker{Store: a.store, DefaultSLAHours: a.cfg.DefaultSLAHours}

		staleByKind := make(map[string]int)
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tAGE_HOURS\tSLA_HOURS\tFRESH")
		for _, ds := range sources {
			rec, err := tracker.Compute(ctx, ds.ID)
			if err != nil {
				return err
			}
			age := "never"
			if rec.LastProfiledAt != nil {
				age = fmt.Sprintf("%.1f", rec.AgeHours)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%.0f\t%t\n", ds.ID, ds.Name, age, rec.SLAHours, rec.IsFresh)
			if !rec.IsFresh {
				staleByKind[string(ds.Kind)]++
			}
		}
		for kind, n := range staleByKind {
			metrics.StaleDatasets.WithLabelValues(kind).Set(float64(n))
		}
		return w.Flush()
	},
}
