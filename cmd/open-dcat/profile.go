package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/open-dcat/open-dcat/internal/catalog"
	"github.com/open-dcat/open-dcat/internal/metrics"
	"github.com/open-dcat/open-dcat/internal/pii"
)

var profileCmdWorkers int

var profileCmd = &cobra.Command{
	Use:   "profile [id...]",
	Short: "Profile columns and detect PII for enabled data sources.",
	Long:  "Profiles the named data sources, or every enabled one when no ids are given. Each run stores column statistics and PII findings and stamps the freshness clock.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		_, metricsErr := metrics.StartServer(ctx, metricsAddr(a))

		sources, err := selectDataSources(ctx, a, args)
		if err != nil {
			return err
		}

		detector := pii.NewDetector(a.cfg.PIIThreshold)

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(profileCmdWorkers)
		for _, ds := range sources {
			ds := ds
			g.Go(func() error {
				return profileOne(gctx, a, detector, &ds)
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		drainMetricsErr(metricsErr)
		return nil
	},
}

func profileOne(ctx context.Context, a *app, detector *pii.Detector, ds *catalog.DataSourceConfig) error {
	started := time.Now()
	conn, err := a.openConnector(ctx, ds)
	if err != nil {
		metrics.ProfileRunsTotal.WithLabelValues(string(ds.Kind), ds.Name, "error").Inc()
		return err
	}
	defer conn.Close()

	profiles, err := conn.Profile(ctx, a.cfg.ProfileSampleSize)
	if err != nil {
		metrics.ProfileRunsTotal.WithLabelValues(string(ds.Kind), ds.Name, "error").Inc()
		_ = a.auditor.Record(ctx, newAuditRecord("profile.run", ds.ID, false))
		return err
	}

	findings := detectPII(detector, profiles)
	if err := a.store.SaveProfiles(ctx, ds.ID, profiles, findings); err != nil {
		return err
	}
	a.cache.Invalidate(ctx, ds.ID)

	piiCount := 0
	perCategory := make(map[pii.Category]int)
	for _, f := range findings {
		if detector.IsPII(f) {
			piiCount++
			perCategory[f.Category]++
		}
	}
	for category, n := range perCategory {
		metrics.PIIColumnsTotal.WithLabelValues(ds.Name, string(category)).Set(float64(n))
	}

	metrics.ProfileDuration.WithLabelValues(string(ds.Kind), ds.Name).Observe(time.Since(started).Seconds())
	metrics.ProfileRunsTotal.WithLabelValues(string(ds.Kind), ds.Name, "success").Inc()
	metrics.ProfileLastSuccessTimestamp.WithLabelValues(string(ds.Kind), ds.Name).SetToCurrentTime()
	_ = a.auditor.Record(ctx, newAuditRecord("profile.run", ds.ID, true))

	slog.Info("profile complete",
		"datasource", ds.Name,
		"kind", ds.Kind,
		"columns", len(profiles),
		"pii_columns", piiCount,
		"took", time.Since(started),
	)
	return nil
}

// detectPII runs the detector over each profiled column's sample values.
// Every verdict is stored, including sub-threshold ones, as evidence.
func detectPII(detector *pii.Detector, profiles []catalog.ColumnProfile) []pii.Finding {
	findings := make([]pii.Finding, 0, len(profiles))
	for _, p := range profiles {
		findings = append(findings, detector.Detect(p.Name, p.SampleValues))
	}
	return findings
}

func init() {
	profileCmd.Flags().IntVar(&profileCmdWorkers, "workers", 2, "Concurrent profiling runs")
}
