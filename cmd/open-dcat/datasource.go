package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/open-dcat/open-dcat/internal/catalog"
)

var datasourceCmd = &cobra.Command{
	Use:   "datasource",
	Short: "Manage configured data sources.",
}

var (
	dsAddID       string
	dsAddName     string
	dsAddKind     string
	dsAddConfig   string
	dsAddFacility string
	dsAddSLA      float64
	dsAddDisabled bool
)

var datasourceAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a data source. Connection parameters are validated, then sealed before storage.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		raw, err := os.ReadFile(dsAddConfig)
		if err != nil {
			return err
		}

		kind := catalog.ConnectorKind(dsAddKind)
		def, ok := a.registry.Get(kind)
		if !ok {
			return fmt.Errorf("unknown connector kind %q, known kinds: %v", dsAddKind, a.registry.Kinds())
		}
		cfg, err := def.DecodeConfig(raw)
		if err != nil {
			return err
		}
		if err := def.ValidateConfig(cfg); err != nil {
			return err
		}

		sealed, err := a.sealer.Encrypt(ctx, raw)
		if err != nil {
			return err
		}

		id := dsAddID
		if id == "" {
			id = uuid.NewString()
		}
		ds := &catalog.DataSourceConfig{
			ID:            id,
			Name:          dsAddName,
			Kind:          kind,
			Enabled:       !dsAddDisabled,
			ConfigEnc:     sealed,
			FacilityScope: dsAddFacility,
			SLAHours:      dsAddSLA,
		}
		if err := a.store.SaveDataSource(ctx, ds); err != nil {
			return err
		}

		_ = a.auditor.Record(ctx, newAuditRecord("datasource.add", id, true))
		fmt.Fprintf(cmd.OutOrStdout(), "registered %s (%s)\n", ds.Name, ds.ID)
		return nil
	},
}

var dsListAll bool

var datasourceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List data sources.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		sources, err := a.store.ListDataSources(ctx, !dsListAll)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tKIND\tENABLED\tFACILITY\tSLA_HOURS")
		for _, ds := range sources {
			fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%s\t%.0f\n",
				ds.ID, ds.Name, ds.Kind, ds.Enabled, ds.FacilityScope, ds.SLAHours)
		}
		return w.Flush()
	},
}

var datasourceDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a data source and its discovered artifacts.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		id := args[0]
		a.cache.Invalidate(ctx, id)
		if err := a.store.DeleteDataSource(ctx, id); err != nil {
			_ = a.auditor.Record(ctx, newAuditRecord("datasource.delete", id, false))
			return err
		}
		_ = a.auditor.Record(ctx, newAuditRecord("datasource.delete", id, true))
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", id)
		return nil
	},
}

var datasourceTestCmd = &cobra.Command{
	Use:   "test <id>",
	Short: "Test connectivity for a data source.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		ds, err := a.store.GetDataSource(ctx, args[0])
		if err != nil {
			return err
		}
		conn, err := a.openConnector(ctx, ds)
		if err != nil {
			return err
		}
		defer conn.Close()

		result := conn.Test(ctx)
		if !result.Success {
			fmt.Fprintf(cmd.OutOrStdout(), "FAIL %s: %s\n", ds.Name, result.Message)
			if result.Error != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", result.Error)
			}
			return silentExit(exitFailure)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "OK %s: %s\n", ds.Name, result.Message)
		return nil
	},
}

func init() {
	datasourceAddCmd.Flags().StringVar(&dsAddID, "id", "", "Data source id (generated when omitted)")
	datasourceAddCmd.Flags().StringVar(&dsAddName, "name", "", "Display name")
	datasourceAddCmd.Flags().StringVar(&dsAddKind, "kind", "", "Connector kind: postgres, csv_file, object_store")
	datasourceAddCmd.Flags().StringVar(&dsAddConfig, "config-file", "", "Path to a JSON file with connection parameters")
	datasourceAddCmd.Flags().StringVar(&dsAddFacility, "facility", "", "Facility scope for row-level filtering")
	datasourceAddCmd.Flags().Float64Var(&dsAddSLA, "sla-hours", 24, "Freshness SLA in hours")
	datasourceAddCmd.Flags().BoolVar(&dsAddDisabled, "disabled", false, "Register without enabling")
	_ = datasourceAddCmd.MarkFlagRequired("name")
	_ = datasourceAddCmd.MarkFlagRequired("kind")
	_ = datasourceAddCmd.MarkFlagRequired("config-file")

	datasourceListCmd.Flags().BoolVar(&dsListAll, "all", false, "Include disabled data sources")

	datasourceCmd.AddCommand(datasourceAddCmd, datasourceListCmd, datasourceDeleteCmd, datasourceTestCmd)
}
