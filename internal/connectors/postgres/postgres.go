// Package postgres implements the relational connector variant. Schema comes
// from the information_schema catalogs and profiling is pushed down into
// aggregate SQL scoped by the requested sample size.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/open-dcat/open-dcat/internal/catalog"
	"github.com/open-dcat/open-dcat/internal/connectors"
)

// Connector profiles one PostgreSQL table. The underlying pool is safe for
// concurrent queries, which the per-column profile fan-out relies on.
type Connector struct {
	cfg  Config
	pool *pgxpool.Pool

	profileWorkers int
	closed         bool
}

// New constructs a connector. The pool connects lazily; construction does
// not touch the network.
func New(ctx context.Context, cfg Config, profileWorkers int) (*Connector, error) {
	if profileWorkers < 1 {
		profileWorkers = 4
	}
	cfg = cfg.Normalized()
	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		return nil, catalog.NewError(catalog.ErrorValidation, "postgres.new", err)
	}
	return &Connector{cfg: cfg, pool: pool, profileWorkers: profileWorkers}, nil
}

// Test pings the database. It never returns an error and leaves no extra
// resources open.
func (c *Connector) Test(ctx context.Context) connectors.TestResult {
	if c.closed {
		return connectors.TestResult{Success: false, Message: "connector is closed"}
	}
	if err := c.pool.Ping(ctx); err != nil {
		return connectors.TestResult{
			Success: false,
			Message: fmt.Sprintf("cannot reach %s/%s", c.cfg.Host, c.cfg.Database),
			Error:   err.Error(),
		}
	}
	return connectors.TestResult{
		Success: true,
		Message: fmt.Sprintf("connected to %s/%s", c.cfg.Host, c.cfg.Database),
	}
}

// DiscoverSchema reads the table's columns from information_schema. The row
// count is the planner's estimate, not an exact count.
func (c *Connector) DiscoverSchema(ctx context.Context) (*catalog.SchemaMetadata, error) {
	rows, err := c.pool.Query(ctx, `
		SELECT column_name, data_type, is_nullable
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2
		ORDER BY ordinal_position`,
		c.cfg.Schema, c.cfg.Table,
	)
	if err != nil {
		return nil, catalog.NewError(catalog.ErrorConnection, "postgres.discover", err)
	}
	defer rows.Close()

	var columns []catalog.ColumnMetadata
	for rows.Next() {
		var name, dataType, isNullable string
		if err := rows.Scan(&name, &dataType, &isNullable); err != nil {
			return nil, catalog.NewError(catalog.ErrorConnection, "postgres.discover", err)
		}
		columns = append(columns, catalog.ColumnMetadata{
			Name:     name,
			Type:     mapDataType(dataType),
			Nullable: isNullable == "YES",
		})
	}
	if err := rows.Err(); err != nil {
		return nil, catalog.NewError(catalog.ErrorConnection, "postgres.discover", err)
	}
	if len(columns) == 0 {
		return nil, catalog.Errorf(catalog.ErrorNotFound, "postgres.discover",
			"table %s.%s not found or has no columns", c.cfg.Schema, c.cfg.Table)
	}

	return &catalog.SchemaMetadata{
		Name:         c.cfg.Table,
		Columns:      columns,
		RowCount:     c.estimatedRowCount(ctx),
		DiscoveredAt: time.Now().UTC(),
	}, nil
}

// Sample returns up to limit rows. TotalCount is the planner estimate, zero
// when unavailable.
func (c *Connector) Sample(ctx context.Context, limit int) (*catalog.SampleResult, error) {
	if limit < 1 {
		limit = 10
	}
	query := fmt.Sprintf("SELECT * FROM %s LIMIT %d", c.tableRef(), limit)
	rows, err := c.pool.Query(ctx, query)
	if err != nil {
		return nil, catalog.NewError(catalog.ErrorConnection, "postgres.sample", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	out := make([]map[string]any, 0, limit)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, catalog.NewError(catalog.ErrorParse, "postgres.sample", err)
		}
		row := make(map[string]any, len(fields))
		for i, fd := range fields {
			row[fd.Name] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, catalog.NewError(catalog.ErrorConnection, "postgres.sample", err)
	}

	return &catalog.SampleResult{
		Rows:       out,
		Count:      len(out),
		TotalCount: c.estimatedRowCount(ctx),
	}, nil
}

// Close releases the pool. Idempotent.
func (c *Connector) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.pool.Close()
	return nil
}

func (c *Connector) tableRef() string {
	return pgx.Identifier{c.cfg.Schema, c.cfg.Table}.Sanitize()
}

// estimatedRowCount asks the planner for its estimate. Unknown is reported
// as zero, matching the sample contract.
func (c *Connector) estimatedRowCount(ctx context.Context) int64 {
	var estimate float64
	err := c.pool.QueryRow(ctx, `
		SELECT COALESCE(reltuples, 0)
		FROM pg_class c
		JOIN pg_namespace n ON n.oid = c.relnamespace
		WHERE n.nspname = $1 AND c.relname = $2`,
		c.cfg.Schema, c.cfg.Table,
	).Scan(&estimate)
	if err != nil || estimate < 0 {
		return 0
	}
	return int64(estimate)
}

// mapDataType translates a PostgreSQL data type name into the catalog type
// set. Types outside the mapped set are unknown rather than silently string.
func mapDataType(dataType string) catalog.ColumnType {
	switch dataType {
	case "smallint", "integer", "bigint":
		return catalog.TypeInteger
	case "real", "double precision", "numeric", "money":
		return catalog.TypeFloat
	case "boolean":
		return catalog.TypeBoolean
	case "date":
		return catalog.TypeDate
	case "timestamp without time zone", "timestamp with time zone":
		return catalog.TypeTimestamp
	case "character varying", "character", "text", "uuid", "json", "jsonb":
		return catalog.TypeString
	default:
		return catalog.TypeUnknown
	}
}
