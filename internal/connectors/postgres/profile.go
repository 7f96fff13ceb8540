package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/open-dcat/open-dcat/internal/catalog"
	"github.com/open-dcat/open-dcat/internal/profiler"
)

// Profile pushes per-column statistics down into aggregate SQL, scoped by
// sampleSize as a row limit. Columns fan out across a bounded worker pool;
// the result preserves schema column order.
//
// A column whose aggregates are unsupported by its native type degrades to
// zero-value statistics instead of failing the run.
func (c *Connector) Profile(ctx context.Context, sampleSize int) ([]catalog.ColumnProfile, error) {
	schema, err := c.DiscoverSchema(ctx)
	if err != nil {
		return nil, err
	}
	if sampleSize < 1 {
		sampleSize = 1000
	}

	return profiler.Map(ctx, schema.Columns, c.profileWorkers,
		func(ctx context.Context, col catalog.ColumnMetadata) (catalog.ColumnProfile, error) {
			return c.profileColumn(ctx, col, sampleSize), nil
		})
}

func (c *Connector) profileColumn(ctx context.Context, col catalog.ColumnMetadata, sampleSize int) catalog.ColumnProfile {
	profile := catalog.ColumnProfile{
		Name:         col.Name,
		Type:         col.Type,
		SampleValues: []string{},
	}

	colRef := pgx.Identifier{col.Name}.Sanitize()
	sampled := fmt.Sprintf("(SELECT %s FROM %s LIMIT %d) AS sampled", colRef, c.tableRef(), sampleSize)

	// Degrade-not-fail: any aggregate the native type rejects leaves the
	// column with zero-value statistics.
	var nullCount, uniqueCount int64
	var minText, maxText *string
	err := c.pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT COUNT(*) - COUNT(%[1]s),
		       COUNT(DISTINCT %[1]s),
		       MIN(%[1]s)::text,
		       MAX(%[1]s)::text
		FROM %[2]s`, colRef, sampled),
	).Scan(&nullCount, &uniqueCount, &minText, &maxText)
	if err != nil {
		return profile
	}
	profile.NullCount = nullCount
	profile.UniqueCount = uniqueCount

	if isNumericType(col.Type) {
		if v, ok := parseNumeric(minText); ok {
			profile.MinValue = v
		}
		if v, ok := parseNumeric(maxText); ok {
			profile.MaxValue = v
		}
	}

	var mode *string
	err = c.pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT %[1]s::text
		FROM %[2]s
		WHERE %[1]s IS NOT NULL
		GROUP BY 1
		ORDER BY COUNT(*) DESC
		LIMIT 1`, colRef, sampled),
	).Scan(&mode)
	if err == nil && mode != nil {
		profile.MostCommonValue = mode
	}

	rows, err := c.pool.Query(ctx, fmt.Sprintf(`
		SELECT %[1]s::text
		FROM (SELECT %[1]s FROM %[2]s LIMIT %[3]d) AS sampled
		WHERE %[1]s IS NOT NULL
		LIMIT 5`, colRef, c.tableRef(), sampleSize),
	)
	if err != nil {
		return profile
	}
	defer rows.Close()
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			break
		}
		profile.SampleValues = append(profile.SampleValues, v)
	}

	return profile
}

func isNumericType(t catalog.ColumnType) bool {
	return t == catalog.TypeInteger || t == catalog.TypeFloat
}

func parseNumeric(text *string) (*float64, bool) {
	if text == nil {
		return nil, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(*text), 64)
	if err != nil {
		return nil, false
	}
	return &v, true
}
