package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/open-dcat/open-dcat/internal/pii"
)

// Store persists data-source configurations and their discovered artifacts.
// Schema columns and sample values go into jsonb so the row layout stays
// stable as the profile shape evolves.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// SaveDataSource inserts or updates a data source. CreatedAt is set on first
// insert only; UpdatedAt is stamped on every call.
func (s *Store) SaveDataSource(ctx context.Context, ds *DataSourceConfig) error {
	now := time.Now().UTC()
	if ds.CreatedAt.IsZero() {
		ds.CreatedAt = now
	}
	ds.UpdatedAt = now

	_, err := s.pool.Exec(ctx,
		`INSERT INTO datasources (id, name, kind, enabled, config_enc, facility_scope, sla_hours, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			kind = EXCLUDED.kind,
			enabled = EXCLUDED.enabled,
			config_enc = EXCLUDED.config_enc,
			facility_scope = EXCLUDED.facility_scope,
			sla_hours = EXCLUDED.sla_hours,
			updated_at = EXCLUDED.updated_at`,
		ds.ID, ds.Name, string(ds.Kind), ds.Enabled, ds.ConfigEnc, ds.FacilityScope, ds.SLAHours, ds.CreatedAt, ds.UpdatedAt,
	)
	if err != nil {
		return NewError(ErrorConnection, "catalog.save_datasource", err)
	}
	return nil
}

// GetDataSource loads one data source by id.
func (s *Store) GetDataSource(ctx context.Context, id string) (*DataSourceConfig, error) {
	var ds DataSourceConfig
	var kind string
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, kind, enabled, config_enc, facility_scope, sla_hours, created_at, updated_at
		 FROM datasources WHERE id = $1`, id,
	).Scan(&ds.ID, &ds.Name, &kind, &ds.Enabled, &ds.ConfigEnc, &ds.FacilityScope, &ds.SLAHours, &ds.CreatedAt, &ds.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, Errorf(ErrorNotFound, "catalog.get_datasource", "datasource %s not found", id)
		}
		return nil, NewError(ErrorConnection, "catalog.get_datasource", err)
	}
	ds.Kind = ConnectorKind(kind)
	return &ds, nil
}

// ListDataSources returns data sources in name order, optionally only the
// enabled ones.
func (s *Store) ListDataSources(ctx context.Context, enabledOnly bool) ([]DataSourceConfig, error) {
	query := `SELECT id, name, kind, enabled, config_enc, facility_scope, sla_hours, created_at, updated_at
		 FROM datasources ORDER BY name`
	if enabledOnly {
		query = `SELECT id, name, kind, enabled, config_enc, facility_scope, sla_hours, created_at, updated_at
		 FROM datasources WHERE enabled ORDER BY name`
	}
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, NewError(ErrorConnection, "catalog.list_datasources", err)
	}
	defer rows.Close()

	var out []DataSourceConfig
	for rows.Next() {
		var ds DataSourceConfig
		var kind string
		if err := rows.Scan(&ds.ID, &ds.Name, &kind, &ds.Enabled, &ds.ConfigEnc, &ds.FacilityScope, &ds.SLAHours, &ds.CreatedAt, &ds.UpdatedAt); err != nil {
			return nil, NewError(ErrorConnection, "catalog.list_datasources", err)
		}
		ds.Kind = ConnectorKind(kind)
		out = append(out, ds)
	}
	if err := rows.Err(); err != nil {
		return nil, NewError(ErrorConnection, "catalog.list_datasources", err)
	}
	return out, nil
}

// DeleteDataSource removes a data source. Schemas, profiles, and PII
// findings go with it via foreign-key cascade.
func (s *Store) DeleteDataSource(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM datasources WHERE id = $1`, id)
	if err != nil {
		return NewError(ErrorConnection, "catalog.delete_datasource", err)
	}
	if tag.RowsAffected() == 0 {
		return Errorf(ErrorNotFound, "catalog.delete_datasource", "datasource %s not found", id)
	}
	return nil
}

// SaveSchema stores the discovered schema for a data source, replacing any
// previous version.
func (s *Store) SaveSchema(ctx context.Context, datasourceID string, schema *SchemaMetadata) error {
	columns, err := json.Marshal(schema.Columns)
	if err != nil {
		return NewError(ErrorValidation, "catalog.save_schema", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO dataset_schemas (datasource_id, name, columns, row_count, discovered_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (datasource_id) DO UPDATE SET
			name = EXCLUDED.name,
			columns = EXCLUDED.columns,
			row_count = EXCLUDED.row_count,
			discovered_at = EXCLUDED.discovered_at`,
		datasourceID, schema.Name, columns, schema.RowCount, schema.DiscoveredAt,
	)
	if err != nil {
		return NewError(ErrorConnection, "catalog.save_schema", err)
	}
	return nil
}

// GetSchema loads the stored schema for a data source.
func (s *Store) GetSchema(ctx context.Context, datasourceID string) (*SchemaMetadata, error) {
	var schema SchemaMetadata
	var columns []byte
	err := s.pool.QueryRow(ctx,
		`SELECT name, columns, row_count, discovered_at FROM dataset_schemas WHERE datasource_id = $1`,
		datasourceID,
	).Scan(&schema.Name, &columns, &schema.RowCount, &schema.DiscoveredAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, Errorf(ErrorNotFound, "catalog.get_schema", "no schema for datasource %s", datasourceID)
		}
		return nil, NewError(ErrorConnection, "catalog.get_schema", err)
	}
	if err := json.Unmarshal(columns, &schema.Columns); err != nil {
		return nil, NewError(ErrorParse, "catalog.get_schema", err)
	}
	return &schema, nil
}

// SaveProfiles replaces the stored column profiles and PII findings for a
// data source in one transaction and stamps last_profiled_at.
func (s *Store) SaveProfiles(ctx context.Context, datasourceID string, profiles []ColumnProfile, findings []pii.Finding) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return NewError(ErrorConnection, "catalog.save_profiles", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()
	if _, err := tx.Exec(ctx, `DELETE FROM column_profiles WHERE datasource_id = $1`, datasourceID); err != nil {
		return NewError(ErrorConnection, "catalog.save_profiles", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM pii_findings WHERE datasource_id = $1`, datasourceID); err != nil {
		return NewError(ErrorConnection, "catalog.save_profiles", err)
	}

	for _, p := range profiles {
		samples, err := json.Marshal(p.SampleValues)
		if err != nil {
			return NewError(ErrorValidation, "catalog.save_profiles", err)
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO column_profiles (datasource_id, name, type, null_count, unique_count, sample_values, min_value, max_value, most_common_value, profiled_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			datasourceID, p.Name, string(p.Type), p.NullCount, p.UniqueCount, samples, p.MinValue, p.MaxValue, p.MostCommonValue, now,
		)
		if err != nil {
			return NewError(ErrorConnection, "catalog.save_profiles", err)
		}
	}

	for _, f := range findings {
		_, err = tx.Exec(ctx,
			`INSERT INTO pii_findings (datasource_id, column_name, category, confidence, detected_at)
			 VALUES ($1, $2, $3, $4, $5)`,
			datasourceID, f.ColumnName, string(f.Category), f.Confidence, now,
		)
		if err != nil {
			return NewError(ErrorConnection, "catalog.save_profiles", err)
		}
	}

	if _, err := tx.Exec(ctx,
		`UPDATE datasources SET last_profiled_at = $2 WHERE id = $1`, datasourceID, now,
	); err != nil {
		return NewError(ErrorConnection, "catalog.save_profiles", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return NewError(ErrorConnection, "catalog.save_profiles", err)
	}
	return nil
}

// GetProfiles loads the stored column profiles in column-name order.
func (s *Store) GetProfiles(ctx context.Context, datasourceID string) ([]ColumnProfile, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT name, type, null_count, unique_count, sample_values, min_value, max_value, most_common_value
		 FROM column_profiles WHERE datasource_id = $1 ORDER BY name`,
		datasourceID,
	)
	if err != nil {
		return nil, NewError(ErrorConnection, "catalog.get_profiles", err)
	}
	defer rows.Close()

	var out []ColumnProfile
	for rows.Next() {
		var p ColumnProfile
		var typ string
		var samples []byte
		if err := rows.Scan(&p.Name, &typ, &p.NullCount, &p.UniqueCount, &samples, &p.MinValue, &p.MaxValue, &p.MostCommonValue); err != nil {
			return nil, NewError(ErrorConnection, "catalog.get_profiles", err)
		}
		p.Type = ColumnType(typ)
		if err := json.Unmarshal(samples, &p.SampleValues); err != nil {
			return nil, NewError(ErrorParse, "catalog.get_profiles", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, NewError(ErrorConnection, "catalog.get_profiles", err)
	}
	return out, nil
}

// GetPIIFindings loads the stored PII findings in column-name order.
func (s *Store) GetPIIFindings(ctx context.Context, datasourceID string) ([]pii.Finding, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT column_name, category, confidence FROM pii_findings
		 WHERE datasource_id = $1 ORDER BY column_name`,
		datasourceID,
	)
	if err != nil {
		return nil, NewError(ErrorConnection, "catalog.get_pii_findings", err)
	}
	defer rows.Close()

	var out []pii.Finding
	for rows.Next() {
		var f pii.Finding
		var category string
		if err := rows.Scan(&f.ColumnName, &category, &f.Confidence); err != nil {
			return nil, NewError(ErrorConnection, "catalog.get_pii_findings", err)
		}
		f.Category = pii.Category(category)
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, NewError(ErrorConnection, "catalog.get_pii_findings", err)
	}
	return out, nil
}

// DatasetFreshness returns the SLA and last profiling time for one dataset.
// A dataset that exists but was never profiled reports a nil time.
func (s *Store) DatasetFreshness(ctx context.Context, datasetID string) (float64, *time.Time, error) {
	var slaHours float64
	var lastProfiledAt *time.Time
	err := s.pool.QueryRow(ctx,
		`SELECT sla_hours, last_profiled_at FROM datasources WHERE id = $1`, datasetID,
	).Scan(&slaHours, &lastProfiledAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil, Errorf(ErrorNotFound, "catalog.dataset_freshness", "datasource %s not found", datasetID)
		}
		return 0, nil, NewError(ErrorConnection, "catalog.dataset_freshness", err)
	}
	return slaHours, lastProfiledAt, nil
}
