package catalog

import (
	"time"
)

// ConnectorKind identifies one of the supported data-source connector variants.
type ConnectorKind string

const (
	KindPostgres    ConnectorKind = "postgres"
	KindCSVFile     ConnectorKind = "csv_file"
	KindObjectStore ConnectorKind = "object_store"
)

// ColumnType is the semantic type assigned to a column, either from the
// source's native catalog or from sample-based inference.
type ColumnType string

const (
	TypeString    ColumnType = "string"
	TypeInteger   ColumnType = "integer"
	TypeFloat     ColumnType = "float"
	TypeBoolean   ColumnType = "boolean"
	TypeDate      ColumnType = "date"
	TypeTimestamp ColumnType = "timestamp"
	TypeUnknown   ColumnType = "unknown"
)

// DataSourceConfig identifies one configured data source. ConfigEnc holds the
// connector-kind-specific connection parameters, serialized and encrypted at
// rest; only Enabled, ConfigEnc, and discovered artifacts change after
// creation.
type DataSourceConfig struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Kind          ConnectorKind `json:"kind"`
	Enabled       bool          `json:"enabled"`
	ConfigEnc     string        `json:"-"`
	FacilityScope string        `json:"facility_scope,omitempty"`
	SLAHours      float64       `json:"sla_hours"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// ColumnMetadata describes one column within a discovered schema. Name is
// unique within its parent SchemaMetadata.
type ColumnMetadata struct {
	Name     string     `json:"name"`
	Type     ColumnType `json:"type"`
	Nullable bool       `json:"nullable"`
}

// SchemaMetadata is the discovered shape of one queryable unit: a table for
// relational sources, a file path for file-backed sources. Discovery
// overwrites the previous version; no history is kept at this layer.
type SchemaMetadata struct {
	Name         string           `json:"name"`
	Columns      []ColumnMetadata `json:"columns"`
	RowCount     int64            `json:"row_count,omitempty"`
	DiscoveredAt time.Time        `json:"discovered_at"`
}

// ColumnNames returns the column names in declaration order.
func (s SchemaMetadata) ColumnNames() []string {
	names := make([]string, 0, len(s.Columns))
	for _, c := range s.Columns {
		names = append(names, c.Name)
	}
	return names
}

// ColumnProfile holds per-column statistics computed from a bounded sample.
// UniqueCount is a sample-bound estimate, not a population-distinct count.
// MinValue and MaxValue are present only when at least one sampled value
// parsed as a number.
type ColumnProfile struct {
	Name            string     `json:"name"`
	Type            ColumnType `json:"type"`
	NullCount       int64      `json:"null_count"`
	UniqueCount     int64      `json:"unique_count"`
	SampleValues    []string   `json:"sample_values"`
	MinValue        *float64   `json:"min_value,omitempty"`
	MaxValue        *float64   `json:"max_value,omitempty"`
	MostCommonValue *string    `json:"most_common_value,omitempty"`
}

// SampleResult is a bounded preview of source rows. TotalCount is zero when
// the source cannot provide it cheaply.
type SampleResult struct {
	Rows       []map[string]any `json:"rows"`
	Count      int              `json:"count"`
	TotalCount int64            `json:"total_count"`
}

// FreshnessRecord reports dataset staleness against its SLA. A dataset that
// has never been profiled is maximally stale, never an error.
type FreshnessRecord struct {
	DatasetID      string     `json:"dataset_id"`
	LastProfiledAt *time.Time `json:"last_profiled_at,omitempty"`
	SLAHours       float64    `json:"sla_hours"`
	AgeHours       float64    `json:"age_hours"`
	IsFresh        bool       `json:"is_fresh"`
}
