// Package objectstore implements the columnar object-store connector
// variant against any S3-compatible endpoint. Schema and statistics come
// from the Parquet file footer rather than a full scan; only sampling reads
// row data, and only as many rows as requested.
package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/parquet-go/parquet-go"

	"github.com/open-dcat/open-dcat/internal/catalog"
	"github.com/open-dcat/open-dcat/internal/connectors"
)

// Connector reads one Parquet object. Not safe for concurrent use on a
// single instance.
type Connector struct {
	cfg    Config
	client *minio.Client
	closed bool
}

// New validates the parameters and builds the client. No request is issued
// until an operation runs.
func New(cfg Config) (*Connector, error) {
	cfg = cfg.Normalized()
	if err := cfg.Validate(); err != nil {
		return nil, catalog.NewError(catalog.ErrorValidation, "objectstore.new", err)
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, catalog.NewError(catalog.ErrorValidation, "objectstore.new", err)
	}
	return &Connector{cfg: cfg, client: client}, nil
}

// Test checks that the bucket exists and the object is statable. Never
// returns an error.
func (c *Connector) Test(ctx context.Context) connectors.TestResult {
	exists, err := c.client.BucketExists(ctx, c.cfg.Bucket)
	if err != nil {
		return connectors.TestResult{
			Success: false,
			Message: fmt.Sprintf("cannot reach bucket %s", c.cfg.Bucket),
			Error:   err.Error(),
		}
	}
	if !exists {
		return connectors.TestResult{
			Success: false,
			Message: fmt.Sprintf("bucket %s does not exist", c.cfg.Bucket),
		}
	}
	if _, err := c.client.StatObject(ctx, c.cfg.Bucket, c.cfg.Object, minio.StatObjectOptions{}); err != nil {
		return connectors.TestResult{
			Success: false,
			Message: fmt.Sprintf("object %s is not readable", c.cfg.Object),
			Error:   err.Error(),
		}
	}
	return connectors.TestResult{
		Success: true,
		Message: fmt.Sprintf("object %s/%s is readable", c.cfg.Bucket, c.cfg.Object),
	}
}

// DiscoverSchema reads the Parquet footer and maps the leaf fields onto the
// catalog type set.
func (c *Connector) DiscoverSchema(ctx context.Context) (*catalog.SchemaMetadata, error) {
	pf, closer, err := c.openParquet(ctx)
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	fields := pf.Schema().Fields()
	columns := make([]catalog.ColumnMetadata, 0, len(fields))
	for _, field := range fields {
		columns = append(columns, catalog.ColumnMetadata{
			Name:     field.Name(),
			Type:     mapParquetKind(field),
			Nullable: field.Optional(),
		})
	}
	if len(columns) == 0 {
		return nil, catalog.Errorf(catalog.ErrorNotFound, "objectstore.discover",
			"object %s has no columns", c.cfg.Object)
	}

	return &catalog.SchemaMetadata{
		Name:         c.cfg.Object,
		Columns:      columns,
		RowCount:     pf.NumRows(),
		DiscoveredAt: time.Now().UTC(),
	}, nil
}

// Sample reads up to limit rows from the leading row groups. The footer
// gives the exact total row count for free.
func (c *Connector) Sample(ctx context.Context, limit int) (*catalog.SampleResult, error) {
	if limit < 1 {
		limit = 10
	}
	pf, closer, err := c.openParquet(ctx)
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	rows, err := readRows(pf, limit)
	if err != nil {
		return nil, catalog.NewError(catalog.ErrorParse, "objectstore.sample", err)
	}
	return &catalog.SampleResult{
		Rows:       rows,
		Count:      len(rows),
		TotalCount: pf.NumRows(),
	}, nil
}

// Close marks the connector closed. Object handles are scoped per operation
// and released before each operation returns.
func (c *Connector) Close() error {
	c.closed = true
	return nil
}

// openParquet stats and opens the object, then parses the footer. The
// returned closer releases the object handle and must be closed by the
// caller on every path.
func (c *Connector) openParquet(ctx context.Context) (*parquet.File, io.Closer, error) {
	stat, err := c.client.StatObject(ctx, c.cfg.Bucket, c.cfg.Object, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, nil, catalog.NewError(catalog.ErrorNotFound, "objectstore.open", err)
		}
		return nil, nil, catalog.NewError(catalog.ErrorConnection, "objectstore.open", err)
	}

	obj, err := c.client.GetObject(ctx, c.cfg.Bucket, c.cfg.Object, minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, catalog.NewError(catalog.ErrorConnection, "objectstore.open", err)
	}

	pf, err := parquet.OpenFile(obj, stat.Size)
	if err != nil {
		obj.Close()
		return nil, nil, catalog.NewError(catalog.ErrorParse, "objectstore.open", err)
	}
	return pf, obj, nil
}

// readRows decodes at most limit rows, stopping at the first row group
// boundary past the limit.
func readRows(pf *parquet.File, limit int) ([]map[string]any, error) {
	out := make([]map[string]any, 0, limit)
	for _, rg := range pf.RowGroups() {
		if len(out) >= limit {
			break
		}
		reader := parquet.NewGenericRowGroupReader[map[string]any](rg)
		buf := make([]map[string]any, limit-len(out))
		n, err := reader.Read(buf)
		closeErr := reader.Close()
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		if closeErr != nil {
			return nil, closeErr
		}
		out = append(out, buf[:n]...)
	}
	return out, nil
}

func mapParquetKind(field parquet.Field) catalog.ColumnType {
	t := field.Type()
	if lt := t.LogicalType(); lt != nil {
		switch {
		case lt.UTF8 != nil:
			return catalog.TypeString
		case lt.Date != nil:
			return catalog.TypeDate
		case lt.Timestamp != nil:
			return catalog.TypeTimestamp
		}
	}
	switch t.Kind() {
	case parquet.Boolean:
		return catalog.TypeBoolean
	case parquet.Int32, parquet.Int64:
		return catalog.TypeInteger
	case parquet.Float, parquet.Double:
		return catalog.TypeFloat
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return catalog.TypeString
	default:
		return catalog.TypeUnknown
	}
}
