package connectors

import (
	"context"

	"github.com/open-dcat/open-dcat/internal/catalog"
)

// TestResult is the outcome of a connectivity probe. Test never returns an
// error; failures are captured here so callers can probe safely.
type TestResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// Connector is the uniform capability set every data-source variant exposes.
//
// A Connector instance is not safe for concurrent calls; callers either
// serialize calls on one instance or construct an instance per call.
// DiscoverSchema, Sample, and Profile fail with a typed *catalog.Error; Close is
// idempotent and releases any held connection or file handle.
type Connector interface {
	Test(ctx context.Context) TestResult
	DiscoverSchema(ctx context.Context) (*catalog.SchemaMetadata, error)
	Sample(ctx context.Context, limit int) (*catalog.SampleResult, error)
	Profile(ctx context.Context, sampleSize int) ([]catalog.ColumnProfile, error)
	Close() error
}
