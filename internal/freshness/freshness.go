// Package freshness computes dataset staleness against a configured SLA.
package freshness

import (
	"context"
	"math"
	"time"

	"github.com/open-dcat/open-dcat/internal/catalog"
)

// NeverProfiledAgeHours is reported for datasets without a profiling run:
// maximally stale, never an error.
const NeverProfiledAgeHours = math.MaxFloat64

// Store provides the inputs the tracker needs per dataset.
type Store interface {
	// DatasetFreshness returns the dataset's SLA in hours and its last
	// profiling time, nil when it has never been profiled.
	DatasetFreshness(ctx context.Context, datasetID string) (slaHours float64, lastProfiledAt *time.Time, err error)
}

// Tracker computes freshness records on demand; nothing is stored.
type Tracker struct {
	Store           Store
	DefaultSLAHours float64
}

// Compute derives the freshness record for one dataset.
func (t *Tracker) Compute(ctx context.Context, datasetID string) (catalog.FreshnessRecord, error) {
	slaHours, lastProfiledAt, err := t.Store.DatasetFreshness(ctx, datasetID)
	if err != nil {
		return catalog.FreshnessRecord{}, err
	}
	if slaHours <= 0 {
		slaHours = t.DefaultSLAHours
	}
	return At(datasetID, lastProfiledAt, slaHours, time.Now().UTC()), nil
}

// At computes the record against an explicit clock, for determinism.
func At(datasetID string, lastProfiledAt *time.Time, slaHours float64, now time.Time) catalog.FreshnessRecord {
	rec := catalog.FreshnessRecord{
		DatasetID:      datasetID,
		LastProfiledAt: lastProfiledAt,
		SLAHours:       slaHours,
	}
	if lastProfiledAt == nil {
		rec.AgeHours = NeverProfiledAgeHours
		rec.IsFresh = false
		return rec
	}
	rec.AgeHours = now.Sub(*lastProfiledAt).Hours()
	rec.IsFresh = rec.AgeHours <= slaHours
	return rec
}
