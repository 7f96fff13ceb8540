package objectstore

import (
	"context"
	"encoding/binary"
	"math"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/format"

	"github.com/open-dcat/open-dcat/internal/catalog"
	"github.com/open-dcat/open-dcat/internal/profiler"
)

// Profile derives column statistics from row-group metadata in the Parquet
// footer: null counts, distinct counts, and min/max come from the column
// chunk statistics, so no column data is scanned. Only the five preview
// values per column read actual rows, and sampleSize bounds that read.
//
// Columns without usable chunk statistics keep zero-value statistics rather
// than failing the run.
func (c *Connector) Profile(ctx context.Context, sampleSize int) ([]catalog.ColumnProfile, error) {
	pf, closer, err := c.openParquet(ctx)
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	fields := pf.Schema().Fields()
	if len(fields) == 0 {
		return nil, catalog.Errorf(catalog.ErrorNotFound, "objectstore.profile",
			"object %s has no columns", c.cfg.Object)
	}

	previewLimit := 5
	if sampleSize > 0 && sampleSize < previewLimit {
		previewLimit = sampleSize
	}
	preview, err := readRows(pf, previewLimit)
	if err != nil {
		return nil, catalog.NewError(catalog.ErrorParse, "objectstore.profile", err)
	}

	meta := pf.Metadata()
	profiles := make([]catalog.ColumnProfile, 0, len(fields))
	for idx, field := range fields {
		profile := catalog.ColumnProfile{
			Name:         field.Name(),
			Type:         mapParquetKind(field),
			SampleValues: []string{},
		}
		fillFromChunkStats(&profile, meta, idx, field.Type().Kind())
		for _, row := range preview {
			if v, ok := row[field.Name()]; ok && v != nil {
				profile.SampleValues = append(profile.SampleValues, profiler.FormatValue(v))
			}
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

// fillFromChunkStats folds the statistics of every row-group chunk for one
// leaf column into the profile. Missing statistics leave the zero values in
// place. Distinct counts are per chunk, so summing them would overcount
// values spanning row groups; the largest chunk count is kept as a lower
// bound on the column's cardinality.
func fillFromChunkStats(profile *catalog.ColumnProfile, meta *format.FileMetaData, columnIndex int, kind parquet.Kind) {
	var haveMin, haveMax bool
	for _, rg := range meta.RowGroups {
		if columnIndex >= len(rg.Columns) {
			continue
		}
		stats := rg.Columns[columnIndex].MetaData.Statistics
		profile.NullCount += stats.NullCount
		if stats.DistinctCount > profile.UniqueCount {
			profile.UniqueCount = stats.DistinctCount
		}

		if mn, ok := decodeStatValue(minBytes(stats), kind); ok {
			if !haveMin || mn < *profile.MinValue {
				v := mn
				profile.MinValue = &v
			}
			haveMin = true
		}
		if mx, ok := decodeStatValue(maxBytes(stats), kind); ok {
			if !haveMax || mx > *profile.MaxValue {
				v := mx
				profile.MaxValue = &v
			}
			haveMax = true
		}
	}
}

func minBytes(stats format.Statistics) []byte {
	if len(stats.MinValue) > 0 {
		return stats.MinValue
	}
	return stats.Min
}

func maxBytes(stats format.Statistics) []byte {
	if len(stats.MaxValue) > 0 {
		return stats.MaxValue
	}
	return stats.Max
}

// decodeStatValue interprets a plain-encoded statistics value for numeric
// physical types. Non-numeric kinds report no bounds, matching the profile
// contract.
func decodeStatValue(raw []byte, kind parquet.Kind) (float64, bool) {
	switch kind {
	case parquet.Int32:
		if len(raw) < 4 {
			return 0, false
		}
		return float64(int32(binary.LittleEndian.Uint32(raw))), true
	case parquet.Int64:
		if len(raw) < 8 {
			return 0, false
		}
		return float64(int64(binary.LittleEndian.Uint64(raw))), true
	case parquet.Float:
		if len(raw) < 4 {
			return 0, false
		}
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(raw))), true
	case parquet.Double:
		if len(raw) < 8 {
			return 0, false
		}
		return math.Float64frombits(binary.LittleEndian.Uint64(raw)), true
	default:
		return 0, false
	}
}
