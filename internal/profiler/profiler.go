// Package profiler computes per-column statistics from a bounded sample of
// rows. It is the local (non-pushdown) profiling path shared by the
// delimited-file and object-store connectors.
package profiler

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/open-dcat/open-dcat/internal/catalog"
)

// maxSampleValues bounds the preview values kept per column.
const maxSampleValues = 5

// ProfileColumns computes a ColumnProfile for every column, fanning the
// per-column work across a bounded worker pool. The result preserves the
// order of columns regardless of completion order.
func ProfileColumns(ctx context.Context, rows []map[string]any, columns []catalog.ColumnMetadata, workers int) ([]catalog.ColumnProfile, error) {
	return Map(ctx, columns, workers, func(_ context.Context, col catalog.ColumnMetadata) (catalog.ColumnProfile, error) {
		return ProfileColumn(rows, col), nil
	})
}

// ProfileColumn computes statistics for one column over the sampled rows.
//
// Null means a missing key, a nil value, or an empty string. UniqueCount is
// the distinct non-null count within the sample only. SampleValues are the
// first five non-null values in sample order. MinValue/MaxValue cover only
// values parseable as numbers and are omitted entirely when none parse.
// MostCommonValue compares values by string representation; ties go to the
// first-encountered value.
func ProfileColumn(rows []map[string]any, col catalog.ColumnMetadata) catalog.ColumnProfile {
	profile := catalog.ColumnProfile{
		Name:         col.Name,
		Type:         col.Type,
		SampleValues: []string{},
	}

	counts := make(map[string]int64)
	var encounterOrder []string
	var minVal, maxVal float64
	var haveNumeric bool

	for _, row := range rows {
		v, ok := row[col.Name]
		if !ok || v == nil {
			profile.NullCount++
			continue
		}
		s := FormatValue(v)
		if s == "" {
			profile.NullCount++
			continue
		}

		if len(profile.SampleValues) < maxSampleValues {
			profile.SampleValues = append(profile.SampleValues, s)
		}
		if _, seen := counts[s]; !seen {
			encounterOrder = append(encounterOrder, s)
		}
		counts[s]++

		if n, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			if !haveNumeric {
				minVal, maxVal = n, n
				haveNumeric = true
			} else {
				if n < minVal {
					minVal = n
				}
				if n > maxVal {
					maxVal = n
				}
			}
		}
	}

	profile.UniqueCount = int64(len(counts))

	if haveNumeric {
		mn, mx := minVal, maxVal
		profile.MinValue = &mn
		profile.MaxValue = &mx
	}

	var best string
	var bestCount int64
	for _, s := range encounterOrder {
		if counts[s] > bestCount {
			best = s
			bestCount = counts[s]
		}
	}
	if bestCount > 0 {
		profile.MostCommonValue = &best
	}

	return profile
}

// FormatValue renders a sampled value for comparison and preview. Numbers
// keep their shortest round-trip form so equal values compare equal across
// source representations.
func FormatValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
