// Package compliance resolves named compliance presets and applies their
// redaction, small-cell-suppression, and export policies to result data.
package compliance

import (
	"fmt"
	"strings"

	"github.com/open-dcat/open-dcat/internal/catalog"
)

// RedactionMarker replaces PII values for callers without entitlement.
const RedactionMarker = "[REDACTED]"

// piiFieldHints drives the redaction key heuristic: any field key containing
// one of these fragments (case-insensitive) is treated as PII.
var piiFieldHints = []string{
	"ssn", "email", "phone", "dob", "birth", "address", "passport",
	"license", "mrn", "medical", "health_id", "first_name", "last_name",
	"full_name", "card_number", "credit_card",
}

// Resolve returns the preset for a framework name, or a not-found error for
// frameworks outside the closed set.
func Resolve(framework string) (Preset, error) {
	p, ok := presets[strings.ToLower(strings.TrimSpace(framework))]
	if !ok {
		return Preset{}, catalog.Errorf(catalog.ErrorNotFound, "compliance.resolve", "unknown compliance framework %q", framework)
	}
	return p, nil
}

// Frameworks lists the supported framework names.
func Frameworks() []string {
	return []string{FrameworkHIPAA, FrameworkGDPR, FrameworkSOC2}
}

// Redact walks data recursively and replaces the value of any field whose
// key matches the PII heuristic with the redaction marker. It is a no-op when
// the caller is PII-entitled or the preset has masking disabled. Redacting
// already-redacted data yields the same output.
func Redact(data any, preset Preset, piiEntitled bool) any {
	if piiEntitled || !preset.PIIMasking.Enabled {
		return data
	}
	return redactValue(data)
}

func redactValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			if isPIIKey(k) {
				out[k] = RedactionMarker
				continue
			}
			out[k] = redactValue(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = redactValue(val)
		}
		return out
	case []map[string]any:
		out := make([]map[string]any, len(t))
		for i, row := range t {
			out[i] = redactValue(row).(map[string]any)
		}
		return out
	default:
		return v
	}
}

func isPIIKey(key string) bool {
	k := strings.ToLower(key)
	for _, hint := range piiFieldHints {
		if strings.Contains(k, hint) {
			return true
		}
	}
	return false
}

// AggregatedResult is the small-cell-suppression stand-in returned when a
// group is too sparse to release raw rows or counts.
type AggregatedResult struct {
	Aggregated bool   `json:"aggregated"`
	Count      int64  `json:"count"`
	Message    string `json:"message"`
}

// EnforceMinimumAggregate collapses any slice or count-bearing map smaller
// than threshold into an AggregatedResult, guarding against re-identification
// through sparse groups. Data at or above the threshold passes unchanged.
func EnforceMinimumAggregate(data any, threshold int64) any {
	if threshold <= 0 {
		return data
	}
	switch t := data.(type) {
	case []any:
		if int64(len(t)) < threshold {
			return suppress(int64(len(t)), threshold)
		}
	case []map[string]any:
		if int64(len(t)) < threshold {
			return suppress(int64(len(t)), threshold)
		}
	case map[string]any:
		if raw, ok := t["count"]; ok {
			if n, ok := asInt64(raw); ok && n < threshold {
				return suppress(n, threshold)
			}
		}
	}
	return data
}

func suppress(count, threshold int64) AggregatedResult {
	return AggregatedResult{
		Aggregated: true,
		Count:      count,
		Message:    fmt.Sprintf("result suppressed: group size %d is below the minimum aggregate threshold %d", count, threshold),
	}
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}

// CheckExport enforces a preset's export restrictions. Requests above
// MaxRecords are rejected outright, and approval-required presets reject
// unapproved exports; nothing is ever truncated to fit.
func CheckExport(preset Preset, requestedRecords int64, approved bool) error {
	if !preset.ExportRestrictions.Enabled {
		return nil
	}
	if preset.ExportRestrictions.ApprovalRequired && !approved {
		return catalog.Errorf(catalog.ErrorLimitExceeded, "compliance.export",
			"export under %s requires approval", preset.Name)
	}
	if max := preset.ExportRestrictions.MaxRecords; max > 0 && requestedRecords > max {
		return catalog.Errorf(catalog.ErrorLimitExceeded, "compliance.export",
			"requested %d records exceeds the %s export limit of %d", requestedRecords, preset.Name, max)
	}
	return nil
}
