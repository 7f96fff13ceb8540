package security

import (
	"fmt"
	"sort"
	"strings"

	"github.com/open-dcat/open-dcat/internal/compliance"
)

// RowPolicy is the explicit default applied to non-administrator contexts
// that carry no facility scope. There is no implicit fallback.
type RowPolicy string

const (
	RowPolicyDenyAll  RowPolicy = "deny_all"
	RowPolicyAllowAll RowPolicy = "allow_all"
)

// Options configures filter construction.
type Options struct {
	// FacilityColumn is the column the facility-scope equality predicate
	// binds to.
	FacilityColumn string
	// DefaultRowPolicy applies when a non-admin context has no facility
	// scope.
	DefaultRowPolicy RowPolicy
	// PIIColumns and RestrictedColumns are the static exclusion lists the
	// column filter starts from.
	PIIColumns        []string
	RestrictedColumns []string
}

// Filter is the pair of directives the external query layer applies.
type Filter struct {
	// RowPredicate is an SQL boolean expression, empty when unrestricted.
	RowPredicate string
	// RowArgs are the bind arguments for RowPredicate.
	RowArgs []any
	// DenyAll short-circuits the query entirely.
	DenyAll bool
	// ExcludedColumns is sorted for deterministic application.
	ExcludedColumns []string
}

// Excludes reports whether the filter excludes the named column.
func (f Filter) Excludes(column string) bool {
	for _, c := range f.ExcludedColumns {
		if c == column {
			return true
		}
	}
	return false
}

// BuildFilter derives row and column directives from a security context.
//
// Administrators get an unrestricted row filter. Other roles are scoped to
// their facility when one is set; otherwise the configured default policy
// decides between deny-all and allow-all.
//
// The column exclusion set starts as the union of the static PII and
// restricted lists. A PII-entitled context earns PII columns back according
// to the preset's masking strategy: full releases every PII column, partial
// releases the first half (rounded up) of the preset's PII field list in
// list order, and hash releases none because hashing happens at the value
// layer.
func BuildFilter(ctx Context, opts Options) Filter {
	var f Filter

	if !ctx.User.IsAdmin() {
		scope := strings.TrimSpace(ctx.User.FacilityScope)
		switch {
		case scope != "":
			column := opts.FacilityColumn
			if column == "" {
				column = "facility_id"
			}
			f.RowPredicate = fmt.Sprintf("%s = $1", column)
			f.RowArgs = []any{scope}
		case opts.DefaultRowPolicy == RowPolicyAllowAll:
			// Explicitly unrestricted.
		default:
			f.DenyAll = true
		}
	}

	excluded := make(map[string]struct{})
	for _, c := range opts.PIIColumns {
		excluded[c] = struct{}{}
	}
	for _, c := range opts.RestrictedColumns {
		excluded[c] = struct{}{}
	}

	if ctx.PIIEntitled && ctx.Preset.PIIMasking.Enabled {
		for _, c := range releasedPIIColumns(ctx.Preset, opts.PIIColumns) {
			if isRestricted(c, opts.RestrictedColumns) {
				continue
			}
			delete(excluded, c)
		}
	}

	f.ExcludedColumns = make([]string, 0, len(excluded))
	for c := range excluded {
		f.ExcludedColumns = append(f.ExcludedColumns, c)
	}
	sort.Strings(f.ExcludedColumns)
	return f
}

// releasedPIIColumns returns the PII columns the masking strategy grants
// direct access to.
func releasedPIIColumns(preset compliance.Preset, piiColumns []string) []string {
	switch preset.PIIMasking.Strategy {
	case compliance.MaskFull:
		return piiColumns
	case compliance.MaskPartial:
		fields := preset.PIIMasking.Fields
		half := (len(fields) + 1) / 2
		allowed := make(map[string]struct{}, half)
		for _, fld := range fields[:half] {
			allowed[fld] = struct{}{}
		}
		out := make([]string, 0, half)
		for _, c := range piiColumns {
			if _, ok := allowed[c]; ok {
				out = append(out, c)
			}
		}
		return out
	default:
		// Hash strategy: no direct column access.
		return nil
	}
}

func isRestricted(column string, restricted []string) bool {
	for _, c := range restricted {
		if c == column {
			return true
		}
	}
	return false
}

// ApplyColumnFilter removes every excluded column from each row by key
// deletion. Absent, not null: consumers must not see the key at all.
func ApplyColumnFilter(rows []map[string]any, f Filter) []map[string]any {
	if len(f.ExcludedColumns) == 0 {
		return rows
	}
	for _, row := range rows {
		for _, col := range f.ExcludedColumns {
			delete(row, col)
		}
	}
	return rows
}
