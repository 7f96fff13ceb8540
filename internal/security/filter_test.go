package security

import (
	"reflect"
	"testing"

	"github.com/open-dcat/open-dcat/internal/compliance"
)

func testContext(t *testing.T, framework string, user User, piiEntitled bool) Context {
	t.Helper()
	ctx, err := NewContext(user, framework, piiEntitled)
	if err != nil {
		t.Fatalf("NewContext() error = %v", err)
	}
	return ctx
}

func defaultOptions() Options {
	return Options{
		FacilityColumn:    "facility_id",
		DefaultRowPolicy:  RowPolicyDenyAll,
		PIIColumns:        []string{"email", "phone", "ssn", "address"},
		RestrictedColumns: []string{"salary"},
	}
}

func TestBuildFilter_AdminHasNoRowRestriction(t *testing.T) {
	// Facility scope must not matter for administrators.
	ctx := testContext(t, compliance.FrameworkSOC2, User{ID: "u1", Role: "admin", FacilityScope: "fac-9"}, false)

	f := BuildFilter(ctx, defaultOptions())
	if f.RowPredicate != "" || f.DenyAll {
		t.Fatalf("admin filter = %+v, want unrestricted rows", f)
	}
}

func TestBuildFilter_FacilityScopePredicate(t *testing.T) {
	ctx := testContext(t, compliance.FrameworkSOC2, User{ID: "u1", Role: "analyst", FacilityScope: "fac-7"}, false)

	f := BuildFilter(ctx, defaultOptions())
	if f.RowPredicate != "facility_id = $1" {
		t.Fatalf("RowPredicate = %q", f.RowPredicate)
	}
	if len(f.RowArgs) != 1 || f.RowArgs[0] != "fac-7" {
		t.Fatalf("RowArgs = %v", f.RowArgs)
	}
}

func TestBuildFilter_NoScopeFollowsExplicitDefaultPolicy(t *testing.T) {
	ctx := testContext(t, compliance.FrameworkSOC2, User{ID: "u1", Role: "viewer"}, false)

	opts := defaultOptions()
	opts.DefaultRowPolicy = RowPolicyDenyAll
	if f := BuildFilter(ctx, opts); !f.DenyAll {
		t.Fatalf("DenyAll = false, want true under deny_all policy")
	}

	opts.DefaultRowPolicy = RowPolicyAllowAll
	if f := BuildFilter(ctx, opts); f.DenyAll || f.RowPredicate != "" {
		t.Fatalf("filter = %+v, want unrestricted under allow_all policy", f)
	}
}

func TestBuildFilter_NotEntitledExcludesEverything(t *testing.T) {
	ctx := testContext(t, compliance.FrameworkHIPAA, User{ID: "u1", Role: "analyst"}, false)

	f := BuildFilter(ctx, defaultOptions())
	for _, col := range append(defaultOptions().PIIColumns, defaultOptions().RestrictedColumns...) {
		if !f.Excludes(col) {
			t.Fatalf("column %q not excluded for unentitled context", col)
		}
	}
}

func TestBuildFilter_FullStrategyReleasesAllPII(t *testing.T) {
	ctx := testContext(t, compliance.FrameworkHIPAA, User{ID: "u1", Role: "analyst"}, true)

	f := BuildFilter(ctx, defaultOptions())
	for _, col := range defaultOptions().PIIColumns {
		if f.Excludes(col) {
			t.Fatalf("column %q still excluded under full strategy", col)
		}
	}
	if !f.Excludes("salary") {
		t.Fatalf("restricted column released by PII entitlement")
	}
}

func TestBuildFilter_PartialStrategyReleasesFirstHalfOfPresetFields(t *testing.T) {
	// GDPR preset fields: email, phone, address, full_name, date_of_birth,
	// passport. First half rounded up = email, phone, address.
	ctx := testContext(t, compliance.FrameworkGDPR, User{ID: "u1", Role: "analyst"}, true)

	f := BuildFilter(ctx, defaultOptions())
	for _, col := range []string{"email", "phone", "address"} {
		if f.Excludes(col) {
			t.Fatalf("column %q should be released under partial strategy", col)
		}
	}
	if !f.Excludes("ssn") {
		t.Fatalf("ssn released under partial strategy, want excluded")
	}
}

func TestBuildFilter_HashStrategyReleasesNothing(t *testing.T) {
	ctx := testContext(t, compliance.FrameworkSOC2, User{ID: "u1", Role: "analyst"}, true)

	f := BuildFilter(ctx, defaultOptions())
	for _, col := range defaultOptions().PIIColumns {
		if !f.Excludes(col) {
			t.Fatalf("column %q released under hash strategy, want excluded", col)
		}
	}
}

func TestApplyColumnFilter_DeletesKeys(t *testing.T) {
	f := Filter{ExcludedColumns: []string{"ssn"}}
	rows := []map[string]any{
		{"id": 1, "ssn": "123-45-6789"},
		{"id": 2, "ssn": "987-65-4321"},
	}

	out := ApplyColumnFilter(rows, f)
	for _, row := range out {
		if _, present := row["ssn"]; present {
			t.Fatalf("ssn key still present: %v", row)
		}
		if _, present := row["id"]; !present {
			t.Fatalf("id key dropped: %v", row)
		}
	}
}

func TestInjectPredicate_ConjoinsExistingWhere(t *testing.T) {
	got := InjectPredicate("SELECT * FROM visits WHERE status = 'open'", "facility_id = $1")
	want := "SELECT * FROM visits WHERE status = 'open' AND (facility_id = $1)"
	if got != want {
		t.Fatalf("InjectPredicate = %q, want %q", got, want)
	}
}

func TestInjectPredicate_InsertsBeforeTrailingClauses(t *testing.T) {
	got := InjectPredicate("SELECT ward, count(*) FROM visits GROUP BY ward ORDER BY ward LIMIT 10", "facility_id = $1")
	want := "SELECT ward, count(*) FROM visits WHERE facility_id = $1 GROUP BY ward ORDER BY ward LIMIT 10"
	if got != want {
		t.Fatalf("InjectPredicate = %q, want %q", got, want)
	}
}

func TestInjectPredicate_WhereAndOrderBy(t *testing.T) {
	got := InjectPredicate("SELECT * FROM visits WHERE status = 'open' ORDER BY id", "facility_id = $1")
	want := "SELECT * FROM visits WHERE status = 'open' AND (facility_id = $1) ORDER BY id"
	if got != want {
		t.Fatalf("InjectPredicate = %q, want %q", got, want)
	}
}

func TestInjectPredicate_IgnoresKeywordsInsideIdentifiers(t *testing.T) {
	got := InjectPredicate("SELECT rate_limit FROM plans", "facility_id = $1")
	want := "SELECT rate_limit FROM plans WHERE facility_id = $1"
	if got != want {
		t.Fatalf("InjectPredicate = %q, want %q", got, want)
	}

	got = InjectPredicate("SELECT byoffset, grouping FROM plans ORDER BY byoffset", "facility_id = $1")
	want = "SELECT byoffset, grouping FROM plans WHERE facility_id = $1 ORDER BY byoffset"
	if got != want {
		t.Fatalf("InjectPredicate = %q, want %q", got, want)
	}
}

func TestInjectPredicate_EmptyPredicateIsNoop(t *testing.T) {
	q := "SELECT * FROM visits"
	if got := InjectPredicate(q, "  "); got != q {
		t.Fatalf("InjectPredicate = %q, want unchanged", got)
	}
}

func TestFilter_ExcludedColumnsDeterministic(t *testing.T) {
	ctx := testContext(t, compliance.FrameworkHIPAA, User{ID: "u1", Role: "analyst"}, false)

	first := BuildFilter(ctx, defaultOptions())
	second := BuildFilter(ctx, defaultOptions())
	if !reflect.DeepEqual(first.ExcludedColumns, second.ExcludedColumns) {
		t.Fatalf("ExcludedColumns not deterministic: %v vs %v", first.ExcludedColumns, second.ExcludedColumns)
	}
}
