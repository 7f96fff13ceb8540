package compliance

import (
	"reflect"
	"testing"

	"github.com/open-dcat/open-dcat/internal/catalog"
)

func TestResolve_KnownFrameworks(t *testing.T) {
	for _, name := range Frameworks() {
		p, err := Resolve(name)
		if err != nil {
			t.Fatalf("Resolve(%q) error = %v", name, err)
		}
		if p.Name != name {
			t.Fatalf("Resolve(%q).Name = %s", name, p.Name)
		}
	}
}

func TestResolve_UnknownFramework(t *testing.T) {
	_, err := Resolve("pci")
	if err == nil {
		t.Fatalf("Resolve(pci) error = nil, want not found")
	}
	if !catalog.IsKind(err, catalog.ErrorNotFound) {
		t.Fatalf("error kind = %s, want %s", catalog.KindOf(err), catalog.ErrorNotFound)
	}
}

func TestRedact_NestedAndIdempotent(t *testing.T) {
	preset, _ := Resolve(FrameworkHIPAA)
	data := map[string]any{
		"id":    "42",
		"email": "alice@example.com",
		"contact": map[string]any{
			"phone_number": "555-0100",
			"city":         "Springfield",
		},
		"visits": []any{
			map[string]any{"ssn": "123-45-6789", "ward": "B"},
		},
	}

	once := Redact(data, preset, false)
	twice := Redact(once, preset, false)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("Redact is not idempotent:\n%v\n%v", once, twice)
	}

	m := once.(map[string]any)
	if m["email"] != RedactionMarker {
		t.Fatalf("email = %v, want marker", m["email"])
	}
	if m["id"] != "42" {
		t.Fatalf("id = %v, want untouched", m["id"])
	}
	contact := m["contact"].(map[string]any)
	if contact["phone_number"] != RedactionMarker {
		t.Fatalf("phone_number = %v, want marker", contact["phone_number"])
	}
	if contact["city"] != "Springfield" {
		t.Fatalf("city = %v, want untouched", contact["city"])
	}
	visit := m["visits"].([]any)[0].(map[string]any)
	if visit["ssn"] != RedactionMarker || visit["ward"] != "B" {
		t.Fatalf("visit = %v, want ssn masked and ward untouched", visit)
	}
}

func TestRedact_EntitledCallerSeesRawData(t *testing.T) {
	preset, _ := Resolve(FrameworkGDPR)
	data := map[string]any{"email": "a@b.cc"}

	out := Redact(data, preset, true)
	if !reflect.DeepEqual(out, data) {
		t.Fatalf("Redact with entitlement = %v, want unchanged", out)
	}
}

func TestEnforceMinimumAggregate_SuppressesSmallGroups(t *testing.T) {
	small := []any{1, 2, 3}
	out := EnforceMinimumAggregate(small, 5)
	agg, ok := out.(AggregatedResult)
	if !ok {
		t.Fatalf("EnforceMinimumAggregate = %T, want AggregatedResult", out)
	}
	if !agg.Aggregated || agg.Count != 3 || agg.Message == "" {
		t.Fatalf("AggregatedResult = %+v", agg)
	}

	large := []any{1, 2, 3, 4, 5, 6}
	if out := EnforceMinimumAggregate(large, 5); !reflect.DeepEqual(out, large) {
		t.Fatalf("EnforceMinimumAggregate(large) = %v, want unchanged", out)
	}
}

func TestEnforceMinimumAggregate_CountBearingMap(t *testing.T) {
	out := EnforceMinimumAggregate(map[string]any{"count": 2, "group": "rare"}, 5)
	agg, ok := out.(AggregatedResult)
	if !ok || agg.Count != 2 {
		t.Fatalf("EnforceMinimumAggregate = %v", out)
	}

	ok5 := map[string]any{"count": 9, "group": "common"}
	if out := EnforceMinimumAggregate(ok5, 5); !reflect.DeepEqual(out, ok5) {
		t.Fatalf("EnforceMinimumAggregate = %v, want unchanged", out)
	}
}

func TestCheckExport_MaxRecordsIsRejectionNotTruncation(t *testing.T) {
	preset, _ := Resolve(FrameworkHIPAA)

	err := CheckExport(preset, 20000, true)
	if !catalog.IsKind(err, catalog.ErrorLimitExceeded) {
		t.Fatalf("CheckExport(20000) kind = %s, want %s", catalog.KindOf(err), catalog.ErrorLimitExceeded)
	}

	if err := CheckExport(preset, 500, true); err != nil {
		t.Fatalf("CheckExport(500, approved) error = %v", err)
	}
}

func TestCheckExport_ApprovalRequired(t *testing.T) {
	preset, _ := Resolve(FrameworkHIPAA)
	err := CheckExport(preset, 10, false)
	if !catalog.IsKind(err, catalog.ErrorLimitExceeded) {
		t.Fatalf("CheckExport(unapproved) kind = %s, want %s", catalog.KindOf(err), catalog.ErrorLimitExceeded)
	}

	gdpr, _ := Resolve(FrameworkGDPR)
	if err := CheckExport(gdpr, 10, false); err != nil {
		t.Fatalf("CheckExport(gdpr, unapproved) error = %v", err)
	}
}
