package profiler

import (
	"context"
	"reflect"
	"testing"

	"github.com/open-dcat/open-dcat/internal/catalog"
)

func rowsFromValues(name string, values []any) []map[string]any {
	rows := make([]map[string]any, 0, len(values))
	for _, v := range values {
		rows = append(rows, map[string]any{name: v})
	}
	return rows
}

func TestProfileColumn_NullAccounting(t *testing.T) {
	rows := rowsFromValues("c", []any{"a", nil, "", "b", "a"})
	p := ProfileColumn(rows, catalog.ColumnMetadata{Name: "c", Type: catalog.TypeString})

	if p.NullCount != 2 {
		t.Fatalf("NullCount = %d, want 2", p.NullCount)
	}
	if p.UniqueCount != 2 {
		t.Fatalf("UniqueCount = %d, want 2", p.UniqueCount)
	}
	if p.UniqueCount > int64(len(rows))-p.NullCount {
		t.Fatalf("UniqueCount %d exceeds sample size minus nulls %d", p.UniqueCount, int64(len(rows))-p.NullCount)
	}
}

func TestProfileColumn_SampleValuesInSampleOrder(t *testing.T) {
	rows := rowsFromValues("c", []any{"e", nil, "d", "c", "b", "a", "z"})
	p := ProfileColumn(rows, catalog.ColumnMetadata{Name: "c", Type: catalog.TypeString})

	want := []string{"e", "d", "c", "b", "a"}
	if !reflect.DeepEqual(p.SampleValues, want) {
		t.Fatalf("SampleValues = %v, want %v", p.SampleValues, want)
	}
}

func TestProfileColumn_MinMaxOnlyWhenNumeric(t *testing.T) {
	rows := rowsFromValues("c", []any{"10", "3", "x", "7.5"})
	p := ProfileColumn(rows, catalog.ColumnMetadata{Name: "c", Type: catalog.TypeString})

	if p.MinValue == nil || p.MaxValue == nil {
		t.Fatalf("MinValue/MaxValue = %v/%v, want present", p.MinValue, p.MaxValue)
	}
	if *p.MinValue != 3 || *p.MaxValue != 10 {
		t.Fatalf("min/max = %v/%v, want 3/10", *p.MinValue, *p.MaxValue)
	}

	rows = rowsFromValues("c", []any{"x", "y"})
	p = ProfileColumn(rows, catalog.ColumnMetadata{Name: "c", Type: catalog.TypeString})
	if p.MinValue != nil || p.MaxValue != nil {
		t.Fatalf("MinValue/MaxValue present for non-numeric column, want absent")
	}
}

func TestProfileColumn_MostCommonTieGoesToFirstEncountered(t *testing.T) {
	rows := rowsFromValues("c", []any{"b", "a", "a", "b"})
	p := ProfileColumn(rows, catalog.ColumnMetadata{Name: "c", Type: catalog.TypeString})

	if p.MostCommonValue == nil || *p.MostCommonValue != "b" {
		t.Fatalf("MostCommonValue = %v, want b", p.MostCommonValue)
	}
}

func TestProfileColumn_EmptyColumn(t *testing.T) {
	rows := rowsFromValues("c", []any{nil, ""})
	p := ProfileColumn(rows, catalog.ColumnMetadata{Name: "c", Type: catalog.TypeString})

	if p.MostCommonValue != nil {
		t.Fatalf("MostCommonValue = %v, want nil", p.MostCommonValue)
	}
	if p.NullCount != 2 || p.UniqueCount != 0 {
		t.Fatalf("NullCount/UniqueCount = %d/%d, want 2/0", p.NullCount, p.UniqueCount)
	}
}

func TestProfileColumns_PreservesColumnOrder(t *testing.T) {
	columns := []catalog.ColumnMetadata{
		{Name: "a", Type: catalog.TypeString},
		{Name: "b", Type: catalog.TypeInteger},
		{Name: "c", Type: catalog.TypeString},
		{Name: "d", Type: catalog.TypeFloat},
	}
	rows := []map[string]any{
		{"a": "x", "b": "1", "c": "y", "d": "2.5"},
		{"a": "z", "b": "2", "c": nil, "d": "3.5"},
	}

	profiles, err := ProfileColumns(context.Background(), rows, columns, 2)
	if err != nil {
		t.Fatalf("ProfileColumns() error = %v", err)
	}
	if len(profiles) != len(columns) {
		t.Fatalf("len(profiles) = %d, want %d", len(profiles), len(columns))
	}
	for i, col := range columns {
		if profiles[i].Name != col.Name {
			t.Fatalf("profiles[%d].Name = %s, want %s", i, profiles[i].Name, col.Name)
		}
	}
}

func TestProfileColumns_Idempotent(t *testing.T) {
	columns := []catalog.ColumnMetadata{{Name: "a", Type: catalog.TypeString}}
	rows := rowsFromValues("a", []any{"x", "y", "x", nil})

	first, err := ProfileColumns(context.Background(), rows, columns, 1)
	if err != nil {
		t.Fatalf("ProfileColumns() error = %v", err)
	}
	second, err := ProfileColumns(context.Background(), rows, columns, 1)
	if err != nil {
		t.Fatalf("ProfileColumns() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("profiles differ across identical runs:\n%v\n%v", first, second)
	}
}
