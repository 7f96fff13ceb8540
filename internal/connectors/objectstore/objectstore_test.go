package objectstore

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/format"

	"github.com/open-dcat/open-dcat/internal/catalog"
)

func TestMapParquetKind(t *testing.T) {
	type row struct {
		Name  string
		Count int64
		Score float64
		Flags bool
	}
	want := map[string]catalog.ColumnType{
		"Name":  catalog.TypeString,
		"Count": catalog.TypeInteger,
		"Score": catalog.TypeFloat,
		"Flags": catalog.TypeBoolean,
	}
	for _, field := range parquet.SchemaOf(row{}).Fields() {
		if got := mapParquetKind(field); got != want[field.Name()] {
			t.Fatalf("mapParquetKind(%s) = %s, want %s", field.Name(), got, want[field.Name()])
		}
	}
}

func TestFillFromChunkStats_MultipleRowGroups(t *testing.T) {
	enc := func(v int64) []byte {
		b := make([]byte, 8)
		binary.LittleEndian.PutUint64(b, uint64(v))
		return b
	}
	chunk := func(stats format.Statistics) format.ColumnChunk {
		return format.ColumnChunk{MetaData: format.ColumnMetaData{Statistics: stats}}
	}
	meta := &format.FileMetaData{
		RowGroups: []format.RowGroup{
			// First group carries only a min bound.
			{Columns: []format.ColumnChunk{chunk(format.Statistics{
				NullCount:     2,
				DistinctCount: 10,
				MinValue:      enc(5),
			})}},
			{Columns: []format.ColumnChunk{chunk(format.Statistics{
				NullCount:     1,
				DistinctCount: 7,
				MinValue:      enc(8),
				MaxValue:      enc(20),
			})}},
		},
	}

	var profile catalog.ColumnProfile
	fillFromChunkStats(&profile, meta, 0, parquet.Int64)

	if profile.NullCount != 3 {
		t.Fatalf("NullCount = %d, want 3", profile.NullCount)
	}
	if profile.UniqueCount != 10 {
		t.Fatalf("UniqueCount = %d, want 10 (largest chunk count, not the sum)", profile.UniqueCount)
	}
	if profile.MinValue == nil || *profile.MinValue != 5 {
		t.Fatalf("MinValue = %v, want 5 from the first row group", profile.MinValue)
	}
	if profile.MaxValue == nil || *profile.MaxValue != 20 {
		t.Fatalf("MaxValue = %v, want 20", profile.MaxValue)
	}
}

func TestDecodeStatValue(t *testing.T) {
	i32 := make([]byte, 4)
	neg := int32(-7)
	binary.LittleEndian.PutUint32(i32, uint32(neg))
	i64 := make([]byte, 8)
	binary.LittleEndian.PutUint64(i64, uint64(int64(9000)))
	f64 := make([]byte, 8)
	binary.LittleEndian.PutUint64(f64, math.Float64bits(3.5))

	cases := []struct {
		name   string
		raw    []byte
		kind   parquet.Kind
		want   float64
		wantOK bool
	}{
		{"int32 negative", i32, parquet.Int32, -7, true},
		{"int64", i64, parquet.Int64, 9000, true},
		{"double", f64, parquet.Double, 3.5, true},
		{"byte array has no numeric bounds", []byte("abc"), parquet.ByteArray, 0, false},
		{"truncated int64", i32, parquet.Int64, 0, false},
		{"empty", nil, parquet.Int32, 0, false},
	}
	for _, tc := range cases {
		got, ok := decodeStatValue(tc.raw, tc.kind)
		if ok != tc.wantOK || got != tc.want {
			t.Fatalf("%s: decodeStatValue() = (%v, %v), want (%v, %v)", tc.name, got, ok, tc.want, tc.wantOK)
		}
	}
}
