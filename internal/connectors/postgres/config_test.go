package postgres

import (
	"testing"

	"github.com/open-dcat/open-dcat/internal/catalog"
)

func TestConfig_NormalizedDefaults(t *testing.T) {
	cfg := Config{Host: " db.internal ", Database: "analytics", Table: "visits"}.Normalized()
	if cfg.Host != "db.internal" {
		t.Fatalf("Host = %q", cfg.Host)
	}
	if cfg.Port != 5432 {
		t.Fatalf("Port = %d, want 5432", cfg.Port)
	}
	if cfg.Schema != "public" {
		t.Fatalf("Schema = %q, want public", cfg.Schema)
	}
	if cfg.SSLMode != "prefer" {
		t.Fatalf("SSLMode = %q, want prefer", cfg.SSLMode)
	}
}

func TestConfig_Validate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Host: "h", Database: "d", Table: "t"}, false},
		{"missing host", Config{Database: "d", Table: "t"}, true},
		{"missing database", Config{Host: "h", Table: "t"}, true},
		{"missing table", Config{Host: "h", Database: "d"}, true},
	}
	for _, tc := range cases {
		err := tc.cfg.Validate()
		if (err != nil) != tc.wantErr {
			t.Fatalf("%s: Validate() error = %v, wantErr %v", tc.name, err, tc.wantErr)
		}
	}
}

func TestConfig_DSN(t *testing.T) {
	cfg := Config{Host: "db", Port: 5433, Database: "analytics", User: "svc", Password: "p@ss", SSLMode: "require", Table: "t"}
	dsn := cfg.DSN()
	want := "postgres://svc:p%40ss@db:5433/analytics?sslmode=require"
	if dsn != want {
		t.Fatalf("DSN = %q, want %q", dsn, want)
	}
}

func TestDecodeConfig_RejectsGarbage(t *testing.T) {
	if _, err := DecodeConfig([]byte("{not json")); err == nil {
		t.Fatalf("DecodeConfig() error = nil, want parse failure")
	}
}

func TestMapDataType(t *testing.T) {
	cases := map[string]catalog.ColumnType{
		"integer":                     catalog.TypeInteger,
		"bigint":                      catalog.TypeInteger,
		"numeric":                     catalog.TypeFloat,
		"boolean":                     catalog.TypeBoolean,
		"date":                        catalog.TypeDate,
		"timestamp without time zone": catalog.TypeTimestamp,
		"text":                        catalog.TypeString,
		"bytea":                       catalog.TypeUnknown,
	}
	for input, want := range cases {
		if got := mapDataType(input); got != want {
			t.Fatalf("mapDataType(%q) = %s, want %s", input, got, want)
		}
	}
}
