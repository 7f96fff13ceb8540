package objectstore

import "testing"

func TestConfig_Validate(t *testing.T) {
	valid := Config{
		Endpoint:        "minio.internal:9000",
		Bucket:          "lake",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		Object:          "events/2026/08/visits.parquet",
	}

	cases := []struct {
		name    string
		mutate  func(c Config) Config
		wantErr bool
	}{
		{"valid", func(c Config) Config { return c }, false},
		{"missing endpoint", func(c Config) Config { c.Endpoint = ""; return c }, true},
		{"missing bucket", func(c Config) Config { c.Bucket = ""; return c }, true},
		{"missing access key", func(c Config) Config { c.AccessKeyID = ""; return c }, true},
		{"missing secret key", func(c Config) Config { c.SecretAccessKey = ""; return c }, true},
		{"missing object", func(c Config) Config { c.Object = ""; return c }, true},
		{"whitespace only object", func(c Config) Config { c.Object = "   "; return c }, true},
	}
	for _, tc := range cases {
		err := tc.mutate(valid).Validate()
		if (err != nil) != tc.wantErr {
			t.Fatalf("%s: Validate() error = %v, wantErr %v", tc.name, err, tc.wantErr)
		}
	}
}

func TestConfig_NormalizedStripsLeadingSlash(t *testing.T) {
	cfg := Config{Object: " /events/visits.parquet "}.Normalized()
	if cfg.Object != "events/visits.parquet" {
		t.Fatalf("Object = %q", cfg.Object)
	}
}

func TestDecodeConfig_RejectsGarbage(t *testing.T) {
	if _, err := DecodeConfig([]byte("{not json")); err == nil {
		t.Fatalf("DecodeConfig() error = nil, want parse failure")
	}
}
