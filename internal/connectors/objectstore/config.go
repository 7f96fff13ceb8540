package objectstore

import (
	"encoding/json"
	"errors"
	"strings"
)

// Config holds the connection parameters for an S3-compatible object store.
// Object names the columnar (Parquet) file that is the queryable unit.
type Config struct {
	Endpoint        string `json:"endpoint"`
	Bucket          string `json:"bucket"`
	AccessKeyID     string `json:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key"`
	Region          string `json:"region,omitempty"`
	UseSSL          bool   `json:"use_ssl"`
	Object          string `json:"object"`
}

// Normalized returns a copy of the config with trimmed whitespace.
func (c Config) Normalized() Config {
	out := c
	out.Endpoint = strings.TrimSpace(out.Endpoint)
	out.Bucket = strings.TrimSpace(out.Bucket)
	out.AccessKeyID = strings.TrimSpace(out.AccessKeyID)
	out.SecretAccessKey = strings.TrimSpace(out.SecretAccessKey)
	out.Region = strings.TrimSpace(out.Region)
	out.Object = strings.TrimSpace(strings.TrimPrefix(out.Object, "/"))
	return out
}

// Validate checks connection parameters synchronously, before any request is
// issued.
func (c Config) Validate() error {
	c = c.Normalized()
	if c.Endpoint == "" {
		return errors.New("object store endpoint is required")
	}
	if c.Bucket == "" {
		return errors.New("object store bucket is required")
	}
	if c.AccessKeyID == "" || c.SecretAccessKey == "" {
		return errors.New("object store credentials are required")
	}
	if c.Object == "" {
		return errors.New("object key is required")
	}
	return nil
}

// DecodeConfig parses raw connection parameters.
func DecodeConfig(raw []byte) (Config, error) {
	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return Config{}, err
	}
	return cfg.Normalized(), nil
}
