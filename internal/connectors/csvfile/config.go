package csvfile

import (
	"encoding/json"
	"errors"
	"strings"
)

// Config holds the connection parameters for a delimited-file source.
// Delimiter is normally auto-detected from the first line; setting it here
// skips detection.
type Config struct {
	Path      string `json:"path"`
	Delimiter string `json:"delimiter,omitempty"`
}

// Normalized returns a copy of the config with trimmed whitespace.
func (c Config) Normalized() Config {
	out := c
	out.Path = strings.TrimSpace(out.Path)
	return out
}

// Validate returns an error if the config is invalid.
func (c Config) Validate() error {
	c = c.Normalized()
	if c.Path == "" {
		return errors.New("file path is required")
	}
	if len(c.Delimiter) > 1 {
		return errors.New("delimiter must be a single character")
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
