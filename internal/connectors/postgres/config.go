package postgres

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Config holds the connection parameters for a PostgreSQL source. Table is
// the queryable unit discovery and profiling operate on.
type Config struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Database string `json:"database"`
	User     string `json:"user"`
	Password string `json:"password"`
	SSLMode  string `json:"ssl_mode"`
	Schema   string `json:"schema"`
	Table    string `json:"table"`
}

// Normalized returns a copy of the config with trimmed whitespace and
// defaults applied.
func (c Config) Normalized() Config {
	out := c
	out.Host = strings.TrimSpace(out.Host)
	out.Database = strings.TrimSpace(out.Database)
	out.User = strings.TrimSpace(out.User)
	out.SSLMode = strings.TrimSpace(out.SSLMode)
	out.Schema = strings.TrimSpace(out.Schema)
	out.Table = strings.TrimSpace(out.Table)
	if out.Port == 0 {
		out.Port = 5432
	}
	if out.Schema == "" {
		out.Schema = "public"
	}
	if out.SSLMode == "" {
		out.SSLMode = "prefer"
	}
	return out
}

// Validate returns an error if the config is invalid.
func (c Config) Validate() error {
	c = c.Normalized()
	if c.Host == "" {
		return errors.New("postgres host is required")
	}
	if c.Database == "" {
		return errors.New("postgres database is required")
	}
	if c.Table == "" {
		return errors.New("postgres table is required")
	}
	return nil
}

// DSN renders the config as a connection string.
func (c Config) DSN() string {
	c = c.Normalized()
	u := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   "/" + c.Database,
	}
	if c.User != "" {
		u.User = url.UserPassword(c.User, c.Password)
	}
	q := u.Query()
	q.Set("sslmode", c.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// DecodeConfig parses raw connection parameters.
func DecodeConfig(raw []byte) (Config, error) {
	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return Config{}, err
	}
	return cfg.Normalized(), nil
}
