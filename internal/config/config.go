package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultMetricsAddr       = ":9090"
	defaultProfileSampleSize = 1000
	defaultProfileWorkers    = 4
	defaultSampleLimit       = 10
	defaultSLAHours          = 24.0
	defaultCacheTTL          = 5 * time.Minute
	defaultExportDir         = "exports"
	defaultExportMaxAge      = 30 * 24 * time.Hour
)

type Config struct {
	DatabaseURL  string
	RedisURL     string
	MetricsAddr  string
	MetricsOn    bool
	AuditToDB    bool
	DevPlainKeys bool

	ProfileSampleSize int
	ProfileWorkers    int
	SampleLimit       int

	PIIThreshold     float64
	DefaultSLAHours  float64
	DefaultRowPolicy string

	CacheTTL     time.Duration
	ExportDir    string
	ExportMaxAge time.Duration

	VaultAddr      string
	VaultToken     string
	VaultNamespace string
	VaultMount     string
	VaultKeyName   string
}

type LoadOptions struct {
	RequireDatabaseURL bool
}

func Load() (Config, error) {
	return LoadWithOptions(LoadOptions{RequireDatabaseURL: true})
}

func LoadOptionalDB() (Config, error) {
	return LoadWithOptions(LoadOptions{RequireDatabaseURL: false})
}

func LoadWithOptions(opts LoadOptions) (Config, error) {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return Config{}, err
		}
	}

	cfg := Config{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		RedisURL:     os.Getenv("REDIS_URL"),
		MetricsAddr:  getenvDefault("METRICS_ADDR", defaultMetricsAddr),
		MetricsOn:    getenvBoolDefault("METRICS_ENABLED", true),
		AuditToDB:    getenvBoolDefault("AUDIT_TO_DB", true),
		DevPlainKeys: getenvBoolDefault("DEV_PLAIN_KEYS", false),

		ProfileSampleSize: getenvIntDefault("PROFILE_SAMPLE_SIZE", defaultProfileSampleSize),
		ProfileWorkers:    getenvIntDefault("PROFILE_WORKERS", defaultProfileWorkers),
		SampleLimit:       getenvIntDefault("SAMPLE_LIMIT", defaultSampleLimit),

		PIIThreshold:     getenvFloatDefault("PII_CONFIDENCE_THRESHOLD", 0),
		DefaultSLAHours:  getenvFloatDefault("FRESHNESS_SLA_HOURS", defaultSLAHours),
		DefaultRowPolicy: strings.ToLower(strings.TrimSpace(getenvDefault("ROW_POLICY_DEFAULT", "deny_all"))),

		CacheTTL:     defaultCacheTTL,
		ExportDir:    getenvDefault("EXPORT_DIR", defaultExportDir),
		ExportMaxAge: defaultExportMaxAge,

		VaultAddr:      os.Getenv("VAULT_ADDR"),
		VaultToken:     os.Getenv("VAULT_TOKEN"),
		VaultNamespace: os.Getenv("VAULT_NAMESPACE"),
		VaultMount:     getenvDefault("VAULT_TRANSIT_MOUNT", "transit"),
		VaultKeyName:   getenvDefault("VAULT_TRANSIT_KEY", "datasource-config"),
	}

	if v := os.Getenv("CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.CacheTTL = d
		}
	}
	if v := os.Getenv("EXPORT_MAX_AGE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.ExportMaxAge = d
		}
	}

	if opts.RequireDatabaseURL && cfg.DatabaseURL == "" {
		return cfg, errors.New("DATABASE_URL is required")
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvIntDefault(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return def
	}
	return n
}

func getenvFloatDefault(key string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return n
}

func getenvBoolDefault(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	switch v {
	case "1":
		return true
	case "0":
		return false
	default:
		return def
	}
}
