// Package csvfile implements the delimited-file connector variant. The file
// is parsed once per connector instance and the parsed rows are cached, so
// repeated discovery, sampling, and profiling calls do not re-read it.
package csvfile

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/open-dcat/open-dcat/internal/catalog"
	"github.com/open-dcat/open-dcat/internal/connectors"
	"github.com/open-dcat/open-dcat/internal/inference"
	"github.com/open-dcat/open-dcat/internal/profiler"
)

// delimiterCandidates is an ordered rule list: the first candidate found in
// the first line wins, and comma is the fallback.
var delimiterCandidates = []rune{',', ';', '\t', '|'}

// Connector reads one delimited file. Not safe for concurrent use; construct
// one instance per caller or serialize calls.
type Connector struct {
	cfg Config

	loaded  bool
	header  []string
	records [][]string
	closed  bool

	profileWorkers int
}

// New constructs a connector for the given config.
func New(cfg Config, profileWorkers int) *Connector {
	if profileWorkers < 1 {
		profileWorkers = 4
	}
	return &Connector{cfg: cfg.Normalized(), profileWorkers: profileWorkers}
}

// Test opens the file and reads its first line, releasing the handle before
// returning. It never fails with an error.
func (c *Connector) Test(_ context.Context) connectors.TestResult {
	f, err := os.Open(c.cfg.Path)
	if err != nil {
		return connectors.TestResult{
			Success: false,
			Message: fmt.Sprintf("cannot open %s", filepath.Base(c.cfg.Path)),
			Error:   err.Error(),
		}
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		msg := "file is empty"
		if err := scanner.Err(); err != nil {
			msg = err.Error()
		}
		return connectors.TestResult{Success: false, Message: "cannot read header line", Error: msg}
	}
	return connectors.TestResult{
		Success: true,
		Message: fmt.Sprintf("read header from %s", filepath.Base(c.cfg.Path)),
	}
}

// DiscoverSchema parses the file (once) and infers column types from the
// cached rows, since delimited files carry no native typing.
func (c *Connector) DiscoverSchema(ctx context.Context) (*catalog.SchemaMetadata, error) {
	if err := c.load(ctx); err != nil {
		return nil, err
	}

	columns := make([]catalog.ColumnMetadata, 0, len(c.header))
	for i, name := range c.header {
		values := c.columnValues(i, len(c.records))
		nullable := false
		for _, v := range values {
			if strings.TrimSpace(v) == "" {
				nullable = true
				break
			}
		}
		columns = append(columns, catalog.ColumnMetadata{
			Name:     name,
			Type:     inference.Classify(values),
			Nullable: nullable,
		})
	}

	return &catalog.SchemaMetadata{
		Name:         c.cfg.Path,
		Columns:      columns,
		RowCount:     int64(len(c.records)),
		DiscoveredAt: time.Now().UTC(),
	}, nil
}

// Sample returns up to limit rows. The total count is known exactly because
// the whole file is cached.
func (c *Connector) Sample(ctx context.Context, limit int) (*catalog.SampleResult, error) {
	if err := c.load(ctx); err != nil {
		return nil, err
	}
	if limit < 0 {
		limit = 0
	}
	if limit > len(c.records) {
		limit = len(c.records)
	}

	rows := make([]map[string]any, 0, limit)
	for _, rec := range c.records[:limit] {
		rows = append(rows, c.rowMap(rec))
	}
	return &catalog.SampleResult{
		Rows:       rows,
		Count:      len(rows),
		TotalCount: int64(len(c.records)),
	}, nil
}

// Profile computes column statistics locally over at most sampleSize cached
// rows.
func (c *Connector) Profile(ctx context.Context, sampleSize int) ([]catalog.ColumnProfile, error) {
	schema, err := c.DiscoverSchema(ctx)
	if err != nil {
		return nil, err
	}
	if sampleSize <= 0 || sampleSize > len(c.records) {
		sampleSize = len(c.records)
	}

	rows := make([]map[string]any, 0, sampleSize)
	for _, rec := range c.records[:sampleSize] {
		rows = append(rows, c.rowMap(rec))
	}
	return profiler.ProfileColumns(ctx, rows, schema.Columns, c.profileWorkers)
}

// Close drops the cached rows. Idempotent; the file handle itself is only
// held during load.
func (c *Connector) Close() error {
	c.closed = true
	c.loaded = false
	c.header = nil
	c.records = nil
	return nil
}

func (c *Connector) load(ctx context.Context) error {
	if c.loaded {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.Open(c.cfg.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return catalog.NewError(catalog.ErrorNotFound, "csvfile.load", err)
		}
		return catalog.NewError(catalog.ErrorConnection, "csvfile.load", err)
	}
	defer f.Close()

	delimiter, err := c.detectDelimiter(f)
	if err != nil {
		return err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return catalog.NewError(catalog.ErrorConnection, "csvfile.load", err)
	}

	reader := csv.NewReader(f)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1

	all, err := reader.ReadAll()
	if err != nil {
		return catalog.NewError(catalog.ErrorParse, "csvfile.load", err)
	}
	if len(all) == 0 {
		return catalog.Errorf(catalog.ErrorNotFound, "csvfile.load", "%s has no header row", c.cfg.Path)
	}

	c.header = all[0]
	c.records = all[1:]
	c.loaded = true
	c.closed = false
	return nil
}

// detectDelimiter scans the first line for the first matching candidate in
// priority order, defaulting to comma. An explicit config delimiter skips
// detection.
func (c *Connector) detectDelimiter(f *os.File) (rune, error) {
	if c.cfg.Delimiter != "" {
		return rune(c.cfg.Delimiter[0]), nil
	}

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return 0, catalog.NewError(catalog.ErrorParse, "csvfile.detect", err)
		}
		return 0, catalog.Errorf(catalog.ErrorNotFound, "csvfile.detect", "%s is empty", c.cfg.Path)
	}
	line := scanner.Text()
	for _, cand := range delimiterCandidates {
		if strings.ContainsRune(line, cand) {
			return cand, nil
		}
	}
	return ',', nil
}

func (c *Connector) rowMap(rec []string) map[string]any {
	row := make(map[string]any, len(c.header))
	for i, name := range c.header {
		if i >= len(rec) {
			row[name] = nil
			continue
		}
		row[name] = rec[i]
	}
	return row
}

// columnValues extracts up to limit raw values for one column index.
func (c *Connector) columnValues(idx, limit int) []string {
	if limit > len(c.records) {
		limit = len(c.records)
	}
	values := make([]string, 0, limit)
	for _, rec := range c.records[:limit] {
		if idx >= len(rec) {
			values = append(values, "")
			continue
		}
		values = append(values, rec[idx])
	}
	return values
}
