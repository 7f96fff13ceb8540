// Package export writes governed result sets to delimited or JSON files.
// Every export passes the compliance gate first; records are redacted
// according to the caller's entitlement before a single byte is written.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/open-dcat/open-dcat/internal/catalog"
	"github.com/open-dcat/open-dcat/internal/compliance"
	"github.com/open-dcat/open-dcat/internal/profiler"
)

// Format identifies an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// Result reports a completed export.
type Result struct {
	Path     string `json:"path"`
	Format   Format `json:"format"`
	RowCount int    `json:"row_count"`
}

// Request describes one export run. Columns fixes the output column order;
// map iteration order is not stable, so the caller passes the schema order.
type Request struct {
	Rows        []map[string]any
	Columns     []string
	Path        string
	Preset      compliance.Preset
	PIIEntitled bool
	Approved    bool
}

// Export gates the request against the compliance preset, redacts PII for
// callers without entitlement, and writes the file. The format comes from
// the path extension.
func Export(req Request) (Result, error) {
	if len(req.Rows) == 0 {
		return Result{}, catalog.Errorf(catalog.ErrorValidation, "export", "no rows to export")
	}
	if len(req.Columns) == 0 {
		return Result{}, catalog.Errorf(catalog.ErrorValidation, "export", "no columns to export")
	}
	if err := compliance.CheckExport(req.Preset, int64(len(req.Rows)), req.Approved); err != nil {
		return Result{}, err
	}

	rows := req.Rows
	if redacted, ok := compliance.Redact(rows, req.Preset, req.PIIEntitled).([]map[string]any); ok {
		rows = redacted
	}

	format, err := formatFromPath(req.Path)
	if err != nil {
		return Result{}, err
	}

	if dir := filepath.Dir(req.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Result{}, catalog.NewError(catalog.ErrorConnection, "export", err)
		}
	}
	f, err := os.Create(req.Path)
	if err != nil {
		return Result{}, catalog.NewError(catalog.ErrorConnection, "export", err)
	}
	defer f.Close()

	switch format {
	case FormatCSV:
		err = WriteCSV(f, rows, req.Columns)
	case FormatJSON:
		err = WriteJSON(f, rows, true)
	}
	if err != nil {
		return Result{}, err
	}
	if err := f.Close(); err != nil {
		return Result{}, catalog.NewError(catalog.ErrorConnection, "export", err)
	}

	return Result{Path: req.Path, Format: format, RowCount: len(rows)}, nil
}

// WriteCSV writes rows with a header line in the given column order. Values
// missing from a row are written empty.
func WriteCSV(w io.Writer, rows []map[string]any, columns []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return catalog.NewError(catalog.ErrorConnection, "export.csv", err)
	}
	record := make([]string, len(columns))
	for _, row := range rows {
		for i, col := range columns {
			record[i] = ""
			if v, ok := row[col]; ok && v != nil {
				record[i] = profiler.FormatValue(v)
			}
		}
		if err := cw.Write(record); err != nil {
			return catalog.NewError(catalog.ErrorConnection, "export.csv", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return catalog.NewError(catalog.ErrorConnection, "export.csv", err)
	}
	return nil
}

// WriteJSON writes rows as a JSON array.
func WriteJSON(w io.Writer, rows []map[string]any, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(rows); err != nil {
		return catalog.NewError(catalog.ErrorConnection, "export.json", err)
	}
	return nil
}

// CleanupOld deletes export files older than maxAge. A missing directory is
// not an error. Returns the paths deleted.
func CleanupOld(dir string, maxAge time.Duration) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, catalog.NewError(catalog.ErrorConnection, "export.cleanup", err)
	}

	cutoff := time.Now().Add(-maxAge)
	var deleted []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			path := filepath.Join(dir, entry.Name())
			if err := os.Remove(path); err == nil {
				deleted = append(deleted, path)
			}
		}
	}
	return deleted, nil
}

func formatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", catalog.Errorf(catalog.ErrorValidation, "export",
			"unsupported export format %q", filepath.Ext(path))
	}
}
