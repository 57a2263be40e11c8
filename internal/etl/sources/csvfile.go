package sources

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"bizloader/internal/etl"
)

// ── CSV File Source ─────────────────────────────────────────
// Reads and rewrites a local CSV file. Cells are kept as raw strings;
// typing is the mapper's job.

type csvFileSource struct{}

func init() { etl.RegisterSource(&csvFileSource{}) }

func (s *csvFileSource) Spec() etl.SourceSpec {
	return etl.SourceSpec{
		Type:       "csv_file",
		Label:      "CSV File",
		Extensions: []string{".csv", ".tsv", ".txt"},
	}
}

func (s *csvFileSource) Read(ctx context.Context, cfg etl.SourceConfig) (*etl.Table, error) {
	filePath, err := requirePath(cfg)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	// Drop a leading UTF-8 BOM (spreadsheet exports add one).
	reader := csv.NewReader(transform.NewReader(f, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	reader.Comma = delimiter(cfg, filePath)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty csv file")
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = norm.NFC.String(strings.TrimSpace(h))
	}

	t := &etl.Table{Headers: headers, Rows: make([]etl.Row, 0, len(records)-1)}
	for _, rec := range records[1:] {
		if isBlankRecord(rec) {
			continue
		}
		row := make(etl.Row, len(headers))
		for j, h := range headers {
			if j < len(rec) {
				row[h] = rec[j]
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// Write rewrites the file atomically: a temp file in the same directory
// is renamed over the original.
func (s *csvFileSource) Write(ctx context.Context, cfg etl.SourceConfig, t *etl.Table) error {
	filePath, err := requirePath(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(filePath), ".bizloader-*.csv")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := writeCSV(tmp, delimiter(cfg, filePath), t); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), filePath); err != nil {
		return fmt.Errorf("replace file: %w", err)
	}
	return nil
}

func writeCSV(w io.Writer, comma rune, t *etl.Table) error {
	cw := csv.NewWriter(w)
	cw.Comma = comma
	if err := cw.Write(t.Headers); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range t.Rows {
		if err := cw.Write(t.Cells(row)); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func requirePath(cfg etl.SourceConfig) (string, error) {
	filePath, _ := cfg["filePath"].(string)
	if filePath == "" {
		return "", fmt.Errorf("filePath is required")
	}
	return filePath, nil
}

// delimiter returns the configured delimiter, tab for .tsv files, else comma.
func delimiter(cfg etl.SourceConfig, filePath string) rune {
	if delim, ok := cfg["delimiter"].(string); ok && len(delim) > 0 {
		return rune(delim[0])
	}
	if strings.EqualFold(filepath.Ext(filePath), ".tsv") {
		return '\t'
	}
	return ','
}

func isBlankRecord(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
