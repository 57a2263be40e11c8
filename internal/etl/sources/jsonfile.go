package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"bizloader/internal/etl"
)

// ── JSON File Source ────────────────────────────────────────
// Reads an array of flat objects from a local JSON file.

type jsonFileSource struct{}

func init() { etl.RegisterSource(&jsonFileSource{}) }

func (s *jsonFileSource) Spec() etl.SourceSpec {
	return etl.SourceSpec{
		Type:       "json_file",
		Label:      "JSON File",
		Extensions: []string{".json"},
	}
}

func (s *jsonFileSource) Read(ctx context.Context, cfg etl.SourceConfig) (*etl.Table, error) {
	filePath, err := requirePath(cfg)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}

	// Navigate to dataPath if specified.
	if dataPath, ok := cfg["dataPath"].(string); ok && dataPath != "" {
		current := raw
		for _, part := range strings.Split(dataPath, ".") {
			m, ok := current.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("invalid data path: %q not found", part)
			}
			current = m[part]
		}
		raw = current
	}

	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a JSON array of objects")
	}
	return toTable(items), nil
}

// Write stores the table as a root-level JSON array. Files read through a
// dataPath are not rewritten, since their envelope would be lost.
func (s *jsonFileSource) Write(ctx context.Context, cfg etl.SourceConfig, t *etl.Table) error {
	filePath, err := requirePath(cfg)
	if err != nil {
		return err
	}
	if dataPath, _ := cfg["dataPath"].(string); dataPath != "" {
		return fmt.Errorf("write-back is not supported with dataPath %q", dataPath)
	}

	out := make([]map[string]any, len(t.Rows))
	for i, row := range t.Rows {
		obj := make(map[string]any, len(t.Headers))
		for _, h := range t.Headers {
			if v, ok := row[h]; ok {
				obj[h] = v
			}
		}
		out[i] = obj
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(filePath), ".bizloader-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	return os.Rename(tmp.Name(), filePath)
}

// toTable flattens objects into rows. Headers follow first appearance
// across objects; keys within one object are sorted since JSON objects
// are unordered once decoded.
func toTable(items []any) *etl.Table {
	t := &etl.Table{Rows: make([]etl.Row, 0, len(items))}
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		row := make(etl.Row, len(m))
		for _, k := range sortedKeys(m) {
			row[k] = flattenValue(m[k])
			t.AddColumn(k)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// flattenValue keeps scalars; numbers stay json.Number so phone numbers
// keep their exact digits and are written back as numbers. Nested values
// are serialized as JSON strings.
func flattenValue(v any) any {
	switch x := v.(type) {
	case nil, string, bool, json.Number:
		return x
	default:
		b, _ := json.Marshal(x)
		return string(b)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
