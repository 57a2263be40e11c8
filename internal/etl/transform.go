package etl

import (
	"fmt"
	"strings"
)

// ── Transformer ────────────────────────────────────────────
// Transformers adjust a row's columns before validation. They are
// composable: each takes a row and returns the (possibly modified) row.
//
// Pattern: Benthos processor chain.

// Transformer processes a single row.
type Transformer interface {
	Transform(Row) Row
}

// TransformerFunc adapts a plain function to the Transformer interface.
type TransformerFunc func(Row) Row

func (f TransformerFunc) Transform(r Row) Row { return f(r) }

// ── Built-in Transforms ────────────────────────────────────

// RenameTransform maps alternative header names onto recognized columns.
// An existing non-missing value under the new name wins.
type RenameTransform struct {
	Mapping map[string]string // oldName → newName
}

func (t *RenameTransform) Transform(r Row) Row {
	for old, new_ := range t.Mapping {
		v, ok := r[old]
		if !ok {
			continue
		}
		if cur, exists := r[new_]; !exists || IsMissing(cur) {
			r[new_] = v
		}
		delete(r, old)
	}
	return r
}

// ParseRenames parses "old=new" pairs into a rename mapping.
func ParseRenames(pairs []string) (map[string]string, error) {
	m := make(map[string]string, len(pairs))
	for _, p := range pairs {
		old, new_, ok := strings.Cut(p, "=")
		old, new_ = strings.TrimSpace(old), strings.TrimSpace(new_)
		if !ok || old == "" || new_ == "" {
			return nil, fmt.Errorf("invalid rename %q: want old=new", p)
		}
		m[old] = new_
	}
	return m, nil
}

// BuildTransformers returns the row transform chain. Cell values are
// never rewritten; only column names are.
func BuildTransformers(renames map[string]string) []Transformer {
	if len(renames) == 0 {
		return nil
	}
	return []Transformer{&RenameTransform{Mapping: renames}}
}

// ApplyTransformers runs a chain of transformers on a row.
func ApplyTransformers(r Row, ts []Transformer) Row {
	for _, t := range ts {
		r = t.Transform(r)
	}
	return r
}
