package etl

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// ── Source ──────────────────────────────────────────────────
// A Source reads the full row set of a tabular file and, for the
// identifier backfill, writes it back to the same location.
// Implementations live in etl/sources/, one file per source type.

// SourceConfig is an opaque configuration map parsed per source type.
type SourceConfig map[string]any

// SourceSpec describes a source type.
type SourceSpec struct {
	Type       string   `json:"type"`
	Label      string   `json:"label"`
	Extensions []string `json:"extensions"` // lower-case, with leading dot
}

// Source is the interface every file source must implement.
type Source interface {
	// Spec returns metadata about this source type.
	Spec() SourceSpec

	// Read loads every row synchronously.
	Read(ctx context.Context, cfg SourceConfig) (*Table, error)

	// Write replaces the file's contents with the table.
	Write(ctx context.Context, cfg SourceConfig, t *Table) error
}

// ── Source Registry ────────────────────────────────────────
// Compile-time registration via init() in each source file.

var (
	registryMu sync.RWMutex
	registry   = map[string]Source{}
)

// RegisterSource registers a source by its spec type.
// Called from init() in each source implementation file.
func RegisterSource(s Source) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[s.Spec().Type] = s
}

// GetSource returns a registered source by type, or an error if not found.
func GetSource(typ string) (Source, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	s, ok := registry[typ]
	if !ok {
		return nil, fmt.Errorf("unknown source type: %q", typ)
	}
	return s, nil
}

// SourceForPath picks a source by typ, or by the file extension when typ is empty.
func SourceForPath(typ, path string) (Source, error) {
	if typ != "" {
		return GetSource(typ)
	}
	ext := strings.ToLower(filepath.Ext(path))
	registryMu.RLock()
	defer registryMu.RUnlock()
	for _, s := range registry {
		for _, e := range s.Spec().Extensions {
			if e == ext {
				return s, nil
			}
		}
	}
	return nil, fmt.Errorf("no source registered for %q files", ext)
}

// ListSources returns the specs of all registered sources, sorted by type.
func ListSources() []SourceSpec {
	registryMu.RLock()
	defer registryMu.RUnlock()
	specs := make([]SourceSpec, 0, len(registry))
	for _, s := range registry {
		specs = append(specs, s.Spec())
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].Type < specs[j].Type })
	return specs
}

// FileTable binds a source to one configured file so it can be used as a TableStore.
type FileTable struct {
	Source Source
	Config SourceConfig
}

func (f *FileTable) Load(ctx context.Context) (*Table, error) {
	return f.Source.Read(ctx, f.Config)
}

func (f *FileTable) Save(ctx context.Context, t *Table) error {
	return f.Source.Write(ctx, f.Config, t)
}
