package etl

// ── Schema ─────────────────────────────────────────────────
// A Schema is a statically declared requiredness table. Whether a field
// must be supplied is read off the declaration, never off sample data.

// FieldKind separates plain columns from embedded sub-documents.
type FieldKind int

const (
	KindScalar FieldKind = iota
	KindNested           // built from other columns, checked by its own schema
)

// Field describes one field of a record schema.
type Field struct {
	Name     string // field name on the record
	Column   string // source column; defaults to Name
	Kind     FieldKind
	Optional bool // the value may be absent
	// HasDefault marks fields the pipeline can fill in itself
	// (e.g. generated identifiers), so the source need not supply them.
	HasDefault bool
}

// ColumnName returns the source column the field is read from.
func (f Field) ColumnName() string {
	if f.Column != "" {
		return f.Column
	}
	return f.Name
}

// Required reports whether the field must be present and non-empty in every row.
func (f Field) Required() bool {
	return f.Kind == KindScalar && !f.Optional && !f.HasDefault
}

// Schema describes the shape of one record type.
type Schema struct {
	Name   string
	Fields []Field
}

// RequiredFields returns the names of fields with no default that are not
// declared optional. Nested fields are excluded; their own schema covers them.
func (s *Schema) RequiredFields() []string {
	var out []string
	for _, f := range s.Fields {
		if f.Required() {
			out = append(out, f.Name)
		}
	}
	return out
}

// RequiredColumns is RequiredFields expressed as source column names.
func (s *Schema) RequiredColumns() []string {
	var out []string
	for _, f := range s.Fields {
		if f.Required() {
			out = append(out, f.ColumnName())
		}
	}
	return out
}
