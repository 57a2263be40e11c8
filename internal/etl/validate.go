package etl

import (
	"math"
	"strings"
)

// ── Validator ──────────────────────────────────────────────
// Detects required-but-missing columns before a record is built.

// IsMissing reports whether a raw cell counts as absent: nil, NaN, an
// empty or blank string, or the literal "nan" left behind by lossy
// text round-trips.
func IsMissing(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		s := strings.TrimSpace(x)
		return s == "" || strings.EqualFold(s, "nan")
	case float64:
		return math.IsNaN(x)
	case float32:
		return math.IsNaN(float64(x))
	default:
		return false
	}
}

// MissingColumns returns the schema's required columns that the row does
// not supply, in schema order.
func MissingColumns(row Row, s *Schema) []string {
	var missing []string
	for _, col := range s.RequiredColumns() {
		if v, ok := row[col]; !ok || IsMissing(v) {
			missing = append(missing, col)
		}
	}
	return missing
}

// Validator checks a row against each schema in turn and concatenates
// the missing columns.
type Validator struct {
	Schemas []*Schema
}

// NewBusinessValidator checks the business record and its point of contact.
func NewBusinessValidator() *Validator {
	return &Validator{Schemas: []*Schema{BusinessSchema, PointOfContactSchema}}
}

// Validate returns a *MissingFieldsError when any required column is missing.
func (v *Validator) Validate(row Row) error {
	var missing []string
	for _, s := range v.Schemas {
		missing = append(missing, MissingColumns(row, s)...)
	}
	if len(missing) > 0 {
		return &MissingFieldsError{Columns: missing}
	}
	return nil
}
