package etl

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingField marks a row lacking a required value.
	ErrMissingField = errors.New("missing required field")
	// ErrCoercion marks a value that could not be converted to its field type.
	ErrCoercion = errors.New("invalid field value")
)

// MissingFieldsError lists the required columns a row did not supply.
type MissingFieldsError struct {
	Columns []string
}

func (e *MissingFieldsError) Error() string {
	return "Missing fields: " + strings.Join(e.Columns, ", ")
}

func (e *MissingFieldsError) Is(target error) bool { return target == ErrMissingField }

// CoercionError reports a column whose value has the wrong type.
type CoercionError struct {
	Column string
	Value  any
	Err    error
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Column, cellText(e.Value), e.Err)
}

func (e *CoercionError) Is(target error) bool { return target == ErrCoercion }

func (e *CoercionError) Unwrap() error { return e.Err }

// RowError is a per-row failure. It never aborts the batch.
type RowError struct {
	Index        int    // zero-based position in the input
	BusinessName string // "" when the row does not carry one
	Err          error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d (%s): %v", e.Index, e.DisplayName(), e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// DisplayName is the business name, or a placeholder when unknown.
func (e *RowError) DisplayName() string {
	if e.BusinessName == "" {
		return UnknownBusiness
	}
	return e.BusinessName
}

// UnknownBusiness is reported for rows without a business name.
const UnknownBusiness = "[Unknown]"
