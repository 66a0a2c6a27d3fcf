package opendata

import (
	"encoding/json"
	"fmt"
)

// FieldError reports a mapped value that could not be applied. The attribute
// it targets keeps its previous value.
type FieldError struct {
	Source string
	Err    error
}

func (e FieldError) Error() string { return fmt.Sprintf("field %q: %v", e.Source, e.Err) }

func (e FieldError) Unwrap() error { return e.Err }

// Populate builds a zero-valued T and applies fields to it.
func Populate[T any](m Mapping[T], fields map[string]json.RawMessage) (*T, []FieldError) {
	entity := new(T)
	return entity, PopulateInto(entity, m, fields)
}

// PopulateInto runs every setter of m whose source key is present in fields.
// Keys missing from fields are skipped and keys unknown to m are ignored.
func PopulateInto[T any](entity *T, m Mapping[T], fields map[string]json.RawMessage) []FieldError {
	var errs []FieldError
	for _, f := range m {
		raw, ok := fields[f.Source]
		if !ok {
			continue
		}
		if err := f.Set(entity, raw); err != nil {
			errs = append(errs, FieldError{Source: f.Source, Err: err})
		}
	}
	return errs
}
