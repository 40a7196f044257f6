package data

import (
	"maps"
	"slices"
	"strings"
)

// ModelValidationErr carries field-keyed problems the database caught after
// request validation passed, such as references to rows that do not exist.
type ModelValidationErr struct {
	Errors map[string]string
}

func (e ModelValidationErr) Error() string {
	keys := slices.Sorted(maps.Keys(e.Errors))
	return "model validation unsuccessful: " + strings.Join(keys, ", ")
}

func NewModelValidationErr(key string, value string) ModelValidationErr {
	return ModelValidationErr{Errors: map[string]string{
		key: value,
	}}
}

func (e ModelValidationErr) AddError(key string, value string) {
	if _, exists := e.Errors[key]; !exists {
		e.Errors[key] = value
	}
}

func (e ModelValidationErr) Valid() bool {
	return len(e.Errors) == 0
}
