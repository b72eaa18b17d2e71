package autoform

import (
	"fmt"
	"strings"
)

// SearchField selects which registry attribute a query matches against.
type SearchField string

const (
	// SearchByName matches against the registered name.
	SearchByName SearchField = "name"

	// SearchByCIN matches against the company identification number.
	SearchByCIN SearchField = "cin"
)

// Search filter limit bounds. DefaultLimit applies when the caller does not
// specify one.
const (
	DefaultLimit = 5
	MinLimit     = 1
	MaxLimit     = 20
)

// SearchFilter is a parsed query. Exactly one field is set, with the value
// trimmed of surrounding whitespace.
type SearchFilter struct {
	Field SearchField
	Value string

	// Limit is the maximum number of results to request (1-20).
	Limit int

	// ActiveOnly restricts results to non-terminated entities.
	ActiveOnly bool
}

// Query returns the normalized field:value form sent to the upstream API,
// e.g. "name:Test" or "cin:36631124".
func (f SearchFilter) Query() string {
	return string(f.Field) + ":" + f.Value
}

// ParseQuery parses a raw query string of the form "name:<text>" or
// "cin:<identifier>". The field prefix is case-insensitive and the value is
// trimmed. The returned filter carries DefaultLimit and ActiveOnly=false;
// callers adjust both afterwards.
func ParseQuery(raw string) (SearchFilter, error) {
	field, value, ok := strings.Cut(raw, ":")
	if !ok {
		return SearchFilter{}, fmt.Errorf(
			"%w: %q must be of the form 'name:<text>' or 'cin:<identifier>'", ErrInvalidQuery, raw)
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return SearchFilter{}, fmt.Errorf("%w: %q has an empty value", ErrInvalidQuery, raw)
	}

	switch strings.ToLower(field) {
	case "name":
		return SearchFilter{Field: SearchByName, Value: value, Limit: DefaultLimit}, nil
	case "cin":
		return SearchFilter{Field: SearchByCIN, Value: value, Limit: DefaultLimit}, nil
	default:
		return SearchFilter{}, fmt.Errorf(
			"%w: unknown field %q, expected 'name' or 'cin'", ErrInvalidQuery, field)
	}
}
