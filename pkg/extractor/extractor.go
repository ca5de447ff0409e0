// Package extractor provides tools for extracting field values from
// loosely-typed source records
package extractor

import (
	"encoding/json"
	"fmt"

	"github.com/Ramsey-B/aster/pkg/models"
)

// Extractor pulls logical fields out of raw source records. Source systems
// disagree on field names, so each logical field is read through an ordered
// alias chain; the first alias with a non-empty value wins. An empty string
// is treated the same as an absent key and falls through to the next alias.
type Extractor struct{}

// New creates a new Extractor
func New() *Extractor {
	return &Extractor{}
}

// String extracts the first non-empty value among the given aliases,
// converted to a string. Returns "" when no alias yields a value.
func (e *Extractor) String(record models.RawRecord, aliases ...string) string {
	for _, alias := range aliases {
		value, ok := record[alias]
		if !ok || value == nil {
			continue
		}
		s := toString(value)
		if s != "" {
			return s
		}
	}
	return ""
}

// toString converts a scalar value to its string form. JSON numbers arrive
// as float64; integral ones must not pick up a decimal point or an id like
// 12345 would never match across sources.
func toString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%v", val)
	case int:
		return fmt.Sprintf("%d", val)
	case int64:
		return fmt.Sprintf("%d", val)
	case json.Number:
		return val.String()
	case bool:
		return fmt.Sprintf("%t", val)
	default:
		// Nested objects and arrays are not identity signals.
		return ""
	}
}
