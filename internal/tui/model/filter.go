package model

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/matheus3301/bookadmin/internal/query"
)

// ErrUnknownFilter is returned for a filter naming a field the table cannot search.
var ErrUnknownFilter = errors.New("unknown filter field")

// ParseFilter reads the filter prompt syntax "field=value; field=value". A
// part without "=" searches the table's first filter field. Blank text clears
// every filter.
func ParseFilter(spec query.Spec, text string) (map[string]string, error) {
	filters := make(map[string]string)
	for part := range strings.SplitSeq(text, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		field, value, ok := strings.Cut(part, "=")
		if !ok {
			if len(spec.FilterFields) == 0 {
				return nil, fmt.Errorf("%w: table %s has no filters", ErrUnknownFilter, spec.Name)
			}
			field, value = spec.FilterFields[0], part
		}
		field, value = strings.TrimSpace(field), strings.TrimSpace(value)
		if !spec.Filterable(field) {
			return nil, fmt.Errorf("%w: %q (use %s)", ErrUnknownFilter, field, strings.Join(spec.FilterFields, ", "))
		}
		if value != "" {
			filters[field] = value
		}
	}
	return filters, nil
}

// FormatFilter renders filters back in prompt syntax, in the spec's field order.
func FormatFilter(spec query.Spec, filters map[string]string) string {
	var parts []string
	for _, f := range spec.FilterFields {
		if v := filters[f]; v != "" {
			parts = append(parts, f+"="+v)
		}
	}
	// Fields the spec no longer lists, in stable order.
	for _, f := range slices.Sorted(maps.Keys(filters)) {
		if !spec.Filterable(f) && filters[f] != "" {
			parts = append(parts, f+"="+filters[f])
		}
	}
	return strings.Join(parts, "; ")
}
