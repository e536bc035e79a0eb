package query

import (
	"maps"
	"slices"
	"time"
)

// DateLayout is the only accepted date form for range filters.
const DateLayout = "2006-01-02"

// Direction orders a sort.
type Direction int

const (
	Descending Direction = iota
	Ascending
)

func (d Direction) String() string {
	if d == Ascending {
		return "ascend"
	}
	return "descend"
}

// Sort names a column and its direction.
type Sort struct {
	Field     string
	Direction Direction
}

// Param renders the sort as the backend expects it: "field" or "-field".
func (s Sort) Param() string {
	if s.Direction == Ascending {
		return s.Field
	}
	return "-" + s.Field
}

// DateRange is an inclusive [Start, End] day range in YYYY-MM-DD form.
type DateRange struct {
	Start string
	End   string
}

// Valid reports whether both bounds parse and Start is not after End.
func (r DateRange) Valid() bool {
	start, err := time.Parse(DateLayout, r.Start)
	if err != nil {
		return false
	}
	end, err := time.Parse(DateLayout, r.End)
	if err != nil {
		return false
	}
	return !start.After(end)
}

// PriceRange is an inclusive price interval.
type PriceRange struct {
	Min int64
	Max int64
}

// narrows reports whether r is well-formed and tighter than bounds on either side.
func (r PriceRange) narrows(bounds PriceRange) bool {
	if r.Min > r.Max {
		return false
	}
	return r.Min > bounds.Min || r.Max < bounds.Max
}

// State is a table's search, sort and pagination intent.
type State struct {
	Current  int
	PageSize int
	Filters  map[string]string

	// Sort overrides the table's default sort when it names a sortable field.
	Sort      *Sort
	DateRange *DateRange

	// Storefront only.
	Categories []string
	Price      *PriceRange
}

// NewState returns page 1 of the given size with no filters.
func NewState(pageSize int) State {
	if pageSize < 1 {
		pageSize = 1
	}
	return State{Current: 1, PageSize: pageSize}
}

// Clone returns a deep copy, safe to hand to another goroutine.
func (s State) Clone() State {
	c := s
	c.Filters = maps.Clone(s.Filters)
	c.Categories = slices.Clone(s.Categories)
	if s.Sort != nil {
		v := *s.Sort
		c.Sort = &v
	}
	if s.DateRange != nil {
		v := *s.DateRange
		c.DateRange = &v
	}
	if s.Price != nil {
		v := *s.Price
		c.Price = &v
	}
	return c
}

// Normalize clamps Current and PageSize to at least 1.
func (s *State) Normalize() {
	if s.Current < 1 {
		s.Current = 1
	}
	if s.PageSize < 1 {
		s.PageSize = 1
	}
}
