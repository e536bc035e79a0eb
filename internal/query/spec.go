package query

import (
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Spec describes what a table can filter and sort on.
type Spec struct {
	Name string

	// FilterFields are matched case-insensitively by substring, emitted in this order.
	FilterFields []string

	// DateField receives the DateRange bounds. Empty disables range filtering.
	DateField string

	// SortFields may be named by State.Sort; anything else falls back to DefaultSort.
	SortFields  []string
	DefaultSort Sort

	// CategoryField and PriceField are the storefront's facets. Empty disables them.
	CategoryField string
	PriceField    string
	// PriceBounds is the full slider range; a selection equal to it sends nothing.
	PriceBounds PriceRange
}

// Build renders state as the backend query string:
//
//	current=<int>&pageSize=<int>[&<f>=/<v>/i]*[&<d>>=<day>&<d><=<day>][&category=<c>]*[&price>=<n>&price<=<n>]&sort=<-?field>
//
// Equal states always yield equal strings.
func (s Spec) Build(st State) string {
	st.Normalize()

	var b strings.Builder
	b.WriteString("current=")
	b.WriteString(strconv.Itoa(st.Current))
	b.WriteString("&pageSize=")
	b.WriteString(strconv.Itoa(st.PageSize))

	for _, field := range s.FilterFields {
		v := strings.TrimSpace(st.Filters[field])
		if v == "" {
			continue
		}
		b.WriteString("&")
		b.WriteString(field)
		b.WriteString("=/")
		b.WriteString(url.QueryEscape(regexp.QuoteMeta(v)))
		b.WriteString("/i")
	}

	if s.DateField != "" && st.DateRange != nil && st.DateRange.Valid() {
		b.WriteString("&" + s.DateField + ">=" + st.DateRange.Start)
		b.WriteString("&" + s.DateField + "<=" + st.DateRange.End)
	}

	if s.CategoryField != "" {
		for _, c := range st.Categories {
			if c == "" {
				continue
			}
			b.WriteString("&" + s.CategoryField + "=" + url.QueryEscape(c))
		}
	}

	if s.PriceField != "" && st.Price != nil && st.Price.narrows(s.PriceBounds) {
		b.WriteString("&" + s.PriceField + ">=" + strconv.FormatInt(st.Price.Min, 10))
		b.WriteString("&" + s.PriceField + "<=" + strconv.FormatInt(st.Price.Max, 10))
	}

	b.WriteString("&sort=")
	b.WriteString(s.EffectiveSort(st).Param())
	return b.String()
}

// EffectiveSort returns the sort Build will send for st.
func (s Spec) EffectiveSort(st State) Sort {
	if st.Sort != nil && slices.Contains(s.SortFields, st.Sort.Field) {
		return *st.Sort
	}
	return s.DefaultSort
}

// Filterable reports whether field is one of the spec's filter fields.
func (s Spec) Filterable(field string) bool {
	return slices.Contains(s.FilterFields, field)
}
