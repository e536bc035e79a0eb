package main

import (
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/matheus3301/bookadmin/internal/query"
)

// stringList collects a repeatable flag.
type stringList []string

func (l *stringList) String() string { return strings.Join(*l, ",") }

func (l *stringList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// parseSort reads "field" (ascending) or "-field" (descending).
func parseSort(spec query.Spec, v string) (*query.Sort, error) {
	s := query.Sort{Field: v, Direction: query.Ascending}
	if f, ok := strings.CutPrefix(v, "-"); ok {
		s = query.Sort{Field: f, Direction: query.Descending}
	}
	if slices.Contains(spec.SortFields, s.Field) {
		return &s, nil
	}
	return nil, fmt.Errorf("cannot sort %s by %q (sortable: %s)", spec.Name, s.Field, strings.Join(spec.SortFields, ", "))
}

// parseListArgs turns admin table flags into a query state.
func parseListArgs(spec query.Spec, pageSize int, args []string) (query.State, []string, error) {
	fs := newFlagSet(spec.Name + " list")
	page := fs.Int("page", 1, "page number")
	size := fs.Int("size", pageSize, "rows per page")
	sortBy := fs.String("sort", "", "sort field, prefix - for descending")
	from := fs.String("from", "", "first day (YYYY-MM-DD)")
	to := fs.String("to", "", "last day (YYYY-MM-DD)")
	var filters stringList
	fs.Var(&filters, "filter", "field=value, repeatable")
	if err := fs.Parse(args); err != nil {
		return query.State{}, nil, err
	}

	st := query.NewState(*size)
	st.Current = *page
	for _, f := range filters {
		field, value, ok := strings.Cut(f, "=")
		field = strings.TrimSpace(field)
		if !ok || !spec.Filterable(field) {
			return query.State{}, nil, fmt.Errorf("bad filter %q (fields: %s)", f, strings.Join(spec.FilterFields, ", "))
		}
		if value = strings.TrimSpace(value); value == "" {
			continue
		}
		if st.Filters == nil {
			st.Filters = make(map[string]string)
		}
		st.Filters[field] = value
	}
	if *sortBy != "" {
		s, err := parseSort(spec, *sortBy)
		if err != nil {
			return query.State{}, nil, err
		}
		st.Sort = s
	}
	if *from != "" || *to != "" {
		r := query.DateRange{Start: *from, End: *to}
		if !r.Valid() {
			return query.State{}, nil, fmt.Errorf("bad date range %q..%q (use YYYY-MM-DD, start before end)", *from, *to)
		}
		st.DateRange = &r
	}
	st.Normalize()
	return st, fs.Args(), nil
}

// parseStoreArgs turns storefront flags into a query state.
func parseStoreArgs(bounds query.PriceRange, pageSize int, args []string) (query.State, error) {
	fs := newFlagSet("store")
	page := fs.Int("page", 1, "page number")
	size := fs.Int("size", pageSize, "books per page")
	sortKey := fs.String("sort", query.SortPopular, "one of "+strings.Join(query.StorefrontSortKeys, ", "))
	minPrice := fs.Int64("min", bounds.Min, "lowest price")
	maxPrice := fs.Int64("max", bounds.Max, "highest price")
	var categories stringList
	fs.Var(&categories, "category", "category, repeatable")
	if err := fs.Parse(args); err != nil {
		return query.State{}, err
	}
	if *minPrice > *maxPrice {
		return query.State{}, fmt.Errorf("--min %d is above --max %d", *minPrice, *maxPrice)
	}

	st := query.NewState(*size)
	st.Current = *page
	s := query.StorefrontSort(*sortKey)
	st.Sort = &s
	st.Categories = categories
	st.Price = &query.PriceRange{Min: *minPrice, Max: *maxPrice}
	st.Normalize()
	return st, nil
}
