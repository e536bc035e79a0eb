package devserver

import (
	"cmp"
	"fmt"
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/matheus3301/bookadmin/internal/api"
)

// listQuery is a parsed list request:
//
//	current, pageSize, sort=-field, field=/re/i, field>=x, field<=y, field=v (repeatable)
type listQuery struct {
	current  int
	pageSize int
	sort     string
	match    map[string]*regexp.Regexp
	equal    map[string][]string
	lower    map[string]string
	upper    map[string]string
}

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// parseListQuery reads a query string. url.ParseQuery splits "a>=b" into the
// key "a>" and value "b", which is how range bounds are recognized.
func parseListQuery(raw string) (*listQuery, error) {
	values, err := url.ParseQuery(raw)
	if err != nil {
		return nil, fmt.Errorf("malformed query: %w", err)
	}
	q := &listQuery{
		current:  1,
		pageSize: defaultPageSize,
		match:    make(map[string]*regexp.Regexp),
		equal:    make(map[string][]string),
		lower:    make(map[string]string),
		upper:    make(map[string]string),
	}
	for key, vs := range values {
		if len(vs) == 0 {
			continue
		}
		v := vs[len(vs)-1]
		switch {
		case key == "current":
			if q.current, err = positive(key, v); err != nil {
				return nil, err
			}
		case key == "pageSize":
			if q.pageSize, err = positive(key, v); err != nil {
				return nil, err
			}
			q.pageSize = min(q.pageSize, maxPageSize)
		case key == "sort":
			q.sort = v
		case strings.HasSuffix(key, ">"):
			q.lower[strings.TrimSuffix(key, ">")] = v
		case strings.HasSuffix(key, "<"):
			q.upper[strings.TrimSuffix(key, "<")] = v
		case strings.HasPrefix(v, "/") && strings.HasSuffix(v, "/i") && len(v) >= 3:
			re, err := regexp.Compile("(?i)" + v[1:len(v)-2])
			if err != nil {
				return nil, fmt.Errorf("bad pattern for %s: %w", key, err)
			}
			q.match[key] = re
		default:
			q.equal[key] = vs
		}
	}
	return q, nil
}

func positive(key, v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	return n, nil
}

// fieldFunc returns the value of a named field of a record: string, int64 or
// time.Time. ok is false for unknown fields.
type fieldFunc[T any] func(item T, field string) (v any, ok bool)

// apply filters, sorts and paginates items.
func apply[T any](items []T, q *listQuery, field fieldFunc[T]) api.Page[T] {
	var kept []T
	for _, item := range items {
		if keeps(q, item, field) {
			kept = append(kept, item)
		}
	}

	if q.sort != "" {
		name, desc := strings.TrimPrefix(q.sort, "-"), strings.HasPrefix(q.sort, "-")
		slices.SortStableFunc(kept, func(a, b T) int {
			av, _ := field(a, name)
			bv, _ := field(b, name)
			c := compare(av, bv)
			if desc {
				return -c
			}
			return c
		})
	}

	total := len(kept)
	pages := (total + q.pageSize - 1) / q.pageSize
	start := min((q.current-1)*q.pageSize, total)
	end := min(start+q.pageSize, total)

	result := make([]T, end-start)
	copy(result, kept[start:end])
	return api.Page[T]{
		Result: result,
		Meta: api.Meta{
			Current:  q.current,
			PageSize: q.pageSize,
			Pages:    pages,
			Total:    total,
		},
	}
}

func keeps[T any](q *listQuery, item T, field fieldFunc[T]) bool {
	for name, re := range q.match {
		v, ok := field(item, name)
		if !ok || !re.MatchString(text(v)) {
			return false
		}
	}
	for name, allowed := range q.equal {
		v, ok := field(item, name)
		if !ok {
			continue
		}
		if !slices.Contains(allowed, text(v)) {
			return false
		}
	}
	for name, bound := range q.lower {
		v, ok := field(item, name)
		if !ok {
			continue
		}
		b, err := parseLike(v, bound)
		if err != nil || compare(v, b) < 0 {
			return false
		}
	}
	for name, bound := range q.upper {
		v, ok := field(item, name)
		if !ok {
			continue
		}
		b, err := parseLike(v, bound)
		if err != nil || compare(v, b) > 0 {
			return false
		}
	}
	return true
}

// parseLike parses s into the same type as v.
func parseLike(v any, s string) (any, error) {
	switch v.(type) {
	case int64:
		return strconv.ParseInt(s, 10, 64)
	case time.Time:
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			return t, nil
		}
		return time.Parse(time.RFC3339, s)
	default:
		return s, nil
	}
}

func compare(a, b any) int {
	switch av := a.(type) {
	case int64:
		bv, _ := b.(int64)
		return cmp.Compare(av, bv)
	case time.Time:
		bv, _ := b.(time.Time)
		return av.Compare(bv)
	default:
		return strings.Compare(text(a), text(b))
	}
}

func text(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case time.Time:
		return x.Format(time.RFC3339)
	case nil:
		return ""
	default:
		return fmt.Sprint(x)
	}
}
