package table

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"

	"github.com/matheus3301/bookadmin/internal/api"
	"github.com/matheus3301/bookadmin/internal/query"
	"go.uber.org/zap"
)

// ErrSuperseded is returned for a fetch whose response arrived after a newer
// fetch was dispatched. Its result was discarded.
var ErrSuperseded = errors.New("response superseded by a newer request")

var errNoPage = errors.New("backend returned no page")

// Phase is the controller's fetch state.
type Phase string

const (
	Idle    Phase = "IDLE"
	Loading Phase = "LOADING"
)

// FetchFunc loads one page for a rendered query string.
type FetchFunc[T any] func(ctx context.Context, rawQuery string) (*api.Page[T], error)

// Snapshot is a consistent copy of a controller's state.
type Snapshot[T any] struct {
	State  query.State
	Rows   []T
	Meta   api.Meta
	Phase  Phase
	Loaded bool  // at least one fetch succeeded
	Err    error // outcome of the latest settled fetch
}

// Controller owns a table's query state and the rows last fetched for it.
//
// Every fetch is tagged with a sequence number at dispatch. Only the response
// carrying the latest number is applied; older ones are dropped, so rows never
// regress to a superseded query. Requests are not cancelled.
type Controller[T any] struct {
	spec   query.Spec
	fetch  FetchFunc[T]
	logger *zap.Logger

	mu       sync.Mutex
	state    query.State
	rows     []T
	meta     api.Meta
	loaded   bool
	lastErr  error
	seq      uint64 // last dispatched
	settled  uint64 // last applied or failed, always <= seq
	onChange func(Snapshot[T])
}

// New creates a controller on page 1 with the given page size.
func New[T any](spec query.Spec, pageSize int, fetch FetchFunc[T], logger *zap.Logger) *Controller[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller[T]{
		spec:   spec,
		fetch:  fetch,
		logger: logger.With(zap.String("table", spec.Name)),
		state:  query.NewState(pageSize),
	}
}

// Spec returns the table description the controller builds queries from.
func (c *Controller[T]) Spec() query.Spec {
	return c.spec
}

// OnChange registers fn to receive a snapshot after every phase or data change.
// fn runs on the goroutine that caused the change.
func (c *Controller[T]) OnChange(fn func(Snapshot[T])) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// Snapshot returns a copy of the current state.
func (c *Controller[T]) Snapshot() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// State returns a copy of the current query state.
func (c *Controller[T]) State() query.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Query returns the query string the next fetch would send.
func (c *Controller[T]) Query() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.spec.Build(c.state)
}

// Refresh refetches with the current state, leaving it unchanged.
func (c *Controller[T]) Refresh(ctx context.Context) error {
	return c.update(ctx, nil)
}

// SetFilter sets one filter value ("" clears it) and returns to page 1.
func (c *Controller[T]) SetFilter(ctx context.Context, field, value string) error {
	return c.update(ctx, func(s *query.State) {
		if s.Filters == nil {
			s.Filters = make(map[string]string)
		}
		if value == "" {
			delete(s.Filters, field)
		} else {
			s.Filters[field] = value
		}
		s.Current = 1
	})
}

// SetFilters replaces every filter and returns to page 1.
func (c *Controller[T]) SetFilters(ctx context.Context, filters map[string]string) error {
	return c.update(ctx, func(s *query.State) {
		s.Filters = maps.Clone(filters)
		s.Current = 1
	})
}

// ClearFilters drops filters and the date range and returns to page 1.
func (c *Controller[T]) ClearFilters(ctx context.Context) error {
	return c.update(ctx, func(s *query.State) {
		s.Filters = nil
		s.DateRange = nil
		s.Current = 1
	})
}

// SetSort overrides the default sort (nil restores it) and returns to page 1.
func (c *Controller[T]) SetSort(ctx context.Context, sort *query.Sort) error {
	return c.update(ctx, func(s *query.State) {
		if sort == nil {
			s.Sort = nil
		} else {
			v := *sort
			s.Sort = &v
		}
		s.Current = 1
	})
}

// SetDateRange sets (nil clears) the date range and returns to page 1.
func (c *Controller[T]) SetDateRange(ctx context.Context, r *query.DateRange) error {
	return c.update(ctx, func(s *query.State) {
		if r == nil {
			s.DateRange = nil
		} else {
			v := *r
			s.DateRange = &v
		}
		s.Current = 1
	})
}

// SetCategories replaces the storefront category selection and returns to page 1.
func (c *Controller[T]) SetCategories(ctx context.Context, categories []string) error {
	return c.update(ctx, func(s *query.State) {
		s.Categories = slices.Clone(categories)
		s.Current = 1
	})
}

// SetPriceRange sets (nil clears) the storefront price range and returns to page 1.
func (c *Controller[T]) SetPriceRange(ctx context.Context, r *query.PriceRange) error {
	return c.update(ctx, func(s *query.State) {
		if r == nil {
			s.Price = nil
		} else {
			v := *r
			s.Price = &v
		}
		s.Current = 1
	})
}

// Load replaces the whole query state, keeping its page, and fetches it.
func (c *Controller[T]) Load(ctx context.Context, st query.State) error {
	st = st.Clone()
	return c.update(ctx, func(s *query.State) {
		*s = st
	})
}

// SetPage moves to page n (values below 1 mean 1).
func (c *Controller[T]) SetPage(ctx context.Context, n int) error {
	return c.update(ctx, func(s *query.State) {
		s.Current = max(n, 1)
	})
}

// SetPageSize changes the page size and returns to page 1.
func (c *Controller[T]) SetPageSize(ctx context.Context, n int) error {
	return c.update(ctx, func(s *query.State) {
		s.PageSize = max(n, 1)
		s.Current = 1
	})
}

// NextPage advances one page unless the last known page is already shown.
func (c *Controller[T]) NextPage(ctx context.Context) error {
	c.mu.Lock()
	next := c.state.Current + 1
	last := c.loaded && c.meta.Pages > 0 && c.state.Current >= c.meta.Pages
	c.mu.Unlock()
	if last {
		return nil
	}
	return c.SetPage(ctx, next)
}

// PrevPage goes back one page; a no-op on page 1.
func (c *Controller[T]) PrevPage(ctx context.Context) error {
	c.mu.Lock()
	cur := c.state.Current
	c.mu.Unlock()
	if cur <= 1 {
		return nil
	}
	return c.SetPage(ctx, cur-1)
}

// update applies mutate (if any) and fetches the resulting state.
func (c *Controller[T]) update(ctx context.Context, mutate func(*query.State)) error {
	c.mu.Lock()
	if mutate != nil {
		mutate(&c.state)
	}
	c.state.Normalize()
	c.seq++
	seq := c.seq
	rawQuery := c.spec.Build(c.state)
	c.notifyLocked()

	page, err := c.fetch(ctx, rawQuery)
	if err == nil && page == nil {
		err = errNoPage
	}

	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		c.logger.Debug("discarding stale response", zap.Uint64("seq", seq), zap.String("query", rawQuery))
		return ErrSuperseded
	}
	c.settled = seq
	if err != nil {
		c.lastErr = err
		c.notifyLocked()
		c.logger.Warn("fetch failed", zap.String("query", rawQuery), zap.Error(err))
		return err
	}
	c.rows = page.Result
	c.meta = page.Meta
	c.loaded = true
	c.lastErr = nil
	c.notifyLocked()
	return nil
}

// notifyLocked releases c.mu and then invokes the change callback.
func (c *Controller[T]) notifyLocked() {
	fn := c.onChange
	snap := c.snapshotLocked()
	c.mu.Unlock()
	if fn != nil {
		fn(snap)
	}
}

func (c *Controller[T]) snapshotLocked() Snapshot[T] {
	phase := Idle
	if c.settled != c.seq {
		phase = Loading
	}
	return Snapshot[T]{
		State:  c.state.Clone(),
		Rows:   slices.Clone(c.rows),
		Meta:   c.meta,
		Phase:  phase,
		Loaded: c.loaded,
		Err:    c.lastErr,
	}
}
