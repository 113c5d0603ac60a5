package listsync

import (
	"context"
	"sync"

	"github.com/jwalitptl/insurance-crm/internal/model"
)

// Fetcher loads one page of a listing.
type Fetcher[T any] interface {
	List(ctx context.Context, q model.ListQuery) (model.Page[T], error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc[T any] func(ctx context.Context, q model.ListQuery) (model.Page[T], error)

func (f FetcherFunc[T]) List(ctx context.Context, q model.ListQuery) (model.Page[T], error) {
	return f(ctx, q)
}

// State is what a view renders.
type State[T any] struct {
	Filters Filters
	Rows    []T
	Total   int64
	Loading bool
	Err     error
}

// Synchronizer fetches on mount, on every filter change and after every
// successful mutation. Each fetch carries a sequence number and only the
// newest one may update the state, so a slow response for an old filter
// never overwrites a newer result.
type Synchronizer[T any] struct {
	fetcher Fetcher[T]

	mu       sync.Mutex
	filters  Filters
	rows     []T
	total    int64
	err      error
	seq      uint64
	pending  uint64
	closed   bool
	onChange func(State[T])

	mutation Mutation
}

type Option[T any] func(*Synchronizer[T])

// WithPageSize sets the initial page size.
func WithPageSize[T any](n int) Option[T] {
	return func(s *Synchronizer[T]) { s.filters = NewFilters(n) }
}

// WithOnChange registers a callback invoked with every state change. It runs
// outside the lock and must not block for long.
func WithOnChange[T any](fn func(State[T])) Option[T] {
	return func(s *Synchronizer[T]) { s.onChange = fn }
}

func New[T any](fetcher Fetcher[T], opts ...Option[T]) *Synchronizer[T] {
	s := &Synchronizer[T]{
		fetcher: fetcher,
		filters: NewFilters(model.DefaultPageSize),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Mount performs the first fetch.
func (s *Synchronizer[T]) Mount(ctx context.Context) error {
	return s.fetch(ctx)
}

// Refresh re-fetches with the current filters, e.g. to retry after an error.
func (s *Synchronizer[T]) Refresh(ctx context.Context) error {
	return s.fetch(ctx)
}

func (s *Synchronizer[T]) SetSearchTerm(ctx context.Context, term string) error {
	return s.change(ctx, func(f *Filters) bool { return f.SetSearchTerm(term) })
}

func (s *Synchronizer[T]) SetPage(ctx context.Context, page int) error {
	return s.change(ctx, func(f *Filters) bool { return f.SetPage(page) })
}

func (s *Synchronizer[T]) SetPageSize(ctx context.Context, n int) error {
	return s.change(ctx, func(f *Filters) bool { return f.SetPageSize(n) })
}

// Mutate runs fn and re-fetches when it succeeds. A failed mutation leaves
// the listing untouched and its error is returned.
func (s *Synchronizer[T]) Mutate(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := s.mutation.Run(ctx, fn); err != nil {
		return err
	}
	return s.fetch(ctx)
}

// MutationStatus reports the lifecycle of the last mutation.
func (s *Synchronizer[T]) MutationStatus() (Status, error) {
	return s.mutation.Status()
}

// Close stops the synchronizer. Responses arriving afterwards are dropped.
func (s *Synchronizer[T]) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func (s *Synchronizer[T]) State() State[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Synchronizer[T]) stateLocked() State[T] {
	rows := make([]T, len(s.rows))
	copy(rows, s.rows)
	return State[T]{
		Filters: s.filters,
		Rows:    rows,
		Total:   s.total,
		Loading: s.pending != 0,
		Err:     s.err,
	}
}

func (s *Synchronizer[T]) change(ctx context.Context, apply func(*Filters) bool) error {
	s.mu.Lock()
	if s.closed || !apply(&s.filters) {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()
	return s.fetch(ctx)
}

// fetch issues a request for the current filters. It returns the fetch error
// only when this request is still the newest one.
func (s *Synchronizer[T]) fetch(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.seq++
	seq := s.seq
	s.pending = seq
	q := s.filters.Query()
	state := s.stateLocked()
	s.mu.Unlock()
	s.notify(state)

	page, err := s.fetcher.List(ctx, q)

	s.mu.Lock()
	if s.closed || seq != s.seq {
		s.mu.Unlock()
		return nil
	}
	s.pending = 0
	if err != nil {
		s.err = err
	} else {
		s.rows = page.Rows
		s.total = page.Total
		s.err = nil
		s.filters.observe(page.Total)
	}
	state = s.stateLocked()
	s.mu.Unlock()
	s.notify(state)
	return err
}

func (s *Synchronizer[T]) notify(state State[T]) {
	if s.onChange != nil {
		s.onChange(state)
	}
}
