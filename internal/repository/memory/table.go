// Package memory is a process-local store with the same contract as the
// postgres repositories. It backs tests and database.driver=memory.
package memory

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/reflectx"

	"github.com/jwalitptl/insurance-crm/internal/model"
	"github.com/jwalitptl/insurance-crm/internal/repository"
)

var mapper = reflectx.NewMapper("db")

type table[T any] struct {
	mu     sync.RWMutex
	name   string
	rows   []T
	search []string
	now    func() time.Time
}

func newTable[T any](name string, search []string) *table[T] {
	return &table[T]{name: name, search: search, now: time.Now}
}

func (t *table[T]) list(_ context.Context, q model.ListQuery) (model.Page[T], error) {
	q = q.Normalize(0)
	term := strings.ToLower(strings.TrimSpace(q.SearchTerm))

	t.mu.RLock()
	matched := make([]T, 0, len(t.rows))
	for i := len(t.rows) - 1; i >= 0; i-- {
		if term == "" || t.matches(&t.rows[i], term) {
			matched = append(matched, t.rows[i])
		}
	}
	t.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return createdAt(&matched[i]).After(createdAt(&matched[j]))
	})

	out := []T{}
	if off := q.Offset(); off < len(matched) {
		end := off + q.PageSize
		if end > len(matched) {
			end = len(matched)
		}
		out = append(out, matched[off:end]...)
	}
	return model.Page[T]{Rows: out, Total: int64(len(matched))}, nil
}

func (t *table[T]) matches(row *T, term string) bool {
	v := reflect.ValueOf(row).Elem()
	for _, col := range t.search {
		if strings.Contains(strings.ToLower(columnString(v, col)), term) {
			return true
		}
	}
	return false
}

func (t *table[T]) get(_ context.Context, id uuid.UUID) (*T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	i := t.index(id)
	if i < 0 {
		return nil, fmt.Errorf("failed to get %s %s: %w", t.name, id, repository.ErrNotFound)
	}
	row := t.rows[i]
	return &row, nil
}

func (t *table[T]) insert(_ context.Context, build func(model.Base) T) (*T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	row := build(t.base())
	t.rows = append(t.rows, row)
	return &row, nil
}

// insertMany appends every row under one lock so readers never see a partial batch.
func (t *table[T]) insertMany(_ context.Context, n int, build func(int, model.Base) T) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	batch := make([]T, n)
	for i := range batch {
		batch[i] = build(i, t.base())
	}
	t.rows = append(t.rows, batch...)
	return n, nil
}

func (t *table[T]) update(ctx context.Context, id uuid.UUID, set []model.Assignment) (*T, error) {
	if len(set) == 0 {
		return t.get(ctx, id)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.index(id)
	if i < 0 {
		return nil, fmt.Errorf("failed to update %s %s: %w", t.name, id, repository.ErrNotFound)
	}

	row := t.rows[i]
	v := reflect.ValueOf(&row).Elem()
	for _, a := range set {
		if a.Column == "id" || a.Column == "created_at" {
			return nil, fmt.Errorf("unknown %s column %q", t.name, a.Column)
		}
		if err := assign(v, a); err != nil {
			return nil, fmt.Errorf("failed to update %s: %w", t.name, err)
		}
	}
	t.rows[i] = row
	return &row, nil
}

func (t *table[T]) delete(_ context.Context, id uuid.UUID) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.index(id)
	if i < 0 {
		return fmt.Errorf("failed to delete %s %s: %w", t.name, id, repository.ErrNotFound)
	}
	t.rows = append(t.rows[:i], t.rows[i+1:]...)
	return nil
}

func (t *table[T]) deleteAll(_ context.Context) (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := int64(len(t.rows))
	t.rows = nil
	return n, nil
}

// index must be called with the lock held.
func (t *table[T]) index(id uuid.UUID) int {
	for i := range t.rows {
		if rowID(&t.rows[i]) == id {
			return i
		}
	}
	return -1
}

func (t *table[T]) base() model.Base {
	return model.Base{ID: uuid.New(), CreatedAt: t.now().UTC()}
}

func rowID[T any](row *T) uuid.UUID {
	id, _ := mapper.FieldByName(reflect.ValueOf(row).Elem(), "id").Interface().(uuid.UUID)
	return id
}

func createdAt[T any](row *T) time.Time {
	ts, _ := mapper.FieldByName(reflect.ValueOf(row).Elem(), "created_at").Interface().(time.Time)
	return ts
}

// field is the struct field tagged col, or the zero Value when there is none.
func field(v reflect.Value, col string) reflect.Value {
	fi, ok := mapper.TypeMap(v.Type()).Names[col]
	if !ok {
		return reflect.Value{}
	}
	return reflectx.FieldByIndexesReadOnly(v, fi.Index)
}

func columnString(v reflect.Value, col string) string {
	f := field(v, col)
	if !f.IsValid() {
		return ""
	}
	if f.Kind() == reflect.Ptr {
		if f.IsNil() {
			return ""
		}
		f = f.Elem()
	}
	if f.Kind() == reflect.String {
		return f.String()
	}
	return fmt.Sprint(f.Interface())
}

// assign sets the field tagged a.Column, converting the value to the field's
// type. A nil value clears pointer fields.
func assign(v reflect.Value, a model.Assignment) error {
	f := field(v, a.Column)
	if !f.IsValid() {
		return fmt.Errorf("unknown column %q", a.Column)
	}
	if a.Value == nil {
		f.Set(reflect.Zero(f.Type()))
		return nil
	}

	target := f.Type()
	if f.Kind() == reflect.Ptr {
		target = target.Elem()
	}
	rv := reflect.ValueOf(a.Value)
	if !rv.Type().ConvertibleTo(target) {
		return fmt.Errorf("column %q: cannot use %T", a.Column, a.Value)
	}
	converted := rv.Convert(target)

	if f.Kind() == reflect.Ptr {
		p := reflect.New(target)
		p.Elem().Set(converted)
		f.Set(p)
		return nil
	}
	f.Set(converted)
	return nil
}
