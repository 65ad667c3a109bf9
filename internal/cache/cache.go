// Package cache keeps query snapshots in memory, keyed by the full filter tuple
// of the query, and drops every snapshot of a table as soon as that table is written.
package cache

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/workforce-api/internal/rowstore"
)

type entry struct {
	rows    reflect.Value
	expires time.Time
}

// Store is a rowstore.Store that serves repeated selects from memory
type Store struct {
	next rowstore.Store
	ttl  time.Duration
	now  func() time.Time

	mu         sync.RWMutex
	entries    map[string]entry
	tableIndex map[string]map[string]struct{}
	// generations counts invalidations per table; a select only stores its
	// result if no invalidation happened while it was reading
	generations map[string]uint64
}

// New wraps next. Entries expire after ttl; ttl <= 0 keeps them until invalidated.
func New(next rowstore.Store, ttl time.Duration) *Store {
	return &Store{
		next:        next,
		ttl:         ttl,
		now:         time.Now,
		entries:     make(map[string]entry),
		tableIndex:  make(map[string]map[string]struct{}),
		generations: make(map[string]uint64),
	}
}

func (s *Store) Select(ctx context.Context, q rowstore.Query, dest any) error {
	target := reflect.ValueOf(dest)
	if target.Kind() != reflect.Pointer || target.Elem().Kind() != reflect.Slice {
		return s.next.Select(ctx, q, dest)
	}

	key := Key(q, dest)
	if rows, ok := s.get(key); ok {
		recordRequest(q.Table, true)
		target.Elem().Set(copySlice(rows))
		return nil
	}
	recordRequest(q.Table, false)

	gen := s.generation(q.Table)
	if err := s.next.Select(ctx, q, dest); err != nil {
		return err
	}
	s.set(q.Table, key, gen, copySlice(target.Elem()))
	return nil
}

func (s *Store) Insert(ctx context.Context, table string, rows any) error {
	defer s.Invalidate(table)
	return s.next.Insert(ctx, table, rows)
}

func (s *Store) Update(ctx context.Context, table string, patch map[string]any, filters ...rowstore.Filter) (int64, error) {
	defer s.Invalidate(table)
	return s.next.Update(ctx, table, patch, filters...)
}

func (s *Store) Delete(ctx context.Context, table string, filters ...rowstore.Filter) (int64, error) {
	defer s.Invalidate(table)
	return s.next.Delete(ctx, table, filters...)
}

func (s *Store) Upsert(ctx context.Context, table string, rows any, conflictKeys ...string) error {
	defer s.Invalidate(table)
	return s.next.Upsert(ctx, table, rows, conflictKeys...)
}

func (s *Store) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}

// Invalidate drops every cached snapshot of table
func (s *Store) Invalidate(table string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.tableIndex[table] {
		delete(s.entries, key)
	}
	delete(s.tableIndex, table)
	s.generations[table]++
	recordInvalidate(table)
}

// Len returns the number of live entries
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store) get(key string) (reflect.Value, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	if !ok {
		return reflect.Value{}, false
	}
	if !e.expires.IsZero() && !s.now().Before(e.expires) {
		return reflect.Value{}, false
	}
	return e.rows, true
}

func (s *Store) generation(table string) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generations[table]
}

// set stores rows read at generation gen. Rows read before a write that has
// since invalidated the table are dropped.
func (s *Store) set(table, key string, gen uint64, rows reflect.Value) {
	e := entry{rows: rows}
	if s.ttl > 0 {
		e.expires = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generations[table] != gen {
		return
	}
	s.entries[key] = e
	if _, ok := s.tableIndex[table]; !ok {
		s.tableIndex[table] = make(map[string]struct{})
	}
	s.tableIndex[table][key] = struct{}{}
}

// Key renders the query and the destination type into a canonical cache key.
// In-lists are order-insensitive.
func Key(q rowstore.Query, dest any) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s|%T|%s|", q.Table, dest, strings.Join(q.Columns, ","))

	filters := make([]string, len(q.Filters))
	for i, f := range q.Filters {
		filters[i] = filterKey(f)
	}
	slices.Sort(filters)
	b.WriteString(strings.Join(filters, "&"))

	for _, o := range q.Order {
		fmt.Fprintf(&b, "|%s:%t", o.Column, o.Desc)
	}
	fmt.Fprintf(&b, "|%d:%d", q.Offset, q.Limit)
	return b.String()
}

func filterKey(f rowstore.Filter) string {
	if vals, ok := f.Value.([]any); ok {
		parts := make([]string, len(vals))
		for i, v := range vals {
			parts[i] = valueKey(v)
		}
		slices.Sort(parts)
		return fmt.Sprintf("%s.%s(%s)", f.Column, f.Op, strings.Join(parts, ","))
	}
	return fmt.Sprintf("%s.%s.%s", f.Column, f.Op, valueKey(f.Value))
}

func valueKey(v any) string {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "<nil>"
		}
		v = rv.Elem().Interface()
	}
	return fmt.Sprintf("%q", fmt.Sprint(v))
}

func copySlice(v reflect.Value) reflect.Value {
	out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
	reflect.Copy(out, v)
	return out
}
