// Package query shapes record collections for list endpoints: substring
// filtering, stable sorting against an allow-list of keys, and 1-based paging.
package query

import (
	"cmp"
	"errors"
	"slices"
	"strings"
	"time"
)

// ErrInvalidPage is returned when a page index or size below 1 is requested.
var ErrInvalidPage = errors.New("page index and page size must be at least 1")

// Page selects a 1-based page of Size records.
type Page struct {
	Index int
	Size  int
}

// Params carries the caller-supplied shaping options. A nil Page returns the
// whole filtered collection.
type Params struct {
	Filter     string
	Page       *Page
	Sort       string
	Descending bool
}

// Validate rejects non-positive paging input.
func (p Params) Validate() error {
	if p.Page == nil {
		return nil
	}
	if p.Page.Index < 1 || p.Page.Size < 1 {
		return ErrInvalidPage
	}
	return nil
}

// Field names a string attribute considered by the filter.
type Field[T any] struct {
	Name  string
	Value func(T) string
}

// SortKey names a sortable attribute and its ascending comparison.
type SortKey[T any] struct {
	Name    string
	Compare func(a, b T) int
}

// Spec describes how one record type is shaped.
type Spec[T any] struct {
	Identity func(T) int
	Filter   []Field[T]
	Sort     []SortKey[T]
}

// Result is a shaped page plus the number of records that passed the filter.
type Result[T any] struct {
	Items []T
	Total int
}

// Shape filters, sorts, then pages records. The input slice is not modified.
func Shape[T any](records []T, spec Spec[T], p Params) (Result[T], error) {
	if err := p.Validate(); err != nil {
		return Result[T]{}, err
	}
	out := Filter(records, spec.Filter, p.Filter)
	SortStable(out, spec, p.Sort, p.Descending)
	return Result[T]{Items: Paginate(out, p.Page), Total: len(out)}, nil
}

// Filter keeps records where any field contains term, ignoring case. An empty
// term, or a spec without filter fields, keeps every record. The result is a
// new slice.
func Filter[T any](records []T, fields []Field[T], term string) []T {
	term = strings.TrimSpace(term)
	if term == "" || len(fields) == 0 {
		return slices.Clone(records)
	}
	needle := strings.ToLower(term)
	out := make([]T, 0, len(records))
	for _, rec := range records {
		for _, f := range fields {
			if strings.Contains(strings.ToLower(f.Value(rec)), needle) {
				out = append(out, rec)
				break
			}
		}
	}
	return out
}

// SortStable orders records in place by the named key. Unknown or empty keys
// fall back to identity ascending and ignore descending.
func SortStable[T any](records []T, spec Spec[T], key string, descending bool) {
	compare, ok := spec.lookup(key)
	if !ok {
		compare = func(a, b T) int { return cmp.Compare(spec.Identity(a), spec.Identity(b)) }
		descending = false
	}
	if descending {
		slices.SortStableFunc(records, func(a, b T) int { return compare(b, a) })
		return
	}
	slices.SortStableFunc(records, compare)
}

// Paginate returns the requested page as a subslice of records. A page past
// the end is empty, and a short last page is returned as is.
func Paginate[T any](records []T, page *Page) []T {
	if page == nil {
		return records
	}
	if page.Index < 1 || page.Size < 1 {
		return []T{}
	}
	// compare page counts first so Index*Size cannot overflow
	pages := len(records) / page.Size
	if len(records)%page.Size != 0 {
		pages++
	}
	if page.Index-1 >= pages {
		return []T{}
	}
	start := (page.Index - 1) * page.Size
	return records[start : start+min(page.Size, len(records)-start)]
}

// SortKeys lists the allow-listed sort key names.
func (s Spec[T]) SortKeys() []string {
	names := make([]string, 0, len(s.Sort))
	for _, k := range s.Sort {
		names = append(names, k.Name)
	}
	return names
}

func (s Spec[T]) lookup(key string) (func(a, b T) int, bool) {
	key = canonicalKey(key)
	if key == "" {
		return nil, false
	}
	for _, k := range s.Sort {
		if canonicalKey(k.Name) == key {
			return k.Compare, true
		}
	}
	return nil, false
}

// canonicalKey lets "DishId", "dishid" and "dish_id" name the same key.
func canonicalKey(key string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(key), "_", ""))
}

// ByInt compares an integer attribute.
func ByInt[T any](value func(T) int) func(a, b T) int {
	return func(a, b T) int { return cmp.Compare(value(a), value(b)) }
}

// ByFloat compares a floating point attribute.
func ByFloat[T any](value func(T) float64) func(a, b T) int {
	return func(a, b T) int { return cmp.Compare(value(a), value(b)) }
}

// ByString compares a string attribute ignoring case.
func ByString[T any](value func(T) string) func(a, b T) int {
	return func(a, b T) int {
		return strings.Compare(strings.ToLower(value(a)), strings.ToLower(value(b)))
	}
}

// ByTime compares a time attribute.
func ByTime[T any](value func(T) time.Time) func(a, b T) int {
	return func(a, b T) int { return value(a).Compare(value(b)) }
}
