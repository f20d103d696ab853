// Package listing implements the list-query pipeline shared by every
// master-data screen: case-insensitive substring filtering over designated
// text fields, a stable sort keyed by field and direction, and pagination.
//
// The pipeline is a pure function of (items, query): it never mutates its
// input slice, so repositories can hand over cached sets safely.
package listing

import (
	"sort"
	"strings"
)

// Default and maximum page sizes applied when the query leaves PageSize
// unset or asks for more than the cap.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Query carries the list parameters of a fetch operation.
type Query struct {
	Search    string
	SortField string
	SortOrder string // "asc" (default) or "desc"
	Page      int    // 1-based; 0 means first page
	PageSize  int
}

// Spec describes how the pipeline reads values out of an item type:
// which text fields the search matches, and how to order items for each
// sortable field name. Compare functions follow the cmp convention
// (negative: a before b).
type Spec[T any] struct {
	SearchFields []func(T) string
	SortKeys     map[string]func(a, b T) int
}

// Result is a single page of the processed set.
type Result[T any] struct {
	Items    []T
	Total    int
	Page     int
	PageSize int
}

// Apply runs the full pipeline: filter, then stable sort, then paginate.
// The requested page is honored for filtered and unfiltered sets alike;
// page numbers beyond the last page are clamped to the last page, so a
// caller can walk through search results page by page.
func Apply[T any](items []T, q Query, spec Spec[T]) Result[T] {
	filtered := Filter(items, q.Search, spec.SearchFields)
	sorted := Sort(filtered, q.SortField, q.SortOrder, spec.SortKeys)

	page := q.Page
	if page < 1 {
		page = 1
	}

	return Paginate(sorted, page, q.PageSize)
}

// Filter returns the items whose designated fields contain term as a
// case-insensitive substring. An empty term matches everything. The input
// slice is never mutated.
func Filter[T any](items []T, term string, fields []func(T) string) []T {
	if term == "" || len(fields) == 0 {
		out := make([]T, len(items))
		copy(out, items)
		return out
	}

	needle := strings.ToLower(term)
	out := make([]T, 0, len(items))
	for _, item := range items {
		for _, field := range fields {
			if strings.Contains(strings.ToLower(field(item)), needle) {
				out = append(out, item)
				break
			}
		}
	}

	return out
}

// Sort orders items by the named sort key. Unknown or empty field names
// leave the original order intact. The sort is stable so that equal keys
// keep their fetch order, and it works on a copy.
func Sort[T any](items []T, field, order string, keys map[string]func(a, b T) int) []T {
	out := make([]T, len(items))
	copy(out, items)

	cmp, ok := keys[field]
	if !ok {
		return out
	}

	descending := strings.EqualFold(order, "desc")
	sort.SliceStable(out, func(i, j int) bool {
		c := cmp(out[i], out[j])
		if descending {
			return c > 0
		}
		return c < 0
	})

	return out
}

// Paginate slices one page out of items. Pages are 1-based; out-of-range
// pages clamp to the nearest valid page so a stale page number after a
// shrinking filter still renders the tail of the set.
func Paginate[T any](items []T, page, pageSize int) Result[T] {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	if page < 1 {
		page = 1
	}

	total := len(items)
	lastPage := (total + pageSize - 1) / pageSize
	if lastPage < 1 {
		lastPage = 1
	}
	if page > lastPage {
		page = lastPage
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Result[T]{
		Items:    items[start:end],
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
}

// CompareStrings is a case-insensitive ordering helper for string sort keys.
func CompareStrings(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}
