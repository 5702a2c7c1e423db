// Package listing filters and sorts the in-memory collections behind the
// plans and progress pages. Every call recomputes from the full source;
// collections are page-sized so nothing is cached or updated incrementally.
package listing

import (
	"sort"
	"strings"
)

// Predicate keeps an item when it returns true.
type Predicate[T any] func(T) bool

// Less orders two items.
type Less[T any] func(a, b T) bool

// Apply returns a new slice holding the items that satisfy every predicate,
// in order, stably sorted by less. A nil less keeps source order. The input
// is never modified.
func Apply[T any](items []T, preds []Predicate[T], less Less[T]) []T {
	out := make([]T, 0, len(items))
next:
	for _, it := range items {
		for _, p := range preds {
			if p != nil && !p(it) {
				continue next
			}
		}
		out = append(out, it)
	}
	if less != nil {
		sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	}
	return out
}

// Sort keys
const (
	SortNewest       = "newest"
	SortOldest       = "oldest"
	SortPopular      = "popular"
	SortAlphabetical = "alphabetical"
	SortHoursSpent   = "hoursSpent"
	SortRating       = "rating"
)

// containsFold reports whether needle (already lower-cased) occurs in s,
// ignoring case.
func containsFold(s, needle string) bool {
	return strings.Contains(strings.ToLower(s), needle)
}

func anyContainsFold(list []string, needle string) bool {
	for _, s := range list {
		if containsFold(s, needle) {
			return true
		}
	}
	return false
}

// facetOff reports whether a facet value means "no filtering".
func facetOff(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, "all")
}
