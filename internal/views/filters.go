package views

import (
	"strings"

	"gestionale/internal/core"
)

// Predicate filters one entity. A nil predicate means "no filter" and
// is skipped, so chips that are not set cost nothing.
type Predicate[T any] func(T) bool

// Apply keeps the items matching every non-nil predicate. Filters
// AND-combine and never mutate the input.
func Apply[T any](items []T, preds ...Predicate[T]) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		keep := true
		for _, p := range preds {
			if p != nil && !p(item) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, item)
		}
	}
	return out
}

// TextSearch matches a case-insensitive substring across the given
// fields. An empty query disables the filter.
func TextSearch[T any](query string, fields func(T) []string) Predicate[T] {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	return func(item T) bool {
		for _, f := range fields(item) {
			if strings.Contains(strings.ToLower(f), query) {
				return true
			}
		}
		return false
	}
}

// Field matches one string field exactly. An empty want disables the
// filter.
func Field[T any](want string, get func(T) string) Predicate[T] {
	if want == "" {
		return nil
	}
	return func(item T) bool {
		return get(item) == want
	}
}

// InMonth keeps entities dated within one calendar month. A zero year
// disables the filter; entities without a date never match.
func InMonth[T any](year, month int, date func(T) core.Date) Predicate[T] {
	if year == 0 {
		return nil
	}
	return func(item T) bool {
		d := date(item)
		if d.IsZero() {
			return false
		}
		return d.Year() == year && d.Month() == month
	}
}
