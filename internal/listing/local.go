package listing

import (
	"context"
	"strings"
)

// LoadAllFunc returns the complete, unpaginated collection
type LoadAllFunc[T any] func(ctx context.Context) ([]T, error)

// MatchFunc reports whether item matches a lower-cased, non-empty search term
type MatchFunc[T any] func(item T, term string) bool

// LocalFetch adapts an endpoint that returns everything into a FetchFunc by
// filtering and slicing in process. An empty search matches every item.
func LocalFetch[T any](load LoadAllFunc[T], match MatchFunc[T]) FetchFunc[T] {
	return func(ctx context.Context, q Query, pageSize int) (Page[T], error) {
		all, err := load(ctx)
		if err != nil {
			return Page[T]{}, err
		}

		term := strings.ToLower(strings.TrimSpace(q.Search))
		filtered := all
		if term != "" {
			filtered = make([]T, 0, len(all))
			for _, item := range all {
				if match(item, term) {
					filtered = append(filtered, item)
				}
			}
		}

		return Page[T]{
			Items: pageOf(filtered, q.Page, pageSize),
			Total: len(filtered),
		}, nil
	}
}

// ContainsFold reports whether any of fields contains the lower-cased term
func ContainsFold(term string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

func pageOf[T any](items []T, page, pageSize int) []T {
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
