package app

import "hotel_booking/internal/domain"

const DefaultPageSize = 5

// Paginate slices one 1-based page out of items. Pages past the end are empty.
func Paginate[T any](items []T, q domain.PageQuery) domain.Page[T] {
	size := q.Size
	if size <= 0 {
		size = DefaultPageSize
	}
	page := q.Page
	if page <= 0 {
		page = 1
	}
	total := len(items)
	out := domain.Page[T]{
		Items:    []T{},
		Page:     page,
		PageSize: size,
		Total:    total,
	}
	if total > 0 {
		out.TotalPages = (total-1)/size + 1
	}
	// Compare against the page count first so (page-1)*size cannot overflow.
	if page-1 >= out.TotalPages {
		return out
	}
	start := (page - 1) * size
	end := start + size
	if end > total {
		end = total
	}
	out.Items = append(out.Items, items[start:end]...)
	return out
}
