package paginator

type PaginatedResponse[T any] struct {
	Items       []T  `json:"items"`
	CurrentPage int  `json:"current_page"`
	TotalPages  int  `json:"total_pages"`
	PrevPage    *int `json:"prev_page"`
	NextPage    *int `json:"next_page"`
	TotalItems  int  `json:"total_items"`
}

type Paginator[T any] interface {
	// Pagination over an ordered, in-memory list.
	Paginate(items []T, page, limit int) *PaginatedResponse[T]
}

type paginatorImpl[T any] struct{}

func NewPaginator[T any]() Paginator[T] {
	return &paginatorImpl[T]{}
}

func (p *paginatorImpl[T]) Paginate(items []T, page, limit int) *PaginatedResponse[T] {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	totalItems := len(items)
	totalPages := totalItems / limit
	if totalItems%limit != 0 {
		totalPages++
	}

	// Pages past the end are empty. Checking the page before multiplying keeps
	// huge page or limit values from overflowing.
	offset := totalItems
	if page <= totalPages {
		offset = (page - 1) * limit
	}
	end := offset + min(limit, totalItems-offset)

	// Determine prev/next pages
	var prevPage, nextPage *int
	if page > 1 {
		p := page - 1
		prevPage = &p
	}
	if page < totalPages {
		p := page + 1
		nextPage = &p
	}

	return &PaginatedResponse[T]{
		Items:       items[offset:end:end],
		CurrentPage: page,
		TotalPages:  totalPages,
		PrevPage:    prevPage,
		NextPage:    nextPage,
		TotalItems:  totalItems,
	}
}
