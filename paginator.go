package inkwell

// Paginator holds one page of posts along with information about the pagination, such as the total number of pages,
// the current page, the next and previous pages, the page size, and the total number of posts.
type Paginator struct {
	Posts       []*Post `json:"data"`
	CurrentPage int     `json:"currentPage"`
	TotalPages  int     `json:"totalPages"`
	TotalPosts  int     `json:"totalItems"`
	PageSize    int     `json:"itemsPerPage"`
	NextPage    int     `json:"nextPage"`
	PrevPage    int     `json:"prevPage"`
	HasNext     bool    `json:"hasNext"`
	HasPrev     bool    `json:"hasPrev"`
	HasPosts    bool    `json:"-"`
}

// Paginate slices posts into the 1-based page of the given size. A page outside the range of pages
// yields an empty Posts slice, not an error.
func Paginate(posts []*Post, page, pageSize int) Paginator {
	total := len(posts)
	if pageSize < 1 {
		return NewPaginator(nil, total, page, pageSize)
	}

	start := (page - 1) * pageSize
	if page < 1 || start >= total {
		return NewPaginator(nil, total, page, pageSize)
	}

	end := start + pageSize
	if end > total {
		end = total
	}

	return NewPaginator(posts[start:end], total, page, pageSize)
}

// NewPaginator returns a Paginator for a page of posts taken from a collection of total posts.
func NewPaginator(posts []*Post, total, currentPage, pageSize int) Paginator {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}

	nextPage := currentPage + 1
	prevPage := currentPage - 1
	hasNext := currentPage < totalPages
	hasPrev := currentPage > 1

	if nextPage > totalPages {
		nextPage = totalPages
	}

	if prevPage < 1 {
		prevPage = 1
	}

	if posts == nil {
		posts = []*Post{}
	}

	return Paginator{
		Posts:       posts,
		CurrentPage: currentPage,
		TotalPages:  totalPages,
		TotalPosts:  total,
		PageSize:    pageSize,
		NextPage:    nextPage,
		PrevPage:    prevPage,
		HasNext:     hasNext,
		HasPrev:     hasPrev,
		HasPosts:    len(posts) > 0,
	}
}
