package listing

// PageInfo 分页信息。Page 总在 [1, Pages] 内，Pages 至少为 1。
type PageInfo struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	Pages      int `json:"pages"`
	StartIndex int `json:"startIndex"`
}

// Paged 当前页数据
type Paged[T any] struct {
	Items []T `json:"items"`
	PageInfo
}

// TotalPages ceil(count/perPage)，最少 1 页
func TotalPages(count, perPage int) int {
	if perPage <= 0 || count <= 0 {
		return 1
	}
	return (count + perPage - 1) / perPage
}

// ClampPage 把页码限制在 [1, totalPages]
func ClampPage(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// NormalizePerPage 每页条数：非正数用默认值，超过上限取上限
func NormalizePerPage(limit, defaultLimit, maxLimit int) int {
	if limit <= 0 {
		limit = defaultLimit
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	if limit <= 0 {
		limit = 1
	}
	return limit
}

// Paginate 取第 page 页，越界页码会被钳制
func Paginate[T any](items []T, page, perPage int) Paged[T] {
	if perPage <= 0 {
		perPage = 1
	}
	total := len(items)
	pages := TotalPages(total, perPage)
	page = ClampPage(page, pages)

	start := (page - 1) * perPage
	end := start + perPage
	if end > total {
		end = total
	}

	slice := make([]T, 0, end-start)
	if start < end {
		slice = append(slice, items[start:end]...)
	}

	return Paged[T]{
		Items: slice,
		PageInfo: PageInfo{
			Page:       page,
			Limit:      perPage,
			Total:      total,
			Pages:      pages,
			StartIndex: start,
		},
	}
}
