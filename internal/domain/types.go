package domain

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Pagination carries paging params and totals.
type Pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
	Total    int `json:"total"`
}

// NewPagination clamps user supplied paging values. Page numbers start at 1.
func NewPagination(page, pageSize int) Pagination {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return Pagination{Page: page, PageSize: pageSize}
}

// Window records total and returns the [start, end) slice bounds of the page.
func (p *Pagination) Window(total int) (int, int) {
	p.Total = total
	if total < 0 {
		total = 0
	}
	size := p.PageSize
	if size < 1 {
		size = DefaultPageSize
	}
	skipped := max(p.Page-1, 0)
	start := total
	// compare page counts first, the offset product can overflow
	if skipped <= total/size {
		start = min(skipped*size, total)
	}
	end := total
	if size < total-start {
		end = start + size
	}
	return start, end
}
