package domain

import "math"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100

	// MaxPageNumber keeps (number-1)*size within int for any valid size.
	MaxPageNumber = math.MaxInt / MaxPageSize
)

// PageRequest is a normalized 1-based page selection.
type PageRequest struct {
	Number int
	Size   int
}

// NewPageRequest clamps the inputs: number < 1 becomes 1, size < 1 becomes
// DefaultPageSize and size above MaxPageSize is capped. Numbers past
// MaxPageNumber are capped too; such a page is always empty.
func NewPageRequest(number, size int) PageRequest {
	if number < 1 {
		number = 1
	}
	if number > MaxPageNumber {
		number = MaxPageNumber
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return PageRequest{Number: number, Size: size}
}

func (p PageRequest) Skip() int {
	return (p.Number - 1) * p.Size
}

// Pagination is the page metadata returned alongside list results.
type Pagination struct {
	TotalCount int64 `json:"total_count"`
	PageSize   int   `json:"page_size"`
	PageNumber int   `json:"page_number"`
	TotalPages int   `json:"total_pages"`
	Skip       int   `json:"skip"`
}

func (p PageRequest) Paginate(total int64) Pagination {
	pages := 0
	if total > 0 {
		pages = int((total + int64(p.Size) - 1) / int64(p.Size))
	}
	return Pagination{
		TotalCount: total,
		PageSize:   p.Size,
		PageNumber: p.Number,
		TotalPages: pages,
		Skip:       p.Skip(),
	}
}
