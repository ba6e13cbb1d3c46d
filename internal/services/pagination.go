package services

import (
	"math"

	"yatube/internal/models"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Page is one slice of a newest-first post listing. Number is 1-based; a page
// past the end has no items but is not an error.
type Page struct {
	Items      []models.Post `json:"items"`
	Number     int           `json:"page"`
	PageSize   int           `json:"page_size"`
	Total      int64         `json:"total"`
	TotalPages int           `json:"total_pages"`
}

func (p *Page) HasNext() bool {
	return p.Number < p.TotalPages
}

func (p *Page) HasPrevious() bool {
	return p.Number > 1
}

// normalizePage clamps the requested page and size into usable values.
func normalizePage(page, size, defaultSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = defaultSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	// Keep (page-1)*size within an int32 row offset.
	if maxPage := math.MaxInt32/size + 1; page > maxPage {
		page = maxPage
	}
	return page, size
}

// pageOffset returns the row offset of page, saturating instead of overflowing.
func pageOffset(page, size int) int {
	if page < 1 || size < 1 {
		return 0
	}
	if page-1 > math.MaxInt32/size {
		return math.MaxInt32
	}
	return (page - 1) * size
}

func totalPages(total int64, size int) int {
	n := int(math.Ceil(float64(total) / float64(size)))
	if n == 0 {
		n = 1
	}
	return n
}
