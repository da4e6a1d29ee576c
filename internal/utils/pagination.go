package utils

import (
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

const (
	maxPageLimit = 100
	// maxOffset bounds (page-1)*limit so the offset never overflows.
	maxOffset = math.MaxInt32
)

// Pagination holds pagination parameters.
type Pagination struct {
	Page   int
	Limit  int
	Offset int
}

// ParsePagination reads page and limit query params with sane defaults.
func ParsePagination(c *fiber.Ctx) Pagination {
	page := parseInt(c.Query("page", "1"), 1)
	limit := parseInt(c.Query("limit", "20"), 20)
	if limit <= 0 {
		limit = 20
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if page <= 0 {
		page = 1
	}
	if maxPage := maxOffset/limit + 1; page > maxPage {
		page = maxPage
	}

	return Pagination{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// Meta renders the pagination block of list responses.
func (p Pagination) Meta(total int64) fiber.Map {
	return fiber.Map{
		"current_page":   p.Page,
		"items_per_page": p.Limit,
		"total_items":    total,
	}
}

// Window returns the [start, end) bounds of the page within n items.
func (p Pagination) Window(n int) (int, int) {
	start := min(max(p.Offset, 0), n)
	end := min(start+p.Limit, n)
	return start, end
}

func parseInt(value string, fallback int) int {
	if parsed, err := strconv.Atoi(value); err == nil {
		return parsed
	}
	return fallback
}
