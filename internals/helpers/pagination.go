package helper

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type Paging struct {
	Page     int
	PageSize int
	Offset   int
	Limit    int
}

// ResolvePaging lee ?page= y ?page_size= y normaliza:
// page >= 1, page_size en [1, maxPageSize].
func ResolvePaging(c *fiber.Ctx, defaultPageSize, maxPageSize int) Paging {
	pageStr := strings.TrimSpace(c.Query("page", "1"))
	sizeStr := strings.TrimSpace(c.Query("page_size", strconv.Itoa(defaultPageSize)))

	page, _ := strconv.Atoi(pageStr)
	if page < 1 {
		page = 1
	}

	size, _ := strconv.Atoi(sizeStr)
	if size <= 0 {
		size = defaultPageSize
	}
	if maxPageSize > 0 && size > maxPageSize {
		size = maxPageSize
	}

	return Paging{
		Page:     page,
		PageSize: size,
		Offset:   (page - 1) * size,
		Limit:    size,
	}
}

type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

func BuildPagination(total int64, page, pageSize int) Pagination {
	if pageSize <= 0 {
		pageSize = 20
	}
	if page <= 0 {
		page = 1
	}
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	if totalPages == 0 {
		totalPages = 1
	}
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}
