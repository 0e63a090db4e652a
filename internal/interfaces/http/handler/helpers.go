package handler

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// toDecimal converts a float64 to a decimal.Decimal
func toDecimal(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

// bindPagination reads page/page_size query parameters into the given
// fields, keeping their current values as defaults
func bindPagination(c *gin.Context, page, pageSize *int) error {
	if pageStr := c.Query("page"); pageStr != "" {
		p, err := strconv.Atoi(pageStr)
		if err != nil || p < 1 {
			return fmt.Errorf("invalid page parameter")
		}
		*page = p
	}
	if sizeStr := c.Query("page_size"); sizeStr != "" {
		s, err := strconv.Atoi(sizeStr)
		if err != nil || s < 1 || s > 100 {
			return fmt.Errorf("invalid page_size parameter")
		}
		*pageSize = s
	}
	return nil
}
