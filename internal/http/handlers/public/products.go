package public

import (
	"strconv"
	"strings"

	"github.com/mediastore-next/internal/http/handlers/shared"
	"github.com/mediastore-next/internal/http/response"
	"github.com/mediastore-next/internal/upstream"

	"github.com/gin-gonic/gin"
)

// GetProducts 商品列表（搜索、分类、价格区间、排序、分页）
func (h *Handler) GetProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = shared.NormalizePagination(page, pageSize)

	params := upstream.ListParams{
		Search:   strings.TrimSpace(c.Query("search")),
		Category: strings.TrimSpace(c.Query("category")),
		Sort:     strings.TrimSpace(c.Query("sort")),
		Page:     page,
		PageSize: pageSize,
	}
	if raw := strings.TrimSpace(c.Query("price_min")); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			params.PriceMin = &v
		}
	}
	if raw := strings.TrimSpace(c.Query("price_max")); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			params.PriceMax = &v
		}
	}

	result := h.Catalog.ListProducts(c.Request.Context(), params)
	response.SuccessWithPage(c, result.Items, response.Pagination{
		Page:      result.Page,
		PageSize:  result.Size,
		Total:     result.Total,
		TotalPage: shared.TotalPages(result.Total, result.Size),
	})
}

// GetProduct 商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		response.BadRequest(c, "product id is required")
		return
	}
	product, ok := h.Catalog.GetProductByID(c.Request.Context(), id)
	if !ok {
		response.NotFound(c, "product not found")
		return
	}
	response.Success(c, product)
}
