package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/mediastore-next/internal/http/handlers/shared"
	"github.com/mediastore-next/internal/http/response"
	"github.com/mediastore-next/internal/models"
	"github.com/mediastore-next/internal/upstream"

	"github.com/gin-gonic/gin"
)

// ListProducts 商品列表（管理端，与前台共用目录访问器）
func (h *Handler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = shared.NormalizePagination(page, pageSize)

	result := h.Catalog.ListProducts(c.Request.Context(), upstream.ListParams{
		Search:   strings.TrimSpace(c.Query("search")),
		Category: strings.TrimSpace(c.Query("category")),
		Page:     page,
		PageSize: pageSize,
	})
	response.SuccessWithPage(c, result.Items, response.Pagination{
		Page:      result.Page,
		PageSize:  result.Size,
		Total:     result.Total,
		TotalPage: shared.TotalPages(result.Total, result.Size),
	})
}

// CreateProduct 创建商品（代理远端目录服务）
func (h *Handler) CreateProduct(c *gin.Context) {
	var input models.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "invalid product payload")
		return
	}
	if !input.Category.Valid() {
		response.BadRequest(c, "unknown category")
		return
	}
	product, err := h.CatalogClient.CreateProduct(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, upstream.ErrNotConfigured) {
			response.UpstreamError(c, "catalog service not configured")
			return
		}
		response.UpstreamError(c, "product create failed")
		return
	}
	response.Success(c, product)
}

// UpdateProduct 更新商品（代理远端目录服务）
func (h *Handler) UpdateProduct(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		response.BadRequest(c, "product id is required")
		return
	}
	var input models.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "invalid product payload")
		return
	}
	if input.Category != "" && !input.Category.Valid() {
		response.BadRequest(c, "unknown category")
		return
	}
	product, err := h.CatalogClient.UpdateProduct(c.Request.Context(), id, input)
	if err != nil {
		switch {
		case errors.Is(err, upstream.ErrNotFound):
			response.NotFound(c, "product not found")
		case errors.Is(err, upstream.ErrNotConfigured):
			response.UpstreamError(c, "catalog service not configured")
		default:
			response.UpstreamError(c, "product update failed")
		}
		return
	}
	h.Catalog.InvalidateProduct(c.Request.Context(), id)
	response.Success(c, product)
}

// DeleteProduct 删除商品（代理远端目录服务）
func (h *Handler) DeleteProduct(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		response.BadRequest(c, "product id is required")
		return
	}
	if err := h.CatalogClient.DeleteProduct(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, upstream.ErrNotFound):
			response.NotFound(c, "product not found")
		case errors.Is(err, upstream.ErrNotConfigured):
			response.UpstreamError(c, "catalog service not configured")
		default:
			response.UpstreamError(c, "product delete failed")
		}
		return
	}
	h.Catalog.InvalidateProduct(c.Request.Context(), id)
	response.Success(c, gin.H{"deleted": true})
}
