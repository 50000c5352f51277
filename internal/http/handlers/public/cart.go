package public

import (
	"strings"

	"github.com/mediastore-next/internal/cart"
	"github.com/mediastore-next/internal/http/handlers/shared"
	"github.com/mediastore-next/internal/http/response"
	"github.com/mediastore-next/internal/models"

	"github.com/gin-gonic/gin"
)

// cartPayload 购物车响应
type cartPayload struct {
	SessionKey string            `json:"sessionKey"`
	Loading    bool              `json:"loading"`
	Items      []models.CartLine `json:"items"`
	Subtotal   models.Money      `json:"subtotal"`
	TotalItems int               `json:"totalItems"`
}

// cartItemRequest 购物车变更请求
type cartItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Qty       int    `json:"qty"`
}

// resolveCart 解析请求的会话键并返回对应购物车。
// 生效的会话键总是写回响应头，客户端据此持久化并在后续请求回传。
func (h *Handler) resolveCart(c *gin.Context) *cart.Synchronizer {
	key := h.Sessions.GetSessionKey(shared.SessionKeyFromRequest(c))
	shared.EchoSessionKey(c, key)
	return h.Carts.Get(c.Request.Context(), key)
}

func (h *Handler) cartPayload(c *gin.Context, syncer *cart.Synchronizer) cartPayload {
	ctx := c.Request.Context()
	return cartPayload{
		SessionKey: syncer.SessionKey(),
		Loading:    syncer.Loading(),
		Items:      syncer.Lines(ctx),
		Subtotal:   syncer.Subtotal(ctx),
		TotalItems: syncer.TotalItems(ctx),
	}
}

// GetCart 获取当前会话的购物车
func (h *Handler) GetCart(c *gin.Context) {
	syncer := h.resolveCart(c)
	response.Success(c, h.cartPayload(c, syncer))
}

// AddCartItem 添加商品到购物车
func (h *Handler) AddCartItem(c *gin.Context) {
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "productId is required")
		return
	}
	syncer := h.resolveCart(c)
	syncer.AddItem(c.Request.Context(), req.ProductID, req.Qty)
	response.Success(c, h.cartPayload(c, syncer))
}

// UpdateCartItem 更新购物车商品数量
func (h *Handler) UpdateCartItem(c *gin.Context) {
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "productId is required")
		return
	}
	syncer := h.resolveCart(c)
	syncer.UpdateQty(c.Request.Context(), req.ProductID, req.Qty)
	response.Success(c, h.cartPayload(c, syncer))
}

// RemoveCartItem 从购物车删除商品
func (h *Handler) RemoveCartItem(c *gin.Context) {
	productID := strings.TrimSpace(c.Param("product_id"))
	if productID == "" {
		response.BadRequest(c, "product id is required")
		return
	}
	syncer := h.resolveCart(c)
	syncer.RemoveItem(c.Request.Context(), productID)
	response.Success(c, h.cartPayload(c, syncer))
}

// ClearCart 清空购物车并废弃会话键。
// 下一次请求不回传会话键时会分配全新会话。
func (h *Handler) ClearCart(c *gin.Context) {
	key := shared.SessionKeyFromRequest(c)
	if key == "" {
		response.Success(c, gin.H{"cleared": true})
		return
	}
	h.Carts.Clear(key)
	response.Success(c, gin.H{"cleared": true})
}
