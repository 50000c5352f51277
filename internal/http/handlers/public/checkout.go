package public

import (
	"errors"
	"strings"

	"github.com/mediastore-next/internal/checkout"
	"github.com/mediastore-next/internal/http/handlers/shared"
	"github.com/mediastore-next/internal/http/response"
	"github.com/mediastore-next/internal/upstream"

	"github.com/gin-gonic/gin"
)

// QuoteCheckout 结账报价：当前购物车的小计、运费与总计
func (h *Handler) QuoteCheckout(c *gin.Context) {
	key := h.Sessions.GetSessionKey(shared.SessionKeyFromRequest(c))
	shared.EchoSessionKey(c, key)
	response.Success(c, h.Checkout.QuoteCart(c.Request.Context(), key))
}

// PlaceOrder 下单：校验配送信息、创建远端订单、发起支付
func (h *Handler) PlaceOrder(c *gin.Context) {
	var input checkout.PlaceOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "invalid order payload")
		return
	}

	key := h.Sessions.GetSessionKey(shared.SessionKeyFromRequest(c))
	shared.EchoSessionKey(c, key)

	result, err := h.Checkout.PlaceOrder(c.Request.Context(), key, input)
	if err != nil {
		var invalid *checkout.ValidationError
		switch {
		case errors.As(err, &invalid):
			response.ErrorWithData(c, response.CodeBadRequest, "delivery info invalid", gin.H{"fields": invalid.Fields})
		case errors.Is(err, checkout.ErrCartEmpty):
			response.BadRequest(c, "cart is empty")
		case errors.Is(err, checkout.ErrOrderFailed):
			response.UpstreamError(c, "order create failed")
		default:
			response.UpstreamError(c, "payment initiate failed")
		}
		return
	}
	response.Success(c, result)
}

// GetOrder 查询订单
func (h *Handler) GetOrder(c *gin.Context) {
	orderID := strings.TrimSpace(c.Param("id"))
	if orderID == "" {
		response.BadRequest(c, "order id is required")
		return
	}
	order, err := h.Checkout.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		if errors.Is(err, upstream.ErrNotFound) {
			response.NotFound(c, "order not found")
			return
		}
		response.UpstreamError(c, "order fetch failed")
		return
	}
	response.Success(c, order)
}

// CancelOrder 取消订单
func (h *Handler) CancelOrder(c *gin.Context) {
	orderID := strings.TrimSpace(c.Param("id"))
	if orderID == "" {
		response.BadRequest(c, "order id is required")
		return
	}
	order, err := h.Checkout.CancelOrder(c.Request.Context(), orderID)
	if err != nil {
		if errors.Is(err, upstream.ErrNotFound) {
			response.NotFound(c, "order not found")
			return
		}
		response.UpstreamError(c, "order cancel failed")
		return
	}
	response.Success(c, order)
}
