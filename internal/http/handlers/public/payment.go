package public

import (
	"errors"
	"strings"

	"github.com/mediastore-next/internal/http/handlers/shared"
	"github.com/mediastore-next/internal/http/response"
	"github.com/mediastore-next/internal/payment"

	"github.com/gin-gonic/gin"
)

// capturePaymentRequest 捕获支付请求
type capturePaymentRequest struct {
	Provider  string `json:"provider"`
	Reference string `json:"reference" binding:"required"`
}

// CapturePayment 捕获支付（跳转渠道回跳后调用）
func (h *Handler) CapturePayment(c *gin.Context) {
	var req capturePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "reference is required")
		return
	}
	key := shared.SessionKeyFromRequest(c)
	result, err := h.Checkout.ConfirmPayment(c.Request.Context(), key, req.Provider, req.Reference)
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrProviderUnknown):
			response.BadRequest(c, "unknown payment provider")
		case errors.Is(err, payment.ErrNotSupported):
			response.BadRequest(c, "provider has no capture step")
		default:
			response.UpstreamError(c, "payment capture failed")
		}
		return
	}
	response.Success(c, result)
}

// GetPaymentStatus 查询支付状态（扫码渠道客户端轮询）
func (h *Handler) GetPaymentStatus(c *gin.Context) {
	reference := strings.TrimSpace(c.Query("reference"))
	if reference == "" {
		response.BadRequest(c, "reference is required")
		return
	}
	providerName := strings.TrimSpace(c.Query("provider"))
	key := shared.SessionKeyFromRequest(c)

	result, err := h.Checkout.PaymentStatus(c.Request.Context(), key, providerName, reference)
	if err != nil {
		if errors.Is(err, payment.ErrProviderUnknown) {
			response.BadRequest(c, "unknown payment provider")
			return
		}
		response.UpstreamError(c, "payment status query failed")
		return
	}
	response.Success(c, result)
}
