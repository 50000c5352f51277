package router

import (
	"github.com/mediastore-next/internal/config"
	adminhandlers "github.com/mediastore-next/internal/http/handlers/admin"
	publichandlers "github.com/mediastore-next/internal/http/handlers/public"
	"github.com/mediastore-next/internal/logger"
	"github.com/mediastore-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)

	r.Use(RecoveryMiddleware())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		// 商品目录
		apiV1.GET("/products", publicHandler.GetProducts)
		apiV1.GET("/products/:id", publicHandler.GetProduct)

		// 购物车（按 X-Session-Key 寻址）
		apiV1.GET("/cart", publicHandler.GetCart)
		apiV1.POST("/cart/items", publicHandler.AddCartItem)
		apiV1.PATCH("/cart/items", publicHandler.UpdateCartItem)
		apiV1.DELETE("/cart/items/:product_id", publicHandler.RemoveCartItem)
		apiV1.DELETE("/cart", publicHandler.ClearCart)

		// 结账与订单
		apiV1.GET("/checkout/quote", publicHandler.QuoteCheckout)
		apiV1.POST("/checkout/orders", publicHandler.PlaceOrder)
		apiV1.GET("/orders/:id", publicHandler.GetOrder)
		apiV1.POST("/orders/:id/cancel", publicHandler.CancelOrder)

		// 支付
		apiV1.POST("/payments/capture", publicHandler.CapturePayment)
		apiV1.GET("/payments/status", publicHandler.GetPaymentStatus)

		// 管理端（令牌鉴权）
		adminGroup := apiV1.Group("/admin")
		adminGroup.Use(AdminTokenMiddleware(cfg.Admin.Token))
		{
			adminGroup.GET("/products", adminHandler.ListProducts)
			adminGroup.POST("/products", adminHandler.CreateProduct)
			adminGroup.PUT("/products/:id", adminHandler.UpdateProduct)
			adminGroup.DELETE("/products/:id", adminHandler.DeleteProduct)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
