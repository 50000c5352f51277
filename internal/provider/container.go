package provider

import (
	"time"

	"github.com/mediastore-next/internal/cart"
	"github.com/mediastore-next/internal/catalog"
	"github.com/mediastore-next/internal/checkout"
	"github.com/mediastore-next/internal/config"
	"github.com/mediastore-next/internal/logger"
	"github.com/mediastore-next/internal/payment"
	"github.com/mediastore-next/internal/payment/paypal"
	"github.com/mediastore-next/internal/payment/vietqr"
	"github.com/mediastore-next/internal/queue"
	"github.com/mediastore-next/internal/repository"
	"github.com/mediastore-next/internal/session"
	"github.com/mediastore-next/internal/upstream"

	"gorm.io/gorm"
)

// Container 依赖容器：集中装配远端客户端与领域服务
type Container struct {
	Config *config.Config
	DB     *gorm.DB

	SessionKeyRepo repository.SessionKeyRepository

	CatalogClient *upstream.CatalogClient
	CartClient    *upstream.CartClient
	OrderClient   *upstream.OrderClient

	Sessions *session.Provider
	Catalog  *catalog.Accessor
	Carts    *cart.Manager
	Payments *payment.Registry
	Queue    *queue.Client
	Checkout *checkout.Orchestrator
}

// NewContainer 创建依赖容器
func NewContainer(cfg *config.Config, db *gorm.DB) *Container {
	c := &Container{
		Config: cfg,
		DB:     db,
	}

	c.SessionKeyRepo = repository.NewSessionKeyRepository(db)
	c.Sessions = session.NewProvider(c.SessionKeyRepo)

	c.CatalogClient = upstream.NewCatalogClient(endpointFromConfig(cfg.Upstream.Catalog))
	c.CartClient = upstream.NewCartClient(endpointFromConfig(cfg.Upstream.Cart))
	c.OrderClient = upstream.NewOrderClient(endpointFromConfig(cfg.Upstream.Order))

	c.Catalog = catalog.NewAccessor(c.CatalogClient, time.Duration(cfg.Redis.TTL)*time.Second)
	c.Carts = cart.NewManager(c.CartClient, c.Catalog, c.Sessions)

	c.Payments = buildPaymentRegistry(cfg.Payment)

	pollDelay := time.Duration(cfg.Payment.StatusPollDelaySec) * time.Second
	queueClient, err := queue.NewClient(&cfg.Queue, pollDelay)
	if err != nil {
		logger.Warnw("queue_client_init_failed", "error", err)
	}
	c.Queue = queueClient

	c.Checkout = checkout.NewOrchestrator(c.Carts, c.OrderClient, c.Payments, c.Queue, cfg.Checkout)

	return c
}

// Close 释放容器持有的资源
func (c *Container) Close() error {
	if c == nil || c.Queue == nil {
		return nil
	}
	return c.Queue.Close()
}

func endpointFromConfig(ep config.ServiceEndpoint) upstream.Endpoint {
	return upstream.Endpoint{
		BaseURL: ep.BaseURL,
		Timeout: time.Duration(ep.TimeoutMS) * time.Millisecond,
	}
}

func buildPaymentRegistry(cfg config.PaymentConfig) *payment.Registry {
	providers := make([]payment.Provider, 0, 2)
	if len(cfg.VietQR) > 0 {
		p, err := vietqr.New(cfg.VietQR)
		if err != nil {
			logger.Warnw("payment_provider_init_failed", "provider", "vietqr", "error", err)
		} else {
			providers = append(providers, p)
		}
	}
	if len(cfg.PayPal) > 0 {
		p, err := paypal.New(cfg.PayPal)
		if err != nil {
			logger.Warnw("payment_provider_init_failed", "provider", "paypal", "error", err)
		} else {
			providers = append(providers, p)
		}
	}
	return payment.NewRegistry(cfg.DefaultProvider, providers...)
}
