package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/mediastore-next/internal/models"
)

// OrderItemInput 订单项
type OrderItemInput struct {
	ProductID    string       `json:"productId"`
	ProductTitle string       `json:"productTitle"`
	Quantity     int          `json:"quantity"`
	Price        models.Money `json:"price"`
}

// CreateOrderInput 创建订单输入
type CreateOrderInput struct {
	CustomerEmail string           `json:"customerEmail"`
	CustomerName  string           `json:"customerName"`
	Phone         string           `json:"phone"`
	AddressLine   string           `json:"addressLine"`
	City          string           `json:"city"`
	Province      string           `json:"province"`
	PostalCode    string           `json:"postalCode"`
	Note          string           `json:"note,omitempty"`
	ShippingFee   models.Money     `json:"shippingFee"`
	Items         []OrderItemInput `json:"items"`
}

// Order 远端订单
type Order struct {
	ID            int64            `json:"id"`
	OrderNumber   string           `json:"orderNumber,omitempty"`
	CustomerEmail string           `json:"customerEmail"`
	CustomerName  string           `json:"customerName"`
	ShippingFee   models.Money     `json:"shippingFee"`
	Subtotal      models.Money     `json:"subtotal"`
	Total         models.Money     `json:"total"`
	Status        string           `json:"status,omitempty"`
	Items         []OrderItemInput `json:"items"`
	CreatedAt     string           `json:"createdAt,omitempty"`
}

// orderEnvelope 订单服务的响应包装
type orderEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    *Order `json:"data"`
}

// OrderClient 远端订单服务客户端
type OrderClient struct {
	endpoint Endpoint
	client   httpDoer
}

// NewOrderClient 创建订单服务客户端
func NewOrderClient(endpoint Endpoint) *OrderClient {
	endpoint = endpoint.normalize()
	return &OrderClient{
		endpoint: endpoint,
		client:   newHTTPClient(endpoint.Timeout),
	}
}

// CreateOrder 创建订单
func (c *OrderClient) CreateOrder(ctx context.Context, input CreateOrderInput) (*Order, error) {
	if c == nil || !c.endpoint.configured() {
		return nil, ErrNotConfigured
	}
	var envelope orderEnvelope
	if err := doJSON(ctx, c.client, http.MethodPost, c.endpoint.BaseURL+"/orders", nil, input, &envelope); err != nil {
		return nil, err
	}
	if envelope.Data == nil {
		return nil, fmt.Errorf("%w: empty order payload", ErrResponseInvalid)
	}
	if !envelope.Success && strings.TrimSpace(envelope.Message) != "" {
		return nil, fmt.Errorf("%w: %s", ErrRequestFailed, envelope.Message)
	}
	return envelope.Data, nil
}

// GetOrder 按 ID 查询订单
func (c *OrderClient) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	if c == nil || !c.endpoint.configured() {
		return nil, ErrNotConfigured
	}
	var envelope orderEnvelope
	if err := doJSON(ctx, c.client, http.MethodGet, c.endpoint.BaseURL+"/orders/"+url.PathEscape(orderID), nil, nil, &envelope); err != nil {
		return nil, err
	}
	if envelope.Data == nil {
		return nil, ErrNotFound
	}
	return envelope.Data, nil
}

// CancelOrder 取消订单
func (c *OrderClient) CancelOrder(ctx context.Context, orderID string) (*Order, error) {
	if c == nil || !c.endpoint.configured() {
		return nil, ErrNotConfigured
	}
	var envelope orderEnvelope
	if err := doJSON(ctx, c.client, http.MethodPost, c.endpoint.BaseURL+"/orders/"+url.PathEscape(orderID)+"/cancel", nil, nil, &envelope); err != nil {
		return nil, err
	}
	if envelope.Data == nil {
		return nil, ErrNotFound
	}
	return envelope.Data, nil
}
