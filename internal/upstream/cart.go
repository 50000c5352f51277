package upstream

import (
	"context"
	"net/http"
	"net/url"

	"github.com/mediastore-next/internal/models"
)

// RemoteCartItem 远端购物车项
type RemoteCartItem struct {
	ID        int64        `json:"id,omitempty"`
	ProductID string       `json:"productId"`
	Quantity  int          `json:"quantity"`
	Price     models.Money `json:"price"`
}

// RemoteCart 远端购物车记录，按会话键寻址
type RemoteCart struct {
	ID         int64            `json:"id,omitempty"`
	SessionKey string           `json:"sessionKey"`
	Items      []RemoteCartItem `json:"items"`
}

// CartItemInput 购物车项写入参数
type CartItemInput struct {
	ProductID string       `json:"productId"`
	Quantity  int          `json:"quantity"`
	Price     models.Money `json:"price"`
}

// CartClient 远端购物车服务客户端
type CartClient struct {
	endpoint Endpoint
	client   httpDoer
}

// NewCartClient 创建购物车服务客户端
func NewCartClient(endpoint Endpoint) *CartClient {
	endpoint = endpoint.normalize()
	return &CartClient{
		endpoint: endpoint,
		client:   newHTTPClient(endpoint.Timeout),
	}
}

// GetCart 按会话键获取（或由远端创建）购物车
func (c *CartClient) GetCart(ctx context.Context, sessionKey string) (*RemoteCart, error) {
	if c == nil || !c.endpoint.configured() {
		return nil, ErrNotConfigured
	}
	query := url.Values{"sessionKey": {sessionKey}}
	var cart RemoteCart
	if err := doJSON(ctx, c.client, http.MethodGet, c.endpoint.BaseURL+"/cart", query, nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddItem 向远端购物车添加商品
func (c *CartClient) AddItem(ctx context.Context, sessionKey string, item CartItemInput) (*RemoteCart, error) {
	if c == nil || !c.endpoint.configured() {
		return nil, ErrNotConfigured
	}
	query := url.Values{"sessionKey": {sessionKey}}
	var cart RemoteCart
	if err := doJSON(ctx, c.client, http.MethodPost, c.endpoint.BaseURL+"/cart/items", query, item, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// UpdateItem 更新远端购物车项数量
func (c *CartClient) UpdateItem(ctx context.Context, sessionKey string, item CartItemInput) (*RemoteCart, error) {
	if c == nil || !c.endpoint.configured() {
		return nil, ErrNotConfigured
	}
	query := url.Values{"sessionKey": {sessionKey}}
	var cart RemoteCart
	if err := doJSON(ctx, c.client, http.MethodPatch, c.endpoint.BaseURL+"/cart/items", query, item, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// RemoveItem 删除远端购物车项。
// 远端以购物车项 ID 寻址；当前约定购物车项 ID 与商品 ID 一一对应，
// 由调用方直接传入商品 ID。
func (c *CartClient) RemoveItem(ctx context.Context, sessionKey, cartItemID string) error {
	if c == nil || !c.endpoint.configured() {
		return ErrNotConfigured
	}
	query := url.Values{"sessionKey": {sessionKey}}
	return doJSON(ctx, c.client, http.MethodDelete, c.endpoint.BaseURL+"/cart/items/"+url.PathEscape(cartItemID), query, nil, nil)
}
