package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/mediastore-next/internal/models"
)

// ListParams 商品列表查询参数
type ListParams struct {
	Search   string
	Category string
	PriceMin *float64
	PriceMax *float64
	Sort     string // title / priceAsc / priceDesc
	Page     int
	PageSize int
}

// CatalogClient 远端目录服务客户端
type CatalogClient struct {
	endpoint Endpoint
	client   httpDoer
}

// NewCatalogClient 创建目录服务客户端
func NewCatalogClient(endpoint Endpoint) *CatalogClient {
	endpoint = endpoint.normalize()
	return &CatalogClient{
		endpoint: endpoint,
		client:   newHTTPClient(endpoint.Timeout),
	}
}

// ListProducts 查询商品列表
func (c *CatalogClient) ListProducts(ctx context.Context, params ListParams) (*models.Paginated[models.Product], error) {
	if c == nil || !c.endpoint.configured() {
		return nil, ErrNotConfigured
	}

	query := url.Values{}
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}
	if params.PageSize > 0 {
		query.Set("size", strconv.Itoa(params.PageSize))
	}
	if strings.TrimSpace(params.Search) != "" {
		query.Set("search", strings.TrimSpace(params.Search))
	}
	if params.Category != "" && !strings.EqualFold(params.Category, "All") {
		query.Set("category", params.Category)
	}
	if params.PriceMin != nil {
		query.Set("priceMin", strconv.FormatFloat(*params.PriceMin, 'f', -1, 64))
	}
	if params.PriceMax != nil {
		query.Set("priceMax", strconv.FormatFloat(*params.PriceMax, 'f', -1, 64))
	}
	if params.Sort != "" {
		query.Set("sort", params.Sort)
	}

	// 远端可能返回分页对象或裸数组，两者都接受
	var raw json.RawMessage
	if err := doJSON(ctx, c.client, http.MethodGet, c.endpoint.BaseURL+"/products", query, nil, &raw); err != nil {
		return nil, err
	}
	return decodePaginatedProducts(raw)
}

// GetProductByID 按 ID 查询商品；远端不存在时返回 ErrNotFound
func (c *CatalogClient) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	if c == nil || !c.endpoint.configured() {
		return nil, ErrNotConfigured
	}
	var product models.Product
	if err := doJSON(ctx, c.client, http.MethodGet, c.endpoint.BaseURL+"/products/"+url.PathEscape(id), nil, nil, &product); err != nil {
		return nil, err
	}
	if strings.TrimSpace(product.ID) == "" {
		return nil, ErrNotFound
	}
	return &product, nil
}

// CreateProduct 创建商品（管理端）
func (c *CatalogClient) CreateProduct(ctx context.Context, input models.ProductInput) (*models.Product, error) {
	if c == nil || !c.endpoint.configured() {
		return nil, ErrNotConfigured
	}
	var product models.Product
	if err := doJSON(ctx, c.client, http.MethodPost, c.endpoint.BaseURL+"/admin/products", nil, input, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct 更新商品（管理端）
func (c *CatalogClient) UpdateProduct(ctx context.Context, id string, input models.ProductInput) (*models.Product, error) {
	if c == nil || !c.endpoint.configured() {
		return nil, ErrNotConfigured
	}
	var product models.Product
	if err := doJSON(ctx, c.client, http.MethodPut, c.endpoint.BaseURL+"/admin/products/"+url.PathEscape(id), nil, input, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProduct 删除商品（管理端）
func (c *CatalogClient) DeleteProduct(ctx context.Context, id string) error {
	if c == nil || !c.endpoint.configured() {
		return ErrNotConfigured
	}
	return doJSON(ctx, c.client, http.MethodDelete, c.endpoint.BaseURL+"/admin/products/"+url.PathEscape(id), nil, nil, nil)
}

func decodePaginatedProducts(raw json.RawMessage) (*models.Paginated[models.Product], error) {
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		var items []models.Product
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, ErrResponseInvalid
		}
		return &models.Paginated[models.Product]{
			Items: items,
			Page:  1,
			Size:  len(items),
			Total: int64(len(items)),
		}, nil
	}
	var page models.Paginated[models.Product]
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, ErrResponseInvalid
	}
	if page.Items == nil {
		page.Items = []models.Product{}
	}
	return &page, nil
}
