package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mediastore-next/internal/cache"
	"github.com/mediastore-next/internal/logger"
	"github.com/mediastore-next/internal/models"
	"github.com/mediastore-next/internal/upstream"
)

// ListParams 商品列表查询参数（远端与本地回退共用）
type ListParams = upstream.ListParams

// RemoteCatalog 远端目录服务能力
type RemoteCatalog interface {
	ListProducts(ctx context.Context, params upstream.ListParams) (*models.Paginated[models.Product], error)
	GetProductByID(ctx context.Context, id string) (*models.Product, error)
}

// Accessor 目录访问器：优先远端目录服务，失败时回退到内置数据集。
// 所有读取都不向调用方返回错误。
type Accessor struct {
	remote    RemoteCatalog
	local     []models.Product
	localByID map[string]int
	cacheTTL  time.Duration
}

// NewAccessor 创建目录访问器
func NewAccessor(remote RemoteCatalog, cacheTTL time.Duration) *Accessor {
	local := Dataset()
	byID := make(map[string]int, len(local))
	for i := range local {
		byID[local[i].ID] = i
	}
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &Accessor{
		remote:    remote,
		local:     local,
		localByID: byID,
		cacheTTL:  cacheTTL,
	}
}

// ListProducts 查询商品列表；远端失败时按相同语义切分本地数据集
func (a *Accessor) ListProducts(ctx context.Context, params ListParams) models.Paginated[models.Product] {
	if a.remote != nil {
		cacheKey := listCacheKey(params)
		var cached models.Paginated[models.Product]
		if hit, err := cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
			return cached
		}
		page, err := a.remote.ListProducts(ctx, params)
		if err == nil && page != nil {
			if cerr := cache.SetJSON(ctx, cacheKey, page, a.cacheTTL); cerr != nil {
				logger.Debugw("catalog_cache_set_failed", "key", cacheKey, "error", cerr)
			}
			return *page
		}
		logger.Warnw("catalog_remote_list_failed", "error", err, "fallback", "local_dataset")
	}
	return a.listLocal(params)
}

// GetProductByID 按 ID 查询商品；远端失败或不存在时查本地数据集
func (a *Accessor) GetProductByID(ctx context.Context, id string) (*models.Product, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, false
	}
	if a.remote != nil {
		cacheKey := "catalog:product:" + id
		var cached models.Product
		if hit, err := cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, true
		}
		product, err := a.remote.GetProductByID(ctx, id)
		if err == nil && product != nil {
			if cerr := cache.SetJSON(ctx, cacheKey, product, a.cacheTTL); cerr != nil {
				logger.Debugw("catalog_cache_set_failed", "key", cacheKey, "error", cerr)
			}
			return product, true
		}
		logger.Debugw("catalog_remote_get_failed", "product_id", id, "error", err)
	}
	return a.lookupLocal(id)
}

// Resolve 解析商品：本地数据集优先，未命中再走远端。
// 购物车侧的价格/库存解析使用该路径。
func (a *Accessor) Resolve(ctx context.Context, id string) (*models.Product, bool) {
	if product, ok := a.lookupLocal(id); ok {
		return product, true
	}
	return a.GetProductByID(ctx, id)
}

// InvalidateProduct 清除商品的缓存条目。
// 管理端写操作后调用；列表缓存按 TTL 自然过期。
func (a *Accessor) InvalidateProduct(ctx context.Context, id string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return
	}
	if err := cache.Delete(ctx, "catalog:product:"+id); err != nil {
		logger.Debugw("catalog_cache_invalidate_failed", "product_id", id, "error", err)
	}
}

func (a *Accessor) lookupLocal(id string) (*models.Product, bool) {
	idx, ok := a.localByID[id]
	if !ok {
		return nil, false
	}
	product := a.local[idx]
	return &product, true
}

func (a *Accessor) listLocal(params ListParams) models.Paginated[models.Product] {
	filtered := make([]models.Product, 0, len(a.local))
	for _, product := range a.local {
		if matchesFilter(product, params) {
			filtered = append(filtered, product)
		}
	}
	sortProducts(filtered, params.Sort)

	page := params.Page
	if page < 1 {
		page = 1
	}
	size := params.PageSize
	if size <= 0 {
		size = len(filtered)
	}

	start := (page - 1) * size
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + size
	if end > len(filtered) {
		end = len(filtered)
	}

	items := make([]models.Product, end-start)
	copy(items, filtered[start:end])
	return models.Paginated[models.Product]{
		Items: items,
		Page:  page,
		Size:  size,
		Total: int64(len(filtered)),
	}
}

func matchesFilter(product models.Product, params ListParams) bool {
	if search := strings.ToLower(strings.TrimSpace(params.Search)); search != "" {
		haystack := strings.ToLower(product.Title + " " + product.Genre + " " + product.ShortDesc)
		if !strings.Contains(haystack, search) {
			return false
		}
	}
	if params.Category != "" && !strings.EqualFold(params.Category, "All") {
		if !strings.EqualFold(string(product.Category), params.Category) {
			return false
		}
	}
	price, _ := product.Price.Float64()
	if params.PriceMin != nil && price < *params.PriceMin {
		return false
	}
	if params.PriceMax != nil && price > *params.PriceMax {
		return false
	}
	return true
}

func sortProducts(products []models.Product, key string) {
	switch key {
	case "title":
		sort.SliceStable(products, func(i, j int) bool {
			return strings.ToLower(products[i].Title) < strings.ToLower(products[j].Title)
		})
	case "priceAsc":
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price.Cmp(products[j].Price.Decimal) < 0
		})
	case "priceDesc":
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price.Cmp(products[j].Price.Decimal) > 0
		})
	}
}

func listCacheKey(params ListParams) string {
	var priceMin, priceMax string
	if params.PriceMin != nil {
		priceMin = fmt.Sprintf("%g", *params.PriceMin)
	}
	if params.PriceMax != nil {
		priceMax = fmt.Sprintf("%g", *params.PriceMax)
	}
	return fmt.Sprintf("catalog:list:%s|%s|%s|%s|%s|%d|%d",
		strings.ToLower(strings.TrimSpace(params.Search)),
		params.Category, priceMin, priceMax, params.Sort, params.Page, params.PageSize)
}
