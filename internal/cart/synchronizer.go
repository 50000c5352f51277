package cart

import (
	"context"
	"sync"

	"github.com/mediastore-next/internal/logger"
	"github.com/mediastore-next/internal/models"
	"github.com/mediastore-next/internal/upstream"
)

// RemoteCart 远端购物车服务能力
type RemoteCart interface {
	GetCart(ctx context.Context, sessionKey string) (*upstream.RemoteCart, error)
	AddItem(ctx context.Context, sessionKey string, item upstream.CartItemInput) (*upstream.RemoteCart, error)
	UpdateItem(ctx context.Context, sessionKey string, item upstream.CartItemInput) (*upstream.RemoteCart, error)
	RemoveItem(ctx context.Context, sessionKey, cartItemID string) error
}

// Catalog 购物车侧需要的目录解析能力
type Catalog interface {
	Resolve(ctx context.Context, id string) (*models.Product, bool)
}

// Synchronizer 购物车同步器。
// 持有单个会话的购物车状态，所有变更先尝试远端购物车服务，
// 远端失败时降级为仅本地变更（本地优先策略：可用性高于一致性）。
// 互斥锁将同一购物车的变更串行化为单飞行 FIFO。
type Synchronizer struct {
	mu         sync.Mutex
	sessionKey string
	remote     RemoteCart
	catalog    Catalog

	entries []models.CartEntry
	loading bool
	initOne sync.Once
	view    *derivedView
}

// NewSynchronizer 创建购物车同步器；完成初始加载前 loading 为 true
func NewSynchronizer(sessionKey string, remote RemoteCart, catalog Catalog) *Synchronizer {
	return &Synchronizer{
		sessionKey: sessionKey,
		remote:     remote,
		catalog:    catalog,
		loading:    true,
	}
}

// Initialize 首次使用时加载远端购物车。
// 远端有内容则以远端条目覆盖本地；加载失败保持空购物车继续，
// loading 恰好转换一次 true -> false，无论成败。
func (s *Synchronizer) Initialize(ctx context.Context) {
	s.initOne.Do(func() {
		defer func() {
			s.mu.Lock()
			s.loading = false
			s.mu.Unlock()
		}()

		if s.remote == nil {
			return
		}
		remoteCart, err := s.remote.GetCart(ctx, s.sessionKey)
		if err != nil {
			logger.Warnw("cart_remote_load_failed", "session_key", s.sessionKey, "error", err)
			return
		}
		if remoteCart == nil || len(remoteCart.Items) == 0 {
			return
		}

		entries := make([]models.CartEntry, 0, len(remoteCart.Items))
		for _, item := range remoteCart.Items {
			if item.ProductID == "" || item.Quantity <= 0 {
				continue
			}
			entries = append(entries, models.CartEntry{ProductID: item.ProductID, Qty: item.Quantity})
		}

		s.mu.Lock()
		s.entries = entries
		s.view = nil
		s.mu.Unlock()
	})
}

// AddItem 添加商品。
// 无法解析的商品为空操作；远端添加失败时仍执行本地合并。
// 加入时不按库存钳制，钳制发生在 UpdateQty（沿用既有产品决策）。
func (s *Synchronizer) AddItem(ctx context.Context, productID string, qty int) {
	if qty <= 0 {
		qty = 1
	}
	product, ok := s.catalog.Resolve(ctx, productID)
	if !ok {
		logger.Debugw("cart_add_skip_unknown_product", "product_id", productID)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.remote != nil {
		_, err := s.remote.AddItem(ctx, s.sessionKey, upstream.CartItemInput{
			ProductID: productID,
			Quantity:  qty,
			Price:     product.Price,
		})
		if err != nil {
			logger.Warnw("cart_remote_add_failed", "session_key", s.sessionKey, "product_id", productID, "error", err)
		}
	}

	for i := range s.entries {
		if s.entries[i].ProductID == productID {
			s.entries[i].Qty += qty
			s.view = nil
			return
		}
	}
	s.entries = append(s.entries, models.CartEntry{ProductID: productID, Qty: qty})
	s.view = nil
}

// UpdateQty 更新商品数量。
// qty <= 0 等价于删除；否则按 [0, stock] 钳制后先远端后本地，
// 远端失败不影响本地结果，最终数量为 0 时移除条目。
// 商品解析失败时本地更新仍然生效，请求数量即其自身上限；
// 此时无价格可携带，跳过远端更新。
func (s *Synchronizer) UpdateQty(ctx context.Context, productID string, qty int) {
	if qty <= 0 {
		s.RemoveItem(ctx, productID)
		return
	}
	product, ok := s.catalog.Resolve(ctx, productID)
	if !ok {
		logger.Debugw("cart_update_unresolved_product", "product_id", productID)
		s.mu.Lock()
		defer s.mu.Unlock()
		s.applyQty(productID, qty)
		return
	}

	finalQty := clamp(qty, 0, product.Stock)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.remote != nil {
		_, err := s.remote.UpdateItem(ctx, s.sessionKey, upstream.CartItemInput{
			ProductID: productID,
			Quantity:  finalQty,
			Price:     product.Price,
		})
		if err != nil {
			logger.Warnw("cart_remote_update_failed", "session_key", s.sessionKey, "product_id", productID, "error", err)
		}
	}

	s.applyQty(productID, finalQty)
}

// applyQty 写入条目的最终数量；数量为 0 的条目被移除。须持锁调用。
func (s *Synchronizer) applyQty(productID string, qty int) {
	next := s.entries[:0]
	for _, entry := range s.entries {
		if entry.ProductID == productID {
			entry.Qty = qty
		}
		if entry.Qty > 0 {
			next = append(next, entry)
		}
	}
	s.entries = next
	s.view = nil
}

// RemoveItem 删除商品。
// 远端以购物车项 ID 寻址；当前按商品 ID 直接传递（1:1 映射约定），
// 远端失败时仍删除本地条目。
func (s *Synchronizer) RemoveItem(ctx context.Context, productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.remote != nil {
		if err := s.remote.RemoveItem(ctx, s.sessionKey, productID); err != nil {
			logger.Warnw("cart_remote_remove_failed", "session_key", s.sessionKey, "product_id", productID, "error", err)
		}
	}

	next := s.entries[:0]
	for _, entry := range s.entries {
		if entry.ProductID != productID {
			next = append(next, entry)
		}
	}
	s.entries = next
	s.view = nil
}

// Clear 清空本地条目。
// 不调用远端清空接口：远端购物车被放弃而非删除；
// 会话键的废弃由 Manager 统一处理。
func (s *Synchronizer) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	s.view = nil
}

// SessionKey 返回该购物车绑定的会话键
func (s *Synchronizer) SessionKey() string {
	return s.sessionKey
}

// Loading 初始远端加载是否仍在进行
func (s *Synchronizer) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Entries 返回当前条目的副本
func (s *Synchronizer) Entries() []models.CartEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := make([]models.CartEntry, len(s.entries))
	copy(entries, s.entries)
	return entries
}

func clamp(value, low, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
