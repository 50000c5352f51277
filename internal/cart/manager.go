package cart

import (
	"context"
	"sync"

	"github.com/mediastore-next/internal/logger"
	"github.com/mediastore-next/internal/session"
)

// Manager 按会话键管理购物车同步器。
// 每个会话键对应一个同步器实例，首次访问时创建并完成初始远端加载。
type Manager struct {
	mu       sync.Mutex
	carts    map[string]*Synchronizer
	remote   RemoteCart
	catalog  Catalog
	sessions *session.Provider
}

// NewManager 创建购物车管理器
func NewManager(remote RemoteCart, catalog Catalog, sessions *session.Provider) *Manager {
	return &Manager{
		carts:    make(map[string]*Synchronizer),
		remote:   remote,
		catalog:  catalog,
		sessions: sessions,
	}
}

// Get 获取（或创建）会话键对应的购物车同步器。
// 初始远端加载在首次获取时同步完成；加载失败不阻断使用。
func (m *Manager) Get(ctx context.Context, sessionKey string) *Synchronizer {
	m.mu.Lock()
	syncer, ok := m.carts[sessionKey]
	if !ok {
		syncer = NewSynchronizer(sessionKey, m.remote, m.catalog)
		m.carts[sessionKey] = syncer
	}
	m.mu.Unlock()

	syncer.Initialize(ctx)
	return syncer
}

// Clear 清空会话的购物车并废弃其会话键。
// 远端购物车记录被放弃而非删除，下次访问将获得全新会话键。
func (m *Manager) Clear(sessionKey string) {
	m.mu.Lock()
	syncer, ok := m.carts[sessionKey]
	delete(m.carts, sessionKey)
	m.mu.Unlock()

	if ok {
		syncer.Clear()
	}
	if m.sessions != nil {
		m.sessions.ClearSessionKey(sessionKey)
	}
	logger.Infow("cart_cleared", "session_key", sessionKey)
}
