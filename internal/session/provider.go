package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/mediastore-next/internal/logger"
	"github.com/mediastore-next/internal/models"
	"github.com/mediastore-next/internal/repository"

	"github.com/google/uuid"
)

const keyPrefix = "session-"

// Provider 会话键提供器。
// 会话键由客户端随请求回传；空键时生成新键并持久化，
// 清除只断开本地与远端购物车的关联，不删除远端记录。
type Provider struct {
	store repository.SessionKeyRepository
}

// NewProvider 创建会话键提供器
func NewProvider(store repository.SessionKeyRepository) *Provider {
	return &Provider{store: store}
}

// GetSessionKey 返回有效会话键。
// current 非空时沿用并登记该键；为空时生成新键。
// 存储失败降级为仅内存使用，不影响调用方。
func (p *Provider) GetSessionKey(current string) string {
	current = strings.TrimSpace(current)
	if current != "" {
		p.register(current)
		return current
	}
	key := GenerateKey()
	p.register(key)
	return key
}

// ClearSessionKey 删除本地持久化的会话键。
// 远端购物车记录不受影响，只是不再被本客户端寻址。
func (p *Provider) ClearSessionKey(key string) {
	key = strings.TrimSpace(key)
	if key == "" || p.store == nil {
		return
	}
	if err := p.store.Delete(key); err != nil {
		logger.Warnw("session_key_delete_failed", "key", key, "error", err)
	}
}

// GenerateKey 生成新的会话键。
// 时间戳加随机后缀，单浏览器场景下足够唯一；不是安全令牌。
func GenerateKey() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("%s%d-%s", keyPrefix, time.Now().UnixMilli(), suffix)
}

func (p *Provider) register(key string) {
	if p.store == nil {
		return
	}
	existing, err := p.store.Find(key)
	if err != nil {
		logger.Warnw("session_key_lookup_failed", "key", key, "error", err)
		return
	}
	if existing != nil {
		if err := p.store.Touch(key); err != nil {
			logger.Debugw("session_key_touch_failed", "key", key, "error", err)
		}
		return
	}
	if err := p.store.Save(&models.SessionKey{Key: key}); err != nil {
		logger.Warnw("session_key_save_failed", "key", key, "error", err)
	}
}
