package models

import (
	"time"

	"gorm.io/gorm"
)

// SessionKey 浏览器会话键（本地持久化，用于寻址远端购物车）
type SessionKey struct {
	ID        uint           `gorm:"primarykey" json:"id"`            // 主键
	Key       string         `gorm:"uniqueIndex;not null" json:"key"` // 会话键
	LastSeen  time.Time      `gorm:"index" json:"last_seen"`          // 最近使用时间
	CreatedAt time.Time      `gorm:"index" json:"created_at"`         // 创建时间
	UpdatedAt time.Time      `json:"updated_at"`                      // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                  // 软删除时间
}

// TableName 指定表名
func (SessionKey) TableName() string {
	return "session_keys"
}
