package repository

import (
	"errors"
	"time"

	"github.com/mediastore-next/internal/models"

	"gorm.io/gorm"
)

// SessionKeyRepository 会话键数据访问接口
type SessionKeyRepository interface {
	Find(key string) (*models.SessionKey, error)
	Save(record *models.SessionKey) error
	Touch(key string) error
	Delete(key string) error
}

// GormSessionKeyRepository GORM 实现
type GormSessionKeyRepository struct {
	db *gorm.DB
}

// NewSessionKeyRepository 创建会话键仓库
func NewSessionKeyRepository(db *gorm.DB) *GormSessionKeyRepository {
	return &GormSessionKeyRepository{db: db}
}

// Find 按键查询；不存在时返回 (nil, nil)
func (r *GormSessionKeyRepository) Find(key string) (*models.SessionKey, error) {
	var record models.SessionKey
	err := r.db.Where("key = ?", key).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Save 写入会话键记录
func (r *GormSessionKeyRepository) Save(record *models.SessionKey) error {
	if record == nil {
		return nil
	}
	if record.LastSeen.IsZero() {
		record.LastSeen = time.Now()
	}
	return r.db.Create(record).Error
}

// Touch 更新最近使用时间
func (r *GormSessionKeyRepository) Touch(key string) error {
	return r.db.Model(&models.SessionKey{}).
		Where("key = ?", key).
		Update("last_seen", time.Now()).Error
}

// Delete 删除会话键记录（软删除）
func (r *GormSessionKeyRepository) Delete(key string) error {
	return r.db.Where("key = ?", key).Delete(&models.SessionKey{}).Error
}
