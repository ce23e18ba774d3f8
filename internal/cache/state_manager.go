package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"seniorcare-reminder/internal/config"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// StateManager 提醒状态管理器（记录"该分钟已播报"标记）
// 带 TTL 的标记让同一分钟内的重入 tick 不会重复播报，过期后自动清理
type StateManager struct {
	config      *config.Config
	redisClient *redis.Client
	logger      *zap.Logger
}

// NewStateManager 创建状态管理器
func NewStateManager(
	cfg *config.Config,
	redisClient *redis.Client,
	logger *zap.Logger,
) *StateManager {
	return &StateManager{
		config:      cfg,
		redisClient: redisClient,
		logger:      logger,
	}
}

// AnnouncedKey 构建已播报标记键
// date 为 "2006-01-02"，minute 为 "HH:MM"
func (s *StateManager) AnnouncedKey(medicationID, date, minute string) string {
	return fmt.Sprintf("%sannounced:%s:%s:%s",
		s.config.Reminder.Cache.StateKeyPrefix,
		medicationID,
		date,
		minute,
	)
}

// SetState 设置状态（带 TTL）
func (s *StateManager) SetState(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	err = s.redisClient.Set(ctx, key, jsonData, ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to set state: %w", err)
	}

	return nil
}

// ExistsState 检查状态是否存在
func (s *StateManager) ExistsState(ctx context.Context, key string) (bool, error) {
	count, err := s.redisClient.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check state existence: %w", err)
	}
	return count > 0, nil
}

// MarkAnnounced 写入已播报标记
func (s *StateManager) MarkAnnounced(ctx context.Context, medicationID, date, minute string) error {
	key := s.AnnouncedKey(medicationID, date, minute)
	ttl := time.Duration(s.config.Reminder.Cache.AnnouncedTTL) * time.Second
	return s.SetState(ctx, key, true, ttl)
}

// WasAnnounced 检查该分钟是否已播报
func (s *StateManager) WasAnnounced(ctx context.Context, medicationID, date, minute string) (bool, error) {
	key := s.AnnouncedKey(medicationID, date, minute)
	return s.ExistsState(ctx, key)
}
