package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"seniorcare-reminder/internal/config"
	"seniorcare-reminder/internal/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// CacheManager Redis 缓存管理器（当日计划和依从性汇总的读缓存）
// 读端（老人端平板）直接读这两个键，不必每次打数据库
type CacheManager struct {
	config      *config.Config
	redisClient *redis.Client
	logger      *zap.Logger
}

// NewCacheManager 创建缓存管理器
func NewCacheManager(
	cfg *config.Config,
	redisClient *redis.Client,
	logger *zap.Logger,
) *CacheManager {
	return &CacheManager{
		config:      cfg,
		redisClient: redisClient,
		logger:      logger,
	}
}

// scheduleKey 当日计划缓存键
func (c *CacheManager) scheduleKey(seniorID string) string {
	return fmt.Sprintf("%s%s%s",
		c.config.Reminder.Cache.ScheduleKeyPrefix,
		seniorID,
		c.config.Reminder.Cache.ScheduleSuffix,
	)
}

// adherenceKey 依从性汇总缓存键
func (c *CacheManager) adherenceKey(seniorID string) string {
	return fmt.Sprintf("%s%s%s",
		c.config.Reminder.Cache.ScheduleKeyPrefix,
		seniorID,
		c.config.Reminder.Cache.AdherenceSuffix,
	)
}

// GetTodaySchedule 从 Redis 读取当日计划
func (c *CacheManager) GetTodaySchedule(ctx context.Context, seniorID string) ([]models.ScheduleInstance, error) {
	key := c.scheduleKey(seniorID)

	val, err := c.redisClient.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("schedule not found for senior: %s", seniorID)
		}
		return nil, fmt.Errorf("failed to get cache: %w", err)
	}

	var instances []models.ScheduleInstance
	if err := json.Unmarshal([]byte(val), &instances); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schedule: %w", err)
	}

	return instances, nil
}

// UpdateScheduleCache 更新当日计划缓存
func (c *CacheManager) UpdateScheduleCache(ctx context.Context, seniorID string, instances []models.ScheduleInstance) error {
	key := c.scheduleKey(seniorID)

	jsonData, err := json.Marshal(instances)
	if err != nil {
		return fmt.Errorf("failed to marshal schedule: %w", err)
	}

	err = c.redisClient.Set(
		ctx,
		key,
		jsonData,
		time.Duration(c.config.Reminder.Cache.ScheduleTTL)*time.Second,
	).Err()

	if err != nil {
		return fmt.Errorf("failed to set schedule cache: %w", err)
	}

	c.logger.Debug("Updated schedule cache",
		zap.String("senior_id", seniorID),
		zap.String("key", key),
		zap.Int("instance_count", len(instances)),
	)

	return nil
}

// GetAdherence 从 Redis 读取依从性汇总
func (c *CacheManager) GetAdherence(ctx context.Context, seniorID string) (*models.AdherenceSummary, error) {
	key := c.adherenceKey(seniorID)

	val, err := c.redisClient.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("adherence not found for senior: %s", seniorID)
		}
		return nil, fmt.Errorf("failed to get cache: %w", err)
	}

	var summary models.AdherenceSummary
	if err := json.Unmarshal([]byte(val), &summary); err != nil {
		return nil, fmt.Errorf("failed to unmarshal adherence: %w", err)
	}

	return &summary, nil
}

// UpdateAdherenceCache 更新依从性汇总缓存
func (c *CacheManager) UpdateAdherenceCache(ctx context.Context, seniorID string, summary models.AdherenceSummary) error {
	key := c.adherenceKey(seniorID)

	jsonData, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal adherence: %w", err)
	}

	err = c.redisClient.Set(
		ctx,
		key,
		jsonData,
		time.Duration(c.config.Reminder.Cache.ScheduleTTL)*time.Second,
	).Err()

	if err != nil {
		return fmt.Errorf("failed to set adherence cache: %w", err)
	}

	c.logger.Debug("Updated adherence cache",
		zap.String("senior_id", seniorID),
		zap.String("key", key),
		zap.Int("taken", summary.Taken),
		zap.Int("total", summary.Total),
	)

	return nil
}
