package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"seniorcare-reminder/internal/models"
	"seniorcare-reminder/internal/schedule"

	"go.uber.org/zap"
)

// RefreshAll 全量刷新：并发拉取老人档案、药物列表和当日日志，
// 全部成功才整体替换内存快照并回写 Redis 缓存；任一失败则快照原样保留。
// 同一时刻最多一次刷新在途，后到的调用直接返回。
func (s *ReminderService) RefreshAll(ctx context.Context) error {
	select {
	case s.refreshing <- struct{}{}:
		defer func() { <-s.refreshing }()
	default:
		s.logger.Debug("Refresh already in flight, skipping",
			zap.String("senior_id", s.seniorID),
		)
		return nil
	}

	today := time.Now()
	date := today.Format("2006-01-02")

	var (
		wg     sync.WaitGroup
		senior *models.Senior
		meds   []models.Medication
		logs   map[string]*models.ReminderLog

		seniorErr, medsErr, logsErr error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		senior, seniorErr = s.seniorsRepo.GetSenior(ctx, s.seniorID)
	}()
	go func() {
		defer wg.Done()
		meds, medsErr = s.medsRepo.ListMedications(ctx, s.seniorID)
	}()
	go func() {
		defer wg.Done()
		logs, logsErr = s.logsRepo.GetLogsForDate(ctx, s.seniorID, date)
	}()
	wg.Wait()

	for _, err := range []error{seniorErr, medsErr, logsErr} {
		if err != nil {
			s.logger.Error("Refresh fetch failed, keeping previous state",
				zap.String("senior_id", s.seniorID),
				zap.Error(err),
			)
			return fmt.Errorf("%w: %v", ErrFetchFailed, err)
		}
	}

	// 派生当日实例并整体替换快照
	instances := schedule.DeriveTodayInstances(meds, today, logs)
	s.store.ApplyRefresh(senior, meds, instances)
	s.speech.SetLanguage(senior.Language)

	// 回写 Redis 缓存（缓存失败只记日志，不影响本地快照）
	if err := s.cacheManager.UpdateScheduleCache(ctx, s.seniorID, instances); err != nil {
		s.logger.Warn("Failed to update schedule cache",
			zap.String("senior_id", s.seniorID),
			zap.Error(err),
		)
	}
	if err := s.cacheManager.UpdateAdherenceCache(ctx, s.seniorID, s.store.Adherence()); err != nil {
		s.logger.Warn("Failed to update adherence cache",
			zap.String("senior_id", s.seniorID),
			zap.Error(err),
		)
	}

	s.logger.Info("Refreshed reminder state",
		zap.String("senior_id", s.seniorID),
		zap.String("date", date),
		zap.Int("medications", len(meds)),
		zap.Int("instances", len(instances)),
	)

	return nil
}

// restoreFromCache 数据库不可用时从 Redis 缓存恢复最近一次写入的当日计划
// 档案与药物列表留空，时钟照常工作，下一次成功刷新会补齐
func (s *ReminderService) restoreFromCache(ctx context.Context) error {
	instances, err := s.cacheManager.GetTodaySchedule(ctx, s.seniorID)
	if err != nil {
		return fmt.Errorf("no cached schedule available: %w", err)
	}

	s.store.ApplyRefresh(nil, nil, instances)

	if summary, err := s.cacheManager.GetAdherence(ctx, s.seniorID); err == nil {
		s.logger.Info("Restored schedule from cache",
			zap.String("senior_id", s.seniorID),
			zap.Int("instances", len(instances)),
			zap.Int("taken", summary.Taken),
			zap.Int("total", summary.Total),
		)
	} else {
		s.logger.Info("Restored schedule from cache",
			zap.String("senior_id", s.seniorID),
			zap.Int("instances", len(instances)),
		)
	}

	return nil
}
