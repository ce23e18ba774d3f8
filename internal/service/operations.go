package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"seniorcare-reminder/internal/clock"
	"seniorcare-reminder/internal/models"
	"seniorcare-reminder/internal/report"
	"seniorcare-reminder/internal/scan"

	"go.uber.org/zap"
)

// SaveMedication 保存护理人录入的药物草稿
// 药名为空直接返回 ErrNameRequired，不触发任何 I/O；
// 保存失败时草稿保留以便重试，成功后草稿重置为默认值并触发刷新。
func (s *ReminderService) SaveMedication(ctx context.Context, draft models.DraftEntry) (*models.Medication, error) {
	if strings.TrimSpace(draft.Name) == "" {
		return nil, ErrNameRequired
	}

	// 先落草稿，失败时编辑内容不丢
	s.store.SetDraft(draft)

	med := &models.Medication{
		SeniorID:  s.seniorID,
		Name:      strings.TrimSpace(draft.Name),
		Dosage:    draft.Dosage,
		DoseTime:  draft.DoseTime,
		Frequency: draft.Frequency,
		PillColor: draft.PillColor,
	}
	if err := s.medsRepo.CreateMedication(ctx, med); err != nil {
		s.logger.Error("Failed to save medication, draft kept",
			zap.String("senior_id", s.seniorID),
			zap.String("name", med.Name),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}

	s.store.ResetDraft()

	if err := s.RefreshAll(ctx); err != nil {
		// 药已保存成功，刷新失败不回滚；下一次刷新会补齐
		s.logger.Warn("Refresh after save failed",
			zap.String("medication_id", med.MedicationID),
			zap.Error(err),
		)
	}

	return med, nil
}

// DeleteMedication 停用一个药物（软删除）并刷新当日计划
func (s *ReminderService) DeleteMedication(ctx context.Context, medicationID string) error {
	if err := s.medsRepo.DeleteMedication(ctx, medicationID); err != nil {
		s.logger.Error("Failed to delete medication",
			zap.String("medication_id", medicationID),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %v", ErrUpdateFailed, err)
	}

	if err := s.RefreshAll(ctx); err != nil {
		s.logger.Warn("Refresh after delete failed",
			zap.String("medication_id", medicationID),
			zap.Error(err),
		)
	}

	return nil
}

// UpdateSeniorProfile 更新老人档案（姓名与紧急联络信息）
// 失败时返回 ErrUpdateFailed，调用方保留编辑内容
func (s *ReminderService) UpdateSeniorProfile(ctx context.Context, name, emergencyInfo string) error {
	// 基于当前快照构造更新载荷，写库失败时本地快照保持原样
	senior := models.Senior{SeniorID: s.seniorID, Language: "en"}
	if current := s.store.Senior(); current != nil {
		senior = *current
	}
	senior.Name = name
	senior.EmergencyInfo = emergencyInfo

	if err := s.seniorsRepo.UpsertSenior(ctx, &senior); err != nil {
		s.logger.Error("Failed to update senior profile",
			zap.String("senior_id", s.seniorID),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %v", ErrUpdateFailed, err)
	}

	if err := s.RefreshAll(ctx); err != nil {
		s.logger.Warn("Refresh after profile update failed",
			zap.String("senior_id", s.seniorID),
			zap.Error(err),
		)
	}

	return nil
}

// ScanPrescription 扫描处方图片并把识别字段合并进草稿
// 扫描失败返回 ErrScanFailed（来自 scan 包），草稿保持不变
func (s *ReminderService) ScanPrescription(ctx context.Context, image []byte) (models.DraftEntry, error) {
	draft := s.store.Draft()

	extracted, err := s.scanClient.ExtractPrescription(image)
	if err != nil {
		s.logger.Warn("Prescription scan failed, draft unchanged",
			zap.String("senior_id", s.seniorID),
			zap.Error(err),
		)
		return draft, err
	}

	merged := scan.MergeScanResult(draft, *extracted)
	s.store.SetDraft(merged)

	s.logger.Info("Prescription scanned into draft",
		zap.String("senior_id", s.seniorID),
		zap.String("name", merged.Name),
	)

	return merged, nil
}

// Acknowledge 老人按下"已服药"
// 写库失败时通过提示条告知稍后重试，本地状态不变
func (s *ReminderService) Acknowledge(ctx context.Context, medicationID string) (*models.ReminderLog, error) {
	log, err := s.reconciler.Acknowledge(ctx, medicationID)
	if err != nil {
		s.notice.Show("Could not record your medicine. Please try again.")
		return nil, err
	}

	// 确认后立即回写缓存，降级重启恢复的是确认后的计划
	if err := s.cacheManager.UpdateScheduleCache(ctx, s.seniorID, s.store.Instances()); err != nil {
		s.logger.Warn("Failed to update schedule cache after acknowledgement",
			zap.String("medication_id", medicationID),
			zap.Error(err),
		)
	}
	if err := s.cacheManager.UpdateAdherenceCache(ctx, s.seniorID, s.store.Adherence()); err != nil {
		s.logger.Warn("Failed to update adherence cache after acknowledgement",
			zap.String("medication_id", medicationID),
			zap.Error(err),
		)
	}

	return log, nil
}

// AnnounceAllDue 手动触发"读全部待服"
// 没有待服时播报"全部已服"的鼓励短语，而不是静默
func (s *ReminderService) AnnounceAllDue(ctx context.Context) clock.DueBatch {
	batch := clock.ReadAllDue(s.store.Instances())
	s.speech.AnnounceBatch(batch)
	return batch
}

// ExportAdherenceReport 为护理人导出一段日期区间的依从性 Excel 报表
func (s *ReminderService) ExportAdherenceReport(ctx context.Context, from, to time.Time) ([]byte, error) {
	meds, err := s.medsRepo.ListMedications(ctx, s.seniorID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	logs, err := s.logsRepo.ListLogsBetween(ctx, s.seniorID,
		from.Format("2006-01-02"), to.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	days := report.BuildDailyAdherence(meds, logs, from, to)
	return report.GenerateAdherenceReport(s.store.Senior(), days)
}
