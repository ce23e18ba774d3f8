// Package reconciler 将"已服药"确认幂等地落库并回填本地状态。
package reconciler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"seniorcare-reminder/internal/models"
	"seniorcare-reminder/internal/state"

	"go.uber.org/zap"
)

// ErrAckTransient 确认写入失败（瞬时错误，用户可重试；引擎不自动重试）
var ErrAckTransient = errors.New("acknowledgement write failed")

// AcknowledgementWriter 确认日志写入端（由 repository.ReminderLogsRepository 实现）
type AcknowledgementWriter interface {
	UpsertAcknowledgement(ctx context.Context, log *models.ReminderLog) error
}

// ConfirmationSpeaker 确认成功后的语音播报
type ConfirmationSpeaker interface {
	AnnounceTaken(name string)
}

// Reconciler 确认协调器
// 策略：对已确认的实例再次调用是无操作，返回已有日志；
// 首次成功之后 taken_at 不再变化。
// 写入成功之前不落任何本地变更。
type Reconciler struct {
	store   *state.Store
	writer  AcknowledgementWriter
	speaker ConfirmationSpeaker
	logger  *zap.Logger
	now     func() time.Time // 测试时可注入
}

// NewReconciler 创建确认协调器
func NewReconciler(
	store *state.Store,
	writer AcknowledgementWriter,
	speaker ConfirmationSpeaker,
	logger *zap.Logger,
) *Reconciler {
	return &Reconciler{
		store:   store,
		writer:  writer,
		speaker: speaker,
		logger:  logger,
		now:     time.Now,
	}
}

// Acknowledge 确认一次服药
// 成功时回填实例日志并重算依从性；失败时本地状态保持不变，返回 ErrAckTransient
func (r *Reconciler) Acknowledge(ctx context.Context, medicationID string) (*models.ReminderLog, error) {
	inst, ok := r.store.FindInstance(medicationID)
	if !ok {
		return nil, fmt.Errorf("no schedule instance for medication: %s", medicationID)
	}

	// 已确认：无操作，返回已有日志
	if inst.Log != nil {
		r.logger.Debug("Medication already acknowledged",
			zap.String("medication_id", medicationID),
		)
		return inst.Log, nil
	}

	now := r.now()
	log := &models.ReminderLog{
		MedicationID: medicationID,
		Status:       models.StatusTaken,
		TakenOn:      now.Format("2006-01-02"),
		TakenAt:      now,
	}

	// 先写协作层，成功前不动本地状态
	if err := r.writer.UpsertAcknowledgement(ctx, log); err != nil {
		r.logger.Error("Failed to write acknowledgement",
			zap.String("medication_id", medicationID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrAckTransient, err)
	}

	r.store.SetInstanceLog(medicationID, log)
	r.speaker.AnnounceTaken(inst.Name)

	r.logger.Info("Medication acknowledged",
		zap.String("medication_id", medicationID),
		zap.String("name", inst.Name),
		zap.String("taken_on", log.TakenOn),
	)

	return log, nil
}
