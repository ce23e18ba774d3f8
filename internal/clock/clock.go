package clock

import (
	"context"
	"time"

	"seniorcare-reminder/internal/config"
	"seniorcare-reminder/internal/models"
	"seniorcare-reminder/internal/state"

	"go.uber.org/zap"
)

// Announcement 到期提醒的语音载荷
type Announcement struct {
	PillColor string `json:"pill_color"`
	Name      string `json:"name"`
}

// Speaker 语音协作层接口（引擎不关心如何朗读）
type Speaker interface {
	// AnnounceDue 播报一条到期提醒
	AnnounceDue(a Announcement)
}

// NoticeDisplay 提示协作层接口（引擎不关心如何渲染）
type NoticeDisplay interface {
	// ShowDue 显示一条到期提醒
	ShowDue(name string)
}

// AnnouncedState 已播报标记存储（由 cache.StateManager 实现）
type AnnouncedState interface {
	WasAnnounced(ctx context.Context, medicationID, date, minute string) (bool, error)
	MarkAnnounced(ctx context.Context, medicationID, date, minute string) error
}

// ReminderClock 提醒时钟（固定周期轮询当日计划）
// 比较按分钟精确匹配：错过的分钟不补播，这是接受的精度取舍
type ReminderClock struct {
	config    *config.Config
	store     *state.Store
	announced AnnouncedState
	speaker   Speaker
	notice    NoticeDisplay
	logger    *zap.Logger
	now       func() time.Time // 测试时可注入
}

// NewReminderClock 创建提醒时钟
func NewReminderClock(
	cfg *config.Config,
	store *state.Store,
	announced AnnouncedState,
	speaker Speaker,
	notice NoticeDisplay,
	logger *zap.Logger,
) *ReminderClock {
	return &ReminderClock{
		config:    cfg,
		store:     store,
		announced: announced,
		speaker:   speaker,
		notice:    notice,
		logger:    logger,
		now:       time.Now,
	}
}

// Start 启动时钟（阻塞直到 ctx 取消；ticker 随退出释放）
func (c *ReminderClock) Start(ctx context.Context) error {
	c.logger.Info("Reminder clock started",
		zap.Int("tick_interval", c.config.Reminder.TickInterval),
	)

	ticker := time.NewTicker(time.Duration(c.config.Reminder.TickInterval) * time.Second)
	defer ticker.Stop()

	// 立即执行一次
	c.tick(ctx)

	// 定期轮询
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Reminder clock stopped")
			return nil
		case <-ticker.C:
			c.tick(ctx)
		}
	}
}

// tick 评估一次当日计划
// 对每个 log 为 nil 且 scheduled_time 等于当前分钟的实例，至多发出一次提醒
func (c *ReminderClock) tick(ctx context.Context) {
	now := c.now()
	minute := now.Format("15:04")
	date := now.Format("2006-01-02")

	for _, inst := range c.store.Instances() {
		// 已确认的实例永远不再提醒
		if inst.Log != nil {
			continue
		}
		if inst.ScheduledTime != minute {
			continue
		}

		announced, err := c.announced.WasAnnounced(ctx, inst.MedicationID, date, minute)
		if err != nil {
			// 状态不可用时宁可播报，也不漏提醒
			c.logger.Warn("Failed to check announced state",
				zap.String("medication_id", inst.MedicationID),
				zap.Error(err),
			)
			announced = false
		}
		if announced {
			continue
		}

		c.speaker.AnnounceDue(Announcement{
			PillColor: inst.PillColor,
			Name:      inst.Name,
		})
		c.notice.ShowDue(inst.Name)

		if err := c.announced.MarkAnnounced(ctx, inst.MedicationID, date, minute); err != nil {
			c.logger.Error("Failed to mark reminder announced",
				zap.String("medication_id", inst.MedicationID),
				zap.Error(err),
			)
		}

		c.logger.Info("Reminder due",
			zap.String("medication_id", inst.MedicationID),
			zap.String("name", inst.Name),
			zap.String("scheduled_time", inst.ScheduledTime),
		)
	}
}

// DueBatch 手动触发"读全部待服"时的播报载荷
// 空的待服集合用 AllTaken 表达，让协作层能说不同的短语，而不是静默
type DueBatch struct {
	AllTaken bool           `json:"all_taken"`
	Count    int            `json:"count"`
	Items    []Announcement `json:"items,omitempty"`
}

// ReadAllDue 按计划顺序返回所有未确认的实例
func ReadAllDue(instances []models.ScheduleInstance) DueBatch {
	items := []Announcement{}
	for _, inst := range instances {
		if inst.Log != nil {
			continue
		}
		items = append(items, Announcement{
			PillColor: inst.PillColor,
			Name:      inst.Name,
		})
	}

	if len(items) == 0 {
		return DueBatch{AllTaken: true}
	}

	return DueBatch{
		Count: len(items),
		Items: items,
	}
}
