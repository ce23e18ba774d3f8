// Package state 持有提醒引擎的内存状态（老人档案、药物、当日计划、依从性、录入草稿）。
// 引擎各操作通过这个显式状态对象读写，不依赖任何渲染层。
package state

import (
	"sync"

	"seniorcare-reminder/internal/models"
	"seniorcare-reminder/internal/schedule"
)

// Store 引擎状态存储
// 读写经由 RWMutex 串行化；协作层 I/O 成功之前不落任何本地变更
type Store struct {
	mu sync.RWMutex

	senior      *models.Senior
	medications []models.Medication
	instances   []models.ScheduleInstance
	adherence   models.AdherenceSummary
	draft       models.DraftEntry
}

// NewStore 创建状态存储
func NewStore() *Store {
	return &Store{
		draft: models.NewDraftEntry(),
	}
}

// ApplyRefresh 原子替换一次完整刷新的结果
// 只有三路拉取全部成功后才调用；失败的刷新不触碰已有状态
func (s *Store) ApplyRefresh(senior *models.Senior, meds []models.Medication, instances []models.ScheduleInstance) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.senior = senior
	s.medications = meds
	s.instances = instances
	s.adherence = schedule.Summarize(instances)
}

// Senior 当前老人档案（可能为 nil，首次刷新前）
func (s *Store) Senior() *models.Senior {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.senior
}

// Medications 当前药物列表
func (s *Store) Medications() []models.Medication {
	s.mu.RLock()
	defer s.mu.RUnlock()

	meds := make([]models.Medication, len(s.medications))
	copy(meds, s.medications)
	return meds
}

// Instances 当日计划快照
// 时钟每个 tick 读一次；刷新换入前读到略旧的数据是允许的
func (s *Store) Instances() []models.ScheduleInstance {
	s.mu.RLock()
	defer s.mu.RUnlock()

	instances := make([]models.ScheduleInstance, len(s.instances))
	copy(instances, s.instances)
	return instances
}

// FindInstance 按 medication_id 查找当日实例
func (s *Store) FindInstance(medicationID string) (models.ScheduleInstance, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, inst := range s.instances {
		if inst.MedicationID == medicationID {
			return inst, true
		}
	}
	return models.ScheduleInstance{}, false
}

// SetInstanceLog 在确认写入成功后回填实例日志并重算依从性
func (s *Store) SetInstanceLog(medicationID string, log *models.ReminderLog) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.instances {
		if s.instances[i].MedicationID == medicationID {
			s.instances[i].Log = log
			break
		}
	}
	s.adherence = schedule.Summarize(s.instances)
}

// Adherence 当前依从性汇总
func (s *Store) Adherence() models.AdherenceSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.adherence
}

// Draft 当前录入草稿
func (s *Store) Draft() models.DraftEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.draft
}

// SetDraft 替换录入草稿
func (s *Store) SetDraft(draft models.DraftEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = draft
}

// ResetDraft 保存成功后重置草稿为默认值
func (s *Store) ResetDraft() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = models.NewDraftEntry()
}
