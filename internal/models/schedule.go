package models

import (
	"time"
)

// 确认状态
const (
	StatusTaken = "taken"
)

// ReminderLog 服药确认日志（对应 reminder_logs 表）
// 每个药物每天至多一条；只由确认协调器写入，之后不再修改
type ReminderLog struct {
	LogID        string    `json:"log_id" db:"log_id"`
	MedicationID string    `json:"medication_id" db:"medication_id"`
	Status       string    `json:"status" db:"status"` // taken
	TakenOn      string    `json:"taken_on" db:"taken_on"` // "2006-01-02"
	TakenAt      time.Time `json:"taken_at" db:"taken_at"`
}

// ScheduleInstance 当天的一次应服药实例
// 由 Medication × 频率规则派生；log 为 nil 表示尚未确认
type ScheduleInstance struct {
	MedicationID  string       `json:"medication_id"`
	Name          string       `json:"name"`
	Dosage        string       `json:"dosage"`
	PillColor     string       `json:"pill_color"`
	ScheduledTime string       `json:"scheduled_time"` // "HH:MM"
	Log           *ReminderLog `json:"log,omitempty"`
}

// AdherenceSummary 服药依从性汇总（纯派生数据，不落库）
type AdherenceSummary struct {
	Total      int `json:"total"`
	Taken      int `json:"taken"`
	Percentage int `json:"percentage"` // round(100 * taken / total)，total == 0 时为 0
}
