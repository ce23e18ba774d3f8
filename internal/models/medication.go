package models

import (
	"time"
)

// 服药频率
const (
	FrequencyDaily  = "daily"
	FrequencyWeekly = "weekly"
)

// Medication 药物（对应 medications 表）
// 由护理人创建/编辑/删除；删除为软删除（is_active = false）
type Medication struct {
	MedicationID string    `json:"medication_id" db:"medication_id"`
	SeniorID     string    `json:"senior_id" db:"senior_id"`
	Name         string    `json:"name" db:"name"`
	Dosage       string    `json:"dosage" db:"dosage"`
	DoseTime     string    `json:"dose_time" db:"dose_time"` // "HH:MM"（24小时制）
	Frequency    string    `json:"frequency" db:"frequency"` // daily, weekly
	PillColor    string    `json:"pill_color" db:"pill_color"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// AnchorWeekday weekly 药物的锚定星期
// 数据里没有单独的星期字段，以创建日期所在的星期为准
func (m *Medication) AnchorWeekday() time.Weekday {
	return m.CreatedAt.Weekday()
}
