package models

// Senior 老人档案（对应 seniors 表）
type Senior struct {
	SeniorID      string `json:"senior_id" db:"senior_id"`
	Name          string `json:"name" db:"name"`
	EmergencyInfo string `json:"emergency_info" db:"emergency_info"`
	Language      string `json:"language" db:"language"` // BCP-47 语言标签，如 "en"、"hi"、"ta"
}
