package models

// 草稿默认值（扫描结果与用户输入都缺失时回填）
const (
	DefaultDoseTime  = "09:00"
	DefaultPillColor = "white"
	DefaultFrequency = FrequencyDaily
)

// DraftEntry 护理人正在录入的药物草稿
// 保存成功后重置为默认值
type DraftEntry struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`
	DoseTime  string `json:"dose_time"`
	Frequency string `json:"frequency"`
	PillColor string `json:"pill_color"`
}

// NewDraftEntry 创建默认草稿
func NewDraftEntry() DraftEntry {
	return DraftEntry{
		DoseTime:  DefaultDoseTime,
		Frequency: DefaultFrequency,
		PillColor: DefaultPillColor,
	}
}

// ExtractedFields 处方扫描服务返回的结构化字段
// 空字符串表示该字段未识别出来
type ExtractedFields struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`
	DoseTime  string `json:"time"`
	PillColor string `json:"pill_color"`
}
