package scan

import (
	"seniorcare-reminder/internal/models"
)

// MergeScanResult 把识别结果逐字段合并进草稿
// 每个字段：识别值非空则取识别值（识别优先，与原行为兼容）；
// 否则保留草稿已有值；仍为空时回填文档化的默认值
// （dose_time = "09:00"，pill_color = "white"）。
// 全量合并，永不失败：识别结果全空时等价于对草稿做恒等变换加默认值回填。
func MergeScanResult(draft models.DraftEntry, extracted models.ExtractedFields) models.DraftEntry {
	merged := draft

	merged.Name = pickField(extracted.Name, draft.Name, "")
	merged.Dosage = pickField(extracted.Dosage, draft.Dosage, "")
	merged.DoseTime = pickField(extracted.DoseTime, draft.DoseTime, models.DefaultDoseTime)
	merged.PillColor = pickField(extracted.PillColor, draft.PillColor, models.DefaultPillColor)

	if merged.Frequency == "" {
		merged.Frequency = models.DefaultFrequency
	}

	return merged
}

// pickField 字段级合并：识别值 > 草稿值 > 默认值
func pickField(extracted, current, fallback string) string {
	if extracted != "" {
		return extracted
	}
	if current != "" {
		return current
	}
	return fallback
}
