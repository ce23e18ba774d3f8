package schedule

import (
	"math"

	"seniorcare-reminder/internal/models"
)

// Summarize 计算依从性汇总
// percentage = round(100 * taken / total)；total == 0 时为 0
func Summarize(instances []models.ScheduleInstance) models.AdherenceSummary {
	total := len(instances)
	taken := 0
	for _, inst := range instances {
		if inst.Log != nil {
			taken++
		}
	}

	percentage := 0
	if total > 0 {
		percentage = int(math.Round(100 * float64(taken) / float64(total)))
	}

	return models.AdherenceSummary{
		Total:      total,
		Taken:      taken,
		Percentage: percentage,
	}
}
