// Package schedule 从药物列表派生当天的应服药实例，并计算依从性汇总。
// 纯函数，不做任何 I/O。
package schedule

import (
	"sort"
	"time"

	"seniorcare-reminder/internal/models"
)

// DeriveTodayInstances 派生当天的应服药实例
// daily 药物每天都有一条；weekly 药物仅当 today 的星期与创建日的星期一致时才有。
// logs 按 medication_id 索引，用于回填已确认的实例。
// 输出按 scheduled_time 升序，time 相同时按 medication_id 排序；
// 同一药物+时间在一次派生内不会出现重复。
func DeriveTodayInstances(meds []models.Medication, today time.Time, logs map[string]*models.ReminderLog) []models.ScheduleInstance {
	instances := []models.ScheduleInstance{}
	seen := map[string]bool{} // medication_id + scheduled_time 去重

	for _, med := range meds {
		if !dueToday(&med, today) {
			continue
		}

		key := med.MedicationID + "@" + med.DoseTime
		if seen[key] {
			continue
		}
		seen[key] = true

		instances = append(instances, models.ScheduleInstance{
			MedicationID:  med.MedicationID,
			Name:          med.Name,
			Dosage:        med.Dosage,
			PillColor:     med.PillColor,
			ScheduledTime: med.DoseTime,
			Log:           logs[med.MedicationID],
		})
	}

	sort.Slice(instances, func(i, j int) bool {
		if instances[i].ScheduledTime != instances[j].ScheduledTime {
			return instances[i].ScheduledTime < instances[j].ScheduledTime
		}
		return instances[i].MedicationID < instances[j].MedicationID
	})

	return instances
}

// dueToday 判断药物当天是否应服
func dueToday(med *models.Medication, today time.Time) bool {
	switch med.Frequency {
	case models.FrequencyWeekly:
		return today.Weekday() == med.AnchorWeekday()
	default:
		// daily 以及未知频率按每天处理
		return true
	}
}
