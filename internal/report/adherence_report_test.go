package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"seniorcare-reminder/internal/models"
)

// 2026-08-24 是周一
var monday = time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)

func TestBuildDailyAdherence(t *testing.T) {
	meds := []models.Medication{
		{
			MedicationID: "med-1",
			Name:         "Aspirin",
			Frequency:    models.FrequencyDaily,
			DoseTime:     "09:00",
			CreatedAt:    monday.AddDate(0, -1, 0),
		},
		{
			MedicationID: "med-w",
			Name:         "Weekly Med",
			Frequency:    models.FrequencyWeekly,
			DoseTime:     "10:00",
			CreatedAt:    monday.AddDate(0, 0, -7), // 锚定周一
		},
	}
	logs := []models.ReminderLog{
		{MedicationID: "med-1", Status: models.StatusTaken, TakenOn: "2026-08-24", TakenAt: monday},
	}

	days := BuildDailyAdherence(meds, logs, monday, monday.AddDate(0, 0, 1))

	require.Len(t, days, 2)

	// 周一：两个实例（daily + weekly），一个已服
	assert.Equal(t, "2026-08-24", days[0].Date)
	assert.Equal(t, 2, days[0].Summary.Total)
	assert.Equal(t, 1, days[0].Summary.Taken)
	assert.Equal(t, 50, days[0].Summary.Percentage)

	// 周二：weekly 不计入分母，没有日志
	assert.Equal(t, "2026-08-25", days[1].Date)
	assert.Equal(t, 1, days[1].Summary.Total)
	assert.Equal(t, 0, days[1].Summary.Taken)
}

func TestBuildDailyAdherence_SkipsDaysBeforeCreation(t *testing.T) {
	meds := []models.Medication{
		{
			MedicationID: "med-old",
			Name:         "Aspirin",
			Frequency:    models.FrequencyDaily,
			DoseTime:     "09:00",
			CreatedAt:    monday.AddDate(0, -1, 0),
		},
		{
			MedicationID: "med-new",
			Name:         "Metformin",
			Frequency:    models.FrequencyDaily,
			DoseTime:     "21:00",
			CreatedAt:    monday.AddDate(0, 0, 1), // 周二中途加入
		},
	}

	days := BuildDailyAdherence(meds, nil, monday, monday.AddDate(0, 0, 2))

	require.Len(t, days, 3)

	// 周一：新药尚未创建，不计入分母
	assert.Equal(t, 1, days[0].Summary.Total)
	// 周二起两种药都计入
	assert.Equal(t, 2, days[1].Summary.Total)
	assert.Equal(t, 2, days[2].Summary.Total)
}

func TestGenerateAdherenceReport(t *testing.T) {
	senior := &models.Senior{SeniorID: "senior-1", Name: "Kamala Devi"}
	days := []DailyAdherence{
		{Date: "2026-08-24", Summary: models.AdherenceSummary{Total: 2, Taken: 1, Percentage: 50}},
		{Date: "2026-08-25", Summary: models.AdherenceSummary{Total: 2, Taken: 2, Percentage: 100}},
	}

	data, err := GenerateAdherenceReport(senior, days)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	// 回读验证内容
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue("Adherence", "A1")
	require.NoError(t, err)
	assert.Contains(t, title, "Kamala Devi")

	header, err := f.GetCellValue("Adherence", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Date", header)

	date, err := f.GetCellValue("Adherence", "A3")
	require.NoError(t, err)
	assert.Equal(t, "2026-08-24", date)

	pct, err := f.GetCellValue("Adherence", "D4")
	require.NoError(t, err)
	assert.Equal(t, "100", pct)
}

func TestGenerateAdherenceReport_EmptyDays(t *testing.T) {
	data, err := GenerateAdherenceReport(nil, nil)

	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
