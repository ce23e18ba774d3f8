// Package report 为护理人生成服药依从性 Excel 报表。
package report

import (
	"bytes"
	"fmt"
	"time"

	"seniorcare-reminder/internal/models"
	"seniorcare-reminder/internal/schedule"

	"github.com/xuri/excelize/v2"
)

// AdherenceReportHeader 报表表头
var AdherenceReportHeader = []string{
	"Date",
	"Total Doses",
	"Taken",
	"Adherence %",
}

// DailyAdherence 某一天的依从性
type DailyAdherence struct {
	Date    string // "2006-01-02"
	Summary models.AdherenceSummary
}

// BuildDailyAdherence 从药物列表和时间段内的日志构建逐日依从性
// 每一天都按该天应服的实例重新派生（weekly 药物只在锚定星期计入分母，
// 创建日之前的天不计入该药物的分母）
func BuildDailyAdherence(meds []models.Medication, logs []models.ReminderLog, from, to time.Time) []DailyAdherence {
	// 日志按日期再按 medication_id 索引
	logsByDate := map[string]map[string]*models.ReminderLog{}
	for i := range logs {
		log := &logs[i]
		if logsByDate[log.TakenOn] == nil {
			logsByDate[log.TakenOn] = map[string]*models.ReminderLog{}
		}
		logsByDate[log.TakenOn][log.MedicationID] = log
	}

	days := []DailyAdherence{}
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		date := day.Format("2006-01-02")

		// 当天已存在的药物才参与派生
		existing := make([]models.Medication, 0, len(meds))
		for _, med := range meds {
			if med.CreatedAt.Format("2006-01-02") > date {
				continue
			}
			existing = append(existing, med)
		}

		instances := schedule.DeriveTodayInstances(existing, day, logsByDate[date])
		days = append(days, DailyAdherence{
			Date:    date,
			Summary: schedule.Summarize(instances),
		})
	}

	return days
}

// GenerateAdherenceReport 生成依从性 Excel 报表
func GenerateAdherenceReport(senior *models.Senior, days []DailyAdherence) ([]byte, error) {
	f := excelize.NewFile()

	sheetName := "Adherence"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	// 删除默认的 Sheet1
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	// 表头样式
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	// 标题行：老人姓名
	title := "Medication Adherence"
	if senior != nil && senior.Name != "" {
		title = fmt.Sprintf("Medication Adherence - %s", senior.Name)
	}
	if err := f.SetCellValue(sheetName, "A1", title); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to set title: %w", err)
	}

	// 表头
	for i, header := range AdherenceReportHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header: %w", err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
	}

	// 数据行
	for i, day := range days {
		row := i + 3
		values := []any{
			day.Date,
			day.Summary.Total,
			day.Summary.Taken,
			day.Summary.Percentage,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to set cell value: %w", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close workbook: %w", err)
	}

	return buf.Bytes(), nil
}
