package repository

import (
	"context"
	"database/sql"
	"fmt"

	"seniorcare-reminder/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReminderLogsRepository 服药确认日志仓库
type ReminderLogsRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewReminderLogsRepository 创建服药确认日志仓库
func NewReminderLogsRepository(db *sql.DB, logger *zap.Logger) *ReminderLogsRepository {
	return &ReminderLogsRepository{
		db:     db,
		logger: logger,
	}
}

// GetLogsForDate 获取某天的确认日志，按 medication_id 索引
func (r *ReminderLogsRepository) GetLogsForDate(ctx context.Context, seniorID, takenOn string) (map[string]*models.ReminderLog, error) {
	if seniorID == "" {
		return nil, fmt.Errorf("senior_id is required")
	}
	if takenOn == "" {
		return nil, fmt.Errorf("taken_on is required")
	}

	query := `
		SELECT
			l.log_id,
			l.medication_id,
			l.status,
			l.taken_on,
			l.taken_at
		FROM reminder_logs l
		JOIN medications m ON l.medication_id = m.medication_id
		WHERE m.senior_id = $1
		  AND l.taken_on = $2
	`

	rows, err := r.db.QueryContext(ctx, query, seniorID, takenOn)
	if err != nil {
		return nil, fmt.Errorf("failed to query reminder logs: %w", err)
	}
	defer rows.Close()

	logs := map[string]*models.ReminderLog{}
	for rows.Next() {
		var log models.ReminderLog
		err := rows.Scan(
			&log.LogID,
			&log.MedicationID,
			&log.Status,
			&log.TakenOn,
			&log.TakenAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reminder log: %w", err)
		}
		logs[log.MedicationID] = &log
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reminder logs: %w", err)
	}

	return logs, nil
}

// UpsertAcknowledgement 写入确认日志
// 以 (medication_id, taken_on) 去重：重复写入保留首次的 taken_at（幂等）
func (r *ReminderLogsRepository) UpsertAcknowledgement(ctx context.Context, log *models.ReminderLog) error {
	if log == nil {
		return fmt.Errorf("log is required")
	}
	if log.MedicationID == "" {
		return fmt.Errorf("medication_id is required")
	}
	if log.TakenOn == "" {
		return fmt.Errorf("taken_on is required")
	}

	if log.LogID == "" {
		log.LogID = uuid.New().String()
	}
	if log.Status == "" {
		log.Status = models.StatusTaken
	}

	query := `
		INSERT INTO reminder_logs (
			log_id,
			medication_id,
			status,
			taken_on,
			taken_at
		) VALUES (
			$1, $2, $3, $4, $5
		)
		ON CONFLICT (medication_id, taken_on)
		DO UPDATE SET status = EXCLUDED.status
		RETURNING log_id, taken_at
	`

	err := r.db.QueryRowContext(ctx, query,
		log.LogID,
		log.MedicationID,
		log.Status,
		log.TakenOn,
		log.TakenAt,
	).Scan(&log.LogID, &log.TakenAt)

	if err != nil {
		return fmt.Errorf("failed to upsert acknowledgement: %w", err)
	}

	return nil
}

// ListLogsBetween 获取时间段内的确认日志（依从性报表用）
func (r *ReminderLogsRepository) ListLogsBetween(ctx context.Context, seniorID, fromDate, toDate string) ([]models.ReminderLog, error) {
	if seniorID == "" {
		return nil, fmt.Errorf("senior_id is required")
	}

	query := `
		SELECT
			l.log_id,
			l.medication_id,
			l.status,
			l.taken_on,
			l.taken_at
		FROM reminder_logs l
		JOIN medications m ON l.medication_id = m.medication_id
		WHERE m.senior_id = $1
		  AND l.taken_on >= $2
		  AND l.taken_on <= $3
		ORDER BY l.taken_on, l.taken_at
	`

	rows, err := r.db.QueryContext(ctx, query, seniorID, fromDate, toDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query reminder logs: %w", err)
	}
	defer rows.Close()

	logs := []models.ReminderLog{}
	for rows.Next() {
		var log models.ReminderLog
		err := rows.Scan(
			&log.LogID,
			&log.MedicationID,
			&log.Status,
			&log.TakenOn,
			&log.TakenAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reminder log: %w", err)
		}
		logs = append(logs, log)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reminder logs: %w", err)
	}

	return logs, nil
}
