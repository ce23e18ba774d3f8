package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"seniorcare-reminder/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MedicationsRepository 药物仓库
type MedicationsRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMedicationsRepository 创建药物仓库
func NewMedicationsRepository(db *sql.DB, logger *zap.Logger) *MedicationsRepository {
	return &MedicationsRepository{
		db:     db,
		logger: logger,
	}
}

// ListMedications 获取老人的有效药物列表（is_active = true）
func (r *MedicationsRepository) ListMedications(ctx context.Context, seniorID string) ([]models.Medication, error) {
	if seniorID == "" {
		return nil, fmt.Errorf("senior_id is required")
	}

	query := `
		SELECT
			medication_id,
			senior_id,
			name,
			dosage,
			dose_time,
			frequency,
			pill_color,
			is_active,
			created_at,
			updated_at
		FROM medications
		WHERE senior_id = $1
		  AND is_active = TRUE
		ORDER BY dose_time, medication_id
	`

	rows, err := r.db.QueryContext(ctx, query, seniorID)
	if err != nil {
		return nil, fmt.Errorf("failed to query medications: %w", err)
	}
	defer rows.Close()

	meds := []models.Medication{}
	for rows.Next() {
		var med models.Medication
		err := rows.Scan(
			&med.MedicationID,
			&med.SeniorID,
			&med.Name,
			&med.Dosage,
			&med.DoseTime,
			&med.Frequency,
			&med.PillColor,
			&med.IsActive,
			&med.CreatedAt,
			&med.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan medication: %w", err)
		}
		meds = append(meds, med)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate medications: %w", err)
	}

	return meds, nil
}

// CreateMedication 创建药物（生成 medication_id 并回填时间戳）
func (r *MedicationsRepository) CreateMedication(ctx context.Context, med *models.Medication) error {
	if med == nil {
		return fmt.Errorf("medication is required")
	}
	if med.SeniorID == "" {
		return fmt.Errorf("senior_id is required")
	}
	if med.Name == "" {
		return fmt.Errorf("name is required")
	}

	if med.MedicationID == "" {
		med.MedicationID = uuid.New().String()
	}
	if med.Frequency == "" {
		med.Frequency = models.FrequencyDaily
	}
	if med.DoseTime == "" {
		med.DoseTime = models.DefaultDoseTime
	}
	if med.PillColor == "" {
		med.PillColor = models.DefaultPillColor
	}
	now := time.Now()
	med.IsActive = true
	med.CreatedAt = now
	med.UpdatedAt = now

	query := `
		INSERT INTO medications (
			medication_id,
			senior_id,
			name,
			dosage,
			dose_time,
			frequency,
			pill_color,
			is_active,
			created_at,
			updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)
	`

	_, err := r.db.ExecContext(ctx, query,
		med.MedicationID,
		med.SeniorID,
		med.Name,
		med.Dosage,
		med.DoseTime,
		med.Frequency,
		med.PillColor,
		med.IsActive,
		med.CreatedAt,
		med.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create medication: %w", err)
	}

	return nil
}

// DeleteMedication 软删除药物（is_active = false，保留历史日志关联）
func (r *MedicationsRepository) DeleteMedication(ctx context.Context, medicationID string) error {
	if medicationID == "" {
		return fmt.Errorf("medication_id is required")
	}

	query := `
		UPDATE medications
		SET is_active = FALSE,
		    updated_at = CURRENT_TIMESTAMP
		WHERE medication_id = $1
		  AND is_active = TRUE
	`

	result, err := r.db.ExecContext(ctx, query, medicationID)
	if err != nil {
		return fmt.Errorf("failed to delete medication: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("medication not found or already deleted: %s", medicationID)
	}

	return nil
}
