package repository

import (
	"context"
	"database/sql"
	"fmt"

	"seniorcare-reminder/internal/models"

	"go.uber.org/zap"
)

// SeniorsRepository 老人档案仓库
type SeniorsRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSeniorsRepository 创建老人档案仓库
func NewSeniorsRepository(db *sql.DB, logger *zap.Logger) *SeniorsRepository {
	return &SeniorsRepository{
		db:     db,
		logger: logger,
	}
}

// GetSenior 根据 senior_id 获取老人档案
func (r *SeniorsRepository) GetSenior(ctx context.Context, seniorID string) (*models.Senior, error) {
	if seniorID == "" {
		return nil, fmt.Errorf("senior_id is required")
	}

	query := `
		SELECT
			senior_id,
			name,
			emergency_info,
			language
		FROM seniors
		WHERE senior_id = $1
	`

	var senior models.Senior
	var emergencyInfo, language sql.NullString

	err := r.db.QueryRowContext(ctx, query, seniorID).Scan(
		&senior.SeniorID,
		&senior.Name,
		&emergencyInfo,
		&language,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("senior not found: %s", seniorID)
		}
		return nil, fmt.Errorf("failed to query senior: %w", err)
	}

	// 处理可空字段
	if emergencyInfo.Valid {
		senior.EmergencyInfo = emergencyInfo.String
	}
	if language.Valid {
		senior.Language = language.String
	} else {
		senior.Language = "en"
	}

	return &senior, nil
}

// UpsertSenior 写入/更新老人档案（存在则更新 name 和 emergency_info）
func (r *SeniorsRepository) UpsertSenior(ctx context.Context, senior *models.Senior) error {
	if senior == nil {
		return fmt.Errorf("senior is required")
	}
	if senior.SeniorID == "" {
		return fmt.Errorf("senior_id is required")
	}

	query := `
		INSERT INTO seniors (senior_id, name, emergency_info, language)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (senior_id)
		DO UPDATE SET
			name = EXCLUDED.name,
			emergency_info = EXCLUDED.emergency_info,
			language = EXCLUDED.language
	`

	_, err := r.db.ExecContext(ctx, query,
		senior.SeniorID,
		senior.Name,
		senior.EmergencyInfo,
		senior.Language,
	)

	if err != nil {
		return fmt.Errorf("failed to upsert senior: %w", err)
	}

	return nil
}
