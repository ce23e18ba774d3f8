package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"seniorcare-reminder/internal/models"
)

func setupMockReminderLogsDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *ReminderLogsRepository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	logger := zap.NewNop()
	repo := NewReminderLogsRepository(db, logger)

	return db, mock, repo
}

func TestGetLogsForDate_Success(t *testing.T) {
	db, mock, repo := setupMockReminderLogsDB(t)
	defer db.Close()

	ctx := context.Background()
	seniorID := uuid.New().String()
	medID := uuid.New().String()
	takenAt := time.Now()

	rows := sqlmock.NewRows([]string{
		"log_id", "medication_id", "status", "taken_on", "taken_at",
	}).AddRow(
		uuid.New().String(), medID, "taken", "2026-08-29", takenAt,
	)

	mock.ExpectQuery(`SELECT`).
		WithArgs(seniorID, "2026-08-29").
		WillReturnRows(rows)

	logs, err := repo.GetLogsForDate(ctx, seniorID, "2026-08-29")

	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.NotNil(t, logs[medID])
	assert.Equal(t, "taken", logs[medID].Status)
	assert.Equal(t, "2026-08-29", logs[medID].TakenOn)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetLogsForDate_Empty(t *testing.T) {
	db, mock, repo := setupMockReminderLogsDB(t)
	defer db.Close()

	ctx := context.Background()
	seniorID := uuid.New().String()

	rows := sqlmock.NewRows([]string{
		"log_id", "medication_id", "status", "taken_on", "taken_at",
	})

	mock.ExpectQuery(`SELECT`).
		WithArgs(seniorID, "2026-08-29").
		WillReturnRows(rows)

	logs, err := repo.GetLogsForDate(ctx, seniorID, "2026-08-29")

	require.NoError(t, err)
	assert.Empty(t, logs)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertAcknowledgement_Success(t *testing.T) {
	db, mock, repo := setupMockReminderLogsDB(t)
	defer db.Close()

	ctx := context.Background()
	medID := uuid.New().String()
	takenAt := time.Now()
	log := &models.ReminderLog{
		MedicationID: medID,
		TakenOn:      "2026-08-29",
		TakenAt:      takenAt,
	}

	returned := sqlmock.NewRows([]string{"log_id", "taken_at"}).
		AddRow(uuid.New().String(), takenAt)

	mock.ExpectQuery(`INSERT INTO reminder_logs`).
		WillReturnRows(returned)

	err := repo.UpsertAcknowledgement(ctx, log)

	require.NoError(t, err)
	assert.NotEmpty(t, log.LogID)
	assert.Equal(t, models.StatusTaken, log.Status)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertAcknowledgement_ConflictKeepsOriginalTakenAt(t *testing.T) {
	db, mock, repo := setupMockReminderLogsDB(t)
	defer db.Close()

	ctx := context.Background()
	medID := uuid.New().String()
	originalTakenAt := time.Now().Add(-time.Hour)
	existingLogID := uuid.New().String()

	log := &models.ReminderLog{
		MedicationID: medID,
		TakenOn:      "2026-08-29",
		TakenAt:      time.Now(),
	}

	// 冲突时 RETURNING 返回已存在行的 log_id 和首次的 taken_at
	returned := sqlmock.NewRows([]string{"log_id", "taken_at"}).
		AddRow(existingLogID, originalTakenAt)

	mock.ExpectQuery(`INSERT INTO reminder_logs`).
		WillReturnRows(returned)

	err := repo.UpsertAcknowledgement(ctx, log)

	require.NoError(t, err)
	assert.Equal(t, existingLogID, log.LogID)
	assert.WithinDuration(t, originalTakenAt, log.TakenAt, time.Second)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertAcknowledgement_WriteFailure(t *testing.T) {
	db, mock, repo := setupMockReminderLogsDB(t)
	defer db.Close()

	ctx := context.Background()
	log := &models.ReminderLog{
		MedicationID: uuid.New().String(),
		TakenOn:      "2026-08-29",
		TakenAt:      time.Now(),
	}

	mock.ExpectQuery(`INSERT INTO reminder_logs`).
		WillReturnError(sql.ErrConnDone)

	err := repo.UpsertAcknowledgement(ctx, log)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to upsert acknowledgement")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListLogsBetween_Success(t *testing.T) {
	db, mock, repo := setupMockReminderLogsDB(t)
	defer db.Close()

	ctx := context.Background()
	seniorID := uuid.New().String()

	rows := sqlmock.NewRows([]string{
		"log_id", "medication_id", "status", "taken_on", "taken_at",
	}).AddRow(
		uuid.New().String(), uuid.New().String(), "taken", "2026-08-28", time.Now().Add(-24*time.Hour),
	).AddRow(
		uuid.New().String(), uuid.New().String(), "taken", "2026-08-29", time.Now(),
	)

	mock.ExpectQuery(`SELECT`).
		WithArgs(seniorID, "2026-08-23", "2026-08-29").
		WillReturnRows(rows)

	logs, err := repo.ListLogsBetween(ctx, seniorID, "2026-08-23", "2026-08-29")

	require.NoError(t, err)
	assert.Len(t, logs, 2)

	require.NoError(t, mock.ExpectationsWereMet())
}
