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

func setupMockMedicationsDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *MedicationsRepository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	logger := zap.NewNop()
	repo := NewMedicationsRepository(db, logger)

	return db, mock, repo
}

func TestListMedications_Success(t *testing.T) {
	db, mock, repo := setupMockMedicationsDB(t)
	defer db.Close()

	ctx := context.Background()
	seniorID := uuid.New().String()
	medID1 := uuid.New().String()
	medID2 := uuid.New().String()
	now := time.Now()

	rows := sqlmock.NewRows([]string{
		"medication_id", "senior_id", "name", "dosage", "dose_time",
		"frequency", "pill_color", "is_active", "created_at", "updated_at",
	}).AddRow(
		medID1, seniorID, "Aspirin", "100mg", "09:00",
		"daily", "white", true, now, now,
	).AddRow(
		medID2, seniorID, "Metformin", "500mg", "21:00",
		"daily", "blue", true, now, now,
	)

	mock.ExpectQuery(`SELECT`).
		WithArgs(seniorID).
		WillReturnRows(rows)

	meds, err := repo.ListMedications(ctx, seniorID)

	require.NoError(t, err)
	require.Len(t, meds, 2)
	assert.Equal(t, "Aspirin", meds[0].Name)
	assert.Equal(t, "09:00", meds[0].DoseTime)
	assert.Equal(t, "daily", meds[0].Frequency)
	assert.Equal(t, "blue", meds[1].PillColor)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListMedications_Empty(t *testing.T) {
	db, mock, repo := setupMockMedicationsDB(t)
	defer db.Close()

	ctx := context.Background()
	seniorID := uuid.New().String()

	rows := sqlmock.NewRows([]string{
		"medication_id", "senior_id", "name", "dosage", "dose_time",
		"frequency", "pill_color", "is_active", "created_at", "updated_at",
	})

	mock.ExpectQuery(`SELECT`).
		WithArgs(seniorID).
		WillReturnRows(rows)

	meds, err := repo.ListMedications(ctx, seniorID)

	require.NoError(t, err)
	assert.Empty(t, meds)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateMedication_Success(t *testing.T) {
	db, mock, repo := setupMockMedicationsDB(t)
	defer db.Close()

	ctx := context.Background()
	med := &models.Medication{
		SeniorID:  uuid.New().String(),
		Name:      "Aspirin",
		Dosage:    "100mg",
		DoseTime:  "09:00",
		PillColor: "white",
	}

	mock.ExpectExec(`INSERT INTO medications`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.CreateMedication(ctx, med)

	require.NoError(t, err)
	// 生成的字段已回填
	assert.NotEmpty(t, med.MedicationID)
	assert.Equal(t, models.FrequencyDaily, med.Frequency)
	assert.True(t, med.IsActive)
	assert.False(t, med.CreatedAt.IsZero())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateMedication_BackfillsDefaults(t *testing.T) {
	db, mock, repo := setupMockMedicationsDB(t)
	defer db.Close()

	ctx := context.Background()
	// 只填了药名的草稿也要能产生可提醒的计划
	med := &models.Medication{
		SeniorID: uuid.New().String(),
		Name:     "Aspirin",
	}

	mock.ExpectExec(`INSERT INTO medications`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.CreateMedication(ctx, med)

	require.NoError(t, err)
	assert.Equal(t, models.DefaultDoseTime, med.DoseTime)
	assert.Equal(t, models.DefaultPillColor, med.PillColor)
	assert.Equal(t, models.FrequencyDaily, med.Frequency)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateMedication_MissingName(t *testing.T) {
	db, mock, repo := setupMockMedicationsDB(t)
	defer db.Close()

	med := &models.Medication{
		SeniorID: uuid.New().String(),
	}

	err := repo.CreateMedication(context.Background(), med)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMedication_Success(t *testing.T) {
	db, mock, repo := setupMockMedicationsDB(t)
	defer db.Close()

	ctx := context.Background()
	medID := uuid.New().String()

	mock.ExpectExec(`UPDATE medications`).
		WithArgs(medID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.DeleteMedication(ctx, medID)

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMedication_NotFound(t *testing.T) {
	db, mock, repo := setupMockMedicationsDB(t)
	defer db.Close()

	ctx := context.Background()
	medID := uuid.New().String()

	mock.ExpectExec(`UPDATE medications`).
		WithArgs(medID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteMedication(ctx, medID)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found or already deleted")

	require.NoError(t, mock.ExpectationsWereMet())
}
