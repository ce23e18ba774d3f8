package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"seniorcare-reminder/internal/models"
)

func setupMockSeniorsDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *SeniorsRepository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	logger := zap.NewNop()
	repo := NewSeniorsRepository(db, logger)

	return db, mock, repo
}

func TestGetSenior_Success(t *testing.T) {
	db, mock, repo := setupMockSeniorsDB(t)
	defer db.Close()

	ctx := context.Background()
	seniorID := uuid.New().String()

	rows := sqlmock.NewRows([]string{
		"senior_id", "name", "emergency_info", "language",
	}).AddRow(
		seniorID, "Kamala Devi", "Call 911 if unconscious.", "hi",
	)

	mock.ExpectQuery(`SELECT`).
		WithArgs(seniorID).
		WillReturnRows(rows)

	senior, err := repo.GetSenior(ctx, seniorID)

	require.NoError(t, err)
	assert.NotNil(t, senior)
	assert.Equal(t, seniorID, senior.SeniorID)
	assert.Equal(t, "Kamala Devi", senior.Name)
	assert.Equal(t, "Call 911 if unconscious.", senior.EmergencyInfo)
	assert.Equal(t, "hi", senior.Language)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSenior_NullLanguageDefaultsToEnglish(t *testing.T) {
	db, mock, repo := setupMockSeniorsDB(t)
	defer db.Close()

	ctx := context.Background()
	seniorID := uuid.New().String()

	rows := sqlmock.NewRows([]string{
		"senior_id", "name", "emergency_info", "language",
	}).AddRow(
		seniorID, "Demo Senior", nil, nil,
	)

	mock.ExpectQuery(`SELECT`).
		WithArgs(seniorID).
		WillReturnRows(rows)

	senior, err := repo.GetSenior(ctx, seniorID)

	require.NoError(t, err)
	assert.Equal(t, "en", senior.Language)
	assert.Equal(t, "", senior.EmergencyInfo)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSenior_NotFound(t *testing.T) {
	db, mock, repo := setupMockSeniorsDB(t)
	defer db.Close()

	ctx := context.Background()
	seniorID := uuid.New().String()

	mock.ExpectQuery(`SELECT`).
		WithArgs(seniorID).
		WillReturnError(sql.ErrNoRows)

	senior, err := repo.GetSenior(ctx, seniorID)

	assert.Error(t, err)
	assert.Nil(t, senior)
	assert.Contains(t, err.Error(), "not found")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSenior_EmptyID(t *testing.T) {
	db, mock, repo := setupMockSeniorsDB(t)
	defer db.Close()

	senior, err := repo.GetSenior(context.Background(), "")

	assert.Error(t, err)
	assert.Nil(t, senior)
	assert.Contains(t, err.Error(), "senior_id is required")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertSenior_Success(t *testing.T) {
	db, mock, repo := setupMockSeniorsDB(t)
	defer db.Close()

	ctx := context.Background()
	senior := &models.Senior{
		SeniorID:      uuid.New().String(),
		Name:          "Kamala Devi",
		EmergencyInfo: "Neighbor: 555-0101",
		Language:      "hi",
	}

	mock.ExpectExec(`INSERT INTO seniors`).
		WithArgs(senior.SeniorID, senior.Name, senior.EmergencyInfo, senior.Language).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.UpsertSenior(ctx, senior)

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertSenior_MissingID(t *testing.T) {
	db, mock, repo := setupMockSeniorsDB(t)
	defer db.Close()

	err := repo.UpsertSenior(context.Background(), &models.Senior{Name: "No ID"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "senior_id is required")

	require.NoError(t, mock.ExpectationsWereMet())
}
