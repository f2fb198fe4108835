package repositories

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"civicsaathi/internal/adapters/persistence/models"
	"civicsaathi/internal/core/domain"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestApplyTransitionWritesAllRowsInOneTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewComplaintRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `complaints` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `complaint_logs`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO `complaint_escalations`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	logEntry := &models.ComplaintLog{
		ActionByName: "System",
		Note:         "Auto-escalated: Exceeded 48h SLA threshold",
		OldStatus:    "pending",
		NewStatus:    "escalated",
	}
	escalation := &models.ComplaintEscalation{Reason: logEntry.Note}

	err := repo.ApplyTransition(context.Background(), 7, 3, map[string]interface{}{
		"status":   "escalated",
		"priority": 3,
	}, logEntry, nil, escalation)
	require.NoError(t, err)

	assert.Equal(t, uint(7), logEntry.ComplaintID)
	assert.Equal(t, uint(7), escalation.ComplaintID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyTransitionVersionConflictRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewComplaintRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `complaints` SET").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.ApplyTransition(context.Background(), 7, 3, map[string]interface{}{
		"status": "in_progress",
	}, &models.ComplaintLog{}, nil, nil)
	assert.ErrorIs(t, err, domain.ErrVersionConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewComplaintRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM `complaints`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountByCitizenFiltersStatuses(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewComplaintRepository(db)

	mock.ExpectQuery("SELECT count(.+) FROM `complaints`").
		WithArgs(uint(100), false, "pending").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err := repo.CountByCitizen(context.Background(), 100, []string{"pending"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
