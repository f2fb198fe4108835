package repositories

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The rank predicate must reach MySQL with the column quoted: RANK is a
// reserved word in MySQL 8 and an unquoted fragment is a syntax error.
func TestFindEscalationTargetQuotesRankColumn(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStaffRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM `officers` WHERE department_id = (.+) AND `rank` = (.+) AND is_active = (.+) AND id <> (.+)").
		WithArgs(uint(3), "senior", true, uint(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "department_id", "rank", "is_active"}).
			AddRow(7, 11, 3, "senior", true))
	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "full_name"}).
			AddRow(11, "senior1", "Senior Officer"))

	officer, err := repo.FindEscalationTarget(context.Background(), 3, 1)
	require.NoError(t, err)
	require.NotNil(t, officer)
	assert.Equal(t, uint(7), officer.ID)
	assert.Equal(t, "senior", officer.Rank)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindEscalationTargetExhaustsRanksThenAnyOfficer(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStaffRepository(db)

	empty := func() *sqlmock.Rows { return sqlmock.NewRows([]string{"id"}) }

	mock.ExpectQuery("SELECT (.+) FROM `officers` WHERE department_id = (.+) AND `rank` = (.+)").
		WithArgs(uint(3), "senior", true, uint(1)).
		WillReturnRows(empty())
	mock.ExpectQuery("SELECT (.+) FROM `officers` WHERE department_id = (.+) AND `rank` = (.+)").
		WithArgs(uint(3), "head", true, uint(1)).
		WillReturnRows(empty())
	mock.ExpectQuery("SELECT (.+) FROM `officers` WHERE department_id = (.+) AND is_active = (.+)").
		WithArgs(uint(3), true, uint(1)).
		WillReturnRows(empty())

	officer, err := repo.FindEscalationTarget(context.Background(), 3, 1)
	require.NoError(t, err)
	assert.Nil(t, officer, "no candidate leaves the complaint with its current officer")
	assert.NoError(t, mock.ExpectationsWereMet())
}
