package store

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rfx_ecoverse/internal/errs"
)

func TestIssueResetTokenBurnsOutstandingTokens(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `password_resets` SET").WillReturnResult(sqlmock.NewResult(0, 1)) // previous token burned
	mock.ExpectExec("INSERT INTO `password_resets`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	token, err := IssueResetToken(db, 7)
	require.NoError(t, err)
	assert.Len(t, token, 40) // 20 random bytes, hex encoded
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConsumeResetTokenSingleUse(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT (.+) FROM `password_resets`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "token_hash", "expires_at"}).
			AddRow(3, 7, "irrelevant-for-the-mock", time.Now().Add(time.Hour)))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `password_resets` SET").WillReturnResult(sqlmock.NewResult(0, 1)) // marked used
	mock.ExpectCommit()

	userID, err := ConsumeResetToken(db, "aaaabbbbccccddddeeeeffff0000111122223333")
	require.NoError(t, err)
	assert.Equal(t, uint(7), userID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConsumeResetTokenUnknownOrExpired(t *testing.T) {
	db, mock := newMockDB(t)

	// Spent, expired and unknown tokens all miss the same lookup
	mock.ExpectQuery("SELECT (.+) FROM `password_resets`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "token_hash", "expires_at"}))

	_, err := ConsumeResetToken(db, "aaaabbbbccccddddeeeeffff0000111122223333")
	require.Error(t, err)
	assert.Equal(t, errs.Validation, errs.KindOf(err))
}

func TestConsumeResetTokenEmpty(t *testing.T) {
	db, _ := newMockDB(t)

	_, err := ConsumeResetToken(db, "")
	require.Error(t, err)
	assert.Equal(t, errs.Validation, errs.KindOf(err))
}
