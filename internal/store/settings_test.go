package store

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rfx_ecoverse/internal/errs"
)

func TestUpsertSettingCreatesOnFirstWrite(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT (.+) FROM `platform_settings`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "key", "value", "description"})) // nothing stored yet
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `platform_settings`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	setting, created, err := UpsertSetting(db, "referral_bonus", "50", "RFX credited to a referrer")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "referral_bonus", setting.Key)
	assert.Equal(t, "50", setting.Value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertSettingUpdatesOnSecondWrite(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT (.+) FROM `platform_settings`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "key", "value", "description"}).
			AddRow(1, "referral_bonus", "50", "RFX credited to a referrer"))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `platform_settings` SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	setting, created, err := UpsertSetting(db, "referral_bonus", "75", "")
	require.NoError(t, err)
	assert.False(t, created) // Converged onto the existing row
	assert.Equal(t, "75", setting.Value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertSettingLosingCreateRaceConverges(t *testing.T) {
	db, mock := newMockDB(t)

	// The lookup sees nothing, but a concurrent first write lands before
	// the insert and the unique index refuses the loser
	mock.ExpectQuery("SELECT (.+) FROM `platform_settings`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "key", "value", "description"}))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `platform_settings`").WillReturnError(duplicateKeyErr)
	mock.ExpectRollback()
	// Converge onto the winner's row and update it
	mock.ExpectQuery("SELECT (.+) FROM `platform_settings`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "key", "value", "description"}).
			AddRow(1, "referral_bonus", "50", ""))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `platform_settings` SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	setting, created, err := UpsertSetting(db, "referral_bonus", "75", "")
	require.NoError(t, err)
	assert.False(t, created) // The raced key converged like any repeat write
	assert.Equal(t, "75", setting.Value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertSettingRequiresKey(t *testing.T) {
	db, _ := newMockDB(t)

	_, _, err := UpsertSetting(db, "", "50", "")
	require.Error(t, err)
	assert.Equal(t, errs.Validation, errs.KindOf(err))
}

func TestGetSettingMissing(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT (.+) FROM `platform_settings`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "key", "value", "description"}))

	_, err := GetSetting(db, "does_not_exist")
	require.Error(t, err)
	assert.Equal(t, errs.NotFound, errs.KindOf(err))
}

func TestSettingFloatFallsBack(t *testing.T) {
	db, mock := newMockDB(t)

	// Absent setting → default
	mock.ExpectQuery("SELECT (.+) FROM `platform_settings`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "key", "value", "description"}))
	assert.Equal(t, 50.0, SettingFloat(db, "referral_bonus", 50))

	// Non-numeric value → default
	mock.ExpectQuery("SELECT (.+) FROM `platform_settings`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "key", "value", "description"}).
			AddRow(1, "referral_bonus", "lots", ""))
	assert.Equal(t, 50.0, SettingFloat(db, "referral_bonus", 50))

	// Stored numeric value wins
	mock.ExpectQuery("SELECT (.+) FROM `platform_settings`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "key", "value", "description"}).
			AddRow(1, "referral_bonus", "75", ""))
	assert.Equal(t, 75.0, SettingFloat(db, "referral_bonus", 50))
}
