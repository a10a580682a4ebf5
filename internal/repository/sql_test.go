package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"yoladmin/pkg/constraints"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func newSQLStorage(t *testing.T) (*SQLStorage, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gdb, err := gorm.Open(mysql.New(mysql.Config{Conn: db, SkipInitializeWithVersion: true}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return NewSQLStorage(gdb, "ops"), mock
}

var selectEntry = regexp.QuoteMeta("SELECT * FROM `console_sessions` WHERE namespace = ? AND name = ?")

func TestSQLStorageLoad(t *testing.T) {
	s, mock := newSQLStorage(t)

	rows := sqlmock.NewRows([]string{"namespace", "name", "value", "updated_at"}).
		AddRow("ops", constraints.KeyAccessToken, "a1", time.Now())
	mock.ExpectQuery(selectEntry).WillReturnRows(rows)

	val, ok, err := s.Load(context.Background(), constraints.KeyAccessToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "a1", val)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStorageLoadMissing(t *testing.T) {
	s, mock := newSQLStorage(t)

	mock.ExpectQuery(selectEntry).
		WillReturnRows(sqlmock.NewRows([]string{"namespace", "name", "value", "updated_at"}))

	_, ok, err := s.Load(context.Background(), constraints.KeyRefreshToken)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStorageSaveUpserts(t *testing.T) {
	s, mock := newSQLStorage(t)

	mock.ExpectExec("INSERT INTO `console_sessions`.*ON DUPLICATE KEY UPDATE").
		WithArgs("ops", constraints.KeyAccessToken, "a2", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, s.Save(context.Background(), constraints.KeyAccessToken, "a2"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStorageRemove(t *testing.T) {
	s, mock := newSQLStorage(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `console_sessions` WHERE namespace = ? AND name IN (?,?)")).
		WithArgs("ops", constraints.KeyAccessToken, constraints.KeyRefreshToken).
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, s.Remove(context.Background(), constraints.KeyAccessToken, constraints.KeyRefreshToken))
	assert.NoError(t, s.Remove(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
