package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDatabase(t *testing.T, monitorPings bool) (*Database, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(monitorPings))
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: mockDB, DriverName: "postgres"}),
		&gorm.Config{SkipDefaultTransaction: true, DisableAutomaticPing: true})
	require.NoError(t, err)
	return &Database{DB: gormDB}, mock
}

func TestDatabase_Ping(t *testing.T) {
	t.Run("reachable", func(t *testing.T) {
		db, mock := newMockDatabase(t, true)
		mock.ExpectPing()

		require.NoError(t, db.Ping(context.Background()))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unreachable is wrapped", func(t *testing.T) {
		db, mock := newMockDatabase(t, true)
		down := errors.New("connection refused")
		mock.ExpectPing().WillReturnError(down)

		err := db.Ping(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, down)
		assert.Contains(t, err.Error(), "failed to ping database")
	})
}

func TestDatabase_Pool(t *testing.T) {
	db, _ := newMockDatabase(t, false)
	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(7)

	usage, err := db.Pool()
	require.NoError(t, err)
	assert.Equal(t, 7, usage.MaxOpen)
	assert.GreaterOrEqual(t, usage.Open, usage.InUse)
}

func TestDatabase_Close(t *testing.T) {
	db, mock := newMockDatabase(t, false)
	mock.ExpectClose()

	require.NoError(t, db.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}
