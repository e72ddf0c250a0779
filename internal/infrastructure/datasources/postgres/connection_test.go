package postgres

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"bridge-kita.backend/internal/config"
)

func TestNewConnection_OpenFailure(t *testing.T) {
	origOpen := gormOpen
	t.Cleanup(func() { gormOpen = origOpen })

	gormOpen = func(string) (*gorm.DB, error) {
		return nil, errors.New("open failed")
	}

	db, err := NewConnection(config.DatabaseConfig{Host: "localhost", Port: 5432})
	require.Error(t, err)
	require.Nil(t, db)
	require.Contains(t, err.Error(), "failed to open database")
}

func TestNewConnection_PingFailure(t *testing.T) {
	origOpen := gormOpen
	origPing := dbPing
	t.Cleanup(func() {
		gormOpen = origOpen
		dbPing = origPing
	})

	gormOpen = func(string) (*gorm.DB, error) {
		return gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	}
	dbPing = func(*sql.DB) error { return errors.New("no route to host") }

	db, err := NewConnection(config.DatabaseConfig{Host: "127.0.0.1", Port: 1})
	require.Error(t, err)
	require.Nil(t, db)
	require.Contains(t, err.Error(), "failed to ping database")
}

func TestNewConnection_Success(t *testing.T) {
	origOpen := gormOpen
	origPing := dbPing
	t.Cleanup(func() {
		gormOpen = origOpen
		dbPing = origPing
	})

	gormOpen = func(string) (*gorm.DB, error) {
		return gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	}
	dbPing = func(*sql.DB) error { return nil }

	db, err := NewConnection(config.DatabaseConfig{
		Host: "localhost", Port: 5432, User: "u", Password: "p", DBName: "d", SSLMode: "disable",
	})
	require.NoError(t, err)
	require.NotNil(t, db)
}
