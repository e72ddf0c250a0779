package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createTokenTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE tokens (
		id TEXT PRIMARY KEY,
		chain_id TEXT NOT NULL,
		symbol TEXT NOT NULL,
		name TEXT NOT NULL,
		decimals INTEGER,
		address TEXT,
		is_native BOOLEAN,
		issuing_chain_id TEXT,
		is_active BOOLEAN,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME,
		UNIQUE (chain_id, symbol)
	);`)
}

func createTransferAttemptTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE transfer_attempts (
		id TEXT PRIMARY KEY,
		from_chain_id TEXT NOT NULL,
		to_chain_id TEXT NOT NULL,
		symbol TEXT NOT NULL,
		amount TEXT NOT NULL,
		sender TEXT NOT NULL,
		recipient TEXT NOT NULL,
		memo TEXT,
		status TEXT NOT NULL,
		transaction_id TEXT,
		failure_reason TEXT,
		created_at DATETIME,
		completed_at DATETIME,
		deleted_at DATETIME
	);`)
}
