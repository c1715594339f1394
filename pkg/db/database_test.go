package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SQLite(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "items.db")

	gdb, err := Open(context.Background(), "sqlite", dsn)
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	var one int
	require.NoError(t, gdb.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}

func TestOpen_RejectsBadInput(t *testing.T) {
	_, err := Open(context.Background(), "postgres", "")
	assert.Error(t, err)

	_, err = Open(context.Background(), "mysql", "dsn")
	assert.Error(t, err)
}
