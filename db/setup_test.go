package db

import (
	"errors"
	"fmt"
	"testing"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vrdaw-dev/vrdaw/internal/config"
	"gorm.io/gorm"
)

func TestMySQLDSN_EnablesParseTime(t *testing.T) {
	dsn, err := mysqlDSN("vrdaw:pw@tcp(db:3306)/vrdaw?charset=utf8mb4")
	require.NoError(t, err)

	c, err := mysqldriver.ParseDSN(dsn)
	require.NoError(t, err)
	assert.True(t, c.ParseTime)
	assert.Equal(t, "vrdaw", c.User)
	assert.Equal(t, "db:3306", c.Addr)
	assert.Equal(t, "vrdaw", c.DBName)
}

func TestConnect_Rejects(t *testing.T) {
	_, err := Connect(&config.Config{DatabaseDriver: config.DriverMySQL, DatabaseDSN: "not a dsn"})
	assert.ErrorContains(t, err, "parse mysql dsn")

	_, err = Connect(&config.Config{DatabaseDriver: "oracle"})
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestConnect_SQLite(t *testing.T) {
	gdb, err := Connect(&config.Config{DatabaseDriver: config.DriverSQLite, DatabaseDSN: "file::memory:"})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, Migrate(gdb))
	assert.True(t, gdb.Migrator().HasTable("collaborations"))
}

func TestIsDuplicateKey(t *testing.T) {
	assert.False(t, IsDuplicateKey(nil))
	assert.False(t, IsDuplicateKey(errors.New("connection refused")))
	assert.True(t, IsDuplicateKey(gorm.ErrDuplicatedKey))
	assert.True(t, IsDuplicateKey(errors.New("UNIQUE constraint failed: users.username")))
	assert.True(t, IsDuplicateKey(fmt.Errorf("insert: %w", &mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry"})))
}
