package db

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/vrdaw-dev/vrdaw/internal/config"
	"github.com/vrdaw-dev/vrdaw/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the database named by cfg.DatabaseDriver and cfg.DatabaseDSN.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.DatabaseDriver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DatabaseDSN)
	case config.DriverMySQL:
		dsn, err := mysqlDSN(cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		dialector = mysql.Open(dsn)
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.DatabaseDSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}

	return Open(dialector)
}

// mysqlDSN normalizes a go-sql-driver DSN. Timestamps must scan into
// time.Time, so parseTime is always on.
func mysqlDSN(dsn string) (string, error) {
	c, err := mysqldriver.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse mysql dsn: %w", err)
	}

	c.ParseTime = true
	if c.Loc == nil {
		c.Loc = time.UTC
	}

	return c.FormatDSN(), nil
}

// Open wraps gorm.Open with the settings every caller wants: duplicate-key
// errors translated to gorm.ErrDuplicatedKey and SQL logging kept quiet.
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})

	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	models := []interface{}{
		&models.User{},
		&models.Project{},
		&models.AudioFile{},
		&models.Collaboration{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	return nil
}

// IsDuplicateKey reports whether err is a unique-constraint violation. Drivers
// that do not translate errors are matched on their message.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := err.Error()

	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		return true
	}

	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key value")
}
