package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/camden-git/campaidbackend/logging"
	"github.com/camden-git/campaidbackend/models"
)

// InitGormDB opens GORM on top of the existing connection pool, so administrator
// accounts and the camp tables share one database and one pool.
func InitGormDB(db *DB) (*gorm.DB, error) {
	gormLogger := logger.New(
		logging.StdLog(zap.L(), "gorm"),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	var dialector gorm.Dialector
	switch db.Driver {
	case DriverPostgres:
		dialector = postgres.New(postgres.Config{Conn: db.DB})
	default:
		dialector = &sqlite.Dialector{DriverName: DriverSQLite, Conn: db.DB}
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database using GORM: %w", err)
	}

	zap.L().Info("GORM initialized", zap.String("driver", db.Driver))
	return gdb, nil
}

// AutoMigrateModels creates or updates the administrator account tables.
func AutoMigrateModels(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.UserRole{},
	)
	if err != nil {
		return fmt.Errorf("GORM AutoMigrate failed: %w", err)
	}
	zap.L().Info("GORM AutoMigrate completed successfully")
	return nil
}
