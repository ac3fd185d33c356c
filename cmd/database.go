package cmd

import (
	"fmt"
	"time"

	"github.com/frahmantamala/task-management/internal"
	permissionDatamodel "github.com/frahmantamala/task-management/internal/core/datamodel/permission"
	roleDatamodel "github.com/frahmantamala/task-management/internal/core/datamodel/role"
	taskDatamodel "github.com/frahmantamala/task-management/internal/core/datamodel/task"
	userDatamodel "github.com/frahmantamala/task-management/internal/core/datamodel/user"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

const driverSQLite = "sqlite"

// models lists every table in creation order.
func models() []interface{} {
	return []interface{}{
		&userDatamodel.User{},
		&taskDatamodel.Task{},
		&roleDatamodel.Role{},
		&permissionDatamodel.Permission{},
	}
}

// initDB opens the configured database once and exposes it through gorm for the
// repositories and through sqlx for raw probes.
func initDB(cfg internal.DatabaseConfig, logLevel string) (*gorm.DB, *sqlx.DB, error) {
	gormCfg := &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger.Default.LogMode(gormLogLevel(logLevel)),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	}

	switch cfg.Driver {
	case driverSQLite:
		db, err := gorm.Open(sqlite.Open(cfg.Source), gormCfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, err
		}
		// sqlite allows a single writer
		sqlDB.SetMaxOpenConns(1)
		if err := db.AutoMigrate(models()...); err != nil {
			return nil, nil, fmt.Errorf("failed to migrate sqlite database: %w", err)
		}
		return db, sqlx.NewDb(sqlDB, "sqlite3"), nil

	default:
		const driver = "pgx"

		dbConn, err := sqlx.Connect(driver, cfg.Source)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open db connection: %w", err)
		}

		dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
		dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
		dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

		db, err := gorm.Open(postgres.New(postgres.Config{Conn: dbConn.DB}), gormCfg)
		if err != nil {
			_ = dbConn.Close()
			return nil, nil, fmt.Errorf("failed to open gorm on postgres: %w", err)
		}

		if cfg.AutoMigrate {
			if err := db.AutoMigrate(models()...); err != nil {
				_ = dbConn.Close()
				return nil, nil, fmt.Errorf("failed to auto migrate: %w", err)
			}
		}
		return db, dbConn, nil
	}
}

func gormLogLevel(level string) gormLogger.LogLevel {
	switch level {
	case "debug":
		return gormLogger.Info
	case "error":
		return gormLogger.Error
	default:
		return gormLogger.Warn
	}
}
