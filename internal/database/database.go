// Package database opens the Postgres connection and owns the schema.
package database

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Oniqq60/staff_control/internal/auth"
	"github.com/Oniqq60/staff_control/internal/cfg"
	"github.com/Oniqq60/staff_control/internal/employee"
	"github.com/Oniqq60/staff_control/internal/task"
)

// Open connects to Postgres and configures the pool. Driver errors are
// translated so repositories can match gorm.ErrDuplicatedKey and
// gorm.ErrForeignKeyViolated.
func Open(c cfg.Config, log *zap.Logger) (*gorm.DB, error) {
	level := gormlogger.Warn
	if !c.IsProduction() {
		level = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(c.DSN()), &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(zap.NewStdLog(log.Named("gorm")), gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("init sql DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(c.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(c.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(c.DBConnMaxLifetime)

	return db, nil
}

func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Models lists the tables in dependency order.
func Models() []any {
	return []any{&auth.User{}, &employee.Employee{}, &task.Task{}}
}

// Migrate creates or updates tables, indexes, checks and foreign keys.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
