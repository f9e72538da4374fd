package sql

import (
	"fmt"
	"push-registrar/internal/infra/utils"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewMemoryORM opens a private in-memory database. Every call gets its own
// database.
func NewMemoryORM() (*DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", utils.GenerateUUID())
	return openSQLite(dsn)
}

// NewSQLiteORM opens or creates the database file at path.
func NewSQLiteORM(path string) (*DB, error) {
	return openSQLite(path)
}

func openSQLite(dsn string) (*DB, error) {
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sqlite handle: %w", err)
	}
	// a single connection keeps the in-memory database alive and serializes writers
	sqlDB.SetMaxOpenConns(1)

	return &DB{DB: gormDB, system: "sqlite", autoMigrationEnabled: true}, nil
}
