package sql

import (
	"fmt"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const _postgresPasswordEnv = "PUSH_REGISTRAR_POSTGRES_PASSWORD"

func NewPosgreORM(dsn string) (*DB, error) {
	pass, ok := os.LookupEnv(_postgresPasswordEnv)
	if ok {
		dsn = fmt.Sprintf("%s password=%s", dsn, pass)
	}

	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("opening postgres database: %w", err)
	}

	return &DB{
		DB:                   gormDB,
		system:               "postgresql",
		autoMigrationEnabled: true,
	}, nil
}

// NewORM opens the database selected by driver: "sqlite", "memory" or "postgres".
func NewORM(driver, dsn string) (*DB, error) {
	switch driver {
	case "postgres":
		return NewPosgreORM(dsn)
	case "sqlite":
		return NewSQLiteORM(dsn)
	case "memory", "":
		return NewMemoryORM()
	default:
		return nil, fmt.Errorf("unknown database driver %q", driver)
	}
}
