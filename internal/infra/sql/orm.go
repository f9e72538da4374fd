package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

type ORM interface {
	AutoMigrate(dst ...any) error
	Create(value any) ORM
	Delete(value any, conds ...any) ORM
	First(dest any, conds ...any) ORM
	Save(value any) ORM
	Transaction(fc func(tx ORM) error, opts ...*sql.TxOptions) error
	Where(query any, args ...any) ORM
	WithContext(ctx context.Context) ORM

	Error() error
}

type DB struct {
	*gorm.DB
	system               string
	autoMigrationEnabled bool
}

var (
	ErrRecordNotFound = errors.New("record not found")
)

func (d DB) Error() error {
	switch {
	case errors.Is(d.DB.Error, gorm.ErrRecordNotFound):
		return ErrRecordNotFound
	case d.DB.Error != nil:
		return fmt.Errorf("database error: %w", d.DB.Error)
	default:
		return nil
	}
}

var _ ORM = (*DB)(nil)

// Close releases the underlying connection pool.
func (d DB) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("getting connection pool: %w", err)
	}
	return sqlDB.Close()
}

func (d DB) AutoMigrate(dst ...any) error {
	if d.autoMigrationEnabled {
		return d.DB.AutoMigrate(dst...)
	}

	return nil
}

func (d DB) Create(value any) ORM {
	d.setSpanAttributes("create")
	d.DB = d.DB.Create(value)
	return &d
}

func (d DB) Delete(value any, conds ...any) ORM {
	d.setSpanAttributes("delete")
	d.DB = d.DB.Delete(value, conds...)
	return &d
}

func (d DB) First(value any, conds ...any) ORM {
	d.setSpanAttributes("first")
	d.DB = d.DB.First(value, conds...)
	return &d
}

func (d DB) Save(value any) ORM {
	d.setSpanAttributes("save")
	d.DB = d.DB.Save(value)
	return &d
}

func (d DB) Where(value any, conds ...any) ORM {
	d.DB = d.DB.Where(value, conds...)
	return &d
}

func (d DB) WithContext(value context.Context) ORM {
	d.DB = d.DB.WithContext(value)
	return &d
}

func (d DB) Transaction(f func(ORM) error, opts ...*sql.TxOptions) error {
	return d.DB.Transaction(func(tx *gorm.DB) error {
		return f(&DB{DB: tx, system: d.system, autoMigrationEnabled: d.autoMigrationEnabled})
	}, opts...)
}

func (d DB) setSpanAttributes(operation string) {
	if ctx := d.DB.Statement.Context; ctx != nil {
		if span := trace.SpanFromContext(ctx); span.IsRecording() {
			span.SetAttributes(
				attribute.String("component", "database"),
				attribute.String("db.system", d.system),
				attribute.String("db.operation", operation),
			)
		}
	}
}
