// Package record reads canonical property aggregates from the system of
// record. It is strictly a consumer: property writes happen elsewhere and
// reach this service only as sync events.
package record

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/openbrik/propsearch/internal/domain"
	"github.com/openbrik/propsearch/internal/domain/property"
)

// Open connects to the system-of-record Postgres database.
func Open(dsn string) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open record database: %w", err)
	}
	return gdb, nil
}

// Reader implements the property reader over GORM.
type Reader struct {
	db *gorm.DB
}

// New creates a record reader.
func New(db *gorm.DB) *Reader {
	return &Reader{db: db}
}

// Get returns one fully joined property. Soft-deleted rows are excluded by
// the DeletedAt scope; a missing or deleted property yields
// domain.ErrPropertyNotFound.
func (r *Reader) Get(ctx context.Context, id string) (property.Property, error) {
	var model propertyModel
	err := r.db.WithContext(ctx).
		Preload("Area").
		Preload("Developer").
		Preload("Community").
		Preload("Agent").
		First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return property.Property{}, domain.ErrPropertyNotFound
		}
		return property.Property{}, fmt.Errorf("get property %s: %w", id, err)
	}
	return model.toDomain(), nil
}

// ListAll returns every eligible (non-deleted) property with joins resolved,
// for full resync.
func (r *Reader) ListAll(ctx context.Context) ([]property.Property, error) {
	var models []propertyModel
	err := r.db.WithContext(ctx).
		Preload("Area").
		Preload("Developer").
		Preload("Community").
		Preload("Agent").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}

	out := make([]property.Property, len(models))
	for i := range models {
		out[i] = models[i].toDomain()
	}
	return out, nil
}
