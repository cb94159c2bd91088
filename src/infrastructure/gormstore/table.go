package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"diary-app/src/domain"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// failed logs a failed statement on table and wraps err as "<op> <table>: err"
func failed(logger *logrus.Logger, op, table string, err error) error {
	logger.WithError(err).WithFields(logrus.Fields{
		"op":    op,
		"table": table,
	}).Error("SQLiteの操作に失敗")
	return fmt.Errorf("%s %s: %w", op, table, err)
}

// table implements domain.Repository[T] over one SQLite table
type table[T any] struct {
	db     *gorm.DB
	logger *logrus.Logger
	name   string
	order  string
	// stamp fills the server-assigned columns of a new row
	stamp func(rec *T, id, owner string, now time.Time)
	// key returns the primary key of rec
	key func(rec *T) string
}

func (t *table[T]) scoped(ctx context.Context) *gorm.DB {
	return t.db.WithContext(ctx).Table(t.name)
}

func (t *table[T]) Create(ctx context.Context, owner string, rec *T) (*T, error) {
	out := *rec
	t.stamp(&out, uuid.New().String(), owner, time.Now())
	if err := t.scoped(ctx).Create(&out).Error; err != nil {
		return nil, failed(t.logger, "create", t.name, err)
	}
	return &out, nil
}

func (t *table[T]) GetByID(ctx context.Context, owner, id string) (*T, error) {
	var out T
	err := t.scoped(ctx).Where("user_id = ? AND id = ?", owner, id).First(&out).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, failed(t.logger, "get", t.name, err)
	}
	return &out, nil
}

func (t *table[T]) List(ctx context.Context, owner string) ([]T, error) {
	out := []T{}
	if err := t.scoped(ctx).Where("user_id = ?", owner).Order(t.order).Find(&out).Error; err != nil {
		return nil, failed(t.logger, "list", t.name, err)
	}
	return out, nil
}

// Update writes every column except the key, owner and creation time
func (t *table[T]) Update(ctx context.Context, owner string, rec *T) (*T, error) {
	id := t.key(rec)
	res := t.scoped(ctx).
		Where("user_id = ? AND id = ?", owner, id).
		Select("*").Omit("id", "user_id", "created_at").
		Updates(rec)
	if res.Error != nil {
		return nil, failed(t.logger, "update", t.name, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrRecordNotFound
	}
	return t.GetByID(ctx, owner, id)
}

func (t *table[T]) Delete(ctx context.Context, owner, id string) error {
	res := t.scoped(ctx).Where("user_id = ? AND id = ?", owner, id).Delete(new(T))
	if res.Error != nil {
		return failed(t.logger, "delete", t.name, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}
