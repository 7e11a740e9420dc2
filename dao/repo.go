package dao

import (
	"Omnisell/pkg/database"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repo 通用单表访问，事务由 ctx 携带
type Repo[T any] struct {
	Db *gorm.DB
}

func NewRepo[T any](db *gorm.DB) Repo[T] {
	return Repo[T]{Db: db}
}

// Conn 当前 ctx 上的事务，没有则返回普通连接
func (r *Repo[T]) Conn(ctx context.Context) *gorm.DB {
	return database.Conn(ctx, r.Db)
}

func (r *Repo[T]) Create(ctx context.Context, v *T) error {
	return r.Conn(ctx).Create(v).Error
}

func (r *Repo[T]) FindByID(ctx context.Context, id uint64) (*T, error) {
	var v T
	if err := r.Conn(ctx).Where("id = ?", id).First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

// LockByID SELECT ... FOR UPDATE，必须在事务内调用
func (r *Repo[T]) LockByID(ctx context.Context, id uint64) (*T, error) {
	var v T
	err := r.Conn(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Where("id = ?", id).
		First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *Repo[T]) UpdateColumns(ctx context.Context, id uint64, values map[string]any) error {
	var v T
	return r.Conn(ctx).Model(&v).Where("id = ?", id).UpdateColumns(values).Error
}
