package gormrepo

import (
	"context"

	"gorm.io/gorm"
)

// TxManager commits or rolls back one tick's memory writes together.
type TxManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) TxManager {
	return TxManager{db: db}
}

// RunInTx joins a transaction already bound to ctx instead of opening a nested one.
func (t TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := tickTx(ctx); ok {
		return fn(ctx)
	}
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(bindTickTx(ctx, tx))
	})
}
