package gormrepo

import (
	"context"

	"gorm.io/gorm"
)

// tickTxKey carries the transaction a colony tick writes its memory entries through.
type tickTxKey struct{}

func bindTickTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, tickTxKey{}, tx)
}

func tickTx(ctx context.Context) (*gorm.DB, bool) {
	tx, ok := ctx.Value(tickTxKey{}).(*gorm.DB)
	return tx, ok && tx != nil
}

// entriesDB is the handle memory_entries queries run on: the tick's transaction when one is
// open, base otherwise.
func entriesDB(ctx context.Context, base *gorm.DB) *gorm.DB {
	if tx, ok := tickTx(ctx); ok {
		return tx
	}
	return base
}
