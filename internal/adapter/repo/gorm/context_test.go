package gormrepo

import (
	"context"
	"testing"

	"gorm.io/gorm"
)

func TestEntriesDB_PrefersTickTx(t *testing.T) {
	base := &gorm.DB{}
	if got := entriesDB(context.Background(), base); got != base {
		t.Fatalf("expected base handle outside a tick, got %p", got)
	}
	tx := &gorm.DB{}
	ctx := bindTickTx(context.Background(), tx)
	if got := entriesDB(ctx, base); got != tx {
		t.Fatalf("expected tick transaction, got %p", got)
	}
	if got := entriesDB(bindTickTx(context.Background(), nil), base); got != base {
		t.Fatalf("expected nil transaction ignored, got %p", got)
	}
}

func TestRunInTx_JoinsBoundTx(t *testing.T) {
	tx := &gorm.DB{}
	ctx := bindTickTx(context.Background(), tx)
	var seen *gorm.DB
	err := TxManager{}.RunInTx(ctx, func(inner context.Context) error {
		seen, _ = tickTx(inner)
		return nil
	})
	if err != nil {
		t.Fatalf("run in tx: %v", err)
	}
	if seen != tx {
		t.Fatalf("expected bound transaction reused, got %p", seen)
	}
}
