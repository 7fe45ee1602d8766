package gormrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"colonyai/internal/adapter/repo/gorm/model"
	"colonyai/internal/adapter/repo/kv"
	"colonyai/internal/app/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MemoryEntryRepo is the postgres kv.Backend. Rows keep their first-insert seq across upserts.
type MemoryEntryRepo struct {
	db  *gorm.DB
	now func() time.Time
}

func NewMemoryEntryRepo(db *gorm.DB) MemoryEntryRepo {
	return MemoryEntryRepo{db: db, now: time.Now}
}

func (r MemoryEntryRepo) Get(ctx context.Context, ns, key string) ([]byte, error) {
	var m model.MemoryEntry
	err := entriesDB(ctx, r.db).WithContext(ctx).
		Where("namespace = ? AND key = ?", ns, key).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, fmt.Errorf("get %s/%s: %w", ns, key, err)
	}
	return m.Value, nil
}

func (r MemoryEntryRepo) Put(ctx context.Context, ns, key string, value []byte) error {
	m := model.MemoryEntry{Namespace: ns, Key: key, Value: value, UpdatedAt: r.now()}
	err := entriesDB(ctx, r.db).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "namespace"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&m).Error
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", ns, key, err)
	}
	return nil
}

func (r MemoryEntryRepo) Insert(ctx context.Context, ns, key string, value []byte) error {
	m := model.MemoryEntry{Namespace: ns, Key: key, Value: value, UpdatedAt: r.now()}
	res := entriesDB(ctx, r.db).WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&m)
	if res.Error != nil {
		return fmt.Errorf("insert %s/%s: %w", ns, key, res.Error)
	}
	if res.RowsAffected == 0 {
		return ports.ErrConflict
	}
	return nil
}

func (r MemoryEntryRepo) Delete(ctx context.Context, ns, key string) error {
	err := entriesDB(ctx, r.db).WithContext(ctx).
		Where("namespace = ? AND key = ?", ns, key).
		Delete(&model.MemoryEntry{}).Error
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", ns, key, err)
	}
	return nil
}

func (r MemoryEntryRepo) List(ctx context.Context, ns string) ([]kv.Entry, error) {
	rows := []model.MemoryEntry{}
	err := entriesDB(ctx, r.db).WithContext(ctx).
		Where(&model.MemoryEntry{Namespace: ns}).
		Clauses(clause.OrderBy{
			Columns: []clause.OrderByColumn{{Column: clause.Column{Name: "seq"}}},
		}).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", ns, err)
	}
	out := make([]kv.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, kv.Entry{Key: row.Key, Value: row.Value})
	}
	return out, nil
}
