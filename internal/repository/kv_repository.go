package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"study-hub/internal/model"
)

// KV is a key-value byte store partitioned by scope.
type KV interface {
	Get(ctx context.Context, scope, key string) ([]byte, bool, error)
	Set(ctx context.Context, scope, key string, value []byte) error
	Close() error
}

// KVRepository keeps key-value entries in the kv_entries table.
type KVRepository struct {
	db *gorm.DB
}

func NewKVRepository(db *gorm.DB) *KVRepository {
	return &KVRepository{db: db}
}

func (r *KVRepository) Get(ctx context.Context, scope, key string) ([]byte, bool, error) {
	var entry model.KVEntry
	err := r.db.WithContext(ctx).
		Where(map[string]interface{}{"scope": scope, "key": key}).
		First(&entry).Error
	switch {
	case err == nil:
		return entry.Value, true, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, false, nil
	default:
		return nil, false, fmt.Errorf("get %s/%s: %w", scope, key, err)
	}
}

// Set overwrites the entry, creating it if missing.
func (r *KVRepository) Set(ctx context.Context, scope, key string, value []byte) error {
	entry := model.KVEntry{Scope: scope, Key: key, Value: value}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "scope"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("set %s/%s: %w", scope, key, err)
	}
	return nil
}

// Close is a no-op; the database handle is owned by the caller.
func (r *KVRepository) Close() error {
	return nil
}

// ScopedStore binds a KV to one scope.
type ScopedStore struct {
	kv    KV
	scope string
}

func NewScopedStore(kv KV, scope string) *ScopedStore {
	return &ScopedStore{kv: kv, scope: scope}
}

func (s *ScopedStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.kv.Get(ctx, s.scope, key)
}

func (s *ScopedStore) Set(ctx context.Context, key string, value []byte) error {
	return s.kv.Set(ctx, s.scope, key, value)
}
