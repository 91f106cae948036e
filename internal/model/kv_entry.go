package model

import "time"

// KVEntry is one value of a user's key-value store.
type KVEntry struct {
	ID        uint   `gorm:"primaryKey"`
	Scope     string `gorm:"size:64;uniqueIndex:idx_kv_scope_key"`
	Key       string `gorm:"size:64;uniqueIndex:idx_kv_scope_key"`
	Value     []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (KVEntry) TableName() string {
	return "kv_entries"
}
