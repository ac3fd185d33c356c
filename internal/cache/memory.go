package cache

import (
	"context"
	"time"

	"github.com/viccon/sturdyc"
)

// MemoryConfig sizes the in-process sturdyc client.
type MemoryConfig struct {
	Capacity           int
	NumShards          int
	TTL                time.Duration
	EvictionPercentage int
}

func DefaultMemoryConfig() MemoryConfig {
	return MemoryConfig{
		Capacity:           10000,
		NumShards:          10,
		TTL:                10 * time.Minute,
		EvictionPercentage: 10,
	}
}

type MemoryStore struct {
	client *sturdyc.Client[[]byte]
}

func NewMemoryStore(cfg MemoryConfig) *MemoryStore {
	defaults := DefaultMemoryConfig()
	if cfg.Capacity <= 0 {
		cfg.Capacity = defaults.Capacity
	}
	if cfg.NumShards <= 0 {
		cfg.NumShards = defaults.NumShards
	}
	if cfg.TTL <= 0 {
		cfg.TTL = defaults.TTL
	}
	if cfg.EvictionPercentage <= 0 {
		cfg.EvictionPercentage = defaults.EvictionPercentage
	}

	return &MemoryStore{
		client: sturdyc.New[[]byte](cfg.Capacity, cfg.NumShards, cfg.TTL, cfg.EvictionPercentage),
	}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	value, ok := m.client.Get(key)
	return value, ok, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	m.client.Set(key, value)
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.client.Delete(key)
	return nil
}

func (m *MemoryStore) Size() int {
	return m.client.Size()
}
