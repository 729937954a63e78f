package store

import (
	"context"
	"encoding/json"
	"time"
)

// Backend is a read/write pair a cached program persists its done value
// through. Read fails to signal a miss; Write persists a freshly computed
// value. Implementations decide retry policy; the cache core performs none.
type Backend[D any] interface {
	Read(ctx context.Context) (D, error)
	Write(ctx context.Context, value D) error
}

// Codec serializes done values for backends that store bytes.
type Codec[D any] interface {
	Encode(value D) ([]byte, error)
	Decode(data []byte) (D, error)
}

// JSONCodec is the default Codec.
type JSONCodec[D any] struct{}

// Encode implements Codec.
func (JSONCodec[D]) Encode(value D) ([]byte, error) {
	return json.Marshal(value)
}

// Decode implements Codec.
func (JSONCodec[D]) Decode(data []byte) (D, error) {
	var value D
	err := json.Unmarshal(data, &value)
	return value, err
}

// Memory is a Backend over a single KVStore entry.
type Memory[D any] struct {
	kv  *KVStore
	key string
	ttl time.Duration
}

// NewMemory creates a memory backend over kv. A nil kv gets a private
// store.
func NewMemory[D any](kv *KVStore, key string) *Memory[D] {
	if kv == nil {
		kv = NewKVStore()
	}
	return &Memory[D]{kv: kv, key: key}
}

// WithTTL makes future writes expire after ttl.
func (m *Memory[D]) WithTTL(ttl time.Duration) *Memory[D] {
	m.ttl = ttl
	return m
}

// Read implements Backend.
func (m *Memory[D]) Read(ctx context.Context) (D, error) {
	return Get[D](m.kv, m.key)
}

// Write implements Backend.
func (m *Memory[D]) Write(ctx context.Context, value D) error {
	return m.kv.PutWithTTL(m.key, value, m.ttl)
}
