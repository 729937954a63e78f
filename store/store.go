package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/invopop/jsonschema"
)

var (
	// ErrNotFound is returned when a key is not present.
	ErrNotFound = errors.New("store: key not found")
	// ErrExpired is returned when a key's TTL has elapsed.
	ErrExpired = errors.New("store: key expired")
	// ErrTypeMismatch is returned when a stored value cannot be read as the
	// requested type.
	ErrTypeMismatch = errors.New("store: type mismatch")
)

// entry holds a stored value with its concrete type and optional expiry.
type entry struct {
	typ       reflect.Type
	value     any
	expiresAt *time.Time
}

// KVStore is a threadsafe, type-aware in-memory store.
type KVStore struct {
	mu   sync.RWMutex
	data map[string]entry
}

// NewKVStore constructs an empty store.
func NewKVStore() *KVStore {
	return &KVStore{data: make(map[string]entry)}
}

// Put stores any Go value under key, capturing its concrete type.
func (s *KVStore) Put(key string, value any) error {
	return s.PutWithTTL(key, value, 0)
}

// PutWithTTL stores any Go value under key with a time-to-live. A ttl of
// zero or less means the entry never expires.
func (s *KVStore) PutWithTTL(key string, value any, ttl time.Duration) error {
	if key == "" {
		return errors.New("store: key cannot be empty")
	}

	var expiresAt *time.Time
	if ttl > 0 {
		exp := time.Now().Add(ttl)
		expiresAt = &exp
	}

	s.mu.Lock()
	s.data[key] = entry{typ: reflect.TypeOf(value), value: value, expiresAt: expiresAt}
	s.mu.Unlock()
	return nil
}

// Get retrieves a value of type T for the given key.
func Get[T any](s *KVStore, key string) (T, error) {
	var zero T
	if key == "" {
		return zero, errors.New("store: key cannot be empty")
	}

	s.mu.RLock()
	e, ok := s.data[key]
	s.mu.RUnlock()

	if !ok {
		return zero, ErrNotFound
	}
	if e.expiresAt != nil && time.Now().After(*e.expiresAt) {
		s.Delete(key)
		return zero, ErrExpired
	}

	value, ok := e.value.(T)
	if !ok {
		want := reflect.TypeOf((*T)(nil)).Elem()
		return zero, fmt.Errorf("%w: wanted %v, stored %v", ErrTypeMismatch, want, e.typ)
	}
	return value, nil
}

// Delete removes a key.
func (s *KVStore) Delete(key string) {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
}

// Keys returns all live keys.
func (s *KVStore) Keys() []string {
	now := time.Now()

	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.data))
	for key, e := range s.data {
		if e.expiresAt != nil && now.After(*e.expiresAt) {
			continue
		}
		keys = append(keys, key)
	}
	return keys
}

// Count returns the number of live keys.
func (s *KVStore) Count() int {
	return len(s.Keys())
}

// GetTypeSchema returns a JSON Schema representation of the stored value's
// type.
func (s *KVStore) GetTypeSchema(key string) (interface{}, error) {
	if key == "" {
		return nil, errors.New("store: key cannot be empty")
	}

	s.mu.RLock()
	e, ok := s.data[key]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	if e.expiresAt != nil && time.Now().After(*e.expiresAt) {
		s.Delete(key)
		return nil, ErrExpired
	}
	return TypeToSchema(e.typ), nil
}

// TypeToSchema converts a reflect.Type to a JSON schema.
func TypeToSchema(t reflect.Type) interface{} {
	instance := reflect.New(t).Interface()
	reflector := jsonschema.Reflector{
		ExpandedStruct:            true,
		DoNotReference:            true,
		AllowAdditionalProperties: false,
	}
	schema := reflector.Reflect(instance)

	// Round-trip through JSON to hand callers a plain map.
	data, err := json.Marshal(schema)
	if err != nil {
		return map[string]interface{}{"type": "object", "properties": map[string]interface{}{}}
	}
	var schemaMap map[string]interface{}
	if err := json.Unmarshal(data, &schemaMap); err != nil {
		return map[string]interface{}{"type": "object", "properties": map[string]interface{}{}}
	}
	if _, exists := schemaMap["type"]; !exists {
		schemaMap["type"] = "object"
	}
	if _, exists := schemaMap["properties"]; !exists {
		schemaMap["properties"] = map[string]interface{}{}
	}
	return schemaMap
}
