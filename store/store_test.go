package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestPutAndGet(t *testing.T) {
	s := NewKVStore()
	require.NoError(t, s.Put("f", fixture{Name: "a", Count: 2}))

	got, err := Get[fixture](s, "f")
	require.NoError(t, err)
	assert.Equal(t, fixture{Name: "a", Count: 2}, got)
}

func TestGetMissing(t *testing.T) {
	s := NewKVStore()
	_, err := Get[string](s, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetWrongType(t *testing.T) {
	s := NewKVStore()
	require.NoError(t, s.Put("n", 42))

	_, err := Get[string](s, "n")
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestEmptyKeyRejected(t *testing.T) {
	s := NewKVStore()
	assert.Error(t, s.Put("", 1))
	_, err := Get[int](s, "")
	assert.Error(t, err)
}

func TestTTLExpiry(t *testing.T) {
	s := NewKVStore()
	require.NoError(t, s.PutWithTTL("k", "v", 10*time.Millisecond))

	got, err := Get[string](s, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	time.Sleep(20 * time.Millisecond)
	_, err = Get[string](s, "k")
	assert.ErrorIs(t, err, ErrExpired)

	// Expiry evicts; the key is simply gone afterwards.
	_, err = Get[string](s, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOverwriteChangesType(t *testing.T) {
	s := NewKVStore()
	require.NoError(t, s.Put("k", 1))
	require.NoError(t, s.Put("k", "now a string"))

	got, err := Get[string](s, "k")
	require.NoError(t, err)
	assert.Equal(t, "now a string", got)
}

func TestDeleteKeysCount(t *testing.T) {
	s := NewKVStore()
	require.NoError(t, s.Put("a", 1))
	require.NoError(t, s.Put("b", 2))
	assert.Equal(t, 2, s.Count())
	assert.ElementsMatch(t, []string{"a", "b"}, s.Keys())

	s.Delete("a")
	assert.Equal(t, 1, s.Count())
	assert.ElementsMatch(t, []string{"b"}, s.Keys())
}

func TestGetTypeSchema(t *testing.T) {
	s := NewKVStore()
	require.NoError(t, s.Put("f", fixture{}))

	schema, err := s.GetTypeSchema("f")
	require.NoError(t, err)
	require.NotNil(t, schema)

	data, err := json.Marshal(schema)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"name"`)
	assert.Contains(t, string(data), `"count"`)
}

func TestGetTypeSchemaMissing(t *testing.T) {
	s := NewKVStore()
	_, err := s.GetTypeSchema("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryBackendRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemory[fixture](nil, "result")

	_, err := m.Read(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.Write(ctx, fixture{Name: "done", Count: 7}))
	got, err := m.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, fixture{Name: "done", Count: 7}, got)
}

func TestMemoryBackendTTL(t *testing.T) {
	ctx := context.Background()
	m := NewMemory[string](nil, "result").WithTTL(10 * time.Millisecond)

	require.NoError(t, m.Write(ctx, "v"))
	time.Sleep(20 * time.Millisecond)
	_, err := m.Read(ctx)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestMemoryBackendSharedStore(t *testing.T) {
	ctx := context.Background()
	kv := NewKVStore()
	a := NewMemory[string](kv, "a")
	b := NewMemory[string](kv, "b")

	require.NoError(t, a.Write(ctx, "va"))
	_, err := b.Read(ctx)
	assert.ErrorIs(t, err, ErrNotFound, "backends with distinct keys stay independent")
}

func TestJSONCodecRoundTrip(t *testing.T) {
	codec := JSONCodec[fixture]{}
	data, err := codec.Encode(fixture{Name: "x", Count: 1})
	require.NoError(t, err)

	got, err := codec.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, fixture{Name: "x", Count: 1}, got)
}
