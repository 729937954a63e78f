// Package store provides persistence collaborators for cached programs.
//
// The cache combinator in the root package only ever invokes a
// caller-supplied read and write pair; this package supplies ready-made
// pairs behind the Backend interface:
//
//   - Memory: an entry in the in-package KVStore, useful for tests and
//     single-process runs
//   - SQLite: a row in an embedded sqlite database
//   - Redis: a key in a redis server
//   - Remote: a gRPC client talking to a Server wrapping any other Backend
//
// Backends that serialize go through a Codec; the default is JSON.
//
// The package also exposes KVStore, a thread-safe, type-aware in-memory
// key-value store with TTL expiration and JSON Schema reflection over the
// stored types.
package store
