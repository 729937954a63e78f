package goseq

import (
	"context"

	"github.com/davidroman0O/goseq/store"
)

// cachePhase discriminates the cache wrapper's lifecycle.
type cachePhase uint8

const (
	cacheLoading cachePhase = iota
	cacheLoaded
	cacheWriting
)

// CacheModel is the model of a cached program. It starts Loading while the
// read is in flight, becomes Loaded once a miss starts the wrapped program,
// and becomes Writing once the wrapped program completes and its done value
// is being persisted. A read hit never constructs a Loaded or Writing
// state: the cache completes directly.
type CacheModel[M any] struct {
	phase cachePhase
	loc   Location
	model M
}

// IsLoading reports whether the read is still in flight.
func (m CacheModel[M]) IsLoading() bool { return m.phase == cacheLoading }

// IsWriting reports whether the computed done value is being persisted.
func (m CacheModel[M]) IsWriting() bool { return m.phase == cacheWriting }

// Loading returns the pending location while the read is in flight.
func (m CacheModel[M]) Loading() (Location, bool) {
	return m.loc, m.phase == cacheLoading
}

// Loaded returns the wrapped program's model once it is running.
func (m CacheModel[M]) Loaded() (M, bool) {
	return m.model, m.phase == cacheLoaded
}

// cacheMsgKind discriminates the cache wrapper's message union.
type cacheMsgKind uint8

const (
	cacheReadResult cacheMsgKind = iota
	cacheLoadedMsg
	cacheLocationChanged
	cacheWriteSpawned
)

// CacheMsg is the message union of a cached program: the read's resolution,
// a message for the wrapped program, a location change, or the notice that
// the write has been launched.
type CacheMsg[Done, G any] struct {
	kind  cacheMsgKind
	hit   bool
	done  Done
	inner G
	loc   Location
}

// CacheConfig supplies the persistence collaborators of Cache. The cache
// core only ever invokes these operations; their mechanism (memory, sqlite,
// redis, a remote service) is the caller's concern. See the store
// subpackage for ready-made backends and BackendConfig for the adapter.
type CacheConfig[Done any] struct {
	// Read resolves with a previously persisted done value, or fails to
	// signal a cache miss.
	Read func(ctx context.Context) (Done, error)
	// Write persists a freshly computed done value. It is fire-and-forget:
	// it runs detached, is never canceled, and a failure is logged, not
	// surfaced.
	Write func(ctx context.Context, done Done) error
	// LoadingView optionally renders during the read wait. Its message
	// type is Never since nothing it shows can be interacted with.
	LoadingView func() View[Never]
}

// BackendConfig adapts a store backend into a CacheConfig.
func BackendConfig[Done any](backend store.Backend[Done]) CacheConfig[Done] {
	return CacheConfig[Done]{
		Read:  backend.Read,
		Write: backend.Write,
	}
}

// Cache wraps a completable program with a read-before-run /
// write-after-done policy. On a read hit the cache completes immediately
// with the persisted value and the wrapped program never runs. On a miss
// the wrapped program runs normally; once it completes, its done value is
// handed to Write on a detached goroutine and the cache completes as soon
// as the spawn is observed, not when the write finishes.
//
// The transition table is strict: the read resolves exactly once before any
// Loaded state exists, and inner or write messages cannot legitimately
// arrive outside their phase. Violations are fatal. Location changes are
// held while Loading, routed to the wrapped program (when it is
// location-aware) while Loaded, and ignored while Writing.
func Cache[Done, M, G any](
	cfg CacheConfig[Done],
	program Program[NoFlags, Done, M, G],
	opts ...ComposeOption,
) Program[NoFlags, Done, CacheModel[M], CacheMsg[Done, G]] {
	settings := newComposeSettings(opts)
	program = program.normalized()

	wrapInner := func(g G) CacheMsg[Done, G] {
		return CacheMsg[Done, G]{kind: cacheLoadedMsg, inner: g}
	}

	noop := func(model CacheModel[M]) Outcome[CacheModel[M], CacheMsg[Done, G], Done] {
		return Continue[CacheModel[M], CacheMsg[Done, G], Done](model, None[CacheMsg[Done, G]]())
	}

	readCmd := Attempt(Task[Done]{Kind: "cache.read", Do: cfg.Read}, func(done Done, err error) CacheMsg[Done, G] {
		if err != nil {
			return CacheMsg[Done, G]{kind: cacheReadResult, hit: false}
		}
		return CacheMsg[Done, G]{kind: cacheReadResult, hit: true, done: done}
	})

	spawnWrite := func(done Done) Cmd[CacheMsg[Done, G]] {
		return SpawnVoid("cache.write", func(ctx context.Context) error {
			if err := cfg.Write(ctx, done); err != nil {
				settings.logger.Warn("goseq: cache write failed: %v", err)
				return err
			}
			return nil
		}, CacheMsg[Done, G]{kind: cacheWriteSpawned, done: done})
	}

	// startProgram runs the wrapped program's init after a miss. The
	// degenerate case where init completes immediately completes the cache
	// immediately too, without a write.
	startProgram := func(loc Location) Outcome[CacheModel[M], CacheMsg[Done, G], Done] {
		out := program.Init.Resolve(nil, loc)
		m, cmd, ok := out.Continuing()
		if !ok {
			done, _ := out.Completed()
			return Complete[CacheModel[M], CacheMsg[Done, G]](done)
		}
		return Continue[CacheModel[M], CacheMsg[Done, G], Done](
			CacheModel[M]{phase: cacheLoaded, model: m},
			Map(cmd, wrapInner),
		)
	}

	// applyInner advances the wrapped program; its completion starts the
	// write and enters Writing.
	applyInner := func(g G, model CacheModel[M]) Outcome[CacheModel[M], CacheMsg[Done, G], Done] {
		out := program.Update(g, model.model)
		m, cmd, ok := out.Continuing()
		if ok {
			return Continue[CacheModel[M], CacheMsg[Done, G], Done](
				CacheModel[M]{phase: cacheLoaded, model: m},
				Map(cmd, wrapInner),
			)
		}
		done, _ := out.Completed()
		return Continue[CacheModel[M], CacheMsg[Done, G], Done](
			CacheModel[M]{phase: cacheWriting},
			spawnWrite(done),
		)
	}

	update := func(msg CacheMsg[Done, G], model CacheModel[M]) Outcome[CacheModel[M], CacheMsg[Done, G], Done] {
		switch model.phase {
		case cacheLoading:
			switch msg.kind {
			case cacheReadResult:
				if msg.hit {
					return Complete[CacheModel[M], CacheMsg[Done, G]](msg.done)
				}
				return startProgram(model.loc)
			case cacheLocationChanged:
				return Continue[CacheModel[M], CacheMsg[Done, G], Done](
					CacheModel[M]{phase: cacheLoading, loc: msg.loc},
					None[CacheMsg[Done, G]](),
				)
			default:
				brokenInvariant("Loading", "message kind %d arrived before the program started", msg.kind)
			}
		case cacheLoaded:
			switch msg.kind {
			case cacheLoadedMsg:
				return applyInner(msg.inner, model)
			case cacheLocationChanged:
				handler, ok := program.Init.LocationHandler()
				if !ok {
					return noop(model)
				}
				return applyInner(handler(msg.loc), model)
			case cacheReadResult:
				brokenInvariant("Loaded", "read resolved a second time")
			default:
				brokenInvariant("Loaded", "write spawn observed while the program is still running")
			}
		case cacheWriting:
			switch msg.kind {
			case cacheWriteSpawned:
				return Complete[CacheModel[M], CacheMsg[Done, G]](msg.done)
			case cacheLocationChanged:
				return noop(model)
			default:
				brokenInvariant("Writing", "message kind %d arrived after computation finished", msg.kind)
			}
		}
		brokenInvariant("Cache", "unknown cache state")
		return noop(model)
	}

	return Program[NoFlags, Done, CacheModel[M], CacheMsg[Done, G]]{
		Init: WithLocation[NoFlags](func(loc Location) Outcome[CacheModel[M], CacheMsg[Done, G], Done] {
			return Continue[CacheModel[M], CacheMsg[Done, G], Done](
				CacheModel[M]{phase: cacheLoading, loc: loc},
				readCmd,
			)
		}, func(loc Location) CacheMsg[Done, G] {
			return CacheMsg[Done, G]{kind: cacheLocationChanged, loc: loc}
		}),
		Update: update,
		Subscriptions: func(model CacheModel[M]) Sub[CacheMsg[Done, G]] {
			if model.phase != cacheLoaded {
				return NoSub[CacheMsg[Done, G]]()
			}
			return MapSub(program.Subscriptions(model.model), wrapInner)
		},
		View: func(model CacheModel[M]) View[CacheMsg[Done, G]] {
			switch model.phase {
			case cacheLoading:
				if cfg.LoadingView == nil {
					return EmptyView[CacheMsg[Done, G]]()
				}
				return MapView(cfg.LoadingView(), Absurd[CacheMsg[Done, G]])
			case cacheLoaded:
				return MapView(program.View(model.model), wrapInner)
			default:
				return EmptyView[CacheMsg[Done, G]]()
			}
		},
	}
}
