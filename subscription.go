package goseq

import (
	"context"
	"time"
)

// Source is a long-lived event source belonging to a subscription. The
// driver starts each source on its own goroutine and stops it by canceling
// the context whenever the subscription set is recomputed.
type Source[Msg any] struct {
	// Kind names the source for logs.
	Kind string
	// Listen runs until ctx is done, calling send for every event.
	Listen func(ctx context.Context, send func(Msg))
}

// Sub is a declarative set of event sources derived from a model. The zero
// value is the empty subscription.
type Sub[Msg any] struct {
	sources []Source[Msg]
}

// NoSub returns the empty subscription.
func NoSub[Msg any]() Sub[Msg] {
	return Sub[Msg]{}
}

// Sources returns the subscription's event sources.
func (s Sub[Msg]) Sources() []Source[Msg] {
	return s.sources
}

// Subscribe wraps a single source into a subscription.
func Subscribe[Msg any](src Source[Msg]) Sub[Msg] {
	return Sub[Msg]{sources: []Source[Msg]{src}}
}

// BatchSub merges subscriptions.
func BatchSub[Msg any](subs ...Sub[Msg]) Sub[Msg] {
	var out Sub[Msg]
	for _, s := range subs {
		out.sources = append(out.sources, s.sources...)
	}
	return out
}

// MapSub rewrites the message type of a subscription.
func MapSub[A, B any](s Sub[A], f func(A) B) Sub[B] {
	if len(s.sources) == 0 {
		return Sub[B]{}
	}
	sources := make([]Source[B], len(s.sources))
	for i, src := range s.sources {
		listen := src.Listen
		sources[i] = Source[B]{
			Kind: src.Kind,
			Listen: func(ctx context.Context, send func(B)) {
				listen(ctx, func(a A) { send(f(a)) })
			},
		}
	}
	return Sub[B]{sources: sources}
}

// Every delivers f(now) at the given interval until the subscription is
// torn down.
func Every[Msg any](interval time.Duration, f func(time.Time) Msg) Sub[Msg] {
	return Subscribe(Source[Msg]{
		Kind: "time.every",
		Listen: func(ctx context.Context, send func(Msg)) {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case now := <-ticker.C:
					send(f(now))
				}
			}
		},
	})
}
