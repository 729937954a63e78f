package goseq

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runOp[Msg any](t *testing.T, cmd Cmd[Msg]) Msg {
	t.Helper()
	require.Len(t, cmd.Operations(), 1)
	msg, ok := cmd.Operations()[0].Run(context.Background())
	require.True(t, ok, "operation should produce a message")
	return msg
}

func TestBatchPreservesOrderAndKinds(t *testing.T) {
	a := Command(Operation[int]{Kind: "a", Run: func(context.Context) (int, bool) { return 1, true }})
	b := Command(Operation[int]{Kind: "b", Run: func(context.Context) (int, bool) { return 2, true }})

	batched := Batch(a, None[int](), b)
	ops := batched.Operations()
	require.Len(t, ops, 2)
	assert.Equal(t, "a", ops[0].Kind)
	assert.Equal(t, "b", ops[1].Kind)
	assert.False(t, batched.IsNone())
	assert.True(t, None[int]().IsNone())
}

func TestMapRewritesMessagesKeepsKinds(t *testing.T) {
	cmd := Command(Operation[int]{Kind: "count", Run: func(context.Context) (int, bool) { return 21, true }})
	mapped := Map(cmd, func(n int) string { return string(rune('a' + n)) })

	require.Len(t, mapped.Operations(), 1)
	assert.Equal(t, "count", mapped.Operations()[0].Kind)

	msg, ok := mapped.Operations()[0].Run(context.Background())
	require.True(t, ok)
	assert.Equal(t, "v", msg)
}

func TestMapDropsSuppressedMessages(t *testing.T) {
	cmd := Command(Operation[int]{Kind: "silent", Run: func(context.Context) (int, bool) { return 0, false }})
	mapped := Map(cmd, func(n int) string { return "never" })

	_, ok := mapped.Operations()[0].Run(context.Background())
	assert.False(t, ok)
}

func TestAttemptDeliversBothOutcomes(t *testing.T) {
	ok := Attempt(Task[int]{Kind: "read", Do: func(context.Context) (int, error) { return 7, nil }},
		func(n int, err error) string {
			if err != nil {
				return "err"
			}
			return "ok"
		})
	assert.Equal(t, "ok", runOp(t, ok))

	failed := Attempt(Task[int]{Kind: "read", Do: func(context.Context) (int, error) { return 0, errors.New("miss") }},
		func(n int, err error) string {
			if err != nil {
				return "err"
			}
			return "ok"
		})
	assert.Equal(t, "err", runOp(t, failed))
}

func TestPerformSwallowsErrors(t *testing.T) {
	failed := Perform(Task[int]{Kind: "tick", Do: func(context.Context) (int, error) { return 0, errors.New("boom") }},
		func(n int) string { return "msg" })
	_, ok := failed.Operations()[0].Run(context.Background())
	assert.False(t, ok)
}

func TestSpawnVoidDeliversLaunchedBeforeCompletion(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	finished := make(chan struct{})

	cmd := SpawnVoid("bg", func(ctx context.Context) error {
		close(started)
		<-release
		close(finished)
		return nil
	}, "launched")

	msg := runOp(t, cmd)
	assert.Equal(t, "launched", msg)

	// The spawned work is running but not finished when the message is
	// delivered.
	<-started
	select {
	case <-finished:
		t.Fatal("spawned work finished before it was released")
	default:
	}
	close(release)
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("spawned work never finished")
	}
}

func TestMapSubRewritesSources(t *testing.T) {
	sub := Subscribe(Source[int]{
		Kind: "feed",
		Listen: func(ctx context.Context, send func(int)) {
			send(1)
		},
	})
	mapped := MapSub(sub, func(n int) string { return "got" })
	require.Len(t, mapped.Sources(), 1)
	assert.Equal(t, "feed", mapped.Sources()[0].Kind)

	out := make(chan string, 1)
	mapped.Sources()[0].Listen(context.Background(), func(s string) { out <- s })
	assert.Equal(t, "got", <-out)
}

func TestEveryTicksUntilCanceled(t *testing.T) {
	sub := Every(5*time.Millisecond, func(now time.Time) string { return "tick" })
	require.Len(t, sub.Sources(), 1)

	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan string, 16)
	done := make(chan struct{})
	go func() {
		sub.Sources()[0].Listen(ctx, func(s string) { out <- s })
		close(done)
	}()

	assert.Equal(t, "tick", <-out)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("subscription source did not stop on cancel")
	}
}

func TestMapViewRewritesKeyBindings(t *testing.T) {
	v := View[int]{Body: "menu", Keys: []KeyBinding[int]{{Key: "enter", Msg: 1}}}
	mapped := MapView(v, func(n int) string { return "picked" })

	assert.Equal(t, "menu", mapped.Body)
	require.Len(t, mapped.Keys, 1)
	assert.Equal(t, "enter", mapped.Keys[0].Key)
	assert.Equal(t, "picked", mapped.Keys[0].Msg)
}

func TestOutcomeAccessors(t *testing.T) {
	cont := Continue[int, string, string](42, None[string]())
	assert.False(t, cont.IsComplete())
	model, cmd, ok := cont.Continuing()
	assert.True(t, ok)
	assert.Equal(t, 42, model)
	assert.True(t, cmd.IsNone())
	_, done := cont.Completed()
	assert.False(t, done)

	comp := Complete[int, string]("fin")
	assert.True(t, comp.IsComplete())
	result, done := comp.Completed()
	assert.True(t, done)
	assert.Equal(t, "fin", result)
	_, _, ok = comp.Continuing()
	assert.False(t, ok)
}
