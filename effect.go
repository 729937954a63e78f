package goseq

import "context"

// Operation is a single unit of pending asynchronous work. Operations are
// data: an update function returns them inside a Cmd without running them,
// and an outer driver (Runner, or the tui host) schedules each one on its
// own goroutine and feeds the produced message back into the dispatch queue.
type Operation[Msg any] struct {
	// Kind names the operation for logs, metrics, and test assertions,
	// e.g. "cache.read".
	Kind string
	// Run performs the work. It returns the message to deliver and true,
	// or ok=false when the operation produces no message (fire-and-forget).
	Run func(ctx context.Context) (Msg, bool)
}

// Cmd is a batch of pending operations produced by init or update. The zero
// value is the empty command.
type Cmd[Msg any] struct {
	ops []Operation[Msg]
}

// None returns the empty command.
func None[Msg any]() Cmd[Msg] {
	return Cmd[Msg]{}
}

// IsNone reports whether the command carries no operations.
func (c Cmd[Msg]) IsNone() bool {
	return len(c.ops) == 0
}

// Operations returns the pending operations in scheduling order. Tests use
// this to assert on effect descriptions without executing them.
func (c Cmd[Msg]) Operations() []Operation[Msg] {
	return c.ops
}

// Command wraps a single operation into a command.
func Command[Msg any](op Operation[Msg]) Cmd[Msg] {
	return Cmd[Msg]{ops: []Operation[Msg]{op}}
}

// Batch merges commands, preserving order.
func Batch[Msg any](cmds ...Cmd[Msg]) Cmd[Msg] {
	var out Cmd[Msg]
	for _, c := range cmds {
		out.ops = append(out.ops, c.ops...)
	}
	return out
}

// Map rewrites the message type of a command. The operation kinds are
// preserved so the effect description stays inspectable across composition
// layers.
func Map[A, B any](c Cmd[A], f func(A) B) Cmd[B] {
	if len(c.ops) == 0 {
		return Cmd[B]{}
	}
	ops := make([]Operation[B], len(c.ops))
	for i, op := range c.ops {
		run := op.Run
		ops[i] = Operation[B]{
			Kind: op.Kind,
			Run: func(ctx context.Context) (B, bool) {
				a, ok := run(ctx)
				if !ok {
					var zero B
					return zero, false
				}
				return f(a), true
			},
		}
	}
	return Cmd[B]{ops: ops}
}

// Task is an asynchronous operation that either fails or succeeds with a
// typed value. Tasks are the async primitive consumed by the core; the
// caller decides how a task's resolution becomes a message.
type Task[A any] struct {
	// Kind names the task for logs and effect inspection.
	Kind string
	// Do performs the work.
	Do func(ctx context.Context) (A, error)
}

// Attempt turns a task into a command that delivers f(value, err) once the
// task resolves, whether it failed or succeeded.
func Attempt[A, Msg any](t Task[A], f func(A, error) Msg) Cmd[Msg] {
	return Command(Operation[Msg]{
		Kind: t.Kind,
		Run: func(ctx context.Context) (Msg, bool) {
			a, err := t.Do(ctx)
			return f(a, err), true
		},
	})
}

// Perform turns a task that is not expected to fail into a command that
// delivers f(value). A task error is swallowed and produces no message.
func Perform[A, Msg any](t Task[A], f func(A) Msg) Cmd[Msg] {
	return Command(Operation[Msg]{
		Kind: t.Kind,
		Run: func(ctx context.Context) (Msg, bool) {
			a, err := t.Do(ctx)
			if err != nil {
				var zero Msg
				return zero, false
			}
			return f(a), true
		},
	})
}

// SpawnVoid launches do on its own goroutine and delivers launched as soon
// as the goroutine has been started, not when it finishes. The spawned
// operation's outcome is not observed; do is responsible for reporting its
// own failures. The goroutine runs detached from the dispatch context, so
// it is never canceled once issued.
func SpawnVoid[Msg any](kind string, do func(ctx context.Context) error, launched Msg) Cmd[Msg] {
	return Command(Operation[Msg]{
		Kind: kind,
		Run: func(ctx context.Context) (Msg, bool) {
			go func() {
				_ = do(context.Background())
			}()
			return launched, true
		},
	})
}
