package goseq

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sasha-s/go-deadlock"
)

// Dispatch carries metadata about one message dispatch through the
// middleware chain.
type Dispatch struct {
	// RunnerID identifies the runner performing the dispatch.
	RunnerID string
	// Sequence is the dispatch ordinal, starting at 1.
	Sequence int64
	// MessageKind is the concrete Go type of the message.
	MessageKind string
}

// DispatchFunc is the core function type for dispatching one message.
type DispatchFunc func(ctx context.Context, d Dispatch) error

// DispatchMiddleware wraps message dispatch. It allows performing
// operations before and after each state transition, for cross-cutting
// concerns such as metrics and tracing.
type DispatchMiddleware func(next DispatchFunc) DispatchFunc

// Option configures a Runner.
type Option func(*runnerSettings)

type runnerSettings struct {
	logger     Logger
	middleware []DispatchMiddleware
	location   Location
	queueSize  int
}

// WithLogger sets the runner's logger.
func WithLogger(logger Logger) Option {
	return func(s *runnerSettings) {
		s.logger = logger
	}
}

// WithMiddleware appends middleware to the runner's dispatch chain.
// Middleware is executed in the order it is added.
func WithMiddleware(middleware ...DispatchMiddleware) Option {
	return func(s *runnerSettings) {
		s.middleware = append(s.middleware, middleware...)
	}
}

// WithInitialLocation sets the location the program starts at. The default
// is the root path.
func WithInitialLocation(loc Location) Option {
	return func(s *runnerSettings) {
		s.location = loc
	}
}

// WithQueueSize sets the message queue capacity.
func WithQueueSize(n int) Option {
	return func(s *runnerSettings) {
		if n > 0 {
			s.queueSize = n
		}
	}
}

// Runner drives a program: it resolves the initializer, then dispatches
// messages one at a time, schedules each returned command's operations on
// their own goroutines, and manages the subscription sources derived from
// the current model. All state transitions happen strictly sequentially on
// the Run goroutine; Send, Navigate, and the model accessors are safe to
// call from anywhere.
type Runner[Flags, Done, Model, Msg any] struct {
	id       string
	program  Program[Flags, Done, Model, Msg]
	flags    *Flags
	settings runnerSettings

	msgs chan Msg
	seq  int64

	mu      deadlock.RWMutex
	model   Model
	started bool
}

// NewRunner creates a runner for a program. flags == nil means no flags are
// supplied; a mismatch between the supplied flags and the program's init
// variant is a fatal configuration error raised here, before anything runs.
func NewRunner[Flags, Done, Model, Msg any](program Program[Flags, Done, Model, Msg], flags *Flags, opts ...Option) *Runner[Flags, Done, Model, Msg] {
	if program.Init.RequiresFlags() && flags == nil {
		invalidConfig("NewRunner", "program requires flags but none were supplied")
	}
	if !program.Init.RequiresFlags() && flags != nil {
		invalidConfig("NewRunner", "flags were supplied to a flags-free program")
	}

	settings := runnerSettings{
		logger:    NewDefaultLogger(),
		location:  Location{Path: "/"},
		queueSize: 64,
	}
	for _, opt := range opts {
		opt(&settings)
	}

	return &Runner[Flags, Done, Model, Msg]{
		id:       uuid.NewString(),
		program:  program.normalized(),
		flags:    flags,
		settings: settings,
		msgs:     make(chan Msg, settings.queueSize),
	}
}

// ToProgram adapts a fully resolved, flags-free program into a runnable
// runner. Calling it on a program whose init variant requires flags is a
// fatal configuration error.
func ToProgram[Flags, Model, Msg any](program Program[Flags, Never, Model, Msg], opts ...Option) *Runner[Flags, Never, Model, Msg] {
	if program.Init.RequiresFlags() {
		invalidConfig("ToProgram", "program requires flags; use ToProgramWithFlags")
	}
	return NewRunner(program, nil, opts...)
}

// ToProgramWithFlags adapts a fully resolved, flags-consuming program into
// a runnable runner. Calling it on a flags-free program is a fatal
// configuration error.
func ToProgramWithFlags[Flags, Model, Msg any](program Program[Flags, Never, Model, Msg], flags Flags, opts ...Option) *Runner[Flags, Never, Model, Msg] {
	if !program.Init.RequiresFlags() {
		invalidConfig("ToProgramWithFlags", "program takes no flags; use ToProgram")
	}
	return NewRunner(program, &flags, opts...)
}

// ID returns the runner's unique identifier.
func (r *Runner[Flags, Done, Model, Msg]) ID() string {
	return r.id
}

// Send injects a message into the dispatch queue. It blocks if the queue is
// full.
func (r *Runner[Flags, Done, Model, Msg]) Send(msg Msg) {
	r.msgs <- msg
}

// Navigate feeds a location change into the program. If the program is not
// location-aware the change is dropped.
func (r *Runner[Flags, Done, Model, Msg]) Navigate(loc Location) {
	handler, ok := r.program.Init.LocationHandler()
	if !ok {
		r.settings.logger.Debug("runner %s: dropping location change %s: program is not location-aware", r.id, loc)
		return
	}
	r.Send(handler(loc))
}

// Model returns a snapshot of the current model. ok is false before the
// initializer has resolved.
func (r *Runner[Flags, Done, Model, Msg]) Model() (Model, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.model, r.started
}

// CurrentView renders the current model.
func (r *Runner[Flags, Done, Model, Msg]) CurrentView() View[Msg] {
	model, ok := r.Model()
	if !ok {
		return EmptyView[Msg]()
	}
	return r.program.View(model)
}

func (r *Runner[Flags, Done, Model, Msg]) setModel(model Model) {
	r.mu.Lock()
	r.model = model
	r.started = true
	r.mu.Unlock()
}

// enqueue delivers a message produced off the dispatch goroutine, giving up
// once ctx is done.
func (r *Runner[Flags, Done, Model, Msg]) enqueue(ctx context.Context, msg Msg) {
	select {
	case r.msgs <- msg:
	case <-ctx.Done():
	}
}

// exec schedules each of the command's operations on its own goroutine.
func (r *Runner[Flags, Done, Model, Msg]) exec(ctx context.Context, cmd Cmd[Msg]) {
	for _, op := range cmd.Operations() {
		op := op
		opID := uuid.NewString()
		go func() {
			r.settings.logger.Debug("runner %s: operation %s (%s) started", r.id, op.Kind, opID)
			msg, ok := op.Run(ctx)
			if !ok {
				r.settings.logger.Debug("runner %s: operation %s (%s) produced no message", r.id, op.Kind, opID)
				return
			}
			r.enqueue(ctx, msg)
		}()
	}
}

// resubscribe tears down the previous subscription sources and starts the
// set derived from the new model.
func (r *Runner[Flags, Done, Model, Msg]) resubscribe(ctx context.Context, cancel *context.CancelFunc, model Model) {
	if *cancel != nil {
		(*cancel)()
	}
	sources := r.program.Subscriptions(model).Sources()
	if len(sources) == 0 {
		*cancel = nil
		return
	}
	subCtx, stop := context.WithCancel(ctx)
	*cancel = stop
	for _, src := range sources {
		src := src
		go func() {
			r.settings.logger.Debug("runner %s: subscription %s started", r.id, src.Kind)
			src.Listen(subCtx, func(msg Msg) {
				r.enqueue(subCtx, msg)
			})
		}()
	}
}

// Run resolves the initializer and dispatches messages until the program
// completes or ctx is done. It returns the program's done value on
// completion. Programs whose done type is Never run until ctx is canceled.
func (r *Runner[Flags, Done, Model, Msg]) Run(ctx context.Context) (Done, error) {
	var zero Done
	if ctx == nil {
		ctx = context.Background()
	}

	var stopSubs context.CancelFunc
	defer func() {
		if stopSubs != nil {
			stopSubs()
		}
	}()

	out := r.program.Init.Resolve(r.flags, r.settings.location)
	model, cmd, ok := out.Continuing()
	if !ok {
		done, _ := out.Completed()
		return done, nil
	}
	r.setModel(model)
	r.exec(ctx, cmd)
	r.resubscribe(ctx, &stopSubs, model)

	for {
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case msg := <-r.msgs:
			r.seq++
			d := Dispatch{
				RunnerID:    r.id,
				Sequence:    r.seq,
				MessageKind: fmt.Sprintf("%T", msg),
			}

			var out Outcome[Model, Msg, Done]
			var handler DispatchFunc = func(ctx context.Context, d Dispatch) error {
				current, _ := r.Model()
				out = r.program.Update(msg, current)
				return nil
			}
			// Apply middleware in reverse order so the first added runs
			// outermost.
			for i := len(r.settings.middleware) - 1; i >= 0; i-- {
				handler = r.settings.middleware[i](handler)
			}
			if err := handler(ctx, d); err != nil {
				return zero, err
			}

			model, cmd, ok := out.Continuing()
			if !ok {
				done, _ := out.Completed()
				r.settings.logger.Info("runner %s: program completed after %d dispatches", r.id, r.seq)
				return done, nil
			}
			r.setModel(model)
			r.exec(ctx, cmd)
			r.resubscribe(ctx, &stopSubs, model)
		}
	}
}
