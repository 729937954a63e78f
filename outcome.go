package goseq

// Outcome is the result of a program's init or update: either the program
// continues with a new model and a command, or it completes with a done
// value. Exactly one of the two holds. Completion is a normal successful
// result, not an error; the error path for collaborator I/O lives inside
// Task and store backends.
type Outcome[Model, Msg, Done any] struct {
	complete bool
	model    Model
	cmd      Cmd[Msg]
	done     Done
}

// Continue builds a continuing outcome carrying the next model and the
// command to schedule.
func Continue[Model, Msg, Done any](model Model, cmd Cmd[Msg]) Outcome[Model, Msg, Done] {
	return Outcome[Model, Msg, Done]{model: model, cmd: cmd}
}

// Complete builds a completed outcome carrying the done value.
func Complete[Model, Msg, Done any](done Done) Outcome[Model, Msg, Done] {
	return Outcome[Model, Msg, Done]{complete: true, done: done}
}

// IsComplete reports whether the outcome signals completion.
func (o Outcome[Model, Msg, Done]) IsComplete() bool {
	return o.complete
}

// Continuing returns the next model and command when the outcome continues.
func (o Outcome[Model, Msg, Done]) Continuing() (Model, Cmd[Msg], bool) {
	return o.model, o.cmd, !o.complete
}

// Completed returns the done value when the outcome signals completion.
func (o Outcome[Model, Msg, Done]) Completed() (Done, bool) {
	return o.done, o.complete
}

// NoFlags is the flags type of a program that takes no external
// initialization data.
type NoFlags struct{}

// Never is the done type of a program that can never complete. No value of
// Never is ever constructed by this package; a Program whose done type is
// Never runs until its host stops it.
type Never struct{}

// Absurd eliminates a Never value. It can only be reached through a broken
// invariant, since Never values are never constructed.
func Absurd[T any](Never) T {
	panic(&InternalError{State: "Never", Message: "a value of the uninhabited done type was produced"})
}
