package goseq

// Program is the uniform program descriptor: an initializer, an update
// function, subscriptions, and a view, parameterized by the flags the
// program consumes and the done value it emits when it completes. Init and
// Update return an Outcome: either a continuing (model, command) pair or a
// done value, never both and never neither.
//
// Programs built by New, NewWithFlags, NewNavigation, and
// NewNavigationWithFlags have done type Never: they run until their host
// stops them. NewCompletable builds programs that genuinely complete, which
// is what AndThen and Cache compose.
type Program[Flags, Done, Model, Msg any] struct {
	// Init produces the initial outcome.
	Init Init[Flags, Outcome[Model, Msg, Done], Msg]
	// Update advances the model in response to one message.
	Update func(msg Msg, model Model) Outcome[Model, Msg, Done]
	// Subscriptions derives the active event sources from the model.
	// Optional; nil means no subscriptions.
	Subscriptions func(model Model) Sub[Msg]
	// View renders the model. Optional; nil means an empty view.
	View func(model Model) View[Msg]
}

// normalized fills in the optional fields so composition operators and
// drivers never have to nil-check.
func (p Program[Flags, Done, Model, Msg]) normalized() Program[Flags, Done, Model, Msg] {
	if p.Subscriptions == nil {
		p.Subscriptions = func(Model) Sub[Msg] { return NoSub[Msg]() }
	}
	if p.View == nil {
		p.View = func(Model) View[Msg] { return EmptyView[Msg]() }
	}
	return p
}

// Config describes a conventional program with no flags and no location
// awareness. Init and Update return plain continuing pairs; completion is
// unreachable.
type Config[Model, Msg any] struct {
	Init          func() (Model, Cmd[Msg])
	Update        func(msg Msg, model Model) (Model, Cmd[Msg])
	Subscriptions func(model Model) Sub[Msg]
	View          func(model Model) View[Msg]
}

// New lifts a conventional program into a Program that never completes.
func New[Model, Msg any](cfg Config[Model, Msg]) Program[NoFlags, Never, Model, Msg] {
	return Program[NoFlags, Never, Model, Msg]{
		Init: lazyNoArgs[NoFlags, Outcome[Model, Msg, Never], Msg](func() Outcome[Model, Msg, Never] {
			model, cmd := cfg.Init()
			return Continue[Model, Msg, Never](model, cmd)
		}),
		Update: func(msg Msg, model Model) Outcome[Model, Msg, Never] {
			next, cmd := cfg.Update(msg, model)
			return Continue[Model, Msg, Never](next, cmd)
		},
		Subscriptions: cfg.Subscriptions,
		View:          cfg.View,
	}.normalized()
}

// FlagsConfig describes a conventional program initialized from flags.
type FlagsConfig[Flags, Model, Msg any] struct {
	Init          func(flags Flags) (Model, Cmd[Msg])
	Update        func(msg Msg, model Model) (Model, Cmd[Msg])
	Subscriptions func(model Model) Sub[Msg]
	View          func(model Model) View[Msg]
}

// NewWithFlags lifts a conventional flags-consuming program into a Program
// that never completes.
func NewWithFlags[Flags, Model, Msg any](cfg FlagsConfig[Flags, Model, Msg]) Program[Flags, Never, Model, Msg] {
	return Program[Flags, Never, Model, Msg]{
		Init: WithFlags[Flags, Outcome[Model, Msg, Never], Msg](func(flags Flags) Outcome[Model, Msg, Never] {
			model, cmd := cfg.Init(flags)
			return Continue[Model, Msg, Never](model, cmd)
		}),
		Update: func(msg Msg, model Model) Outcome[Model, Msg, Never] {
			next, cmd := cfg.Update(msg, model)
			return Continue[Model, Msg, Never](next, cmd)
		},
		Subscriptions: cfg.Subscriptions,
		View:          cfg.View,
	}.normalized()
}

// NavigationConfig describes a conventional location-aware program.
type NavigationConfig[Model, Msg any] struct {
	Init func(loc Location) (Model, Cmd[Msg])
	// OnLocationChange converts a location-change event into a message.
	OnLocationChange func(loc Location) Msg
	Update           func(msg Msg, model Model) (Model, Cmd[Msg])
	Subscriptions    func(model Model) Sub[Msg]
	View             func(model Model) View[Msg]
}

// NewNavigation lifts a conventional location-aware program into a Program
// that never completes.
func NewNavigation[Model, Msg any](cfg NavigationConfig[Model, Msg]) Program[NoFlags, Never, Model, Msg] {
	return Program[NoFlags, Never, Model, Msg]{
		Init: WithLocation[NoFlags](func(loc Location) Outcome[Model, Msg, Never] {
			model, cmd := cfg.Init(loc)
			return Continue[Model, Msg, Never](model, cmd)
		}, cfg.OnLocationChange),
		Update: func(msg Msg, model Model) Outcome[Model, Msg, Never] {
			next, cmd := cfg.Update(msg, model)
			return Continue[Model, Msg, Never](next, cmd)
		},
		Subscriptions: cfg.Subscriptions,
		View:          cfg.View,
	}.normalized()
}

// NavigationFlagsConfig describes a conventional location-aware program
// initialized from flags.
type NavigationFlagsConfig[Flags, Model, Msg any] struct {
	Init             func(flags Flags, loc Location) (Model, Cmd[Msg])
	OnLocationChange func(loc Location) Msg
	Update           func(msg Msg, model Model) (Model, Cmd[Msg])
	Subscriptions    func(model Model) Sub[Msg]
	View             func(model Model) View[Msg]
}

// NewNavigationWithFlags lifts a conventional location-aware,
// flags-consuming program into a Program that never completes.
func NewNavigationWithFlags[Flags, Model, Msg any](cfg NavigationFlagsConfig[Flags, Model, Msg]) Program[Flags, Never, Model, Msg] {
	return Program[Flags, Never, Model, Msg]{
		Init: WithBoth(func(flags Flags, loc Location) Outcome[Model, Msg, Never] {
			model, cmd := cfg.Init(flags, loc)
			return Continue[Model, Msg, Never](model, cmd)
		}, cfg.OnLocationChange),
		Update: func(msg Msg, model Model) Outcome[Model, Msg, Never] {
			next, cmd := cfg.Update(msg, model)
			return Continue[Model, Msg, Never](next, cmd)
		},
		Subscriptions: cfg.Subscriptions,
		View:          cfg.View,
	}.normalized()
}

// CompletableConfig describes a program whose init and update directly
// return the continue-versus-complete union, enabling genuine completion
// signaling.
type CompletableConfig[Done, Model, Msg any] struct {
	Init          func() Outcome[Model, Msg, Done]
	Update        func(msg Msg, model Model) Outcome[Model, Msg, Done]
	Subscriptions func(model Model) Sub[Msg]
	View          func(model Model) View[Msg]
}

// NewCompletable builds a program that can complete with a Done value. This
// is the form consumed as the first argument of AndThen and as the wrapped
// program of Cache.
func NewCompletable[Done, Model, Msg any](cfg CompletableConfig[Done, Model, Msg]) Program[NoFlags, Done, Model, Msg] {
	return Program[NoFlags, Done, Model, Msg]{
		Init:          lazyNoArgs[NoFlags, Outcome[Model, Msg, Done], Msg](cfg.Init),
		Update:        cfg.Update,
		Subscriptions: cfg.Subscriptions,
		View:          cfg.View,
	}.normalized()
}
