package goseq

// ComposeOption configures a composition operator.
type ComposeOption func(*composeSettings)

type composeSettings struct {
	logger Logger
}

// ComposeWithLogger sets the logger used by AndThen and Cache for discarded
// stragglers and background write failures. The default logger is a no-op.
func ComposeWithLogger(logger Logger) ComposeOption {
	return func(s *composeSettings) {
		s.logger = logger
	}
}

func newComposeSettings(opts []ComposeOption) composeSettings {
	s := composeSettings{logger: NewDefaultLogger()}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// seqPhase discriminates which stage of a sequenced program is live.
type seqPhase uint8

const (
	seqFirst seqPhase = iota
	seqSecond
)

// SeqModel is the model of a sequenced program: the first stage's model
// together with the current location, or the second stage's model after
// handoff. The transition from first to second happens exactly once and
// never reverses.
type SeqModel[M1, M2 any] struct {
	phase  seqPhase
	loc    Location
	first  M1
	second M2
}

// InFirst reports whether the first stage is still live.
func (m SeqModel[M1, M2]) InFirst() bool {
	return m.phase == seqFirst
}

// First returns the tracked location and the first stage's model while the
// first stage is live.
func (m SeqModel[M1, M2]) First() (Location, M1, bool) {
	return m.loc, m.first, m.phase == seqFirst
}

// Second returns the second stage's model after handoff.
func (m SeqModel[M1, M2]) Second() (M2, bool) {
	return m.second, m.phase == seqSecond
}

// seqMsgKind discriminates the message union of a sequenced program.
type seqMsgKind uint8

const (
	seqLocationChanged seqMsgKind = iota
	seqFirstMsg
	seqSecondMsg
	seqIgnore
)

// SeqMsg is the message union of a sequenced program: a location change, a
// message for either stage, or an explicit no-op.
type SeqMsg[G1, G2 any] struct {
	kind   seqMsgKind
	loc    Location
	first  G1
	second G2
}

// SeqIgnore builds the message that is dispatched and deliberately ignored.
func SeqIgnore[G1, G2 any]() SeqMsg[G1, G2] {
	return SeqMsg[G1, G2]{kind: seqIgnore}
}

// AndThen sequences two programs: first runs to completion, then its done
// value is fed as the flags of second's initialization at the location
// current at handoff, and second runs forever. The composed program is
// itself location-aware; location changes are routed to whichever stage is
// live, through that stage's own converter when it has one.
//
// The composition is one level deep: first takes no flags (NoFlags) and
// second never completes (Never). second's init must consume its flags via
// the WithFlags or WithBoth variant; handing a done value to a flags-free
// second is a configuration error, surfaced when the handoff happens.
//
// A first-stage message arriving after handoff is a benign race (a
// straggling effect resolving late); it is logged and discarded. A
// second-stage message arriving before handoff can never legitimately occur
// and is a fatal internal-consistency violation.
func AndThen[Done, M1, G1, M2, G2 any](
	second Program[Done, Never, M2, G2],
	first Program[NoFlags, Done, M1, G1],
	opts ...ComposeOption,
) Program[NoFlags, Never, SeqModel[M1, M2], SeqMsg[G1, G2]] {
	settings := newComposeSettings(opts)
	first = first.normalized()
	second = second.normalized()

	wrapFirst := func(g G1) SeqMsg[G1, G2] {
		return SeqMsg[G1, G2]{kind: seqFirstMsg, first: g}
	}
	wrapSecond := func(g G2) SeqMsg[G1, G2] {
		return SeqMsg[G1, G2]{kind: seqSecondMsg, second: g}
	}

	// startSecond performs the handoff: the first stage's done value
	// becomes second's flags, the prior tracked location is discarded in
	// favor of the current one.
	startSecond := func(done Done, loc Location) Outcome[SeqModel[M1, M2], SeqMsg[G1, G2], Never] {
		out := second.Init.Resolve(&done, loc)
		m2, cmd, ok := out.Continuing()
		if !ok {
			d, _ := out.Completed()
			return Absurd[Outcome[SeqModel[M1, M2], SeqMsg[G1, G2], Never]](d)
		}
		return Continue[SeqModel[M1, M2], SeqMsg[G1, G2], Never](
			SeqModel[M1, M2]{phase: seqSecond, second: m2},
			Map(cmd, wrapSecond),
		)
	}

	// advanceFirst folds a first-stage outcome back into the sequence:
	// keep going as First, or hand off to Second on completion.
	advanceFirst := func(out Outcome[M1, G1, Done], loc Location) Outcome[SeqModel[M1, M2], SeqMsg[G1, G2], Never] {
		m1, cmd, ok := out.Continuing()
		if ok {
			return Continue[SeqModel[M1, M2], SeqMsg[G1, G2], Never](
				SeqModel[M1, M2]{phase: seqFirst, loc: loc, first: m1},
				Map(cmd, wrapFirst),
			)
		}
		done, _ := out.Completed()
		return startSecond(done, loc)
	}

	noop := func(model SeqModel[M1, M2]) Outcome[SeqModel[M1, M2], SeqMsg[G1, G2], Never] {
		return Continue[SeqModel[M1, M2], SeqMsg[G1, G2], Never](model, None[SeqMsg[G1, G2]]())
	}

	applySecond := func(g G2, model SeqModel[M1, M2]) Outcome[SeqModel[M1, M2], SeqMsg[G1, G2], Never] {
		out := second.Update(g, model.second)
		m2, cmd, ok := out.Continuing()
		if !ok {
			d, _ := out.Completed()
			return Absurd[Outcome[SeqModel[M1, M2], SeqMsg[G1, G2], Never]](d)
		}
		return Continue[SeqModel[M1, M2], SeqMsg[G1, G2], Never](
			SeqModel[M1, M2]{phase: seqSecond, second: m2},
			Map(cmd, wrapSecond),
		)
	}

	update := func(msg SeqMsg[G1, G2], model SeqModel[M1, M2]) Outcome[SeqModel[M1, M2], SeqMsg[G1, G2], Never] {
		switch model.phase {
		case seqFirst:
			switch msg.kind {
			case seqLocationChanged:
				handler, ok := first.Init.LocationHandler()
				if !ok {
					return noop(model)
				}
				return advanceFirst(first.Update(handler(msg.loc), model.first), msg.loc)
			case seqFirstMsg:
				return advanceFirst(first.Update(msg.first, model.first), model.loc)
			case seqSecondMsg:
				brokenInvariant("First", "second-stage message arrived before handoff")
			case seqIgnore:
				return noop(model)
			}
		case seqSecond:
			switch msg.kind {
			case seqLocationChanged:
				handler, ok := second.Init.LocationHandler()
				if !ok {
					return noop(model)
				}
				return applySecond(handler(msg.loc), model)
			case seqFirstMsg:
				settings.logger.Warn("goseq: discarding straggling first-stage message %T after handoff", msg.first)
				return noop(model)
			case seqSecondMsg:
				return applySecond(msg.second, model)
			case seqIgnore:
				return noop(model)
			}
		}
		brokenInvariant("AndThen", "unknown sequence state or message")
		return noop(model)
	}

	return Program[NoFlags, Never, SeqModel[M1, M2], SeqMsg[G1, G2]]{
		Init: WithLocation[NoFlags](func(loc Location) Outcome[SeqModel[M1, M2], SeqMsg[G1, G2], Never] {
			return advanceFirst(first.Init.Resolve(nil, loc), loc)
		}, func(loc Location) SeqMsg[G1, G2] {
			return SeqMsg[G1, G2]{kind: seqLocationChanged, loc: loc}
		}),
		Update: update,
		Subscriptions: func(model SeqModel[M1, M2]) Sub[SeqMsg[G1, G2]] {
			if model.phase == seqFirst {
				return MapSub(first.Subscriptions(model.first), wrapFirst)
			}
			return MapSub(second.Subscriptions(model.second), wrapSecond)
		},
		View: func(model SeqModel[M1, M2]) View[SeqMsg[G1, G2]] {
			if model.phase == seqFirst {
				return MapView(first.View(model.first), wrapFirst)
			}
			return MapView(second.View(model.second), wrapSecond)
		},
	}
}
