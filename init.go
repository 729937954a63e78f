package goseq

// initKind discriminates the four Init variants.
type initKind uint8

const (
	initNoArgs initKind = iota
	initWithFlags
	initWithLocation
	initWithBoth
)

func (k initKind) String() string {
	switch k {
	case initNoArgs:
		return "NoArgs"
	case initWithFlags:
		return "WithFlags"
	case initWithLocation:
		return "WithLocation"
	case initWithBoth:
		return "WithBoth"
	default:
		return "unknown"
	}
}

// Init describes how a program's initial value is produced. It is a tagged
// union with exactly four variants (NoArgs, WithFlags, WithLocation, and
// WithBoth), discriminated by whether initialization consumes externally
// supplied flags, the current location, or both. Location-dependent variants
// additionally carry a converter turning a location-change event into a
// message the program's update understands.
type Init[Flags, T, Msg any] struct {
	kind         initKind
	fromNothing  func() T
	fromFlags    func(Flags) T
	fromLocation func(Location) T
	fromBoth     func(Flags, Location) T
	onLocation   func(Location) Msg
}

// NoArgs builds the variant whose initial value depends on nothing.
func NoArgs[Flags, T, Msg any](value T) Init[Flags, T, Msg] {
	return Init[Flags, T, Msg]{
		kind:        initNoArgs,
		fromNothing: func() T { return value },
	}
}

// lazyNoArgs is NoArgs with deferred evaluation, for initializers whose
// construction should not run until the program is actually resolved.
func lazyNoArgs[Flags, T, Msg any](produce func() T) Init[Flags, T, Msg] {
	return Init[Flags, T, Msg]{kind: initNoArgs, fromNothing: produce}
}

// WithFlags builds the variant whose initial value is produced from flags.
func WithFlags[Flags, T, Msg any](produce func(Flags) T) Init[Flags, T, Msg] {
	return Init[Flags, T, Msg]{kind: initWithFlags, fromFlags: produce}
}

// WithLocation builds the variant whose initial value is produced from the
// current location. onLocation converts later location changes into
// messages.
func WithLocation[Flags, T, Msg any](produce func(Location) T, onLocation func(Location) Msg) Init[Flags, T, Msg] {
	return Init[Flags, T, Msg]{
		kind:         initWithLocation,
		fromLocation: produce,
		onLocation:   onLocation,
	}
}

// WithBoth builds the variant whose initial value is produced from flags
// and the current location. onLocation converts later location changes into
// messages.
func WithBoth[Flags, T, Msg any](produce func(Flags, Location) T, onLocation func(Location) Msg) Init[Flags, T, Msg] {
	return Init[Flags, T, Msg]{
		kind:       initWithBoth,
		fromBoth:   produce,
		onLocation: onLocation,
	}
}

// RequiresFlags reports whether resolving this variant needs flags.
func (in Init[Flags, T, Msg]) RequiresFlags() bool {
	return in.kind == initWithFlags || in.kind == initWithBoth
}

// LocationAware reports whether this variant consumes the location and
// reacts to location changes.
func (in Init[Flags, T, Msg]) LocationAware() bool {
	return in.kind == initWithLocation || in.kind == initWithBoth
}

// LocationHandler returns the location-change converter. It is present only
// for the WithLocation and WithBoth variants.
func (in Init[Flags, T, Msg]) LocationHandler() (func(Location) Msg, bool) {
	if in.onLocation == nil {
		return nil, false
	}
	return in.onLocation, true
}

// Resolve produces the initial value, matching the supplied flags presence
// against the variant. flags == nil means no flags were supplied. A
// mismatch in either direction is a fatal configuration error raised before
// any effect is produced.
func (in Init[Flags, T, Msg]) Resolve(flags *Flags, loc Location) T {
	if flags == nil {
		switch in.kind {
		case initNoArgs:
			return in.fromNothing()
		case initWithLocation:
			return in.fromLocation(loc)
		}
		invalidConfig("Init.Resolve", "variant %s requires flags but none were supplied", in.kind)
	}
	switch in.kind {
	case initWithFlags:
		return in.fromFlags(*flags)
	case initWithBoth:
		return in.fromBoth(*flags, loc)
	}
	invalidConfig("Init.Resolve", "flags were supplied to flags-free variant %s", in.kind)
	var zero T
	return zero
}
