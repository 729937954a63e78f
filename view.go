package goseq

// KeyBinding attaches a message to a key so a host can translate input into
// program messages.
type KeyBinding[Msg any] struct {
	// Key is the key name as reported by the host, e.g. "enter" or "q".
	Key string
	// Msg is delivered when the key is pressed.
	Msg Msg
}

// View is the opaque renderable produced by a program. The core never
// interprets it; it only rewrites its message type when embedding one
// program's view into a composed one. Hosts decide how Body is drawn and
// how Keys are matched against input.
type View[Msg any] struct {
	// Body is the rendered content.
	Body string
	// Keys are the active input bindings for this view.
	Keys []KeyBinding[Msg]
}

// EmptyView renders nothing and binds nothing.
func EmptyView[Msg any]() View[Msg] {
	return View[Msg]{}
}

// MapView rewrites the message type of a view.
func MapView[A, B any](v View[A], f func(A) B) View[B] {
	out := View[B]{Body: v.Body}
	if len(v.Keys) > 0 {
		out.Keys = make([]KeyBinding[B], len(v.Keys))
		for i, k := range v.Keys {
			out.Keys[i] = KeyBinding[B]{Key: k.Key, Msg: f(k.Msg)}
		}
	}
	return out
}
