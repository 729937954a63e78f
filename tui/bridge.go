package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/davidroman0O/goseq"
)

// progMsg wraps a program message for delivery through BubbleTea.
type progMsg[Msg any] struct {
	msg Msg
}

// locationMsg carries a navigation event into the bridge.
type locationMsg struct {
	loc goseq.Location
}

// Option configures the bridge.
type Option func(*settings)

type settings struct {
	location goseq.Location
	quitKeys []string
}

// WithInitialLocation sets the location the program starts at. The default
// is the root path.
func WithInitialLocation(loc goseq.Location) Option {
	return func(s *settings) {
		s.location = loc
	}
}

// WithQuitKeys sets the keys that terminate the host. The default is
// ctrl+c.
func WithQuitKeys(keys ...string) Option {
	return func(s *settings) {
		s.quitKeys = keys
	}
}

// subManager owns the goroutines behind the program's subscription
// sources. It is shared by pointer across model copies.
type subManager[Msg any] struct {
	mu     sync.Mutex
	cancel context.CancelFunc
	send   func(tea.Msg)
}

// attach wires the manager to a running tea program.
func (m *subManager[Msg]) attach(send func(tea.Msg)) {
	m.mu.Lock()
	m.send = send
	m.mu.Unlock()
}

// reset tears down the previous sources and starts the new set.
func (m *subManager[Msg]) reset(sub goseq.Sub[Msg]) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	sources := sub.Sources()
	if len(sources) == 0 {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	for _, src := range sources {
		src := src
		go src.Listen(ctx, func(msg Msg) {
			m.mu.Lock()
			send := m.send
			m.mu.Unlock()
			if send != nil {
				send(progMsg[Msg]{msg: msg})
			}
		})
	}
}

// stop tears down all sources.
func (m *subManager[Msg]) stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

// Model adapts a resolved goseq program into a tea.Model.
type Model[Mo, Msg any] struct {
	program  goseq.Program[goseq.NoFlags, goseq.Never, Mo, Msg]
	model    Mo
	initCmd  goseq.Cmd[Msg]
	subs     *subManager[Msg]
	quitKeys []string
}

// NewModel resolves the program's initializer and returns the initial
// bridge model. A program whose init variant requires flags is a fatal
// configuration error.
func NewModel[Mo, Msg any](program goseq.Program[goseq.NoFlags, goseq.Never, Mo, Msg], opts ...Option) Model[Mo, Msg] {
	s := settings{
		location: goseq.Location{Path: "/"},
		quitKeys: []string{"ctrl+c"},
	}
	for _, opt := range opts {
		opt(&s)
	}

	out := program.Init.Resolve(nil, s.location)
	model, cmd, ok := out.Continuing()
	if !ok {
		done, _ := out.Completed()
		return goseq.Absurd[Model[Mo, Msg]](done)
	}
	return Model[Mo, Msg]{
		program:  program,
		model:    model,
		initCmd:  cmd,
		subs:     &subManager[Msg]{},
		quitKeys: s.quitKeys,
	}
}

// Init implements tea.Model.
func (m Model[Mo, Msg]) Init() tea.Cmd {
	m.subs.reset(m.program.Subscriptions(m.model))
	return toTeaCmd(m.initCmd)
}

// Update implements tea.Model.
func (m Model[Mo, Msg]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progMsg[Msg]:
		return m.dispatch(msg.msg)
	case locationMsg:
		handler, ok := m.program.Init.LocationHandler()
		if !ok {
			return m, nil
		}
		return m.dispatch(handler(msg.loc))
	case tea.KeyMsg:
		key := msg.String()
		for _, quit := range m.quitKeys {
			if key == quit {
				m.subs.stop()
				return m, tea.Quit
			}
		}
		for _, binding := range m.program.View(m.model).Keys {
			if binding.Key == key {
				return m.dispatch(binding.Msg)
			}
		}
	}
	return m, nil
}

// dispatch advances the wrapped program by one message.
func (m Model[Mo, Msg]) dispatch(msg Msg) (tea.Model, tea.Cmd) {
	out := m.program.Update(msg, m.model)
	model, cmd, ok := out.Continuing()
	if !ok {
		done, _ := out.Completed()
		return goseq.Absurd[tea.Model](done), nil
	}
	m.model = model
	m.subs.reset(m.program.Subscriptions(model))
	return m, toTeaCmd(cmd)
}

// View implements tea.Model.
func (m Model[Mo, Msg]) View() string {
	return m.program.View(m.model).Body
}

// toTeaCmd schedules each operation as its own tea.Cmd.
func toTeaCmd[Msg any](cmd goseq.Cmd[Msg]) tea.Cmd {
	ops := cmd.Operations()
	if len(ops) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, len(ops))
	for i, op := range ops {
		op := op
		cmds[i] = func() tea.Msg {
			msg, ok := op.Run(context.Background())
			if !ok {
				return nil
			}
			return progMsg[Msg]{msg: msg}
		}
	}
	return tea.Batch(cmds...)
}

// Program wraps a running BubbleTea program hosting a goseq program.
type Program[Mo, Msg any] struct {
	inner *tea.Program
}

// NewProgram builds the BubbleTea host for a resolved program.
func NewProgram[Mo, Msg any](program goseq.Program[goseq.NoFlags, goseq.Never, Mo, Msg], opts ...Option) *Program[Mo, Msg] {
	return newProgram(NewModel(program, opts...))
}

func newProgram[Mo, Msg any](model Model[Mo, Msg], teaOpts ...tea.ProgramOption) *Program[Mo, Msg] {
	inner := tea.NewProgram(model, teaOpts...)
	model.subs.attach(inner.Send)
	return &Program[Mo, Msg]{inner: inner}
}

// Run blocks until the host exits.
func (p *Program[Mo, Msg]) Run() error {
	_, err := p.inner.Run()
	return err
}

// Send injects a program message. Safe to call from any goroutine.
func (p *Program[Mo, Msg]) Send(msg Msg) {
	p.inner.Send(progMsg[Msg]{msg: msg})
}

// Navigate feeds a location change into the hosted program.
func (p *Program[Mo, Msg]) Navigate(loc goseq.Location) {
	p.inner.Send(locationMsg{loc: loc})
}

// Quit asks the host to exit.
func (p *Program[Mo, Msg]) Quit() {
	p.inner.Quit()
}
