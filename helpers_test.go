package goseq

import (
	"fmt"
	"sync"
	"testing"
)

// TestLogger routes log output through the test runner
type TestLogger struct {
	t *testing.T
}

func (l *TestLogger) Debug(format string, args ...interface{}) {
	l.t.Logf("[DEBUG] "+format, args...)
}

func (l *TestLogger) Info(format string, args ...interface{}) {
	l.t.Logf("[INFO] "+format, args...)
}

func (l *TestLogger) Warn(format string, args ...interface{}) {
	l.t.Logf("[WARN] "+format, args...)
}

func (l *TestLogger) Error(format string, args ...interface{}) {
	l.t.Logf("[ERROR] "+format, args...)
}

// recordingLogger captures warnings so tests can assert on discarded
// stragglers and failed writes.
type recordingLogger struct {
	mu       sync.Mutex
	warnings []string
}

func (l *recordingLogger) Debug(format string, args ...interface{}) {}
func (l *recordingLogger) Info(format string, args ...interface{})  {}
func (l *recordingLogger) Error(format string, args ...interface{}) {}

func (l *recordingLogger) Warn(format string, args ...interface{}) {
	l.mu.Lock()
	l.warnings = append(l.warnings, fmt.Sprintf(format, args...))
	l.mu.Unlock()
}

func (l *recordingLogger) warned() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.warnings...)
}

// stepMsg drives the completable fixture program: add accumulates, finish
// completes.
type stepMsg struct {
	add    int
	finish bool
}

type stepModel struct {
	total int
}

// stepProgram completes with "done:<total>" once it receives a finish
// message.
func stepProgram() Program[NoFlags, string, stepModel, stepMsg] {
	return NewCompletable(CompletableConfig[string, stepModel, stepMsg]{
		Init: func() Outcome[stepModel, stepMsg, string] {
			return Continue[stepModel, stepMsg, string](stepModel{}, None[stepMsg]())
		},
		Update: func(msg stepMsg, model stepModel) Outcome[stepModel, stepMsg, string] {
			if msg.finish {
				return Complete[stepModel, stepMsg](fmt.Sprintf("done:%d", model.total))
			}
			return Continue[stepModel, stepMsg, string](stepModel{total: model.total + msg.add}, None[stepMsg]())
		},
		View: func(model stepModel) View[stepMsg] {
			return View[stepMsg]{Body: fmt.Sprintf("total:%d", model.total)}
		},
	})
}

// navStepProgram is stepProgram made location-aware: navigating to /finish
// completes it, any other location accumulates one.
func navStepProgram() Program[NoFlags, string, stepModel, stepMsg] {
	base := stepProgram()
	return Program[NoFlags, string, stepModel, stepMsg]{
		Init: WithLocation[NoFlags](func(loc Location) Outcome[stepModel, stepMsg, string] {
			return Continue[stepModel, stepMsg, string](stepModel{}, None[stepMsg]())
		}, func(loc Location) stepMsg {
			if loc.Path == "/finish" {
				return stepMsg{finish: true}
			}
			return stepMsg{add: 1}
		}),
		Update: base.Update,
		View:   base.View,
	}.normalized()
}

// immediateProgram completes at initialization without ever running.
func immediateProgram(done string) Program[NoFlags, string, stepModel, stepMsg] {
	return NewCompletable(CompletableConfig[string, stepModel, stepMsg]{
		Init: func() Outcome[stepModel, stepMsg, string] {
			return Complete[stepModel, stepMsg](done)
		},
		Update: func(msg stepMsg, model stepModel) Outcome[stepModel, stepMsg, string] {
			return Continue[stepModel, stepMsg, string](model, None[stepMsg]())
		},
	})
}

// echoMsg drives the flags-consuming fixture program.
type echoMsg struct {
	text string
}

type echoModel struct {
	flags string
	last  string
}

// echoProgram echoes its flags as the initial model and never completes.
func echoProgram() Program[string, Never, echoModel, echoMsg] {
	return NewWithFlags(FlagsConfig[string, echoModel, echoMsg]{
		Init: func(flags string) (echoModel, Cmd[echoMsg]) {
			return echoModel{flags: flags}, None[echoMsg]()
		},
		Update: func(msg echoMsg, model echoModel) (echoModel, Cmd[echoMsg]) {
			model.last = msg.text
			return model, None[echoMsg]()
		},
		View: func(model echoModel) View[echoMsg] {
			return View[echoMsg]{Body: "echo:" + model.flags}
		},
	})
}

// requireConfigPanic asserts that fn panics with a *ConfigError.
func requireConfigPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a configuration panic, got none")
		}
		if _, ok := r.(*ConfigError); !ok {
			t.Fatalf("expected *ConfigError, got %T: %v", r, r)
		}
	}()
	fn()
}

// requireInternalPanic asserts that fn panics with an *InternalError.
func requireInternalPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected an internal-consistency panic, got none")
		}
		if _, ok := r.(*InternalError); !ok {
			t.Fatalf("expected *InternalError, got %T: %v", r, r)
		}
	}()
	fn()
}
