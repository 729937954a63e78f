// Package goseq provides composition operators for interactive, message-driven
// programs.
//
// goseq models an interactive application as a Program: an initializer, an
// update function, a set of subscriptions, and a view. Programs are phased:
// every update either continues with a new model and a command, or completes
// with a done value. Independently written programs can then be combined:
//
//   - AndThen runs a first program to completion and feeds its done value
//     into the initialization of a second program.
//   - Cache wraps a program with a read-before-run / write-after-done
//     persistence policy, skipping the program entirely on a cache hit.
//
// Core components include:
//   - Program: the uniform program descriptor, parameterized by flags, done,
//     model, and message types
//   - Init: how a program's initial outcome is produced (no input, flags,
//     location, or both)
//   - Outcome: the continue-versus-complete result of init and update
//   - Cmd and Sub: inspectable descriptions of pending work and event sources
//   - Runner: a single-goroutine dispatch loop that drives a resolved program
//
// Rendering, persistence backends, and host scheduling live outside the core:
// views are opaque values handed to a host (see the tui subpackage), and the
// cache only invokes caller-supplied read and write operations (see the store
// subpackage for ready-made backends).
package goseq
