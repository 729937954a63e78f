// Package tui hosts a resolved goseq program inside a BubbleTea program.
//
// The bridge translates between the two worlds: goseq commands become
// tea.Cmds, subscription sources run on their own goroutines and deliver
// through tea.Program.Send, key bindings from the program's view are
// matched against tea.KeyMsg input, and location changes are injected with
// Navigate. tea.Program.Send is goroutine-safe, so external collaborators
// can feed messages concurrently.
package tui
