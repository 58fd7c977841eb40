// Package handler chains key handlers until one claims the key.
package handler

import tea "github.com/charmbracelet/bubbletea"

// Result is what a key handler did with a key.
type Result struct {
	Handled bool
	Cmd     tea.Cmd
}

// NotHandled passes the key to the next handler.
var NotHandled = Result{}

// HandledNoCmd claims the key without a follow-up command.
var HandledNoCmd = Result{Handled: true}

// Handled claims the key and schedules cmd.
func Handled(cmd tea.Cmd) Result {
	return Result{Handled: true, Cmd: cmd}
}

// Handler tries to handle the key currently being dispatched.
type Handler func() Result

// Chain runs handlers in order and stops at the first that handles the key.
func Chain(handlers ...Handler) (bool, tea.Cmd) {
	for _, h := range handlers {
		if r := h(); r.Handled {
			return true, r.Cmd
		}
	}
	return false, nil
}
