package ui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// toastDuration is how long a notification stays on screen.
const toastDuration = 4 * time.Second

type toastKind int

const (
	toastSuccess toastKind = iota
	toastFailure
)

// toast is a transient notification shown at the bottom of a view. Every
// toast carries an id so an expiry for a superseded toast is ignored.
type toast struct {
	id      int
	kind    toastKind
	message string
}

type toastExpiredMsg struct {
	id int
}

var toastCounter atomic.Int64

func newToast(kind toastKind, message string) (toast, tea.Cmd) {
	t := toast{id: int(toastCounter.Add(1)), kind: kind, message: message}
	cmd := tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: t.id}
	})
	return t, cmd
}

func (t toast) active() bool {
	return t.message != ""
}

func (t toast) render() string {
	if !t.active() {
		return ""
	}
	if t.kind == toastFailure {
		return errorStyle.Render("✗ " + t.message)
	}
	return successStyle.Render("✓ " + t.message)
}
