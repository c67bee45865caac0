package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// toastDuration is how long a toast stays in the status line
const toastDuration = 8 * time.Second

type toastLevel int

const (
	toastInfo toastLevel = iota
	toastSuccess
	toastError
)

type toastExpiredMsg struct {
	id int
}

type toastState struct {
	id    int
	text  string
	level toastLevel
}

func (t toastState) active() bool {
	return t.text != ""
}

// showToast replaces the status bar with a transient message. The returned
// command expires it; a newer toast invalidates older expiry ticks via id.
func (a *AppView) showToast(level toastLevel, text string) tea.Cmd {
	a.toast.id++
	a.toast.text = text
	a.toast.level = level

	id := a.toast.id
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

func (a *AppView) expireToast(msg toastExpiredMsg) {
	if msg.id == a.toast.id {
		a.toast.text = ""
	}
}

func (a AppView) renderToast() string {
	switch a.toast.level {
	case toastSuccess:
		return UserStyle.Render(a.toast.text)
	case toastError:
		return ErrorStyle.Render(a.toast.text)
	default:
		return DimStyle.Render(a.toast.text)
	}
}
