// Package ui renders short-lived notifications at the bottom of the TUI.
package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ytgrab-cli/ytgrab/style"
)

// Lifetime is how long a notification stays on screen.
const Lifetime = 3 * time.Second

// Model holds the current notification, if any.
type Model struct {
	notification string
	id           int
}

type notifyMsg struct {
	text string
}

type clearMsg struct {
	id int
}

// Notify returns a command that shows text for Lifetime.
func Notify(text string) tea.Cmd {
	return func() tea.Msg {
		return notifyMsg{text: text}
	}
}

// Update handles notification messages and ignores everything else.
// A newer notification keeps the timer of an older one from clearing it.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case notifyMsg:
		m.id++
		m.notification = msg.text
		id := m.id
		return tea.Tick(Lifetime, func(time.Time) tea.Msg {
			return clearMsg{id: id}
		})
	case clearMsg:
		if msg.id == m.id {
			m.notification = ""
		}
	}
	return nil
}

// Text is the notification currently shown.
func (m *Model) Text() string {
	return m.notification
}

// View appends the notification to the last line of content.
func (m *Model) View(content string) string {
	if m.notification == "" {
		return content
	}

	lines := strings.Split(content, "\n")
	lines[len(lines)-1] += "  " + style.Faint(m.notification)
	return strings.Join(lines, "\n")
}
