package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func (b *statefulBubble) Init() tea.Cmd {
	switch {
	case b.options.Jobs:
		b.setState(jobsState)
		return b.refreshJobs()
	case b.options.URL != "":
		b.inputC.SetValue(b.options.URL)
		return tea.Batch(textinput.Blink, b.lookup(b.options.URL))
	default:
		return textinput.Blink
	}
}
