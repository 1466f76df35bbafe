// Package tui is the interactive client: look up a URL, pick formats,
// download or schedule, and browse the job list.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ytgrab-cli/ytgrab/api"
	"github.com/ytgrab-cli/ytgrab/config"
)

// Options tune how the TUI starts.
type Options struct {
	// URL is looked up right away when set.
	URL string
	// Jobs opens the job list instead of the URL prompt.
	Jobs bool
}

// Run builds the client from the configuration and blocks until the user quits.
func Run(options *Options) error {
	client, err := api.FromConfig()
	if err != nil {
		return err
	}

	loc, err := config.Location()
	if err != nil {
		return err
	}

	bubble := newBubble(client, loc, options)
	_, err = tea.NewProgram(bubble, tea.WithAltScreen()).Run()
	return err
}
