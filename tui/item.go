package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/viper"
	"github.com/ytgrab-cli/ytgrab/format"
	"github.com/ytgrab-cli/ytgrab/icon"
	"github.com/ytgrab-cli/ytgrab/jobs"
	"github.com/ytgrab-cli/ytgrab/key"
	"github.com/ytgrab-cli/ytgrab/style"
	"github.com/ytgrab-cli/ytgrab/util"
)

// urlWidth is how much of a source URL the job list shows.
const urlWidth = 40

type formatItem struct {
	format.Format
	kind   format.Kind
	marked bool
}

// action is an entry of the action menu.
type action int

const (
	actionDownload action = iota
	actionSchedule
)

type listItem struct {
	internal interface{}
}

func (t *listItem) Title() (title string) {
	switch e := t.internal.(type) {
	case *formatItem:
		title = format.Title(e.Format)
		if e.marked {
			title = fmt.Sprintf("%s %s", title, lipgloss.NewStyle().Bold(true).Foreground(style.AccentColor).Render(icon.Get(icon.Mark)))
		}
	case *jobs.Job:
		name := e.TaskID
		if e.FilePath != "" {
			name = filepath.Base(e.FilePath)
		}
		title = fmt.Sprintf("%s %s", style.Status(e.Status), name)
	case action:
		switch e {
		case actionDownload:
			title = icon.Get(icon.Progress) + " Download now"
		case actionSchedule:
			title = icon.Get(icon.Scheduled) + " Schedule download"
		}
	case string:
		title = e
	}
	return
}

func (t *listItem) Description() (description string) {
	switch e := t.internal.(type) {
	case *formatItem:
		description = format.Label(e.Format, e.kind)
	case *jobs.Job:
		description = jobDescription(e, time.Now())
	}
	return
}

func (t *listItem) FilterValue() string {
	switch e := t.internal.(type) {
	case *formatItem:
		return format.Label(e.Format, e.kind)
	case *jobs.Job:
		return e.TaskID + " " + e.URL
	case string:
		return e
	default:
		return ""
	}
}

// jobDescription renders the columns of the job table: URL, qualities,
// scheduled time in local time and time left.
func jobDescription(j *jobs.Job, now time.Time) string {
	var parts []string

	if viper.GetBool(key.TUIShowURLs) && j.URL != "" {
		parts = append(parts, util.ShortenURL(j.URL, urlWidth))
	}

	parts = append(parts, j.Qualities())

	if at, ok := j.ScheduledTime.Option().Get(); ok {
		parts = append(parts, at.Local().Format("2006-01-02 15:04"))
	}

	if left, ok := j.MinutesRemaining(now).Get(); ok {
		parts = append(parts, style.Fg(style.Sky)(fmt.Sprintf("%.1f min", left)))
	}

	return strings.Join(parts, " • ")
}
