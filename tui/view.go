package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wrap"
	"github.com/ytgrab-cli/ytgrab/color"
	"github.com/ytgrab-cli/ytgrab/icon"
	"github.com/ytgrab-cli/ytgrab/jobs"
	"github.com/ytgrab-cli/ytgrab/selection"
	"github.com/ytgrab-cli/ytgrab/style"
	"github.com/ytgrab-cli/ytgrab/submit"
	"github.com/ytgrab-cli/ytgrab/util"
)

var (
	listExtraPaddingStyle = lipgloss.NewStyle().Padding(1, 2, 1, 0)
	paddingStyle          = lipgloss.NewStyle().Padding(1, 2)
)

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case urlState:
		output = b.viewURL()
	case loadingState:
		output = b.viewLoading()
	case formatsState:
		output = b.viewPicker(b.formatsC.View())
	case videoState:
		output = b.viewPicker(b.videoC.View())
	case audioState:
		output = b.viewPicker(b.audioC.View())
	case actionState:
		output = b.viewAction()
	case scheduleState:
		output = b.viewSchedule()
	case jobsState:
		output = b.viewJobs()
	case confirmState:
		output = b.viewConfirm()
	case errorState:
		output = b.viewError()
	default:
		output = "Unknown state"
	}

	return b.notifier.View(output)
}

func (b *statefulBubble) viewURL() string {
	lines := []string{
		style.Title("Download Video") + " " + style.Faint(versionHint()),
		"",
		b.inputC.View(),
	}

	if suggestion, ok := b.urlSuggestion.Get(); ok {
		lines = append(lines, style.Faint(style.Truncate(b.width)(icon.Get(icon.Link)+" "+suggestion)))
	}

	if msg := b.fetcher.Message(); msg != "" {
		lines = append(lines, "", style.Fg(style.ErrorColor)(icon.Get(icon.Fail)+" "+msg))
	}

	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewLoading() string {
	return b.renderLines(
		true,
		[]string{
			style.Title("Loading"),
			"",
			style.Truncate(b.width)(b.spinnerC.View() + " Loading formats for " + style.Fg(color.Purple)(b.fetcher.URL) + "..."),
		},
	)
}

func (b *statefulBubble) viewPicker(listView string) string {
	var hint string
	switch {
	case b.resolver.Catalog().IsEmpty() || len(b.resolver.Catalog().Usable()) == 0:
		hint = "No downloadable formats were reported for this URL. Press b for best quality."
	case b.resolver.Mode() == selection.Separate:
		hint = "Pick a video stream, then an audio stream."
	}

	if hint == "" {
		return listExtraPaddingStyle.Render(listView)
	}
	return listExtraPaddingStyle.Render(listView + "\n" + style.Faint(hint))
}

func (b *statefulBubble) choiceSummary() string {
	c := b.resolver.Resolve()
	switch {
	case c.Best:
		return icon.Get(icon.Combined) + " Best Video + Best Audio"
	case c.Mode == selection.Combined:
		return icon.Get(icon.Combined) + " " + dash(c.Format)
	default:
		return fmt.Sprintf("%s %s  %s %s", icon.Get(icon.Video), dash(c.Video), icon.Get(icon.Audio), dash(c.Audio))
	}
}

func (b *statefulBubble) viewStatus(name string, s submit.Status) string {
	switch {
	case s.Loading:
		return fmt.Sprintf("%s: %s Loading...", name, b.spinnerC.View())
	case s.Failed():
		return fmt.Sprintf("%s: %s", name, style.Fg(style.ErrorColor)(icon.Get(icon.Fail)+" "+s.Message))
	case s.Message != "":
		return fmt.Sprintf("%s: %s", name, style.Fg(style.SuccessColor)(icon.Get(icon.Success)+" "+s.Message))
	default:
		return ""
	}
}

func (b *statefulBubble) viewAction() string {
	b.actionsC.Title = style.Truncate(b.width)(b.fetcher.URL)

	lines := []string{
		b.actionsC.View(),
		"",
		b.choiceSummary(),
	}
	for _, line := range []string{
		b.viewStatus("Download", b.submitter.DownloadStatus),
		b.viewStatus("Schedule", b.submitter.ScheduleStatus),
	} {
		if line != "" {
			lines = append(lines, line)
		}
	}

	return listExtraPaddingStyle.Render(strings.Join(lines, "\n"))
}

func (b *statefulBubble) viewSchedule() string {
	lines := []string{
		style.Title("Schedule Download"),
		"",
		style.Faint("Times are in " + b.location.String()),
		"",
		b.dateC.View(),
		b.timeC.View(),
		"",
		b.choiceSummary(),
	}

	if s := b.submitter.ScheduleStatus; s.Failed() {
		lines = append(lines, "", style.Fg(style.ErrorColor)(icon.Get(icon.Fail)+" "+s.Message))
	}

	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewTabs() string {
	tabs := make([]string, len(jobs.Tabs))
	for i, t := range jobs.Tabs {
		if t == b.tab {
			tabs[i] = style.Tag(style.Base, style.Blue)(t.String())
		} else {
			tabs[i] = style.Tag(style.Text, style.Surface)(t.String())
		}
	}
	return strings.Join(tabs, " ")
}

func (b *statefulBubble) viewJobs() string {
	return listExtraPaddingStyle.Render(b.viewTabs() + "\n\n" + b.jobsC.View())
}

func (b *statefulBubble) viewConfirm() string {
	var name string
	if job, ok := b.deleting.Get(); ok {
		name = job.TaskID
		if job.URL != "" {
			name += " " + style.Faint(util.ShortenURL(job.URL, urlWidth))
		}
	}

	return b.renderLines(
		true,
		[]string{
			style.ErrorTitle("Delete"),
			"",
			jobs.ConfirmDelete,
			style.Fg(color.Purple)(name),
		},
	)
}

func (b *statefulBubble) viewError() string {
	var text string
	if b.lastError != nil {
		text = b.lastError.Error()
	}

	return b.renderLines(
		true,
		[]string{
			style.ErrorTitle("Error"),
			"",
			icon.Get(icon.Fail) + " An error occurred:",
			"",
			wrap.String(style.Fg(style.ErrorColor)(text), b.width),
		},
	)
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	h := len(lines)
	l := strings.Join(lines, "\n")
	if addHelp {
		if b.height > h {
			l += strings.Repeat("\n", b.height-h)
		}
		l += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
