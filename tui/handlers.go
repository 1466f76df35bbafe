package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/ytgrab-cli/ytgrab/api"
	"github.com/ytgrab-cli/ytgrab/fetcher"
	"github.com/ytgrab-cli/ytgrab/format"
	"github.com/ytgrab-cli/ytgrab/jobs"
	"github.com/ytgrab-cli/ytgrab/selection"
	"github.com/ytgrab-cli/ytgrab/submit"
)

// Results of the service calls, delivered back to Update.
type (
	formatsMsg  fetcher.Result
	downloadMsg struct {
		resp api.DownloadResponse
		err  error
	}
	scheduleMsg struct {
		resp api.ScheduleResponse
		err  error
	}
	jobsMsg    jobs.RefreshResult
	deletedMsg struct {
		job jobs.Job
		err error
	}
)

// lookup starts a new format lookup. The selection is dropped right away,
// before the answer is known.
func (b *statefulBubble) lookup(url string) tea.Cmd {
	ticket, err := b.fetcher.Begin(url)
	if err != nil {
		b.fetcher.Err = err
		return nil
	}

	b.resolver.Reset()
	b.submitter.DownloadStatus = submit.Status{}
	b.submitter.ScheduleStatus = submit.Status{}
	b.newState(loadingState)

	f := b.fetcher
	return tea.Batch(b.spinnerC.Tick, func() tea.Msg {
		return formatsMsg(f.Run(context.Background(), ticket))
	})
}

func (b *statefulBubble) sendDownload() tea.Cmd {
	req, err := b.submitter.BeginDownload(b.fetcher.URL, b.resolver.Resolve())
	if err != nil {
		return nil
	}

	s := b.submitter
	return tea.Batch(b.spinnerC.Tick, func() tea.Msg {
		resp, err := s.SendDownload(context.Background(), req)
		return downloadMsg{resp: resp, err: err}
	})
}

func (b *statefulBubble) sendSchedule() tea.Cmd {
	req, err := b.submitter.BeginSchedule(b.fetcher.URL, b.dateC.Value(), b.timeC.Value(), b.resolver.Resolve())
	if err != nil {
		return nil
	}

	s := b.submitter
	return tea.Batch(b.spinnerC.Tick, func() tea.Msg {
		resp, err := s.SendSchedule(context.Background(), req)
		return scheduleMsg{resp: resp, err: err}
	})
}

func (b *statefulBubble) refreshJobs() tea.Cmd {
	ticket := b.board.BeginRefresh()
	board := b.board
	return tea.Batch(b.jobsC.StartSpinner(), func() tea.Msg {
		return jobsMsg(board.Fetch(context.Background(), ticket))
	})
}

func (b *statefulBubble) deleteJob(job jobs.Job) tea.Cmd {
	if err := b.board.BeginDelete(job); err != nil {
		return nil
	}

	board := b.board
	return tea.Batch(b.jobsC.StartSpinner(), func() tea.Msg {
		return deletedMsg{job: job, err: board.SendDelete(context.Background(), job.TaskID)}
	})
}

// loadCatalog fills the pickers from the resolver and returns the state to show.
func (b *statefulBubble) loadCatalog(catalog format.Catalog) tea.Cmd {
	b.resolver.Load(catalog)
	b.keymap.toggleMode.SetEnabled(b.resolver.CanToggle())

	items := func(kind format.Kind) []list.Item {
		return lo.Map(b.resolver.Options(kind), func(f format.Format, _ int) list.Item {
			return &listItem{internal: &formatItem{Format: f, kind: kind}}
		})
	}

	b.formatsC.Title = "Formats for " + catalog.URL
	b.videoC.Title = "Video for " + catalog.URL
	b.audioC.Title = "Audio for " + catalog.URL

	return tea.Batch(
		b.formatsC.SetItems(items(format.KindCombined)),
		b.videoC.SetItems(items(format.KindVideo)),
		b.audioC.SetItems(items(format.KindAudio)),
	)
}

// pickerState is the first picker of the active mode.
func (b *statefulBubble) pickerState() state {
	if b.resolver.Mode() == selection.Combined {
		return formatsState
	}
	return videoState
}

func (b *statefulBubble) setJobItems() tea.Cmd {
	view := b.board.View(b.tab)
	items := make([]list.Item, len(view))
	for i := range view {
		items[i] = &listItem{internal: &view[i]}
	}

	b.jobsC.Title = b.tab.String()
	cmd := b.jobsC.SetItems(items)
	b.syncDeleteKey()
	return cmd
}

// syncDeleteKey offers delete only while a scheduled job is highlighted.
func (b *statefulBubble) syncDeleteKey() {
	job, ok := b.selectedJob().Get()
	b.keymap.remove.SetEnabled(ok && job.Deletable())
}

func (b *statefulBubble) selectedJob() mo.Option[jobs.Job] {
	item, ok := b.jobsC.SelectedItem().(*listItem)
	if !ok {
		return mo.None[jobs.Job]()
	}
	if j, ok := item.internal.(*jobs.Job); ok {
		return mo.Some(*j)
	}
	return mo.None[jobs.Job]()
}

// selectedFormat returns the highlighted entry of a picker.
func selectedFormat(l *list.Model) (*formatItem, bool) {
	item, ok := l.SelectedItem().(*listItem)
	if !ok {
		return nil, false
	}
	f, ok := item.internal.(*formatItem)
	return f, ok
}

// markOnly marks f and unmarks every other entry of l.
func markOnly(l *list.Model, f *formatItem) {
	for _, item := range l.Items() {
		if fi, ok := item.(*listItem).internal.(*formatItem); ok {
			fi.marked = fi == f
		}
	}
}
