package tui

import (
	"time"

	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/mo"
	"github.com/ytgrab-cli/ytgrab/fetcher"
	"github.com/ytgrab-cli/ytgrab/format"
	"github.com/ytgrab-cli/ytgrab/internal/ui"
	"github.com/ytgrab-cli/ytgrab/jobs"
	"github.com/ytgrab-cli/ytgrab/log"
	"github.com/ytgrab-cli/ytgrab/open"
	"github.com/ytgrab-cli/ytgrab/query"
	"github.com/ytgrab-cli/ytgrab/style"
)

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if cmd := b.notifier.Update(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		if bubblesKey.Matches(msg, b.keymap.forceQuit) {
			return b, tea.Quit
		}
	case spinner.TickMsg:
		if msg.ID == b.spinnerC.ID() {
			var cmd tea.Cmd
			b.spinnerC, cmd = b.spinnerC.Update(msg)
			if b.busy() {
				cmds = append(cmds, cmd)
			}
			return b, tea.Batch(cmds...)
		}
	case formatsMsg:
		return b, tea.Batch(append(cmds, b.onFormats(fetcher.Result(msg)))...)
	case downloadMsg:
		b.submitter.EndDownload(msg.resp, msg.err)
		return b, tea.Batch(append(cmds, ui.Notify(b.submitter.DownloadStatus.Message))...)
	case scheduleMsg:
		b.submitter.EndSchedule(msg.resp, msg.err)
		return b, tea.Batch(append(cmds, ui.Notify(b.submitter.ScheduleStatus.Message))...)
	case jobsMsg:
		if b.board.CompleteRefresh(jobs.RefreshResult(msg)) {
			b.jobsC.StopSpinner()
			cmds = append(cmds, b.setJobItems(), b.jobsC.NewStatusMessage(b.boardStatus()))
		}
		return b, tea.Batch(cmds...)
	case deletedMsg:
		b.board.EndDelete(msg.err)
		if msg.err != nil {
			b.jobsC.StopSpinner()
			return b, tea.Batch(append(cmds, b.jobsC.NewStatusMessage(b.boardStatus()))...)
		}
		return b, tea.Batch(append(cmds, ui.Notify("Deleted "+msg.job.TaskID), b.refreshJobs())...)
	}

	var (
		model tea.Model
		cmd   tea.Cmd
	)

	switch b.state {
	case urlState:
		model, cmd = b.updateURL(msg)
	case loadingState:
		model, cmd = b.updateLoading(msg)
	case formatsState:
		model, cmd = b.updatePicker(msg, &b.formatsC, format.KindCombined)
	case videoState:
		model, cmd = b.updatePicker(msg, &b.videoC, format.KindVideo)
	case audioState:
		model, cmd = b.updatePicker(msg, &b.audioC, format.KindAudio)
	case actionState:
		model, cmd = b.updateAction(msg)
	case scheduleState:
		model, cmd = b.updateSchedule(msg)
	case jobsState:
		model, cmd = b.updateJobs(msg)
	case confirmState:
		model, cmd = b.updateConfirm(msg)
	case errorState:
		model, cmd = b.updateError(msg)
	default:
		model = b
	}

	return model, tea.Batch(append(cmds, cmd)...)
}

// onFormats applies a lookup result. Stale results change nothing.
func (b *statefulBubble) onFormats(r fetcher.Result) tea.Cmd {
	if !b.fetcher.Complete(r) {
		return nil
	}

	if r.Err != nil {
		b.previousState()
		return nil
	}

	if err := query.Remember(r.Ticket.URL); err != nil {
		log.Warnf("remember url: %s", err)
	}

	cmd := b.loadCatalog(b.fetcher.Catalog)
	b.newState(b.pickerState())
	return cmd
}

// busy reports whether a lookup or a submission is waiting for the service.
func (b *statefulBubble) busy() bool {
	return b.fetcher.Loading || b.submitter.DownloadStatus.Loading || b.submitter.ScheduleStatus.Loading
}

func (b *statefulBubble) boardStatus() string {
	if b.board.Message == "" {
		return ""
	}
	return style.Fg(style.ErrorColor)(b.board.Message)
}

func (b *statefulBubble) openJobs() tea.Cmd {
	b.tab = jobs.TabAll
	b.newState(jobsState)
	return b.refreshJobs()
}

func (b *statefulBubble) updateURL(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case bubblesKey.Matches(msg, b.keymap.confirm):
			return b, b.lookup(b.inputC.Value())
		case bubblesKey.Matches(msg, b.keymap.acceptSuggestion) && b.urlSuggestion.IsPresent():
			b.inputC.SetValue(b.urlSuggestion.MustGet())
			b.urlSuggestion = mo.None[string]()
			b.inputC.CursorEnd()
			return b, nil
		case bubblesKey.Matches(msg, b.keymap.jobs):
			return b, b.openJobs()
		}
	}

	b.inputC, cmd = b.inputC.Update(msg)

	if b.inputC.Value() != "" {
		b.urlSuggestion = query.Suggest(b.inputC.Value())
	} else if b.urlSuggestion.IsPresent() {
		b.urlSuggestion = mo.None[string]()
	}

	return b, cmd
}

func (b *statefulBubble) updateLoading(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if bubblesKey.Matches(msg, b.keymap.back) {
			b.fetcher.Cancel()
			b.previousState()
		}
	}
	return b, nil
}

func (b *statefulBubble) updatePicker(msg tea.Msg, l *list.Model, kind format.Kind) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case bubblesKey.Matches(msg, b.keymap.toggleMode):
			if b.resolver.Toggle() {
				b.setState(b.pickerState())
			}
			return b, nil
		case bubblesKey.Matches(msg, b.keymap.best):
			b.resolver.UseBest(true)
			b.newState(actionState)
			return b, nil
		case bubblesKey.Matches(msg, b.keymap.openURL):
			if err := open.Start(b.fetcher.URL); err != nil {
				b.raiseError(err)
			}
			return b, nil
		case bubblesKey.Matches(msg, b.keymap.up):
			if n := len(l.Items()); n > 0 && l.Index() == 0 {
				l.Select(n - 1)
				return b, nil
			}
		case bubblesKey.Matches(msg, b.keymap.down):
			if n := len(l.Items()); n > 0 && l.Index() == n-1 {
				l.Select(0)
				return b, nil
			}
		case bubblesKey.Matches(msg, b.keymap.confirm):
			f, ok := selectedFormat(l)
			if ok {
				markOnly(l, f)
			}

			switch kind {
			case format.KindCombined:
				if !ok {
					return b, nil
				}
				b.resolver.SetFormat(f.ID)
				b.newState(actionState)
			case format.KindVideo:
				if ok {
					b.resolver.SetVideo(f.ID)
				}
				b.newState(audioState)
			case format.KindAudio:
				if ok {
					b.resolver.SetAudio(f.ID)
				}
				b.newState(actionState)
			}
			return b, nil
		case bubblesKey.Matches(msg, b.keymap.back):
			b.previousState()
			return b, nil
		}
	}

	*l, cmd = l.Update(msg)
	return b, cmd
}

func (b *statefulBubble) updateAction(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case bubblesKey.Matches(msg, b.keymap.confirm):
			item, ok := b.actionsC.SelectedItem().(*listItem)
			if !ok {
				return b, nil
			}

			switch item.internal {
			case actionDownload:
				return b, b.sendDownload()
			case actionSchedule:
				if b.dateC.Value() == "" {
					b.dateC.SetValue(time.Now().In(b.location).Format("2006-01-02"))
				}
				b.timeC.Blur()
				b.newState(scheduleState)
				return b, b.dateC.Focus()
			}
		case bubblesKey.Matches(msg, b.keymap.jobs):
			return b, b.openJobs()
		case bubblesKey.Matches(msg, b.keymap.back):
			b.resolver.UseBest(false)
			b.previousState()
			return b, nil
		}
	}

	b.actionsC, cmd = b.actionsC.Update(msg)
	return b, cmd
}

func (b *statefulBubble) updateSchedule(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case bubblesKey.Matches(msg, b.keymap.nextField):
			if b.dateC.Focused() {
				b.dateC.Blur()
				return b, b.timeC.Focus()
			}
			b.timeC.Blur()
			return b, b.dateC.Focus()
		case bubblesKey.Matches(msg, b.keymap.confirm):
			cmd = b.sendSchedule()
			if b.submitter.ScheduleStatus.Failed() {
				return b, nil
			}
			b.previousState()
			return b, cmd
		case bubblesKey.Matches(msg, b.keymap.back):
			b.previousState()
			return b, nil
		}
	}

	if b.dateC.Focused() {
		b.dateC, cmd = b.dateC.Update(msg)
	} else {
		b.timeC, cmd = b.timeC.Update(msg)
	}
	return b, cmd
}

func (b *statefulBubble) updateJobs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case bubblesKey.Matches(msg, b.keymap.nextTab):
			b.tab = b.tab.Next()
			b.jobsC.ResetSelected()
			return b, b.setJobItems()
		case bubblesKey.Matches(msg, b.keymap.refresh):
			return b, b.refreshJobs()
		case bubblesKey.Matches(msg, b.keymap.remove):
			if job, ok := b.selectedJob().Get(); ok && job.Deletable() {
				b.deleting = mo.Some(job)
				b.newState(confirmState)
			}
			return b, nil
		case bubblesKey.Matches(msg, b.keymap.openURL):
			if job, ok := b.selectedJob().Get(); ok && job.URL != "" {
				if err := open.Start(job.URL); err != nil {
					b.raiseError(err)
				}
			}
			return b, nil
		case bubblesKey.Matches(msg, b.keymap.back):
			if b.statesHistory.Len() == 0 {
				return b, tea.Quit
			}
			b.previousState()
			return b, nil
		}
	}

	b.jobsC, cmd = b.jobsC.Update(msg)
	b.syncDeleteKey()
	return b, cmd
}

func (b *statefulBubble) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case bubblesKey.Matches(msg, b.keymap.yes):
			job, ok := b.deleting.Get()
			b.deleting = mo.None[jobs.Job]()
			b.previousState()
			if !ok {
				return b, nil
			}
			return b, b.deleteJob(job)
		case bubblesKey.Matches(msg, b.keymap.no):
			b.deleting = mo.None[jobs.Job]()
			b.previousState()
		}
	}
	return b, nil
}

func (b *statefulBubble) updateError(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case bubblesKey.Matches(msg, b.keymap.back):
			b.lastError = nil
			b.previousState()
		case bubblesKey.Matches(msg, b.keymap.quit):
			return b, tea.Quit
		}
	}
	return b, nil
}
