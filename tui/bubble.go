package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"github.com/ytgrab-cli/ytgrab/api"
	"github.com/ytgrab-cli/ytgrab/constant"
	"github.com/ytgrab-cli/ytgrab/fetcher"
	"github.com/ytgrab-cli/ytgrab/internal/ui"
	"github.com/ytgrab-cli/ytgrab/jobs"
	"github.com/ytgrab-cli/ytgrab/key"
	"github.com/ytgrab-cli/ytgrab/selection"
	"github.com/ytgrab-cli/ytgrab/style"
	"github.com/ytgrab-cli/ytgrab/submit"
	"github.com/ytgrab-cli/ytgrab/util"
)

// Client is everything the TUI asks of the download service.
type Client interface {
	fetcher.Lister
	submit.Client
	jobs.Client
}

type statefulBubble struct {
	state         state
	statesHistory util.Stack[state]

	keymap *statefulKeymap

	fetcher   *fetcher.Fetcher
	resolver  selection.Resolver
	submitter *submit.Submitter
	board     *jobs.Board
	location  *time.Location

	// components
	spinnerC spinner.Model
	inputC   textinput.Model
	dateC    textinput.Model
	timeC    textinput.Model
	formatsC list.Model
	videoC   list.Model
	audioC   list.Model
	actionsC list.Model
	jobsC    list.Model
	helpC    help.Model
	notifier *ui.Model

	urlSuggestion mo.Option[string]

	tab       jobs.Tab
	deleting  mo.Option[jobs.Job]
	lastError error

	width, height int

	options *Options
}

func (b *statefulBubble) raiseError(err error) {
	b.lastError = err
	b.newState(errorState)
}

func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

// newState moves to s and remembers where we came from.
func (b *statefulBubble) newState(s state) {
	if b.state == s {
		return
	}

	if !lo.Contains([]state{loadingState, confirmState, errorState}, b.state) {
		b.statesHistory.Push(b.state)
	}

	b.setState(s)
}

func (b *statefulBubble) previousState() {
	if b.statesHistory.Len() > 0 {
		b.setState(b.statesHistory.Pop())
	}
}

func (b *statefulBubble) lists() []*list.Model {
	return []*list.Model{&b.formatsC, &b.videoC, &b.audioC, &b.actionsC, &b.jobsC}
}

func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()
	xx, yy := listExtraPaddingStyle.GetFrameSize()

	listWidth := width - xx
	listHeight := height - yy

	for _, l := range b.lists() {
		l.SetSize(listWidth, listHeight)
		l.Help.Width = listWidth
	}

	// the tab bar takes two lines above the job list
	b.jobsC.SetSize(listWidth, listHeight-2)

	b.inputC.Width = listWidth
	b.width = width - x
	b.height = height - y
	b.helpC.Width = listWidth
}

func newBubble(client Client, loc *time.Location, options *Options) *statefulBubble {
	if options == nil {
		options = &Options{}
	}

	keymap := newStatefulKeymap()
	bubble := statefulBubble{
		statesHistory: util.Stack[state]{},
		keymap:        keymap,

		fetcher:   fetcher.New(client),
		submitter: submit.New(client, loc),
		board:     jobs.NewBoard(client),
		location:  loc,

		notifier: &ui.Model{},
		options:  options,
	}

	makeList := func(title string, titleColor lipgloss.Color, description bool) list.Model {
		delegate := list.NewDefaultDelegate()
		delegate.SetSpacing(viper.GetInt(key.TUIItemSpacing))
		delegate.ShowDescription = description
		delegate.Styles.SelectedTitle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder(), false, false, false, true).
			BorderForeground(style.AccentColor).
			Foreground(style.AccentColor).
			Padding(0, 0, 0, 1)
		delegate.Styles.NormalTitle = delegate.Styles.NormalTitle.Foreground(lipgloss.Color("7"))
		delegate.Styles.SelectedDesc = delegate.Styles.SelectedTitle

		listC := list.New([]list.Item{}, delegate, 0, 0)
		listC.KeyMap = bubble.keymap.forList()
		listC.AdditionalShortHelpKeys = bubble.keymap.ShortHelp
		listC.AdditionalFullHelpKeys = func() []bubblesKey.Binding {
			return bubble.keymap.FullHelp()[0]
		}
		listC.Title = title
		listC.Styles.Title = lipgloss.NewStyle().Foreground(style.Base).Background(titleColor).Padding(0, 1)
		listC.Styles.NoItems = paddingStyle
		listC.StatusMessageLifetime = time.Hour * 999
		listC.SetShowPagination(false)
		listC.SetShowStatusBar(false)
		listC.SetFilteringEnabled(false)
		return listC
	}

	bubble.helpC = help.New()

	bubble.spinnerC = spinner.New()
	bubble.spinnerC.Spinner = spinner.Dot
	bubble.spinnerC.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	bubble.inputC = textinput.New()
	bubble.inputC.Placeholder = "Enter YouTube video URL"
	bubble.inputC.Prompt = viper.GetString(key.TUIURLPrompt)
	bubble.inputC.CharLimit = 2048

	bubble.dateC = textinput.New()
	bubble.dateC.Placeholder = "YYYY-MM-DD"
	bubble.dateC.Prompt = "Date: "
	bubble.dateC.CharLimit = 10

	bubble.timeC = textinput.New()
	bubble.timeC.Placeholder = "HH:MM"
	bubble.timeC.Prompt = "Time: "
	bubble.timeC.CharLimit = 8

	bubble.formatsC = makeList("Formats", style.Lavender, true)
	bubble.formatsC.SetStatusBarItemName("format", "formats")

	bubble.videoC = makeList("Video", style.Peach, true)
	bubble.videoC.SetStatusBarItemName("format", "formats")

	bubble.audioC = makeList("Audio", style.Teal, true)
	bubble.audioC.SetStatusBarItemName("format", "formats")

	bubble.actionsC = makeList("Download", style.Mauve, false)
	bubble.actionsC.SetItems([]list.Item{
		&listItem{internal: actionDownload},
		&listItem{internal: actionSchedule},
	})

	bubble.jobsC = makeList(jobs.TabAll.String(), style.Blue, true)
	bubble.jobsC.SetStatusBarItemName("download", "downloads")

	if w, h, err := util.TerminalSize(); err == nil {
		bubble.resize(w, h)
	}

	bubble.inputC.Focus()
	bubble.setState(urlState)

	return &bubble
}

// versionHint is shown in the URL view header.
func versionHint() string {
	return "v" + constant.Version
}

var _ Client = (*api.Client)(nil)
