package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/ytgrab-cli/ytgrab/api"
	"github.com/ytgrab-cli/ytgrab/filesystem"
	"github.com/ytgrab-cli/ytgrab/selection"
)

func init() {
	filesystem.SetMemMapFs()
}

type stubClient struct {
	formats   map[string][]json.RawMessage
	downloads []api.DownloadRequest
	scheduled []api.Job
	deleted   []string
}

func (s *stubClient) ListFormats(_ context.Context, link string) ([]json.RawMessage, error) {
	raws, ok := s.formats[link]
	if !ok {
		return nil, api.ErrConnect
	}
	return raws, nil
}

func (s *stubClient) Download(_ context.Context, req api.DownloadRequest) (api.DownloadResponse, error) {
	s.downloads = append(s.downloads, req)
	return api.DownloadResponse{TaskID: "t-1"}, nil
}

func (s *stubClient) Schedule(_ context.Context, _ api.ScheduleRequest) (api.ScheduleResponse, error) {
	return api.ScheduleResponse{TaskID: "t-2"}, nil
}

func (s *stubClient) PastDownloads(context.Context) ([]api.Job, error) {
	return nil, nil
}

func (s *stubClient) ScheduledDownloads(context.Context) (api.ScheduledJobs, error) {
	return api.ScheduledJobs{Scheduled: s.scheduled}, nil
}

func (s *stubClient) DeleteScheduled(_ context.Context, taskID string) error {
	s.deleted = append(s.deleted, taskID)
	return nil
}

func entry(id, vcodec, acodec string) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(`{"id":%q,"ext":"mp4","vcodec":%q,"acodec":%q}`, id, vcodec, acodec))
}

// run executes cmd and every command of the batches it yields.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}

	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}

	var msgs []tea.Msg
	for _, c := range batch {
		msgs = append(msgs, run(c)...)
	}
	return msgs
}

// deliver feeds back the service results among msgs.
func deliver(b *statefulBubble, msgs []tea.Msg) {
	for _, msg := range msgs {
		switch msg.(type) {
		case formatsMsg, downloadMsg, scheduleMsg, jobsMsg, deletedMsg:
			b.Update(msg)
		}
	}
}

func press(b *statefulBubble, k string) tea.Cmd {
	var msg tea.KeyMsg
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}

	_, cmd := b.Update(msg)
	return cmd
}

func TestBubble(t *testing.T) {
	Convey("Given a bubble", t, func() {
		client := &stubClient{formats: map[string][]json.RawMessage{
			"A": {entry("18", "avc1", "mp4a"), entry("137", "avc1", "none"), entry("140", "none", "mp4a")},
			"B": {entry("137", "avc1", "none"), entry("140", "none", "mp4a")},
		}}
		b := newBubble(client, time.UTC, nil)
		b.resize(120, 40)

		Convey("An empty URL shows a message and stays on the prompt", func() {
			So(run(press(b, "enter")), ShouldBeEmpty)
			So(b.state, ShouldEqual, urlState)
			So(b.View(), ShouldContainSubstring, "Please enter a video URL")
		})

		Convey("Looking up a URL loads the combined picker", func() {
			b.inputC.SetValue("A")
			msgs := run(press(b, "enter"))
			So(b.state, ShouldEqual, loadingState)
			So(b.fetcher.Loading, ShouldBeTrue)

			deliver(b, msgs)
			So(b.fetcher.Loading, ShouldBeFalse)
			So(b.state, ShouldEqual, formatsState)
			So(b.resolver.Mode(), ShouldEqual, selection.Combined)
			So(b.keymap.toggleMode.Enabled(), ShouldBeTrue)
			So(len(b.formatsC.Items()), ShouldEqual, 1)

			Convey("Picking a format and downloading submits it", func() {
				press(b, "enter")
				So(b.state, ShouldEqual, actionState)

				deliver(b, run(press(b, "enter")))
				So(client.downloads, ShouldHaveLength, 1)
				So(client.downloads[0].VideoQuality, ShouldEqual, "18")
				So(client.downloads[0].AudioQuality, ShouldEqual, "18")
				So(b.submitter.DownloadStatus.Message, ShouldEqual, "Download started. Task ID: t-1")
				So(b.View(), ShouldContainSubstring, "t-1")
			})

			Convey("Toggling switches to the separate pickers", func() {
				press(b, "t")
				So(b.state, ShouldEqual, videoState)

				press(b, "enter")
				So(b.state, ShouldEqual, audioState)
				press(b, "enter")
				So(b.state, ShouldEqual, actionState)

				choice := b.resolver.Resolve()
				So(choice.Video, ShouldEqual, "137")
				So(choice.Audio, ShouldEqual, "140")
			})

			Convey("The best affordance skips the pickers", func() {
				press(b, "b")
				So(b.state, ShouldEqual, actionState)

				deliver(b, run(press(b, "enter")))
				So(client.downloads[0].VideoQuality, ShouldEqual, api.BestVideo)
				So(client.downloads[0].AudioQuality, ShouldEqual, api.BestAudio)
			})
		})

		Convey("Without combined formats the separate mode is forced", func() {
			b.inputC.SetValue("B")
			deliver(b, run(press(b, "enter")))
			So(b.state, ShouldEqual, videoState)
			So(b.keymap.toggleMode.Enabled(), ShouldBeFalse)

			press(b, "t")
			So(b.state, ShouldEqual, videoState)
		})

		Convey("A cancelled lookup is ignored when it completes", func() {
			b.inputC.SetValue("A")
			msgs := run(press(b, "enter"))
			press(b, "esc")
			So(b.state, ShouldEqual, urlState)

			deliver(b, msgs)
			So(b.state, ShouldEqual, urlState)
			So(b.fetcher.Catalog.IsEmpty(), ShouldBeTrue)
		})

		Convey("A failed lookup returns to the prompt with the connect message", func() {
			b.inputC.SetValue("unknown")
			deliver(b, run(press(b, "enter")))
			So(b.state, ShouldEqual, urlState)
			So(b.View(), ShouldContainSubstring, "Could not connect")
		})
	})

	Convey("Given the job list", t, func() {
		client := &stubClient{scheduled: []api.Job{
			{TaskID: "s-1", URL: "https://youtu.be/x", Status: api.StatusScheduled},
		}}
		b := newBubble(client, time.UTC, &Options{Jobs: true})
		b.resize(120, 40)

		deliver(b, run(b.Init()))
		So(b.state, ShouldEqual, jobsState)
		So(b.jobsC.Items(), ShouldHaveLength, 1)
		So(b.keymap.remove.Enabled(), ShouldBeTrue)

		Convey("Deleting asks first", func() {
			press(b, "d")
			So(b.state, ShouldEqual, confirmState)
			So(b.View(), ShouldContainSubstring, "Delete this download?")

			Convey("Declining keeps the job", func() {
				press(b, "n")
				So(b.state, ShouldEqual, jobsState)
				So(client.deleted, ShouldBeEmpty)
			})

			Convey("Confirming deletes it", func() {
				deliver(b, run(press(b, "y")))
				So(b.state, ShouldEqual, jobsState)
				So(client.deleted, ShouldResemble, []string{"s-1"})
			})
		})

		Convey("Back quits when the list was opened directly", func() {
			cmd := press(b, "esc")
			So(cmd, ShouldNotBeNil)
		})
	})
}
