package web

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/a-h/templ"
	"github.com/ytgrab-cli/ytgrab/constant"
	"github.com/ytgrab-cli/ytgrab/jobs"
	"github.com/ytgrab-cli/ytgrab/util"
)

const urlWidth = 40

const pageStyle = `body{font-family:sans-serif;margin:2rem;background:#1e1e2e;color:#cdd6f4}
a{color:#89b4fa}table{border-collapse:collapse;width:100%}
th,td{text-align:left;padding:.4rem .8rem;border-bottom:1px solid #313244}
.tabs a{margin-right:1rem}.tabs a.active{font-weight:bold}
.error{color:#f38ba8}.scheduled{color:#89dceb}.completed{color:#a6e3a1}
.in_progress{color:#f9e2af}`

// write stops at the first failed write.
type writer struct {
	w   io.Writer
	err error
}

func (w *writer) printf(format string, args ...any) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintf(w.w, format, args...)
}

func layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.printf(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>%s</title><style>%s</style></head><body>`,
			templ.EscapeString(title), pageStyle)
		w.printf(`<h1>%s</h1>`, templ.EscapeString(title))
		if w.err != nil {
			return w.err
		}
		if err := body.Render(ctx, out); err != nil {
			return err
		}
		w.printf(`<footer><small>%s v%s</small></footer></body></html>`, constant.App, constant.Version)
		return w.err
	})
}

func tabBar(active jobs.Tab) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.printf(`<nav class="tabs">`)
		for _, t := range jobs.Tabs {
			class := ""
			if t == active {
				class = ` class="active"`
			}
			w.printf(`<a href="/?tab=%s"%s>%s</a>`, tabParam(t), class, templ.EscapeString(t.String()))
		}
		w.printf(`</nav>`)
		return w.err
	})
}

func tabParam(t jobs.Tab) string {
	switch t {
	case jobs.TabCompleted:
		return "completed"
	case jobs.TabScheduled:
		return "scheduled"
	default:
		return "all"
	}
}

func jobsTable(list []jobs.Job, now time.Time) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, out io.Writer) error {
		w := &writer{w: out}
		if len(list) == 0 {
			w.printf(`<p>No downloads.</p>`)
			return w.err
		}

		w.printf(`<table><thead><tr><th>Task</th><th>URL</th><th>Quality</th><th>Status</th><th>Scheduled</th><th>Time left</th><th>File</th></tr></thead><tbody>`)
		for _, j := range list {
			scheduled, left, file := "-", "-", "-"
			if at, ok := j.ScheduledTime.Option().Get(); ok {
				scheduled = at.Local().Format("2006-01-02 15:04")
			}
			if m, ok := j.MinutesRemaining(now).Get(); ok {
				left = fmt.Sprintf("%.1f min", m)
			}
			if j.FilePath != "" {
				file = filepath.Base(j.FilePath)
			}

			w.printf(`<tr><td>%s</td><td><a href="%s">%s</a></td><td>%s</td><td class="%s">%s</td><td>%s</td><td>%s</td><td>%s</td></tr>`,
				templ.EscapeString(j.TaskID),
				templ.EscapeString(string(templ.URL(j.URL))),
				templ.EscapeString(util.ShortenURL(j.URL, urlWidth)),
				templ.EscapeString(j.Qualities()),
				templ.EscapeString(j.Status),
				templ.EscapeString(j.Status),
				scheduled,
				left,
				templ.EscapeString(file),
			)
		}
		w.printf(`</tbody></table>`)
		return w.err
	})
}

func errorBox(message string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, out io.Writer) error {
		_, err := fmt.Fprintf(out, `<p class="error">%s</p>`, templ.EscapeString(message))
		return err
	})
}

// overviewPage lists the jobs under tab, or message when the listing failed.
func overviewPage(tab jobs.Tab, list []jobs.Job, message string, now time.Time) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		if err := tabBar(tab).Render(ctx, out); err != nil {
			return err
		}
		if message != "" {
			return errorBox(message).Render(ctx, out)
		}
		return jobsTable(list, now).Render(ctx, out)
	})

	return layout("All Downloads", body)
}
