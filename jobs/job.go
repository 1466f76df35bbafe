// Package jobs lists the downloads known to the backend and cancels scheduled ones.
package jobs

import (
	"time"

	"github.com/samber/mo"
	"github.com/ytgrab-cli/ytgrab/api"
)

// Job is a backend task plus the server clock reported along with it.
type Job struct {
	api.Job
	// ServerTime is the backend's "current time" at listing, set for scheduled jobs.
	ServerTime mo.Option[time.Time]
}

func (j Job) IsScheduled() bool {
	return j.Status == api.StatusScheduled
}

// Deletable reports whether the job may still be cancelled.
func (j Job) Deletable() bool {
	return j.IsScheduled()
}

// MinutesRemaining is the time until a scheduled job starts. The backend's
// own figure wins, then its clock; localNow is only used when the backend
// reported neither.
func (j Job) MinutesRemaining(localNow time.Time) mo.Option[float64] {
	if !j.IsScheduled() {
		return mo.None[float64]()
	}

	if j.TimeRemaining != nil {
		return mo.Some(*j.TimeRemaining)
	}

	at, ok := j.ScheduledTime.Option().Get()
	if !ok {
		return mo.None[float64]()
	}

	now := j.ServerTime.OrElse(localNow)
	return mo.Some(max(at.Sub(now).Minutes(), 0))
}

// Qualities renders the requested tokens as "video / audio".
func (j Job) Qualities() string {
	dash := func(s string) string {
		if s == "" {
			return "-"
		}
		return s
	}
	return dash(j.VideoQuality) + " / " + dash(j.AudioQuality)
}
