package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/ytgrab-cli/ytgrab/api"
)

type stubClient struct {
	past      []api.Job
	scheduled api.ScheduledJobs
	pastErr   error
	schedErr  error
	deleteErr error

	inFlight atomic.Int32
	overlap  atomic.Bool
	deleted  []string
	lists    int
}

func (s *stubClient) enter() func() {
	if s.inFlight.Add(1) > 1 {
		s.overlap.Store(true)
	}
	time.Sleep(20 * time.Millisecond)
	return func() { s.inFlight.Add(-1) }
}

func (s *stubClient) PastDownloads(context.Context) ([]api.Job, error) {
	defer s.enter()()
	return s.past, s.pastErr
}

func (s *stubClient) ScheduledDownloads(context.Context) (api.ScheduledJobs, error) {
	defer s.enter()()
	return s.scheduled, s.schedErr
}

func (s *stubClient) DeleteScheduled(_ context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.scheduled.Scheduled = lo.Reject(s.scheduled.Scheduled, func(j api.Job, _ int) bool { return j.TaskID == id })
	return nil
}

func ts(s string) api.Timestamp {
	t, err := api.ParseTimestamp(s)
	if err != nil {
		panic(err)
	}
	return t
}

func newStub() *stubClient {
	return &stubClient{
		past: []api.Job{
			{TaskID: "done", URL: "u1", Status: api.StatusCompleted, FilePath: "/x.mp4"},
			{TaskID: "bad", URL: "u2", Status: api.StatusFailed},
		},
		scheduled: api.ScheduledJobs{
			Scheduled: []api.Job{
				{TaskID: "later", URL: "u3", Status: api.StatusScheduled, ScheduledTime: ts("2024-06-01T20:00:00")},
			},
			CurrentTime: ts("2024-06-01T19:30:00"),
		},
	}
}

func taskIDs(jobs []Job) []string {
	return lo.Map(jobs, func(j Job, _ int) string { return j.TaskID })
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()

	Convey("Given a backend with completed and scheduled jobs", t, func() {
		stub := newStub()
		b := NewBoard(stub)

		Convey("Refresh lists both concurrently and merges them", func() {
			So(b.Refresh(ctx), ShouldBeNil)
			So(stub.overlap.Load(), ShouldBeTrue)
			So(b.Loading, ShouldBeFalse)

			So(taskIDs(b.View(TabAll)), ShouldResemble, []string{"done", "bad", "later"})
			So(taskIDs(b.View(TabCompleted)), ShouldResemble, []string{"done", "bad"})
			So(taskIDs(b.View(TabScheduled)), ShouldResemble, []string{"later"})
		})

		Convey("Scheduled jobs carry the server clock", func() {
			So(b.Refresh(ctx), ShouldBeNil)
			job := b.View(TabScheduled)[0]
			So(job.ServerTime.IsPresent(), ShouldBeTrue)
			So(job.MinutesRemaining(time.Now()).MustGet(), ShouldEqual, 30)
		})

		Convey("A failure in either list fails the whole refresh", func() {
			So(b.Refresh(ctx), ShouldBeNil)
			stub.schedErr = &api.StatusError{Code: 502}

			So(b.Refresh(ctx), ShouldNotBeNil)
			So(b.Message, ShouldEqual, FetchFailedMessage)
			So(b.Loading, ShouldBeFalse)
			So(b.View(TabAll), ShouldHaveLength, 3)
		})

		Convey("A superseded refresh is dropped", func() {
			first := b.BeginRefresh()
			second := b.BeginRefresh()

			stale := b.Fetch(ctx, first)
			stale.Snapshot = Snapshot{}
			So(b.CompleteRefresh(stale), ShouldBeFalse)
			So(b.Loading, ShouldBeTrue)

			So(b.CompleteRefresh(b.Fetch(ctx, second)), ShouldBeTrue)
			So(b.View(TabAll), ShouldHaveLength, 3)
		})
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	Convey("Given a refreshed board", t, func() {
		stub := newStub()
		b := NewBoard(stub)
		So(b.Refresh(ctx), ShouldBeNil)

		Convey("Only scheduled jobs are deletable", func() {
			deletable := lo.Filter(b.View(TabAll), func(j Job, _ int) bool { return j.Deletable() })
			So(taskIDs(deletable), ShouldResemble, []string{"later"})
		})

		Convey("Deleting a completed job is refused locally", func() {
			err := b.Delete(ctx, b.View(TabCompleted)[0])
			So(errors.Is(err, ErrNotDeletable), ShouldBeTrue)
			So(stub.deleted, ShouldBeEmpty)
		})

		Convey("Deleting a scheduled job re-fetches the listing", func() {
			So(b.Delete(ctx, b.View(TabScheduled)[0]), ShouldBeNil)
			So(stub.deleted, ShouldResemble, []string{"later"})
			So(b.View(TabScheduled), ShouldBeEmpty)
		})

		Convey("A failed delete keeps the listing and reports it", func() {
			stub.deleteErr = &api.StatusError{Code: 404}
			So(b.Delete(ctx, b.View(TabScheduled)[0]), ShouldNotBeNil)
			So(b.Message, ShouldEqual, DeleteFailedMessage)
			So(b.Loading, ShouldBeFalse)
			So(b.View(TabScheduled), ShouldHaveLength, 1)
		})
	})
}

func TestMinutesRemaining(t *testing.T) {
	local := time.Date(2024, 6, 1, 19, 0, 0, 0, time.UTC)

	Convey("Remaining time", t, func() {
		job := Job{Job: api.Job{Status: api.StatusScheduled, ScheduledTime: ts("2024-06-01T19:30:00")}}

		Convey("uses the backend's figure first", func() {
			remaining := 12.5
			job.TimeRemaining = &remaining
			job.ServerTime = mo.Some(local)
			So(job.MinutesRemaining(local).MustGet(), ShouldEqual, 12.5)
		})

		Convey("uses the server clock over the local one", func() {
			job.ServerTime = mo.Some(time.Date(2024, 6, 1, 19, 20, 0, 0, time.UTC))
			So(job.MinutesRemaining(local).MustGet(), ShouldEqual, 10)
		})

		Convey("falls back to the local clock", func() {
			So(job.MinutesRemaining(local).MustGet(), ShouldEqual, 30)
		})

		Convey("never goes negative", func() {
			So(job.MinutesRemaining(local.Add(time.Hour)).MustGet(), ShouldEqual, 0)
		})

		Convey("is absent for jobs that are not scheduled", func() {
			job.Status = api.StatusCompleted
			So(job.MinutesRemaining(local).IsAbsent(), ShouldBeTrue)
		})
	})

	Convey("Qualities fill blanks with a dash", t, func() {
		So(Job{Job: api.Job{VideoQuality: "137"}}.Qualities(), ShouldEqual, "137 / -")
	})

	Convey("Tabs cycle", t, func() {
		So(TabAll.Next(), ShouldEqual, TabCompleted)
		So(TabScheduled.Next(), ShouldEqual, TabAll)
	})
}
