package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/ytgrab-cli/ytgrab/api"
	"github.com/ytgrab-cli/ytgrab/log"
)

// ErrNotDeletable is returned for jobs that are no longer scheduled.
var ErrNotDeletable = errors.New("only scheduled downloads can be deleted")

const (
	FetchFailedMessage  = "Failed to fetch downloads"
	DeleteFailedMessage = "Failed to delete"
	ConfirmDelete       = "Delete this download?"
)

// Client is the part of the service client the board needs.
type Client interface {
	PastDownloads(ctx context.Context) ([]api.Job, error)
	ScheduledDownloads(ctx context.Context) (api.ScheduledJobs, error)
	DeleteScheduled(ctx context.Context, taskID string) error
}

// Tab filters the board.
type Tab int

const (
	TabAll Tab = iota
	TabCompleted
	TabScheduled
)

// Tabs lists every tab in display order.
var Tabs = []Tab{TabAll, TabCompleted, TabScheduled}

func (t Tab) String() string {
	switch t {
	case TabCompleted:
		return "Completed"
	case TabScheduled:
		return "Scheduled"
	default:
		return "All Downloads"
	}
}

// Next cycles through the tabs.
func (t Tab) Next() Tab {
	return Tabs[(int(t)+1)%len(Tabs)]
}

// Snapshot is one consistent listing of both job lists.
type Snapshot struct {
	Completed  []Job
	Scheduled  []Job
	ServerTime mo.Option[time.Time]
}

// All is the completed list followed by the scheduled one.
func (s Snapshot) All() []Job {
	return append(append(make([]Job, 0, len(s.Completed)+len(s.Scheduled)), s.Completed...), s.Scheduled...)
}

func (s Snapshot) Find(taskID string) mo.Option[Job] {
	j, ok := lo.Find(s.All(), func(j Job) bool { return j.TaskID == taskID })
	if !ok {
		return mo.None[Job]()
	}
	return mo.Some(j)
}

// Ticket identifies one refresh.
type Ticket struct {
	Generation uint64
}

type RefreshResult struct {
	Ticket   Ticket
	Snapshot Snapshot
	Err      error
}

// Board holds the last listing and the state of the calls against it.
// Like the fetcher it belongs to a single update path; only Fetch and
// SendDelete may run elsewhere.
type Board struct {
	client     Client
	generation uint64

	Snapshot Snapshot
	Loading  bool
	Err      error
	// Message is the text of the last failure, or "".
	Message string
}

func NewBoard(client Client) *Board {
	return &Board{client: client}
}

// View returns the jobs shown under tab.
func (b *Board) View(tab Tab) []Job {
	switch tab {
	case TabCompleted:
		return b.Snapshot.Completed
	case TabScheduled:
		return b.Snapshot.Scheduled
	default:
		return b.Snapshot.All()
	}
}

// BeginRefresh starts a refresh, superseding any refresh still in flight.
func (b *Board) BeginRefresh() Ticket {
	b.generation++
	b.Loading = true
	b.Err = nil
	b.Message = ""
	return Ticket{Generation: b.generation}
}

// Fetch requests both lists concurrently and merges them once both are in.
// Either failure fails the whole fetch.
func (b *Board) Fetch(ctx context.Context, t Ticket) RefreshResult {
	var (
		wg        sync.WaitGroup
		completed []api.Job
		scheduled api.ScheduledJobs
		errPast   error
		errSched  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		completed, errPast = b.client.PastDownloads(ctx)
	}()
	go func() {
		defer wg.Done()
		scheduled, errSched = b.client.ScheduledDownloads(ctx)
	}()
	wg.Wait()

	if err := errors.Join(errPast, errSched); err != nil {
		log.Errorf("list downloads: %s", err)
		return RefreshResult{Ticket: t, Err: err}
	}

	serverTime := scheduled.CurrentTime.Option()
	snap := Snapshot{
		Completed: lo.Map(completed, func(j api.Job, _ int) Job {
			return Job{Job: j}
		}),
		Scheduled: lo.Map(scheduled.Scheduled, func(j api.Job, _ int) Job {
			return Job{Job: j, ServerTime: serverTime}
		}),
		ServerTime: serverTime,
	}

	log.With(log.Fields{"completed": len(snap.Completed), "scheduled": len(snap.Scheduled)}).Debug("downloads listed")
	return RefreshResult{Ticket: t, Snapshot: snap}
}

// CompleteRefresh applies r unless a newer refresh started; it reports whether r was applied.
// A failed refresh keeps the previous snapshot.
func (b *Board) CompleteRefresh(r RefreshResult) bool {
	if r.Ticket.Generation != b.generation {
		return false
	}

	b.Loading = false
	if r.Err != nil {
		b.Err = r.Err
		b.Message = api.Message(r.Err, FetchFailedMessage)
		return true
	}

	b.Snapshot = r.Snapshot
	return true
}

// Refresh runs a whole refresh synchronously.
func (b *Board) Refresh(ctx context.Context) error {
	b.CompleteRefresh(b.Fetch(ctx, b.BeginRefresh()))
	return b.Err
}

// BeginDelete checks that job may be cancelled and marks the board as loading.
func (b *Board) BeginDelete(job Job) error {
	if !job.Deletable() {
		b.Err = fmt.Errorf("%s: %w", job.TaskID, ErrNotDeletable)
		b.Message = ErrNotDeletable.Error()
		return b.Err
	}

	b.Loading = true
	b.Err = nil
	b.Message = ""
	return nil
}

// SendDelete performs the call. It leaves the board untouched.
func (b *Board) SendDelete(ctx context.Context, taskID string) error {
	err := b.client.DeleteScheduled(ctx, taskID)
	entry := log.With(log.Fields{"task_id": taskID})
	if err != nil {
		entry.Errorf("delete: %s", err)
	} else {
		entry.Info("scheduled download deleted")
	}
	return err
}

// EndDelete records the outcome of SendDelete. The listing is left as it
// was; callers refresh after a successful delete.
func (b *Board) EndDelete(err error) {
	b.Loading = false
	if err != nil {
		b.Err = err
		b.Message = api.Message(err, DeleteFailedMessage)
	}
}

// Delete cancels job and refreshes the listing.
func (b *Board) Delete(ctx context.Context, job Job) error {
	if err := b.BeginDelete(job); err != nil {
		return err
	}

	err := b.SendDelete(ctx, job.TaskID)
	b.EndDelete(err)
	if err != nil {
		return err
	}
	return b.Refresh(ctx)
}
