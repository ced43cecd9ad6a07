package console

import (
	"context"
	"errors"
	"sync"

	"github.com/wtusfo/song-and-singer/internal/events"
	"github.com/wtusfo/song-and-singer/internal/models"
	"github.com/wtusfo/song-and-singer/internal/review"
)

// ListPath is where the detail view sends the user after a transition.
const ListPath = "/admin/songs"

// ErrBusy is returned when an action is started while the same action is in flight.
var ErrBusy = errors.New("action already in progress")

// SongClient is what the detail view needs from the API.
type SongClient interface {
	GetSong(ctx context.Context, id int64) (*models.SubmissionDetail, error)
	Decide(ctx context.Context, req models.DecisionRequest) (*models.Submission, error)
	Unpublish(ctx context.Context, id int64) (*models.Submission, error)
	Delete(ctx context.Context, id int64) error
}

// Navigation tells the caller which view to show next.
type Navigation struct {
	Path string
}

var labels = map[review.Action][2]string{
	review.ActionApprove:   {"Approve", "Approving..."},
	review.ActionReject:    {"Reject", "Rejecting..."},
	review.ActionUnpublish: {"Unpublish", "Unpublishing..."},
	review.ActionDelete:    {"Delete", "Deleting..."},
}

// DetailView shows one submission and runs its review actions.
type DetailView struct {
	client  SongClient
	bus     *events.Bus
	session *Session
	id      int64

	mu     sync.Mutex
	record *models.SubmissionDetail
	busy   map[review.Action]bool
}

func NewDetailView(client SongClient, bus *events.Bus, session *Session, id int64) *DetailView {
	return &DetailView{
		client:  client,
		bus:     bus,
		session: session,
		id:      id,
		busy:    make(map[review.Action]bool),
	}
}

func (v *DetailView) Load(ctx context.Context) error {
	if err := v.session.RequireAdmin(); err != nil {
		return err
	}
	record, err := v.client.GetSong(ctx, v.id)
	if err != nil {
		return err
	}
	v.mu.Lock()
	v.record = record
	v.mu.Unlock()
	return nil
}

// Record returns the loaded submission, or nil before Load.
func (v *DetailView) Record() *models.SubmissionDetail {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.record
}

// Actions lists the transitions offered for the loaded record.
func (v *DetailView) Actions() []review.Action {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.record == nil {
		return nil
	}
	return review.Actions(review.StateOf(&v.record.Submission))
}

func (v *DetailView) Busy(a review.Action) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.busy[a]
}

// Label is the button text for a, swapped while a is in flight.
func (v *DetailView) Label(a review.Action) string {
	l := labels[a]
	if v.Busy(a) {
		return l[1]
	}
	return l[0]
}

func (v *DetailView) Approve(ctx context.Context, note string) (*Navigation, error) {
	return v.decide(ctx, review.ActionApprove, models.DecisionApprove, note)
}

func (v *DetailView) Reject(ctx context.Context, note string) (*Navigation, error) {
	return v.decide(ctx, review.ActionReject, models.DecisionReject, note)
}

func (v *DetailView) decide(ctx context.Context, a review.Action, d models.Decision, note string) (*Navigation, error) {
	req := models.DecisionRequest{ID: v.id, Decision: d}
	if note != "" {
		req.Note = &note
	}
	return v.run(a, func() (events.Event, error) {
		updated, err := v.client.Decide(ctx, req)
		if err != nil {
			return events.Event{}, err
		}
		return events.Event{Kind: events.Decided, SubmissionID: v.id, Submission: updated}, nil
	})
}

func (v *DetailView) Unpublish(ctx context.Context) (*Navigation, error) {
	return v.run(review.ActionUnpublish, func() (events.Event, error) {
		updated, err := v.client.Unpublish(ctx, v.id)
		if err != nil {
			return events.Event{}, err
		}
		return events.Event{Kind: events.Unpublished, SubmissionID: v.id, Submission: updated}, nil
	})
}

func (v *DetailView) Delete(ctx context.Context) (*Navigation, error) {
	return v.run(review.ActionDelete, func() (events.Event, error) {
		if err := v.client.Delete(ctx, v.id); err != nil {
			return events.Event{}, err
		}
		return events.Event{Kind: events.Deleted, SubmissionID: v.id}, nil
	})
}

// run marks a in flight for the duration of call. On success the mutation is
// announced on the bus and the caller is sent back to the list; on failure
// the loaded record is left untouched.
func (v *DetailView) run(a review.Action, call func() (events.Event, error)) (*Navigation, error) {
	if err := v.session.RequireAdmin(); err != nil {
		return nil, err
	}

	v.mu.Lock()
	if v.busy[a] {
		v.mu.Unlock()
		return nil, ErrBusy
	}
	v.busy[a] = true
	v.mu.Unlock()

	defer func() {
		v.mu.Lock()
		v.busy[a] = false
		v.mu.Unlock()
	}()

	e, err := call()
	if err != nil {
		return nil, err
	}

	v.mu.Lock()
	if v.record != nil && e.Submission != nil {
		v.record.Submission = *e.Submission
	}
	v.mu.Unlock()

	v.bus.Publish(e)
	return &Navigation{Path: ListPath}, nil
}
