package review

import (
	"context"
	"time"

	"github.com/wtusfo/song-and-singer/internal/events"
	"github.com/wtusfo/song-and-singer/internal/logger"
	"github.com/wtusfo/song-and-singer/internal/models"
)

// Store is the subset of the record store the review lifecycle writes to.
type Store interface {
	ApplyDecision(ctx context.Context, id int64, approved bool, publishedAt *time.Time, note *string) (*models.Submission, error)
	ClearPublication(ctx context.Context, id int64) (*models.Submission, error)
	DeleteSubmission(ctx context.Context, id int64) error
}

// Recorder counts transitions. *metrics.Metrics satisfies it.
type Recorder interface {
	RecordTransition(action string, err error)
}

type Service struct {
	store   Store
	bus     *events.Bus
	metrics Recorder
	log     *logger.Logger
	now     func() time.Time
}

type Option func(*Service)

// WithClock overrides the time source used for publication timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithMetrics(r Recorder) Option {
	return func(s *Service) { s.metrics = r }
}

func NewService(store Store, bus *events.Bus, log *logger.Logger, opts ...Option) *Service {
	if log == nil {
		log = logger.Discard()
	}
	s := &Service{
		store: store,
		bus:   bus,
		log:   log.WithComponent("review"),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Decide approves or rejects a submission. The request is validated before the
// store is touched.
func (s *Service) Decide(ctx context.Context, req models.DecisionRequest) (*models.Submission, error) {
	if req.ID <= 0 {
		return nil, &models.ValidationError{Field: "id", Message: "is required"}
	}
	decision, err := ParseDecision(string(req.Decision))
	if err != nil {
		return nil, err
	}
	patch, err := Plan(decision, req.Note, s.now())
	if err != nil {
		return nil, err
	}

	action := string(ActionReject)
	if patch.Approved {
		action = string(ActionApprove)
	}

	updated, err := s.store.ApplyDecision(ctx, req.ID, patch.Approved, patch.PublishedAt, patch.Note)
	s.record(action, err)
	if err != nil {
		s.log.WithSubmission(req.ID).Warn("decision failed", "decision", decision, "error", err)
		return nil, err
	}

	s.log.WithSubmission(req.ID).Info("submission decided", "decision", decision, "state", StateOf(updated))
	s.bus.Publish(events.Event{Kind: events.Decided, SubmissionID: updated.ID, Submission: updated})
	return updated, nil
}

// Unpublish returns a submission to pending. Calling it on a record that is
// not published is harmless.
func (s *Service) Unpublish(ctx context.Context, id int64) (*models.Submission, error) {
	if id <= 0 {
		return nil, &models.ValidationError{Field: "id", Message: "is required"}
	}

	updated, err := s.store.ClearPublication(ctx, id)
	s.record(string(ActionUnpublish), err)
	if err != nil {
		s.log.WithSubmission(id).Warn("unpublish failed", "error", err)
		return nil, err
	}

	s.log.WithSubmission(id).Info("submission unpublished")
	s.bus.Publish(events.Event{Kind: events.Unpublished, SubmissionID: id, Submission: updated})
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return &models.ValidationError{Field: "id", Message: "is required"}
	}

	err := s.store.DeleteSubmission(ctx, id)
	s.record(string(ActionDelete), err)
	if err != nil {
		s.log.WithSubmission(id).Warn("delete failed", "error", err)
		return err
	}

	s.log.WithSubmission(id).Info("submission deleted")
	s.bus.Publish(events.Event{Kind: events.Deleted, SubmissionID: id})
	return nil
}

func (s *Service) record(action string, err error) {
	if s.metrics != nil {
		s.metrics.RecordTransition(action, err)
	}
}
