package typesense

import (
	"context"
	"time"

	"github.com/wtusfo/song-and-singer/internal/events"
	"github.com/wtusfo/song-and-singer/internal/logger"
	"github.com/wtusfo/song-and-singer/internal/models"
)

// Index is the write side of the search index.
type Index interface {
	IndexSubmission(ctx context.Context, s *models.Submission) error
	DeleteSubmission(ctx context.Context, id int64) error
}

// OpRecorder counts index writes. *metrics.Metrics satisfies it.
type OpRecorder interface {
	RecordIndexOp(operation string, err error)
}

// Indexer mirrors submission mutations into the search index so that only
// published submissions are searchable.
type Indexer struct {
	index   Index
	metrics OpRecorder
	log     *logger.Logger
	timeout time.Duration
}

func NewIndexer(index Index, metrics OpRecorder, log *logger.Logger) *Indexer {
	return &Indexer{
		index:   index,
		metrics: metrics,
		log:     log.WithComponent("indexer"),
		timeout: 5 * time.Second,
	}
}

// Subscribe attaches the indexer to bus.
func (ix *Indexer) Subscribe(bus *events.Bus) (unsubscribe func()) {
	return bus.Subscribe(ix.Handle)
}

// Handle applies one event. Index failures are logged, never propagated to
// the request that caused the mutation.
func (ix *Indexer) Handle(e events.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), ix.timeout)
	defer cancel()

	op := "delete"
	var err error
	if e.Kind != events.Deleted && e.Submission != nil && e.Submission.IsPublished() {
		op = "upsert"
		err = ix.index.IndexSubmission(ctx, e.Submission)
	} else {
		err = ix.index.DeleteSubmission(ctx, e.SubmissionID)
	}

	if ix.metrics != nil {
		ix.metrics.RecordIndexOp(op, err)
	}
	if err != nil {
		ix.log.WithSubmission(e.SubmissionID).Error("search index update failed", "operation", op, "event", e.Kind, "error", err)
		return
	}
	ix.log.WithSubmission(e.SubmissionID).Debug("search index updated", "operation", op, "event", e.Kind)
}
