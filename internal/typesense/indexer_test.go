package typesense

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wtusfo/song-and-singer/internal/events"
	"github.com/wtusfo/song-and-singer/internal/logger"
	"github.com/wtusfo/song-and-singer/internal/models"
)

type fakeIndex struct {
	upserts []int64
	deletes []int64
	err     error
}

func (f *fakeIndex) IndexSubmission(_ context.Context, s *models.Submission) error {
	f.upserts = append(f.upserts, s.ID)
	return f.err
}

func (f *fakeIndex) DeleteSubmission(_ context.Context, id int64) error {
	f.deletes = append(f.deletes, id)
	return f.err
}

type opCounter map[string]int

func (o opCounter) RecordIndexOp(op string, err error) {
	if err != nil {
		op += ":failed"
	}
	o[op]++
}

func TestIndexer_FollowsPublication(t *testing.T) {
	idx := &fakeIndex{}
	ops := opCounter{}
	bus := events.NewBus()
	NewIndexer(idx, ops, logger.Discard()).Subscribe(bus)

	now := time.Now()
	approved := true
	rejected := false

	bus.Publish(events.Event{Kind: events.Created, SubmissionID: 1, Submission: &models.Submission{ID: 1}})
	bus.Publish(events.Event{Kind: events.Decided, SubmissionID: 1, Submission: &models.Submission{ID: 1, Approved: &approved, PublishedAt: &now}})
	bus.Publish(events.Event{Kind: events.Decided, SubmissionID: 2, Submission: &models.Submission{ID: 2, Approved: &rejected}})
	bus.Publish(events.Event{Kind: events.Unpublished, SubmissionID: 1, Submission: &models.Submission{ID: 1}})
	bus.Publish(events.Event{Kind: events.Deleted, SubmissionID: 3})

	assert.Equal(t, []int64{1}, idx.upserts)
	assert.Equal(t, []int64{1, 2, 1, 3}, idx.deletes)
	assert.Equal(t, opCounter{"upsert": 1, "delete": 4}, ops)
}

func TestIndexer_FailuresAreSwallowed(t *testing.T) {
	idx := &fakeIndex{err: errors.New("typesense down")}
	ops := opCounter{}
	ix := NewIndexer(idx, ops, logger.Discard())

	assert.NotPanics(t, func() {
		ix.Handle(events.Event{Kind: events.Deleted, SubmissionID: 9})
	})
	assert.Equal(t, 1, ops["delete:failed"])
}
