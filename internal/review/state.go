// Package review implements the moderation lifecycle of a submission.
package review

import (
	"errors"
	"time"

	"github.com/wtusfo/song-and-singer/internal/models"
)

// ErrInvalidDecision is returned for any decision other than APPROVE or REJECT.
var ErrInvalidDecision = errors.New("invalid decision")

type State string

const (
	Pending           State = "PENDING"
	ApprovedPublished State = "APPROVED_PUBLISHED"
	Rejected          State = "REJECTED"
)

// StateOf derives the review state from the stored columns.
func StateOf(s *models.Submission) State {
	switch {
	case s.Approved == nil:
		return Pending
	case *s.Approved:
		return ApprovedPublished
	default:
		return Rejected
	}
}

// ParseDecision accepts exactly the two decision names.
func ParseDecision(v string) (models.Decision, error) {
	switch d := models.Decision(v); d {
	case models.DecisionApprove, models.DecisionReject:
		return d, nil
	}
	return "", ErrInvalidDecision
}

// Patch is the set of review columns a transition writes.
type Patch struct {
	Approved    bool
	PublishedAt *time.Time
	Note        *string
}

// Plan computes the columns written by a decision. An omitted note is stored as NULL.
func Plan(d models.Decision, note *string, now time.Time) (Patch, error) {
	switch d {
	case models.DecisionApprove:
		at := now.UTC()
		return Patch{Approved: true, PublishedAt: &at, Note: note}, nil
	case models.DecisionReject:
		return Patch{Approved: false, Note: note}, nil
	}
	return Patch{}, ErrInvalidDecision
}

type Action string

const (
	ActionApprove   Action = "approve"
	ActionReject    Action = "reject"
	ActionUnpublish Action = "unpublish"
	ActionDelete    Action = "delete"
)

// Actions lists what the review table offers for a record in state s.
func Actions(s State) []Action {
	switch s {
	case Pending:
		return []Action{ActionApprove, ActionReject, ActionDelete}
	case ApprovedPublished:
		return []Action{ActionUnpublish, ActionDelete}
	case Rejected:
		return []Action{ActionDelete}
	}
	return nil
}
