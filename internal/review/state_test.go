package review

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wtusfo/song-and-singer/internal/models"
)

func boolPtr(b bool) *bool { return &b }

func TestStateOf(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name string
		sub  models.Submission
		want State
	}{
		{"pending", models.Submission{}, Pending},
		{"approved", models.Submission{Approved: boolPtr(true), PublishedAt: &now}, ApprovedPublished},
		{"rejected", models.Submission{Approved: boolPtr(false)}, Rejected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StateOf(&tt.sub))
		})
	}
}

func TestParseDecision(t *testing.T) {
	for _, v := range []string{"APPROVE", "REJECT"} {
		d, err := ParseDecision(v)
		require.NoError(t, err)
		assert.Equal(t, models.Decision(v), d)
	}

	for _, v := range []string{"", "approve", "MAYBE", "APPROVE "} {
		_, err := ParseDecision(v)
		assert.ErrorIs(t, err, ErrInvalidDecision, v)
	}
}

func TestPlan(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.FixedZone("CET", 3600))
	note := "nice"

	approve, err := Plan(models.DecisionApprove, &note, now)
	require.NoError(t, err)
	assert.True(t, approve.Approved)
	require.NotNil(t, approve.PublishedAt)
	assert.True(t, approve.PublishedAt.Equal(now))
	assert.Equal(t, time.UTC, approve.PublishedAt.Location())
	assert.Equal(t, &note, approve.Note)

	reject, err := Plan(models.DecisionReject, nil, now)
	require.NoError(t, err)
	assert.False(t, reject.Approved)
	assert.Nil(t, reject.PublishedAt)
	assert.Nil(t, reject.Note)

	_, err = Plan("PUBLISH", nil, now)
	assert.ErrorIs(t, err, ErrInvalidDecision)
}

func TestActions(t *testing.T) {
	assert.Equal(t, []Action{ActionApprove, ActionReject, ActionDelete}, Actions(Pending))
	assert.Equal(t, []Action{ActionUnpublish, ActionDelete}, Actions(ApprovedPublished))
	assert.Equal(t, []Action{ActionDelete}, Actions(Rejected))
	assert.Nil(t, Actions("UNKNOWN"))
}
