package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusQueued, StatusInProgress, true},
		{StatusQueued, StatusCanceled, true},
		{StatusQueued, StatusSuccess, false},
		{StatusInProgress, StatusNeedsUser, true},
		{StatusInProgress, StatusFailed, true},
		{StatusInProgress, StatusQueued, false},
		{StatusNeedsUser, StatusSuccess, true},
		{StatusNeedsUser, StatusInProgress, true},
		{StatusFailed, StatusQueued, true},
		{StatusFailed, StatusInProgress, false},
		{StatusSuccess, StatusQueued, false},
		{StatusCanceled, StatusQueued, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, CanTransition(c.from, c.to), "from=%s to=%s", c.from, c.to)
	}
}

func TestLegalTransitionsFrom_TerminalStatesAreEmpty(t *testing.T) {
	assert.Empty(t, LegalTransitionsFrom(StatusSuccess))
	assert.Empty(t, LegalTransitionsFrom(StatusCanceled))
}

func TestReasonRequiredFor(t *testing.T) {
	assert.True(t, ReasonRequiredFor(StatusFailed))
	assert.False(t, ReasonRequiredFor(StatusNeedsUser))
	assert.False(t, ReasonRequiredFor(StatusCanceled))
	assert.False(t, ReasonRequiredFor(StatusInProgress))
	assert.False(t, ReasonRequiredFor(StatusSuccess))
}

func TestTask_ToDTO(t *testing.T) {
	reason := "rate limited"
	task := &Task{
		ID: "task-1", UserID: "user-1", JobID: "job-1", Status: StatusQueued,
		Priority: 900, AttemptCount: 2, LastError: &reason,
	}
	dto := task.ToDTO()
	assert.Equal(t, task.ID, dto.ID)
	assert.Equal(t, task.Priority, dto.Priority)
	assert.Equal(t, task.LastError, dto.LastError)
}
