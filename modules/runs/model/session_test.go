package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestActiveApplySession_Expired(t *testing.T) {
	now := time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC)

	future := &ActiveApplySession{ExpiresAt: now.Add(time.Hour)}
	assert.False(t, future.Expired(now))

	past := &ActiveApplySession{ExpiresAt: now.Add(-time.Hour)}
	assert.True(t, past.Expired(now))

	atBoundary := &ActiveApplySession{ExpiresAt: now}
	assert.True(t, atBoundary.Expired(now))
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(RunStatusSuccess))
	assert.True(t, IsTerminal(RunStatusFailed))
	assert.True(t, IsTerminal(RunStatusAbandoned))
	assert.False(t, IsTerminal(RunStatusInProgress))
}
