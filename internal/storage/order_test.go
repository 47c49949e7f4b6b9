package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidTransition(t *testing.T) {
	cases := []struct {
		from, to string
		allowed  bool
	}{
		// forward, one step at a time
		{StatusNew, StatusApproved, true},
		{StatusApproved, StatusReady, true},
		{StatusReady, StatusScheduled, true},
		{StatusScheduled, StatusCompleted, true},
		{StatusNew, StatusReady, false},
		{StatusApproved, StatusScheduled, false},

		// manual reversions
		{StatusApproved, StatusNew, true},
		{StatusReady, StatusApproved, true},
		{StatusScheduled, StatusReady, false},
		{StatusNew, StatusApproved, true},

		// cancellation from any non-terminal state
		{StatusNew, StatusCancelled, true},
		{StatusReady, StatusCancelled, true},
		{StatusScheduled, StatusCancelled, true},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusNew, false},

		// terminal states stay terminal
		{StatusCompleted, StatusScheduled, false},
		{StatusCancelled, StatusCancelled, false},

		// garbage
		{"weird", StatusNew, false},
		{StatusNew, "weird", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, ValidTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestKnownTier(t *testing.T) {
	assert.True(t, KnownTier(TierA))
	assert.True(t, KnownTier(TierB))
	assert.True(t, KnownTier(TierC))
	assert.False(t, KnownTier("D"))
	assert.False(t, KnownTier(""))
}
