package sched

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleIdempotent(t *testing.T) {
	s := New()

	cmd := s.Schedule(ClassLabels)
	require.NotNil(t, cmd, "first schedule returns a tick command")

	assert.Nil(t, s.Schedule(ClassLabels), "second schedule while pending coalesces")
	assert.NotNil(t, s.Schedule(ClassMatcher), "other classes schedule independently")
}

func TestBeginClearsPending(t *testing.T) {
	s := New()
	s.Schedule(ClassLabels)

	msg := FrameMsg{Class: ClassLabels, Gen: s.Gen()}
	require.True(t, s.Begin(msg))

	assert.False(t, s.Begin(msg), "second begin for the same frame is dropped")
	assert.NotNil(t, s.Schedule(ClassLabels), "class can be rescheduled after begin")
}

func TestBeginDropsStaleGeneration(t *testing.T) {
	s := New()
	s.Schedule(ClassMatcher)
	stale := FrameMsg{Class: ClassMatcher, Gen: s.Gen()}

	s.Invalidate()
	assert.False(t, s.Begin(stale), "pre-invalidate frame must be dropped")

	// Fresh schedule under the new generation works.
	s.Schedule(ClassMatcher)
	assert.True(t, s.Begin(FrameMsg{Class: ClassMatcher, Gen: s.Gen()}))
}

func TestInvalidateClearsAllPending(t *testing.T) {
	s := New()
	s.Schedule(ClassLabels)
	s.Schedule(ClassMatcher)
	s.Invalidate()

	assert.NotNil(t, s.Schedule(ClassLabels))
	assert.NotNil(t, s.Schedule(ClassMatcher))
}

func TestBeginUnscheduledClass(t *testing.T) {
	s := New()
	assert.False(t, s.Begin(FrameMsg{Class: ClassLabels, Gen: s.Gen()}),
		"frame for a class that is not pending is dropped")
}
