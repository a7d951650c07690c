// Package sched is the frame-callback task queue for the UI loop. Each task
// class has a single pending flag, so repeated schedule calls within one
// frame coalesce, and a generation counter orphans in-flight work when the
// underlying state is rebuilt or torn down.
package sched

import (
	"time"

	tea "charm.land/bubbletea/v2"
)

// FrameInterval approximates one frame at 60Hz.
const FrameInterval = time.Second / 60

// Class identifies a coalescing task class.
type Class int

const (
	// ClassLabels is the coalesced label recompute.
	ClassLabels Class = iota
	// ClassMatcher is the chunked polygon-label matcher batch.
	ClassMatcher

	numClasses
)

// FrameMsg is delivered on the next frame for a scheduled class. Handlers
// must call Begin before acting; a stale generation means the work it was
// scheduled for no longer exists.
type FrameMsg struct {
	Class Class
	Gen   uint64
}

// Scheduler tracks pending frame work. It is owned by the UI model and only
// touched from the update loop.
type Scheduler struct {
	gen     uint64
	pending [numClasses]bool
}

// New creates a Scheduler.
func New() *Scheduler {
	return &Scheduler{}
}

// Gen returns the current generation.
func (s *Scheduler) Gen() uint64 { return s.gen }

// Schedule requests a frame callback for the class. It is idempotent: while
// a callback is already pending the call returns nil and nothing new is
// queued.
func (s *Scheduler) Schedule(c Class) tea.Cmd {
	if s.pending[c] {
		return nil
	}
	s.pending[c] = true
	gen := s.gen
	return tea.Tick(FrameInterval, func(time.Time) tea.Msg {
		return FrameMsg{Class: c, Gen: gen}
	})
}

// Begin validates a delivered frame message and clears its pending flag.
// It returns false for stale generations and for classes that are no longer
// pending (both are dropped silently).
func (s *Scheduler) Begin(msg FrameMsg) bool {
	if msg.Gen != s.gen || !s.pending[msg.Class] {
		return false
	}
	s.pending[msg.Class] = false
	return true
}

// Invalidate bumps the generation and clears every pending flag. All frame
// messages already in flight become stale. Called on view teardown and on
// index rebuild.
func (s *Scheduler) Invalidate() {
	s.gen++
	for i := range s.pending {
		s.pending[i] = false
	}
}
