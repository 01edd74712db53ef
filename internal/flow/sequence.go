package flow

import "sync/atomic"

// ids is shared by every Sequencer so that a reply addressed to an earlier
// instance of a screen can never match a later one.
var ids atomic.Uint64

// Sequencer numbers the requests issued for one logical resource so that a
// response older than the last dispatched request can be dropped.
// Overlapping fetches therefore resolve to the most recent request, not the
// most recent reply.
type Sequencer struct {
	last uint64
}

// Next returns the sequence number for a request about to be dispatched.
func (s *Sequencer) Next() uint64 {
	s.last = ids.Add(1)
	return s.last
}

// Current reports whether seq belongs to the last dispatched request.
func (s *Sequencer) Current(seq uint64) bool {
	return seq != 0 && seq == s.last
}
