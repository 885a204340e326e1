package sequence

import "sync/atomic"

// Sequencer issues strictly monotonic sequence ids for accepted
// commands. It is deterministic and replay-safe: after WAL replay the
// service resets it past the last replayed seq.
type Sequencer struct {
	next atomic.Uint64
}

func New(start uint64) *Sequencer {
	s := &Sequencer{}
	s.next.Store(start)
	return s
}

// Next returns the next sequence id.
func (s *Sequencer) Next() uint64 {
	return s.next.Add(1)
}

// Current returns the last issued sequence id.
func (s *Sequencer) Current() uint64 {
	return s.next.Load()
}

// Reset jumps the sequencer to v. Only used after WAL replay.
func (s *Sequencer) Reset(v uint64) {
	s.next.Store(v)
}
