package store

import "sync/atomic"

// Sequencer provides monotonically increasing identity values.
type Sequencer struct{ n atomic.Int64 }

// Next returns the next identity value.
func (s *Sequencer) Next() int64 { return s.n.Add(1) }

// Observe moves the sequence past id so Next never returns a key that is
// already taken.
func (s *Sequencer) Observe(id int64) {
	for {
		cur := s.n.Load()
		if id <= cur || s.n.CompareAndSwap(cur, id) {
			return
		}
	}
}
