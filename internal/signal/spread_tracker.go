package signal

import "github.com/sawpanic/duoscan/internal/ringbuf"

// SpreadTracker is a bounded FIFO of spread-in-bps observations.
type SpreadTracker struct {
	buf *ringbuf.Buffer[float64]
	sum float64
}

// NewSpreadTracker constructs a tracker capped at window samples.
func NewSpreadTracker(window int) *SpreadTracker {
	return &SpreadTracker{buf: ringbuf.New[float64](window)}
}

// Push records a new spread-in-bps sample.
func (s *SpreadTracker) Push(spreadBps float64) {
	s.sum += spreadBps
	if evicted, did := s.buf.Push(spreadBps); did {
		s.sum -= evicted
	}
}

// Count returns the number of samples currently held.
func (s *SpreadTracker) Count() int { return s.buf.Len() }

// Mean returns the average spread in bps; absent when no samples exist.
func (s *SpreadTracker) Mean() (float64, bool) {
	if s.buf.Len() == 0 {
		return 0, false
	}
	return s.sum / float64(s.buf.Len()), true
}
