package signal

import (
	"math"

	"github.com/sawpanic/duoscan/internal/ringbuf"
)

const secondsPerYear = 365.25 * 86400

type volSample struct {
	ts  int64
	rsq float64
}

// VolatilityTracker estimates realized volatility from a bounded window of
// squared log returns.
type VolatilityTracker struct {
	hasPrev   bool
	prevTS    int64
	prevPrice float64
	sqReturns *ringbuf.Buffer[volSample]
}

// NewVolatilityTracker constructs a tracker capped at maxWindow squared
// returns.
func NewVolatilityTracker(maxWindow int) *VolatilityTracker {
	return &VolatilityTracker{sqReturns: ringbuf.New[volSample](maxWindow)}
}

// DefaultVolatilityTracker uses the spec default cap of 5000.
func DefaultVolatilityTracker() *VolatilityTracker {
	return NewVolatilityTracker(5000)
}

// Update consumes a new (timestamp, price) sample, pushing a new squared
// log return whenever both the previous and current price are positive.
func (v *VolatilityTracker) Update(tsUS int64, price float64) {
	if v.hasPrev && v.prevPrice > 0 && price > 0 {
		r := math.Log(price / v.prevPrice)
		v.sqReturns.Push(volSample{ts: tsUS, rsq: r * r})
	}
	v.prevTS = tsUS
	v.prevPrice = price
	v.hasPrev = true
}

// RealizedVolatility is sqrt(mean(r^2)); absent below 30 samples.
func (v *VolatilityTracker) RealizedVolatility() (float64, bool) {
	n := v.sqReturns.Len()
	if n < 30 {
		return 0, false
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += v.sqReturns.At(i).rsq
	}
	return math.Sqrt(sum / float64(n)), true
}

// AnnualizedVolatility scales realized volatility by
// sqrt(secondsPerYear / mean_interval_sec), inferring the mean interval
// from the sampled time span. Falls back to an assumed 100ms interval
// when the sampled time span is not positive.
func (v *VolatilityTracker) AnnualizedVolatility() (float64, bool) {
	vol, ok := v.RealizedVolatility()
	if !ok {
		return 0, false
	}

	intervalSec := 0.1
	n := v.sqReturns.Len()
	if n >= 2 {
		first := v.sqReturns.At(0).ts
		last := v.sqReturns.At(n - 1).ts
		spanSec := float64(last-first) / 1e6
		if spanSec > 0 {
			intervalSec = spanSec / float64(n-1)
		}
	}
	return vol * math.Sqrt(secondsPerYear/intervalSec), true
}
