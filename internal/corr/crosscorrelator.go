// Package corr implements the bidirectional cross-correlation / lead-lag
// engine. It is grounded on the teacher's hand-rolled numerical style in
// factors/orthogonal.go (no statistics library is used anywhere in the
// example pack, so Pearson correlation here is plain float64 arithmetic
// too) and on internal/score/composite/orthogonalize.go for the general
// shape of "collect paired scalars, then reduce."
package corr

import (
	"math"
	"sort"

	"github.com/sawpanic/duoscan/internal/ringbuf"
)

// Direction names which venue leads the other for a given result.
type Direction string

const (
	ALeads Direction = "A_LEADS"
	BLeads Direction = "B_LEADS"
)

// toleranceUS is the nearest-timestamp matching window for aligning
// returns across the two series.
const toleranceUS = 150_000

const minPriceSamples = 50
const minReturnSamples = 20

// LagCorrelation is one (signed lag, Pearson r) sample.
type LagCorrelation struct {
	LagMs       float64
	Correlation float64
}

// LeadLagResult is the outcome of one Calculate call.
type LeadLagResult struct {
	OptimalLagMs    float64
	PeakCorrelation float64
	AllCorrelations []LagCorrelation
	Direction       Direction
}

type priceSample struct {
	ts    int64
	price float64
}

type returnSample struct {
	ts  int64
	ret float64
}

// CrossCorrelator holds two bounded FIFOs of (timestamp, price) for a
// leader (A) and follower (B) venue and estimates their lead-lag relation.
type CrossCorrelator struct {
	leader   *ringbuf.Buffer[priceSample]
	follower *ringbuf.Buffer[priceSample]
}

// New constructs a correlator whose price series are each capped at
// maxWindow samples.
func New(maxWindow int) *CrossCorrelator {
	return &CrossCorrelator{
		leader:   ringbuf.New[priceSample](maxWindow),
		follower: ringbuf.New[priceSample](maxWindow),
	}
}

// Default uses the spec's cross_corr_window default of 1500.
func Default() *CrossCorrelator {
	return New(1500)
}

// PushLeader records a new leader-venue price observation.
func (c *CrossCorrelator) PushLeader(tsUS int64, price float64) {
	c.leader.Push(priceSample{ts: tsUS, price: price})
}

// PushFollower records a new follower-venue price observation.
func (c *CrossCorrelator) PushFollower(tsUS int64, price float64) {
	c.follower.Push(priceSample{ts: tsUS, price: price})
}

// Calculate scans signed lags from minLagMs to maxLagMs in stepMs
// increments, testing both directions at each magnitude, and returns the
// lag/direction pair with the highest Pearson correlation. When several
// lags tie exactly at that peak, the tied lag closest to their mean is
// reported. Returns (nil, false) when there isn't enough data to produce
// any valid pair.
func (c *CrossCorrelator) Calculate(minLagMs, maxLagMs, stepMs float64) (*LeadLagResult, bool) {
	if c.leader.Len() < minPriceSamples || c.follower.Len() < minPriceSamples {
		return nil, false
	}

	leaderReturns := logReturns(c.leader)
	followerReturns := logReturns(c.follower)
	if len(leaderReturns) < minReturnSamples || len(followerReturns) < minReturnSamples {
		return nil, false
	}

	best := -2.0
	var bestLag float64
	var all []LagCorrelation

	if stepMs <= 0 {
		stepMs = 1
	}
	steps := int((maxLagMs-minLagMs)/stepMs + 0.5)
	for i := 0; i <= steps; i++ {
		lagMs := minLagMs + float64(i)*stepMs
		lagUS := int64(lagMs * 1000)

		// Forward: A leads B by lagMs.
		if xs, ys, ok := pair(followerReturns, leaderReturns, lagUS); ok {
			if r, ok := pearson(xs, ys); ok {
				all = append(all, LagCorrelation{LagMs: lagMs, Correlation: r})
				if r > best {
					best = r
					bestLag = lagMs
				}
			}
		}

		// Reverse: B leads A by lagMs, recorded under -lagMs.
		if xs, ys, ok := pair(leaderReturns, followerReturns, lagUS); ok {
			if r, ok := pearson(xs, ys); ok {
				all = append(all, LagCorrelation{LagMs: -lagMs, Correlation: r})
				if r > best {
					best = r
					bestLag = -lagMs
				}
			}
		}
	}

	if best <= -2.0 {
		return nil, false
	}

	// Neighbouring lags that pair the same samples tie exactly at the peak;
	// report the tied lag nearest the centre of that set, not its first one.
	var tied []float64
	centre := 0.0
	for _, lc := range all {
		if lc.Correlation == best {
			tied, centre = append(tied, lc.LagMs), centre+lc.LagMs
		}
	}
	centre /= float64(len(tied))
	for _, lag := range tied {
		if math.Abs(lag-centre) < math.Abs(bestLag-centre) {
			bestLag = lag
		}
	}

	direction := BLeads
	if bestLag >= 0 {
		direction = ALeads
	}
	return &LeadLagResult{
		OptimalLagMs:    bestLag,
		PeakCorrelation: best,
		AllCorrelations: all,
		Direction:       direction,
	}, true
}

// logReturns computes successive log returns over a price FIFO, skipping
// any pair where either price is non-positive.
func logReturns(buf *ringbuf.Buffer[priceSample]) []returnSample {
	n := buf.Len()
	if n < 2 {
		return nil
	}
	out := make([]returnSample, 0, n-1)
	prev := buf.At(0)
	for i := 1; i < n; i++ {
		cur := buf.At(i)
		if prev.price > 0 && cur.price > 0 {
			out = append(out, returnSample{ts: cur.ts, ret: math.Log(cur.price / prev.price)})
		}
		prev = cur
	}
	return out
}

// pair matches every return in target to the nearest return in source
// within toleranceUS of (target.ts - lagUS), returning matched
// (source value, target value) scalar slices. ok is false when fewer than
// minReturnSamples pairs were found.
func pair(target, source []returnSample, lagUS int64) (xs, ys []float64, ok bool) {
	for _, t := range target {
		want := t.ts - lagUS
		idx, found := nearestIndex(source, want, toleranceUS)
		if !found {
			continue
		}
		xs = append(xs, source[idx].ret)
		ys = append(ys, t.ret)
	}
	return xs, ys, len(xs) >= minReturnSamples
}

// nearestIndex binary-searches the chronologically sorted returns for the
// insertion point of target, then checks the two neighbors for the
// closest one within tolerance.
func nearestIndex(rs []returnSample, target, tolerance int64) (int, bool) {
	idx := sort.Search(len(rs), func(i int) bool { return rs[i].ts >= target })

	best := -1
	var bestDiff int64 = tolerance + 1

	if idx < len(rs) {
		if d := absInt64(rs[idx].ts - target); d <= tolerance {
			best, bestDiff = idx, d
		}
	}
	if idx > 0 {
		if d := absInt64(rs[idx-1].ts - target); d <= tolerance && d < bestDiff {
			best = idx - 1
		}
	}
	if best == -1 {
		return 0, false
	}
	return best, true
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// pearson computes the Pearson correlation coefficient; absent when the
// denominator underflows.
func pearson(xs, ys []float64) (float64, bool) {
	n := len(xs)
	if n == 0 || n != len(ys) {
		return 0, false
	}

	var sumX, sumY float64
	for i := 0; i < n; i++ {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX := sumX / float64(n)
	meanY := sumY / float64(n)

	var num, denomX, denomY float64
	for i := 0; i < n; i++ {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		num += dx * dy
		denomX += dx * dx
		denomY += dy * dy
	}

	denom := math.Sqrt(denomX * denomY)
	if denom < 1e-15 {
		return 0, false
	}
	return num / denom, true
}
