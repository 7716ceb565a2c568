// Package scanner wires the ingest dispatcher, the periodic correlation
// driver, and the report aggregator into one engine. It is grounded on
// the teacher's internal/application scan-pipeline orchestration shape
// (one struct holding every collaborator, a Run method driving them
// against a context deadline) generalized to the dual-venue dispatch
// loop this spec describes.
package scanner

import (
	"math"

	"github.com/sawpanic/duoscan/internal/coinstate"
	"github.com/sawpanic/duoscan/internal/score"
)

// summarize reduces one CoinState's raw histories into the scalar
// Summary the COS scorer consumes.
func summarize(cs *coinstate.CoinState) score.Summary {
	s := score.Summary{}

	if len(cs.LagSamples) > 0 {
		last := cs.LagSamples[len(cs.LagSamples)-1]
		s.HasLeadLag = true
		s.PeakCorrelation = last.Correlation
		s.OptimalLagMs = last.LagMs
	}
	s.LeadLagSampleCount = len(cs.LagSamples)
	s.LeadLagCV = lagCV(cs.LagSamples)

	if mean, ok := cs.Spread.Mean(); ok {
		s.AvgSpreadBps = mean
	}
	s.MicropriceDivMeanBps = meanAbsHistory(cs.DivergenceAbsHistory)

	leaderMLOFI := meanAbsHistory(cs.LeaderMLOFIAbsHistory)
	followerMLOFI := meanAbsHistory(cs.FollowerMLOFIAbsHistory)
	s.MLOFISignalStrength = (leaderMLOFI + followerMLOFI) / 2

	s.TFIAgreementRatio = tfiAgreement(cs.LeaderTFIHistory, cs.FollowerTFIHistory)

	bidN := cs.FollowerBook.BidDepth(5)
	askN := cs.FollowerBook.AskDepth(5)
	if mid, ok := cs.FollowerBook.MidPrice(); ok {
		s.BidDepthUSD = bidN * mid
		s.AskDepthUSD = askN * mid
	}

	return s
}

func meanAbsHistory(buf interface {
	Len() int
	At(int) float64
}) float64 {
	n := buf.Len()
	if n == 0 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += buf.At(i)
	}
	return sum / float64(n)
}

// lagCV is the coefficient of variation of |lag_ms| across every
// recorded correlator output; 1.0 when the mean underflows or fewer than
// 2 samples exist.
func lagCV(samples []coinstate.LagSample) float64 {
	if len(samples) < 2 {
		return 1.0
	}
	sum := 0.0
	for _, s := range samples {
		sum += math.Abs(s.LagMs)
	}
	mean := sum / float64(len(samples))
	if mean <= 0 {
		return 1.0
	}

	var sq float64
	for _, s := range samples {
		d := math.Abs(s.LagMs) - mean
		sq += d * d
	}
	stdev := math.Sqrt(sq / float64(len(samples)-1))
	return stdev / mean
}

// tfiAgreement is the fraction of the most-recent up-to-1000 overlapping
// (leader, follower) TFI observations whose signs match. With no overlap
// yet it returns 0.5 (no evidence), not 0 (total disagreement).
func tfiAgreement(leader, follower interface {
	Len() int
	At(int) float64
}) float64 {
	n := leader.Len()
	if follower.Len() < n {
		n = follower.Len()
	}
	if n > 1000 {
		n = 1000
	}
	if n == 0 {
		return 0.5
	}

	leaderOffset := leader.Len() - n
	followerOffset := follower.Len() - n

	matches := 0
	for i := 0; i < n; i++ {
		l := leader.At(leaderOffset + i)
		f := follower.At(followerOffset + i)
		if sign(l) == sign(f) {
			matches++
		}
	}
	return float64(matches) / float64(n)
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
