package corr

import (
	"math"
	"testing"
)

func feed(c *CrossCorrelator, n int, shiftSamples int) {
	// 100ms cadence, leader observes a sinusoid, follower observes the
	// same sinusoid shifted by shiftSamples samples (positive shift means
	// the follower repeats what the leader saw shiftSamples ago).
	for i := 0; i < n; i++ {
		ts := int64(i) * 100_000
		leaderPrice := 100 + math.Sin(float64(i)/10)
		c.PushLeader(ts, leaderPrice)

		j := i - shiftSamples
		followerPrice := 100 + math.Sin(float64(j)/10)
		c.PushFollower(ts, followerPrice)
	}
}

func TestCalculateIdenticalSeriesNearZeroLag(t *testing.T) {
	c := Default()
	feed(c, 400, 0)

	res, ok := c.Calculate(0, 500, 10)
	if !ok {
		t.Fatal("expected a result for identical series")
	}
	if math.Abs(res.OptimalLagMs) > 10 {
		t.Fatalf("expected near-zero optimal lag, got %f", res.OptimalLagMs)
	}
	if res.PeakCorrelation < 0.95 {
		t.Fatalf("expected peak correlation >= 0.95, got %f", res.PeakCorrelation)
	}
}

func TestCalculateDetectsFollowerLag(t *testing.T) {
	c := Default()
	// Follower repeats the leader's signal 2 samples (200ms) late.
	feed(c, 400, 2)

	res, ok := c.Calculate(0, 500, 10)
	if !ok {
		t.Fatal("expected a result")
	}
	if res.Direction != ALeads {
		t.Fatalf("expected A_LEADS, got %s", res.Direction)
	}
	if res.OptimalLagMs < 180 || res.OptimalLagMs > 220 {
		t.Fatalf("expected optimal lag near 200ms, got %f", res.OptimalLagMs)
	}
}

func TestCalculateDetectsLeaderLag(t *testing.T) {
	c := Default()
	// Leader repeats the follower's signal 2 samples (200ms) late, i.e.
	// the follower is actually leading.
	feed(c, 400, -2)

	res, ok := c.Calculate(0, 500, 10)
	if !ok {
		t.Fatal("expected a result")
	}
	if res.Direction != BLeads {
		t.Fatalf("expected B_LEADS, got %s", res.Direction)
	}
	if res.OptimalLagMs > -180 || res.OptimalLagMs < -220 {
		t.Fatalf("expected optimal lag near -200ms, got %f", res.OptimalLagMs)
	}
}

func TestCalculateInsufficientDataIsAbsent(t *testing.T) {
	c := Default()
	feed(c, 10, 0)

	if _, ok := c.Calculate(0, 500, 10); ok {
		t.Fatal("expected absent result with too few samples")
	}
}

func TestCalculatePeakWithinUnitInterval(t *testing.T) {
	c := Default()
	feed(c, 400, 3)

	res, ok := c.Calculate(0, 500, 10)
	if !ok {
		t.Fatal("expected a result")
	}
	if res.PeakCorrelation < -1 || res.PeakCorrelation > 1 {
		t.Fatalf("peak correlation out of [-1,1]: %f", res.PeakCorrelation)
	}
	for _, lc := range res.AllCorrelations {
		if lc.Correlation < -1 || lc.Correlation > 1 {
			t.Fatalf("correlation out of [-1,1] at lag %f: %f", lc.LagMs, lc.Correlation)
		}
	}
}
