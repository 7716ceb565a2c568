package scanner

import (
	"testing"

	"github.com/sawpanic/duoscan/internal/coinstate"
)

func TestLagCVDefaultsToOneWithFewSamples(t *testing.T) {
	if got := lagCV(nil); got != 1.0 {
		t.Fatalf("expected 1.0 with no samples, got %f", got)
	}
	if got := lagCV([]coinstate.LagSample{{LagMs: 100, Correlation: 0.9}}); got != 1.0 {
		t.Fatalf("expected 1.0 with a single sample, got %f", got)
	}
}

func TestLagCVStableSeriesIsLow(t *testing.T) {
	samples := make([]coinstate.LagSample, 0, 10)
	for i := 0; i < 10; i++ {
		samples = append(samples, coinstate.LagSample{LagMs: 200, Correlation: 0.9})
	}
	if got := lagCV(samples); got != 0 {
		t.Fatalf("expected CV 0 for identical lags, got %f", got)
	}
}

func TestSummarizeEmptyCoinState(t *testing.T) {
	cs := coinstate.New("BTCUSD", 1500)
	s := summarize(cs)
	if s.HasLeadLag {
		t.Fatal("expected no lead-lag result for a fresh CoinState")
	}
	if s.LeadLagCV != 1.0 {
		t.Fatalf("expected default CV 1.0, got %f", s.LeadLagCV)
	}
}
