package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultValidation() ValidationConfig {
	return ValidationConfig{
		MinLagMs:          50,
		MaxLagMs:          500,
		MinCorrelation:    0.9,
		MaxLagCV:          0.5,
		MaxSpreadBps:      20,
		MinAlphaCostRatio: 1.0,
		MinDepthUSD:       50_000,
		MinLeadLagSamples: 10,
	}
}

func TestScoreWithinRange(t *testing.T) {
	s := Summary{
		HasLeadLag:           true,
		PeakCorrelation:      0.95,
		OptimalLagMs:         150,
		AvgSpreadBps:         5,
		MicropriceDivMeanBps: 3,
		MLOFISignalStrength:  2,
		TFIAgreementRatio:    0.8,
		BidDepthUSD:          80_000,
		AskDepthUSD:          80_000,
		LeadLagSampleCount:   20,
		LeadLagCV:            0.2,
	}
	m := Score("BTCUSD", s, defaultValidation())
	assert.GreaterOrEqual(t, m.COSScore, 0.0)
	assert.LessOrEqual(t, m.COSScore, 100.0)
	assert.NotEqual(t, VerdictRejected, m.Verdict, "rejection reason: %q", m.RejectionReason)
}

func TestRejectionCascadeLowCorrelation(t *testing.T) {
	cfg := defaultValidation()
	s := Summary{
		HasLeadLag:           true,
		PeakCorrelation:      0.5,
		OptimalLagMs:         150,
		AvgSpreadBps:         5,
		MicropriceDivMeanBps: 3,
		MLOFISignalStrength:  2,
		TFIAgreementRatio:    0.8,
		BidDepthUSD:          80_000,
		AskDepthUSD:          80_000,
		LeadLagSampleCount:   20,
		LeadLagCV:            0.2,
	}
	m := Score("BTCUSD", s, cfg)
	require.Equal(t, VerdictRejected, m.Verdict)
	assert.NotEmpty(t, m.RejectionReason)
	for _, c := range m.Criteria {
		if c.Name == "lead_lag_quality" {
			assert.Zero(t, c.Score, "lead-lag criterion should score 0 on rejection")
		}
	}
}

func TestVerdictMatchesRejectionReasonPresence(t *testing.T) {
	cfg := defaultValidation()
	rejecting := Summary{HasLeadLag: false}
	m := Score("BTCUSD", rejecting, cfg)
	assert.Equal(t, m.Verdict == VerdictRejected, m.RejectionReason != "")
}
