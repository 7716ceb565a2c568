// Package score computes the Composite Opportunity Score for a symbol
// from a summarized CoinState plus validation thresholds. It is grounded
// on the sequential gate-cascade shape of
// internal/score/composite/gates.go (evaluate every gate, record the
// first failure reason, combine into one verdict) generalized from a
// pass/fail gate list to seven weighted, independently-scored criteria.
package score

import (
	"fmt"
	"math"
)

// Verdict is the final accept/reject label for a symbol.
type Verdict string

const (
	VerdictStrongCandidate Verdict = "STRONG CANDIDATE"
	VerdictCandidate       Verdict = "CANDIDATE"
	VerdictWeak            Verdict = "WEAK"
	VerdictRejected        Verdict = "REJECTED"
)

// alphaCostBps is the fixed round-trip cost assumption (2 * 1.0bps) used
// by the spread-efficiency and microprice-divergence criteria.
const alphaCostBps = 2.0

// ValidationConfig carries the operator-tunable thresholds the scorer
// evaluates each criterion against.
type ValidationConfig struct {
	MinLagMs          float64
	MaxLagMs          float64
	MinCorrelation    float64
	MaxLagCV          float64
	MaxSpreadBps      float64
	MinAlphaCostRatio float64
	MinDepthUSD       float64
	MinLeadLagSamples int
}

// Summary is the CoinState projection the scorer consumes: every field a
// criterion needs, already reduced from raw histories to scalars.
type Summary struct {
	HasLeadLag        bool
	PeakCorrelation   float64
	OptimalLagMs      float64

	AvgSpreadBps        float64
	MicropriceDivMeanBps float64

	MLOFISignalStrength float64 // mean of per-venue mean |mlofi_norm|

	TFIAgreementRatio float64

	BidDepthUSD float64
	AskDepthUSD float64

	LeadLagSampleCount int
	LeadLagCV          float64
}

// CriterionScore is one weighted criterion's contribution.
type CriterionScore struct {
	Name   string
	Weight float64
	Score  float64 // 0..100
}

// Metrics is the scorer's output row.
type Metrics struct {
	Symbol          string
	COSScore        float64
	Verdict         Verdict
	RejectionReason string
	Criteria        []CriterionScore
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Score evaluates all seven criteria and produces the final row.
func Score(symbol string, s Summary, cfg ValidationConfig) Metrics {
	m := Metrics{Symbol: symbol}

	leadLag, leadLagReason := scoreLeadLag(s, cfg)
	m.Criteria = append(m.Criteria, CriterionScore{"lead_lag_quality", 0.25, leadLag})
	if leadLagReason != "" {
		m.RejectionReason = leadLagReason
	}

	spread, spreadReason := scoreSpreadEfficiency(s, cfg)
	m.Criteria = append(m.Criteria, CriterionScore{"spread_efficiency", 0.15, spread})
	if spreadReason != "" && m.RejectionReason == "" {
		m.RejectionReason = spreadReason
	}

	mlofi := clip(s.MLOFISignalStrength*20, 0, 100)
	m.Criteria = append(m.Criteria, CriterionScore{"mlofi_signal_strength", 0.15, mlofi})

	divergence := 0.0
	if s.MicropriceDivMeanBps > 0 {
		divergence = clip(s.MicropriceDivMeanBps/alphaCostBps*20, 0, 100)
	}
	m.Criteria = append(m.Criteria, CriterionScore{"microprice_divergence", 0.15, divergence})

	tfi := clip(s.TFIAgreementRatio*100, 0, 100)
	m.Criteria = append(m.Criteria, CriterionScore{"trade_flow_confirmation", 0.10, tfi})

	depth, depthReason := scoreLiquidityDepth(s, cfg)
	m.Criteria = append(m.Criteria, CriterionScore{"liquidity_depth", 0.10, depth})
	if depthReason != "" && m.RejectionReason == "" {
		m.RejectionReason = depthReason
	}

	stability, stabilityReason := scoreLagStability(s, cfg)
	m.Criteria = append(m.Criteria, CriterionScore{"lag_stability", 0.10, stability})
	if stabilityReason != "" && m.RejectionReason == "" {
		m.RejectionReason = stabilityReason
	}

	var total float64
	for _, c := range m.Criteria {
		total += c.Weight * c.Score
	}
	m.COSScore = clip(total, 0, 100)

	switch {
	case m.RejectionReason != "":
		m.Verdict = VerdictRejected
	case m.COSScore >= 70:
		m.Verdict = VerdictStrongCandidate
	case m.COSScore >= 50:
		m.Verdict = VerdictCandidate
	default:
		m.Verdict = VerdictWeak
	}

	return m
}

func scoreLeadLag(s Summary, cfg ValidationConfig) (float64, string) {
	if !s.HasLeadLag {
		return 0, "lead-lag: no correlation result available"
	}
	absLag := math.Abs(s.OptimalLagMs)
	withinRange := absLag >= cfg.MinLagMs && absLag <= cfg.MaxLagMs
	if s.PeakCorrelation >= cfg.MinCorrelation && withinRange {
		denom := 1 - cfg.MinCorrelation
		if denom <= 0 {
			return 100, ""
		}
		return clip((s.PeakCorrelation-cfg.MinCorrelation)/denom*100, 0, 100), ""
	}
	if s.PeakCorrelation < cfg.MinCorrelation {
		return 0, formatRejection("correlation %.3f below minimum %.3f", s.PeakCorrelation, cfg.MinCorrelation)
	}
	return 0, formatRejection("lag magnitude %.1fms outside [%.1f, %.1f]", absLag, cfg.MinLagMs, cfg.MaxLagMs)
}

func scoreSpreadEfficiency(s Summary, cfg ValidationConfig) (float64, string) {
	alpha := math.Max(s.MicropriceDivMeanBps, s.AvgSpreadBps*0.5)
	ratio := alpha / alphaCostBps

	if s.AvgSpreadBps > cfg.MaxSpreadBps {
		return 0, formatRejection("spread %.2fbps exceeds maximum %.2fbps", s.AvgSpreadBps, cfg.MaxSpreadBps)
	}
	if ratio >= cfg.MinAlphaCostRatio {
		return clip((ratio-cfg.MinAlphaCostRatio)/5*100, 0, 100), ""
	}
	return 0, ""
}

func scoreLiquidityDepth(s Summary, cfg ValidationConfig) (float64, string) {
	d := (s.BidDepthUSD + s.AskDepthUSD) / 2
	if d < cfg.MinDepthUSD {
		return 0, formatRejection("depth $%.0f below minimum $%.0f", d, cfg.MinDepthUSD)
	}
	if cfg.MinDepthUSD <= 0 {
		return 100, ""
	}
	return math.Min(d/cfg.MinDepthUSD, 5) / 5 * 100, ""
}

func scoreLagStability(s Summary, cfg ValidationConfig) (float64, string) {
	if s.LeadLagSampleCount < cfg.MinLeadLagSamples {
		return 25, ""
	}
	if s.LeadLagCV <= cfg.MaxLagCV {
		return math.Max((1-s.LeadLagCV/cfg.MaxLagCV)*100, 0), ""
	}
	return 0, formatRejection("lag coefficient of variation %.2f exceeds maximum %.2f", s.LeadLagCV, cfg.MaxLagCV)
}

func formatRejection(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}
