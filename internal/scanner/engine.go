package scanner

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sawpanic/duoscan/internal/coinstate"
	"github.com/sawpanic/duoscan/internal/config"
	"github.com/sawpanic/duoscan/internal/ingest"
	"github.com/sawpanic/duoscan/internal/metrics"
	"github.com/sawpanic/duoscan/internal/reportgen"
	"github.com/sawpanic/duoscan/internal/score"
)

// correlatorStepMs is the fixed lag-scan granularity the correlation
// driver uses, per spec §4.10.
const correlatorStepMs = 10.0

// correlationInitialDelay is the fixed warm-up delay before the first
// correlation pass, per spec §4.10.
const correlationInitialDelay = 60 * time.Second

// Engine owns the dispatcher and drives the periodic correlation pass,
// the interim status snapshot, and the scan deadline. There is a single
// snapshotReport path shared by both the periodic status print and the
// final report — see the Open Question resolution in DESIGN.md.
type Engine struct {
	cfg        config.ScannerConfig
	dispatcher *ingest.Dispatcher
	metrics    *metrics.Registry

	leaderQueue   chan ingest.Message
	followerQueue chan ingest.Message
}

// New wires an Engine from a loaded config and metrics registry. reg may
// be nil to run without Prometheus instrumentation.
func New(cfg config.ScannerConfig, reg *metrics.Registry) *Engine {
	var recorder ingest.Recorder
	if reg != nil {
		recorder = reg
		reg.TrackedSymbols.Set(float64(len(cfg.Universe)))
	}
	dispatcher := ingest.New(cfg.Universe, cfg.General.CrossCorrWindow, recorder)
	return &Engine{
		cfg:           cfg,
		dispatcher:    dispatcher,
		metrics:       reg,
		leaderQueue:   make(chan ingest.Message, 4096),
		followerQueue: make(chan ingest.Message, 4096),
	}
}

// LeaderQueue is the inbound channel venue-A connectors publish to.
func (e *Engine) LeaderQueue() chan<- ingest.Message { return e.leaderQueue }

// FollowerQueue is the inbound channel venue-B connectors publish to.
func (e *Engine) FollowerQueue() chan<- ingest.Message { return e.followerQueue }

// Run drives the dispatch loop, correlation driver, and status ticker
// until the configured scan duration elapses, then returns the final
// report. It never returns early except via ctx cancellation.
func (e *Engine) Run(ctx context.Context) reportgen.Report {
	deadline := time.NewTimer(e.cfg.ScanDuration())
	defer deadline.Stop()
	if e.metrics != nil {
		e.metrics.ScanDeadline.Set(float64(time.Now().Add(e.cfg.ScanDuration()).Unix()))
	}

	correlationTicker := time.NewTimer(correlationInitialDelay)
	defer correlationTicker.Stop()

	statusTicker := time.NewTicker(30 * time.Second)
	defer statusTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return e.snapshotReport()

		case <-deadline.C:
			log.Info().Msg("scan deadline reached, finalizing report")
			return e.snapshotReport()

		case <-correlationTicker.C:
			e.runCorrelationPass()
			correlationTicker.Reset(e.cfg.CrossCorrPeriod())

		case <-statusTicker.C:
			interim := e.snapshotReport()
			log.Info().
				Int("passed", interim.PassedCount).
				Int("total", len(interim.Results)).
				Msg("interim scan status")

		case m := <-e.leaderQueue:
			e.dispatcher.Dispatch(m)

		case m := <-e.followerQueue:
			e.dispatcher.Dispatch(m)
		}
	}
}

// runCorrelationPass is the periodic task from spec §4.10: under the
// dispatcher's exclusive lock, run calculate() for every symbol and
// append any defined result to that symbol's lag-sample history.
func (e *Engine) runCorrelationPass() {
	e.dispatcher.WithLock(func(states map[string]*coinstate.CoinState) {
		for _, cs := range states {
			result, ok := cs.Correlator.Calculate(
				e.cfg.Validation.MinLagMs,
				e.cfg.Validation.MaxLagMs,
				correlatorStepMs,
			)
			if !ok {
				continue
			}
			cs.PushLagSample(result.OptimalLagMs, result.PeakCorrelation)
		}
	})
	if e.metrics != nil {
		e.metrics.CorrelationRuns.Inc()
	}
}

// snapshotReport is the single code path used by both the periodic
// interim status print and the final scan-end report: summarize every
// CoinState, score it, and build the ranked report. Per the Open
// Question in spec.md §9, there is no separate "final" recomputation.
func (e *Engine) snapshotReport() reportgen.Report {
	var rows []reportgen.Row

	e.dispatcher.WithLock(func(states map[string]*coinstate.CoinState) {
		for symbol, cs := range states {
			summary := summarize(cs)
			metricsRow := score.Score(symbol, summary, e.cfg.Validation)
			rows = append(rows, toRow(symbol, cs, summary, metricsRow))
		}
	})

	return reportgen.Build("", rows)
}

func toRow(symbol string, cs *coinstate.CoinState, s score.Summary, m score.Metrics) reportgen.Row {
	vol, _ := cs.Volatility.RealizedVolatility()

	var leaderTFI, followerTFI, obi float64
	if n := cs.LeaderTFIHistory.Len(); n > 0 {
		leaderTFI = cs.LeaderTFIHistory.At(n - 1)
	}
	if n := cs.FollowerTFIHistory.Len(); n > 0 {
		followerTFI = cs.FollowerTFIHistory.At(n - 1)
	}
	if n := cs.OBIHistory.Len(); n > 0 {
		obi = cs.OBIHistory.At(n - 1)
	}

	return reportgen.Row{
		Symbol:              symbol,
		COSScore:            m.COSScore,
		Verdict:             m.Verdict,
		RejectionReason:     m.RejectionReason,
		Criteria:            m.Criteria,
		OptimalLagMs:        s.OptimalLagMs,
		PeakCorrelation:     s.PeakCorrelation,
		AvgSpreadBps:        s.AvgSpreadBps,
		BidDepthUSD:         s.BidDepthUSD,
		AskDepthUSD:         s.AskDepthUSD,
		MLOFISignalStrength: s.MLOFISignalStrength,
		LeaderTFI:           leaderTFI,
		FollowerTFI:         followerTFI,
		MicropriceDivBps:    s.MicropriceDivMeanBps,
		RealizedVolatility:  vol,
		TradeUrgency:        cs.FollowerIntensity.Urgency(),
		OBI:                 obi,
	}
}
