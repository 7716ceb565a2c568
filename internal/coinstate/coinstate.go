// Package coinstate holds the per-symbol aggregate that the ingest
// dispatcher mutates: two order books, every signal calculator, the
// cross-venue correlator, and the bounded scalar histories the scorer
// later reads. It is grounded on the aggregation shape of the teacher's
// internal/microstructure/types.go (one struct owning a venue's full
// signal battery) generalized to the leader/follower pair.
package coinstate

import (
	"github.com/sawpanic/duoscan/internal/book"
	"github.com/sawpanic/duoscan/internal/corr"
	"github.com/sawpanic/duoscan/internal/ringbuf"
	"github.com/sawpanic/duoscan/internal/signal"
)

// MaxSignalWindow bounds every scalar history FIFO per the spec default.
const MaxSignalWindow = 50_000

// spreadTrackerWindow is the SpreadTracker's own sample cap, distinct from
// MaxSignalWindow.
const spreadTrackerWindow = 10_000

// LagSample is one correlator output recorded by the correlation driver.
type LagSample struct {
	LagMs       float64
	Correlation float64
}

// CoinState is the per-symbol aggregate. Venue A is the leader, venue B
// the follower. Access is exclusively owned by the ingest dispatcher;
// CoinState itself carries no lock.
type CoinState struct {
	Symbol string

	LeaderBook   *book.OrderBook
	FollowerBook *book.OrderBook

	LeaderMLOFI   *signal.MLOFI
	FollowerMLOFI *signal.MLOFI
	LeaderTFI     *signal.TFI
	FollowerTFI   *signal.TFI

	Correlator        *corr.CrossCorrelator
	Spread            *signal.SpreadTracker
	Volatility        *signal.VolatilityTracker
	LeaderIntensity   *signal.TradeIntensityTracker
	FollowerIntensity *signal.TradeIntensityTracker

	OBIHistory             *ringbuf.Buffer[float64]
	LeaderMLOFIAbsHistory  *ringbuf.Buffer[float64]
	FollowerMLOFIAbsHistory *ringbuf.Buffer[float64]
	LeaderTFIHistory       *ringbuf.Buffer[float64]
	FollowerTFIHistory     *ringbuf.Buffer[float64]
	DivergenceAbsHistory   *ringbuf.Buffer[float64]

	LagSamples []LagSample
}

// New constructs an empty CoinState for symbol, wiring every calculator
// with the spec's default constructors and the given cross-correlator
// window.
func New(symbol string, crossCorrWindow int) *CoinState {
	return &CoinState{
		Symbol: symbol,

		LeaderBook:   book.New("A", symbol),
		FollowerBook: book.New("B", symbol),

		LeaderMLOFI:   signal.DefaultMLOFI(),
		FollowerMLOFI: signal.DefaultMLOFI(),
		LeaderTFI:     signal.DefaultTFI(),
		FollowerTFI:   signal.DefaultTFI(),

		Correlator:        corr.New(crossCorrWindow),
		Spread:            signal.NewSpreadTracker(spreadTrackerWindow),
		Volatility:        signal.DefaultVolatilityTracker(),
		LeaderIntensity:   signal.DefaultTradeIntensityTracker(),
		FollowerIntensity: signal.DefaultTradeIntensityTracker(),

		OBIHistory:              ringbuf.New[float64](MaxSignalWindow),
		LeaderMLOFIAbsHistory:   ringbuf.New[float64](MaxSignalWindow),
		FollowerMLOFIAbsHistory: ringbuf.New[float64](MaxSignalWindow),
		LeaderTFIHistory:        ringbuf.New[float64](MaxSignalWindow),
		FollowerTFIHistory:      ringbuf.New[float64](MaxSignalWindow),
		DivergenceAbsHistory:    ringbuf.New[float64](MaxSignalWindow),
	}
}

// PushLagSample appends a correlation-driver result, bounded at
// MaxSignalWindow like every other CoinState history.
func (c *CoinState) PushLagSample(lagMs, r float64) {
	c.LagSamples = append(c.LagSamples, LagSample{LagMs: lagMs, Correlation: r})
	if len(c.LagSamples) > MaxSignalWindow {
		c.LagSamples = c.LagSamples[len(c.LagSamples)-MaxSignalWindow:]
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// AbsPush is a convenience for the several histories that only ever store
// |value|.
func AbsPush(buf *ringbuf.Buffer[float64], v float64) {
	buf.Push(abs(v))
}
