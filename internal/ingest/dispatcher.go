package ingest

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/sawpanic/duoscan/internal/coinstate"
	"github.com/sawpanic/duoscan/internal/signal"
)

// obiDepthLevels is the top-N used for the OBI history pushed by every
// leader depth update.
const obiDepthLevels = 5

// Recorder receives ingest-throughput side effects. Satisfied by
// metrics.Registry; kept as a narrow interface here so this package never
// imports the metrics package.
type Recorder interface {
	IncMessage(venue, kind string)
	IncUnknownSymbol(venue string)
}

type nopRecorder struct{}

func (nopRecorder) IncMessage(string, string) {}
func (nopRecorder) IncUnknownSymbol(string)   {}

// Dispatcher is the single owner of the symbol -> CoinState map. Every
// message handler and every external iteration (correlation driver,
// report aggregator) goes through the same exclusive lock.
type Dispatcher struct {
	mu       sync.Mutex
	states   map[string]*coinstate.CoinState
	recorder Recorder
}

// New constructs a dispatcher pre-populated with one CoinState per
// universe symbol.
func New(universe []string, crossCorrWindow int, recorder Recorder) *Dispatcher {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	states := make(map[string]*coinstate.CoinState, len(universe))
	for _, sym := range universe {
		states[sym] = coinstate.New(sym, crossCorrWindow)
	}
	return &Dispatcher{states: states, recorder: recorder}
}

// Dispatch applies one inbound message under the exclusive lock. Unknown
// symbols are logged and dropped, never fatal.
func (d *Dispatcher) Dispatch(m Message) {
	d.mu.Lock()
	defer d.mu.Unlock()

	cs, ok := d.states[m.Symbol]
	if !ok {
		log.Warn().Str("symbol", m.Symbol).Str("kind", kindName(m.Kind)).Msg("unknown symbol, dropping message")
		d.recorder.IncUnknownSymbol(venueName(m.Kind))
		return
	}

	switch m.Kind {
	case KindLeaderDepthUpdate:
		d.applyLeaderDepthUpdate(cs, m)
	case KindLeaderTrade:
		d.applyLeaderTrade(cs, m)
	case KindFollowerDepthSnapshot:
		d.applyFollowerDepthSnapshot(cs, m)
	case KindFollowerDepthDelta:
		d.applyFollowerDepthDelta(cs, m)
	case KindFollowerTrade:
		d.applyFollowerTrade(cs, m)
	}
	d.recorder.IncMessage(venueName(m.Kind), kindName(m.Kind))
}

// WithLock runs f with exclusive access to the symbol map, for use by
// tasks other than message dispatch (the correlation driver, status
// snapshots, the final report aggregator).
func (d *Dispatcher) WithLock(f func(states map[string]*coinstate.CoinState)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	f(d.states)
}

func (d *Dispatcher) applyLeaderDepthUpdate(cs *coinstate.CoinState, m Message) {
	cs.LeaderBook.UpdateFromSnapshot(m.Bids, m.Asks, m.TimestampUS)

	_, norm := cs.LeaderMLOFI.Update(cs.LeaderBook)
	coinstate.AbsPush(cs.LeaderMLOFIAbsHistory, norm)

	cs.OBIHistory.Push(signal.OBI(cs.LeaderBook, obiDepthLevels))

	if mp, ok := signal.Microprice(cs.LeaderBook); ok {
		cs.Correlator.PushLeader(m.TimestampUS, mp)
		cs.Volatility.Update(m.TimestampUS, mp)
	}
	d.pushDivergence(cs)
}

func (d *Dispatcher) applyLeaderTrade(cs *coinstate.CoinState, m Message) {
	val := cs.LeaderTFI.Update(m.Trade)
	cs.LeaderTFIHistory.Push(val)
	cs.LeaderIntensity.Update(m.TimestampUS, m.Trade.Price, m.Trade.Quantity)
}

func (d *Dispatcher) applyFollowerDepthSnapshot(cs *coinstate.CoinState, m Message) {
	cs.FollowerBook.UpdateFromSnapshot(m.Bids, m.Asks, m.TimestampUS)
	d.followerDownstream(cs)
}

func (d *Dispatcher) applyFollowerDepthDelta(cs *coinstate.CoinState, m Message) {
	for _, lvl := range m.Bids {
		cs.FollowerBook.UpdateBid(lvl.Price, lvl.Quantity)
	}
	for _, lvl := range m.Asks {
		cs.FollowerBook.UpdateAsk(lvl.Price, lvl.Quantity)
	}
	cs.FollowerBook.SetTimestampUS(m.TimestampUS)
	d.followerDownstream(cs)
}

// followerDownstream is shared by the snapshot and delta handlers: MLOFI,
// spread, correlator push, and divergence all follow the same book
// mutation regardless of how the book got updated.
func (d *Dispatcher) followerDownstream(cs *coinstate.CoinState) {
	_, norm := cs.FollowerMLOFI.Update(cs.FollowerBook)
	coinstate.AbsPush(cs.FollowerMLOFIAbsHistory, norm)

	if sbps, ok := cs.FollowerBook.SpreadBps(); ok {
		cs.Spread.Push(sbps)
	}
	if mp, ok := signal.Microprice(cs.FollowerBook); ok {
		cs.Correlator.PushFollower(cs.FollowerBook.TimestampUS(), mp)
	}
	d.pushDivergence(cs)
}

func (d *Dispatcher) applyFollowerTrade(cs *coinstate.CoinState, m Message) {
	val := cs.FollowerTFI.Update(m.Trade)
	cs.FollowerTFIHistory.Push(val)
	cs.FollowerIntensity.Update(m.TimestampUS, m.Trade.Price, m.Trade.Quantity)
}

func (d *Dispatcher) pushDivergence(cs *coinstate.CoinState) {
	if div, ok := signal.MicropriceDivergenceBps(cs.LeaderBook, cs.FollowerBook); ok {
		coinstate.AbsPush(cs.DivergenceAbsHistory, div)
	}
}

func kindName(k Kind) string {
	switch k {
	case KindLeaderDepthUpdate:
		return "leader_depth_update"
	case KindLeaderTrade:
		return "leader_trade"
	case KindFollowerDepthSnapshot:
		return "follower_depth_snapshot"
	case KindFollowerDepthDelta:
		return "follower_depth_delta"
	case KindFollowerTrade:
		return "follower_trade"
	default:
		return "unknown"
	}
}

func venueName(k Kind) string {
	switch k {
	case KindLeaderDepthUpdate, KindLeaderTrade:
		return "A"
	default:
		return "B"
	}
}
