package book

import (
	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
)

// OrderBook is a per-(venue, symbol) price-sorted ladder. Both sides are
// backed by a balanced tree map keyed on price so best-of-side access and
// level mutation are O(log n). It is mutated exclusively by the ingest
// dispatcher under the owning symbol map's single lock (§5); it carries no
// internal mutex of its own.
type OrderBook struct {
	Venue  string
	Symbol string

	bids *treemap.Map // float64 price -> float64 quantity, ascending
	asks *treemap.Map // float64 price -> float64 quantity, ascending

	timestampUS int64
}

// New creates an empty order book for a venue/symbol pair.
func New(venue, symbol string) *OrderBook {
	return &OrderBook{
		Venue:  venue,
		Symbol: symbol,
		bids:   treemap.NewWith(utils.Float64Comparator),
		asks:   treemap.NewWith(utils.Float64Comparator),
	}
}

// TimestampUS returns the timestamp of the most recent mutation.
func (b *OrderBook) TimestampUS() int64 { return b.timestampUS }

// BestBid returns the highest bid level, if any.
func (b *OrderBook) BestBid() (PriceLevel, bool) {
	price, qty, ok := b.bids.Max()
	if !ok {
		return PriceLevel{}, false
	}
	return PriceLevel{Price: price.(float64), Quantity: qty.(float64)}, true
}

// BestAsk returns the lowest ask level, if any.
func (b *OrderBook) BestAsk() (PriceLevel, bool) {
	price, qty, ok := b.asks.Min()
	if !ok {
		return PriceLevel{}, false
	}
	return PriceLevel{Price: price.(float64), Quantity: qty.(float64)}, true
}

// MidPrice is the arithmetic mean of best bid/ask; absent if either side is
// empty.
func (b *OrderBook) MidPrice() (float64, bool) {
	bid, ok := b.BestBid()
	if !ok {
		return 0, false
	}
	ask, ok := b.BestAsk()
	if !ok {
		return 0, false
	}
	return (bid.Price + ask.Price) / 2, true
}

// Spread is best ask minus best bid; absent if either side is empty.
func (b *OrderBook) Spread() (float64, bool) {
	bid, ok := b.BestBid()
	if !ok {
		return 0, false
	}
	ask, ok := b.BestAsk()
	if !ok {
		return 0, false
	}
	return ask.Price - bid.Price, true
}

// SpreadBps is spread / mid * 10000; absent when mid <= 0 or either side is
// empty.
func (b *OrderBook) SpreadBps() (float64, bool) {
	spread, ok := b.Spread()
	if !ok {
		return 0, false
	}
	mid, ok := b.MidPrice()
	if !ok || mid <= 0 {
		return 0, false
	}
	return spread / mid * 10000, true
}

// Crossed reports whether the best bid is >= the best ask. The ladder model
// does not self-heal a crossed book on delta apply (see design note in
// DESIGN.md); this query exists so callers can detect it without the core
// taking a position on whether it should reject or repair.
func (b *OrderBook) Crossed() bool {
	bid, okB := b.BestBid()
	ask, okA := b.BestAsk()
	if !okB || !okA {
		return false
	}
	return bid.Price >= ask.Price
}

// TopBids returns up to n bid levels, best (highest price) first.
func (b *OrderBook) TopBids(n int) []PriceLevel {
	return topDescending(b.bids, n)
}

// TopAsks returns up to n ask levels, best (lowest price) first.
func (b *OrderBook) TopAsks(n int) []PriceLevel {
	return topAscending(b.asks, n)
}

// BidDepth sums quantity across the top n bid levels.
func (b *OrderBook) BidDepth(n int) float64 {
	return sumLevels(b.TopBids(n))
}

// AskDepth sums quantity across the top n ask levels.
func (b *OrderBook) AskDepth(n int) float64 {
	return sumLevels(b.TopAsks(n))
}

// UpdateFromSnapshot replaces both sides wholesale. Only strictly-positive
// quantities are inserted; the timestamp is assigned last so a reader never
// observes a partially-applied snapshot under a single lock hold.
func (b *OrderBook) UpdateFromSnapshot(bids, asks []PriceLevel, tsUS int64) {
	b.bids.Clear()
	b.asks.Clear()
	for _, lvl := range bids {
		if lvl.Quantity > 0 {
			b.bids.Put(lvl.Price, lvl.Quantity)
		}
	}
	for _, lvl := range asks {
		if lvl.Quantity > 0 {
			b.asks.Put(lvl.Price, lvl.Quantity)
		}
	}
	b.timestampUS = tsUS
}

// UpdateBid upserts (or, if qty <= 0, removes) a single bid level.
func (b *OrderBook) UpdateBid(price, qty float64) {
	updateSide(b.bids, price, qty)
}

// UpdateAsk upserts (or, if qty <= 0, removes) a single ask level.
func (b *OrderBook) UpdateAsk(price, qty float64) {
	updateSide(b.asks, price, qty)
}

// SetTimestampUS stamps the book without mutating either side; used by
// delta-apply paths that perform several UpdateBid/UpdateAsk calls before
// recording a single timestamp for the whole delta.
func (b *OrderBook) SetTimestampUS(tsUS int64) {
	b.timestampUS = tsUS
}

func updateSide(side *treemap.Map, price, qty float64) {
	if qty <= 0 {
		side.Remove(price)
		return
	}
	side.Put(price, qty)
}

func topDescending(side *treemap.Map, n int) []PriceLevel {
	if n <= 0 {
		return nil
	}
	out := make([]PriceLevel, 0, n)
	it := side.Iterator()
	it.End()
	for it.Prev() {
		out = append(out, PriceLevel{Price: it.Key().(float64), Quantity: it.Value().(float64)})
		if len(out) >= n {
			break
		}
	}
	return out
}

func topAscending(side *treemap.Map, n int) []PriceLevel {
	if n <= 0 {
		return nil
	}
	out := make([]PriceLevel, 0, n)
	it := side.Iterator()
	for it.Next() {
		out = append(out, PriceLevel{Price: it.Key().(float64), Quantity: it.Value().(float64)})
		if len(out) >= n {
			break
		}
	}
	return out
}

func sumLevels(levels []PriceLevel) float64 {
	total := 0.0
	for _, lvl := range levels {
		total += lvl.Quantity
	}
	return total
}
