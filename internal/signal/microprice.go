package signal

import "github.com/sawpanic/duoscan/internal/book"

// Microprice is the quote-imbalance-weighted fair price using only the
// best level of each side. Absent when either side is empty or total
// quantity underflows.
func Microprice(b *book.OrderBook) (float64, bool) {
	bid, okB := b.BestBid()
	ask, okA := b.BestAsk()
	if !okB || !okA {
		return 0, false
	}
	totalQty := bid.Quantity + ask.Quantity
	if totalQty < 1e-15 {
		return 0, false
	}
	return (ask.Price*bid.Quantity + bid.Price*ask.Quantity) / totalQty, true
}

// MicropriceWeighted is the multi-level variant: each of the top `levels`
// levels is weighted by 1/(i+1) on both sides, substituting the weighted
// quantities for the single-level quantities. The price anchors remain the
// best bid/ask.
func MicropriceWeighted(b *book.OrderBook, levels int) (float64, bool) {
	bids := b.TopBids(levels)
	asks := b.TopAsks(levels)
	if len(bids) == 0 || len(asks) == 0 {
		return 0, false
	}

	var wBidQty, wAskQty float64
	for i, lvl := range bids {
		wBidQty += lvl.Quantity / float64(i+1)
	}
	for i, lvl := range asks {
		wAskQty += lvl.Quantity / float64(i+1)
	}
	total := wBidQty + wAskQty
	if total < 1e-15 {
		return 0, false
	}

	bestBid := bids[0].Price
	bestAsk := asks[0].Price
	return (bestAsk*wBidQty + bestBid*wAskQty) / total, true
}

// MicropriceDivergenceBps is the cross-venue microprice gap in basis
// points. Absent when either microprice is absent or the midpoint
// underflows.
func MicropriceDivergenceBps(bookA, bookB *book.OrderBook) (float64, bool) {
	mpA, okA := Microprice(bookA)
	mpB, okB := Microprice(bookB)
	if !okA || !okB {
		return 0, false
	}
	mid := (mpA + mpB) / 2
	if mid <= 1e-15 {
		return 0, false
	}
	return (mpA - mpB) / mid * 10000, true
}
