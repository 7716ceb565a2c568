// Package signal implements the stateful, single-symbol microstructure
// signal calculators: OBI, microprice, MLOFI, TFI, and the rolling
// spread/volatility/trade-intensity trackers. Each calculator is grounded
// on the depth/spread arithmetic in the teacher's
// internal/microstructure package, generalized from its flat-slice book
// model to the treemap-backed internal/book.OrderBook.
package signal

import "github.com/sawpanic/duoscan/internal/book"

// OBI computes order-book imbalance over the top n levels of each side.
// Pure, zero when total depth underflows.
func OBI(b *book.OrderBook, n int) float64 {
	bidDepth := b.BidDepth(n)
	askDepth := b.AskDepth(n)
	total := bidDepth + askDepth
	if total <= 1e-10 {
		return 0
	}
	return (bidDepth - askDepth) / total
}
