package signal

import (
	"github.com/sawpanic/duoscan/internal/book"
	"github.com/sawpanic/duoscan/internal/ringbuf"
)

type tradeRecord struct {
	qty   float64
	isBuy bool
}

// TFI is the trade-flow imbalance calculator over a fixed window of the
// most recent trades.
type TFI struct {
	window  *ringbuf.Buffer[tradeRecord]
	sumBuy  float64
	sumSell float64
}

// NewTFI constructs a TFI tracker with the given trade-count window.
func NewTFI(window int) *TFI {
	return &TFI{window: ringbuf.New[tradeRecord](window)}
}

// DefaultTFI uses the spec default window of 100 trades.
func DefaultTFI() *TFI {
	return NewTFI(100)
}

// Update appends a trade and returns the current TFI value.
func (t *TFI) Update(trade book.TradeEvent) float64 {
	rec := tradeRecord{qty: trade.Quantity, isBuy: trade.IsBuy()}
	if rec.isBuy {
		t.sumBuy += rec.qty
	} else {
		t.sumSell += rec.qty
	}

	if evicted, did := t.window.Push(rec); did {
		if evicted.isBuy {
			t.sumBuy -= evicted.qty
		} else {
			t.sumSell -= evicted.qty
		}
	}

	total := t.sumBuy + t.sumSell
	if total <= 1e-10 {
		return 0
	}
	return (t.sumBuy - t.sumSell) / total
}
