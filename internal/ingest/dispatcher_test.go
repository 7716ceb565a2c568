package ingest

import (
	"testing"

	"github.com/sawpanic/duoscan/internal/book"
	"github.com/sawpanic/duoscan/internal/coinstate"
)

func TestUnknownSymbolDropped(t *testing.T) {
	d := New([]string{"BTCUSD"}, 1500, nil)
	d.Dispatch(LeaderDepthUpdate("ETHUSD", []book.PriceLevel{{Price: 100, Quantity: 1}}, nil, 1))

	d.WithLock(func(states map[string]*coinstate.CoinState) {
		if _, ok := states["ETHUSD"]; ok {
			t.Fatal("unknown symbol must not be added to the state map")
		}
		if states["BTCUSD"].LeaderBook.TimestampUS() != 0 {
			t.Fatal("known symbol's book must be untouched by a message addressed to another symbol")
		}
	})
}

func TestFollowerDeltaRemovesLevel(t *testing.T) {
	d := New([]string{"BTCUSD"}, 1500, nil)

	d.Dispatch(FollowerDepthSnapshot("BTCUSD",
		[]book.PriceLevel{{Price: 100, Quantity: 5}, {Price: 99, Quantity: 3}},
		[]book.PriceLevel{{Price: 101, Quantity: 5}}, 1000))

	d.Dispatch(FollowerDepthDelta("BTCUSD",
		[]book.PriceLevel{{Price: 100, Quantity: 0}},
		nil, 2000))

	d.WithLock(func(states map[string]*coinstate.CoinState) {
		bid, ok := states["BTCUSD"].FollowerBook.BestBid()
		if !ok {
			t.Fatal("expected a remaining bid level")
		}
		if bid.Price != 99 {
			t.Fatalf("expected best bid to fall back to 99 after removing 100, got %f", bid.Price)
		}
	})
}

func TestLeaderTradeUpdatesTFIHistory(t *testing.T) {
	d := New([]string{"BTCUSD"}, 1500, nil)
	d.Dispatch(LeaderTrade(book.TradeEvent{Symbol: "BTCUSD", Price: 100, Quantity: 2, IsBuyerMaker: false, TimestampUS: 1}))

	d.WithLock(func(states map[string]*coinstate.CoinState) {
		if states["BTCUSD"].LeaderTFIHistory.Len() != 1 {
			t.Fatalf("expected 1 TFI history entry, got %d", states["BTCUSD"].LeaderTFIHistory.Len())
		}
	})
}
