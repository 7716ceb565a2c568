package book

import "testing"

func TestUpdateFromSnapshotPositiveOnly(t *testing.T) {
	b := New("binanceA", "BTCUSD")
	b.UpdateFromSnapshot(
		[]PriceLevel{{Price: 100, Quantity: 1}, {Price: 99, Quantity: 0}},
		[]PriceLevel{{Price: 101, Quantity: 2}},
		1000,
	)

	if b.TimestampUS() != 1000 {
		t.Fatalf("expected timestamp 1000, got %d", b.TimestampUS())
	}

	bid, ok := b.BestBid()
	if !ok || bid.Price != 100 {
		t.Fatalf("expected best bid 100, got %+v ok=%v", bid, ok)
	}
	if bid.Quantity <= 0 {
		t.Fatalf("expected positive quantity, got %f", bid.Quantity)
	}

	for _, lvl := range b.TopBids(10) {
		if lvl.Price == 99 {
			t.Fatalf("zero-quantity level 99 should not be stored")
		}
	}
}

func TestUpdateBidRemoval(t *testing.T) {
	b := New("binanceA", "BTCUSD")
	b.UpdateBid(100, 5)
	b.UpdateBid(99, 3)

	b.UpdateBid(100, 0)

	bid, ok := b.BestBid()
	if !ok {
		t.Fatal("expected a remaining bid")
	}
	if bid.Price == 100 {
		t.Fatal("price 100 should have been removed")
	}
	if bid.Price != 99 {
		t.Fatalf("expected next-best price 99, got %f", bid.Price)
	}
}

func TestMidPriceBetweenBidAndAsk(t *testing.T) {
	b := New("binanceA", "BTCUSD")
	b.UpdateBid(100, 1)
	b.UpdateAsk(102, 1)

	mid, ok := b.MidPrice()
	if !ok {
		t.Fatal("expected mid price")
	}
	if mid <= 100 || mid >= 102 {
		t.Fatalf("expected mid strictly between bid/ask, got %f", mid)
	}
}

func TestDepthSumsTopNOnly(t *testing.T) {
	b := New("binanceA", "BTCUSD")
	b.UpdateBid(100, 1)
	b.UpdateBid(99, 2)
	b.UpdateBid(98, 4)

	if got := b.BidDepth(2); got != 3 {
		t.Fatalf("expected depth(2)=3, got %f", got)
	}
	if got := b.BidDepth(10); got != 7 {
		t.Fatalf("expected depth(10)=7, got %f", got)
	}
}

func TestEmptyBookIsTotal(t *testing.T) {
	b := New("binanceA", "BTCUSD")
	if _, ok := b.BestBid(); ok {
		t.Fatal("expected no best bid on empty book")
	}
	if _, ok := b.MidPrice(); ok {
		t.Fatal("expected no mid price on empty book")
	}
	if _, ok := b.SpreadBps(); ok {
		t.Fatal("expected no spread bps on empty book")
	}
}
