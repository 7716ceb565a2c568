// Package ingest defines the inbound venue message contracts and the
// single-owner dispatcher that applies them to the symbol -> CoinState
// map. It is grounded on the teacher's internal/stream/envelope.go
// message-kind-tagged contract and internal/stream/bus.go single-consumer
// drain loop, generalized from its pub/sub bus to the spec's two
// dedicated leader/follower queues.
package ingest

import "github.com/sawpanic/duoscan/internal/book"

// Kind tags an inbound message's venue-channel variant.
type Kind int

const (
	// KindLeaderDepthUpdate is a full leader-book replacement snapshot.
	KindLeaderDepthUpdate Kind = iota
	// KindLeaderTrade is a leader-venue trade print.
	KindLeaderTrade
	// KindFollowerDepthSnapshot is a full follower-book replacement.
	KindFollowerDepthSnapshot
	// KindFollowerDepthDelta is a per-level follower-book upsert/delete.
	KindFollowerDepthDelta
	// KindFollowerTrade is a follower-venue trade print.
	KindFollowerTrade
)

// Message is the dispatcher's unit of work. Exactly one of the payload
// fields is meaningful, selected by Kind.
type Message struct {
	Kind        Kind
	Symbol      string
	Bids        []book.PriceLevel
	Asks        []book.PriceLevel
	TimestampUS int64
	Trade       book.TradeEvent
}

// LeaderDepthUpdate builds a leader full-snapshot message.
func LeaderDepthUpdate(symbol string, bids, asks []book.PriceLevel, tsUS int64) Message {
	return Message{Kind: KindLeaderDepthUpdate, Symbol: symbol, Bids: bids, Asks: asks, TimestampUS: tsUS}
}

// LeaderTrade builds a leader trade message.
func LeaderTrade(trade book.TradeEvent) Message {
	return Message{Kind: KindLeaderTrade, Symbol: trade.Symbol, Trade: trade, TimestampUS: trade.TimestampUS}
}

// FollowerDepthSnapshot builds a follower full-snapshot message.
func FollowerDepthSnapshot(symbol string, bids, asks []book.PriceLevel, tsUS int64) Message {
	return Message{Kind: KindFollowerDepthSnapshot, Symbol: symbol, Bids: bids, Asks: asks, TimestampUS: tsUS}
}

// FollowerDepthDelta builds a follower per-level delta message.
func FollowerDepthDelta(symbol string, bids, asks []book.PriceLevel, tsUS int64) Message {
	return Message{Kind: KindFollowerDepthDelta, Symbol: symbol, Bids: bids, Asks: asks, TimestampUS: tsUS}
}

// FollowerTrade builds a follower trade message.
func FollowerTrade(trade book.TradeEvent) Message {
	return Message{Kind: KindFollowerTrade, Symbol: trade.Symbol, Trade: trade, TimestampUS: trade.TimestampUS}
}
