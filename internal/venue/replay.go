// Package venue provides a synthetic, WebSocket-based venue connector
// used only by integration tests and the `duoscan replay` CLI
// subcommand, exercising the full ingest contract without a live
// exchange. Real venue integrations remain out of scope per spec.md §1;
// this package is demo/test tooling grounded on the teacher's
// exchanges/binance/book.go wire-decoding shape and
// infra/breakers/breakers.go circuit breaker, wired to
// gorilla/websocket and golang.org/x/time/rate for pacing.
package venue

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/sawpanic/duoscan/infra/breakers"
	"github.com/sawpanic/duoscan/internal/book"
	"github.com/sawpanic/duoscan/internal/ingest"
)

// Frame is the wire shape the replay server streams and the replay
// client decodes; it mirrors ingest.Message closely enough to round-trip
// through JSON.
type Frame struct {
	Kind        string            `json:"kind"`
	Symbol      string            `json:"symbol"`
	Bids        []book.PriceLevel `json:"bids,omitempty"`
	Asks        []book.PriceLevel `json:"asks,omitempty"`
	TimestampUS int64             `json:"timestamp_us"`
	Trade       *book.TradeEvent  `json:"trade,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Server streams a fixed sequence of Frames to whatever client connects,
// paced by a rate limiter, then closes the connection.
type Server struct {
	Frames   []Frame
	RatePerS float64
}

// NewServer builds a replay server over frames, pacing emission at
// ratePerSecond frames/sec.
func NewServer(frames []Frame, ratePerSecond float64) *Server {
	return &Server{Frames: frames, RatePerS: ratePerSecond}
}

// ServeHTTP upgrades the connection and streams every frame in order.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	limiter := rate.NewLimiter(rate.Limit(s.RatePerS), 1)
	ctx := r.Context()
	for _, f := range s.Frames {
		if err := limiter.Wait(ctx); err != nil {
			return
		}
		if err := conn.WriteJSON(f); err != nil {
			return
		}
	}
}

// Client dials a replay server and forwards decoded frames as
// ingest.Message values onto the leader/follower queues. The dial is
// wrapped in a circuit breaker matching the teacher's infra/breakers
// settings (trips after 3 consecutive failures); the client does not
// reconnect.
type Client struct {
	url     string
	breaker *breakers.Breaker
}

// NewClient builds a client pointed at a replay server's ws:// URL.
func NewClient(url string) *Client {
	return &Client{url: url, breaker: breakers.New("venue-replay")}
}

// Run connects once and streams every decoded frame into leaderQueue or
// followerQueue until the server closes the connection or ctx is
// cancelled. The single dial attempt goes through the client's circuit
// breaker; a failed dial is returned as an error and is not retried.
func (c *Client) Run(ctx context.Context, leaderQueue, followerQueue chan<- ingest.Message) error {
	raw, err := c.breaker.Execute(func() (any, error) {
		conn, _, dialErr := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
		return conn, dialErr
	})
	if err != nil {
		return fmt.Errorf("replay connector dial failed: %w", err)
	}
	conn := raw.(*websocket.Conn)
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.SetReadDeadline(time.Now())
	}()

	for {
		var f Frame
		if err := conn.ReadJSON(&f); err != nil {
			return nil
		}
		msg, isLeader := frameToMessage(f)
		if isLeader {
			select {
			case leaderQueue <- msg:
			case <-ctx.Done():
				return nil
			}
		} else {
			select {
			case followerQueue <- msg:
			case <-ctx.Done():
				return nil
			}
		}
	}
}

func frameToMessage(f Frame) (ingest.Message, bool) {
	switch f.Kind {
	case "leader_depth_update":
		return ingest.LeaderDepthUpdate(f.Symbol, f.Bids, f.Asks, f.TimestampUS), true
	case "leader_trade":
		return ingest.LeaderTrade(*f.Trade), true
	case "follower_depth_snapshot":
		return ingest.FollowerDepthSnapshot(f.Symbol, f.Bids, f.Asks, f.TimestampUS), false
	case "follower_depth_delta":
		return ingest.FollowerDepthDelta(f.Symbol, f.Bids, f.Asks, f.TimestampUS), false
	case "follower_trade":
		return ingest.FollowerTrade(*f.Trade), false
	default:
		return ingest.Message{}, false
	}
}

// MarshalSynthetic builds a deterministic sinusoidal leader/follower
// frame sequence for local verification runs, generalizing the spec's
// §8 scenario-2 shifted-copy construction to a streamable frame list.
func MarshalSynthetic(symbol string, count int, shiftSamples int) []Frame {
	frames := make([]Frame, 0, count*2)
	for i := 0; i < count; i++ {
		tsUS := int64(i) * 100_000
		leaderPrice := 100 + math.Sin(float64(i)/10)
		frames = append(frames, Frame{
			Kind:        "leader_depth_update",
			Symbol:      symbol,
			Bids:        []book.PriceLevel{{Price: leaderPrice - 0.5, Quantity: 5}},
			Asks:        []book.PriceLevel{{Price: leaderPrice + 0.5, Quantity: 5}},
			TimestampUS: tsUS,
		})

		j := i - shiftSamples
		followerPrice := 100 + math.Sin(float64(j)/10)
		frames = append(frames, Frame{
			Kind:        "follower_depth_snapshot",
			Symbol:      symbol,
			Bids:        []book.PriceLevel{{Price: followerPrice - 0.5, Quantity: 5}},
			Asks:        []book.PriceLevel{{Price: followerPrice + 0.5, Quantity: 5}},
			TimestampUS: tsUS,
		})
	}
	return frames
}
