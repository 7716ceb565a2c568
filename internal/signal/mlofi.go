package signal

import (
	"math"

	"github.com/sawpanic/duoscan/internal/book"
)

// MLOFI is the multi-level order-flow imbalance calculator. It is stateful
// per (venue, symbol): each Update compares the current top-L book against
// the levels stored on the previous call.
type MLOFI struct {
	lambda  float64
	levels  int
	ewmSpan float64
	weights []float64 // per-level weight w_n = e^-lambda(n+1), normalized

	hasPrev  bool
	prevBids []book.PriceLevel
	prevAsks []book.PriceLevel

	alpha    float64 // EWMA smoothing factor, 2/(span+1)
	ewmMean  float64
	ewmVar   float64
	updates  int
}

// NewMLOFI constructs an MLOFI calculator with the given decay, level
// count, and EWMA span.
func NewMLOFI(lambda float64, levels int, ewmSpan float64) *MLOFI {
	weights := make([]float64, levels)
	sum := 0.0
	for n := 0; n < levels; n++ {
		w := math.Exp(-lambda * float64(n+1))
		weights[n] = w
		sum += w
	}
	if sum > 0 {
		for i := range weights {
			weights[i] /= sum
		}
	}
	return &MLOFI{
		lambda:  lambda,
		levels:  levels,
		ewmSpan: ewmSpan,
		weights: weights,
		alpha:   2.0 / (ewmSpan + 1.0),
	}
}

// DefaultMLOFI builds the calculator with the spec's defaults: lambda=0.3,
// L=10, ewm_span=5000.
func DefaultMLOFI() *MLOFI {
	return NewMLOFI(0.3, 10, 5000)
}

// Update consumes a new book snapshot and returns (raw, normalized) MLOFI.
// The first call always returns (0, 0) and only stores state. Normalized
// MLOFI is gated to 0 until more than 100 updates have been processed.
func (m *MLOFI) Update(b *book.OrderBook) (raw, normalized float64) {
	curBids := b.TopBids(m.levels)
	curAsks := b.TopAsks(m.levels)

	if !m.hasPrev {
		m.prevBids = curBids
		m.prevAsks = curAsks
		m.hasPrev = true
		return 0, 0
	}

	var bidTerm, askTerm float64
	for i := 0; i < m.levels; i++ {
		bidTerm += m.weights[i] * bidDelta(m.prevBids, curBids, i)
		askTerm += m.weights[i] * askDelta(m.prevAsks, curAsks, i)
	}
	raw = bidTerm - askTerm

	delta := raw - m.ewmMean
	m.ewmMean += m.alpha * delta
	m.ewmVar = (1 - m.alpha) * (m.ewmVar + m.alpha*delta*delta)
	m.updates++

	m.prevBids = curBids
	m.prevAsks = curAsks

	stdev := math.Sqrt(m.ewmVar)
	if stdev < 1e-10 {
		stdev = 1e-10
	}
	normalized = raw / stdev
	if m.updates <= 100 {
		normalized = 0
	}
	return raw, normalized
}

func bidDelta(prev, cur []book.PriceLevel, i int) float64 {
	switch {
	case i < len(cur) && i < len(prev):
		c, p := cur[i], prev[i]
		switch {
		case c.Price > p.Price:
			return c.Quantity // aggressive new bid
		case c.Price == p.Price:
			return c.Quantity - p.Quantity
		default:
			return -p.Quantity // bid evaporated
		}
	case i < len(cur):
		return cur[i].Quantity
	case i < len(prev):
		return -prev[i].Quantity
	default:
		return 0
	}
}

func askDelta(prev, cur []book.PriceLevel, i int) float64 {
	switch {
	case i < len(cur) && i < len(prev):
		c, p := cur[i], prev[i]
		switch {
		case c.Price < p.Price:
			return c.Quantity
		case c.Price == p.Price:
			return c.Quantity - p.Quantity
		default:
			return -p.Quantity
		}
	case i < len(cur):
		return cur[i].Quantity
	case i < len(prev):
		return -prev[i].Quantity
	default:
		return 0
	}
}
