package venue

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sawpanic/duoscan/internal/ingest"
)

func TestReplayRoundTrip(t *testing.T) {
	frames := MarshalSynthetic("BTCUSD", 20, 0)
	server := NewServer(frames, 500) // fast pacing for the test

	ts := httptest.NewServer(server)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http")
	client := NewClient(wsURL)

	leaderQueue := make(chan ingest.Message, 64)
	followerQueue := make(chan ingest.Message, 64)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- client.Run(ctx, leaderQueue, followerQueue) }()

	received := 0
	timeout := time.After(2 * time.Second)
	for received < len(frames) {
		select {
		case <-leaderQueue:
			received++
		case <-followerQueue:
			received++
		case <-timeout:
			t.Fatalf("timed out after receiving %d/%d frames", received, len(frames))
		}
	}
}
