package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/sawpanic/duoscan/internal/venue"
)

// serveReplay binds a replay server to an ephemeral localhost port and
// returns its ws:// URL plus a stop function.
func serveReplay(server *venue.Server) (addr string, stop func()) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		panic(fmt.Sprintf("replay server: %v", err))
	}

	httpServer := &http.Server{Handler: server}
	go httpServer.Serve(listener)

	wsURL := fmt.Sprintf("ws://%s/", listener.Addr().String())
	return wsURL, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(ctx)
	}
}
