package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"kin/client"
	"kin/game/counter"
	"kin/searcher"
	"kin/server"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type counterServer = server.Server[counter.State, counter.Move, counter.Player]

func newCounterServer() *counterServer {
	parameters := searcher.Parameters{ExplorationFactor: searcher.DefaultExplorationFactor, SearchIterations: 200}
	return server.New[counter.State, counter.Move, counter.Player](parameters,
		server.WithLogger(zerolog.Nop()),
		server.WithSearcherOptions(searcher.WithSeed(1)),
	)
}

// serve runs srv until the test ends.
func serve(t *testing.T, srv *counterServer) {
	t.Helper()
	require.NoError(t, srv.Listen())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			require.NoError(t, err, "Server should stop cleanly")
		case <-time.After(5 * time.Second):
			t.Error("Server did not stop")
		}
	})
}

func TestAnnouncePort(t *testing.T) {
	t.Run("fails before listening", func(t *testing.T) {
		srv := newCounterServer()

		require.Error(t, srv.AnnouncePort(&bytes.Buffer{}))
	})

	t.Run("writes five zero-padded digits", func(t *testing.T) {
		srv := newCounterServer()
		require.NoError(t, srv.Listen())
		var out bytes.Buffer

		require.NoError(t, srv.AnnouncePort(&out))

		require.Len(t, out.String(), server.PortDigits, "Port should be padded to five digits")
		port, err := strconv.Atoi(out.String())
		require.NoError(t, err)
		require.Equal(t, srv.Port(), port)
	})
}

func TestServeTCP(t *testing.T) {
	t.Run("answers a game's requests on one connection", func(t *testing.T) {
		srv := newCounterServer()
		serve(t, srv)

		c, err := client.Dial[counter.State, counter.Move](context.Background(), addr(srv), client.WithLogger(zerolog.Nop()))
		require.NoError(t, err)
		defer c.Close()

		state := counter.Initial()
		move, err := c.FindMove(state)
		require.NoError(t, err)
		require.Contains(t, []counter.Move{1, 3}, move, "Move should be legal")

		state = state.ApplyMove(move).ApplyMove(1)
		move, err = c.FindMove(state)
		require.NoError(t, err)
		require.Contains(t, []counter.Move{1, 3}, move, "Follow-up move should be legal")
	})

	t.Run("rejects finished games", func(t *testing.T) {
		srv := newCounterServer()
		serve(t, srv)

		c, err := client.Dial[counter.State, counter.Move](context.Background(), addr(srv), client.WithLogger(zerolog.Nop()))
		require.NoError(t, err)
		defer c.Close()

		_, err = c.FindMove(counter.State(12))
		require.ErrorIs(t, err, client.ErrRejected, "Terminal state should be rejected")

		_, err = c.FindMove(counter.State(4))
		require.NoError(t, err, "Connection should stay usable after a rejection")
	})

	t.Run("reports malformed requests", func(t *testing.T) {
		srv := newCounterServer()
		serve(t, srv)

		conn, err := net.Dial("tcp", addr(srv))
		require.NoError(t, err)
		defer conn.Close()

		_, err = conn.Write([]byte("not json\n"))
		require.NoError(t, err)

		var response server.Response[counter.Move]
		require.NoError(t, json.NewDecoder(conn).Decode(&response))
		require.Contains(t, response.Error, "bad request")
	})
}

func TestHandler(t *testing.T) {
	t.Run("answers over websocket", func(t *testing.T) {
		srv := newCounterServer()
		httpServer := httptest.NewServer(srv.Handler())
		defer httpServer.Close()

		url := "ws" + strings.TrimPrefix(httpServer.URL, "http")
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		require.NoError(t, err)
		defer conn.Close()

		require.NoError(t, conn.WriteJSON(server.Request[counter.State]{State: counter.Initial()}))
		var response server.Response[counter.Move]
		require.NoError(t, conn.ReadJSON(&response))

		require.Empty(t, response.Error)
		require.Contains(t, []counter.Move{1, 3}, response.Move)
	})
}

func addr(srv *counterServer) string {
	return srv.Address()
}
