// Package server exposes a searcher to other processes. Each TCP connection
// carries a stream of JSON requests and gets one JSON response per request;
// the same exchange is available over WebSocket messages.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"

	"kin/game"
	"kin/searcher"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// DefaultAddress binds an ephemeral port on the loopback interface.
const DefaultAddress = "127.0.0.1:0"

// PortDigits is the width of the port announcement.
const PortDigits = 5

type settings struct {
	address         string
	logger          zerolog.Logger
	searcherOptions []searcher.Option
}

type Option func(s *settings)

func WithAddress(address string) Option {
	return func(s *settings) {
		s.address = address
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithSearcherOptions are applied to the Searcher of every connection.
func WithSearcherOptions(options ...searcher.Option) Option {
	return func(s *settings) {
		s.searcherOptions = append(s.searcherOptions, options...)
	}
}

type Server[S game.State[S, M, P], M any, P comparable] struct {
	parameters searcher.Parameters
	settings   settings
	upgrader   websocket.Upgrader

	mu          sync.Mutex
	listener    net.Listener
	connections map[net.Conn]struct{}
	sessions    int
	closed      bool
}

func New[S game.State[S, M, P], M any, P comparable](parameters searcher.Parameters, options ...Option) *Server[S, M, P] {
	s := settings{ // Default values
		address: DefaultAddress,
		logger:  log.Logger,
	}
	for _, option := range options {
		option(&s)
	}

	return &Server[S, M, P]{
		parameters:  parameters,
		settings:    s,
		connections: map[net.Conn]struct{}{},
	}
}

// Listen binds the server's address. Serve calls it when needed.
func (s *Server[S, M, P]) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return nil
	}
	listener, err := net.Listen("tcp", s.settings.address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.settings.address, err)
	}
	s.listener = listener
	s.settings.logger.Info().Msgf("listening on %s", listener.Addr())
	return nil
}

// Port is the bound TCP port, or 0 before Listen.
func (s *Server[S, M, P]) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return 0
	}
	return s.listener.Addr().(*net.TCPAddr).Port
}

// Address is the bound address, or "" before Listen.
func (s *Server[S, M, P]) Address() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// AnnouncePort writes the port as exactly PortDigits zero-padded digits, which
// is what a launching process reads from the server's stdout.
func (s *Server[S, M, P]) AnnouncePort(w io.Writer) error {
	port := s.Port()
	if port == 0 {
		return errors.New("server is not listening")
	}
	if _, err := fmt.Fprintf(w, "%0*d", PortDigits, port); err != nil {
		return fmt.Errorf("failed to announce port: %w", err)
	}
	return nil
}

// Serve accepts connections until ctx is cancelled. Connections are served
// concurrently, each with its own Searcher.
func (s *Server[S, M, P]) Serve(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-ctx.Done()
		s.shutdown()
		return nil
	})
	g.Go(func() error {
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("failed to accept connection: %w", err)
			}

			if !s.track(conn) {
				return nil
			}
			g.Go(func() error {
				defer s.untrack(conn)
				s.serveConn(conn)
				return nil
			})
		}
	})

	err := g.Wait()
	s.settings.logger.Info().Msg("server stopped")
	return err
}

// Handler serves the same exchange over WebSocket, one JSON request per
// text message.
func (s *Server[S, M, P]) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			s.settings.logger.Warn().Err(err).Msg("websocket upgrade failed")
			return
		}
		defer conn.Close()

		session := s.newSession()
		session.logger.Info().Str("remote", r.RemoteAddr).Msg("websocket connected")
		for {
			var request Request[S]
			if err := conn.ReadJSON(&request); err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					session.logger.Debug().Err(err).Msg("websocket read ended")
				}
				return
			}
			if err := conn.WriteJSON(session.answer(request)); err != nil {
				session.logger.Warn().Err(err).Msg("websocket write failed")
				return
			}
		}
	})
}

func (s *Server[S, M, P]) serveConn(conn net.Conn) {
	session := s.newSession()
	session.logger.Info().Str("remote", conn.RemoteAddr().String()).Msg("got connection")
	defer session.logger.Info().Int("requests", session.requests).Msg("end connection handling")

	decoder := json.NewDecoder(conn)
	encoder := json.NewEncoder(conn)
	for {
		var request Request[S]
		if err := decoder.Decode(&request); err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				session.logger.Warn().Err(err).Msg("failed to read request")
				if err := encoder.Encode(Response[M]{Error: fmt.Sprintf("bad request: %v", err)}); err != nil {
					session.logger.Debug().Err(err).Msg("failed to report bad request")
				}
			}
			return
		}
		if err := encoder.Encode(session.answer(request)); err != nil {
			session.logger.Warn().Err(err).Msg("failed to write response")
			return
		}
	}
}

func (s *Server[S, M, P]) newSession() *session[S, M, P] {
	s.mu.Lock()
	s.sessions++
	id := s.sessions
	s.mu.Unlock()

	logger := s.settings.logger.With().Int("session", id).Logger()
	options := append([]searcher.Option{searcher.WithLogger(logger), searcher.WithMetrics()}, s.settings.searcherOptions...)
	return &session[S, M, P]{
		searcher: searcher.New[S, M, P](s.parameters, options...),
		logger:   logger,
	}
}

// track reports false and closes conn once the server is shutting down.
func (s *Server[S, M, P]) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		conn.Close()
		return false
	}
	s.connections[conn] = struct{}{}
	return true
}

func (s *Server[S, M, P]) untrack(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.connections, conn)
	conn.Close()
}

func (s *Server[S, M, P]) shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.listener.Close()
	for conn := range s.connections {
		conn.Close()
	}
}
