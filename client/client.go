// Package client asks a search server for moves.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"kin/server"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	DefaultAttempts = 10
	DefaultDelay    = 50 * time.Millisecond
)

// ErrRejected is returned when the server answers with an error instead of a
// move.
var ErrRejected = errors.New("request rejected by server")

type settings struct {
	attempts uint
	delay    time.Duration
	logger   zerolog.Logger
}

type Option func(s *settings)

// WithRetry sets how often and how fast Dial retries while the server is
// still starting.
func WithRetry(attempts uint, delay time.Duration) Option {
	return func(s *settings) {
		s.attempts = attempts
		s.delay = delay
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// Client holds one connection, and therefore one search tree on the server.
// It must not be shared between games or goroutines.
type Client[S any, M any] struct {
	conn    net.Conn
	encoder *json.Encoder
	decoder *json.Decoder
	logger  zerolog.Logger
}

func Dial[S any, M any](ctx context.Context, address string, options ...Option) (*Client[S, M], error) {
	s := settings{ // Default values
		attempts: DefaultAttempts,
		delay:    DefaultDelay,
		logger:   log.Logger,
	}
	for _, option := range options {
		option(&s)
	}

	var dialer net.Dialer
	conn, err := retry.DoWithData(
		func() (net.Conn, error) {
			return dialer.DialContext(ctx, "tcp", address)
		},
		retry.Context(ctx),
		retry.Attempts(s.attempts),
		retry.Delay(s.delay),
		retry.LastErrorOnly(true),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			s.logger.Debug().Err(err).Uint("n", n).Msg("server not reachable, trying again")
			return retry.BackOffDelay(n, err, config)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", address, err)
	}

	s.logger.Info().Msgf("connected to %s", address)
	return &Client[S, M]{
		conn:    conn,
		encoder: json.NewEncoder(conn),
		decoder: json.NewDecoder(conn),
		logger:  s.logger,
	}, nil
}

// FindMove sends state and waits for the server's move.
func (c *Client[S, M]) FindMove(state S) (M, error) {
	var none M
	if err := c.encoder.Encode(server.Request[S]{State: state}); err != nil {
		return none, fmt.Errorf("failed to send request: %w", err)
	}

	var response server.Response[M]
	if err := c.decoder.Decode(&response); err != nil {
		return none, fmt.Errorf("failed to read response: %w", err)
	}
	if response.Error != "" {
		return none, fmt.Errorf("%w: %s", ErrRejected, response.Error)
	}
	return response.Move, nil
}

func (c *Client[S, M]) Close() error {
	return c.conn.Close()
}
